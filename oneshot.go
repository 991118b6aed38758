package datagen

import (
	"context"
	"fmt"

	"github.com/synthstore/datagen/internal/metrics"
)

// OneShot is the convenience driver over the streaming engine: it
// builds a generator, fills out entirely, and tears the generator down
// before returning. len(out) must equal cfg.TotalSize.
func OneShot(ctx context.Context, cfg Config, recorder metrics.Recorder, out []byte) error {
	if uint64(len(out)) != cfg.TotalSize {
		return fmt.Errorf("datagen: OneShot buffer length %d does not match TotalSize %d: %w", len(out), cfg.TotalSize, ErrInvalidConfig)
	}

	g, err := NewGenerator(cfg, recorder)
	if err != nil {
		return err
	}
	defer g.Close()

	written := 0
	for !g.IsComplete() {
		n, err := g.FillChunk(ctx, out[written:])
		if err != nil {
			return err
		}
		written += n
	}
	return nil
}
