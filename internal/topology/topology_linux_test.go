//go:build linux

package topology

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseCPUList(t *testing.T) {
	cases := map[string][]int{
		"":          nil,
		"0":         {0},
		"0-3":       {0, 1, 2, 3},
		"0-1,4,6-7": {0, 1, 4, 6, 7},
	}

	for in, want := range cases {
		got, err := parseCPUList(in)
		require.NoError(t, err)
		assert.Equal(t, want, got)
	}
}

func TestParseCPUListRejectsGarbage(t *testing.T) {
	_, err := parseCPUList("not-a-cpu-list")
	assert.Error(t, err)
}

type fakeNumaLib struct {
	available bool
	numNodes  int
}

func (f fakeNumaLib) Available() bool    { return f.available }
func (f fakeNumaLib) NumNodes() int       { return f.numNodes }
func (f fakeNumaLib) RunOnNode(int) error { return nil }

func TestLinuxProviderNumNodesFallsBackWhenUnavailable(t *testing.T) {
	orig := numaLib
	defer func() { numaLib = orig }()

	numaLib = fakeNumaLib{available: false}
	p := linuxProvider{}
	assert.Equal(t, 1, p.NumNodes())

	numaLib = fakeNumaLib{available: true, numNodes: 4}
	assert.Equal(t, 4, p.NumNodes())
}
