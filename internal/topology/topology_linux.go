//go:build linux

package topology

import (
	"fmt"
	"os"
	"runtime"
	"strconv"
	"strings"

	"github.com/lrita/numa"
	"golang.org/x/sys/unix"

	"github.com/synthstore/datagen/internal/logger"
)

// numaLibrary is the subset of github.com/lrita/numa this package calls,
// pulled out as an interface (mirroring gcsfuse's internal/perf numaLib
// indirection in internal/perf/numa_test.go) so tests can substitute a
// fake without a real NUMA-capable host.
type numaLibrary interface {
	Available() bool
	NumNodes() int
	RunOnNode(node int) error
}

type lritaNuma struct{}

func (lritaNuma) Available() bool { return numa.Available() }

func (lritaNuma) NumNodes() int {
	mask := numa.NodeMask()
	n := 0
	for i := 0; i < mask.Len(); i++ {
		if mask.Get(i) {
			n++
		}
	}
	if n == 0 {
		return 1
	}
	return n
}

func (lritaNuma) RunOnNode(node int) error { return numa.RunOnNode(node) }

// numaLib is a package variable so tests can swap in a fake, matching
// the pattern gcsfuse uses for its perf.numaLib.
var numaLib numaLibrary = lritaNuma{}

const sysNodeDir = "/sys/devices/system/node"

// linuxProvider is the Linux Provider implementation: node count and
// binding via github.com/lrita/numa, per-node CPU lists parsed from
// sysfs the way gcsfuse's getNetworkStatsPerNumaNode reads per-interface
// NUMA affinity from /sys/class/net (internal/perf/numa.go).
type linuxProvider struct{}

// New returns the Linux Provider.
func New() Provider { return linuxProvider{} }

func (linuxProvider) NumNodes() int {
	if !numaLib.Available() {
		return 1
	}
	return numaLib.NumNodes()
}

func (linuxProvider) CPUsOfNode(node int) ([]int, error) {
	if !numaLib.Available() {
		if node != 0 {
			return nil, fmt.Errorf("topology: node %d requested on a non-NUMA system: %w", node, ErrUnavailable)
		}
		return allCPUs(), nil
	}

	path := fmt.Sprintf("%s/node%d/cpulist", sysNodeDir, node)
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("topology: reading %s: %w", path, err)
	}
	return parseCPUList(strings.TrimSpace(string(data)))
}

func (p linuxProvider) AllocateLocal(node int, nbytes int) ([]byte, bool, error) {
	if nbytes <= 0 {
		return nil, true, nil
	}

	buf, err := mmapAnon(nbytes)
	if err != nil {
		return make([]byte, nbytes), false, nil
	}

	if !numaLib.Available() {
		return buf, false, nil
	}

	cpus, err := p.CPUsOfNode(node)
	if err != nil || len(cpus) == 0 {
		logger.Warnf("topology: could not determine CPUs for node %d, skipping first-touch: %v", node, err)
		return buf, false, nil
	}

	if err := firstTouch(buf, cpus[0]); err != nil {
		logger.Warnf("topology: first-touch binding to node %d failed: %v", node, err)
		return buf, false, nil
	}

	return buf, true, nil
}

func (linuxProvider) PinCurrentThread(cpu int) error {
	var set unix.CPUSet
	set.Zero()
	set.Set(cpu)
	if err := unix.SchedSetaffinity(0, &set); err != nil {
		return fmt.Errorf("%w: %v", ErrPinUnsupported, err)
	}
	return nil
}

// firstTouch pins the calling OS thread to cpu and writes one byte per
// page of buf, causing the kernel's demand-paging first-touch policy to
// place those pages on cpu's local memory domain.
func firstTouch(buf []byte, cpu int) error {
	runtime.LockOSThread()
	defer runtime.UnlockOSThread()

	var set unix.CPUSet
	set.Zero()
	set.Set(cpu)
	if err := unix.SchedSetaffinity(0, &set); err != nil {
		return err
	}

	pageSize := os.Getpagesize()
	for i := 0; i < len(buf); i += pageSize {
		buf[i] = buf[i]
	}
	return nil
}

func mmapAnon(nbytes int) ([]byte, error) {
	return unix.Mmap(-1, 0, nbytes, unix.PROT_READ|unix.PROT_WRITE, unix.MAP_ANON|unix.MAP_PRIVATE)
}

func allCPUs() []int {
	n := runtime.NumCPU()
	cpus := make([]int, n)
	for i := range cpus {
		cpus[i] = i
	}
	return cpus
}

// parseCPUList parses a Linux sysfs cpu-list string like "0-3,8,10-11"
// into a slice of individual CPU ids.
func parseCPUList(s string) ([]int, error) {
	if s == "" {
		return nil, nil
	}
	var out []int
	for _, part := range strings.Split(s, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		if dash := strings.IndexByte(part, '-'); dash >= 0 {
			lo, err := strconv.Atoi(part[:dash])
			if err != nil {
				return nil, fmt.Errorf("topology: parsing cpu range %q: %w", part, err)
			}
			hi, err := strconv.Atoi(part[dash+1:])
			if err != nil {
				return nil, fmt.Errorf("topology: parsing cpu range %q: %w", part, err)
			}
			for c := lo; c <= hi; c++ {
				out = append(out, c)
			}
			continue
		}
		c, err := strconv.Atoi(part)
		if err != nil {
			return nil, fmt.Errorf("topology: parsing cpu id %q: %w", part, err)
		}
		out = append(out, c)
	}
	return out, nil
}
