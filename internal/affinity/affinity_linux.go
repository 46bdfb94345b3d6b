//go:build linux

package affinity

import "golang.org/x/sys/unix"

// Supported reports whether pinning has an effect on this platform.
const Supported = true

func pin(cpu int) error {
	var set unix.CPUSet
	set.Zero()
	set.Set(cpu)
	return unix.SchedSetaffinity(0, &set)
}
