//go:build !linux

package affinity

// Supported reports whether pinning has an effect on this platform.
const Supported = false

func pin(int) error { return nil }
