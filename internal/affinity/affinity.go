// Package affinity pins the calling OS thread to one CPU. Pinning is a
// locality hint; callers must not depend on it for correctness.
package affinity

import "runtime"

// PinWorker locks the calling goroutine to its OS thread and pins that
// thread to CPU worker mod NumCPU. On success the thread stays locked, and
// the runtime discards it (with its affinity mask) when the goroutine exits.
// On failure the goroutine is unlocked again.
func PinWorker(worker int) error {
	runtime.LockOSThread()
	if err := pin(worker % runtime.NumCPU()); err != nil {
		runtime.UnlockOSThread()
		return err
	}
	return nil
}
