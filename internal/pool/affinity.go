//go:build linux

package pool

import (
	"golang.org/x/sys/unix"
)

// PinCurrentThread restricts the calling OS thread to cpu, mirroring the
// teacher's hardware-affinity pattern and §5's "configurable CPU
// affinity" requirement. The caller must have already called
// runtime.LockOSThread.
func PinCurrentThread(cpu int) error {
	if cpu < 0 {
		return nil
	}
	var set unix.CPUSet
	set.Zero()
	set.Set(cpu)
	return unix.SchedSetaffinity(0, &set)
}

// SetRealtimePriority applies SCHED_FIFO at the given priority (1-99) to
// the calling OS thread, or leaves scheduling untouched if priority <= 0.
func SetRealtimePriority(priority int) error {
	if priority <= 0 {
		return nil
	}
	return unix.SchedSetscheduler(0, unix.SCHED_FIFO, &unix.SchedParam{Priority: int32(priority)})
}
