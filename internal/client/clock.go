package client

import "time"

// Timer is a cancelable one-shot timer.
type Timer interface {
	Stop() bool
}

// Clock schedules the ack timeout and reconnect delays. Tests substitute a
// manual implementation so timing behavior is deterministic.
type Clock interface {
	AfterFunc(d time.Duration, f func()) Timer
}

type systemClock struct{}

// SystemClock returns a Clock backed by the runtime timers.
func SystemClock() Clock { return systemClock{} }

func (systemClock) AfterFunc(d time.Duration, f func()) Timer {
	return time.AfterFunc(d, f)
}
