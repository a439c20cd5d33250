// Package sched provides the repeating-task abstraction the game timers run on.
// All implementations invoke callbacks on a single control thread, so game
// state touched from a callback never needs its own locking.
package sched

import "time"

// Scheduler registers repeating callbacks.
type Scheduler interface {
	// Every runs fn once per interval until the returned task is cancelled.
	// The first call happens one interval after registration.
	Every(interval time.Duration, fn func()) Task
}

// Task is a handle to a repeating callback.
type Task interface {
	// Cancel stops the task. Once Cancel returns, fn is never invoked again.
	// Cancelling twice is a no-op.
	Cancel()
}
