// Package run supervises the long-running pieces of the bridge:
// relay loops, remote channels and the trace plumbing. A Group spawns
// Runnables, propagates shutdown signals and aggregates their errors.
package run

import "context"

// Runnable defines a generic interface for background runners.
type Runnable interface {
	Run(context.Context) error
}

// Func is the func form of Runnable.
type Func func(context.Context) error

// Run implements Runnable.
func (f Func) Run(ctx context.Context) error {
	return f(ctx)
}

// Named is an abstraction for things with a name.
type Named interface {
	Name() string
}

type namedRunnable struct {
	Runnable
	name string
}

func (r *namedRunnable) Name() string {
	return r.name
}

// WithName wraps a Runnable with a name for logging.
func WithName(name string, runnable Runnable) Runnable {
	return &namedRunnable{name: name, Runnable: runnable}
}
