package run

import (
	"context"
	"errors"
	"io"
	"os"
	"os/signal"
	"strconv"
	"syscall"

	"github.com/golang/glog"
)

// Group runs multiple Runnables and collects errors.
type Group struct {
	Context   context.Context
	Runnables []Runnable

	errCh  chan error
	exitCh chan struct{}
}

// NewGroup creates a group with a default background context.
func NewGroup() *Group {
	return NewGroupWith(context.Background())
}

// NewGroupWith creates a group with a specified context.
func NewGroupWith(ctx context.Context) *Group {
	return &Group{
		Context: ctx,
		errCh:   make(chan error, 1),
		exitCh:  make(chan struct{}),
	}
}

// HandleSignals handles CtrlC and SIGTERM from the system.
func (g *Group) HandleSignals() *Group {
	ctx, cancel := context.WithCancel(g.Context)
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	g.Context = ctx
	go func() {
		<-sigCh
		glog.Info("stop requested")
		cancel()
		<-sigCh
		glog.Error("stop requested again, force exit")
		close(g.exitCh)
	}()
	return g
}

// Go spawns a Runnable with default context.
func (g *Group) Go(runnables ...Runnable) *Group {
	return g.GoWith(g.Context, runnables...)
}

// GoWith spawns a Runnable with a specified context.
func (g *Group) GoWith(ctx context.Context, runnables ...Runnable) *Group {
	for _, runnable := range runnables {
		var name string
		if named, ok := runnable.(Named); ok {
			name = named.Name()
		} else {
			name = strconv.Itoa(len(g.Runnables))
		}
		g.Runnables = append(g.Runnables, runnable)
		glog.V(4).Infof("start Runnable[%s]", name)
		go func(runnable Runnable, name string) {
			glog.V(4).Infof("Runnable[%s] started", name)
			g.errCh <- runnable.Run(ctx)
			glog.V(4).Infof("Runnable[%s] stopped", name)
		}(runnable, name)
	}
	return g
}

// Wait waits until all Runnables stop and aggregates errors.
func (g *Group) Wait() error {
	var errs AggregatedError
	for range g.Runnables {
		select {
		case <-g.exitCh:
			return errors.New("forced exit")
		case err := <-g.errCh:
			if err != context.Canceled {
				errs.Add(err)
			}
		}
	}
	return errs.Aggregate()
}

// RunWithContextCancel runs a func which doesn't accept a context.
// cancel is called only when the context is canceled.
func RunWithContextCancel(ctx context.Context, onCancel func(), fn func() error) error {
	errCh := make(chan error, 1)
	go func() {
		errCh <- fn()
	}()
	select {
	case <-ctx.Done():
		if onCancel != nil {
			onCancel()
		}
		<-errCh
		return context.Canceled
	case err := <-errCh:
		return err
	}
}

// RunWithContext is simplified form with no cancel callback.
func RunWithContext(ctx context.Context, fn func() error) error {
	return RunWithContextCancel(ctx, nil, fn)
}

// RunWithContextCloser is a convinient wrapper for RunWithContextCancel and
// ensures closer.Close is either called on cancel or exit of fn.
func RunWithContextCloser(ctx context.Context, closer io.Closer, fn func() error) error {
	var closed bool
	err := RunWithContextCancel(ctx, func() {
		closer.Close()
		closed = true
	}, fn)
	if !closed {
		closer.Close()
	}
	return err
}
