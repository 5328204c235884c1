// Package ctxinterrupt provides context-based handling of process interrupt signals.
package ctxinterrupt

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"
)

// ErrInterrupt is returned as context cause when an interrupt signal stopped the waiting.
var ErrInterrupt = errors.New("interrupt signal")

type waiterContextKey struct{}

// signalWaiter waits on a shared signal channel, so that late waiters
// do not miss signals delivered while no one was waiting.
type signalWaiter struct {
	sigCh chan os.Signal
}

func newSignalWaiter() *signalWaiter {
	// channel is buffered, to catch a signal before the waiter is actively selecting on it
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	return &signalWaiter{sigCh: sigCh}
}

func (w *signalWaiter) wait(ctx context.Context) error {
	select {
	case <-w.sigCh:
		return ErrInterrupt
	case <-ctx.Done():
		return context.Cause(ctx)
	}
}

// WithSignalWaiter attaches a signal waiter to the context,
// so that later Wait calls all consume from the same signal subscription.
func WithSignalWaiter(ctx context.Context) context.Context {
	if ctx.Value(waiterContextKey{}) != nil {
		return ctx
	}
	return context.WithValue(ctx, waiterContextKey{}, newSignalWaiter())
}

// WithSignalWaiterMain is like WithSignalWaiter, for use in a main entrypoint.
func WithSignalWaiterMain(ctx context.Context) context.Context {
	return WithSignalWaiter(ctx)
}

// Wait blocks until an interrupt signal is received, or the context is done.
// It returns ErrInterrupt on interrupt, and the context cause otherwise.
func Wait(ctx context.Context) error {
	if w, ok := ctx.Value(waiterContextKey{}).(*signalWaiter); ok {
		return w.wait(ctx)
	}
	w := newSignalWaiter()
	defer signal.Stop(w.sigCh)
	return w.wait(ctx)
}
