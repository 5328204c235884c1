package cliapp

import (
	"context"
	"errors"
	"fmt"

	"github.com/urfave/cli/v2"

	"github.com/devnet-tools/faucet/service/ctxinterrupt"
)

// Lifecycle is implemented by services that can be started and stopped.
type Lifecycle interface {
	// Start starts the service. A service fully started returns without error.
	// The provided ctx bounds the startup work, not the lifetime of the service.
	Start(ctx context.Context) error
	// Stop stops the service. The ctx bounds how long shutdown may take;
	// a cancelled ctx forces a less graceful shutdown.
	Stop(ctx context.Context) error
	// Stopped returns if the service is stopped or stopping.
	Stopped() bool
}

// LifecycleAction instantiates a Lifecycle from CLI state.
// The close function can be used by the service to request its own shutdown.
type LifecycleAction func(ctx *cli.Context, close context.CancelCauseFunc) (Lifecycle, error)

// LifecycleCmd turns a LifecycleAction into a command action:
// it instantiates the service, starts it, and runs it until
// an interrupt signal arrives or the service requests shutdown,
// then stops it gracefully. A second interrupt force-stops the service.
func LifecycleCmd(fn LifecycleAction) cli.ActionFunc {
	return func(cliCtx *cli.Context) error {
		hostCtx := cliCtx.Context
		appCtx, appCancel := context.WithCancelCause(hostCtx)
		cliCtx.Context = appCtx

		go func() {
			appCancel(ctxinterrupt.Wait(appCtx))
		}()

		appLifecycle, err := fn(cliCtx, appCancel)
		if err != nil {
			// the service could not be set up; pass along the cause of an early shutdown, if any
			return errors.Join(
				fmt.Errorf("failed to setup: %w", err),
				ctxErr(appCtx),
			)
		}

		if err := appLifecycle.Start(appCtx); err != nil {
			return errors.Join(
				fmt.Errorf("failed to start: %w", err),
				ctxErr(appCtx),
			)
		}

		// wait for the interrupt signal, or a service-requested shutdown
		<-appCtx.Done()

		// graceful stop, but force-quit on a second interrupt
		stopCtx, stopCancel := context.WithCancelCause(hostCtx)
		go func() {
			stopCancel(ctxinterrupt.Wait(stopCtx))
		}()

		stopErr := appLifecycle.Stop(stopCtx)
		stopCancel(nil)

		cause := context.Cause(appCtx)
		if errors.Is(cause, ctxinterrupt.ErrInterrupt) {
			cause = nil // interrupts are the regular way to stop, not an error
		}
		return errors.Join(stopErr, cause)
	}
}

func ctxErr(ctx context.Context) error {
	if ctx.Err() == nil {
		return nil
	}
	cause := context.Cause(ctx)
	if errors.Is(cause, ctxinterrupt.ErrInterrupt) {
		return nil
	}
	return cause
}

// ProtectFlags returns a copy of the flag list,
// so the caller can safely compose flag lists without mutating shared slices.
func ProtectFlags(flags []cli.Flag) []cli.Flag {
	out := make([]cli.Flag, len(flags))
	copy(out, flags)
	return out
}
