package faucet

import (
	"context"
	"fmt"

	"github.com/urfave/cli/v2"

	"github.com/ethereum/go-ethereum/log"

	"github.com/devnet-tools/faucet/config"
	"github.com/devnet-tools/faucet/flags"
	opservice "github.com/devnet-tools/faucet/service"
	"github.com/devnet-tools/faucet/service/cliapp"
	oplog "github.com/devnet-tools/faucet/service/log"
)

// MainFn instantiates the service from its config. Swappable for testing.
type MainFn func(ctx context.Context, cfg *config.Config, logger log.Logger) (cliapp.Lifecycle, error)

// Main produces the CLI action that reads the flags, sets up logging,
// and hands a service lifecycle to the CLI app.
func Main(version string, fn MainFn) cliapp.LifecycleAction {
	return func(cliCtx *cli.Context, _ context.CancelCauseFunc) (cliapp.Lifecycle, error) {
		if err := flags.CheckRequired(cliCtx); err != nil {
			return nil, err
		}
		cfg := flags.ConfigFromCLI(cliCtx, version)
		if err := cfg.Check(); err != nil {
			return nil, fmt.Errorf("invalid CLI flags: %w", err)
		}

		l := oplog.NewLogger(oplog.AppOut(cliCtx), cfg.LogConfig)
		oplog.SetGlobalLogHandler(l.Handler())
		opservice.ValidateEnvVars(flags.EnvVarPrefix, flags.Flags, l)

		l.Info("initializing faucet service")
		return fn(cliCtx.Context, cfg, l)
	}
}
