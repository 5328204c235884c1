package main

import (
	"context"
	"io"
	"os"

	"github.com/urfave/cli/v2"

	"github.com/ethereum/go-ethereum/log"

	"github.com/devnet-tools/faucet/config"
	"github.com/devnet-tools/faucet/faucet"
	"github.com/devnet-tools/faucet/flags"
	"github.com/devnet-tools/faucet/metrics"
	opservice "github.com/devnet-tools/faucet/service"
	"github.com/devnet-tools/faucet/service/cliapp"
	"github.com/devnet-tools/faucet/service/ctxinterrupt"
	oplog "github.com/devnet-tools/faucet/service/log"
	"github.com/devnet-tools/faucet/service/metrics/doc"
)

var (
	Version   = "v0.0.0"
	GitCommit = ""
	GitDate   = ""
)

func main() {
	ctx := ctxinterrupt.WithSignalWaiterMain(context.Background())
	err := run(ctx, os.Stdout, os.Stderr, os.Args, fromConfig)
	if err != nil {
		log.Crit("Application failed", "message", err)
	}
}

func run(ctx context.Context, w io.Writer, ew io.Writer, args []string, fn faucet.MainFn) error {
	oplog.SetupDefaults()

	app := cli.NewApp()
	app.Writer = w
	app.ErrWriter = ew
	app.Flags = cliapp.ProtectFlags(flags.Flags)
	app.Version = opservice.FormatVersion(Version, GitCommit, GitDate, "")
	app.Name = "faucet"
	app.Usage = "faucet hosts configurable faucets to send test-ETH with."
	app.Description = "Faucet service for devnets.\n" +
		" Try the faucet RPC on /chain/{CHAIN_ID_HERE} or /faucet/{FAUCET_NAME_HERE},\n" +
		" or POST a funding request to /fund/{FAUCET_NAME_HERE}."
	app.Action = cliapp.LifecycleCmd(faucet.Main(app.Version, fn))
	app.Commands = []*cli.Command{
		{
			Name:        "doc",
			Subcommands: doc.NewSubcommands(metrics.NewMetrics("default")),
		},
	}
	return app.RunContext(ctx, args)
}

func fromConfig(ctx context.Context, cfg *config.Config, logger log.Logger) (cliapp.Lifecycle, error) {
	return faucet.FromConfig(ctx, cfg, logger)
}
