package pprofutil

import (
	"errors"
	"math"

	"github.com/urfave/cli/v2"
)

const (
	EnabledFlagName    = "pprof.enabled"
	ListenAddrFlagName = "pprof.addr"
	PortFlagName       = "pprof.port"
	defaultListenAddr  = "0.0.0.0"
	defaultListenPort  = 6060
)

func DefaultCLIConfig() CLIConfig {
	return CLIConfig{
		ListenEnabled: false,
		ListenAddr:    defaultListenAddr,
		ListenPort:    defaultListenPort,
	}
}

// CLIFlags creates flag definitions for the pprof server.
func CLIFlags(envPrefix string) []cli.Flag {
	return []cli.Flag{
		&cli.BoolFlag{
			Name:    EnabledFlagName,
			Usage:   "Enable the pprof server",
			EnvVars: []string{envPrefix + "_PPROF_ENABLED"},
		},
		&cli.StringFlag{
			Name:    ListenAddrFlagName,
			Usage:   "pprof listening address",
			Value:   defaultListenAddr,
			EnvVars: []string{envPrefix + "_PPROF_ADDR"},
		},
		&cli.IntFlag{
			Name:    PortFlagName,
			Usage:   "pprof listening port",
			Value:   defaultListenPort,
			EnvVars: []string{envPrefix + "_PPROF_PORT"},
		},
	}
}

type CLIConfig struct {
	ListenEnabled bool
	ListenAddr    string
	ListenPort    int
}

func (c CLIConfig) Check() error {
	if !c.ListenEnabled {
		return nil
	}
	if c.ListenPort < 0 || c.ListenPort > math.MaxUint16 {
		return errors.New("invalid pprof port")
	}
	return nil
}

func ReadCLIConfig(ctx *cli.Context) CLIConfig {
	return CLIConfig{
		ListenEnabled: ctx.Bool(EnabledFlagName),
		ListenAddr:    ctx.String(ListenAddrFlagName),
		ListenPort:    ctx.Int(PortFlagName),
	}
}
