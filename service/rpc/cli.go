package rpc

import (
	"errors"
	"math"

	"github.com/urfave/cli/v2"
)

const (
	ListenAddrFlagName  = "rpc.addr"
	PortFlagName        = "rpc.port"
	EnableAdminFlagName = "rpc.enable-admin"
	defaultListenAddr   = "0.0.0.0"
	defaultListenPort   = 8545
)

func DefaultCLIConfig() CLIConfig {
	return CLIConfig{
		ListenAddr:  defaultListenAddr,
		ListenPort:  defaultListenPort,
		EnableAdmin: false,
	}
}

// CLIFlags creates flag definitions for the RPC server.
func CLIFlags(envPrefix string) []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:    ListenAddrFlagName,
			Usage:   "RPC listening address",
			Value:   defaultListenAddr,
			EnvVars: []string{envPrefix + "_RPC_ADDR"},
		},
		&cli.IntFlag{
			Name:    PortFlagName,
			Usage:   "RPC listening port",
			Value:   defaultListenPort,
			EnvVars: []string{envPrefix + "_RPC_PORT"},
		},
		&cli.BoolFlag{
			Name:    EnableAdminFlagName,
			Usage:   "Enable the admin API",
			EnvVars: []string{envPrefix + "_RPC_ENABLE_ADMIN"},
		},
	}
}

type CLIConfig struct {
	ListenAddr  string
	ListenPort  int
	EnableAdmin bool
}

func (c CLIConfig) Check() error {
	if c.ListenPort < 0 || c.ListenPort > math.MaxUint16 {
		return errors.New("invalid RPC port")
	}
	return nil
}

func ReadCLIConfig(ctx *cli.Context) CLIConfig {
	return CLIConfig{
		ListenAddr:  ctx.String(ListenAddrFlagName),
		ListenPort:  ctx.Int(PortFlagName),
		EnableAdmin: ctx.Bool(EnableAdminFlagName),
	}
}
