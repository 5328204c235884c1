package config

import (
	"errors"

	fconf "github.com/devnet-tools/faucet/faucet/backend/config"
	oplog "github.com/devnet-tools/faucet/service/log"
	opmetrics "github.com/devnet-tools/faucet/service/metrics"
	"github.com/devnet-tools/faucet/service/pprofutil"
	oprpc "github.com/devnet-tools/faucet/service/rpc"
)

const (
	DefaultConfigYaml = "config.yaml"
)

type Config struct {
	Version string

	LogConfig     oplog.CLIConfig
	MetricsConfig opmetrics.CLIConfig
	PprofConfig   pprofutil.CLIConfig
	RPC           oprpc.CLIConfig

	Faucets fconf.Loader
}

func (c *Config) Check() error {
	var result error
	result = errors.Join(result, c.MetricsConfig.Check())
	result = errors.Join(result, c.PprofConfig.Check())
	result = errors.Join(result, c.RPC.Check())
	return result
}

func DefaultCLIConfig() *Config {
	return &Config{
		Version:       "dev",
		LogConfig:     oplog.DefaultCLIConfig(),
		MetricsConfig: opmetrics.DefaultCLIConfig(),
		PprofConfig:   pprofutil.DefaultCLIConfig(),
		RPC:           oprpc.DefaultCLIConfig(),
		Faucets:       &fconf.YamlLoader{Path: DefaultConfigYaml},
	}
}
