package config

import (
	"context"
	"crypto/ecdsa"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/ethereum/go-ethereum/crypto"

	ftypes "github.com/devnet-tools/faucet/faucet/backend/types"
	"github.com/devnet-tools/faucet/service/endpoint"
	"github.com/devnet-tools/faucet/service/eth"
)

const (
	// DefaultQueueSize is the dispense-queue capacity when unconfigured.
	DefaultQueueSize = 32
	// DefaultQuotaCacheSize caps the number of tracked requester identities when unconfigured.
	DefaultQuotaCacheSize = 10_000
)

// DefaultAmount is the dispensed amount when unconfigured.
var DefaultAmount = eth.OneEther

// Duration wraps time.Duration with text (un)marshaling,
// so YAML configs can use values like "1h30m".
type Duration time.Duration

func (d Duration) MarshalText() ([]byte, error) {
	return []byte(time.Duration(d).String()), nil
}

func (d *Duration) UnmarshalText(data []byte) error {
	v, err := time.ParseDuration(string(data))
	if err != nil {
		return fmt.Errorf("invalid duration %q: %w", string(data), err)
	}
	*d = Duration(v)
	return nil
}

// SenderConfig configures the funding account of a faucet.
type SenderConfig struct {
	// PrivateKey to fund requests with. Hex encoded, 0x prefix optional.
	PrivateKey string `yaml:"private_key"`
}

// Key parses the configured private key.
func (s *SenderConfig) Key() (*ecdsa.PrivateKey, error) {
	raw := strings.TrimPrefix(s.PrivateKey, "0x")
	if raw == "" {
		return nil, errors.New("could not init signer: missing private key")
	}
	key, err := crypto.HexToECDSA(raw)
	if err != nil {
		return nil, fmt.Errorf("could not init signer: %w", err)
	}
	return key, nil
}

// QuotaConfig configures the per-requester rate limit of a faucet.
// A zero Interval disables rate-limiting.
type QuotaConfig struct {
	// Interval is the time to fully replenish one request of quota.
	Interval Duration `yaml:"interval,omitempty"`
	// Burst is the number of requests a fresh requester may make back-to-back. Defaults to 1.
	Burst int `yaml:"burst,omitempty"`
	// CacheSize caps the number of tracked requester identities.
	CacheSize int `yaml:"cache_size,omitempty"`
}

func (q *QuotaConfig) Enabled() bool {
	return q.Interval > 0
}

// FaucetEntry configures a single faucet.
type FaucetEntry struct {
	ELRPC endpoint.MustRPC `yaml:"el_rpc"`

	// ChainID is used to sanity-check we are connected to the right chain,
	// and never accidentally try to use a different chain for faucet work.
	ChainID eth.ChainID `yaml:"chain_id"`

	TxCfg SenderConfig `yaml:"tx_cfg"`

	// Amount is the fixed amount of wei dispensed per request.
	// Defaults to DefaultAmount.
	Amount eth.ETH `yaml:"amount,omitempty"`

	// RateLimit is the per-requester quota. Unset means unlimited.
	RateLimit QuotaConfig `yaml:"rate_limit,omitempty"`

	// QueueSize bounds the number of pending dispense jobs.
	// Defaults to DefaultQueueSize.
	QueueSize int `yaml:"queue_size,omitempty"`
}

// DispenseAmount returns the configured fixed dispense amount, or the default.
func (f *FaucetEntry) DispenseAmount() eth.ETH {
	if f.Amount.IsZero() {
		return DefaultAmount
	}
	return f.Amount
}

func (f *FaucetEntry) Check() error {
	var result error
	if f.ELRPC.Value == nil || f.ELRPC.Value.RPC() == "" {
		result = errors.Join(result, errors.New("missing el_rpc"))
	}
	if _, err := f.TxCfg.Key(); err != nil {
		result = errors.Join(result, err)
	}
	if f.QueueSize < 0 {
		result = errors.Join(result, errors.New("negative queue size"))
	}
	if f.RateLimit.Burst < 0 {
		result = errors.Join(result, errors.New("negative rate-limit burst"))
	}
	return result
}

// Config configures the available set of faucets and faucet usage.
type Config struct {
	// Faucets lists all faucets by ID
	Faucets map[ftypes.FaucetID]*FaucetEntry `yaml:"faucets,omitempty"`

	// Defaults identifies the faucet to use by chain ID.
	// If unspecified, the faucet with the lowest faucet-ID for a given chain will be used.
	Defaults map[eth.ChainID]ftypes.FaucetID `yaml:"defaults,omitempty"`
}

var _ Loader = (*Config)(nil)

// Load is implemented on the Config itself,
// so that a static already-instantiated config can be used for in-process service setup,
// to bypass the YAML loading.
func (c *Config) Load(ctx context.Context) (*Config, error) {
	return c, nil
}
