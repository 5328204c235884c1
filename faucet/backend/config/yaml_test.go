package config

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	ftypes "github.com/devnet-tools/faucet/faucet/backend/types"
	"github.com/devnet-tools/faucet/service/eth"
)

func TestYamlLoader_Load(t *testing.T) {
	x := &YamlLoader{Path: filepath.Join(".", "testdata", "config.yaml")}
	result, err := x.Load(context.Background())
	require.NoError(t, err)
	require.Len(t, result.Faucets, 2)

	entry := result.Faucets[ftypes.FaucetID("dev-1")]
	require.NotNil(t, entry)
	require.Equal(t, "http://127.0.0.1:8545", entry.ELRPC.Value.RPC())
	require.Equal(t, 0, entry.ChainID.Cmp(eth.ChainIDFromUInt64(901)))
	require.Equal(t, eth.OneEther, entry.Amount)
	require.Equal(t, Duration(time.Hour), entry.RateLimit.Interval)
	require.Equal(t, 2, entry.RateLimit.Burst)
	require.Equal(t, 5000, entry.RateLimit.CacheSize)
	require.Equal(t, 16, entry.QueueSize)
	require.NoError(t, entry.Check())

	require.Equal(t, ftypes.FaucetID("dev-1"), result.Defaults[eth.ChainIDFromUInt64(901)])
}

func TestYamlLoader_NotFound(t *testing.T) {
	x := &YamlLoader{Path: filepath.Join(t.TempDir(), "missing.yaml")}
	_, err := x.Load(context.Background())
	require.ErrorContains(t, err, "failed to read config")
}

func TestYamlLoader_Invalid(t *testing.T) {
	p := filepath.Join(t.TempDir(), "invalid.yaml")
	// Strictly speaking a valid yaml map, but missing all the data.
	// The config decoder is strict.
	require.NoError(t, os.WriteFile(p, []byte("foobar: invalid"), 0755))

	x := &YamlLoader{Path: p}
	_, err := x.Load(context.Background())
	require.ErrorContains(t, err, "field foobar not found")
}
