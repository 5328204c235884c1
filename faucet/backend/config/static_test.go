package config

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/ethereum/go-ethereum/crypto"

	"github.com/devnet-tools/faucet/service/endpoint"
	"github.com/devnet-tools/faucet/service/eth"
)

func TestSenderConfig_Key(t *testing.T) {
	key, err := crypto.GenerateKey()
	require.NoError(t, err)
	addr := crypto.PubkeyToAddress(key.PublicKey)

	t.Run("with 0x prefix", func(t *testing.T) {
		cfg := SenderConfig{PrivateKey: hexutil.Encode(crypto.FromECDSA(key))}
		got, err := cfg.Key()
		require.NoError(t, err)
		require.Equal(t, addr, crypto.PubkeyToAddress(got.PublicKey))
	})

	t.Run("without 0x prefix", func(t *testing.T) {
		cfg := SenderConfig{PrivateKey: hexutil.Encode(crypto.FromECDSA(key))[2:]}
		got, err := cfg.Key()
		require.NoError(t, err)
		require.Equal(t, addr, crypto.PubkeyToAddress(got.PublicKey))
	})

	t.Run("no key", func(t *testing.T) {
		cfg := SenderConfig{}
		_, err := cfg.Key()
		require.ErrorContains(t, err, "could not init signer")
	})

	t.Run("garbage key", func(t *testing.T) {
		cfg := SenderConfig{PrivateKey: "0xnope"}
		_, err := cfg.Key()
		require.ErrorContains(t, err, "could not init signer")
	})
}

func TestFaucetEntry_Check(t *testing.T) {
	key, err := crypto.GenerateKey()
	require.NoError(t, err)

	entry := FaucetEntry{
		ELRPC:   endpoint.MustRPC{Value: endpoint.URL("http://127.0.0.1:8545")},
		ChainID: eth.ChainIDFromUInt64(901),
		TxCfg:   SenderConfig{PrivateKey: hexutil.Encode(crypto.FromECDSA(key))},
	}
	require.NoError(t, entry.Check())
	require.Equal(t, DefaultAmount, entry.DispenseAmount())

	entry2 := entry
	entry2.Amount = eth.GWei(5)
	require.Equal(t, eth.GWei(5), entry2.DispenseAmount())

	entry3 := entry
	entry3.ELRPC = endpoint.MustRPC{}
	require.ErrorContains(t, entry3.Check(), "missing el_rpc")

	entry4 := entry
	entry4.TxCfg.PrivateKey = ""
	require.ErrorContains(t, entry4.Check(), "could not init signer")

	entry5 := entry
	entry5.QueueSize = -1
	require.ErrorContains(t, entry5.Check(), "negative queue size")
}

func TestDuration(t *testing.T) {
	var d Duration
	require.NoError(t, d.UnmarshalText([]byte("90m")))
	require.Equal(t, Duration(90*time.Minute), d)
	data, err := d.MarshalText()
	require.NoError(t, err)
	require.Equal(t, "1h30m0s", string(data))
	require.Error(t, d.UnmarshalText([]byte("soon")))
}

func TestQuotaConfig_Enabled(t *testing.T) {
	require.False(t, (&QuotaConfig{}).Enabled())
	require.True(t, (&QuotaConfig{Interval: Duration(time.Minute)}).Enabled())
}

func TestStaticConfigLoad(t *testing.T) {
	cfg := &Config{}
	result, err := cfg.Load(context.Background())
	require.NoError(t, err)
	require.Equal(t, cfg, result)
}
