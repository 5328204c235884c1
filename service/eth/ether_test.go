package eth

import (
	"math/big"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestETHString(t *testing.T) {
	require.Equal(t, "0 wei", ZeroWei.String())
	require.Equal(t, "1 wei", OneWei.String())
	require.Equal(t, "1 gwei", OneGWei.String())
	require.Equal(t, "1 ether", OneEther.String())
	require.Equal(t, "1,000 ether", ThousandEther.String())
	require.Equal(t, "1,000,000,001 wei", GWei(1).Add(OneWei).String())
}

func TestETHArithmetic(t *testing.T) {
	require.Equal(t, Ether(3), Ether(1).Add(Ether(2)))
	require.Equal(t, Ether(1), Ether(3).Sub(Ether(2)))
	require.True(t, Ether(1).Lt(Ether(2)))
	require.True(t, Ether(2).Gt(Ether(1)))
	require.True(t, ZeroWei.IsZero())
	require.False(t, OneWei.IsZero())
	require.Panics(t, func() {
		ZeroWei.Sub(OneWei)
	})
}

func TestETHConversions(t *testing.T) {
	require.Equal(t, big.NewInt(1e9), OneGWei.ToBig())
	require.Equal(t, OneGWei, WeiBig(big.NewInt(1e9)))
	require.Equal(t, float64(1e9), OneGWei.WeiFloat())
	require.Panics(t, func() {
		WeiBig(big.NewInt(-1))
	})
}

func TestETHText(t *testing.T) {
	data, err := Ether(2).MarshalText()
	require.NoError(t, err)
	require.Equal(t, "2000000000000000000", string(data))

	var e ETH
	require.NoError(t, e.UnmarshalText([]byte("2000000000000000000")))
	require.Equal(t, Ether(2), e)
	require.NoError(t, e.UnmarshalText([]byte("0x1")))
	require.Equal(t, OneWei, e)
}

func TestChainID(t *testing.T) {
	id := ChainIDFromUInt64(901)
	require.Equal(t, "901", id.String())
	require.Equal(t, big.NewInt(901), id.ToBig())
	require.Equal(t, 0, id.Cmp(ChainIDFromBig(big.NewInt(901))))

	data, err := id.MarshalText()
	require.NoError(t, err)
	var id2 ChainID
	require.NoError(t, id2.UnmarshalText(data))
	require.Equal(t, id, id2)

	require.Error(t, id2.UnmarshalText([]byte("not-a-number")))
}
