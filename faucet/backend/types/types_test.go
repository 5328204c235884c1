package types

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/ethereum/go-ethereum/rpc"
)

func TestFaucetID(t *testing.T) {
	var id FaucetID
	require.NoError(t, id.UnmarshalText([]byte("foobar")))
	require.Equal(t, "foobar", id.String())

	data, err := id.MarshalText()
	require.NoError(t, err)
	require.Equal(t, "foobar", string(data))

	require.ErrorIs(t, id.UnmarshalText([]byte("")), ErrInvalidID)
	require.ErrorIs(t, id.UnmarshalText([]byte(strings.Repeat("a", 101))), ErrInvalidID)

	_, err = FaucetID("").MarshalText()
	require.ErrorIs(t, err, ErrInvalidID)
	_, err = FaucetID(strings.Repeat("a", 101)).MarshalText()
	require.ErrorIs(t, err, ErrInvalidID)
}

func TestRequesterIP(t *testing.T) {
	req := &FaucetRequest{}
	require.Equal(t, "", req.RequesterIP())

	req.RpcUser = &rpc.PeerInfo{RemoteAddr: "10.0.0.1:30303"}
	require.Equal(t, "10.0.0.1:30303", req.RequesterIP())

	req.RemoteIP = "192.168.1.1"
	require.Equal(t, "192.168.1.1", req.RequesterIP(), "explicit remote IP wins")
}
