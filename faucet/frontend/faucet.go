package frontend

import (
	"context"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/rpc"

	ftypes "github.com/devnet-tools/faucet/faucet/backend/types"
	"github.com/devnet-tools/faucet/service/eth"
)

type FaucetBackend interface {
	ChainID() eth.ChainID
	RequestETH(ctx context.Context, request *ftypes.FaucetRequest) (common.Hash, error)
	Balance() (eth.ETH, error)
	DispenseAmount() eth.ETH
}

type FaucetFrontend struct {
	b FaucetBackend
}

func NewFaucetFrontend(b FaucetBackend) *FaucetFrontend {
	return &FaucetFrontend{b: b}
}

func (f *FaucetFrontend) ChainID(ctx context.Context) (eth.ChainID, error) {
	return f.b.ChainID(), nil
}

// RequestETH funds the given address, and returns the funding tx hash.
func (f *FaucetFrontend) RequestETH(ctx context.Context, addr common.Address, amount eth.ETH) (common.Hash, error) {
	info := rpc.PeerInfoFromContext(ctx)
	request := &ftypes.FaucetRequest{
		RpcUser: &info,
		Target:  addr,
		Amount:  amount,
	}
	return f.b.RequestETH(ctx, request)
}

func (f *FaucetFrontend) Balance(ctx context.Context) (eth.ETH, error) {
	return f.b.Balance()
}
