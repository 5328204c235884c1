package backend

import (
	"context"
	"math/big"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/ethereum/go-ethereum/log"

	"github.com/devnet-tools/faucet/service/eth"
	"github.com/devnet-tools/faucet/service/testlog"
)

// fakeEL serves canned chain data, and mines every published tx instantly.
type fakeEL struct {
	mu sync.Mutex

	chainID *big.Int
	nonce   uint64
	baseFee *big.Int
	tip     *big.Int
	gas     uint64

	sent     []*types.Transaction
	receipts map[common.Hash]*types.Receipt
}

var _ ELClient = (*fakeEL)(nil)

func (f *fakeEL) ChainID(ctx context.Context) (*big.Int, error) {
	return f.chainID, nil
}

func (f *fakeEL) BalanceAt(ctx context.Context, account common.Address, blockNumber *big.Int) (*big.Int, error) {
	return big.NewInt(0), nil
}

func (f *fakeEL) PendingNonceAt(ctx context.Context, account common.Address) (uint64, error) {
	return f.nonce, nil
}

func (f *fakeEL) HeaderByNumber(ctx context.Context, number *big.Int) (*types.Header, error) {
	return &types.Header{BaseFee: f.baseFee}, nil
}

func (f *fakeEL) SuggestGasTipCap(ctx context.Context) (*big.Int, error) {
	return f.tip, nil
}

func (f *fakeEL) EstimateGas(ctx context.Context, msg ethereum.CallMsg) (uint64, error) {
	return f.gas, nil
}

func (f *fakeEL) SendTransaction(ctx context.Context, tx *types.Transaction) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.sent = append(f.sent, tx)
	f.receipts[tx.Hash()] = &types.Receipt{
		Status: types.ReceiptStatusSuccessful,
		TxHash: tx.Hash(),
	}
	return nil
}

func (f *fakeEL) TransactionReceipt(ctx context.Context, txHash common.Hash) (*types.Receipt, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	rec, ok := f.receipts[txHash]
	if !ok {
		return nil, ethereum.NotFound
	}
	return rec, nil
}

func (f *fakeEL) Close() {}

func TestSimpleSenderChainIDCheck(t *testing.T) {
	logger := testlog.Logger(t, log.LevelInfo)
	key, err := crypto.GenerateKey()
	require.NoError(t, err)

	el := &fakeEL{chainID: big.NewInt(999), receipts: make(map[common.Hash]*types.Receipt)}
	_, err = NewSimpleSender(context.Background(), logger, el, key, eth.ChainIDFromUInt64(123), DefaultSenderTimings)
	require.ErrorContains(t, err, "unexpected chain ID")
}

func TestSimpleSenderSend(t *testing.T) {
	logger := testlog.Logger(t, log.LevelInfo)
	key, err := crypto.GenerateKey()
	require.NoError(t, err)
	from := crypto.PubkeyToAddress(key.PublicKey)

	chainID := eth.ChainIDFromUInt64(123)
	el := &fakeEL{
		chainID:  big.NewInt(123),
		nonce:    7,
		baseFee:  big.NewInt(1000),
		tip:      big.NewInt(2),
		gas:      53_000,
		receipts: make(map[common.Hash]*types.Receipt),
	}
	s, err := NewSimpleSender(context.Background(), logger, el, key, chainID, DefaultSenderTimings)
	require.NoError(t, err)
	require.Equal(t, from, s.From())
	require.Equal(t, chainID, s.ChainID())

	rec, err := s.Send(context.Background(), TxCandidate{
		TxData: []byte{0x01},
		To:     nil,
		Value:  big.NewInt(1000),
	})
	require.NoError(t, err)
	require.Equal(t, types.ReceiptStatusSuccessful, rec.Status)

	require.Len(t, el.sent, 1)
	tx := el.sent[0]
	require.Equal(t, uint64(7), tx.Nonce())
	require.Equal(t, uint64(53_000), tx.Gas())
	require.Nil(t, tx.To())
	require.Equal(t, big.NewInt(1000), tx.Value())
	// fee cap = tip + 2 * baseFee
	require.Equal(t, big.NewInt(2002), tx.GasFeeCap())
	require.Equal(t, big.NewInt(2), tx.GasTipCap())

	signer := types.LatestSignerForChainID(chainID.ToBig())
	sender, err := types.Sender(signer, tx)
	require.NoError(t, err)
	require.Equal(t, from, sender)
}
