package backend

import (
	"context"
	"math/big"
	"testing"
	"time"

	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/ethereum/go-ethereum/core/vm"
	"github.com/ethereum/go-ethereum/log"

	"github.com/devnet-tools/faucet/faucet/backend/config"
	ftypes "github.com/devnet-tools/faucet/faucet/backend/types"
	"github.com/devnet-tools/faucet/metrics"
	"github.com/devnet-tools/faucet/service/eth"
	"github.com/devnet-tools/faucet/service/testlog"
)

type mockSender struct {
	mock.Mock
	from    common.Address
	chainID eth.ChainID
}

func (m *mockSender) From() common.Address {
	return m.from
}

func (m *mockSender) ChainID() eth.ChainID {
	return m.chainID
}

func (m *mockSender) Send(ctx context.Context, candidate TxCandidate) (*types.Receipt, error) {
	args := m.Called(ctx, candidate)
	if rec := args.Get(0); rec != nil {
		return rec.(*types.Receipt), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockSender) Close() {
	m.Called()
}

var _ TxSender = (*mockSender)(nil)

type stubBalance struct {
	balance *big.Int
	err     error
}

func (s *stubBalance) BalanceAt(ctx context.Context, account common.Address, blockNumber *big.Int) (*big.Int, error) {
	return s.balance, s.err
}

var _ ELBalance = (*stubBalance)(nil)

func TestFaucet(t *testing.T) {
	logger := testlog.Logger(t, log.LevelInfo)
	m := &metrics.NoopMetrics{}

	chainID := eth.ChainIDFromUInt64(123)
	fID := ftypes.FaucetID("foo")
	faucetAddr := common.HexToAddress("0x742d35Cc6634C0532925a3b8D0C9964E5Bade11E")
	reserve := eth.HundredEther.Add(eth.Ether(1)) // 101 eth

	sender := &mockSender{from: faucetAddr, chainID: chainID}
	el := &stubBalance{balance: reserve.ToBig()}
	f := faucetWithSender(logger, m, fID, sender, el, nil, eth.OneEther, config.DefaultQueueSize)

	balance, err := f.Balance()
	require.NoError(t, err)
	require.Equal(t, reserve, balance)

	require.Equal(t, chainID, f.ChainID())
	require.Equal(t, eth.OneEther, f.DispenseAmount())

	target := common.HexToAddress("0x15d34AAf54267DB7D7c367839AAf71A00a2C6A65")
	req := &ftypes.FaucetRequest{
		Target: target,
		Amount: eth.Ether(50),
	}

	wantHash := common.HexToHash("0xb10c")
	sender.On("Send", mock.Anything, mock.Anything).
		Run(func(args mock.Arguments) {
			candidate := args.Get(1).(TxCandidate)
			require.Nil(t, candidate.To, "must not do naive eth send")
			require.Equal(t, req.Amount, eth.WeiBig(candidate.Value))
			require.Equal(t, byte(vm.PUSH20), candidate.TxData[0])
			require.Equal(t, target[:], candidate.TxData[1:21])
			require.Equal(t, byte(vm.SELFDESTRUCT), candidate.TxData[21])
		}).
		Return(&types.Receipt{Status: types.ReceiptStatusSuccessful, TxHash: wantHash}, nil).Once()

	gotHash, err := f.RequestETH(context.Background(), req)
	require.NoError(t, err)
	require.Equal(t, wantHash, gotHash)

	req.Amount = reserve.Add(eth.Ether(1)) // beyond the reserve
	_, err = f.RequestETH(context.Background(), req)
	require.ErrorIs(t, err, ftypes.ErrInsufficientReserve)

	f.Disable()
	_, err = f.RequestETH(context.Background(), req)
	require.ErrorIs(t, err, ftypes.ErrFaucetDisabled)
	f.Enable()

	sender.On("Close").Once()
	f.Close()

	// requests after close are denied
	_, err = f.RequestETH(context.Background(), req)
	require.ErrorIs(t, err, ftypes.ErrFaucetDisabled)

	sender.AssertExpectations(t)
}

func TestFaucetRevertedTx(t *testing.T) {
	logger := testlog.Logger(t, log.LevelInfo)
	m := &metrics.NoopMetrics{}

	sender := &mockSender{chainID: eth.ChainIDFromUInt64(123)}
	el := &stubBalance{balance: eth.HundredEther.ToBig()}
	f := faucetWithSender(logger, m, "foo", sender, el, nil, eth.OneEther, config.DefaultQueueSize)

	sender.On("Send", mock.Anything, mock.Anything).
		Return(&types.Receipt{Status: types.ReceiptStatusFailed, TxHash: common.HexToHash("0xdead")}, nil).Once()

	_, err := f.RequestETH(context.Background(), &ftypes.FaucetRequest{
		Target: common.HexToAddress("0x15d34AAf54267DB7D7c367839AAf71A00a2C6A65"),
		Amount: eth.OneEther,
	})
	require.ErrorContains(t, err, "reverted")

	sender.On("Close").Once()
	f.Close()
	sender.AssertExpectations(t)
}

func TestFaucetQueueFull(t *testing.T) {
	logger := testlog.Logger(t, log.LevelInfo)
	m := &metrics.NoopMetrics{}

	sender := &mockSender{chainID: eth.ChainIDFromUInt64(123)}
	el := &stubBalance{balance: eth.HundredEther.ToBig()}
	f := faucetWithSender(logger, m, "foo", sender, el, nil, eth.OneEther, 1)

	entered := make(chan struct{}, 2)
	release := make(chan struct{})
	sender.On("Send", mock.Anything, mock.Anything).
		Run(func(mock.Arguments) {
			entered <- struct{}{}
			<-release
		}).
		Return(&types.Receipt{Status: types.ReceiptStatusSuccessful}, nil).Times(2)

	req := &ftypes.FaucetRequest{
		Target: common.HexToAddress("0x15d34AAf54267DB7D7c367839AAf71A00a2C6A65"),
		Amount: eth.OneEther,
	}

	errs := make(chan error, 2)
	go func() {
		_, err := f.RequestETH(context.Background(), req)
		errs <- err
	}()
	// wait for the worker to pick up the first request
	<-entered

	go func() {
		_, err := f.RequestETH(context.Background(), req)
		errs <- err
	}()
	// the second request occupies the single queue slot
	require.Eventually(t, func() bool {
		return len(f.jobs) == 1
	}, time.Second*10, time.Millisecond)

	// a saturated queue rejects immediately rather than blocking the caller
	_, err := f.RequestETH(context.Background(), req)
	require.ErrorIs(t, err, ftypes.ErrFaucetBusy)

	close(release)
	require.NoError(t, <-errs)
	require.NoError(t, <-errs)

	sender.On("Close").Once()
	f.Close()
	sender.AssertExpectations(t)
}

func TestFaucetRateLimited(t *testing.T) {
	logger := testlog.Logger(t, log.LevelInfo)
	m := &metrics.NoopMetrics{}

	limiter, err := NewRateLimiter(config.QuotaConfig{
		Interval: config.Duration(time.Hour),
		Burst:    1,
	})
	require.NoError(t, err)

	sender := &mockSender{chainID: eth.ChainIDFromUInt64(123)}
	el := &stubBalance{balance: eth.HundredEther.ToBig()}
	f := faucetWithSender(logger, m, "foo", sender, el, limiter, eth.OneEther, config.DefaultQueueSize)

	sender.On("Send", mock.Anything, mock.Anything).
		Return(&types.Receipt{Status: types.ReceiptStatusSuccessful}, nil).Once()

	req := &ftypes.FaucetRequest{
		RemoteIP: "198.51.100.7",
		Target:   common.HexToAddress("0x15d34AAf54267DB7D7c367839AAf71A00a2C6A65"),
		Amount:   eth.OneEther,
	}
	_, err = f.RequestETH(context.Background(), req)
	require.NoError(t, err)

	// same identity is out of quota now
	_, err = f.RequestETH(context.Background(), req)
	require.ErrorIs(t, err, ftypes.ErrRateLimited)

	sender.On("Close").Once()
	f.Close()
	sender.AssertExpectations(t)
}
