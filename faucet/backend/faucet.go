package backend

import (
	"context"
	"fmt"
	"math/big"
	"sync"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/ethereum/go-ethereum/core/vm"
	"github.com/ethereum/go-ethereum/ethclient"
	"github.com/ethereum/go-ethereum/log"

	"github.com/devnet-tools/faucet/faucet/backend/config"
	ftypes "github.com/devnet-tools/faucet/faucet/backend/types"
	"github.com/devnet-tools/faucet/faucet/frontend"
	"github.com/devnet-tools/faucet/metrics"
	"github.com/devnet-tools/faucet/service/eth"
)

type dispenseResult struct {
	txHash common.Hash
	err    error
}

// dispenseJob is a queued funding request; the result channel has capacity 1
// so the worker never blocks on a caller that gave up waiting.
type dispenseJob struct {
	req    *ftypes.FaucetRequest
	result chan dispenseResult
}

// Faucet dispenses funds from a single funding reserve on a single chain.
// Requests are rate-limited per requester identity and then serialized
// through a bounded queue, consumed by one worker goroutine,
// so the funding account nonce never races.
type Faucet struct {
	mu sync.RWMutex

	log log.Logger
	m   metrics.Metricer

	id       ftypes.FaucetID
	chainID  eth.ChainID
	sender   TxSender
	elClient ELBalance
	limiter  *RateLimiter

	// amount dispensed per fixed-amount request
	amount eth.ETH

	jobs chan *dispenseJob
	quit chan struct{}
	wg   sync.WaitGroup

	closeOnce sync.Once

	// true when the faucet is disabled and may not serve any new faucet requests
	disabled bool
}

// ELBalance reads account balances from the execution layer.
type ELBalance interface {
	BalanceAt(ctx context.Context, account common.Address, blockNumber *big.Int) (*big.Int, error)
}

var _ frontend.FaucetBackend = (*Faucet)(nil)

// FaucetFromConfig dials the configured chain and sets up a running faucet.
func FaucetFromConfig(logger log.Logger, m metrics.Metricer, fID ftypes.FaucetID, fCfg *config.FaucetEntry) (*Faucet, error) {
	logger = logger.New("faucet", fID, "chain", fCfg.ChainID)
	if err := fCfg.Check(); err != nil {
		return nil, fmt.Errorf("invalid faucet config: %w", err)
	}
	key, err := fCfg.TxCfg.Key()
	if err != nil {
		return nil, err
	}
	elClient, err := ethclient.Dial(fCfg.ELRPC.Value.RPC())
	if err != nil {
		return nil, fmt.Errorf("failed to dial EL client: %w", err)
	}
	sender, err := NewSimpleSender(context.Background(), logger, elClient, key, fCfg.ChainID, DefaultSenderTimings)
	if err != nil {
		elClient.Close()
		return nil, fmt.Errorf("failed to setup sender: %w", err)
	}
	limiter, err := NewRateLimiter(fCfg.RateLimit)
	if err != nil {
		elClient.Close()
		return nil, fmt.Errorf("failed to setup rate limiter: %w", err)
	}
	queueSize := fCfg.QueueSize
	if queueSize == 0 {
		queueSize = config.DefaultQueueSize
	}
	return faucetWithSender(logger, m, fID, sender, elClient, limiter, fCfg.DispenseAmount(), queueSize), nil
}

func faucetWithSender(logger log.Logger, m metrics.Metricer, fID ftypes.FaucetID,
	sender TxSender, elClient ELBalance, limiter *RateLimiter, amount eth.ETH, queueSize int) *Faucet {
	f := &Faucet{
		log:      logger,
		m:        m,
		id:       fID,
		chainID:  sender.ChainID(),
		sender:   sender,
		elClient: elClient,
		limiter:  limiter,
		amount:   amount,
		jobs:     make(chan *dispenseJob, queueSize),
		quit:     make(chan struct{}),
		disabled: false,
	}
	f.wg.Add(1)
	go f.run()
	return f
}

func (f *Faucet) Enable() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.log.Info("enabling faucet")
	f.disabled = false
}

func (f *Faucet) Disable() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.log.Info("disabling faucet")
	f.disabled = true
}

// Close disables the faucet, stops the dispense worker, and disconnects.
func (f *Faucet) Close() {
	f.log.Info("closing faucet")
	f.Disable()
	f.closeOnce.Do(func() {
		close(f.quit)
	})
	f.wg.Wait()
	f.sender.Close()
}

// Balance returns the current funding-reserve balance.
func (f *Faucet) Balance() (eth.ETH, error) {
	wallet := f.sender.From()
	balance, err := f.elClient.BalanceAt(context.Background(), wallet, nil)
	if err != nil {
		f.log.Error("failed to get balance", "err", err)
		return eth.ZeroWei, err
	}
	return eth.WeiBig(balance), nil
}

func (f *Faucet) ChainID() eth.ChainID {
	return f.chainID
}

// DispenseAmount is the fixed amount served per fixed-amount request.
func (f *Faucet) DispenseAmount() eth.ETH {
	return f.amount
}

// RequestETH validates the request against the faucet state and quota,
// then queues it for dispensing, and waits for the outcome.
// It returns the hash of the confirmed funding transaction.
func (f *Faucet) RequestETH(ctx context.Context, request *ftypes.FaucetRequest) (common.Hash, error) {
	logger := f.log.New("to", request.Target, "amount", request.Amount)

	if f.isDisabled() {
		logger.Info("cannot serve request, faucet is disabled")
		f.m.RecordDeniedRequest(f.id, DenyReasonDisabled)
		return common.Hash{}, ftypes.ErrFaucetDisabled
	}

	if reason, err := f.limiter.Check(request.RequesterIP(), request.Target); err != nil {
		logger.Info("denying request", "reason", reason, "err", err)
		f.m.RecordDeniedRequest(f.id, reason)
		return common.Hash{}, err
	}

	job := &dispenseJob{req: request, result: make(chan dispenseResult, 1)}
	select {
	case f.jobs <- job:
	default:
		logger.Warn("dispense queue is full, denying request")
		f.m.RecordDeniedRequest(f.id, DenyReasonBusy)
		return common.Hash{}, ftypes.ErrFaucetBusy
	}

	select {
	case res := <-job.result:
		return res.txHash, res.err
	case <-f.quit:
		return common.Hash{}, ftypes.ErrFaucetDisabled
	case <-ctx.Done():
		// the worker continues the dispense, only this caller stops waiting
		return common.Hash{}, ctx.Err()
	}
}

func (f *Faucet) isDisabled() bool {
	f.mu.RLock()
	defer f.mu.RUnlock()
	return f.disabled
}

// run consumes the dispense queue until the faucet is closed.
func (f *Faucet) run() {
	defer f.wg.Done()
	for {
		select {
		case <-f.quit:
			f.drainJobs()
			return
		case job := <-f.jobs:
			txHash, err := f.dispense(context.Background(), job.req)
			job.result <- dispenseResult{txHash: txHash, err: err}
		}
	}
}

func (f *Faucet) drainJobs() {
	for {
		select {
		case job := <-f.jobs:
			job.result <- dispenseResult{err: ftypes.ErrFaucetDisabled}
		default:
			return
		}
	}
}

// dispense executes one funding transfer against the ledger.
func (f *Faucet) dispense(ctx context.Context, request *ftypes.FaucetRequest) (result common.Hash, resultErr error) {
	logger := f.log.New("to", request.Target, "amount", request.Amount)
	logger.Info("sending funds")

	balance, err := f.Balance()
	if err != nil {
		logger.Warn("failed to get balance, optimistically continuing the request")
	} else if balance.Lt(request.Amount) {
		logger.Error("insufficient balance", "balance", balance)
		return common.Hash{}, ftypes.ErrInsufficientReserve
	}

	onDone := f.m.RecordFundAction(f.id, f.chainID, request.Amount)
	defer func() {
		onDone(resultErr)
	}()

	// We execute this tiny special EVM program,
	// such that we can move ETH into the target account,
	// without executing the code of the target account.
	// Since we don't want to accidentally trigger untrusted EVM functionality as the funder EOA.

	// This code self-destructs the ephemeral contract-creation-scope,
	// and assigns (no execution!) all the value of this scope to the target address.
	// These types of ephemeral self-destructs are still allowed post-Cancun.
	var out []byte
	out = append(out, byte(vm.PUSH20))
	out = append(out, request.Target[:]...)
	out = append(out, byte(vm.SELFDESTRUCT))

	candidate := TxCandidate{
		TxData:   out,
		To:       nil, // contract-creation, see above
		GasLimit: 0,   // estimate gas dynamically
		Value:    request.Amount.ToBig(),
	}
	rec, err := f.sender.Send(ctx, candidate)
	if err != nil {
		logger.Error("failed to send funds", "err", err)
		return common.Hash{}, fmt.Errorf("failed to send funds: %w", err)
	}
	if rec.Status == types.ReceiptStatusFailed {
		logger.Error("funding tx reverted", "tx", rec.TxHash)
		return common.Hash{}, fmt.Errorf("failed to fund, tx %s reverted", rec.TxHash)
	}
	logger.Info("successfully funded account",
		"tx", rec.TxHash,
		"included_hash", rec.BlockHash,
		"included_num", rec.BlockNumber)
	return rec.TxHash, nil
}
