package backend

import (
	"context"
	"crypto/ecdsa"
	"errors"
	"fmt"
	"math/big"
	"time"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/ethereum/go-ethereum/ethclient"
	"github.com/ethereum/go-ethereum/log"

	"github.com/devnet-tools/faucet/service/eth"
)

// TxCandidate is a transaction candidate to be signed and sent.
type TxCandidate struct {
	// TxData is the transaction calldata (init-code for contract creations).
	TxData []byte
	// To is the recipient. Nil for contract creations.
	To *common.Address
	// Value is the amount of wei to attach.
	Value *big.Int
	// GasLimit to use. 0 to estimate dynamically.
	GasLimit uint64
}

// TxSender signs and sends transactions, and waits for their inclusion.
type TxSender interface {
	From() common.Address
	ChainID() eth.ChainID
	Send(ctx context.Context, candidate TxCandidate) (*types.Receipt, error)
	Close()
}

// ELClient is the execution-layer client surface the backend needs.
// *ethclient.Client implements it.
type ELClient interface {
	ChainID(ctx context.Context) (*big.Int, error)
	BalanceAt(ctx context.Context, account common.Address, blockNumber *big.Int) (*big.Int, error)
	PendingNonceAt(ctx context.Context, account common.Address) (uint64, error)
	HeaderByNumber(ctx context.Context, number *big.Int) (*types.Header, error)
	SuggestGasTipCap(ctx context.Context) (*big.Int, error)
	EstimateGas(ctx context.Context, msg ethereum.CallMsg) (uint64, error)
	SendTransaction(ctx context.Context, tx *types.Transaction) error
	TransactionReceipt(ctx context.Context, txHash common.Hash) (*types.Receipt, error)
	Close()
}

var _ ELClient = (*ethclient.Client)(nil)

// SenderTimings bound the network interactions of a sender.
type SenderTimings struct {
	// NetworkTimeout bounds any single RPC interaction.
	NetworkTimeout time.Duration
	// SendTimeout bounds a full send, incl. waiting for the receipt.
	SendTimeout time.Duration
	// ReceiptQueryInterval is the polling interval while awaiting inclusion.
	ReceiptQueryInterval time.Duration
}

var DefaultSenderTimings = SenderTimings{
	NetworkTimeout:       10 * time.Second,
	SendTimeout:          2 * time.Minute,
	ReceiptQueryInterval: 200 * time.Millisecond,
}

// SimpleSender sends one transaction at a time:
// nonce from pending state, EIP-1559 fees, dynamic gas estimation.
// Calls to Send must be serialized by the caller (see the faucet dispense queue).
type SimpleSender struct {
	log     log.Logger
	client  ELClient
	key     *ecdsa.PrivateKey
	from    common.Address
	chainID eth.ChainID
	signer  types.Signer
	timings SenderTimings
}

var _ TxSender = (*SimpleSender)(nil)

// NewSimpleSender connects the sender, and sanity-checks the remote chain ID
// against the expected one, so a misconfigured faucet never funds on the wrong chain.
func NewSimpleSender(ctx context.Context, logger log.Logger, client ELClient,
	key *ecdsa.PrivateKey, expected eth.ChainID, timings SenderTimings) (*SimpleSender, error) {
	cctx, cancel := context.WithTimeout(ctx, timings.NetworkTimeout)
	defer cancel()
	gotChainID, err := client.ChainID(cctx)
	if err != nil {
		return nil, fmt.Errorf("failed to retrieve chain ID: %w", err)
	}
	if gotChainID.Cmp(expected.ToBig()) != 0 {
		return nil, fmt.Errorf("unexpected chain ID %s, expected %s", gotChainID, expected)
	}
	return &SimpleSender{
		log:     logger,
		client:  client,
		key:     key,
		from:    crypto.PubkeyToAddress(key.PublicKey),
		chainID: expected,
		signer:  types.LatestSignerForChainID(expected.ToBig()),
		timings: timings,
	}, nil
}

func (s *SimpleSender) From() common.Address {
	return s.from
}

func (s *SimpleSender) ChainID() eth.ChainID {
	return s.chainID
}

func (s *SimpleSender) Close() {
	s.client.Close()
}

// Send signs and publishes the candidate, and waits for its inclusion.
func (s *SimpleSender) Send(ctx context.Context, candidate TxCandidate) (*types.Receipt, error) {
	ctx, cancel := context.WithTimeout(ctx, s.timings.SendTimeout)
	defer cancel()

	tx, err := s.craftTx(ctx, candidate)
	if err != nil {
		return nil, fmt.Errorf("failed to craft tx: %w", err)
	}
	signed, err := types.SignTx(tx, s.signer, s.key)
	if err != nil {
		return nil, fmt.Errorf("failed to sign tx: %w", err)
	}

	sctx, scancel := context.WithTimeout(ctx, s.timings.NetworkTimeout)
	defer scancel()
	if err := s.client.SendTransaction(sctx, signed); err != nil {
		return nil, fmt.Errorf("failed to publish tx: %w", err)
	}
	s.log.Debug("published tx", "tx", signed.Hash(), "nonce", signed.Nonce(), "gas", signed.Gas())

	return s.waitMined(ctx, signed.Hash())
}

func (s *SimpleSender) craftTx(ctx context.Context, candidate TxCandidate) (*types.Transaction, error) {
	cctx, cancel := context.WithTimeout(ctx, s.timings.NetworkTimeout)
	defer cancel()

	nonce, err := s.client.PendingNonceAt(cctx, s.from)
	if err != nil {
		return nil, fmt.Errorf("failed to get pending nonce: %w", err)
	}
	head, err := s.client.HeaderByNumber(cctx, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to get chain head: %w", err)
	}
	tip, err := s.client.SuggestGasTipCap(cctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get gas tip suggestion: %w", err)
	}
	// fee cap covers the tip plus twice the current base fee,
	// enough to stay includable through consecutive max base-fee increases
	feeCap := new(big.Int).Set(tip)
	if head.BaseFee != nil {
		feeCap = feeCap.Add(feeCap, new(big.Int).Mul(head.BaseFee, big.NewInt(2)))
	}

	gasLimit := candidate.GasLimit
	if gasLimit == 0 {
		gasLimit, err = s.client.EstimateGas(cctx, ethereum.CallMsg{
			From:      s.from,
			To:        candidate.To,
			GasTipCap: tip,
			GasFeeCap: feeCap,
			Value:     candidate.Value,
			Data:      candidate.TxData,
		})
		if err != nil {
			return nil, fmt.Errorf("failed to estimate gas: %w", err)
		}
	}

	return types.NewTx(&types.DynamicFeeTx{
		ChainID:   s.chainID.ToBig(),
		Nonce:     nonce,
		GasTipCap: tip,
		GasFeeCap: feeCap,
		Gas:       gasLimit,
		To:        candidate.To,
		Value:     candidate.Value,
		Data:      candidate.TxData,
	}), nil
}

func (s *SimpleSender) waitMined(ctx context.Context, txHash common.Hash) (*types.Receipt, error) {
	ticker := time.NewTicker(s.timings.ReceiptQueryInterval)
	defer ticker.Stop()
	for {
		qctx, cancel := context.WithTimeout(ctx, s.timings.NetworkTimeout)
		receipt, err := s.client.TransactionReceipt(qctx, txHash)
		cancel()
		if err == nil && receipt != nil {
			return receipt, nil
		}
		if err != nil && !errors.Is(err, ethereum.NotFound) {
			s.log.Debug("failed to query receipt", "tx", txHash, "err", err)
		}
		select {
		case <-ctx.Done():
			return nil, fmt.Errorf("tx %s not confirmed: %w", txHash, ctx.Err())
		case <-ticker.C:
		}
	}
}
