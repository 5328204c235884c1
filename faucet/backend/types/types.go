package types

import (
	"errors"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/rpc"

	"github.com/devnet-tools/faucet/service/eth"
)

const maxIDLength = 100

var ErrInvalidID = errors.New("invalid ID")

// Request-handling errors, as the frontends map them to user-facing failure reasons.
var (
	// ErrInvalidRecipient is returned when the destination address fails validation.
	ErrInvalidRecipient = errors.New("invalid recipient address")
	// ErrFaucetDisabled is returned when the faucet may not serve new requests.
	ErrFaucetDisabled = errors.New("faucet is disabled")
	// ErrRateLimited is returned when the requester exceeded its quota.
	ErrRateLimited = errors.New("rate limit exceeded")
	// ErrFaucetBusy is returned when the dispense queue is full.
	ErrFaucetBusy = errors.New("faucet is busy")
	// ErrInsufficientReserve is returned when the funding reserve cannot cover the request.
	ErrInsufficientReserve = errors.New("insufficient balance")
)

// FaucetID identifies a single faucet.
// There may be multiple faucets per chain;
// the service identifies a default faucet for each chain to serve, see config.
type FaucetID string

func (id FaucetID) String() string {
	return string(id)
}

func (id FaucetID) MarshalText() ([]byte, error) {
	if len(id) > maxIDLength {
		return nil, ErrInvalidID
	}
	if len(id) == 0 {
		return nil, ErrInvalidID
	}
	return []byte(id), nil
}

func (id *FaucetID) UnmarshalText(data []byte) error {
	if len(data) > maxIDLength {
		return ErrInvalidID
	}
	if len(data) == 0 {
		return ErrInvalidID
	}
	*id = FaucetID(data)
	return nil
}

// FaucetRequest represents a request for funding,
// with requester-identity attributes for rate-limiting.
type FaucetRequest struct {
	// RpcUser carries the connection info of a JSON-RPC caller, if any.
	RpcUser *rpc.PeerInfo
	// RemoteIP is the requester network address, as seen by the receiver.
	RemoteIP string
	// Target is the account to dispense funds to.
	Target common.Address
	// Amount is the amount of wei to dispense.
	Amount eth.ETH
}

// RequesterIP resolves the network identity to rate-limit the request by.
func (r *FaucetRequest) RequesterIP() string {
	if r.RemoteIP != "" {
		return r.RemoteIP
	}
	if r.RpcUser != nil {
		return r.RpcUser.RemoteAddr
	}
	return ""
}
