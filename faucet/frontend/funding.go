package frontend

import (
	"encoding/json"
	"errors"
	"net"
	"net/http"
	"strings"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/log"

	ftypes "github.com/devnet-tools/faucet/faucet/backend/types"
)

// FixedAmountRequest asks the faucet to dispense its configured amount
// to the given recipient.
type FixedAmountRequest struct {
	Recipient string `json:"recipient"`
}

// FundRequest is the body of a funding POST.
type FundRequest struct {
	FixedAmountRequest *FixedAmountRequest `json:"fixedAmountRequest"`
}

// FundResponse reports the outcome of a funding POST.
type FundResponse struct {
	TxHash string `json:"txHash,omitempty"`
	Amount string `json:"amount,omitempty"`
	Error  string `json:"error,omitempty"`
}

// FundingHandler serves the HTTP funding endpoint of a single faucet:
// a POST with a fixed-amount request dispenses the configured amount
// to the requested recipient.
type FundingHandler struct {
	log log.Logger
	b   FaucetBackend
}

var _ http.Handler = (*FundingHandler)(nil)

func NewFundingHandler(logger log.Logger, b FaucetBackend) *FundingHandler {
	return &FundingHandler{log: logger, b: b}
}

func (h *FundingHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeJSON(w, http.StatusMethodNotAllowed, FundResponse{Error: "method not allowed"})
		return
	}

	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	var req FundRequest
	if err := dec.Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, FundResponse{Error: "malformed request body"})
		return
	}
	if req.FixedAmountRequest == nil {
		writeJSON(w, http.StatusBadRequest, FundResponse{Error: "missing fixedAmountRequest"})
		return
	}
	if !common.IsHexAddress(req.FixedAmountRequest.Recipient) {
		writeJSON(w, http.StatusBadRequest, FundResponse{Error: ftypes.ErrInvalidRecipient.Error()})
		return
	}
	target := common.HexToAddress(req.FixedAmountRequest.Recipient)

	amount := h.b.DispenseAmount()
	fundReq := &ftypes.FaucetRequest{
		RemoteIP: clientIP(r),
		Target:   target,
		Amount:   amount,
	}
	txHash, err := h.b.RequestETH(r.Context(), fundReq)
	if err != nil {
		h.log.Info("funding request failed", "to", target, "err", err)
		writeJSON(w, errStatus(err), FundResponse{Error: err.Error()})
		return
	}
	writeJSON(w, http.StatusOK, FundResponse{
		TxHash: txHash.Hex(),
		Amount: amount.Decimal(),
	})
}

// errStatus maps dispense errors onto HTTP status codes.
func errStatus(err error) int {
	switch {
	case errors.Is(err, ftypes.ErrInvalidRecipient):
		return http.StatusBadRequest
	case errors.Is(err, ftypes.ErrRateLimited), errors.Is(err, ftypes.ErrFaucetBusy):
		return http.StatusTooManyRequests
	case errors.Is(err, ftypes.ErrFaucetDisabled), errors.Is(err, ftypes.ErrInsufficientReserve):
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

// clientIP resolves the requester IP, honoring the usual proxy header.
func clientIP(r *http.Request) string {
	if fwd := r.Header.Get("X-Forwarded-For"); fwd != "" {
		// first hop is the original client
		if i := strings.IndexByte(fwd, ','); i >= 0 {
			fwd = fwd[:i]
		}
		return strings.TrimSpace(fwd)
	}
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}

func writeJSON(w http.ResponseWriter, status int, resp FundResponse) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(resp)
}
