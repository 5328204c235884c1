package frontend

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/log"

	ftypes "github.com/devnet-tools/faucet/faucet/backend/types"
	"github.com/devnet-tools/faucet/service/eth"
	"github.com/devnet-tools/faucet/service/testlog"
)

type stubFaucet struct {
	chainID eth.ChainID
	amount  eth.ETH
	hash    common.Hash
	err     error

	gotReq *ftypes.FaucetRequest
}

var _ FaucetBackend = (*stubFaucet)(nil)

func (s *stubFaucet) ChainID() eth.ChainID {
	return s.chainID
}

func (s *stubFaucet) RequestETH(ctx context.Context, request *ftypes.FaucetRequest) (common.Hash, error) {
	s.gotReq = request
	return s.hash, s.err
}

func (s *stubFaucet) Balance() (eth.ETH, error) {
	return eth.HundredEther, nil
}

func (s *stubFaucet) DispenseAmount() eth.ETH {
	return s.amount
}

func postFund(t *testing.T, h http.Handler, body string, hdr map[string]string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, "/fund/dev-1", strings.NewReader(body))
	req.RemoteAddr = "198.51.100.7:43210"
	for k, v := range hdr {
		req.Header.Set(k, v)
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func decodeFundResponse(t *testing.T, rec *httptest.ResponseRecorder) FundResponse {
	t.Helper()
	var resp FundResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	return resp
}

func TestFundingHandler(t *testing.T) {
	logger := testlog.Logger(t, log.LevelInfo)
	recipient := "0x15d34AAf54267DB7D7c367839AAf71A00a2C6A65"

	t.Run("success", func(t *testing.T) {
		f := &stubFaucet{
			amount: eth.OneEther,
			hash:   common.HexToHash("0xb10c"),
		}
		h := NewFundingHandler(logger, f)
		rec := postFund(t, h, `{"fixedAmountRequest":{"recipient":"`+recipient+`"}}`, nil)
		require.Equal(t, http.StatusOK, rec.Code)
		require.Equal(t, "application/json", rec.Header().Get("Content-Type"))

		resp := decodeFundResponse(t, rec)
		require.Equal(t, f.hash.Hex(), resp.TxHash)
		require.Equal(t, eth.OneEther.Decimal(), resp.Amount)
		require.Empty(t, resp.Error)

		require.Equal(t, common.HexToAddress(recipient), f.gotReq.Target)
		require.Equal(t, eth.OneEther, f.gotReq.Amount)
		require.Equal(t, "198.51.100.7", f.gotReq.RemoteIP)
	})

	t.Run("forwarded ip", func(t *testing.T) {
		f := &stubFaucet{amount: eth.OneEther}
		h := NewFundingHandler(logger, f)
		rec := postFund(t, h, `{"fixedAmountRequest":{"recipient":"`+recipient+`"}}`,
			map[string]string{"X-Forwarded-For": "203.0.113.9, 10.0.0.1"})
		require.Equal(t, http.StatusOK, rec.Code)
		require.Equal(t, "203.0.113.9", f.gotReq.RemoteIP)
	})

	t.Run("method not allowed", func(t *testing.T) {
		h := NewFundingHandler(logger, &stubFaucet{})
		req := httptest.NewRequest(http.MethodGet, "/fund/dev-1", nil)
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)
		require.Equal(t, http.StatusMethodNotAllowed, rec.Code)
	})

	t.Run("malformed body", func(t *testing.T) {
		h := NewFundingHandler(logger, &stubFaucet{})
		rec := postFund(t, h, `{not json`, nil)
		require.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("unknown fields rejected", func(t *testing.T) {
		h := NewFundingHandler(logger, &stubFaucet{})
		rec := postFund(t, h, `{"fixedAmountRequest":{"recipient":"`+recipient+`"},"extra":1}`, nil)
		require.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("missing request", func(t *testing.T) {
		h := NewFundingHandler(logger, &stubFaucet{})
		rec := postFund(t, h, `{}`, nil)
		require.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("invalid recipient", func(t *testing.T) {
		f := &stubFaucet{}
		h := NewFundingHandler(logger, f)
		rec := postFund(t, h, `{"fixedAmountRequest":{"recipient":"not-an-address"}}`, nil)
		require.Equal(t, http.StatusBadRequest, rec.Code)
		require.Nil(t, f.gotReq, "invalid recipients never reach the faucet")

		resp := decodeFundResponse(t, rec)
		require.Contains(t, resp.Error, "invalid recipient")
	})

	errCases := []struct {
		name   string
		err    error
		status int
	}{
		{"rate limited", ftypes.ErrRateLimited, http.StatusTooManyRequests},
		{"busy", ftypes.ErrFaucetBusy, http.StatusTooManyRequests},
		{"disabled", ftypes.ErrFaucetDisabled, http.StatusServiceUnavailable},
		{"insufficient reserve", ftypes.ErrInsufficientReserve, http.StatusServiceUnavailable},
		{"internal", context.DeadlineExceeded, http.StatusInternalServerError},
	}
	for _, tc := range errCases {
		t.Run(tc.name, func(t *testing.T) {
			f := &stubFaucet{amount: eth.OneEther, err: tc.err}
			h := NewFundingHandler(logger, f)
			rec := postFund(t, h, `{"fixedAmountRequest":{"recipient":"`+recipient+`"}}`, nil)
			require.Equal(t, tc.status, rec.Code)

			resp := decodeFundResponse(t, rec)
			require.Empty(t, resp.TxHash)
			require.NotEmpty(t, resp.Error)
		})
	}
}
