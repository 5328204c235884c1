package log

import (
	"net/http"
	"time"

	"github.com/ethereum/go-ethereum/log"

	"github.com/devnet-tools/faucet/service/httputil"
)

// NewLoggingMiddleware logs requests served by the next handler at debug level.
func NewLoggingMiddleware(lgr log.Logger, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := httputil.NewWrappedResponseWriter(w)
		next.ServeHTTP(ww, r)
		lgr.Debug("served HTTP request",
			"status", ww.StatusCode,
			"response_len", ww.ResponseLen,
			"path", r.URL.EscapedPath(),
			"duration", time.Since(start),
			"remote_addr", r.RemoteAddr,
			"upgrade", ww.UpgradeAttempt)
	})
}
