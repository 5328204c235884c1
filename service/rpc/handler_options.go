package rpc

import (
	"net/http"

	"github.com/ethereum/go-ethereum/log"

	"github.com/devnet-tools/faucet/service/metrics"
)

type Option func(h *Handler)

type Middleware func(next http.Handler) http.Handler

func WithHealthzHandler(hdlr http.Handler) Option {
	return func(h *Handler) {
		h.healthzHandler = hdlr
	}
}

func WithCORSHosts(hosts []string) Option {
	return func(h *Handler) {
		h.corsHosts = hosts
	}
}

func WithVHosts(hosts []string) Option {
	return func(h *Handler) {
		h.vHosts = hosts
	}
}

// WithWebsocketEnabled allows `ws://host:port/`, `ws://host:port/ws` and `ws://host:port/ws/`
// to be upgraded to a websocket JSON RPC connection.
func WithWebsocketEnabled() Option {
	return func(h *Handler) {
		h.wsEnabled = true
	}
}

func WithHTTPRecorder(recorder metrics.HTTPRecorder) Option {
	return func(h *Handler) {
		h.httpRecorder = recorder
	}
}

func WithLogger(lgr log.Logger) Option {
	return func(h *Handler) {
		h.log = lgr
	}
}

// WithMiddleware adds an http.Handler to the rpc server handler stack.
// The added middleware is invoked directly before the RPC callback.
func WithMiddleware(middleware func(http.Handler) (hdlr http.Handler)) Option {
	return func(h *Handler) {
		h.middlewares = append(h.middlewares, middleware)
	}
}
