package httputil

import "net/http"

type config struct {
	// listenAddr is the configured address to listen to when started.
	// Use listener.Addr to retrieve the address when online.
	listenAddr string

	handler http.Handler

	timeouts Timeouts
}

func (c *config) ApplyOptions(opts ...Option) {
	for _, opt := range opts {
		opt(c)
	}
}

// Option is a general server config option.
type Option func(cfg *config)

// WithTimeouts overrides the default HTTP server timeouts.
func WithTimeouts(timeouts Timeouts) Option {
	return func(cfg *config) {
		cfg.timeouts = timeouts
	}
}
