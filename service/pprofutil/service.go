package pprofutil

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"net/http/pprof"
	"strconv"

	"github.com/ethereum/go-ethereum/log"

	"github.com/devnet-tools/faucet/service/httputil"
)

// Service hosts a pprof debug HTTP server, when enabled.
type Service struct {
	listenEnabled bool
	listenAddr    string
	listenPort    int

	httpServer *httputil.HTTPServer
}

func New(listenEnabled bool, listenAddr string, listenPort int) *Service {
	return &Service{
		listenEnabled: listenEnabled,
		listenAddr:    listenAddr,
		listenPort:    listenPort,
	}
}

func (s *Service) Start() error {
	if !s.listenEnabled {
		return nil
	}
	mux := http.NewServeMux()
	mux.HandleFunc("/debug/pprof/", pprof.Index)
	mux.HandleFunc("/debug/pprof/cmdline", pprof.Cmdline)
	mux.HandleFunc("/debug/pprof/profile", pprof.Profile)
	mux.HandleFunc("/debug/pprof/symbol", pprof.Symbol)
	mux.HandleFunc("/debug/pprof/trace", pprof.Trace)

	addr := net.JoinHostPort(s.listenAddr, strconv.Itoa(s.listenPort))
	srv, err := httputil.StartHTTPServer(addr, mux)
	if err != nil {
		return fmt.Errorf("failed to start pprof server: %w", err)
	}
	log.Info("started pprof server", "addr", srv.Addr())
	s.httpServer = srv
	return nil
}

func (s *Service) Stop(ctx context.Context) error {
	if s.httpServer == nil {
		return nil
	}
	err := s.httpServer.Stop(ctx)
	s.httpServer = nil
	return err
}

// Addr returns the address of the running pprof server, if any.
func (s *Service) Addr() (net.Addr, error) {
	if s.httpServer == nil {
		return nil, errors.New("pprof server is not running")
	}
	return s.httpServer.Addr(), nil
}
