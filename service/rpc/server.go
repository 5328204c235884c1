package rpc

import (
	"context"
	"fmt"
	"net"
	"strconv"
	"time"

	"github.com/ethereum/go-ethereum/rpc"

	"github.com/devnet-tools/faucet/service/httputil"
)

// Server is a convenience util that wraps an httputil.HTTPServer around an RPC Handler.
type Server struct {
	httpServer *httputil.HTTPServer

	// embedded, for easy access as caller
	*Handler
}

// Endpoint returns the HTTP endpoint without http / ws protocol prefix.
func (s *Server) Endpoint() string {
	return s.httpServer.Addr().String()
}

func (s *Server) Port() (int, error) {
	return s.httpServer.Port()
}

func (s *Server) Start() error {
	if err := s.httpServer.Start(); err != nil {
		return err
	}
	s.log.Info("started RPC server", "endpoint", s.httpServer.HTTPEndpoint())
	return nil
}

func (s *Server) Stop() error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	_ = s.httpServer.Shutdown(ctx)
	s.Handler.Stop()
	s.log.Info("stopped RPC server")
	return nil
}

func (s *Server) AddAPI(api rpc.API) {
	if err := s.Handler.AddAPI(api); err != nil {
		panic(fmt.Errorf("invalid API: %w", err))
	}
}

type ServerConfig struct {
	HttpOptions []httputil.Option
	RpcOptions  []Option
	Host        string
	Port        int
	AppVersion  string
}

func NewServer(host string, port int, appVersion string, opts ...Option) *Server {
	return ServerFromConfig(&ServerConfig{
		RpcOptions: opts,
		Host:       host,
		Port:       port,
		AppVersion: appVersion,
	})
}

func ServerFromConfig(cfg *ServerConfig) *Server {
	endpoint := net.JoinHostPort(cfg.Host, strconv.Itoa(cfg.Port))
	h := NewHandler(cfg.AppVersion, cfg.RpcOptions...)
	s := httputil.NewHTTPServer(endpoint, h, cfg.HttpOptions...)
	return &Server{httpServer: s, Handler: h}
}
