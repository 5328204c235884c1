package rpc

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"sync"

	"github.com/ethereum/go-ethereum/log"
	"github.com/ethereum/go-ethereum/node"
	"github.com/ethereum/go-ethereum/rpc"

	oplog "github.com/devnet-tools/faucet/service/log"
	"github.com/devnet-tools/faucet/service/metrics"
)

// the root is "", since the "/" prefix is already assumed to be stripped.
const rootRoute = ""

var wildcardHosts = []string{"*"}

// Handler is an http.Handler serving a default JSON-RPC server on the root path.
//
// Additional RPC servers can be attached on sub-routes with AddRPC.
// Each sub-route has its own RPC namespaces, registered with AddAPIToRPC,
// and its own health sub-route and optional websocket upgrade.
//
// Custom non-RPC routes can be added with AddHandler,
// these are registered on the underlying http.ServeMux.
type Handler struct {
	appVersion     string
	healthzHandler http.Handler
	corsHosts      []string
	vHosts         []string
	wsEnabled      bool
	httpRecorder   metrics.HTTPRecorder

	log         log.Logger
	middlewares []Middleware

	// rpcRoutes is a collection of RPC servers, by route
	rpcRoutes     map[string]*rpc.Server
	rpcRoutesLock sync.Mutex

	mux *http.ServeMux

	// what we serve to users of this Handler, see ServeHTTP
	outer http.Handler
}

func NewHandler(appVersion string, opts ...Option) *Handler {
	h := &Handler{
		appVersion:     appVersion,
		healthzHandler: defaultHealthzHandler(appVersion),
		corsHosts:      wildcardHosts,
		vHosts:         wildcardHosts,
		httpRecorder:   metrics.NoopHTTPRecorder,
		log:            log.Root(),
		mux:            &http.ServeMux{},
		rpcRoutes:      make(map[string]*rpc.Server),
	}
	for _, opt := range opts {
		opt(h)
	}
	h.log.Debug("creating RPC handler")

	// outer-most middlewares: logging and metrics
	var handler http.Handler
	handler = h.mux
	handler = metrics.NewHTTPRecordingMiddleware(h.httpRecorder, handler)
	handler = oplog.NewLoggingMiddleware(h.log, handler)
	h.outer = handler

	if err := h.AddRPC(rootRoute); err != nil {
		panic(fmt.Errorf("failed to register root RPC server: %w", err))
	}

	return h
}

var _ http.Handler = (*Handler)(nil)

// ServeHTTP implements http.Handler
func (h *Handler) ServeHTTP(writer http.ResponseWriter, request *http.Request) {
	h.outer.ServeHTTP(writer, request)
}

// AddAPI adds a backend to the given RPC namespace, on the default RPC route.
func (h *Handler) AddAPI(api rpc.API) error {
	return h.AddAPIToRPC(rootRoute, api)
}

// AddAPIToRPC adds a backend to the given RPC namespace, on the RPC of the given route.
func (h *Handler) AddAPIToRPC(route string, api rpc.API) error {
	h.rpcRoutesLock.Lock()
	defer h.rpcRoutesLock.Unlock()
	server, ok := h.rpcRoutes[route]
	if !ok {
		return fmt.Errorf("route %q not found", route)
	}
	if err := server.RegisterName(api.Namespace, api.Service); err != nil {
		return fmt.Errorf("failed to register API namespace %s on route %q: %w", api.Namespace, route, err)
	}
	h.log.Info("registered API", "route", route, "namespace", api.Namespace)
	return nil
}

// AddHandler adds a custom http.Handler, mapped to an absolute path
func (h *Handler) AddHandler(path string, handler http.Handler) {
	if !strings.HasPrefix(path, "/") {
		path = "/" + path
	}
	h.mux.Handle(path, handler)
}

// AddRPC creates a default RPC server at the given route,
// with a health sub-route, HTTP endpoint, and websocket endpoint if configured.
// Once the route is added, RPC namespaces can be registered with AddAPIToRPC.
// The route must not have a "/" suffix, since the trailing "/" is ambiguous.
func (h *Handler) AddRPC(route string) error {
	h.rpcRoutesLock.Lock()
	defer h.rpcRoutesLock.Unlock()
	if strings.HasSuffix(route, "/") {
		return fmt.Errorf("routes must not have a / suffix, got %q", route)
	}
	if _, ok := h.rpcRoutes[route]; ok {
		return fmt.Errorf("route %q already exists", route)
	}

	srv := rpc.NewServer()

	if err := srv.RegisterName("health", &healthzAPI{
		appVersion: h.appVersion,
	}); err != nil {
		return fmt.Errorf("failed to setup default health RPC namespace: %w", err)
	}

	// http handler stack, default to 404 not-found
	var handler http.Handler
	handler = http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
		http.NotFound(writer, request)
	})

	// serve RPC on the configured RPC path (but not on arbitrary sub-paths)
	handler = h.newHttpRPCMiddleware(srv, handler)

	if h.wsEnabled { // prioritize WS RPC, if it's an upgrade request
		handler = h.newWsMiddleware(srv, handler)
	}

	// apply user middlewares
	for _, middleware := range h.middlewares {
		handler = middleware(handler)
	}

	// health endpoint applies before user middleware
	handler = h.newHealthMiddleware(handler)

	h.rpcRoutes[route] = srv

	h.mux.Handle(route+"/", http.StripPrefix(route+"/", handler))
	if route != "" {
		h.mux.Handle(route, http.StripPrefix(route, handler))
	}
	return nil
}

func (h *Handler) newHealthMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		// URL is already stripped with http.StripPrefix
		if r.URL.Path == "healthz" || r.URL.Path == "healthz/" {
			h.healthzHandler.ServeHTTP(w, r)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func (h *Handler) newHttpRPCMiddleware(server *rpc.Server, next http.Handler) http.Handler {
	// Only allow RPC handlers behind the appropriate CORS / vhost setup.
	// Websockets have their own handler-stack, configured separately.
	httpHandler := node.NewHTTPHandlerStack(server, h.corsHosts, h.vHosts, nil)
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		// URL is already stripped with http.StripPrefix
		if r.URL.Path == "" {
			httpHandler.ServeHTTP(w, r)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func (h *Handler) newWsMiddleware(server *rpc.Server, next http.Handler) http.Handler {
	wsHandler := server.WebsocketHandler(h.corsHosts)
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		// URL is already stripped with http.StripPrefix
		if isWebsocket(r) && (r.URL.Path == "" || r.URL.Path == "ws" || r.URL.Path == "ws/") {
			wsHandler.ServeHTTP(w, r)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func (h *Handler) Stop() {
	h.rpcRoutesLock.Lock()
	defer h.rpcRoutesLock.Unlock()
	for route, s := range h.rpcRoutes {
		h.log.Debug("stopping RPC", "route", route)
		s.Stop()
	}
}

type HealthzResponse struct {
	Version string `json:"version"`
}

func defaultHealthzHandler(appVersion string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		enc := json.NewEncoder(w)
		_ = enc.Encode(&HealthzResponse{Version: appVersion})
	}
}

type healthzAPI struct {
	appVersion string
}

func (h *healthzAPI) Status() string {
	return h.appVersion
}

func isWebsocket(r *http.Request) bool {
	return strings.EqualFold(r.Header.Get("Upgrade"), "websocket") &&
		strings.Contains(strings.ToLower(r.Header.Get("Connection")), "upgrade")
}
