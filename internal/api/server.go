package api

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog/log"

	"github/chapool/evm-agent/internal/chain/conn"
	"github/chapool/evm-agent/internal/chain/contract"
	"github/chapool/evm-agent/internal/chain/identity"
	"github/chapool/evm-agent/internal/chain/query"
	"github/chapool/evm-agent/internal/chain/registry"
	"github/chapool/evm-agent/internal/chain/txn"
	"github/chapool/evm-agent/internal/config"
	"github/chapool/evm-agent/internal/tools"
)

// Router groups the echo route groups handlers attach to.
type Router struct {
	Routes     []*echo.Route
	Root       *echo.Group
	Management *echo.Group
	APIV1Tools *echo.Group
}

// Server is the central struct keeping all the dependencies: the HTTP
// surface plus the chain-access components in their construction order
// (registry feeds the connection pool, the pool feeds the identity pool and
// the services).
type Server struct {
	Config config.Server
	Echo   *echo.Echo
	Router *Router
	// Metrics is this server's own prometheus registry; the global default
	// registry would collide when several servers are wired in one process.
	Metrics *prometheus.Registry

	Networks   *registry.Registry
	Conns      *conn.Pool
	Identities *identity.Pool
	Txns       *txn.Service
	Queries    *query.Service
	Contracts  *contract.Service
	Tools      *tools.Registry
}

// InitServer constructs the full dependency graph from configuration. The
// connection pool must come up with at least one live network; everything
// after that is infallible wiring.
func InitServer(ctx context.Context, cfg config.Server) (*Server, error) {
	networks := registry.New()
	for name, rpcURL := range cfg.Chain.RPCOverrides {
		networks.OverrideRPC(name, rpcURL)
	}

	conns, err := conn.NewPool(ctx, networks, cfg.Chain.DefaultNetwork)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize connection pool: %w", err)
	}

	identities := identity.NewPool(conns.Current(), identity.Options{
		RawKeys:      cfg.Chain.RawPrivateKeys,
		Mnemonic:     cfg.Chain.Mnemonic,
		HDPath:       cfg.Chain.HDPath,
		AccountIndex: cfg.Chain.AccountIndex,
	})
	conns.OnSwitch(identities)

	txns := txn.NewService(conns, identities)
	queries := query.NewService(conns)
	contracts := contract.NewService(conns, txns)

	s := &Server{
		Config:     cfg,
		Metrics:    prometheus.NewRegistry(),
		Networks:   networks,
		Conns:      conns,
		Identities: identities,
		Txns:       txns,
		Queries:    queries,
		Contracts:  contracts,
		Tools: tools.NewDefaultRegistry(tools.Deps{
			Registry:   networks,
			Conns:      conns,
			Identities: identities,
			Txns:       txns,
			Queries:    queries,
			Contracts:  contracts,
		}),
	}

	return s, nil
}

// Ready reports whether every component is initialized.
func (s *Server) Ready() bool {
	return s.Echo != nil &&
		s.Router != nil &&
		s.Metrics != nil &&
		s.Networks != nil &&
		s.Conns != nil &&
		s.Identities != nil &&
		s.Txns != nil &&
		s.Queries != nil &&
		s.Contracts != nil &&
		s.Tools != nil
}

// Start runs the HTTP listener until shutdown.
func (s *Server) Start() error {
	if !s.Ready() {
		return errors.New("server is not ready")
	}

	if err := s.Echo.Start(s.Config.Echo.ListenAddress); err != nil {
		return fmt.Errorf("failed to start echo server: %w", err)
	}

	return nil
}

// Shutdown stops the HTTP listener and tears down every network connection.
func (s *Server) Shutdown(ctx context.Context) []error {
	log.Warn().Msg("Shutting down server")

	var errs []error

	if s.Echo != nil {
		log.Debug().Msg("Shutting down echo server")

		if err := s.Echo.Shutdown(ctx); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error().Err(err).Msg("Failed to shutdown echo server")
			errs = append(errs, err)
		}
	}

	if s.Conns != nil {
		log.Debug().Msg("Closing network connections")
		s.Conns.Close()
	}

	return errs
}
