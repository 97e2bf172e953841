package server

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/rpamplona/e-shop-website-with-ilb-ase/internal/config"
	"github.com/rpamplona/e-shop-website-with-ilb-ase/internal/infrastructure/auth"
	"github.com/rpamplona/e-shop-website-with-ilb-ase/internal/infrastructure/metrics"
	"github.com/rpamplona/e-shop-website-with-ilb-ase/internal/infrastructure/mysql"
	"github.com/rpamplona/e-shop-website-with-ilb-ase/internal/infrastructure/odata"
	accountController "github.com/rpamplona/e-shop-website-with-ilb-ase/internal/interfaces/controller/account"
	catalogController "github.com/rpamplona/e-shop-website-with-ilb-ase/internal/interfaces/controller/catalog"
	homeController "github.com/rpamplona/e-shop-website-with-ilb-ase/internal/interfaces/controller/home"
	orderController "github.com/rpamplona/e-shop-website-with-ilb-ase/internal/interfaces/controller/orders"
	"github.com/rpamplona/e-shop-website-with-ilb-ase/internal/logger"
	"github.com/rpamplona/e-shop-website-with-ilb-ase/internal/usecase"
)

type Server struct {
	cfg *config.Config
	log logger.Logger
}

func NewServer(cfg *config.Config, log logger.Logger) *Server {
	return &Server{
		cfg: cfg,
		log: log,
	}
}

// Run bootstraps the catalog database, wires the handlers and serves HTTP
// until ctx is cancelled or SIGINT/SIGTERM arrives.
func (s *Server) Run(ctx context.Context) error {
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	db, err := mysql.Open(ctx, s.cfg.Database)
	if err != nil {
		return err
	}
	defer db.Close()

	if err := mysql.EnsureSchema(ctx, db); err != nil {
		return err
	}

	m := metrics.New()
	catalogRepo := mysql.NewCatalogRepository(db)
	if err := s.seedCatalog(ctx, catalogRepo, m); err != nil {
		return err
	}

	e, err := s.buildRouter(ctx, db, catalogRepo, m)
	if err != nil {
		return err
	}

	return s.serve(ctx, e)
}

// seedCatalog only fails startup when seeding is configured as required.
func (s *Server) seedCatalog(ctx context.Context, repo usecase.CatalogRepository, recorder usecase.SeedRecorder) error {
	seeder := usecase.NewCatalogSeeder(repo, s.log, recorder)
	if err := seeder.Seed(ctx); err != nil {
		if s.cfg.Seed.Required {
			return fmt.Errorf("failed to seed catalog: %w", err)
		}
		s.log.Error("catalog seeding gave up, continuing without reference data", logger.Error(err))
	}
	return nil
}

func (s *Server) buildRouter(ctx context.Context, db *sql.DB, catalogRepo usecase.CatalogRepository, m *metrics.Metrics) (*echo.Echo, error) {
	authenticator, err := auth.NewOIDCAuthenticator(ctx, s.cfg.AzureAd)
	if err != nil {
		return nil, err
	}
	sessions := auth.NewSessionManager(s.cfg.Session.Secret, s.cfg.Session.TTL)

	orderRepo, err := odata.NewOrderRepository(s.cfg.Orders.ODataServiceBaseURL, s.cfg.Orders.Timeout)
	if err != nil {
		return nil, err
	}

	handlers := Handlers{
		Account: accountController.NewAccountHandler(authenticator, sessions, s.log, s.cfg.Server.PathBase, s.cfg.AzureAd.CallbackPath),
		Catalog: catalogController.NewCatalogHandler(usecase.NewCatalogUsecase(catalogRepo)),
		Orders:  orderController.NewOrderHandler(usecase.NewOrderUsecase(orderRepo)),
		Home:    homeController.NewHomeHandler(db, s.log),
	}

	return NewRouter(s.cfg, s.log, m, sessions, handlers)
}

func (s *Server) serve(ctx context.Context, e *echo.Echo) error {
	e.Server.ReadHeaderTimeout = 10 * time.Second
	e.Server.IdleTimeout = 60 * time.Second

	errCh := make(chan error, 1)
	go func() {
		s.log.Info("starting HTTP server",
			logger.String("address", s.cfg.Server.Address()),
			logger.String("env", s.cfg.Server.Env),
			logger.String("path_base", s.cfg.Server.PathBase),
		)
		if err := e.Start(s.cfg.Server.Address()); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return fmt.Errorf("server error: %w", err)
	case <-ctx.Done():
		s.log.Info("shutdown signal received")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), s.cfg.Server.ShutdownTimeout)
	defer cancel()

	s.log.Info("shutting down HTTP server", logger.Duration("timeout", s.cfg.Server.ShutdownTimeout))
	if err := e.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server shutdown error: %w", err)
	}

	s.log.Info("HTTP server stopped gracefully")
	return nil
}
