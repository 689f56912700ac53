package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/mkrupp/bookshop/internal/infra/config"
	"github.com/mkrupp/bookshop/internal/infra/logging"
	"github.com/mkrupp/bookshop/internal/infra/observability"
	http_ "github.com/mkrupp/bookshop/internal/infra/transport/http"
	"github.com/mkrupp/bookshop/internal/repo/book"
	"github.com/mkrupp/bookshop/internal/repo/user"
	"github.com/mkrupp/bookshop/internal/svc/authsvc"
	"github.com/mkrupp/bookshop/internal/svc/catalogsvc"
)

// Config is the environment configuration of the serve command.
type Config struct {
	config.EnvConfig

	Log     logging.LoggerConfig        `envPrefix:"LOG_"`
	Auth    authsvc.AuthConfig          `envPrefix:"AUTH_"`
	Catalog catalogsvc.CatalogConfig    `envPrefix:"CATALOG_"`
	Books   book.CatalogConfig          `envPrefix:"CATALOG_"`
	User    user.RepositoryConfig       `envPrefix:"USER_"`
	HTTP    http_.HTTPTransportConfig   `envPrefix:"HTTP_"`
	Metrics observability.MetricsConfig `envPrefix:"METRICS_"`
}

// serveFlags holds command line overrides of Config.
type serveFlags struct {
	addr string
}

// NewServeCmd creates the serve subcommand.
func NewServeCmd() *cobra.Command {
	flags := &serveFlags{}

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP service",
		Long: `Run the catalog, review and authentication endpoints on one HTTP listener.
The server drains in-flight requests on SIGINT or SIGTERM.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			cfg, err := loadConfig(ctx, "serve")
			if err != nil {
				return err
			}

			if flags.addr != "" {
				cfg.HTTP.ServerAddr = flags.addr
			}

			return run(ctx, cfg)
		},
	}

	cmd.Flags().StringVar(&flags.addr, "addr", "", "listen address, overrides BOOKSHOP_HTTP_SERVER_ADDR")

	return cmd
}

// loadConfig parses the environment for a subcommand and configures logging.
func loadConfig(ctx context.Context, svcName string) (Config, error) {
	var (
		cfg Config

		configPrefix = strings.ToUpper(strings.Join([]string{appName, svcName}, "_"))
		loggerName   = strings.ToLower(strings.Join([]string{appName, svcName}, "."))
	)

	if err := config.Parse(ctx, &cfg, configPrefix); err != nil {
		return Config{}, fmt.Errorf("parse config: %w", err)
	}

	logging.Configure(ctx, cfg.Log, loggerName)

	return cfg, nil
}

// server bundles the wired services behind one handler.
type server struct {
	handler http.Handler
	metrics *observability.Metrics
	authSvc *authsvc.AuthService
}

func (s *server) Close() error {
	if err := s.authSvc.Close(); err != nil {
		return fmt.Errorf("close auth service: %w", err)
	}

	return nil
}

// newServer wires repositories, services and transports on a single mux.
func newServer(cfg Config) (*server, error) {
	metrics := observability.NewMetrics()

	authSvc, err := authsvc.NewAuthService(user.NewRepositoryFactory(cfg.User), cfg.Auth, metrics)
	if err != nil {
		return nil, fmt.Errorf("new auth service: %w", err)
	}

	catalogSvc, err := catalogsvc.NewBookCatalogService(book.RepositoryFactory(cfg.Books), cfg.Catalog, metrics)
	if err != nil {
		return nil, errors.Join(fmt.Errorf("new catalog service: %w", err), authSvc.Close())
	}

	mux := http.NewServeMux()
	authsvc.NewHTTPTransport(authSvc, metrics).Routes(mux)
	catalogsvc.NewHTTPTransport(catalogSvc, authSvc, metrics).Routes(mux)

	if cfg.Metrics.Enabled {
		mux.Handle("GET "+cfg.Metrics.Path, metrics.Handler())
	}

	return &server{handler: mux, metrics: metrics, authSvc: authSvc}, nil
}

func run(ctx context.Context, cfg Config) (err error) {
	log := logging.GetLogger("cmd.bookshop")

	defer func() {
		if err != nil {
			log.ErrorContext(ctx, "error", "err", err)
		} else {
			log.InfoContext(ctx, "shutdown")
		}
	}()

	srv, err := newServer(cfg)
	if err != nil {
		return err
	}

	defer func() {
		err = errors.Join(err, srv.Close())
	}()

	if err := http_.ListenAndServe(ctx, srv.handler, cfg.HTTP, srv.metrics); err != nil {
		return fmt.Errorf("listen and serve: %w", err)
	}

	return nil
}
