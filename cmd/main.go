// Package main runs the Red Fragances storefront API.
package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"redfragances/internal/advisor"
	"redfragances/internal/catalog"
	"redfragances/internal/config"
	"redfragances/internal/domain"
	httpapi "redfragances/internal/http"
	"redfragances/internal/locale"
	"redfragances/internal/metrics"
	"redfragances/internal/repository"
	"redfragances/internal/service"

	_ "redfragances/docs"
)

const (
	Version = "0.1.0"
	appName = "redfragances"
)

// @title Red Fragances API
// @version 1.0
// @description Perfume storefront: catalog, cart, checkout, orders and fragrance advisor chat.
// @host localhost:9091
// @BasePath /api/v1
func main() {
	if err := rootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func rootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   appName,
		Short: "Perfume storefront API",
	}
	cmd.AddCommand(serveCmd())

	var out string
	configCmd := &cobra.Command{
		Use:   "config",
		Short: "Write the default configuration as YAML",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := config.DefaultConfig().SaveToFile(out); err != nil {
				return err
			}
			fmt.Printf("wrote %s\n", out)
			return nil
		},
	}
	configCmd.Flags().StringVarP(&out, "out", "o", "redfragances.yaml", "Destination file")
	cmd.AddCommand(configCmd)

	cmd.AddCommand(&cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Printf("%s version %s\n", appName, Version)
		},
	})

	return cmd
}

func serveCmd() *cobra.Command {
	var (
		configPath string
		addr       string
		backend    string
		logLevel   string
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(configPath, &config.Config{
				Server: config.ServerConfig{Addr: addr},
				Store:  config.StoreConfig{Backend: backend},
				Log:    config.LogConfig{Level: logLevel},
			})
			if err != nil {
				return err
			}
			return run(cfg)
		},
	}

	cmd.Flags().StringVarP(&configPath, "config", "c", "", "Config file path (YAML)")
	cmd.Flags().StringVar(&addr, "addr", "", "Listen address, overrides server.addr")
	cmd.Flags().StringVar(&backend, "store", "", "Store backend (memory, file, sqlite, postgres, redis, nats)")
	cmd.Flags().StringVar(&logLevel, "log-level", "", "Log level (debug, info, warn, error)")
	return cmd
}

func loadConfig(path string, flags *config.Config) (*config.Config, error) {
	cfg := config.DefaultConfig()
	if path != "" {
		loaded, err := config.LoadFromFile(path)
		if err != nil {
			return nil, fmt.Errorf("load config: %w", err)
		}
		cfg = loaded
	}
	cfg.Merge(flags)
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

func newLogger(cfg config.LogConfig) (*zap.Logger, error) {
	zc := zap.NewProductionConfig()
	if cfg.Development {
		zc = zap.NewDevelopmentConfig()
	}
	level, err := zap.ParseAtomicLevel(cfg.Level)
	if err != nil {
		return nil, fmt.Errorf("log level: %w", err)
	}
	zc.Level = level
	return zc.Build()
}

func run(cfg *config.Config) error {
	logger, err := newLogger(cfg.Log)
	if err != nil {
		return err
	}
	defer func() { _ = logger.Sync() }()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	store, closeStore, err := repository.Open(ctx, cfg.Store, logger.Named("store"))
	if err != nil {
		return fmt.Errorf("open store: %w", err)
	}
	defer func() {
		if err := closeStore(); err != nil {
			logger.Warn("close store", zap.Error(err))
		}
	}()

	loc, err := cfg.Location()
	if err != nil {
		return fmt.Errorf("time zone: %w", err)
	}
	formatter, err := locale.New(cfg.Locale.Tag, loc)
	if err != nil {
		return fmt.Errorf("locale: %w", err)
	}

	m := metrics.New()
	catalogDoc := repository.NewDocument(store, cfg.Store.CatalogKey, catalog.Defaults,
		repository.WithSchema(repository.CatalogSchema()),
		repository.WithLogger(logger.Named("catalog")),
		repository.WithErrorObserver(m.PersistError))
	ordersDoc := repository.NewDocument(store, cfg.Store.OrdersKey, func() []domain.Order { return []domain.Order{} },
		repository.WithSchema(repository.OrdersSchema()),
		repository.WithLogger(logger.Named("orders")),
		repository.WithErrorObserver(m.PersistError))

	productsSvc := service.NewProductService(ctx, catalogDoc, logger.Named("catalog"))
	ordersSvc := service.NewOrderService(ctx, ordersDoc,
		service.WithDateFormat(formatter.FormatTime),
		service.WithOrderLogger(logger.Named("orders")))
	storefront := service.NewStorefront(productsSvc, ordersSvc, service.NewAdminGate(cfg.Admin.Secret), m, logger)

	chat := advisor.NewConversation(newAdvisor(cfg.Advisor, logger),
		advisor.WithGreeting(cfg.Advisor.Greeting),
		advisor.WithTimeout(cfg.Advisor.Timeout),
		advisor.WithFallback(cfg.Advisor.Fallback),
		advisor.WithConversationLogger(logger.Named("chat")),
		advisor.WithReplyHook(m.AdvisorReply))

	srv := httpapi.NewServer(storefront, chat, m, logger.Named("http"), httpapi.WithLocale(formatter))
	httpServer := &http.Server{
		Addr:    cfg.Server.Addr,
		Handler: srv.Engine(),
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("HTTP server listening",
			zap.String("addr", httpServer.Addr),
			zap.String("store", cfg.Store.Backend),
			zap.String("locale", formatter.Tag().String()))
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("server error: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		logger.Warn("shutdown error", zap.Error(err))
	}
	logger.Info("stopped")
	return nil
}

// newAdvisor returns the remote advisor, or one that always fails when no
// endpoint is configured so the chat answers with the fallback text.
func newAdvisor(cfg config.AdvisorConfig, logger *zap.Logger) advisor.Advisor {
	if cfg.Endpoint == "" {
		logger.Info("advisor endpoint not configured, chat will reply with the fallback text")
		return advisor.Unavailable
	}
	return advisor.NewClient(cfg.Endpoint,
		advisor.WithAPIKey(os.Getenv(cfg.APIKeyEnv)),
		advisor.WithModel(cfg.Model),
		advisor.WithTemperature(cfg.Temperature),
		advisor.WithSystemPrompt(cfg.SystemPrompt),
		advisor.WithRateLimit(cfg.RequestsPerSecond, cfg.Burst),
		advisor.WithLogger(logger.Named("advisor")))
}
