package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/spf13/cobra"

	"github.com/Skotchmaster/store/internal/httpserver"
	"github.com/Skotchmaster/store/pkg/config"
	pkgdb "github.com/Skotchmaster/store/pkg/db"
	"github.com/Skotchmaster/store/pkg/events"
	"github.com/Skotchmaster/store/pkg/logging"
	"github.com/Skotchmaster/store/services/cart"
	"github.com/Skotchmaster/store/services/catalog"
)

func serveCmd() *cobra.Command {
	var autoMigrate bool
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API",
		RunE: func(cmd *cobra.Command, args []string) error {
			return serve(cmd.Context(), config.MustValid(config.Load()), autoMigrate)
		},
	}
	cmd.Flags().BoolVar(&autoMigrate, "migrate", false, "create missing tables before serving")
	return cmd
}

func serve(ctx context.Context, cfg config.Config, autoMigrate bool) error {
	logger := logging.New(cfg.LogLevel).With("service", cfg.ServiceName)
	slog.SetDefault(logger)

	initCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	db, err := pkgdb.Open(initCtx, cfg.DatabaseDriver, cfg.DatabaseURL)
	if err != nil {
		return fmt.Errorf("db open: %w", err)
	}
	defer func() { _ = pkgdb.Close(db) }()

	if autoMigrate {
		if err := httpserver.Migrate(db); err != nil {
			return fmt.Errorf("migrate: %w", err)
		}
	}

	deps := &httpserver.Deps{
		DB:           db,
		Logger:       logger,
		PublicURL:    cfg.PublicURL,
		JWTSecret:    cfg.JWTAccessSecret,
		Events:       events.NopPublisher{},
		ElasticIndex: cfg.ElasticIndex,
	}

	if len(cfg.KafkaBrokers) > 0 {
		pub := events.NewKafkaPublisher(cfg.KafkaBrokers)
		defer func() { _ = pub.Close() }()
		deps.Events = pub
		logger.Info("kafka_enabled", "brokers", cfg.KafkaBrokers)
	}

	if cfg.ElasticURL != "" {
		es, err := catalog.NewElasticClient(cfg.ElasticURL, cfg.ElasticUser, cfg.ElasticPassword)
		if err != nil {
			return err
		}
		deps.Elastic = es
		logger.Info("elasticsearch_enabled", "index", cfg.ElasticIndex)
	}

	if cfg.RedisURL != "" {
		rdb, err := cart.NewRedisClient(initCtx, cfg.RedisURL)
		if err != nil {
			return err
		}
		defer func() { _ = rdb.Close() }()
		deps.Redis = rdb
		logger.Info("redis_cart_lock_enabled")
	}

	if len(cfg.JWTAccessSecret) == 0 {
		logger.Warn("catalog_admin_auth_disabled", "reason", "JWT_SECRET is empty")
	}

	e := httpserver.New(deps)
	srv := &http.Server{
		Addr:              ":" + strconv.Itoa(cfg.ServerPort),
		Handler:           e,
		ReadTimeout:       10 * time.Second,
		WriteTimeout:      15 * time.Second,
		ReadHeaderTimeout: 3 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("server_listening", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("listen: %w", err)
		}
	case <-ctx.Done():
	}

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("server_shutdown_error", "error", err)
	}
	logger.Info("server_stopped")
	return nil
}
