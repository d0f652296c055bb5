package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"go.uber.org/zap"

	"github.com/JakeFAU/notfound-service/internal/api"
	"github.com/JakeFAU/notfound-service/internal/config"
	"github.com/JakeFAU/notfound-service/internal/id/uuid"
	"github.com/JakeFAU/notfound-service/internal/logging"
	"github.com/JakeFAU/notfound-service/internal/metrics"
	pubsubpublisher "github.com/JakeFAU/notfound-service/internal/publisher/pubsub"
	"github.com/JakeFAU/notfound-service/internal/reasons"
	"github.com/JakeFAU/notfound-service/internal/storage"
	pubsubsubscriber "github.com/JakeFAU/notfound-service/internal/subscriber/pubsub"
)

func main() {
	cfgPath := flag.String("config", "", "Path to config file")
	flag.Parse()

	cfg, err := config.Load(*cfgPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "load config failed: %v\n", err)
		os.Exit(1)
	}
	logger, err := logging.New(cfg.Logging.Development, cfg.Logging.Level)
	if err != nil {
		fmt.Fprintf(os.Stderr, "logger init failed: %v\n", err)
		os.Exit(1)
	}
	zap.ReplaceGlobals(logger)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	err = run(ctx, cfg, logger)
	stop()
	if syncErr := logger.Sync(); syncErr != nil {
		fmt.Fprintf(os.Stderr, "logger sync failed: %v\n", syncErr)
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "%v\n", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, cfg config.Config, logger *zap.Logger) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	metrics.Init()

	source, err := storage.Open(ctx, cfg.Catalog.Source, storage.Options{
		Table:       cfg.Catalog.Table,
		AWSRegion:   cfg.AWS.Region,
		AWSEndpoint: cfg.AWS.Endpoint,
	})
	if err != nil {
		return fmt.Errorf("open catalog source: %w", err)
	}
	defer func() {
		if closeErr := source.Close(); closeErr != nil {
			logger.Warn("close catalog source failed", zap.Error(closeErr))
		}
	}()

	cache := reasons.NewCache(source,
		reasons.WithTimeout(cfg.LoadTimeout()),
		reasons.WithLogger(logger.Named("catalog")),
		reasons.WithObserver(metrics.ObserveCatalogLoad),
	)
	// A malformed catalog stops startup instead of surfacing as 500s later.
	catalog, err := cache.Load(ctx)
	if err != nil {
		return fmt.Errorf("preload catalog: %w", err)
	}
	logger.Info("catalog ready",
		zap.String("source", source.Location()),
		zap.Int("entries", catalog.Len()),
		zap.Bool("placeholder", catalog.IsPlaceholder()),
	)

	if cfg.PubSubEnabled() {
		sub, err := pubsubsubscriber.Dial(ctx, cfg.PubSub.ProjectID, cfg.PubSub.Subscription, cache, logger.Named("subscriber"))
		if err != nil {
			return fmt.Errorf("start invalidation subscriber: %w", err)
		}
		defer func() {
			if closeErr := sub.Close(); closeErr != nil {
				logger.Warn("close subscriber failed", zap.Error(closeErr))
			}
		}()
		go func() {
			if err := sub.Run(ctx); err != nil {
				logger.Error("invalidation subscriber stopped", zap.Error(err))
			}
		}()
	}

	opts := []api.Option{api.WithIDGenerator(uuid.New())}
	if cfg.PublishEnabled() {
		pub, err := pubsubpublisher.Dial(ctx, cfg.PubSub.ProjectID, cfg.PubSub.Topic)
		if err != nil {
			return fmt.Errorf("start reload publisher: %w", err)
		}
		defer func() {
			if closeErr := pub.Close(); closeErr != nil {
				logger.Warn("close publisher failed", zap.Error(closeErr))
			}
		}()
		opts = append(opts, api.WithPublisher(pub))
	}

	apiServer := api.NewServer(cache, cfg, logger.Named("api"), opts...)
	srv := &http.Server{
		Addr:              cfg.Addr(),
		Handler:           apiServer.Handler(),
		ReadHeaderTimeout: cfg.ReadHeaderTimeout(),
	}

	serveErr := make(chan error, 1)
	go func() {
		logger.Info("http server started", zap.String("addr", srv.Addr), zap.String("service", cfg.App.Name))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
		}
		close(serveErr)
	}()

	select {
	case <-ctx.Done():
	case err := <-serveErr:
		if err != nil {
			return fmt.Errorf("http server: %w", err)
		}
	}
	logger.Info("shutdown initiated")

	shutdownCtx, cancelShutdown := context.WithTimeout(context.WithoutCancel(ctx), cfg.ShutdownTimeout())
	defer cancelShutdown()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("server shutdown error", zap.Error(err))
	}
	logger.Info("shutdown complete")
	return nil
}
