package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"golang.org/x/sync/errgroup"

	"mailgate/internal/directory"
	directorymetrics "mailgate/internal/directory/metrics"
	"mailgate/internal/identify"
	identifymetrics "mailgate/internal/identify/metrics"
	"mailgate/internal/platform/config"
	"mailgate/internal/platform/httpserver"
	"mailgate/internal/platform/logger"
	platformredis "mailgate/internal/platform/redis"
	"mailgate/internal/routing"
	routingmetrics "mailgate/internal/routing/metrics"
	"mailgate/internal/tenant/loader"
	httptransport "mailgate/internal/transport/http"
)

// main wires high-level dependencies and keeps the server lifecycle small.
// Business logic lives in the internal packages.
func main() {
	cfg := config.FromEnv()
	log := logger.New()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	source := loader.File{Path: cfg.TenantConfigPath}
	provider, err := directory.NewProvider(ctx, source,
		directory.WithLogger(log),
		directory.WithMetrics(directorymetrics.New()),
	)
	if err != nil {
		log.Error("failed to build tenant directory", "source", source.Describe(), "error", err)
		os.Exit(1)
	}

	pipeline := identify.NewPipeline(provider,
		identify.WithLogger(log),
		identify.WithMetrics(identifymetrics.New()),
		identify.WithFuzzyMatching(cfg.EnableFuzzyMatching),
		identify.WithHierarchyMatching(cfg.EnableHierarchyMatching),
		identify.WithConfidenceThreshold(cfg.ConfidenceThreshold),
	)

	engine, err := routing.NewEngine(provider, cfg.DefaultDestination,
		routing.WithLogger(log),
		routing.WithMetrics(routingmetrics.New()),
	)
	if err != nil {
		log.Error("failed to build routing engine", "error", err)
		os.Exit(1)
	}

	redisClient, err := platformredis.New(cfg.RedisURL)
	if err != nil {
		log.Error("failed to connect to redis", "error", err)
		os.Exit(1)
	}

	var health httptransport.Health
	if redisClient != nil {
		health = redisClient.Health
	}

	handler := httptransport.NewHandler(pipeline, engine, provider, health, log)
	srv := httpserver.New(cfg.Addr, httptransport.NewRouter(handler))

	group, groupCtx := errgroup.WithContext(ctx)

	group.Go(func() error {
		log.Info("starting mailgate", "addr", cfg.Addr, "tenants", provider.Current().TenantCount())
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})

	if redisClient != nil {
		listener := directory.NewReloadListener(redisClient.Client, provider, cfg.ReloadChannel, log)
		group.Go(func() error {
			err := listener.Run(groupCtx)
			if errors.Is(err, context.Canceled) {
				return nil
			}
			return err
		})
	}

	group.Go(func() error {
		<-groupCtx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	if err := group.Wait(); err != nil {
		log.Error("server exited", "error", err)
		os.Exit(1)
	}
}
