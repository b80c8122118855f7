// Package main wires the consent gateway: configuration, logging, metrics,
// the document store, the upstream clients and the HTTP router. Business
// logic lives in the internal service packages.
package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"cm-gateway/internal/consent/service"
	"cm-gateway/internal/consent/tracer"
	"cm-gateway/internal/directory"
	"cm-gateway/internal/docstore"
	"cm-gateway/internal/issuer"
	"cm-gateway/internal/platform/config"
	"cm-gateway/internal/platform/health"
	"cm-gateway/internal/platform/httpclient"
	"cm-gateway/internal/platform/logger"
	"cm-gateway/internal/platform/metrics"
	platformredis "cm-gateway/internal/platform/redis"
	httptransport "cm-gateway/internal/transport/http"
	"cm-gateway/pkg/platform/circuit"
)

func main() {
	cfg := config.FromEnv()
	log := logger.New()

	log.Info("initializing consent gateway",
		"addr", cfg.Addr,
		"doc_store", cfg.DocStore,
		"directory_url", cfg.Directory.BaseURL,
		"issuer_url", cfg.Issuer.BaseURL,
	)

	m := metrics.New(prometheus.DefaultRegisterer)
	healthHandler := health.New()

	var store docstore.Store
	switch cfg.DocStore {
	case "redis":
		redisClient, err := platformredis.New(cfg.RedisURL)
		if err != nil {
			log.Error("redis connection failed", "error", err)
			os.Exit(1)
		}
		if redisClient == nil {
			log.Error("DOC_STORE=redis requires REDIS_URL")
			os.Exit(1)
		}
		defer redisClient.Close()
		healthHandler.RegisterCheck("redis", func() error {
			ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
			defer cancel()
			return redisClient.Health(ctx)
		})
		store = docstore.NewRedisStore(redisClient)
	default:
		store = docstore.NewMemoryStore()
	}

	dirClient := directory.NewCached(
		directory.NewHTTPClient(cfg.Directory.BaseURL, upstreamDoer("directory", cfg.Directory, log), log),
		cfg.ConfigCacheTTL,
	)
	issClient := issuer.NewHTTPClient(cfg.Issuer.BaseURL, upstreamDoer("issuer", cfg.Issuer, log), log)

	svc := service.New(store, dirClient, issClient, log,
		service.WithMetrics(m),
		service.WithTracer(tracer.NewOTel()),
	)

	handler := httptransport.NewHandler(svc, log, m)
	router := httptransport.NewRouter(handler, log, healthHandler)

	srv := &http.Server{
		Addr:              cfg.Addr,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	log.Info("starting http server", "addr", cfg.Addr)

	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	log.Info("shutting down server gracefully")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Error("graceful shutdown failed", "error", err)
		os.Exit(1)
	}

	log.Info("server stopped")
}

// upstreamDoer composes the shared transport policy for one upstream: a
// per-host timeout, bounded retries with a static delay, and a circuit
// breaker.
func upstreamDoer(name string, cfg config.Upstream, log *slog.Logger) httpclient.Doer {
	base := &http.Client{Timeout: cfg.Timeout}
	return httpclient.NewBreaking(
		httpclient.NewRetrying(base, cfg.Retries, cfg.RetryDelay, log),
		circuit.New(name),
		log,
	)
}
