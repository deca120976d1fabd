package main

import (
	"context"
	"fmt"
	"net"
	"os"
	"os/signal"
	"syscall"
	"time"

	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/grpc/health"
	"google.golang.org/grpc/health/grpc_health_v1"
	"google.golang.org/grpc/keepalive"
	"google.golang.org/grpc/reflection"

	"github.com/dasmlab/mozhi/pkg/cache"
	"github.com/dasmlab/mozhi/pkg/config"
	"github.com/dasmlab/mozhi/pkg/gateway"
	"github.com/dasmlab/mozhi/pkg/server"
	"github.com/dasmlab/mozhi/pkg/service"
	"github.com/dasmlab/mozhi/pkg/session"
	"github.com/dasmlab/mozhi/pkg/translate"
	"github.com/sirupsen/logrus"
)

func main() {
	// Initialize logger
	logger := logrus.New()
	logger.SetFormatter(&logrus.TextFormatter{
		FullTimestamp:   true,
		TimestampFormat: time.RFC3339,
	})

	cfg, err := config.Load(os.Args[1:])
	if err != nil {
		logger.WithError(err).Fatal("Invalid configuration")
	}
	logger.SetLevel(cfg.Level())
	logger.WithFields(cfg.Fields()).Info("Starting Mozhi translator")

	// Create translator instance
	translator, err := translate.NewTranslator(translate.Config{
		Engine:  cfg.EngineType(),
		BaseURL: cfg.EngineURL,
		APIKey:  cfg.EngineAPIKey,
		Model:   cfg.OpenAIModel,
		Email:   cfg.MyMemoryEmail,
		Tries:   cfg.GoogleTries,
		Logger:  logger,
	})
	if err != nil {
		logger.WithError(err).Fatal("Failed to create translator")
	}
	translator = translate.Instrument(translator)

	translationCache, closeCache, err := newCache(cfg, logger)
	if err != nil {
		logger.WithError(err).Fatal("Failed to create translation cache")
	}
	defer closeCache()
	translator = translate.WithCache(translator, translationCache, logger)

	gw := gateway.New(translator,
		gateway.WithTimeout(cfg.ProviderTimeout),
		gateway.WithLogger(logger),
	)

	// Verify provider is reachable; the gateway degrades to the offline table if not
	healthCtx, healthCancel := context.WithTimeout(context.Background(), 10*time.Second)
	logger.Info("Checking translator health...")
	if gw.IsConfigured(healthCtx) {
		logger.Info("Translator health check passed")
	} else {
		logger.Warn("Translator health check failed, serving with offline fallback until the provider recovers")
	}
	healthCancel()

	sessions := session.NewManager(gw, logger)

	// Create listener
	lis, err := net.Listen("tcp", fmt.Sprintf(":%d", cfg.GRPCPort))
	if err != nil {
		logger.WithError(err).WithFields(logrus.Fields{
			"port": cfg.GRPCPort,
		}).Fatal("Failed to listen on port")
	}

	grpcServer := grpc.NewServer(
		grpc.Creds(insecure.NewCredentials()),
		grpc.UnaryInterceptor(service.LoggingInterceptor(logger)),
		grpc.KeepaliveEnforcementPolicy(keepalive.EnforcementPolicy{
			MinTime:             15 * time.Second,
			PermitWithoutStream: true,
		}),
		grpc.KeepaliveParams(keepalive.ServerParameters{
			MaxConnectionIdle:     5 * time.Minute,
			MaxConnectionAge:      30 * time.Minute,
			MaxConnectionAgeGrace: 5 * time.Second,
			Time:                  30 * time.Second,
			Timeout:               10 * time.Second,
		}),
	)

	healthServer := health.NewServer()
	grpc_health_v1.RegisterHealthServer(grpcServer, healthServer)
	healthServer.SetServingStatus("", grpc_health_v1.HealthCheckResponse_SERVING)

	service.RegisterTranslationServiceServer(grpcServer, service.NewTranslationService(gw, sessions, logger))
	reflection.Register(grpcServer)

	// Background workers stop when ctx is cancelled
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	go sessions.RunCleanup(ctx, cfg.SessionCleanupInterval, cfg.SessionMaxIdle)
	logger.WithFields(logrus.Fields{
		"cleanup_interval": cfg.SessionCleanupInterval.String(),
		"max_idle_time":    cfg.SessionMaxIdle.String(),
	}).Info("Started session cleanup goroutine")

	go logSessionMetrics(ctx, sessions, logger)

	if mem, ok := translationCache.(*cache.InMemoryCache); ok {
		go mem.RunSweeper(ctx, time.Minute)
	}

	httpServer := server.NewHTTPServer(gw, sessions, logger, cfg.HTTPAddr)

	errChan := make(chan error, 2)
	go func() {
		logger.WithFields(logrus.Fields{
			"port": cfg.GRPCPort,
		}).Info("gRPC server listening")
		if err := grpcServer.Serve(lis); err != nil {
			errChan <- fmt.Errorf("failed to serve gRPC: %w", err)
		}
	}()
	go func() {
		if err := httpServer.Start(); err != nil {
			errChan <- fmt.Errorf("failed to serve HTTP: %w", err)
		}
	}()

	// Wait for interrupt signal
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	select {
	case err := <-errChan:
		logger.WithError(err).Error("Server error")
	case sig := <-sigChan:
		logger.WithFields(logrus.Fields{
			"signal": sig.String(),
		}).Info("Received signal, shutting down gracefully...")
	}

	cancel()
	shutdown(grpcServer, healthServer, httpServer, logger)
}

func shutdown(grpcServer *grpc.Server, healthServer *health.Server, httpServer *server.HTTPServer, logger *logrus.Logger) {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	healthServer.SetServingStatus("", grpc_health_v1.HealthCheckResponse_NOT_SERVING)

	if err := httpServer.Shutdown(ctx); err != nil {
		logger.WithError(err).Warn("HTTP server did not shut down cleanly")
	}

	stopped := make(chan struct{})
	go func() {
		grpcServer.GracefulStop()
		close(stopped)
	}()

	select {
	case <-stopped:
		logger.Info("Server stopped gracefully")
	case <-ctx.Done():
		logger.Warn("Graceful shutdown timeout, forcing stop...")
		grpcServer.Stop()
	}
}

// newCache builds the configured translation cache. The returned close func is never nil.
func newCache(cfg *config.Config, logger *logrus.Logger) (cache.TranslationCache, func(), error) {
	noop := func() {}

	switch cfg.CacheBackend {
	case config.CacheMemory:
		logger.WithField("ttl", cfg.CacheTTL.String()).Info("Using in-memory translation cache")
		return cache.NewInMemoryCache(cfg.CacheTTL), noop, nil
	case config.CacheRedis:
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		rc, err := cache.NewRedisCache(ctx, cache.RedisConfig{URL: cfg.RedisURL, TTL: cfg.CacheTTL})
		if err != nil {
			return nil, noop, err
		}
		logger.WithField("ttl", cfg.CacheTTL.String()).Info("Using Redis translation cache")
		return rc, func() {
			if err := rc.Close(); err != nil {
				logger.WithError(err).Warn("Failed to close Redis cache")
			}
		}, nil
	default:
		return nil, noop, nil
	}
}

// logSessionMetrics logs session counts every minute.
func logSessionMetrics(ctx context.Context, sessions *session.Manager, logger *logrus.Logger) {
	ticker := time.NewTicker(1 * time.Minute)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			summaries := sessions.List()
			translations := 0
			for _, s := range summaries {
				translations += s.TranslationCount
			}
			logger.WithFields(logrus.Fields{
				"sessions":     len(summaries),
				"translations": translations,
			}).Debug("Session metrics")
		case <-ctx.Done():
			return
		}
	}
}
