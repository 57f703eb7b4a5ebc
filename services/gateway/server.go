// Copyright (C) 2026 LaunchPilot (support@launchpilot.marketing)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

// Package gateway assembles the generation gateway service.
package gateway

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	badger "github.com/dgraph-io/badger/v4"
	"github.com/gin-gonic/gin"
	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"

	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracegrpc"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.21.0"

	"github.com/dizid/shipkit/pkg/identity"
	"github.com/dizid/shipkit/pkg/logging"
	"github.com/dizid/shipkit/pkg/storage/badgerdb"
	"github.com/dizid/shipkit/services/gateway/handlers"
	"github.com/dizid/shipkit/services/gateway/middleware"
	"github.com/dizid/shipkit/services/gateway/observability"
	"github.com/dizid/shipkit/services/gateway/quota"
	"github.com/dizid/shipkit/services/gateway/routes"
	"github.com/dizid/shipkit/services/gateway/upstream"
	"github.com/dizid/shipkit/services/gateway/usage"
)

// Config assembles the gateway from the environment and flags.
type Config struct {
	// Port to listen on. Default 8080.
	Port string
	// AnthropicAPIKey is required unless an upstream client is
	// injected (tests).
	AnthropicAPIKey string
	// Model overrides the upstream default. Optional.
	Model string
	// UpstreamBaseURL overrides the Anthropic endpoint (tests).
	UpstreamBaseURL string
	// DataDir holds the Badger database. Empty means in-memory.
	DataDir string
	// AllowedOrigins is the CORS allow-list.
	AllowedOrigins []string
	// StrictCORS rejects disallowed origins with 403.
	StrictCORS bool
	// IdentityBaseURL and IdentityServiceKey configure token
	// verification. Both empty selects the Nop provider (local mode).
	IdentityBaseURL    string
	IdentityServiceKey string
	// RequestsPerSecond/Burst configure abuse throttling. Zero
	// disables the limiter.
	RequestsPerSecond float64
	Burst             int
	// OTelEndpoint enables tracing when set (host:port for the OTLP
	// gRPC collector).
	OTelEndpoint string
	Logger       *logging.Logger
}

// ConfigFromEnv reads the gateway configuration from the environment.
func ConfigFromEnv() Config {
	cfg := Config{
		Port:               os.Getenv("GATEWAY_PORT"),
		AnthropicAPIKey:    os.Getenv("ANTHROPIC_API_KEY"),
		Model:              os.Getenv("CLAUDE_MODEL"),
		DataDir:            os.Getenv("GATEWAY_DATA_DIR"),
		IdentityBaseURL:    os.Getenv("IDENTITY_BASE_URL"),
		IdentityServiceKey: os.Getenv("IDENTITY_SERVICE_KEY"),
		OTelEndpoint:       os.Getenv("OTEL_EXPORTER_OTLP_ENDPOINT"),
	}
	if cfg.AnthropicAPIKey == "" {
		// Container secret mounts take over when the env var is unset.
		if content, err := os.ReadFile("/run/secrets/anthropic_api_key"); err == nil {
			cfg.AnthropicAPIKey = strings.TrimSpace(string(content))
		}
	}
	if origins := os.Getenv("GATEWAY_ALLOWED_ORIGINS"); origins != "" {
		for _, o := range strings.Split(origins, ",") {
			if o = strings.TrimSpace(o); o != "" {
				cfg.AllowedOrigins = append(cfg.AllowedOrigins, o)
			}
		}
	}
	cfg.StrictCORS = os.Getenv("GATEWAY_STRICT_CORS") == "true"
	return cfg
}

// Server is a fully wired gateway.
type Server struct {
	router  *gin.Engine
	db      *badger.DB
	gc      *badgerdb.GCRunner
	port    string
	logger  *logging.Logger
	cleanup func(context.Context)
}

// New assembles the gateway. Configuration errors (missing API key,
// unopenable data dir) fail here, before the server ever listens.
func New(cfg Config) (*Server, error) {
	logger := cfg.Logger
	if logger == nil {
		logger = logging.Default()
	}

	upstreamClient, err := upstream.NewClient(upstream.Config{
		APIKey:  cfg.AnthropicAPIKey,
		Model:   cfg.Model,
		BaseURL: cfg.UpstreamBaseURL,
		Logger:  logger,
	})
	if err != nil {
		return nil, fmt.Errorf("configure upstream: %w", err)
	}

	var db *badger.DB
	var gc *badgerdb.GCRunner
	if cfg.DataDir == "" {
		logger.Warn("GATEWAY_DATA_DIR not set, usage accounting is in-memory and resets on restart")
		db, err = badgerdb.OpenInMemory()
	} else {
		storageCfg := badgerdb.DefaultConfig()
		storageCfg.Path = cfg.DataDir
		storageCfg.Logger = logger.Slog()
		db, err = badgerdb.Open(storageCfg)
		if err == nil {
			var gcErr error
			gc, gcErr = badgerdb.NewGCRunner(db, storageCfg.GCInterval, storageCfg.GCDiscardRatio, logger.Slog())
			if gcErr != nil {
				logger.Warn("value log GC disabled", "error", gcErr)
			}
		}
	}
	if err != nil {
		return nil, fmt.Errorf("open storage: %w", err)
	}

	ledger, err := usage.NewLedger(db)
	if err != nil {
		return nil, err
	}
	subs, err := usage.NewSubscriptionStore(db)
	if err != nil {
		return nil, err
	}
	checker, err := quota.NewChecker(ledger, subs, logger)
	if err != nil {
		return nil, err
	}

	var provider identity.AuthProvider = &identity.NopAuthProvider{}
	if cfg.IdentityBaseURL != "" {
		provider, err = identity.NewTokenVerifier(identity.VerifierConfig{
			BaseURL:    cfg.IdentityBaseURL,
			ServiceKey: cfg.IdentityServiceKey,
		})
		if err != nil {
			return nil, fmt.Errorf("configure identity: %w", err)
		}
	} else {
		logger.Warn("IDENTITY_BASE_URL not set, all requests authenticate as local-user")
	}

	metrics := observability.DefaultMetrics
	if metrics == nil {
		metrics = observability.InitMetrics()
	}

	cleanup := func(context.Context) {}
	router := gin.Default()
	if cfg.OTelEndpoint != "" {
		cleanup, err = initTracer(cfg.OTelEndpoint)
		if err != nil {
			return nil, fmt.Errorf("setup the OTLP tracer: %w", err)
		}
		router.Use(otelgin.Middleware("gateway-service"))
	}

	routes.SetupRoutes(router, routes.Options{
		Generate: handlers.GenerateDeps{
			Upstream: upstreamClient,
			Quota:    checker,
			Ledger:   ledger,
			Metrics:  metrics,
			Logger:   logger,
		},
		Auth: provider,
		CORS: middleware.CORSConfig{
			AllowedOrigins: cfg.AllowedOrigins,
			Strict:         cfg.StrictCORS,
		},
		RateLimit: middleware.RateLimitConfig{
			RequestsPerSecond: cfg.RequestsPerSecond,
			Burst:             cfg.Burst,
		},
	})

	port := cfg.Port
	if port == "" {
		port = "8080"
	}

	srv := &Server{
		router:  router,
		db:      db,
		gc:      gc,
		port:    port,
		logger:  logger,
		cleanup: cleanup,
	}
	if gc != nil {
		gc.Start()
	}
	return srv, nil
}

// Router exposes the gin engine for tests and embedding.
func (s *Server) Router() *gin.Engine { return s.router }

// Run serves until the listener fails. Blocking.
func (s *Server) Run() error {
	s.logger.Info("starting the gateway server", "port", s.port)
	defer s.Close()
	return s.router.Run(":" + s.port)
}

// Close releases storage and flushes the tracer.
func (s *Server) Close() {
	if s.gc != nil {
		s.gc.Stop()
	}
	if err := s.db.Close(); err != nil {
		s.logger.Error("failed to close storage", "error", err)
	}
	s.cleanup(context.Background())
}

// initTracer wires the OTLP gRPC exporter and installs the global
// tracer provider.
func initTracer(endpoint string) (func(context.Context), error) {
	ctx := context.Background()

	conn, err := grpc.NewClient(endpoint,
		grpc.WithTransportCredentials(insecure.NewCredentials()))
	if err != nil {
		return nil, err
	}
	traceExporter, err := otlptracegrpc.New(ctx, otlptracegrpc.WithGRPCConn(conn))
	if err != nil {
		return nil, err
	}
	res, err := resource.New(ctx,
		resource.WithAttributes(semconv.ServiceNameKey.String("gateway-service")))
	if err != nil {
		return nil, err
	}
	bsp := sdktrace.NewBatchSpanProcessor(traceExporter)
	traceProvider := sdktrace.NewTracerProvider(
		sdktrace.WithSampler(sdktrace.AlwaysSample()),
		sdktrace.WithResource(res),
		sdktrace.WithSpanProcessor(bsp))
	otel.SetTracerProvider(traceProvider)
	otel.SetTextMapPropagator(propagation.NewCompositeTextMapPropagator(
		propagation.TraceContext{}, propagation.Baggage{}))

	return func(ctx context.Context) {
		ctx, cancel := context.WithTimeout(ctx, time.Second*5)
		defer cancel()
		if err := traceExporter.Shutdown(ctx); err != nil {
			logging.Default().Error("failed to shutdown OTLP exporter", "error", err)
		}
	}, nil
}
