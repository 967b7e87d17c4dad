// Command server hosts the checkout components over HTTP.
package main

import (
	"context"
	"errors"
	"flag"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/stdout/stdouttrace"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"

	"github.com/yourorg/checkout-components/internal/config"
	"github.com/yourorg/checkout-components/internal/configurator"
	"github.com/yourorg/checkout-components/internal/logging"
	"github.com/yourorg/checkout-components/internal/orchestrator"
	"github.com/yourorg/checkout-components/internal/reporting"
	"github.com/yourorg/checkout-components/internal/sdk/fake"
	"github.com/yourorg/checkout-components/internal/session"
	"github.com/yourorg/checkout-components/internal/session/mock"
)

func setupRouter(a *app, serviceName string) *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery())
	if serviceName != "" {
		router.Use(otelgin.Middleware(serviceName))
	}
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))
	a.routes(router)
	return router
}

// setupTracing installs a stdout-exporting tracer provider. The returned func flushes it.
func setupTracing(cfg config.TelemetryConfig) (func(context.Context) error, error) {
	if !cfg.Enabled || cfg.TraceExporter == "none" {
		return func(context.Context) error { return nil }, nil
	}
	exporter, err := stdouttrace.New(stdouttrace.WithWriter(os.Stderr))
	if err != nil {
		return nil, err
	}
	tp := sdktrace.NewTracerProvider(
		sdktrace.WithBatcher(exporter),
		sdktrace.WithResource(resource.NewSchemaless(attribute.String("service.name", cfg.ServiceName))),
	)
	otel.SetTracerProvider(tp)
	return tp.Shutdown, nil
}

func newNetwork(cfg *config.Config, offline bool) session.NetworkLayer {
	if offline {
		return mock.NewNetwork()
	}
	return cfg.Network()
}

func main() {
	offline := flag.Bool("offline", false, "answer payments API calls in-process instead of calling the network")
	preset := flag.String("preset", "", "YAML or JSON settings preset (overrides CKO_PRESET)")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}
	logger := logging.New(os.Stdout, logging.ParseLevel(cfg.LogLevel))

	shutdownTracing, err := setupTracing(cfg.Telemetry)
	if err != nil {
		log.Fatalf("Failed to set up tracing: %v", err)
	}

	journal := reporting.NewJournal(0)
	orc := orchestrator.NewOrchestrator(
		session.NewBootstrapper(newNetwork(cfg, *offline), logger),
		fake.New(),
		cfg.Profiles(),
		journal,
		logger,
	)

	if *preset == "" {
		*preset = cfg.PresetPath
	}
	if *preset != "" {
		settings, err := configurator.LoadSettings(*preset)
		if err != nil {
			log.Fatalf("Failed to load preset: %v", err)
		}
		if err := orc.ApplySettings(settings); err != nil {
			log.Fatalf("Failed to apply preset: %v", err)
		}
	}

	serviceName := ""
	if cfg.Telemetry.Enabled {
		serviceName = cfg.Telemetry.ServiceName
	}
	srv := &http.Server{
		Addr:         cfg.Server.Address(),
		Handler:      setupRouter(newApp(orc, journal, logger), serviceName),
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	go func() {
		logger.Info(ctx, "Server: listening", logging.Fields{"address": srv.Addr, "environment": string(cfg.Environment), "offline": *offline})
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("Failed to run server: %v", err)
		}
	}()

	<-ctx.Done()
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error(shutdownCtx, "Server: shutdown failed", err, nil)
	}
	if err := shutdownTracing(shutdownCtx); err != nil {
		logger.Error(shutdownCtx, "Server: flushing traces failed", err, nil)
	}
}
