// Command finledgerd serves the ledger engine over HTTP.
package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"golang.org/x/sync/errgroup"

	"github.com/xraph/finledger"
	"github.com/xraph/finledger/api"
	audithook "github.com/xraph/finledger/audit_hook"
	"github.com/xraph/finledger/internal/config"
	"github.com/xraph/finledger/observability"
	"github.com/xraph/finledger/store/memory"
)

func main() {
	if err := run(); err != nil {
		slog.Error("finledgerd exited", "error", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load(".")
	if err != nil {
		return err
	}

	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: cfg.Level()})).
		With("app", cfg.AppName)
	slog.SetDefault(logger)

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))

	opts := []finledger.Option{
		finledger.WithLogger(logger),
		finledger.WithPluginTimeout(cfg.PluginTimeout),
		finledger.WithPlugin(observability.NewMetricsExtension(observability.NewPrometheusFactory(reg))),
		finledger.WithPlugin(audithook.New(auditLog(logger), audithook.WithLogger(logger))),
	}
	table, err := cfg.FXTable()
	if err != nil {
		return err
	}
	if table != nil {
		opts = append(opts, finledger.WithFXSource(table))
	}

	engine := finledger.New(memory.New(), opts...)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := engine.Start(ctx); err != nil {
		return err
	}

	handler := api.New(engine,
		api.WithLogger(logger),
		api.WithService(cfg.ServiceName, cfg.Namespace),
		api.WithCORSOrigins(cfg.Origins()...),
	)

	root := chi.NewRouter()
	root.Handle("/metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{}))
	root.Mount("/", handler.Routes())

	srv := &http.Server{
		Addr:              cfg.Addr(),
		Handler:           root,
		ReadHeaderTimeout: 10 * time.Second,
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		logger.Info("server starting",
			"addr", srv.Addr,
			"service", cfg.ServiceName,
			"procedures", len(handler.Procedures()),
		)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		logger.Info("shutting down server")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
		defer cancel()

		return errors.Join(srv.Shutdown(shutdownCtx), engine.Stop())
	})

	if err := g.Wait(); err != nil {
		return err
	}

	logger.Info("server exited")
	return nil
}

// auditLog writes audit events to the structured log.
func auditLog(logger *slog.Logger) audithook.Recorder {
	audit := logger.With("component", "audit")
	return audithook.RecorderFunc(func(ctx context.Context, evt *audithook.AuditEvent) error {
		level := slog.LevelInfo
		if evt.Severity != audithook.SeverityInfo {
			level = slog.LevelWarn
		}
		audit.Log(ctx, level, evt.Action,
			"resource", evt.Resource,
			"resource_id", evt.ResourceID,
			"category", evt.Category,
			"outcome", evt.Outcome,
			"reason", evt.Reason,
			"metadata", evt.Metadata,
		)
		return nil
	})
}
