package finledger

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/xraph/finledger/fx"
	"github.com/xraph/finledger/plugin"
	"github.com/xraph/finledger/risk"
	"github.com/xraph/finledger/store"
)

// Ledger is the accounting engine. It owns all entity state through its
// store; callers only ever hold identifiers and copies.
type Ledger struct {
	store   store.Store
	plugins *plugin.Registry
	logger  *slog.Logger

	fx         fx.Source
	riskPolicy risk.Policy
	now        func() time.Time

	// mu serializes every read-check-write sequence (posting, invoice
	// transitions, KYC) so checks and the writes they guard never interleave.
	mu sync.Mutex
}

// New creates a new Ledger instance.
func New(s store.Store, opts ...Option) *Ledger {
	l := &Ledger{
		store:      s,
		plugins:    plugin.NewRegistry(),
		logger:     slog.Default(),
		fx:         fx.DefaultTable(),
		riskPolicy: risk.Score,
		now:        time.Now,
	}

	for _, opt := range opts {
		opt(l)
	}

	return l
}

// Option configures a Ledger instance.
type Option func(*Ledger)

// WithLogger sets the logger.
func WithLogger(logger *slog.Logger) Option {
	return func(l *Ledger) {
		l.logger = logger
		l.plugins.WithLogger(logger)
	}
}

// WithPlugin registers a plugin.
func WithPlugin(p plugin.Plugin) Option {
	return func(l *Ledger) {
		_ = l.plugins.Register(p) //nolint:errcheck // best-effort plugin registration during init
	}
}

// WithPluginTimeout bounds each plugin hook call.
func WithPluginTimeout(d time.Duration) Option {
	return func(l *Ledger) {
		l.plugins.WithTimeout(d)
	}
}

// WithFXSource replaces the built-in FX table.
func WithFXSource(src fx.Source) Option {
	return func(l *Ledger) {
		if src != nil {
			l.fx = src
		}
	}
}

// WithRiskPolicy replaces the default scoring heuristic. Scores are
// still clamped to [300, 850].
func WithRiskPolicy(p risk.Policy) Option {
	return func(l *Ledger) {
		if p != nil {
			l.riskPolicy = p
		}
	}
}

// WithClock sets the time source used for timestamps.
func WithClock(now func() time.Time) Option {
	return func(l *Ledger) {
		if now != nil {
			l.now = now
		}
	}
}

// Start checks the store and initializes plugins.
func (l *Ledger) Start(ctx context.Context) error {
	if err := l.store.Ping(ctx); err != nil {
		return err
	}

	l.plugins.EmitInit(ctx, l)

	l.logger.Info("ledger started",
		"plugins", l.plugins.Count(),
	)

	return nil
}

// Stop shuts down plugins and closes the store.
func (l *Ledger) Stop() error {
	ctx := context.Background()
	l.plugins.EmitShutdown(ctx)

	l.logger.Info("ledger stopped")

	return l.store.Close()
}

// Health reports whether the store is usable.
func (l *Ledger) Health(ctx context.Context) error {
	return l.store.Ping(ctx)
}

// Plugins returns the plugin registry.
func (l *Ledger) Plugins() *plugin.Registry {
	return l.plugins
}

// ──────────────────────────────────────────────────
// Helpers
// ──────────────────────────────────────────────────

func (l *Ledger) clock() time.Time {
	return l.now().UTC()
}

// reject logs and broadcasts a failed mutation, then returns err unchanged.
func (l *Ledger) reject(ctx context.Context, op string, err error, attrs ...any) error {
	l.logger.Debug("operation rejected",
		append([]any{"op", op, "kind", KindOf(err), "error", err}, attrs...)...,
	)
	l.plugins.EmitOperationRejected(ctx, op, err)
	return err
}
