package plugin

import (
	"context"
	"fmt"
	"log/slog"
	"reflect"
	"sync"
	"time"

	"github.com/xraph/finledger/account"
	"github.com/xraph/finledger/customer"
	"github.com/xraph/finledger/invoice"
	"github.com/xraph/finledger/loan"
	"github.com/xraph/finledger/risk"
	"github.com/xraph/finledger/transaction"
	"github.com/xraph/finledger/types"
)

// DefaultTimeout bounds a single hook call.
const DefaultTimeout = 5 * time.Second

// Registry manages all registered plugins and provides efficient dispatch.
// It uses type-cached discovery so emitting an event only visits plugins
// that implement its hook.
type Registry struct {
	mu      sync.RWMutex
	plugins []Plugin
	logger  *slog.Logger
	timeout time.Duration

	// Type-cached plugin lists for efficient dispatch
	onInit              []OnInit
	onShutdown          []OnShutdown
	onCustomerCreated   []OnCustomerCreated
	onKYCChecked        []OnKYCChecked
	onAccountOpened     []OnAccountOpened
	onTransactionPosted []OnTransactionPosted
	onTransferCompleted []OnTransferCompleted
	onInvoiceCreated    []OnInvoiceCreated
	onInvoicePaid       []OnInvoicePaid
	onInvoiceVoided     []OnInvoiceVoided
	onLoanCreated       []OnLoanCreated
	onRiskScored        []OnRiskScored
	onOperationRejected []OnOperationRejected
}

// NewRegistry creates a new plugin registry.
func NewRegistry() *Registry {
	return &Registry{
		logger:  slog.Default(),
		timeout: DefaultTimeout,
	}
}

// WithLogger sets the logger for the registry.
func (r *Registry) WithLogger(logger *slog.Logger) *Registry {
	r.logger = logger
	return r
}

// WithTimeout sets the per-call hook timeout. Non-positive values are ignored.
func (r *Registry) WithTimeout(d time.Duration) *Registry {
	if d > 0 {
		r.timeout = d
	}
	return r
}

// Register adds a plugin to the registry and caches its interfaces.
func (r *Registry) Register(p Plugin) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, existing := range r.plugins {
		if existing.Name() == p.Name() {
			return fmt.Errorf("plugin: duplicate registration: %s", p.Name())
		}
	}

	r.plugins = append(r.plugins, p)

	if v, ok := p.(OnInit); ok {
		r.onInit = append(r.onInit, v)
	}
	if v, ok := p.(OnShutdown); ok {
		r.onShutdown = append(r.onShutdown, v)
	}
	if v, ok := p.(OnCustomerCreated); ok {
		r.onCustomerCreated = append(r.onCustomerCreated, v)
	}
	if v, ok := p.(OnKYCChecked); ok {
		r.onKYCChecked = append(r.onKYCChecked, v)
	}
	if v, ok := p.(OnAccountOpened); ok {
		r.onAccountOpened = append(r.onAccountOpened, v)
	}
	if v, ok := p.(OnTransactionPosted); ok {
		r.onTransactionPosted = append(r.onTransactionPosted, v)
	}
	if v, ok := p.(OnTransferCompleted); ok {
		r.onTransferCompleted = append(r.onTransferCompleted, v)
	}
	if v, ok := p.(OnInvoiceCreated); ok {
		r.onInvoiceCreated = append(r.onInvoiceCreated, v)
	}
	if v, ok := p.(OnInvoicePaid); ok {
		r.onInvoicePaid = append(r.onInvoicePaid, v)
	}
	if v, ok := p.(OnInvoiceVoided); ok {
		r.onInvoiceVoided = append(r.onInvoiceVoided, v)
	}
	if v, ok := p.(OnLoanCreated); ok {
		r.onLoanCreated = append(r.onLoanCreated, v)
	}
	if v, ok := p.(OnRiskScored); ok {
		r.onRiskScored = append(r.onRiskScored, v)
	}
	if v, ok := p.(OnOperationRejected); ok {
		r.onOperationRejected = append(r.onOperationRejected, v)
	}

	r.logger.Info("plugin registered",
		"name", p.Name(),
		"interfaces", implementedInterfaces(p),
	)

	return nil
}

var hookTypes = []struct {
	name string
	typ  reflect.Type
}{
	{"OnInit", reflect.TypeFor[OnInit]()},
	{"OnShutdown", reflect.TypeFor[OnShutdown]()},
	{"OnCustomerCreated", reflect.TypeFor[OnCustomerCreated]()},
	{"OnKYCChecked", reflect.TypeFor[OnKYCChecked]()},
	{"OnAccountOpened", reflect.TypeFor[OnAccountOpened]()},
	{"OnTransactionPosted", reflect.TypeFor[OnTransactionPosted]()},
	{"OnTransferCompleted", reflect.TypeFor[OnTransferCompleted]()},
	{"OnInvoiceCreated", reflect.TypeFor[OnInvoiceCreated]()},
	{"OnInvoicePaid", reflect.TypeFor[OnInvoicePaid]()},
	{"OnInvoiceVoided", reflect.TypeFor[OnInvoiceVoided]()},
	{"OnLoanCreated", reflect.TypeFor[OnLoanCreated]()},
	{"OnRiskScored", reflect.TypeFor[OnRiskScored]()},
	{"OnOperationRejected", reflect.TypeFor[OnOperationRejected]()},
}

// implementedInterfaces returns the hook names p implements.
func implementedInterfaces(p Plugin) []string {
	var names []string
	v := reflect.TypeOf(p)
	for _, h := range hookTypes {
		if v.Implements(h.typ) {
			names = append(names, h.name)
		}
	}
	return names
}

// Get returns a plugin by name.
func (r *Registry) Get(name string) Plugin {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, p := range r.plugins {
		if p.Name() == name {
			return p
		}
	}
	return nil
}

// List returns all registered plugins.
func (r *Registry) List() []Plugin {
	r.mu.RLock()
	defer r.mu.RUnlock()

	result := make([]Plugin, len(r.plugins))
	copy(result, r.plugins)
	return result
}

// Count returns the number of registered plugins.
func (r *Registry) Count() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.plugins)
}

// ──────────────────────────────────────────────────
// Event emission methods
// ──────────────────────────────────────────────────

// dispatch calls fn for every plugin in the snapshot, logging failures.
func dispatch[T Plugin](ctx context.Context, r *Registry, hook string, snapshot func() []T, fn func(T) error) {
	r.mu.RLock()
	plugins := snapshot()
	r.mu.RUnlock()

	for _, p := range plugins {
		if err := r.callWithTimeout(ctx, p.Name(), func() error { return fn(p) }); err != nil {
			r.logger.Warn("plugin "+hook+" failed",
				"plugin", p.Name(),
				"error", err,
			)
		}
	}
}

// EmitInit calls OnInit for all plugins that implement it.
func (r *Registry) EmitInit(ctx context.Context, l any) {
	dispatch(ctx, r, "OnInit", func() []OnInit { return r.onInit }, func(p OnInit) error {
		return p.OnInit(ctx, l)
	})
}

// EmitShutdown calls OnShutdown for all plugins that implement it.
func (r *Registry) EmitShutdown(ctx context.Context) {
	dispatch(ctx, r, "OnShutdown", func() []OnShutdown { return r.onShutdown }, func(p OnShutdown) error {
		return p.OnShutdown(ctx)
	})
}

// EmitCustomerCreated emits a customer created event.
func (r *Registry) EmitCustomerCreated(ctx context.Context, c *customer.Customer) {
	dispatch(ctx, r, "OnCustomerCreated", func() []OnCustomerCreated { return r.onCustomerCreated }, func(p OnCustomerCreated) error {
		return p.OnCustomerCreated(ctx, c)
	})
}

// EmitKYCChecked emits a KYC checked event.
func (r *Registry) EmitKYCChecked(ctx context.Context, result *customer.KYCResult) {
	dispatch(ctx, r, "OnKYCChecked", func() []OnKYCChecked { return r.onKYCChecked }, func(p OnKYCChecked) error {
		return p.OnKYCChecked(ctx, result)
	})
}

// EmitAccountOpened emits an account opened event.
func (r *Registry) EmitAccountOpened(ctx context.Context, a *account.Account) {
	dispatch(ctx, r, "OnAccountOpened", func() []OnAccountOpened { return r.onAccountOpened }, func(p OnAccountOpened) error {
		return p.OnAccountOpened(ctx, a)
	})
}

// EmitTransactionPosted emits a transaction posted event.
func (r *Registry) EmitTransactionPosted(ctx context.Context, txn *transaction.Transaction, balance types.Amount) {
	dispatch(ctx, r, "OnTransactionPosted", func() []OnTransactionPosted { return r.onTransactionPosted }, func(p OnTransactionPosted) error {
		return p.OnTransactionPosted(ctx, txn, balance)
	})
}

// EmitTransferCompleted emits a transfer completed event.
func (r *Registry) EmitTransferCompleted(ctx context.Context, debit, credit *transaction.Transaction) {
	dispatch(ctx, r, "OnTransferCompleted", func() []OnTransferCompleted { return r.onTransferCompleted }, func(p OnTransferCompleted) error {
		return p.OnTransferCompleted(ctx, debit, credit)
	})
}

// EmitInvoiceCreated emits an invoice created event.
func (r *Registry) EmitInvoiceCreated(ctx context.Context, inv *invoice.Invoice) {
	dispatch(ctx, r, "OnInvoiceCreated", func() []OnInvoiceCreated { return r.onInvoiceCreated }, func(p OnInvoiceCreated) error {
		return p.OnInvoiceCreated(ctx, inv)
	})
}

// EmitInvoicePaid emits an invoice paid event.
func (r *Registry) EmitInvoicePaid(ctx context.Context, inv *invoice.Invoice) {
	dispatch(ctx, r, "OnInvoicePaid", func() []OnInvoicePaid { return r.onInvoicePaid }, func(p OnInvoicePaid) error {
		return p.OnInvoicePaid(ctx, inv)
	})
}

// EmitInvoiceVoided emits an invoice voided event.
func (r *Registry) EmitInvoiceVoided(ctx context.Context, inv *invoice.Invoice, reason string) {
	dispatch(ctx, r, "OnInvoiceVoided", func() []OnInvoiceVoided { return r.onInvoiceVoided }, func(p OnInvoiceVoided) error {
		return p.OnInvoiceVoided(ctx, inv, reason)
	})
}

// EmitLoanCreated emits a loan created event.
func (r *Registry) EmitLoanCreated(ctx context.Context, l *loan.Loan) {
	dispatch(ctx, r, "OnLoanCreated", func() []OnLoanCreated { return r.onLoanCreated }, func(p OnLoanCreated) error {
		return p.OnLoanCreated(ctx, l)
	})
}

// EmitRiskScored emits a risk scored event.
func (r *Registry) EmitRiskScored(ctx context.Context, report *risk.Report) {
	dispatch(ctx, r, "OnRiskScored", func() []OnRiskScored { return r.onRiskScored }, func(p OnRiskScored) error {
		return p.OnRiskScored(ctx, report)
	})
}

// EmitOperationRejected emits an operation rejected event.
func (r *Registry) EmitOperationRejected(ctx context.Context, op string, opErr error) {
	dispatch(ctx, r, "OnOperationRejected", func() []OnOperationRejected { return r.onOperationRejected }, func(p OnOperationRejected) error {
		return p.OnOperationRejected(ctx, op, opErr)
	})
}

// callWithTimeout calls a plugin function with a timeout.
// Plugins should never block the ledger.
func (r *Registry) callWithTimeout(ctx context.Context, pluginName string, fn func() error) error {
	done := make(chan error, 1)

	go func() {
		done <- fn()
	}()

	timer := time.NewTimer(r.timeout)
	defer timer.Stop()

	select {
	case err := <-done:
		return err
	case <-timer.C:
		return fmt.Errorf("plugin timeout: %s", pluginName)
	case <-ctx.Done():
		return ctx.Err()
	}
}
