package plugin

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"slices"
	"sync/atomic"
	"testing"
	"time"

	"github.com/xraph/finledger/customer"
	"github.com/xraph/finledger/invoice"
	"github.com/xraph/finledger/transaction"
	"github.com/xraph/finledger/types"
)

type recorder struct {
	name    string
	created atomic.Int32
	posted  atomic.Int32
}

func (p *recorder) Name() string { return p.name }

func (p *recorder) OnCustomerCreated(context.Context, *customer.Customer) error {
	p.created.Add(1)
	return nil
}

func (p *recorder) OnTransactionPosted(context.Context, *transaction.Transaction, types.Amount) error {
	p.posted.Add(1)
	return nil
}

type failing struct{}

func (failing) Name() string { return "failing" }

func (failing) OnInvoicePaid(context.Context, *invoice.Invoice) error {
	return errors.New("boom")
}

type slow struct{ delay time.Duration }

func (slow) Name() string { return "slow" }

func (s slow) OnShutdown(context.Context) error {
	time.Sleep(s.delay)
	return nil
}

func quietRegistry() *Registry {
	return NewRegistry().WithLogger(slog.New(slog.NewTextHandler(io.Discard, nil)))
}

func TestRegisterDuplicate(t *testing.T) {
	r := quietRegistry()
	if err := r.Register(&recorder{name: "a"}); err != nil {
		t.Fatalf("Register: %v", err)
	}
	if err := r.Register(&recorder{name: "a"}); err == nil {
		t.Error("expected duplicate registration error")
	}
	if r.Count() != 1 || r.Get("a") == nil || r.Get("b") != nil {
		t.Errorf("Count = %d", r.Count())
	}
	if len(r.List()) != 1 {
		t.Errorf("List = %v", r.List())
	}
}

func TestDispatchOnlyToImplementers(t *testing.T) {
	r := quietRegistry()
	rec := &recorder{name: "rec"}
	_ = r.Register(rec)
	_ = r.Register(failing{})

	ctx := context.Background()
	r.EmitCustomerCreated(ctx, &customer.Customer{})
	r.EmitCustomerCreated(ctx, &customer.Customer{})
	r.EmitTransactionPosted(ctx, &transaction.Transaction{}, types.ZeroAmount())
	r.EmitInvoicePaid(ctx, &invoice.Invoice{}) // failure is logged, not returned
	r.EmitRiskScored(ctx, nil)                 // no implementers

	if got := rec.created.Load(); got != 2 {
		t.Errorf("created = %d, want 2", got)
	}
	if got := rec.posted.Load(); got != 1 {
		t.Errorf("posted = %d, want 1", got)
	}
}

func TestImplementedInterfaces(t *testing.T) {
	got := implementedInterfaces(&recorder{name: "rec"})
	want := []string{"OnCustomerCreated", "OnTransactionPosted"}
	if !slices.Equal(got, want) {
		t.Errorf("got %v, want %v", got, want)
	}
}

func TestCallWithTimeout(t *testing.T) {
	r := quietRegistry().WithTimeout(20 * time.Millisecond)
	_ = r.Register(slow{delay: time.Second})

	start := time.Now()
	r.EmitShutdown(context.Background())
	if elapsed := time.Since(start); elapsed > 500*time.Millisecond {
		t.Errorf("EmitShutdown blocked for %v", elapsed)
	}

	err := r.callWithTimeout(context.Background(), "slow", func() error {
		time.Sleep(time.Second)
		return nil
	})
	if err == nil {
		t.Error("expected timeout error")
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	r.WithTimeout(time.Second)
	err = r.callWithTimeout(ctx, "slow", func() error {
		time.Sleep(100 * time.Millisecond)
		return nil
	})
	if !errors.Is(err, context.Canceled) {
		t.Errorf("err = %v, want context.Canceled", err)
	}
}
