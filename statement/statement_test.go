package statement

import (
	"testing"
	"time"

	"github.com/xraph/finledger/id"
	"github.com/xraph/finledger/transaction"
	"github.com/xraph/finledger/types"
)

func txn(day string, amount string, typ transaction.Type) *transaction.Transaction {
	d := types.MustParseDate(day)
	return &transaction.Transaction{
		ID:          id.NewTransactionID(),
		Amount:      types.MustAmount(amount),
		Currency:    "USD",
		Type:        typ,
		Timestamp:   d.Time().Add(15 * time.Hour),
		Description: string(typ),
	}
}

func TestBuildWindowAndRunningBalance(t *testing.T) {
	acct := id.NewAccountID()
	journal := []*transaction.Transaction{
		txn("2025-01-01", "500", transaction.TypeDeposit),
		txn("2025-01-10", "100", transaction.TypeDeposit),
		txn("2025-01-15", "-30", transaction.TypeWithdrawal),
		txn("2025-01-20", "0.00005", transaction.TypeTransferIn),
		txn("2025-01-21", "-1000", transaction.TypeWithdrawal),
	}

	st := Build(acct, "USD", types.MustParseDate("2025-01-10"), types.MustParseDate("2025-01-20"), journal)

	want := []struct {
		amount, balance string
	}{
		{"100.0000", "100.0000"},
		{"-30.0000", "70.0000"},
		{"0.0001", "70.0001"},
	}
	if len(st.Lines) != len(want) {
		t.Fatalf("got %d lines, want %d", len(st.Lines), len(want))
	}
	for i, w := range want {
		line := st.Lines[i]
		if line.Amount.String() != w.amount || line.BalanceAfter.String() != w.balance {
			t.Errorf("line %d = (%s, %s), want (%s, %s)", i, line.Amount, line.BalanceAfter, w.amount, w.balance)
		}
		if line.TransactionID != journal[i+1].ID {
			t.Errorf("line %d out of order", i)
		}
	}

	if st.NetMovement.String() != "70.0001" {
		t.Errorf("NetMovement = %s", st.NetMovement)
	}
	if st.Credits.String() != "100.0001" || st.Debits.String() != "-30.0000" {
		t.Errorf("Credits = %s, Debits = %s", st.Credits, st.Debits)
	}
	if st.AccountID != acct || st.Currency != "USD" {
		t.Errorf("header = %+v", st)
	}
}

func TestBuildEmptyWindow(t *testing.T) {
	journal := []*transaction.Transaction{txn("2025-01-01", "5", transaction.TypeDeposit)}

	st := Build(id.NewAccountID(), "USD", types.MustParseDate("2025-02-01"), types.MustParseDate("2025-02-28"), journal)
	if len(st.Lines) != 0 {
		t.Errorf("got %d lines", len(st.Lines))
	}
	if !st.NetMovement.IsZero() {
		t.Errorf("NetMovement = %s", st.NetMovement)
	}
}

func TestBuildSingleDay(t *testing.T) {
	day := types.MustParseDate("2025-03-03")
	journal := []*transaction.Transaction{
		txn("2025-03-02", "1", transaction.TypeDeposit),
		txn("2025-03-03", "2", transaction.TypeDeposit),
		txn("2025-03-04", "3", transaction.TypeDeposit),
	}

	st := Build(id.NewAccountID(), "USD", day, day, journal)
	if len(st.Lines) != 1 || st.Lines[0].Amount.String() != "2.0000" {
		t.Errorf("lines = %+v", st.Lines)
	}
	if st.Lines[0].Date != day {
		t.Errorf("line date = %s", st.Lines[0].Date)
	}
}
