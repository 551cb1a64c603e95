package api

import (
	"context"
	"encoding/json"
	"errors"
	"io"

	"github.com/xraph/finledger"
	"github.com/xraph/finledger/customer"
	"github.com/xraph/finledger/id"
	"github.com/xraph/finledger/transaction"
	"github.com/xraph/finledger/types"
)

// procedure decodes its request from dec and calls the engine.
type procedure func(ctx context.Context, dec *json.Decoder) (any, error)

// bind adapts a typed handler into a procedure. An empty body decodes as
// the zero request.
func bind[Req any](fn func(ctx context.Context, req Req) (any, error)) procedure {
	return func(ctx context.Context, dec *json.Decoder) (any, error) {
		var req Req
		if err := dec.Decode(&req); err != nil && !errors.Is(err, io.EOF) {
			return nil, finledger.ValidationError{Field: "body", Message: err.Error()}
		}
		return fn(ctx, req)
	}
}

// Request bodies. Numeric fields travel as decimal strings so no
// precision is lost on the wire.
type (
	customerRequest struct {
		CustomerID string `json:"customer_id"`
	}
	createCustomerRequest struct {
		FullName string `json:"full_name"`
	}
	openAccountRequest struct {
		CustomerID string `json:"customer_id"`
		Currency   string `json:"currency"`
	}
	accountRequest struct {
		AccountID string `json:"account_id"`
	}
	postingRequest struct {
		AccountID   string `json:"account_id"`
		Amount      string `json:"amount"`
		Description string `json:"description"`
	}
	transferRequest struct {
		SrcAccountID string `json:"src_account_id"`
		DstAccountID string `json:"dst_account_id"`
		Amount       string `json:"amount"`
	}
	createInvoiceRequest struct {
		CustomerID string `json:"customer_id"`
		Amount     string `json:"amount"`
		Currency   string `json:"currency"`
		DueDate    string `json:"due_date"`
	}
	invoiceRequest struct {
		InvoiceID string `json:"invoice_id"`
	}
	voidInvoiceRequest struct {
		InvoiceID string `json:"invoice_id"`
		Reason    string `json:"reason"`
	}
	createLoanRequest struct {
		CustomerID string `json:"customer_id"`
		Principal  string `json:"principal"`
		RateAPR    string `json:"rate_apr"`
		TermMonths int    `json:"term_months"`
		Currency   string `json:"currency"`
	}
	loanRequest struct {
		LoanID string `json:"loan_id"`
	}
	interestRequest struct {
		Principal string `json:"principal"`
		RateAPR   string `json:"rate_apr"`
		Days      int    `json:"days"`
	}
	fxQuoteRequest struct {
		Base  string `json:"base"`
		Quote string `json:"quote"`
	}
	statementRequest struct {
		AccountID string `json:"account_id"`
		FromDate  string `json:"from_date"`
		ToDate    string `json:"to_date"`
	}
)

// Response bodies that are not engine entities.
type (
	// BalanceResponse is returned by get_balance.
	BalanceResponse struct {
		AccountID id.AccountID `json:"account_id"`
		Balance   types.Amount `json:"balance"`
		Currency  string       `json:"currency"`
	}
	// TransferResponse is returned by transfer.
	TransferResponse struct {
		Debit  *transaction.Transaction `json:"debit"`
		Credit *transaction.Transaction `json:"credit"`
	}
	// KYCResponse is returned by kyc_check. CustomerID echoes the
	// requested identifier, which need not be a well-formed ID.
	KYCResponse struct {
		CustomerID string             `json:"customer_id"`
		Passed     bool               `json:"passed"`
		Reason     customer.KYCReason `json:"reason"`
	}
	// TransactionsResponse is returned by list_transactions.
	TransactionsResponse struct {
		AccountID    string                     `json:"account_id"`
		Transactions []*transaction.Transaction `json:"transactions"`
	}
	// InvoiceStatusResponse is returned by get_invoice_status.
	InvoiceStatusResponse struct {
		InvoiceID id.InvoiceID `json:"invoice_id"`
		Status    string       `json:"status"`
	}
	// InterestResponse is returned by calculate_interest.
	InterestResponse struct {
		Interest types.Amount `json:"interest"`
	}
)

func (h *Handler) register() map[string]procedure {
	l := h.engine
	return map[string]procedure{
		// Customers
		"create_customer": bind(func(ctx context.Context, req createCustomerRequest) (any, error) {
			return l.CreateCustomer(ctx, req.FullName)
		}),
		"get_customer": bind(func(ctx context.Context, req customerRequest) (any, error) {
			custID, err := parseID("customer_id", req.CustomerID, id.ParseCustomerID)
			if err != nil {
				return nil, err
			}
			return l.GetCustomer(ctx, custID)
		}),
		"kyc_check": bind(func(ctx context.Context, req customerRequest) (any, error) {
			custID, known, err := lookupID("customer_id", req.CustomerID, id.ParseCustomerID)
			if err != nil {
				return nil, err
			}
			if !known {
				return KYCResponse{CustomerID: req.CustomerID, Passed: false, Reason: customer.ReasonNotFound}, nil
			}
			res, err := l.KYCCheck(ctx, custID)
			if err != nil {
				return nil, err
			}
			return KYCResponse{CustomerID: res.CustomerID.String(), Passed: res.Passed, Reason: res.Reason}, nil
		}),

		// Accounts
		"open_account": bind(func(ctx context.Context, req openAccountRequest) (any, error) {
			custID, err := parseID("customer_id", req.CustomerID, id.ParseCustomerID)
			if err != nil {
				return nil, err
			}
			return l.OpenAccount(ctx, custID, req.Currency)
		}),
		"get_account": bind(func(ctx context.Context, req accountRequest) (any, error) {
			acctID, err := parseID("account_id", req.AccountID, id.ParseAccountID)
			if err != nil {
				return nil, err
			}
			return l.GetAccount(ctx, acctID)
		}),
		"get_balance": bind(func(ctx context.Context, req accountRequest) (any, error) {
			acctID, err := parseID("account_id", req.AccountID, id.ParseAccountID)
			if err != nil {
				return nil, err
			}
			a, err := l.GetAccount(ctx, acctID)
			if err != nil {
				return nil, err
			}
			return BalanceResponse{AccountID: a.ID, Balance: a.Balance, Currency: a.Currency}, nil
		}),
		"list_transactions": bind(func(ctx context.Context, req accountRequest) (any, error) {
			acctID, known, err := lookupID("account_id", req.AccountID, id.ParseAccountID)
			if err != nil {
				return nil, err
			}
			txns := []*transaction.Transaction{}
			if known {
				found, err := l.ListTransactions(ctx, acctID)
				if err != nil {
					return nil, err
				}
				if found != nil {
					txns = found
				}
			}
			return TransactionsResponse{AccountID: req.AccountID, Transactions: txns}, nil
		}),

		// Postings
		"deposit": bind(func(ctx context.Context, req postingRequest) (any, error) {
			acctID, amount, err := parsePosting(req)
			if err != nil {
				return nil, err
			}
			return l.Deposit(ctx, acctID, amount, req.Description)
		}),
		"withdraw": bind(func(ctx context.Context, req postingRequest) (any, error) {
			acctID, amount, err := parsePosting(req)
			if err != nil {
				return nil, err
			}
			return l.Withdraw(ctx, acctID, amount, req.Description)
		}),
		"transfer": bind(func(ctx context.Context, req transferRequest) (any, error) {
			src, err := parseID("src_account_id", req.SrcAccountID, id.ParseAccountID)
			if err != nil {
				return nil, err
			}
			dst, err := parseID("dst_account_id", req.DstAccountID, id.ParseAccountID)
			if err != nil {
				return nil, err
			}
			amount, err := parseAmount("amount", req.Amount)
			if err != nil {
				return nil, err
			}
			debit, credit, err := l.Transfer(ctx, src, dst, amount)
			if err != nil {
				return nil, err
			}
			return TransferResponse{Debit: debit, Credit: credit}, nil
		}),

		// Invoices
		"create_invoice": bind(func(ctx context.Context, req createInvoiceRequest) (any, error) {
			custID, err := parseID("customer_id", req.CustomerID, id.ParseCustomerID)
			if err != nil {
				return nil, err
			}
			amount, err := parseAmount("amount", req.Amount)
			if err != nil {
				return nil, err
			}
			due, err := parseDate("due_date", req.DueDate)
			if err != nil {
				return nil, err
			}
			return l.CreateInvoice(ctx, custID, amount, req.Currency, due)
		}),
		"get_invoice": bind(func(ctx context.Context, req invoiceRequest) (any, error) {
			invID, err := parseID("invoice_id", req.InvoiceID, id.ParseInvoiceID)
			if err != nil {
				return nil, err
			}
			return l.GetInvoice(ctx, invID)
		}),
		"get_invoice_status": bind(func(ctx context.Context, req invoiceRequest) (any, error) {
			invID, err := parseID("invoice_id", req.InvoiceID, id.ParseInvoiceID)
			if err != nil {
				return nil, err
			}
			status, err := l.GetInvoiceStatus(ctx, invID)
			if err != nil {
				return nil, err
			}
			return InvoiceStatusResponse{InvoiceID: invID, Status: string(status)}, nil
		}),
		"pay_invoice": bind(func(ctx context.Context, req invoiceRequest) (any, error) {
			invID, err := parseID("invoice_id", req.InvoiceID, id.ParseInvoiceID)
			if err != nil {
				return nil, err
			}
			return l.PayInvoice(ctx, invID)
		}),
		"void_invoice": bind(func(ctx context.Context, req voidInvoiceRequest) (any, error) {
			invID, err := parseID("invoice_id", req.InvoiceID, id.ParseInvoiceID)
			if err != nil {
				return nil, err
			}
			return l.VoidInvoice(ctx, invID, req.Reason)
		}),

		// Loans
		"create_loan": bind(func(ctx context.Context, req createLoanRequest) (any, error) {
			custID, err := parseID("customer_id", req.CustomerID, id.ParseCustomerID)
			if err != nil {
				return nil, err
			}
			principal, err := parseAmount("principal", req.Principal)
			if err != nil {
				return nil, err
			}
			rate, err := parseAmount("rate_apr", req.RateAPR)
			if err != nil {
				return nil, err
			}
			return l.CreateLoan(ctx, custID, principal, rate, req.TermMonths, req.Currency)
		}),
		"get_loan": bind(func(ctx context.Context, req loanRequest) (any, error) {
			loanID, err := parseID("loan_id", req.LoanID, id.ParseLoanID)
			if err != nil {
				return nil, err
			}
			return l.GetLoan(ctx, loanID)
		}),
		"calculate_interest": bind(func(_ context.Context, req interestRequest) (any, error) {
			principal, err := parseAmount("principal", req.Principal)
			if err != nil {
				return nil, err
			}
			rate, err := parseAmount("rate_apr", req.RateAPR)
			if err != nil {
				return nil, err
			}
			interest, err := l.CalculateInterest(principal, rate, req.Days)
			if err != nil {
				return nil, err
			}
			return InterestResponse{Interest: interest}, nil
		}),

		// FX, statements and risk
		"get_fx_quote": bind(func(ctx context.Context, req fxQuoteRequest) (any, error) {
			return l.FXQuote(ctx, req.Base, req.Quote)
		}),
		"generate_statement": bind(func(ctx context.Context, req statementRequest) (any, error) {
			acctID, err := parseID("account_id", req.AccountID, id.ParseAccountID)
			if err != nil {
				return nil, err
			}
			from, err := parseDate("from_date", req.FromDate)
			if err != nil {
				return nil, err
			}
			to, err := parseDate("to_date", req.ToDate)
			if err != nil {
				return nil, err
			}
			return l.GenerateStatement(ctx, acctID, from, to)
		}),
		"risk_score": bind(func(ctx context.Context, req customerRequest) (any, error) {
			custID, err := parseID("customer_id", req.CustomerID, id.ParseCustomerID)
			if err != nil {
				return nil, err
			}
			return l.RiskScore(ctx, custID)
		}),
	}
}

// ──────────────────────────────────────────────────
// Field parsing
// ──────────────────────────────────────────────────

func parseID(field, s string, parse func(string) (id.ID, error)) (id.ID, error) {
	if s == "" {
		return id.Nil, finledger.ValidationError{Field: field, Message: "is required"}
	}
	v, err := parse(s)
	if err != nil {
		return id.Nil, finledger.ValidationError{Field: field, Message: err.Error()}
	}
	return v, nil
}

// lookupID is parseID for procedures that report unknown identifiers as
// a normal result. A string that does not parse names no entity the
// engine issued, so known is false and err is nil. Only a missing value
// is an error.
func lookupID(field, s string, parse func(string) (id.ID, error)) (v id.ID, known bool, err error) {
	if s == "" {
		return id.Nil, false, finledger.ValidationError{Field: field, Message: "is required"}
	}
	v, err = parse(s)
	if err != nil {
		return id.Nil, false, nil
	}
	return v, true, nil
}

func parseAmount(field, s string) (types.Amount, error) {
	if s == "" {
		return types.Amount{}, finledger.ValidationError{Field: field, Message: "is required"}
	}
	a, err := types.ParseAmount(s)
	if err != nil {
		return types.Amount{}, finledger.ValidationError{Field: field, Message: err.Error()}
	}
	return a, nil
}

func parseDate(field, s string) (types.Date, error) {
	if s == "" {
		return types.Date{}, finledger.ValidationError{Field: field, Message: "is required"}
	}
	d, err := types.ParseDate(s)
	if err != nil {
		return types.Date{}, finledger.ValidationError{Field: field, Message: err.Error()}
	}
	return d, nil
}

func parsePosting(req postingRequest) (id.AccountID, types.Amount, error) {
	acctID, err := parseID("account_id", req.AccountID, id.ParseAccountID)
	if err != nil {
		return id.Nil, types.Amount{}, err
	}
	amount, err := parseAmount("amount", req.Amount)
	if err != nil {
		return id.Nil, types.Amount{}, err
	}
	return acctID, amount, nil
}
