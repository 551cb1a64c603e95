// Package risk scores customers with a fixed, deterministic heuristic.
// It is not a credit model.
package risk

import "github.com/xraph/finledger/id"

const (
	BaseScore          = 700
	AccountBonus       = 10
	OpenInvoicePenalty = 30
	MinScore           = 300
	MaxScore           = 850
)

// Disclosure is attached to every report.
const Disclosure = "Toy heuristic"

type Band string

const (
	BandLow    Band = "LOW"
	BandMedium Band = "MEDIUM"
	BandHigh   Band = "HIGH"
)

// BandFor maps a score to its band: >=700 LOW, 600-699 MEDIUM, <600 HIGH.
func BandFor(score int) Band {
	switch {
	case score >= 700:
		return BandLow
	case score >= 600:
		return BandMedium
	default:
		return BandHigh
	}
}

// Policy computes a raw score from a customer's exposure.
type Policy func(accounts, openInvoices int) int

// Score is the default Policy: 700 + 10 per account - 30 per open
// invoice, clamped to [300, 850].
func Score(accounts, openInvoices int) int {
	return Clamp(BaseScore + AccountBonus*accounts - OpenInvoicePenalty*openInvoices)
}

// Clamp bounds score to [MinScore, MaxScore].
func Clamp(score int) int {
	return min(max(score, MinScore), MaxScore)
}

// Report is the outcome of scoring a customer.
type Report struct {
	CustomerID   id.CustomerID `json:"customer_id"`
	Score        int           `json:"score"`
	Band         Band          `json:"band"`
	Reason       string        `json:"reason"`
	Accounts     int           `json:"accounts"`
	OpenInvoices int           `json:"open_invoices"`
}

// Evaluate scores a customer with policy. The result is clamped even if
// the policy is not.
func Evaluate(policy Policy, custID id.CustomerID, accounts, openInvoices int) *Report {
	if policy == nil {
		policy = Score
	}
	score := Clamp(policy(accounts, openInvoices))
	return &Report{
		CustomerID:   custID,
		Score:        score,
		Band:         BandFor(score),
		Reason:       Disclosure,
		Accounts:     accounts,
		OpenInvoices: openInvoices,
	}
}
