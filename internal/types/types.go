package types

import (
	"time"

	"github.com/shopspring/decimal"
)

// AlertDirection says which side of the target range a quote crossed.
type AlertDirection string

const (
	DirectionBuy  AlertDirection = "buy"  // price at or below target_price
	DirectionSell AlertDirection = "sell" // price at or above upper_limit
)

// Target is one watchlist entry. UpperLimit is nil when no sell-side
// threshold is configured. Source selects the quote provider and defaults
// to "yahoo".
type Target struct {
	Symbol      string           `json:"symbol"`
	Name        string           `json:"name"`
	TargetPrice decimal.Decimal  `json:"target_price"`
	UpperLimit  *decimal.Decimal `json:"upper_limit,omitempty"`
	Source      string           `json:"source,omitempty"`
}

// DisplayName falls back to the symbol when no full name is configured.
func (t Target) DisplayName() string {
	if t.Name != "" {
		return t.Name
	}
	return t.Symbol
}

// Quote is the latest observed price for a symbol, fetched fresh each run.
type Quote struct {
	Symbol        string          `json:"symbol"`
	Price         decimal.Decimal `json:"price"`
	PreviousClose decimal.Decimal `json:"previous_close"`
	Change        decimal.Decimal `json:"change"`
	PercentChange decimal.Decimal `json:"percent_change"`
	FetchedAt     time.Time       `json:"fetched_at"`
}

// AlertEvent ties a fired threshold to the quote that fired it. It exists
// only long enough to drive one notification.
type AlertEvent struct {
	Target    Target
	Quote     Quote
	Direction AlertDirection
}

// SummaryEntry is one line of the end-of-run report. Price is nil when the
// fetch for that symbol failed.
type SummaryEntry struct {
	Target Target
	Price  *decimal.Decimal
}

// RunSummary is what a single monitoring pass produced.
type RunSummary struct {
	Checked      int
	AlertsSent   int
	FetchErrors  int
	NotifyErrors int
	Entries      []SummaryEntry
}
