package database

import (
	"database/sql"
	"fmt"
	"log"

	"stock-monitor-bot/internal/types"

	"github.com/shopspring/decimal"
	_ "modernc.org/sqlite"
)

// Watchlist exposes the stored target list as a watchlist.Store.
type Watchlist struct{}

func (Watchlist) ListTargets() ([]types.Target, error) {
	return ListTargets()
}

// InsertTarget saves a monitoring target to the database. It enforces the
// same shape as the watchlist file loader so the stored list can never feed
// the monitor a target it would choke on.
func InsertTarget(t types.Target) error {
	if t.Symbol == "" {
		return fmt.Errorf("target is missing a symbol")
	}
	if t.TargetPrice.Sign() <= 0 {
		return fmt.Errorf("target %s has invalid target price %s", t.Symbol, t.TargetPrice)
	}
	if t.UpperLimit != nil && t.UpperLimit.LessThanOrEqual(t.TargetPrice) {
		return fmt.Errorf("target %s has upper limit %s at or below target price", t.Symbol, t.UpperLimit)
	}

	query := `
	INSERT INTO watchlist (symbol, name, target_price, upper_limit, source)
	VALUES (?, ?, ?, ?, ?);`

	var upper interface{}
	if t.UpperLimit != nil {
		upper, _ = t.UpperLimit.Float64()
	}

	targetPrice, _ := t.TargetPrice.Float64()
	_, err := DB.Exec(query, t.Symbol, t.Name, targetPrice, upper, t.Source)
	if err != nil {
		return fmt.Errorf("failed to insert target: %w", err)
	}

	log.Printf("Target inserted successfully: Symbol: %s, Target: %s", t.Symbol, t.TargetPrice)
	return nil
}

// ListTargets fetches all monitoring targets in insertion order
func ListTargets() ([]types.Target, error) {
	query := `SELECT symbol, name, target_price, upper_limit, source FROM watchlist ORDER BY id;`

	rows, err := DB.Query(query)
	if err != nil {
		return nil, fmt.Errorf("failed to query watchlist: %w", err)
	}
	defer rows.Close()

	var targets []types.Target
	for rows.Next() {
		var (
			t           types.Target
			targetPrice float64
			upperLimit  sql.NullFloat64
		)
		if err := rows.Scan(&t.Symbol, &t.Name, &targetPrice, &upperLimit, &t.Source); err != nil {
			return nil, fmt.Errorf("failed to scan row: %w", err)
		}
		t.TargetPrice = decimal.NewFromFloat(targetPrice)
		if upperLimit.Valid {
			limit := decimal.NewFromFloat(upperLimit.Float64)
			t.UpperLimit = &limit
		}
		targets = append(targets, t)
	}

	return targets, nil
}

// DeleteTarget removes every stored target for a symbol
func DeleteTarget(symbol string) error {
	query := `DELETE FROM watchlist WHERE symbol = ?;`
	_, err := DB.Exec(query, symbol)
	if err != nil {
		return fmt.Errorf("failed to delete target: %w", err)
	}
	return nil
}
