package watchlist

import (
	"os"
	"path/filepath"
	"testing"

	"stock-monitor-bot/internal/types"

	"github.com/shopspring/decimal"
)

type fakeStore struct {
	targets []types.Target
	err     error
}

func (f fakeStore) ListTargets() ([]types.Target, error) { return f.targets, f.err }

func writeWatchlist(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "watchlist.yaml")
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("failed to write watchlist file: %v", err)
	}
	return path
}

func TestLoadDefaultsWhenNothingConfigured(t *testing.T) {
	targets, err := Load(nil, "")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(targets) == 0 {
		t.Fatal("expected built-in default targets")
	}
	if targets[0].Symbol != "AMD" {
		t.Errorf("expected defaults in configured order, first was %s", targets[0].Symbol)
	}
}

func TestLoadFromYAMLFile(t *testing.T) {
	path := writeWatchlist(t, `
targets:
  - symbol: AAPL
    name: Apple Inc.
    target_price: 170.00
  - symbol: TSLA
    name: Tesla Inc.
    target_price: 180.00
    upper_limit: 220.00
  - symbol: BTC
    target_price: 60000
    source: coinpaprika
`)

	targets, err := Load(nil, path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(targets) != 3 {
		t.Fatalf("expected 3 targets, got %d", len(targets))
	}

	if targets[0].Symbol != "AAPL" || !targets[0].TargetPrice.Equal(decimal.NewFromFloat(170.00)) {
		t.Errorf("unexpected first target: %+v", targets[0])
	}
	if targets[0].UpperLimit != nil {
		t.Error("AAPL should have no upper limit")
	}

	if targets[1].UpperLimit == nil || !targets[1].UpperLimit.Equal(decimal.NewFromFloat(220.00)) {
		t.Errorf("expected TSLA upper limit 220.00, got %+v", targets[1].UpperLimit)
	}

	if targets[2].Source != "coinpaprika" {
		t.Errorf("expected BTC source coinpaprika, got %q", targets[2].Source)
	}
	if targets[2].DisplayName() != "BTC" {
		t.Errorf("unnamed target should display its symbol, got %q", targets[2].DisplayName())
	}
}

func TestLoadRejectsMalformedEntries(t *testing.T) {
	cases := []struct {
		name    string
		content string
	}{
		{"missing symbol", "targets:\n  - name: Apple\n    target_price: 170.00\n"},
		{"zero target price", "targets:\n  - symbol: AAPL\n    target_price: 0\n"},
		{"upper limit below target", "targets:\n  - symbol: TSLA\n    target_price: 180.00\n    upper_limit: 150.00\n"},
		{"no targets", "targets: []\n"},
		{"not yaml", "{{{{\n"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			path := writeWatchlist(t, tc.content)
			if _, err := Load(nil, path); err == nil {
				t.Fatal("expected a load error")
			}
		})
	}
}

func TestLoadMissingFileFails(t *testing.T) {
	if _, err := Load(nil, filepath.Join(t.TempDir(), "absent.yaml")); err == nil {
		t.Fatal("expected an error for a missing watchlist file")
	}
}

func TestStoreTakesPrecedenceOverFile(t *testing.T) {
	path := writeWatchlist(t, "targets:\n  - symbol: AAPL\n    target_price: 170.00\n")

	stored := []types.Target{{Symbol: "MSFT", TargetPrice: decimal.NewFromFloat(400.00)}}
	targets, err := Load(fakeStore{targets: stored}, path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(targets) != 1 || targets[0].Symbol != "MSFT" {
		t.Fatalf("expected stored targets to win, got %+v", targets)
	}
}

func TestEmptyStoreFallsBackToFile(t *testing.T) {
	path := writeWatchlist(t, "targets:\n  - symbol: AAPL\n    target_price: 170.00\n")

	targets, err := Load(fakeStore{}, path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(targets) != 1 || targets[0].Symbol != "AAPL" {
		t.Fatalf("expected file targets, got %+v", targets)
	}
}

func TestStoreErrorIsFatal(t *testing.T) {
	if _, err := Load(fakeStore{err: os.ErrPermission}, ""); err == nil {
		t.Fatal("expected store errors to surface")
	}
}
