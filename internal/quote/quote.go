package quote

import (
	"stock-monitor-bot/internal/types"

	"github.com/pkg/errors"
)

var (
	// ErrSymbolNotFound means the upstream source does not know the symbol.
	ErrSymbolNotFound = errors.New("symbol not found")
	// ErrNoPrice means the symbol resolved but carried no usable price
	// field. Callers skip the symbol and keep going.
	ErrNoPrice = errors.New("no price data available")
)

// Provider fetches the latest quote for a single symbol. One round-trip,
// no caching, no retries.
type Provider interface {
	Fetch(symbol string) (*types.Quote, error)
	Name() string
}

// Registry hands out the provider matching a target's source field.
type Registry struct {
	yahoo       Provider
	coinpaprika Provider
}

func NewRegistry(yahoo, coinpaprika Provider) *Registry {
	return &Registry{yahoo: yahoo, coinpaprika: coinpaprika}
}

// ForTarget returns the provider for the given target. Unknown sources fall
// back to Yahoo, which also covers the empty default.
func (r *Registry) ForTarget(t types.Target) Provider {
	if t.Source == "coinpaprika" && r.coinpaprika != nil {
		return r.coinpaprika
	}
	return r.yahoo
}
