package watchlist

import (
	"stock-monitor-bot/internal/types"

	"github.com/davecgh/go-spew/spew"
	"github.com/pkg/errors"
	"github.com/shopspring/decimal"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/viper"
)

// Store is the optional persistent target source (the sqlite watchlist
// table). A nil store means file or built-in targets only.
type Store interface {
	ListTargets() ([]types.Target, error)
}

// defaultTargets is the built-in watchlist, used when neither a store nor a
// watchlist file provides targets.
var defaultTargets = []types.Target{
	{Symbol: "AMD", Name: "Advanced Micro Devices", TargetPrice: decimal.NewFromFloat(120.00)},
	{Symbol: "TSLA", Name: "Tesla Inc.", TargetPrice: decimal.NewFromFloat(180.00)},
	{Symbol: "NVDA", Name: "NVIDIA Corporation", TargetPrice: decimal.NewFromFloat(450.00)},
	{Symbol: "AAPL", Name: "Apple Inc.", TargetPrice: decimal.NewFromFloat(170.00)},
	{Symbol: "GOOGL", Name: "Alphabet Inc.", TargetPrice: decimal.NewFromFloat(130.00)},
}

// Load returns the ordered target list. A configured store wins when it
// holds any targets, then a watchlist file at path, then the built-in list.
func Load(store Store, path string) ([]types.Target, error) {
	if store != nil {
		targets, err := store.ListTargets()
		if err != nil {
			return nil, errors.Wrap(err, "failed to load watchlist from state db")
		}
		if len(targets) > 0 {
			log.Debugf("loaded %d targets from state db: %s", len(targets), spew.Sdump(targets))
			return targets, nil
		}
	}

	if path != "" {
		targets, err := loadFile(path)
		if err != nil {
			return nil, err
		}
		log.Debugf("loaded %d targets from %s: %s", len(targets), path, spew.Sdump(targets))
		return targets, nil
	}

	return defaultTargets, nil
}

type fileTarget struct {
	Symbol      string   `mapstructure:"symbol"`
	Name        string   `mapstructure:"name"`
	TargetPrice float64  `mapstructure:"target_price"`
	UpperLimit  *float64 `mapstructure:"upper_limit"`
	Source      string   `mapstructure:"source"`
}

// loadFile reads a YAML/JSON/TOML watchlist file with a top-level "targets"
// list. A malformed file is a fatal load error, not something to limp past.
func loadFile(path string) ([]types.Target, error) {
	v := viper.New()
	v.SetConfigFile(path)

	if err := v.ReadInConfig(); err != nil {
		return nil, errors.Wrapf(err, "failed to read watchlist file %s", path)
	}

	var entries []fileTarget
	if err := v.UnmarshalKey("targets", &entries); err != nil {
		return nil, errors.Wrapf(err, "failed to parse watchlist file %s", path)
	}
	if len(entries) == 0 {
		return nil, errors.Errorf("watchlist file %s contains no targets", path)
	}

	targets := make([]types.Target, 0, len(entries))
	for i, e := range entries {
		if e.Symbol == "" {
			return nil, errors.Errorf("watchlist entry %d is missing a symbol", i)
		}
		if e.TargetPrice <= 0 {
			return nil, errors.Errorf("watchlist entry %s has invalid target price %f", e.Symbol, e.TargetPrice)
		}

		t := types.Target{
			Symbol:      e.Symbol,
			Name:        e.Name,
			TargetPrice: decimal.NewFromFloat(e.TargetPrice),
			Source:      e.Source,
		}
		if e.UpperLimit != nil {
			if *e.UpperLimit <= e.TargetPrice {
				return nil, errors.Errorf("watchlist entry %s has upper limit %f at or below target price", e.Symbol, *e.UpperLimit)
			}
			limit := decimal.NewFromFloat(*e.UpperLimit)
			t.UpperLimit = &limit
		}
		targets = append(targets, t)
	}

	return targets, nil
}
