package quote

import (
	"time"

	"stock-monitor-bot/internal/types"

	"github.com/coinpaprika/coinpaprika-api-go-client/v2/coinpaprika"
	"github.com/pkg/errors"
	"github.com/shopspring/decimal"
	log "github.com/sirupsen/logrus"
)

// CoinpaprikaProvider serves watchlist entries marked with source
// "coinpaprika", so crypto symbols can sit next to stocks in one list.
type CoinpaprikaProvider struct {
	client *coinpaprika.Client
}

func NewCoinpaprikaProvider(apiKey string) *CoinpaprikaProvider {
	if apiKey != "" {
		return &CoinpaprikaProvider{client: coinpaprika.NewClient(nil, coinpaprika.WithAPIKey(apiKey))}
	}
	return &CoinpaprikaProvider{client: coinpaprika.NewClient(nil)}
}

func (p *CoinpaprikaProvider) Name() string {
	return "coinpaprika"
}

func (p *CoinpaprikaProvider) Fetch(symbol string) (*types.Quote, error) {
	coin, err := p.searchCoin(symbol)
	if err != nil {
		return nil, err
	}

	log.Debugf("best match for symbol '%s' is: %s", symbol, *coin.ID)

	tickerOpts := &coinpaprika.TickersOptions{Quotes: "USD"}
	ticker, err := p.client.Tickers.GetByID(*coin.ID, tickerOpts)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to fetch ticker for %s", symbol)
	}

	usd, ok := ticker.Quotes["USD"]
	if !ok || usd.Price == nil {
		return nil, errors.Wrapf(ErrNoPrice, "no USD quote for %s", symbol)
	}

	q := &types.Quote{
		Symbol:    symbol,
		Price:     decimal.NewFromFloat(*usd.Price).Round(2),
		FetchedAt: time.Now(),
	}

	if usd.PercentChange24h != nil {
		q.PercentChange = decimal.NewFromFloat(*usd.PercentChange24h).Round(2)
		divisor := decimal.NewFromInt(1).Add(q.PercentChange.Div(decimal.NewFromInt(100)))
		if !divisor.IsZero() {
			q.PreviousClose = q.Price.Div(divisor).Round(2)
			q.Change = q.Price.Sub(q.PreviousClose)
		}
	}

	return q, nil
}

// searchCoin resolves a symbol to a coin, falling back to a name search the
// same way the coinpaprika bot does.
func (p *CoinpaprikaProvider) searchCoin(query string) (*coinpaprika.Coin, error) {
	searchOpts := &coinpaprika.SearchOptions{
		Query:      query,
		Categories: "currencies",
		Modifier:   "symbol_search",
	}
	result, err := p.client.Search.Search(searchOpts)
	if err != nil || len(result.Currencies) == 0 {
		log.Debugf("no results for symbol search, trying name search for '%s'", query)
		searchOpts = &coinpaprika.SearchOptions{Query: query, Categories: "currencies"}
		result, err = p.client.Search.Search(searchOpts)
		if err != nil || len(result.Currencies) == 0 {
			return nil, errors.Wrapf(ErrSymbolNotFound, "invalid coin name, ticker, or symbol: %s", query)
		}
	}

	return result.Currencies[0], nil
}
