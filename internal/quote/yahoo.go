package quote

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"stock-monitor-bot/internal/types"

	"github.com/pkg/errors"
	"github.com/shopspring/decimal"
	log "github.com/sirupsen/logrus"
)

const defaultYahooBaseURL = "https://query1.finance.yahoo.com"

// YahooProvider reads the latest regular market price for a stock symbol
// from the Yahoo Finance chart endpoint.
type YahooProvider struct {
	client  *http.Client
	baseURL string
}

func NewYahooProvider(timeout time.Duration) *YahooProvider {
	return &YahooProvider{
		client:  &http.Client{Timeout: timeout},
		baseURL: defaultYahooBaseURL,
	}
}

// NewYahooProviderWithBaseURL is used by tests to point the provider at a
// local server.
func NewYahooProviderWithBaseURL(timeout time.Duration, baseURL string) *YahooProvider {
	p := NewYahooProvider(timeout)
	p.baseURL = baseURL
	return p
}

func (p *YahooProvider) Name() string {
	return "yahoo"
}

type yahooChartResponse struct {
	Chart struct {
		Result []struct {
			Meta struct {
				Symbol             string   `json:"symbol"`
				Currency           string   `json:"currency"`
				RegularMarketPrice *float64 `json:"regularMarketPrice"`
				PreviousClose      *float64 `json:"chartPreviousClose"`
			} `json:"meta"`
		} `json:"result"`
		Error *struct {
			Code        string `json:"code"`
			Description string `json:"description"`
		} `json:"error"`
	} `json:"chart"`
}

func (p *YahooProvider) Fetch(symbol string) (*types.Quote, error) {
	url := fmt.Sprintf("%s/v8/finance/chart/%s?interval=1d&range=1d", p.baseURL, symbol)

	req, err := http.NewRequest(http.MethodGet, url, nil)
	if err != nil {
		return nil, errors.Wrapf(err, "could not build request for %s", symbol)
	}
	req.Header.Set("User-Agent", "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36")
	req.Header.Set("Accept", "application/json")

	resp, err := p.client.Do(req)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to fetch quote for %s", symbol)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return nil, errors.Wrapf(ErrSymbolNotFound, "yahoo returned 404 for %s", symbol)
	}
	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return nil, errors.Errorf("yahoo API error for %s (status %d): %s", symbol, resp.StatusCode, string(body))
	}

	var chartResp yahooChartResponse
	if err := json.NewDecoder(resp.Body).Decode(&chartResp); err != nil {
		return nil, errors.Wrapf(err, "failed to parse quote response for %s", symbol)
	}

	if chartResp.Chart.Error != nil {
		return nil, errors.Wrapf(ErrSymbolNotFound, "yahoo error for %s: %s", symbol, chartResp.Chart.Error.Description)
	}
	if len(chartResp.Chart.Result) == 0 {
		return nil, errors.Wrapf(ErrNoPrice, "empty chart result for %s", symbol)
	}

	meta := chartResp.Chart.Result[0].Meta
	if meta.RegularMarketPrice == nil {
		return nil, errors.Wrapf(ErrNoPrice, "missing regular market price for %s", symbol)
	}

	q := &types.Quote{
		Symbol:    symbol,
		Price:     decimal.NewFromFloat(*meta.RegularMarketPrice).Round(2),
		FetchedAt: time.Now(),
	}

	if meta.PreviousClose != nil && *meta.PreviousClose != 0 {
		q.PreviousClose = decimal.NewFromFloat(*meta.PreviousClose).Round(2)
		q.Change = q.Price.Sub(q.PreviousClose)
		q.PercentChange = q.Change.Div(q.PreviousClose).Mul(decimal.NewFromInt(100)).Round(2)
	}

	log.Debugf("fetched %s: %s (prev close %s)", symbol, q.Price, q.PreviousClose)
	return q, nil
}
