package quote

import (
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"stock-monitor-bot/internal/types"
)

func testTarget(source string) types.Target {
	return types.Target{Symbol: "TEST", Source: source}
}

func yahooServer(t *testing.T, handler http.HandlerFunc) *httptest.Server {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)
	return server
}

func TestYahooFetchParsesQuote(t *testing.T) {
	server := yahooServer(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/v8/finance/chart/AAPL" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		fmt.Fprint(w, `{"chart":{"result":[{"meta":{"symbol":"AAPL","currency":"USD","regularMarketPrice":169.504,"chartPreviousClose":172.00}}],"error":null}}`)
	})

	p := NewYahooProviderWithBaseURL(5*time.Second, server.URL)
	q, err := p.Fetch("AAPL")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if got := q.Price.StringFixed(2); got != "169.50" {
		t.Errorf("expected price 169.50, got %s", got)
	}
	if got := q.PreviousClose.StringFixed(2); got != "172.00" {
		t.Errorf("expected previous close 172.00, got %s", got)
	}
	if got := q.Change.StringFixed(2); got != "-2.50" {
		t.Errorf("expected change -2.50, got %s", got)
	}
	if got := q.PercentChange.StringFixed(2); got != "-1.45" {
		t.Errorf("expected percent change -1.45, got %s", got)
	}
	if q.FetchedAt.IsZero() {
		t.Error("expected FetchedAt to be set")
	}
}

func TestYahooFetchUnknownSymbol(t *testing.T) {
	server := yahooServer(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		fmt.Fprint(w, `{"chart":{"result":null,"error":{"code":"Not Found","description":"No data found, symbol may be delisted"}}}`)
	})

	p := NewYahooProviderWithBaseURL(5*time.Second, server.URL)
	_, err := p.Fetch("NOPE")
	if !errors.Is(err, ErrSymbolNotFound) {
		t.Fatalf("expected ErrSymbolNotFound, got %v", err)
	}
}

func TestYahooFetchErrorObjectWithOKStatus(t *testing.T) {
	server := yahooServer(t, func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"chart":{"result":null,"error":{"code":"Not Found","description":"delisted"}}}`)
	})

	p := NewYahooProviderWithBaseURL(5*time.Second, server.URL)
	_, err := p.Fetch("GONE")
	if !errors.Is(err, ErrSymbolNotFound) {
		t.Fatalf("expected ErrSymbolNotFound, got %v", err)
	}
}

func TestYahooFetchMissingPriceField(t *testing.T) {
	server := yahooServer(t, func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"chart":{"result":[{"meta":{"symbol":"HALTED","currency":"USD"}}],"error":null}}`)
	})

	p := NewYahooProviderWithBaseURL(5*time.Second, server.URL)
	_, err := p.Fetch("HALTED")
	if !errors.Is(err, ErrNoPrice) {
		t.Fatalf("expected ErrNoPrice, got %v", err)
	}
}

func TestYahooFetchMalformedResponse(t *testing.T) {
	server := yahooServer(t, func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `not json at all`)
	})

	p := NewYahooProviderWithBaseURL(5*time.Second, server.URL)
	if _, err := p.Fetch("AAPL"); err == nil {
		t.Fatal("expected a parse error")
	}
}

func TestYahooFetchServerError(t *testing.T) {
	server := yahooServer(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
	})

	p := NewYahooProviderWithBaseURL(5*time.Second, server.URL)
	if _, err := p.Fetch("AAPL"); err == nil {
		t.Fatal("expected an error for non-200 status")
	}
}

func TestRegistryProviderSelection(t *testing.T) {
	yahoo := NewYahooProvider(time.Second)
	paprika := NewCoinpaprikaProvider("")
	registry := NewRegistry(yahoo, paprika)

	cases := []struct {
		source string
		want   string
	}{
		{"", "yahoo"},
		{"yahoo", "yahoo"},
		{"coinpaprika", "coinpaprika"},
		{"unknown", "yahoo"},
	}
	for _, tc := range cases {
		got := registry.ForTarget(testTarget(tc.source)).Name()
		if got != tc.want {
			t.Errorf("source %q: expected provider %s, got %s", tc.source, tc.want, got)
		}
	}
}
