package provider

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func newCoinTestAdapter(t *testing.T, handler http.Handler) *CoinGeckoAdapter {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)
	return NewCoinGeckoAdapter(NewClient(2*time.Second), server.URL)
}

func TestTopCoins(t *testing.T) {
	adapter := newCoinTestAdapter(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		if q.Get("vs_currency") != "usd" || q.Get("order") != "market_cap_desc" {
			t.Errorf("query = %s", r.URL.RawQuery)
		}
		if q.Get("per_page") != "10" {
			t.Errorf("per_page = %s, want clamped default 10", q.Get("per_page"))
		}
		w.Write([]byte(`[
			{"id": "bitcoin", "symbol": "btc", "name": "Bitcoin", "current_price": 67000.5, "market_cap": 1300000000000},
			{"id": "ethereum", "symbol": "eth", "name": "Ethereum", "current_price": 3500.25, "market_cap": 420000000000}
		]`))
	}))

	res := adapter.TopCoins(context.Background(), 0)
	if !res.Success {
		t.Fatalf("TopCoins() success = false, error = %s", res.Error)
	}
	coins, ok := res.Data.([]Coin)
	if !ok {
		t.Fatalf("Data is %T, want []Coin", res.Data)
	}
	if len(coins) != 2 || coins[0].ID != "bitcoin" || coins[0].CurrentPrice != 67000.5 {
		t.Errorf("coins = %+v", coins)
	}
}

func TestCoinPrice(t *testing.T) {
	adapter := newCoinTestAdapter(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := r.URL.Query().Get("ids"); got != "bitcoin" {
			t.Errorf("ids = %s, want bitcoin", got)
		}
		w.Write([]byte(`{"bitcoin": {"usd": 67000.5}}`))
	}))

	res := adapter.Price(context.Background(), "Bitcoin")
	if !res.Success {
		t.Fatalf("Price() success = false, error = %s", res.Error)
	}
	price, ok := res.Data.(CoinPrice)
	if !ok {
		t.Fatalf("Data is %T, want CoinPrice", res.Data)
	}
	if price.CoinID != "bitcoin" || price.PriceUSD != 67000.5 {
		t.Errorf("price = %+v", price)
	}
}

func TestCoinPriceNotFound(t *testing.T) {
	adapter := newCoinTestAdapter(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{}`))
	}))

	res := adapter.Price(context.Background(), "no-such-coin")
	if res.Success || res.Status != http.StatusNotFound {
		t.Errorf("Price(unknown) = success=%v status=%d, want failure with 404", res.Success, res.Status)
	}
}

func TestCoinPriceOffline(t *testing.T) {
	adapter := newCoinTestAdapter(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
	}))

	res := adapter.Price(context.Background(), "bitcoin")
	if res.Success || !res.OfflineMode || res.Status != http.StatusOK {
		t.Errorf("Price() = success=%v offline=%v status=%d, want offline envelope with 200",
			res.Success, res.OfflineMode, res.Status)
	}
}
