package provider

import (
	"context"
	"fmt"
	"math/rand/v2"
	"net/http"
	"net/url"
	"strconv"

	"adventure_hunt/internal/common"

	"github.com/gosimple/slug"
)

type Coin struct {
	ID                       string  `json:"id"`
	Symbol                   string  `json:"symbol"`
	Name                     string  `json:"name"`
	CurrentPrice             float64 `json:"current_price"`
	MarketCap                float64 `json:"market_cap"`
	PriceChange24h           float64 `json:"price_change_24h"`
	PriceChangePercentage24h float64 `json:"price_change_percentage_24h"`
	Image                    string  `json:"image"`
}

type CoinPrice struct {
	CoinID   string  `json:"coin_id"`
	PriceUSD float64 `json:"price_usd"`
}

type coinGeckoMarket struct {
	ID                       string  `json:"id"`
	Symbol                   string  `json:"symbol"`
	Name                     string  `json:"name"`
	CurrentPrice             float64 `json:"current_price"`
	MarketCap                float64 `json:"market_cap"`
	PriceChange24h           float64 `json:"price_change_24h"`
	PriceChangePercentage24h float64 `json:"price_change_percentage_24h"`
	Image                    string  `json:"image"`
}

type CoinGeckoAdapter struct {
	client  *Client
	baseURL string
}

func NewCoinGeckoAdapter(client *Client, baseURL string) *CoinGeckoAdapter {
	return &CoinGeckoAdapter{client: client, baseURL: baseURL}
}

func (a *CoinGeckoAdapter) TopCoins(ctx context.Context, limit int) Result {
	coins, err := a.fetchTop(ctx, limit)
	if err != nil {
		return offline(err, nil)
	}
	return ok(coins)
}

func (a *CoinGeckoAdapter) Price(ctx context.Context, coinID string) Result {
	sanitized := slug.Make(coinID)
	if sanitized == "" {
		return invalid("Missing coin id")
	}

	params := url.Values{}
	params.Set("ids", sanitized)
	params.Set("vs_currencies", "usd")

	var raw map[string]struct {
		USD float64 `json:"usd"`
	}
	if err := a.client.getJSON(ctx, "coingecko", a.baseURL+"/simple/price?"+params.Encode(), &raw); err != nil {
		return offline(err, nil)
	}

	entry, found := raw[sanitized]
	if !found {
		return Result{
			Envelope: common.Envelope{Success: false, Error: "Coin not found"},
			Status:   http.StatusNotFound,
		}
	}
	return ok(CoinPrice{CoinID: sanitized, PriceUSD: entry.USD})
}

func (a *CoinGeckoAdapter) RandomCoin(ctx context.Context) Result {
	coins, err := a.fetchTop(ctx, 50)
	if err != nil {
		return offline(err, nil)
	}
	if len(coins) == 0 {
		return offline(fmt.Errorf("empty market listing: %w", common.ErrUpstream), nil)
	}
	return ok(coins[rand.IntN(len(coins))])
}

func (a *CoinGeckoAdapter) fetchTop(ctx context.Context, limit int) ([]Coin, error) {
	if limit < 1 {
		limit = 10
	}
	if limit > 250 {
		limit = 250
	}

	params := url.Values{}
	params.Set("vs_currency", "usd")
	params.Set("order", "market_cap_desc")
	params.Set("per_page", strconv.Itoa(limit))
	params.Set("page", "1")
	params.Set("sparkline", "false")

	var raw []coinGeckoMarket
	if err := a.client.getJSON(ctx, "coingecko", a.baseURL+"/coins/markets?"+params.Encode(), &raw); err != nil {
		return nil, err
	}

	coins := make([]Coin, 0, len(raw))
	for _, m := range raw {
		coins = append(coins, Coin(m))
	}
	return coins, nil
}
