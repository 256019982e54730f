package asset

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
)

const (
	defaultCoinbaseURL  = "https://api.coinbase.com"
	defaultCoinGeckoURL = "https://api.coingecko.com"

	githubAPIVersion = "2022-11-28"
)

// Prices holds the current VND price per unit of every instrument.
// A zero price marks a feed that could not be read; valuation treats
// those instruments as unpriced rather than failing the whole report.
type Prices struct {
	Values    map[Instrument]decimal.Decimal
	Rate      decimal.Decimal // USD/VND exchange rate used for crypto
	UpdatedAt string
}

// Price returns the current price for an instrument, zero if unknown.
func (p Prices) Price(i Instrument) decimal.Decimal {
	if p.Values == nil {
		return decimal.Zero
	}
	return p.Values[i]
}

// FeedClient fetches instrument prices from the upstream feeds: fund
// and gold quotes from a worker-maintained JSON file on GitHub, crypto
// spot prices from Coinbase converted with the CoinGecko USD/VND rate.
type FeedClient struct {
	httpClient *http.Client
	log        zerolog.Logger

	// WorkerURL is the GitHub contents API URL of the price file.
	WorkerURL string
	// WorkerToken authorizes the GitHub contents request.
	WorkerToken string
	// CoinbaseURL and CoinGeckoURL override the public API hosts in tests.
	CoinbaseURL  string
	CoinGeckoURL string
}

// NewFeedClient builds a feed client with a 15s request timeout.
func NewFeedClient(workerURL, workerToken string, log zerolog.Logger) *FeedClient {
	return &FeedClient{
		httpClient:   &http.Client{Timeout: 15 * time.Second},
		log:          log,
		WorkerURL:    workerURL,
		WorkerToken:  workerToken,
		CoinbaseURL:  defaultCoinbaseURL,
		CoinGeckoURL: defaultCoinGeckoURL,
	}
}

// Fetch assembles current prices from all feeds. Individual feed
// failures are logged and leave the affected instruments at zero.
func (c *FeedClient) Fetch(ctx context.Context) Prices {
	prices := Prices{Values: make(map[Instrument]decimal.Decimal)}

	worker, err := c.fetchWorkerPrices(ctx)
	if err != nil {
		c.log.Warn().Err(err).Msg("worker price feed unavailable")
	} else {
		prices.Values[Gold] = worker.Gold
		prices.Values[ETF] = worker.ETF
		prices.Values[DCDS] = worker.DCDS
		prices.Values[VESAF] = worker.VESAF
		prices.UpdatedAt = worker.UpdatedAt
	}

	rate, err := c.usdToVNDRate(ctx)
	if err != nil {
		c.log.Warn().Err(err).Msg("usd/vnd rate unavailable, skipping crypto prices")
		return prices
	}
	prices.Rate = rate
	for pair, instrument := range map[string]Instrument{"BTC-USD": Bitcoin, "ETH-USD": Ethereum} {
		spot, err := c.spotPrice(ctx, pair)
		if err != nil {
			c.log.Warn().Err(err).Str("pair", pair).Msg("spot price unavailable")
			continue
		}
		prices.Values[instrument] = spot.Mul(rate)
	}
	return prices
}

type workerPrices struct {
	Gold      decimal.Decimal `json:"gold"`
	ETF       decimal.Decimal `json:"etf"`
	DCDS      decimal.Decimal `json:"dcds"`
	VESAF     decimal.Decimal `json:"vesaf"`
	UpdatedAt string          `json:"updated_at"`
}

// fetchWorkerPrices reads the fund and gold quotes the price worker
// commits to GitHub, via the contents API object representation.
func (c *FeedClient) fetchWorkerPrices(ctx context.Context) (workerPrices, error) {
	var out workerPrices
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.WorkerURL, nil)
	if err != nil {
		return out, fmt.Errorf("build worker request: %w", err)
	}
	req.Header.Set("Accept", "application/vnd.github.object")
	req.Header.Set("Authorization", "Bearer "+c.WorkerToken)
	req.Header.Set("X-GitHub-Api-Version", githubAPIVersion)

	var object struct {
		Content string `json:"content"`
	}
	if err := c.getJSON(req, &object); err != nil {
		return out, err
	}
	raw, err := base64.StdEncoding.DecodeString(object.Content)
	if err != nil {
		return out, fmt.Errorf("decode worker content: %w", err)
	}
	if err := json.Unmarshal(raw, &out); err != nil {
		return out, fmt.Errorf("parse worker prices: %w", err)
	}
	return out, nil
}

// spotPrice reads a Coinbase USD spot quote for a pair like BTC-USD.
func (c *FeedClient) spotPrice(ctx context.Context, pair string) (decimal.Decimal, error) {
	url := fmt.Sprintf("%s/v2/prices/%s/spot", c.CoinbaseURL, pair)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return decimal.Zero, fmt.Errorf("build spot request: %w", err)
	}
	var body struct {
		Data struct {
			Amount string `json:"amount"`
		} `json:"data"`
	}
	if err := c.getJSON(req, &body); err != nil {
		return decimal.Zero, err
	}
	amount, err := decimal.NewFromString(body.Data.Amount)
	if err != nil {
		return decimal.Zero, fmt.Errorf("parse spot amount %q: %w", body.Data.Amount, err)
	}
	return amount, nil
}

// usdToVNDRate reads the tether price in VND from CoinGecko as a
// stand-in for the USD/VND exchange rate.
func (c *FeedClient) usdToVNDRate(ctx context.Context) (decimal.Decimal, error) {
	url := c.CoinGeckoURL + "/api/v3/simple/price?ids=tether&vs_currencies=vnd"
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return decimal.Zero, fmt.Errorf("build rate request: %w", err)
	}
	var body struct {
		Tether struct {
			VND decimal.Decimal `json:"vnd"`
		} `json:"tether"`
	}
	if err := c.getJSON(req, &body); err != nil {
		return decimal.Zero, err
	}
	if body.Tether.VND.IsZero() {
		return decimal.Zero, fmt.Errorf("rate response missing tether/vnd")
	}
	return body.Tether.VND, nil
}

func (c *FeedClient) getJSON(req *http.Request, out any) error {
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("fetch %s: %w", req.URL.Host, err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("fetch %s: unexpected status %d", req.URL.Host, resp.StatusCode)
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode %s response: %w", req.URL.Host, err)
	}
	return nil
}
