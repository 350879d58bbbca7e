// Package marketdata fetches daily candles from the Yahoo Finance chart API.
package marketdata

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strconv"
	"strings"
	"time"

	"golang.org/x/time/rate"

	"YTM4A/internal/domain/models"
	dsvc "YTM4A/internal/domain/service"
	"YTM4A/pkg/cache"
	"YTM4A/pkg/http"
	"YTM4A/pkg/logger"
)

const (
	DefaultBaseURL   = "https://query1.finance.yahoo.com"
	DefaultRateLimit = 2 // requests per second
	DefaultCacheTTL  = 15 * time.Minute

	userAgent = "Mozilla/5.0 (compatible; ytm4a/1.0)"
)

// Client implements service.MarketData.
type Client struct {
	baseURL  string
	timeout  time.Duration
	http     *http.Client
	limiter  *rate.Limiter
	cache    cache.Service
	cacheTTL time.Duration
	log      *logger.Logger
}

// Option configures the client.
type Option func(*Client)

// WithBaseURL sets the base URL.
func WithBaseURL(baseURL string) Option {
	return func(c *Client) {
		c.baseURL = strings.TrimRight(baseURL, "/")
	}
}

// WithRateLimit sets the request rate.
func WithRateLimit(requestsPerSecond float64) Option {
	return func(c *Client) {
		burst := int(requestsPerSecond)
		if burst < 1 {
			burst = 1
		}
		c.limiter = rate.NewLimiter(rate.Limit(requestsPerSecond), burst)
	}
}

// WithCache stores responses in svc for ttl.
func WithCache(svc cache.Service, ttl time.Duration) Option {
	return func(c *Client) {
		c.cache = svc
		c.cacheTTL = ttl
	}
}

// WithTimeout sets the HTTP timeout.
func WithTimeout(timeout time.Duration) Option {
	return func(c *Client) {
		c.timeout = timeout
	}
}

// NewClient creates a Yahoo chart client.
func NewClient(l *logger.Logger, opts ...Option) *Client {
	c := &Client{
		baseURL:  DefaultBaseURL,
		timeout:  20 * time.Second,
		limiter:  rate.NewLimiter(rate.Limit(DefaultRateLimit), DefaultRateLimit),
		cacheTTL: DefaultCacheTTL,
		log:      l.Component("marketdata"),
	}
	for _, opt := range opts {
		opt(c)
	}
	c.http = http.NewClient(
		http.WithBaseURL(c.baseURL),
		http.WithTimeout(c.timeout),
		http.WithHeader("User-Agent", userAgent),
		http.WithHeader("Accept", "application/json"),
		http.WithRetry(3, 500*time.Millisecond),
	)
	return c
}

var _ dsvc.MarketData = (*Client)(nil)

type chartResponse struct {
	Chart struct {
		Result []struct {
			Meta struct {
				Symbol   string `json:"symbol"`
				Currency string `json:"currency"`
			} `json:"meta"`
			Timestamp  []int64 `json:"timestamp"`
			Indicators struct {
				Quote []struct {
					Open   []*float64 `json:"open"`
					High   []*float64 `json:"high"`
					Low    []*float64 `json:"low"`
					Close  []*float64 `json:"close"`
					Volume []*float64 `json:"volume"`
				} `json:"quote"`
			} `json:"indicators"`
		} `json:"result"`
		Error *struct {
			Code        string `json:"code"`
			Description string `json:"description"`
		} `json:"error"`
	} `json:"chart"`
}

// DailyCandles returns daily bars for symbol between from and to, oldest
// first. Bars with a missing close are skipped.
func (c *Client) DailyCandles(ctx context.Context, symbol string, from, to time.Time) ([]models.Candle, error) {
	symbol = strings.ToUpper(strings.TrimSpace(symbol))
	if symbol == "" {
		return nil, fmt.Errorf("empty symbol")
	}

	key := cache.GenerateKeyWithParams("market", symbol, from, to)
	if c.cache != nil {
		var cached []models.Candle
		if err := c.cache.Get(ctx, key, &cached); err == nil {
			c.log.Debug("market data cache hit", logger.String("symbol", symbol))
			return cached, nil
		} else if !errors.Is(err, cache.ErrCacheMiss) {
			c.log.Warn("market data cache read failed", logger.Error(err))
		}
	}

	if err := c.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("rate limit wait: %w", err)
	}

	params := map[string][]string{
		"period1":  {strconv.FormatInt(from.Unix(), 10)},
		"period2":  {strconv.FormatInt(to.Unix(), 10)},
		"interval": {"1d"},
		"events":   {"history"},
	}
	var resp chartResponse
	err := c.http.SendAndParse(ctx, &http.RequestOptions{
		Method:      http.MethodGet,
		URL:         "/v8/finance/chart/" + url.PathEscape(symbol),
		QueryParams: params,
	}, &resp)
	if err != nil {
		return nil, fmt.Errorf("fetch %s: %w", symbol, err)
	}

	candles, err := toCandles(&resp)
	if err != nil {
		return nil, fmt.Errorf("fetch %s: %w", symbol, err)
	}
	c.log.Info("market data fetched", logger.String("symbol", symbol), logger.Int("bars", len(candles)))

	if c.cache != nil && len(candles) > 0 {
		if err := c.cache.Set(ctx, key, candles, c.cacheTTL); err != nil {
			c.log.Warn("market data cache write failed", logger.Error(err))
		}
	}
	return candles, nil
}

func toCandles(resp *chartResponse) ([]models.Candle, error) {
	if e := resp.Chart.Error; e != nil {
		return nil, fmt.Errorf("%s: %s", e.Code, e.Description)
	}
	if len(resp.Chart.Result) == 0 {
		return nil, fmt.Errorf("no chart data")
	}
	r := resp.Chart.Result[0]
	if len(r.Indicators.Quote) == 0 {
		return []models.Candle{}, nil
	}
	q := r.Indicators.Quote[0]

	candles := make([]models.Candle, 0, len(r.Timestamp))
	for i, ts := range r.Timestamp {
		closePx := at(q.Close, i)
		if closePx == nil {
			continue
		}
		candles = append(candles, models.Candle{
			Time:   time.Unix(ts, 0).UTC(),
			Open:   orDefault(at(q.Open, i), *closePx),
			High:   orDefault(at(q.High, i), *closePx),
			Low:    orDefault(at(q.Low, i), *closePx),
			Close:  *closePx,
			Volume: orDefault(at(q.Volume, i), 0),
		})
	}
	return candles, nil
}

func at(s []*float64, i int) *float64 {
	if i < len(s) {
		return s[i]
	}
	return nil
}

func orDefault(v *float64, def float64) float64 {
	if v == nil {
		return def
	}
	return *v
}
