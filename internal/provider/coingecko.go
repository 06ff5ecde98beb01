package provider

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"sort"
	"strconv"
	"strings"
	"time"

	"coinscope/internal/domain"

	"github.com/cenkalti/backoff/v5"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
)

const coingeckoBaseURL = "https://api.coingecko.com/api/v3"

// Options tunes the CoinGecko client. Zero values fall back to defaults.
type Options struct {
	BaseURL    string
	APIKey     string
	Timeout    time.Duration
	RatePerMin int
	MaxRetries int
}

// CoinGeckoProvider fetches the coin list, coin documents and market charts from the CoinGecko API.
type CoinGeckoProvider struct {
	client     *http.Client
	baseURL    string
	apiKey     string
	tracer     trace.Tracer
	logger     *zap.Logger
	limiter    *RateLimiter
	maxRetries int
	retryDelay time.Duration
}

// NewCoinGeckoProvider creates a provider with built-in rate limiting, a per-call timeout and bounded retries.
func NewCoinGeckoProvider(tracer trace.Tracer, logger *zap.Logger, opts Options) *CoinGeckoProvider {
	if opts.BaseURL == "" {
		opts.BaseURL = coingeckoBaseURL
	}
	if opts.Timeout <= 0 {
		opts.Timeout = 15 * time.Second
	}
	if opts.RatePerMin <= 0 {
		opts.RatePerMin = 30
	}
	if opts.MaxRetries < 0 {
		opts.MaxRetries = 0
	}
	return &CoinGeckoProvider{
		client:     &http.Client{Timeout: opts.Timeout},
		baseURL:    strings.TrimRight(opts.BaseURL, "/"),
		apiKey:     opts.APIKey,
		tracer:     tracer,
		logger:     logger,
		limiter:    NewPerMinuteLimiter(opts.RatePerMin),
		maxRetries: opts.MaxRetries,
		retryDelay: 500 * time.Millisecond,
	}
}

// FetchCoinList returns /coins/list in upstream order.
func (p *CoinGeckoProvider) FetchCoinList(ctx context.Context) ([]domain.Coin, error) {
	ctx, span := p.tracer.Start(ctx, "coingecko.fetch-coin-list")
	defer span.End()

	body, err := p.doRequest(ctx, "coins-list", "/coins/list", nil)
	if err != nil {
		return nil, fmt.Errorf("fetch coin list: %w", err)
	}

	var coins []domain.Coin
	if err := json.Unmarshal(body, &coins); err != nil {
		return nil, fmt.Errorf("parse coin list: %w: %w", domain.ErrUpstreamUnavailable, err)
	}
	span.SetAttributes(attribute.Int("coins", len(coins)))
	return coins, nil
}

// FetchCoin returns the market document for id with localization, tickers and community data disabled.
func (p *CoinGeckoProvider) FetchCoin(ctx context.Context, id string) (*domain.MarketDocument, error) {
	ctx, span := p.tracer.Start(ctx, "coingecko.fetch-coin")
	defer span.End()
	span.SetAttributes(attribute.String("coin_id", id))

	params := url.Values{}
	params.Set("localization", "false")
	params.Set("tickers", "false")
	params.Set("community_data", "false")

	body, err := p.doRequest(ctx, "coin", "/coins/"+url.PathEscape(id), params)
	if err != nil {
		return nil, fmt.Errorf("fetch coin %s: %w", id, err)
	}

	var doc domain.MarketDocument
	if err := json.Unmarshal(body, &doc); err != nil {
		return nil, fmt.Errorf("parse coin %s: %w: %w", id, domain.ErrUpstreamUnavailable, err)
	}
	if doc.ID == "" {
		doc.ID = id
	}
	doc.FetchedAt = time.Now().UTC()
	return &doc, nil
}

// FetchMarketChart returns the (timestamp, price) series for id over the last days days, sorted by time.
func (p *CoinGeckoProvider) FetchMarketChart(ctx context.Context, id, currency string, days int) (*domain.SeriesBuffer, error) {
	ctx, span := p.tracer.Start(ctx, "coingecko.fetch-market-chart")
	defer span.End()
	span.SetAttributes(
		attribute.String("coin_id", id),
		attribute.String("currency", currency),
		attribute.Int("days", days),
	)

	params := url.Values{}
	params.Set("vs_currency", currency)
	params.Set("days", strconv.Itoa(days))

	body, err := p.doRequest(ctx, "market-chart", "/coins/"+url.PathEscape(id)+"/market_chart", params)
	if err != nil {
		return nil, fmt.Errorf("fetch market chart for %s: %w", id, err)
	}

	var raw struct {
		Prices [][]float64 `json:"prices"`
	}
	if err := json.Unmarshal(body, &raw); err != nil {
		return nil, fmt.Errorf("parse market chart for %s: %w: %w", id, domain.ErrUpstreamUnavailable, err)
	}

	return &domain.SeriesBuffer{
		CoinID:    id,
		Currency:  currency,
		Days:      days,
		Points:    buildPoints(raw.Prices),
		FetchedAt: time.Now().UTC(),
	}, nil
}

func (p *CoinGeckoProvider) doRequest(ctx context.Context, endpoint, path string, params url.Values) ([]byte, error) {
	requestURL := p.baseURL + path
	if len(params) > 0 {
		requestURL += "?" + params.Encode()
	}

	bo := backoff.NewExponentialBackOff()
	bo.InitialInterval = p.retryDelay
	bo.MaxInterval = 10 * p.retryDelay

	attempt := 0
	body, err := backoff.Retry(ctx, func() ([]byte, error) {
		attempt++
		return p.doOnce(ctx, endpoint, requestURL)
	},
		backoff.WithBackOff(bo),
		backoff.WithMaxTries(uint(p.maxRetries+1)),
		backoff.WithNotify(func(err error, wait time.Duration) {
			p.logger.Warn("coingecko-request-retry",
				zap.String("endpoint", endpoint),
				zap.Int("attempt", attempt),
				zap.Duration("wait", wait),
				zap.Error(err))
		}),
	)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, err
		}
		return nil, fmt.Errorf("%w: %w", domain.ErrUpstreamUnavailable, err)
	}
	return body, nil
}

// doOnce performs a single attempt. Errors that retrying cannot fix are marked permanent.
func (p *CoinGeckoProvider) doOnce(ctx context.Context, endpoint, requestURL string) ([]byte, error) {
	if err := p.limiter.Wait(ctx); err != nil {
		return nil, backoff.Permanent(fmt.Errorf("rate limit wait: %w", err))
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, requestURL, nil)
	if err != nil {
		return nil, backoff.Permanent(err)
	}
	req.Header.Set("Accept", "application/json")
	if p.apiKey != "" {
		req.Header.Set("x-cg-demo-api-key", p.apiKey)
	}

	start := time.Now()
	resp, err := p.client.Do(req)
	UpstreamRequestDuration.WithLabelValues(endpoint).Observe(time.Since(start).Seconds())
	if err != nil {
		UpstreamRequestsTotal.WithLabelValues(endpoint, "error").Inc()
		if ctx.Err() != nil {
			return nil, backoff.Permanent(err)
		}
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		UpstreamRequestsTotal.WithLabelValues(endpoint, strconv.Itoa(resp.StatusCode)).Inc()
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		apiErr := fmt.Errorf("coingecko API error %d: %s", resp.StatusCode, strings.TrimSpace(string(body)))
		switch {
		case resp.StatusCode == http.StatusNotFound:
			return nil, backoff.Permanent(fmt.Errorf("%w: %w", domain.ErrNotFound, apiErr))
		case resp.StatusCode == http.StatusTooManyRequests:
			if secs, convErr := strconv.Atoi(resp.Header.Get("Retry-After")); convErr == nil && secs > 0 {
				return nil, backoff.RetryAfter(secs)
			}
			return nil, apiErr
		case resp.StatusCode >= 500:
			return nil, apiErr
		default:
			return nil, backoff.Permanent(apiErr)
		}
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		UpstreamRequestsTotal.WithLabelValues(endpoint, "error").Inc()
		return nil, err
	}
	UpstreamRequestsTotal.WithLabelValues(endpoint, "ok").Inc()
	return body, nil
}

// buildPoints converts raw [ms, price] pairs to sorted chart points, skipping malformed pairs.
func buildPoints(prices [][]float64) []domain.ChartPoint {
	points := make([]domain.ChartPoint, 0, len(prices))
	for _, pt := range prices {
		if len(pt) < 2 {
			continue
		}
		points = append(points, domain.ChartPoint{
			Time:  time.UnixMilli(int64(pt[0])).UTC(),
			Price: pt[1],
		})
	}
	sort.SliceStable(points, func(i, j int) bool {
		return points[i].Time.Before(points[j].Time)
	})
	return points
}
