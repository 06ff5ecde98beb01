package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"coinscope/internal/cache"
	"coinscope/internal/domain"

	"github.com/redis/go-redis/v9"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
)

// MarketProvider fetches market documents and chart series upstream.
type MarketProvider interface {
	FetchCoin(ctx context.Context, id string) (*domain.MarketDocument, error)
	FetchMarketChart(ctx context.Context, id, currency string, days int) (*domain.SeriesBuffer, error)
}

type RedisClient interface {
	Set(ctx context.Context, key string, value interface{}, expiration time.Duration) *redis.StatusCmd
	Get(ctx context.Context, key string) *redis.StringCmd
}

// ChartKey identifies one cached chart series.
type ChartKey struct {
	ID       string
	Currency string
	Days     int
}

func (k ChartKey) redisKey() string {
	return "chart:" + k.ID + ":" + k.Currency + ":" + strconv.Itoa(k.Days)
}

type (
	PriceCache = cache.TTLCache[string, *domain.MarketDocument]
	ChartCache = cache.TTLCache[ChartKey, *domain.SeriesBuffer]
)

// MarketService serves market documents and chart series read-through: the in-process
// cache first, then Redis when configured, then upstream on the worker pool.
type MarketService struct {
	tracer   trace.Tracer
	logger   *zap.Logger
	provider MarketProvider
	pool     *WorkService
	redis    RedisClient
	prices   *PriceCache
	charts   *ChartCache
	now      func() time.Time
}

// NewMarketService wires the caches. redisClient may be nil.
func NewMarketService(
	tracer trace.Tracer,
	logger *zap.Logger,
	provider MarketProvider,
	pool *WorkService,
	redisClient RedisClient,
	prices *PriceCache,
	charts *ChartCache,
) *MarketService {
	return &MarketService{
		tracer:   tracer,
		logger:   logger,
		provider: provider,
		pool:     pool,
		redis:    redisClient,
		prices:   prices,
		charts:   charts,
		now:      time.Now,
	}
}

// GetCryptoData returns the market document for a canonical coin id.
func (s *MarketService) GetCryptoData(ctx context.Context, id string) (*domain.MarketDocument, error) {
	ctx, span := s.tracer.Start(ctx, "market-service.get-crypto-data")
	defer span.End()

	id = strings.ToLower(strings.TrimSpace(id))
	if id == "" {
		return nil, fmt.Errorf("%w: empty coin id", domain.ErrInvalidQuery)
	}
	span.SetAttributes(attribute.String("coin", id))

	return readThrough(ctx, s, s.prices, id, "market", "market:"+id,
		func(doc *domain.MarketDocument) time.Time { return doc.FetchedAt },
		func(ctx context.Context) (*domain.MarketDocument, error) {
			return s.provider.FetchCoin(ctx, id)
		})
}

// GetChart returns the price series for id quoted in currency over the last days days.
// A cache hit hands back the stored series unchanged.
func (s *MarketService) GetChart(ctx context.Context, id, currency string, days int) (*domain.SeriesBuffer, error) {
	ctx, span := s.tracer.Start(ctx, "market-service.get-chart")
	defer span.End()

	key := ChartKey{
		ID:       strings.ToLower(strings.TrimSpace(id)),
		Currency: strings.ToLower(strings.TrimSpace(currency)),
		Days:     days,
	}
	if key.Currency == "" {
		key.Currency = domain.DefaultCurrency
	}
	if key.ID == "" {
		return nil, fmt.Errorf("%w: empty coin id", domain.ErrInvalidQuery)
	}
	if key.Days <= 0 {
		return nil, fmt.Errorf("%w: days must be positive, got %d", domain.ErrInvalidQuery, days)
	}
	span.SetAttributes(
		attribute.String("coin", key.ID),
		attribute.String("currency", key.Currency),
		attribute.Int("days", key.Days),
	)

	return readThrough(ctx, s, s.charts, key, "chart", key.redisKey(),
		func(series *domain.SeriesBuffer) time.Time { return series.FetchedAt },
		func(ctx context.Context) (*domain.SeriesBuffer, error) {
			return s.provider.FetchMarketChart(ctx, key.ID, key.Currency, key.Days)
		})
}

func readThrough[K comparable, V any](
	ctx context.Context,
	s *MarketService,
	l1 *cache.TTLCache[K, V],
	key K,
	kind, redisKey string,
	fetchedAt func(V) time.Time,
	fetch func(ctx context.Context) (V, error),
) (V, error) {
	if v, ok := l1.Get(key); ok {
		return v, nil
	}

	if v, ok := readL2(ctx, s, l1, key, kind, redisKey, fetchedAt); ok {
		return v, nil
	}

	var v V
	err := s.pool.Do(ctx, kind+".fetch", func(ctx context.Context) error {
		var err error
		v, err = fetch(ctx)
		return err
	})
	if err != nil {
		var zero V
		if errors.Is(err, domain.ErrNotFound) || errors.Is(err, domain.ErrUpstreamUnavailable) {
			return zero, err
		}
		return zero, fmt.Errorf("%w: %w", domain.ErrUpstreamUnavailable, err)
	}

	l1.Put(key, v)
	s.writeL2(ctx, kind, redisKey, v, l1.TTL())
	return v, nil
}

// readL2 consults Redis after an in-process miss. A hit is copied into l1 with the
// expiry it would have had if fetched here.
func readL2[K comparable, V any](
	ctx context.Context,
	s *MarketService,
	l1 *cache.TTLCache[K, V],
	key K,
	kind, redisKey string,
	fetchedAt func(V) time.Time,
) (V, bool) {
	var zero V
	if s.redis == nil {
		return zero, false
	}

	data, err := s.redis.Get(ctx, redisKey).Bytes()
	if err == redis.Nil {
		L2ReadsTotal.WithLabelValues(kind, "miss").Inc()
		return zero, false
	}
	if err != nil {
		L2ReadsTotal.WithLabelValues(kind, "error").Inc()
		s.logger.Warn("redis-cache-read-failed", zap.String("key", redisKey), zap.Error(err))
		return zero, false
	}

	var v V
	if err := json.Unmarshal(data, &v); err != nil {
		L2ReadsTotal.WithLabelValues(kind, "error").Inc()
		s.logger.Warn("redis-cache-decode-failed", zap.String("key", redisKey), zap.Error(err))
		return zero, false
	}

	expiresAt := fetchedAt(v).Add(l1.TTL())
	if !expiresAt.After(s.now()) {
		L2ReadsTotal.WithLabelValues(kind, "stale").Inc()
		return zero, false
	}
	L2ReadsTotal.WithLabelValues(kind, "hit").Inc()
	l1.PutUntil(key, v, expiresAt)
	return v, true
}

func (s *MarketService) writeL2(ctx context.Context, kind, redisKey string, v any, ttl time.Duration) {
	if s.redis == nil {
		return
	}
	data, err := json.Marshal(v)
	if err != nil {
		s.logger.Warn("redis-cache-encode-failed", zap.String("kind", kind), zap.Error(err))
		return
	}
	if err := s.redis.Set(ctx, redisKey, data, ttl).Err(); err != nil {
		s.logger.Warn("redis-cache-write-failed", zap.String("key", redisKey), zap.Error(err))
	}
}
