// Package app assembles the coin directory, caches and services from configuration.
package app

import (
	"context"

	"coinscope/internal/cache"
	"coinscope/internal/config"
	"coinscope/internal/directory"
	"coinscope/internal/domain"
	"coinscope/internal/provider"
	"coinscope/internal/service"

	"github.com/redis/go-redis/v9"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
)

var newRedisFunc = cache.NewRedis

// Source is what the app needs from the upstream market data API.
type Source interface {
	directory.CoinSource
	service.MarketProvider
}

// App holds the wired components shared by the server and the CLI.
type App struct {
	Config    *config.Config
	Logger    *zap.Logger
	Tracer    trace.Tracer
	Redis     *redis.Client
	Source    Source
	Pool      *service.WorkService
	Store     directory.Store
	Directory *directory.Directory
	Market    *service.MarketService
	Coins     *service.CoinService
}

// New wires every component. Redis is optional: when it is not configured or cannot be
// reached the app runs on in-process caches and the file store.
func New(ctx context.Context, cfg *config.Config, logger *zap.Logger, tracer trace.Tracer) *App {
	a := &App{Config: cfg, Logger: logger, Tracer: tracer}

	if cfg.RedisURL != "" {
		client, err := newRedisFunc(ctx, cfg.RedisURL)
		if err != nil {
			logger.Warn("redis-unavailable", zap.Error(err))
		} else {
			a.Redis = client
			logger.Info("redis-connected")
		}
	}

	a.Source = provider.NewCoinGeckoProvider(tracer, logger.Named("coingecko"), provider.Options{
		BaseURL:    cfg.CoinGeckoBaseURL,
		APIKey:     cfg.CoinGeckoAPIKey,
		Timeout:    cfg.UpstreamTimeout,
		RatePerMin: cfg.CoinGeckoRatePerMin,
		MaxRetries: cfg.UpstreamMaxRetries,
	})
	a.assemble()
	return a
}

// assemble builds everything downstream of the source and the optional Redis client.
func (a *App) assemble() {
	cfg, logger := a.Config, a.Logger

	a.Pool = service.NewWorkService(a.Tracer, logger, cfg.WorkerPoolSize)

	if cfg.CoinListStore == "redis" && a.Redis != nil {
		a.Store = directory.NewRedisStore(a.Redis)
	} else {
		a.Store = directory.NewFileStore(cfg.CoinListFile)
	}
	a.Directory = directory.New(a.Tracer, logger.Named("directory"), a.Source, a.Store, a.Pool)

	prices := cache.NewTTLCache[string, *domain.MarketDocument]("price", cfg.PriceCacheSize, cfg.PriceCacheTTL, logger)
	charts := cache.NewTTLCache[service.ChartKey, *domain.SeriesBuffer]("chart", cfg.ChartCacheSize, cfg.ChartCacheTTL, logger)

	// A nil *redis.Client must not become a non-nil interface.
	var l2 service.RedisClient
	if a.Redis != nil {
		l2 = a.Redis
	}
	a.Market = service.NewMarketService(a.Tracer, logger.Named("market"), a.Source, a.Pool, l2, prices, charts)
	a.Coins = service.NewCoinService(a.Tracer, a.Directory, a.Market)
}

// Close releases the Redis connection if one was opened.
func (a *App) Close() error {
	if a.Redis != nil {
		return a.Redis.Close()
	}
	return nil
}
