package config

import (
	"testing"
	"time"
)

func clearEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{
		"TELEGRAM_BOT_TOKEN", "REDIS_URL", "API_KEY", "LOG_LEVEL", "HTTP_PORT",
		"COINGECKO_BASE_URL", "COINGECKO_API_KEY", "COINGECKO_RATE_PER_MIN",
		"UPSTREAM_TIMEOUT_SECS", "UPSTREAM_MAX_RETRIES", "WORKER_POOL_SIZE",
		"COIN_LIST_FILE", "COIN_LIST_STORE", "COIN_LIST_REFRESH_HOURS",
		"PRICE_CACHE_TTL_SECS", "PRICE_CACHE_SIZE", "CHART_CACHE_TTL_SECS", "CHART_CACHE_SIZE",
		"TRACING_ENABLED", "OTEL_EXPORTER_OTLP_ENDPOINT",
	} {
		t.Setenv(key, "")
	}
}

func TestLoadDefaults(t *testing.T) {
	clearEnv(t)

	cfg := Load()
	if cfg.RedisURL != "" {
		t.Fatalf("expected redis disabled by default, got %s", cfg.RedisURL)
	}
	if cfg.CoinGeckoBaseURL != "https://api.coingecko.com/api/v3" {
		t.Fatalf("unexpected base url: %s", cfg.CoinGeckoBaseURL)
	}
	if cfg.CoinListRefreshEvery != 6*time.Hour {
		t.Fatalf("expected 6h refresh, got %v", cfg.CoinListRefreshEvery)
	}
	if cfg.PriceCacheTTL != 5*time.Minute || cfg.ChartCacheTTL != 15*time.Minute {
		t.Fatalf("unexpected cache ttls: %v %v", cfg.PriceCacheTTL, cfg.ChartCacheTTL)
	}
	if cfg.PriceCacheSize != 1000 || cfg.ChartCacheSize != 1000 {
		t.Fatalf("unexpected cache sizes: %d %d", cfg.PriceCacheSize, cfg.ChartCacheSize)
	}
	if cfg.CoinListFile != "coin_list.json" || cfg.CoinListStore != "file" {
		t.Fatalf("unexpected coin list settings: %+v", cfg)
	}
	if cfg.UpstreamMaxRetries != 3 || cfg.WorkerPoolSize != 8 || cfg.LogLevel != "info" {
		t.Fatalf("unexpected defaults: %+v", cfg)
	}
	if !cfg.TracingEnabled || cfg.OTLPEndpoint != "localhost:4317" {
		t.Fatalf("unexpected tracing defaults: %v %s", cfg.TracingEnabled, cfg.OTLPEndpoint)
	}
}

func TestLoadWithEnv(t *testing.T) {
	clearEnv(t)
	t.Setenv("TELEGRAM_BOT_TOKEN", "token")
	t.Setenv("REDIS_URL", "redis:6379")
	t.Setenv("COINGECKO_BASE_URL", "http://proxy/api/v3/")
	t.Setenv("PRICE_CACHE_TTL_SECS", "60")
	t.Setenv("UPSTREAM_MAX_RETRIES", "0")
	t.Setenv("COIN_LIST_STORE", "REDIS")

	cfg := Load()
	if cfg.TelegramBotToken != "token" || cfg.RedisURL != "redis:6379" {
		t.Fatalf("unexpected config: %+v", cfg)
	}
	if cfg.CoinGeckoBaseURL != "http://proxy/api/v3" {
		t.Fatalf("expected trailing slash trimmed, got %s", cfg.CoinGeckoBaseURL)
	}
	if cfg.PriceCacheTTL != time.Minute {
		t.Fatalf("expected 60s price ttl, got %v", cfg.PriceCacheTTL)
	}
	if cfg.UpstreamMaxRetries != 0 {
		t.Fatalf("expected retries disabled, got %d", cfg.UpstreamMaxRetries)
	}
	if cfg.CoinListStore != "redis" {
		t.Fatalf("expected redis store, got %s", cfg.CoinListStore)
	}

	t.Setenv("PRICE_CACHE_TTL_SECS", "bad")
	cfg = Load()
	if cfg.PriceCacheTTL != 5*time.Minute {
		t.Fatalf("invalid ttl should fall back to default, got %v", cfg.PriceCacheTTL)
	}
}

func TestLoadRedisStoreWithoutRedisFallsBack(t *testing.T) {
	clearEnv(t)
	t.Setenv("COIN_LIST_STORE", "redis")

	cfg := Load()
	if cfg.CoinListStore != "file" {
		t.Fatalf("expected fallback to file store, got %s", cfg.CoinListStore)
	}
}

func TestNewLogger(t *testing.T) {
	if _, err := NewLogger("debug"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, err := NewLogger("loud"); err == nil {
		t.Fatal("expected error for invalid level")
	}
}

func TestLoadTracingDisabled(t *testing.T) {
	clearEnv(t)
	t.Setenv("TRACING_ENABLED", "FALSE")
	t.Setenv("OTEL_EXPORTER_OTLP_ENDPOINT", "collector:4317")

	cfg := Load()
	if cfg.TracingEnabled {
		t.Fatal("expected tracing disabled")
	}
	if cfg.OTLPEndpoint != "collector:4317" {
		t.Fatalf("unexpected endpoint: %s", cfg.OTLPEndpoint)
	}
}
