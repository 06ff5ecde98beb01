package config

import (
	"log"
	"os"
	"strconv"
	"strings"
	"time"
)

type Config struct {
	TelegramBotToken string
	RedisURL         string
	HTTPPort         int
	APIKey           string
	LogLevel         string

	CoinGeckoBaseURL     string
	CoinGeckoAPIKey      string
	CoinGeckoRatePerMin  int
	UpstreamTimeout      time.Duration
	UpstreamMaxRetries   int
	WorkerPoolSize       int
	CoinListFile         string
	CoinListStore        string
	CoinListRefreshEvery time.Duration

	PriceCacheTTL  time.Duration
	PriceCacheSize int
	ChartCacheTTL  time.Duration
	ChartCacheSize int

	TracingEnabled bool
	OTLPEndpoint   string
}

func Load() *Config {
	cfg := &Config{
		TelegramBotToken: os.Getenv("TELEGRAM_BOT_TOKEN"),
		RedisURL:         strings.TrimSpace(os.Getenv("REDIS_URL")),
		APIKey:           strings.TrimSpace(os.Getenv("API_KEY")),
		CoinGeckoAPIKey:  strings.TrimSpace(os.Getenv("COINGECKO_API_KEY")),
	}

	if cfg.TelegramBotToken == "" {
		log.Println("Warning: TELEGRAM_BOT_TOKEN not set")
	}
	if cfg.RedisURL == "" {
		log.Println("Warning: REDIS_URL not set, running with in-process caches only")
	}

	cfg.LogLevel = strings.ToLower(strings.TrimSpace(os.Getenv("LOG_LEVEL")))
	if cfg.LogLevel == "" {
		cfg.LogLevel = "info"
	}

	cfg.HTTPPort = positiveInt("HTTP_PORT", 8080)

	cfg.CoinGeckoBaseURL = strings.TrimRight(strings.TrimSpace(os.Getenv("COINGECKO_BASE_URL")), "/")
	if cfg.CoinGeckoBaseURL == "" {
		cfg.CoinGeckoBaseURL = "https://api.coingecko.com/api/v3"
	}

	cfg.CoinGeckoRatePerMin = positiveInt("COINGECKO_RATE_PER_MIN", 30)
	cfg.UpstreamTimeout = time.Duration(positiveInt("UPSTREAM_TIMEOUT_SECS", 15)) * time.Second
	cfg.WorkerPoolSize = positiveInt("WORKER_POOL_SIZE", 8)

	cfg.UpstreamMaxRetries = 3
	if v := strings.TrimSpace(os.Getenv("UPSTREAM_MAX_RETRIES")); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n >= 0 {
			cfg.UpstreamMaxRetries = n
		} else {
			log.Printf("Warning: invalid UPSTREAM_MAX_RETRIES=%q, using %d", v, cfg.UpstreamMaxRetries)
		}
	}

	cfg.CoinListFile = strings.TrimSpace(os.Getenv("COIN_LIST_FILE"))
	if cfg.CoinListFile == "" {
		cfg.CoinListFile = "coin_list.json"
	}

	cfg.CoinListStore = strings.ToLower(strings.TrimSpace(os.Getenv("COIN_LIST_STORE")))
	if cfg.CoinListStore == "" {
		cfg.CoinListStore = "file"
	}
	if cfg.CoinListStore != "file" && cfg.CoinListStore != "redis" {
		log.Printf("Warning: unsupported COIN_LIST_STORE=%q, defaulting to file", cfg.CoinListStore)
		cfg.CoinListStore = "file"
	}
	if cfg.CoinListStore == "redis" && cfg.RedisURL == "" {
		log.Println("Warning: COIN_LIST_STORE=redis requires REDIS_URL, defaulting to file")
		cfg.CoinListStore = "file"
	}

	cfg.CoinListRefreshEvery = time.Duration(positiveInt("COIN_LIST_REFRESH_HOURS", 6)) * time.Hour

	cfg.PriceCacheTTL = time.Duration(positiveInt("PRICE_CACHE_TTL_SECS", 300)) * time.Second
	cfg.PriceCacheSize = positiveInt("PRICE_CACHE_SIZE", 1000)
	cfg.ChartCacheTTL = time.Duration(positiveInt("CHART_CACHE_TTL_SECS", 900)) * time.Second
	cfg.ChartCacheSize = positiveInt("CHART_CACHE_SIZE", 1000)

	cfg.TracingEnabled = !strings.EqualFold(strings.TrimSpace(os.Getenv("TRACING_ENABLED")), "false")
	cfg.OTLPEndpoint = strings.TrimSpace(os.Getenv("OTEL_EXPORTER_OTLP_ENDPOINT"))
	if cfg.OTLPEndpoint == "" {
		cfg.OTLPEndpoint = "localhost:4317"
	}

	return cfg
}

func positiveInt(key string, def int) int {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil || n <= 0 {
		log.Printf("Warning: invalid %s=%q, using %d", key, v, def)
		return def
	}
	return n
}
