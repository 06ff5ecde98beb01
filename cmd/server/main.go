package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"coinscope/internal/app"
	"coinscope/internal/bot"
	"coinscope/internal/config"
	"coinscope/internal/directory"
	"coinscope/internal/handler"
	"coinscope/internal/job"
	"coinscope/pkg/tracing"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"
	"go.uber.org/zap"

	_ "coinscope/docs"
)

var (
	loadEnvFunc          = godotenv.Load
	loadConfigFunc       = config.Load
	newLoggerFunc        = config.NewLogger
	initTracerFunc       = tracing.InitTracer
	newAppFunc           = app.New
	bootstrapFunc        = func(ctx context.Context, a *app.App) (directory.Origin, error) { return a.Directory.Bootstrap(ctx) }
	startRefresherFunc   = func(r *job.DirectoryRefresher, ctx context.Context) { go r.Start(ctx) }
	startTelegramBotFunc = func(b *bot.Bot, ctx context.Context, token string) error {
		return b.Start(ctx, token)
	}
	newRouterFunc          = gin.Default
	setupSignalNotify      = signal.Notify
	waitForSignalFunc      = func(quit <-chan os.Signal) { <-quit }
	startHTTPServerFunc    = func(srv *http.Server) error { return srv.ListenAndServe() }
	shutdownHTTPServerFunc = func(srv *http.Server, ctx context.Context) error { return srv.Shutdown(ctx) }
)

// @title           Coinscope API
// @version         1.0
// @description     Coin lookup, fuzzy search and cached CoinGecko market data.

// @host      localhost:8080
// @BasePath  /

// @securityDefinitions.apikey  ApiKeyAuth
// @in                          header
// @name                        X-API-Key
func main() {
	_ = loadEnvFunc()

	cfg := loadConfigFunc()

	logger, err := newLoggerFunc(cfg.LogLevel)
	if err != nil {
		log.Fatalf("failed to create logger: %v", err)
	}
	defer logger.Sync()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	tp, tracer, err := initTracerFunc(ctx, tracing.Options{
		ServiceName: tracing.DefaultServiceName,
		Enabled:     cfg.TracingEnabled,
		Endpoint:    cfg.OTLPEndpoint,
	})
	if err != nil {
		logger.Fatal("failed to initialize tracer", zap.Error(err))
	}
	defer func() {
		if err := tp.Shutdown(context.Background()); err != nil {
			logger.Warn("tracer-shutdown-failed", zap.Error(err))
		}
	}()

	a := newAppFunc(ctx, cfg, logger, tracer)
	defer a.Close()

	// An empty directory is not fatal: queries report it until a refresh succeeds.
	origin, err := bootstrapFunc(ctx, a)
	if err != nil {
		logger.Error("coin-directory-bootstrap-failed", zap.Error(err))
	}

	refresher := job.NewDirectoryRefresher(tracer, logger.Named("refresher"), a.Directory,
		cfg.CoinListRefreshEvery, origin == directory.OriginStore)
	startRefresherFunc(refresher, ctx)

	b := bot.New(tracer, logger.Named("telegram"), a.Coins, cfg.UpstreamTimeout*2)
	if err := startTelegramBotFunc(b, ctx, cfg.TelegramBotToken); err != nil {
		logger.Error("telegram-bot-start-failed", zap.Error(err))
	}

	h := handler.New(tracer, a.Coins, cfg.APIKey)

	r := newRouterFunc()
	r.Use(otelgin.Middleware(tracing.DefaultServiceName))

	h.RegisterRoutes(r)
	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	srv := &http.Server{
		Addr:    fmt.Sprintf(":%d", cfg.HTTPPort),
		Handler: r,
	}

	go func() {
		logger.Info("http-server-listening", zap.String("addr", srv.Addr))
		if err := startHTTPServerFunc(srv); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("listen failed", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	setupSignalNotify(quit, syscall.SIGINT, syscall.SIGTERM)
	waitForSignalFunc(quit)
	logger.Info("shutting-down")

	cancel()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()

	if err := shutdownHTTPServerFunc(srv, shutdownCtx); err != nil {
		logger.Error("server-forced-shutdown", zap.Error(err))
	}

	logger.Info("server-exiting")
}
