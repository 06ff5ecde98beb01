package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"time"

	"coinscope/internal/app"
	"coinscope/internal/config"
	"coinscope/pkg/tracing"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var (
	loadEnvFunc    = godotenv.Load
	loadConfigFunc = config.Load
	newLoggerFunc  = config.NewLogger
	newAppFunc     = app.New
)

type rootOptions struct {
	asJSON   bool
	logLevel string
	timeout  time.Duration
}

func newRootCmd() *cobra.Command {
	opts := &rootOptions{}

	cmd := &cobra.Command{
		Use:   "coinctl",
		Short: "Query the coin directory and CoinGecko market data",
		Long: `coinscope resolves free-form coin names to CoinGecko ids, suggests close
matches for misspelled queries and prints cached market data and charts.

It reads the same environment as the server (COINGECKO_*, COIN_LIST_*, REDIS_URL),
so a coin list persisted by the server is reused here.`,
		SilenceUsage: true,
	}

	cmd.PersistentFlags().BoolVar(&opts.asJSON, "json", false, "print results as JSON")
	cmd.PersistentFlags().StringVar(&opts.logLevel, "log-level", "warn", "log level (debug, info, warn, error)")
	cmd.PersistentFlags().DurationVar(&opts.timeout, "timeout", 30*time.Second, "overall deadline for the command")

	cmd.AddCommand(
		newResolveCmd(opts),
		newSearchCmd(opts),
		newMarketCmd(opts),
		newChartCmd(opts),
		newRefreshCoinsCmd(opts),
	)
	return cmd
}

// session is one wired app plus the deadline of the running command.
type session struct {
	ctx    context.Context
	app    *app.App
	logger *zap.Logger
	out    io.Writer
	asJSON bool
	close  func()
}

// openSession wires the app. With bootstrap set the coin directory is loaded
// from the store or upstream before the command runs.
func openSession(cmd *cobra.Command, opts *rootOptions, bootstrap bool) (*session, error) {
	_ = loadEnvFunc()
	cfg := loadConfigFunc()

	logger, err := newLoggerFunc(opts.logLevel)
	if err != nil {
		return nil, fmt.Errorf("create logger: %w", err)
	}

	parent := cmd.Context()
	if parent == nil {
		parent = context.Background()
	}

	tp, tracer, err := tracing.InitTracer(parent, tracing.Options{ServiceName: "coinctl"})
	if err != nil {
		return nil, fmt.Errorf("init tracer: %w", err)
	}
	ctx, cancel := context.WithTimeout(parent, opts.timeout)

	a := newAppFunc(ctx, cfg, logger, tracer)
	s := &session{
		ctx:    ctx,
		app:    a,
		logger: logger,
		out:    cmd.OutOrStdout(),
		asJSON: opts.asJSON,
		close: func() {
			cancel()
			_ = a.Close()
			_ = tp.Shutdown(context.Background())
			_ = logger.Sync()
		},
	}

	if bootstrap {
		origin, err := a.Directory.Bootstrap(ctx)
		if err != nil {
			s.close()
			return nil, err
		}
		logger.Debug("coin-directory-ready", zap.String("origin", string(origin)))
	}
	return s, nil
}

func (s *session) printJSON(v any) error {
	enc := json.NewEncoder(s.out)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
