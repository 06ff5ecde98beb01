// Package bot is the Telegram front end for the coin query service.
package bot

import (
	"context"
	"strconv"
	"time"

	"coinscope/internal/domain"
	"coinscope/internal/resolver"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
	tele "gopkg.in/telebot.v3"
	"gopkg.in/telebot.v3/middleware"
)

// CoinQuerier is the query surface the bot needs.
type CoinQuerier interface {
	Resolve(ctx context.Context, query string, limit int) (string, []domain.Candidate, error)
	ResolveExact(ctx context.Context, query string) (string, error)
	FuzzySearch(ctx context.Context, query string, limit int) ([]domain.Candidate, error)
	GetMarketData(ctx context.Context, id string) (*domain.MarketDocument, error)
	GetChart(ctx context.Context, id, currency string, days int) (*domain.SeriesBuffer, error)
}

// Registrar is satisfied by *tele.Bot.
type Registrar interface {
	Handle(endpoint interface{}, h tele.HandlerFunc, m ...tele.MiddlewareFunc)
}

type Bot struct {
	tracer  trace.Tracer
	logger  *zap.Logger
	coins   CoinQuerier
	timeout time.Duration
}

func New(tracer trace.Tracer, logger *zap.Logger, coins CoinQuerier, timeout time.Duration) *Bot {
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &Bot{tracer: tracer, logger: logger, coins: coins, timeout: timeout}
}

// Start connects with token and polls until ctx ends. An empty token disables the bot.
func (b *Bot) Start(ctx context.Context, token string) error {
	if token == "" {
		b.logger.Info("telegram-bot-disabled", zap.String("reason", "TELEGRAM_BOT_TOKEN not set"))
		return nil
	}
	tb, err := tele.NewBot(tele.Settings{
		Token:  token,
		Poller: &tele.LongPoller{Timeout: 10 * time.Second},
		OnError: func(err error, c tele.Context) {
			b.logger.Error("telegram-handler-failed", zap.Error(err))
		},
	})
	if err != nil {
		return err
	}
	tb.Use(middleware.Recover())
	b.Register(tb)

	go func() {
		<-ctx.Done()
		tb.Stop()
	}()
	b.logger.Info("telegram-bot-started", zap.String("username", tb.Me.Username))
	go tb.Start()
	return nil
}

// Register binds every command and button handler.
func (b *Bot) Register(r Registrar) {
	r.Handle("/start", b.handleHelp)
	r.Handle("/help", b.handleHelp)
	r.Handle("/ping", func(c tele.Context) error {
		return c.Send("pong")
	})
	r.Handle("/price", b.handlePrice)
	r.Handle("/market", b.handleMarket)
	r.Handle("/search", b.handleSearch)

	r.Handle(&btnCurrency, b.handleCurrency)
	r.Handle(&btnPage, b.handlePage)
	r.Handle(&btnRange, b.handleRange)
}

func (b *Bot) requestContext(name string) (context.Context, context.CancelFunc, trace.Span) {
	ctx, cancel := context.WithTimeout(context.Background(), b.timeout)
	ctx, span := b.tracer.Start(ctx, "bot."+name)
	return ctx, cancel, span
}

func (b *Bot) handleHelp(c tele.Context) error {
	return c.Send(helpText)
}

func (b *Bot) handlePrice(c tele.Context) error {
	if len(c.Args()) == 0 {
		return c.Send("Usage: /price <crypto> [currency]\nExample: /price btc eur")
	}
	ctx, cancel, span := b.requestContext("price")
	defer cancel()
	defer span.End()

	query, currency := parseArgs(c.Args())
	span.SetAttributes(attribute.String("query", query), attribute.String("currency", currency))

	text, markup, err := b.priceReply(ctx, query, currency)
	if err != nil {
		b.logFailure("price", query, err)
		return c.Send(userMessage(err))
	}
	return c.Send(text, markup)
}

// priceReply answers with the price when the query resolves exactly and with suggestions otherwise.
func (b *Bot) priceReply(ctx context.Context, query, currency string) (string, *tele.ReplyMarkup, error) {
	id, candidates, err := b.coins.Resolve(ctx, query, resolver.DefaultMaxResults)
	if err != nil {
		return "", nil, err
	}
	if id == "" {
		text, page, pages := formatSuggestions("price", candidates, 0)
		return text, pageMarkup("price", query, page, pages), nil
	}

	doc, err := b.coins.GetMarketData(ctx, id)
	if err != nil {
		return "", nil, err
	}
	text, err := formatPrice(doc, currency)
	if err != nil {
		return "", nil, err
	}
	return text, currencyMarkup(id, currency), nil
}

func (b *Bot) handleMarket(c tele.Context) error {
	if len(c.Args()) == 0 {
		return c.Send("Usage: /market <crypto> [currency]\nExample: /market ethereum")
	}
	ctx, cancel, span := b.requestContext("market")
	defer cancel()
	defer span.End()

	query, currency := parseArgs(c.Args())
	id, err := b.coins.ResolveExact(ctx, query)
	if err != nil {
		b.logFailure("market", query, err)
		return c.Send(userMessage(err))
	}
	text, err := b.marketReply(ctx, id, currency, domain.DefaultChartDays)
	if err != nil {
		b.logFailure("market", query, err)
		return c.Send(userMessage(err))
	}
	return c.Send(text, rangeMarkup(id, currency, domain.DefaultChartDays))
}

// marketReply needs the document; a missing chart only drops the summary.
func (b *Bot) marketReply(ctx context.Context, id, currency string, days int) (string, error) {
	doc, err := b.coins.GetMarketData(ctx, id)
	if err != nil {
		return "", err
	}
	series, err := b.coins.GetChart(ctx, id, currency, days)
	if err != nil {
		b.logger.Warn("market-chart-unavailable",
			zap.String("coin", id),
			zap.String("currency", currency),
			zap.Int("days", days),
			zap.Error(err))
		series = nil
	}
	return formatMarket(doc, currency, series), nil
}

func (b *Bot) handleSearch(c tele.Context) error {
	if len(c.Args()) == 0 {
		return c.Send("Usage: /search <query>")
	}
	ctx, cancel, span := b.requestContext("search")
	defer cancel()
	defer span.End()

	query, _ := parseArgs(c.Args())
	text, markup, err := b.searchReply(ctx, "price", query, 0)
	if err != nil {
		b.logFailure("search", query, err)
		return c.Send(userMessage(err))
	}
	return c.Send(text, markup)
}

func (b *Bot) searchReply(ctx context.Context, command, query string, page int) (string, *tele.ReplyMarkup, error) {
	candidates, err := b.coins.FuzzySearch(ctx, query, resolver.DefaultMaxResults)
	if err != nil {
		return "", nil, err
	}
	if len(candidates) == 0 {
		return "", nil, domain.ErrNotFound
	}
	text, page, pages := formatSuggestions(command, candidates, page)
	return text, pageMarkup(command, query, page, pages), nil
}

func (b *Bot) handleCurrency(c tele.Context) error {
	parts, ok := splitData(c.Data(), 2)
	if !ok || !isSupportedCurrency(parts[1]) {
		return c.Respond(&tele.CallbackResponse{Text: userMessage(errInvalidCurrency), ShowAlert: true})
	}
	ctx, cancel, span := b.requestContext("currency")
	defer cancel()
	defer span.End()

	id, currency := parts[0], parts[1]
	doc, err := b.coins.GetMarketData(ctx, id)
	if err == nil {
		var text string
		if text, err = formatPrice(doc, currency); err == nil {
			_ = c.Respond()
			return c.Edit(text, currencyMarkup(id, currency))
		}
	}
	b.logFailure("currency", id, err)
	return c.Respond(&tele.CallbackResponse{Text: userMessage(err), ShowAlert: true})
}

func (b *Bot) handlePage(c tele.Context) error {
	parts, ok := splitData(c.Data(), 3)
	if !ok {
		return c.Respond()
	}
	page, err := strconv.Atoi(parts[1])
	if err != nil {
		return c.Respond()
	}
	ctx, cancel, span := b.requestContext("page")
	defer cancel()
	defer span.End()

	text, markup, err := b.searchReply(ctx, parts[0], parts[2], page)
	if err != nil {
		b.logFailure("page", parts[2], err)
		return c.Respond(&tele.CallbackResponse{Text: userMessage(err), ShowAlert: true})
	}
	_ = c.Respond()
	return c.Edit(text, markup)
}

func (b *Bot) handleRange(c tele.Context) error {
	parts, ok := splitData(c.Data(), 3)
	if !ok {
		return c.Respond()
	}
	days, err := strconv.Atoi(parts[2])
	if err != nil || !isChartRange(days) {
		return c.Respond()
	}
	ctx, cancel, span := b.requestContext("range")
	defer cancel()
	defer span.End()

	id, currency := parts[0], parts[1]
	text, err := b.marketReply(ctx, id, currency, days)
	if err != nil {
		b.logFailure("range", id, err)
		return c.Respond(&tele.CallbackResponse{Text: userMessage(err), ShowAlert: true})
	}
	_ = c.Respond()
	return c.Edit(text, rangeMarkup(id, currency, days))
}

func (b *Bot) logFailure(command, query string, err error) {
	b.logger.Info("telegram-request-failed",
		zap.String("command", command),
		zap.String("query", query),
		zap.Error(err))
}
