package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"coinscope/internal/directory"
	"coinscope/internal/domain"
	"coinscope/internal/resolver"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

// CoinDirectory is the part of the directory the query side needs.
type CoinDirectory interface {
	Snapshot() *directory.Snapshot
	Update(ctx context.Context) error
}

// CoinService is the query surface shared by the bot, the HTTP API and the CLI.
type CoinService struct {
	tracer    trace.Tracer
	directory CoinDirectory
	resolver  *resolver.Resolver
	market    *MarketService
}

func NewCoinService(tracer trace.Tracer, dir CoinDirectory, market *MarketService) *CoinService {
	return &CoinService{
		tracer:    tracer,
		directory: dir,
		resolver:  resolver.New(dir),
		market:    market,
	}
}

// Ready reports whether a coin list is loaded.
func (s *CoinService) Ready() bool {
	return !s.directory.Snapshot().Empty()
}

// CoinCount is the size of the active coin list.
func (s *CoinService) CoinCount() int {
	return s.directory.Snapshot().Len()
}

// ResolveExact maps a query to a canonical id via the id, name and symbol tables.
func (s *CoinService) ResolveExact(ctx context.Context, query string) (string, error) {
	_, span := s.tracer.Start(ctx, "coin-service.resolve-exact")
	defer span.End()

	if strings.TrimSpace(query) == "" {
		return "", fmt.Errorf("%w: empty query", domain.ErrInvalidQuery)
	}
	if !s.Ready() {
		return "", domain.ErrDirectoryEmpty
	}
	id, ok := s.resolver.ExactMatch(query)
	if !ok {
		return "", fmt.Errorf("%w: no coin matches %q", domain.ErrNotFound, query)
	}
	span.SetAttributes(attribute.String("coin", id))
	return id, nil
}

// FuzzySearch returns up to limit candidates for query. No hits is not an error.
func (s *CoinService) FuzzySearch(ctx context.Context, query string, limit int) ([]domain.Candidate, error) {
	_, span := s.tracer.Start(ctx, "coin-service.fuzzy-search")
	defer span.End()

	if strings.TrimSpace(query) == "" {
		return nil, fmt.Errorf("%w: empty query", domain.ErrInvalidQuery)
	}
	if !s.Ready() {
		return nil, domain.ErrDirectoryEmpty
	}
	if limit <= 0 {
		limit = resolver.DefaultMaxResults
	}
	candidates := s.resolver.FuzzySearch(query, limit, resolver.DefaultMinScore)
	span.SetAttributes(attribute.Int("candidates", len(candidates)))
	return candidates, nil
}

// Resolve tries an exact match first and falls back to fuzzy suggestions. Exactly one
// of id and candidates is set when err is nil.
func (s *CoinService) Resolve(ctx context.Context, query string, limit int) (string, []domain.Candidate, error) {
	id, err := s.ResolveExact(ctx, query)
	if err == nil {
		return id, nil, nil
	}
	if !errors.Is(err, domain.ErrNotFound) {
		return "", nil, err
	}
	candidates, err := s.FuzzySearch(ctx, query, limit)
	if err != nil {
		return "", nil, err
	}
	if len(candidates) == 0 {
		return "", nil, fmt.Errorf("%w: no coin resembles %q", domain.ErrNotFound, query)
	}
	return "", candidates, nil
}

func (s *CoinService) GetMarketData(ctx context.Context, id string) (*domain.MarketDocument, error) {
	return s.market.GetCryptoData(ctx, id)
}

func (s *CoinService) GetChart(ctx context.Context, id, currency string, days int) (*domain.SeriesBuffer, error) {
	return s.market.GetChart(ctx, id, currency, days)
}

// RefreshDirectory fetches the coin list now and swaps it in on success.
func (s *CoinService) RefreshDirectory(ctx context.Context) error {
	return s.directory.Update(ctx)
}
