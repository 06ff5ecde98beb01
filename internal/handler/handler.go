package handler

import (
	"context"
	"errors"
	"net/http"

	"coinscope/internal/domain"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.opentelemetry.io/otel/trace"
)

// CoinAPI is the query surface exposed over HTTP.
type CoinAPI interface {
	Ready() bool
	CoinCount() int
	ResolveExact(ctx context.Context, query string) (string, error)
	FuzzySearch(ctx context.Context, query string, limit int) ([]domain.Candidate, error)
	GetMarketData(ctx context.Context, id string) (*domain.MarketDocument, error)
	GetChart(ctx context.Context, id, currency string, days int) (*domain.SeriesBuffer, error)
}

type Handler struct {
	tracer trace.Tracer
	coins  CoinAPI
	apiKey string
}

func New(tracer trace.Tracer, coins CoinAPI, apiKey string) *Handler {
	return &Handler{
		tracer: tracer,
		coins:  coins,
		apiKey: apiKey,
	}
}

func (h *Handler) RegisterRoutes(r *gin.Engine) {
	r.Use(RequestMetrics())

	r.GET("/health", h.Health)
	r.GET("/ready", h.Ready)
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	api := r.Group("/api", APIKeyAuth(h.apiKey))
	api.GET("/coins/resolve", h.ResolveCoin)
	api.GET("/coins/search", h.SearchCoins)
	api.GET("/coins/:id", h.GetCoin)
	api.GET("/coins/:id/chart", h.GetChart)
}

// ErrorResponse is the body of every non-2xx API reply.
type ErrorResponse struct {
	Error string `json:"error"`
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, domain.ErrInvalidQuery):
		return http.StatusBadRequest
	case errors.Is(err, domain.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, domain.ErrDirectoryEmpty):
		return http.StatusServiceUnavailable
	case errors.Is(err, domain.ErrUpstreamUnavailable):
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

func writeError(c *gin.Context, err error) {
	c.JSON(statusFor(err), ErrorResponse{Error: err.Error()})
}
