package handler

import (
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"coinscope/internal/domain"
	"coinscope/internal/ta"

	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/otel/attribute"
)

const maxSearchLimit = 100

// ResolveResponse is the canonical id an exact query maps to.
type ResolveResponse struct {
	Query string `json:"query"`
	ID    string `json:"id"`
}

type SearchResponse struct {
	Query      string             `json:"query"`
	Candidates []domain.Candidate `json:"candidates"`
}

// ChartResponse is a cached series plus its summary and indicators.
type ChartResponse struct {
	*domain.SeriesBuffer
	Summary    *domain.SeriesSummary `json:"summary,omitempty"`
	Indicators *ta.Indicators        `json:"indicators,omitempty"`
}

// ResolveCoin godoc
// @Summary      Resolve a coin exactly
// @Description  Maps a coin id, name or symbol (case-insensitive) to its canonical id
// @Tags         coins
// @Produce      json
// @Param        q    query     string  true  "Coin id, name or symbol"
// @Success      200  {object}  ResolveResponse
// @Failure      400  {object}  ErrorResponse
// @Failure      404  {object}  ErrorResponse
// @Failure      503  {object}  ErrorResponse
// @Router       /api/coins/resolve [get]
func (h *Handler) ResolveCoin(c *gin.Context) {
	ctx, span := h.tracer.Start(c.Request.Context(), "handler.resolve-coin")
	defer span.End()

	query := c.Query("q")
	span.SetAttributes(attribute.String("query", query))

	id, err := h.coins.ResolveExact(ctx, query)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, ResolveResponse{Query: query, ID: id})
}

// SearchCoins godoc
// @Summary      Fuzzy coin search
// @Description  Returns coins whose "Name (SYMBOL)" label resembles the query, best first
// @Tags         coins
// @Produce      json
// @Param        q      query     string  true   "Search text"
// @Param        limit  query     int     false  "Maximum results (1-100)"  default(25)
// @Success      200    {object}  SearchResponse
// @Failure      400    {object}  ErrorResponse
// @Failure      503    {object}  ErrorResponse
// @Router       /api/coins/search [get]
func (h *Handler) SearchCoins(c *gin.Context) {
	ctx, span := h.tracer.Start(c.Request.Context(), "handler.search-coins")
	defer span.End()

	query := c.Query("q")
	limit := 0
	if l := c.Query("limit"); l != "" {
		n, err := strconv.Atoi(l)
		if err != nil || n <= 0 || n > maxSearchLimit {
			writeError(c, fmt.Errorf("%w: limit must be between 1 and %d", domain.ErrInvalidQuery, maxSearchLimit))
			return
		}
		limit = n
	}
	span.SetAttributes(attribute.String("query", query), attribute.Int("limit", limit))

	candidates, err := h.coins.FuzzySearch(ctx, query, limit)
	if err != nil {
		writeError(c, err)
		return
	}
	if candidates == nil {
		candidates = []domain.Candidate{}
	}
	c.JSON(http.StatusOK, SearchResponse{Query: query, Candidates: candidates})
}

// GetCoin godoc
// @Summary      Market data for a coin
// @Description  Returns the cached CoinGecko market document for a canonical coin id
// @Tags         coins
// @Produce      json
// @Param        id   path      string  true  "Canonical coin id (e.g. bitcoin)"
// @Success      200  {object}  domain.MarketDocument
// @Failure      404  {object}  ErrorResponse
// @Failure      502  {object}  ErrorResponse
// @Router       /api/coins/{id} [get]
func (h *Handler) GetCoin(c *gin.Context) {
	ctx, span := h.tracer.Start(c.Request.Context(), "handler.get-coin")
	defer span.End()

	id := c.Param("id")
	span.SetAttributes(attribute.String("coin", id))

	doc, err := h.coins.GetMarketData(ctx, id)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, doc)
}

// GetChart godoc
// @Summary      Price chart for a coin
// @Description  Returns the cached price series for a coin, currency and day range
// @Tags         coins
// @Produce      json
// @Param        id        path      string  true   "Canonical coin id"
// @Param        currency  query     string  false  "Quote currency"  default(usd)
// @Param        days      query     int     false  "Day range"       default(7)
// @Success      200       {object}  ChartResponse
// @Failure      400       {object}  ErrorResponse
// @Failure      404       {object}  ErrorResponse
// @Failure      502       {object}  ErrorResponse
// @Router       /api/coins/{id}/chart [get]
func (h *Handler) GetChart(c *gin.Context) {
	ctx, span := h.tracer.Start(c.Request.Context(), "handler.get-chart")
	defer span.End()

	id := c.Param("id")
	currency := strings.ToLower(c.DefaultQuery("currency", domain.DefaultCurrency))
	days, err := strconv.Atoi(c.DefaultQuery("days", strconv.Itoa(domain.DefaultChartDays)))
	if err != nil {
		writeError(c, fmt.Errorf("%w: days must be an integer", domain.ErrInvalidQuery))
		return
	}
	span.SetAttributes(
		attribute.String("coin", id),
		attribute.String("currency", currency),
		attribute.Int("days", days),
	)

	series, err := h.coins.GetChart(ctx, id, currency, days)
	if err != nil {
		writeError(c, err)
		return
	}
	resp := ChartResponse{SeriesBuffer: series}
	if summary, ok := series.Summary(); ok {
		resp.Summary = &summary
	}
	if ind, ok := ta.Analyze(series); ok {
		resp.Indicators = &ind
	}
	c.JSON(http.StatusOK, resp)
}
