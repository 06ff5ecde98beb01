package bot

import (
	"errors"
	"fmt"
	"strings"
	"testing"
	"time"

	"coinscope/internal/domain"
)

func testDoc() *domain.MarketDocument {
	return &domain.MarketDocument{
		ID:            "bitcoin",
		Symbol:        "btc",
		Name:          "Bitcoin",
		MarketCapRank: 1,
		MarketData: domain.MarketData{
			CurrentPrice:             map[string]float64{"usd": 64321.5, "eur": 59000, "btc": 1, "eth": 19.25},
			MarketCap:                map[string]float64{"usd": 1264000000000},
			TotalVolume:              map[string]float64{"usd": 35000000000},
			ATH:                      map[string]float64{"usd": 73738},
			ATL:                      map[string]float64{"usd": 67.81},
			CirculatingSupply:        19650000,
			PriceChangePercentage24h: -1.234,
		},
	}
}

func TestParseArgs(t *testing.T) {
	tests := []struct {
		args     []string
		query    string
		currency string
	}{
		{[]string{"btc"}, "btc", "usd"},
		{[]string{"btc", "EUR"}, "btc", "eur"},
		{[]string{"bitcoin", "cash", "eth"}, "bitcoin cash", "eth"},
		{[]string{"bitcoin", "cash"}, "bitcoin cash", "usd"},
		{[]string{"eur"}, "eur", "usd"},
	}
	for _, tt := range tests {
		t.Run(strings.Join(tt.args, "_"), func(t *testing.T) {
			q, c := parseArgs(tt.args)
			if q != tt.query || c != tt.currency {
				t.Fatalf("parseArgs(%v) = %q, %q; want %q, %q", tt.args, q, c, tt.query, tt.currency)
			}
		})
	}
}

func TestFormatPrice(t *testing.T) {
	text, err := formatPrice(testDoc(), "usd")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	for _, want := range []string{"Bitcoin (BTC) Price", "$64,321.50", "🔴 -1.23%"} {
		if !strings.Contains(text, want) {
			t.Fatalf("expected %q in %q", want, text)
		}
	}

	text, err = formatPrice(testDoc(), "eth")
	if err != nil || !strings.Contains(text, "19.25 ETH") {
		t.Fatalf("unexpected eth reply: %q %v", text, err)
	}
}

func TestFormatPriceUnknownCurrency(t *testing.T) {
	_, err := formatPrice(testDoc(), "jpy")
	if !errors.Is(err, errInvalidCurrency) {
		t.Fatalf("expected errInvalidCurrency, got %v", err)
	}
	if userMessage(err) != "❌ Invalid currency" {
		t.Fatalf("unexpected message: %s", userMessage(err))
	}
}

func TestFormatAmountSmallValues(t *testing.T) {
	if got := formatAmount(0.00001234); got != "0.00001234" {
		t.Fatalf("unexpected small amount: %s", got)
	}
	if got := formatAmount(1234567.891); got != "1,234,567.89" {
		t.Fatalf("unexpected large amount: %s", got)
	}
}

func TestFormatMarket(t *testing.T) {
	now := time.Now()
	series := &domain.SeriesBuffer{
		CoinID:   "bitcoin",
		Currency: "usd",
		Days:     7,
		Points: []domain.ChartPoint{
			{Time: now.Add(-2 * time.Hour), Price: 100},
			{Time: now.Add(-time.Hour), Price: 120},
			{Time: now, Price: 110},
		},
	}

	text := formatMarket(testDoc(), "usd", series)
	for _, want := range []string{
		"Bitcoin (BTC) Market Data",
		"Rank: #1",
		"Market Cap: $1,264,000,000,000.00",
		"Circulating Supply: 19,650,000.00",
		"All-Time Low: $67.81",
		"7-Day Chart (USD)",
		"High: $120.00",
		"Change: +10.00%",
		"Volatility: ",
	} {
		if !strings.Contains(text, want) {
			t.Fatalf("expected %q in:\n%s", want, text)
		}
	}
}

func TestFormatMarketWithoutChartOrCurrency(t *testing.T) {
	text := formatMarket(testDoc(), "eur", nil)
	if !strings.Contains(text, "Market Cap: n/a") {
		t.Fatalf("expected missing figures to read n/a:\n%s", text)
	}
	if !strings.Contains(text, "Chart unavailable") {
		t.Fatalf("expected chart notice:\n%s", text)
	}
}

func TestPaginate(t *testing.T) {
	tests := []struct {
		total, page                int
		start, end, clamped, pages int
	}{
		{0, 0, 0, 0, 0, 0},
		{3, 0, 0, 3, 0, 1},
		{12, 1, 5, 10, 1, 3},
		{12, 2, 10, 12, 2, 3},
		{12, 9, 10, 12, 2, 3},
		{12, -4, 0, 5, 0, 3},
	}
	for _, tt := range tests {
		start, end, clamped, pages := paginate(tt.total, tt.page, suggestionsPerPage)
		if start != tt.start || end != tt.end || clamped != tt.clamped || pages != tt.pages {
			t.Fatalf("paginate(%d, %d) = %d %d %d %d", tt.total, tt.page, start, end, clamped, pages)
		}
	}
}

func TestFormatSuggestions(t *testing.T) {
	var candidates []domain.Candidate
	for i := 0; i < 7; i++ {
		candidates = append(candidates, domain.Candidate{Name: fmt.Sprintf("Coin %d (C%d)", i, i), ID: fmt.Sprintf("coin-%d", i), Score: 90 - i})
	}

	text, page, pages := formatSuggestions("price", candidates, 1)
	if page != 1 || pages != 2 {
		t.Fatalf("unexpected page %d/%d", page, pages)
	}
	if !strings.Contains(text, "/price coin-5") || strings.Contains(text, "coin-4") {
		t.Fatalf("unexpected second page:\n%s", text)
	}
	if !strings.Contains(text, "Page 2/2") {
		t.Fatalf("expected page footer:\n%s", text)
	}
}

func TestUserMessage(t *testing.T) {
	tests := map[error]string{
		domain.ErrDirectoryEmpty:                              "not loaded yet",
		fmt.Errorf("wrap: %w", domain.ErrNotFound):            "not found",
		domain.ErrUpstreamUnavailable:                         "Failed to fetch",
		fmt.Errorf("%w: empty query", domain.ErrInvalidQuery): "/price",
	}
	for err, want := range tests {
		if got := userMessage(err); !strings.Contains(got, want) {
			t.Fatalf("userMessage(%v) = %q, want it to contain %q", err, got, want)
		}
	}
}
