package bot

import (
	"errors"
	"fmt"
	"math"
	"strings"

	"coinscope/internal/domain"
	"coinscope/internal/ta"

	"github.com/dustin/go-humanize"
)

const suggestionsPerPage = 5

var errInvalidCurrency = errors.New("invalid currency")

// parseArgs splits command arguments into a coin query and an optional trailing currency.
func parseArgs(args []string) (query, currency string) {
	currency = domain.DefaultCurrency
	if len(args) > 1 {
		last := strings.ToLower(args[len(args)-1])
		if isSupportedCurrency(last) {
			currency = last
			args = args[:len(args)-1]
		}
	}
	return strings.TrimSpace(strings.Join(args, " ")), currency
}

func isSupportedCurrency(c string) bool {
	for _, s := range domain.SupportedCurrencies {
		if s == c {
			return true
		}
	}
	return false
}

func isChartRange(days int) bool {
	for _, d := range domain.ChartRanges {
		if d == days {
			return true
		}
	}
	return false
}

func formatAmount(v float64) string {
	if math.Abs(v) >= 1 {
		return humanize.FormatFloat("#,###.##", v)
	}
	return humanize.FormatFloat("#,###.########", v)
}

func formatMoney(v float64, currency string) string {
	switch currency {
	case "usd":
		return "$" + formatAmount(v)
	case "eur":
		return "€" + formatAmount(v)
	default:
		return formatAmount(v) + " " + strings.ToUpper(currency)
	}
}

func title(doc *domain.MarketDocument) string {
	return fmt.Sprintf("%s (%s)", doc.Name, strings.ToUpper(doc.Symbol))
}

// formatPrice renders the price reply. It fails when the document has no quote in currency.
func formatPrice(doc *domain.MarketDocument, currency string) (string, error) {
	price, ok := doc.PriceIn(currency)
	if !ok {
		return "", fmt.Errorf("%w: %s", errInvalidCurrency, currency)
	}
	change := doc.MarketData.PriceChangePercentage24h
	trend := "🟢"
	if change < 0 {
		trend = "🔴"
	}

	var b strings.Builder
	fmt.Fprintf(&b, "%s Price\n\n", title(doc))
	fmt.Fprintf(&b, "Current Price: %s\n", formatMoney(price, currency))
	fmt.Fprintf(&b, "24h Change: %s %.2f%%\n\n", trend, change)
	b.WriteString("Data from CoinGecko")
	return b.String(), nil
}

// formatMarket renders the market overview plus a summary of the series when one is given.
func formatMarket(doc *domain.MarketDocument, currency string, series *domain.SeriesBuffer) string {
	md := doc.MarketData
	figure := func(values map[string]float64) string {
		if v, ok := domain.Figure(values, currency); ok {
			return formatMoney(v, currency)
		}
		return "n/a"
	}

	var b strings.Builder
	fmt.Fprintf(&b, "%s Market Data\n", title(doc))
	if doc.MarketCapRank > 0 {
		fmt.Fprintf(&b, "Rank: #%d\n", doc.MarketCapRank)
	}
	b.WriteString("\n")
	fmt.Fprintf(&b, "Market Cap: %s\n", figure(md.MarketCap))
	fmt.Fprintf(&b, "24h Volume: %s\n", figure(md.TotalVolume))
	fmt.Fprintf(&b, "Circulating Supply: %s\n", humanize.FormatFloat("#,###.##", md.CirculatingSupply))
	fmt.Fprintf(&b, "All-Time High: %s\n", figure(md.ATH))
	fmt.Fprintf(&b, "All-Time Low: %s\n", figure(md.ATL))

	if summary, ok := series.Summary(); ok {
		fmt.Fprintf(&b, "\n%d-Day Chart (%s)\n", series.Days, strings.ToUpper(series.Currency))
		fmt.Fprintf(&b, "Open: %s  Close: %s\n", formatMoney(summary.Open, series.Currency), formatMoney(summary.Close, series.Currency))
		fmt.Fprintf(&b, "High: %s  Low: %s\n", formatMoney(summary.High, series.Currency), formatMoney(summary.Low, series.Currency))
		fmt.Fprintf(&b, "Change: %+.2f%%\n", summary.ChangePct)
		if ind, ok := ta.Analyze(series); ok {
			fmt.Fprintf(&b, "Volatility: %.2f%%\n", ind.Volatility)
			if ind.RSI != nil {
				fmt.Fprintf(&b, "RSI(%d): %.1f\n", ta.RSIPeriod, *ind.RSI)
			}
		}
	} else if series == nil {
		b.WriteString("\nChart unavailable right now.\n")
	}
	return strings.TrimRight(b.String(), "\n")
}

// paginate clamps page into range and returns the slice bounds for it.
func paginate(total, page, perPage int) (start, end, clamped, pages int) {
	pages = (total + perPage - 1) / perPage
	if pages == 0 {
		return 0, 0, 0, 0
	}
	clamped = min(max(page, 0), pages-1)
	start = clamped * perPage
	end = min(start+perPage, total)
	return start, end, clamped, pages
}

// formatSuggestions renders one page of candidates with the command that would fetch each.
func formatSuggestions(command string, candidates []domain.Candidate, page int) (string, int, int) {
	start, end, page, pages := paginate(len(candidates), page, suggestionsPerPage)

	var b strings.Builder
	b.WriteString("Did you mean one of these?\n\n")
	for _, c := range candidates[start:end] {
		fmt.Fprintf(&b, "%s\n  /%s %s\n", c.Name, command, c.ID)
	}
	if pages > 1 {
		fmt.Fprintf(&b, "\nPage %d/%d", page+1, pages)
	}
	return strings.TrimRight(b.String(), "\n"), page, pages
}

// userMessage maps a service error to the text shown in chat.
func userMessage(err error) string {
	switch {
	case errors.Is(err, domain.ErrDirectoryEmpty):
		return "⏳ The coin list is not loaded yet. Please try again in a moment."
	case errors.Is(err, domain.ErrNotFound):
		return "❌ Cryptocurrency not found!"
	case errors.Is(err, errInvalidCurrency):
		return "❌ Invalid currency"
	case errors.Is(err, domain.ErrInvalidQuery):
		return helpText
	default:
		return "❌ Failed to fetch data!"
	}
}

const helpText = `Commands:
/price <crypto> [currency] - current price (usd, eur, btc, eth)
/market <crypto> [currency] - market data with a price chart summary
/search <query> - find coins by name or symbol
/ping - check the bot is alive`
