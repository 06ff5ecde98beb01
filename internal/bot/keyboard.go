package bot

import (
	"strconv"
	"strings"
	"unicode/utf8"

	"coinscope/internal/domain"

	tele "gopkg.in/telebot.v3"
)

const (
	uniqueCurrency = "cur"
	uniquePage     = "page"
	uniqueRange    = "range"

	// Telegram caps callback data at 64 bytes including the unique prefix.
	maxQueryBytes = 40
)

var (
	btnCurrency = tele.Btn{Unique: uniqueCurrency}
	btnPage     = tele.Btn{Unique: uniquePage}
	btnRange    = tele.Btn{Unique: uniqueRange}
)

func currencyMarkup(id, active string) *tele.ReplyMarkup {
	m := &tele.ReplyMarkup{}
	btns := make([]tele.Btn, 0, len(domain.SupportedCurrencies))
	for _, c := range domain.SupportedCurrencies {
		label := strings.ToUpper(c)
		if c == active {
			label = "• " + label
		}
		btns = append(btns, m.Data(label, uniqueCurrency, id, c))
	}
	m.Inline(m.Row(btns...))
	return m
}

func rangeMarkup(id, currency string, active int) *tele.ReplyMarkup {
	m := &tele.ReplyMarkup{}
	btns := make([]tele.Btn, 0, len(domain.ChartRanges))
	for _, d := range domain.ChartRanges {
		label := strconv.Itoa(d) + "D"
		if d == active {
			label = "• " + label
		}
		btns = append(btns, m.Data(label, uniqueRange, id, currency, strconv.Itoa(d)))
	}
	m.Inline(m.Row(btns...))
	return m
}

// pageMarkup returns nil when everything fits on one page.
func pageMarkup(command, query string, page, pages int) *tele.ReplyMarkup {
	if pages <= 1 {
		return nil
	}
	m := &tele.ReplyMarkup{}
	query = truncateBytes(query, maxQueryBytes)
	var btns []tele.Btn
	if page > 0 {
		btns = append(btns, m.Data("◀", uniquePage, command, strconv.Itoa(page-1), query))
	}
	if page < pages-1 {
		btns = append(btns, m.Data("▶", uniquePage, command, strconv.Itoa(page+1), query))
	}
	m.Inline(m.Row(btns...))
	return m
}

func truncateBytes(s string, n int) string {
	if len(s) <= n {
		return s
	}
	s = s[:n]
	for !utf8.ValidString(s) {
		s = s[:len(s)-1]
	}
	return s
}

// splitData splits callback data into exactly n fields; the last one keeps any separators.
func splitData(data string, n int) ([]string, bool) {
	parts := strings.SplitN(data, "|", n)
	return parts, len(parts) == n
}
