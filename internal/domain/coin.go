package domain

import (
	"fmt"
	"strings"
)

// Coin is one entry of the upstream coin list. ID is the canonical CoinGecko identifier.
type Coin struct {
	ID     string `json:"id"`
	Symbol string `json:"symbol"`
	Name   string `json:"name"`
}

// Label is the "Name (SYMBOL)" form used for fuzzy matching and suggestions.
func (c Coin) Label() string {
	return fmt.Sprintf("%s (%s)", c.Name, strings.ToUpper(c.Symbol))
}

// Candidate is a fuzzy search hit.
type Candidate struct {
	Name  string `json:"name"`
	ID    string `json:"id"`
	Score int    `json:"score"`
}

// SupportedCurrencies are the quote currencies offered as conversion buttons.
var SupportedCurrencies = []string{"usd", "eur", "btc", "eth"}

// ChartRanges are the day ranges offered for market charts.
var ChartRanges = []int{1, 7, 30, 90}

// DefaultCurrency is used when the caller does not name one.
const DefaultCurrency = "usd"

// DefaultChartDays is the range shown with a fresh market reply.
const DefaultChartDays = 7
