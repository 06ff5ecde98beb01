package domain

import (
	"strings"
	"time"
)

// MarketDocument is the subset of CoinGecko's /coins/{id} document the bot reads.
type MarketDocument struct {
	ID            string     `json:"id"`
	Symbol        string     `json:"symbol"`
	Name          string     `json:"name"`
	MarketCapRank int        `json:"market_cap_rank"`
	Image         CoinImage  `json:"image"`
	MarketData    MarketData `json:"market_data"`
	FetchedAt     time.Time  `json:"fetched_at"`
}

type CoinImage struct {
	Thumb string `json:"thumb"`
	Small string `json:"small"`
	Large string `json:"large"`
}

// MarketData holds per-currency figures keyed by lowercase currency code.
type MarketData struct {
	CurrentPrice             map[string]float64 `json:"current_price"`
	MarketCap                map[string]float64 `json:"market_cap"`
	TotalVolume              map[string]float64 `json:"total_volume"`
	ATH                      map[string]float64 `json:"ath"`
	ATL                      map[string]float64 `json:"atl"`
	CirculatingSupply        float64            `json:"circulating_supply"`
	PriceChangePercentage24h float64            `json:"price_change_percentage_24h"`
}

// PriceIn returns the current price quoted in currency.
func (d *MarketDocument) PriceIn(currency string) (float64, bool) {
	v, ok := d.MarketData.CurrentPrice[strings.ToLower(currency)]
	return v, ok
}

// Figure reads a per-currency field, reporting whether the currency is quoted.
func Figure(values map[string]float64, currency string) (float64, bool) {
	v, ok := values[strings.ToLower(currency)]
	return v, ok
}
