package domain

import (
	"math"
	"time"
)

// ChartPoint is one (timestamp, price) sample of a market chart.
type ChartPoint struct {
	Time  time.Time `json:"time"`
	Price float64   `json:"price"`
}

// SeriesBuffer is the cached chart artifact for one (coin, currency, days) key.
type SeriesBuffer struct {
	CoinID    string       `json:"coin_id"`
	Currency  string       `json:"currency"`
	Days      int          `json:"days"`
	Points    []ChartPoint `json:"points"`
	FetchedAt time.Time    `json:"fetched_at"`
}

// SeriesSummary condenses a series into a single OHLC bar.
type SeriesSummary struct {
	From      time.Time `json:"from"`
	To        time.Time `json:"to"`
	Open      float64   `json:"open"`
	High      float64   `json:"high"`
	Low       float64   `json:"low"`
	Close     float64   `json:"close"`
	ChangePct float64   `json:"change_pct"`
}

// Summary returns false for an empty series. Points are assumed sorted by time.
func (s *SeriesBuffer) Summary() (SeriesSummary, bool) {
	if s == nil || len(s.Points) == 0 {
		return SeriesSummary{}, false
	}
	first, last := s.Points[0], s.Points[len(s.Points)-1]
	sum := SeriesSummary{
		From:  first.Time,
		To:    last.Time,
		Open:  first.Price,
		High:  first.Price,
		Low:   first.Price,
		Close: last.Price,
	}
	for _, p := range s.Points[1:] {
		sum.High = math.Max(sum.High, p.Price)
		sum.Low = math.Min(sum.Low, p.Price)
	}
	if sum.Open != 0 {
		sum.ChangePct = (sum.Close - sum.Open) / sum.Open * 100
	}
	return sum, true
}
