// Package ta computes price indicators over a cached chart series.
package ta

import (
	"math"

	"coinscope/internal/domain"
)

const (
	RSIPeriod       = 14
	EMAPeriod       = 20
	BollingerPeriod = 20
	BollingerStdDev = 2.0
)

// Indicators are the latest values of the indicators for one series. A field that
// needs more points than the series has is nil.
type Indicators struct {
	Mean       float64  `json:"mean"`
	StdDev     float64  `json:"std_dev"`
	Volatility float64  `json:"volatility_pct"`
	RSI        *float64 `json:"rsi,omitempty"`
	EMA        *float64 `json:"ema,omitempty"`
	UpperBand  *float64 `json:"upper_band,omitempty"`
	LowerBand  *float64 `json:"lower_band,omitempty"`
}

// Analyze returns false when the series has fewer than two points.
func Analyze(series *domain.SeriesBuffer) (Indicators, bool) {
	if series == nil || len(series.Points) < 2 {
		return Indicators{}, false
	}
	prices := make([]float64, len(series.Points))
	for i, p := range series.Points {
		prices[i] = p.Price
	}

	var ind Indicators
	ind.Mean, ind.StdDev = MeanStd(prices)
	_, ind.Volatility = MeanStd(returns(prices))
	ind.Volatility *= 100

	if rsi := RSISeries(prices, RSIPeriod); len(rsi) > 0 {
		ind.RSI = last(rsi)
	}
	if len(prices) >= EMAPeriod {
		ind.EMA = last(EMASeries(prices, EMAPeriod))
	}
	_, upper, lower := BollingerSeries(prices, BollingerPeriod, BollingerStdDev)
	ind.UpperBand, ind.LowerBand = last(upper), last(lower)
	return ind, true
}

// returns are simple period-over-period changes; a zero price yields no return.
func returns(prices []float64) []float64 {
	out := make([]float64, 0, len(prices)-1)
	for i := 1; i < len(prices); i++ {
		if prices[i-1] == 0 {
			continue
		}
		out = append(out, prices[i]/prices[i-1]-1)
	}
	return out
}

func last(values []float64) *float64 {
	if len(values) == 0 {
		return nil
	}
	v := values[len(values)-1]
	if math.IsNaN(v) {
		return nil
	}
	return &v
}

// MeanStd is the population mean and standard deviation.
func MeanStd(values []float64) (float64, float64) {
	if len(values) == 0 {
		return 0, 0
	}
	var sum float64
	for _, v := range values {
		sum += v
	}
	mean := sum / float64(len(values))
	var variance float64
	for _, v := range values {
		d := v - mean
		variance += d * d
	}
	variance /= float64(len(values))
	return mean, math.Sqrt(variance)
}

// EMASeries seeds with the first value.
func EMASeries(values []float64, period int) []float64 {
	if len(values) == 0 {
		return nil
	}
	out := make([]float64, len(values))
	if period <= 1 {
		copy(out, values)
		return out
	}
	alpha := 2.0 / float64(period+1)
	out[0] = values[0]
	for i := 1; i < len(values); i++ {
		out[i] = alpha*values[i] + (1-alpha)*out[i-1]
	}
	return out
}

// RSISeries uses Wilder smoothing. Entries before period are NaN; nil when the
// series is too short.
func RSISeries(prices []float64, period int) []float64 {
	if period <= 0 || len(prices) <= period {
		return nil
	}
	series := make([]float64, len(prices))
	for i := range series {
		series[i] = math.NaN()
	}

	var gainSum, lossSum float64
	for i := 1; i <= period; i++ {
		delta := prices[i] - prices[i-1]
		if delta > 0 {
			gainSum += delta
		} else {
			lossSum -= delta
		}
	}
	avgGain := gainSum / float64(period)
	avgLoss := lossSum / float64(period)
	series[period] = rsiFromAvg(avgGain, avgLoss)

	for i := period + 1; i < len(prices); i++ {
		delta := prices[i] - prices[i-1]
		avgGain = (avgGain*float64(period-1) + math.Max(delta, 0)) / float64(period)
		avgLoss = (avgLoss*float64(period-1) + math.Max(-delta, 0)) / float64(period)
		series[i] = rsiFromAvg(avgGain, avgLoss)
	}
	return series
}

func rsiFromAvg(avgGain, avgLoss float64) float64 {
	if avgLoss == 0 {
		return 100
	}
	return 100 - 100/(1+avgGain/avgLoss)
}

// BollingerSeries returns middle, upper and lower bands. Entries without a full
// window are NaN.
func BollingerSeries(values []float64, period int, stdDevs float64) ([]float64, []float64, []float64) {
	if len(values) == 0 {
		return nil, nil, nil
	}
	middle := make([]float64, len(values))
	upper := make([]float64, len(values))
	lower := make([]float64, len(values))
	for i := range values {
		middle[i], upper[i], lower[i] = math.NaN(), math.NaN(), math.NaN()
	}
	if period <= 0 {
		return middle, upper, lower
	}
	for i := period - 1; i < len(values); i++ {
		mean, std := MeanStd(values[i-period+1 : i+1])
		middle[i] = mean
		upper[i] = mean + stdDevs*std
		lower[i] = mean - stdDevs*std
	}
	return middle, upper, lower
}
