// Package formulas provides shared numeric helpers for rate series.
package formulas

import (
	"math"

	"github.com/markcheno/go-talib"
	"gonum.org/v1/gonum/stat"
)

// Mean calculates the arithmetic mean of a slice of float64 values
func Mean(data []float64) float64 {
	if len(data) == 0 {
		return 0
	}
	return stat.Mean(data, nil)
}

// StdDev calculates the standard deviation of a slice of float64 values
func StdDev(data []float64) float64 {
	if len(data) < 2 {
		return 0
	}
	return stat.StdDev(data, nil)
}

// MinMax returns the smallest and largest values in the series.
func MinMax(data []float64) (min, max float64) {
	if len(data) == 0 {
		return 0, 0
	}
	min, max = data[0], data[0]
	for _, v := range data[1:] {
		if v < min {
			min = v
		}
		if v > max {
			max = v
		}
	}
	return min, max
}

// Sma returns the latest simple moving average over the given period, or
// NaN when the series is shorter than the period. Input is chronological.
func Sma(data []float64, period int) float64 {
	if period <= 0 || len(data) < period {
		return math.NaN()
	}
	out := talib.Sma(data, period)
	return out[len(out)-1]
}

// Ema returns the latest exponential moving average over the given period,
// or NaN when the series is shorter than the period. Input is chronological.
func Ema(data []float64, period int) float64 {
	if period <= 0 || len(data) < period {
		return math.NaN()
	}
	out := talib.Ema(data, period)
	return out[len(out)-1]
}

// Clamp bounds v into [min, max].
func Clamp(v, min, max float64) float64 {
	if v < min {
		return min
	}
	if v > max {
		return max
	}
	return v
}
