package service

import (
	"time"

	"golang-canslim-screener/internal/entity"
)

var testEpoch = time.Date(2025, 1, 2, 0, 0, 0, 0, time.UTC)

// seriesFromCloses builds a daily series where highs and lows bracket each
// close by one point.
func seriesFromCloses(symbol string, closes []float64) *entity.PriceSeries {
	bars := make([]entity.PriceBar, len(closes))
	for i, c := range closes {
		bars[i] = entity.PriceBar{
			Date:  testEpoch.AddDate(0, 0, i),
			Open:  c,
			High:  c + 1,
			Low:   c - 1,
			Close: c,
		}
	}
	return &entity.PriceSeries{Symbol: symbol, Bars: bars}
}

// linearCloses returns n closes starting at start, stepping by step.
func linearCloses(n int, start, step float64) []float64 {
	closes := make([]float64, n)
	for i := range closes {
		closes[i] = start + float64(i)*step
	}
	return closes
}

// flatCloses returns n identical closes.
func flatCloses(n int, value float64) []float64 {
	closes := make([]float64, n)
	for i := range closes {
		closes[i] = value
	}
	return closes
}
