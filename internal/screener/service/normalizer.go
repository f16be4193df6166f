package service

import (
	"fmt"
	"math"
	"sort"
	"time"

	"golang-canslim-screener/internal/entity"
	"golang-canslim-screener/internal/screener/dto"
	"golang-canslim-screener/pkg/common"
)

// MinRequiredBars is the minimum cleaned bar count a series needs before
// indicators can be computed, driven by the 200-bar EMA lookback.
const MinRequiredBars = 200

// NormalizeSeries adapts a raw provider payload into a canonical
// PriceSeries: ascending dates, no duplicates, no rows with missing or
// non-finite OHLC values. Missing volume or adjusted close is tolerated;
// indicators that depend on them degrade instead of failing the series.
//
// It is a pure transform. The returned series is owned by the caller's
// pipeline and must not be mutated after this point.
func NormalizeSeries(raw *dto.RawSeries, minBars int) (*entity.PriceSeries, error) {
	if raw == nil || len(raw.Bars) == 0 {
		return nil, fmt.Errorf("%w: empty raw series", common.ErrDataUnavailable)
	}
	if minBars <= 0 {
		minBars = MinRequiredBars
	}

	bars := make([]entity.PriceBar, 0, len(raw.Bars))
	for _, rb := range raw.Bars {
		if rb.Open == nil || rb.High == nil || rb.Low == nil || rb.Close == nil {
			continue
		}
		if !isFinite(*rb.Open) || !isFinite(*rb.High) || !isFinite(*rb.Low) || !isFinite(*rb.Close) {
			continue
		}
		bar := entity.PriceBar{
			Date:  time.Unix(rb.Timestamp, 0).UTC().Truncate(24 * time.Hour),
			Open:  *rb.Open,
			High:  *rb.High,
			Low:   *rb.Low,
			Close: *rb.Close,
		}
		if rb.AdjClose != nil && isFinite(*rb.AdjClose) {
			adj := *rb.AdjClose
			bar.AdjClose = &adj
		}
		if rb.Volume != nil && *rb.Volume >= 0 {
			vol := *rb.Volume
			bar.Volume = &vol
		}
		bars = append(bars, bar)
	}

	sort.SliceStable(bars, func(i, j int) bool {
		return bars[i].Date.Before(bars[j].Date)
	})

	// Keep the last bar for a duplicated date; providers occasionally emit a
	// stale row followed by the corrected one.
	deduped := bars[:0]
	for _, bar := range bars {
		if n := len(deduped); n > 0 && deduped[n-1].Date.Equal(bar.Date) {
			deduped[n-1] = bar
			continue
		}
		deduped = append(deduped, bar)
	}

	if len(deduped) < minBars {
		return nil, fmt.Errorf("%w: %s has %d usable bars, need %d",
			common.ErrInsufficientHistory, raw.Symbol, len(deduped), minBars)
	}

	return &entity.PriceSeries{Symbol: raw.Symbol, Bars: deduped}, nil
}

func isFinite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
