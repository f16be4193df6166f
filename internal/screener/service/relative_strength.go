package service

import (
	"fmt"

	"golang-canslim-screener/internal/entity"
	"golang-canslim-screener/internal/screener/config"
	"golang-canslim-screener/pkg/common"
)

// RelativeStrengthService scores a stock's quarter-bucketed returns against
// a benchmark's.
type RelativeStrengthService struct {
	cfg *config.RS
}

// NewRelativeStrengthService creates an RS scorer with the configured period
// and quarter weights.
func NewRelativeStrengthService(cfg *config.RS) *RelativeStrengthService {
	return &RelativeStrengthService{cfg: cfg}
}

// Score splits the most recent PeriodDays closes of stock and benchmark into
// four buckets, takes the per-bucket stock-minus-benchmark outperformance in
// percentage points and combines the deltas with the configured weights.
//
// The bucket boundaries are derived from PeriodDays/4 with the remainder
// absorbed by the oldest bucket; adjacent buckets share a boundary close so
// the four returns tile the whole period exactly.
func (s *RelativeStrengthService) Score(stock, benchmark *entity.PriceSeries) (*entity.RSScore, error) {
	period := s.cfg.PeriodDays
	if benchmark.Len() < period+1 {
		return nil, fmt.Errorf("%w: %s has %d bars, need %d",
			common.ErrBenchmarkDataInsufficient, benchmark.Symbol, benchmark.Len(), period+1)
	}
	if stock.Len() < period+1 {
		return nil, fmt.Errorf("%w: %s has %d bars, need %d for RS",
			common.ErrInsufficientHistory, stock.Symbol, stock.Len(), period+1)
	}

	stockReturns := bucketReturns(stock.Closes(), period)
	benchReturns := bucketReturns(benchmark.Closes(), period)

	score := &entity.RSScore{
		BenchmarkSymbol:      benchmark.Symbol,
		PeriodDays:           period,
		QuarterContributions: make([]float64, len(stockReturns)),
	}
	for i := range stockReturns {
		delta := (stockReturns[i] - benchReturns[i]) * 100
		contribution := s.cfg.QuarterWeights[i] * delta
		score.QuarterContributions[i] = contribution
		score.Value += contribution
	}
	return score, nil
}

// bucketReturns computes the four quarter-bucket returns over the last
// period+1 closes, oldest bucket first.
func bucketReturns(closes []float64, period int) []float64 {
	window := closes[len(closes)-period-1:]

	bucketSize := period / 4
	remainder := period - bucketSize*3 // oldest bucket absorbs the remainder

	bounds := []int{0, remainder, remainder + bucketSize, remainder + 2*bucketSize, period}
	returns := make([]float64, 4)
	for i := 0; i < 4; i++ {
		start, end := window[bounds[i]], window[bounds[i+1]]
		if start != 0 {
			returns[i] = end/start - 1
		}
	}
	return returns
}
