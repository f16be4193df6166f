package service

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"golang-canslim-screener/internal/screener/config"
	"golang-canslim-screener/pkg/common"
)

func testRSConfig(period int) *config.RS {
	return &config.RS{
		PeriodDays:     period,
		QuarterWeights: []float64{0.2, 0.2, 0.2, 0.4},
	}
}

func TestRelativeStrength_IdenticalSeriesScoresZero(t *testing.T) {
	svc := NewRelativeStrengthService(testRSConfig(63))
	closes := linearCloses(80, 100, 0.5)
	stock := seriesFromCloses("AAA", closes)
	benchmark := seriesFromCloses("SPY", closes)

	score, err := svc.Score(stock, benchmark)
	require.NoError(t, err)

	assert.InDelta(t, 0.0, score.Value, 1e-9)
	for i, contribution := range score.QuarterContributions {
		assert.InDelta(t, 0.0, contribution, 1e-9, "bucket %d", i)
	}
	assert.Equal(t, "SPY", score.BenchmarkSymbol)
	assert.Equal(t, 63, score.PeriodDays)
}

func TestRelativeStrength_BenchmarkTooShort(t *testing.T) {
	svc := NewRelativeStrengthService(testRSConfig(63))
	stock := seriesFromCloses("AAA", linearCloses(80, 100, 0.5))
	benchmark := seriesFromCloses("SPY", linearCloses(40, 100, 0.5))

	_, err := svc.Score(stock, benchmark)
	require.Error(t, err)
	assert.ErrorIs(t, err, common.ErrBenchmarkDataInsufficient)
}

func TestRelativeStrength_StockTooShort(t *testing.T) {
	svc := NewRelativeStrengthService(testRSConfig(63))
	stock := seriesFromCloses("AAA", linearCloses(40, 100, 0.5))
	benchmark := seriesFromCloses("SPY", linearCloses(80, 100, 0.5))

	_, err := svc.Score(stock, benchmark)
	require.Error(t, err)
	assert.ErrorIs(t, err, common.ErrInsufficientHistory)
}

func TestRelativeStrength_UniformOutperformance(t *testing.T) {
	// period 4 means one close per bucket: each bucket return for the stock
	// is +10% while the flat benchmark returns 0%, so each delta is 10
	// percentage points and the weighted sum is 10*(0.2+0.2+0.2+0.4) = 10.
	svc := NewRelativeStrengthService(testRSConfig(4))

	stockCloses := make([]float64, 5)
	stockCloses[0] = 100
	for i := 1; i < 5; i++ {
		stockCloses[i] = stockCloses[i-1] * 1.10
	}
	stock := seriesFromCloses("AAA", stockCloses)
	benchmark := seriesFromCloses("SPY", flatCloses(5, 100))

	score, err := svc.Score(stock, benchmark)
	require.NoError(t, err)

	assert.InDelta(t, 10.0, score.Value, 1e-9)
	require.Len(t, score.QuarterContributions, 4)
	assert.InDelta(t, 2.0, score.QuarterContributions[0], 1e-9)
	assert.InDelta(t, 4.0, score.QuarterContributions[3], 1e-9)
}

func TestRelativeStrength_RecentBucketWeighsMost(t *testing.T) {
	// Two stocks with the same single +10% move, one in the oldest bucket
	// and one in the most recent. The recent mover must score higher because
	// the last bucket carries weight 0.4 against 0.2.
	svc := NewRelativeStrengthService(testRSConfig(4))
	benchmark := seriesFromCloses("SPY", flatCloses(5, 100))

	early := seriesFromCloses("EARLY", []float64{100, 110, 110, 110, 110})
	late := seriesFromCloses("LATE", []float64{100, 100, 100, 100, 110})

	earlyScore, err := svc.Score(early, benchmark)
	require.NoError(t, err)
	lateScore, err := svc.Score(late, benchmark)
	require.NoError(t, err)

	assert.Greater(t, lateScore.Value, earlyScore.Value)
	assert.InDelta(t, 2.0, earlyScore.Value, 1e-9)
	assert.InDelta(t, 4.0, lateScore.Value, 1e-9)
}

func TestBucketReturns_TileThePeriod(t *testing.T) {
	// period 63: bucketSize 15, remainder 18. Bucket returns compound to the
	// full-period return because adjacent buckets share a boundary close.
	closes := linearCloses(70, 100, 1)
	returns := bucketReturns(closes, 63)
	require.Len(t, returns, 4)

	compounded := 1.0
	for _, r := range returns {
		compounded *= 1 + r
	}
	first := closes[len(closes)-64]
	last := closes[len(closes)-1]
	assert.InDelta(t, last/first, compounded, 1e-9)
	assert.False(t, math.IsNaN(compounded))
}
