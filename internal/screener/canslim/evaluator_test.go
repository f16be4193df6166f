package canslim

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"golang-canslim-screener/internal/entity"
	"golang-canslim-screener/internal/screener/config"
)

func testCanslimConfig() *config.Config {
	weight := 1.0 / 7.0
	return &config.Config{
		Canslim: config.Canslim{
			Weights: map[string]float64{
				"C": weight, "A": weight, "N": weight, "S": weight,
				"L": weight, "I": weight, "M": weight,
			},
			CGrowthTarget: 0.25, AGrowthTarget: 0.25,
			NRevenueTarget: 0.20, NRevenueWeight: 0.5, NProximityWeight: 0.5,
			STurnoverCap: 2.0, IInstitutionalCap: 0.75,
			MBullishThreshold: 60, MBearishThreshold: 40,
		},
	}
}

func TestEvaluator_AllInputsMissingGivesMidpointComposite(t *testing.T) {
	evaluator := NewEvaluator(testCanslimConfig())

	composite := evaluator.Evaluate(&Input{
		Symbol:      "AAA",
		MarketTrend: DegradedMarketTrend("SPY"),
	})

	require.Len(t, composite.SubScores, 7)
	for _, criterion := range entity.Criteria {
		sub, ok := composite.SubScores[criterion]
		require.True(t, ok, "missing sub-score for %s", criterion)
		assert.True(t, sub.Degraded, "%s should be degraded", criterion)
	}

	// Six midpoints plus the cautious market default of 40:
	// (6*50 + 40) / 7 = 48.57...
	assert.InDelta(t, (6*50.0+40.0)/7.0, composite.Total, 1e-9)
}

func TestEvaluator_CompositeStaysWithinRange(t *testing.T) {
	evaluator := NewEvaluator(testCanslimConfig())

	strong := &Input{
		Symbol: "STRONG",
		Fundamentals: &entity.Fundamentals{
			Symbol:                    "STRONG",
			QuarterlyEPSGrowth:        entity.MetricOf(0.80),
			AnnualEPSGrowth:           entity.MetricOf(0.60),
			RevenueGrowth:             entity.MetricOf(0.50),
			InstitutionalOwnershipPct: entity.MetricOf(0.70),
			SharesOutstanding:         entity.MetricOf(1e9),
			AvgVolume50D:              entity.MetricOf(2e7),
		},
		RS:              &entity.RSScore{Value: 30, BenchmarkSymbol: "SPY"},
		ProximityToHigh: 1.0,
		MarketTrend:     entity.MarketTrend{Direction: entity.MarketBullish, Score: 100},
	}
	composite := evaluator.Evaluate(strong)
	assert.GreaterOrEqual(t, composite.Total, 0.0)
	assert.LessOrEqual(t, composite.Total, 100.0)
	assert.Greater(t, composite.Total, 80.0)

	weak := &Input{
		Symbol:      "WEAK",
		RS:          &entity.RSScore{Value: -40, BenchmarkSymbol: "SPY"},
		MarketTrend: entity.MarketTrend{Direction: entity.MarketBearish, Score: 0},
	}
	composite = evaluator.Evaluate(weak)
	assert.GreaterOrEqual(t, composite.Total, 0.0)
	assert.LessOrEqual(t, composite.Total, 100.0)
}

// --- C / A growth mapping ---

func TestCurrentEarningsScorer_GrowthMapping(t *testing.T) {
	scorer := &CurrentEarningsScorer{GrowthTarget: 0.25}

	cases := []struct {
		growth float64
		want   float64
	}{
		{growth: 0.25, want: 50},  // at target
		{growth: 0.50, want: 100}, // double the target saturates
		{growth: 1.00, want: 100},
		{growth: 0, want: 0},
		{growth: -0.10, want: 0}, // negative growth bottoms out
	}
	for _, tc := range cases {
		sub := scorer.Score(&Input{Fundamentals: &entity.Fundamentals{
			QuarterlyEPSGrowth: entity.MetricOf(tc.growth),
		}})
		assert.InDelta(t, tc.want, sub.Value, 1e-9, "growth %.2f", tc.growth)
		assert.False(t, sub.Degraded)
	}
}

func TestCurrentEarningsScorer_DegradesWithoutData(t *testing.T) {
	scorer := &CurrentEarningsScorer{GrowthTarget: 0.25}

	sub := scorer.Score(&Input{})
	assert.Equal(t, MidpointScore, sub.Value)
	assert.True(t, sub.Degraded)

	sub = scorer.Score(&Input{Fundamentals: &entity.Fundamentals{}})
	assert.Equal(t, MidpointScore, sub.Value)
	assert.True(t, sub.Degraded)
}

func TestAnnualEarningsScorer_UsesAnnualGrowth(t *testing.T) {
	scorer := &AnnualEarningsScorer{GrowthTarget: 0.25}
	sub := scorer.Score(&Input{Fundamentals: &entity.Fundamentals{
		AnnualEPSGrowth: entity.MetricOf(0.25),
	}})
	assert.InDelta(t, 50.0, sub.Value, 1e-9)
	assert.Equal(t, entity.CriterionA, sub.Criterion)
}

// --- N ---

func TestNewProductsScorer_BlendsRevenueAndProximity(t *testing.T) {
	scorer := &NewProductsScorer{RevenueTarget: 0.20, RevenueWeight: 0.5, ProximityWeight: 0.5}

	// Revenue at target scores 50; proximity 1.05 saturates at 100.
	sub := scorer.Score(&Input{
		Fundamentals:    &entity.Fundamentals{RevenueGrowth: entity.MetricOf(0.20)},
		ProximityToHigh: 1.05,
	})
	assert.InDelta(t, 75.0, sub.Value, 1e-9)
	assert.False(t, sub.Degraded)
}

func TestNewProductsScorer_ProximityOnlyWhenRevenueMissing(t *testing.T) {
	scorer := &NewProductsScorer{RevenueTarget: 0.20, RevenueWeight: 0.5, ProximityWeight: 0.5}

	// proximity 0.945 / 1.05 = 0.9 of the cap.
	sub := scorer.Score(&Input{ProximityToHigh: 0.945})
	assert.InDelta(t, 90.0, sub.Value, 1e-9)
	assert.True(t, sub.Degraded)
}

// --- S ---

func TestSupplyDemandScorer_TurnoverRatio(t *testing.T) {
	scorer := &SupplyDemandScorer{TurnoverCap: 2.0}

	// 4e6 * 252 / 1.008e9 = 1.0 annualized turnover, half the cap.
	sub := scorer.Score(&Input{Fundamentals: &entity.Fundamentals{
		AvgVolume50D:      entity.MetricOf(4e6),
		SharesOutstanding: entity.MetricOf(1.008e9),
	}})
	assert.InDelta(t, 50.0, sub.Value, 1e-9)
	assert.False(t, sub.Degraded)
}

func TestSupplyDemandScorer_DegradesWithoutVolume(t *testing.T) {
	scorer := &SupplyDemandScorer{TurnoverCap: 2.0}
	sub := scorer.Score(&Input{Fundamentals: &entity.Fundamentals{
		SharesOutstanding: entity.MetricOf(1e9),
	}})
	assert.Equal(t, MidpointScore, sub.Value)
	assert.True(t, sub.Degraded)
}

// --- L ---

func TestLeaderLaggardScorer_Mapping(t *testing.T) {
	scorer := &LeaderLaggardScorer{}

	cases := []struct {
		rs   float64
		want float64
	}{
		{rs: 0, want: 50},
		{rs: 10, want: 70},
		{rs: 25, want: 100},
		{rs: 40, want: 100}, // clamped
		{rs: -25, want: 0},
		{rs: -40, want: 0},
	}
	for _, tc := range cases {
		sub := scorer.Score(&Input{RS: &entity.RSScore{Value: tc.rs, BenchmarkSymbol: "SPY"}})
		assert.InDelta(t, tc.want, sub.Value, 1e-9, "rs %.1f", tc.rs)
	}
}

func TestLeaderLaggardScorer_DegradesWhenUnscored(t *testing.T) {
	sub := (&LeaderLaggardScorer{}).Score(&Input{})
	assert.Equal(t, MidpointScore, sub.Value)
	assert.True(t, sub.Degraded)
}

// --- I ---

func TestInstitutionalScorer_OwnershipPreferred(t *testing.T) {
	scorer := &InstitutionalScorer{InstitutionalCap: 0.75, TurnoverCap: 2.0}

	sub := scorer.Score(&Input{Fundamentals: &entity.Fundamentals{
		InstitutionalOwnershipPct: entity.MetricOf(0.375),
		AvgVolume50D:              entity.MetricOf(4e6),
		SharesOutstanding:         entity.MetricOf(1.008e9),
	}})
	// 0.375 / 0.75 = half the cap; ownership wins over the turnover proxy.
	assert.InDelta(t, 50.0, sub.Value, 1e-9)
	assert.False(t, sub.Degraded)
}

func TestInstitutionalScorer_TurnoverProxyIsDegraded(t *testing.T) {
	scorer := &InstitutionalScorer{InstitutionalCap: 0.75, TurnoverCap: 2.0}

	sub := scorer.Score(&Input{Fundamentals: &entity.Fundamentals{
		AvgVolume50D:      entity.MetricOf(4e6),
		SharesOutstanding: entity.MetricOf(1.008e9),
	}})
	assert.InDelta(t, 50.0, sub.Value, 1e-9)
	assert.True(t, sub.Degraded)
}
