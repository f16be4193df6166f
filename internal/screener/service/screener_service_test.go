package service

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"golang-canslim-screener/internal/entity"
	"golang-canslim-screener/internal/screener/config"
	"golang-canslim-screener/internal/screener/dto"
	"golang-canslim-screener/pkg/common"
	"golang-canslim-screener/pkg/logger"
)

// --- Fakes ---

type fakeUniverseRepo struct {
	symbols []string
}

func (f *fakeUniverseRepo) GetUniverse(_ context.Context, _ string) ([]string, error) {
	return f.symbols, nil
}

type fakePriceRepo struct {
	series  map[string]*dto.RawSeries
	failing map[string]bool
}

func (f *fakePriceRepo) GetHistory(_ context.Context, param dto.GetHistoryParam) (*dto.RawSeries, error) {
	if f.failing[param.Symbol] {
		return nil, fmt.Errorf("%w: %s feed offline", common.ErrDataUnavailable, param.Symbol)
	}
	raw, ok := f.series[param.Symbol]
	if !ok {
		return nil, fmt.Errorf("%w: no data for %s", common.ErrDataUnavailable, param.Symbol)
	}
	return raw, nil
}

type fakeFundamentalsRepo struct{}

func (f *fakeFundamentalsRepo) GetFundamentals(_ context.Context, symbol string) (*entity.Fundamentals, error) {
	return nil, fmt.Errorf("%w: fundamentals offline for %s", common.ErrDataUnavailable, symbol)
}

// --- Helpers ---

func testScreenerConfig() *config.Config {
	weight := 1.0 / 7.0
	return &config.Config{
		Screener: config.Screener{
			BenchmarkSymbol: "SPY",
			MinRSScore:      -1000,
			MinCanslimScore: 0,
			MaxWorkers:      3,
			LookbackDays:    400,
		},
		Indicators: config.Indicators{EMAShort: 8, EMALong: 21, EMAMedium: 50, EMATrend: 200, RSIPeriod: 14},
		RS:         config.RS{PeriodDays: 63, QuarterWeights: []float64{0.2, 0.2, 0.2, 0.4}},
		Trend:      config.Trend{WindowDays: 60},
		Signals: config.Signals{
			RecentWindow: 10, LookbackBars: 10, BreakLookback: 5,
			Retest8PctBand: 2.0, Retest21PctBand: 3.0,
		},
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

func testLogger(t *testing.T) *logger.Logger {
	t.Helper()
	log, err := logger.New("error", "console")
	require.NoError(t, err)
	return log
}

// rawSeriesOf builds a provider payload long enough for the full indicator
// stack, rising by step per day.
func rawSeriesOf(symbol string, n int, start, step float64) *dto.RawSeries {
	raw := &dto.RawSeries{Symbol: symbol}
	for i := 0; i < n; i++ {
		raw.Bars = append(raw.Bars, rawBar(i, start+float64(i)*step))
	}
	return raw
}

func newTestScreener(t *testing.T, universe []string, prices *fakePriceRepo) ScreenerService {
	t.Helper()
	return NewScreenerService(
		testScreenerConfig(), testLogger(t),
		&fakeUniverseRepo{symbols: universe}, prices, &fakeFundamentalsRepo{},
	)
}

// --- Scan ---

func TestScreenerService_Scan_FailingSymbolDoesNotAbortBatch(t *testing.T) {
	prices := &fakePriceRepo{
		series:  map[string]*dto.RawSeries{"SPY": rawSeriesOf("SPY", 260, 100, 0.1)},
		failing: map[string]bool{"BAD": true},
	}
	var universe []string
	for i := 0; i < 19; i++ {
		symbol := fmt.Sprintf("SYM%02d", i)
		universe = append(universe, symbol)
		// Varying slopes give distinct RS and composite values.
		prices.series[symbol] = rawSeriesOf(symbol, 260, 100, 0.2+0.05*float64(i))
	}
	universe = append(universe, "BAD")

	report, err := newTestScreener(t, universe, prices).Scan(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 20, report.Stats.Analyzed)
	assert.Equal(t, 1, report.Stats.Failed)
	assert.Equal(t, 19, report.Stats.Opportunities)
	assert.Len(t, report.Ranked, 19)

	// Ranked output is sorted by composite descending.
	for i := 1; i < len(report.Ranked); i++ {
		assert.GreaterOrEqual(t,
			report.Ranked[i-1].Composite.Total, report.Ranked[i].Composite.Total,
			"rank %d vs %d", i-1, i)
	}
	for _, result := range report.Ranked {
		assert.Equal(t, entity.StateAccepted, result.State)
		require.NotNil(t, result.RS)
		assert.Equal(t, "SPY", result.RS.BenchmarkSymbol)
	}
}

func TestScreenerService_Scan_MissingBenchmarkDegradesEverySymbol(t *testing.T) {
	prices := &fakePriceRepo{
		series:  map[string]*dto.RawSeries{"AAA": rawSeriesOf("AAA", 260, 100, 0.5)},
		failing: map[string]bool{"SPY": true},
	}

	report, err := newTestScreener(t, []string{"AAA"}, prices).Scan(context.Background())
	require.NoError(t, err)

	// No benchmark: market trend is the degraded neutral default and the
	// symbol stays RS-unscored, which keeps it out of the ranked output.
	assert.True(t, report.MarketTrend.Degraded)
	assert.Equal(t, entity.MarketNeutral, report.MarketTrend.Direction)
	assert.Equal(t, 1, report.Stats.Analyzed)
	assert.Equal(t, 0, report.Stats.Failed)
	assert.Equal(t, 0, report.Stats.Opportunities)
	assert.Empty(t, report.Ranked)
}

func TestScreenerService_Scan_ShortHistoryFailsSymbol(t *testing.T) {
	prices := &fakePriceRepo{
		series: map[string]*dto.RawSeries{
			"SPY":   rawSeriesOf("SPY", 260, 100, 0.1),
			"SHORT": rawSeriesOf("SHORT", 120, 100, 0.5),
		},
	}

	report, err := newTestScreener(t, []string{"SHORT"}, prices).Scan(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 1, report.Stats.Analyzed)
	assert.Equal(t, 1, report.Stats.Failed)
	assert.Empty(t, report.Ranked)
}

// --- Ranking ---

func TestBuildReport_RanksByCompositeThenRS(t *testing.T) {
	trend := entity.MarketTrend{Direction: entity.MarketNeutral, Score: 50}
	results := []*entity.ScanResult{
		{Symbol: "LOW", State: entity.StateAccepted,
			Composite: &entity.CanslimComposite{Total: 60}, RS: &entity.RSScore{Value: 9}},
		{Symbol: "TIE_WEAK", State: entity.StateAccepted,
			Composite: &entity.CanslimComposite{Total: 80}, RS: &entity.RSScore{Value: 5}},
		{Symbol: "TIE_STRONG", State: entity.StateAccepted,
			Composite: &entity.CanslimComposite{Total: 80}, RS: &entity.RSScore{Value: 12}},
		{Symbol: "REJECTED", State: entity.StateRejected,
			Composite: &entity.CanslimComposite{Total: 95}, RS: &entity.RSScore{Value: 20}},
		{Symbol: "FAILED", State: entity.StateFailed, FailReason: "feed offline"},
	}

	report := buildReport(results, trend)

	assert.Equal(t, 5, report.Stats.Analyzed)
	assert.Equal(t, 1, report.Stats.Failed)
	assert.Equal(t, 3, report.Stats.Opportunities)

	require.Len(t, report.Ranked, 3)
	assert.Equal(t, "TIE_STRONG", report.Ranked[0].Symbol)
	assert.Equal(t, "TIE_WEAK", report.Ranked[1].Symbol)
	assert.Equal(t, "LOW", report.Ranked[2].Symbol)
}

func TestBuildReport_DeterministicForSameInputs(t *testing.T) {
	trend := entity.MarketTrend{Direction: entity.MarketBullish, Score: 80}
	build := func() []string {
		results := []*entity.ScanResult{
			{Symbol: "B", State: entity.StateAccepted,
				Composite: &entity.CanslimComposite{Total: 70}, RS: &entity.RSScore{Value: 3}},
			{Symbol: "A", State: entity.StateAccepted,
				Composite: &entity.CanslimComposite{Total: 70}, RS: &entity.RSScore{Value: 8}},
		}
		report := buildReport(results, trend)
		order := make([]string, 0, len(report.Ranked))
		for _, result := range report.Ranked {
			order = append(order, result.Symbol)
		}
		return order
	}

	first := build()
	for i := 0; i < 10; i++ {
		assert.Equal(t, first, build())
	}
}
