package service

import (
	"context"
	"errors"
	"sort"
	"sync"

	"golang-canslim-screener/internal/entity"
	"golang-canslim-screener/internal/screener/canslim"
	"golang-canslim-screener/internal/screener/config"
	"golang-canslim-screener/internal/screener/dto"
	"golang-canslim-screener/internal/screener/repository"
	"golang-canslim-screener/pkg/common"
	"golang-canslim-screener/pkg/logger"
	"golang-canslim-screener/pkg/utils"
)

// ScreenerService runs the full momentum/pullback screen over a stock
// universe.
type ScreenerService interface {
	Scan(ctx context.Context) (*entity.ScanReport, error)
}

type screenerService struct {
	cfg          *config.Config
	log          *logger.Logger
	universe     repository.UniverseRepository
	prices       repository.YahooFinanceRepository
	fundamentals repository.FundamentalsRepository

	indicators *IndicatorService
	rs         *RelativeStrengthService
	trend      *TrendService
	signals    *SignalService
	evaluator  *canslim.Evaluator
}

// NewScreenerService wires the scoring pipeline together.
func NewScreenerService(
	cfg *config.Config,
	log *logger.Logger,
	universe repository.UniverseRepository,
	prices repository.YahooFinanceRepository,
	fundamentals repository.FundamentalsRepository,
) ScreenerService {
	return &screenerService{
		cfg:          cfg,
		log:          log,
		universe:     universe,
		prices:       prices,
		fundamentals: fundamentals,
		indicators:   NewIndicatorService(&cfg.Indicators),
		rs:           NewRelativeStrengthService(&cfg.RS),
		trend:        NewTrendService(&cfg.Trend),
		signals:      NewSignalService(&cfg.Signals),
		evaluator:    canslim.NewEvaluator(cfg),
	}
}

// Scan resolves the universe, computes the shared market trend, fans the
// per-symbol pipeline out across a bounded worker pool and joins on a
// single barrier before ranking. A failing symbol never aborts the batch.
func (s *screenerService) Scan(ctx context.Context) (*entity.ScanReport, error) {
	symbols, err := s.universe.GetUniverse(ctx, s.cfg.Universe.Selector)
	if err != nil {
		return nil, err
	}

	benchmark, benchmarkInd := s.loadBenchmark(ctx)
	marketTrend := canslim.DegradedMarketTrend(s.cfg.Screener.BenchmarkSymbol)
	if benchmark != nil {
		marketTrend = canslim.EvaluateMarketTrend(benchmark, benchmarkInd,
			s.cfg.Canslim.MBullishThreshold, s.cfg.Canslim.MBearishThreshold)
	}

	s.log.InfoContext(ctx, "Starting scan",
		logger.IntField("universe", len(symbols)),
		logger.IntField("workers", s.cfg.Screener.MaxWorkers),
		logger.StringField("market_direction", string(marketTrend.Direction)))

	var (
		wg        sync.WaitGroup
		mu        sync.Mutex
		results   = make([]*entity.ScanResult, 0, len(symbols))
		semaphore = make(chan struct{}, s.cfg.Screener.MaxWorkers)
	)

	for _, symbol := range symbols {
		if !utils.ShouldContinue(ctx, s.log) {
			break
		}
		symbol := symbol
		wg.Add(1)
		utils.GoSafe(func() {
			defer wg.Done()
			semaphore <- struct{}{}
			defer func() { <-semaphore }()

			result := s.analyzeSymbol(ctx, symbol, benchmark, marketTrend)
			mu.Lock()
			results = append(results, result)
			mu.Unlock()
		})
	}
	wg.Wait()

	report := buildReport(results, marketTrend)
	s.log.InfoContext(ctx, "Scan complete",
		logger.IntField("analyzed", report.Stats.Analyzed),
		logger.IntField("failed", report.Stats.Failed),
		logger.IntField("opportunities", report.Stats.Opportunities))
	return report, nil
}

// loadBenchmark fetches and prepares the benchmark series once, before
// fan-out. A missing benchmark degrades the M criterion and leaves every
// symbol RS-unscored; it does not abort the scan.
func (s *screenerService) loadBenchmark(ctx context.Context) (*entity.PriceSeries, *entity.IndicatorSet) {
	raw, err := s.prices.GetHistory(ctx, dto.GetHistoryParam{
		Symbol:       s.cfg.Screener.BenchmarkSymbol,
		LookbackDays: s.cfg.Screener.LookbackDays,
	})
	if err != nil {
		s.log.WarnContext(ctx, "Benchmark history unavailable", logger.ErrorField(err))
		return nil, nil
	}
	series, err := NormalizeSeries(raw, MinRequiredBars)
	if err != nil {
		s.log.WarnContext(ctx, "Benchmark series unusable", logger.ErrorField(err))
		return nil, nil
	}
	ind, err := s.indicators.Compute(series)
	if err != nil {
		s.log.WarnContext(ctx, "Benchmark indicators unavailable", logger.ErrorField(err))
		return nil, nil
	}
	return series, ind
}

// analyzeSymbol runs the full per-symbol pipeline:
// Pending -> Validated -> Scored -> {Accepted | Rejected | Failed}.
// Data errors downgrade the symbol to Failed with a recorded reason.
func (s *screenerService) analyzeSymbol(ctx context.Context, symbol string, benchmark *entity.PriceSeries, marketTrend entity.MarketTrend) *entity.ScanResult {
	result := &entity.ScanResult{Symbol: symbol, State: entity.StatePending}

	raw, err := s.prices.GetHistory(ctx, dto.GetHistoryParam{
		Symbol:       symbol,
		LookbackDays: s.cfg.Screener.LookbackDays,
	})
	if err != nil {
		return failed(result, err)
	}
	series, err := NormalizeSeries(raw, MinRequiredBars)
	if err != nil {
		return failed(result, err)
	}
	result.State = entity.StateValidated

	ind, err := s.indicators.Compute(series)
	if err != nil {
		return failed(result, err)
	}

	trend, err := s.trend.Analyze(series, ind)
	if err != nil {
		return failed(result, err)
	}
	result.Trend = trend
	result.EntrySignals = s.signals.Detect(series, ind)

	// RS is unscored when the benchmark cannot cover the period; the symbol
	// still gets a composite (with a degraded L) and lands in Rejected.
	if benchmark != nil {
		rsScore, err := s.rs.Score(series, benchmark)
		switch {
		case err == nil:
			result.RS = rsScore
		case errors.Is(err, common.ErrBenchmarkDataInsufficient), errors.Is(err, common.ErrInsufficientHistory):
			s.log.WarnContext(ctx, "Symbol left RS-unscored",
				logger.StringField("symbol", symbol), logger.ErrorField(err))
		default:
			return failed(result, err)
		}
	}

	fundamentals, err := s.fundamentals.GetFundamentals(ctx, symbol)
	if err != nil {
		// Missing fundamentals degrade the affected sub-scores, never the run.
		s.log.DebugContext(ctx, "Fundamentals unavailable",
			logger.StringField("symbol", symbol), logger.ErrorField(err))
		fundamentals = nil
	}

	last := ind.Last()
	result.CurrentPrice = series.LastBar().Close
	result.CurrentRSI = ind.RSI14[last]

	proximity := 0.0
	if ind.High52Week[last] > 0 {
		proximity = result.CurrentPrice / ind.High52Week[last]
	}

	result.Composite = s.evaluator.Evaluate(&canslim.Input{
		Symbol:          symbol,
		Fundamentals:    fundamentals,
		RS:              result.RS,
		ProximityToHigh: proximity,
		MarketTrend:     marketTrend,
	})
	result.State = entity.StateScored

	if s.accepts(result, fundamentals) {
		result.State = entity.StateAccepted
	} else {
		result.State = entity.StateRejected
	}
	return result
}

// accepts applies the configured screen thresholds to a scored symbol.
func (s *screenerService) accepts(result *entity.ScanResult, fundamentals *entity.Fundamentals) bool {
	if result.RS == nil || result.RS.Value < s.cfg.Screener.MinRSScore {
		return false
	}
	if result.Composite.Total < s.cfg.Screener.MinCanslimScore {
		return false
	}
	if s.cfg.Screener.MinMarketCap > 0 && fundamentals != nil &&
		fundamentals.MarketCap.Valid && fundamentals.MarketCap.Value < s.cfg.Screener.MinMarketCap {
		return false
	}
	return true
}

func failed(result *entity.ScanResult, err error) *entity.ScanResult {
	result.State = entity.StateFailed
	result.FailReason = err.Error()
	return result
}

// buildReport aggregates the batch statistics and ranks the accepted set by
// composite score descending, ties broken by RS score descending. Ranking
// happens only after every symbol has completed, so the output order is
// deterministic regardless of worker completion order.
func buildReport(results []*entity.ScanResult, marketTrend entity.MarketTrend) *entity.ScanReport {
	report := &entity.ScanReport{MarketTrend: marketTrend}
	for _, result := range results {
		report.Stats.Analyzed++
		switch result.State {
		case entity.StateFailed:
			report.Stats.Failed++
		case entity.StateAccepted:
			report.Stats.Opportunities++
			report.Ranked = append(report.Ranked, result)
		}
	}

	sort.SliceStable(report.Ranked, func(i, j int) bool {
		a, b := report.Ranked[i], report.Ranked[j]
		if a.Composite.Total != b.Composite.Total {
			return a.Composite.Total > b.Composite.Total
		}
		return a.RS.Value > b.RS.Value
	})
	return report
}
