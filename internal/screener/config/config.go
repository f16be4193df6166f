package config

import (
	"math"
	"time"

	"golang-canslim-screener/internal/entity"
	"golang-canslim-screener/pkg/common"
	"golang-canslim-screener/pkg/config"
)

// Screener holds the scan thresholds and worker pool settings.
type Screener struct {
	BenchmarkSymbol string  `mapstructure:"benchmark_symbol"`
	MinMarketCap    float64 `mapstructure:"min_market_cap"`
	MinRSScore      float64 `mapstructure:"min_rs_score"`
	MinCanslimScore float64 `mapstructure:"min_canslim_score"`
	MaxWorkers      int     `mapstructure:"max_workers"`
	LookbackDays    int     `mapstructure:"lookback_days"`
}

// Indicators holds the indicator engine periods.
type Indicators struct {
	EMAShort  int `mapstructure:"ema_short"`
	EMALong   int `mapstructure:"ema_long"`
	EMAMedium int `mapstructure:"ema_medium"`
	EMATrend  int `mapstructure:"ema_trend"`
	RSIPeriod int `mapstructure:"rsi_period"`
}

// RS holds the relative strength scorer settings. QuarterWeights are ordered
// oldest bucket first, most recent bucket last, and must sum to 1.0.
type RS struct {
	PeriodDays     int       `mapstructure:"period_days"`
	QuarterWeights []float64 `mapstructure:"quarter_weights"`
}

// Trend holds the trend analyzer settings.
type Trend struct {
	WindowDays int `mapstructure:"window_days"`
}

// Signals holds the entry signal detector settings.
type Signals struct {
	RecentWindow   int     `mapstructure:"recent_window"`
	LookbackBars   int     `mapstructure:"lookback_bars"`
	BreakLookback  int     `mapstructure:"break_lookback"`
	Retest8PctBand float64 `mapstructure:"retest_8_pct_band"`
	Retest21PctBand float64 `mapstructure:"retest_21_pct_band"`
}

// Canslim holds the composite weights and per-criterion targets.
type Canslim struct {
	Weights           map[string]float64 `mapstructure:"weights"`
	CGrowthTarget     float64            `mapstructure:"c_growth_target"`
	AGrowthTarget     float64            `mapstructure:"a_growth_target"`
	NRevenueTarget    float64            `mapstructure:"n_revenue_target"`
	NRevenueWeight    float64            `mapstructure:"n_revenue_weight"`
	NProximityWeight  float64            `mapstructure:"n_proximity_weight"`
	STurnoverCap      float64            `mapstructure:"s_turnover_cap"`
	IInstitutionalCap float64            `mapstructure:"i_institutional_cap"`
	MBullishThreshold float64            `mapstructure:"m_bullish_threshold"`
	MBearishThreshold float64            `mapstructure:"m_bearish_threshold"`
}

// YahooFinance holds the configuration for the Yahoo Finance API.
type YahooFinance struct {
	BaseURL             string `mapstructure:"base_url"`
	MaxRequestPerMinute int    `mapstructure:"max_request_per_minute"`
}

// Universe holds the ticker universe source settings.
type Universe struct {
	Selector string        `mapstructure:"selector"`
	Custom   []string      `mapstructure:"custom"`
	CacheDir string        `mapstructure:"cache_dir"`
	CacheTTL time.Duration `mapstructure:"cache_ttl"`
}

// Export holds the result sink settings.
type Export struct {
	Dir string `mapstructure:"dir"`
}

// Schedule holds the cron settings for scheduled scans.
type Schedule struct {
	Cron string `mapstructure:"cron"`
}

// Config holds the full configuration for the screener service.
type Config struct {
	App          config.App      `mapstructure:"app"`
	Logger       config.Logger   `mapstructure:"logger"`
	Telegram     config.Telegram `mapstructure:"telegram"`
	Screener     Screener        `mapstructure:"screener"`
	Indicators   Indicators      `mapstructure:"indicators"`
	RS           RS              `mapstructure:"rs"`
	Trend        Trend           `mapstructure:"trend"`
	Signals      Signals         `mapstructure:"signals"`
	Canslim      Canslim         `mapstructure:"canslim"`
	YahooFinance YahooFinance    `mapstructure:"yahoo_finance"`
	Universe     Universe        `mapstructure:"universe"`
	Export       Export          `mapstructure:"export"`
	Schedule     Schedule        `mapstructure:"schedule"`
}

const weightEpsilon = 1e-9

// Load loads the screener configuration from the given path, applies
// defaults and validates it. Validation failures are fatal at startup.
func Load(path string) (*Config, error) {
	var cfg Config
	if err := config.Load(path, &cfg); err != nil {
		return nil, err
	}
	cfg.applyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) applyDefaults() {
	if c.Screener.BenchmarkSymbol == "" {
		c.Screener.BenchmarkSymbol = common.DefaultBenchmarkSymbol
	}
	if c.Screener.MaxWorkers == 0 {
		c.Screener.MaxWorkers = 3
	}
	if c.Screener.LookbackDays == 0 {
		c.Screener.LookbackDays = 400
	}
	if c.Indicators.EMAShort == 0 {
		c.Indicators.EMAShort = 8
	}
	if c.Indicators.EMALong == 0 {
		c.Indicators.EMALong = 21
	}
	if c.Indicators.EMAMedium == 0 {
		c.Indicators.EMAMedium = 50
	}
	if c.Indicators.EMATrend == 0 {
		c.Indicators.EMATrend = 200
	}
	if c.Indicators.RSIPeriod == 0 {
		c.Indicators.RSIPeriod = 14
	}
	if c.RS.PeriodDays == 0 {
		c.RS.PeriodDays = common.TradingDaysPerQuarter
	}
	if len(c.RS.QuarterWeights) == 0 {
		c.RS.QuarterWeights = []float64{0.2, 0.2, 0.2, 0.4}
	}
	if c.Trend.WindowDays == 0 {
		c.Trend.WindowDays = 60
	}
	if c.Signals.RecentWindow == 0 {
		c.Signals.RecentWindow = 10
	}
	if c.Signals.LookbackBars == 0 {
		c.Signals.LookbackBars = 10
	}
	if c.Signals.BreakLookback == 0 {
		c.Signals.BreakLookback = 5
	}
	if c.Signals.Retest8PctBand == 0 {
		c.Signals.Retest8PctBand = 2.0
	}
	if c.Signals.Retest21PctBand == 0 {
		c.Signals.Retest21PctBand = 3.0
	}
	if len(c.Canslim.Weights) == 0 {
		c.Canslim.Weights = map[string]float64{}
		for _, criterion := range entity.Criteria {
			c.Canslim.Weights[string(criterion)] = 1.0 / 7.0
		}
	}
	if c.Canslim.CGrowthTarget == 0 {
		c.Canslim.CGrowthTarget = 0.25
	}
	if c.Canslim.AGrowthTarget == 0 {
		c.Canslim.AGrowthTarget = 0.25
	}
	if c.Canslim.NRevenueTarget == 0 {
		c.Canslim.NRevenueTarget = 0.20
	}
	if c.Canslim.NRevenueWeight == 0 {
		c.Canslim.NRevenueWeight = 0.5
	}
	if c.Canslim.NProximityWeight == 0 {
		c.Canslim.NProximityWeight = 0.5
	}
	if c.Canslim.STurnoverCap == 0 {
		c.Canslim.STurnoverCap = 2.0
	}
	if c.Canslim.IInstitutionalCap == 0 {
		c.Canslim.IInstitutionalCap = 0.75
	}
	if c.Canslim.MBullishThreshold == 0 {
		c.Canslim.MBullishThreshold = 60
	}
	if c.Canslim.MBearishThreshold == 0 {
		c.Canslim.MBearishThreshold = 40
	}
	if c.YahooFinance.BaseURL == "" {
		c.YahooFinance.BaseURL = "https://query1.finance.yahoo.com"
	}
	if c.YahooFinance.MaxRequestPerMinute == 0 {
		c.YahooFinance.MaxRequestPerMinute = 60
	}
	if c.Universe.Selector == "" {
		c.Universe.Selector = "custom"
	}
	if c.Universe.CacheDir == "" {
		c.Universe.CacheDir = "ticker_cache"
	}
	if c.Universe.CacheTTL == 0 {
		c.Universe.CacheTTL = 24 * time.Hour
	}
	if c.Export.Dir == "" {
		c.Export.Dir = "."
	}
	if c.Schedule.Cron == "" {
		c.Schedule.Cron = "0 30 16 * * MON-FRI"
	}
}

// Validate enforces the startup invariants: weight vectors sum to 1.0,
// thresholds are in range and every period is positive.
func (c *Config) Validate() error {
	if c.Screener.MaxWorkers < 1 {
		return common.NewConfigurationError("screener.max_workers", "must be at least 1")
	}
	if c.Screener.MinCanslimScore < 0 || c.Screener.MinCanslimScore > 100 {
		return common.NewConfigurationError("screener.min_canslim_score", "must be within [0,100]")
	}
	if c.RS.PeriodDays < 4 {
		return common.NewConfigurationError("rs.period_days", "must be at least 4")
	}
	if len(c.RS.QuarterWeights) != 4 {
		return common.NewConfigurationError("rs.quarter_weights", "exactly 4 weights required")
	}
	var rsSum float64
	for _, w := range c.RS.QuarterWeights {
		if w < 0 {
			return common.NewConfigurationError("rs.quarter_weights", "weights must be non-negative")
		}
		rsSum += w
	}
	if math.Abs(rsSum-1.0) > weightEpsilon {
		return common.NewConfigurationError("rs.quarter_weights", "weights must sum to 1.0")
	}

	if len(c.Canslim.Weights) != len(entity.Criteria) {
		return common.NewConfigurationError("canslim.weights", "all seven criteria must be weighted")
	}
	var weightSum float64
	for name, w := range c.Canslim.Weights {
		if !isKnownCriterion(name) {
			return common.NewConfigurationError("canslim.weights", "unknown criterion "+name)
		}
		if w < 0 {
			return common.NewConfigurationError("canslim.weights", "weights must be non-negative")
		}
		weightSum += w
	}
	if math.Abs(weightSum-1.0) > weightEpsilon {
		return common.NewConfigurationError("canslim.weights", "weights must sum to 1.0")
	}

	if c.Signals.Retest8PctBand <= 0 || c.Signals.Retest21PctBand <= 0 {
		return common.NewConfigurationError("signals", "retest bands must be positive")
	}
	if c.Trend.WindowDays < 60 {
		return common.NewConfigurationError("trend.window_days", "must be at least 60")
	}
	if c.Indicators.EMAShort >= c.Indicators.EMALong {
		return common.NewConfigurationError("indicators", "ema_short must be below ema_long")
	}
	if c.Canslim.MBearishThreshold >= c.Canslim.MBullishThreshold {
		return common.NewConfigurationError("canslim", "m_bearish_threshold must be below m_bullish_threshold")
	}
	return nil
}

// CriterionWeights returns the weight vector keyed by typed criterion.
func (c *Config) CriterionWeights() map[entity.Criterion]float64 {
	weights := make(map[entity.Criterion]float64, len(c.Canslim.Weights))
	for name, w := range c.Canslim.Weights {
		weights[entity.Criterion(name)] = w
	}
	return weights
}

func isKnownCriterion(name string) bool {
	for _, criterion := range entity.Criteria {
		if string(criterion) == name {
			return true
		}
	}
	return false
}
