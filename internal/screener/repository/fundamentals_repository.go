package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"golang-canslim-screener/internal/entity"
	"golang-canslim-screener/internal/screener/config"
	"golang-canslim-screener/internal/screener/dto"
	"golang-canslim-screener/pkg/common"
	"golang-canslim-screener/pkg/logger"

	"golang.org/x/time/rate"
)

// FundamentalsRepository retrieves the fundamental snapshot the CANSLIM
// sub-scorers consume. Partial records are expected; absent metrics stay
// invalid and the sub-scorers degrade.
type FundamentalsRepository interface {
	GetFundamentals(ctx context.Context, symbol string) (*entity.Fundamentals, error)
}

type fundamentalsRepository struct {
	cfg            *config.Config
	log            *logger.Logger
	httpClient     *http.Client
	requestLimiter *rate.Limiter
}

// NewFundamentalsRepository creates a rate-limited quoteSummary-backed
// fundamentals repository.
func NewFundamentalsRepository(cfg *config.Config, log *logger.Logger) FundamentalsRepository {
	secondsPerRequest := time.Minute / time.Duration(cfg.YahooFinance.MaxRequestPerMinute)
	return &fundamentalsRepository{
		cfg: cfg,
		log: log,
		httpClient: &http.Client{
			Timeout: 10 * time.Second,
		},
		requestLimiter: rate.NewLimiter(rate.Every(secondsPerRequest), 1),
	}
}

func (r *fundamentalsRepository) GetFundamentals(ctx context.Context, symbol string) (*entity.Fundamentals, error) {
	url := fmt.Sprintf("%s/v10/finance/quoteSummary/%s?modules=defaultKeyStatistics%%2CfinancialData%%2CsummaryDetail%%2CearningsTrend",
		r.cfg.YahooFinance.BaseURL, symbol)

	body, err := sendRequest(ctx, r.httpClient, r.requestLimiter, r.log, url)
	if err != nil {
		return nil, fmt.Errorf("%w: fundamentals for %s: %v", common.ErrDataUnavailable, symbol, err)
	}

	var response dto.QuoteSummaryResponse
	if err := json.Unmarshal(body, &response); err != nil {
		return nil, fmt.Errorf("%w: fundamentals for %s: malformed payload: %v", common.ErrDataUnavailable, symbol, err)
	}
	if response.QuoteSummary.Error != nil {
		return nil, fmt.Errorf("%w: fundamentals for %s: %s", common.ErrDataUnavailable, symbol, response.QuoteSummary.Error.Description)
	}
	if len(response.QuoteSummary.Result) == 0 {
		return nil, fmt.Errorf("%w: fundamentals for %s: empty result", common.ErrDataUnavailable, symbol)
	}

	result := response.QuoteSummary.Result[0]
	fundamentals := &entity.Fundamentals{Symbol: symbol}

	setMetric(&fundamentals.AnnualEPSGrowth, result.FinancialData.EarningsGrowth)
	setMetric(&fundamentals.RevenueGrowth, result.FinancialData.RevenueGrowth)
	setMetric(&fundamentals.InstitutionalOwnershipPct, result.DefaultKeyStatistics.HeldPercentInstitutions)
	setMetric(&fundamentals.SharesOutstanding, result.DefaultKeyStatistics.SharesOutstanding)
	setMetric(&fundamentals.AvgVolume50D, result.SummaryDetail.AverageVolume)
	setMetric(&fundamentals.MarketCap, result.SummaryDetail.MarketCap)

	// The "0q" period in the earnings trend is the current quarter estimate;
	// it is the closest available proxy for quarter-over-quarter EPS growth.
	for _, trend := range result.EarningsTrend.Trend {
		if trend.Period == "0q" && trend.Growth.Raw != nil {
			fundamentals.QuarterlyEPSGrowth = entity.MetricOf(*trend.Growth.Raw)
			break
		}
	}

	r.log.DebugContext(ctx, "Fetched fundamentals",
		logger.StringField("symbol", symbol),
		logger.Field("quarterly_eps_growth", fundamentals.QuarterlyEPSGrowth.Valid),
		logger.Field("institutional_pct", fundamentals.InstitutionalOwnershipPct.Valid))

	return fundamentals, nil
}

func setMetric(dst *entity.Metric, src dto.RawValue) {
	if src.Raw != nil {
		*dst = entity.MetricOf(*src.Raw)
	}
}
