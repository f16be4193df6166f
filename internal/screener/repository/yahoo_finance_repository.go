package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"golang-canslim-screener/internal/screener/config"
	"golang-canslim-screener/internal/screener/dto"
	"golang-canslim-screener/pkg/common"
	"golang-canslim-screener/pkg/logger"

	"golang.org/x/time/rate"
)

const browserUserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/91.0.4472.124 Safari/537.36"

// YahooFinanceRepository retrieves daily price history from the Yahoo
// Finance chart API.
type YahooFinanceRepository interface {
	GetHistory(ctx context.Context, param dto.GetHistoryParam) (*dto.RawSeries, error)
}

type yahooFinanceRepository struct {
	cfg            *config.Config
	log            *logger.Logger
	httpClient     *http.Client
	requestLimiter *rate.Limiter
}

// NewYahooFinanceRepository creates a rate-limited Yahoo Finance price
// history repository.
func NewYahooFinanceRepository(cfg *config.Config, log *logger.Logger) YahooFinanceRepository {
	secondsPerRequest := time.Minute / time.Duration(cfg.YahooFinance.MaxRequestPerMinute)
	return &yahooFinanceRepository{
		cfg: cfg,
		log: log,
		httpClient: &http.Client{
			Timeout: 10 * time.Second,
		},
		requestLimiter: rate.NewLimiter(rate.Every(secondsPerRequest), 1),
	}
}

func (r *yahooFinanceRepository) GetHistory(ctx context.Context, param dto.GetHistoryParam) (*dto.RawSeries, error) {
	url := fmt.Sprintf("%s/v8/finance/chart/%s?range=%dd&interval=1d&events=div%%2Csplit",
		r.cfg.YahooFinance.BaseURL, param.Symbol, param.LookbackDays)

	body, err := sendRequest(ctx, r.httpClient, r.requestLimiter, r.log, url)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", common.ErrDataUnavailable, param.Symbol, err)
	}

	var response dto.ChartResponse
	if err := json.Unmarshal(body, &response); err != nil {
		return nil, fmt.Errorf("%w: %s: malformed chart payload: %v", common.ErrDataUnavailable, param.Symbol, err)
	}
	if response.Chart.Error != nil {
		return nil, fmt.Errorf("%w: %s: %s", common.ErrDataUnavailable, param.Symbol, response.Chart.Error.Description)
	}
	if len(response.Chart.Result) == 0 || len(response.Chart.Result[0].Indicators.Quote) == 0 {
		return nil, fmt.Errorf("%w: %s: empty chart result", common.ErrDataUnavailable, param.Symbol)
	}

	result := response.Chart.Result[0]
	quote := result.Indicators.Quote[0]

	series := &dto.RawSeries{Symbol: param.Symbol}
	for i, ts := range result.Timestamp {
		bar := dto.RawBar{Timestamp: ts}
		if i < len(quote.Open) {
			bar.Open = quote.Open[i]
		}
		if i < len(quote.High) {
			bar.High = quote.High[i]
		}
		if i < len(quote.Low) {
			bar.Low = quote.Low[i]
		}
		if i < len(quote.Close) {
			bar.Close = quote.Close[i]
		}
		if i < len(quote.Volume) {
			bar.Volume = quote.Volume[i]
		}
		if len(result.Indicators.AdjClose) > 0 && i < len(result.Indicators.AdjClose[0].AdjClose) {
			bar.AdjClose = result.Indicators.AdjClose[0].AdjClose[i]
		}
		series.Bars = append(series.Bars, bar)
	}

	r.log.DebugContext(ctx, "Fetched price history",
		logger.StringField("symbol", param.Symbol),
		logger.IntField("bars", len(series.Bars)))

	return series, nil
}

// sendRequest performs a rate-limited GET and returns the response body. It
// is shared by the Yahoo-backed repositories.
func sendRequest(ctx context.Context, client *http.Client, limiter *rate.Limiter, log *logger.Logger, url string) ([]byte, error) {
	if err := limiter.Wait(ctx); err != nil {
		log.ErrorContext(ctx, "Failed to wait for request limit", logger.ErrorField(err), logger.StringField("url", url))
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		log.ErrorContext(ctx, "Failed to create new http request", logger.ErrorField(err), logger.StringField("url", url))
		return nil, err
	}
	req.Header.Set("User-Agent", browserUserAgent)
	req.Header.Set("Accept", "application/json, text/plain, */*")

	resp, err := client.Do(req)
	if err != nil {
		log.ErrorContext(ctx, "Failed to send request", logger.ErrorField(err), logger.StringField("url", url))
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		log.ErrorContext(ctx, "Received non-OK response", logger.IntField("status_code", resp.StatusCode), logger.StringField("url", url))
		return nil, fmt.Errorf("unexpected status %d", resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		log.ErrorContext(ctx, "Failed to read response body", logger.ErrorField(err), logger.StringField("url", url))
		return nil, err
	}

	return body, nil
}
