package repository

import (
	"context"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"golang-canslim-screener/internal/screener/config"
	"golang-canslim-screener/pkg/common"
	"golang-canslim-screener/pkg/logger"

	"github.com/PuerkitoBio/goquery"
	gocache "github.com/patrickmn/go-cache"
)

// UniverseRepository resolves a ticker universe selector into a symbol list.
// Supported selectors: "custom", "wikipedia" and "index:<sp500|nasdaq100|russell2000>".
type UniverseRepository interface {
	GetUniverse(ctx context.Context, selector string) ([]string, error)
}

// isharesHoldingsURL maps index names to the iShares ETF holdings CSV downloads.
var isharesHoldingsURL = map[string]string{
	"sp500":       "https://www.ishares.com/us/products/239726/ishares-core-sp-500-etf/1467271812596.ajax?fileType=csv&fileName=IVV_holdings&dataType=fund",
	"nasdaq100":   "https://www.ishares.com/us/products/239696/ishares-nasdaq-100-etf/1467271812596.ajax?fileType=csv&fileName=QQQ_holdings&dataType=fund",
	"russell2000": "https://www.ishares.com/us/products/239710/ishares-russell-2000-etf/1467271812596.ajax?fileType=csv&fileName=IWM_holdings&dataType=fund",
}

const wikipediaSP500URL = "https://en.wikipedia.org/wiki/List_of_S%26P_500_companies"

// tickerColumnCandidates are the column names an iShares holdings CSV may
// use for the ticker field.
var tickerColumnCandidates = []string{"Ticker", "ticker", "Symbol", "symbol", "Constituent Symbol"}

// fallbackTickers is used when a remote universe source cannot be fetched
// or parsed.
var fallbackTickers = []string{"AAPL", "MSFT", "NVDA", "AMZN", "GOOGL"}

type cachedUniverse struct {
	FetchedAt time.Time `json:"fetched_at"`
	Symbols   []string  `json:"symbols"`
}

type universeRepository struct {
	cfg        *config.Config
	log        *logger.Logger
	httpClient *http.Client
	memCache   *gocache.Cache
}

// NewUniverseRepository creates a universe repository with an in-memory TTL
// cache in front of the on-disk daily cache.
func NewUniverseRepository(cfg *config.Config, log *logger.Logger) UniverseRepository {
	return &universeRepository{
		cfg: cfg,
		log: log,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
		memCache: gocache.New(cfg.Universe.CacheTTL, 10*time.Minute),
	}
}

func (r *universeRepository) GetUniverse(ctx context.Context, selector string) ([]string, error) {
	if selector == "custom" {
		if len(r.cfg.Universe.Custom) == 0 {
			return nil, fmt.Errorf("%w: custom universe selected but no symbols configured", common.ErrDataUnavailable)
		}
		return r.cfg.Universe.Custom, nil
	}

	if cached, found := r.memCache.Get(selector); found {
		return cached.([]string), nil
	}
	if symbols, ok := r.readDiskCache(selector); ok {
		r.memCache.Set(selector, symbols, gocache.DefaultExpiration)
		return symbols, nil
	}

	var symbols []string
	var err error
	switch {
	case selector == "wikipedia":
		symbols, err = r.fetchWikipediaSP500(ctx)
	case strings.HasPrefix(selector, "index:"):
		symbols, err = r.fetchIsharesIndex(ctx, strings.TrimPrefix(selector, "index:"))
	default:
		return nil, fmt.Errorf("%w: unknown universe selector %q", common.ErrDataUnavailable, selector)
	}
	if err != nil {
		r.log.WarnContext(ctx, "Universe fetch failed, using fallback tickers",
			logger.StringField("selector", selector), logger.ErrorField(err))
		return fallbackTickers, nil
	}

	r.memCache.Set(selector, symbols, gocache.DefaultExpiration)
	r.writeDiskCache(selector, symbols)
	return symbols, nil
}

func (r *universeRepository) fetchIsharesIndex(ctx context.Context, index string) ([]string, error) {
	url, ok := isharesHoldingsURL[index]
	if !ok {
		return nil, fmt.Errorf("unknown index %q", index)
	}

	body, err := r.get(ctx, url)
	if err != nil {
		return nil, err
	}

	symbols, err := parseHoldingsCSV(string(body))
	if err != nil {
		return nil, fmt.Errorf("parse %s holdings: %w", index, err)
	}

	r.log.InfoContext(ctx, "Fetched index constituents",
		logger.StringField("index", index), logger.IntField("tickers", len(symbols)))
	return symbols, nil
}

// parseHoldingsCSV extracts ticker symbols from an iShares holdings CSV. The
// file carries several preamble lines before the real header row, so the
// header is located by scanning for a known ticker column name.
func parseHoldingsCSV(content string) ([]string, error) {
	lines := strings.Split(content, "\n")
	headerIdx := -1
	for i, line := range lines {
		lower := strings.ToLower(line)
		for _, candidate := range tickerColumnCandidates {
			if strings.Contains(lower, strings.ToLower(candidate)) {
				headerIdx = i
				break
			}
		}
		if headerIdx >= 0 {
			break
		}
	}
	if headerIdx < 0 {
		return nil, fmt.Errorf("no ticker header row found")
	}

	reader := csv.NewReader(strings.NewReader(strings.Join(lines[headerIdx:], "\n")))
	reader.FieldsPerRecord = -1

	records, err := reader.ReadAll()
	if err != nil {
		return nil, err
	}
	if len(records) < 2 {
		return nil, fmt.Errorf("holdings CSV has no data rows")
	}

	tickerCol := -1
	for col, name := range records[0] {
		trimmed := strings.ToLower(strings.TrimSpace(name))
		if trimmed == "ticker" || trimmed == "symbol" || strings.Contains(trimmed, "ticker") || strings.Contains(trimmed, "symbol") {
			tickerCol = col
			break
		}
	}
	if tickerCol < 0 {
		return nil, fmt.Errorf("no ticker column in header %v", records[0])
	}

	var symbols []string
	for _, record := range records[1:] {
		if tickerCol >= len(record) {
			continue
		}
		symbol := cleanTicker(record[tickerCol])
		if symbol != "" {
			symbols = append(symbols, symbol)
		}
	}
	if len(symbols) == 0 {
		return nil, fmt.Errorf("parsed 0 tickers")
	}
	return symbols, nil
}

func (r *universeRepository) fetchWikipediaSP500(ctx context.Context) ([]string, error) {
	body, err := r.get(ctx, wikipediaSP500URL)
	if err != nil {
		return nil, err
	}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(string(body)))
	if err != nil {
		return nil, err
	}

	var symbols []string
	doc.Find("table#constituents tbody tr td:first-child").Each(func(_ int, cell *goquery.Selection) {
		symbol := cleanTicker(cell.Text())
		if symbol != "" {
			symbols = append(symbols, symbol)
		}
	})
	if len(symbols) == 0 {
		return nil, fmt.Errorf("no constituents table found")
	}

	r.log.InfoContext(ctx, "Fetched S&P 500 constituents from Wikipedia",
		logger.IntField("tickers", len(symbols)))
	return symbols, nil
}

// cleanTicker normalizes one raw ticker cell: class shares use "-" on Yahoo
// ("BRK.B" -> "BRK-B") and anything that is not letters/dash is discarded.
// Cash and collateral placeholder rows ("--") carry no letters and are
// dropped.
func cleanTicker(raw string) string {
	symbol := strings.ReplaceAll(strings.TrimSpace(raw), ".", "-")
	hasLetter := false
	for _, r := range symbol {
		switch {
		case (r >= 'A' && r <= 'Z') || (r >= 'a' && r <= 'z'):
			hasLetter = true
		case r == '-':
		default:
			return ""
		}
	}
	if !hasLetter {
		return ""
	}
	return strings.ToUpper(symbol)
}

func (r *universeRepository) get(ctx context.Context, url string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("User-Agent", browserUserAgent)

	resp, err := r.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected status %d from %s", resp.StatusCode, url)
	}

	return io.ReadAll(resp.Body)
}

func (r *universeRepository) cachePath(selector string) string {
	name := strings.ReplaceAll(selector, ":", "_")
	return filepath.Join(r.cfg.Universe.CacheDir, name+"_tickers.json")
}

func (r *universeRepository) readDiskCache(selector string) ([]string, bool) {
	data, err := os.ReadFile(r.cachePath(selector))
	if err != nil {
		return nil, false
	}
	var cached cachedUniverse
	if err := json.Unmarshal(data, &cached); err != nil {
		return nil, false
	}
	if time.Since(cached.FetchedAt) > r.cfg.Universe.CacheTTL || len(cached.Symbols) == 0 {
		return nil, false
	}
	return cached.Symbols, true
}

func (r *universeRepository) writeDiskCache(selector string, symbols []string) {
	if err := os.MkdirAll(r.cfg.Universe.CacheDir, 0o755); err != nil {
		r.log.Warn("Failed to create universe cache dir", logger.ErrorField(err))
		return
	}
	data, err := json.Marshal(cachedUniverse{FetchedAt: time.Now(), Symbols: symbols})
	if err != nil {
		return
	}
	if err := os.WriteFile(r.cachePath(selector), data, 0o644); err != nil {
		r.log.Warn("Failed to write universe cache", logger.ErrorField(err))
	}
}
