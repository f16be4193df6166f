package repository

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"golang-canslim-screener/internal/entity"
	"golang-canslim-screener/internal/screener/config"
	"golang-canslim-screener/pkg/logger"
	"golang-canslim-screener/pkg/utils"
)

// ReportRepository serializes a finished scan for the user: a CSV export of
// the ranked composites plus derived per-symbol signal columns. The scoring
// core itself performs no file I/O.
type ReportRepository interface {
	ExportCSV(report *entity.ScanReport) (string, error)
}

type reportRepository struct {
	cfg *config.Config
	log *logger.Logger
}

// NewReportRepository creates a CSV report repository.
func NewReportRepository(cfg *config.Config, log *logger.Logger) ReportRepository {
	return &reportRepository{cfg: cfg, log: log}
}

func (r *reportRepository) ExportCSV(report *entity.ScanReport) (string, error) {
	if err := os.MkdirAll(r.cfg.Export.Dir, 0o755); err != nil {
		return "", err
	}
	path := filepath.Join(r.cfg.Export.Dir,
		fmt.Sprintf("momentum_opportunities_%s.csv", utils.FormatTimestamp(time.Now())))

	f, err := os.Create(path)
	if err != nil {
		return "", err
	}
	defer f.Close()

	w := csv.NewWriter(f)
	defer w.Flush()

	header := []string{
		"Symbol", "Canslim_Score", "RS_Score", "Trend_Score",
		"Current_Price", "Current_RSI",
		"EMA_8_Adherence", "EMA_21_Adherence", "Higher_Highs", "Higher_Lows",
		"Entry_Signals_Count", "Latest_Signal_Date", "Latest_Signal_Type",
		"Latest_Signal_Price", "Latest_Signal_RSI",
		"Degraded_Criteria",
	}
	if err := w.Write(header); err != nil {
		return "", err
	}

	for _, result := range report.Ranked {
		row := []string{
			result.Symbol,
			formatFloat(result.Composite.Total),
			formatFloat(result.RS.Value),
			formatFloat(result.Trend.Score),
			formatFloat(result.CurrentPrice),
			formatFloat(result.CurrentRSI),
			formatFloat(result.Trend.EMA8AdherencePct),
			formatFloat(result.Trend.EMA21AdherencePct),
			strconv.FormatBool(result.Trend.HigherHighs),
			strconv.FormatBool(result.Trend.HigherLows),
			strconv.Itoa(len(result.EntrySignals)),
		}
		if n := len(result.EntrySignals); n > 0 {
			latest := result.EntrySignals[n-1]
			row = append(row,
				utils.FormatDate(latest.Date),
				string(latest.Type),
				formatFloat(latest.ClosePrice),
				formatFloat(latest.RSI))
		} else {
			row = append(row, "", "", "", "")
		}
		row = append(row, degradedCriteria(result.Composite))

		if err := w.Write(row); err != nil {
			return "", err
		}
	}

	w.Flush()
	if err := w.Error(); err != nil {
		return "", err
	}

	r.log.Info("Results exported",
		logger.StringField("path", path),
		logger.IntField("rows", len(report.Ranked)))
	return path, nil
}

func degradedCriteria(composite *entity.CanslimComposite) string {
	var degraded string
	for _, criterion := range entity.Criteria {
		if sub, ok := composite.SubScores[criterion]; ok && sub.Degraded {
			degraded += string(criterion)
		}
	}
	return degraded
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', 2, 64)
}
