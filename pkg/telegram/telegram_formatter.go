package telegram

import (
	"fmt"
	"strings"

	"golang-canslim-screener/internal/entity"
)

// FormatScanReport formats a screening report into one or more Markdown
// strings for Telegram, ensuring each message does not exceed the maximum
// message length.
func FormatScanReport(report *entity.ScanReport) []string {
	if report == nil || len(report.Ranked) == 0 {
		return []string{"No momentum opportunities found in today's scan."}
	}

	const maxLen = 4090
	var messages []string
	var currentMessage strings.Builder
	part := 1

	startNewPart := func() {
		currentMessage.Reset()
		if part == 1 {
			currentMessage.WriteString("📊 *Momentum Scan Results* 📊\n\n")
			currentMessage.WriteString(fmt.Sprintf("%s *Market:* %s (%.0f)\n",
				directionIcon(report.MarketTrend.Direction),
				report.MarketTrend.Direction, report.MarketTrend.Score))
			currentMessage.WriteString(fmt.Sprintf("🔎 Analyzed %d symbols, %d failed, %d opportunities\n\n",
				report.Stats.Analyzed, report.Stats.Failed, report.Stats.Opportunities))
		} else {
			currentMessage.WriteString(fmt.Sprintf("---*Momentum Scan Results Part %d*---\n\n", part))
		}
	}

	startNewPart()

	for rank, result := range report.Ranked {
		entry := formatResult(rank+1, result)
		if currentMessage.Len()+len(entry) > maxLen {
			messages = append(messages, currentMessage.String())
			part++
			startNewPart()
		}
		currentMessage.WriteString(entry)
	}

	if currentMessage.Len() > 0 {
		messages = append(messages, currentMessage.String())
	}
	return messages
}

func formatResult(rank int, result *entity.ScanResult) string {
	var b strings.Builder
	b.WriteString(fmt.Sprintf("📈 *%d. %s* | Score %.1f\n", rank, result.Symbol, result.Composite.Total))
	if result.RS != nil {
		b.WriteString(fmt.Sprintf("    RS: %.1f", result.RS.Value))
	}
	if result.Trend != nil {
		b.WriteString(fmt.Sprintf(" | Trend: %.0f", result.Trend.Score))
	}
	b.WriteString(fmt.Sprintf(" | Price: %.2f | RSI: %.1f\n", result.CurrentPrice, result.CurrentRSI))

	if len(result.EntrySignals) > 0 {
		latest := result.EntrySignals[len(result.EntrySignals)-1]
		b.WriteString(fmt.Sprintf("    🎯 Entry: %s (%s)\n", latest.Type, latest.Date.Format("2006-01-02")))
	}
	b.WriteString("\n")
	return b.String()
}

func directionIcon(direction entity.MarketDirection) string {
	switch direction {
	case entity.MarketBullish:
		return "🐂"
	case entity.MarketBearish:
		return "🐻"
	default:
		return "😐"
	}
}
