package utils

import (
	"time"
)

// FormatDate renders a time as YYYY-MM-DD, the format used in reports and
// CSV exports.
func FormatDate(t time.Time) string {
	return t.Format("2006-01-02")
}

// FormatTimestamp renders a time suitable for export file names.
func FormatTimestamp(t time.Time) string {
	return t.Format("20060102_150405")
}
