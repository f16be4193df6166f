package common

const (
	// DefaultBenchmarkSymbol is the benchmark used for relative strength and
	// market direction when none is configured.
	DefaultBenchmarkSymbol = "SPY"

	// TradingDaysPerYear is the number of trading days used for annualized
	// figures and the 52-week rolling window.
	TradingDaysPerYear = 252

	// TradingDaysPerQuarter approximates one quarter of trading days.
	TradingDaysPerQuarter = 63
)
