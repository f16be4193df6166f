package entity

// Metric is an optional fundamental value. Providers frequently return
// partial records, so every sub-scorer matches on presence instead of
// probing for zero values.
type Metric struct {
	Value float64
	Valid bool
}

// MetricOf wraps a present value.
func MetricOf(v float64) Metric {
	return Metric{Value: v, Valid: true}
}

// Fundamentals is the per-symbol fundamental snapshot consumed by the
// CANSLIM sub-scorers. Any field may be absent.
type Fundamentals struct {
	Symbol string

	// QuarterlyEPSGrowth is the most recent quarter-over-quarter EPS growth
	// as a decimal (0.25 = 25%).
	QuarterlyEPSGrowth Metric

	// AnnualEPSGrowth is the most recent year-over-year EPS growth.
	AnnualEPSGrowth Metric

	// RevenueGrowth is the most recent year-over-year quarterly revenue growth.
	RevenueGrowth Metric

	// InstitutionalOwnershipPct is the fraction of shares held by
	// institutions (0-1).
	InstitutionalOwnershipPct Metric

	SharesOutstanding Metric
	AvgVolume50D      Metric
	MarketCap         Metric
}
