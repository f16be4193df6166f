package entity

// SymbolState tracks one symbol through the screening pipeline.
type SymbolState string

const (
	StatePending   SymbolState = "Pending"
	StateValidated SymbolState = "Validated"
	StateScored    SymbolState = "Scored"
	StateAccepted  SymbolState = "Accepted"
	StateRejected  SymbolState = "Rejected"
	StateFailed    SymbolState = "Failed"
)

// ScanResult is the full per-symbol outcome of one screening pass.
type ScanResult struct {
	Symbol       string           `json:"symbol"`
	State        SymbolState      `json:"state"`
	FailReason   string           `json:"fail_reason,omitempty"`
	RS           *RSScore         `json:"rs,omitempty"`
	Trend        *TrendScore      `json:"trend,omitempty"`
	Composite    *CanslimComposite `json:"composite,omitempty"`
	EntrySignals []EntrySignal    `json:"entry_signals,omitempty"`
	CurrentPrice float64          `json:"current_price,omitempty"`
	CurrentRSI   float64          `json:"current_rsi,omitempty"`
}

// ScanStats aggregates the batch outcome. Rejected and failed symbols are
// counted even though they are excluded from the ranked output.
type ScanStats struct {
	Analyzed      int `json:"analyzed"`
	Failed        int `json:"failed"`
	Opportunities int `json:"opportunities"`
}

// ScanReport is the final output of a screening run: the accepted set sorted
// by composite score descending (ties broken by RS descending) plus stats.
type ScanReport struct {
	Ranked      []*ScanResult `json:"ranked"`
	Stats       ScanStats     `json:"stats"`
	MarketTrend MarketTrend   `json:"market_trend"`
}
