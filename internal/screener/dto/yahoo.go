package dto

// GetHistoryParam identifies one price history request.
type GetHistoryParam struct {
	Symbol       string
	LookbackDays int
}

// ChartResponse mirrors the Yahoo Finance v8 chart API payload.
type ChartResponse struct {
	Chart struct {
		Result []ChartResult `json:"result"`
		Error  *YahooError   `json:"error"`
	} `json:"chart"`
}

// ChartResult is one symbol's chart data.
type ChartResult struct {
	Meta struct {
		Symbol   string `json:"symbol"`
		Currency string `json:"currency"`
	} `json:"meta"`
	Timestamp  []int64 `json:"timestamp"`
	Indicators struct {
		Quote []struct {
			Open   []*float64 `json:"open"`
			High   []*float64 `json:"high"`
			Low    []*float64 `json:"low"`
			Close  []*float64 `json:"close"`
			Volume []*int64   `json:"volume"`
		} `json:"quote"`
		AdjClose []struct {
			AdjClose []*float64 `json:"adjclose"`
		} `json:"adjclose"`
	} `json:"indicators"`
}

// YahooError is the error envelope Yahoo returns inside a 200 response.
type YahooError struct {
	Code        string `json:"code"`
	Description string `json:"description"`
}

// RawValue is Yahoo's number wrapper ({"raw": 0.25, "fmt": "25.00%"}).
type RawValue struct {
	Raw *float64 `json:"raw"`
}

// QuoteSummaryResponse mirrors the v10 quoteSummary payload for the modules
// the fundamentals provider requests.
type QuoteSummaryResponse struct {
	QuoteSummary struct {
		Result []QuoteSummaryResult `json:"result"`
		Error  *YahooError          `json:"error"`
	} `json:"quoteSummary"`
}

// QuoteSummaryResult holds the per-module fundamental blocks.
type QuoteSummaryResult struct {
	DefaultKeyStatistics struct {
		SharesOutstanding        RawValue `json:"sharesOutstanding"`
		HeldPercentInstitutions  RawValue `json:"heldPercentInstitutions"`
	} `json:"defaultKeyStatistics"`
	FinancialData struct {
		EarningsGrowth  RawValue `json:"earningsGrowth"`
		RevenueGrowth   RawValue `json:"revenueGrowth"`
	} `json:"financialData"`
	SummaryDetail struct {
		AverageVolume RawValue `json:"averageVolume"`
		MarketCap     RawValue `json:"marketCap"`
	} `json:"summaryDetail"`
	EarningsTrend struct {
		Trend []struct {
			Period string   `json:"period"`
			Growth RawValue `json:"growth"`
		} `json:"trend"`
	} `json:"earningsTrend"`
}
