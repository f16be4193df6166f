package dto

// RawBar is one uncleaned OHLCV row as delivered by a price provider.
// Any field may be missing; dates may repeat or arrive out of order.
type RawBar struct {
	Timestamp int64
	Open      *float64
	High      *float64
	Low       *float64
	Close     *float64
	AdjClose  *float64
	Volume    *int64
}

// RawSeries is the uncleaned price history for one symbol, the input to the
// price series normalizer.
type RawSeries struct {
	Symbol string
	Bars   []RawBar
}
