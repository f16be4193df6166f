package entity

import "time"

// Criterion names one of the seven CANSLIM pillars.
type Criterion string

const (
	CriterionC Criterion = "C" // current quarterly earnings growth
	CriterionA Criterion = "A" // annual earnings growth
	CriterionN Criterion = "N" // new products / price leadership
	CriterionS Criterion = "S" // supply and demand
	CriterionL Criterion = "L" // leader or laggard (relative strength)
	CriterionI Criterion = "I" // institutional sponsorship
	CriterionM Criterion = "M" // market direction
)

// Criteria lists all seven criteria in canonical order.
var Criteria = []Criterion{
	CriterionC, CriterionA, CriterionN, CriterionS,
	CriterionL, CriterionI, CriterionM,
}

// CanslimSubScore is the result of one criterion evaluation. Value is on a
// 0-100 scale. Degraded marks a missing-data fallback.
type CanslimSubScore struct {
	Criterion Criterion          `json:"criterion"`
	Value     float64            `json:"value"`
	Detail    map[string]string  `json:"detail,omitempty"`
	Degraded  bool               `json:"degraded"`
}

// CanslimComposite is the weighted combination of all seven sub-scores for
// one symbol. Total is clamped to [0,100].
type CanslimComposite struct {
	Symbol    string                        `json:"symbol"`
	Total     float64                       `json:"total"`
	SubScores map[Criterion]CanslimSubScore `json:"sub_scores"`
	Weights   map[Criterion]float64         `json:"weights"`
}

// MarketDirection classifies the benchmark trend.
type MarketDirection string

const (
	MarketBullish MarketDirection = "Bullish"
	MarketBearish MarketDirection = "Bearish"
	MarketNeutral MarketDirection = "Neutral"
)

// MarketTrend is the benchmark trend computed once per scan run and shared
// read-only by every symbol's M evaluation. It is never persisted across runs.
type MarketTrend struct {
	Direction       MarketDirection `json:"direction"`
	Score           float64         `json:"score"`
	ReferenceSymbol string          `json:"reference_symbol"`
	ComputedAt      time.Time       `json:"computed_at"`
	Degraded        bool            `json:"degraded"`
}
