package models

// MomentumRecord is one ticker's trailing returns and composite score as of
// a decision date. Returns are in percent.
type MomentumRecord struct {
	Ticker string
	ROC3   float64
	ROC6   float64
	ROC12  float64
	Score  float64
}

// AllocationTarget is one row of a target allocation table. Weights across
// a non-empty table sum to 1.0.
type AllocationTarget struct {
	Ticker          string
	Currency        string
	Weight          float64
	TargetValueBase float64 // in base currency
	TargetValueCcy  float64 // in the ticker's quote currency
}
