package models

// Regime is the macro trend classification of the benchmark index.
type Regime string

const (
	RegimeBull    Regime = "BULL"
	RegimeBear    Regime = "BEAR"
	RegimeUnknown Regime = "UNKNOWN"
)
