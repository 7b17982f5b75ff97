package allocation

import (
	"math"

	"MomentumBot/internal/models"
	"MomentumBot/internal/services/fx"
)

// Scheme selects how BULL-regime weights are assigned.
type Scheme string

const (
	// SchemeEqual assigns 1/N to each selected candidate.
	SchemeEqual Scheme = "equal"
	// SchemeQuality weights candidates by score, clamped to a floor and cap
	// and renormalized to sum 1.
	SchemeQuality Scheme = "quality"
)

// UnknownPolicy decides how an UNKNOWN regime is allocated. The detector
// never defaults it; the choice is made here, explicitly.
type UnknownPolicy string

const (
	UnknownAsBear UnknownPolicy = "bear"
	UnknownAsBull UnknownPolicy = "bull"
)

const (
	DefaultMinWeight = 0.02
	DefaultMaxWeight = 0.25
)

// Builder turns (regime, ranked candidates, equity, FX) into a target
// allocation table.
type Builder struct {
	scheme    Scheme
	unknown   UnknownPolicy
	minWeight float64
	maxWeight float64
}

func NewBuilder(scheme Scheme, unknown UnknownPolicy) *Builder {
	if scheme == "" {
		scheme = SchemeEqual
	}
	if unknown == "" {
		unknown = UnknownAsBear
	}
	return &Builder{
		scheme:    scheme,
		unknown:   unknown,
		minWeight: DefaultMinWeight,
		maxWeight: DefaultMaxWeight,
	}
}

// SetWeightBounds overrides the quality-scheme floor and cap.
func (b *Builder) SetWeightBounds(min, max float64) {
	if min > 0 {
		b.minWeight = min
	}
	if max > 0 {
		b.maxWeight = max
	}
}

// Build returns the target allocation for the given equity. BEAR (and
// UNKNOWN under the bear policy) puts everything into the safe asset; so
// does BULL with no candidates. The result is never empty when equity > 0
// and its weights sum to 1.
func (b *Builder) Build(
	equityBase float64,
	regime models.Regime,
	candidates []models.MomentumRecord,
	topN int,
	rates fx.RateProvider,
	safeAsset string,
) []models.AllocationTarget {
	if equityBase <= 0 {
		return nil
	}

	bull := regime == models.RegimeBull ||
		(regime == models.RegimeUnknown && b.unknown == UnknownAsBull)

	if !bull || len(candidates) == 0 {
		return []models.AllocationTarget{b.target(safeAsset, 1.0, equityBase, rates)}
	}

	if topN > 0 && topN < len(candidates) {
		candidates = candidates[:topN]
	}

	var weights []float64
	if b.scheme == SchemeQuality {
		weights = b.qualityWeights(candidates)
	} else {
		weights = equalWeights(len(candidates))
	}

	targets := make([]models.AllocationTarget, 0, len(candidates))
	for i, c := range candidates {
		targets = append(targets, b.target(c.Ticker, weights[i], equityBase, rates))
	}
	return targets
}

func (b *Builder) target(ticker string, weight, equityBase float64, rates fx.RateProvider) models.AllocationTarget {
	ccy := fx.DetectCurrency(ticker)
	rate := rates.Rate(ccy)
	valueBase := equityBase * weight
	return models.AllocationTarget{
		Ticker:          ticker,
		Currency:        ccy,
		Weight:          weight,
		TargetValueBase: valueBase,
		TargetValueCcy:  valueBase / rate,
	}
}

func equalWeights(n int) []float64 {
	weights := make([]float64, n)
	for i := range weights {
		weights[i] = 1.0 / float64(n)
	}
	return weights
}

// qualityWeights makes weights proportional to score, clamps them to the
// configured floor and cap, then renormalizes to sum 1. Non-positive scores
// are lifted to a small positive value first so every selected candidate
// keeps a slot.
func (b *Builder) qualityWeights(candidates []models.MomentumRecord) []float64 {
	weights := make([]float64, len(candidates))
	sum := 0.0
	for i, c := range candidates {
		weights[i] = math.Max(c.Score, 0.01)
		sum += weights[i]
	}
	for i := range weights {
		weights[i] /= sum
	}

	clampedSum := 0.0
	for i := range weights {
		weights[i] = math.Min(math.Max(weights[i], b.minWeight), b.maxWeight)
		clampedSum += weights[i]
	}
	for i := range weights {
		weights[i] /= clampedSum
	}
	return weights
}
