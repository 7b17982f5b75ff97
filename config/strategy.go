package config

import (
	"fmt"
	"os"

	"github.com/rs/zerolog/log"
	"gopkg.in/yaml.v3"
)

// LoadStrategy reads the strategy variant file. A missing file yields the
// defaults with a warning; a malformed file is an error.
func LoadStrategy(path string) (StrategyConfig, error) {
	strategy := defaultStrategy()

	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		log.Warn().Str("path", path).Msg("strategy file not found, using defaults")
		return strategy, nil
	}
	if err != nil {
		return strategy, fmt.Errorf("read strategy file: %w", err)
	}

	if err := yaml.Unmarshal(data, &strategy); err != nil {
		return strategy, fmt.Errorf("parse strategy file %s: %w", path, err)
	}
	return strategy, nil
}

func defaultStrategy() StrategyConfig {
	var s StrategyConfig
	s.Regime.Rule = "sma_and_roc"
	s.Regime.LongLookback = 200
	s.Regime.ReturnLookback = 252
	s.Regime.UnknownPolicy = "bear"
	s.Momentum.Weights.ROC3 = 0.3
	s.Momentum.Weights.ROC6 = 0.3
	s.Momentum.Weights.ROC12 = 0.4
	s.Momentum.SellFloorROC12 = -5.0
	s.Allocation.Scheme = "equal"
	s.Allocation.MinWeight = 0.02
	s.Allocation.MaxWeight = 0.25
	s.Rebalance.Mode = "full"
	s.Rebalance.Sizing = "whole"
	return s
}
