package config

import (
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"
)

func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil {
		// A missing .env is fine in production; everything can come from
		// the environment directly.
		log.Debug().Err(err).Msg("no .env file loaded")
	}

	strategy, err := LoadStrategy(envOr("STRATEGY_FILE", "strategy.yaml"))
	if err != nil {
		return nil, err
	}

	return &Config{
		Database: DatabaseConfig{
			Host:     envOr("DB_HOST", "localhost"),
			Port:     envToInt(envOr("DB_PORT", "5432")),
			User:     os.Getenv("DB_USER"),
			Password: os.Getenv("DB_PASSWORD"),
			DBName:   envOr("DB_NAME", "momentumbot"),
		},
		Portfolio: PortfolioConfig{
			BaseCurrency:       envOr("BASE_CURRENCY", "PLN"),
			SafeAsset:          envOr("SAFE_ASSET", "ZPR1.DE"),
			Benchmark:          envOr("BENCHMARK", "SPY"),
			Universe:           getUniverse(),
			TopN:               envToInt(envOr("TOP_N", "5")),
			ContributionAmount: envToFloat(envOr("CONTRIBUTION_AMOUNT", "2000")),
			ContributionDay:    envToInt(envOr("CONTRIBUTION_DAY", "10")),
			FXRates:            getFXRates(),
			PriceDataDir:       envOr("PRICE_DATA_DIR", "data/prices"),
		},
		Strategy: strategy,
	}, nil
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

// helper env(string) to int
func envToInt(s string) int {
	i, err := strconv.Atoi(s)
	if err != nil {
		return 0
	}
	return i
}

func envToFloat(s string) float64 {
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0
	}
	return f
}

// getFXRates parses FX_RATES, e.g. "USD=4.05,EUR=4.42".
func getFXRates() map[string]float64 {
	raw := os.Getenv("FX_RATES")
	if raw == "" {
		return nil
	}
	rates := make(map[string]float64)
	for _, pair := range strings.Split(raw, ",") {
		parts := strings.SplitN(strings.TrimSpace(pair), "=", 2)
		if len(parts) != 2 {
			continue
		}
		if rate, err := strconv.ParseFloat(parts[1], 64); err == nil && rate > 0 {
			rates[strings.ToUpper(parts[0])] = rate
		}
	}
	return rates
}

// helper to get the momentum universe
func getUniverse() []string {
	universe := os.Getenv("UNIVERSE")
	if universe == "" {
		// US mega-cap default universe
		return []string{"AAPL", "MSFT", "NVDA", "GOOGL", "AMZN", "AVGO", "META", "LLY", "JPM", "TSLA"}
	}
	tickers := strings.Split(universe, ",")
	for i := range tickers {
		tickers[i] = strings.TrimSpace(tickers[i])
	}
	return tickers
}
