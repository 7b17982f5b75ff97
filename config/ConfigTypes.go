package config

type Config struct {
	Database  DatabaseConfig
	Portfolio PortfolioConfig
	Strategy  StrategyConfig
}

type DatabaseConfig struct {
	Host     string
	Port     int
	User     string
	Password string
	DBName   string
}

type PortfolioConfig struct {
	// BaseCurrency is the currency equity and contributions are measured
	// in. PLN in the reference deployment.
	BaseCurrency string
	SafeAsset    string
	Benchmark    string
	Universe     []string
	TopN         int

	ContributionAmount float64
	ContributionDay    int

	// FXRates maps currency code to its rate into the base currency.
	FXRates map[string]float64

	PriceDataDir string
}

// StrategyConfig holds the variant axes of the strategy. Each axis is an
// explicit choice because the deployment history contains both values of
// every one of them.
type StrategyConfig struct {
	Regime struct {
		Rule           string `yaml:"rule"` // "sma" or "sma_and_roc"
		LongLookback   int    `yaml:"long_lookback"`
		ReturnLookback int    `yaml:"return_lookback"`
		UnknownPolicy  string `yaml:"unknown_policy"` // "bear" or "bull"
	} `yaml:"regime"`

	Momentum struct {
		Weights struct {
			ROC3  float64 `yaml:"roc3"`
			ROC6  float64 `yaml:"roc6"`
			ROC12 float64 `yaml:"roc12"`
		} `yaml:"weights"`
		SellFloorROC12 float64 `yaml:"sell_floor_roc12"`
	} `yaml:"momentum"`

	Allocation struct {
		Scheme    string  `yaml:"scheme"` // "equal" or "quality"
		MinWeight float64 `yaml:"min_weight"`
		MaxWeight float64 `yaml:"max_weight"`
	} `yaml:"allocation"`

	Rebalance struct {
		Mode   string `yaml:"mode"`   // "full" or "incremental"
		Sizing string `yaml:"sizing"` // "whole" or "fractional"
	} `yaml:"rebalance"`
}
