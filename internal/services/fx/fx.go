package fx

import (
	"strings"

	"github.com/rs/zerolog/log"
)

// RateProvider returns the conversion rate from a quote currency into the
// base currency: units of base per one unit of the quoted currency.
type RateProvider interface {
	Rate(currency string) float64
}

// FallbackRates are last-resort conversion rates into PLN, used when no
// fresher quote is configured.
var FallbackRates = map[string]float64{
	"USD": 4.00,
	"EUR": 4.40,
}

// StaticProvider serves a fixed rate table. An unknown currency resolves to
// 1.0 with a warning: a bad universe entry must not abort a rebalance, but
// it can no longer be told apart from a base-currency instrument.
type StaticProvider struct {
	base  string
	rates map[string]float64
}

// NewStaticProvider creates a provider for the given base currency. The
// base itself always converts at 1.0.
func NewStaticProvider(base string, rates map[string]float64) *StaticProvider {
	p := &StaticProvider{
		base:  strings.ToUpper(base),
		rates: make(map[string]float64, len(rates)+1),
	}
	for ccy, rate := range rates {
		p.rates[strings.ToUpper(ccy)] = rate
	}
	p.rates[p.base] = 1.0
	return p
}

func (p *StaticProvider) Rate(currency string) float64 {
	if rate, ok := p.rates[strings.ToUpper(currency)]; ok {
		return rate
	}
	log.Warn().
		Str("currency", currency).
		Str("base", p.base).
		Msg("no FX rate configured, assuming base currency")
	return 1.0
}

// DetectCurrency guesses the quote currency from the ticker suffix:
// Xetra listings trade in EUR, Warsaw listings in PLN, everything else is
// assumed to be a US listing in USD.
func DetectCurrency(ticker string) string {
	switch {
	case strings.HasSuffix(ticker, ".DE"):
		return "EUR"
	case strings.HasSuffix(ticker, ".PL"), strings.HasSuffix(ticker, ".WA"):
		return "PLN"
	default:
		return "USD"
	}
}
