// Package currency converts extracted receipt amounts into the reporting
// base currency. Conversion is best-effort by design: a live rate is
// preferred, a static fallback table covers provider failures, and an
// unknown currency passes the amount through unchanged. ToBase never fails.
package currency

import (
	"context"
	"strings"
	"time"

	"go.uber.org/zap"
)

// RateProvider supplies a conversion multiplier from one currency to
// another. Implementations are expected to honor context cancellation.
type RateProvider interface {
	Rate(ctx context.Context, from, to string) (float64, error)
}

// symbolToCode maps currency symbols to their ISO codes so that "£" and
// "GBP" are treated as the same currency everywhere.
var symbolToCode = map[string]string{
	"£": "GBP",
	"$": "USD",
	"€": "EUR",
}

// CanonicalCode normalizes a currency token (symbol or code) to an
// upper-case ISO code.
func CanonicalCode(token string) string {
	if code, ok := symbolToCode[token]; ok {
		return code
	}
	return strings.ToUpper(strings.TrimSpace(token))
}

// DefaultFallbackRates returns the approximate rates-to-GBP used when the
// live lookup is unavailable.
func DefaultFallbackRates() map[string]float64 {
	return map[string]float64{
		"USD": 0.79,
		"EUR": 0.85,
		"AED": 0.22,
		"OMR": 2.07,
		"KWD": 2.58,
		"CAD": 0.58,
		"AUD": 0.52,
		"JPY": 0.0054,
		"GBP": 1.0,
	}
}

// Config holds converter settings.
type Config struct {
	// BaseCurrency is the currency all amounts are converted into.
	BaseCurrency string

	// LookupTimeout bounds a single live rate lookup.
	LookupTimeout time.Duration

	// FallbackRates maps ISO codes to approximate to-base rates. Defaults
	// to DefaultFallbackRates when empty.
	FallbackRates map[string]float64
}

// Converter converts amounts into the base currency using a live rate
// provider with a static fallback table.
type Converter struct {
	provider RateProvider
	base     string
	fallback map[string]float64
	timeout  time.Duration
	logger   *zap.Logger
}

// NewConverter creates a converter. The fallback table is copied so later
// mutation of the config map cannot change conversion behavior. A nil
// provider is allowed and routes every conversion through the fallback
// table.
func NewConverter(provider RateProvider, cfg Config, logger *zap.Logger) *Converter {
	base := cfg.BaseCurrency
	if base == "" {
		base = "GBP"
	}

	timeout := cfg.LookupTimeout
	if timeout <= 0 {
		timeout = 5 * time.Second
	}

	rates := cfg.FallbackRates
	if len(rates) == 0 {
		rates = DefaultFallbackRates()
	}
	fallback := make(map[string]float64, len(rates))
	for code, rate := range rates {
		fallback[CanonicalCode(code)] = rate
	}

	return &Converter{
		provider: provider,
		base:     CanonicalCode(base),
		fallback: fallback,
		timeout:  timeout,
		logger:   logger,
	}
}

// BaseCurrency returns the ISO code amounts are converted into.
func (c *Converter) BaseCurrency() string {
	return c.base
}

// ToBase converts amount from fromCurrency into the base currency. Same
// currency (including symbol/code equivalence) returns the amount unchanged
// without touching the provider. Any lookup failure degrades to the
// fallback table, and a currency absent from the table passes through at
// rate 1.0. ToBase never returns an error to the caller.
func (c *Converter) ToBase(ctx context.Context, amount float64, fromCurrency string) float64 {
	from := CanonicalCode(fromCurrency)
	if from == c.base {
		return amount
	}

	if c.provider != nil {
		lookupCtx, cancel := context.WithTimeout(ctx, c.timeout)
		rate, err := c.provider.Rate(lookupCtx, from, c.base)
		cancel()
		if err == nil && rate > 0 {
			return amount * rate
		}
		if err != nil {
			c.logger.Warn("Live rate lookup failed, using fallback rate",
				zap.String("from", from),
				zap.String("to", c.base),
				zap.Error(err))
		}
	}

	if rate, ok := c.fallback[from]; ok {
		return amount * rate
	}

	c.logger.Warn("Currency missing from fallback table, passing amount through",
		zap.String("from", from))
	return amount
}
