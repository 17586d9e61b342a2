package services

import (
	"math/rand/v2"
	"time"

	"github.com/SscSPs/country_currency_api/internal/core/domain"
	"github.com/SscSPs/country_currency_api/internal/core/ports"
	"github.com/shopspring/decimal"
)

const (
	MinGDPMultiplier = 1000
	MaxGDPMultiplier = 2000

	gdpScale = 2
)

type randomMultiplier struct{}

// NewRandomMultiplier returns a MultiplierSource drawing uniformly from
// [MinGDPMultiplier, MaxGDPMultiplier], both bounds inclusive.
func NewRandomMultiplier() ports.MultiplierSource {
	return randomMultiplier{}
}

func (randomMultiplier) Multiplier() int64 {
	return MinGDPMultiplier + rand.Int64N(MaxGDPMultiplier-MinGDPMultiplier+1)
}

// FixedMultiplier always yields the same multiplier.
type FixedMultiplier int64

func (f FixedMultiplier) Multiplier() int64 { return int64(f) }

// DeriveCountry joins one upstream country with the rate lookup.
// The first listed currency wins; its rate is looked up by exact code.
func DeriveCountry(ext domain.ExternalCountry, rates map[string]decimal.Decimal, multipliers ports.MultiplierSource, refreshedAt time.Time) domain.DerivedCountry {
	derived := domain.DerivedCountry{
		Name:            ext.Name,
		Capital:         ext.Capital,
		Region:          ext.Region,
		Population:      ext.Population,
		FlagURL:         ext.Flag,
		LastRefreshedAt: refreshedAt,
	}

	if len(ext.Currencies) > 0 && ext.Currencies[0].Code != nil {
		code := *ext.Currencies[0].Code
		derived.CurrencyCode = &code
		if rate, ok := rates[code]; ok {
			r := rate
			derived.ExchangeRate = &r
		}
	}

	derived.EstimatedGDP = EstimateGDP(ext.Population, derived.ExchangeRate, multipliers)
	return derived
}

// EstimateGDP returns population * multiplier / rate rounded to two places,
// or nil when the rate is absent or zero.
func EstimateGDP(population int64, rate *decimal.Decimal, multipliers ports.MultiplierSource) *decimal.Decimal {
	if rate == nil || rate.IsZero() {
		return nil
	}
	gdp := decimal.NewFromInt(population).
		Mul(decimal.NewFromInt(multipliers.Multiplier())).
		DivRound(*rate, gdpScale+8).
		Round(gdpScale)
	return &gdp
}
