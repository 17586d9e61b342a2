package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Country is the row shape of the countries table.
// Nullable columns use pointer or Null* types so NULL survives a round trip.
type Country struct {
	ID              int64               `json:"id"`
	Name            string              `json:"name"`
	Capital         *string             `json:"capital"`
	Region          *string             `json:"region"`
	Population      int64               `json:"population"`
	CurrencyCode    *string             `json:"currencyCode"`
	ExchangeRate    decimal.NullDecimal `json:"exchangeRate"`
	EstimatedGDP    decimal.NullDecimal `json:"estimatedGdp"`
	FlagURL         *string             `json:"flagUrl"`
	LastRefreshedAt time.Time           `json:"lastRefreshedAt"`
}
