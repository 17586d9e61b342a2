package imaging

import (
	"bytes"
	"image/png"
	"testing"
	"time"

	"github.com/SscSPs/country_currency_api/internal/core/domain"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func gdp(s string) *decimal.Decimal {
	d := decimal.RequireFromString(s)
	return &d
}

func TestRenderSummary_ProducesPNG(t *testing.T) {
	countries := []domain.Country{
		{Name: "Nigeria", EstimatedGDP: gdp("123456789.12")},
		{Name: "Ghana", EstimatedGDP: gdp("9876.50")},
		{Name: "Antarctica"},
	}

	data, err := NewSummaryRenderer(time.FixedZone("WAT", 3600)).RenderSummary(countries, time.Now())
	require.NoError(t, err)

	img, err := png.Decode(bytes.NewReader(data))
	require.NoError(t, err)
	assert.Equal(t, Width, img.Bounds().Dx())
	assert.Equal(t, Height, img.Bounds().Dy())
}

func TestRenderSummary_EmptySet(t *testing.T) {
	data, err := NewSummaryRenderer(nil).RenderSummary(nil, time.Now())
	require.NoError(t, err)
	assert.NotEmpty(t, data)
}

func TestTopByGDP(t *testing.T) {
	countries := []domain.Country{
		{Name: "A", EstimatedGDP: gdp("10")},
		{Name: "B"},
		{Name: "C", EstimatedGDP: gdp("30")},
		{Name: "D", EstimatedGDP: gdp("20")},
		{Name: "E", EstimatedGDP: gdp("5")},
		{Name: "F", EstimatedGDP: gdp("40")},
		{Name: "G", EstimatedGDP: gdp("1")},
	}

	top := TopByGDP(countries, 5)

	names := make([]string, 0, len(top))
	for _, c := range top {
		names = append(names, c.Name)
	}
	assert.Equal(t, []string{"F", "C", "D", "A", "E"}, names)
}

func TestFormatAmount(t *testing.T) {
	assert.Equal(t, "123,456,789.12", formatAmount("123456789.12"))
	assert.Equal(t, "999.00", formatAmount("999.00"))
	assert.Equal(t, "1,000", formatAmount("1000"))
	assert.Equal(t, "-12,345.60", formatAmount("-12345.60"))
}
