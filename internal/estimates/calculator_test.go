package estimates

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/maidflow/maidflow/internal/company"
)

func TestCalculateQuoteWorkedExample(t *testing.T) {
	// 1500 sqft at 400 sqft/h = 3.75h base; 2bd + 1ba + 1la + kitchen =
	// 1 + 0.75 + 0.5 + 0.75 = 3h rooms; standard biweekly at $35 gives
	// 6.75 * 35 * 0.9 = 212.625, rounded to 213.
	quote := CalculateQuote(Property{
		SquareFootage: 1500,
		Bedrooms:      2,
		Bathrooms:     1,
		LivingAreas:   1,
		HasKitchen:    true,
	}, ServiceStandard, FrequencyBiweekly, Extras{}, 35, company.ExtraFees{})

	require.Equal(t, "3.75", quote.BaseHours.String())
	require.Equal(t, "3", quote.RoomHours.String())
	require.Equal(t, "6.75", quote.TotalHours.String())
	require.Equal(t, int64(213), quote.Total)
}

func TestCalculateQuoteServiceMultiplierOrdering(t *testing.T) {
	prop := Property{SquareFootage: 1200, Bedrooms: 2, Bathrooms: 2, HasKitchen: true}
	price := func(s ServiceType) int64 {
		return CalculateQuote(prop, s, FrequencyOneTime, Extras{}, 40, company.ExtraFees{}).Total
	}

	standard := price(ServiceStandard)
	commercial := price(ServiceCommercial)
	deep := price(ServiceDeep)
	moveOut := price(ServiceMoveOut)

	assert.Less(t, standard, commercial)
	assert.Less(t, commercial, deep)
	assert.Less(t, deep, moveOut)
	assert.Equal(t, standard*2, moveOut)
}

func TestCalculateQuoteFrequencyDiscountOrdering(t *testing.T) {
	prop := Property{SquareFootage: 2000, Bedrooms: 3, Bathrooms: 2, LivingAreas: 1, HasKitchen: true}
	price := func(f Frequency) int64 {
		return CalculateQuote(prop, ServiceStandard, f, Extras{}, 40, company.ExtraFees{}).Total
	}

	oneTime := price(FrequencyOneTime)
	monthly := price(FrequencyMonthly)
	biweekly := price(FrequencyBiweekly)
	weekly := price(FrequencyWeekly)

	assert.Greater(t, oneTime, monthly)
	assert.Greater(t, monthly, biweekly)
	assert.Greater(t, biweekly, weekly)
}

func TestCalculateQuoteExtrasAreAdditiveAfterDiscount(t *testing.T) {
	fees := company.ExtraFees{Pets: 20, Oven: 25, Windows: 35}
	prop := Property{SquareFootage: 800, Bedrooms: 1, Bathrooms: 1}

	without := CalculateQuote(prop, ServiceStandard, FrequencyWeekly, Extras{}, 30, fees)
	with := CalculateQuote(prop, ServiceStandard, FrequencyWeekly,
		Extras{Pets: true, Oven: true, Windows: true}, 30, fees)

	// Extras are flat fees; the frequency discount must not touch them.
	assert.Equal(t, without.Total+80, with.Total)
	assert.Equal(t, "80", with.ExtrasTotal.String())
}

func TestCalculateQuoteNeverNegative(t *testing.T) {
	quote := CalculateQuote(Property{}, ServiceStandard, FrequencyWeekly, Extras{}, 0, company.ExtraFees{})
	assert.GreaterOrEqual(t, quote.Total, int64(0))
}

func TestCalculateQuoteUnknownEnumsFallBack(t *testing.T) {
	prop := Property{SquareFootage: 400}
	known := CalculateQuote(prop, ServiceStandard, FrequencyOneTime, Extras{}, 40, company.ExtraFees{})
	unknown := CalculateQuote(prop, ServiceType("bogus"), Frequency("bogus"), Extras{}, 40, company.ExtraFees{})
	assert.Equal(t, known.Total, unknown.Total)
}

func TestEnumValidity(t *testing.T) {
	assert.True(t, ServiceDeep.Valid())
	assert.False(t, ServiceType("sparkling").Valid())
	assert.True(t, FrequencyBiweekly.Valid())
	assert.False(t, Frequency("fortnightly").Valid())
}
