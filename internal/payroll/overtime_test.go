package payroll

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func day(d int) time.Time {
	// August 2026: the 17th is a Monday.
	return time.Date(2026, 8, d, 0, 0, 0, 0, time.UTC)
}

func TestSplitHoursWeeklyOnlyProvince(t *testing.T) {
	// Ontario has no daily threshold; five 9h days cross the 44h weekly line.
	shifts := []Shift{
		{Date: day(17), Hours: 9},
		{Date: day(18), Hours: 9},
		{Date: day(19), Hours: 9},
		{Date: day(20), Hours: 9},
		{Date: day(21), Hours: 9},
	}
	regular, overtime := SplitHours(shifts, RuleFor("ON"))
	assert.Equal(t, 44.0, regular)
	assert.Equal(t, 1.0, overtime)
}

func TestSplitHoursDailyThreshold(t *testing.T) {
	// BC pays daily overtime past 8h even when the week stays under 40h.
	shifts := []Shift{{Date: day(17), Hours: 10}}
	regular, overtime := SplitHours(shifts, RuleFor("BC"))
	assert.Equal(t, 8.0, regular)
	assert.Equal(t, 2.0, overtime)
}

func TestSplitHoursNeverDoubleCounts(t *testing.T) {
	// Five 10h days in BC: daily excess sums to 10 and the weekly excess is
	// also 10 (50 - 40). The cleaner gets 10 overtime hours, not 20.
	shifts := []Shift{
		{Date: day(17), Hours: 10},
		{Date: day(18), Hours: 10},
		{Date: day(19), Hours: 10},
		{Date: day(20), Hours: 10},
		{Date: day(21), Hours: 10},
	}
	regular, overtime := SplitHours(shifts, RuleFor("BC"))
	assert.Equal(t, 40.0, regular)
	assert.Equal(t, 10.0, overtime)
}

func TestSplitHoursTakesGreaterOfDailyAndWeekly(t *testing.T) {
	// Six 8h days in BC: no daily excess, but 48h beats the 40h weekly line.
	shifts := []Shift{
		{Date: day(17), Hours: 8},
		{Date: day(18), Hours: 8},
		{Date: day(19), Hours: 8},
		{Date: day(20), Hours: 8},
		{Date: day(21), Hours: 8},
		{Date: day(22), Hours: 8},
	}
	regular, overtime := SplitHours(shifts, RuleFor("BC"))
	assert.Equal(t, 40.0, regular)
	assert.Equal(t, 8.0, overtime)
}

func TestSplitHoursWeeksAreIndependent(t *testing.T) {
	// 40h in week one plus 40h in week two never crosses Ontario's 44h line.
	var shifts []Shift
	for d := 17; d <= 21; d++ {
		shifts = append(shifts, Shift{Date: day(d), Hours: 8})
	}
	for d := 24; d <= 28; d++ {
		shifts = append(shifts, Shift{Date: day(d), Hours: 8})
	}
	regular, overtime := SplitHours(shifts, RuleFor("ON"))
	assert.Equal(t, 80.0, regular)
	assert.Equal(t, 0.0, overtime)
}

func TestPayRoundsToCents(t *testing.T) {
	rule := RuleFor("ON")
	regularPay, overtimePay, gross := Pay(40, 2, 25.75, rule)
	assert.Equal(t, 1030.0, regularPay)
	assert.Equal(t, 77.25, overtimePay)
	assert.Equal(t, 1107.25, gross)

	// 1.5h at 17.33 * 1.5 = 38.9925, rounded to 38.99.
	_, overtimePay, _ = Pay(0, 1.5, 17.33, rule)
	assert.Equal(t, 38.99, overtimePay)
}

func TestRuleForUnknownProvinceFallsBackToOntario(t *testing.T) {
	assert.Equal(t, RuleFor("ON"), RuleFor("XX"))
	assert.Equal(t, RuleFor("ON"), RuleFor(""))
}

func TestProvinceRulesCoverAllThirteen(t *testing.T) {
	codes := []string{"AB", "BC", "MB", "NB", "NL", "NS", "NT", "NU", "ON", "PE", "QC", "SK", "YT"}
	for _, code := range codes {
		rule := provinceRules[code]
		assert.Equal(t, 1.5, rule.Multiplier, code)
		assert.Greater(t, rule.WeeklyAfter, 0.0, code)
	}
}
