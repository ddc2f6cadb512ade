package payroll

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// OvertimeRule is one province's employment-standards thresholds. A zero
// DailyAfter means the province has no daily overtime.
type OvertimeRule struct {
	DailyAfter  float64
	WeeklyAfter float64
	Multiplier  float64
}

// provinceRules holds the Canadian overtime thresholds keyed by two-letter
// province code.
var provinceRules = map[string]OvertimeRule{
	"AB": {DailyAfter: 8, WeeklyAfter: 44, Multiplier: 1.5},
	"BC": {DailyAfter: 8, WeeklyAfter: 40, Multiplier: 1.5},
	"MB": {DailyAfter: 0, WeeklyAfter: 40, Multiplier: 1.5},
	"NB": {DailyAfter: 0, WeeklyAfter: 44, Multiplier: 1.5},
	"NL": {DailyAfter: 0, WeeklyAfter: 40, Multiplier: 1.5},
	"NS": {DailyAfter: 0, WeeklyAfter: 48, Multiplier: 1.5},
	"NT": {DailyAfter: 8, WeeklyAfter: 40, Multiplier: 1.5},
	"NU": {DailyAfter: 8, WeeklyAfter: 40, Multiplier: 1.5},
	"ON": {DailyAfter: 0, WeeklyAfter: 44, Multiplier: 1.5},
	"PE": {DailyAfter: 0, WeeklyAfter: 48, Multiplier: 1.5},
	"QC": {DailyAfter: 0, WeeklyAfter: 40, Multiplier: 1.5},
	"SK": {DailyAfter: 8, WeeklyAfter: 40, Multiplier: 1.5},
	"YT": {DailyAfter: 8, WeeklyAfter: 40, Multiplier: 1.5},
}

// RuleFor returns the province's rule, falling back to Ontario's when the
// code is unknown.
func RuleFor(province string) OvertimeRule {
	if rule, ok := provinceRules[province]; ok {
		return rule
	}
	return provinceRules["ON"]
}

// Shift is one day's worked hours for one cleaner.
type Shift struct {
	Date  time.Time
	Hours float64
}

// SplitHours divides the shifts into regular and overtime hours under the
// given rule. Within each ISO week, overtime is the greater of the summed
// daily excess and the weekly excess, so the same hour is never counted
// twice.
func SplitHours(shifts []Shift, rule OvertimeRule) (regular, overtime float64) {
	weeks := make(map[string][]Shift)
	for _, s := range shifts {
		year, week := s.Date.ISOWeek()
		key := fmt.Sprintf("%d-W%02d", year, week)
		weeks[key] = append(weeks[key], s)
	}

	for _, weekShifts := range weeks {
		var total, dailyOT float64
		for _, s := range weekShifts {
			total += s.Hours
			if rule.DailyAfter > 0 && s.Hours > rule.DailyAfter {
				dailyOT += s.Hours - rule.DailyAfter
			}
		}
		weeklyOT := 0.0
		if total > rule.WeeklyAfter {
			weeklyOT = total - rule.WeeklyAfter
		}
		ot := dailyOT
		if weeklyOT > ot {
			ot = weeklyOT
		}
		overtime += ot
		regular += total - ot
	}
	return regular, overtime
}

// Pay converts split hours into dollar amounts at the cleaner's wage,
// rounded to cents.
func Pay(regular, overtime, wage float64, rule OvertimeRule) (regularPay, overtimePay, gross float64) {
	w := decimal.NewFromFloat(wage)
	reg := decimal.NewFromFloat(regular).Mul(w).Round(2)
	ot := decimal.NewFromFloat(overtime).Mul(w).Mul(decimal.NewFromFloat(rule.Multiplier)).Round(2)
	return reg.InexactFloat64(), ot.InexactFloat64(), reg.Add(ot).Round(2).InexactFloat64()
}
