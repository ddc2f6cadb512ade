package payroll

import "time"

// Profile holds a cleaner's payroll parameters. Identity lives in the
// external auth system; only pay-relevant fields are stored here.
type Profile struct {
	CompanyID  int64     `json:"company_id"`
	CleanerID  int64     `json:"cleaner_id"`
	Name       string    `json:"name"`
	Province   string    `json:"province"`
	HourlyWage float64   `json:"hourly_wage"`
	UpdatedAt  time.Time `json:"updated_at"`
}

// Line is one cleaner's pay for the period. CashHeld is approved cash the
// cleaner kept at the door; it is deducted because they already hold it.
type Line struct {
	CleanerID     int64   `json:"cleaner_id"`
	Name          string  `json:"name"`
	Province      string  `json:"province"`
	RegularHours  float64 `json:"regular_hours"`
	OvertimeHours float64 `json:"overtime_hours"`
	RegularPay    float64 `json:"regular_pay"`
	OvertimePay   float64 `json:"overtime_pay"`
	GrossPay      float64 `json:"gross_pay"`
	CashHeld      float64 `json:"cash_held"`
	NetPay        float64 `json:"net_pay"`
}

// Preview is a dry-run pay period computation. Nothing is written; the
// settle operation commits the cash side.
type Preview struct {
	From             time.Time `json:"from"`
	To               time.Time `json:"to"`
	Lines            []Line    `json:"lines"`
	SkippedDurations int       `json:"skipped_durations"`
	TotalGross       float64   `json:"total_gross"`
	TotalNet         float64   `json:"total_net"`
}
