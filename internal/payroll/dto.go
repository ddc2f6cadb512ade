package payroll

// UpsertProfileRequest creates or replaces a cleaner's payroll profile.
type UpsertProfileRequest struct {
	Name       string  `json:"name" validate:"required,min=1,max=200"`
	Province   string  `json:"province" validate:"required,len=2,uppercase"`
	HourlyWage float64 `json:"hourly_wage" validate:"required,gt=0"`
}

// SettleRequest marks one cleaner's approved cash collections settled as
// part of closing a pay period.
type SettleRequest struct {
	CleanerID int64  `json:"cleaner_id" validate:"required,gt=0"`
	UpTo      string `json:"up_to" validate:"required,datetime=2006-01-02"`
}
