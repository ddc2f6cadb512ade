package payroll

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"time"

	"github.com/shopspring/decimal"

	"github.com/maidflow/maidflow/internal/activity"
	"github.com/maidflow/maidflow/internal/billing"
	"github.com/maidflow/maidflow/internal/notify"
)

// CashLedger is the cash collection side of settlement.
type CashLedger interface {
	ApprovedTotal(ctx context.Context, companyID, cleanerID int64, from, to time.Time) (float64, error)
	SettleApproved(ctx context.Context, companyID, cleanerID int64, upTo time.Time) (int64, error)
}

// Service computes pay period previews and settles cash against them.
// Preview writes nothing; Settle only touches cash collections. Actual pay
// disbursement happens outside this system.
type Service struct {
	logger   *slog.Logger
	repo     Repository
	cash     CashLedger
	notifier notify.Enqueuer
	recorder *activity.Recorder
}

// NewService constructs the payroll service.
func NewService(logger *slog.Logger, repo Repository, cash CashLedger,
	notifier notify.Enqueuer, recorder *activity.Recorder) *Service {
	return &Service{logger: logger, repo: repo, cash: cash, notifier: notifier, recorder: recorder}
}

// Preview computes the pay period for every cleaner with a profile.
// Shifts whose stored duration cannot be parsed are skipped and counted,
// never failed; a single bad legacy row must not block the whole run.
func (s *Service) Preview(ctx context.Context, companyID int64, from, to time.Time) (*Preview, error) {
	profiles, err := s.repo.ListProfiles(ctx, companyID)
	if err != nil {
		return nil, fmt.Errorf("list profiles: %w", err)
	}
	shifts, err := s.repo.CompletedShifts(ctx, companyID, from, to)
	if err != nil {
		return nil, fmt.Errorf("list shifts: %w", err)
	}

	byCleaner := make(map[int64][]Shift)
	skipped := 0
	for _, ws := range shifts {
		hours, err := billing.ParseDurationHours(ws.Duration)
		if err != nil {
			s.logger.Warn("skipping shift with bad duration",
				slog.Int64("cleaner_id", ws.CleanerID), slog.String("duration", ws.Duration))
			skipped++
			continue
		}
		byCleaner[ws.CleanerID] = append(byCleaner[ws.CleanerID], Shift{
			Date:  ws.CompletedAt.UTC().Truncate(24 * time.Hour),
			Hours: hours,
		})
	}

	preview := &Preview{From: from, To: to, SkippedDurations: skipped, Lines: []Line{}}
	totalGross := decimal.Zero
	totalNet := decimal.Zero

	for _, p := range profiles {
		cleanerShifts := byCleaner[p.CleanerID]
		if len(cleanerShifts) == 0 {
			continue
		}
		rule := RuleFor(p.Province)
		regular, overtime := SplitHours(cleanerShifts, rule)
		regPay, otPay, gross := Pay(regular, overtime, p.HourlyWage, rule)

		cashHeld, err := s.cash.ApprovedTotal(ctx, companyID, p.CleanerID, from, to)
		if err != nil {
			return nil, fmt.Errorf("cash total for cleaner %d: %w", p.CleanerID, err)
		}
		net := decimal.NewFromFloat(gross).Sub(decimal.NewFromFloat(cashHeld)).Round(2)

		preview.Lines = append(preview.Lines, Line{
			CleanerID:     p.CleanerID,
			Name:          p.Name,
			Province:      p.Province,
			RegularHours:  regular,
			OvertimeHours: overtime,
			RegularPay:    regPay,
			OvertimePay:   otPay,
			GrossPay:      gross,
			CashHeld:      cashHeld,
			NetPay:        net.InexactFloat64(),
		})
		totalGross = totalGross.Add(decimal.NewFromFloat(gross))
		totalNet = totalNet.Add(net)
	}

	sort.Slice(preview.Lines, func(i, j int) bool {
		return preview.Lines[i].Name < preview.Lines[j].Name
	})
	preview.TotalGross = totalGross.Round(2).InexactFloat64()
	preview.TotalNet = totalNet.Round(2).InexactFloat64()
	return preview, nil
}

// Settle closes the cash side of a cleaner's pay period: every approved
// collection up to the cutoff becomes settled.
func (s *Service) Settle(ctx context.Context, companyID int64, req SettleRequest) (int64, error) {
	upTo, err := time.Parse("2006-01-02", req.UpTo)
	if err != nil {
		return 0, fmt.Errorf("parse up_to: %w", err)
	}
	// The cutoff date itself is included.
	upTo = upTo.AddDate(0, 0, 1)

	count, err := s.cash.SettleApproved(ctx, companyID, req.CleanerID, upTo)
	if err != nil {
		return 0, fmt.Errorf("settle collections: %w", err)
	}
	if count == 0 {
		return 0, nil
	}

	s.recorder.Record(ctx, activity.ActionPayrollSettled,
		fmt.Sprintf("%d cash collections settled for cleaner %d", count, req.CleanerID),
		activity.WithEntity("cleaner", req.CleanerID, ""))

	if err := s.notifier.EnqueueNotify(ctx, notify.Message{
		CompanyID: companyID,
		UserID:    req.CleanerID,
		Kind:      notify.KindPayrollSettled,
		Title:     "Pay period settled",
		Body:      fmt.Sprintf("%d cash collections were settled against your pay.", count),
	}); err != nil {
		s.logger.Error("enqueue payroll notification", slog.Any("error", err))
	}
	return count, nil
}

// Profiles returns every payroll profile of the tenant.
func (s *Service) Profiles(ctx context.Context, companyID int64) ([]Profile, error) {
	return s.repo.ListProfiles(ctx, companyID)
}

// UpsertProfile creates or replaces one cleaner's payroll profile.
func (s *Service) UpsertProfile(ctx context.Context, companyID, cleanerID int64, req UpsertProfileRequest) (*Profile, error) {
	profile := Profile{
		CompanyID:  companyID,
		CleanerID:  cleanerID,
		Name:       req.Name,
		Province:   req.Province,
		HourlyWage: req.HourlyWage,
	}
	if err := s.repo.UpsertProfile(ctx, profile); err != nil {
		return nil, fmt.Errorf("upsert profile: %w", err)
	}
	return s.repo.GetProfile(ctx, companyID, cleanerID)
}
