package schedule

import (
	"fmt"

	"github.com/maidflow/maidflow/internal/platform/httpx"
)

// ValidatePayment enforces the completion payment rules: a known method,
// a positive amount, and for cash a named receiver. E-transfer completions
// must not carry a receiver.
func ValidatePayment(method PaymentMethod, amount float64, receiver *CashReceiver) error {
	switch method {
	case PaymentETransfer:
		if receiver != nil {
			return fmt.Errorf("%w: cash_receiver is only valid for cash payments", httpx.ErrValidation)
		}
	case PaymentCash:
		if receiver == nil {
			return fmt.Errorf("%w: cash payments require a cash_receiver", httpx.ErrValidation)
		}
		if *receiver != ReceiverCleaner && *receiver != ReceiverCompany {
			return fmt.Errorf("%w: cash_receiver must be cleaner or company", httpx.ErrValidation)
		}
	default:
		return fmt.Errorf("%w: payment_method must be e_transfer or cash", httpx.ErrValidation)
	}
	if amount <= 0 {
		return fmt.Errorf("%w: payment_amount must be greater than zero", httpx.ErrValidation)
	}
	return nil
}

// MergeChecklist snapshots the tenant catalog against the submitted
// done-flags. Catalog items the submission omits are recorded as not done;
// submitted names outside the catalog are dropped.
func MergeChecklist(catalog []string, results []ChecklistResult) []ChecklistEntry {
	done := make(map[string]bool, len(results))
	for _, r := range results {
		done[r.Name] = r.Done
	}
	entries := make([]ChecklistEntry, 0, len(catalog))
	for _, name := range catalog {
		entries = append(entries, ChecklistEntry{Name: name, Done: done[name]})
	}
	return entries
}
