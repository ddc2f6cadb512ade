package schedule

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/maidflow/maidflow/internal/platform/httpx"
)

func receiver(r CashReceiver) *CashReceiver { return &r }

func TestValidatePayment(t *testing.T) {
	tests := []struct {
		name     string
		method   PaymentMethod
		amount   float64
		receiver *CashReceiver
		wantErr  bool
	}{
		{"e-transfer ok", PaymentETransfer, 150, nil, false},
		{"cash to cleaner ok", PaymentCash, 90, receiver(ReceiverCleaner), false},
		{"cash to company ok", PaymentCash, 90, receiver(ReceiverCompany), false},
		{"cash without receiver", PaymentCash, 90, nil, true},
		{"cash with bogus receiver", PaymentCash, 90, receiver(CashReceiver("friend")), true},
		{"e-transfer with receiver", PaymentETransfer, 90, receiver(ReceiverCleaner), true},
		{"unknown method", PaymentMethod("cheque"), 90, nil, true},
		{"zero amount", PaymentETransfer, 0, nil, true},
		{"negative amount", PaymentCash, -5, receiver(ReceiverCleaner), true},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			err := ValidatePayment(tc.method, tc.amount, tc.receiver)
			if tc.wantErr {
				require.Error(t, err)
				assert.ErrorIs(t, err, httpx.ErrValidation)
				return
			}
			require.NoError(t, err)
		})
	}
}

func TestMergeChecklistSnapshotsFullCatalog(t *testing.T) {
	catalog := []string{"Vacuum all floors", "Clean bathrooms", "Empty trash bins"}
	results := []ChecklistResult{
		{Name: "Clean bathrooms", Done: true},
		{Name: "Wash the car", Done: true}, // not in the catalog, dropped
	}

	entries := MergeChecklist(catalog, results)

	require.Len(t, entries, 3)
	assert.Equal(t, ChecklistEntry{Name: "Vacuum all floors", Done: false}, entries[0])
	assert.Equal(t, ChecklistEntry{Name: "Clean bathrooms", Done: true}, entries[1])
	assert.Equal(t, ChecklistEntry{Name: "Empty trash bins", Done: false}, entries[2])
}

func TestMergeChecklistEmptyCatalog(t *testing.T) {
	entries := MergeChecklist(nil, []ChecklistResult{{Name: "Anything", Done: true}})
	assert.Empty(t, entries)
}

func TestJobOpen(t *testing.T) {
	assert.True(t, (&Job{Status: StatusScheduled}).Open())
	assert.True(t, (&Job{Status: StatusInProgress}).Open())
	assert.False(t, (&Job{Status: StatusCompleted}).Open())
	assert.False(t, (&Job{Status: StatusCancelled}).Open())
}
