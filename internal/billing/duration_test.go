package billing

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseDurationHours(t *testing.T) {
	tests := []struct {
		in   string
		want float64
	}{
		{"2:30", 2.5},
		{"0:45", 0.75},
		{"10:00", 10},
		{"2h30m", 2.5},
		{"45m", 0.75},
		{"3h", 3},
		{"2.5", 2.5},
		{"4", 4},
		{" 2:30 ", 2.5},
	}
	for _, tc := range tests {
		t.Run(tc.in, func(t *testing.T) {
			got, err := ParseDurationHours(tc.in)
			require.NoError(t, err)
			assert.InDelta(t, tc.want, got, 1e-9)
		})
	}
}

func TestParseDurationHoursRejectsGarbage(t *testing.T) {
	for _, in := range []string{
		"", "   ", "abc", "2:75", "2:5:0", "-1", "0", "-2h", "two hours",
	} {
		t.Run(in, func(t *testing.T) {
			_, err := ParseDurationHours(in)
			assert.Error(t, err)
		})
	}
}
