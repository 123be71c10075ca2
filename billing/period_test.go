package billing

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewPeriodValidation(t *testing.T) {
	now := time.Date(2026, 3, 15, 0, 0, 0, 0, time.UTC)

	tests := []struct {
		name    string
		year    int
		month   int
		wantErr bool
	}{
		{"current month", 2026, 3, false},
		{"closed month", 2026, 1, false},
		{"previous year", 2025, 12, false},
		{"future month", 2026, 4, true},
		{"month zero", 2026, 0, true},
		{"month thirteen", 2026, 13, true},
		{"ancient year", 1999, 1, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewPeriod(tt.year, tt.month, now)
			if tt.wantErr {
				require.Error(t, err)
				assert.True(t, IsValidation(err))
			} else {
				require.NoError(t, err)
			}
		})
	}
}

func TestPeriodBounds(t *testing.T) {
	p := Period{Year: 2024, Month: time.February}

	assert.Equal(t, time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC), p.Start())
	assert.Equal(t, 29, p.End().Day(), "2024 is a leap year")

	assert.True(t, p.Contains(time.Date(2024, 2, 15, 10, 0, 0, 0, time.UTC)))
	assert.False(t, p.Contains(time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)))
}

func TestPeriodDueDate(t *testing.T) {
	p := Period{Year: 2026, Month: time.January}
	assert.Equal(t, time.Date(2026, 2, 10, 0, 0, 0, 0, time.UTC), p.DueDate(10))

	december := Period{Year: 2025, Month: time.December}
	assert.Equal(t, time.Date(2026, 1, 10, 0, 0, 0, 0, time.UTC), december.DueDate(10),
		"December bills fall due in the next year")
}

func TestPeriodString(t *testing.T) {
	p := Period{Year: 2026, Month: time.January}
	assert.Equal(t, "2026-01", p.String())
	assert.Equal(t, "January 2026", p.Label())
}
