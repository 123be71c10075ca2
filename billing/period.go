package billing

import (
	"fmt"
	"time"
)

// Period identifies one billing month.
type Period struct {
	Year  int
	Month time.Month
}

// NewPeriod validates the (year, month) pair. Future months are rejected:
// bills are generated for closed or current months only.
func NewPeriod(year, month int, now time.Time) (Period, error) {
	if month < 1 || month > 12 {
		return Period{}, NewValidationError("month must be between 1 and 12")
	}
	if year < 2000 || year > now.Year()+1 {
		return Period{}, NewValidationError("year out of range")
	}
	p := Period{Year: year, Month: time.Month(month)}
	if p.Start().After(now) {
		return Period{}, NewValidationError("cannot generate bills for a future month")
	}
	return p, nil
}

// Start is midnight UTC on the first day of the month.
func (p Period) Start() time.Time {
	return time.Date(p.Year, p.Month, 1, 0, 0, 0, 0, time.UTC)
}

// End is the last instant of the month's final day.
func (p Period) End() time.Time {
	return p.Start().AddDate(0, 1, 0).Add(-time.Nanosecond)
}

// DueDate is dueDays into the month following the period.
func (p Period) DueDate(dueDays int) time.Time {
	return p.Start().AddDate(0, 1, 0).AddDate(0, 0, dueDays-1)
}

// Contains reports whether t falls inside the period.
func (p Period) Contains(t time.Time) bool {
	return t.Year() == p.Year && t.Month() == p.Month
}

func (p Period) String() string {
	return fmt.Sprintf("%04d-%02d", p.Year, int(p.Month))
}

// Label is the human form used on invoices, e.g. "January 2026".
func (p Period) Label() string {
	return fmt.Sprintf("%s %d", p.Month.String(), p.Year)
}
