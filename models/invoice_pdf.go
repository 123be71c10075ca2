package models

import "github.com/shopspring/decimal"

// InvoiceDayRow is one line of the per-day delivery table on the invoice.
type InvoiceDayRow struct {
	Date        string
	Status      string
	Liters      string
	ExtrasTotal string
}

type InvoicePDFData struct {
	Dairy        *DairyProfile // dairy letterhead details
	Bill         *Bill
	Customer     *CustomerAccount
	PeriodLabel  string // e.g. "January 2026"
	Contacts     string // formatted mobile numbers
	DueDate      string // formatted date
	Days         []InvoiceDayRow
	Total        decimal.Decimal
	TotalWords   string
	PaidAmount   decimal.Decimal
	BalanceAfter decimal.Decimal // customer balance including this bill
	DayCount     int
}
