package handlers

import (
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"gokuldairy/billing"
	"gokuldairy/models"
	"gokuldairy/repository"

	"github.com/shopspring/decimal"
)

type BillHandler struct {
	Generator *billing.Generator
	Processor *billing.Processor
	Repo      repository.BillRepository

	// PaymentWindowDays restricts how late a payment may be dated relative
	// to the bill's period: [period start, period end + N days]. Zero
	// disables the window; the processor itself never enforces one.
	PaymentWindowDays int
}

type generateRequest struct {
	Year        int     `json:"year"`
	Month       int     `json:"month"`
	CustomerIDs []int64 `json:"customer_ids,omitempty"`
}

// GenerateBills handler: batch generation for a month. A single explicit
// customer surfaces duplicate-bill errors instead of counting them.
func (h *BillHandler) GenerateBills(w http.ResponseWriter, r *http.Request) {
	var req generateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	if len(req.CustomerIDs) == 1 {
		bill, err := h.Generator.GenerateOne(req.Year, req.Month, req.CustomerIDs[0])
		if err != nil {
			writeBillingError(w, err)
			return
		}
		writeJSON(w, http.StatusCreated, ApiResponse{
			Success: true,
			Message: "Bill generated successfully",
			Data:    bill,
		})
		return
	}

	summary, err := h.Generator.Generate(req.Year, req.Month, req.CustomerIDs)
	if err != nil {
		writeBillingError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, summary)
}

// GetAllBills handler
func (h *BillHandler) GetAllBills(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	filter := repository.BillFilter{}

	if v := q.Get("customer_id"); v != "" {
		id, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			http.Error(w, "invalid customer_id", http.StatusBadRequest)
			return
		}
		filter.CustomerID = id
	}
	if v := q.Get("year"); v != "" {
		filter.PeriodYear, _ = strconv.Atoi(v)
	}
	if v := q.Get("month"); v != "" {
		filter.PeriodMonth, _ = strconv.Atoi(v)
	}
	if v := q.Get("status"); v != "" {
		filter.Status = models.BillStatus(v)
	}

	list, err := h.Repo.ListBills(filter)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	if list == nil {
		list = []*models.Bill{}
	}

	// Surface unswept past-due bills as overdue in listings.
	now := time.Now()
	for _, bill := range list {
		bill.Status = bill.EffectiveStatus(now)
	}

	writeJSON(w, http.StatusOK, list)
}

// GetBillByID handler
func (h *BillHandler) GetBillByID(w http.ResponseWriter, r *http.Request, id string) {
	billID, err := strconv.ParseInt(id, 10, 64)
	if err != nil {
		http.Error(w, "invalid bill ID", http.StatusBadRequest)
		return
	}

	bill, err := h.Repo.GetBillByID(billID)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	if bill == nil {
		http.Error(w, "Bill not found", http.StatusNotFound)
		return
	}

	bill.Status = bill.EffectiveStatus(time.Now())
	writeJSON(w, http.StatusOK, bill)
}

type paymentRequest struct {
	Amount        decimal.Decimal `json:"amount"`
	Method        string          `json:"payment_method"`
	Date          string          `json:"payment_date"` // YYYY-MM-DD
	TransactionID *string         `json:"transaction_id,omitempty"`
	Notes         *string         `json:"notes,omitempty"`
}

// RecordPayment handler
func (h *BillHandler) RecordPayment(w http.ResponseWriter, r *http.Request, id string) {
	billID, err := strconv.ParseInt(id, 10, 64)
	if err != nil {
		http.Error(w, "invalid bill ID", http.StatusBadRequest)
		return
	}

	var req paymentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	date, err := time.Parse("2006-01-02", req.Date)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, ApiResponse{Success: false, Message: "payment_date must be YYYY-MM-DD"})
		return
	}

	if h.PaymentWindowDays > 0 {
		if err := h.checkPaymentWindow(billID, date); err != nil {
			writeBillingError(w, err)
			return
		}
	}

	bill, err := h.Processor.RecordPayment(billID, billing.PaymentInput{
		Amount:        req.Amount,
		Method:        models.PaymentMethod(req.Method),
		Date:          date,
		TransactionID: req.TransactionID,
		Notes:         req.Notes,
	})
	if err != nil {
		writeBillingError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, ApiResponse{
		Success: true,
		Message: "Payment recorded successfully",
		Data:    bill,
	})
}

// checkPaymentWindow applies the optional date-window policy layered above
// the processor.
func (h *BillHandler) checkPaymentWindow(billID int64, date time.Time) error {
	bill, err := h.Repo.GetBillByID(billID)
	if err != nil {
		return err
	}
	if bill == nil {
		return billing.NewValidationError("bill %d not found", billID)
	}

	start := time.Date(bill.PeriodYear, time.Month(bill.PeriodMonth), 1, 0, 0, 0, 0, time.UTC)
	end := start.AddDate(0, 1, 0).AddDate(0, 0, h.PaymentWindowDays)
	if date.Before(start) || date.After(end) {
		return billing.NewValidationError(
			"payment date %s outside allowed window (%s to %s)",
			date.Format("2006-01-02"), start.Format("2006-01-02"), end.Format("2006-01-02"))
	}
	return nil
}

// SweepOverdue handler: marks unpaid past-due bills overdue. Invoked by an
// external scheduler (cron), not by the core itself.
func (h *BillHandler) SweepOverdue(w http.ResponseWriter, r *http.Request) {
	swept, err := h.Processor.SweepOverdue()
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, map[string]int{"swept": swept})
}
