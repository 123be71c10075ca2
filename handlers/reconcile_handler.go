package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"gokuldairy/billing"
)

type ReconcileHandler struct {
	Reconciler *billing.Reconciler
}

// Reconcile handler: recomputes the customer balance from the bill/payment
// ledger. A discrepancy is returned alongside a 500 so operators see it; it
// is never auto-healed.
func (h *ReconcileHandler) Reconcile(w http.ResponseWriter, r *http.Request, id string) {
	customerID, err := strconv.ParseInt(id, 10, 64)
	if err != nil {
		http.Error(w, "invalid customer ID", http.StatusBadRequest)
		return
	}

	report, err := h.Reconciler.Reconcile(customerID)
	if err != nil {
		var fault *billing.IntegrityFault
		if errors.As(err, &fault) {
			writeJSON(w, http.StatusInternalServerError, ApiResponse{
				Success: false,
				Message: fault.Error(),
				Data:    report,
			})
			return
		}
		writeBillingError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, report)
}

// Statement handler: per-day billing transparency view for one month.
func (h *ReconcileHandler) Statement(w http.ResponseWriter, r *http.Request, id string) {
	customerID, err := strconv.ParseInt(id, 10, 64)
	if err != nil {
		http.Error(w, "invalid customer ID", http.StatusBadRequest)
		return
	}

	q := r.URL.Query()
	year, err := strconv.Atoi(q.Get("year"))
	if err != nil {
		http.Error(w, "invalid or missing year", http.StatusBadRequest)
		return
	}
	month, err := strconv.Atoi(q.Get("month"))
	if err != nil {
		http.Error(w, "invalid or missing month", http.StatusBadRequest)
		return
	}

	statement, err := h.Reconciler.Statement(customerID, year, month)
	if err != nil {
		writeBillingError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, statement)
}
