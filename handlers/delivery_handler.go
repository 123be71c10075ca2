package handlers

import (
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"gokuldairy/models"
	"gokuldairy/repository"
)

type DeliveryHandler struct {
	Repo repository.DeliveryRepository
}

// SaveDelivery handler: records or corrects one day's attendance. Months
// that already have a bill are closed.
func (h *DeliveryHandler) SaveDelivery(w http.ResponseWriter, r *http.Request) {
	var record models.DeliveryRecord
	if err := json.NewDecoder(r.Body).Decode(&record); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	if record.CustomerID == 0 {
		writeJSON(w, http.StatusBadRequest, ApiResponse{Success: false, Message: "customer_id is required"})
		return
	}
	if record.Date.IsZero() {
		writeJSON(w, http.StatusBadRequest, ApiResponse{Success: false, Message: "date is required"})
		return
	}
	if record.Status != models.DeliveryPresent && record.Status != models.DeliveryAbsent {
		writeJSON(w, http.StatusBadRequest, ApiResponse{Success: false, Message: "status must be present or absent"})
		return
	}
	if record.Quantity.Sign() < 0 {
		writeJSON(w, http.StatusBadRequest, ApiResponse{Success: false, Message: "quantity cannot be negative"})
		return
	}

	if err := h.Repo.SaveDelivery(&record); err != nil {
		if err == repository.ErrPeriodBilled {
			writeJSON(w, http.StatusConflict, ApiResponse{Success: false, Message: err.Error()})
			return
		}
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	writeJSON(w, http.StatusCreated, record)
}

// GetDeliveries handler
func (h *DeliveryHandler) GetDeliveries(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	customerID, err := strconv.ParseInt(q.Get("customer_id"), 10, 64)
	if err != nil {
		http.Error(w, "invalid or missing customer_id", http.StatusBadRequest)
		return
	}

	from, err := time.Parse("2006-01-02", q.Get("from"))
	if err != nil {
		http.Error(w, "invalid or missing from date (YYYY-MM-DD)", http.StatusBadRequest)
		return
	}
	to, err := time.Parse("2006-01-02", q.Get("to"))
	if err != nil {
		http.Error(w, "invalid or missing to date (YYYY-MM-DD)", http.StatusBadRequest)
		return
	}

	list, err := h.Repo.ListDeliveries(customerID, from, to.Add(24*time.Hour-time.Nanosecond))
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	if list == nil {
		list = []*models.DeliveryRecord{}
	}

	writeJSON(w, http.StatusOK, list)
}
