package handlers

import (
	"encoding/json"
	"net/http"

	"gokuldairy/billing"
)

type ApiResponse struct {
	Success bool        `json:"success"`
	Message string      `json:"message"`
	Data    interface{} `json:"data,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

// writeBillingError maps the domain error taxonomy onto HTTP statuses.
func writeBillingError(w http.ResponseWriter, err error) {
	switch {
	case billing.IsValidation(err):
		writeJSON(w, http.StatusBadRequest, ApiResponse{Success: false, Message: err.Error()})
	case billing.IsNotFound(err):
		writeJSON(w, http.StatusNotFound, ApiResponse{Success: false, Message: err.Error()})
	case billing.IsDuplicateBill(err):
		writeJSON(w, http.StatusConflict, ApiResponse{Success: false, Message: err.Error()})
	default:
		writeJSON(w, http.StatusInternalServerError, ApiResponse{Success: false, Message: err.Error()})
	}
}
