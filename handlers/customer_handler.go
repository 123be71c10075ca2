package handlers

import (
	"encoding/json"
	"net/http"
	"strconv"

	"gokuldairy/models"
	"gokuldairy/repository"

	"github.com/shopspring/decimal"
)

type CustomerHandler struct {
	Repo repository.CustomerRepository
}

// CreateCustomer handler
func (h *CustomerHandler) CreateCustomer(w http.ResponseWriter, r *http.Request) {
	var customer models.CustomerAccount
	if err := json.NewDecoder(r.Body).Decode(&customer); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	if customer.Name == "" {
		writeJSON(w, http.StatusBadRequest, ApiResponse{Success: false, Message: "Name is required"})
		return
	}
	if err := customer.Plan.Validate(); err != nil {
		writeJSON(w, http.StatusBadRequest, ApiResponse{Success: false, Message: err.Error()})
		return
	}

	// New accounts always start settled and active.
	customer.BalanceDue = decimal.Zero
	customer.Active = true

	if err := h.Repo.CreateCustomer(&customer); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	writeJSON(w, http.StatusCreated, customer)
}

// GetAllCustomers handler
func (h *CustomerHandler) GetAllCustomers(w http.ResponseWriter, r *http.Request) {
	activeOnly := r.URL.Query().Get("active") == "true"

	list, err := h.Repo.ListCustomers(activeOnly)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	if list == nil {
		list = []*models.CustomerAccount{}
	}

	writeJSON(w, http.StatusOK, list)
}

// GetCustomerByID handler
func (h *CustomerHandler) GetCustomerByID(w http.ResponseWriter, r *http.Request, id string) {
	customerID, err := strconv.ParseInt(id, 10, 64)
	if err != nil {
		http.Error(w, "invalid customer ID", http.StatusBadRequest)
		return
	}

	customer, err := h.Repo.GetCustomer(customerID)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	if customer == nil {
		http.Error(w, "Customer not found", http.StatusNotFound)
		return
	}

	writeJSON(w, http.StatusOK, customer)
}

// UpdateCustomer handler
func (h *CustomerHandler) UpdateCustomer(w http.ResponseWriter, r *http.Request, id string) {
	customerID, err := strconv.ParseInt(id, 10, 64)
	if err != nil {
		http.Error(w, "invalid customer ID", http.StatusBadRequest)
		return
	}

	var customer models.CustomerAccount
	if err := json.NewDecoder(r.Body).Decode(&customer); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	customer.ID = customerID

	if err := customer.Plan.Validate(); err != nil {
		writeJSON(w, http.StatusBadRequest, ApiResponse{Success: false, Message: err.Error()})
		return
	}

	if err := h.Repo.UpdateCustomer(&customer); err != nil {
		if err == repository.ErrNotFound {
			http.Error(w, "Customer not found", http.StatusNotFound)
			return
		}
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	writeJSON(w, http.StatusOK, customer)
}
