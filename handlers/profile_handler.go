package handlers

import (
	"encoding/json"
	"net/http"

	"gokuldairy/models"
	"gokuldairy/repository"
)

type ProfileHandler struct {
	Repo repository.ProfileRepository
}

func (h *ProfileHandler) SaveProfile(w http.ResponseWriter, r *http.Request) {
	var profile models.DairyProfile
	if err := json.NewDecoder(r.Body).Decode(&profile); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	if profile.DairyName == "" {
		writeJSON(w, http.StatusBadRequest, ApiResponse{Success: false, Message: "dairy_name is required"})
		return
	}

	if err := h.Repo.SaveProfile(&profile); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	writeJSON(w, http.StatusCreated, profile)
}

func (h *ProfileHandler) GetProfile(w http.ResponseWriter, r *http.Request) {
	profile, err := h.Repo.GetProfile()
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	if profile == nil {
		http.Error(w, "Dairy profile not found", http.StatusNotFound)
		return
	}

	writeJSON(w, http.StatusOK, profile)
}
