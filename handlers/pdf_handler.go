package handlers

import (
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"gokuldairy/repository"
	"gokuldairy/utils"
)

type PDFHandler struct {
	Repo     *repository.PDFRepository
	SavePath string
	UploadR2 bool
}

// InvoicePDF handles the API request to generate and save an invoice PDF
func (h *PDFHandler) InvoicePDF(w http.ResponseWriter, r *http.Request, id string) {
	billID, err := strconv.ParseInt(id, 10, 64)
	if err != nil {
		http.Error(w, "invalid bill id", http.StatusBadRequest)
		return
	}

	// Ensure save directory exists
	saveDir := h.SavePath
	if saveDir == "" {
		saveDir = "./pdfs"
	}
	if err := os.MkdirAll(saveDir, os.ModePerm); err != nil {
		http.Error(w, "failed to create save directory: "+err.Error(), http.StatusInternalServerError)
		return
	}

	// Generate PDF bytes
	pdfBytes, err := utils.GenerateInvoicePDF(h.Repo, billID)
	if err != nil {
		http.Error(w, "failed to generate PDF: "+err.Error(), http.StatusInternalServerError)
		return
	}
	if len(pdfBytes) == 0 {
		http.Error(w, "no bill found", http.StatusNotFound)
		return
	}

	// Save PDF to file
	filename := fmt.Sprintf("invoice_%d_%d.pdf", billID, time.Now().Unix())
	savePath := filepath.Join(saveDir, filename)

	if err := os.WriteFile(savePath, pdfBytes, 0644); err != nil {
		http.Error(w, "failed to save PDF: "+err.Error(), http.StatusInternalServerError)
		return
	}

	// Upload to R2 so the invoice can be shared with the customer
	fileURL := ""
	if h.UploadR2 {
		fileURL, err = utils.UploadToR2(pdfBytes, filename)
		if err != nil {
			// Log the error but don't block the response
			fmt.Printf("failed to upload invoice %d to R2: %v\n", billID, err)
			fileURL = ""
		}
	}

	writeJSON(w, http.StatusOK, map[string]string{"file": filename, "url": fileURL})
}
