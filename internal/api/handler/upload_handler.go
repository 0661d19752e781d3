package handler

import (
	"fmt"
	"io"
	"log"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
)

const maxUploadBytes = 64 << 20

// UploadCSV accepts a CSV upload and runs it through the cleaning pipeline
// @Summary Upload and process a CSV file
// @Description Upload a research dataset CSV, detect its type, clean it and export the result
// @Tags data
// @Accept multipart/form-data
// @Produce json
// @Param file formData file true "CSV file"
// @Param dataset_type formData string false "Dataset type (thesis or papers)"
// @Success 200 {object} map[string]interface{} "Processing result, success or error shaped"
// @Failure 400 {object} map[string]interface{} "Invalid upload"
// @Router /upload [post]
func (a *API) UploadCSV(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
		http.Error(w, "Invalid multipart form", http.StatusBadRequest)
		return
	}
	file, header, err := r.FormFile("file")
	if err != nil {
		http.Error(w, "A 'file' field is required", http.StatusBadRequest)
		return
	}
	defer file.Close()

	if !strings.HasSuffix(strings.ToLower(header.Filename), ".csv") {
		http.Error(w, "Only .csv files are accepted", http.StatusBadRequest)
		return
	}

	savedPath, err := a.saveUpload(file, header.Filename)
	if err != nil {
		log.Printf("❌ Failed to save upload %s: %v", header.Filename, err)
		http.Error(w, "Failed to save uploaded file", http.StatusInternalServerError)
		return
	}
	log.Printf("📋 Received upload %s", header.Filename)

	result := a.Processor.ProcessUploadedCSV(savedPath, r.FormValue("dataset_type"))
	result["uploaded_file"] = header.Filename
	writeJSON(w, http.StatusOK, result)
}

func (a *API) saveUpload(src io.Reader, originalName string) (string, error) {
	if err := a.Output.EnsureDirs(); err != nil {
		return "", err
	}
	name := fmt.Sprintf("%s_%s", uuid.New().String()[:8], filepath.Base(originalName))
	dstPath := filepath.Join(a.Output.UploadDir(), name)
	dst, err := os.Create(dstPath)
	if err != nil {
		return "", err
	}
	defer dst.Close()
	if _, err := io.Copy(dst, src); err != nil {
		return "", err
	}
	return dstPath, nil
}
