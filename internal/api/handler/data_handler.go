package handler

import (
	"net/http"
	"os"
	"path/filepath"
	"strconv"

	"research-data-pipeline/pkg/router"
	"research-data-pipeline/pkg/utils"
)

// ListProcessedFiles lists exported CSV files, newest first
// @Summary List processed files
// @Tags data
// @Produce json
// @Success 200 {object} map[string]interface{} "Files with sizes"
// @Failure 500 {object} map[string]interface{} "Listing failed"
// @Router /data/processed [get]
func (a *API) ListProcessedFiles(w http.ResponseWriter, r *http.Request) {
	names, err := a.Output.ListProcessedFiles()
	if err != nil {
		http.Error(w, "Failed to list processed files", http.StatusInternalServerError)
		return
	}

	files := make([]map[string]interface{}, 0, len(names))
	for _, name := range names {
		entry := map[string]interface{}{"filename": name}
		if size, err := a.Output.FileSize(filepath.Join(a.Output.ProcessedDir(), name)); err == nil {
			entry["size_bytes"] = size
		}
		files = append(files, entry)
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"count": len(files),
		"files": files,
	})
}

// GetProcessedMetadata serves the metadata sidecar of a processed file
// @Summary Processed file metadata
// @Tags data
// @Produce json
// @Param filename path string true "Processed CSV filename"
// @Success 200 {object} model.ExportMetadata "Export metadata"
// @Failure 404 {object} map[string]interface{} "Unknown file or missing metadata"
// @Router /data/processed/{filename}/metadata [get]
func (a *API) GetProcessedMetadata(w http.ResponseWriter, r *http.Request) {
	filename := filepath.Base(router.Param(r, "filename"))
	csvPath := filepath.Join(a.Output.ProcessedDir(), filename)
	raw, err := os.ReadFile(utils.MetadataPath(csvPath))
	if err != nil {
		http.Error(w, "Metadata not found", http.StatusNotFound)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.Write(raw)
}

// ListHistory returns recent processing records
// @Summary Processing history
// @Tags data
// @Produce json
// @Param limit query int false "Maximum records to return"
// @Success 200 {array} model.ProcessingRecord "Records, newest first"
// @Failure 500 {object} map[string]interface{} "Query failed"
// @Router /history [get]
func (a *API) ListHistory(w http.ResponseWriter, r *http.Request) {
	records, err := a.Store.ListProcessingHistory(queryLimit(r, 50))
	if err != nil {
		http.Error(w, "Failed to fetch processing history", http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, records)
}

// ListExports returns the registry of exported files
// @Summary Export registry
// @Tags data
// @Produce json
// @Param limit query int false "Maximum entries to return"
// @Success 200 {array} map[string]interface{} "Export entries, newest first"
// @Failure 500 {object} map[string]interface{} "Query failed"
// @Router /exports [get]
func (a *API) ListExports(w http.ResponseWriter, r *http.Request) {
	exports, err := a.Store.ListExports(queryLimit(r, 50))
	if err != nil {
		http.Error(w, "Failed to fetch exports", http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, exports)
}

func queryLimit(r *http.Request, fallback int) int {
	if raw := r.URL.Query().Get("limit"); raw != "" {
		if n, err := strconv.Atoi(raw); err == nil && n > 0 {
			return n
		}
	}
	return fallback
}
