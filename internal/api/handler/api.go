package handler

import (
	"encoding/json"
	"net/http"

	"research-data-pipeline/internal/agent"
	"research-data-pipeline/internal/orchestration"
	"research-data-pipeline/internal/pipeline"
	"research-data-pipeline/internal/store"
	"research-data-pipeline/pkg/utils"
)

// API bundles the services the HTTP handlers operate on.
type API struct {
	Coordinator *agent.Coordinator
	Processor   *pipeline.Processor
	Executor    orchestration.Executor
	Store       *store.Store
	Output      *utils.OutputManager
}

func writeJSON(w http.ResponseWriter, status int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(utils.Sanitize(body))
}
