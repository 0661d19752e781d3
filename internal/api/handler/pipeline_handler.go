package handler

import (
	"encoding/json"
	"log"
	"net/http"

	"research-data-pipeline/internal/model"
	"research-data-pipeline/internal/orchestration"
)

// RunPipeline executes the full analysis chain synchronously
// @Summary Run the analysis pipeline
// @Description Run clean, analyze, visualize and report over the posted initial state and return the final state
// @Tags pipeline
// @Accept json
// @Produce json
// @Param state body map[string]interface{} true "Initial pipeline state (input_file required)"
// @Success 200 {object} map[string]interface{} "Final pipeline state"
// @Failure 400 {object} map[string]interface{} "Invalid initial state"
// @Failure 500 {object} map[string]interface{} "Pipeline failure"
// @Router /pipeline/run [post]
func (a *API) RunPipeline(w http.ResponseWriter, r *http.Request) {
	var initial model.PipelineState
	if err := json.NewDecoder(r.Body).Decode(&initial); err != nil {
		http.Error(w, "Invalid JSON payload", http.StatusBadRequest)
		return
	}
	if _, ok := initial.String(model.StateInputFile); !ok {
		if _, ok := initial.String(model.StateCleanedFile); !ok {
			http.Error(w, "input_file or cleaned_file is required", http.StatusBadRequest)
			return
		}
	}

	final, err := a.Executor.Run(r.Context(), initial)
	if err != nil {
		log.Printf("❌ Pipeline run failed: %v", err)
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}(final))
}

// GetPipelineStructure describes the shape of the analysis chain
// @Summary Pipeline structure
// @Tags pipeline
// @Produce json
// @Success 200 {object} map[string]interface{} "Nodes and edges"
// @Router /pipeline/structure [get]
func (a *API) GetPipelineStructure(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, orchestration.GraphMetadata())
}
