package handler

import (
	"encoding/json"
	"net/http"

	"research-data-pipeline/pkg/router"
)

type createTaskRequest struct {
	TaskType   string                 `json:"task_type"`
	Parameters map[string]interface{} `json:"parameters"`
}

// CreateTask queues a new task for the agents
// @Summary Queue a task
// @Description Add a task to the coordinator queue for the next capable idle agent
// @Tags tasks
// @Accept json
// @Produce json
// @Param task body createTaskRequest true "Task type and parameters"
// @Success 200 {object} map[string]interface{} "Queued task id"
// @Failure 400 {object} map[string]interface{} "Invalid request payload"
// @Router /tasks [post]
func (a *API) CreateTask(w http.ResponseWriter, r *http.Request) {
	var req createTaskRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid JSON payload", http.StatusBadRequest)
		return
	}
	if req.TaskType == "" {
		http.Error(w, "task_type is required", http.StatusBadRequest)
		return
	}

	taskID := a.Coordinator.AddTask(req.TaskType, req.Parameters)
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"task_id": taskID,
		"status":  "queued",
	})
}

// ListTasks lists queued, active and completed tasks
// @Summary List tasks
// @Tags tasks
// @Produce json
// @Success 200 {object} map[string]interface{} "Tasks by state"
// @Router /tasks [get]
func (a *API) ListTasks(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, a.Coordinator.Tasks())
}

// GetTaskStatus reports the status of one task
// @Summary Task status
// @Tags tasks
// @Produce json
// @Param id path string true "Task ID"
// @Success 200 {object} model.TaskStatusReport "Status report"
// @Failure 404 {object} map[string]interface{} "Unknown task"
// @Router /tasks/{id}/status [get]
func (a *API) GetTaskStatus(w http.ResponseWriter, r *http.Request) {
	report := a.Coordinator.TaskStatus(router.Param(r, "id"))
	if !report.Found {
		http.Error(w, "Task not found", http.StatusNotFound)
		return
	}
	writeJSON(w, http.StatusOK, report)
}

// ListAgents lists the registered agents with their current status
// @Summary List agents
// @Tags agents
// @Produce json
// @Success 200 {array} model.AgentSnapshot "Agent snapshots"
// @Router /agents [get]
func (a *API) ListAgents(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, a.Coordinator.Agents())
}

// GetAgentLogs returns the ordered log of one agent
// @Summary Agent logs
// @Tags agents
// @Produce json
// @Param name path string true "Agent name"
// @Success 200 {array} model.AgentLogEntry "Log entries"
// @Failure 404 {object} map[string]interface{} "Unknown agent"
// @Router /agents/{name}/logs [get]
func (a *API) GetAgentLogs(w http.ResponseWriter, r *http.Request) {
	logs, ok := a.Coordinator.AgentLogs(router.Param(r, "name"))
	if !ok {
		http.Error(w, "Agent not found", http.StatusNotFound)
		return
	}
	writeJSON(w, http.StatusOK, logs)
}

// GetStatus reports overall coordinator health
// @Summary Coordinator status
// @Tags status
// @Produce json
// @Success 200 {object} map[string]interface{} "Queue and agent counts"
// @Router /status [get]
func (a *API) GetStatus(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, a.Coordinator.Status())
}

// ListResults returns every shared result published by the agents
// @Summary Shared results
// @Tags results
// @Produce json
// @Success 200 {object} map[string]interface{} "Results keyed by name"
// @Router /results [get]
func (a *API) ListResults(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, a.Coordinator.Results())
}

// GetAnalysis returns the latest analysis for a dataset type
// @Summary Analysis result
// @Tags results
// @Produce json
// @Param datasetType path string true "Dataset type (thesis or papers)"
// @Success 200 {object} map[string]interface{} "Analysis result"
// @Failure 404 {object} map[string]interface{} "No analysis yet"
// @Router /analysis/{datasetType} [get]
func (a *API) GetAnalysis(w http.ResponseWriter, r *http.Request) {
	key := router.Param(r, "datasetType") + "_uploaded_analysis"
	result, ok := a.Coordinator.Result(key)
	if !ok {
		http.Error(w, "No analysis available for this dataset type", http.StatusNotFound)
		return
	}
	writeJSON(w, http.StatusOK, result)
}
