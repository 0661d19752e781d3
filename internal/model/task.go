package model

import "time"

// Task types form a closed set; each maps to exactly one handler.
const (
	TaskDataProcessing      = "data_processing"
	TaskStatisticalAnalysis = "statistical_analysis"
	TaskChartGeneration     = "chart_generation"
	TaskReportGeneration    = "report_generation"
)

// TaskStatus is the lifecycle state of a task.
type TaskStatus string

const (
	TaskQueued     TaskStatus = "queued"
	TaskInProgress TaskStatus = "in_progress"
	TaskCompleted  TaskStatus = "completed"
	TaskFailed     TaskStatus = "failed"
)

// Task is one unit of queued work. Identity and parameters are immutable
// once created; only status, timestamps and the error field mutate.
// AssignedAgent, once set, never changes for the task's remaining lifetime.
type Task struct {
	ID            string                 `json:"id"`
	Type          string                 `json:"type"`
	Parameters    map[string]interface{} `json:"parameters"`
	Status        TaskStatus             `json:"status"`
	CreatedAt     time.Time              `json:"created_at"`
	StartedAt     *time.Time             `json:"started_at,omitempty"`
	CompletedAt   *time.Time             `json:"completed_at,omitempty"`
	AssignedAgent string                 `json:"assigned_agent,omitempty"`
	Error         string                 `json:"error,omitempty"`
}

// AgentStatus is idle or busy; an agent runs at most one task at a time.
type AgentStatus string

const (
	AgentIdle AgentStatus = "idle"
	AgentBusy AgentStatus = "busy"
)

// AgentLogEntry is one line of an agent's ordered log.
type AgentLogEntry struct {
	Timestamp time.Time `json:"timestamp"`
	Level     string    `json:"level"`
	Message   string    `json:"message"`
}

// AgentSnapshot is the externally visible state of an agent.
type AgentSnapshot struct {
	Name         string      `json:"name"`
	Status       AgentStatus `json:"status"`
	Progress     int         `json:"progress"`
	CurrentTask  string      `json:"current_task,omitempty"`
	Capabilities []string    `json:"capabilities"`
}

// TaskStatusReport is the answer to a task status query. Found is false
// when the id is unknown to the active, completed and queued sets alike.
type TaskStatusReport struct {
	TaskID        string     `json:"task_id"`
	Found         bool       `json:"found"`
	Status        TaskStatus `json:"status,omitempty"`
	Progress      int        `json:"progress,omitempty"`
	AssignedAgent string     `json:"assigned_agent,omitempty"`
	CreatedAt     *time.Time `json:"created_at,omitempty"`
	StartedAt     *time.Time `json:"started_at,omitempty"`
	CompletedAt   *time.Time `json:"completed_at,omitempty"`
	Error         string     `json:"error,omitempty"`
}
