package orchestration

import (
	"context"
	"fmt"
	"time"

	"research-data-pipeline/internal/agent"
	"research-data-pipeline/internal/model"
)

// CoordinatorExecutor satisfies the Executor contract by driving the
// same chain through the task coordinator: it submits the initial
// data_processing task and waits for the agents to chain their way to
// the final report. The coordinator must already be running.
type CoordinatorExecutor struct {
	Coordinator *agent.Coordinator
}

func NewCoordinatorExecutor(c *agent.Coordinator) *CoordinatorExecutor {
	return &CoordinatorExecutor{Coordinator: c}
}

func (e *CoordinatorExecutor) Run(ctx context.Context, initial model.PipelineState) (model.PipelineState, error) {
	inputFile, ok := initial.String(model.StateInputFile)
	if !ok {
		return nil, fmt.Errorf("input_file is required to start the pipeline")
	}
	datasetType, _ := initial.String(model.StateDatasetType)

	taskID := e.Coordinator.AddTask(model.TaskDataProcessing, map[string]interface{}{
		"input_file":   inputFile,
		"dataset_type": datasetType,
	})

	ticker := time.NewTicker(waitPoll)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return nil, fmt.Errorf("pipeline cancelled while waiting on task %s: %w", taskID, ctx.Err())
		case <-ticker.C:
		}

		report := e.Coordinator.TaskStatus(taskID)
		if !report.Found {
			return nil, fmt.Errorf("task %s disappeared from the coordinator", taskID)
		}
		if report.Status == model.TaskFailed {
			return nil, fmt.Errorf("data processing task failed: %s", report.Error)
		}
		if report.Status != model.TaskCompleted {
			continue
		}

		// Successors are enqueued before a task turns terminal, so an
		// empty queue and active set after completion means the whole
		// chain has drained.
		status := e.Coordinator.Status()
		if status["task_queue"].(int) != 0 || status["active_tasks"].(int) != 0 {
			continue
		}
		return e.collectState(initial, taskID)
	}
}

// collectState rebuilds a final pipeline state from the coordinator's
// shared results once the chain has drained.
func (e *CoordinatorExecutor) collectState(initial model.PipelineState, rootTaskID string) (model.PipelineState, error) {
	if failed, errMsg := e.chainFailure(rootTaskID); failed {
		return nil, fmt.Errorf("pipeline chain failed: %s", errMsg)
	}

	state := initial.Clone()
	cleaning, ok := e.Coordinator.Result("latest_cleaning")
	if !ok {
		return nil, fmt.Errorf("data processing finished without publishing a result")
	}
	cleaningMap, _ := cleaning.(map[string]interface{})
	datasetType, _ := cleaningMap["dataset_type"].(string)

	state[model.StateDatasetType] = datasetType
	state[model.StateCleanedFile] = cleaningMap["output_file"]
	state[model.StateCleaningStats] = cleaningMap["cleaning_stats"]
	state[model.StateDataResult] = cleaningMap
	if analysis, ok := e.Coordinator.Result(datasetType + "_uploaded_analysis"); ok {
		state[model.StateAnalysis] = analysis
	}
	if viz, ok := e.Coordinator.Result(datasetType + "_visualization"); ok {
		state[model.StateVisualization] = viz
	}
	if rep, ok := e.Coordinator.Result(datasetType + "_report"); ok {
		state[model.StateReport] = rep
	}
	state[model.StateStatus] = "completed"
	return state, nil
}

// chainFailure scans the completed history for any failed task at or
// after the root task of this run.
func (e *CoordinatorExecutor) chainFailure(rootTaskID string) (bool, string) {
	tasks := e.Coordinator.Tasks()
	completed, _ := tasks["completed"].([]model.Task)
	seenRoot := false
	for _, t := range completed {
		if t.ID == rootTaskID {
			seenRoot = true
		}
		if seenRoot && t.Status == model.TaskFailed {
			return true, t.Error
		}
	}
	return false, ""
}
