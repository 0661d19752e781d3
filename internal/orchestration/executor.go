package orchestration

import (
	"context"
	"fmt"
	"os"
	"time"

	"research-data-pipeline/internal/model"
	"research-data-pipeline/internal/pipeline"
	"research-data-pipeline/pkg/utils"
)

// Executor runs the four-step analysis chain over one shared state:
// given an initial state it produces the final state or fails loudly.
// Implementations must be swappable behind this contract.
type Executor interface {
	Run(ctx context.Context, initial model.PipelineState) (model.PipelineState, error)
}

// Step is one node of the linear chain. Run mutates state in place; a
// returned error aborts the whole chain.
type Step struct {
	Name string
	Run  func(ctx context.Context, state model.PipelineState) error
}

// ChainExecutor executes clean → analyze → visualize → report as a strict
// linear chain, synchronously, without the polling coordinator. Partial
// state from a failed run is discarded by returning an error instead of
// the state.
type ChainExecutor struct {
	steps []Step
}

// NewChainExecutor builds the standard four-step chain around a
// processor.
func NewChainExecutor(processor *pipeline.Processor) *ChainExecutor {
	return &ChainExecutor{steps: []Step{
		{Name: "data_agent", Run: cleanStep(processor)},
		{Name: "analysis_agent", Run: analyzeStep()},
		{Name: "visualization_agent", Run: visualizeStep()},
		{Name: "report_agent", Run: reportStep()},
	}}
}

// Run threads the state through every step in order. The input state is
// cloned so the caller's map is never aliased.
func (e *ChainExecutor) Run(ctx context.Context, initial model.PipelineState) (model.PipelineState, error) {
	state := initial.Clone()
	for _, step := range e.steps {
		if err := ctx.Err(); err != nil {
			return nil, fmt.Errorf("pipeline cancelled before step %s: %w", step.Name, err)
		}
		if err := step.Run(ctx, state); err != nil {
			return nil, fmt.Errorf("step %s failed: %w", step.Name, err)
		}
	}
	return state, nil
}

// cleanStep runs the ingestion pipeline unless a cleaned file was already
// supplied, in which case it is a passthrough.
func cleanStep(processor *pipeline.Processor) func(ctx context.Context, state model.PipelineState) error {
	return func(ctx context.Context, state model.PipelineState) error {
		state.AppendLog("data_agent", "Starting data cleaning step")

		if _, ok := state.String(model.StateCleanedFile); ok {
			state.AppendLog("data_agent", "Cleaned file already provided, skipping cleaning")
			return nil
		}

		inputFile, ok := state.String(model.StateInputFile)
		if !ok {
			return fmt.Errorf("input_file is required for the data agent step")
		}
		datasetType, _ := state.String(model.StateDatasetType)

		result := processor.ProcessUploadedCSV(inputFile, datasetType)
		if errMsg, failed := result["error"].(string); failed {
			return fmt.Errorf("data agent failed: %s", errMsg)
		}

		state[model.StateDatasetType] = result["dataset_type"]
		state[model.StateCleanedFile] = result["output_file"]
		state[model.StateCleaningStats] = result["cleaning_stats"]
		state[model.StateDataResult] = result
		state.AppendLog("data_agent", "Data cleaning completed successfully")
		return nil
	}
}

func analyzeStep() func(ctx context.Context, state model.PipelineState) error {
	return func(ctx context.Context, state model.PipelineState) error {
		state.AppendLog("analysis_agent", "Starting statistical analysis")

		cleanedFile, ok := state.String(model.StateCleanedFile)
		if !ok {
			return fmt.Errorf("cleaned_file is required for analysis")
		}
		datasetType := datasetTypeOrDefault(state)

		analysis := pipeline.AnalyzeCleanedFile(cleanedFile, datasetType)
		if errMsg, failed := analysis["error"].(string); failed {
			return fmt.Errorf("analysis failed: %s", errMsg)
		}

		state[model.StateAnalysis] = analysis
		state.AppendLog("analysis_agent", "Analysis completed successfully")
		return nil
	}
}

func visualizeStep() func(ctx context.Context, state model.PipelineState) error {
	return func(ctx context.Context, state model.PipelineState) error {
		state.AppendLog("visualization_agent", "Preparing visualization summary")

		cleanedFile, ok := state.String(model.StateCleanedFile)
		if !ok {
			return fmt.Errorf("cleaned_file is required for visualization")
		}
		datasetType := datasetTypeOrDefault(state)

		summary := map[string]interface{}{
			"dataset_type": datasetType,
			"source_file":  cleanedFile,
		}
		if _, err := os.Stat(cleanedFile); err == nil {
			table, _, err := pipeline.LoadCSV(cleanedFile)
			if err != nil {
				return fmt.Errorf("failed to load cleaned file: %w", err)
			}
			summary["columns"] = table.Columns
			summary["row_count"] = table.NumRows()
			summary["preview_rows"] = preview(table, 5)
		} else {
			summary["message"] = "Cleaned file not found on disk."
		}

		state[model.StateVisualization] = utils.Sanitize(summary)
		state.AppendLog("visualization_agent", "Visualization summary prepared")
		return nil
	}
}

func reportStep() func(ctx context.Context, state model.PipelineState) error {
	return func(ctx context.Context, state model.PipelineState) error {
		state.AppendLog("report_agent", "Compiling final report summary")

		datasetType := datasetTypeOrDefault(state)
		report := map[string]interface{}{
			"dataset_type":  datasetType,
			"analysis":      orEmptyMap(state[model.StateAnalysis]),
			"visualization": orEmptyMap(state[model.StateVisualization]),
		}

		state[model.StateReport] = utils.Sanitize(report)
		state[model.StateStatus] = "completed"
		state.AppendLog("report_agent", "Report summary ready")
		return nil
	}
}

func datasetTypeOrDefault(state model.PipelineState) string {
	if datasetType, ok := state.String(model.StateDatasetType); ok {
		return datasetType
	}
	return pipeline.DatasetThesis
}

func preview(t *model.Table, n int) []map[string]interface{} {
	if t.NumRows() < n {
		n = t.NumRows()
	}
	rows := make([]map[string]interface{}, 0, n)
	for _, row := range t.Rows[:n] {
		m := make(map[string]interface{}, len(t.Columns))
		for i, col := range t.Columns {
			m[col] = row[i]
		}
		rows = append(rows, m)
	}
	return rows
}

func orEmptyMap(v interface{}) interface{} {
	if v == nil {
		return map[string]interface{}{}
	}
	return v
}

// waitPoll is how often the coordinator-backed executor re-checks chain
// progress.
const waitPoll = 100 * time.Millisecond
