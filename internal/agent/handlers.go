package agent

import (
	"context"
	"fmt"
	"os"
	"time"

	"research-data-pipeline/internal/model"
	"research-data-pipeline/internal/pipeline"
	"research-data-pipeline/pkg/utils"
)

// RegisterDefaultAgents wires the standard four-agent setup onto a
// coordinator: data, analysis, visualization and report agents, each with
// its capability set and handler, registered in the fixed order the
// scheduler iterates.
func RegisterDefaultAgents(c *Coordinator, processor *pipeline.Processor) {
	c.RegisterAgent(NewAgent("data_agent", model.TaskDataProcessing))
	c.RegisterAgent(NewAgent("analysis_agent", model.TaskStatisticalAnalysis))
	c.RegisterAgent(NewAgent("visualization_agent", model.TaskChartGeneration))
	c.RegisterAgent(NewAgent("report_agent", model.TaskReportGeneration))

	c.RegisterHandler(model.TaskDataProcessing, DataProcessingHandler(processor))
	c.RegisterHandler(model.TaskStatisticalAnalysis, AnalysisHandler())
	c.RegisterHandler(model.TaskChartGeneration, VisualizationHandler())
	c.RegisterHandler(model.TaskReportGeneration, ReportHandler())
}

// DataProcessingHandler cleans an uploaded CSV and, on success, chains a
// statistical_analysis task carrying the cleaned file reference.
func DataProcessingHandler(processor *pipeline.Processor) Handler {
	return func(ctx context.Context, h *Handle, task *model.Task) error {
		inputFile, _ := task.Parameters["input_file"].(string)
		if inputFile == "" {
			return fmt.Errorf("input_file parameter is required")
		}
		datasetType, _ := task.Parameters["dataset_type"].(string)

		h.SetProgress(10)
		result := processor.ProcessUploadedCSV(inputFile, datasetType)
		if errMsg, ok := result["error"].(string); ok {
			return fmt.Errorf("data processing failed: %s", errMsg)
		}
		h.SetProgress(80)

		h.SetResult("latest_cleaning", result)
		h.Log("info", fmt.Sprintf("Cleaned %s into %v", inputFile, result["output_file"]))

		h.EnqueueSuccessor(model.TaskStatisticalAnalysis, map[string]interface{}{
			"cleaned_file": result["output_file"],
			"dataset_type": result["dataset_type"],
		})
		h.SetProgress(100)
		return nil
	}
}

// AnalysisHandler analyzes a cleaned file and chains chart_generation.
func AnalysisHandler() Handler {
	return func(ctx context.Context, h *Handle, task *model.Task) error {
		cleanedFile := stringParam(task.Parameters, "cleaned_file", "output_file")
		if cleanedFile == "" {
			return fmt.Errorf("cleaned_file parameter is required")
		}
		datasetType, _ := task.Parameters["dataset_type"].(string)
		if datasetType == "" {
			datasetType = pipeline.DatasetThesis
		}

		h.Log("info", fmt.Sprintf("Analyzing %s dataset from %s", datasetType, cleanedFile))
		h.SetProgress(30)

		analysis := pipeline.AnalyzeCleanedFile(cleanedFile, datasetType)
		if errMsg, ok := analysis["error"].(string); ok {
			return fmt.Errorf("analysis failed: %s", errMsg)
		}
		h.SetProgress(80)

		h.SetResult(datasetType+"_uploaded_analysis", analysis)
		h.SetResult(datasetType+"_uploaded_analysis_task_id", task.ID)

		h.EnqueueSuccessor(model.TaskChartGeneration, map[string]interface{}{
			"cleaned_file":     cleanedFile,
			"dataset_type":     datasetType,
			"analysis_task_id": task.ID,
		})
		h.SetProgress(100)
		return nil
	}
}

// VisualizationHandler prepares the dashboard-ready preview summary for a
// cleaned file and chains report_generation.
func VisualizationHandler() Handler {
	return func(ctx context.Context, h *Handle, task *model.Task) error {
		cleanedFile := stringParam(task.Parameters, "cleaned_file")
		datasetType, _ := task.Parameters["dataset_type"].(string)
		if datasetType == "" {
			datasetType = pipeline.DatasetThesis
		}

		summary := map[string]interface{}{
			"dataset_type": datasetType,
			"generated_at": time.Now().UTC().Format(time.RFC3339),
		}

		if cleanedFile != "" {
			if _, err := os.Stat(cleanedFile); err == nil {
				table, _, err := pipeline.LoadCSV(cleanedFile)
				if err != nil {
					return fmt.Errorf("visualization failed to load %s: %w", cleanedFile, err)
				}
				summary["columns"] = table.Columns
				summary["row_count"] = table.NumRows()
				summary["preview_rows"] = previewRows(table, 5)
			} else {
				summary["message"] = "Cleaned file not available for visualization summary."
			}
		} else {
			summary["message"] = "Cleaned file not available for visualization summary."
		}

		h.SetResult(datasetType+"_visualization", utils.Sanitize(summary))
		h.Log("info", fmt.Sprintf("Visualization summary stored for %s dataset", datasetType))

		h.EnqueueSuccessor(model.TaskReportGeneration, map[string]interface{}{
			"dataset_type":          datasetType,
			"cleaned_file":          cleanedFile,
			"visualization_task_id": task.ID,
		})
		return nil
	}
}

// ReportHandler assembles the final report summary from the accumulated
// shared results. It is the end of the chain and enqueues nothing.
func ReportHandler() Handler {
	return func(ctx context.Context, h *Handle, task *model.Task) error {
		datasetType, _ := task.Parameters["dataset_type"].(string)
		if datasetType == "" {
			datasetType = pipeline.DatasetThesis
		}

		analysis, _ := h.Result(datasetType + "_uploaded_analysis")
		visualization, _ := h.Result(datasetType + "_visualization")

		report := map[string]interface{}{
			"dataset_type":          datasetType,
			"generated_at":          time.Now().UTC().Format(time.RFC3339),
			"analysis_summary":      orEmpty(analysis),
			"visualization_summary": orEmpty(visualization),
		}
		if m, ok := analysis.(map[string]interface{}); ok {
			if insights, ok := m["insights"]; ok {
				report["insights"] = insights
			}
		}

		h.SetResult(datasetType+"_report", utils.Sanitize(report))
		h.Log("info", "Report summary stored for dataset")
		return nil
	}
}

func stringParam(params map[string]interface{}, keys ...string) string {
	for _, key := range keys {
		if s, ok := params[key].(string); ok && s != "" {
			return s
		}
	}
	return ""
}

func previewRows(t *model.Table, n int) []map[string]interface{} {
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

func orEmpty(v interface{}) interface{} {
	if v == nil {
		return map[string]interface{}{}
	}
	return v
}
