package pipeline

import (
	"log"
	"time"

	"research-data-pipeline/internal/model"
	"research-data-pipeline/pkg/utils"
)

// Recorder receives the append-only processing history and the registry of
// exported files. The sqlite store satisfies it in production.
type Recorder interface {
	AppendProcessingRecord(record model.ProcessingRecord) error
	RegisterExport(path, metadataPath, datasetType, dataHash string) error
}

// Processor is the ingest boundary: load, validate, clean, enrich and
// export in one call, with every failure captured into an error-shaped
// result instead of escaping to the caller.
type Processor struct {
	Output   *utils.OutputManager
	Recorder Recorder
	Config   model.CleaningConfig
}

// NewProcessor wires a processor with the default cleaning thresholds.
func NewProcessor(output *utils.OutputManager, recorder Recorder) *Processor {
	return &Processor{
		Output:   output,
		Recorder: recorder,
		Config:   model.DefaultCleaningConfig(),
	}
}

// ProcessUploadedCSV runs the complete ingestion pipeline for one file:
// detect type, load, validate, clean, export. The returned mapping is
// always JSON-safe; on failure it carries status "error" and the failure
// message rather than raising.
func (p *Processor) ProcessUploadedCSV(filePath, datasetType string) map[string]interface{} {
	detection := DetectDatasetType(filePath, datasetType)
	resolvedType := detection.DatasetType

	fail := func(err error) map[string]interface{} {
		log.Printf("❌ Processing pipeline failed for %s: %v", filePath, err)
		return map[string]interface{}{
			"status":       "error",
			"dataset_type": resolvedType,
			"input_file":   filePath,
			"error":        err.Error(),
		}
	}

	log.Printf("🔄 Processing %s data from %s", resolvedType, filePath)
	table, _, err := LoadCSV(filePath)
	if err != nil {
		return fail(err)
	}

	if err := ValidateStructure(table, ExpectedColumns(resolvedType), filePath); err != nil {
		return fail(err)
	}

	rowsBefore := table.NumRows()
	colsBefore := table.NumCols()

	cleaned, stats, record, err := CleanAndPreprocess(table, resolvedType, p.Config)
	if err != nil {
		return fail(err)
	}

	if p.Recorder != nil {
		if err := p.Recorder.AppendProcessingRecord(record); err != nil {
			log.Printf("⚠️ Failed to persist processing record: %v", err)
		}
	}

	outputPath := p.Output.ProcessedFilePath(resolvedType, time.Now().UTC())
	export, err := ExportCSV(cleaned, outputPath, true)
	if err != nil {
		return fail(err)
	}
	if p.Recorder != nil {
		if err := p.Recorder.RegisterExport(export.Path, export.MetadataPath, resolvedType, export.DataHash); err != nil {
			log.Printf("⚠️ Failed to register export: %v", err)
		}
	}

	result := map[string]interface{}{
		"status":            "success",
		"dataset_type":      resolvedType,
		"detection":         map[string]interface{}{"method": detection.Method, "confident": detection.Confident},
		"input_file":        filePath,
		"output_file":       export.Path,
		"rows_processed":    cleaned.NumRows(),
		"columns_processed": cleaned.NumCols(),
		"cleaning_stats": map[string]interface{}{
			"rows_before":     rowsBefore,
			"rows_after":      cleaned.NumRows(),
			"rows_removed":    rowsBefore - cleaned.NumRows(),
			"columns_before":  colsBefore,
			"columns_after":   cleaned.NumCols(),
			"columns_removed": stats.ColumnsRemoved,
			"null_removal": map[string]interface{}{
				"rows_removed":    stats.NullRemoval.RowsRemoved,
				"columns_removed": stats.NullRemoval.ColumnsRemoved,
				"nulls_filled":    stats.NullRemoval.NullsFilled,
			},
			"outlier_removal": map[string]interface{}{
				"outliers_removed":    stats.OutlierRemoval.OutliersRemoved,
				"columns_processed":   stats.OutlierRemoval.ColumnsProcessed,
				"outliers_per_column": perColumnCounts(stats.OutlierRemoval.OutliersPerColumn),
			},
		},
	}
	return utils.Sanitize(result).(map[string]interface{})
}

func perColumnCounts(counts map[string]int) map[string]interface{} {
	out := make(map[string]interface{}, len(counts))
	for k, v := range counts {
		out[k] = v
	}
	return out
}
