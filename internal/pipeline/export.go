package pipeline

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"time"

	"research-data-pipeline/internal/model"
	"research-data-pipeline/pkg/utils"
)

// ExportResult describes one finished export operation.
type ExportResult struct {
	Path         string    `json:"path"`
	MetadataPath string    `json:"metadata_path,omitempty"`
	RecordCount  int       `json:"record_count"`
	DataHash     string    `json:"data_hash"`
	ExportedAt   time.Time `json:"exported_at"`
}

// ExportCSV writes a cleaned table to outputPath and, when withMetadata is
// set, a .meta.json sidecar describing the export. The content hash is
// deterministic over ordered row content, so re-exporting an unchanged
// table yields an identical hash.
func ExportCSV(t *model.Table, outputPath string, withMetadata bool) (ExportResult, error) {
	if err := os.MkdirAll(filepath.Dir(outputPath), 0755); err != nil {
		return ExportResult{}, fmt.Errorf("failed to create output directory: %w", err)
	}

	f, err := os.Create(outputPath)
	if err != nil {
		return ExportResult{}, fmt.Errorf("failed to create output file: %w", err)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.Write(t.Columns); err != nil {
		return ExportResult{}, fmt.Errorf("failed to write csv header: %w", err)
	}
	for _, row := range t.Rows {
		record := make([]string, len(row))
		for i, v := range row {
			record[i] = model.FormatCell(v)
		}
		if err := w.Write(record); err != nil {
			return ExportResult{}, fmt.Errorf("failed to write csv row: %w", err)
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return ExportResult{}, fmt.Errorf("failed to flush csv: %w", err)
	}

	result := ExportResult{
		Path:        outputPath,
		RecordCount: t.NumRows(),
		DataHash:    t.ContentHash(),
		ExportedAt:  time.Now().UTC(),
	}

	if withMetadata {
		metaPath, err := writeMetadata(t, outputPath, result)
		if err != nil {
			return ExportResult{}, err
		}
		result.MetadataPath = metaPath
		log.Printf("✅ Exported metadata to %s", metaPath)
	}

	log.Printf("✅ Exported processed data to %s (%d rows)", outputPath, t.NumRows())
	return result, nil
}

func writeMetadata(t *model.Table, csvPath string, result ExportResult) (string, error) {
	kinds := make(map[string]string, t.NumCols())
	nulls := make(map[string]int, t.NumCols())
	for i, col := range t.Columns {
		kinds[col] = string(t.Kind(i))
		nulls[col] = t.NullCount(i)
	}

	meta := model.ExportMetadata{
		ExportedAt:  result.ExportedAt,
		Rows:        t.NumRows(),
		Columns:     t.NumCols(),
		ColumnKinds: kinds,
		NullCounts:  nulls,
		DataHash:    result.DataHash,
	}

	metaPath := utils.MetadataPath(csvPath)

	data, err := json.MarshalIndent(meta, "", "  ")
	if err != nil {
		return "", fmt.Errorf("failed to marshal metadata: %w", err)
	}
	if err := os.WriteFile(metaPath, data, 0644); err != nil {
		return "", fmt.Errorf("failed to write metadata: %w", err)
	}
	return metaPath, nil
}
