package pipeline

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"research-data-pipeline/internal/model"
	"research-data-pipeline/pkg/utils"
)

type memRecorder struct {
	records []model.ProcessingRecord
	exports []string
}

func (m *memRecorder) AppendProcessingRecord(record model.ProcessingRecord) error {
	m.records = append(m.records, record)
	return nil
}

func (m *memRecorder) RegisterExport(path, metadataPath, datasetType, dataHash string) error {
	m.exports = append(m.exports, path)
	return nil
}

func newTestProcessor(t *testing.T) (*Processor, *memRecorder) {
	t.Helper()
	output := utils.NewOutputManager(t.TempDir())
	require.NoError(t, output.EnsureDirs())
	recorder := &memRecorder{}
	return NewProcessor(output, recorder), recorder
}

func TestProcessUploadedCSVSuccess(t *testing.T) {
	processor, recorder := newTestProcessor(t)
	input := writeCSV(t, "thesis_sections.csv", []byte(
		"section_title,level,estimated_pages,difficulty_score\n"+
			"Introduction,1,5,2.0\n"+
			"Proposed Method,2,12,4.0\n"+
			"Results,2,8,3.0\n"))

	result := processor.ProcessUploadedCSV(input, "")

	require.NotContains(t, result, "error")
	assert.Equal(t, "success", result["status"])
	assert.Equal(t, DatasetThesis, result["dataset_type"])

	detection := result["detection"].(map[string]interface{})
	assert.Equal(t, "filename", detection["method"])

	outputFile := result["output_file"].(string)
	_, err := os.Stat(outputFile)
	assert.NoError(t, err, "cleaned file written to disk")
	_, err = os.Stat(utils.MetadataPath(outputFile))
	assert.NoError(t, err, "metadata sidecar written")

	stats := result["cleaning_stats"].(map[string]interface{})
	assert.Equal(t, stats["rows_before"].(int), stats["rows_after"].(int)+stats["rows_removed"].(int))

	require.Len(t, recorder.records, 1)
	assert.Equal(t, DatasetThesis, recorder.records[0].DatasetType)
	require.Len(t, recorder.exports, 1)
	assert.Equal(t, outputFile, recorder.exports[0])
}

func TestProcessUploadedCSVMissingFileErrorShaped(t *testing.T) {
	processor, recorder := newTestProcessor(t)

	result := processor.ProcessUploadedCSV(filepath.Join(t.TempDir(), "gone.csv"), DatasetPapers)

	assert.Equal(t, "error", result["status"])
	assert.Equal(t, DatasetPapers, result["dataset_type"])
	assert.NotEmpty(t, result["error"])
	assert.Empty(t, recorder.records, "nothing persisted on failure")
}

func TestProcessUploadedCSVValidationFailure(t *testing.T) {
	processor, _ := newTestProcessor(t)
	input := writeCSV(t, "thesis_bad.csv", []byte("section_title,ghost\nIntro,\nMethods,\n"))

	result := processor.ProcessUploadedCSV(input, "")

	assert.Equal(t, "error", result["status"])
	assert.Contains(t, result["error"], "completely empty")
}

func TestProcessUploadedCSVEnrichesThesisOutput(t *testing.T) {
	processor, _ := newTestProcessor(t)
	input := writeCSV(t, "thesis_full.csv", []byte(
		"section_title,estimated_pages,num_figures,num_tables,num_equations,difficulty_score\n"+
			"Background Survey,8,2,1,0,2.0\n"+
			"Evaluation,10,5,2,3,4.0\n"))

	result := processor.ProcessUploadedCSV(input, DatasetThesis)
	require.Equal(t, "success", result["status"])

	cleaned, _, err := LoadCSV(result["output_file"].(string))
	require.NoError(t, err)
	assert.True(t, cleaned.HasColumn("content_density"))
	assert.True(t, cleaned.HasColumn("complexity_score"))
	assert.True(t, cleaned.HasColumn("section_type"))
}
