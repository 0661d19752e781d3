package pipeline

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDetectDatasetTypeExplicitWins(t *testing.T) {
	d := DetectDatasetType("whatever.csv", "papers")
	assert.Equal(t, DatasetPapers, d.DatasetType)
	assert.Equal(t, "explicit", d.Method)
	assert.True(t, d.Confident)
}

func TestDetectDatasetTypeFromFilename(t *testing.T) {
	d := DetectDatasetType("/data/thesis_sections.csv", "")
	assert.Equal(t, DatasetThesis, d.DatasetType)
	assert.Equal(t, "filename", d.Method)

	d = DetectDatasetType("annotation_export.csv", "")
	assert.Equal(t, DatasetThesis, d.DatasetType)

	d = DetectDatasetType("research_papers_2024.csv", "")
	assert.Equal(t, DatasetPapers, d.DatasetType)
	assert.True(t, d.Confident)
}

func TestDetectDatasetTypeFromColumns(t *testing.T) {
	path := writeCSV(t, "dataset.csv",
		[]byte("title,year,domain,citations\nStudy,2020,NLP,12\n"))

	d := DetectDatasetType(path, "")
	assert.Equal(t, DatasetPapers, d.DatasetType)
	assert.Equal(t, "columns", d.Method)
	assert.True(t, d.Confident)

	thesisPath := writeCSV(t, "export.csv",
		[]byte("section_title,level,estimated_pages\nIntro,1,4\n"))
	d = DetectDatasetType(thesisPath, "")
	assert.Equal(t, DatasetThesis, d.DatasetType)
	assert.Equal(t, "columns", d.Method)
}

func TestDetectDatasetTypeDefaultsOnAmbiguity(t *testing.T) {
	path := writeCSV(t, "mystery.csv", []byte("a,b,c\n1,2,3\n"))

	d := DetectDatasetType(path, "")
	assert.Equal(t, DatasetThesis, d.DatasetType)
	assert.Equal(t, "default", d.Method)
	assert.False(t, d.Confident)
}

func TestDetectDatasetTypeUnreadableFileDefaults(t *testing.T) {
	d := DetectDatasetType(filepath.Join(t.TempDir(), "missing.csv"), "")
	assert.Equal(t, DatasetThesis, d.DatasetType)
	assert.Equal(t, "default", d.Method)
	assert.False(t, d.Confident)
}

func TestExpectedColumns(t *testing.T) {
	assert.Contains(t, ExpectedColumns(DatasetThesis), "section_title")
	assert.Contains(t, ExpectedColumns(DatasetPapers), "citations")
	assert.Nil(t, ExpectedColumns("generic"))
}
