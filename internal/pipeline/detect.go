package pipeline

import (
	"log"
	"path/filepath"
	"strings"

	"research-data-pipeline/internal/model"
)

// Dataset types drive which enrichment path applies.
const (
	DatasetThesis = "thesis"
	DatasetPapers = "papers"
)

// Column-signature indicator lists used for auto-detection.
var (
	thesisIndicators = []string{"section_title", "level", "estimated_pages", "priority_for_extraction", "difficulty_score"}
	papersIndicators = []string{"title", "year", "domain", "citations", "readability_score"}
)

// ExpectedColumns returns the hint columns for a dataset type, or nil for
// the generic path. Missing hints are a soft warning, never a failure.
func ExpectedColumns(datasetType string) []string {
	switch datasetType {
	case DatasetThesis:
		return []string{"section_title", "level", "estimated_pages", "priority_for_extraction"}
	case DatasetPapers:
		return []string{"title", "year", "domain", "citations", "readability_score"}
	default:
		return nil
	}
}

// Detection is the outcome of dataset type inference. Confident is false
// only on the tie/no-match fallback path, so callers can tell a default
// apart from a real classification.
type Detection struct {
	DatasetType string `json:"dataset_type"`
	Method      string `json:"method"` // "explicit", "filename", "columns", "default"
	Confident   bool   `json:"confident"`
}

// DetectDatasetType decides which enrichment path applies. An explicit
// caller-supplied type always wins; otherwise the filename is inspected for
// telltale substrings; otherwise a small row sample's column names are
// scored against the two indicator lists, with >=2 distinct hits required
// for a confident match. Ties and no-matches fall back to thesis.
func DetectDatasetType(path, explicit string) Detection {
	if explicit != "" {
		return Detection{DatasetType: explicit, Method: "explicit", Confident: true}
	}

	filename := strings.ToLower(filepath.Base(path))
	if strings.Contains(filename, "thesis") || strings.Contains(filename, "annotation") {
		return Detection{DatasetType: DatasetThesis, Method: "filename", Confident: true}
	}
	if strings.Contains(filename, "paper") || strings.Contains(filename, "research") {
		return Detection{DatasetType: DatasetPapers, Method: "filename", Confident: true}
	}

	table, _, err := LoadCSV(path)
	if err != nil {
		log.Printf("⚠️ Dataset type auto-detection failed for %s (%v), defaulting to '%s'", path, err, DatasetThesis)
		return Detection{DatasetType: DatasetThesis, Method: "default", Confident: false}
	}
	return detectFromColumns(sampleTable(table, 10))
}

// sampleTable returns a view over at most n rows; detection never needs
// the whole file.
func sampleTable(t *model.Table, n int) *model.Table {
	if t.NumRows() <= n {
		return t
	}
	return &model.Table{Columns: t.Columns, Rows: t.Rows[:n]}
}

func detectFromColumns(t *model.Table) Detection {
	lower := make([]string, 0, t.NumCols())
	for _, col := range t.Columns {
		lower = append(lower, strings.ToLower(col))
	}

	thesisMatch := countIndicatorHits(lower, thesisIndicators)
	papersMatch := countIndicatorHits(lower, papersIndicators)

	switch {
	case thesisMatch >= 2 && thesisMatch > papersMatch:
		log.Printf("📋 Auto-detected dataset type as '%s' based on columns", DatasetThesis)
		return Detection{DatasetType: DatasetThesis, Method: "columns", Confident: true}
	case papersMatch >= 2 && papersMatch > thesisMatch:
		log.Printf("📋 Auto-detected dataset type as '%s' based on columns", DatasetPapers)
		return Detection{DatasetType: DatasetPapers, Method: "columns", Confident: true}
	default:
		log.Printf("⚠️ Could not determine dataset type (thesis=%d, papers=%d hits), defaulting to '%s'",
			thesisMatch, papersMatch, DatasetThesis)
		return Detection{DatasetType: DatasetThesis, Method: "default", Confident: false}
	}
}

// countIndicatorHits counts distinct indicators that appear as a substring
// of any column name.
func countIndicatorHits(columns []string, indicators []string) int {
	hits := 0
	for _, ind := range indicators {
		for _, col := range columns {
			if strings.Contains(col, ind) {
				hits++
				break
			}
		}
	}
	return hits
}
