package pipeline

import (
	"fmt"
	"log"
	"strings"

	"research-data-pipeline/internal/model"
)

// ValidationError aggregates every hard structural issue found in a table
// so the caller sees all problems at once instead of one per attempt.
type ValidationError struct {
	Filename string
	Issues   []model.ValidationIssue
}

func (e *ValidationError) Error() string {
	parts := make([]string, 0, len(e.Issues))
	for _, issue := range e.Issues {
		if issue.Column != "" {
			parts = append(parts, fmt.Sprintf("column '%s': %s", issue.Column, issue.Description))
		} else {
			parts = append(parts, issue.Description)
		}
	}
	return fmt.Sprintf("validation failed for %s: %s", e.Filename, strings.Join(parts, "; "))
}

// deltaPrefixes mark numeric columns where negative values are expected.
var deltaPrefixes = []string{"diff_", "delta_", "change_"}

// ValidateStructure checks the structural soundness of a loaded table.
// Hard failures (empty table, fully-null columns) abort the pipeline via a
// single aggregated ValidationError. Everything else is a soft finding:
// missing expected columns, unexpected negative values and suspicious text
// fragments are logged and processing continues.
func ValidateStructure(t *model.Table, expectedColumns []string, filename string) error {
	var issues []model.ValidationIssue

	if t.NumRows() == 0 {
		issues = append(issues, model.ValidationIssue{Description: "table is empty"})
		return &ValidationError{Filename: filename, Issues: issues}
	}

	if len(expectedColumns) > 0 {
		var missing []string
		for _, want := range expectedColumns {
			if !t.HasColumn(want) {
				missing = append(missing, want)
			}
		}
		if len(missing) > 0 {
			// Soft warning only: the pipeline continues with whatever
			// columns are present rather than rejecting the file.
			log.Printf("⚠️ %s: expected columns not found: %s. Processing will continue with available columns.",
				filename, strings.Join(missing, ", "))
		}
	}

	for i, col := range t.Columns {
		if t.NullCount(i) == t.NumRows() {
			issues = append(issues, model.ValidationIssue{
				Column:      col,
				Description: "column is completely empty",
			})
			continue
		}
		for _, finding := range softFindings(t, i) {
			log.Printf("⚠️ %s: column '%s' %s", filename, col, finding)
		}
	}

	if len(issues) > 0 {
		return &ValidationError{Filename: filename, Issues: issues}
	}
	return nil
}

// softFindings inspects one column for suspicious value patterns.
func softFindings(t *model.Table, i int) []string {
	var findings []string
	col := t.Columns[i]

	switch t.Kind(i) {
	case model.KindNumeric:
		if hasDeltaPrefix(col) {
			break
		}
		for _, row := range t.Rows {
			switch v := row[i].(type) {
			case int:
				if v < 0 {
					findings = append(findings, "contains negative values")
				}
			case float64:
				if v < 0 {
					findings = append(findings, "contains negative values")
				}
			}
			if len(findings) > 0 {
				break
			}
		}
	case model.KindText:
		nonASCII, malformed := false, false
		for _, row := range t.Rows {
			s, ok := row[i].(string)
			if !ok {
				continue
			}
			if !nonASCII && containsNonASCII(s) {
				nonASCII = true
			}
			if !malformed && strings.ContainsAny(s, "{}[]") {
				malformed = true
			}
		}
		if nonASCII {
			findings = append(findings, "contains non-ASCII characters")
		}
		if malformed {
			findings = append(findings, "contains possible malformed data structures")
		}
	}
	return findings
}

func hasDeltaPrefix(col string) bool {
	lower := strings.ToLower(col)
	for _, prefix := range deltaPrefixes {
		if strings.HasPrefix(lower, prefix) {
			return true
		}
	}
	return false
}

func containsNonASCII(s string) bool {
	for _, r := range s {
		if r > 127 {
			return true
		}
	}
	return false
}
