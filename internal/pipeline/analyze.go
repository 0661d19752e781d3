package pipeline

import (
	"fmt"
	"sort"

	"research-data-pipeline/internal/model"
	"research-data-pipeline/pkg/utils"
)

// AnalyzeCleanedFile loads a cleaned CSV and computes the descriptive
// analysis result for it: column inventory, per-column statistics, data
// quality metrics and dataset-specific distributions. Failures are folded
// into an error-shaped map carrying the "error" key; this function never
// returns a Go error to the transport layer.
func AnalyzeCleanedFile(path, datasetType string) map[string]interface{} {
	table, _, err := LoadCSV(path)
	if err != nil {
		return map[string]interface{}{
			"error":        err.Error(),
			"dataset_type": datasetType,
			"file_path":    path,
		}
	}
	return AnalyzeTable(table, datasetType, path)
}

// AnalyzeTable computes the analysis result for an in-memory table.
func AnalyzeTable(t *model.Table, datasetType, path string) map[string]interface{} {
	result := map[string]interface{}{
		"dataset_type":  datasetType,
		"file_path":     path,
		"total_rows":    t.NumRows(),
		"total_columns": t.NumCols(),
		"columns":       append([]string(nil), t.Columns...),
		"data_types":    columnKinds(t),
		"insights":      []interface{}{},
	}

	basic := map[string]interface{}{}
	for i, col := range t.Columns {
		if t.Kind(i) == model.KindNumeric {
			basic[col] = describeColumn(numericValues(t, i))
		}
	}
	result["basic_statistics"] = basic
	result["data_quality"] = dataQuality(t)

	switch datasetType {
	case DatasetThesis:
		mergeInto(result, analyzeThesis(t))
	case DatasetPapers:
		mergeInto(result, analyzePapers(t))
	default:
		mergeInto(result, analyzeGeneric(t))
	}

	return utils.Sanitize(result).(map[string]interface{})
}

func columnKinds(t *model.Table) map[string]interface{} {
	kinds := make(map[string]interface{}, t.NumCols())
	for i, col := range t.Columns {
		kinds[col] = string(t.Kind(i))
	}
	return kinds
}

func dataQuality(t *model.Table) map[string]interface{} {
	totalCells := t.NumRows() * t.NumCols()
	nullCells := 0
	unique := make(map[string]interface{}, t.NumCols())
	for i, col := range t.Columns {
		nullCells += t.NullCount(i)
		seen := make(map[string]bool)
		for _, row := range t.Rows {
			if row[i] != nil {
				seen[model.FormatCell(row[i])] = true
			}
		}
		unique[col] = len(seen)
	}

	nullPct := 0.0
	if totalCells > 0 {
		nullPct = float64(nullCells) / float64(totalCells) * 100
	}

	dupes := 0
	seenRows := make(map[string]bool, t.NumRows())
	for _, row := range t.Rows {
		key := ""
		for _, v := range row {
			key += model.FormatCell(v) + "\x00"
		}
		if seenRows[key] {
			dupes++
		}
		seenRows[key] = true
	}

	return map[string]interface{}{
		"null_percentage":          nullPct,
		"duplicate_rows":           dupes,
		"unique_values_per_column": unique,
	}
}

func analyzeThesis(t *model.Table) map[string]interface{} {
	analysis := map[string]interface{}{}
	if i := t.ColumnIndex("level"); i >= 0 {
		analysis["level_distribution"] = valueCounts(t, i)
	}
	if i := t.ColumnIndex("priority_for_extraction"); i >= 0 {
		analysis["priority_distribution"] = valueCounts(t, i)
	}
	if i := t.ColumnIndex("difficulty_score"); i >= 0 {
		analysis["difficulty_stats"] = describeColumn(numericValues(t, i))
	}
	if i := t.ColumnIndex("estimated_pages"); i >= 0 {
		analysis["total_pages"] = sum(numericValues(t, i))
	}
	if i := t.ColumnIndex("section_type"); i >= 0 {
		analysis["section_type_distribution"] = valueCounts(t, i)
	}
	return analysis
}

func analyzePapers(t *model.Table) map[string]interface{} {
	analysis := map[string]interface{}{}
	if i := t.ColumnIndex("year"); i >= 0 {
		analysis["year_distribution"] = valueCounts(t, i)
	}
	if i := t.ColumnIndex("domain"); i >= 0 {
		analysis["domain_distribution"] = valueCounts(t, i)
	}
	if i := t.ColumnIndex("citations"); i >= 0 {
		analysis["citation_stats"] = describeColumn(numericValues(t, i))
	}
	if i := t.ColumnIndex("readability_score"); i >= 0 {
		analysis["readability_stats"] = describeColumn(numericValues(t, i))
	}
	if i := t.ColumnIndex("impact_category"); i >= 0 {
		analysis["impact_distribution"] = valueCounts(t, i)
	}
	return analysis
}

// analyzeGeneric is the fallback summary for unrecognized dataset types.
func analyzeGeneric(t *model.Table) map[string]interface{} {
	var numericCols, textCols []string
	numericSummary := map[string]interface{}{}
	for i, col := range t.Columns {
		switch t.Kind(i) {
		case model.KindNumeric:
			numericCols = append(numericCols, col)
			numericSummary[col] = describeColumn(numericValues(t, i))
		case model.KindText:
			textCols = append(textCols, col)
		}
	}

	categorical := map[string]interface{}{}
	limit := len(textCols)
	if limit > 5 {
		limit = 5
	}
	for _, col := range textCols[:limit] {
		i := t.ColumnIndex(col)
		categorical[col] = map[string]interface{}{
			"unique_count": len(valueCounts(t, i)),
			"most_common":  topValues(t, i, 5),
		}
	}

	insights := []interface{}{
		fmt.Sprintf("Dataset contains %d numeric columns", len(numericCols)),
		fmt.Sprintf("Dataset contains %d categorical columns", len(textCols)),
	}

	return map[string]interface{}{
		"numeric_summary":     numericSummary,
		"categorical_summary": categorical,
		"insights":            insights,
	}
}

func valueCounts(t *model.Table, i int) map[string]interface{} {
	counts := map[string]interface{}{}
	for _, row := range t.Rows {
		if row[i] == nil {
			continue
		}
		key := model.FormatCell(row[i])
		n, _ := counts[key].(int)
		counts[key] = n + 1
	}
	return counts
}

// topValues returns the n most common values of a column, ties broken
// alphabetically for determinism.
func topValues(t *model.Table, i, n int) map[string]interface{} {
	counts := valueCounts(t, i)
	type pair struct {
		value string
		count int
	}
	pairs := make([]pair, 0, len(counts))
	for v, c := range counts {
		pairs = append(pairs, pair{v, c.(int)})
	}
	sort.Slice(pairs, func(a, b int) bool {
		if pairs[a].count != pairs[b].count {
			return pairs[a].count > pairs[b].count
		}
		return pairs[a].value < pairs[b].value
	})
	if len(pairs) > n {
		pairs = pairs[:n]
	}
	top := map[string]interface{}{}
	for _, p := range pairs {
		top[p.value] = p.count
	}
	return top
}

func sum(xs []float64) float64 {
	total := 0.0
	for _, x := range xs {
		total += x
	}
	return total
}

func mergeInto(dst, src map[string]interface{}) {
	for k, v := range src {
		dst[k] = v
	}
}
