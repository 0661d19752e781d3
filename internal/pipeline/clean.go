package pipeline

import (
	"log"
	"math"
	"time"

	"research-data-pipeline/internal/model"
	"research-data-pipeline/pkg/utils"
)

// RemoveNulls prunes and fills null cells in place. Columns whose null
// fraction exceeds colThreshold are dropped first; then rows whose null
// fraction over the remaining columns exceeds rowThreshold; only then are
// the leftover nulls filled (numeric columns with the column median, text
// columns with the mode, or "Unknown" when no mode exists). Columns must
// be pruned before rows, and fills must come last.
func RemoveNulls(t *model.Table, rowThreshold, colThreshold float64) model.NullRemovalStats {
	stats := model.NullRemovalStats{ColumnsRemoved: []string{}}

	if t.NumRows() == 0 || t.NumCols() == 0 {
		return stats
	}

	var colsToDrop []string
	for i, col := range t.Columns {
		frac := float64(t.NullCount(i)) / float64(t.NumRows())
		if frac > colThreshold {
			colsToDrop = append(colsToDrop, col)
		}
	}
	if len(colsToDrop) > 0 {
		t.DropColumns(colsToDrop)
		stats.ColumnsRemoved = colsToDrop
		log.Printf("🗑️ Removed %d columns with >%.0f%% nulls: %v", len(colsToDrop), colThreshold*100, colsToDrop)
	}

	if t.NumCols() == 0 {
		return stats
	}

	rowsToDrop := make(map[int]bool)
	for r, row := range t.Rows {
		nulls := 0
		for _, v := range row {
			if v == nil {
				nulls++
			}
		}
		if float64(nulls)/float64(len(row)) > rowThreshold {
			rowsToDrop[r] = true
		}
	}
	if len(rowsToDrop) > 0 {
		t.DropRows(rowsToDrop)
		stats.RowsRemoved = len(rowsToDrop)
		log.Printf("🗑️ Removed %d rows with >%.0f%% nulls", len(rowsToDrop), rowThreshold*100)
	}

	for i, col := range t.Columns {
		nulls := t.NullCount(i)
		if nulls == 0 {
			continue
		}
		switch t.Kind(i) {
		case model.KindNumeric:
			median := utils.Median(numericValues(t, i))
			if math.IsNaN(median) {
				// Column entirely null at this point; nothing to fill with.
				continue
			}
			fillColumn(t, i, median)
			stats.NullsFilled += nulls
			log.Printf("📊 Filled %d nulls in '%s' with median: %v", nulls, col, median)
		default:
			fill := interface{}("Unknown")
			if mode, ok := utils.Mode(stringValues(t, i)); ok {
				fill = mode
			}
			fillColumn(t, i, fill)
			stats.NullsFilled += nulls
			log.Printf("📊 Filled %d nulls in '%s' with: %v", nulls, col, fill)
		}
	}

	return stats
}

// RemoveOutliers drops every row flagged by any processed numeric column.
// IQR bounds are [Q1-k*IQR, Q3+k*IQR]; z-score flags |v-mean|/std > k.
// Zero-variance columns are skipped so constant data never produces
// spurious flags. Removal is the union of flagged indices in a single pass.
func RemoveOutliers(t *model.Table, method string, threshold float64) model.OutlierRemovalStats {
	stats := model.OutlierRemovalStats{
		ColumnsProcessed:  []string{},
		OutliersPerColumn: map[string]int{},
	}

	var numericCols []int
	for i := range t.Columns {
		if t.Kind(i) == model.KindNumeric && t.NullCount(i) < t.NumRows() {
			numericCols = append(numericCols, i)
		}
	}
	if len(numericCols) == 0 {
		log.Printf("ℹ️ No numeric columns found, skipping outlier removal")
		return stats
	}

	outlierRows := make(map[int]bool)
	for _, i := range numericCols {
		col := t.Columns[i]
		flagged := flagOutliers(t, i, method, threshold)
		if flagged == nil {
			continue // zero variance or unknown method
		}
		stats.ColumnsProcessed = append(stats.ColumnsProcessed, col)
		if len(flagged) > 0 {
			stats.OutliersPerColumn[col] = len(flagged)
			for r := range flagged {
				outlierRows[r] = true
			}
			log.Printf("🔍 Found %d outliers in '%s' using %s method", len(flagged), col, method)
		}
	}

	if len(outlierRows) > 0 {
		t.DropRows(outlierRows)
		stats.OutliersRemoved = len(outlierRows)
		log.Printf("🗑️ Removed %d rows containing outliers", len(outlierRows))
	} else {
		log.Printf("✅ No outliers detected")
	}
	return stats
}

// flagOutliers returns the flagged row indices for one column, or nil when
// the column was skipped entirely.
func flagOutliers(t *model.Table, i int, method string, threshold float64) map[int]bool {
	values := numericValues(t, i)

	switch method {
	case "iqr":
		q1 := utils.Quantile(values, 0.25)
		q3 := utils.Quantile(values, 0.75)
		iqr := q3 - q1
		if iqr == 0 {
			return nil
		}
		lower := q1 - threshold*iqr
		upper := q3 + threshold*iqr
		flagged := make(map[int]bool)
		for r, row := range t.Rows {
			if v, ok := utils.Numeric(row[i]); ok && (v < lower || v > upper) {
				flagged[r] = true
			}
		}
		return flagged
	case "zscore":
		mean := utils.Mean(values)
		std := utils.Std(values)
		if std == 0 || math.IsNaN(std) {
			return nil
		}
		flagged := make(map[int]bool)
		for r, row := range t.Rows {
			if v, ok := utils.Numeric(row[i]); ok && math.Abs(v-mean)/std > threshold {
				flagged[r] = true
			}
		}
		return flagged
	default:
		log.Printf("⚠️ Unknown outlier detection method: %s, skipping", method)
		return nil
	}
}

// CleanAndPreprocess runs the full deterministic cleaning pass over a raw
// table: drop fully-empty rows and columns, null handling, outlier
// handling, then dataset-specific enrichment. It returns the cleaned table
// together with the immutable stats and history record for the run.
func CleanAndPreprocess(raw *model.Table, datasetType string, cfg model.CleaningConfig) (*model.Table, model.CleaningStats, model.ProcessingRecord, error) {
	t := raw.Clone()
	originalHash := t.ContentHash()
	rowsBefore := t.NumRows()
	colsBefore := t.NumCols()

	dropFullyEmpty(t)

	nullStats := RemoveNulls(t, cfg.RowThreshold, cfg.ColThreshold)
	outlierStats := RemoveOutliers(t, cfg.OutlierMethod, cfg.OutlierThreshold)

	switch datasetType {
	case DatasetThesis:
		EnrichThesis(t)
	case DatasetPapers:
		EnrichPapers(t)
	default:
		log.Printf("ℹ️ No dataset-specific enrichment for type '%s'", datasetType)
	}

	stats := model.CleaningStats{
		RowsBefore:     rowsBefore,
		RowsAfter:      t.NumRows(),
		RowsRemoved:    rowsBefore - t.NumRows(),
		ColumnsBefore:  colsBefore,
		ColumnsAfter:   t.NumCols(),
		ColumnsRemoved: colsBefore - t.NumCols(),
		NullRemoval:    nullStats,
		OutlierRemoval: outlierStats,
	}
	if stats.ColumnsRemoved < 0 {
		// Enrichment adds derived columns; the delta reports drops only.
		stats.ColumnsRemoved = len(nullStats.ColumnsRemoved)
	}

	record := model.ProcessingRecord{
		Timestamp:      time.Now().UTC(),
		DatasetType:    datasetType,
		RowsBefore:     rowsBefore,
		RowsAfter:      t.NumRows(),
		ColumnsBefore:  colsBefore,
		ColumnsAfter:   t.NumCols(),
		RowsRemoved:    stats.RowsRemoved,
		ColumnsRemoved: stats.ColumnsRemoved,
		NullStats:      nullStats,
		OutlierStats:   outlierStats,
		OriginalHash:   originalHash,
		CleanedHash:    t.ContentHash(),
	}

	log.Printf("✅ Successfully cleaned and preprocessed %s dataset (%d→%d rows)", datasetType, rowsBefore, t.NumRows())
	return t, stats, record, nil
}

// dropFullyEmpty removes rows and columns that are entirely null before
// the threshold-based passes run.
func dropFullyEmpty(t *model.Table) {
	rows := make(map[int]bool)
	for r, row := range t.Rows {
		empty := true
		for _, v := range row {
			if v != nil {
				empty = false
				break
			}
		}
		if empty {
			rows[r] = true
		}
	}
	t.DropRows(rows)

	var cols []string
	for i, col := range t.Columns {
		if t.NumRows() > 0 && t.NullCount(i) == t.NumRows() {
			cols = append(cols, col)
		}
	}
	if len(cols) > 0 {
		t.DropColumns(cols)
	}
}

func numericValues(t *model.Table, i int) []float64 {
	var values []float64
	for _, row := range t.Rows {
		if v, ok := utils.Numeric(row[i]); ok {
			values = append(values, v)
		}
	}
	return values
}

func stringValues(t *model.Table, i int) []string {
	var values []string
	for _, row := range t.Rows {
		if row[i] == nil {
			continue
		}
		values = append(values, model.FormatCell(row[i]))
	}
	return values
}

func fillColumn(t *model.Table, i int, fill interface{}) {
	for _, row := range t.Rows {
		if row[i] == nil {
			row[i] = fill
		}
	}
}

// describeColumn computes pandas-style summary statistics for a numeric
// column sample.
func describeColumn(values []float64) map[string]interface{} {
	if len(values) == 0 {
		return map[string]interface{}{"count": 0}
	}
	return map[string]interface{}{
		"count": len(values),
		"mean":  utils.Mean(values),
		"std":   utils.Std(values),
		"min":   utils.Quantile(values, 0),
		"25%":   utils.Quantile(values, 0.25),
		"50%":   utils.Quantile(values, 0.5),
		"75%":   utils.Quantile(values, 0.75),
		"max":   utils.Quantile(values, 1),
	}
}
