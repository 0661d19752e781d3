package model

import "time"

// NullRemovalStats records what the null-handling pass removed and filled.
type NullRemovalStats struct {
	RowsRemoved    int      `json:"rows_removed"`
	ColumnsRemoved []string `json:"columns_removed"`
	NullsFilled    int      `json:"nulls_filled"`
}

// OutlierRemovalStats records what the outlier pass flagged and removed.
type OutlierRemovalStats struct {
	OutliersRemoved   int            `json:"outliers_removed"`
	ColumnsProcessed  []string       `json:"columns_processed"`
	OutliersPerColumn map[string]int `json:"outliers_per_column"`
}

// CleaningStats is the quantitative record of one cleaning run. It is
// created once per run and never mutated afterwards.
type CleaningStats struct {
	RowsBefore     int                 `json:"rows_before"`
	RowsAfter      int                 `json:"rows_after"`
	RowsRemoved    int                 `json:"rows_removed"`
	ColumnsBefore  int                 `json:"columns_before"`
	ColumnsAfter   int                 `json:"columns_after"`
	ColumnsRemoved int                 `json:"columns_removed"`
	NullRemoval    NullRemovalStats    `json:"null_removal"`
	OutlierRemoval OutlierRemovalStats `json:"outlier_removal"`
}

// ProcessingRecord is one append-only history entry per cleaning run.
// Records are inserted and never rewritten.
type ProcessingRecord struct {
	Timestamp      time.Time           `json:"timestamp"`
	DatasetType    string              `json:"dataset_type"`
	RowsBefore     int                 `json:"rows_before"`
	RowsAfter      int                 `json:"rows_after"`
	ColumnsBefore  int                 `json:"columns_before"`
	ColumnsAfter   int                 `json:"columns_after"`
	RowsRemoved    int                 `json:"rows_removed"`
	ColumnsRemoved int                 `json:"columns_removed"`
	NullStats      NullRemovalStats    `json:"null_removal_stats"`
	OutlierStats   OutlierRemovalStats `json:"outlier_removal_stats"`
	OriginalHash   string              `json:"original_hash"`
	CleanedHash    string              `json:"cleaned_hash"`
}

// ExportMetadata is the sidecar written next to every exported CSV.
type ExportMetadata struct {
	ExportedAt  time.Time         `json:"exported_at"`
	Rows        int               `json:"rows"`
	Columns     int               `json:"columns"`
	ColumnKinds map[string]string `json:"column_kinds"`
	NullCounts  map[string]int    `json:"null_counts"`
	DataHash    string            `json:"data_hash"`
}

// CleaningConfig carries the tunable thresholds for a cleaning run.
type CleaningConfig struct {
	RowThreshold     float64 `json:"row_threshold"`
	ColThreshold     float64 `json:"col_threshold"`
	OutlierMethod    string  `json:"outlier_method"` // "iqr" or "zscore"
	OutlierThreshold float64 `json:"outlier_threshold"`
}

// DefaultCleaningConfig mirrors the standard thresholds: 50% null cutoffs
// and IQR at 1.5.
func DefaultCleaningConfig() CleaningConfig {
	return CleaningConfig{
		RowThreshold:     0.5,
		ColThreshold:     0.5,
		OutlierMethod:    "iqr",
		OutlierThreshold: 1.5,
	}
}
