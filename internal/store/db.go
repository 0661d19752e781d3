package store

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"research-data-pipeline/internal/model"
)

// Store persists the append-only processing history, the exported-file
// registry and terminal tasks. History rows are insert-only; there is no
// update or delete path.
type Store struct {
	db *sql.DB
}

// Open opens (creating if necessary) the sqlite database at dbPath.
func Open(dbPath string) (*Store, error) {
	db, err := sql.Open("sqlite3", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open store: %w", err)
	}

	schema := []string{
		`CREATE TABLE IF NOT EXISTS processing_history (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			timestamp DATETIME,
			dataset_type TEXT,
			rows_before INTEGER,
			rows_after INTEGER,
			columns_before INTEGER,
			columns_after INTEGER,
			original_hash TEXT,
			cleaned_hash TEXT,
			null_stats TEXT,
			outlier_stats TEXT
		);`,
		`CREATE TABLE IF NOT EXISTS exports (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			path TEXT,
			metadata_path TEXT,
			dataset_type TEXT,
			data_hash TEXT,
			created_at DATETIME
		);`,
		`CREATE TABLE IF NOT EXISTS task_archive (
			id TEXT PRIMARY KEY,
			type TEXT,
			status TEXT,
			parameters TEXT,
			error TEXT,
			created_at DATETIME,
			completed_at DATETIME
		);`,
	}
	for _, stmt := range schema {
		if _, err := db.Exec(stmt); err != nil {
			db.Close()
			return nil, fmt.Errorf("failed to create schema: %w", err)
		}
	}
	return &Store{db: db}, nil
}

// Close releases the underlying database handle.
func (s *Store) Close() error { return s.db.Close() }

// AppendProcessingRecord inserts one history entry. Entries are never
// rewritten.
func (s *Store) AppendProcessingRecord(record model.ProcessingRecord) error {
	nullStats, err := json.Marshal(record.NullStats)
	if err != nil {
		return err
	}
	outlierStats, err := json.Marshal(record.OutlierStats)
	if err != nil {
		return err
	}
	_, err = s.db.Exec(
		`INSERT INTO processing_history
		 (timestamp, dataset_type, rows_before, rows_after, columns_before, columns_after,
		  original_hash, cleaned_hash, null_stats, outlier_stats)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		record.Timestamp, record.DatasetType,
		record.RowsBefore, record.RowsAfter, record.ColumnsBefore, record.ColumnsAfter,
		record.OriginalHash, record.CleanedHash, string(nullStats), string(outlierStats),
	)
	return err
}

// ListProcessingHistory returns history entries, newest first.
func (s *Store) ListProcessingHistory(limit int) ([]model.ProcessingRecord, error) {
	rows, err := s.db.Query(
		`SELECT timestamp, dataset_type, rows_before, rows_after, columns_before, columns_after,
		        original_hash, cleaned_hash, null_stats, outlier_stats
		 FROM processing_history ORDER BY id DESC LIMIT ?`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var records []model.ProcessingRecord
	for rows.Next() {
		var rec model.ProcessingRecord
		var nullStats, outlierStats string
		if err := rows.Scan(&rec.Timestamp, &rec.DatasetType,
			&rec.RowsBefore, &rec.RowsAfter, &rec.ColumnsBefore, &rec.ColumnsAfter,
			&rec.OriginalHash, &rec.CleanedHash, &nullStats, &outlierStats); err != nil {
			return nil, err
		}
		if err := json.Unmarshal([]byte(nullStats), &rec.NullStats); err == nil {
			rec.RowsRemoved = rec.RowsBefore - rec.RowsAfter
			rec.ColumnsRemoved = rec.ColumnsBefore - rec.ColumnsAfter
		}
		json.Unmarshal([]byte(outlierStats), &rec.OutlierStats)
		records = append(records, rec)
	}
	return records, rows.Err()
}

// RegisterExport records an exported file and its sidecar.
func (s *Store) RegisterExport(path, metadataPath, datasetType, dataHash string) error {
	_, err := s.db.Exec(
		`INSERT INTO exports (path, metadata_path, dataset_type, data_hash, created_at) VALUES (?, ?, ?, ?, ?)`,
		path, metadataPath, datasetType, dataHash, time.Now().UTC())
	return err
}

// ListExports returns the export registry, newest first.
func (s *Store) ListExports(limit int) ([]map[string]interface{}, error) {
	rows, err := s.db.Query(
		`SELECT path, metadata_path, dataset_type, data_hash, created_at
		 FROM exports ORDER BY id DESC LIMIT ?`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var exports []map[string]interface{}
	for rows.Next() {
		var path, metaPath, datasetType, hash string
		var createdAt time.Time
		if err := rows.Scan(&path, &metaPath, &datasetType, &hash, &createdAt); err != nil {
			return nil, err
		}
		exports = append(exports, map[string]interface{}{
			"path":          path,
			"metadata_path": metaPath,
			"dataset_type":  datasetType,
			"data_hash":     hash,
			"created_at":    createdAt,
		})
	}
	return exports, rows.Err()
}

// ArchiveTask persists a terminal task for audit after it leaves the
// in-memory completed history.
func (s *Store) ArchiveTask(task model.Task) error {
	params, err := json.Marshal(task.Parameters)
	if err != nil {
		return err
	}
	_, err = s.db.Exec(
		`INSERT OR REPLACE INTO task_archive (id, type, status, parameters, error, created_at, completed_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		task.ID, task.Type, string(task.Status), string(params), task.Error,
		task.CreatedAt, task.CompletedAt)
	return err
}
