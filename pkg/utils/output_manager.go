package utils

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"
)

// OutputManager organizes the data directories used by the service:
// uploads, processed exports and the validation area.
type OutputManager struct {
	BaseDataDir string
}

// NewOutputManager creates an output manager rooted at baseDataDir.
func NewOutputManager(baseDataDir string) *OutputManager {
	return &OutputManager{BaseDataDir: baseDataDir}
}

// EnsureDirs creates the upload/processed/validation directories.
func (om *OutputManager) EnsureDirs() error {
	for _, dir := range []string{om.UploadDir(), om.ProcessedDir(), om.ValidationDir()} {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create data directory %s: %w", dir, err)
		}
	}
	return nil
}

func (om *OutputManager) UploadDir() string     { return filepath.Join(om.BaseDataDir, "uploads") }
func (om *OutputManager) ProcessedDir() string  { return filepath.Join(om.BaseDataDir, "processed") }
func (om *OutputManager) ValidationDir() string { return filepath.Join(om.BaseDataDir, "validation") }

// ProcessedFilePath builds a timestamp-qualified output path for a cleaned
// dataset, e.g. processed/thesis_20240131_154502.csv. Timestamps keep
// concurrent runs from writing the same filename.
func (om *OutputManager) ProcessedFilePath(datasetType string, at time.Time) string {
	name := fmt.Sprintf("%s_%s.csv", datasetType, at.Format("20060102_150405"))
	return filepath.Join(om.ProcessedDir(), name)
}

// MetadataPath returns the sidecar path for an exported CSV
// (foo.csv -> foo.meta.json).
func MetadataPath(csvPath string) string {
	return strings.TrimSuffix(csvPath, filepath.Ext(csvPath)) + ".meta.json"
}

// ListProcessedFiles returns the exported CSV filenames, newest first.
func (om *OutputManager) ListProcessedFiles() ([]string, error) {
	entries, err := os.ReadDir(om.ProcessedDir())
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, err
	}
	var files []string
	for _, e := range entries {
		if !e.IsDir() && strings.HasSuffix(strings.ToLower(e.Name()), ".csv") {
			files = append(files, e.Name())
		}
	}
	sort.Sort(sort.Reverse(sort.StringSlice(files)))
	return files, nil
}

// FileSize returns the size of a file in bytes.
func (om *OutputManager) FileSize(path string) (int64, error) {
	info, err := os.Stat(path)
	if err != nil {
		return 0, err
	}
	return info.Size(), nil
}
