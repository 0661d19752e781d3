package utils

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOutputManagerDirs(t *testing.T) {
	om := NewOutputManager(t.TempDir())
	require.NoError(t, om.EnsureDirs())

	for _, dir := range []string{om.UploadDir(), om.ProcessedDir(), om.ValidationDir()} {
		info, err := os.Stat(dir)
		require.NoError(t, err)
		assert.True(t, info.IsDir())
	}
}

func TestProcessedFilePath(t *testing.T) {
	om := NewOutputManager("data")
	at := time.Date(2024, 1, 31, 15, 45, 2, 0, time.UTC)
	got := om.ProcessedFilePath("thesis", at)
	assert.Equal(t, filepath.Join("data", "processed", "thesis_20240131_154502.csv"), got)
}

func TestMetadataPath(t *testing.T) {
	assert.Equal(t, "data/processed/thesis_x.meta.json", MetadataPath("data/processed/thesis_x.csv"))
}

func TestListProcessedFilesNewestFirst(t *testing.T) {
	om := NewOutputManager(t.TempDir())
	require.NoError(t, om.EnsureDirs())

	for _, name := range []string{"thesis_20240101_000000.csv", "thesis_20240201_000000.csv", "notes.txt"} {
		require.NoError(t, os.WriteFile(filepath.Join(om.ProcessedDir(), name), []byte("x"), 0644))
	}

	files, err := om.ListProcessedFiles()
	require.NoError(t, err)
	assert.Equal(t, []string{"thesis_20240201_000000.csv", "thesis_20240101_000000.csv"}, files)
}

func TestListProcessedFilesMissingDir(t *testing.T) {
	om := NewOutputManager(filepath.Join(t.TempDir(), "nope"))
	files, err := om.ListProcessedFiles()
	assert.NoError(t, err)
	assert.Empty(t, files)
}
