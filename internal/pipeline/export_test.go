package pipeline

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"research-data-pipeline/internal/model"
)

func TestExportCSVRoundTrip(t *testing.T) {
	table := model.NewTable(
		[]string{"title", "pages", "score"},
		[][]interface{}{
			{"A study", 120, 2.5},
			{"Another", 85, nil},
		},
	)
	outPath := filepath.Join(t.TempDir(), "out.csv")

	result, err := ExportCSV(table, outPath, false)
	require.NoError(t, err)
	assert.Equal(t, 2, result.RecordCount)
	assert.Equal(t, table.ContentHash(), result.DataHash)

	loaded, _, err := LoadCSV(outPath)
	require.NoError(t, err)
	assert.Equal(t, table.Columns, loaded.Columns)
	assert.Equal(t, 120, loaded.Rows[0][1])
	assert.Nil(t, loaded.Rows[1][2], "empty cell reads back as null")
}

func TestExportCSVDeterministicHash(t *testing.T) {
	table := model.NewTable(
		[]string{"a"},
		[][]interface{}{{1}, {2}},
	)
	dir := t.TempDir()

	first, err := ExportCSV(table, filepath.Join(dir, "one.csv"), false)
	require.NoError(t, err)
	second, err := ExportCSV(table, filepath.Join(dir, "two.csv"), false)
	require.NoError(t, err)
	assert.Equal(t, first.DataHash, second.DataHash)
}

func TestExportCSVWithMetadataSidecar(t *testing.T) {
	table := model.NewTable(
		[]string{"title", "pages"},
		[][]interface{}{{"a", 10}},
	)
	outPath := filepath.Join(t.TempDir(), "thesis_clean.csv")

	result, err := ExportCSV(table, outPath, true)
	require.NoError(t, err)
	require.NotEmpty(t, result.MetadataPath)
	assert.Equal(t, filepath.Join(filepath.Dir(outPath), "thesis_clean.meta.json"), result.MetadataPath)

	raw, err := os.ReadFile(result.MetadataPath)
	require.NoError(t, err)
	var meta model.ExportMetadata
	require.NoError(t, json.Unmarshal(raw, &meta))
	assert.Equal(t, 1, meta.Rows)
	assert.Equal(t, 2, meta.Columns)
	assert.Equal(t, result.DataHash, meta.DataHash)
	assert.Equal(t, "numeric", meta.ColumnKinds["pages"])
}
