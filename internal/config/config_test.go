package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, ":8080", cfg.Addr)
	assert.Equal(t, "data", cfg.DataDir)
	assert.Equal(t, "data/research.db", cfg.DatabasePath)
	assert.Equal(t, 500*time.Millisecond, cfg.SchedulerInterval)
	assert.Equal(t, 100, cfg.HistoryCap)
	assert.Equal(t, 0.5, cfg.Cleaning.NullRowThreshold)
	assert.Equal(t, "iqr", cfg.Cleaning.OutlierMethod)
	assert.Equal(t, 1.5, cfg.Cleaning.OutlierThreshold)
}

func TestLoadFromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	content := `addr: ":9090"
data_dir: /tmp/research
scheduler_interval: 2s
cleaning:
  outlier_method: zscore
  outlier_threshold: 3.0
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, ":9090", cfg.Addr)
	assert.Equal(t, "/tmp/research", cfg.DataDir)
	assert.Equal(t, 2*time.Second, cfg.SchedulerInterval)
	assert.Equal(t, "zscore", cfg.Cleaning.OutlierMethod)
	assert.Equal(t, 3.0, cfg.Cleaning.OutlierThreshold)
	assert.Equal(t, 0.5, cfg.Cleaning.NullRowThreshold, "unset keys keep defaults")
}

func TestLoadMalformedFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("addr: [unclosed"), 0644))

	_, err := Load(path)
	assert.Error(t, err)
}

func TestEnvOverride(t *testing.T) {
	t.Setenv("RESEARCH_ADDR", ":7070")
	t.Setenv("RESEARCH_CLEANING_OUTLIER_METHOD", "zscore")

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, ":7070", cfg.Addr)
	assert.Equal(t, "zscore", cfg.Cleaning.OutlierMethod)
}

func TestCleaningModelConversion(t *testing.T) {
	c := CleaningConfig{
		NullRowThreshold:    0.4,
		NullColumnThreshold: 0.6,
		OutlierMethod:       "zscore",
		OutlierThreshold:    2.5,
	}
	m := c.Model()
	assert.Equal(t, 0.4, m.RowThreshold)
	assert.Equal(t, 0.6, m.ColThreshold)
	assert.Equal(t, "zscore", m.OutlierMethod)
	assert.Equal(t, 2.5, m.OutlierThreshold)
}
