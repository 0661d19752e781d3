package orchestration

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"research-data-pipeline/internal/agent"
	"research-data-pipeline/internal/model"
	"research-data-pipeline/internal/pipeline"
	"research-data-pipeline/pkg/utils"
)

func newTestProcessor(t *testing.T) (*pipeline.Processor, string) {
	t.Helper()
	dataDir := t.TempDir()
	output := utils.NewOutputManager(dataDir)
	require.NoError(t, output.EnsureDirs())
	return pipeline.NewProcessor(output, nil), dataDir
}

func writeThesisCSV(t *testing.T, dir string) string {
	t.Helper()
	path := filepath.Join(dir, "thesis_sections.csv")
	csv := "section_title,level,estimated_pages,difficulty_score\n" +
		"Introduction,1,5,2.0\n" +
		"Proposed Method,2,12,4.0\n" +
		"Results,2,8,3.0\n"
	require.NoError(t, os.WriteFile(path, []byte(csv), 0644))
	return path
}

func TestChainExecutorRunsFullChain(t *testing.T) {
	processor, dataDir := newTestProcessor(t)
	input := writeThesisCSV(t, dataDir)

	executor := NewChainExecutor(processor)
	final, err := executor.Run(context.Background(), model.PipelineState{
		model.StateInputFile: input,
	})
	require.NoError(t, err)

	assert.Equal(t, "thesis", final[model.StateDatasetType])
	assert.NotEmpty(t, final[model.StateCleanedFile])
	assert.Contains(t, final, model.StateAnalysis)
	assert.Contains(t, final, model.StateVisualization)
	assert.Contains(t, final, model.StateReport)
	assert.Equal(t, "completed", final[model.StateStatus])

	logs := final[model.StateLogs].([]map[string]interface{})
	assert.GreaterOrEqual(t, len(logs), 4, "every step logs into the state")
}

func TestChainExecutorDoesNotMutateInput(t *testing.T) {
	processor, dataDir := newTestProcessor(t)
	input := writeThesisCSV(t, dataDir)

	initial := model.PipelineState{model.StateInputFile: input}
	_, err := NewChainExecutor(processor).Run(context.Background(), initial)
	require.NoError(t, err)

	assert.Len(t, initial, 1, "caller's state map is untouched")
}

func TestChainExecutorPassthroughWithCleanedFile(t *testing.T) {
	processor, dataDir := newTestProcessor(t)
	// A pre-cleaned file skips the data step entirely.
	cleaned := writeThesisCSV(t, dataDir)

	final, err := NewChainExecutor(processor).Run(context.Background(), model.PipelineState{
		model.StateCleanedFile: cleaned,
		model.StateDatasetType: pipeline.DatasetThesis,
	})
	require.NoError(t, err)

	assert.Contains(t, final, model.StateAnalysis)
	assert.NotContains(t, final, model.StateDataResult, "cleaning skipped on passthrough")
}

func TestChainExecutorFailsWithoutInput(t *testing.T) {
	processor, _ := newTestProcessor(t)

	_, err := NewChainExecutor(processor).Run(context.Background(), model.PipelineState{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "input_file")
}

func TestChainExecutorFailsOnBadFile(t *testing.T) {
	processor, dataDir := newTestProcessor(t)

	state, err := NewChainExecutor(processor).Run(context.Background(), model.PipelineState{
		model.StateInputFile: filepath.Join(dataDir, "does_not_exist.csv"),
	})
	require.Error(t, err)
	assert.Nil(t, state, "no partial state on failure")
}

func TestChainExecutorHonorsCancellation(t *testing.T) {
	processor, dataDir := newTestProcessor(t)
	input := writeThesisCSV(t, dataDir)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := NewChainExecutor(processor).Run(ctx, model.PipelineState{
		model.StateInputFile: input,
	})
	assert.ErrorIs(t, err, context.Canceled)
}

func TestCoordinatorExecutorMatchesChainContract(t *testing.T) {
	processor, dataDir := newTestProcessor(t)
	input := writeThesisCSV(t, dataDir)

	c := agent.NewCoordinator(nil)
	agent.RegisterDefaultAgents(c, processor)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go c.Start(ctx, 50*time.Millisecond)

	final, err := NewCoordinatorExecutor(c).Run(ctx, model.PipelineState{
		model.StateInputFile: input,
	})
	require.NoError(t, err)

	assert.Equal(t, "thesis", final[model.StateDatasetType])
	assert.NotEmpty(t, final[model.StateCleanedFile])
	assert.Contains(t, final, model.StateAnalysis)
	assert.Contains(t, final, model.StateReport)
	assert.Equal(t, "completed", final[model.StateStatus])
}

func TestCoordinatorExecutorSurfacesFailure(t *testing.T) {
	processor, dataDir := newTestProcessor(t)

	c := agent.NewCoordinator(nil)
	agent.RegisterDefaultAgents(c, processor)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go c.Start(ctx, 50*time.Millisecond)

	_, err := NewCoordinatorExecutor(c).Run(ctx, model.PipelineState{
		model.StateInputFile: filepath.Join(dataDir, "missing.csv"),
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed")
}

func TestGraphMetadata(t *testing.T) {
	meta := GraphMetadata()
	nodes := meta["nodes"].([]string)
	assert.Equal(t, []string{"data_agent", "analysis_agent", "visualization_agent", "report_agent"}, nodes)
	edges := meta["edges"].([]map[string]string)
	require.Len(t, edges, 3)
	assert.Equal(t, "data_agent", edges[0]["from"])
	assert.Equal(t, "report_agent", edges[2]["to"])
	assert.Equal(t, "linear", meta["structure"])
}
