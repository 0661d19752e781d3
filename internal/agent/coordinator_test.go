package agent

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"research-data-pipeline/internal/model"
	"research-data-pipeline/internal/pipeline"
	"research-data-pipeline/pkg/utils"
)

func settle(t *testing.T, c *Coordinator) {
	t.Helper()
	c.RunSchedulePass(context.Background())
	c.WaitIdle()
}

// drain keeps scheduling until the queue is empty so chained successors
// get dispatched too.
func drain(t *testing.T, c *Coordinator) {
	t.Helper()
	for i := 0; i < 10; i++ {
		settle(t, c)
		status := c.Status()
		if status["task_queue"].(int) == 0 && status["active_tasks"].(int) == 0 {
			return
		}
	}
	t.Fatal("coordinator did not drain")
}

func TestAddTaskQueuesAndReportsStatus(t *testing.T) {
	c := NewCoordinator(nil)
	id := c.AddTask("data_processing", map[string]interface{}{"input_file": "x.csv"})

	report := c.TaskStatus(id)
	require.True(t, report.Found)
	assert.Equal(t, model.TaskQueued, report.Status)

	unknown := c.TaskStatus("task_0_999")
	assert.False(t, unknown.Found)
}

func TestSchedulerMatchesCapability(t *testing.T) {
	c := NewCoordinator(nil)
	c.RegisterAgent(NewAgent("data_agent", "data_processing"))
	c.RegisterAgent(NewAgent("analysis_agent", "statistical_analysis"))

	var ranBy string
	c.RegisterHandler("statistical_analysis", func(ctx context.Context, h *Handle, task *model.Task) error {
		ranBy = task.AssignedAgent
		return nil
	})

	id := c.AddTask("statistical_analysis", nil)
	settle(t, c)

	assert.Equal(t, "analysis_agent", ranBy, "only the capable agent claims the task")
	report := c.TaskStatus(id)
	assert.Equal(t, model.TaskCompleted, report.Status)
}

func TestSchedulerLeavesUnmatchedTasksQueued(t *testing.T) {
	c := NewCoordinator(nil)
	c.RegisterAgent(NewAgent("data_agent", "data_processing"))

	id := c.AddTask("chart_generation", nil)
	settle(t, c)

	report := c.TaskStatus(id)
	assert.Equal(t, model.TaskQueued, report.Status, "no capable agent, task stays queued")
}

func TestBusyAgentDefersSecondTask(t *testing.T) {
	c := NewCoordinator(nil)
	c.RegisterAgent(NewAgent("data_agent", "data_processing"))

	release := make(chan struct{})
	started := make(chan struct{})
	var startedOnce sync.Once
	c.RegisterHandler("data_processing", func(ctx context.Context, h *Handle, task *model.Task) error {
		startedOnce.Do(func() { close(started) })
		<-release
		return nil
	})

	first := c.AddTask("data_processing", nil)
	second := c.AddTask("data_processing", nil)

	c.RunSchedulePass(context.Background())
	<-started

	assert.Equal(t, model.TaskInProgress, c.TaskStatus(first).Status)
	assert.Equal(t, model.TaskQueued, c.TaskStatus(second).Status)

	close(release)
	c.WaitIdle()
	settle(t, c)
	assert.Equal(t, model.TaskCompleted, c.TaskStatus(second).Status)
}

func TestFailedTaskRecordsErrorAndFreesAgent(t *testing.T) {
	c := NewCoordinator(nil)
	c.RegisterAgent(NewAgent("data_agent", "data_processing"))
	c.RegisterHandler("data_processing", func(ctx context.Context, h *Handle, task *model.Task) error {
		return errors.New("corrupted input")
	})

	id := c.AddTask("data_processing", nil)
	settle(t, c)

	report := c.TaskStatus(id)
	assert.Equal(t, model.TaskFailed, report.Status)
	assert.Equal(t, "corrupted input", report.Error)

	agents := c.Agents()
	require.Len(t, agents, 1)
	assert.Equal(t, model.AgentIdle, agents[0].Status, "agent returns to idle after a failure")

	// The failed agent must still accept new work.
	c.RegisterHandler("data_processing", func(ctx context.Context, h *Handle, task *model.Task) error {
		return nil
	})
	next := c.AddTask("data_processing", nil)
	settle(t, c)
	assert.Equal(t, model.TaskCompleted, c.TaskStatus(next).Status)
}

func TestMissingHandlerFailsTask(t *testing.T) {
	c := NewCoordinator(nil)
	c.RegisterAgent(NewAgent("rogue_agent", "mystery_type"))

	id := c.AddTask("mystery_type", nil)
	settle(t, c)

	report := c.TaskStatus(id)
	assert.Equal(t, model.TaskFailed, report.Status)
	assert.Contains(t, report.Error, "no handler registered")
}

func TestCompletedHistoryBounded(t *testing.T) {
	c := NewCoordinator(nil)
	c.SetHistoryCap(3)
	c.RegisterAgent(NewAgent("data_agent", "data_processing"))
	c.RegisterHandler("data_processing", func(ctx context.Context, h *Handle, task *model.Task) error {
		return nil
	})

	for i := 0; i < 6; i++ {
		c.AddTask("data_processing", nil)
		settle(t, c)
	}

	tasks := c.Tasks()
	completed := tasks["completed"].([]model.Task)
	assert.Len(t, completed, 3)
}

func TestSharedResults(t *testing.T) {
	c := NewCoordinator(nil)
	c.SetResult("thesis_report", map[string]interface{}{"ok": true})

	v, ok := c.Result("thesis_report")
	require.True(t, ok)
	assert.NotNil(t, v)

	_, ok = c.Result("missing")
	assert.False(t, ok)
	assert.Contains(t, c.Results(), "thesis_report")
}

type memArchiver struct {
	archived []model.Task
}

func (m *memArchiver) ArchiveTask(task model.Task) error {
	m.archived = append(m.archived, task)
	return nil
}

func TestTerminalTasksArchived(t *testing.T) {
	archiver := &memArchiver{}
	c := NewCoordinator(archiver)
	c.RegisterAgent(NewAgent("data_agent", "data_processing"))
	c.RegisterHandler("data_processing", func(ctx context.Context, h *Handle, task *model.Task) error {
		return nil
	})

	c.AddTask("data_processing", nil)
	settle(t, c)

	require.Len(t, archiver.archived, 1)
	assert.Equal(t, model.TaskCompleted, archiver.archived[0].Status)
}

func TestDefaultAgentsFullChain(t *testing.T) {
	dataDir := t.TempDir()
	output := utils.NewOutputManager(dataDir)
	require.NoError(t, output.EnsureDirs())
	processor := pipeline.NewProcessor(output, nil)

	input := filepath.Join(dataDir, "thesis_sections.csv")
	csv := "section_title,level,estimated_pages,difficulty_score\n" +
		"Introduction,1,5,2.0\n" +
		"Proposed Method,2,12,4.0\n" +
		"Results,2,8,3.0\n"
	require.NoError(t, os.WriteFile(input, []byte(csv), 0644))

	c := NewCoordinator(nil)
	RegisterDefaultAgents(c, processor)

	id := c.AddTask(model.TaskDataProcessing, map[string]interface{}{"input_file": input})
	drain(t, c)

	assert.Equal(t, model.TaskCompleted, c.TaskStatus(id).Status)

	_, ok := c.Result("latest_cleaning")
	assert.True(t, ok)
	_, ok = c.Result("thesis_uploaded_analysis")
	assert.True(t, ok)
	_, ok = c.Result("thesis_visualization")
	assert.True(t, ok)
	report, ok := c.Result("thesis_report")
	require.True(t, ok, "chain reaches the report agent")
	assert.Equal(t, "thesis", report.(map[string]interface{})["dataset_type"])

	tasks := c.Tasks()
	assert.Len(t, tasks["completed"].([]model.Task), 4, "one task per chain step")
}

func TestAgentLogsRecorded(t *testing.T) {
	c := NewCoordinator(nil)
	c.RegisterAgent(NewAgent("data_agent", "data_processing"))
	c.RegisterHandler("data_processing", func(ctx context.Context, h *Handle, task *model.Task) error {
		h.Log("info", "working")
		return nil
	})

	c.AddTask("data_processing", nil)
	settle(t, c)

	logs, ok := c.AgentLogs("data_agent")
	require.True(t, ok)
	require.NotEmpty(t, logs)
	messages := make([]string, 0, len(logs))
	for _, entry := range logs {
		messages = append(messages, entry.Message)
	}
	assert.Contains(t, messages, "working")

	_, ok = c.AgentLogs("ghost")
	assert.False(t, ok)
}

func TestStartSchedulesOnSubmitSignal(t *testing.T) {
	c := NewCoordinator(nil)
	c.RegisterAgent(NewAgent("data_agent", "data_processing"))
	done := make(chan struct{})
	c.RegisterHandler("data_processing", func(ctx context.Context, h *Handle, task *model.Task) error {
		close(done)
		return nil
	})

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go c.Start(ctx, time.Hour) // ticker effectively disabled; only the wake signal can fire

	c.AddTask("data_processing", nil)
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("submit signal did not wake the scheduler")
	}
}
