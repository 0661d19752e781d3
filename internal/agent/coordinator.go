package agent

import (
	"context"
	"fmt"
	"log"
	"sort"
	"sync"
	"time"

	"research-data-pipeline/internal/model"
)

// DefaultCompletedHistoryCap bounds the in-memory completed task log.
const DefaultCompletedHistoryCap = 100

// Handler executes one task on behalf of an agent. Handlers run on their
// own goroutine and must not block the scheduling pass. A handler that
// needs to chain a successor enqueues it itself via the handle.
type Handler func(ctx context.Context, h *Handle, task *model.Task) error

// TaskArchiver persists terminal tasks; the sqlite store satisfies it.
type TaskArchiver interface {
	ArchiveTask(task model.Task) error
}

// Agent is a capability-scoped worker that claims and executes one task at
// a time. All mutable fields are guarded by the owning coordinator's
// mutex.
type Agent struct {
	Name         string
	Capabilities map[string]bool

	status      model.AgentStatus
	currentTask string
	progress    int
	logs        []model.AgentLogEntry
}

// NewAgent builds an idle agent with the given capability set.
func NewAgent(name string, capabilities ...string) *Agent {
	caps := make(map[string]bool, len(capabilities))
	for _, c := range capabilities {
		caps[c] = true
	}
	return &Agent{Name: name, Capabilities: caps, status: model.AgentIdle}
}

// CanHandle reports whether the agent's capability set contains taskType.
func (a *Agent) CanHandle(taskType string) bool { return a.Capabilities[taskType] }

// Coordinator owns the task queue, the agent registry and the shared
// results map. It is constructed explicitly and passed to whoever needs
// it; there are no package-level registries. Every mutation of the queue,
// the active set, the history and the results map happens under mu.
type Coordinator struct {
	mu        sync.Mutex
	queue     []*model.Task
	active    map[string]*model.Task
	completed []*model.Task
	agents    []*Agent
	handlers  map[string]Handler
	results   map[string]interface{}

	seq        int
	historyCap int
	archiver   TaskArchiver
	wake       chan struct{}
	running    sync.WaitGroup
}

// NewCoordinator builds an empty coordinator. Register agents and
// handlers before starting the scheduler.
func NewCoordinator(archiver TaskArchiver) *Coordinator {
	return &Coordinator{
		active:     make(map[string]*model.Task),
		handlers:   make(map[string]Handler),
		results:    make(map[string]interface{}),
		historyCap: DefaultCompletedHistoryCap,
		archiver:   archiver,
		wake:       make(chan struct{}, 1),
	}
}

// SetHistoryCap overrides the completed history bound. Values below one
// are ignored.
func (c *Coordinator) SetHistoryCap(n int) {
	if n < 1 {
		return
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.historyCap = n
}

// RegisterAgent appends an agent to the registry. Scheduling iterates
// agents in registration order, so order is part of the contract.
func (c *Coordinator) RegisterAgent(a *Agent) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.agents = append(c.agents, a)
}

// RegisterHandler binds the handler for one task type.
func (c *Coordinator) RegisterHandler(taskType string, h Handler) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.handlers[taskType] = h
}

// AddTask enqueues a task in FIFO order and returns its id immediately.
// It always succeeds. The id combines the creation second with a sequence
// index so concurrent submissions never collide.
func (c *Coordinator) AddTask(taskType string, parameters map[string]interface{}) string {
	if parameters == nil {
		parameters = map[string]interface{}{}
	}
	c.mu.Lock()
	c.seq++
	task := &model.Task{
		ID:         fmt.Sprintf("task_%d_%d", time.Now().Unix(), c.seq),
		Type:       taskType,
		Parameters: parameters,
		Status:     model.TaskQueued,
		CreatedAt:  time.Now().UTC(),
	}
	c.queue = append(c.queue, task)
	c.mu.Unlock()

	// Nudge the scheduler instead of waiting for the next tick.
	select {
	case c.wake <- struct{}{}:
	default:
	}
	return task.ID
}

// Start runs the scheduling loop until ctx is cancelled. The loop wakes on
// task submission and on the interval ticker as a safety net; dispatched
// work runs on its own goroutine so a slow task never stalls scanning.
func (c *Coordinator) Start(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-c.wake:
		case <-ticker.C:
		}
		c.RunSchedulePass(ctx)
	}
}

// RunSchedulePass performs one greedy scan: queued tasks in FIFO order are
// matched against agents in registration order, and each match is
// dispatched. Tasks with no idle capable agent stay queued for the next
// pass.
func (c *Coordinator) RunSchedulePass(ctx context.Context) {
	c.mu.Lock()
	var remaining []*model.Task
	for _, task := range c.queue {
		agent := c.findIdleAgentLocked(task.Type)
		if agent == nil {
			remaining = append(remaining, task)
			continue
		}
		c.assignLocked(task, agent)
		c.running.Add(1)
		go c.runTask(ctx, agent, task)
	}
	c.queue = remaining
	c.mu.Unlock()
}

func (c *Coordinator) findIdleAgentLocked(taskType string) *Agent {
	for _, a := range c.agents {
		if a.CanHandle(taskType) && a.status == model.AgentIdle {
			return a
		}
	}
	return nil
}

func (c *Coordinator) assignLocked(task *model.Task, a *Agent) {
	now := time.Now().UTC()
	task.Status = model.TaskInProgress
	task.AssignedAgent = a.Name
	task.StartedAt = &now
	c.active[task.ID] = task

	a.status = model.AgentBusy
	a.currentTask = task.ID
	a.progress = 0
}

// runTask executes one dispatched task to completion on its own
// goroutine and settles the terminal state.
func (c *Coordinator) runTask(ctx context.Context, a *Agent, task *model.Task) {
	defer c.running.Done()
	handle := &Handle{c: c, agent: a}

	c.mu.Lock()
	handler := c.handlers[task.Type]
	c.mu.Unlock()

	var err error
	if handler == nil {
		err = fmt.Errorf("no handler registered for task type %s", task.Type)
	} else {
		handle.Log("info", fmt.Sprintf("Starting task: %s", task.Type))
		err = handler(ctx, handle, task)
	}

	now := time.Now().UTC()
	c.mu.Lock()
	task.CompletedAt = &now
	if err != nil {
		task.Status = model.TaskFailed
		task.Error = err.Error()
	} else {
		task.Status = model.TaskCompleted
	}
	delete(c.active, task.ID)
	c.completed = append(c.completed, task)
	if len(c.completed) > c.historyCap {
		c.completed = c.completed[len(c.completed)-c.historyCap:]
	}
	a.status = model.AgentIdle
	a.currentTask = ""
	a.progress = 0
	c.mu.Unlock()

	if err != nil {
		handle.Log("error", fmt.Sprintf("Task %s failed: %v", task.Type, err))
		log.Printf("❌ Task %s (%s) failed: %v", task.ID, task.Type, err)
	} else {
		handle.Log("info", fmt.Sprintf("Completed task: %s", task.Type))
	}

	if c.archiver != nil {
		if archiveErr := c.archiver.ArchiveTask(*task); archiveErr != nil {
			log.Printf("⚠️ Failed to archive task %s: %v", task.ID, archiveErr)
		}
	}
}

// WaitIdle blocks until every dispatched task has settled. Test helper
// and shutdown aid; new submissions during the wait extend it.
func (c *Coordinator) WaitIdle() { c.running.Wait() }

// TaskStatus answers a status query, checking the active set first, then
// the completed history, then the queue. Unknown ids come back with
// Found=false rather than an error.
func (c *Coordinator) TaskStatus(taskID string) model.TaskStatusReport {
	c.mu.Lock()
	defer c.mu.Unlock()

	if task, ok := c.active[taskID]; ok {
		report := model.TaskStatusReport{
			TaskID:        taskID,
			Found:         true,
			Status:        task.Status,
			AssignedAgent: task.AssignedAgent,
			CreatedAt:     &task.CreatedAt,
			StartedAt:     task.StartedAt,
		}
		for _, a := range c.agents {
			if a.Name == task.AssignedAgent {
				report.Progress = a.progress
			}
		}
		return report
	}
	for _, task := range c.completed {
		if task.ID == taskID {
			return model.TaskStatusReport{
				TaskID:      taskID,
				Found:       true,
				Status:      task.Status,
				CreatedAt:   &task.CreatedAt,
				StartedAt:   task.StartedAt,
				CompletedAt: task.CompletedAt,
				Error:       task.Error,
			}
		}
	}
	for _, task := range c.queue {
		if task.ID == taskID {
			return model.TaskStatusReport{
				TaskID:    taskID,
				Found:     true,
				Status:    model.TaskQueued,
				CreatedAt: &task.CreatedAt,
			}
		}
	}
	return model.TaskStatusReport{TaskID: taskID, Found: false}
}

// Status reports overall queue and agent counts.
func (c *Coordinator) Status() map[string]interface{} {
	c.mu.Lock()
	defer c.mu.Unlock()
	agents := make(map[string]interface{}, len(c.agents))
	for _, a := range c.agents {
		agents[a.Name] = a.snapshotLocked()
	}
	return map[string]interface{}{
		"agents":          agents,
		"task_queue":      len(c.queue),
		"active_tasks":    len(c.active),
		"completed_tasks": len(c.completed),
	}
}

// Agents returns a snapshot of every registered agent.
func (c *Coordinator) Agents() []model.AgentSnapshot {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]model.AgentSnapshot, 0, len(c.agents))
	for _, a := range c.agents {
		out = append(out, a.snapshotLocked())
	}
	return out
}

// AgentLogs returns the ordered log of one agent, with ok=false for
// unknown names.
func (c *Coordinator) AgentLogs(name string) ([]model.AgentLogEntry, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, a := range c.agents {
		if a.Name == name {
			return append([]model.AgentLogEntry(nil), a.logs...), true
		}
	}
	return nil, false
}

// Tasks lists queued, active and completed tasks for the API.
func (c *Coordinator) Tasks() map[string]interface{} {
	c.mu.Lock()
	defer c.mu.Unlock()
	queued := make([]model.Task, 0, len(c.queue))
	for _, t := range c.queue {
		queued = append(queued, *t)
	}
	active := make([]model.Task, 0, len(c.active))
	for _, t := range c.active {
		active = append(active, *t)
	}
	completed := make([]model.Task, 0, len(c.completed))
	for _, t := range c.completed {
		completed = append(completed, *t)
	}
	return map[string]interface{}{
		"queued":    queued,
		"active":    active,
		"completed": completed,
	}
}

// SetResult stores a shared result under key.
func (c *Coordinator) SetResult(key string, value interface{}) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.results[key] = value
}

// Result fetches a shared result.
func (c *Coordinator) Result(key string) (interface{}, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	v, ok := c.results[key]
	return v, ok
}

// Results copies the whole shared results map.
func (c *Coordinator) Results() map[string]interface{} {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make(map[string]interface{}, len(c.results))
	for k, v := range c.results {
		out[k] = v
	}
	return out
}

func (a *Agent) snapshotLocked() model.AgentSnapshot {
	caps := make([]string, 0, len(a.Capabilities))
	for capability := range a.Capabilities {
		caps = append(caps, capability)
	}
	sort.Strings(caps)
	return model.AgentSnapshot{
		Name:         a.Name,
		Status:       a.status,
		Progress:     a.progress,
		CurrentTask:  a.currentTask,
		Capabilities: caps,
	}
}

// Handle is what a running handler sees of its agent and coordinator:
// progress and log reporting plus successor enqueueing and shared
// results.
type Handle struct {
	c     *Coordinator
	agent *Agent
}

// Log appends one entry to the executing agent's log.
func (h *Handle) Log(level, message string) {
	h.c.mu.Lock()
	defer h.c.mu.Unlock()
	h.agent.logs = append(h.agent.logs, model.AgentLogEntry{
		Timestamp: time.Now().UTC(),
		Level:     level,
		Message:   message,
	})
}

// SetProgress updates the agent's progress percentage (0-100).
func (h *Handle) SetProgress(p int) {
	h.c.mu.Lock()
	defer h.c.mu.Unlock()
	h.agent.progress = p
}

// EnqueueSuccessor chains a follow-on task; the completing agent drives
// the chain, not a central scheduler.
func (h *Handle) EnqueueSuccessor(taskType string, parameters map[string]interface{}) string {
	return h.c.AddTask(taskType, parameters)
}

// SetResult stores a shared result from within a handler.
func (h *Handle) SetResult(key string, value interface{}) { h.c.SetResult(key, value) }

// Result reads a shared result from within a handler.
func (h *Handle) Result(key string) (interface{}, bool) { return h.c.Result(key) }
