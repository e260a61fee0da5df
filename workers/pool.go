// Package workers runs background batch tasks with pollable handles, so a
// caller that triggers a batch can observe it instead of firing and
// forgetting.
package workers

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Status is the lifecycle state of a submitted task.
type Status string

const (
	StatusPending   Status = "pending"
	StatusRunning   Status = "running"
	StatusSucceeded Status = "succeeded"
	StatusFailed    Status = "failed"
)

// Task is a snapshot of one submitted unit of work.
type Task struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Status    Status    `json:"status"`
	Error     string    `json:"error,omitempty"`
	Submitted time.Time `json:"submitted"`
	Started   time.Time `json:"started,omitzero"`
	Finished  time.Time `json:"finished,omitzero"`
}

type job struct {
	id string
	fn func(ctx context.Context) error
}

// Pool executes tasks on a fixed number of workers. The default single
// worker serializes batches, which keeps the registry's single-writer-per-
// document constraint trivially satisfied.
type Pool struct {
	mu     sync.Mutex
	tasks  map[string]*Task
	queue  chan job
	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup
	logger *zap.Logger
}

// NewPool starts size workers (minimum 1). logger may be nil.
func NewPool(size int, logger *zap.Logger) *Pool {
	if size < 1 {
		size = 1
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	ctx, cancel := context.WithCancel(context.Background())
	p := &Pool{
		tasks:  make(map[string]*Task),
		queue:  make(chan job, 64),
		ctx:    ctx,
		cancel: cancel,
		logger: logger,
	}
	for i := 0; i < size; i++ {
		p.wg.Add(1)
		go p.worker()
	}
	return p
}

func (p *Pool) worker() {
	defer p.wg.Done()
	for {
		select {
		case <-p.ctx.Done():
			return
		case j, ok := <-p.queue:
			if !ok {
				return
			}
			p.run(j)
		}
	}
}

func (p *Pool) run(j job) {
	p.update(j.id, func(t *Task) {
		t.Status = StatusRunning
		t.Started = time.Now()
	})

	err := j.fn(p.ctx)

	p.update(j.id, func(t *Task) {
		t.Finished = time.Now()
		if err != nil {
			t.Status = StatusFailed
			t.Error = err.Error()
		} else {
			t.Status = StatusSucceeded
		}
	})
	if err != nil {
		p.logger.Warn("task failed", zap.String("id", j.id), zap.Error(err))
	}
}

// Submit queues fn and returns a snapshot of its pending task handle.
func (p *Pool) Submit(name string, fn func(ctx context.Context) error) Task {
	t := &Task{
		ID:        uuid.NewString(),
		Name:      name,
		Status:    StatusPending,
		Submitted: time.Now(),
	}

	p.mu.Lock()
	p.tasks[t.ID] = t
	snapshot := *t
	p.mu.Unlock()

	p.queue <- job{id: t.ID, fn: fn}
	return snapshot
}

// Task returns a snapshot of one task by ID.
func (p *Pool) Task(id string) (Task, bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	t, ok := p.tasks[id]
	if !ok {
		return Task{}, false
	}
	return *t, true
}

// List returns snapshots of all tasks, newest first.
func (p *Pool) List() []Task {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]Task, 0, len(p.tasks))
	for _, t := range p.tasks {
		out = append(out, *t)
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].Submitted.After(out[j].Submitted)
	})
	return out
}

// Shutdown cancels running tasks and waits for workers to exit.
func (p *Pool) Shutdown() {
	p.cancel()
	p.wg.Wait()
}

func (p *Pool) update(id string, fn func(*Task)) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if t, ok := p.tasks[id]; ok {
		fn(t)
	}
}
