package workers

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func waitForStatus(t *testing.T, p *Pool, id string, want Status) Task {
	t.Helper()
	deadline := time.Now().Add(5 * time.Second)
	for time.Now().Before(deadline) {
		task, ok := p.Task(id)
		require.True(t, ok)
		if task.Status == want {
			return task
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatalf("task %s never reached status %s", id, want)
	return Task{}
}

func TestSubmitRunsTask(t *testing.T) {
	p := NewPool(1, nil)
	defer p.Shutdown()

	done := make(chan struct{})
	task := p.Submit("convert", func(ctx context.Context) error {
		close(done)
		return nil
	})
	assert.Equal(t, StatusPending, task.Status)
	assert.NotEmpty(t, task.ID)

	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Fatal("task never ran")
	}

	final := waitForStatus(t, p, task.ID, StatusSucceeded)
	assert.False(t, final.Started.IsZero())
	assert.False(t, final.Finished.IsZero())
	assert.Empty(t, final.Error)
}

func TestFailedTaskRecordsError(t *testing.T) {
	p := NewPool(1, nil)
	defer p.Shutdown()

	task := p.Submit("embed", func(ctx context.Context) error {
		return fmt.Errorf("boom")
	})

	final := waitForStatus(t, p, task.ID, StatusFailed)
	assert.Equal(t, "boom", final.Error)
}

func TestSingleWorkerSerializesTasks(t *testing.T) {
	p := NewPool(1, nil)
	defer p.Shutdown()

	running := make(chan struct{})
	release := make(chan struct{})
	first := p.Submit("first", func(ctx context.Context) error {
		close(running)
		<-release
		return nil
	})
	second := p.Submit("second", func(ctx context.Context) error {
		return nil
	})

	<-running
	task, ok := p.Task(second.ID)
	require.True(t, ok)
	assert.Equal(t, StatusPending, task.Status)

	close(release)
	waitForStatus(t, p, first.ID, StatusSucceeded)
	waitForStatus(t, p, second.ID, StatusSucceeded)
}

func TestListNewestFirst(t *testing.T) {
	p := NewPool(2, nil)
	defer p.Shutdown()

	a := p.Submit("a", func(ctx context.Context) error { return nil })
	time.Sleep(2 * time.Millisecond)
	b := p.Submit("b", func(ctx context.Context) error { return nil })

	list := p.List()
	require.Len(t, list, 2)
	assert.Equal(t, b.ID, list[0].ID)
	assert.Equal(t, a.ID, list[1].ID)
}

func TestTaskUnknownID(t *testing.T) {
	p := NewPool(1, nil)
	defer p.Shutdown()

	_, ok := p.Task("nope")
	assert.False(t, ok)
}

func TestShutdownCancelsTaskContext(t *testing.T) {
	p := NewPool(1, nil)

	started := make(chan struct{})
	stopped := make(chan struct{})
	p.Submit("long", func(ctx context.Context) error {
		close(started)
		<-ctx.Done()
		close(stopped)
		return ctx.Err()
	})

	<-started
	p.Shutdown()

	select {
	case <-stopped:
	case <-time.After(5 * time.Second):
		t.Fatal("task context never cancelled")
	}
}
