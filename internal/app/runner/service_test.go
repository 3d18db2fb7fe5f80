package runner

import (
	"context"
	"errors"
	"io"
	"sync"
	"testing"
	"time"

	"github.com/qiboteam/qibo-cloud-providers/internal/domain/run"
)

type concurrencyTracker struct {
	mu        sync.Mutex
	active    int
	maxActive int
}

func (c *concurrencyTracker) enter() func() {
	c.mu.Lock()
	c.active++
	if c.active > c.maxActive {
		c.maxActive = c.active
	}
	c.mu.Unlock()
	return func() {
		c.mu.Lock()
		c.active--
		c.mu.Unlock()
	}
}

type stubExecutor struct {
	executeFn func(ctx context.Context, task run.Task) run.Report
	closeFn   func() error

	mu     sync.Mutex
	closed bool
}

func (s *stubExecutor) ExecuteTask(ctx context.Context, task run.Task) run.Report {
	if s.executeFn != nil {
		return s.executeFn(ctx, task)
	}
	return run.Report{Task: task}
}

func (s *stubExecutor) Close() error {
	s.mu.Lock()
	s.closed = true
	s.mu.Unlock()
	if s.closeFn != nil {
		return s.closeFn()
	}
	return nil
}

type sequenceProducer struct {
	mu    sync.Mutex
	tasks []run.Task
}

func (p *sequenceProducer) NextTask(ctx context.Context) (run.Task, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if len(p.tasks) == 0 {
		return run.Task{}, io.EOF
	}
	task := p.tasks[0]
	p.tasks = p.tasks[1:]
	return task, nil
}

type errorProducer struct {
	err error
}

func (p errorProducer) NextTask(ctx context.Context) (run.Task, error) {
	return run.Task{}, p.err
}

func TestRunFromProducerRespectsMaxParallel(t *testing.T) {
	t.Parallel()

	tasks := []run.Task{
		{ID: "t1"},
		{ID: "t2"},
		{ID: "t3"},
		{ID: "t4"},
	}

	maxParallel := 2
	startCh := make(chan struct{}, len(tasks))
	releaseCh := make(chan struct{})
	tracker := &concurrencyTracker{}

	executor := &stubExecutor{
		executeFn: func(ctx context.Context, task run.Task) run.Report {
			done := tracker.enter()
			select {
			case startCh <- struct{}{}:
			default:
			}
			select {
			case <-releaseCh:
			case <-ctx.Done():
				done()
				return run.Report{Task: task, Err: ctx.Err()}
			}
			done()
			return run.Report{Task: task}
		},
	}

	producer := &sequenceProducer{tasks: tasks}
	service := NewService(executor)
	defer func() {
		if err := service.Close(); err != nil {
			t.Fatalf("close service: %v", err)
		}
	}()

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	errCh := make(chan error, 1)
	var mu sync.Mutex
	var reports []run.Report

	go func() {
		errCh <- service.RunFromProducer(ctx, producer, 0, maxParallel, func(report run.Report) {
			mu.Lock()
			reports = append(reports, report)
			mu.Unlock()
		})
	}()

	for range tasks {
		select {
		case <-startCh:
		case <-time.After(time.Second):
			t.Fatalf("timed out waiting for task to start")
		}
		releaseCh <- struct{}{}
	}

	select {
	case err := <-errCh:
		if err != nil {
			t.Fatalf("RunFromProducer error: %v", err)
		}
	case <-time.After(time.Second):
		t.Fatalf("RunFromProducer did not finish")
	}

	if tracker.maxActive > maxParallel {
		t.Fatalf("expected max %d concurrent executions, got %d", maxParallel, tracker.maxActive)
	}

	mu.Lock()
	defer mu.Unlock()
	if len(reports) != len(tasks) {
		t.Fatalf("expected %d reports, got %d", len(tasks), len(reports))
	}
}

func TestRunFromProducerStopsAfterMaxTasks(t *testing.T) {
	t.Parallel()

	producer := &sequenceProducer{tasks: []run.Task{
		{ID: "t1"},
		{ID: "t2"},
		{ID: "t3"},
	}}

	var mu sync.Mutex
	var executed []string
	executor := &stubExecutor{
		executeFn: func(ctx context.Context, task run.Task) run.Report {
			mu.Lock()
			executed = append(executed, task.ID)
			mu.Unlock()
			return run.Report{Task: task}
		},
	}

	service := NewService(executor)
	if err := service.RunFromProducer(context.Background(), producer, 2, 1, nil); err != nil {
		t.Fatalf("RunFromProducer error: %v", err)
	}

	mu.Lock()
	defer mu.Unlock()
	if len(executed) != 2 {
		t.Fatalf("expected 2 executed tasks, got %v", executed)
	}
}

func TestRunFromProducerFinishesOnEOF(t *testing.T) {
	t.Parallel()

	producer := &sequenceProducer{tasks: []run.Task{{ID: "t1"}}}
	service := NewService(&stubExecutor{})

	if err := service.RunFromProducer(context.Background(), producer, 0, 1, nil); err != nil {
		t.Fatalf("expected clean finish on EOF, got %v", err)
	}
}

func TestRunFromProducerProducerError(t *testing.T) {
	t.Parallel()

	wantErr := errors.New("producer failed")
	executor := &stubExecutor{
		executeFn: func(ctx context.Context, task run.Task) run.Report {
			t.Fatalf("unexpected execution call")
			return run.Report{}
		},
	}

	service := NewService(executor)
	err := service.RunFromProducer(context.Background(), errorProducer{err: wantErr}, 0, 1, nil)
	if err == nil {
		t.Fatalf("expected error, got nil")
	}
	if !errors.Is(err, wantErr) {
		t.Fatalf("expected error wrapping %v, got %v", wantErr, err)
	}
}

func TestRunFromProducerContextCancellation(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	producer := errorProducer{err: ctx.Err()}
	service := NewService(&stubExecutor{})

	if err := service.RunFromProducer(ctx, producer, 0, 1, nil); err != nil {
		t.Fatalf("expected clean finish on context cancellation, got %v", err)
	}
}

func TestCloseReleasesExecutor(t *testing.T) {
	t.Parallel()

	executor := &stubExecutor{}
	service := NewService(executor)
	if err := service.Close(); err != nil {
		t.Fatalf("Close returned error: %v", err)
	}

	executor.mu.Lock()
	defer executor.mu.Unlock()
	if !executor.closed {
		t.Fatalf("expected underlying executor to be closed")
	}
}
