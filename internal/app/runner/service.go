// Package runner coordinates circuit execution tasks pulled from a producer.
package runner

import (
	"context"
	"errors"
	"fmt"
	"io"
	"sync"

	"github.com/qiboteam/qibo-cloud-providers/internal/domain/run"
	"github.com/qiboteam/qibo-cloud-providers/internal/ports"
)

// Service executes tasks from a producer with bounded parallelism.
type Service struct {
	executor ports.Executor
}

// NewService constructs a Service around the provided executor.
func NewService(executor ports.Executor) *Service {
	return &Service{executor: executor}
}

// RunFromProducer pulls tasks from the supplied producer and executes them
// with bounded parallelism.
//
// If maxTasks is greater than zero the loop stops after that many tasks have
// been accepted. Otherwise it keeps consuming until the context is cancelled
// or the producer signals completion via io.EOF.
//
// When onReport is provided it is invoked after every execution with the
// corresponding report.
func (s *Service) RunFromProducer(
	ctx context.Context,
	producer ports.CircuitProducer,
	maxTasks int,
	maxParallel int,
	onReport func(run.Report),
) error {
	if maxParallel <= 0 {
		maxParallel = 1
	}

	var wg sync.WaitGroup
	sem := make(chan struct{}, maxParallel)
	accepted := 0

	finish := func(err error) error {
		wg.Wait()
		return err
	}

	for {
		if maxTasks > 0 && accepted >= maxTasks {
			return finish(nil)
		}

		task, err := producer.NextTask(ctx)
		if err != nil {
			if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) || errors.Is(err, io.EOF) {
				return finish(nil)
			}

			return finish(fmt.Errorf("get next task: %w", err))
		}

		sem <- struct{}{}
		wg.Add(1)
		accepted++
		go func(task run.Task) {
			defer wg.Done()
			defer func() { <-sem }()

			report := s.executor.ExecuteTask(ctx, task)
			if onReport != nil {
				onReport(report)
			}
		}(task)
	}
}

// Close releases any resources owned by the underlying executor.
func (s *Service) Close() error {
	return s.executor.Close()
}
