package local

import (
	"context"

	"github.com/qiboteam/qibo-cloud-providers/internal/ports"
)

// job is the handle returned by the in-process simulators. Simulation happens
// synchronously inside Run, so the job is born completed.
type job struct {
	samples [][]int
}

var _ ports.Job = (*job)(nil)

func (j *job) State(ctx context.Context) (string, error) {
	return ports.StateCompleted, nil
}

func (j *job) Result(ctx context.Context) ([][]int, error) {
	return j.samples, nil
}
