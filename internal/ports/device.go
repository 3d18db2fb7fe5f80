package ports

import (
	"context"

	"github.com/qiboteam/qibo-cloud-providers/internal/domain/program"
)

// Job status tags as observed by the client. Devices report their own
// intermediate states; only the terminal tags are interpreted here.
const (
	StateQueued    = "QUEUED"
	StateRunning   = "RUNNING"
	StateCompleted = "COMPLETED"
	StateFailed    = "FAILED"
)

// Job is the opaque handle a device returns on submission.
type Job interface {
	// State returns the job's current status tag.
	State(ctx context.Context) (string, error)
	// Result blocks until the job completes and returns the raw per-shot
	// samples: one row per shot, one bit per program qubit.
	Result(ctx context.Context) ([][]int, error)
}

// Device submits provider programs for shot-based execution.
type Device interface {
	// Name identifies the device, e.g. for progress output.
	Name() string
	// Run submits a program with a shot count and passthrough options and
	// returns a job handle.
	Run(ctx context.Context, prog program.Program, shots int, options map[string]any) (Job, error)
	Close() error
}
