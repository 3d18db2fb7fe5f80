package ports

import (
	"context"

	"github.com/qiboteam/qibo-cloud-providers/internal/domain/run"
)

// Executor runs a single circuit execution task to completion.
type Executor interface {
	ExecuteTask(ctx context.Context, task run.Task) run.Report
	Close() error
}
