package ports

import (
	"context"

	"github.com/qiboteam/qibo-cloud-providers/internal/domain/run"
)

// CircuitProducer supplies circuit execution tasks to a runner service.
// Producers signal completion by returning io.EOF.
type CircuitProducer interface {
	NextTask(ctx context.Context) (run.Task, error)
}
