package ports

import (
	"context"

	"github.com/qiboteam/qibo-cloud-providers/internal/domain/run"
)

// ReportPublisher publishes execution reports to an external system.
type ReportPublisher interface {
	PublishReport(ctx context.Context, report run.Report) error
	Close() error
}
