package remote

import (
	"context"
	"fmt"
	"net/url"
	"time"

	"github.com/qiboteam/qibo-cloud-providers/internal/ports"
)

// Job is a provider-side job handle.
type Job struct {
	device *Device
	id     string
}

var _ ports.Job = (*Job)(nil)

// ID returns the provider-assigned job identifier.
func (j *Job) ID() string { return j.id }

// State fetches the job's current status tag from the provider.
func (j *Job) State(ctx context.Context) (string, error) {
	var resp statusResponse
	if err := j.device.do(ctx, "GET", "/jobs/"+url.PathEscape(j.id), nil, &resp); err != nil {
		return "", fmt.Errorf("job status: %w", err)
	}
	return resp.Status, nil
}

// Result blocks until the job reaches a terminal state, then fetches the raw
// per-shot samples. A failed job surfaces the provider's error message.
func (j *Job) Result(ctx context.Context) ([][]int, error) {
	for {
		var status statusResponse
		if err := j.device.do(ctx, "GET", "/jobs/"+url.PathEscape(j.id), nil, &status); err != nil {
			return nil, fmt.Errorf("job status: %w", err)
		}

		if status.Status == ports.StateFailed {
			if status.Error != "" {
				return nil, fmt.Errorf("job %s failed: %s", j.id, status.Error)
			}
			return nil, fmt.Errorf("job %s failed", j.id)
		}
		if status.Status == ports.StateCompleted {
			break
		}

		select {
		case <-time.After(j.device.pollInterval):
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}

	var resp resultResponse
	if err := j.device.do(ctx, "GET", "/jobs/"+url.PathEscape(j.id)+"/result", nil, &resp); err != nil {
		return nil, fmt.Errorf("job result: %w", err)
	}
	return resp.Samples, nil
}
