package docker

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"sync"

	"github.com/docker/docker/api/types/container"
	"github.com/docker/docker/pkg/stdcopy"

	"github.com/qiboteam/qibo-cloud-providers/internal/ports"
)

// containerJob tracks a running sampler container. The container is removed
// once the result has been read.
type containerJob struct {
	cli         dockerClient
	containerID string

	mu      sync.Mutex
	samples [][]int
	done    bool
}

var _ ports.Job = (*containerJob)(nil)

// State maps the container state onto job status tags.
func (j *containerJob) State(ctx context.Context) (string, error) {
	j.mu.Lock()
	done := j.done
	j.mu.Unlock()
	if done {
		return ports.StateCompleted, nil
	}

	inspect, err := j.cli.ContainerInspect(ctx, j.containerID)
	if err != nil {
		return "", fmt.Errorf("inspect container: %w", err)
	}
	if inspect.State == nil {
		return ports.StateQueued, nil
	}

	switch {
	case inspect.State.Running:
		return ports.StateRunning, nil
	case inspect.State.Status == "created":
		return ports.StateQueued, nil
	case inspect.State.ExitCode != 0:
		return ports.StateFailed, nil
	default:
		return ports.StateCompleted, nil
	}
}

// Result waits for the container to exit, parses the sampler's stdout and
// removes the container.
func (j *containerJob) Result(ctx context.Context) ([][]int, error) {
	j.mu.Lock()
	defer j.mu.Unlock()
	if j.done {
		return j.samples, nil
	}

	status, err := j.waitForExit(ctx)
	if err != nil {
		return nil, err
	}

	stdout, stderr, err := j.fetchLogs(ctx)
	removeCtx := ctx
	if removeCtx.Err() != nil {
		removeCtx = context.Background()
	}
	_ = j.cli.ContainerRemove(removeCtx, j.containerID, container.RemoveOptions{Force: true})
	if err != nil {
		return nil, fmt.Errorf("fetch logs: %w", err)
	}

	if status.StatusCode != 0 {
		return nil, fmt.Errorf("sampler exited with code %d: %s", status.StatusCode, strings.TrimSpace(stderr))
	}

	var payload samplesPayload
	if err := json.Unmarshal([]byte(stdout), &payload); err != nil {
		return nil, fmt.Errorf("decode sampler output: %w", err)
	}

	j.samples = payload.Samples
	j.done = true
	return j.samples, nil
}

func (j *containerJob) waitForExit(ctx context.Context) (*container.WaitResponse, error) {
	statusCh, errCh := j.cli.ContainerWait(ctx, j.containerID, container.WaitConditionNotRunning)
	select {
	case status := <-statusCh:
		if status.Error != nil {
			return nil, fmt.Errorf("container error: %s", status.Error.Message)
		}
		return &status, nil
	case err := <-errCh:
		return nil, fmt.Errorf("wait for container: %w", err)
	case <-ctx.Done():
		return nil, fmt.Errorf("wait for container: %w", ctx.Err())
	}
}

func (j *containerJob) fetchLogs(ctx context.Context) (stdout, stderr string, err error) {
	if ctx.Err() != nil {
		ctx = context.Background()
	}

	logs, err := j.cli.ContainerLogs(ctx, j.containerID, container.LogsOptions{ShowStdout: true, ShowStderr: true})
	if err != nil {
		return "", "", err
	}
	defer logs.Close()

	var stdoutBuf, stderrBuf bytes.Buffer
	if _, err := stdcopy.StdCopy(&stdoutBuf, &stderrBuf, logs); err != nil {
		return "", "", err
	}

	return stdoutBuf.String(), stderrBuf.String(), nil
}
