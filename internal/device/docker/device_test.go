package docker

import (
	"archive/tar"
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"reflect"
	"strings"
	"testing"

	"github.com/docker/docker/api/types"
	"github.com/docker/docker/api/types/container"

	"github.com/qiboteam/qibo-cloud-providers/internal/domain/program"
	"github.com/qiboteam/qibo-cloud-providers/internal/ports"
)

func testProgram() program.Program {
	return program.Program{
		Qubits: 2,
		Instructions: []program.Instruction{
			{Op: program.OpH, Qubits: []int{0}},
			{Op: program.OpCNot, Qubits: []int{0, 1}},
		},
	}
}

func extractArchiveFile(t *testing.T, data []byte, name string) []byte {
	t.Helper()

	tr := tar.NewReader(bytes.NewReader(data))
	for {
		header, err := tr.Next()
		if err == io.EOF {
			break
		}
		if err != nil {
			t.Fatalf("read tar archive: %v", err)
		}
		if header.Name != name {
			continue
		}
		content, err := io.ReadAll(tr)
		if err != nil {
			t.Fatalf("read tar entry: %v", err)
		}
		return content
	}
	t.Fatalf("archive does not contain %q", name)
	return nil
}

func TestNewRequiresImage(t *testing.T) {
	t.Parallel()

	if _, err := New(Config{}); err == nil || !strings.Contains(err.Error(), "sampler image must be provided") {
		t.Fatalf("expected missing image error, got %v", err)
	}
}

func TestRunCreatesAndStartsContainer(t *testing.T) {
	t.Parallel()

	cli := newFakeDockerClient()
	dev := newDeviceWithClient(cli, Config{Image: "qcp/sampler:latest"})

	options := map[string]any{"seed": float64(9)}
	job, err := dev.Run(context.Background(), testProgram(), 128, options)
	if err != nil {
		t.Fatalf("Run returned error: %v", err)
	}

	if len(cli.imagePulls) != 1 || cli.imagePulls[0] != "qcp/sampler:latest" {
		t.Fatalf("expected one pull of the sampler image, got %v", cli.imagePulls)
	}
	if len(cli.createCalls) != 1 {
		t.Fatalf("expected one container, got %d", len(cli.createCalls))
	}

	created := cli.createCalls[0]
	if created.config.Image != "qcp/sampler:latest" {
		t.Fatalf("unexpected container image %q", created.config.Image)
	}
	if !reflect.DeepEqual([]string(created.config.Cmd), []string{"/sampler", "/work/program.json"}) {
		t.Fatalf("unexpected container command %v", created.config.Cmd)
	}
	if created.config.WorkingDir != "/work" {
		t.Fatalf("unexpected workdir %q", created.config.WorkingDir)
	}

	if len(cli.copyToCalls) != 1 || cli.copyToCalls[0].path != "/work" {
		t.Fatalf("expected program copied to /work, got %#v", cli.copyToCalls)
	}

	var payload runPayload
	raw := extractArchiveFile(t, cli.copyToCalls[0].data, "program.json")
	if err := json.Unmarshal(raw, &payload); err != nil {
		t.Fatalf("decode copied payload: %v", err)
	}
	if payload.Shots != 128 || !reflect.DeepEqual(payload.Program, testProgram()) {
		t.Fatalf("unexpected payload: %#v", payload)
	}
	if !reflect.DeepEqual(payload.Options, options) {
		t.Fatalf("unexpected options in payload: %#v", payload.Options)
	}

	if len(cli.startCalls) != 1 {
		t.Fatalf("expected one container start, got %v", cli.startCalls)
	}
	if _, ok := job.(*containerJob); !ok {
		t.Fatalf("expected *containerJob, got %T", job)
	}
}

func TestRunPullsImageOnce(t *testing.T) {
	t.Parallel()

	cli := newFakeDockerClient()
	dev := newDeviceWithClient(cli, Config{Image: "qcp/sampler:latest"})

	for i := 0; i < 3; i++ {
		if _, err := dev.Run(context.Background(), testProgram(), 10, nil); err != nil {
			t.Fatalf("Run returned error: %v", err)
		}
	}

	if len(cli.imagePulls) != 1 {
		t.Fatalf("expected a single image pull across runs, got %d", len(cli.imagePulls))
	}
}

func TestRunPullFailure(t *testing.T) {
	t.Parallel()

	cli := newFakeDockerClient()
	cli.pullErr = errors.New("registry unavailable")
	dev := newDeviceWithClient(cli, Config{Image: "qcp/sampler:latest"})

	_, err := dev.Run(context.Background(), testProgram(), 10, nil)
	if err == nil || !strings.Contains(err.Error(), "pull image") {
		t.Fatalf("expected pull error, got %v", err)
	}
	if len(cli.createCalls) != 0 {
		t.Fatalf("no container must be created when the pull fails")
	}
}

func TestRunRemovesContainerOnStartFailure(t *testing.T) {
	t.Parallel()

	cli := newFakeDockerClient()
	cli.startErr = errors.New("cannot start")
	dev := newDeviceWithClient(cli, Config{Image: "qcp/sampler:latest"})

	_, err := dev.Run(context.Background(), testProgram(), 10, nil)
	if err == nil || !strings.Contains(err.Error(), "start container") {
		t.Fatalf("expected start error, got %v", err)
	}
	if len(cli.removeCalls) != 1 {
		t.Fatalf("expected the stale container to be removed, got %v", cli.removeCalls)
	}
}

func TestRunRemovesContainerOnCopyFailure(t *testing.T) {
	t.Parallel()

	cli := newFakeDockerClient()
	cli.copyErr = errors.New("no space left")
	dev := newDeviceWithClient(cli, Config{Image: "qcp/sampler:latest"})

	_, err := dev.Run(context.Background(), testProgram(), 10, nil)
	if err == nil || !strings.Contains(err.Error(), "copy program") {
		t.Fatalf("expected copy error, got %v", err)
	}
	if len(cli.removeCalls) != 1 {
		t.Fatalf("expected the stale container to be removed, got %v", cli.removeCalls)
	}
}

func TestJobStateMapping(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name  string
		state *types.ContainerState
		want  string
	}{
		{"running", &types.ContainerState{Running: true}, ports.StateRunning},
		{"created", &types.ContainerState{Status: "created"}, ports.StateQueued},
		{"failed", &types.ContainerState{Status: "exited", ExitCode: 2}, ports.StateFailed},
		{"exited cleanly", &types.ContainerState{Status: "exited"}, ports.StateCompleted},
	}

	for _, tc := range cases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			cli := newFakeDockerClient()
			cli.setInspect("container-0", tc.state)

			job := &containerJob{cli: cli, containerID: "container-0"}
			state, err := job.State(context.Background())
			if err != nil {
				t.Fatalf("State returned error: %v", err)
			}
			if state != tc.want {
				t.Fatalf("expected state %q, got %q", tc.want, state)
			}
		})
	}
}

func TestJobResultParsesSamplerOutput(t *testing.T) {
	t.Parallel()

	cli := newFakeDockerClient()
	cli.setWaitSequence("container-0", waitCall{status: &container.WaitResponse{StatusCode: 0}})
	cli.setLogs("container-0", `{"samples":[[0,1],[1,0]]}`, "")

	job := &containerJob{cli: cli, containerID: "container-0"}
	samples, err := job.Result(context.Background())
	if err != nil {
		t.Fatalf("Result returned error: %v", err)
	}
	if !reflect.DeepEqual(samples, [][]int{{0, 1}, {1, 0}}) {
		t.Fatalf("unexpected samples: %v", samples)
	}

	if len(cli.removeCalls) != 1 || cli.removeCalls[0] != "container-0" {
		t.Fatalf("expected the finished container to be removed, got %v", cli.removeCalls)
	}

	state, err := job.State(context.Background())
	if err != nil {
		t.Fatalf("State returned error: %v", err)
	}
	if state != ports.StateCompleted {
		t.Fatalf("expected COMPLETED after result, got %q", state)
	}
}

func TestJobResultCachesSamples(t *testing.T) {
	t.Parallel()

	cli := newFakeDockerClient()
	cli.setWaitSequence("container-0", waitCall{status: &container.WaitResponse{StatusCode: 0}})
	cli.setLogs("container-0", `{"samples":[[1]]}`, "")

	job := &containerJob{cli: cli, containerID: "container-0"}
	first, err := job.Result(context.Background())
	if err != nil {
		t.Fatalf("Result returned error: %v", err)
	}
	second, err := job.Result(context.Background())
	if err != nil {
		t.Fatalf("second Result returned error: %v", err)
	}
	if !reflect.DeepEqual(first, second) {
		t.Fatalf("expected cached result, got %v and %v", first, second)
	}
	if len(cli.removeCalls) != 1 {
		t.Fatalf("expected a single container removal, got %v", cli.removeCalls)
	}
}

func TestJobResultSurfacesSamplerFailure(t *testing.T) {
	t.Parallel()

	cli := newFakeDockerClient()
	cli.setWaitSequence("container-0", waitCall{status: &container.WaitResponse{StatusCode: 3}})
	cli.setLogs("container-0", "", "sampler: decode program: unexpected EOF")

	job := &containerJob{cli: cli, containerID: "container-0"}
	_, err := job.Result(context.Background())
	if err == nil || !strings.Contains(err.Error(), "exited with code 3") || !strings.Contains(err.Error(), "unexpected EOF") {
		t.Fatalf("expected sampler failure with stderr excerpt, got %v", err)
	}
}

func TestJobResultHonorsContextCancellation(t *testing.T) {
	t.Parallel()

	cli := newFakeDockerClient()
	cli.setWaitSequence("container-0", waitCall{block: true})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	job := &containerJob{cli: cli, containerID: "container-0"}
	if _, err := job.Result(ctx); err == nil {
		t.Fatalf("expected context error while waiting on the container")
	}
}

func TestCloseReleasesClient(t *testing.T) {
	t.Parallel()

	cli := newFakeDockerClient()
	dev := newDeviceWithClient(cli, Config{Image: "qcp/sampler:latest"})
	if err := dev.Close(); err != nil {
		t.Fatalf("Close returned error: %v", err)
	}
	if !cli.closed {
		t.Fatalf("expected the docker client to be closed")
	}
}
