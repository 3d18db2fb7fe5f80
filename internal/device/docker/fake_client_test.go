package docker

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"sync"

	"github.com/docker/docker/api/types"
	"github.com/docker/docker/api/types/container"
	"github.com/docker/docker/api/types/image"
	"github.com/docker/docker/api/types/network"
	"github.com/docker/docker/pkg/stdcopy"
	specs "github.com/opencontainers/image-spec/specs-go/v1"
)

type fakeDockerClient struct {
	mu          sync.Mutex
	nextID      int
	imagePulls  []string
	pullErr     error
	createCalls []containerCreateCall
	createErr   error
	copyToCalls []copyToCall
	copyErr     error
	startCalls  []string
	startErr    error
	removeCalls []string
	waitCalls   map[string][]waitCall
	logs        map[string][]byte
	inspect     map[string]types.ContainerJSON
	closed      bool
}

type containerCreateCall struct {
	id     string
	config *container.Config
}

type copyToCall struct {
	containerID string
	path        string
	data        []byte
}

type waitCall struct {
	status *container.WaitResponse
	err    error
	block  bool
}

func newFakeDockerClient() *fakeDockerClient {
	return &fakeDockerClient{
		waitCalls: make(map[string][]waitCall),
		logs:      make(map[string][]byte),
		inspect:   make(map[string]types.ContainerJSON),
	}
}

func (f *fakeDockerClient) Close() error {
	f.mu.Lock()
	f.closed = true
	f.mu.Unlock()
	return nil
}

func (f *fakeDockerClient) ImagePull(ctx context.Context, ref string, opts image.PullOptions) (io.ReadCloser, error) {
	f.mu.Lock()
	f.imagePulls = append(f.imagePulls, ref)
	err := f.pullErr
	f.mu.Unlock()
	if err != nil {
		return nil, err
	}
	return io.NopCloser(bytes.NewReader(nil)), nil
}

func (f *fakeDockerClient) ContainerCreate(ctx context.Context, config *container.Config, hostConfig *container.HostConfig, networkingConfig *network.NetworkingConfig, platform *specs.Platform, containerName string) (container.CreateResponse, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.createErr != nil {
		return container.CreateResponse{}, f.createErr
	}
	id := fmt.Sprintf("container-%d", f.nextID)
	f.nextID++
	f.createCalls = append(f.createCalls, containerCreateCall{id: id, config: config})
	return container.CreateResponse{ID: id}, nil
}

func (f *fakeDockerClient) ContainerRemove(ctx context.Context, containerID string, options container.RemoveOptions) error {
	f.mu.Lock()
	f.removeCalls = append(f.removeCalls, containerID)
	f.mu.Unlock()
	return nil
}

func (f *fakeDockerClient) CopyToContainer(ctx context.Context, containerID, dstPath string, content io.Reader, options types.CopyToContainerOptions) error {
	f.mu.Lock()
	copyErr := f.copyErr
	f.mu.Unlock()
	if copyErr != nil {
		return copyErr
	}

	data, err := io.ReadAll(content)
	if err != nil {
		return err
	}
	f.mu.Lock()
	f.copyToCalls = append(f.copyToCalls, copyToCall{containerID: containerID, path: dstPath, data: data})
	f.mu.Unlock()
	return nil
}

func (f *fakeDockerClient) ContainerStart(ctx context.Context, containerID string, options container.StartOptions) error {
	f.mu.Lock()
	f.startCalls = append(f.startCalls, containerID)
	err := f.startErr
	f.mu.Unlock()
	return err
}

func (f *fakeDockerClient) ContainerWait(ctx context.Context, containerID string, condition container.WaitCondition) (<-chan container.WaitResponse, <-chan error) {
	statusCh := make(chan container.WaitResponse, 1)
	errCh := make(chan error, 1)

	f.mu.Lock()
	calls := f.waitCalls[containerID]
	if len(calls) > 0 {
		call := calls[0]
		f.waitCalls[containerID] = calls[1:]
		f.mu.Unlock()

		if call.block {
			return statusCh, errCh
		}
		if call.status != nil {
			statusCh <- *call.status
		}
		if call.err != nil {
			errCh <- call.err
		}
		return statusCh, errCh
	}
	f.mu.Unlock()

	return statusCh, errCh
}

func (f *fakeDockerClient) ContainerInspect(ctx context.Context, containerID string) (types.ContainerJSON, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.inspect[containerID], nil
}

func (f *fakeDockerClient) ContainerLogs(ctx context.Context, containerID string, options container.LogsOptions) (io.ReadCloser, error) {
	f.mu.Lock()
	data := f.logs[containerID]
	f.mu.Unlock()
	return io.NopCloser(bytes.NewReader(data)), nil
}

func (f *fakeDockerClient) setWaitSequence(containerID string, calls ...waitCall) {
	f.mu.Lock()
	f.waitCalls[containerID] = append([]waitCall{}, calls...)
	f.mu.Unlock()
}

func (f *fakeDockerClient) setLogs(containerID string, stdout, stderr string) {
	var buf bytes.Buffer
	if stdout != "" {
		w := stdcopy.NewStdWriter(&buf, stdcopy.Stdout)
		_, _ = w.Write([]byte(stdout))
	}
	if stderr != "" {
		w := stdcopy.NewStdWriter(&buf, stdcopy.Stderr)
		_, _ = w.Write([]byte(stderr))
	}
	f.mu.Lock()
	f.logs[containerID] = buf.Bytes()
	f.mu.Unlock()
}

func (f *fakeDockerClient) setInspect(containerID string, state *types.ContainerState) {
	f.mu.Lock()
	f.inspect[containerID] = types.ContainerJSON{
		ContainerJSONBase: &types.ContainerJSONBase{State: state},
	}
	f.mu.Unlock()
}
