// Package docker runs programs through a containerized sampler image via the
// Docker SDK. Each submission creates one container: the program payload is
// copied in as JSON, the sampler writes the per-shot samples as JSON on
// stdout.
package docker

import (
	"archive/tar"
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/docker/docker/api/types"
	"github.com/docker/docker/api/types/container"
	typesimage "github.com/docker/docker/api/types/image"
	"github.com/docker/docker/client"

	"github.com/qiboteam/qibo-cloud-providers/internal/domain/program"
	"github.com/qiboteam/qibo-cloud-providers/internal/ports"
)

const (
	defaultWorkdir  = "/work"
	programFilename = "program.json"
)

// Config describes the sampler image to run programs with.
type Config struct {
	// Image is the sampler image reference.
	Image string
	// Workdir is where the program payload is placed. Defaults to /work.
	Workdir string
	// Command overrides the image entrypoint arguments. Defaults to running
	// the sampler against the copied program file.
	Command []string
}

// Device executes programs by running one sampler container per job.
type Device struct {
	cli dockerClient
	cfg Config

	pullOnce sync.Once
	pullErr  error
}

var _ ports.Device = (*Device)(nil)

// New constructs a Device using the ambient Docker environment.
func New(cfg Config) (*Device, error) {
	if cfg.Image == "" {
		return nil, fmt.Errorf("docker device: sampler image must be provided")
	}

	cli, err := client.NewClientWithOpts(client.FromEnv, client.WithAPIVersionNegotiation())
	if err != nil {
		return nil, fmt.Errorf("docker device: create client: %w", err)
	}

	return newDeviceWithClient(cli, cfg), nil
}

func newDeviceWithClient(cli dockerClient, cfg Config) *Device {
	if cfg.Workdir == "" {
		cfg.Workdir = defaultWorkdir
	}
	if len(cfg.Command) == 0 {
		cfg.Command = []string{"/sampler", cfg.Workdir + "/" + programFilename}
	}
	return &Device{cli: cli, cfg: cfg}
}

// Name identifies the device by its sampler image.
func (d *Device) Name() string { return "docker:" + d.cfg.Image }

type runPayload struct {
	Program program.Program `json:"program"`
	Shots   int             `json:"shots"`
	Options map[string]any  `json:"options,omitempty"`
}

type samplesPayload struct {
	Samples [][]int `json:"samples"`
}

// Run creates and starts a sampler container for the program and returns a
// job tracking the container.
func (d *Device) Run(ctx context.Context, prog program.Program, shots int, options map[string]any) (ports.Job, error) {
	if err := d.ensureImage(ctx); err != nil {
		return nil, err
	}

	payload, err := json.Marshal(runPayload{Program: prog, Shots: shots, Options: options})
	if err != nil {
		return nil, fmt.Errorf("encode program payload: %w", err)
	}

	resp, err := d.cli.ContainerCreate(
		ctx,
		&container.Config{
			Image:        d.cfg.Image,
			Cmd:          d.cfg.Command,
			AttachStdout: true,
			AttachStderr: true,
			WorkingDir:   d.cfg.Workdir,
		},
		nil,
		nil,
		nil,
		"",
	)
	if err != nil {
		return nil, fmt.Errorf("create container: %w", err)
	}

	archive, err := makeArchive(programFilename, payload)
	if err != nil {
		_ = d.cli.ContainerRemove(context.Background(), resp.ID, container.RemoveOptions{Force: true})
		return nil, err
	}
	if err := d.cli.CopyToContainer(ctx, resp.ID, d.cfg.Workdir, archive, types.CopyToContainerOptions{AllowOverwriteDirWithFile: true}); err != nil {
		_ = d.cli.ContainerRemove(context.Background(), resp.ID, container.RemoveOptions{Force: true})
		return nil, fmt.Errorf("copy program: %w", err)
	}

	if err := d.cli.ContainerStart(ctx, resp.ID, container.StartOptions{}); err != nil {
		_ = d.cli.ContainerRemove(context.Background(), resp.ID, container.RemoveOptions{Force: true})
		return nil, fmt.Errorf("start container: %w", err)
	}

	return &containerJob{cli: d.cli, containerID: resp.ID}, nil
}

// Close releases the Docker client.
func (d *Device) Close() error {
	return d.cli.Close()
}

func (d *Device) ensureImage(ctx context.Context) error {
	d.pullOnce.Do(func() {
		reader, err := d.cli.ImagePull(ctx, d.cfg.Image, typesimage.PullOptions{})
		if err != nil {
			d.pullErr = fmt.Errorf("pull image %s: %w", d.cfg.Image, err)
			return
		}
		defer reader.Close()
		if _, err := io.Copy(io.Discard, reader); err != nil {
			d.pullErr = fmt.Errorf("consume pull output for %s: %w", d.cfg.Image, err)
		}
	})
	return d.pullErr
}

func makeArchive(name string, data []byte) (io.Reader, error) {
	var buf bytes.Buffer
	tw := tar.NewWriter(&buf)

	header := &tar.Header{
		Name:    name,
		Mode:    0o644,
		Size:    int64(len(data)),
		ModTime: time.Now(),
	}
	if err := tw.WriteHeader(header); err != nil {
		return nil, fmt.Errorf("write tar header: %w", err)
	}
	if _, err := tw.Write(data); err != nil {
		return nil, fmt.Errorf("write tar contents: %w", err)
	}
	if err := tw.Close(); err != nil {
		return nil, fmt.Errorf("close tar writer: %w", err)
	}

	return bytes.NewReader(buf.Bytes()), nil
}
