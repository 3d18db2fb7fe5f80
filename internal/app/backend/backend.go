// Package backend implements the execution client: it translates a source
// circuit into a provider program, submits it to the configured device,
// optionally reports job status while waiting, and wraps the raw samples into
// the source framework's result container.
package backend

import (
	"context"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/qiboteam/qibo-cloud-providers/internal/device"
	"github.com/qiboteam/qibo-cloud-providers/internal/domain/circuit"
	"github.com/qiboteam/qibo-cloud-providers/internal/domain/run"
	"github.com/qiboteam/qibo-cloud-providers/internal/ports"
	"github.com/qiboteam/qibo-cloud-providers/internal/translate"
)

const (
	defaultShots        = 1000
	defaultPollInterval = time.Second
)

// Config configures a Backend.
type Config struct {
	// Device selects the execution device; see device.Resolve for the
	// selector grammar.
	Device string
	// Verbatim wraps translated programs in the provider's pass-through
	// marker, suppressing backend-side transpilation.
	Verbatim bool
	// Verbosity enables status reporting while waiting for a job.
	Verbosity bool
	// Progress receives status lines when Verbosity is set. Defaults to
	// standard output.
	Progress io.Writer
	// PollInterval is the fixed pause between status polls. Defaults to one
	// second.
	PollInterval time.Duration
	// PollTimeout bounds the status poll loop. Zero keeps polling until the
	// job reaches a terminal state.
	PollTimeout time.Duration

	// RemoteBaseURL and RemoteToken configure remote device selectors.
	RemoteBaseURL string
	RemoteToken   string
}

// Backend executes source circuits on a resolved device.
type Backend struct {
	device       ports.Device
	verbatim     bool
	verbosity    bool
	progress     io.Writer
	pollInterval time.Duration
	pollTimeout  time.Duration
}

var _ ports.Executor = (*Backend)(nil)

// New resolves the configured device selector and builds a Backend around it.
func New(cfg Config) (*Backend, error) {
	dev, err := device.Resolve(device.Config{
		Selector:      cfg.Device,
		RemoteBaseURL: cfg.RemoteBaseURL,
		RemoteToken:   cfg.RemoteToken,
	})
	if err != nil {
		return nil, err
	}
	return NewWithDevice(dev, cfg), nil
}

// NewWithDevice builds a Backend around an already-constructed device.
func NewWithDevice(dev ports.Device, cfg Config) *Backend {
	progress := cfg.Progress
	if progress == nil {
		progress = os.Stdout
	}
	pollInterval := cfg.PollInterval
	if pollInterval <= 0 {
		pollInterval = defaultPollInterval
	}

	return &Backend{
		device:       dev,
		verbatim:     cfg.Verbatim,
		verbosity:    cfg.Verbosity,
		progress:     progress,
		pollInterval: pollInterval,
		pollTimeout:  cfg.PollTimeout,
	}
}

// Device exposes the resolved device.
func (b *Backend) Device() ports.Device { return b.device }

// Execute runs the circuit for the given number of shots and returns the
// outcome container. Shots at or below zero default to 1000. Options are
// forwarded to the device submission call unmodified. Device errors propagate
// unwrapped beyond message context; there is no retry and no partial result.
func (b *Backend) Execute(ctx context.Context, c *circuit.Circuit, shots int, options map[string]any) (*circuit.Outcomes, error) {
	manifest := c.Measurements()
	if len(manifest) == 0 {
		return nil, fmt.Errorf("no measurement found in the provided circuit")
	}
	if shots <= 0 {
		shots = defaultShots
	}

	prog, err := translate.Translate(c, b.verbatim)
	if err != nil {
		return nil, err
	}

	job, err := b.device.Run(ctx, prog, shots, options)
	if err != nil {
		return nil, err
	}

	if b.verbosity {
		if err := b.watch(ctx, job); err != nil {
			return nil, err
		}
	}

	raw, err := job.Result(ctx)
	if err != nil {
		return nil, err
	}

	samples, err := selectMeasured(raw, manifest, prog.Qubits)
	if err != nil {
		return nil, err
	}

	return circuit.NewOutcomes(manifest, samples, shots)
}

// ExecuteTask adapts Execute to the task/report shape used by the runner
// service.
func (b *Backend) ExecuteTask(ctx context.Context, task run.Task) run.Report {
	outcomes, err := b.Execute(ctx, task.Circuit, task.Shots, task.Options)
	return run.Report{Task: task, Outcomes: outcomes, Err: err}
}

// Close releases the underlying device.
func (b *Backend) Close() error {
	return b.device.Close()
}

// watch polls the job status at a fixed interval, printing each observed tag,
// until the job reaches a terminal state. With a zero poll timeout the loop
// has no upper bound, matching the device's own lifecycle.
func (b *Backend) watch(ctx context.Context, job ports.Job) error {
	start := time.Now()
	for {
		state, err := job.State(ctx)
		if err != nil {
			return err
		}
		fmt.Fprintf(b.progress, "> Status %s\n", state)

		if state == ports.StateCompleted || state == ports.StateFailed {
			return nil
		}
		if b.pollTimeout > 0 && time.Since(start) >= b.pollTimeout {
			return fmt.Errorf("job did not reach a terminal state within %s", b.pollTimeout)
		}

		select {
		case <-time.After(b.pollInterval):
		case <-ctx.Done():
			return ctx.Err()
		}
	}
}

// selectMeasured projects the raw all-qubit sample rows down to the measured
// qubits, in manifest order.
func selectMeasured(raw [][]int, manifest []circuit.Measurement, qubits int) ([][]int, error) {
	samples := make([][]int, len(raw))
	for i, row := range raw {
		if len(row) != qubits {
			return nil, fmt.Errorf("sample row %d has %d columns, program declares %d qubits", i, len(row), qubits)
		}
		out := make([]int, len(manifest))
		for j, m := range manifest {
			out[j] = row[m.Qubit]
		}
		samples[i] = out
	}
	return samples, nil
}
