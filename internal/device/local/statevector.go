// Package local provides in-process simulator devices: a statevector
// simulator (the default device) and a density-matrix simulator.
package local

import (
	"context"
	"fmt"
	"math/rand"
	"time"

	"github.com/qiboteam/qibo-cloud-providers/internal/domain/program"
	"github.com/qiboteam/qibo-cloud-providers/internal/ports"
)

// maxStatevectorQubits bounds the simulated register so the amplitude vector
// stays within a few hundred MiB.
const maxStatevectorQubits = 24

// Statevector simulates programs on a dense amplitude vector.
type Statevector struct {
	rng *rand.Rand
}

var _ ports.Device = (*Statevector)(nil)

// NewStatevector returns a statevector simulator seeded from the clock.
func NewStatevector() *Statevector {
	return NewStatevectorSeeded(time.Now().UnixNano())
}

// NewStatevectorSeeded returns a statevector simulator with a fixed sampling
// seed, for reproducible runs.
func NewStatevectorSeeded(seed int64) *Statevector {
	return &Statevector{rng: rand.New(rand.NewSource(seed))}
}

// Name identifies the device.
func (s *Statevector) Name() string { return "statevector-simulator" }

// Run simulates the program and samples the requested number of shots over
// all qubits. The returned job is already completed. Options are ignored by
// the local simulators except for "seed", which fixes the sampling source
// for this run.
func (s *Statevector) Run(ctx context.Context, prog program.Program, shots int, options map[string]any) (ports.Job, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if prog.Qubits <= 0 {
		return nil, fmt.Errorf("program must declare at least one qubit")
	}
	if prog.Qubits > maxStatevectorQubits {
		return nil, fmt.Errorf("program uses %d qubits, statevector simulator supports up to %d", prog.Qubits, maxStatevectorQubits)
	}
	if shots <= 0 {
		return nil, fmt.Errorf("shots must be positive, got %d", shots)
	}

	n := prog.Qubits
	state := make([]complex128, 1<<n)
	state[0] = 1

	for _, inst := range prog.Instructions {
		u, err := matrixFor(inst)
		if err != nil {
			return nil, err
		}
		applyUnitary(state, n, inst.Qubits, u)
	}

	probs := make([]float64, len(state))
	for i, amp := range state {
		probs[i] = real(amp)*real(amp) + imag(amp)*imag(amp)
	}

	samples := sampleShots(probs, n, shots, s.runRNG(options))
	return &job{samples: samples}, nil
}

// Close releases nothing; the simulator holds no external resources.
func (s *Statevector) Close() error { return nil }

func (s *Statevector) runRNG(options map[string]any) *rand.Rand {
	if seed, ok := seedOption(options); ok {
		return rand.New(rand.NewSource(seed))
	}
	return s.rng
}

func seedOption(options map[string]any) (int64, bool) {
	raw, ok := options["seed"]
	if !ok {
		return 0, false
	}
	switch v := raw.(type) {
	case int:
		return int64(v), true
	case int64:
		return v, true
	case float64:
		return int64(v), true
	default:
		return 0, false
	}
}

// sampleShots draws shot rows from the basis-state distribution. Each row
// holds one bit per qubit, qubit 0 first.
func sampleShots(probs []float64, n, shots int, rng *rand.Rand) [][]int {
	cumulative := make([]float64, len(probs))
	total := 0.0
	for i, p := range probs {
		total += p
		cumulative[i] = total
	}

	samples := make([][]int, shots)
	for shot := range samples {
		r := rng.Float64() * total
		idx := searchCumulative(cumulative, r)

		row := make([]int, n)
		for q := 0; q < n; q++ {
			row[q] = (idx >> (n - 1 - q)) & 1
		}
		samples[shot] = row
	}
	return samples
}

func searchCumulative(cumulative []float64, r float64) int {
	lo, hi := 0, len(cumulative)-1
	for lo < hi {
		mid := (lo + hi) / 2
		if cumulative[mid] <= r {
			lo = mid + 1
		} else {
			hi = mid
		}
	}
	return lo
}
