package local

import (
	"context"
	"fmt"
	"math/rand"
	"time"

	"github.com/qiboteam/qibo-cloud-providers/internal/domain/program"
	"github.com/qiboteam/qibo-cloud-providers/internal/ports"
)

// maxDensityMatrixQubits bounds the simulated register; the density matrix
// grows as 4^n.
const maxDensityMatrixQubits = 12

// DensityMatrix simulates programs on a dense density matrix. Gate
// application conjugates the matrix with the instruction unitary: columns are
// multiplied by U, rows by its conjugate.
type DensityMatrix struct {
	rng *rand.Rand
}

var _ ports.Device = (*DensityMatrix)(nil)

// NewDensityMatrix returns a density-matrix simulator seeded from the clock.
func NewDensityMatrix() *DensityMatrix {
	return NewDensityMatrixSeeded(time.Now().UnixNano())
}

// NewDensityMatrixSeeded returns a density-matrix simulator with a fixed
// sampling seed.
func NewDensityMatrixSeeded(seed int64) *DensityMatrix {
	return &DensityMatrix{rng: rand.New(rand.NewSource(seed))}
}

// Name identifies the device.
func (d *DensityMatrix) Name() string { return "density-matrix-simulator" }

// Run simulates the program and samples shots from the density matrix
// diagonal. The returned job is already completed.
func (d *DensityMatrix) Run(ctx context.Context, prog program.Program, shots int, options map[string]any) (ports.Job, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if prog.Qubits <= 0 {
		return nil, fmt.Errorf("program must declare at least one qubit")
	}
	if prog.Qubits > maxDensityMatrixQubits {
		return nil, fmt.Errorf("program uses %d qubits, density-matrix simulator supports up to %d", prog.Qubits, maxDensityMatrixQubits)
	}
	if shots <= 0 {
		return nil, fmt.Errorf("shots must be positive, got %d", shots)
	}

	n := prog.Qubits
	dim := 1 << n

	// rho starts as |0...0><0...0|, stored row by row.
	rho := make([][]complex128, dim)
	for i := range rho {
		rho[i] = make([]complex128, dim)
	}
	rho[0][0] = 1

	column := make([]complex128, dim)
	for _, inst := range prog.Instructions {
		u, err := matrixFor(inst)
		if err != nil {
			return nil, err
		}
		uConj := conjugate(u)

		// rho <- U rho: apply U to every column.
		for j := 0; j < dim; j++ {
			for i := 0; i < dim; i++ {
				column[i] = rho[i][j]
			}
			applyUnitary(column, n, inst.Qubits, u)
			for i := 0; i < dim; i++ {
				rho[i][j] = column[i]
			}
		}

		// rho <- rho U^dagger: apply conj(U) to every row.
		for i := 0; i < dim; i++ {
			applyUnitary(rho[i], n, inst.Qubits, uConj)
		}
	}

	probs := make([]float64, dim)
	for i := 0; i < dim; i++ {
		probs[i] = real(rho[i][i])
		if probs[i] < 0 {
			probs[i] = 0
		}
	}

	rng := d.rng
	if seed, ok := seedOption(options); ok {
		rng = rand.New(rand.NewSource(seed))
	}

	samples := sampleShots(probs, n, shots, rng)
	return &job{samples: samples}, nil
}

// Close releases nothing; the simulator holds no external resources.
func (d *DensityMatrix) Close() error { return nil }
