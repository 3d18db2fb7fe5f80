package local

import (
	"fmt"
	"math"
	"math/cmplx"

	"github.com/qiboteam/qibo-cloud-providers/internal/domain/program"
)

// matrixFor builds the unitary matrix for a single provider instruction.
// Within the matrix, the instruction's first operand qubit is the most
// significant bit of the block index.
func matrixFor(inst program.Instruction) ([][]complex128, error) {
	angle := func(i int) (float64, error) {
		if i >= len(inst.Angles) {
			return 0, fmt.Errorf("instruction %s expects %d angle(s), got %d", inst.Op, i+1, len(inst.Angles))
		}
		return inst.Angles[i], nil
	}

	switch inst.Op {
	case program.OpH:
		s := complex(1/math.Sqrt2, 0)
		return [][]complex128{{s, s}, {s, -s}}, nil
	case program.OpX:
		return [][]complex128{{0, 1}, {1, 0}}, nil
	case program.OpY:
		return [][]complex128{{0, -1i}, {1i, 0}}, nil
	case program.OpZ:
		return [][]complex128{{1, 0}, {0, -1}}, nil
	case program.OpS:
		return [][]complex128{{1, 0}, {0, 1i}}, nil
	case program.OpSi:
		return [][]complex128{{1, 0}, {0, -1i}}, nil
	case program.OpT:
		return [][]complex128{{1, 0}, {0, cmplx.Exp(1i * math.Pi / 4)}}, nil
	case program.OpTi:
		return [][]complex128{{1, 0}, {0, cmplx.Exp(-1i * math.Pi / 4)}}, nil
	case program.OpV:
		return [][]complex128{
			{0.5 + 0.5i, 0.5 - 0.5i},
			{0.5 - 0.5i, 0.5 + 0.5i},
		}, nil
	case program.OpVi:
		return [][]complex128{
			{0.5 - 0.5i, 0.5 + 0.5i},
			{0.5 + 0.5i, 0.5 - 0.5i},
		}, nil
	case program.OpRX:
		theta, err := angle(0)
		if err != nil {
			return nil, err
		}
		c := complex(math.Cos(theta/2), 0)
		s := complex(0, -math.Sin(theta/2))
		return [][]complex128{{c, s}, {s, c}}, nil
	case program.OpRY:
		theta, err := angle(0)
		if err != nil {
			return nil, err
		}
		c := complex(math.Cos(theta/2), 0)
		s := complex(math.Sin(theta/2), 0)
		return [][]complex128{{c, -s}, {s, c}}, nil
	case program.OpRZ:
		theta, err := angle(0)
		if err != nil {
			return nil, err
		}
		return [][]complex128{
			{cmplx.Exp(complex(0, -theta/2)), 0},
			{0, cmplx.Exp(complex(0, theta/2))},
		}, nil
	case program.OpPhaseShift:
		theta, err := angle(0)
		if err != nil {
			return nil, err
		}
		return [][]complex128{{1, 0}, {0, cmplx.Exp(complex(0, theta))}}, nil
	case program.OpCNot:
		return controlled([][]complex128{{0, 1}, {1, 0}}), nil
	case program.OpCY:
		return controlled([][]complex128{{0, -1i}, {1i, 0}}), nil
	case program.OpCZ:
		return controlled([][]complex128{{1, 0}, {0, -1}}), nil
	case program.OpCPhaseShift:
		theta, err := angle(0)
		if err != nil {
			return nil, err
		}
		return controlled([][]complex128{{1, 0}, {0, cmplx.Exp(complex(0, theta))}}), nil
	case program.OpSwap:
		return [][]complex128{
			{1, 0, 0, 0},
			{0, 0, 1, 0},
			{0, 1, 0, 0},
			{0, 0, 0, 1},
		}, nil
	case program.OpISwap:
		return [][]complex128{
			{1, 0, 0, 0},
			{0, 0, 1i, 0},
			{0, 1i, 0, 0},
			{0, 0, 0, 1},
		}, nil
	case program.OpCCNot:
		u := identity(8)
		u[6], u[7] = u[7], u[6]
		return u, nil
	case program.OpCSwap:
		u := identity(8)
		u[5], u[6] = u[6], u[5]
		return u, nil
	default:
		return nil, fmt.Errorf("simulator has no matrix for instruction %q", inst.Op)
	}
}

// controlled embeds a single-qubit matrix into a 4x4 controlled version with
// the control on the most significant block bit.
func controlled(u [][]complex128) [][]complex128 {
	out := identity(4)
	out[2][2], out[2][3] = u[0][0], u[0][1]
	out[3][2], out[3][3] = u[1][0], u[1][1]
	return out
}

func identity(n int) [][]complex128 {
	u := make([][]complex128, n)
	for i := range u {
		u[i] = make([]complex128, n)
		u[i][i] = 1
	}
	return u
}

// applyUnitary applies a k-qubit unitary in place to a length-2^n amplitude
// vector. The operand qubits select the block index bits, first operand most
// significant; qubit 0 maps to the most significant bit of the state index.
func applyUnitary(state []complex128, n int, qubits []int, u [][]complex128) {
	k := len(qubits)
	size := 1 << k

	masks := make([]int, k)
	opMask := 0
	for i, q := range qubits {
		masks[i] = 1 << (n - 1 - q)
		opMask |= masks[i]
	}

	scratch := make([]complex128, size)
	indices := make([]int, size)

	for base := 0; base < len(state); base++ {
		if base&opMask != 0 {
			continue
		}

		for s := 0; s < size; s++ {
			idx := base
			for i := 0; i < k; i++ {
				if s&(1<<(k-1-i)) != 0 {
					idx |= masks[i]
				}
			}
			indices[s] = idx
			scratch[s] = state[idx]
		}

		for s := 0; s < size; s++ {
			var sum complex128
			for t := 0; t < size; t++ {
				sum += u[s][t] * scratch[t]
			}
			state[indices[s]] = sum
		}
	}
}

// conjugate returns the elementwise complex conjugate of a matrix.
func conjugate(u [][]complex128) [][]complex128 {
	out := make([][]complex128, len(u))
	for i, row := range u {
		out[i] = make([]complex128, len(row))
		for j, v := range row {
			out[i][j] = cmplx.Conj(v)
		}
	}
	return out
}
