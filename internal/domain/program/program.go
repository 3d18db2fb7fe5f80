// Package program defines the provider-native instruction sequence a circuit
// is translated into before submission to a device.
package program

// Op identifies a provider-native instruction.
type Op string

const (
	OpH  Op = "h"
	OpX  Op = "x"
	OpY  Op = "y"
	OpZ  Op = "z"
	OpS  Op = "s"
	OpSi Op = "si"
	OpT  Op = "t"
	OpTi Op = "ti"
	OpV  Op = "v"
	OpVi Op = "vi"

	OpRX         Op = "rx"
	OpRY         Op = "ry"
	OpRZ         Op = "rz"
	OpPhaseShift Op = "phaseshift"

	OpCNot        Op = "cnot"
	OpCY          Op = "cy"
	OpCZ          Op = "cz"
	OpCPhaseShift Op = "cphaseshift"

	OpSwap  Op = "swap"
	OpISwap Op = "iswap"
	OpCCNot Op = "ccnot"
	OpCSwap Op = "cswap"
)

// Instruction is a single provider-native operation: an opcode, its target
// qubit indices and any angle arguments, in the provider's argument order.
type Instruction struct {
	Op     Op        `json:"op"`
	Qubits []int     `json:"qubits"`
	Angles []float64 `json:"angles,omitempty"`
}

// Program is the provider-native representation of a circuit: a fresh
// instruction sequence over a fixed qubit count. Verbatim marks the sequence
// for pass-through execution, instructing the backend to skip its own
// transpilation and optimization passes.
type Program struct {
	Qubits       int           `json:"qubits"`
	Instructions []Instruction `json:"instructions"`
	Verbatim     bool          `json:"verbatim,omitempty"`
}
