package circuit

// Kind identifies a gate in the source framework's gate set.
type Kind string

const (
	KindH    Kind = "H"
	KindX    Kind = "X"
	KindY    Kind = "Y"
	KindZ    Kind = "Z"
	KindS    Kind = "S"
	KindSDG  Kind = "SDG"
	KindT    Kind = "T"
	KindTDG  Kind = "TDG"
	KindSX   Kind = "SX"
	KindSXDG Kind = "SXDG"

	KindRX Kind = "RX"
	KindRY Kind = "RY"
	KindRZ Kind = "RZ"
	KindU1 Kind = "U1"

	KindCNOT Kind = "CNOT"
	KindCY   Kind = "CY"
	KindCZ   Kind = "CZ"
	KindCRX  Kind = "CRX"
	KindCRY  Kind = "CRY"
	KindCRZ  Kind = "CRZ"
	KindCU1  Kind = "CU1"

	KindSWAP  Kind = "SWAP"
	KindISWAP Kind = "ISWAP"
	KindFSWAP Kind = "FSWAP"
	KindCCX   Kind = "CCX"
	KindCSWAP Kind = "CSWAP"

	KindMeasure Kind = "M"
)

// Gate is a single entry in a circuit's ordered gate list: a kind tag,
// the operand qubit indices and, where applicable, angle parameters.
// Registers is populated only for measurement gates and pairs each
// measured qubit with its classical register position.
type Gate struct {
	Kind      Kind
	Qubits    []int
	Params    []float64
	Registers []int
}

// H returns a Hadamard gate on the given qubit.
func H(q int) Gate { return Gate{Kind: KindH, Qubits: []int{q}} }

// X returns a Pauli-X gate on the given qubit.
func X(q int) Gate { return Gate{Kind: KindX, Qubits: []int{q}} }

// Y returns a Pauli-Y gate on the given qubit.
func Y(q int) Gate { return Gate{Kind: KindY, Qubits: []int{q}} }

// Z returns a Pauli-Z gate on the given qubit.
func Z(q int) Gate { return Gate{Kind: KindZ, Qubits: []int{q}} }

// S returns a phase gate on the given qubit.
func S(q int) Gate { return Gate{Kind: KindS, Qubits: []int{q}} }

// SDG returns the adjoint of the phase gate on the given qubit.
func SDG(q int) Gate { return Gate{Kind: KindSDG, Qubits: []int{q}} }

// T returns a T gate on the given qubit.
func T(q int) Gate { return Gate{Kind: KindT, Qubits: []int{q}} }

// TDG returns the adjoint of the T gate on the given qubit.
func TDG(q int) Gate { return Gate{Kind: KindTDG, Qubits: []int{q}} }

// SX returns a square-root-of-X gate on the given qubit.
func SX(q int) Gate { return Gate{Kind: KindSX, Qubits: []int{q}} }

// SXDG returns the adjoint square-root-of-X gate on the given qubit.
func SXDG(q int) Gate { return Gate{Kind: KindSXDG, Qubits: []int{q}} }

// RX returns a rotation around the X axis by theta radians.
func RX(q int, theta float64) Gate {
	return Gate{Kind: KindRX, Qubits: []int{q}, Params: []float64{theta}}
}

// RY returns a rotation around the Y axis by theta radians.
func RY(q int, theta float64) Gate {
	return Gate{Kind: KindRY, Qubits: []int{q}, Params: []float64{theta}}
}

// RZ returns a rotation around the Z axis by theta radians.
func RZ(q int, theta float64) Gate {
	return Gate{Kind: KindRZ, Qubits: []int{q}, Params: []float64{theta}}
}

// U1 returns a phase shift by theta radians.
func U1(q int, theta float64) Gate {
	return Gate{Kind: KindU1, Qubits: []int{q}, Params: []float64{theta}}
}

// CNOT returns a controlled-X gate.
func CNOT(control, target int) Gate {
	return Gate{Kind: KindCNOT, Qubits: []int{control, target}}
}

// CY returns a controlled-Y gate.
func CY(control, target int) Gate {
	return Gate{Kind: KindCY, Qubits: []int{control, target}}
}

// CZ returns a controlled-Z gate.
func CZ(control, target int) Gate {
	return Gate{Kind: KindCZ, Qubits: []int{control, target}}
}

// CRX returns a controlled rotation around the X axis.
func CRX(control, target int, theta float64) Gate {
	return Gate{Kind: KindCRX, Qubits: []int{control, target}, Params: []float64{theta}}
}

// CRY returns a controlled rotation around the Y axis.
func CRY(control, target int, theta float64) Gate {
	return Gate{Kind: KindCRY, Qubits: []int{control, target}, Params: []float64{theta}}
}

// CRZ returns a controlled rotation around the Z axis.
func CRZ(control, target int, theta float64) Gate {
	return Gate{Kind: KindCRZ, Qubits: []int{control, target}, Params: []float64{theta}}
}

// CU1 returns a controlled phase shift by theta radians.
func CU1(control, target int, theta float64) Gate {
	return Gate{Kind: KindCU1, Qubits: []int{control, target}, Params: []float64{theta}}
}

// SWAP returns a swap gate between two qubits.
func SWAP(a, b int) Gate { return Gate{Kind: KindSWAP, Qubits: []int{a, b}} }

// ISWAP returns an iSWAP gate between two qubits.
func ISWAP(a, b int) Gate { return Gate{Kind: KindISWAP, Qubits: []int{a, b}} }

// FSWAP returns a fermionic swap gate between two qubits.
func FSWAP(a, b int) Gate { return Gate{Kind: KindFSWAP, Qubits: []int{a, b}} }

// CCX returns a Toffoli gate.
func CCX(control1, control2, target int) Gate {
	return Gate{Kind: KindCCX, Qubits: []int{control1, control2, target}}
}

// CSWAP returns a Fredkin gate.
func CSWAP(control, a, b int) Gate {
	return Gate{Kind: KindCSWAP, Qubits: []int{control, a, b}}
}

// M returns a measurement of the given qubit into the given classical register
// position.
func M(q, register int) Gate {
	return Gate{Kind: KindMeasure, Qubits: []int{q}, Registers: []int{register}}
}
