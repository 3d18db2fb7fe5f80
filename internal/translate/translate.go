// Package translate converts source-framework circuits into provider-native
// programs. The conversion is a pure tree walk over the ordered gate list:
// each gate kind dispatches to an emission rule producing one or more
// provider instructions with parameters and qubit indices copied verbatim.
// No relabeling, routing or synthesis is performed.
package translate

import (
	"fmt"

	"github.com/qiboteam/qibo-cloud-providers/internal/domain/circuit"
	"github.com/qiboteam/qibo-cloud-providers/internal/domain/program"
)

// UnsupportedGateError reports a gate kind with no registered emission rule.
type UnsupportedGateError struct {
	Kind circuit.Kind
}

func (e *UnsupportedGateError) Error() string {
	return fmt.Sprintf("gate kind %q is not supported by the provider translation", e.Kind)
}

type emitFunc func(circuit.Gate) []program.Instruction

// rules maps every supported gate kind to its emission rule. Measurement
// gates are handled separately by Translate and deliberately absent here.
var rules = map[circuit.Kind]emitFunc{
	circuit.KindH:    oneToOne(program.OpH),
	circuit.KindX:    oneToOne(program.OpX),
	circuit.KindY:    oneToOne(program.OpY),
	circuit.KindZ:    oneToOne(program.OpZ),
	circuit.KindS:    oneToOne(program.OpS),
	circuit.KindSDG:  oneToOne(program.OpSi),
	circuit.KindT:    oneToOne(program.OpT),
	circuit.KindTDG:  oneToOne(program.OpTi),
	circuit.KindSX:   oneToOne(program.OpV),
	circuit.KindSXDG: oneToOne(program.OpVi),

	circuit.KindRX: oneToOne(program.OpRX),
	circuit.KindRY: oneToOne(program.OpRY),
	circuit.KindRZ: oneToOne(program.OpRZ),
	circuit.KindU1: oneToOne(program.OpPhaseShift),

	circuit.KindCNOT: oneToOne(program.OpCNot),
	circuit.KindCY:   oneToOne(program.OpCY),
	circuit.KindCZ:   oneToOne(program.OpCZ),
	circuit.KindCU1:  oneToOne(program.OpCPhaseShift),

	circuit.KindSWAP:  oneToOne(program.OpSwap),
	circuit.KindISWAP: oneToOne(program.OpISwap),
	circuit.KindCCX:   oneToOne(program.OpCCNot),
	circuit.KindCSWAP: oneToOne(program.OpCSwap),

	circuit.KindFSWAP: emitFSWAP,
	circuit.KindCRX:   emitCRX,
	circuit.KindCRY:   emitCRY,
	circuit.KindCRZ:   emitCRZ,
}

// Translate walks the circuit's gate list in order and emits the equivalent
// provider program. Measurement gates contribute nothing to the instruction
// stream: the provider's shot-sampling model measures all qubits implicitly,
// so the measurement manifest travels alongside the program instead.
// With verbatim set, the emitted sequence is marked for pass-through
// execution as a unit.
func Translate(c *circuit.Circuit, verbatim bool) (program.Program, error) {
	prog := program.Program{
		Qubits:   c.Qubits,
		Verbatim: verbatim,
	}

	for _, gate := range c.Gates {
		if gate.Kind == circuit.KindMeasure {
			continue
		}

		rule, ok := rules[gate.Kind]
		if !ok {
			return program.Program{}, &UnsupportedGateError{Kind: gate.Kind}
		}
		prog.Instructions = append(prog.Instructions, rule(gate)...)
	}

	return prog, nil
}

// Supported reports whether a gate kind has a registered emission rule.
// Measurement gates are always accepted.
func Supported(kind circuit.Kind) bool {
	if kind == circuit.KindMeasure {
		return true
	}
	_, ok := rules[kind]
	return ok
}

func oneToOne(op program.Op) emitFunc {
	return func(g circuit.Gate) []program.Instruction {
		return []program.Instruction{{
			Op:     op,
			Qubits: copyInts(g.Qubits),
			Angles: copyFloats(g.Params),
		}}
	}
}

// emitFSWAP lowers the fermionic swap into SWAP followed by CZ.
func emitFSWAP(g circuit.Gate) []program.Instruction {
	a, b := g.Qubits[0], g.Qubits[1]
	return []program.Instruction{
		{Op: program.OpSwap, Qubits: []int{a, b}},
		{Op: program.OpCZ, Qubits: []int{a, b}},
	}
}

// emitCRZ lowers a controlled RZ via the standard two-CNOT construction:
// RZ(t, θ/2) · CNOT · RZ(t, -θ/2) · CNOT.
func emitCRZ(g circuit.Gate) []program.Instruction {
	control, target := g.Qubits[0], g.Qubits[1]
	theta := g.Params[0]
	return []program.Instruction{
		{Op: program.OpRZ, Qubits: []int{target}, Angles: []float64{theta / 2}},
		{Op: program.OpCNot, Qubits: []int{control, target}},
		{Op: program.OpRZ, Qubits: []int{target}, Angles: []float64{-theta / 2}},
		{Op: program.OpCNot, Qubits: []int{control, target}},
	}
}

// emitCRY lowers a controlled RY the same way, using that X·RY(φ)·X = RY(-φ).
func emitCRY(g circuit.Gate) []program.Instruction {
	control, target := g.Qubits[0], g.Qubits[1]
	theta := g.Params[0]
	return []program.Instruction{
		{Op: program.OpRY, Qubits: []int{target}, Angles: []float64{theta / 2}},
		{Op: program.OpCNot, Qubits: []int{control, target}},
		{Op: program.OpRY, Qubits: []int{target}, Angles: []float64{-theta / 2}},
		{Op: program.OpCNot, Qubits: []int{control, target}},
	}
}

// emitCRX conjugates the CRZ sequence with Hadamards on the target.
func emitCRX(g circuit.Gate) []program.Instruction {
	target := g.Qubits[1]
	seq := []program.Instruction{{Op: program.OpH, Qubits: []int{target}}}
	seq = append(seq, emitCRZ(g)...)
	return append(seq, program.Instruction{Op: program.OpH, Qubits: []int{target}})
}

func copyInts(src []int) []int {
	out := make([]int, len(src))
	copy(out, src)
	return out
}

func copyFloats(src []float64) []float64 {
	if len(src) == 0 {
		return nil
	}
	out := make([]float64, len(src))
	copy(out, src)
	return out
}
