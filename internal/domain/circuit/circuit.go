package circuit

import "fmt"

// Measurement binds a measured qubit to a classical register position.
type Measurement struct {
	Qubit    int
	Register int
}

// Circuit is an ordered sequence of gate instructions over a fixed qubit
// count. It is the source framework's circuit representation and is owned by
// the caller; the execution layers never mutate it after construction.
type Circuit struct {
	Qubits int
	Gates  []Gate
}

// New returns an empty circuit over the given number of qubits.
func New(qubits int) *Circuit {
	return &Circuit{Qubits: qubits}
}

// Add appends gates to the circuit in order and returns the circuit for
// chaining.
func (c *Circuit) Add(gates ...Gate) *Circuit {
	c.Gates = append(c.Gates, gates...)
	return c
}

// Measurements derives the measurement manifest from the ordered gate list:
// every measurement gate's (qubit, register) bindings in declaration order.
func (c *Circuit) Measurements() []Measurement {
	var manifest []Measurement
	for _, gate := range c.Gates {
		if gate.Kind != KindMeasure {
			continue
		}
		for i, q := range gate.Qubits {
			register := i
			if i < len(gate.Registers) {
				register = gate.Registers[i]
			}
			manifest = append(manifest, Measurement{Qubit: q, Register: register})
		}
	}
	return manifest
}

// Validate reports structural problems: qubit indices out of range, gates
// without operands, or measurement register bindings that do not match the
// measured qubits.
func (c *Circuit) Validate() error {
	if c.Qubits <= 0 {
		return fmt.Errorf("circuit must declare at least one qubit")
	}

	for idx, gate := range c.Gates {
		if gate.Kind == "" {
			return fmt.Errorf("gate %d missing kind", idx)
		}
		if len(gate.Qubits) == 0 {
			return fmt.Errorf("gate %d (%s) has no operand qubits", idx, gate.Kind)
		}
		for _, q := range gate.Qubits {
			if q < 0 || q >= c.Qubits {
				return fmt.Errorf("gate %d (%s) references qubit %d outside [0, %d)", idx, gate.Kind, q, c.Qubits)
			}
		}
		if gate.Kind == KindMeasure && len(gate.Registers) > 0 && len(gate.Registers) != len(gate.Qubits) {
			return fmt.Errorf("gate %d (%s) binds %d registers to %d qubits", idx, gate.Kind, len(gate.Registers), len(gate.Qubits))
		}
	}

	return nil
}
