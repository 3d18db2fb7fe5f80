package circuit

import (
	"fmt"
	"strings"
)

// Outcomes is the result container returned after a circuit execution. It
// pairs the measurement manifest with the raw per-shot samples and the
// requested shot count. Each sample row holds one bit per manifest entry, in
// manifest order. Owned by the caller after construction.
type Outcomes struct {
	Measurements []Measurement
	Samples      [][]int
	Shots        int
}

// NewOutcomes builds an Outcomes container, checking that the sample array
// shape matches the manifest width and the shot count.
func NewOutcomes(measurements []Measurement, samples [][]int, shots int) (*Outcomes, error) {
	if len(measurements) == 0 {
		return nil, fmt.Errorf("outcomes require a non-empty measurement manifest")
	}
	if len(samples) != shots {
		return nil, fmt.Errorf("expected %d sample rows, got %d", shots, len(samples))
	}
	for i, row := range samples {
		if len(row) != len(measurements) {
			return nil, fmt.Errorf("sample row %d has %d columns, manifest lists %d measured qubits", i, len(row), len(measurements))
		}
	}

	return &Outcomes{
		Measurements: measurements,
		Samples:      samples,
		Shots:        shots,
	}, nil
}

// Frequencies counts how often each bitstring was observed across all shots.
// Keys follow manifest order, most significant bit first.
func (o *Outcomes) Frequencies() map[string]int {
	freq := make(map[string]int)
	var key strings.Builder
	for _, row := range o.Samples {
		key.Reset()
		for _, bit := range row {
			if bit == 0 {
				key.WriteByte('0')
			} else {
				key.WriteByte('1')
			}
		}
		freq[key.String()]++
	}
	return freq
}

// Probabilities converts the observed frequencies into relative frequencies.
func (o *Outcomes) Probabilities() map[string]float64 {
	probs := make(map[string]float64)
	if o.Shots == 0 {
		return probs
	}
	for key, count := range o.Frequencies() {
		probs[key] = float64(count) / float64(o.Shots)
	}
	return probs
}
