// Quickstart: execute a Bell circuit on the default local statevector
// simulator and print the observed frequencies.
package main

import (
	"context"
	"fmt"
	"log"
	"sort"
	"time"

	"github.com/qiboteam/qibo-cloud-providers/internal/app/backend"
	"github.com/qiboteam/qibo-cloud-providers/internal/domain/circuit"
)

func main() {
	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	c := circuit.New(2).Add(
		circuit.H(0),
		circuit.CNOT(0, 1),
		circuit.M(0, 0),
		circuit.M(1, 1),
	)

	b, err := backend.New(backend.Config{})
	if err != nil {
		log.Fatalf("failed to initialize backend: %v", err)
	}
	defer b.Close()

	outcomes, err := b.Execute(ctx, c, 1000, nil)
	if err != nil {
		log.Fatalf("failed to execute circuit: %v", err)
	}

	freq := outcomes.Frequencies()
	keys := make([]string, 0, len(freq))
	for key := range freq {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	fmt.Printf("device: %s, shots: %d\n", b.Device().Name(), outcomes.Shots)
	for _, key := range keys {
		fmt.Printf("  %s: %d\n", key, freq[key])
	}
}
