// Sampler is the entrypoint of the containerized simulator image used by the
// docker device: it reads a program payload from the given file (or stdin),
// simulates it on the statevector simulator and writes the per-shot samples
// as JSON on stdout.
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"os"

	"github.com/qiboteam/qibo-cloud-providers/internal/device/local"
	"github.com/qiboteam/qibo-cloud-providers/internal/domain/program"
)

type runPayload struct {
	Program program.Program `json:"program"`
	Shots   int             `json:"shots"`
	Options map[string]any  `json:"options,omitempty"`
}

type samplesPayload struct {
	Samples [][]int `json:"samples"`
}

func main() {
	if err := sample(os.Args[1:], os.Stdout); err != nil {
		log.Fatalf("sampler: %v", err)
	}
}

func sample(args []string, out io.Writer) error {
	var input io.Reader = os.Stdin
	if len(args) > 0 {
		file, err := os.Open(args[0])
		if err != nil {
			return fmt.Errorf("open program: %w", err)
		}
		defer file.Close()
		input = file
	}

	var payload runPayload
	if err := json.NewDecoder(input).Decode(&payload); err != nil {
		return fmt.Errorf("decode program: %w", err)
	}
	if payload.Shots <= 0 {
		payload.Shots = 1000
	}

	sim := local.NewStatevector()
	job, err := sim.Run(context.Background(), payload.Program, payload.Shots, payload.Options)
	if err != nil {
		return err
	}

	samples, err := job.Result(context.Background())
	if err != nil {
		return err
	}

	return json.NewEncoder(out).Encode(samplesPayload{Samples: samples})
}
