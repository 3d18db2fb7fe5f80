package run

import "github.com/qiboteam/qibo-cloud-providers/internal/domain/circuit"

// Task represents a single circuit execution request.
type Task struct {
	ID      string
	Circuit *circuit.Circuit
	Shots   int
	Options map[string]any
}

// Report captures the outcome of executing a Task.
type Report struct {
	Task     Task
	Outcomes *circuit.Outcomes
	Err      error
}
