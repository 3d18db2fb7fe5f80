package kafka

import (
	"encoding/json"
	"fmt"
	"io"
	"time"

	kafkago "github.com/segmentio/kafka-go"

	"github.com/qiboteam/qibo-cloud-providers/internal/domain/circuit"
	"github.com/qiboteam/qibo-cloud-providers/internal/domain/run"
)

const (
	messageTypeTask = "task"
	messageTypeDone = "done"
)

type taskEnvelope struct {
	Type    string         `json:"type"`
	ID      string         `json:"id"`
	Qubits  int            `json:"qubits"`
	Gates   []gateEnvelope `json:"gates"`
	Shots   int            `json:"shots,omitempty"`
	Options map[string]any `json:"options,omitempty"`
}

type gateEnvelope struct {
	Kind      string    `json:"kind"`
	Qubits    []int     `json:"qubits"`
	Params    []float64 `json:"params,omitempty"`
	Registers []int     `json:"registers,omitempty"`
}

type reportEnvelope struct {
	ID          string         `json:"id"`
	Shots       int            `json:"shots,omitempty"`
	Qubits      []int          `json:"measured_qubits,omitempty"`
	Registers   []int          `json:"registers,omitempty"`
	Frequencies map[string]int `json:"frequencies,omitempty"`
	Error       string         `json:"error,omitempty"`
	Timestamp   time.Time      `json:"timestamp"`
}

func decodeTaskMessage(msg kafkago.Message) (run.Task, error) {
	var envelope taskEnvelope
	if err := json.Unmarshal(msg.Value, &envelope); err != nil {
		return run.Task{}, fmt.Errorf("decode message: %w", err)
	}

	msgType := envelope.Type
	if msgType == "" {
		msgType = messageTypeTask
	}

	switch msgType {
	case messageTypeTask:
		return envelope.toTask(msg)
	case messageTypeDone:
		return run.Task{}, io.EOF
	default:
		return run.Task{}, fmt.Errorf("unknown message type %q", msgType)
	}
}

func (e taskEnvelope) toTask(msg kafkago.Message) (run.Task, error) {
	if e.Qubits <= 0 {
		return run.Task{}, fmt.Errorf("task message missing qubit count")
	}
	if len(e.Gates) == 0 {
		return run.Task{}, fmt.Errorf("task message missing gates")
	}

	taskID := e.ID
	if taskID == "" {
		taskID = string(msg.Key)
	}
	if taskID == "" {
		taskID = fmt.Sprintf("%s:%d", msg.Topic, msg.Offset)
	}

	c := circuit.New(e.Qubits)
	for _, gate := range e.Gates {
		c.Add(circuit.Gate{
			Kind:      circuit.Kind(gate.Kind),
			Qubits:    gate.Qubits,
			Params:    gate.Params,
			Registers: gate.Registers,
		})
	}
	if err := c.Validate(); err != nil {
		return run.Task{}, fmt.Errorf("invalid circuit in task %s: %w", taskID, err)
	}

	return run.Task{
		ID:      taskID,
		Circuit: c,
		Shots:   e.Shots,
		Options: e.Options,
	}, nil
}

func encodeReport(report run.Report) ([]byte, error) {
	payload, err := json.Marshal(makeReportEnvelope(report))
	if err != nil {
		return nil, fmt.Errorf("marshal report: %w", err)
	}
	return payload, nil
}

func makeReportEnvelope(report run.Report) reportEnvelope {
	envelope := reportEnvelope{
		ID:        report.Task.ID,
		Timestamp: time.Now().UTC(),
	}

	if report.Outcomes != nil {
		envelope.Shots = report.Outcomes.Shots
		envelope.Frequencies = report.Outcomes.Frequencies()
		envelope.Qubits = make([]int, len(report.Outcomes.Measurements))
		envelope.Registers = make([]int, len(report.Outcomes.Measurements))
		for i, m := range report.Outcomes.Measurements {
			envelope.Qubits[i] = m.Qubit
			envelope.Registers[i] = m.Register
		}
	}

	if report.Err != nil {
		envelope.Error = report.Err.Error()
	}

	return envelope
}
