package kafka

import (
	"context"
	"fmt"
	"time"

	kafkago "github.com/segmentio/kafka-go"

	"github.com/qiboteam/qibo-cloud-providers/internal/domain/run"
	"github.com/qiboteam/qibo-cloud-providers/internal/ports"
)

// Config describes how to connect to a Kafka cluster for consuming tasks.
type Config struct {
	Brokers  []string
	Topic    string
	GroupID  string
	MinBytes int
	MaxBytes int
	MaxWait  time.Duration
}

var _ ports.CircuitProducer = (*Consumer)(nil)

// Consumer wraps a kafka-go reader to implement ports.CircuitProducer.
type Consumer struct {
	reader messageReader
}

type messageReader interface {
	ReadMessage(ctx context.Context) (kafkago.Message, error)
	Close() error
}

// NewConsumer builds a new Consumer from the provided configuration.
func NewConsumer(cfg Config) (*Consumer, error) {
	if len(cfg.Brokers) == 0 {
		return nil, fmt.Errorf("at least one broker must be provided")
	}
	if cfg.Topic == "" {
		return nil, fmt.Errorf("topic must be provided")
	}
	if cfg.GroupID == "" {
		cfg.GroupID = "qcp-runner"
	}

	readerConfig := kafkago.ReaderConfig{
		Brokers:  cfg.Brokers,
		Topic:    cfg.Topic,
		GroupID:  cfg.GroupID,
		MinBytes: cfg.MinBytes,
		MaxBytes: cfg.MaxBytes,
		MaxWait:  cfg.MaxWait,
	}

	if readerConfig.MinBytes == 0 {
		readerConfig.MinBytes = 1
	}
	if readerConfig.MaxBytes == 0 {
		readerConfig.MaxBytes = 10 * 1024 * 1024
	}
	if readerConfig.MaxWait == 0 {
		readerConfig.MaxWait = time.Second
	}

	return newConsumer(kafkago.NewReader(readerConfig)), nil
}

func newConsumer(reader messageReader) *Consumer {
	return &Consumer{reader: reader}
}

// NextTask blocks until the next task message is available in Kafka or the
// context is cancelled.
func (c *Consumer) NextTask(ctx context.Context) (run.Task, error) {
	msg, err := c.reader.ReadMessage(ctx)
	if err != nil {
		return run.Task{}, err
	}

	return decodeTaskMessage(msg)
}

// Close releases the underlying Kafka reader.
func (c *Consumer) Close() error {
	return c.reader.Close()
}
