package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/qiboteam/qibo-cloud-providers/internal/app/backend"
	"github.com/qiboteam/qibo-cloud-providers/internal/app/runner"
	"github.com/qiboteam/qibo-cloud-providers/internal/domain/run"
	kafkainfra "github.com/qiboteam/qibo-cloud-providers/internal/infra/kafka"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg := loadAppConfig()

	executor, err := backend.New(backendConfigFromEnv())
	if err != nil {
		log.Fatalf("failed to initialize backend: %v", err)
	}

	service := runner.NewService(executor)
	defer func() {
		if cerr := service.Close(); cerr != nil {
			log.Printf("warning: failed to close backend: %v", cerr)
		}
	}()

	consumer, err := kafkainfra.NewConsumer(kafkainfra.Config{
		Brokers: cfg.KafkaBrokers,
		Topic:   cfg.TasksTopic,
		GroupID: cfg.GroupID,
	})
	if err != nil {
		log.Fatalf("failed to initialize kafka consumer: %v", err)
	}
	defer func() {
		if cerr := consumer.Close(); cerr != nil {
			log.Printf("warning: failed to close kafka consumer: %v", cerr)
		}
	}()

	publisher, err := kafkainfra.NewPublisher(kafkainfra.PublisherConfig{
		Brokers: cfg.KafkaBrokers,
		Topic:   cfg.ReportsTopic,
	})
	if err != nil {
		log.Fatalf("failed to initialize kafka publisher: %v", err)
	}
	defer func() {
		if cerr := publisher.Close(); cerr != nil {
			log.Printf("warning: failed to close kafka publisher: %v", cerr)
		}
	}()

	if err := service.RunFromProducer(
		ctx,
		consumer,
		cfg.MaxTasks,
		cfg.MaxParallel,
		func(report run.Report) {
			if report.Err != nil {
				log.Printf("task %q failed: %v", report.Task.ID, report.Err)
			} else {
				log.Printf("task %q finished: %d shots, %d distinct outcomes", report.Task.ID, report.Outcomes.Shots, len(report.Outcomes.Frequencies()))
			}

			if perr := publisher.PublishReport(ctx, report); perr != nil {
				log.Printf("warning: failed to publish report for task %q: %v", report.Task.ID, perr)
			}
		},
	); err != nil {
		log.Fatalf("failed to execute tasks: %v", err)
	}
}
