package main

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/qiboteam/qibo-cloud-providers/internal/app/backend"
)

const (
	defaultKafkaBrokers = "kafka:9092"
	defaultTasksTopic   = "circuit-tasks"
	defaultReportsTopic = "circuit-reports"
	defaultGroupID      = "qcp-runner"
)

type appConfig struct {
	KafkaBrokers []string
	TasksTopic   string
	ReportsTopic string
	GroupID      string
	MaxTasks     int
	MaxParallel  int
}

func loadAppConfig() appConfig {
	return appConfig{
		KafkaBrokers: parseBrokerList(envOrDefault("QCP_KAFKA_BROKERS", defaultKafkaBrokers)),
		TasksTopic:   envOrDefault("QCP_TASKS_TOPIC", defaultTasksTopic),
		ReportsTopic: envOrDefault("QCP_REPORTS_TOPIC", defaultReportsTopic),
		GroupID:      envOrDefault("QCP_GROUP_ID", defaultGroupID),
		MaxTasks:     parseMaxTasks(os.Getenv("QCP_MAX_TASKS")),
		MaxParallel:  parseMaxParallel(os.Getenv("QCP_MAX_PARALLEL")),
	}
}

func backendConfigFromEnv() backend.Config {
	return backend.Config{
		Device:        os.Getenv("QCP_DEVICE"),
		Verbatim:      parseBool(os.Getenv("QCP_VERBATIM")),
		Verbosity:     parseBool(os.Getenv("QCP_VERBOSITY")),
		PollInterval:  parseDuration(os.Getenv("QCP_POLL_INTERVAL"), 0),
		PollTimeout:   parseDuration(os.Getenv("QCP_POLL_TIMEOUT"), 0),
		RemoteBaseURL: os.Getenv("QCP_REMOTE_BASE_URL"),
		RemoteToken:   os.Getenv("QCP_API_TOKEN"),
	}
}

func envOrDefault(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

func parseBrokerList(raw string) []string {
	fields := strings.Split(raw, ",")
	brokers := make([]string, 0, len(fields))
	for _, field := range fields {
		if trimmed := strings.TrimSpace(field); trimmed != "" {
			brokers = append(brokers, trimmed)
		}
	}
	return brokers
}

func parseMaxTasks(raw string) int {
	if raw == "" {
		return 0
	}
	value, err := strconv.Atoi(raw)
	if err != nil {
		return 0
	}
	if value < 0 {
		return 0
	}
	return value
}

func parseMaxParallel(raw string) int {
	if raw == "" {
		return 1
	}
	value, err := strconv.Atoi(raw)
	if err != nil || value <= 0 {
		return 1
	}
	return value
}

func parseBool(raw string) bool {
	value, err := strconv.ParseBool(raw)
	if err != nil {
		return false
	}
	return value
}

func parseDuration(raw string, fallback time.Duration) time.Duration {
	if raw == "" {
		return fallback
	}
	d, err := time.ParseDuration(raw)
	if err != nil {
		return fallback
	}
	return d
}
