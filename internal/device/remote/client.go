// Package remote implements a cloud device reached over HTTP. Jobs are
// submitted with a bearer token, polled for status and read back as raw
// per-shot samples.
package remote

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"time"

	"github.com/qiboteam/qibo-cloud-providers/internal/domain/program"
	"github.com/qiboteam/qibo-cloud-providers/internal/ports"
)

// TokenEnv is the environment variable consulted when no token is supplied
// explicitly.
const TokenEnv = "QCP_API_TOKEN"

const defaultPollInterval = time.Second

// Config describes how to reach the remote provider.
type Config struct {
	// BaseURL is the provider API root, e.g. "https://cloud.example.com/api/v1".
	BaseURL string
	// Token authenticates requests. Read from QCP_API_TOKEN when empty.
	Token string
	// DeviceID is the opaque resource identifier of the target device.
	DeviceID string
	// HTTPClient overrides the default http.Client.
	HTTPClient *http.Client
	// PollInterval is the pause between server-side status checks while
	// waiting for results. Defaults to one second.
	PollInterval time.Duration
}

// Device submits programs to a remote provider over HTTP.
type Device struct {
	baseURL      string
	token        string
	deviceID     string
	httpc        *http.Client
	pollInterval time.Duration
}

var _ ports.Device = (*Device)(nil)

// New builds a remote device from the configuration.
func New(cfg Config) (*Device, error) {
	if cfg.BaseURL == "" {
		return nil, fmt.Errorf("remote device: base URL must be provided")
	}
	if cfg.DeviceID == "" {
		return nil, fmt.Errorf("remote device: device identifier must be provided")
	}

	token := cfg.Token
	if token == "" {
		token = os.Getenv(TokenEnv)
	}
	if token == "" {
		return nil, fmt.Errorf("remote device: no token provided, pass one explicitly or set %s", TokenEnv)
	}

	httpc := cfg.HTTPClient
	if httpc == nil {
		httpc = &http.Client{Timeout: 30 * time.Second}
	}

	pollInterval := cfg.PollInterval
	if pollInterval <= 0 {
		pollInterval = defaultPollInterval
	}

	return &Device{
		baseURL:      cfg.BaseURL,
		token:        token,
		deviceID:     cfg.DeviceID,
		httpc:        httpc,
		pollInterval: pollInterval,
	}, nil
}

// Name returns the device resource identifier.
func (d *Device) Name() string { return d.deviceID }

type submitRequest struct {
	Device  string          `json:"device"`
	Shots   int             `json:"shots"`
	Program program.Program `json:"program"`
	Options map[string]any  `json:"options,omitempty"`
}

type submitResponse struct {
	JobID string `json:"job_id"`
}

type statusResponse struct {
	Status string `json:"status"`
	Error  string `json:"error,omitempty"`
}

type resultResponse struct {
	Samples [][]int `json:"samples"`
}

// Run submits the program and returns a handle to the provider-side job.
func (d *Device) Run(ctx context.Context, prog program.Program, shots int, options map[string]any) (ports.Job, error) {
	payload := submitRequest{
		Device:  d.deviceID,
		Shots:   shots,
		Program: prog,
		Options: options,
	}

	var resp submitResponse
	if err := d.do(ctx, http.MethodPost, "/jobs", payload, &resp); err != nil {
		return nil, fmt.Errorf("submit job: %w", err)
	}
	if resp.JobID == "" {
		return nil, fmt.Errorf("submit job: provider returned no job identifier")
	}

	return &Job{device: d, id: resp.JobID}, nil
}

// Close releases nothing; the HTTP client is shared and connectionless.
func (d *Device) Close() error { return nil }

func (d *Device) do(ctx context.Context, method, path string, payload, out any) error {
	var body io.Reader
	if payload != nil {
		raw, err := json.Marshal(payload)
		if err != nil {
			return fmt.Errorf("encode request: %w", err)
		}
		body = bytes.NewReader(raw)
	}

	req, err := http.NewRequestWithContext(ctx, method, d.baseURL+path, body)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+d.token)
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := d.httpc.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		excerpt, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return fmt.Errorf("%s %s: %s: %s", method, path, resp.Status, bytes.TrimSpace(excerpt))
	}

	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}
