// Package device resolves a device selector string into a concrete device
// implementation.
package device

import (
	"strings"

	"github.com/qiboteam/qibo-cloud-providers/internal/device/docker"
	"github.com/qiboteam/qibo-cloud-providers/internal/device/local"
	"github.com/qiboteam/qibo-cloud-providers/internal/device/remote"
	"github.com/qiboteam/qibo-cloud-providers/internal/ports"
)

// DensityMatrixSelector selects the local density-matrix simulator.
const DensityMatrixSelector = "local_dm"

// DockerPrefix marks a selector naming a containerized sampler image.
const DockerPrefix = "docker:"

// Config carries the selector plus the settings some device classes need.
type Config struct {
	// Selector picks the device: empty for the default local statevector
	// simulator, "local_dm" for the local density-matrix simulator,
	// "docker:IMAGE" for a containerized sampler, anything else is treated
	// as a remote device resource identifier.
	Selector string

	// RemoteBaseURL and RemoteToken configure remote device access; the
	// token falls back to the QCP_API_TOKEN environment variable.
	RemoteBaseURL string
	RemoteToken   string
}

// Resolve maps the selector onto a device implementation.
func Resolve(cfg Config) (ports.Device, error) {
	switch {
	case cfg.Selector == "":
		return local.NewStatevector(), nil
	case cfg.Selector == DensityMatrixSelector:
		return local.NewDensityMatrix(), nil
	case strings.HasPrefix(cfg.Selector, DockerPrefix):
		return docker.New(docker.Config{Image: strings.TrimPrefix(cfg.Selector, DockerPrefix)})
	default:
		return remote.New(remote.Config{
			BaseURL:  cfg.RemoteBaseURL,
			Token:    cfg.RemoteToken,
			DeviceID: cfg.Selector,
		})
	}
}
