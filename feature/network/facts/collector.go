package facts

import (
	"context"
	"time"
)

// Request carries the collection parameters enforced by the collector, never by the core.
type Request struct {
	// Addresses limits collection to these device addresses. Empty means everything available.
	Addresses []string
	// Port is the management protocol port.
	Port int
	// Timeout is the per-device collection timeout.
	Timeout time.Duration
	// Credentials names the secrets group used to log into devices.
	Credentials string
	// Platform overrides platform detection.
	Platform string
}

// Collector produces device facts. A device that could not be reached is reported as a
// failed record; an error means the collection itself could not run.
type Collector interface {
	Collect(ctx context.Context, req Request) (Collection, error)
}

// FileCollector reads a collection document from the local filesystem.
type FileCollector struct {
	Path string
}

// Collect implements Collector.
func (c FileCollector) Collect(ctx context.Context, req Request) (Collection, error) {
	return LoadFile(c.Path)
}

// StaticCollector returns facts supplied in memory, e.g. inline in an API request.
type StaticCollector struct {
	Facts Collection
}

// Collect implements Collector.
func (c StaticCollector) Collect(ctx context.Context, req Request) (Collection, error) {
	out := make(Collection, len(c.Facts))
	for k, v := range c.Facts {
		out[k] = v
	}
	return out, nil
}
