// Package metrics registers the Prometheus collectors describing reconciliation runs.
// They are served by the start command on the configured metrics route.
package metrics
