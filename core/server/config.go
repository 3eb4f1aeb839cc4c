package server

import "time"

// Config holds configuration for the HTTP server.
type Config struct {
	// Port is the port where the server will listen.
	Port string `mapstructure:"port" default:"8080"`
	// ApiKey is the secret key required to access the API. Empty disables authentication.
	ApiKey string `mapstructure:"api_key" default:""`
	// MetricsPath is the route serving Prometheus metrics. Empty disables it.
	MetricsPath string `mapstructure:"metrics_path" default:"/metrics"`
	// WriteTimeoutSeconds bounds a single response, which includes a synchronous run.
	WriteTimeoutSeconds int `mapstructure:"write_timeout_seconds" default:"600"`
}

// Address returns the listen address for the configured port.
func (c Config) Address() string {
	if c.Port == "" {
		return ":8080"
	}
	return ":" + c.Port
}

// WriteTimeout returns the response timeout, zero meaning unlimited.
func (c Config) WriteTimeout() time.Duration {
	if c.WriteTimeoutSeconds <= 0 {
		return 0
	}
	return time.Duration(c.WriteTimeoutSeconds) * time.Second
}
