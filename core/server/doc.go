// Package server holds the HTTP server configuration.
//
// The start command builds the Fiber application from this configuration: the listen
// port, the API key protecting every route, the metrics route and the response timeout
// that bounds synchronous reconciliation runs.
package server
