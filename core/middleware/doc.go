// Package middleware contains HTTP middleware for the Fiber application.
//
//   - auth: API key validation (X-API-Key) protecting the API.
//   - rayid: tags every request with a RayID, stored in the context locals and echoed
//     in the X-Ray-ID response header for tracing.
package middleware
