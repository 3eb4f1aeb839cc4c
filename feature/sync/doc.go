// Package sync orchestrates inventory reconciliation runs.
//
// A run collects device facts, normalizes them into the source graph while the stored
// inventory is loaded as the target graph, diffs the two and applies the resulting change
// set. Devices that fail collection or normalization are excluded and their stored
// entities are left untouched. Every run ends with a Report that is archived to object
// storage when an Archive is configured.
//
// # HTTP Endpoints
//
//   - POST /sync : Runs a reconciliation (supports "dry_run" in the body).
//   - GET /sync/reports/:id : Returns an archived run report.
package sync
