// Package facts is the boundary to the device collection layer.
//
// Collection workers (outside this service) log into devices, parse their output and emit
// one structured Record per device. This package decodes those documents and exposes them
// through the Collector interface, reading from a local file, from object storage, or from
// memory. Nothing here interprets the values; that is the job of the source normalizer.
package facts
