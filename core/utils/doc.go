// Package utils provides loose type conversion helpers.
// Device facts arrive as JSON produced by many collector parsers, so the same field may be a
// number, a numeric string or a list depending on the platform.
package utils
