// Package source is the source normalizer: it turns the collected facts of every device in
// scope into the typed inventory graph the reconcile engine diffs against the stored one.
//
// Each device is normalized on its own. A device whose collection failed, whose record is
// incomplete or whose values cannot be parsed is excluded with a DeviceOutcome naming the
// stage and cause, and the remaining devices are still loaded.
package source
