package sync

import (
	"cmp"
	"slices"
	"time"

	"netsync/core/reconcile"
	"netsync/feature/network/source"
)

// Status is the final state of a run.
type Status string

const (
	StatusCompleted           Status = "completed"
	StatusCompletedWithErrors Status = "completed_with_errors"
	StatusAborted             Status = "aborted"
)

// DeviceStatus is the outcome of one device in a run.
type DeviceStatus string

const (
	DeviceSucceeded DeviceStatus = "succeeded"
	DeviceExcluded  DeviceStatus = "excluded"
	DeviceFailed    DeviceStatus = "failed"
)

// ActionFailure is an action that could not be applied.
type ActionFailure struct {
	Type   reconcile.ActionType `json:"type"`
	Kind   string               `json:"kind"`
	Key    string               `json:"key"`
	Fields []string             `json:"fields,omitempty"`
	Error  string               `json:"error"`
}

// DeviceReport is the per-device section of a run report.
type DeviceReport struct {
	// Key is the collection key of the device.
	Key      string          `json:"key"`
	Device   string          `json:"device,omitempty"`
	Status   DeviceStatus    `json:"status"`
	Stage    source.Stage    `json:"stage,omitempty"`
	Cause    string          `json:"cause,omitempty"`
	Failures []ActionFailure `json:"failures,omitempty"`
}

// Report is the result of a run.
type Report struct {
	ID         string             `json:"id"`
	Status     Status             `json:"status"`
	Cause      string             `json:"cause,omitempty"`
	DryRun     bool               `json:"dry_run"`
	Applied    bool               `json:"applied"`
	StartedAt  time.Time          `json:"started_at"`
	FinishedAt time.Time          `json:"finished_at"`
	Summary    reconcile.Summary  `json:"summary"`
	Executed   int                `json:"executed"`
	Actions    []reconcile.Action `json:"actions"`
	Skipped    []reconcile.Action `json:"skipped,omitempty"`
	Devices    []DeviceReport     `json:"devices"`
	// Failures lists every failed action, including those on shared VLANs and VRFs.
	Failures []ActionFailure `json:"failures,omitempty"`
}

// Duration is the wall time of the run.
func (r *Report) Duration() time.Duration {
	return r.FinishedAt.Sub(r.StartedAt)
}

// CountDevices returns the number of devices with the given status.
func (r *Report) CountDevices(status DeviceStatus) int {
	n := 0
	for _, d := range r.Devices {
		if d.Status == status {
			n++
		}
	}
	return n
}

func failureOf(o reconcile.Outcome) ActionFailure {
	return ActionFailure{
		Type:   o.Action.Type,
		Kind:   o.Action.Kind,
		Key:    o.Action.Key,
		Fields: o.Action.ChangedFields(),
		Error:  o.Error,
	}
}

// buildReport assembles the report of a planned run and its apply result, which is nil
// when nothing was executed.
func buildReport(p *Plan, res *reconcile.ApplyResult, finished time.Time) *Report {
	r := &Report{
		ID:         p.ID,
		Status:     StatusCompleted,
		DryRun:     p.Request.DryRun,
		Applied:    res != nil,
		StartedAt:  p.StartedAt,
		FinishedAt: finished,
	}
	if p.ChangeSet != nil {
		r.Summary = p.ChangeSet.Summary
		r.Actions = p.ChangeSet.Actions
		r.Skipped = p.ChangeSet.Skipped
	}
	if r.Actions == nil {
		r.Actions = []reconcile.Action{}
	}

	scopes := res.FailedScopes()
	r.Executed = res.Executed()
	if res != nil {
		for _, o := range res.Failed {
			r.Failures = append(r.Failures, failureOf(o))
		}
	}

	if p.Source != nil {
		for _, o := range p.Source.Outcomes {
			d := DeviceReport{Key: o.Key, Status: DeviceSucceeded}
			if !o.Device.IsZero() {
				d.Device = o.Device.String()
			}
			switch {
			case o.Excluded:
				d.Status, d.Stage, d.Cause = DeviceExcluded, o.Stage, o.Cause
			case len(scopes[d.Device]) > 0:
				d.Status = DeviceFailed
				for _, f := range scopes[d.Device] {
					d.Failures = append(d.Failures, failureOf(f))
				}
			}
			r.Devices = append(r.Devices, d)
		}
	}
	slices.SortStableFunc(r.Devices, func(a, b DeviceReport) int { return cmp.Compare(a.Key, b.Key) })

	switch {
	case p.Err != nil:
		r.Status, r.Cause = StatusAborted, p.Err.Error()
	case len(r.Failures) > 0 || r.CountDevices(DeviceExcluded) > 0:
		r.Status = StatusCompletedWithErrors
	}
	return r
}
