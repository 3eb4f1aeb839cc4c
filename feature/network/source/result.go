package source

import "netsync/feature/network/models"

// Stage names where a device dropped out of the run.
type Stage string

const (
	StageCollection    Stage = "collection"
	StageNormalization Stage = "normalization"
)

// DeviceOutcome is the per-device result of normalization: either loaded into the graph or
// excluded with the stage and cause.
type DeviceOutcome struct {
	// Key is the collection key, usually the management address.
	Key string `json:"key"`
	// Device is the device identity, zero when the record never provided one.
	Device   models.DeviceKey `json:"device"`
	Excluded bool             `json:"excluded"`
	Stage    Stage            `json:"stage,omitempty"`
	Cause    string           `json:"cause,omitempty"`
}

// Result is the normalized graph plus one outcome per device in scope.
type Result struct {
	Graph    *models.Graph
	Outcomes []DeviceOutcome
}

// Loaded returns the outcomes of devices that made it into the graph.
func (r *Result) Loaded() []DeviceOutcome {
	var out []DeviceOutcome
	for _, o := range r.Outcomes {
		if !o.Excluded {
			out = append(out, o)
		}
	}
	return out
}

// Excluded returns the outcomes of devices that were dropped.
func (r *Result) Excluded() []DeviceOutcome {
	var out []DeviceOutcome
	for _, o := range r.Outcomes {
		if o.Excluded {
			out = append(out, o)
		}
	}
	return out
}
