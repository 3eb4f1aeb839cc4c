package sync

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"netsync/core/reconcile"
	"netsync/feature/network/facts"
	"netsync/feature/network/inventory"
	"netsync/feature/network/models"
	"netsync/feature/network/source"

	"github.com/google/uuid"
)

var (
	// ErrInvalidRequest is returned for run parameters that fail validation.
	ErrInvalidRequest = errors.New("invalid sync request")
	// ErrDeviceFailed aborts a run that excluded devices while continue_on_failure is off.
	ErrDeviceFailed = errors.New("device failed")
)

// Request holds the parameters of one run. Unset fields take the configured defaults.
type Request struct {
	// Addresses is a comma separated device scope. Whitespace is ignored.
	Addresses string `json:"addresses"`

	Location        string `json:"location"`
	Namespace       string `json:"namespace"`
	Role            string `json:"role"`
	DeviceStatus    string `json:"device_status"`
	InterfaceStatus string `json:"interface_status"`
	IPAddressStatus string `json:"ip_address_status"`

	Port           int    `json:"port"`
	TimeoutSeconds int    `json:"timeout"`
	Credentials    string `json:"credentials"`
	Platform       string `json:"platform"`

	SyncVLANs  *bool `json:"sync_vlans,omitempty"`
	SyncVRFs   *bool `json:"sync_vrfs,omitempty"`
	SyncCables *bool `json:"sync_cables,omitempty"`

	ContinueOnFailure        *bool `json:"continue_on_failure,omitempty"`
	SkipUnmatchedDestination *bool `json:"skip_unmatched_destination,omitempty"`

	// Debug logs every planned action.
	Debug bool `json:"debug"`
	// DryRun plans and reports without writing to the inventory.
	DryRun bool `json:"dry_run"`

	// Facts supplies the collection inline instead of reading it from the collector.
	Facts facts.Collection `json:"facts,omitempty"`
}

// WithDefaults returns a copy of r with every unset field taken from cfg.
func (r Request) WithDefaults(cfg Config) Request {
	def := func(v *string, d string) {
		if strings.TrimSpace(*v) == "" {
			*v = d
		}
	}
	def(&r.Location, cfg.Location)
	def(&r.Namespace, cfg.Namespace)
	def(&r.Role, cfg.Role)
	def(&r.DeviceStatus, cfg.DeviceStatus)
	def(&r.InterfaceStatus, cfg.InterfaceStatus)
	def(&r.IPAddressStatus, cfg.IPAddressStatus)

	if r.Port == 0 {
		r.Port = cfg.Port
	}
	if r.TimeoutSeconds == 0 {
		r.TimeoutSeconds = cfg.TimeoutSeconds
	}

	flag := func(v **bool, d bool) {
		if *v == nil {
			*v = &d
		}
	}
	flag(&r.SyncVLANs, cfg.SyncVLANs)
	flag(&r.SyncVRFs, cfg.SyncVRFs)
	flag(&r.SyncCables, cfg.SyncCables)
	flag(&r.ContinueOnFailure, cfg.ContinueOnFailure)
	flag(&r.SkipUnmatchedDestination, cfg.SkipUnmatchedDestination)
	return r
}

// Validate checks the parameters of a request that already had its defaults applied.
func (r Request) Validate() error {
	var problems []string
	if strings.TrimSpace(r.Location) == "" {
		problems = append(problems, "location is required")
	}
	if r.Port < 1 || r.Port > 65535 {
		problems = append(problems, fmt.Sprintf("port %d is out of range", r.Port))
	}
	if r.TimeoutSeconds < 1 {
		problems = append(problems, fmt.Sprintf("timeout %d must be positive", r.TimeoutSeconds))
	}
	if len(problems) > 0 {
		return fmt.Errorf("%w: %s", ErrInvalidRequest, strings.Join(problems, "; "))
	}
	return nil
}

// AddressList returns the device scope as a list.
func (r Request) AddressList() []string {
	return source.ParseAddressList(r.Addresses)
}

func (r Request) factsRequest() facts.Request {
	return facts.Request{
		Addresses:   r.AddressList(),
		Port:        r.Port,
		Timeout:     time.Duration(r.TimeoutSeconds) * time.Second,
		Credentials: r.Credentials,
		Platform:    r.Platform,
	}
}

func (r Request) sourceParams(cfg Config) source.Params {
	return source.Params{
		Location:        r.Location,
		Namespace:       r.Namespace,
		Role:            r.Role,
		DeviceStatus:    r.DeviceStatus,
		InterfaceStatus: r.InterfaceStatus,
		IPAddressStatus: r.IPAddressStatus,
		VLANStatus:      cfg.VLANStatus,
		CableStatus:     cfg.CableStatus,
		Platform:        r.Platform,
		Addresses:       r.AddressList(),
		SyncVLANs:       isSet(r.SyncVLANs),
		SyncVRFs:        isSet(r.SyncVRFs),
		SyncCables:      isSet(r.SyncCables),
	}
}

func (r Request) targetScope() inventory.Scope {
	return inventory.Scope{
		Location:   r.Location,
		Role:       r.Role,
		Namespace:  r.Namespace,
		SyncVLANs:  isSet(r.SyncVLANs),
		SyncVRFs:   isSet(r.SyncVRFs),
		SyncCables: isSet(r.SyncCables),
	}
}

func (r Request) modelScope() models.Scope {
	return models.Scope{
		Location:   r.Location,
		Namespace:  r.Namespace,
		SyncVLANs:  isSet(r.SyncVLANs),
		SyncVRFs:   isSet(r.SyncVRFs),
		SyncCables: isSet(r.SyncCables),
	}
}

func (r Request) planOptions() reconcile.Options {
	return reconcile.Options{SkipUnmatchedDestination: isSet(r.SkipUnmatchedDestination)}
}

// fingerprint identifies identical requests so concurrent duplicates share one run.
func (r Request) fingerprint() string {
	data, err := json.Marshal(r)
	if err != nil {
		return uuid.NewString()
	}
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:])
}

func isSet(b *bool) bool {
	return b != nil && *b
}

// Bool returns a pointer to b, for building requests.
func Bool(b bool) *bool {
	return &b
}
