package models

import (
	"strconv"

	"netsync/core/reconcile"
)

// InterfaceMode is the 802.1Q mode of an interface.
type InterfaceMode string

const (
	ModeAccess    InterfaceMode = "access"
	ModeTagged    InterfaceMode = "tagged"
	ModeTaggedAll InterfaceMode = "tagged-all"
	ModeNone      InterfaceMode = ""
)

// Valid reports whether m is one of the known modes.
func (m InterfaceMode) Valid() bool {
	switch m {
	case ModeAccess, ModeTagged, ModeTaggedAll, ModeNone:
		return true
	}
	return false
}

// Device is a managed network device.
type Device struct {
	Key       DeviceKey `json:"key"`
	Vendor    string    `json:"vendor"`
	Model     string    `json:"model"`
	Platform  string    `json:"platform"`
	PrimaryIP string    `json:"primary_ip"`
	Role      string    `json:"role"`
	Status    string    `json:"status"`
	Location  string    `json:"location"`
}

// Compare implements reconcile.Comparable.
func (d Device) Compare(current Device) []reconcile.FieldChange {
	var c changes
	c.str("vendor", d.Vendor, current.Vendor)
	c.str("model", d.Model, current.Model)
	c.str("platform", d.Platform, current.Platform)
	c.str("primary_ip", d.PrimaryIP, current.PrimaryIP)
	c.str("role", d.Role, current.Role)
	c.str("status", d.Status, current.Status)
	c.str("location", d.Location, current.Location)
	return c
}

// Scope implements reconcile.Scoped.
func (d Device) Scope() string { return d.Key.String() }

// Interface is a physical or logical interface of a device.
type Interface struct {
	Key          InterfaceKey  `json:"key"`
	Enabled      bool          `json:"enabled"`
	Description  string        `json:"description"`
	MACAddress   string        `json:"mac_address"`
	Mode         InterfaceMode `json:"mode"`
	Status       string        `json:"status"`
	UntaggedVLAN VLANKey       `json:"untagged_vlan"`
	VRF          VRFKey        `json:"vrf"`
}

// Compare implements reconcile.Comparable.
func (i Interface) Compare(current Interface) []reconcile.FieldChange {
	var c changes
	c.boolean("enabled", i.Enabled, current.Enabled)
	c.str("description", i.Description, current.Description)
	c.str("mac_address", i.MACAddress, current.MACAddress)
	c.str("mode", string(i.Mode), string(current.Mode))
	c.str("status", i.Status, current.Status)
	optional(&c, "untagged_vlan", i.UntaggedVLAN, current.UntaggedVLAN)
	optional(&c, "vrf", i.VRF, current.VRF)
	return c
}

// Scope implements reconcile.Scoped.
func (i Interface) Scope() string { return i.Key.Device.String() }

// TaggedVLAN associates a tagged VLAN with an interface.
type TaggedVLAN struct {
	Key TaggedVLANKey `json:"key"`
}

// Compare implements reconcile.Comparable. Associations carry no attributes.
func (t TaggedVLAN) Compare(TaggedVLAN) []reconcile.FieldChange { return nil }

// Scope implements reconcile.Scoped.
func (t TaggedVLAN) Scope() string { return t.Key.Interface.Device.String() }

// IPAddress is an address assigned to an interface.
type IPAddress struct {
	Host         string       `json:"host"`
	PrefixLength int          `json:"prefix_length"`
	IPVersion    int          `json:"ip_version"`
	Status       string       `json:"status"`
	Namespace    string       `json:"namespace"`
	Interface    InterfaceKey `json:"interface"`
}

// Key returns the identity of the address.
func (a IPAddress) Key() IPKey { return IPKey(a.Host) }

// Compare implements reconcile.Comparable.
func (a IPAddress) Compare(current IPAddress) []reconcile.FieldChange {
	var c changes
	c.integer("prefix_length", a.PrefixLength, current.PrefixLength)
	c.integer("ip_version", a.IPVersion, current.IPVersion)
	c.str("status", a.Status, current.Status)
	c.str("namespace", a.Namespace, current.Namespace)
	c.str("interface", a.Interface.String(), current.Interface.String())
	return c
}

// Scope implements reconcile.Scoped.
func (a IPAddress) Scope() string { return a.Interface.Device.String() }

// VLAN is a location scoped VLAN.
type VLAN struct {
	Key    VLANKey `json:"key"`
	Status string  `json:"status"`
}

// Compare implements reconcile.Comparable.
func (v VLAN) Compare(current VLAN) []reconcile.FieldChange {
	var c changes
	c.str("status", v.Status, current.Status)
	return c
}

// VRF is a namespace scoped routing instance.
type VRF struct {
	Key VRFKey `json:"key"`
	RD  string `json:"rd"`
}

// Compare implements reconcile.Comparable.
func (v VRF) Compare(current VRF) []reconcile.FieldChange {
	var c changes
	c.str("rd", v.RD, current.RD)
	return c
}

// Cable connects two interfaces.
type Cable struct {
	Key    CableKey `json:"key"`
	Status string   `json:"status"`
}

// Compare implements reconcile.Comparable.
func (c Cable) Compare(current Cable) []reconcile.FieldChange {
	var ch changes
	ch.str("status", c.Status, current.Status)
	return ch
}

// Scope implements reconcile.Scoped. A cable is reported under its A side device.
func (c Cable) Scope() string { return c.Key.A.Device.String() }

type changes []reconcile.FieldChange

func (c *changes) str(field, source, target string) {
	if source != target {
		*c = append(*c, reconcile.FieldChange{Field: field, Source: source, Target: target})
	}
}

func (c *changes) boolean(field string, source, target bool) {
	if source != target {
		*c = append(*c, reconcile.FieldChange{Field: field, Source: strconv.FormatBool(source), Target: strconv.FormatBool(target)})
	}
}

func (c *changes) integer(field string, source, target int) {
	if source != target {
		*c = append(*c, reconcile.FieldChange{Field: field, Source: strconv.Itoa(source), Target: strconv.Itoa(target)})
	}
}

type optionalKey interface {
	comparable
	String() string
	IsZero() bool
}

func render[K optionalKey](k K) string {
	if k.IsZero() {
		return ""
	}
	return k.String()
}

func optional[K optionalKey](c *changes, field string, source, target K) {
	if source != target {
		*c = append(*c, reconcile.FieldChange{Field: field, Source: render(source), Target: render(target)})
	}
}
