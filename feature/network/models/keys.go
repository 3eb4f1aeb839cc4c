package models

import (
	"fmt"
	"strings"
)

// DeviceKey identifies a device by hostname and serial number.
type DeviceKey struct {
	Name   string `json:"name"`
	Serial string `json:"serial"`
}

func (k DeviceKey) String() string { return k.Name + "__" + k.Serial }

// IsZero reports whether the key is unset.
func (k DeviceKey) IsZero() bool { return k.Name == "" && k.Serial == "" }

// InterfaceKey identifies an interface by its owning device and name.
type InterfaceKey struct {
	Device DeviceKey `json:"device"`
	Name   string    `json:"name"`
}

func (k InterfaceKey) String() string { return k.Device.String() + "__" + k.Name }

// IsZero reports whether the key is unset.
func (k InterfaceKey) IsZero() bool { return k.Device.IsZero() && k.Name == "" }

// VLANKey identifies a VLAN by id, name and location.
type VLANKey struct {
	VID      int    `json:"vid"`
	Name     string `json:"name"`
	Location string `json:"location"`
}

func (k VLANKey) String() string { return fmt.Sprintf("%d__%s__%s", k.VID, k.Name, k.Location) }

// IsZero reports whether the key is unset. VLAN id 0 is never valid.
func (k VLANKey) IsZero() bool { return k.VID == 0 }

// VRFKey identifies a VRF by name within a namespace.
type VRFKey struct {
	Name      string `json:"name"`
	Namespace string `json:"namespace"`
}

func (k VRFKey) String() string { return k.Name + "__" + k.Namespace }

// IsZero reports whether the key is unset.
func (k VRFKey) IsZero() bool { return k.Name == "" }

// IPKey identifies an IP address by its host address.
type IPKey string

func (k IPKey) String() string { return string(k) }

// TaggedVLANKey identifies the association of a tagged VLAN with an interface.
type TaggedVLANKey struct {
	Interface InterfaceKey `json:"interface"`
	VLAN      VLANKey      `json:"vlan"`
}

func (k TaggedVLANKey) String() string { return k.Interface.String() + "->" + k.VLAN.String() }

// CableKey identifies a cable by its unordered pair of endpoints.
// Use NewCableKey so that A always sorts before B.
type CableKey struct {
	A InterfaceKey `json:"a"`
	B InterfaceKey `json:"b"`
}

// NewCableKey orders the two endpoints so that (a, b) and (b, a) yield the same key.
func NewCableKey(a, b InterfaceKey) CableKey {
	if strings.Compare(a.String(), b.String()) > 0 {
		a, b = b, a
	}
	return CableKey{A: a, B: b}
}

func (k CableKey) String() string { return k.A.String() + "<->" + k.B.String() }
