package models

import (
	"cmp"
	"errors"
	"fmt"
	"slices"
)

// ErrInvalidGraph is returned by Validate when an entity references something missing.
var ErrInvalidGraph = errors.New("invalid inventory graph")

// Graph is the common typed representation of an inventory: every entity keyed by its
// natural identity. Both normalizers produce a Graph so the two sides can be diffed.
type Graph struct {
	Devices     map[DeviceKey]Device
	Interfaces  map[InterfaceKey]Interface
	TaggedVLANs map[TaggedVLANKey]TaggedVLAN
	IPAddresses map[IPKey]IPAddress
	VLANs       map[VLANKey]VLAN
	VRFs        map[VRFKey]VRF
	Cables      map[CableKey]Cable

	// HeldVLANs and HeldVRFs are shared entities still referenced by inventory outside the
	// graph's devices. They are never deleted by a run.
	HeldVLANs map[VLANKey]struct{}
	HeldVRFs  map[VRFKey]struct{}
}

// NewGraph returns an empty graph.
func NewGraph() *Graph {
	return &Graph{
		Devices:     make(map[DeviceKey]Device),
		Interfaces:  make(map[InterfaceKey]Interface),
		TaggedVLANs: make(map[TaggedVLANKey]TaggedVLAN),
		IPAddresses: make(map[IPKey]IPAddress),
		VLANs:       make(map[VLANKey]VLAN),
		VRFs:        make(map[VRFKey]VRF),
		Cables:      make(map[CableKey]Cable),
		HeldVLANs:   make(map[VLANKey]struct{}),
		HeldVRFs:    make(map[VRFKey]struct{}),
	}
}

// The Add methods overwrite an existing entity with the same identity: last seen wins.

func (g *Graph) AddDevice(d Device) { g.Devices[d.Key] = d }
func (g *Graph) AddInterface(i Interface) { g.Interfaces[i.Key] = i }
func (g *Graph) AddIPAddress(a IPAddress) { g.IPAddresses[a.Key()] = a }
func (g *Graph) AddVLAN(v VLAN) { g.VLANs[v.Key] = v }
func (g *Graph) AddVRF(v VRF) { g.VRFs[v.Key] = v }
func (g *Graph) AddCable(c Cable) { g.Cables[c.Key] = c }
func (g *Graph) AddTaggedVLAN(t TaggedVLAN) { g.TaggedVLANs[t.Key] = t }

// HoldVLAN marks a VLAN as referenced from outside the graph.
func (g *Graph) HoldVLAN(k VLANKey) {
	if !k.IsZero() {
		g.HeldVLANs[k] = struct{}{}
	}
}

// HoldVRF marks a VRF as referenced from outside the graph.
func (g *Graph) HoldVRF(k VRFKey) {
	if !k.IsZero() {
		g.HeldVRFs[k] = struct{}{}
	}
}

// Merge copies every entity of other into g.
func (g *Graph) Merge(other *Graph) {
	for _, d := range other.Devices {
		g.AddDevice(d)
	}
	for _, i := range other.Interfaces {
		g.AddInterface(i)
	}
	for _, t := range other.TaggedVLANs {
		g.AddTaggedVLAN(t)
	}
	for _, a := range other.IPAddresses {
		g.AddIPAddress(a)
	}
	for _, v := range other.VLANs {
		g.AddVLAN(v)
	}
	for _, v := range other.VRFs {
		g.AddVRF(v)
	}
	for _, c := range other.Cables {
		g.AddCable(c)
	}
	for k := range other.HeldVLANs {
		g.HoldVLAN(k)
	}
	for k := range other.HeldVRFs {
		g.HoldVRF(k)
	}
}

// Validate checks referential integrity: every interface belongs to a device, every
// address, association and cable endpoint to an interface, and every referenced VLAN or
// VRF exists. All violations are joined into one error wrapping ErrInvalidGraph.
func (g *Graph) Validate() error {
	var problems []string

	for k, i := range g.Interfaces {
		if _, ok := g.Devices[k.Device]; !ok {
			problems = append(problems, fmt.Sprintf("interface %s: device %s missing", k, k.Device))
		}
		if !i.UntaggedVLAN.IsZero() {
			if _, ok := g.VLANs[i.UntaggedVLAN]; !ok {
				problems = append(problems, fmt.Sprintf("interface %s: untagged vlan %s missing", k, i.UntaggedVLAN))
			}
		}
		if !i.VRF.IsZero() {
			if _, ok := g.VRFs[i.VRF]; !ok {
				problems = append(problems, fmt.Sprintf("interface %s: vrf %s missing", k, i.VRF))
			}
		}
	}
	for k := range g.TaggedVLANs {
		if _, ok := g.Interfaces[k.Interface]; !ok {
			problems = append(problems, fmt.Sprintf("tagged vlan %s: interface missing", k))
		}
		if _, ok := g.VLANs[k.VLAN]; !ok {
			problems = append(problems, fmt.Sprintf("tagged vlan %s: vlan missing", k))
		}
	}
	for k, a := range g.IPAddresses {
		if _, ok := g.Interfaces[a.Interface]; !ok {
			problems = append(problems, fmt.Sprintf("ip address %s: interface %s missing", k, a.Interface))
		}
	}
	for k := range g.Cables {
		if _, ok := g.Interfaces[k.A]; !ok {
			problems = append(problems, fmt.Sprintf("cable %s: endpoint %s missing", k, k.A))
		}
		if _, ok := g.Interfaces[k.B]; !ok {
			problems = append(problems, fmt.Sprintf("cable %s: endpoint %s missing", k, k.B))
		}
	}

	if len(problems) == 0 {
		return nil
	}
	slices.Sort(problems)
	errs := make([]error, 0, len(problems))
	for _, p := range problems {
		errs = append(errs, errors.New(p))
	}
	return fmt.Errorf("%w: %w", ErrInvalidGraph, errors.Join(errs...))
}

// Restrict returns a copy of g holding only the devices accepted by keep and the entities
// they own. Cables are kept when both endpoint devices are kept. VLANs and VRFs are shared
// and copied unchanged; those referenced by a dropped device become held.
func (g *Graph) Restrict(keep func(DeviceKey) bool) *Graph {
	out := NewGraph()
	for k, d := range g.Devices {
		if keep(k) {
			out.AddDevice(d)
		}
	}
	owned := func(k InterfaceKey) bool {
		_, ok := out.Devices[k.Device]
		return ok
	}
	for k, i := range g.Interfaces {
		if owned(k) {
			out.AddInterface(i)
			continue
		}
		out.HoldVLAN(i.UntaggedVLAN)
		out.HoldVRF(i.VRF)
	}
	for k, t := range g.TaggedVLANs {
		if owned(k.Interface) {
			out.AddTaggedVLAN(t)
			continue
		}
		out.HoldVLAN(k.VLAN)
	}
	for _, a := range g.IPAddresses {
		if owned(a.Interface) {
			out.AddIPAddress(a)
		}
	}
	for k, c := range g.Cables {
		if owned(k.A) && owned(k.B) {
			out.AddCable(c)
		}
	}
	for _, v := range g.VLANs {
		out.AddVLAN(v)
	}
	for _, v := range g.VRFs {
		out.AddVRF(v)
	}
	for k := range g.HeldVLANs {
		out.HoldVLAN(k)
	}
	for k := range g.HeldVRFs {
		out.HoldVRF(k)
	}
	return out
}

// DeviceByName returns the key of the device with the given hostname.
func (g *Graph) DeviceByName(name string) (DeviceKey, bool) {
	for k := range g.Devices {
		if k.Name == name {
			return k, true
		}
	}
	return DeviceKey{}, false
}

// DeviceKeys returns the device keys in string order.
func (g *Graph) DeviceKeys() []DeviceKey {
	keys := make([]DeviceKey, 0, len(g.Devices))
	for k := range g.Devices {
		keys = append(keys, k)
	}
	slices.SortFunc(keys, func(a, b DeviceKey) int { return cmp.Compare(a.String(), b.String()) })
	return keys
}

// ManagedVLANs returns the VLANs of the given location. VLANs of other locations may be
// present because interfaces reference them, but a run never manages them.
func (g *Graph) ManagedVLANs(location string) map[VLANKey]VLAN {
	out := make(map[VLANKey]VLAN)
	for k, v := range g.VLANs {
		if k.Location == location {
			out[k] = v
		}
	}
	return out
}

// ManagedVRFs returns the VRFs of the given namespace.
func (g *Graph) ManagedVRFs(namespace string) map[VRFKey]VRF {
	out := make(map[VRFKey]VRF)
	for k, v := range g.VRFs {
		if k.Namespace == namespace {
			out[k] = v
		}
	}
	return out
}
