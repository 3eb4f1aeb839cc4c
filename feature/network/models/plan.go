package models

import "netsync/core/reconcile"

// Entity kinds in dependency order.
var (
	KindDevice     = reconcile.Kind{Name: "device", Rank: 1}
	KindVRF        = reconcile.Kind{Name: "vrf", Rank: 2}
	KindVLAN       = reconcile.Kind{Name: "vlan", Rank: 3}
	KindInterface  = reconcile.Kind{Name: "interface", Rank: 4}
	KindTaggedVLAN = reconcile.Kind{Name: "tagged_vlan", Rank: 5}
	KindIPAddress  = reconcile.Kind{Name: "ip_address", Rank: 6}
	KindCable      = reconcile.Kind{Name: "cable", Rank: 7}
)

// Scope limits which entity kinds and which shared entities a run manages.
type Scope struct {
	Location   string
	Namespace  string
	SyncVLANs  bool
	SyncVRFs   bool
	SyncCables bool
}

// Plan diffs source against target for every kind enabled in scope.
// Shared VLANs and VRFs are only compared inside the run's location and namespace, and a
// held one missing from the source is left alone instead of deleted.
func Plan(source, target *Graph, scope Scope, opts reconcile.Options) *reconcile.ChangeSet {
	p := reconcile.NewPlanner(opts)

	reconcile.Diff(p, KindDevice, source.Devices, target.Devices)
	if scope.SyncVRFs {
		managed := source.ManagedVRFs(scope.Namespace)
		reconcile.Diff(p, KindVRF, managed, unheld(managed, target.ManagedVRFs(scope.Namespace), target.HeldVRFs))
	}
	if scope.SyncVLANs {
		managed := source.ManagedVLANs(scope.Location)
		reconcile.Diff(p, KindVLAN, managed, unheld(managed, target.ManagedVLANs(scope.Location), target.HeldVLANs))
	}
	reconcile.Diff(p, KindInterface, source.Interfaces, target.Interfaces)
	if scope.SyncVLANs {
		reconcile.Diff(p, KindTaggedVLAN, source.TaggedVLANs, target.TaggedVLANs)
	}
	reconcile.Diff(p, KindIPAddress, source.IPAddresses, target.IPAddresses)
	if scope.SyncCables {
		reconcile.Diff(p, KindCable, source.Cables, target.Cables)
	}

	return p.Plan()
}

// unheld drops the target-only entries that are still held.
func unheld[K comparable, E any](source, target map[K]E, held map[K]struct{}) map[K]E {
	if len(held) == 0 {
		return target
	}
	out := make(map[K]E, len(target))
	for k, e := range target {
		_, inSource := source[k]
		if _, ok := held[k]; ok && !inSource {
			continue
		}
		out[k] = e
	}
	return out
}
