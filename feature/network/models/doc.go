// Package models defines the typed inventory graph shared by both sides of a reconciliation.
//
// Every entity has an explicit identity value type (DeviceKey, InterfaceKey, VLANKey, ...)
// whose String form mirrors the natural unique id used by the inventory, e.g.
// "sw1__ABC" for a device or "100____site-a" for an unnamed VLAN. Entities implement
// Compare and Scope so they can be fed to reconcile.Diff directly.
//
// Tagged VLANs are modelled as association entities so that adding or removing one VLAN
// from a trunk is a single create or delete.
package models
