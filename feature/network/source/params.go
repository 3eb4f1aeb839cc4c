package source

// Params are the run parameters that shape the normalized graph.
type Params struct {
	// Location is assigned to every device and VLAN.
	Location string
	// Namespace scopes IP addresses and VRFs.
	Namespace string
	// Role is assigned to every device.
	Role string

	DeviceStatus    string
	InterfaceStatus string
	IPAddressStatus string
	VLANStatus      string
	CableStatus     string

	// Platform overrides the platform reported by the collector.
	Platform string

	// Addresses is the explicit device scope. Empty means every collected device.
	Addresses []string

	SyncVLANs  bool
	SyncVRFs   bool
	SyncCables bool
}
