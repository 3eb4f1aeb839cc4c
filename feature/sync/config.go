package sync

// Config holds the run defaults. Every field can be overridden per request.
type Config struct {
	// Location is assigned to devices and VLANs when the request names none.
	Location string `mapstructure:"location" default:""`
	// Namespace scopes IP addresses and VRFs.
	Namespace string `mapstructure:"namespace" default:"Global"`
	// Role is assigned to devices and limits the stored devices compared against.
	Role string `mapstructure:"role" default:""`

	DeviceStatus    string `mapstructure:"device_status" default:"Active"`
	InterfaceStatus string `mapstructure:"interface_status" default:"Active"`
	IPAddressStatus string `mapstructure:"ip_address_status" default:"Active"`
	VLANStatus      string `mapstructure:"vlan_status" default:"Active"`
	CableStatus     string `mapstructure:"cable_status" default:"Connected"`

	// Port and TimeoutSeconds are handed to the collector.
	Port           int `mapstructure:"port" default:"22"`
	TimeoutSeconds int `mapstructure:"timeout_seconds" default:"30"`

	SyncVLANs  bool `mapstructure:"sync_vlans" default:"true"`
	SyncVRFs   bool `mapstructure:"sync_vrfs" default:"false"`
	SyncCables bool `mapstructure:"sync_cables" default:"false"`

	// SkipUnmatchedDestination keeps stored entities the devices no longer report.
	SkipUnmatchedDestination bool `mapstructure:"skip_unmatched_destination" default:"true"`
	// ContinueOnFailure keeps a run going when some devices are excluded.
	ContinueOnFailure bool `mapstructure:"continue_on_failure" default:"true"`
	// Workers bounds the concurrent actions of one apply stage.
	Workers int `mapstructure:"workers" default:"16"`

	// FactsFile reads collected facts from a local document instead of object storage.
	FactsFile string `mapstructure:"facts_file" default:""`
	// FactsPrefix is where collection workers drop facts in the bucket.
	FactsPrefix string `mapstructure:"facts_prefix" default:"facts"`
	// ReportPrefix is where run reports are archived in the bucket.
	ReportPrefix string `mapstructure:"report_prefix" default:"reports"`
	// ReportRetention is the number of archived reports kept, 0 keeps all.
	ReportRetention int `mapstructure:"report_retention" default:"100"`
}
