package inventory

// DeviceRecord represents the 'devices' table.
type DeviceRecord struct {
	ID        uint   `gorm:"column:id;primaryKey"`
	Name      string `gorm:"column:name;size:191;not null;uniqueIndex:idx_devices_identity"`
	Serial    string `gorm:"column:serial;size:191;not null;uniqueIndex:idx_devices_identity"`
	Vendor    string `gorm:"column:vendor"`
	Model     string `gorm:"column:model"`
	Platform  string `gorm:"column:platform"`
	PrimaryIP string `gorm:"column:primary_ip"`
	Role      string `gorm:"column:role;size:191;index"`
	Status    string `gorm:"column:status"`
	Location  string `gorm:"column:location;size:191;index"`
}

// TableName overrides the table name used by DeviceRecord.
func (DeviceRecord) TableName() string {
	return "devices"
}

// InterfaceRecord represents the 'interfaces' table.
type InterfaceRecord struct {
	ID             uint   `gorm:"column:id;primaryKey"`
	DeviceID       uint   `gorm:"column:device_id;not null;uniqueIndex:idx_interfaces_identity"`
	Name           string `gorm:"column:name;size:191;not null;uniqueIndex:idx_interfaces_identity"`
	Enabled        bool   `gorm:"column:enabled"`
	Description    string `gorm:"column:description"`
	MACAddress     string `gorm:"column:mac_address"`
	Mode           string `gorm:"column:mode"`
	Status         string `gorm:"column:status"`
	UntaggedVLANID *uint  `gorm:"column:untagged_vlan_id"`
	VRFID          *uint  `gorm:"column:vrf_id"`
}

// TableName overrides the table name used by InterfaceRecord.
func (InterfaceRecord) TableName() string {
	return "interfaces"
}

// VLANRecord represents the 'vlans' table.
type VLANRecord struct {
	ID       uint   `gorm:"column:id;primaryKey"`
	VID      int    `gorm:"column:vid;not null;uniqueIndex:idx_vlans_identity"`
	Name     string `gorm:"column:name;size:191;not null;uniqueIndex:idx_vlans_identity"`
	Location string `gorm:"column:location;size:191;not null;uniqueIndex:idx_vlans_identity"`
	Status   string `gorm:"column:status"`
}

// TableName overrides the table name used by VLANRecord.
func (VLANRecord) TableName() string {
	return "vlans"
}

// InterfaceTaggedVLAN represents the 'interface_tagged_vlans' association table.
type InterfaceTaggedVLAN struct {
	ID          uint `gorm:"column:id;primaryKey"`
	InterfaceID uint `gorm:"column:interface_id;not null;uniqueIndex:idx_interface_tagged_vlans_identity"`
	VLANID      uint `gorm:"column:vlan_id;not null;uniqueIndex:idx_interface_tagged_vlans_identity"`
}

// TableName overrides the table name used by InterfaceTaggedVLAN.
func (InterfaceTaggedVLAN) TableName() string {
	return "interface_tagged_vlans"
}

// IPAddressRecord represents the 'ip_addresses' table.
type IPAddressRecord struct {
	ID           uint   `gorm:"column:id;primaryKey"`
	Host         string `gorm:"column:host;size:64;not null;uniqueIndex:idx_ip_addresses_identity"`
	PrefixLength int    `gorm:"column:prefix_length"`
	IPVersion    int    `gorm:"column:ip_version"`
	Status       string `gorm:"column:status"`
	Namespace    string `gorm:"column:namespace;size:191"`
	InterfaceID  uint   `gorm:"column:interface_id;not null;index"`
}

// TableName overrides the table name used by IPAddressRecord.
func (IPAddressRecord) TableName() string {
	return "ip_addresses"
}

// VRFRecord represents the 'vrfs' table.
type VRFRecord struct {
	ID        uint   `gorm:"column:id;primaryKey"`
	Name      string `gorm:"column:name;size:191;not null;uniqueIndex:idx_vrfs_identity"`
	Namespace string `gorm:"column:namespace;size:191;not null;uniqueIndex:idx_vrfs_identity"`
	RD        string `gorm:"column:rd"`
}

// TableName overrides the table name used by VRFRecord.
func (VRFRecord) TableName() string {
	return "vrfs"
}

// CableRecord represents the 'cables' table. The A side is the endpoint whose key sorts first.
type CableRecord struct {
	ID           uint   `gorm:"column:id;primaryKey"`
	AInterfaceID uint   `gorm:"column:a_interface_id;not null;uniqueIndex:idx_cables_identity"`
	BInterfaceID uint   `gorm:"column:b_interface_id;not null;uniqueIndex:idx_cables_identity"`
	Status       string `gorm:"column:status"`
}

// TableName overrides the table name used by CableRecord.
func (CableRecord) TableName() string {
	return "cables"
}

// Records lists every table model in migration order.
func Records() []any {
	return []any{
		&DeviceRecord{},
		&VRFRecord{},
		&VLANRecord{},
		&InterfaceRecord{},
		&InterfaceTaggedVLAN{},
		&IPAddressRecord{},
		&CableRecord{},
	}
}
