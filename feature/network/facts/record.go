package facts

import (
	"encoding/json"
	"fmt"

	"netsync/core/utils"
)

// Collection is the structured output of a collection run keyed by a caller-chosen device key,
// usually the management address the device was reached on.
type Collection map[string]Record

// Record is the collected facts of one device.
type Record struct {
	Hostname     string                     `json:"hostname"`
	Serial       string                     `json:"serial"`
	Vendor       string                     `json:"manufacturer"`
	Model        string                     `json:"device_type"`
	Platform     string                     `json:"platform"`
	ManagementIP string                     `json:"mgmt_ip"`
	Interfaces   map[string]InterfaceRecord `json:"interfaces"`
	Failed       bool                       `json:"failed"`
	FailedReason string                     `json:"failed_reason,omitempty"`
}

// InterfaceRecord is the collected state of one interface. Several fields are loosely
// typed because parsers for different platforms disagree on numbers versus strings.
type InterfaceRecord struct {
	AdminMode     string          `json:"admin_mode"`
	Mode          string          `json:"mode"`
	TrunkingVLANs StringList      `json:"trunking_vlans"`
	AccessVLAN    any             `json:"access_vlan"`
	LinkStatus    any             `json:"link_status"`
	MACAddress    string          `json:"mac_address"`
	Description   string          `json:"description"`
	Dot1QMode     string          `json:"802.1Q_mode"`
	TaggedVLANs   []VLANRecord    `json:"tagged_vlans"`
	UntaggedVLAN  *VLANRecord     `json:"untagged_vlan"`
	IPAddresses   []IPRecord      `json:"ip_addresses"`
	VRF           *VRFRecord      `json:"vrf"`
	Neighbor      *NeighborRecord `json:"neighbor"`
}

// VLANRecord is a VLAN reference as emitted by post-processed collectors.
type VLANRecord struct {
	ID   any    `json:"id"`
	Name string `json:"name"`
}

// IPRecord is an address configured on an interface.
type IPRecord struct {
	IPAddress    string `json:"ip_address"`
	PrefixLength any    `json:"prefix_length"`
}

// VRFRecord is the routing instance an interface belongs to.
type VRFRecord struct {
	Name string `json:"name"`
	RD   string `json:"rd"`
}

// NeighborRecord is the discovery protocol neighbor seen on an interface.
type NeighborRecord struct {
	Hostname  string `json:"hostname"`
	Interface string `json:"interface"`
}

// StringList decodes either a single string or a list of values.
type StringList []string

// UnmarshalJSON implements json.Unmarshaler.
func (l *StringList) UnmarshalJSON(data []byte) error {
	var raw any
	if err := json.Unmarshal(data, &raw); err != nil {
		return fmt.Errorf("invalid string list: %w", err)
	}
	*l = utils.ToStringSlice(raw)
	return nil
}
