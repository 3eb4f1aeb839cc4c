package source

import (
	"fmt"
	"slices"
	"strings"

	"netsync/feature/network/facts"
	"netsync/feature/network/models"

	"go.uber.org/zap"
)

// Normalizer converts collected facts into the typed inventory graph.
type Normalizer struct {
	params Params
	logger *zap.Logger
}

// NewNormalizer creates a normalizer for one run.
func NewNormalizer(params Params, logger *zap.Logger) *Normalizer {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Normalizer{params: params, logger: logger}
}

// pendingCable is a neighbor reference resolved once every device is in the graph.
type pendingCable struct {
	local        models.InterfaceKey
	remoteHost   string
	remoteIfName string
}

// Normalize builds the graph for every device in scope. Devices whose collection failed or
// whose facts cannot be normalized are excluded individually and reported in the outcomes;
// they never abort the others.
func (n *Normalizer) Normalize(collection facts.Collection) *Result {
	res := &Result{Graph: models.NewGraph()}

	keys := make([]string, 0, len(collection))
	for k := range collection {
		keys = append(keys, k)
	}
	slices.Sort(keys)

	scope := newAddressScope(n.params.Addresses)
	var pending []pendingCable

	for _, key := range keys {
		rec := collection[key]
		if !scope.match(key, rec) {
			continue
		}

		outcome := DeviceOutcome{Key: key, Device: models.DeviceKey{Name: rec.Hostname, Serial: rec.Serial}}
		if cause := collectionFailure(rec); cause != "" {
			outcome.Excluded, outcome.Stage, outcome.Cause = true, StageCollection, cause
			n.logger.Warn("Device excluded", zap.String("key", key), zap.String("stage", string(StageCollection)), zap.String("cause", cause))
			res.Outcomes = append(res.Outcomes, outcome)
			continue
		}

		fragment := models.NewGraph()
		cables, err := n.normalizeDevice(key, rec, fragment)
		if err != nil {
			outcome.Excluded, outcome.Stage, outcome.Cause = true, StageNormalization, err.Error()
			n.logger.Warn("Device excluded", zap.String("key", key), zap.String("stage", string(StageNormalization)), zap.Error(err))
			res.Outcomes = append(res.Outcomes, outcome)
			continue
		}

		res.Graph.Merge(fragment)
		pending = append(pending, cables...)
		res.Outcomes = append(res.Outcomes, outcome)
		n.logger.Debug("Device normalized",
			zap.String("key", key),
			zap.String("device", outcome.Device.String()),
			zap.Int("interfaces", len(fragment.Interfaces)),
			zap.Int("ip_addresses", len(fragment.IPAddresses)),
		)
	}

	for _, addr := range scope.unmatched() {
		res.Outcomes = append(res.Outcomes, DeviceOutcome{
			Key:      addr,
			Excluded: true,
			Stage:    StageCollection,
			Cause:    "no collection result",
		})
	}

	if n.params.SyncCables {
		n.resolveCables(res.Graph, pending)
	}

	return res
}

func collectionFailure(rec facts.Record) string {
	switch {
	case rec.Failed && rec.FailedReason != "":
		return rec.FailedReason
	case rec.Failed:
		return "collection failed"
	case strings.TrimSpace(rec.Hostname) == "":
		return "incomplete record: missing hostname"
	case strings.TrimSpace(rec.Serial) == "":
		return "incomplete record: missing serial"
	}
	return ""
}

func (n *Normalizer) normalizeDevice(key string, rec facts.Record, g *models.Graph) ([]pendingCable, error) {
	dk := models.DeviceKey{Name: strings.TrimSpace(rec.Hostname), Serial: strings.TrimSpace(rec.Serial)}

	platform := rec.Platform
	if n.params.Platform != "" {
		platform = n.params.Platform
	}
	primary := hostOf(rec.ManagementIP)
	if primary == "" {
		primary = hostOf(key)
	}

	g.AddDevice(models.Device{
		Key:       dk,
		Vendor:    rec.Vendor,
		Model:     rec.Model,
		Platform:  platform,
		PrimaryIP: primary,
		Role:      n.params.Role,
		Status:    n.params.DeviceStatus,
		Location:  n.params.Location,
	})

	names := make([]string, 0, len(rec.Interfaces))
	for name := range rec.Interfaces {
		names = append(names, name)
	}
	slices.Sort(names)

	var cables []pendingCable
	for _, name := range names {
		ik := models.InterfaceKey{Device: dk, Name: name}
		ir := rec.Interfaces[name]
		if err := n.normalizeInterface(ik, ir, g); err != nil {
			return nil, fmt.Errorf("interface %s: %w", name, err)
		}
		if n.params.SyncCables && ir.Neighbor != nil && ir.Neighbor.Hostname != "" && ir.Neighbor.Interface != "" {
			cables = append(cables, pendingCable{local: ik, remoteHost: ir.Neighbor.Hostname, remoteIfName: ir.Neighbor.Interface})
		}
	}
	return cables, nil
}

func (n *Normalizer) normalizeInterface(ik models.InterfaceKey, ir facts.InterfaceRecord, g *models.Graph) error {
	iface := models.Interface{
		Key:         ik,
		Enabled:     LinkEnabled(ir.LinkStatus),
		Description: ir.Description,
		MACAddress:  CanonicalMAC(ir.MACAddress),
		Mode:        interfaceMode(ir),
		Status:      n.params.InterfaceStatus,
	}

	if n.params.SyncVLANs {
		untagged, tagged, err := n.vlans(iface.Mode, ir)
		if err != nil {
			return err
		}
		if untagged != nil {
			g.AddVLAN(*untagged)
			iface.UntaggedVLAN = untagged.Key
		}
		for _, v := range tagged {
			g.AddVLAN(v)
			g.AddTaggedVLAN(models.TaggedVLAN{Key: models.TaggedVLANKey{Interface: ik, VLAN: v.Key}})
		}
	}

	if n.params.SyncVRFs && ir.VRF != nil && strings.TrimSpace(ir.VRF.Name) != "" {
		vrf := models.VRF{
			Key: models.VRFKey{Name: strings.TrimSpace(ir.VRF.Name), Namespace: n.params.Namespace},
			RD:  ir.VRF.RD,
		}
		g.AddVRF(vrf)
		iface.VRF = vrf.Key
	}

	g.AddInterface(iface)

	for _, ipr := range ir.IPAddresses {
		if strings.TrimSpace(ipr.IPAddress) == "" {
			continue
		}
		addr, err := ParseAddress(ipr.IPAddress, ipr.PrefixLength)
		if err != nil {
			return err
		}
		g.AddIPAddress(models.IPAddress{
			Host:         addr.Host,
			PrefixLength: addr.PrefixLength,
			IPVersion:    addr.Version,
			Status:       n.params.IPAddressStatus,
			Namespace:    n.params.Namespace,
			Interface:    ik,
		})
	}
	return nil
}

// interfaceMode prefers the configured admin mode, then the operational mode, and only
// then a mode the collector already derived.
func interfaceMode(ir facts.InterfaceRecord) models.InterfaceMode {
	trunking := []string(ir.TrunkingVLANs)
	if strings.TrimSpace(ir.AdminMode) != "" {
		return DeriveMode(ir.AdminMode, ir.Mode, trunking)
	}
	if strings.TrimSpace(ir.Mode) != "" {
		return deriveMode(ir.Mode, "", trunking, false)
	}
	if m := models.InterfaceMode(strings.ToLower(strings.TrimSpace(ir.Dot1QMode))); m.Valid() {
		return m
	}
	return models.ModeNone
}

// vlans returns the untagged VLAN and the tagged set of an interface. VLAN references the
// collector emitted explicitly win over the ones derived from the mode.
func (n *Normalizer) vlans(mode models.InterfaceMode, ir facts.InterfaceRecord) (*models.VLAN, []models.VLAN, error) {
	var untagged *models.VLAN
	var tagged []models.VLAN

	if ir.UntaggedVLAN != nil || len(ir.TaggedVLANs) > 0 {
		if ir.UntaggedVLAN != nil {
			v, err := n.vlan(ir.UntaggedVLAN.ID, ir.UntaggedVLAN.Name)
			if err != nil {
				return nil, nil, err
			}
			untagged = &v
		}
		for _, ref := range ir.TaggedVLANs {
			v, err := n.vlan(ref.ID, ref.Name)
			if err != nil {
				return nil, nil, err
			}
			tagged = append(tagged, v)
		}
		return untagged, tagged, nil
	}

	switch mode {
	case models.ModeAccess:
		if ir.AccessVLAN == nil || strings.TrimSpace(fmt.Sprint(ir.AccessVLAN)) == "" {
			return nil, nil, nil
		}
		v, err := n.vlan(ir.AccessVLAN, "")
		if err != nil {
			return nil, nil, err
		}
		untagged = &v
	case models.ModeTagged:
		ids, err := ExpandVLANs(ir.TrunkingVLANs)
		if err != nil {
			return nil, nil, err
		}
		for _, vid := range ids {
			tagged = append(tagged, n.vlanKey(vid, ""))
		}
	}
	return untagged, tagged, nil
}

func (n *Normalizer) vlan(id any, name string) (models.VLAN, error) {
	vid, err := VLANID(id)
	if err != nil {
		return models.VLAN{}, err
	}
	return n.vlanKey(vid, strings.TrimSpace(name)), nil
}

func (n *Normalizer) vlanKey(vid int, name string) models.VLAN {
	return models.VLAN{
		Key:    models.VLANKey{VID: vid, Name: name, Location: n.params.Location},
		Status: n.params.VLANStatus,
	}
}

// resolveCables adds a cable for every neighbor whose device and interface are both in
// the graph. Neighbors are matched by hostname, falling back to the short hostname.
func (n *Normalizer) resolveCables(g *models.Graph, pending []pendingCable) {
	for _, p := range pending {
		remote, ok := g.DeviceByName(p.remoteHost)
		if !ok {
			short, _, _ := strings.Cut(p.remoteHost, ".")
			remote, ok = g.DeviceByName(short)
		}
		if !ok {
			n.logger.Debug("Cable neighbor not in scope", zap.String("interface", p.local.String()), zap.String("neighbor", p.remoteHost))
			continue
		}
		rk := models.InterfaceKey{Device: remote, Name: p.remoteIfName}
		if _, ok := g.Interfaces[rk]; !ok {
			n.logger.Debug("Cable neighbor interface unknown", zap.String("interface", p.local.String()), zap.String("neighbor", rk.String()))
			continue
		}
		if rk == p.local {
			continue
		}
		g.AddCable(models.Cable{Key: models.NewCableKey(p.local, rk), Status: n.params.CableStatus})
	}
}

// addressScope filters the collection by the run's explicit device scope.
type addressScope struct {
	addresses []string
	matched   map[string]bool
}

func newAddressScope(addresses []string) *addressScope {
	s := &addressScope{matched: make(map[string]bool)}
	for _, a := range addresses {
		a = strings.TrimSpace(a)
		if a == "" {
			continue
		}
		if _, dup := s.matched[a]; dup {
			continue
		}
		s.addresses = append(s.addresses, a)
		s.matched[a] = false
	}
	return s
}

func (s *addressScope) match(key string, rec facts.Record) bool {
	if len(s.addresses) == 0 {
		return true
	}
	hit := false
	for _, candidate := range []string{key, rec.Hostname, hostOf(rec.ManagementIP)} {
		if _, ok := s.matched[candidate]; ok && candidate != "" {
			s.matched[candidate] = true
			hit = true
		}
	}
	return hit
}

func (s *addressScope) unmatched() []string {
	var out []string
	for _, a := range s.addresses {
		if !s.matched[a] {
			out = append(out, a)
		}
	}
	return out
}

// ParseAddressList splits a comma separated device scope, stripping whitespace.
func ParseAddressList(list string) []string {
	var out []string
	for _, part := range strings.Split(strings.ReplaceAll(list, " ", ""), ",") {
		if part != "" {
			out = append(out, part)
		}
	}
	return out
}
