package inventory

import (
	"context"
	"fmt"
	"slices"

	"netsync/feature/network/models"

	"gorm.io/gorm"
)

// Scope selects the stored devices a run compares against.
type Scope struct {
	// Location limits devices and managed VLANs.
	Location string
	// Role further limits devices when set.
	Role string
	// Namespace limits managed VRFs.
	Namespace string
	// Devices, when set, replaces the location and role filter with explicit identities.
	Devices []models.DeviceKey

	SyncVLANs  bool
	SyncVRFs   bool
	SyncCables bool
}

// LoadGraph projects the stored inventory in scope into a graph. Fields of disabled
// entity kinds are left zero so they compare equal to a source that does not report them.
func (s *Store) LoadGraph(ctx context.Context, scope Scope) (*models.Graph, error) {
	db := s.db.WithContext(ctx)
	g := models.NewGraph()

	devices, err := s.loadDevices(db, scope)
	if err != nil {
		return nil, err
	}
	deviceKeys := make(map[uint]models.DeviceKey, len(devices))
	deviceIDs := make([]uint, 0, len(devices))
	for _, d := range devices {
		key := models.DeviceKey{Name: d.Name, Serial: d.Serial}
		deviceKeys[d.ID] = key
		deviceIDs = append(deviceIDs, d.ID)
		g.AddDevice(models.Device{
			Key:       key,
			Vendor:    d.Vendor,
			Model:     d.Model,
			Platform:  d.Platform,
			PrimaryIP: d.PrimaryIP,
			Role:      d.Role,
			Status:    d.Status,
			Location:  d.Location,
		})
	}
	if len(deviceIDs) == 0 {
		shared := newSharedIndex()
		if err := s.loadSharedInto(db, g, shared, scope, nil, nil); err != nil {
			return nil, err
		}
		return g, s.holdForeignRefs(db, g, shared, nil)
	}

	var interfaces []InterfaceRecord
	if err := db.Where("device_id IN ?", deviceIDs).Find(&interfaces).Error; err != nil {
		return nil, fmt.Errorf("failed to load interfaces: %w", err)
	}
	interfaceIDs := make([]uint, 0, len(interfaces))
	var vlanRefs, vrfRefs []uint
	for _, i := range interfaces {
		interfaceIDs = append(interfaceIDs, i.ID)
		if i.UntaggedVLANID != nil {
			vlanRefs = append(vlanRefs, *i.UntaggedVLANID)
		}
		if i.VRFID != nil {
			vrfRefs = append(vrfRefs, *i.VRFID)
		}
	}

	var tagged []InterfaceTaggedVLAN
	if scope.SyncVLANs && len(interfaceIDs) > 0 {
		if err := db.Where("interface_id IN ?", interfaceIDs).Find(&tagged).Error; err != nil {
			return nil, fmt.Errorf("failed to load tagged vlans: %w", err)
		}
		for _, t := range tagged {
			vlanRefs = append(vlanRefs, t.VLANID)
		}
	}

	shared := newSharedIndex()
	if err := s.loadSharedInto(db, g, shared, scope, vlanRefs, vrfRefs); err != nil {
		return nil, err
	}
	if err := s.holdForeignRefs(db, g, shared, deviceIDs); err != nil {
		return nil, err
	}

	interfaceKeys := make(map[uint]models.InterfaceKey, len(interfaces))
	for _, i := range interfaces {
		key := models.InterfaceKey{Device: deviceKeys[i.DeviceID], Name: i.Name}
		interfaceKeys[i.ID] = key
		iface := models.Interface{
			Key:         key,
			Enabled:     i.Enabled,
			Description: i.Description,
			MACAddress:  i.MACAddress,
			Mode:        models.InterfaceMode(i.Mode),
			Status:      i.Status,
		}
		if scope.SyncVLANs && i.UntaggedVLANID != nil {
			iface.UntaggedVLAN = shared.vlans[*i.UntaggedVLANID]
		}
		if scope.SyncVRFs && i.VRFID != nil {
			iface.VRF = shared.vrfs[*i.VRFID]
		}
		g.AddInterface(iface)
	}

	for _, t := range tagged {
		vlan, ok := shared.vlans[t.VLANID]
		if !ok {
			continue
		}
		g.AddTaggedVLAN(models.TaggedVLAN{Key: models.TaggedVLANKey{Interface: interfaceKeys[t.InterfaceID], VLAN: vlan}})
	}

	if len(interfaceIDs) == 0 {
		return g, nil
	}

	var addresses []IPAddressRecord
	if err := db.Where("interface_id IN ?", interfaceIDs).Find(&addresses).Error; err != nil {
		return nil, fmt.Errorf("failed to load ip addresses: %w", err)
	}
	for _, a := range addresses {
		g.AddIPAddress(models.IPAddress{
			Host:         a.Host,
			PrefixLength: a.PrefixLength,
			IPVersion:    a.IPVersion,
			Status:       a.Status,
			Namespace:    a.Namespace,
			Interface:    interfaceKeys[a.InterfaceID],
		})
	}

	if scope.SyncCables {
		var cables []CableRecord
		if err := db.Where("a_interface_id IN ? AND b_interface_id IN ?", interfaceIDs, interfaceIDs).Find(&cables).Error; err != nil {
			return nil, fmt.Errorf("failed to load cables: %w", err)
		}
		for _, c := range cables {
			g.AddCable(models.Cable{
				Key:    models.NewCableKey(interfaceKeys[c.AInterfaceID], interfaceKeys[c.BInterfaceID]),
				Status: c.Status,
			})
		}
	}

	return g, nil
}

func (s *Store) loadDevices(db *gorm.DB, scope Scope) ([]DeviceRecord, error) {
	var devices []DeviceRecord
	if len(scope.Devices) > 0 {
		names := make([]string, 0, len(scope.Devices))
		wanted := make(map[models.DeviceKey]struct{}, len(scope.Devices))
		for _, k := range scope.Devices {
			names = append(names, k.Name)
			wanted[k] = struct{}{}
		}
		var candidates []DeviceRecord
		if err := db.Where("name IN ?", names).Find(&candidates).Error; err != nil {
			return nil, fmt.Errorf("failed to load devices: %w", err)
		}
		for _, d := range candidates {
			if _, ok := wanted[models.DeviceKey{Name: d.Name, Serial: d.Serial}]; ok {
				devices = append(devices, d)
			}
		}
		return devices, nil
	}

	q := db.Where("location = ?", scope.Location)
	if scope.Role != "" {
		q = q.Where("role = ?", scope.Role)
	}
	if err := q.Find(&devices).Error; err != nil {
		return nil, fmt.Errorf("failed to load devices: %w", err)
	}
	return devices, nil
}

type sharedIndex struct {
	vlans map[uint]models.VLANKey
	vrfs  map[uint]models.VRFKey
}

func newSharedIndex() *sharedIndex {
	return &sharedIndex{
		vlans: make(map[uint]models.VLANKey),
		vrfs:  make(map[uint]models.VRFKey),
	}
}

// loadSharedInto adds the VLANs of the location and the VRFs of the namespace, plus any
// referenced by loaded interfaces from elsewhere.
func (s *Store) loadSharedInto(db *gorm.DB, g *models.Graph, idx *sharedIndex, scope Scope, vlanRefs, vrfRefs []uint) error {
	if scope.SyncVLANs {
		var vlans []VLANRecord
		q := db.Where("location = ?", scope.Location)
		if len(vlanRefs) > 0 {
			q = db.Where("location = ? OR id IN ?", scope.Location, vlanRefs)
		}
		if err := q.Find(&vlans).Error; err != nil {
			return fmt.Errorf("failed to load vlans: %w", err)
		}
		for _, v := range vlans {
			key := models.VLANKey{VID: v.VID, Name: v.Name, Location: v.Location}
			idx.vlans[v.ID] = key
			g.AddVLAN(models.VLAN{Key: key, Status: v.Status})
		}
	}

	if scope.SyncVRFs {
		var vrfs []VRFRecord
		q := db.Where("namespace = ?", scope.Namespace)
		if len(vrfRefs) > 0 {
			q = db.Where("namespace = ? OR id IN ?", scope.Namespace, vrfRefs)
		}
		if err := q.Find(&vrfs).Error; err != nil {
			return fmt.Errorf("failed to load vrfs: %w", err)
		}
		for _, v := range vrfs {
			key := models.VRFKey{Name: v.Name, Namespace: v.Namespace}
			idx.vrfs[v.ID] = key
			g.AddVRF(models.VRF{Key: key, RD: v.RD})
		}
	}

	return nil
}

// holdForeignRefs marks the loaded VLANs and VRFs that interfaces of devices outside
// deviceIDs still reference, so the run never deletes them from under those devices.
func (s *Store) holdForeignRefs(db *gorm.DB, g *models.Graph, shared *sharedIndex, deviceIDs []uint) error {
	outside := func(q *gorm.DB) *gorm.DB {
		if len(deviceIDs) == 0 {
			return q
		}
		return q.Where("device_id NOT IN ?", deviceIDs)
	}

	if len(shared.vlans) > 0 {
		ids := idsOf(shared.vlans)

		var untagged []uint
		q := outside(db.Model(&InterfaceRecord{}).Where("untagged_vlan_id IN ?", ids))
		if err := q.Pluck("untagged_vlan_id", &untagged).Error; err != nil {
			return fmt.Errorf("failed to load foreign vlan references: %w", err)
		}

		var tagged []uint
		q = db.Model(&InterfaceTaggedVLAN{}).Where("vlan_id IN ?", ids)
		if len(deviceIDs) > 0 {
			q = q.Where("interface_id NOT IN (?)", db.Model(&InterfaceRecord{}).Select("id").Where("device_id IN ?", deviceIDs))
		}
		if err := q.Pluck("vlan_id", &tagged).Error; err != nil {
			return fmt.Errorf("failed to load foreign tagged vlan references: %w", err)
		}

		for _, id := range append(untagged, tagged...) {
			g.HoldVLAN(shared.vlans[id])
		}
	}

	if len(shared.vrfs) > 0 {
		var refs []uint
		q := outside(db.Model(&InterfaceRecord{}).Where("vrf_id IN ?", idsOf(shared.vrfs)))
		if err := q.Pluck("vrf_id", &refs).Error; err != nil {
			return fmt.Errorf("failed to load foreign vrf references: %w", err)
		}
		for _, id := range refs {
			g.HoldVRF(shared.vrfs[id])
		}
	}

	return nil
}

func idsOf[K any](m map[uint]K) []uint {
	ids := make([]uint, 0, len(m))
	for id := range m {
		ids = append(ids, id)
	}
	slices.Sort(ids)
	return ids
}
