package inventory

import (
	"context"
	"fmt"

	"netsync/core/reconcile"
	"netsync/feature/network/models"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

var _ reconcile.Mutator = (*Store)(nil)

// Create inserts the desired entity of a create action.
func (s *Store) Create(ctx context.Context, a reconcile.Action) error {
	return s.apply(ctx, a, func(tx *gorm.DB) error {
		switch e := a.Desired.(type) {
		case models.Device:
			return tx.Create(&DeviceRecord{
				Name:      e.Key.Name,
				Serial:    e.Key.Serial,
				Vendor:    e.Vendor,
				Model:     e.Model,
				Platform:  e.Platform,
				PrimaryIP: e.PrimaryIP,
				Role:      e.Role,
				Status:    e.Status,
				Location:  e.Location,
			}).Error
		case models.VRF:
			return tx.Create(&VRFRecord{Name: e.Key.Name, Namespace: e.Key.Namespace, RD: e.RD}).Error
		case models.VLAN:
			return tx.Create(&VLANRecord{VID: e.Key.VID, Name: e.Key.Name, Location: e.Key.Location, Status: e.Status}).Error
		case models.Interface:
			devID, err := deviceID(tx, e.Key.Device)
			if err != nil {
				return err
			}
			untagged, err := optionalVLANID(tx, e.UntaggedVLAN)
			if err != nil {
				return err
			}
			vrf, err := optionalVRFID(tx, e.VRF)
			if err != nil {
				return err
			}
			return tx.Create(&InterfaceRecord{
				DeviceID:       devID,
				Name:           e.Key.Name,
				Enabled:        e.Enabled,
				Description:    e.Description,
				MACAddress:     e.MACAddress,
				Mode:           string(e.Mode),
				Status:         e.Status,
				UntaggedVLANID: untagged,
				VRFID:          vrf,
			}).Error
		case models.TaggedVLAN:
			ifaceID, err := interfaceID(tx, e.Key.Interface)
			if err != nil {
				return err
			}
			vID, err := vlanID(tx, e.Key.VLAN)
			if err != nil {
				return err
			}
			return tx.Create(&InterfaceTaggedVLAN{InterfaceID: ifaceID, VLANID: vID}).Error
		case models.IPAddress:
			ifaceID, err := interfaceID(tx, e.Interface)
			if err != nil {
				return err
			}
			return tx.Create(&IPAddressRecord{
				Host:         e.Host,
				PrefixLength: e.PrefixLength,
				IPVersion:    e.IPVersion,
				Status:       e.Status,
				Namespace:    e.Namespace,
				InterfaceID:  ifaceID,
			}).Error
		case models.Cable:
			aID, bID, err := cableEndpoints(tx, e.Key)
			if err != nil {
				return err
			}
			return tx.Create(&CableRecord{AInterfaceID: aID, BInterfaceID: bID, Status: e.Status}).Error
		}
		return unsupported(a)
	})
}

// Update writes only the changed fields of an update action.
func (s *Store) Update(ctx context.Context, a reconcile.Action) error {
	changed := make(map[string]bool, len(a.Changes))
	for _, c := range a.Changes {
		changed[c.Field] = true
	}

	return s.apply(ctx, a, func(tx *gorm.DB) error {
		switch e := a.Desired.(type) {
		case models.Device:
			id, err := deviceID(tx, e.Key)
			if err != nil {
				return err
			}
			return updates(tx, &DeviceRecord{}, id, pick(changed, map[string]any{
				"vendor":     e.Vendor,
				"model":      e.Model,
				"platform":   e.Platform,
				"primary_ip": e.PrimaryIP,
				"role":       e.Role,
				"status":     e.Status,
				"location":   e.Location,
			}))
		case models.VRF:
			id, err := vrfID(tx, e.Key)
			if err != nil {
				return err
			}
			return updates(tx, &VRFRecord{}, id, pick(changed, map[string]any{"rd": e.RD}))
		case models.VLAN:
			id, err := vlanID(tx, e.Key)
			if err != nil {
				return err
			}
			return updates(tx, &VLANRecord{}, id, pick(changed, map[string]any{"status": e.Status}))
		case models.Interface:
			id, err := interfaceID(tx, e.Key)
			if err != nil {
				return err
			}
			cols := pick(changed, map[string]any{
				"enabled":     e.Enabled,
				"description": e.Description,
				"mac_address": e.MACAddress,
				"mode":        string(e.Mode),
				"status":      e.Status,
			})
			if changed["untagged_vlan"] {
				if cols["untagged_vlan_id"], err = optionalVLANID(tx, e.UntaggedVLAN); err != nil {
					return err
				}
			}
			if changed["vrf"] {
				if cols["vrf_id"], err = optionalVRFID(tx, e.VRF); err != nil {
					return err
				}
			}
			return updates(tx, &InterfaceRecord{}, id, cols)
		case models.IPAddress:
			var rec IPAddressRecord
			if err := tx.Select("id").Where("host = ?", e.Host).First(&rec).Error; err != nil {
				if isNotFound(err) {
					return notFound("ip address", e.Host)
				}
				return fmt.Errorf("failed to look up ip address %s: %w", e.Host, err)
			}
			cols := pick(changed, map[string]any{
				"prefix_length": e.PrefixLength,
				"ip_version":    e.IPVersion,
				"status":        e.Status,
				"namespace":     e.Namespace,
			})
			if changed["interface"] {
				ifaceID, err := interfaceID(tx, e.Interface)
				if err != nil {
					return err
				}
				cols["interface_id"] = ifaceID
			}
			return updates(tx, &IPAddressRecord{}, rec.ID, cols)
		case models.Cable:
			aID, bID, err := cableEndpoints(tx, e.Key)
			if err != nil {
				return err
			}
			cols := pick(changed, map[string]any{"status": e.Status})
			if len(cols) == 0 {
				return nil
			}
			res := tx.Model(&CableRecord{}).Where("a_interface_id = ? AND b_interface_id = ?", aID, bID).Updates(cols)
			return rowsAffected(res, "cable", a.Key)
		case models.TaggedVLAN:
			return nil
		}
		return unsupported(a)
	})
}

// Delete removes the current entity of a delete action.
func (s *Store) Delete(ctx context.Context, a reconcile.Action) error {
	return s.apply(ctx, a, func(tx *gorm.DB) error {
		switch e := a.Current.(type) {
		case models.Device:
			id, err := deviceID(tx, e.Key)
			if err != nil {
				return err
			}
			return tx.Delete(&DeviceRecord{}, id).Error
		case models.VRF:
			id, err := vrfID(tx, e.Key)
			if err != nil {
				return err
			}
			return tx.Delete(&VRFRecord{}, id).Error
		case models.VLAN:
			id, err := vlanID(tx, e.Key)
			if err != nil {
				return err
			}
			return tx.Delete(&VLANRecord{}, id).Error
		case models.Interface:
			id, err := interfaceID(tx, e.Key)
			if err != nil {
				return err
			}
			return tx.Delete(&InterfaceRecord{}, id).Error
		case models.TaggedVLAN:
			ifaceID, err := interfaceID(tx, e.Key.Interface)
			if err != nil {
				return err
			}
			vID, err := vlanID(tx, e.Key.VLAN)
			if err != nil {
				return err
			}
			res := tx.Where("interface_id = ? AND vlan_id = ?", ifaceID, vID).Delete(&InterfaceTaggedVLAN{})
			return rowsAffected(res, "tagged vlan", a.Key)
		case models.IPAddress:
			res := tx.Where("host = ?", e.Host).Delete(&IPAddressRecord{})
			return rowsAffected(res, "ip address", a.Key)
		case models.Cable:
			aID, bID, err := cableEndpoints(tx, e.Key)
			if err != nil {
				return err
			}
			res := tx.Where("a_interface_id = ? AND b_interface_id = ?", aID, bID).Delete(&CableRecord{})
			return rowsAffected(res, "cable", a.Key)
		}
		return unsupported(a)
	})
}

// apply runs fn in its own transaction so a failed action never leaves partial writes.
func (s *Store) apply(ctx context.Context, a reconcile.Action, fn func(tx *gorm.DB) error) error {
	if err := s.db.WithContext(ctx).Transaction(fn); err != nil {
		return err
	}
	s.logger.Debug("Inventory action applied",
		zap.String("type", string(a.Type)),
		zap.String("kind", a.Kind),
		zap.String("key", a.Key),
		zap.Strings("fields", a.ChangedFields()),
	)
	return nil
}

func cableEndpoints(tx *gorm.DB, key models.CableKey) (uint, uint, error) {
	aID, err := interfaceID(tx, key.A)
	if err != nil {
		return 0, 0, err
	}
	bID, err := interfaceID(tx, key.B)
	if err != nil {
		return 0, 0, err
	}
	return aID, bID, nil
}

// pick keeps the columns whose field changed. Field and column names match.
func pick(changed map[string]bool, columns map[string]any) map[string]any {
	out := make(map[string]any, len(changed))
	for col, v := range columns {
		if changed[col] {
			out[col] = v
		}
	}
	return out
}

func updates(tx *gorm.DB, model any, id uint, cols map[string]any) error {
	if len(cols) == 0 {
		return nil
	}
	return tx.Model(model).Where("id = ?", id).Updates(cols).Error
}

func rowsAffected(res *gorm.DB, kind, key string) error {
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return notFound(kind, key)
	}
	return nil
}

func unsupported(a reconcile.Action) error {
	entity := a.Desired
	if entity == nil {
		entity = a.Current
	}
	return fmt.Errorf("unsupported entity %T for %s %s", entity, a.Type, a.Kind)
}
