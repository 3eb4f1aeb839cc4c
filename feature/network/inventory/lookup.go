package inventory

import (
	"fmt"

	"netsync/feature/network/models"

	"gorm.io/gorm"
)

// The lookups resolve natural keys to surrogate ids inside the action's transaction.

func deviceID(tx *gorm.DB, key models.DeviceKey) (uint, error) {
	var rec DeviceRecord
	err := tx.Select("id").Where("name = ? AND serial = ?", key.Name, key.Serial).First(&rec).Error
	if err != nil {
		if isNotFound(err) {
			return 0, notFound("device", key.String())
		}
		return 0, fmt.Errorf("failed to look up device %s: %w", key, err)
	}
	return rec.ID, nil
}

func interfaceID(tx *gorm.DB, key models.InterfaceKey) (uint, error) {
	devID, err := deviceID(tx, key.Device)
	if err != nil {
		return 0, err
	}
	var rec InterfaceRecord
	err = tx.Select("id").Where("device_id = ? AND name = ?", devID, key.Name).First(&rec).Error
	if err != nil {
		if isNotFound(err) {
			return 0, notFound("interface", key.String())
		}
		return 0, fmt.Errorf("failed to look up interface %s: %w", key, err)
	}
	return rec.ID, nil
}

func vlanID(tx *gorm.DB, key models.VLANKey) (uint, error) {
	var rec VLANRecord
	err := tx.Select("id").Where("vid = ? AND name = ? AND location = ?", key.VID, key.Name, key.Location).First(&rec).Error
	if err != nil {
		if isNotFound(err) {
			return 0, notFound("vlan", key.String())
		}
		return 0, fmt.Errorf("failed to look up vlan %s: %w", key, err)
	}
	return rec.ID, nil
}

func vrfID(tx *gorm.DB, key models.VRFKey) (uint, error) {
	var rec VRFRecord
	err := tx.Select("id").Where("name = ? AND namespace = ?", key.Name, key.Namespace).First(&rec).Error
	if err != nil {
		if isNotFound(err) {
			return 0, notFound("vrf", key.String())
		}
		return 0, fmt.Errorf("failed to look up vrf %s: %w", key, err)
	}
	return rec.ID, nil
}

// optionalVLANID returns nil for an unset VLAN reference.
func optionalVLANID(tx *gorm.DB, key models.VLANKey) (*uint, error) {
	if key.IsZero() {
		return nil, nil
	}
	id, err := vlanID(tx, key)
	if err != nil {
		return nil, err
	}
	return &id, nil
}

// optionalVRFID returns nil for an unset VRF reference.
func optionalVRFID(tx *gorm.DB, key models.VRFKey) (*uint, error) {
	if key.IsZero() {
		return nil, nil
	}
	id, err := vrfID(tx, key)
	if err != nil {
		return nil, err
	}
	return &id, nil
}
