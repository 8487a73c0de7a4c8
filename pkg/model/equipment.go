package model

import "time"

type EquipmentStatus string

const (
	EquipmentOperational  EquipmentStatus = "operational"
	EquipmentNeedsService EquipmentStatus = "needs_service"
	EquipmentOutOfService EquipmentStatus = "out_of_service"
)

func (s EquipmentStatus) Valid() bool {
	switch s {
	case EquipmentOperational, EquipmentNeedsService, EquipmentOutOfService:
		return true
	}
	return false
}

// Equipment is installed aboard a yacht and serviced on a schedule.
type Equipment struct {
	Base
	YachtID        string          `gorm:"column:yacht_id;size:36;not null;index" json:"yachtId"`
	Name           string          `gorm:"column:name;size:200;not null" json:"name"`
	Category       string          `gorm:"column:category;size:64" json:"category,omitempty"`
	Manufacturer   string          `gorm:"column:manufacturer;size:200" json:"manufacturer,omitempty"`
	ModelName      string          `gorm:"column:model;size:200" json:"model,omitempty"`
	SerialNumber   string          `gorm:"column:serial_number;size:100" json:"serialNumber,omitempty"`
	InstalledAt    *time.Time      `gorm:"column:installed_at" json:"installedAt,omitempty"`
	LastServiceAt  *time.Time      `gorm:"column:last_service_at" json:"lastServiceAt,omitempty"`
	NextServiceDue *time.Time      `gorm:"column:next_service_due;index" json:"nextServiceDue,omitempty"`
	Status         EquipmentStatus `gorm:"column:status;size:16;not null;default:operational" json:"status"`
}

func (Equipment) TableName() string {
	return "equipment"
}

// ServiceDueBy reports whether service is due on or before t.
func (e *Equipment) ServiceDueBy(t time.Time) bool {
	return e.NextServiceDue != nil && !e.NextServiceDue.After(t)
}
