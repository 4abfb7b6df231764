package model

import "time"

// Vehicle is registered to exactly one resident. Numbers are stored
// upper-cased and are unique across the whole complex.
type Vehicle struct {
	ID            int64  `gorm:"primaryKey" json:"id"`
	ResidentID    int64  `gorm:"index;not null" json:"-"`
	VehicleNumber string `gorm:"uniqueIndex;size:32;not null" json:"vehicle_number"`
	CreatedAt     time.Time `json:"-"`

	// Associations
	Resident Resident `gorm:"constraint:OnDelete:CASCADE" json:"-"`
}
