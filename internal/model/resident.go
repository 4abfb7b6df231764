package model

import "time"

// Resident is an account holder for a single flat. The flat number doubles
// as the login identifier.
type Resident struct {
	ID              int64   `gorm:"primaryKey" json:"id"`
	Name            string  `gorm:"size:128;not null" json:"name"`
	PhoneNumber     string  `gorm:"uniqueIndex;size:20;not null" json:"phone_number"`
	FlatNumber      string  `gorm:"uniqueIndex;size:32;not null" json:"flat_number"`
	Password        string  `gorm:"size:128;not null" json:"-"`
	FCMToken        string  `gorm:"size:256" json:"-"`
	ProfileImageURL *string `gorm:"size:256" json:"profile_image_url"`
	CreatedAt       time.Time `json:"-"`
	UpdatedAt       time.Time `json:"-"`

	// Associations
	Vehicles []Vehicle `gorm:"foreignKey:ResidentID" json:"-"`
}
