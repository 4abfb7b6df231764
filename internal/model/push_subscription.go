package model

import "time"

// PushSubscription holds a browser push subscription registered by a
// resident using the web client.
type PushSubscription struct {
	Endpoint           string `gorm:"primaryKey"`
	ResidentFlatNumber string `gorm:"index;size:32;not null"`
	P256DH             string `gorm:"column:p256dh;not null"`
	Auth               string `gorm:"not null"`
	CreatedAt          time.Time `gorm:"not null"`
}
