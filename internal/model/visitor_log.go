package model

import "time"

// Visitor log entry states. A failed verification does not transition the
// entry; it stays PENDING until a matching verification approves it.
const (
	StatusPending  = "PENDING"
	StatusApproved = "APPROVED"
)

// VisitorLog is one visitor admission attempt. Entries reference the
// resident by flat number, are created PENDING by PIN generation, and are
// never deleted once resolved.
type VisitorLog struct {
	ID                 int64     `gorm:"primaryKey" json:"id"`
	VisitorPhoneNumber string    `gorm:"size:20;not null" json:"visitor_phone_number"`
	ResidentFlatNumber string    `gorm:"index;size:32;not null" json:"resident_flat_number"`
	PinCode            string    `gorm:"size:4;not null" json:"pin_code"`
	Status             string    `gorm:"size:16;not null;default:PENDING" json:"status"`
	IsRead             bool      `gorm:"not null;default:false" json:"is_read"`
	EntryTime          time.Time `gorm:"autoCreateTime;index" json:"entry_time"`
}
