package store

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"gorm.io/gorm"

	"apnagate-backend/internal/model"
)

// Sentinel errors surfaced by the store. Handlers map these onto HTTP codes.
var (
	// ErrNotFound means the referenced row does not exist (or is not
	// visible to the caller).
	ErrNotFound = errors.New("record not found")
	// ErrDuplicateKey means a unique constraint (flat number, phone
	// number, vehicle number) was violated.
	ErrDuplicateKey = errors.New("duplicate key")
)

// Store defines the interface for all database operations.
type Store interface {
	// Residents
	CreateResident(ctx context.Context, resident *model.Resident, vehicleNumbers []string) error
	ResidentByFlat(ctx context.Context, flatNumber string) (*model.Resident, error)
	UpdatePassword(ctx context.Context, flatNumber, hashedPassword string) error
	UpdateFCMToken(ctx context.Context, flatNumber, token string) error
	SetProfileImage(ctx context.Context, flatNumber string, imageURL *string) error

	// Vehicles
	VehiclesByResident(ctx context.Context, residentID int64) ([]model.Vehicle, error)
	AddVehicle(ctx context.Context, residentID int64, vehicleNumber string) (*model.Vehicle, error)
	DeleteVehicle(ctx context.Context, residentID, vehicleID int64) (bool, error)
	VehicleOwner(ctx context.Context, vehicleNumber string) (*VehicleOwner, error)

	// Visitor logs
	CreateVisitorLog(ctx context.Context, entry *model.VisitorLog) error
	ApprovePin(ctx context.Context, pinCode, flatNumber string) (bool, error)
	PendingLogs(ctx context.Context, flatNumber string) ([]model.VisitorLog, error)
	MarkLogsRead(ctx context.Context, flatNumber string) error
	HistoryLogs(ctx context.Context, flatNumber string) ([]model.VisitorLog, error)

	// Browser push subscriptions
	UpsertPushSubscription(ctx context.Context, sub *model.PushSubscription) error
	DeletePushSubscription(ctx context.Context, endpoint string) error
	PushSubscriptionsByFlat(ctx context.Context, flatNumber string) ([]model.PushSubscription, error)
}

// gormStore implements the Store interface using GORM.
type gormStore struct {
	db *gorm.DB
}

// NewGormStore creates a new GORM-backed store.
func NewGormStore(db *gorm.DB) Store {
	return &gormStore{db: db}
}

// isDuplicate reports whether err is a unique-constraint violation. The
// message fallbacks cover drivers that predate gorm's error translation.
func isDuplicate(err error) bool {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "unique constraint") ||
		strings.Contains(msg, "duplicate key") ||
		strings.Contains(msg, "duplicate entry")
}

// CreateResident persists the resident and their vehicles in one
// transaction; either all rows commit or none do.
func (s *gormStore) CreateResident(ctx context.Context, resident *model.Resident, vehicleNumbers []string) error {
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(resident).Error; err != nil {
			return err
		}
		for _, number := range vehicleNumbers {
			vehicle := model.Vehicle{
				ResidentID:    resident.ID,
				VehicleNumber: strings.ToUpper(number),
			}
			if err := tx.Create(&vehicle).Error; err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		if isDuplicate(err) {
			return ErrDuplicateKey
		}
		return fmt.Errorf("create resident: %w", err)
	}
	return nil
}

func (s *gormStore) ResidentByFlat(ctx context.Context, flatNumber string) (*model.Resident, error) {
	var resident model.Resident
	err := s.db.WithContext(ctx).First(&resident, "flat_number = ?", flatNumber).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("fetch resident: %w", err)
	}
	return &resident, nil
}

func (s *gormStore) UpdatePassword(ctx context.Context, flatNumber, hashedPassword string) error {
	res := s.db.WithContext(ctx).Model(&model.Resident{}).
		Where("flat_number = ?", flatNumber).
		Update("password", hashedPassword)
	if res.Error != nil {
		return fmt.Errorf("update password: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *gormStore) UpdateFCMToken(ctx context.Context, flatNumber, token string) error {
	res := s.db.WithContext(ctx).Model(&model.Resident{}).
		Where("flat_number = ?", flatNumber).
		Update("fcm_token", token)
	if res.Error != nil {
		return fmt.Errorf("update fcm token: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *gormStore) SetProfileImage(ctx context.Context, flatNumber string, imageURL *string) error {
	res := s.db.WithContext(ctx).Model(&model.Resident{}).
		Where("flat_number = ?", flatNumber).
		Update("profile_image_url", imageURL)
	if res.Error != nil {
		return fmt.Errorf("set profile image: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *gormStore) VehiclesByResident(ctx context.Context, residentID int64) ([]model.Vehicle, error) {
	var vehicles []model.Vehicle
	err := s.db.WithContext(ctx).
		Where("resident_id = ?", residentID).
		Order("id").
		Find(&vehicles).Error
	if err != nil {
		return nil, fmt.Errorf("list vehicles: %w", err)
	}
	return vehicles, nil
}

func (s *gormStore) AddVehicle(ctx context.Context, residentID int64, vehicleNumber string) (*model.Vehicle, error) {
	vehicle := model.Vehicle{
		ResidentID:    residentID,
		VehicleNumber: strings.ToUpper(vehicleNumber),
	}
	if err := s.db.WithContext(ctx).Create(&vehicle).Error; err != nil {
		if isDuplicate(err) {
			return nil, ErrDuplicateKey
		}
		return nil, fmt.Errorf("add vehicle: %w", err)
	}
	return &vehicle, nil
}

// DeleteVehicle removes the vehicle only when it belongs to the given
// resident; the ownership check is part of the delete statement itself.
func (s *gormStore) DeleteVehicle(ctx context.Context, residentID, vehicleID int64) (bool, error) {
	res := s.db.WithContext(ctx).
		Where("id = ? AND resident_id = ?", vehicleID, residentID).
		Delete(&model.Vehicle{})
	if res.Error != nil {
		return false, fmt.Errorf("delete vehicle: %w", res.Error)
	}
	return res.RowsAffected > 0, nil
}

func (s *gormStore) VehicleOwner(ctx context.Context, vehicleNumber string) (*VehicleOwner, error) {
	var owner VehicleOwner
	err := s.db.WithContext(ctx).Model(&model.Vehicle{}).
		Select("vehicles.vehicle_number, residents.name, residents.flat_number").
		Joins("JOIN residents ON residents.id = vehicles.resident_id").
		Where("vehicles.vehicle_number = ?", strings.ToUpper(vehicleNumber)).
		Take(&owner).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("vehicle lookup: %w", err)
	}
	return &owner, nil
}

func (s *gormStore) CreateVisitorLog(ctx context.Context, entry *model.VisitorLog) error {
	if entry.Status == "" {
		entry.Status = model.StatusPending
	}
	if err := s.db.WithContext(ctx).Create(entry).Error; err != nil {
		return fmt.Errorf("create visitor log: %w", err)
	}
	return nil
}

// ApprovePin resolves the oldest PENDING entry matching (pin, flat). The
// transition is a conditional single-row update keyed on id and status, so
// two verifiers racing on the same entry cannot both be granted.
func (s *gormStore) ApprovePin(ctx context.Context, pinCode, flatNumber string) (bool, error) {
	var entry model.VisitorLog
	err := s.db.WithContext(ctx).
		Where("pin_code = ? AND resident_flat_number = ? AND status = ?",
			pinCode, flatNumber, model.StatusPending).
		Order("entry_time ASC").
		First(&entry).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return false, nil
		}
		return false, fmt.Errorf("pin lookup: %w", err)
	}

	res := s.db.WithContext(ctx).Model(&model.VisitorLog{}).
		Where("id = ? AND status = ?", entry.ID, model.StatusPending).
		Update("status", model.StatusApproved)
	if res.Error != nil {
		return false, fmt.Errorf("approve pin: %w", res.Error)
	}
	// Zero rows means a concurrent verify resolved the entry first.
	return res.RowsAffected > 0, nil
}

func (s *gormStore) PendingLogs(ctx context.Context, flatNumber string) ([]model.VisitorLog, error) {
	var logs []model.VisitorLog
	err := s.db.WithContext(ctx).
		Where("resident_flat_number = ? AND status = ?", flatNumber, model.StatusPending).
		Order("entry_time DESC").
		Find(&logs).Error
	if err != nil {
		return nil, fmt.Errorf("list pending logs: %w", err)
	}
	return logs, nil
}

func (s *gormStore) MarkLogsRead(ctx context.Context, flatNumber string) error {
	err := s.db.WithContext(ctx).Model(&model.VisitorLog{}).
		Where("resident_flat_number = ? AND status = ?", flatNumber, model.StatusPending).
		Update("is_read", true).Error
	if err != nil {
		return fmt.Errorf("mark logs read: %w", err)
	}
	return nil
}

func (s *gormStore) HistoryLogs(ctx context.Context, flatNumber string) ([]model.VisitorLog, error) {
	var logs []model.VisitorLog
	err := s.db.WithContext(ctx).
		Where("resident_flat_number = ? AND status <> ?", flatNumber, model.StatusPending).
		Order("entry_time DESC").
		Find(&logs).Error
	if err != nil {
		return nil, fmt.Errorf("list history logs: %w", err)
	}
	return logs, nil
}

func (s *gormStore) UpsertPushSubscription(ctx context.Context, sub *model.PushSubscription) error {
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("endpoint = ?", sub.Endpoint).
			Delete(&model.PushSubscription{}).Error; err != nil {
			return err
		}
		return tx.Create(sub).Error
	})
	if err != nil {
		return fmt.Errorf("upsert push subscription: %w", err)
	}
	return nil
}

func (s *gormStore) DeletePushSubscription(ctx context.Context, endpoint string) error {
	err := s.db.WithContext(ctx).
		Where("endpoint = ?", endpoint).
		Delete(&model.PushSubscription{}).Error
	if err != nil {
		return fmt.Errorf("delete push subscription: %w", err)
	}
	return nil
}

func (s *gormStore) PushSubscriptionsByFlat(ctx context.Context, flatNumber string) ([]model.PushSubscription, error) {
	var subs []model.PushSubscription
	err := s.db.WithContext(ctx).
		Where("resident_flat_number = ?", flatNumber).
		Find(&subs).Error
	if err != nil {
		return nil, fmt.Errorf("list push subscriptions: %w", err)
	}
	return subs, nil
}
