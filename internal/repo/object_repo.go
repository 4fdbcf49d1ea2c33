// Package repo implements the data persistence layer for domain entities,
// backed by GORM. This file provides repository functions for the Object
// model (sensor registrations).
//
// Ownership filtering: every read or delete that takes a userID matches it in
// the WHERE clause, so a caller can never observe another owner's objects.
// GetObjectBySensor is the single exception; it resolves a sensorId to its
// registration regardless of owner so the service layer can distinguish
// "unregistered" from "registered to someone else" without leaking either to
// the end user.
package repo

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/nbelhaj/go-iot-backend/internal/domain"
)

// CreateObject inserts a new Object row owned by userID. The object ID is a
// randomly generated UUID (string), and CreatedAt is set to UTC. A duplicate
// sensorId surfaces as a unique-constraint violation from the store.
func CreateObject(ctx context.Context, db *gorm.DB, userID, name, typ, location, sensorID string) (*domain.Object, error) {
	o := &domain.Object{
		ID:        uuid.NewString(),
		Name:      name,
		Type:      typ,
		Location:  location,
		SensorID:  sensorID,
		UserID:    userID,
		CreatedAt: time.Now().UTC(),
	}
	if err := db.WithContext(ctx).Create(o).Error; err != nil {
		return nil, err
	}
	return o, nil
}

// ListObjects returns all objects belonging to userID, ordered by creation
// time descending (most recent first). It returns an empty slice if the user
// has none.
func ListObjects(ctx context.Context, db *gorm.DB, userID string) ([]domain.Object, error) {
	var out []domain.Object
	err := db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at desc").
		Find(&out).Error
	return out, err
}

// GetObject fetches a single object by its ID and owner (userID). If the
// record does not exist or belongs to another owner, it returns ErrNotFound;
// the two cases are indistinguishable to the caller.
func GetObject(ctx context.Context, db *gorm.DB, id, userID string) (*domain.Object, error) {
	var o domain.Object
	err := db.WithContext(ctx).
		Where("id = ? AND user_id = ?", id, userID).
		First(&o).Error
	if err != nil {
		return nil, err
	}
	return &o, nil
}

// GetObjectBySensor fetches the registration for sensorID, whoever owns it.
// Returns ErrNotFound when the sensor was never registered.
func GetObjectBySensor(ctx context.Context, db *gorm.DB, sensorID string) (*domain.Object, error) {
	var o domain.Object
	err := db.WithContext(ctx).
		Where("sensor_id = ?", sensorID).
		First(&o).Error
	if err != nil {
		return nil, err
	}
	return &o, nil
}

// DeleteObject removes the object identified by id and owned by userID.
// If no rows are affected (object missing or not owned by userID), it
// returns ErrNotFound.
func DeleteObject(ctx context.Context, db *gorm.DB, id, userID string) error {
	res := db.WithContext(ctx).
		Where("id = ? AND user_id = ?", id, userID).
		Delete(&domain.Object{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
