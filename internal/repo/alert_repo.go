// Package repo implements the data persistence layer for domain entities,
// backed by GORM. This file provides repository functions for the Alert
// model.
package repo

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/nbelhaj/go-iot-backend/internal/domain"
)

// CreateAlert inserts a new Alert row owned by userID. The alert carries the
// triggering reading's value and timestamp plus a human-readable message.
func CreateAlert(ctx context.Context, db *gorm.DB, userID, sensorID string, value float64, message, timestamp string) (*domain.Alert, error) {
	a := &domain.Alert{
		ID:        uuid.NewString(),
		SensorID:  sensorID,
		Value:     value,
		Message:   message,
		Timestamp: timestamp,
		UserID:    userID,
		CreatedAt: time.Now().UTC(),
	}
	if err := db.WithContext(ctx).Create(a).Error; err != nil {
		return nil, err
	}
	return a, nil
}

// ListAlerts returns all alerts belonging to userID, newest first. It
// returns an empty slice if the user has none.
func ListAlerts(ctx context.Context, db *gorm.DB, userID string) ([]domain.Alert, error) {
	var out []domain.Alert
	err := db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at desc").
		Find(&out).Error
	return out, err
}

// DeleteAlert removes the alert identified by id and owned by userID. If no
// rows are affected (alert missing or not owned by userID), it returns
// ErrNotFound; the two cases are indistinguishable to the caller.
func DeleteAlert(ctx context.Context, db *gorm.DB, id, userID string) error {
	res := db.WithContext(ctx).
		Where("id = ? AND user_id = ?", id, userID).
		Delete(&domain.Alert{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
