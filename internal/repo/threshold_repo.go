// Package repo implements the data persistence layer for domain entities,
// backed by GORM. This file provides repository functions for the Threshold
// model.
package repo

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/nbelhaj/go-iot-backend/internal/domain"
)

// UpsertThreshold inserts or replaces the threshold keyed by
// (sensorID, userID). The operation is a single atomic ON CONFLICT DO UPDATE
// against the unique index, so the latest write wins with no history kept
// and no read-modify-write race.
func UpsertThreshold(ctx context.Context, db *gorm.DB, userID, sensorID string, maxValue float64) (*domain.Threshold, error) {
	now := time.Now().UTC()
	t := &domain.Threshold{
		ID:        uuid.NewString(),
		SensorID:  sensorID,
		MaxValue:  maxValue,
		UserID:    userID,
		CreatedAt: now,
		UpdatedAt: now,
	}
	err := db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns: []clause.Column{{Name: "sensor_id"}, {Name: "user_id"}},
			DoUpdates: clause.Assignments(map[string]interface{}{
				"max_value":  maxValue,
				"updated_at": now,
			}),
		}).
		Create(t).Error
	if err != nil {
		return nil, err
	}
	return t, nil
}

// GetThreshold fetches the threshold for (sensorID, userID). Returns
// ErrNotFound when none is configured; absence is a valid state and simply
// means no alerting for that sensor.
func GetThreshold(ctx context.Context, db *gorm.DB, sensorID, userID string) (*domain.Threshold, error) {
	var t domain.Threshold
	err := db.WithContext(ctx).
		Where("sensor_id = ? AND user_id = ?", sensorID, userID).
		First(&t).Error
	if err != nil {
		return nil, err
	}
	return &t, nil
}
