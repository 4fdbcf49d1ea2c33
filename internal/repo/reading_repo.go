// Package repo implements the data persistence layer for domain entities,
// backed by GORM. This file provides repository functions for the Reading
// model (sensor observations).
//
// Readings are append-only: there is no update or delete. The unique index
// on (sensor_id, timestamp) rejects resubmissions of the same observation
// even when two writers pass the duplicate pre-check at the same time.
package repo

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/nbelhaj/go-iot-backend/internal/domain"
)

// CreateReading inserts a new Reading row owned by userID. The reading ID is
// a randomly generated UUID (string); Timestamp is stored verbatim as the
// caller supplied it and CreatedAt records the insertion time in UTC.
func CreateReading(ctx context.Context, db *gorm.DB, userID, sensorID string, value float64, timestamp string) (*domain.Reading, error) {
	r := &domain.Reading{
		ID:        uuid.NewString(),
		SensorID:  sensorID,
		Value:     value,
		Timestamp: timestamp,
		UserID:    userID,
		CreatedAt: time.Now().UTC(),
	}
	if err := db.WithContext(ctx).Create(r).Error; err != nil {
		return nil, err
	}
	return r, nil
}

// GetReadingByKey fetches the reading identified by the natural key
// (sensorID, timestamp), regardless of owner. Returns ErrNotFound when no
// such reading exists. Used by the ingestion pipeline's duplicate check.
func GetReadingByKey(ctx context.Context, db *gorm.DB, sensorID, timestamp string) (*domain.Reading, error) {
	var r domain.Reading
	err := db.WithContext(ctx).
		Where("sensor_id = ? AND timestamp = ?", sensorID, timestamp).
		First(&r).Error
	if err != nil {
		return nil, err
	}
	return &r, nil
}

// ListReadings returns readings for sensorID owned by userID, oldest first.
// limit <= 0 returns all rows. It returns an empty slice when the owner has
// no readings for that sensor.
func ListReadings(ctx context.Context, db *gorm.DB, userID, sensorID string, limit int) ([]domain.Reading, error) {
	q := db.WithContext(ctx).
		Where("sensor_id = ? AND user_id = ?", sensorID, userID).
		Order("created_at asc, id asc")
	if limit > 0 {
		q = q.Limit(limit)
	}
	var out []domain.Reading
	err := q.Find(&out).Error
	return out, err
}

// LatestReading returns the most recently stored reading for sensorID owned
// by userID, or ErrNotFound when there is none.
func LatestReading(ctx context.Context, db *gorm.DB, userID, sensorID string) (*domain.Reading, error) {
	var r domain.Reading
	err := db.WithContext(ctx).
		Where("sensor_id = ? AND user_id = ?", sensorID, userID).
		Order("created_at desc, id desc").
		First(&r).Error
	if err != nil {
		return nil, err
	}
	return &r, nil
}

// CountReadings returns the number of stored readings for sensorID owned by
// userID.
func CountReadings(ctx context.Context, db *gorm.DB, userID, sensorID string) (int64, error) {
	var total int64
	err := db.WithContext(ctx).
		Model(&domain.Reading{}).
		Where("sensor_id = ? AND user_id = ?", sensorID, userID).
		Count(&total).Error
	return total, err
}
