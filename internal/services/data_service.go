// Package services – DataService
//
// This file implements the DataService, the ingestion pipeline and its
// surrounding query operations: submitting readings, configuring per-sensor
// thresholds, and listing or deleting the alerts that threshold breaches
// produce.
//
// The pipeline for a submitted reading is strictly sequential:
//
//  1. ownership check — the sensorId must resolve to an object owned by the
//     caller, so a duplicate check can never leak another tenant's data;
//  2. duplicate check — a reading with the same (sensorId, timestamp) is
//     rejected and nothing else happens for it;
//  3. persist — steps 1–3 run in one transaction; once the reading commits
//     it is never rolled back by anything that follows;
//  4. threshold evaluation — after commit, if a threshold exists for
//     (sensorId, owner) and the value is strictly greater than it, an alert
//     is created; a failure to persist the alert is logged and does not
//     undo or fail the reading.
package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/rs/zerolog/log"
	"gorm.io/gorm"

	"github.com/nbelhaj/go-iot-backend/internal/domain"
	"github.com/nbelhaj/go-iot-backend/internal/repo"
)

// DataService implements the use-cases around readings, thresholds, and
// alerts. It validates ownership before every mutation and persists through
// the repo package using the provided GORM handle.
type DataService struct {
	// DB is the database handle used for all data operations.
	// The handle may be a plain *gorm.DB or a transaction-bound handle.
	DB *gorm.DB
}

// NewDataService constructs a DataService.
func NewDataService(db *gorm.DB) *DataService {
	return &DataService{DB: db}
}

// SubmitReading runs the ingestion pipeline for one reading and reports
// whether an alert was created.
//
// Errors:
//   - ErrSensorNotOwned when sensorID is unregistered or registered to
//     another user (callers cannot tell which).
//   - ErrDuplicateReading when a reading with the same (sensorID, timestamp)
//     already exists, whether caught by the pre-check or by the unique index
//     at insert time.
//   - The underlying DB error for unexpected failures.
//
// The ownership check, duplicate check, and insert are atomic. Threshold
// evaluation runs after the transaction commits: the reading's durability is
// unconditional once the duplicate check passes, and alerts are never
// recomputed retroactively when a threshold changes later.
func (s *DataService) SubmitReading(ctx context.Context, userID, sensorID string, value float64, timestamp string) (*domain.Reading, bool, error) {
	var reading *domain.Reading

	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		// 1) The sensor must belong to the caller.
		obj, err := repo.GetObjectBySensor(ctx, tx, sensorID)
		if err != nil {
			if errors.Is(err, repo.ErrNotFound) {
				return ErrSensorNotOwned
			}
			return err
		}
		if obj.UserID != userID {
			return ErrSensorNotOwned
		}

		// 2) Reject resubmissions of the same observation.
		if _, err := repo.GetReadingByKey(ctx, tx, sensorID, timestamp); err == nil {
			return ErrDuplicateReading
		} else if !errors.Is(err, repo.ErrNotFound) {
			return err
		}

		// 3) Persist; the unique index covers the race two writers can win
		//    against the pre-check above.
		r, err := repo.CreateReading(ctx, tx, userID, sensorID, value, timestamp)
		if err != nil {
			if isDuplicate(err) {
				return ErrDuplicateReading
			}
			return err
		}
		reading = r
		return nil
	})
	if err != nil {
		return nil, false, err
	}

	created := s.evaluateThreshold(ctx, reading)
	return reading, created, nil
}

// evaluateThreshold creates an alert when reading.Value strictly exceeds the
// owner's threshold for the sensor. Values exactly at the threshold do not
// alert. Any failure here is logged and swallowed: the reading is already
// committed and must stay that way.
func (s *DataService) evaluateThreshold(ctx context.Context, reading *domain.Reading) bool {
	th, err := repo.GetThreshold(ctx, s.DB, reading.SensorID, reading.UserID)
	if err != nil {
		if !errors.Is(err, repo.ErrNotFound) {
			log.Error().Err(err).
				Str("capteur_id", reading.SensorID).
				Msg("threshold lookup failed; reading kept without alert evaluation")
		}
		return false
	}

	if reading.Value <= th.MaxValue {
		return false
	}

	msg := fmt.Sprintf("Valeur %g dépasse le seuil (%g)", reading.Value, th.MaxValue)
	if _, err := repo.CreateAlert(ctx, s.DB, reading.UserID, reading.SensorID, reading.Value, msg, reading.Timestamp); err != nil {
		log.Error().Err(err).
			Str("capteur_id", reading.SensorID).
			Msg("alert persist failed; reading kept")
		return false
	}
	return true
}

// SetThreshold inserts or replaces the caller's maximum-value threshold for
// sensorID. The caller must own a registered object with that sensorId;
// otherwise ErrSensorNotOwned is returned and nothing is written. The write
// itself is an atomic upsert keyed by (sensorID, userID).
func (s *DataService) SetThreshold(ctx context.Context, userID, sensorID string, maxValue float64) (*domain.Threshold, error) {
	obj, err := repo.GetObjectBySensor(ctx, s.DB, sensorID)
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return nil, ErrSensorNotOwned
		}
		return nil, err
	}
	if obj.UserID != userID {
		return nil, ErrSensorNotOwned
	}

	return repo.UpsertThreshold(ctx, s.DB, userID, sensorID, maxValue)
}

// GetThreshold returns the caller's threshold for sensorID, or (nil, nil)
// when none is configured; absence is a valid non-error state.
func (s *DataService) GetThreshold(ctx context.Context, userID, sensorID string) (*domain.Threshold, error) {
	th, err := repo.GetThreshold(ctx, s.DB, sensorID, userID)
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return th, nil
}

// ListReadings returns the caller's readings for sensorID, oldest first.
// limit <= 0 returns all. An empty result yields ErrNoReadings so the
// handler can answer 404 for sensors that have no data (or belong to
// someone else; the two are indistinguishable).
func (s *DataService) ListReadings(ctx context.Context, userID, sensorID string, limit int) ([]domain.Reading, error) {
	out, err := repo.ListReadings(ctx, s.DB, userID, sensorID, limit)
	if err != nil {
		return nil, err
	}
	if len(out) == 0 {
		return nil, ErrNoReadings
	}
	return out, nil
}

// LatestReading returns the caller's most recently stored reading for
// sensorID, or ErrNoReadings when there is none.
func (s *DataService) LatestReading(ctx context.Context, userID, sensorID string) (*domain.Reading, error) {
	r, err := repo.LatestReading(ctx, s.DB, userID, sensorID)
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return nil, ErrNoReadings
		}
		return nil, err
	}
	return r, nil
}

// ListAlerts returns all of the caller's alerts, newest first.
func (s *DataService) ListAlerts(ctx context.Context, userID string) ([]domain.Alert, error) {
	return repo.ListAlerts(ctx, s.DB, userID)
}

// DeleteAlert removes one alert scoped to userID. A missing alert and an
// alert owned by someone else both yield ErrAlertNotFound.
func (s *DataService) DeleteAlert(ctx context.Context, userID, alertID string) error {
	err := repo.DeleteAlert(ctx, s.DB, alertID, userID)
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return ErrAlertNotFound
		}
		return err
	}
	return nil
}

// isDuplicate attempts to detect unique-constraint violations across drivers
// that may not map to gorm.ErrDuplicatedKey.
func isDuplicate(err error) bool {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	// SQLite typically: "UNIQUE constraint failed"
	// Postgres typically: "duplicate key value violates unique constraint"
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "unique constraint") ||
		strings.Contains(msg, "duplicate key")
}
