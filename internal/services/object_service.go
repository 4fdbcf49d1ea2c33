// Package services – ObjectService
//
// This file implements the ObjectService, which manages sensor registrations
// ("objects"). It enforces the global uniqueness of sensor identifiers and
// scopes every read and delete to the owning user.
package services

import (
	"context"
	"errors"
	"strings"

	"gorm.io/gorm"

	"github.com/nbelhaj/go-iot-backend/internal/domain"
	"github.com/nbelhaj/go-iot-backend/internal/repo"
)

// ObjectInput carries the fields of a new sensor registration. All fields
// are required; the handler layer validates presence before calling the
// service.
type ObjectInput struct {
	Name     string
	Type     string
	Location string
	SensorID string
}

// ObjectService provides registration, listing, retrieval, and deletion of
// objects. Ownership is immutable after creation.
type ObjectService struct {
	// DB is the GORM handle used for persistence.
	DB *gorm.DB
}

// NewObjectService constructs an ObjectService.
func NewObjectService(db *gorm.DB) *ObjectService {
	return &ObjectService{DB: db}
}

// Register creates an object owned by userID. The sensorId must be unused by
// anyone (global uniqueness, first registrant wins): a pre-check returns
// ErrSensorTaken on the fast path, and the unique index on sensor_id maps
// the concurrent-registration case to the same error.
func (s *ObjectService) Register(ctx context.Context, userID string, in ObjectInput) (*domain.Object, error) {
	sensorID := strings.TrimSpace(in.SensorID)

	if _, err := repo.GetObjectBySensor(ctx, s.DB, sensorID); err == nil {
		return nil, ErrSensorTaken
	} else if !errors.Is(err, repo.ErrNotFound) {
		return nil, err
	}

	o, err := repo.CreateObject(ctx, s.DB, userID, strings.TrimSpace(in.Name), strings.TrimSpace(in.Type), strings.TrimSpace(in.Location), sensorID)
	if err != nil {
		if isDuplicate(err) {
			return nil, ErrSensorTaken
		}
		return nil, err
	}
	return o, nil
}

// List returns all objects owned by userID, most recent first.
func (s *ObjectService) List(ctx context.Context, userID string) ([]domain.Object, error) {
	return repo.ListObjects(ctx, s.DB, userID)
}

// Get fetches one object scoped to userID. A missing object and an object
// owned by someone else both yield ErrObjectNotFound, so existence is never
// leaked across tenants.
func (s *ObjectService) Get(ctx context.Context, userID, objectID string) (*domain.Object, error) {
	o, err := repo.GetObject(ctx, s.DB, objectID, userID)
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return nil, ErrObjectNotFound
		}
		return nil, err
	}
	return o, nil
}

// Delete removes one object scoped to userID, with the same non-leaking
// ErrObjectNotFound policy as Get.
func (s *ObjectService) Delete(ctx context.Context, userID, objectID string) error {
	err := repo.DeleteObject(ctx, s.DB, objectID, userID)
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return ErrObjectNotFound
		}
		return err
	}
	return nil
}
