package repo

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"
	"testing"
	"time"

	sqlite "github.com/glebarez/sqlite" // pure-Go SQLite
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/nbelhaj/go-iot-backend/internal/domain"
)

func newObjectRepoDB(t *testing.T, migrate ...any) *gorm.DB {
	t.Helper()

	dsn := filepath.Join(t.TempDir(), fmt.Sprintf("object_repo_test_%d.db", time.Now().UnixNano()))
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			_ = sqlDB.Close()
		}
	})

	if len(migrate) > 0 {
		if err := db.AutoMigrate(migrate...); err != nil {
			t.Fatalf("automigrate: %v", err)
		}
	}
	return db
}

func TestCreateObject_Success(t *testing.T) {
	db := newObjectRepoDB(t, &domain.Object{})

	o, err := CreateObject(context.Background(), db, "u1", "Capteur salon", "temperature", "Salon", "s1")
	if err != nil {
		t.Fatalf("CreateObject: %v", err)
	}
	if o.ID == "" || o.SensorID != "s1" || o.UserID != "u1" || o.Name != "Capteur salon" {
		t.Fatalf("unexpected Object fields: %+v", o)
	}
}

func TestCreateObject_DuplicateSensor_EvenAcrossUsers(t *testing.T) {
	db := newObjectRepoDB(t, &domain.Object{})
	ctx := context.Background()

	if _, err := CreateObject(ctx, db, "u1", "a", "t", "l", "s1"); err != nil {
		t.Fatalf("first CreateObject: %v", err)
	}
	// SensorID uniqueness is global, not per owner.
	_, err := CreateObject(ctx, db, "u2", "b", "t", "l", "s1")
	if err == nil || !strings.Contains(strings.ToLower(err.Error()), "unique") {
		t.Fatalf("expected unique-constraint error, got %v", err)
	}
}

func TestListObjects_OwnerScoped_NewestFirst(t *testing.T) {
	db := newObjectRepoDB(t, &domain.Object{})
	ctx := context.Background()

	o1, _ := CreateObject(ctx, db, "u1", "a", "t", "l", "s1")
	// Force distinct created_at ordering.
	db.Model(o1).Update("created_at", time.Now().UTC().Add(-time.Hour))
	o2, _ := CreateObject(ctx, db, "u1", "b", "t", "l", "s2")
	_, _ = CreateObject(ctx, db, "u2", "c", "t", "l", "s3")

	out, err := ListObjects(ctx, db, "u1")
	if err != nil {
		t.Fatalf("ListObjects: %v", err)
	}
	if len(out) != 2 {
		t.Fatalf("expected 2 objects for u1, got %d", len(out))
	}
	if out[0].ID != o2.ID {
		t.Fatalf("expected newest first, got %+v", out)
	}
}

func TestGetObject_OwnerScoping(t *testing.T) {
	db := newObjectRepoDB(t, &domain.Object{})
	ctx := context.Background()

	o, _ := CreateObject(ctx, db, "u1", "a", "t", "l", "s1")

	if _, err := GetObject(ctx, db, o.ID, "u1"); err != nil {
		t.Fatalf("owner should see the object: %v", err)
	}
	// Foreign owner and missing id are both ErrNotFound.
	if _, err := GetObject(ctx, db, o.ID, "u2"); err != ErrNotFound {
		t.Fatalf("foreign owner: want ErrNotFound, got %v", err)
	}
	if _, err := GetObject(ctx, db, "missing", "u1"); err != ErrNotFound {
		t.Fatalf("missing id: want ErrNotFound, got %v", err)
	}
}

func TestGetObjectBySensor_IgnoresOwner(t *testing.T) {
	db := newObjectRepoDB(t, &domain.Object{})
	ctx := context.Background()

	o, _ := CreateObject(ctx, db, "u1", "a", "t", "l", "s1")

	got, err := GetObjectBySensor(ctx, db, "s1")
	if err != nil {
		t.Fatalf("GetObjectBySensor: %v", err)
	}
	if got.ID != o.ID || got.UserID != "u1" {
		t.Fatalf("unexpected object: %+v", got)
	}
	if _, err := GetObjectBySensor(ctx, db, "nope"); err != ErrNotFound {
		t.Fatalf("want ErrNotFound, got %v", err)
	}
}

func TestDeleteObject(t *testing.T) {
	db := newObjectRepoDB(t, &domain.Object{})
	ctx := context.Background()

	o, _ := CreateObject(ctx, db, "u1", "a", "t", "l", "s1")

	// Foreign owner cannot delete.
	if err := DeleteObject(ctx, db, o.ID, "u2"); err != ErrNotFound {
		t.Fatalf("foreign delete: want ErrNotFound, got %v", err)
	}
	if err := DeleteObject(ctx, db, o.ID, "u1"); err != nil {
		t.Fatalf("owner delete: %v", err)
	}
	// Second delete hits zero rows.
	if err := DeleteObject(ctx, db, o.ID, "u1"); err != ErrNotFound {
		t.Fatalf("double delete: want ErrNotFound, got %v", err)
	}
}
