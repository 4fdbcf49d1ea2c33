package services

import (
	"context"
	"fmt"
	"path/filepath"
	"testing"
	"time"

	sqlite "github.com/glebarez/sqlite" // pure-Go SQLite
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/nbelhaj/go-iot-backend/internal/auth"
	"github.com/nbelhaj/go-iot-backend/internal/domain"
	"github.com/nbelhaj/go-iot-backend/internal/repo"
)

// newServiceDB opens a temp SQLite database with the full schema migrated.
func newServiceDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := filepath.Join(t.TempDir(), fmt.Sprintf("services_test_%d.db", time.Now().UnixNano()))
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

	if err := repo.AutoMigrate(db); err != nil {
		t.Fatalf("automigrate: %v", err)
	}
	return db
}

// newTestHasher returns a hasher at minimum bcrypt cost to keep tests fast.
func newTestHasher() *auth.PasswordHasher {
	return auth.NewPasswordHasher(bcrypt.MinCost, 2)
}

// seedUser registers an account directly through the repo layer.
func seedUser(t *testing.T, db *gorm.DB, email string) *domain.User {
	t.Helper()
	hash, err := newTestHasher().Hash(context.Background(), "secret1")
	if err != nil {
		t.Fatalf("hash: %v", err)
	}
	u, err := repo.CreateUser(context.Background(), db, email, "tester", hash)
	if err != nil {
		t.Fatalf("seed user: %v", err)
	}
	return u
}

// seedObject registers a sensor for userID directly through the repo layer.
func seedObject(t *testing.T, db *gorm.DB, userID, sensorID string) *domain.Object {
	t.Helper()
	o, err := repo.CreateObject(context.Background(), db, userID, "Capteur", "temperature", "Salon", sensorID)
	if err != nil {
		t.Fatalf("seed object: %v", err)
	}
	return o
}
