// Package domain defines the persistence models for users, objects (sensor
// registrations), readings, thresholds, and alerts. These types are mapped
// with GORM and form the core data layer of the IoT platform.
//
// JSON field names keep the external (French) API vocabulary of the platform
// (capteurId, valeur, seuil_max, …) while Go identifiers stay idiomatic.
package domain

import "time"

// User is a registered account. Email is unique (exact, case-sensitive match)
// and enforced by a unique index at the store level; the bcrypt password hash
// is never serialized.
type User struct {
	ID           string    `json:"id"       gorm:"type:char(36);primaryKey"`
	Email        string    `json:"email"    gorm:"type:varchar(255);not null;uniqueIndex:ux_users_email"`
	Username     string    `json:"username" gorm:"type:varchar(64);not null"`
	PasswordHash string    `json:"-"        gorm:"type:varchar(128);not null"`
	CreatedAt    time.Time `json:"created_at"`
}

// TableName returns the database table name for User.
func (User) TableName() string { return "users" }

// Object binds a sensor identifier to its metadata and owning user.
//
// SensorID is globally unique across all users (first registrant wins); the
// unique index backs the check-then-insert performed at registration so that
// concurrent registrations cannot both commit. Ownership is immutable after
// creation.
type Object struct {
	ID        string    `json:"id"             gorm:"type:char(36);primaryKey"`
	Name      string    `json:"nom"            gorm:"type:varchar(255);not null"`
	Type      string    `json:"type"           gorm:"type:varchar(64);not null"`
	Location  string    `json:"emplacement"    gorm:"type:varchar(255);not null"`
	SensorID  string    `json:"capteurId"      gorm:"type:varchar(64);not null;uniqueIndex:ux_objects_sensor"`
	UserID    string    `json:"utilisateur_id" gorm:"type:char(36);not null;index:idx_objects_user"`
	CreatedAt time.Time `json:"created_at"`
}

// TableName returns the database table name for Object.
func (Object) TableName() string { return "objects" }

// Reading is one timestamped numeric observation from a sensor. The
// (sensor_id, timestamp) pair is unique: a resubmission of the same
// observation is rejected, backed by the unique index. Rows are immutable
// once stored; no update or delete is exposed.
//
// Timestamp is the caller-supplied observation time, kept verbatim as a
// string; CreatedAt records when the row was persisted.
type Reading struct {
	ID        string    `json:"id"             gorm:"type:char(36);primaryKey"`
	SensorID  string    `json:"capteurId"      gorm:"type:varchar(64);not null;uniqueIndex:ux_readings_sensor_ts,priority:1"`
	Value     float64   `json:"valeur"         gorm:"not null"`
	Timestamp string    `json:"timestamp"      gorm:"type:varchar(64);not null;uniqueIndex:ux_readings_sensor_ts,priority:2"`
	UserID    string    `json:"utilisateur_id" gorm:"type:char(36);not null;index:idx_readings_user"`
	CreatedAt time.Time `json:"created_at"`
}

// TableName returns the database table name for Reading.
func (Reading) TableName() string { return "readings" }

// Threshold is the owner-configured maximum value for a sensor. At most one
// row exists per (sensor_id, user_id); writes use upsert semantics (latest
// wins, no history).
type Threshold struct {
	ID        string    `json:"id"             gorm:"type:char(36);primaryKey"`
	SensorID  string    `json:"capteurId"      gorm:"type:varchar(64);not null;uniqueIndex:ux_thresholds_sensor_user,priority:1"`
	MaxValue  float64   `json:"seuil_max"      gorm:"not null"`
	UserID    string    `json:"utilisateur_id" gorm:"type:char(36);not null;uniqueIndex:ux_thresholds_sensor_user,priority:2"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// TableName returns the database table name for Threshold.
func (Threshold) TableName() string { return "thresholds" }

// Alert records that a reading exceeded its threshold at ingestion time.
// Alerts are never recomputed when a threshold changes later; they carry the
// triggering reading's timestamp and are deletable individually by the owner.
type Alert struct {
	ID        string    `json:"id"             gorm:"type:char(36);primaryKey"`
	SensorID  string    `json:"capteurId"      gorm:"type:varchar(64);not null;index:idx_alerts_sensor"`
	Value     float64   `json:"valeur"         gorm:"not null"`
	Message   string    `json:"message"        gorm:"type:text;not null"`
	Timestamp string    `json:"timestamp"      gorm:"type:varchar(64);not null"`
	UserID    string    `json:"utilisateur_id" gorm:"type:char(36);not null;index:idx_alerts_user"`
	CreatedAt time.Time `json:"created_at"`
}

// TableName returns the database table name for Alert.
func (Alert) TableName() string { return "alerts" }
