// Package services defines the business logic for accounts, objects, and
// sensor data. This file centralizes common service-level error values so
// that they can be consistently returned by service methods and checked by
// callers.
//
// These errors are intended for internal use by the service layer; the
// handler layer translates them into user-facing messages and HTTP status
// codes.
package services

import "errors"

// Account-related errors.
var (
	// ErrEmailTaken indicates that a registration used an email that already
	// belongs to an account. Email matching is exact and case-sensitive.
	ErrEmailTaken = errors.New("email already registered")

	// ErrInvalidCredentials is returned for every failed login, whether the
	// email is unknown or the password is wrong, so callers cannot probe for
	// account existence.
	ErrInvalidCredentials = errors.New("invalid email or password")

	// ErrUserNotFound indicates that a token's subject no longer resolves to
	// an account (deleted user with a still-valid token).
	ErrUserNotFound = errors.New("user not found")
)

// Object-related errors.
var (
	// ErrSensorTaken indicates that the sensorId is already registered, by
	// this user or any other; sensor identifiers are globally unique and the
	// first registrant wins.
	ErrSensorTaken = errors.New("sensor already registered")

	// ErrObjectNotFound indicates that the requested object does not exist or
	// is not accessible to the current user.
	ErrObjectNotFound = errors.New("object not found")
)

// Data-related errors.
var (
	// ErrSensorNotOwned is returned when a caller submits data or configures
	// a threshold for a sensorId that does not resolve to one of their own
	// objects (unregistered or owned by someone else; callers cannot tell
	// which).
	ErrSensorNotOwned = errors.New("sensor not registered to this user")

	// ErrDuplicateReading is returned when a reading with the same
	// (sensorId, timestamp) pair is already stored.
	ErrDuplicateReading = errors.New("reading already recorded")

	// ErrNoReadings indicates that the sensor has no stored readings for the
	// current user.
	ErrNoReadings = errors.New("no readings for this sensor")

	// ErrAlertNotFound indicates that the requested alert does not exist or
	// is not accessible to the current user.
	ErrAlertNotFound = errors.New("alert not found")
)
