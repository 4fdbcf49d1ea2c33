// Sensor data HTTP handlers.
//
// This file exposes REST endpoints for readings, thresholds, and alerts:
//   - POST   /data                    (submit a reading; may create an alert)
//   - POST   /data/seuil              (upsert the caller's threshold for a sensor)
//   - GET    /data/{capteurId}        (list the caller's readings)
//   - GET    /data/{capteurId}/latest (most recent reading)
//   - GET    /data/alertes/all        (list the caller's alerts, ETag support)
//   - DELETE /data/alertes/{id}       (delete one alert)
//
// Handlers are transport-thin: they validate input, call application services,
// and translate domain/service errors into HTTP results. Duplicate readings
// answer 400 with the "conflict" code; submitting for a sensor the caller
// does not own answers 403.
package handlers

import (
	"context"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/nbelhaj/go-iot-backend/internal/domain"
	"github.com/nbelhaj/go-iot-backend/internal/repo"
	"github.com/nbelhaj/go-iot-backend/internal/services"
	"github.com/nbelhaj/go-iot-backend/internal/utils"
)

// DataService defines the reading/threshold/alert operations consumed by
// HTTP handlers.
//
// Implementations should be safe for concurrent use and must honor the
// provided context for cancellation and timeouts.
type DataService interface {
	// SubmitReading runs the ingestion pipeline and reports whether an alert
	// was created.
	SubmitReading(ctx context.Context, userID, sensorID string, value float64, timestamp string) (*domain.Reading, bool, error)
	// SetThreshold upserts the caller's maximum-value threshold for a sensor.
	SetThreshold(ctx context.Context, userID, sensorID string, maxValue float64) (*domain.Threshold, error)
	// ListReadings returns the caller's readings for a sensor, oldest first.
	ListReadings(ctx context.Context, userID, sensorID string, limit int) ([]domain.Reading, error)
	// LatestReading returns the caller's most recent reading for a sensor.
	LatestReading(ctx context.Context, userID, sensorID string) (*domain.Reading, error)
	// ListAlerts returns the caller's alerts, newest first.
	ListAlerts(ctx context.Context, userID string) ([]domain.Alert, error)
	// DeleteAlert removes one alert scoped to the caller.
	DeleteAlert(ctx context.Context, userID, alertID string) error
}

//
// DTOs
//

// SubmitReadingRequest is the JSON payload for submitting a reading.
// Valeur is a pointer so that a literal 0 passes the required binding.
type SubmitReadingRequest struct {
	SensorID  string   `json:"capteurId" binding:"required" example:"s1"`
	Value     *float64 `json:"valeur"    binding:"required" example:"21.5"`
	Timestamp string   `json:"timestamp" binding:"required" example:"2024-05-01T12:00:00Z"`
}

// SubmitReadingResponse reports the outcome of an ingestion, including
// whether the reading tripped its threshold.
type SubmitReadingResponse struct {
	Status       string `json:"status" example:"Donnée enregistrée avec succès"`
	AlertCreated bool   `json:"alerte_creee"`
}

// SetThresholdRequest is the JSON payload for configuring a threshold.
// SeuilMax is a pointer so that a literal 0 passes the required binding.
type SetThresholdRequest struct {
	SensorID string   `json:"capteurId" binding:"required" example:"s1"`
	SeuilMax *float64 `json:"seuil_max" binding:"required" example:"5"`
}

// SetThresholdResponse confirms a threshold write.
type SetThresholdResponse struct {
	Status    string           `json:"status" example:"Seuil mis à jour"`
	Threshold domain.Threshold `json:"seuil"`
}

//
// Handlers
//

// SubmitReading godoc
// @ID          submitReading
// @Summary     Submit a sensor reading
// @Description Ingests one timestamped reading. The caller must own the sensor; a (capteurId, timestamp) pair can only be stored once. When the value strictly exceeds the configured threshold an alert is created.
// @Tags        Données
// @Accept      json
// @Produce     json
// @Security    BearerAuth
//
// @Param       body  body  handlers.SubmitReadingRequest  true  "Reading payload"
//
// @Success     201  {object}  handlers.SubmitReadingResponse
// @Failure     400  {object}  handlers.ErrorResponse  "Invalid payload or duplicate reading"
// @Failure     401  {object}  handlers.ErrorResponse  "Missing or invalid token"
// @Failure     403  {object}  handlers.ErrorResponse  "Sensor not owned by caller"
// @Failure     500  {object}  handlers.ErrorResponse  "Internal error"
// @Router      /data [post]
func (h *Handlers) SubmitReading(c *gin.Context) {
	uid, authed := requireUser(c)
	if !authed {
		return
	}

	var req SubmitReadingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "capteurId, valeur et timestamp requis")
		return
	}

	_, alertCreated, err := h.dataSvc.SubmitReading(c.Request.Context(), uid, req.SensorID, *req.Value, req.Timestamp)
	if err != nil {
		switch err {
		case services.ErrSensorNotOwned:
			fail(c, http.StatusForbidden, ErrCodeForbidden, "Capteur non autorisé pour cet utilisateur")
		case services.ErrDuplicateReading:
			fail(c, http.StatusBadRequest, ErrCodeConflict, "Donnée déjà enregistrée")
		default:
			fail(c, http.StatusInternalServerError, ErrCodeCreateFailed, err.Error())
		}
		return
	}

	ok(c, http.StatusCreated, SubmitReadingResponse{
		Status:       "Donnée enregistrée avec succès",
		AlertCreated: alertCreated,
	})
}

// SetThreshold godoc
// @ID          setThreshold
// @Summary     Configure a sensor threshold
// @Description Inserts or replaces the caller's maximum-value threshold for a sensor they own. Latest write wins.
// @Tags        Données
// @Accept      json
// @Produce     json
// @Security    BearerAuth
//
// @Param       body  body  handlers.SetThresholdRequest  true  "Threshold payload"
//
// @Success     200  {object}  handlers.SetThresholdResponse
// @Failure     400  {object}  handlers.ErrorResponse  "Invalid payload"
// @Failure     401  {object}  handlers.ErrorResponse  "Missing or invalid token"
// @Failure     403  {object}  handlers.ErrorResponse  "Sensor not owned by caller"
// @Failure     500  {object}  handlers.ErrorResponse  "Internal error"
// @Router      /data/seuil [post]
func (h *Handlers) SetThreshold(c *gin.Context) {
	uid, authed := requireUser(c)
	if !authed {
		return
	}

	var req SetThresholdRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "capteurId et seuil_max requis")
		return
	}

	th, err := h.dataSvc.SetThreshold(c.Request.Context(), uid, req.SensorID, *req.SeuilMax)
	if err != nil {
		switch err {
		case services.ErrSensorNotOwned:
			fail(c, http.StatusForbidden, ErrCodeForbidden, "Capteur non autorisé pour cet utilisateur")
		default:
			fail(c, http.StatusInternalServerError, ErrCodeInternal, err.Error())
		}
		return
	}

	ok(c, http.StatusOK, SetThresholdResponse{
		Status:    "Seuil mis à jour",
		Threshold: *th,
	})
}

// ListReadings godoc
// @ID          listReadings
// @Summary     List a sensor's readings
// @Description Returns the caller's readings for the sensor, oldest first. ?limit= caps the result; 404 when the caller has none for that sensor.
// @Tags        Données
// @Produce     json
// @Security    BearerAuth
//
// @Param       capteurId  path   string  true   "Sensor identifier"
// @Param       limit      query  int     false  "Maximum rows to return (0 = all)"
//
// @Success     200  {array}   domain.Reading
// @Failure     401  {object}  handlers.ErrorResponse  "Missing or invalid token"
// @Failure     404  {object}  handlers.ErrorResponse  "No readings for this sensor"
// @Router      /data/{capteurId} [get]
func (h *Handlers) ListReadings(c *gin.Context) {
	uid, authed := requireUser(c)
	if !authed {
		return
	}

	limit := utils.AtoiDefault(c.Query("limit"), 0)
	readings, err := h.dataSvc.ListReadings(c.Request.Context(), uid, c.Param("capteurId"), limit)
	if err != nil {
		switch err {
		case services.ErrNoReadings:
			fail(c, http.StatusNotFound, ErrCodeNotFound, "Aucune donnée trouvée pour ce capteur")
		default:
			fail(c, http.StatusInternalServerError, ErrCodeListFailed, err.Error())
		}
		return
	}
	ok(c, http.StatusOK, readings)
}

// LatestReading godoc
// @ID          latestReading
// @Summary     Latest reading of a sensor
// @Description Returns the caller's most recently stored reading for the sensor.
// @Tags        Données
// @Produce     json
// @Security    BearerAuth
//
// @Param       capteurId  path  string  true  "Sensor identifier"
//
// @Success     200  {object}  domain.Reading
// @Failure     401  {object}  handlers.ErrorResponse  "Missing or invalid token"
// @Failure     404  {object}  handlers.ErrorResponse  "No readings for this sensor"
// @Router      /data/{capteurId}/latest [get]
func (h *Handlers) LatestReading(c *gin.Context) {
	uid, authed := requireUser(c)
	if !authed {
		return
	}

	r, err := h.dataSvc.LatestReading(c.Request.Context(), uid, c.Param("capteurId"))
	if err != nil {
		switch err {
		case services.ErrNoReadings:
			fail(c, http.StatusNotFound, ErrCodeNotFound, "Aucune donnée trouvée pour ce capteur")
		default:
			fail(c, http.StatusInternalServerError, ErrCodeInternal, err.Error())
		}
		return
	}
	ok(c, http.StatusOK, r)
}

// ListAlerts godoc
// @ID          listAlerts
// @Summary     List the caller's alerts
// @Description Returns all alerts for the current user, newest first. Supports weak ETag via If-None-Match and may return 304.
// @Tags        Alertes
// @Produce     json
// @Security    BearerAuth
//
// @Param       If-None-Match  header  string  false  "Return 304 if ETag matches"
//
// @Success     200  {array}   domain.Alert
// @Header      200  {string}  ETag  "Weak ETag for current result"
// @Success     304  {string}  string  "Not Modified"
// @Failure     401  {object}  handlers.ErrorResponse  "Missing or invalid token"
// @Failure     500  {object}  handlers.ErrorResponse  "Internal error"
// @Router      /data/alertes/all [get]
func (h *Handlers) ListAlerts(c *gin.Context) {
	ctx := c.Request.Context()
	uid, authed := requireUser(c)
	if !authed {
		return
	}

	// ETag pre-check (best effort).
	var db *gorm.DB
	if svc, isConcrete := h.dataSvc.(*services.DataService); isConcrete {
		db = svc.DB
	}
	if db != nil {
		count, maxTS, err := repo.AlertsStats(ctx, db, uid)
		if err == nil {
			var ts int64
			if maxTS != nil {
				ts = maxTS.Unix()
			}
			etag := fmt.Sprintf(`W/"alertes:%s:%d:%d"`, uid, count, ts)
			c.Header("ETag", etag)
			if inm := c.GetHeader("If-None-Match"); inm != "" && inm == etag {
				c.Status(http.StatusNotModified)
				return
			}
		}
	}

	alertes, err := h.dataSvc.ListAlerts(ctx, uid)
	if err != nil {
		fail(c, http.StatusInternalServerError, ErrCodeListFailed, err.Error())
		return
	}
	if alertes == nil {
		alertes = []domain.Alert{}
	}
	ok(c, http.StatusOK, alertes)
}

// DeleteAlert godoc
// @ID          deleteAlert
// @Summary     Delete one alert
// @Description Deletes the alert only when it belongs to the caller; missing and foreign-owned are both 404.
// @Tags        Alertes
// @Security    BearerAuth
//
// @Param       id  path  string  true  "Alert ID (UUID)"  format(uuid)
//
// @Success     204  {string}  string  "No Content"
// @Failure     401  {object}  handlers.ErrorResponse  "Missing or invalid token"
// @Failure     404  {object}  handlers.ErrorResponse  "Alert not found"
// @Router      /data/alertes/{id} [delete]
func (h *Handlers) DeleteAlert(c *gin.Context) {
	uid, authed := requireUser(c)
	if !authed {
		return
	}

	if err := h.dataSvc.DeleteAlert(c.Request.Context(), uid, c.Param("id")); err != nil {
		switch err {
		case services.ErrAlertNotFound:
			fail(c, http.StatusNotFound, ErrCodeNotFound, "Alerte introuvable")
		default:
			fail(c, http.StatusInternalServerError, ErrCodeInternal, err.Error())
		}
		return
	}
	noContent(c)
}
