// Object HTTP handlers.
//
// This file exposes REST endpoints for sensor registrations ("objets"):
//   - POST   /objets       (register)
//   - GET    /objets       (list the caller's objects)
//   - GET    /objets/{id}  (fetch one, owner-scoped)
//   - DELETE /objets/{id}  (delete one, owner-scoped)
//
// Handlers are transport-thin: they validate input, call application services,
// and translate domain/service errors into HTTP results. Not-found and
// not-owned are indistinguishable on the wire.
package handlers

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/nbelhaj/go-iot-backend/internal/domain"
	"github.com/nbelhaj/go-iot-backend/internal/services"
)

// ObjectService defines the object lifecycle operations consumed by HTTP
// handlers.
//
// Implementations should be safe for concurrent use and must honor the
// provided context for cancellation and timeouts.
type ObjectService interface {
	// Register creates an object bound to a globally unique sensorId.
	Register(ctx context.Context, userID string, in services.ObjectInput) (*domain.Object, error)
	// List returns the caller's objects.
	List(ctx context.Context, userID string) ([]domain.Object, error)
	// Get fetches one object scoped to the caller.
	Get(ctx context.Context, userID, objectID string) (*domain.Object, error)
	// Delete removes one object scoped to the caller.
	Delete(ctx context.Context, userID, objectID string) error
}

// CreateObjectRequest is the JSON payload for registering an object. All
// fields are required, matching the platform's registration contract.
type CreateObjectRequest struct {
	Name     string `json:"nom"         binding:"required" example:"Capteur salon"`
	Type     string `json:"type"        binding:"required" example:"temperature"`
	Location string `json:"emplacement" binding:"required" example:"Salon"`
	SensorID string `json:"capteurId"   binding:"required" example:"s1"`
}

// CreateObjectResponse confirms a registration and echoes the stored object.
type CreateObjectResponse struct {
	Message string        `json:"message" example:"Objet ajouté avec succès"`
	Object  domain.Object `json:"objet"`
}

// CreateObject godoc
// @ID          createObject
// @Summary     Register an object
// @Description Binds a sensorId to metadata and the current user. Sensor identifiers are globally unique; the first registrant wins.
// @Tags        Objets
// @Accept      json
// @Produce     json
// @Security    BearerAuth
//
// @Param       body  body  handlers.CreateObjectRequest  true  "Object payload"
//
// @Success     201  {object}  handlers.CreateObjectResponse
// @Failure     400  {object}  handlers.ErrorResponse  "Missing field or sensor already registered"
// @Failure     401  {object}  handlers.ErrorResponse  "Missing or invalid token"
// @Failure     500  {object}  handlers.ErrorResponse  "Internal error"
// @Router      /objets [post]
func (h *Handlers) CreateObject(c *gin.Context) {
	uid, authed := requireUser(c)
	if !authed {
		return
	}

	var req CreateObjectRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "Tous les champs de l'objet sont requis")
		return
	}

	o, err := h.objectSvc.Register(c.Request.Context(), uid, services.ObjectInput{
		Name:     req.Name,
		Type:     req.Type,
		Location: req.Location,
		SensorID: req.SensorID,
	})
	if err != nil {
		switch err {
		case services.ErrSensorTaken:
			fail(c, http.StatusBadRequest, ErrCodeConflict, "Capteur déjà enregistré")
		default:
			fail(c, http.StatusInternalServerError, ErrCodeCreateFailed, err.Error())
		}
		return
	}

	ok(c, http.StatusCreated, CreateObjectResponse{
		Message: "Objet ajouté avec succès",
		Object:  *o,
	})
}

// ListObjects godoc
// @ID          listObjects
// @Summary     List the caller's objects
// @Tags        Objets
// @Produce     json
// @Security    BearerAuth
//
// @Success     200  {array}   domain.Object
// @Failure     401  {object}  handlers.ErrorResponse  "Missing or invalid token"
// @Failure     500  {object}  handlers.ErrorResponse  "Internal error"
// @Router      /objets [get]
func (h *Handlers) ListObjects(c *gin.Context) {
	uid, authed := requireUser(c)
	if !authed {
		return
	}

	objets, err := h.objectSvc.List(c.Request.Context(), uid)
	if err != nil {
		fail(c, http.StatusInternalServerError, ErrCodeListFailed, err.Error())
		return
	}
	if objets == nil {
		objets = []domain.Object{}
	}
	ok(c, http.StatusOK, objets)
}

// GetObject godoc
// @ID          getObject
// @Summary     Fetch one object
// @Description Returns the object only when it belongs to the caller; missing and foreign-owned are both 404.
// @Tags        Objets
// @Produce     json
// @Security    BearerAuth
//
// @Param       id  path  string  true  "Object ID (UUID)"  format(uuid)
//
// @Success     200  {object}  domain.Object
// @Failure     401  {object}  handlers.ErrorResponse  "Missing or invalid token"
// @Failure     404  {object}  handlers.ErrorResponse  "Object not found"
// @Router      /objets/{id} [get]
func (h *Handlers) GetObject(c *gin.Context) {
	uid, authed := requireUser(c)
	if !authed {
		return
	}

	o, err := h.objectSvc.Get(c.Request.Context(), uid, c.Param("id"))
	if err != nil {
		switch err {
		case services.ErrObjectNotFound:
			fail(c, http.StatusNotFound, ErrCodeNotFound, "Objet introuvable")
		default:
			fail(c, http.StatusInternalServerError, ErrCodeInternal, err.Error())
		}
		return
	}
	ok(c, http.StatusOK, o)
}

// DeleteObject godoc
// @ID          deleteObject
// @Summary     Delete one object
// @Description Deletes the object only when it belongs to the caller; missing and foreign-owned are both 404.
// @Tags        Objets
// @Security    BearerAuth
//
// @Param       id  path  string  true  "Object ID (UUID)"  format(uuid)
//
// @Success     204  {string}  string  "No Content"
// @Failure     401  {object}  handlers.ErrorResponse  "Missing or invalid token"
// @Failure     404  {object}  handlers.ErrorResponse  "Object not found"
// @Router      /objets/{id} [delete]
func (h *Handlers) DeleteObject(c *gin.Context) {
	uid, authed := requireUser(c)
	if !authed {
		return
	}

	if err := h.objectSvc.Delete(c.Request.Context(), uid, c.Param("id")); err != nil {
		switch err {
		case services.ErrObjectNotFound:
			fail(c, http.StatusNotFound, ErrCodeNotFound, "Objet introuvable")
		default:
			fail(c, http.StatusInternalServerError, ErrCodeInternal, err.Error())
		}
		return
	}
	noContent(c)
}
