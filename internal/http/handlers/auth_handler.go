// Authentication HTTP handlers.
//
// This file exposes the public account endpoints:
//   - POST /auth/register  (create account)
//   - POST /auth/login     (verify credentials, issue bearer token)
//   - GET  /me             (return the authenticated principal)
//
// Handlers are transport-thin: they validate input, call application services,
// and translate results into HTTP responses. It also hosts the Handlers
// aggregate that wires all endpoint groups to their services.
package handlers

import (
	"context"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/nbelhaj/go-iot-backend/internal/domain"
	"github.com/nbelhaj/go-iot-backend/internal/services"
)

//
// Service contracts (context-aware)
//

// AccountService defines the account operations consumed by HTTP handlers.
//
// Implementations should be safe for concurrent use and must honor the
// provided context for cancellation and timeouts.
type AccountService interface {
	// Register creates a new account with a hashed password.
	Register(ctx context.Context, email, username, password string) (*domain.User, error)
	// Login verifies credentials and returns an access token plus the user.
	Login(ctx context.Context, email, password string) (string, *domain.User, error)
}

//
// Handler wiring
//

// Handlers groups the HTTP endpoints for accounts, objects, and sensor data.
// It depends on abstract service interfaces to keep transport concerns
// separate from business logic.
type Handlers struct {
	accountSvc AccountService
	objectSvc  ObjectService
	dataSvc    DataService
}

// New constructs and returns a Handlers instance bound to the given services.
func New(accountSvc AccountService, objectSvc ObjectService, dataSvc DataService) *Handlers {
	return &Handlers{accountSvc: accountSvc, objectSvc: objectSvc, dataSvc: dataSvc}
}

// userID extracts the authenticated user id from the Gin context, where the
// auth middleware stored it. It returns "" when the request is unauthenticated,
// in which case the protected handler answers 401.
func userID(c *gin.Context) string {
	if v, ok := c.Get("userID"); ok {
		if s, ok := v.(string); ok {
			return s
		}
	}
	return ""
}

// requireUser returns the authenticated user id, or aborts with a uniform
// 401 when the auth middleware did not attach one.
func requireUser(c *gin.Context) (string, bool) {
	uid := userID(c)
	if uid == "" {
		fail(c, http.StatusUnauthorized, ErrCodeUnauthorized, "Impossible de vérifier les identifiants")
		return "", false
	}
	return uid, true
}

//
// DTOs
//

// RegisterRequest is the JSON payload for creating an account.
type RegisterRequest struct {
	Email    string `json:"email"    binding:"required,email" example:"a@x.com"`
	Password string `json:"password" binding:"required,min=6" example:"secret1"`
	// Username optionally names the account; defaults to the email local part.
	Username string `json:"username" example:"alice"`
}

// LoginRequest is the JSON payload for logging in.
type LoginRequest struct {
	Email    string `json:"email"    binding:"required,email" example:"a@x.com"`
	Password string `json:"password" binding:"required" example:"secret1"`
}

// UserView is the public projection of a user returned by auth endpoints.
type UserView struct {
	ID       string `json:"id"`
	Email    string `json:"email"`
	Username string `json:"username"`
}

// RegisterResponse confirms a created account.
type RegisterResponse struct {
	Message string `json:"message" example:"Utilisateur créé avec succès"`
	UserID  string `json:"user_id"`
	Email   string `json:"email"`
}

// LoginResponse carries the issued bearer token and the user it belongs to.
type LoginResponse struct {
	AccessToken string   `json:"access_token"`
	TokenType   string   `json:"token_type" example:"bearer"`
	User        UserView `json:"user"`
}

//
// Handlers
//

// Register godoc
// @ID          register
// @Summary     Create an account
// @Description Registers a new user; the email must not already be in use.
// @Tags        Auth
// @Accept      json
// @Produce     json
//
// @Param       body  body  handlers.RegisterRequest  true  "Registration payload"
//
// @Success     201  {object}  handlers.RegisterResponse
// @Failure     400  {object}  handlers.ErrorResponse  "Invalid payload or email already used"
// @Failure     500  {object}  handlers.ErrorResponse  "Internal error"
// @Router      /auth/register [post]
func (h *Handlers) Register(c *gin.Context) {
	var req RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "email et mot de passe (6 caractères min.) requis")
		return
	}

	username := strings.TrimSpace(req.Username)
	if username == "" {
		if at := strings.IndexByte(req.Email, '@'); at > 0 {
			username = req.Email[:at]
		} else {
			username = req.Email
		}
	}

	u, err := h.accountSvc.Register(c.Request.Context(), req.Email, username, req.Password)
	if err != nil {
		switch err {
		case services.ErrEmailTaken:
			fail(c, http.StatusBadRequest, ErrCodeConflict, "Email déjà utilisé")
		default:
			fail(c, http.StatusInternalServerError, ErrCodeCreateFailed, err.Error())
		}
		return
	}

	ok(c, http.StatusCreated, RegisterResponse{
		Message: "Utilisateur créé avec succès",
		UserID:  u.ID,
		Email:   u.Email,
	})
}

// Login godoc
// @ID          login
// @Summary     Log in
// @Description Verifies credentials and returns a JWT bearer token (60-minute lifetime).
// @Tags        Auth
// @Accept      json
// @Produce     json
//
// @Param       body  body  handlers.LoginRequest  true  "Credentials"
//
// @Success     200  {object}  handlers.LoginResponse
// @Failure     400  {object}  handlers.ErrorResponse  "Invalid payload"
// @Failure     401  {object}  handlers.ErrorResponse  "Wrong email or password"
// @Failure     500  {object}  handlers.ErrorResponse  "Internal error"
// @Router      /auth/login [post]
func (h *Handlers) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "email et mot de passe requis")
		return
	}

	token, u, err := h.accountSvc.Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		switch err {
		case services.ErrInvalidCredentials:
			fail(c, http.StatusUnauthorized, ErrCodeUnauthorized, "Email ou mot de passe incorrect")
		default:
			fail(c, http.StatusInternalServerError, ErrCodeInternal, err.Error())
		}
		return
	}

	ok(c, http.StatusOK, LoginResponse{
		AccessToken: token,
		TokenType:   "bearer",
		User:        UserView{ID: u.ID, Email: u.Email, Username: u.Username},
	})
}

// Me godoc
// @ID          me
// @Summary     Current user
// @Description Returns the authenticated principal resolved from the bearer token.
// @Tags        Auth
// @Produce     json
// @Security    BearerAuth
//
// @Success     200  {object}  map[string]handlers.UserView
// @Failure     401  {object}  handlers.ErrorResponse  "Missing or invalid token"
// @Router      /me [get]
func (h *Handlers) Me(c *gin.Context) {
	v, exists := c.Get("currentUser")
	u, _ := v.(*domain.User)
	if !exists || u == nil {
		fail(c, http.StatusUnauthorized, ErrCodeUnauthorized, "Impossible de vérifier les identifiants")
		return
	}
	ok(c, http.StatusOK, gin.H{"user": UserView{ID: u.ID, Email: u.Email, Username: u.Username}})
}
