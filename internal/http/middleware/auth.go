// Package middleware contains shared Gin middleware used by the HTTP layer.
//
// This file implements bearer-token authentication. The middleware extracts
// the JWT from the Authorization header, validates it, resolves the subject
// against the users table, and attaches both the user id and the full user
// record to the Gin context for downstream handlers.
//
// On any failure (missing header, malformed token, bad signature, expired
// token, unknown subject) the request is aborted with a uniform 401 so the
// response never reveals which check failed.
package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/nbelhaj/go-iot-backend/internal/auth"
	"github.com/nbelhaj/go-iot-backend/internal/repo"
)

const (
	// ctxKeyUserID is the Gin context key holding the authenticated user id.
	ctxKeyUserID = "userID"
	// ctxKeyCurrentUser is the Gin context key holding the resolved *domain.User.
	ctxKeyCurrentUser = "currentUser"
)

// bearerToken extracts the token from an "Authorization: Bearer <token>"
// header. The scheme comparison is case-insensitive; surrounding whitespace
// is trimmed. It returns "" when the header is absent or malformed.
func bearerToken(header string) string {
	const prefix = "bearer "
	h := strings.TrimSpace(header)
	if len(h) <= len(prefix) || !strings.EqualFold(h[:len(prefix)], prefix) {
		return ""
	}
	return strings.TrimSpace(h[len(prefix):])
}

// Auth returns a Gin middleware that authenticates requests via JWT bearer
// tokens signed with secret.
//
// Behavior:
//   - Parses and verifies the Authorization header token (HS256 only).
//   - Resolves the token subject to a user row; deleted users are rejected
//     even when their token is still within its lifetime.
//   - Stores the user id under "userID" and the record under "currentUser".
//
// The 401 body mirrors the handlers' ErrorResponse envelope. The middleware
// writes it directly to avoid an import cycle with the handlers package.
func Auth(db *gorm.DB, secret string) gin.HandlerFunc {
	return func(c *gin.Context) {
		unauthorized := func() {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"request_id": c.Writer.Header().Get(requestIDHeader),
				"code":       "unauthorized",
				"message":    "Impossible de vérifier les identifiants",
			})
		}

		token := bearerToken(c.GetHeader("Authorization"))
		if token == "" {
			unauthorized()
			return
		}

		sub, err := auth.ParseToken(secret, token)
		if err != nil {
			unauthorized()
			return
		}

		u, err := repo.GetUserByID(c.Request.Context(), db, sub)
		if err != nil {
			unauthorized()
			return
		}

		c.Set(ctxKeyUserID, u.ID)
		c.Set(ctxKeyCurrentUser, u)
		c.Next()
	}
}
