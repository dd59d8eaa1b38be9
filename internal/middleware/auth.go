package middleware

import (
	"errors"
	"strings"
	"time"

	"github.com/athar-archive/core/internal/models"
	"github.com/athar-archive/core/internal/pkg/jwt"
	"github.com/athar-archive/core/internal/pkg/response"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

const (
	ContextKeyUserID = "user_id"
	ContextKeySID    = "session_id"
	ContextKeyRole   = "role"
)

var roleRank = map[string]int{
	models.RoleUser:       0,
	models.RoleAdmin:      1,
	models.RoleSuperAdmin: 2,
}

// Auth returns a middleware that enforces JWT authentication against live
// sessions.
func Auth(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		claims, err := ValidateTokenClaims(db, extractToken(c))
		if err != nil {
			response.Unauthorized(c)
			return
		}
		setIdentity(c, db, claims)
		c.Next()
	}
}

// OptionalAuth sets the identity if a valid token is present, but does not
// block the request.
func OptionalAuth(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		if claims, err := ValidateTokenClaims(db, extractToken(c)); err == nil && claims.UserID != "" {
			setIdentity(c, db, claims)
		}
		c.Next()
	}
}

// RequireRole gates a route on a minimum capability level. Must run after
// Auth.
func RequireRole(minRole string) gin.HandlerFunc {
	need := roleRank[minRole]
	return func(c *gin.Context) {
		if roleRank[Role(c)] < need || !IsAuthenticated(c) {
			response.Forbidden(c)
			return
		}
		c.Next()
	}
}

func setIdentity(c *gin.Context, db *gorm.DB, claims *jwt.Claims) {
	c.Set(ContextKeyUserID, claims.UserID)
	c.Set(ContextKeyRole, claims.Role)
	if claims.SessionID != "" {
		c.Set(ContextKeySID, claims.SessionID)
		touchSession(db, claims.SessionID)
	}
}

// ValidateTokenClaims validates a JWT and checks that its session has not
// been revoked.
func ValidateTokenClaims(db *gorm.DB, rawToken string) (*jwt.Claims, error) {
	token := NormalizeToken(rawToken)
	if token == "" {
		return nil, errors.New("token is required")
	}
	claims, err := jwt.Parse(token)
	if err != nil {
		return nil, err
	}
	if claims.SessionID != "" {
		var count int64
		err = db.Model(&models.UserSession{}).
			Where("session_id = ? AND user_id = ? AND revoked_at IS NULL", claims.SessionID, claims.UserID).
			Count(&count).Error
		if err != nil {
			return nil, err
		}
		if count == 0 {
			return nil, errors.New("session expired or revoked")
		}
	}
	return claims, nil
}

func touchSession(db *gorm.DB, sessionID string) {
	now := time.Now()
	db.Model(&models.UserSession{}).
		Where("session_id = ?", sessionID).
		Update("last_seen_at", now)
}

// UserID extracts the authenticated user ID from context.
func UserID(c *gin.Context) string {
	v, _ := c.Get(ContextKeyUserID)
	id, _ := v.(string)
	return id
}

// SessionID extracts the authenticated session ID from context.
func SessionID(c *gin.Context) string {
	v, _ := c.Get(ContextKeySID)
	id, _ := v.(string)
	return id
}

// Role extracts the authenticated capability level from context.
func Role(c *gin.Context) string {
	v, _ := c.Get(ContextKeyRole)
	role, _ := v.(string)
	return role
}

// IsAuthenticated returns true if the request carries a valid auth token.
func IsAuthenticated(c *gin.Context) bool {
	return UserID(c) != ""
}

func extractToken(c *gin.Context) string {
	auth := c.GetHeader("Authorization")
	if auth != "" {
		return NormalizeToken(auth)
	}
	return NormalizeToken(c.Query("token"))
}

// NormalizeToken trims spaces and strips an optional Bearer prefix.
func NormalizeToken(raw string) string {
	token := strings.TrimSpace(raw)
	if token == "" {
		return ""
	}
	if strings.HasPrefix(strings.ToLower(token), "bearer ") {
		return strings.TrimSpace(token[7:])
	}
	return token
}
