package auth

import (
	"crypto/rand"
	"encoding/hex"
	"errors"
	"time"

	"github.com/athar-archive/core/internal/middleware"
	"github.com/athar-archive/core/internal/models"
	jwtpkg "github.com/athar-archive/core/internal/pkg/jwt"
	"github.com/athar-archive/core/internal/pkg/response"
	"github.com/gin-gonic/gin"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

const sessionTTL = 30 * 24 * time.Hour

var (
	errUserNotFound  = errors.New("user not found")
	errWrongPassword = errors.New("wrong password")
)

type LoginDTO struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

type ChangePasswordDTO struct {
	OldPassword string `json:"old_password" binding:"required"`
	NewPassword string `json:"new_password" binding:"required,min=8"`
}

type loginResponse struct {
	Token string           `json:"token"`
	User  models.UserModel `json:"user"`
}

type Service struct{ db *gorm.DB }

func NewService(db *gorm.DB) *Service { return &Service{db: db} }

func (s *Service) DB() *gorm.DB { return s.db }

// Login verifies credentials, opens a revocable session, and returns a JWT
// carrying the user's capability level.
func (s *Service) Login(username, password, ip, userAgent string) (string, *models.UserModel, error) {
	var u models.UserModel
	if err := s.db.Where("username = ?", username).First(&u).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return "", nil, errUserNotFound
		}
		return "", nil, err
	}
	if err := bcrypt.CompareHashAndPassword([]byte(u.Password), []byte(password)); err != nil {
		return "", nil, errWrongPassword
	}

	sessionID, err := newSessionID()
	if err != nil {
		return "", nil, err
	}
	now := time.Now()
	session := models.UserSession{
		UserID:     u.ID,
		SessionID:  sessionID,
		UserAgent:  userAgent,
		IP:         ip,
		LastSeenAt: &now,
	}
	if err := s.db.Create(&session).Error; err != nil {
		return "", nil, err
	}

	s.db.Model(&u).Updates(map[string]interface{}{
		"last_login_time": now,
		"last_login_ip":   ip,
	})

	token, err := jwtpkg.Sign(u.ID, sessionID, u.Role, sessionTTL)
	if err != nil {
		return "", nil, err
	}
	return token, &u, nil
}

// Logout revokes the session carried by the presented token.
func (s *Service) Logout(sessionID string) error {
	if sessionID == "" {
		return nil
	}
	now := time.Now()
	return s.db.Model(&models.UserSession{}).
		Where("session_id = ? AND revoked_at IS NULL", sessionID).
		Update("revoked_at", now).Error
}

func (s *Service) ListSessions(userID string) ([]models.UserSession, error) {
	var sessions []models.UserSession
	err := s.db.Where("user_id = ? AND revoked_at IS NULL", userID).
		Order("last_seen_at DESC").Find(&sessions).Error
	return sessions, err
}

// RevokeOthers closes every session of the user except the current one.
func (s *Service) RevokeOthers(userID, keepSessionID string) error {
	now := time.Now()
	return s.db.Model(&models.UserSession{}).
		Where("user_id = ? AND session_id <> ? AND revoked_at IS NULL", userID, keepSessionID).
		Update("revoked_at", now).Error
}

func (s *Service) ChangePassword(userID string, dto *ChangePasswordDTO) error {
	var u models.UserModel
	if err := s.db.First(&u, "id = ?", userID).Error; err != nil {
		return err
	}
	if err := bcrypt.CompareHashAndPassword([]byte(u.Password), []byte(dto.OldPassword)); err != nil {
		return errWrongPassword
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(dto.NewPassword), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	if err := s.db.Model(&u).Update("password", string(hash)).Error; err != nil {
		return err
	}
	// other devices must log in again with the new password
	return s.RevokeOthers(userID, "")
}

func (s *Service) GetUser(id string) (*models.UserModel, error) {
	var u models.UserModel
	if err := s.db.First(&u, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &u, nil
}

// CleanupRevokedSessions deletes revoked or idle session rows. Run from
// cron.
func (s *Service) CleanupRevokedSessions(idle time.Duration) (int64, error) {
	cutoff := time.Now().Add(-idle)
	res := s.db.Where("revoked_at IS NOT NULL OR last_seen_at < ?", cutoff).
		Delete(&models.UserSession{})
	return res.RowsAffected, res.Error
}

func newSessionID() (string, error) {
	b := make([]byte, 16)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return hex.EncodeToString(b), nil
}

type Handler struct{ svc *Service }

func NewHandler(svc *Service) *Handler { return &Handler{svc: svc} }

func (h *Handler) RegisterRoutes(rg *gin.RouterGroup, authMW gin.HandlerFunc) {
	a := rg.Group("/auth")

	a.POST("/login", h.login)
	a.POST("/logout", authMW, h.logout)
	a.GET("/session", middleware.OptionalAuth(h.svc.db), h.session)
	a.GET("/sessions", authMW, h.listSessions)
	a.POST("/revoke-other-sessions", authMW, h.revokeOtherSessions)
	a.POST("/change-password", authMW, h.changePassword)
}

func (h *Handler) login(c *gin.Context) {
	var dto LoginDTO
	if err := c.ShouldBindJSON(&dto); err != nil {
		response.BadRequest(c, err.Error())
		return
	}
	token, user, err := h.svc.Login(dto.Username, dto.Password, c.ClientIP(), c.Request.UserAgent())
	if err != nil {
		if errors.Is(err, errUserNotFound) || errors.Is(err, errWrongPassword) {
			response.ForbiddenMsg(c, "incorrect username or password")
			return
		}
		response.InternalError(c, err)
		return
	}
	response.OK(c, loginResponse{Token: token, User: *user})
}

func (h *Handler) logout(c *gin.Context) {
	if err := h.svc.Logout(middleware.SessionID(c)); err != nil {
		response.InternalError(c, err)
		return
	}
	response.NoContent(c)
}

func (h *Handler) session(c *gin.Context) {
	if !middleware.IsAuthenticated(c) {
		response.OK(c, nil)
		return
	}
	user, err := h.svc.GetUser(middleware.UserID(c))
	if err != nil {
		response.InternalError(c, err)
		return
	}
	response.OK(c, user)
}

func (h *Handler) listSessions(c *gin.Context) {
	sessions, err := h.svc.ListSessions(middleware.UserID(c))
	if err != nil {
		response.InternalError(c, err)
		return
	}
	response.OK(c, sessions)
}

func (h *Handler) revokeOtherSessions(c *gin.Context) {
	if err := h.svc.RevokeOthers(middleware.UserID(c), middleware.SessionID(c)); err != nil {
		response.InternalError(c, err)
		return
	}
	response.NoContent(c)
}

func (h *Handler) changePassword(c *gin.Context) {
	var dto ChangePasswordDTO
	if err := c.ShouldBindJSON(&dto); err != nil {
		response.BadRequest(c, err.Error())
		return
	}
	if err := h.svc.ChangePassword(middleware.UserID(c), &dto); err != nil {
		if errors.Is(err, errWrongPassword) {
			response.ForbiddenMsg(c, "current password is incorrect")
			return
		}
		response.InternalError(c, err)
		return
	}
	response.NoContent(c)
}
