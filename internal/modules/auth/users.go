package auth

import (
	"errors"

	"github.com/athar-archive/core/internal/middleware"
	"github.com/athar-archive/core/internal/models"
	"github.com/athar-archive/core/internal/pkg/response"
	"github.com/gin-gonic/gin"
	"golang.org/x/crypto/bcrypt"
)

// Identity management. Only super_admin may create, modify, or delete other
// identities.

var (
	ErrUsernameTaken  = errors.New("username already exists")
	ErrSelfDelete     = errors.New("cannot delete your own account")
	ErrLastSuperAdmin = errors.New("cannot remove the last super_admin")
)

type CreateUserDTO struct {
	Username string `json:"username" binding:"required,min=3"`
	Password string `json:"password" binding:"required,min=8"`
	Name     string `json:"name"`
	Email    string `json:"email"`
	Role     string `json:"role" binding:"omitempty,oneof=user admin super_admin"`
}

type UpdateUserDTO struct {
	Name     *string `json:"name"`
	Email    *string `json:"email"`
	Role     *string `json:"role" binding:"omitempty,oneof=user admin super_admin"`
	Password *string `json:"password" binding:"omitempty,min=8"`
}

func (s *Service) ListUsers() ([]models.UserModel, error) {
	var users []models.UserModel
	err := s.db.Order("created_at ASC").Find(&users).Error
	return users, err
}

func (s *Service) CreateUser(dto *CreateUserDTO) (*models.UserModel, error) {
	var count int64
	s.db.Model(&models.UserModel{}).Where("username = ?", dto.Username).Count(&count)
	if count > 0 {
		return nil, ErrUsernameTaken
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(dto.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}
	role := dto.Role
	if role == "" {
		role = models.RoleUser
	}
	name := dto.Name
	if name == "" {
		name = dto.Username
	}
	u := models.UserModel{
		Username: dto.Username,
		Password: string(hash),
		Name:     name,
		Email:    dto.Email,
		Role:     role,
	}
	return &u, s.db.Create(&u).Error
}

func (s *Service) UpdateUser(id string, dto *UpdateUserDTO) (*models.UserModel, error) {
	u, err := s.GetUser(id)
	if err != nil || u == nil {
		return u, err
	}

	updates := map[string]interface{}{}
	if dto.Name != nil {
		updates["name"] = *dto.Name
	}
	if dto.Email != nil {
		updates["email"] = *dto.Email
	}
	if dto.Role != nil && *dto.Role != u.Role {
		if u.Role == models.RoleSuperAdmin {
			if err := s.guardLastSuperAdmin(id); err != nil {
				return nil, err
			}
		}
		updates["role"] = *dto.Role
	}
	if dto.Password != nil {
		hash, err := bcrypt.GenerateFromPassword([]byte(*dto.Password), bcrypt.DefaultCost)
		if err != nil {
			return nil, err
		}
		updates["password"] = string(hash)
	}
	if err := s.db.Model(u).Updates(updates).Error; err != nil {
		return nil, err
	}

	if dto.Password != nil || dto.Role != nil {
		// force re-login so stale role claims stop working
		if err := s.RevokeOthers(id, ""); err != nil {
			return nil, err
		}
	}
	return s.GetUser(id)
}

func (s *Service) DeleteUser(id, actorID string) error {
	if id == actorID {
		return ErrSelfDelete
	}
	u, err := s.GetUser(id)
	if err != nil {
		return err
	}
	if u == nil {
		return nil
	}
	if u.Role == models.RoleSuperAdmin {
		if err := s.guardLastSuperAdmin(id); err != nil {
			return err
		}
	}
	if err := s.RevokeOthers(id, ""); err != nil {
		return err
	}
	return s.db.Delete(&models.UserModel{}, "id = ?", id).Error
}

// guardLastSuperAdmin refuses to demote or delete the only remaining
// super_admin, which would lock everyone out of identity management.
func (s *Service) guardLastSuperAdmin(excludeID string) error {
	var count int64
	s.db.Model(&models.UserModel{}).
		Where("role = ? AND id <> ?", models.RoleSuperAdmin, excludeID).
		Count(&count)
	if count == 0 {
		return ErrLastSuperAdmin
	}
	return nil
}

type UsersHandler struct{ svc *Service }

func NewUsersHandler(svc *Service) *UsersHandler { return &UsersHandler{svc: svc} }

func (h *UsersHandler) RegisterRoutes(rg *gin.RouterGroup, authMW gin.HandlerFunc) {
	g := rg.Group("/users", authMW, middleware.RequireRole(models.RoleSuperAdmin))
	g.GET("", h.list)
	g.POST("", h.create)
	g.PUT("/:id", h.update)
	g.DELETE("/:id", h.delete)
}

func (h *UsersHandler) list(c *gin.Context) {
	users, err := h.svc.ListUsers()
	if err != nil {
		response.InternalError(c, err)
		return
	}
	response.OK(c, users)
}

func (h *UsersHandler) create(c *gin.Context) {
	var dto CreateUserDTO
	if err := c.ShouldBindJSON(&dto); err != nil {
		response.BadRequest(c, err.Error())
		return
	}
	u, err := h.svc.CreateUser(&dto)
	if err != nil {
		if errors.Is(err, ErrUsernameTaken) {
			response.Conflict(c, err.Error())
			return
		}
		response.InternalError(c, err)
		return
	}
	response.Created(c, u)
}

func (h *UsersHandler) update(c *gin.Context) {
	var dto UpdateUserDTO
	if err := c.ShouldBindJSON(&dto); err != nil {
		response.BadRequest(c, err.Error())
		return
	}
	u, err := h.svc.UpdateUser(c.Param("id"), &dto)
	if err != nil {
		if errors.Is(err, ErrLastSuperAdmin) {
			response.UnprocessableEntity(c, err.Error())
			return
		}
		response.InternalError(c, err)
		return
	}
	if u == nil {
		response.NotFound(c)
		return
	}
	response.OK(c, u)
}

func (h *UsersHandler) delete(c *gin.Context) {
	err := h.svc.DeleteUser(c.Param("id"), middleware.UserID(c))
	if err != nil {
		switch {
		case errors.Is(err, ErrSelfDelete), errors.Is(err, ErrLastSuperAdmin):
			response.UnprocessableEntity(c, err.Error())
		default:
			response.InternalError(c, err)
		}
		return
	}
	response.NoContent(c)
}
