package contact

import (
	"errors"

	"github.com/athar-archive/core/internal/middleware"
	"github.com/athar-archive/core/internal/models"
	"github.com/athar-archive/core/internal/pkg/pagination"
	"github.com/athar-archive/core/internal/pkg/response"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

type SubmitDTO struct {
	Name    string `json:"name"    binding:"required"`
	Email   string `json:"email"   binding:"required,email"`
	Subject string `json:"subject"`
	Message string `json:"message" binding:"required"`
}

type UpdateStatusDTO struct {
	Status string `json:"status" binding:"required,oneof=new read archived"`
}

type Service struct{ db *gorm.DB }

func NewService(db *gorm.DB) *Service { return &Service{db: db} }

func (s *Service) Submit(dto *SubmitDTO) (*models.ContactSubmissionModel, error) {
	sub := models.ContactSubmissionModel{
		Name:    dto.Name,
		Email:   dto.Email,
		Subject: &dto.Subject,
		Message: dto.Message,
		Status:  models.ContactStatusNew,
	}
	return &sub, s.db.Create(&sub).Error
}

func (s *Service) List(q pagination.Query, status string) ([]models.ContactSubmissionModel, response.Pagination, error) {
	tx := s.db.Model(&models.ContactSubmissionModel{}).Order("created_at DESC")
	if status != "" {
		tx = tx.Where("status = ?", status)
	}
	var items []models.ContactSubmissionModel
	pag, err := pagination.Paginate(tx, q, &items)
	return items, pag, err
}

func (s *Service) UpdateStatus(id, status string) (*models.ContactSubmissionModel, error) {
	var sub models.ContactSubmissionModel
	if err := s.db.First(&sub, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &sub, s.db.Model(&sub).Update("status", status).Error
}

func (s *Service) Delete(id string) error {
	return s.db.Delete(&models.ContactSubmissionModel{}, "id = ?", id).Error
}

type Handler struct{ svc *Service }

func NewHandler(svc *Service) *Handler { return &Handler{svc: svc} }

func (h *Handler) RegisterRoutes(rg *gin.RouterGroup, authMW gin.HandlerFunc) {
	g := rg.Group("/contact")
	g.POST("", h.submit)

	a := g.Group("", authMW, middleware.RequireRole(models.RoleAdmin))
	a.GET("", h.list)
	a.PATCH("/:id/status", h.updateStatus)
	a.DELETE("/:id", h.delete)
}

func (h *Handler) submit(c *gin.Context) {
	var dto SubmitDTO
	if err := c.ShouldBindJSON(&dto); err != nil {
		response.BadRequest(c, err.Error())
		return
	}
	sub, err := h.svc.Submit(&dto)
	if err != nil {
		response.InternalError(c, err)
		return
	}
	response.Created(c, sub)
}

func (h *Handler) list(c *gin.Context) {
	q := pagination.FromContext(c)
	items, pag, err := h.svc.List(q, c.Query("status"))
	if err != nil {
		response.InternalError(c, err)
		return
	}
	response.Paged(c, items, pag)
}

func (h *Handler) updateStatus(c *gin.Context) {
	var dto UpdateStatusDTO
	if err := c.ShouldBindJSON(&dto); err != nil {
		response.BadRequest(c, err.Error())
		return
	}
	sub, err := h.svc.UpdateStatus(c.Param("id"), dto.Status)
	if err != nil {
		response.InternalError(c, err)
		return
	}
	if sub == nil {
		response.NotFound(c)
		return
	}
	response.OK(c, sub)
}

func (h *Handler) delete(c *gin.Context) {
	if err := h.svc.Delete(c.Param("id")); err != nil {
		response.InternalError(c, err)
		return
	}
	response.NoContent(c)
}
