package category

import (
	"errors"
	"fmt"
	"time"

	"github.com/athar-archive/core/internal/middleware"
	"github.com/athar-archive/core/internal/models"
	"github.com/athar-archive/core/internal/pkg/response"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

type CreateCategoryDTO struct {
	NameEN string `json:"name_en" binding:"required"`
	NameAR string `json:"name_ar" binding:"required"`
}

type UpdateCategoryDTO struct {
	NameEN *string `json:"name_en"`
	NameAR *string `json:"name_ar"`
}

type categoryResponse struct {
	ID        string    `json:"id"`
	NameEN    string    `json:"name_en"`
	NameAR    string    `json:"name_ar"`
	PostCount int64     `json:"post_count"`
	Created   time.Time `json:"created"`
}

var ErrCategoryExists = errors.New("category already exists")

type Service struct{ db *gorm.DB }

func NewService(db *gorm.DB) *Service { return &Service{db: db} }

func (s *Service) List() ([]models.CategoryModel, error) {
	var items []models.CategoryModel
	err := s.db.Order("name_en ASC").Find(&items).Error
	return items, err
}

func (s *Service) GetByID(id string) (*models.CategoryModel, error) {
	var cat models.CategoryModel
	if err := s.db.First(&cat, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &cat, nil
}

func (s *Service) Create(dto *CreateCategoryDTO) (*models.CategoryModel, error) {
	var count int64
	s.db.Model(&models.CategoryModel{}).
		Where("name_en = ? OR name_ar = ?", dto.NameEN, dto.NameAR).Count(&count)
	if count > 0 {
		return nil, ErrCategoryExists
	}
	cat := models.CategoryModel{NameEN: dto.NameEN, NameAR: dto.NameAR}
	return &cat, s.db.Create(&cat).Error
}

func (s *Service) Update(id string, dto *UpdateCategoryDTO) (*models.CategoryModel, error) {
	cat, err := s.GetByID(id)
	if err != nil || cat == nil {
		return cat, err
	}
	updates := map[string]interface{}{}
	if dto.NameEN != nil {
		updates["name_en"] = *dto.NameEN
	}
	if dto.NameAR != nil {
		updates["name_ar"] = *dto.NameAR
	}
	return cat, s.db.Model(cat).Updates(updates).Error
}

// Delete refuses while posts still reference the category.
func (s *Service) Delete(id string) error {
	var count int64
	s.db.Model(&models.BlogPostModel{}).Where("category_id = ?", id).Count(&count)
	if count > 0 {
		return fmt.Errorf("category still has %d posts", count)
	}
	return s.db.Delete(&models.CategoryModel{}, "id = ?", id).Error
}

func (s *Service) postCount(id string) int64 {
	var count int64
	s.db.Model(&models.BlogPostModel{}).
		Where("category_id = ? AND published = ?", id, true).Count(&count)
	return count
}

type Handler struct{ svc *Service }

func NewHandler(svc *Service) *Handler { return &Handler{svc: svc} }

func (h *Handler) RegisterRoutes(rg *gin.RouterGroup, authMW gin.HandlerFunc) {
	g := rg.Group("/categories")
	g.GET("", h.list)

	a := g.Group("", authMW, middleware.RequireRole(models.RoleAdmin))
	a.POST("", h.create)
	a.PUT("/:id", h.update)
	a.DELETE("/:id", h.delete)
}

func (h *Handler) list(c *gin.Context) {
	items, err := h.svc.List()
	if err != nil {
		response.InternalError(c, err)
		return
	}
	out := make([]categoryResponse, len(items))
	for i, cat := range items {
		out[i] = categoryResponse{
			ID:        cat.ID,
			NameEN:    cat.NameEN,
			NameAR:    cat.NameAR,
			PostCount: h.svc.postCount(cat.ID),
			Created:   cat.CreatedAt,
		}
	}
	response.OK(c, out)
}

func (h *Handler) create(c *gin.Context) {
	var dto CreateCategoryDTO
	if err := c.ShouldBindJSON(&dto); err != nil {
		response.BadRequest(c, err.Error())
		return
	}
	cat, err := h.svc.Create(&dto)
	if err != nil {
		if errors.Is(err, ErrCategoryExists) {
			response.Conflict(c, err.Error())
			return
		}
		response.InternalError(c, err)
		return
	}
	response.Created(c, cat)
}

func (h *Handler) update(c *gin.Context) {
	var dto UpdateCategoryDTO
	if err := c.ShouldBindJSON(&dto); err != nil {
		response.BadRequest(c, err.Error())
		return
	}
	cat, err := h.svc.Update(c.Param("id"), &dto)
	if err != nil {
		response.InternalError(c, err)
		return
	}
	if cat == nil {
		response.NotFound(c)
		return
	}
	response.OK(c, cat)
}

func (h *Handler) delete(c *gin.Context) {
	if err := h.svc.Delete(c.Param("id")); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			response.NotFound(c)
			return
		}
		response.UnprocessableEntity(c, err.Error())
		return
	}
	response.NoContent(c)
}
