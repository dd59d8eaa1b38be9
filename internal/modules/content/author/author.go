package author

import (
	"errors"

	"github.com/athar-archive/core/internal/middleware"
	"github.com/athar-archive/core/internal/models"
	"github.com/athar-archive/core/internal/pkg/response"
	"github.com/athar-archive/core/internal/pkg/slugify"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

type CreateAuthorDTO struct {
	Slug            string  `json:"slug"`
	NameEN          string  `json:"name_en" binding:"required"`
	NameAR          string  `json:"name_ar" binding:"required"`
	BioEN           *string `json:"bio_en"`
	BioAR           *string `json:"bio_ar"`
	ProfileImageURL *string `json:"profile_image_url"`
	Email           *string `json:"email"`
}

type UpdateAuthorDTO struct {
	Slug            *string `json:"slug"`
	NameEN          *string `json:"name_en"`
	NameAR          *string `json:"name_ar"`
	BioEN           *string `json:"bio_en"`
	BioAR           *string `json:"bio_ar"`
	ProfileImageURL *string `json:"profile_image_url"`
	Email           *string `json:"email"`
}

var ErrAuthorSlugTaken = errors.New("slug already exists")

type Service struct{ db *gorm.DB }

func NewService(db *gorm.DB) *Service { return &Service{db: db} }

func (s *Service) List() ([]models.AuthorModel, error) {
	var items []models.AuthorModel
	err := s.db.Order("name_en ASC").Find(&items).Error
	return items, err
}

func (s *Service) GetBySlug(slug string) (*models.AuthorModel, error) {
	var a models.AuthorModel
	if err := s.db.First(&a, "slug = ?", slug).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &a, nil
}

func (s *Service) GetByID(id string) (*models.AuthorModel, error) {
	var a models.AuthorModel
	if err := s.db.First(&a, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &a, nil
}

func (s *Service) Create(dto *CreateAuthorDTO) (*models.AuthorModel, error) {
	slug := dto.Slug
	if slug == "" {
		slug = slugify.Slugify(dto.NameEN)
	}
	var count int64
	s.db.Model(&models.AuthorModel{}).Where("slug = ?", slug).Count(&count)
	if count > 0 {
		return nil, ErrAuthorSlugTaken
	}

	a := models.AuthorModel{
		Slug:            slug,
		NameEN:          dto.NameEN,
		NameAR:          dto.NameAR,
		BioEN:           dto.BioEN,
		BioAR:           dto.BioAR,
		ProfileImageURL: dto.ProfileImageURL,
		Email:           dto.Email,
	}
	return &a, s.db.Create(&a).Error
}

func (s *Service) Update(id string, dto *UpdateAuthorDTO) (*models.AuthorModel, error) {
	a, err := s.GetByID(id)
	if err != nil || a == nil {
		return a, err
	}
	updates := map[string]interface{}{}
	if dto.Slug != nil && *dto.Slug != a.Slug {
		var count int64
		s.db.Model(&models.AuthorModel{}).
			Where("slug = ? AND id <> ?", *dto.Slug, id).Count(&count)
		if count > 0 {
			return nil, ErrAuthorSlugTaken
		}
		updates["slug"] = *dto.Slug
	}
	if dto.NameEN != nil {
		updates["name_en"] = *dto.NameEN
	}
	if dto.NameAR != nil {
		updates["name_ar"] = *dto.NameAR
	}
	if dto.BioEN != nil {
		updates["bio_en"] = *dto.BioEN
	}
	if dto.BioAR != nil {
		updates["bio_ar"] = *dto.BioAR
	}
	if dto.ProfileImageURL != nil {
		updates["profile_image_url"] = *dto.ProfileImageURL
	}
	if dto.Email != nil {
		updates["email"] = *dto.Email
	}
	return a, s.db.Model(a).Updates(updates).Error
}

// Delete detaches the author from their posts instead of orphaning rows:
// posts survive with author_id null.
func (s *Service) Delete(id string) error {
	return s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&models.BlogPostModel{}).
			Where("author_id = ?", id).
			Update("author_id", nil).Error; err != nil {
			return err
		}
		return tx.Delete(&models.AuthorModel{}, "id = ?", id).Error
	})
}

type Handler struct{ svc *Service }

func NewHandler(svc *Service) *Handler { return &Handler{svc: svc} }

func (h *Handler) RegisterRoutes(rg *gin.RouterGroup, authMW gin.HandlerFunc) {
	g := rg.Group("/authors")
	g.GET("", h.list)
	g.GET("/:slug", h.get)

	a := g.Group("", authMW, middleware.RequireRole(models.RoleAdmin))
	a.POST("", h.create)
	a.PUT("/:slug", h.update)
	a.DELETE("/:slug", h.delete)
}

func (h *Handler) list(c *gin.Context) {
	items, err := h.svc.List()
	if err != nil {
		response.InternalError(c, err)
		return
	}
	response.OK(c, items)
}

func (h *Handler) get(c *gin.Context) {
	a, err := h.svc.GetBySlug(c.Param("slug"))
	if err != nil {
		response.InternalError(c, err)
		return
	}
	if a == nil {
		response.NotFound(c)
		return
	}
	response.OK(c, a)
}

func (h *Handler) create(c *gin.Context) {
	var dto CreateAuthorDTO
	if err := c.ShouldBindJSON(&dto); err != nil {
		response.BadRequest(c, err.Error())
		return
	}
	a, err := h.svc.Create(&dto)
	if err != nil {
		if errors.Is(err, ErrAuthorSlugTaken) {
			response.Conflict(c, err.Error())
			return
		}
		response.InternalError(c, err)
		return
	}
	response.Created(c, a)
}

func (h *Handler) update(c *gin.Context) {
	existing, err := h.svc.GetBySlug(c.Param("slug"))
	if err != nil {
		response.InternalError(c, err)
		return
	}
	if existing == nil {
		response.NotFound(c)
		return
	}

	var dto UpdateAuthorDTO
	if err := c.ShouldBindJSON(&dto); err != nil {
		response.BadRequest(c, err.Error())
		return
	}
	a, err := h.svc.Update(existing.ID, &dto)
	if err != nil {
		if errors.Is(err, ErrAuthorSlugTaken) {
			response.Conflict(c, err.Error())
			return
		}
		response.InternalError(c, err)
		return
	}
	response.OK(c, a)
}

func (h *Handler) delete(c *gin.Context) {
	existing, err := h.svc.GetBySlug(c.Param("slug"))
	if err != nil {
		response.InternalError(c, err)
		return
	}
	if existing == nil {
		response.NotFound(c)
		return
	}
	if err := h.svc.Delete(existing.ID); err != nil {
		response.InternalError(c, err)
		return
	}
	response.NoContent(c)
}
