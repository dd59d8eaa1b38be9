package audio

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/athar-archive/core/internal/middleware"
	"github.com/athar-archive/core/internal/models"
	"github.com/athar-archive/core/internal/pkg/pagination"
	"github.com/athar-archive/core/internal/pkg/response"
	"github.com/athar-archive/core/internal/pkg/slugify"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

type CreateAudioDTO struct {
	Title         string     `json:"title" binding:"required"`
	TitleAR       string     `json:"title_ar"`
	Description   string     `json:"description"`
	DescriptionAR string     `json:"description_ar"`
	AudioURL      string     `json:"audio_url" binding:"required"`
	Licence       string     `json:"licence"`
	Category      string     `json:"category"`
	CategoryAR    string     `json:"category_ar"`
	Location      string     `json:"location"`
	LocationAR    string     `json:"location_ar"`
	Tags          []string   `json:"tags"`
	TagsAR        []string   `json:"tags_ar"`
	Date          *time.Time `json:"date"`
	DatePrecision string     `json:"date_precision"`
	Year          *int       `json:"year"`
	Featured      *bool      `json:"featured"`
	DisplayOrder  *int       `json:"display_order"`
	Notes         string     `json:"notes"`
}

type UpdateAudioDTO struct {
	Title         *string    `json:"title"`
	TitleAR       *string    `json:"title_ar"`
	Description   *string    `json:"description"`
	DescriptionAR *string    `json:"description_ar"`
	AudioURL      *string    `json:"audio_url"`
	Licence       *string    `json:"licence"`
	Category      *string    `json:"category"`
	CategoryAR    *string    `json:"category_ar"`
	Location      *string    `json:"location"`
	LocationAR    *string    `json:"location_ar"`
	Tags          []string   `json:"tags"`
	TagsAR        []string   `json:"tags_ar"`
	Date          *time.Time `json:"date"`
	DatePrecision *string    `json:"date_precision"`
	Year          *int       `json:"year"`
	Featured      *bool      `json:"featured"`
	DisplayOrder  *int       `json:"display_order"`
	Notes         *string    `json:"notes"`
}

// ListQuery captures the archive page filters.
type ListQuery struct {
	Lang     string `form:"lang"`
	Search   string `form:"search"`
	Category string `form:"category"`
	Tag      string `form:"tag"`
	Location string `form:"location"`
	Sort     string `form:"sort"`
}

type Service struct{ db *gorm.DB }

func NewService(db *gorm.DB) *Service { return &Service{db: db} }

// List returns archive entries with the public filters applied. Arabic
// search collapses alef variants on both sides so spelling differences
// still match.
func (s *Service) List(q pagination.Query, lq ListQuery) ([]models.AudioEntryModel, response.Pagination, error) {
	tx := s.db.Model(&models.AudioEntryModel{})

	if lq.Search != "" {
		needle := "%" + slugify.NormalizeAlef(lq.Search) + "%"
		if lq.Lang == "ar" {
			clauses := make([]string, 0, 4)
			for _, col := range []string{"title_ar", "description_ar", "category_ar", "location_ar"} {
				clauses = append(clauses,
					fmt.Sprintf("REPLACE(REPLACE(REPLACE(%s, 'أ', 'ا'), 'إ', 'ا'), 'آ', 'ا') LIKE ?", col))
			}
			tx = tx.Where(strings.Join(clauses, " OR "), needle, needle, needle, needle)
		} else {
			tx = tx.Where(
				"title LIKE ? OR description LIKE ? OR category LIKE ? OR location LIKE ?",
				needle, needle, needle, needle,
			)
		}
	}
	if lq.Category != "" {
		tx = tx.Where("category = ? OR category_ar = ?", lq.Category, lq.Category)
	}
	if lq.Tag != "" {
		tx = tx.Where("JSON_CONTAINS(tags, JSON_QUOTE(?)) OR JSON_CONTAINS(tags_ar, JSON_QUOTE(?))", lq.Tag, lq.Tag)
	}
	if lq.Location != "" {
		tx = tx.Where("location = ? OR location_ar = ?", lq.Location, lq.Location)
	}

	switch lq.Sort {
	case "oldest":
		tx = tx.Order("COALESCE(date, MAKEDATE(COALESCE(year, 9999), 1)) ASC")
	case "title":
		tx = tx.Order("title ASC")
	default:
		tx = tx.Order("COALESCE(date, MAKEDATE(COALESCE(year, 0), 1)) DESC, created_at DESC")
	}

	var items []models.AudioEntryModel
	pag, err := pagination.Paginate(tx, q, &items)
	return items, pag, err
}

// Featured returns the hand-ordered home page entries.
func (s *Service) Featured() ([]models.AudioEntryModel, error) {
	var items []models.AudioEntryModel
	err := s.db.Where("featured = ?", true).
		Order("display_order ASC, created_at DESC").
		Find(&items).Error
	return items, err
}

func (s *Service) GetByID(id string) (*models.AudioEntryModel, error) {
	var entry models.AudioEntryModel
	if err := s.db.First(&entry, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &entry, nil
}

func (s *Service) Create(dto *CreateAudioDTO) (*models.AudioEntryModel, error) {
	entry := models.AudioEntryModel{
		Title:         dto.Title,
		TitleAR:       dto.TitleAR,
		Description:   dto.Description,
		DescriptionAR: dto.DescriptionAR,
		AudioURL:      ExtractTrackURL(dto.AudioURL),
		Licence:       dto.Licence,
		Category:      dto.Category,
		CategoryAR:    dto.CategoryAR,
		Location:      dto.Location,
		LocationAR:    dto.LocationAR,
		Tags:          dto.Tags,
		TagsAR:        dto.TagsAR,
		DisplayOrder:  dto.DisplayOrder,
		Notes:         dto.Notes,
	}
	entry.DatePrecision, entry.Date, entry.Year = normalizeDate(dto.DatePrecision, dto.Date, dto.Year)
	if dto.Featured != nil {
		entry.Featured = *dto.Featured
	}
	return &entry, s.db.Create(&entry).Error
}

func (s *Service) Update(id string, dto *UpdateAudioDTO) (*models.AudioEntryModel, error) {
	entry, err := s.GetByID(id)
	if err != nil || entry == nil {
		return entry, err
	}

	updates := map[string]interface{}{}
	if dto.Title != nil {
		updates["title"] = *dto.Title
	}
	if dto.TitleAR != nil {
		updates["title_ar"] = *dto.TitleAR
	}
	if dto.Description != nil {
		updates["description"] = *dto.Description
	}
	if dto.DescriptionAR != nil {
		updates["description_ar"] = *dto.DescriptionAR
	}
	if dto.AudioURL != nil {
		updates["audio_url"] = ExtractTrackURL(*dto.AudioURL)
	}
	if dto.Licence != nil {
		updates["licence"] = *dto.Licence
	}
	if dto.Category != nil {
		updates["category"] = *dto.Category
	}
	if dto.CategoryAR != nil {
		updates["category_ar"] = *dto.CategoryAR
	}
	if dto.Location != nil {
		updates["location"] = *dto.Location
	}
	if dto.LocationAR != nil {
		updates["location_ar"] = *dto.LocationAR
	}
	if dto.Tags != nil {
		updates["tags"] = models.StringSlice(dto.Tags)
	}
	if dto.TagsAR != nil {
		updates["tags_ar"] = models.StringSlice(dto.TagsAR)
	}
	if dto.DatePrecision != nil {
		precision, date, year := normalizeDate(*dto.DatePrecision, dto.Date, dto.Year)
		updates["date_precision"] = precision
		updates["date"] = date
		updates["year"] = year
	}
	if dto.Featured != nil {
		updates["featured"] = *dto.Featured
	}
	if dto.DisplayOrder != nil {
		updates["display_order"] = *dto.DisplayOrder
	}
	if dto.Notes != nil {
		updates["notes"] = *dto.Notes
	}

	return entry, s.db.Model(entry).Updates(updates).Error
}

func (s *Service) Delete(id string) error {
	return s.db.Delete(&models.AudioEntryModel{}, "id = ?", id).Error
}

// normalizeDate keeps only the fields the precision allows: a full date
// clears the year, a year-only date clears the date, unknown clears both.
func normalizeDate(precision string, date *time.Time, year *int) (string, *time.Time, *int) {
	switch precision {
	case models.DatePrecisionFull:
		return precision, date, nil
	case models.DatePrecisionYear:
		return precision, nil, year
	default:
		return models.DatePrecisionUnknown, nil, nil
	}
}

type audioResponse struct {
	models.AudioEntryModel
	EmbedURL string `json:"embed_url"`
}

func toResponse(e *models.AudioEntryModel) audioResponse {
	return audioResponse{AudioEntryModel: *e, EmbedURL: EmbedURL(e.AudioURL)}
}

type Handler struct{ svc *Service }

func NewHandler(svc *Service) *Handler { return &Handler{svc: svc} }

func (h *Handler) RegisterRoutes(rg *gin.RouterGroup, authMW gin.HandlerFunc) {
	g := rg.Group("/audio")
	g.GET("", h.list)
	g.GET("/featured", h.featured)
	g.GET("/:id", h.get)

	a := g.Group("", authMW, middleware.RequireRole(models.RoleAdmin))
	a.POST("", h.create)
	a.PUT("/:id", h.update)
	a.DELETE("/:id", h.delete)
}

func (h *Handler) list(c *gin.Context) {
	q := pagination.FromContext(c)

	var lq ListQuery
	if err := c.ShouldBindQuery(&lq); err != nil {
		response.BadRequest(c, err.Error())
		return
	}
	items, pag, err := h.svc.List(q, lq)
	if err != nil {
		response.InternalError(c, err)
		return
	}
	out := make([]audioResponse, len(items))
	for i := range items {
		out[i] = toResponse(&items[i])
	}
	response.Paged(c, out, pag)
}

func (h *Handler) featured(c *gin.Context) {
	items, err := h.svc.Featured()
	if err != nil {
		response.InternalError(c, err)
		return
	}
	out := make([]audioResponse, len(items))
	for i := range items {
		out[i] = toResponse(&items[i])
	}
	response.OK(c, out)
}

func (h *Handler) get(c *gin.Context) {
	entry, err := h.svc.GetByID(c.Param("id"))
	if err != nil {
		response.InternalError(c, err)
		return
	}
	if entry == nil {
		response.NotFound(c)
		return
	}
	response.OK(c, toResponse(entry))
}

func (h *Handler) create(c *gin.Context) {
	var dto CreateAudioDTO
	if err := c.ShouldBindJSON(&dto); err != nil {
		response.BadRequest(c, err.Error())
		return
	}
	entry, err := h.svc.Create(&dto)
	if err != nil {
		response.InternalError(c, err)
		return
	}
	response.Created(c, toResponse(entry))
}

func (h *Handler) update(c *gin.Context) {
	var dto UpdateAudioDTO
	if err := c.ShouldBindJSON(&dto); err != nil {
		response.BadRequest(c, err.Error())
		return
	}
	entry, err := h.svc.Update(c.Param("id"), &dto)
	if err != nil {
		response.InternalError(c, err)
		return
	}
	if entry == nil {
		response.NotFound(c)
		return
	}
	response.OK(c, toResponse(entry))
}

func (h *Handler) delete(c *gin.Context) {
	if err := h.svc.Delete(c.Param("id")); err != nil {
		response.InternalError(c, err)
		return
	}
	response.NoContent(c)
}
