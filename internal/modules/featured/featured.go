package featured

import (
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/athar-archive/core/internal/middleware"
	"github.com/athar-archive/core/internal/models"
	"github.com/athar-archive/core/internal/pkg/response"
	"github.com/gin-gonic/gin"
	"github.com/go-sql-driver/mysql"
	"gorm.io/gorm"
)

const (
	maxSlotsOption  = "editors_choice_max_slots"
	defaultMaxSlots = 6
	minSlots        = 2
	maxSlots        = 6
	defaultWindow   = 7 * 24 * time.Hour
)

var (
	ErrCapacity  = errors.New("editors' choice slots are full")
	ErrDuplicate = errors.New("post is already an editors' pick")
	ErrBadWindow = errors.New("scheduled end must be after scheduled start")
	ErrBadOrder  = errors.New("reorder must list every pick exactly once")
)

type AddPickDTO struct {
	BlogPostID     string     `json:"blog_post_id" binding:"required"`
	ScheduledStart *time.Time `json:"scheduled_start"`
	ScheduledEnd   *time.Time `json:"scheduled_end"`
	NoEnd          bool       `json:"no_end"`
}

type ScheduleDTO struct {
	ScheduledStart time.Time  `json:"scheduled_start" binding:"required"`
	ScheduledEnd   *time.Time `json:"scheduled_end"`
}

type ReorderDTO struct {
	IDs []string `json:"ids" binding:"required"`
}

type SlotsDTO struct {
	MaxSlots int `json:"max_slots" binding:"required"`
}

type pickResponse struct {
	ID             string                `json:"id"`
	BlogPostID     string                `json:"blog_post_id"`
	BlogPost       *models.BlogPostModel `json:"blog_post,omitempty"`
	DisplayOrder   int                   `json:"display_order"`
	ScheduledStart time.Time             `json:"scheduled_start"`
	ScheduledEnd   *time.Time            `json:"scheduled_end"`
	State          State                 `json:"state"`
	Created        time.Time             `json:"created"`
	Modified       time.Time             `json:"modified"`
}

func toResponse(p *models.EditorsPickModel, now time.Time) pickResponse {
	return pickResponse{
		ID:             p.ID,
		BlogPostID:     p.BlogPostID,
		BlogPost:       p.BlogPost,
		DisplayOrder:   p.DisplayOrder,
		ScheduledStart: p.ScheduledStart,
		ScheduledEnd:   p.ScheduledEnd,
		State:          Classify(p.ScheduledStart, p.ScheduledEnd, now),
		Created:        p.CreatedAt,
		Modified:       p.UpdatedAt,
	}
}

type Service struct {
	db  *gorm.DB
	now func() time.Time
}

func NewService(db *gorm.DB) *Service {
	return &Service{db: db, now: time.Now}
}

// MaxSlots reads the admin-configured slot limit, clamped to the allowed
// range. Missing or unparseable values fall back to the default.
func (s *Service) MaxSlots() int {
	var opt models.OptionModel
	if err := s.db.First(&opt, "name = ?", maxSlotsOption).Error; err != nil {
		return defaultMaxSlots
	}
	n, err := strconv.Atoi(opt.Value)
	if err != nil {
		return defaultMaxSlots
	}
	if n < minSlots {
		return minSlots
	}
	if n > maxSlots {
		return maxSlots
	}
	return n
}

// SetMaxSlots stores a new limit. Lowering below the current pick count is
// allowed and evicts nothing: existing picks stay until removed by hand,
// only new additions are blocked.
func (s *Service) SetMaxSlots(n int) error {
	if n < minSlots || n > maxSlots {
		return fmt.Errorf("max slots must be between %d and %d", minSlots, maxSlots)
	}
	opt := models.OptionModel{Name: maxSlotsOption, Value: strconv.Itoa(n)}
	return s.db.
		Where("name = ?", maxSlotsOption).
		Assign(map[string]interface{}{"value": opt.Value}).
		FirstOrCreate(&opt).Error
}

func (s *Service) List() ([]models.EditorsPickModel, error) {
	var picks []models.EditorsPickModel
	err := s.db.Preload("BlogPost").Preload("BlogPost.Category").Preload("BlogPost.Author").
		Order("display_order ASC").Find(&picks).Error
	return picks, err
}

// Active returns the picks whose window contains now, in display order.
// This is the home page feed.
func (s *Service) Active() ([]models.EditorsPickModel, error) {
	picks, err := s.List()
	if err != nil {
		return nil, err
	}
	return ActiveSet(picks, s.now()), nil
}

// Add creates a pick at the end of the order. The window defaults to
// starting now and running a week unless the caller opts into no end date.
func (s *Service) Add(dto *AddPickDTO, selectedBy string) (*models.EditorsPickModel, error) {
	start := s.now()
	if dto.ScheduledStart != nil {
		start = *dto.ScheduledStart
	}
	end := dto.ScheduledEnd
	if end == nil && !dto.NoEnd {
		e := start.Add(defaultWindow)
		end = &e
	}
	if end != nil && !end.After(start) {
		return nil, ErrBadWindow
	}

	var pick models.EditorsPickModel
	err := s.db.Transaction(func(tx *gorm.DB) error {
		var count int64
		if err := tx.Model(&models.EditorsPickModel{}).Count(&count).Error; err != nil {
			return err
		}
		if count >= int64(s.MaxSlots()) {
			return ErrCapacity
		}
		pick = models.EditorsPickModel{
			BlogPostID:     dto.BlogPostID,
			DisplayOrder:   int(count),
			ScheduledStart: start,
			ScheduledEnd:   end,
			SelectedBy:     &selectedBy,
		}
		if err := tx.Create(&pick).Error; err != nil {
			if isDuplicateErr(err) {
				return ErrDuplicate
			}
			return err
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &pick, nil
}

// UpdateWindow rewrites the schedule only, never the order.
func (s *Service) UpdateWindow(id string, dto *ScheduleDTO) (*models.EditorsPickModel, error) {
	if dto.ScheduledEnd != nil && !dto.ScheduledEnd.After(dto.ScheduledStart) {
		return nil, ErrBadWindow
	}
	pick, err := s.getByID(id)
	if err != nil || pick == nil {
		return pick, err
	}
	err = s.db.Model(pick).Updates(map[string]interface{}{
		"scheduled_start": dto.ScheduledStart,
		"scheduled_end":   dto.ScheduledEnd,
	}).Error
	return pick, err
}

// Reorder applies a full permutation of the current picks in one
// transaction. Either every row gets its new rank or none do, so a failure
// mid-way can never leave the order half-rewritten.
func (s *Service) Reorder(ids []string) error {
	return s.db.Transaction(func(tx *gorm.DB) error {
		var picks []models.EditorsPickModel
		if err := tx.Find(&picks).Error; err != nil {
			return err
		}
		if len(ids) != len(picks) {
			return ErrBadOrder
		}
		existing := make(map[string]bool, len(picks))
		for _, p := range picks {
			existing[p.ID] = true
		}
		for _, id := range ids {
			if !existing[id] {
				return ErrBadOrder
			}
			delete(existing, id)
		}
		for i, id := range ids {
			if err := tx.Model(&models.EditorsPickModel{}).
				Where("id = ?", id).
				Update("display_order", i).Error; err != nil {
				return err
			}
		}
		return nil
	})
}

// Remove deletes a pick and closes the gap it leaves, keeping display_order
// dense and 0-based.
func (s *Service) Remove(id string) error {
	return s.db.Transaction(func(tx *gorm.DB) error {
		res := tx.Delete(&models.EditorsPickModel{}, "id = ?", id)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}
		var picks []models.EditorsPickModel
		if err := tx.Order("display_order ASC").Find(&picks).Error; err != nil {
			return err
		}
		for i, p := range picks {
			if p.DisplayOrder == i {
				continue
			}
			if err := tx.Model(&models.EditorsPickModel{}).
				Where("id = ?", p.ID).
				Update("display_order", i).Error; err != nil {
				return err
			}
		}
		return nil
	})
}

func (s *Service) getByID(id string) (*models.EditorsPickModel, error) {
	var p models.EditorsPickModel
	if err := s.db.First(&p, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &p, nil
}

func isDuplicateErr(err error) bool {
	var mysqlErr *mysql.MySQLError
	if errors.As(err, &mysqlErr) {
		return mysqlErr.Number == 1062
	}
	return errors.Is(err, gorm.ErrDuplicatedKey)
}

type Handler struct {
	svc *Service
}

func NewHandler(svc *Service) *Handler { return &Handler{svc: svc} }

func (h *Handler) RegisterRoutes(rg *gin.RouterGroup, authMW gin.HandlerFunc) {
	g := rg.Group("/editors-picks")
	g.GET("/active", h.active)

	a := g.Group("", authMW, middleware.RequireRole(models.RoleAdmin))
	a.GET("", h.list)
	a.POST("", h.add)
	a.PUT("/reorder", h.reorder)
	a.PUT("/:id/schedule", h.schedule)
	a.DELETE("/:id", h.remove)
	a.GET("/settings", h.getSettings)
	a.PUT("/settings", h.putSettings)
}

func (h *Handler) active(c *gin.Context) {
	picks, err := h.svc.Active()
	if err != nil {
		response.InternalError(c, err)
		return
	}
	now := h.svc.now()
	out := make([]pickResponse, len(picks))
	for i := range picks {
		out[i] = toResponse(&picks[i], now)
	}
	response.OK(c, out)
}

func (h *Handler) list(c *gin.Context) {
	picks, err := h.svc.List()
	if err != nil {
		response.InternalError(c, err)
		return
	}
	now := h.svc.now()
	out := make([]pickResponse, len(picks))
	for i := range picks {
		out[i] = toResponse(&picks[i], now)
	}
	response.OK(c, gin.H{
		"picks":     out,
		"max_slots": h.svc.MaxSlots(),
	})
}

func (h *Handler) add(c *gin.Context) {
	var dto AddPickDTO
	if err := c.ShouldBindJSON(&dto); err != nil {
		response.BadRequest(c, err.Error())
		return
	}
	pick, err := h.svc.Add(&dto, middleware.UserID(c))
	if err != nil {
		switch {
		case errors.Is(err, ErrDuplicate):
			response.Conflict(c, err.Error())
		case errors.Is(err, ErrCapacity):
			response.UnprocessableEntity(c, err.Error())
		case errors.Is(err, ErrBadWindow):
			response.BadRequest(c, err.Error())
		default:
			response.InternalError(c, err)
		}
		return
	}
	response.Created(c, toResponse(pick, h.svc.now()))
}

func (h *Handler) reorder(c *gin.Context) {
	var dto ReorderDTO
	if err := c.ShouldBindJSON(&dto); err != nil {
		response.BadRequest(c, err.Error())
		return
	}
	if err := h.svc.Reorder(dto.IDs); err != nil {
		if errors.Is(err, ErrBadOrder) {
			response.UnprocessableEntity(c, err.Error())
			return
		}
		response.InternalError(c, err)
		return
	}
	response.NoContent(c)
}

func (h *Handler) schedule(c *gin.Context) {
	var dto ScheduleDTO
	if err := c.ShouldBindJSON(&dto); err != nil {
		response.BadRequest(c, err.Error())
		return
	}
	pick, err := h.svc.UpdateWindow(c.Param("id"), &dto)
	if err != nil {
		if errors.Is(err, ErrBadWindow) {
			response.BadRequest(c, err.Error())
			return
		}
		response.InternalError(c, err)
		return
	}
	if pick == nil {
		response.NotFound(c)
		return
	}
	response.OK(c, toResponse(pick, h.svc.now()))
}

func (h *Handler) remove(c *gin.Context) {
	if err := h.svc.Remove(c.Param("id")); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			response.NotFound(c)
			return
		}
		response.InternalError(c, err)
		return
	}
	response.NoContent(c)
}

func (h *Handler) getSettings(c *gin.Context) {
	response.OK(c, gin.H{"max_slots": h.svc.MaxSlots()})
}

func (h *Handler) putSettings(c *gin.Context) {
	var dto SlotsDTO
	if err := c.ShouldBindJSON(&dto); err != nil {
		response.BadRequest(c, err.Error())
		return
	}
	if err := h.svc.SetMaxSlots(dto.MaxSlots); err != nil {
		response.BadRequest(c, err.Error())
		return
	}
	response.OK(c, gin.H{"max_slots": h.svc.MaxSlots()})
}
