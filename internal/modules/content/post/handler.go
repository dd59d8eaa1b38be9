package post

import (
	"errors"

	"github.com/athar-archive/core/internal/middleware"
	"github.com/athar-archive/core/internal/models"
	"github.com/athar-archive/core/internal/pkg/pagination"
	"github.com/athar-archive/core/internal/pkg/response"
	"github.com/gin-gonic/gin"
)

// Handler handles blog post HTTP requests.
type Handler struct {
	svc *Service
}

func NewHandler(svc *Service) *Handler {
	return &Handler{svc: svc}
}

// RegisterRoutes mounts post routes onto the given router group.
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup, authMW gin.HandlerFunc) {
	posts := rg.Group("/posts")

	posts.GET("", h.list)
	posts.GET("/years", h.years)
	posts.GET("/:slug", h.getBySlug)

	authed := posts.Group("", authMW, middleware.RequireRole(models.RoleAdmin))
	authed.POST("", h.create)
	authed.PUT("/:slug", h.update)
	authed.DELETE("/:slug", h.delete)
}

// list GET /posts
func (h *Handler) list(c *gin.Context) {
	q := pagination.FromContext(c)

	var lq ListQuery
	if err := c.ShouldBindQuery(&lq); err != nil {
		response.BadRequest(c, err.Error())
		return
	}
	isAdmin := middleware.IsAuthenticated(c)

	posts, pag, err := h.svc.List(q, lq, isAdmin)
	if err != nil {
		response.InternalError(c, err)
		return
	}

	items := make([]postResponse, len(posts))
	for i := range posts {
		items[i] = toResponse(&posts[i], false, isAdmin)
	}
	response.Paged(c, items, pag)
}

// getBySlug GET /posts/:slug
func (h *Handler) getBySlug(c *gin.Context) {
	isAdmin := middleware.IsAuthenticated(c)
	post, err := h.svc.GetBySlug(c.Param("slug"), isAdmin)
	if err != nil {
		response.InternalError(c, err)
		return
	}
	if post == nil {
		response.NotFound(c)
		return
	}
	response.OK(c, toResponse(post, true, isAdmin))
}

// years GET /posts/years
func (h *Handler) years(c *gin.Context) {
	years, err := h.svc.Years()
	if err != nil {
		response.InternalError(c, err)
		return
	}
	response.OK(c, years)
}

// create POST /posts
func (h *Handler) create(c *gin.Context) {
	var dto CreatePostDTO
	if err := c.ShouldBindJSON(&dto); err != nil {
		response.BadRequest(c, err.Error())
		return
	}
	post, err := h.svc.Create(&dto, middleware.UserID(c))
	if err != nil {
		if errors.Is(err, ErrNoTitle) {
			response.UnprocessableEntity(c, err.Error())
			return
		}
		if errors.Is(err, ErrSlugTaken) {
			response.Conflict(c, err.Error())
			return
		}
		response.InternalError(c, err)
		return
	}
	response.Created(c, toResponse(post, true, true))
}

// update PUT /posts/:slug
func (h *Handler) update(c *gin.Context) {
	existing, err := h.svc.GetBySlug(c.Param("slug"), true)
	if err != nil {
		response.InternalError(c, err)
		return
	}
	if existing == nil {
		response.NotFound(c)
		return
	}

	var dto UpdatePostDTO
	if err := c.ShouldBindJSON(&dto); err != nil {
		response.BadRequest(c, err.Error())
		return
	}
	post, err := h.svc.Update(existing.ID, &dto)
	if err != nil {
		if errors.Is(err, ErrNoTitle) {
			response.UnprocessableEntity(c, err.Error())
			return
		}
		if errors.Is(err, ErrSlugTaken) {
			response.Conflict(c, err.Error())
			return
		}
		response.InternalError(c, err)
		return
	}
	if post == nil {
		response.NotFound(c)
		return
	}
	response.OK(c, toResponse(post, true, true))
}

// delete DELETE /posts/:slug
func (h *Handler) delete(c *gin.Context) {
	existing, err := h.svc.GetBySlug(c.Param("slug"), true)
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
