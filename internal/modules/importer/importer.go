package importer

import (
	"bytes"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	htmlrenderer "github.com/yuin/goldmark/renderer/html"
	"gorm.io/gorm"

	"github.com/athar-archive/core/internal/middleware"
	"github.com/athar-archive/core/internal/models"
	"github.com/athar-archive/core/internal/modules/content/post"
	"github.com/athar-archive/core/internal/modules/document"
	"github.com/athar-archive/core/internal/pkg/response"
	"github.com/athar-archive/core/internal/pkg/slugify"
)

// markdownEngine converts imported markdown to HTML. The HTML is then
// round-tripped through the document parser so the stored markup is
// canonical, never raw goldmark output.
var markdownEngine = goldmark.New(
	goldmark.WithExtensions(
		extension.GFM,
		extension.Linkify,
	),
	goldmark.WithRendererOptions(
		htmlrenderer.WithXHTML(),
	),
)

// ConvertMarkdown renders markdown into the canonical document markup.
// Constructs the document model cannot express (tables, code blocks) survive
// as paragraph text rather than failing the import.
func ConvertMarkdown(markdown string) (string, error) {
	text := strings.TrimSpace(markdown)
	if text == "" {
		return "", nil
	}

	var out bytes.Buffer
	if err := markdownEngine.Convert([]byte(text), &out); err != nil {
		return "", err
	}

	doc, err := document.Parse(out.String())
	if err != nil {
		return "", err
	}
	return document.Serialize(doc), nil
}

type importItem struct {
	Title    string `json:"title" binding:"required"`
	Markdown string `json:"markdown" binding:"required"`
	Slug     string `json:"slug"`
}

type importDTO struct {
	Lang       string       `json:"lang" binding:"required,oneof=en ar"`
	CategoryID string       `json:"category_id" binding:"required"`
	AuthorID   *string      `json:"author_id"`
	Data       []importItem `json:"data" binding:"required,min=1"`
}

type Handler struct {
	db    *gorm.DB
	posts *post.Service
}

func NewHandler(db *gorm.DB, posts *post.Service) *Handler {
	return &Handler{db: db, posts: posts}
}

func (h *Handler) RegisterRoutes(rg *gin.RouterGroup, authMW gin.HandlerFunc) {
	g := rg.Group("/import", authMW, middleware.RequireRole(models.RoleAdmin))
	g.POST("", h.importMarkdown)
}

// POST /import batch-converts markdown documents into unpublished posts.
// Items whose explicit slug is already taken are skipped, not failed, so a
// partial re-run of the same batch is safe.
func (h *Handler) importMarkdown(c *gin.Context) {
	var dto importDTO
	if err := c.ShouldBindJSON(&dto); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	var count int64
	h.db.Model(&models.CategoryModel{}).Where("id = ?", dto.CategoryID).Count(&count)
	if count == 0 {
		response.UnprocessableEntity(c, "category not found")
		return
	}

	imported := 0
	skipped := 0
	for _, item := range dto.Data {
		markup, err := ConvertMarkdown(item.Markdown)
		if err != nil {
			skipped++
			continue
		}

		slug := strings.TrimSpace(item.Slug)
		if slug != "" {
			var taken int64
			h.db.Model(&models.BlogPostModel{}).Where("slug = ?", slug).Count(&taken)
			if taken > 0 {
				skipped++
				continue
			}
		} else {
			slug = h.posts.UniqueSlug(slugify.Slugify(item.Title), "")
		}

		title := strings.TrimSpace(item.Title)
		create := post.CreatePostDTO{
			Slug:       slug,
			CategoryID: dto.CategoryID,
			AuthorID:   dto.AuthorID,
		}
		if dto.Lang == "ar" {
			create.TitleAR = &title
			create.ContentAR = &markup
		} else {
			create.TitleEN = &title
			create.ContentEN = &markup
		}

		if _, err := h.posts.Create(&create, middleware.UserID(c)); err != nil {
			skipped++
			continue
		}
		imported++
	}

	response.OK(c, gin.H{"imported": imported, "skipped": skipped})
}
