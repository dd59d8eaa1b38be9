package render

import (
	"errors"
	"html/template"
	"net/http"
	"strings"

	"github.com/athar-archive/core/internal/middleware"
	"github.com/athar-archive/core/internal/models"
	jwtpkg "github.com/athar-archive/core/internal/pkg/jwt"
	"github.com/athar-archive/core/internal/pkg/response"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

type Handler struct {
	db *gorm.DB
}

func NewHandler(db *gorm.DB) *Handler { return &Handler{db: db} }

func (h *Handler) RegisterRoutes(rg *gin.RouterGroup, authMW gin.HandlerFunc) {
	g := rg.Group("/render")
	g.GET("/posts/:slug", h.renderPost)
	g.POST("/preview", authMW, h.preview)
}

func (h *Handler) renderPost(c *gin.Context) {
	slug := strings.TrimSpace(c.Param("slug"))
	if slug == "" {
		response.NotFound(c)
		return
	}
	lang := c.DefaultQuery("lang", "en")
	if lang != "en" && lang != "ar" {
		response.BadRequest(c, "lang must be en or ar")
		return
	}

	var post models.BlogPostModel
	if err := h.db.First(&post, "slug = ?", slug).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			response.NotFound(c)
			return
		}
		response.InternalError(c, err)
		return
	}

	if !post.Published && !hasRenderAccess(c) {
		response.Forbidden(c)
		return
	}
	if !post.HasLanguage(lang) {
		response.NotFound(c)
		return
	}

	title, content := "", ""
	if lang == "ar" {
		title = deref(post.TitleAR)
		content = deref(post.ContentAR)
	} else {
		title = deref(post.TitleEN)
		content = deref(post.ContentEN)
	}

	doc := Hydrate(content, lang == "ar")
	c.Header("Content-Type", "text/html; charset=utf-8")
	c.String(http.StatusOK, renderPage(title, doc))
}

type previewDTO struct {
	Markup string `json:"markup" binding:"required"`
	Title  string `json:"title"`
	Lang   string `json:"lang"`
}

func (h *Handler) preview(c *gin.Context) {
	var dto previewDTO
	if err := c.ShouldBindJSON(&dto); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	doc := Hydrate(dto.Markup, dto.Lang == "ar")
	c.Header("Content-Type", "text/html; charset=utf-8")
	c.String(http.StatusOK, renderPage(dto.Title, doc))
}

func hasRenderAccess(c *gin.Context) bool {
	if middleware.IsAuthenticated(c) {
		return true
	}
	token := strings.TrimSpace(c.Query("token"))
	if token == "" {
		return false
	}
	if strings.HasPrefix(strings.ToLower(token), "bearer ") {
		token = strings.TrimSpace(token[7:])
	}
	_, err := jwtpkg.Parse(token)
	return err == nil
}

// renderPage wraps the hydrated body in a full page. The trailing bootstrap
// re-creates every script found in embed content after the DOM settles,
// since injected markup never executes them on its own.
func renderPage(title string, doc *Document) string {
	escapedTitle := template.HTMLEscapeString(strings.TrimSpace(title))
	return `<!doctype html>
<html lang="` + pageLang(doc.Dir) + `" dir="` + doc.Dir + `">
<head>
  <meta charset="utf-8" />
  <meta name="viewport" content="width=device-width, initial-scale=1" />
  <title>` + escapedTitle + `</title>
  <style>
    body { margin: 0; padding: 24px; font: 17px/1.8 Georgia, "Noto Naskh Arabic", serif; color: #1a1a1a; background: #fff; }
    article { max-width: 740px; margin: 0 auto; word-break: break-word; }
    h1 { margin: 0 0 24px; font-size: 30px; }
    .pull-quote { margin: 32px 0; padding: 0 24px; border-inline-start: 3px solid #b08d57; font-size: 22px; font-style: italic; }
    .image-with-caption { margin: 28px 0; }
    .image-with-caption img { max-width: 100%; }
    .image-caption { margin-top: 8px; font-size: 14px; color: #666; }
    .footnote-ref a { text-decoration: none; color: #b08d57; }
    .footnotes-section { margin-top: 48px; padding-top: 16px; border-top: 1px solid #ddd; font-size: 14px; }
    .footnotes-title { font-weight: 700; margin-bottom: 12px; }
    .footnote-item { margin-bottom: 8px; }
  </style>
</head>
<body>
  <article dir="` + doc.Dir + `">
    <h1>` + escapedTitle + `</h1>
` + doc.Body + `
  </article>
  <script>
    setTimeout(function () {
      document.querySelectorAll('.html-embed-content script').forEach(function (old) {
        var s = document.createElement('script');
        Array.from(old.attributes).forEach(function (a) { s.setAttribute(a.name, a.value); });
        if (old.textContent) { s.textContent = old.textContent; }
        old.parentNode.replaceChild(s, old);
      });
    }, 100);
  </script>
</body>
</html>`
}

func pageLang(dir string) string {
	if dir == "rtl" {
		return "ar"
	}
	return "en"
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
