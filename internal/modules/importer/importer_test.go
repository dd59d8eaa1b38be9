package importer

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/athar-archive/core/internal/middleware"
	"github.com/athar-archive/core/internal/models"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConvertMarkdownBasics(t *testing.T) {
	out, err := ConvertMarkdown("# Title\n\nA paragraph with **bold** and *italic* text.")
	require.NoError(t, err)
	assert.Equal(t,
		"<h1>Title</h1><p>A paragraph with <strong>bold</strong> and <em>italic</em> text.</p>",
		out)
}

func TestConvertMarkdownLink(t *testing.T) {
	out, err := ConvertMarkdown("see [the archive](https://example.com)")
	require.NoError(t, err)
	assert.Equal(t,
		`<p>see <a href="https://example.com" target="_blank" rel="noopener noreferrer">the archive</a></p>`,
		out)
}

func TestConvertMarkdownLists(t *testing.T) {
	out, err := ConvertMarkdown("- one\n- two")
	require.NoError(t, err)
	assert.Equal(t, "<ul><li><p>one</p></li><li><p>two</p></li></ul>", out)

	out, err = ConvertMarkdown("1. first\n2. second")
	require.NoError(t, err)
	assert.Equal(t, "<ol><li><p>first</p></li><li><p>second</p></li></ol>", out)
}

func TestConvertMarkdownBlockElements(t *testing.T) {
	out, err := ConvertMarkdown("> quoted line")
	require.NoError(t, err)
	assert.Equal(t, "<blockquote><p>quoted line</p></blockquote>", out)

	out, err = ConvertMarkdown("above\n\n---\n\nbelow")
	require.NoError(t, err)
	assert.Equal(t, "<p>above</p><hr><p>below</p>", out)
}

func TestImportRequiresAdmin(t *testing.T) {
	gin.SetMode(gin.TestMode)
	router := gin.New()

	asUser := func(c *gin.Context) {
		c.Set(middleware.ContextKeyUserID, "u1")
		c.Set(middleware.ContextKeyRole, models.RoleUser)
		c.Next()
	}
	NewHandler(nil, nil).RegisterRoutes(router.Group("/api/v1"), asUser)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/import",
		strings.NewReader(`{"lang":"en","category_id":"c1","data":[{"title":"t","markdown":"m"}]}`))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusForbidden, rec.Code)
}

func TestConvertMarkdownEmpty(t *testing.T) {
	out, err := ConvertMarkdown("   \n  ")
	require.NoError(t, err)
	assert.Equal(t, "", out)
}
