package post

import (
	"testing"
	"time"

	"github.com/athar-archive/core/internal/models"
	"github.com/stretchr/testify/assert"
)

func strptr(s string) *string { return &s }

func TestCreateRequiresTitle(t *testing.T) {
	svc := NewService(nil)

	_, err := svc.Create(&CreatePostDTO{CategoryID: "cat"}, "admin")
	assert.ErrorIs(t, err, ErrNoTitle)

	blank := strptr("   ")
	_, err = svc.Create(&CreatePostDTO{CategoryID: "cat", TitleEN: blank, TitleAR: blank}, "admin")
	assert.ErrorIs(t, err, ErrNoTitle)
}

func TestPublishedDateDefaultsToNow(t *testing.T) {
	got := publishedDateOf(&CreatePostDTO{})
	assert.False(t, got.IsZero())
	assert.WithinDuration(t, time.Now(), got, time.Minute)

	explicit := time.Date(2020, 6, 1, 0, 0, 0, 0, time.UTC)
	assert.Equal(t, explicit, publishedDateOf(&CreatePostDTO{PublishedDate: &explicit}))
}

func TestTitleGate(t *testing.T) {
	enOnly := &models.BlogPostModel{TitleEN: strptr("Hello")}
	both := &models.BlogPostModel{TitleEN: strptr("Hello"), TitleAR: strptr("مرحبا")}

	// Clearing the only title leaves the post unreachable in every listing.
	assert.ErrorIs(t, titleGate(enOnly, &UpdatePostDTO{TitleEN: strptr("")}), ErrNoTitle)
	assert.ErrorIs(t, titleGate(enOnly, &UpdatePostDTO{TitleEN: strptr("  ")}), ErrNoTitle)

	// Clearing one of two is fine.
	assert.NoError(t, titleGate(both, &UpdatePostDTO{TitleEN: strptr("")}))

	// Clearing both at once is not.
	assert.ErrorIs(t, titleGate(both, &UpdatePostDTO{TitleEN: strptr(""), TitleAR: strptr("")}), ErrNoTitle)

	// Swapping languages in one patch is fine.
	assert.NoError(t, titleGate(enOnly, &UpdatePostDTO{TitleEN: strptr(""), TitleAR: strptr("مرحبا")}))

	// A patch that never touches titles passes.
	assert.NoError(t, titleGate(enOnly, &UpdatePostDTO{}))
}
