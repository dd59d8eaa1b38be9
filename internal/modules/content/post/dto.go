package post

import (
	"time"

	"github.com/athar-archive/core/internal/models"
)

type CreatePostDTO struct {
	Slug             string     `json:"slug"`
	TitleEN          *string    `json:"title_en"`
	TitleAR          *string    `json:"title_ar"`
	ContentEN        *string    `json:"content_en"`
	ContentAR        *string    `json:"content_ar"`
	FeaturedImageURL *string    `json:"featured_image_url"`
	CategoryID       string     `json:"category_id" binding:"required"`
	AuthorID         *string    `json:"author_id"`
	Published        *bool      `json:"published"`
	PublishedDate    *time.Time `json:"published_date"`
	AdminNotes       *string    `json:"admin_notes"`
}

type UpdatePostDTO struct {
	Slug             *string    `json:"slug"`
	TitleEN          *string    `json:"title_en"`
	TitleAR          *string    `json:"title_ar"`
	ContentEN        *string    `json:"content_en"`
	ContentAR        *string    `json:"content_ar"`
	FeaturedImageURL *string    `json:"featured_image_url"`
	CategoryID       *string    `json:"category_id"`
	AuthorID         *string    `json:"author_id"`
	Published        *bool      `json:"published"`
	PublishedDate    *time.Time `json:"published_date"`
	AdminNotes       *string    `json:"admin_notes"`
}

// ListQuery captures the public listing filters. Lang partitions the feed:
// only posts that exist in that language appear.
type ListQuery struct {
	Lang     string `form:"lang"`
	Category string `form:"category"`
	Author   string `form:"author"`
	Year     *int   `form:"year"`
	Search   string `form:"search"`
}

type postResponse struct {
	ID               string                `json:"id"`
	Slug             string                `json:"slug"`
	TitleEN          *string               `json:"title_en"`
	TitleAR          *string               `json:"title_ar"`
	ContentEN        *string               `json:"content_en,omitempty"`
	ContentAR        *string               `json:"content_ar,omitempty"`
	ExcerptEN        *string               `json:"excerpt_en"`
	ExcerptAR        *string               `json:"excerpt_ar"`
	WordCountEN      int                   `json:"word_count_en"`
	WordCountAR      int                   `json:"word_count_ar"`
	ReadingTimeEN    int                   `json:"reading_time_en"`
	ReadingTimeAR    int                   `json:"reading_time_ar"`
	FeaturedImageURL *string               `json:"featured_image_url"`
	CategoryID       string                `json:"category_id"`
	Category         *models.CategoryModel `json:"category,omitempty"`
	AuthorID         *string               `json:"author_id"`
	Author           *models.AuthorModel   `json:"author,omitempty"`
	Published        bool                  `json:"published"`
	PublishedDate    time.Time             `json:"published_date"`
	AdminNotes       *string               `json:"admin_notes,omitempty"`
	Created          time.Time             `json:"created"`
	Modified         time.Time             `json:"modified"`
}

func toResponse(p *models.BlogPostModel, withContent, isAdmin bool) postResponse {
	resp := postResponse{
		ID:               p.ID,
		Slug:             p.Slug,
		TitleEN:          p.TitleEN,
		TitleAR:          p.TitleAR,
		ExcerptEN:        p.ExcerptEN,
		ExcerptAR:        p.ExcerptAR,
		WordCountEN:      p.WordCountEN,
		WordCountAR:      p.WordCountAR,
		ReadingTimeEN:    readingMinutes(p.WordCountEN),
		ReadingTimeAR:    readingMinutes(p.WordCountAR),
		FeaturedImageURL: p.FeaturedImageURL,
		CategoryID:       p.CategoryID,
		Category:         p.Category,
		AuthorID:         p.AuthorID,
		Author:           p.Author,
		Published:        p.Published,
		PublishedDate:    p.PublishedDate,
		Created:          p.CreatedAt,
		Modified:         p.UpdatedAt,
	}
	if withContent {
		resp.ContentEN = p.ContentEN
		resp.ContentAR = p.ContentAR
	}
	if isAdmin {
		resp.AdminNotes = p.AdminNotes
	}
	return resp
}

func readingMinutes(words int) int {
	if words == 0 {
		return 0
	}
	const wordsPerMinute = 200
	return (words + wordsPerMinute - 1) / wordsPerMinute
}
