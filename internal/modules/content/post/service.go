package post

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/athar-archive/core/internal/models"
	"github.com/athar-archive/core/internal/modules/document"
	"github.com/athar-archive/core/internal/pkg/pagination"
	"github.com/athar-archive/core/internal/pkg/response"
	"github.com/athar-archive/core/internal/pkg/slugify"
	"gorm.io/gorm"
)

var (
	ErrNoTitle   = errors.New("at least one title (English or Arabic) is required")
	ErrSlugTaken = errors.New("slug already exists")
)

// Service handles blog post business logic.
type Service struct {
	db *gorm.DB
}

func NewService(db *gorm.DB) *Service {
	return &Service{db: db}
}

// List returns a paginated list of posts. Public callers only see
// published posts that exist in the requested language.
func (s *Service) List(q pagination.Query, lq ListQuery, isAdmin bool) ([]models.BlogPostModel, response.Pagination, error) {
	tx := s.db.Model(&models.BlogPostModel{}).
		Preload("Category").
		Preload("Author").
		Order("published_date DESC, created_at DESC")

	if !isAdmin {
		tx = tx.Where("published = ?", true)
	}
	switch lq.Lang {
	case "en":
		tx = tx.Where("title_en IS NOT NULL AND title_en <> ''")
	case "ar":
		tx = tx.Where("title_ar IS NOT NULL AND title_ar <> ''")
	}
	if lq.Category != "" {
		tx = tx.Where("category_id = ?", lq.Category)
	}
	if lq.Author != "" {
		tx = tx.Joins("JOIN authors ON authors.id = blog_posts.author_id").
			Where("authors.slug = ?", lq.Author)
	}
	if lq.Year != nil {
		tx = tx.Where("YEAR(published_date) = ?", *lq.Year)
	}
	if lq.Search != "" {
		needle := "%" + slugify.NormalizeAlef(lq.Search) + "%"
		tx = tx.Where(
			"title_en LIKE ? OR REPLACE(REPLACE(REPLACE(title_ar, 'أ', 'ا'), 'إ', 'ا'), 'آ', 'ا') LIKE ?",
			needle, needle,
		)
	}

	var posts []models.BlogPostModel
	pag, err := pagination.Paginate(tx, q, &posts)
	return posts, pag, err
}

// GetBySlug fetches a single post by slug.
func (s *Service) GetBySlug(slug string, isAdmin bool) (*models.BlogPostModel, error) {
	var post models.BlogPostModel
	tx := s.db.Preload("Category").Preload("Author").Where("slug = ?", slug)
	if !isAdmin {
		tx = tx.Where("published = ?", true)
	}
	if err := tx.First(&post).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &post, nil
}

// GetByID fetches a single post by ID.
func (s *Service) GetByID(id string) (*models.BlogPostModel, error) {
	var post models.BlogPostModel
	if err := s.db.Preload("Category").Preload("Author").First(&post, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &post, nil
}

// Create inserts a new post. Slug defaults to a transliteration of the
// first available title, probed against existing slugs until unique.
// Excerpts and word counts are derived from the content, never taken from
// the caller.
func (s *Service) Create(dto *CreatePostDTO, createdBy string) (*models.BlogPostModel, error) {
	if isBlank(dto.TitleEN) && isBlank(dto.TitleAR) {
		return nil, ErrNoTitle
	}

	slug := dto.Slug
	if slug == "" {
		slug = s.UniqueSlug(slugBase(dto.TitleEN, dto.TitleAR), "")
	} else {
		var count int64
		s.db.Model(&models.BlogPostModel{}).Where("slug = ?", slug).Count(&count)
		if count > 0 {
			return nil, ErrSlugTaken
		}
	}

	post := models.BlogPostModel{
		Slug:             slug,
		TitleEN:          trimmed(dto.TitleEN),
		TitleAR:          trimmed(dto.TitleAR),
		ContentEN:        trimmed(dto.ContentEN),
		ContentAR:        trimmed(dto.ContentAR),
		FeaturedImageURL: dto.FeaturedImageURL,
		CategoryID:       dto.CategoryID,
		AuthorID:         dto.AuthorID,
		AdminNotes:       dto.AdminNotes,
	}
	deriveContentFields(&post)
	if dto.Published != nil {
		post.Published = *dto.Published
	}
	post.PublishedDate = publishedDateOf(dto)
	if createdBy != "" {
		post.CreatedBy = &createdBy
	}

	if err := s.db.Create(&post).Error; err != nil {
		return nil, err
	}
	return &post, nil
}

// Update patches a post by ID, re-deriving excerpts and word counts when
// content changes.
func (s *Service) Update(id string, dto *UpdatePostDTO) (*models.BlogPostModel, error) {
	post, err := s.GetByID(id)
	if err != nil || post == nil {
		return post, err
	}

	updates := map[string]interface{}{}
	if dto.Slug != nil && *dto.Slug != post.Slug {
		var count int64
		s.db.Model(&models.BlogPostModel{}).
			Where("slug = ? AND id <> ?", *dto.Slug, id).Count(&count)
		if count > 0 {
			return nil, ErrSlugTaken
		}
		updates["slug"] = *dto.Slug
	}
	if err := titleGate(post, dto); err != nil {
		return nil, err
	}
	if dto.TitleEN != nil {
		updates["title_en"] = nilIfBlank(*dto.TitleEN)
	}
	if dto.TitleAR != nil {
		updates["title_ar"] = nilIfBlank(*dto.TitleAR)
	}
	if dto.ContentEN != nil {
		content := nilIfBlank(*dto.ContentEN)
		updates["content_en"] = content
		updates["excerpt_en"] = excerptOf(content)
		updates["word_count_en"] = wordCountOf(content)
	}
	if dto.ContentAR != nil {
		content := nilIfBlank(*dto.ContentAR)
		updates["content_ar"] = content
		updates["excerpt_ar"] = excerptOf(content)
		updates["word_count_ar"] = wordCountOf(content)
	}
	if dto.FeaturedImageURL != nil {
		updates["featured_image_url"] = nilIfBlank(*dto.FeaturedImageURL)
	}
	if dto.CategoryID != nil {
		updates["category_id"] = *dto.CategoryID
	}
	if dto.AuthorID != nil {
		updates["author_id"] = nilIfBlank(*dto.AuthorID)
	}
	if dto.Published != nil {
		updates["published"] = *dto.Published
	}
	if dto.PublishedDate != nil {
		updates["published_date"] = *dto.PublishedDate
	}
	if dto.AdminNotes != nil {
		updates["admin_notes"] = nilIfBlank(*dto.AdminNotes)
	}

	if err := s.db.Model(post).Updates(updates).Error; err != nil {
		return nil, err
	}
	return s.GetByID(id)
}

// Delete soft-deletes a post. Picks referencing it keep their row but stop
// resolving, so the home feed simply drops them.
func (s *Service) Delete(id string) error {
	return s.db.Delete(&models.BlogPostModel{}, "id = ?", id).Error
}

// UniqueSlug probes slug candidates until one is free, suffixing a counter
// like the site has always done.
func (s *Service) UniqueSlug(base, excludeID string) string {
	slug := slugify.Slugify(base)
	if slug == "" {
		slug = "post"
	}
	candidate := slug
	for counter := 1; ; counter++ {
		var count int64
		tx := s.db.Model(&models.BlogPostModel{}).Where("slug = ?", candidate)
		if excludeID != "" {
			tx = tx.Where("id <> ?", excludeID)
		}
		tx.Count(&count)
		if count == 0 {
			return candidate
		}
		candidate = fmt.Sprintf("%s-%d", slug, counter)
	}
}

// Years returns the distinct publication years with published posts, for
// the archive page.
func (s *Service) Years() ([]int, error) {
	var years []int
	err := s.db.Model(&models.BlogPostModel{}).
		Where("published = ?", true).
		Distinct("YEAR(published_date)").
		Order("YEAR(published_date) DESC").
		Pluck("YEAR(published_date)", &years).Error
	return years, err
}

func deriveContentFields(post *models.BlogPostModel) {
	post.ExcerptEN = excerptOf(post.ContentEN)
	post.WordCountEN = wordCountOf(post.ContentEN)
	post.ExcerptAR = excerptOf(post.ContentAR)
	post.WordCountAR = wordCountOf(post.ContentAR)
}

func excerptOf(content *string) *string {
	if content == nil {
		return nil
	}
	excerpt := document.ExcerptFromMarkup(*content)
	if excerpt == "" {
		return nil
	}
	return &excerpt
}

func wordCountOf(content *string) int {
	if content == nil {
		return 0
	}
	return document.WordCountFromMarkup(*content)
}

// publishedDateOf defaults the publication date to now. The column is NOT
// NULL and drives the year filter, so a zero time must never reach the row.
func publishedDateOf(dto *CreatePostDTO) time.Time {
	if dto.PublishedDate != nil {
		return *dto.PublishedDate
	}
	return time.Now()
}

// titleGate rejects a patch that would leave the post without a title in
// either language. A post must stay reachable in at least one listing.
func titleGate(current *models.BlogPostModel, dto *UpdatePostDTO) error {
	titleEN, titleAR := current.TitleEN, current.TitleAR
	if dto.TitleEN != nil {
		titleEN = nilIfBlank(*dto.TitleEN)
	}
	if dto.TitleAR != nil {
		titleAR = nilIfBlank(*dto.TitleAR)
	}
	if isBlank(titleEN) && isBlank(titleAR) {
		return ErrNoTitle
	}
	return nil
}

func slugBase(titleEN, titleAR *string) string {
	if !isBlank(titleEN) {
		return *titleEN
	}
	if !isBlank(titleAR) {
		return *titleAR
	}
	return ""
}

func isBlank(s *string) bool {
	return s == nil || strings.TrimSpace(*s) == ""
}

func trimmed(s *string) *string {
	if s == nil {
		return nil
	}
	t := strings.TrimSpace(*s)
	if t == "" {
		return nil
	}
	return &t
}

func nilIfBlank(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
