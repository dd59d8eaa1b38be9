package models

import "time"

// BlogPostModel is a bilingual blog post. English and Arabic fields are
// independently nullable; a post is visible to a language's readers iff that
// language's title is set. There is no publish-per-language flag.
type BlogPostModel struct {
	Base
	Slug             string         `json:"slug"               gorm:"uniqueIndex;not null"`
	TitleEN          *string        `json:"title_en"`
	TitleAR          *string        `json:"title_ar"`
	ContentEN        *string        `json:"content_en"         gorm:"type:longtext"`
	ContentAR        *string        `json:"content_ar"         gorm:"type:longtext"`
	ExcerptEN        *string        `json:"excerpt_en"         gorm:"type:text"`
	ExcerptAR        *string        `json:"excerpt_ar"         gorm:"type:text"`
	WordCountEN      int            `json:"word_count_en"      gorm:"default:0"`
	WordCountAR      int            `json:"word_count_ar"      gorm:"default:0"`
	FeaturedImageURL *string        `json:"featured_image_url"`
	CategoryID       string         `json:"category_id"        gorm:"index;not null"`
	Category         *CategoryModel `json:"category,omitempty" gorm:"foreignKey:CategoryID"`
	AuthorID         *string        `json:"author_id"          gorm:"index"`
	Author           *AuthorModel   `json:"author,omitempty"   gorm:"foreignKey:AuthorID"`
	Published        bool           `json:"published"          gorm:"default:false;index"`
	PublishedDate    time.Time      `json:"published_date"`
	AdminNotes       *string        `json:"admin_notes,omitempty" gorm:"type:text"`
	CreatedBy        *string        `json:"created_by"`
}

func (BlogPostModel) TableName() string { return "blog_posts" }

// HasLanguage reports whether the post exists in the given language.
// The title being set is the sole gate.
func (p *BlogPostModel) HasLanguage(lang string) bool {
	switch lang {
	case "ar":
		return p.TitleAR != nil && *p.TitleAR != ""
	default:
		return p.TitleEN != nil && *p.TitleEN != ""
	}
}
