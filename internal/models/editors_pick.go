package models

import "time"

// EditorsPickModel is a scheduled slot on the home page. A post may appear at
// most once; the unique index on BlogPostID is what surfaces duplicates as a
// store-level uniqueness violation.
type EditorsPickModel struct {
	Base
	BlogPostID     string         `json:"blog_post_id"    gorm:"uniqueIndex;not null"`
	BlogPost       *BlogPostModel `json:"blog_post,omitempty" gorm:"foreignKey:BlogPostID"`
	DisplayOrder   int            `json:"display_order"   gorm:"not null;default:0"`
	ScheduledStart time.Time      `json:"scheduled_start" gorm:"not null"`
	ScheduledEnd   *time.Time     `json:"scheduled_end"`
	SelectedBy     *string        `json:"selected_by"`
}

func (EditorsPickModel) TableName() string { return "editors_picks" }
