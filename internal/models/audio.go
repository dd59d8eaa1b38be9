package models

import "time"

// Date precision values for archive entries whose recording date is only
// partially known.
const (
	DatePrecisionUnknown = "unknown"
	DatePrecisionYear    = "year"
	DatePrecisionFull    = "full"
)

// AudioEntryModel is a field recording in the public archive.
type AudioEntryModel struct {
	Base
	Title         string      `json:"title"          gorm:"not null"`
	TitleAR       string      `json:"title_ar"`
	Description   string      `json:"description"    gorm:"type:text"`
	DescriptionAR string      `json:"description_ar" gorm:"type:text"`
	AudioURL      string      `json:"audio_url"      gorm:"not null"`
	Licence       string      `json:"licence"`
	Category      string      `json:"category"       gorm:"index"`
	CategoryAR    string      `json:"category_ar"`
	Location      string      `json:"location"`
	LocationAR    string      `json:"location_ar"`
	Tags          StringSlice `json:"tags"           gorm:"type:json;serializer:json"`
	TagsAR        StringSlice `json:"tags_ar"        gorm:"type:json;serializer:json"`
	Date          *time.Time  `json:"date"`
	DatePrecision string      `json:"date_precision" gorm:"default:unknown"`
	Year          *int        `json:"year"           gorm:"index"`
	Featured      bool        `json:"featured"       gorm:"default:false;index"`
	DisplayOrder  *int        `json:"display_order"`
	Notes         string      `json:"notes"          gorm:"type:text"`
}

func (AudioEntryModel) TableName() string { return "audio_entries" }
