package models

// AuthorModel is a contributor profile shown on the public site.
type AuthorModel struct {
	Base
	Slug            string  `json:"slug"    gorm:"uniqueIndex;not null"`
	NameEN          string  `json:"name_en" gorm:"not null"`
	NameAR          string  `json:"name_ar" gorm:"not null"`
	BioEN           *string `json:"bio_en"  gorm:"type:text"`
	BioAR           *string `json:"bio_ar"  gorm:"type:text"`
	ProfileImageURL *string `json:"profile_image_url"`
	Email           *string `json:"email"`

	Posts []BlogPostModel `json:"posts,omitempty" gorm:"foreignKey:AuthorID"`
}

func (AuthorModel) TableName() string { return "authors" }
