package models

// CategoryModel is a bilingual blog category.
type CategoryModel struct {
	Base
	NameEN string `json:"name_en" gorm:"uniqueIndex;not null"`
	NameAR string `json:"name_ar" gorm:"uniqueIndex;not null"`

	Posts []BlogPostModel `json:"posts,omitempty" gorm:"foreignKey:CategoryID"`
}

func (CategoryModel) TableName() string { return "blog_categories" }
