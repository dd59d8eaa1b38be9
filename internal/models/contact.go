package models

// Contact submission statuses.
const (
	ContactStatusNew      = "new"
	ContactStatusRead     = "read"
	ContactStatusArchived = "archived"
)

// ContactSubmissionModel is a message sent through the public contact form.
type ContactSubmissionModel struct {
	Base
	Name     string  `json:"name"     gorm:"not null"`
	Email    string  `json:"email"    gorm:"not null"`
	Subject  *string `json:"subject"`
	Message  string  `json:"message"  gorm:"type:text;not null"`
	Language string  `json:"language" gorm:"default:en"`
	Status   string  `json:"status"   gorm:"default:new;index"`
}

func (ContactSubmissionModel) TableName() string { return "contact_submissions" }
