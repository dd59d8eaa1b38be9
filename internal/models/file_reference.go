package models

// Upload reference statuses. A reference is created when a presigned target is
// issued and flips to used once the client confirms the transfer; the sweeper
// only touches pending rows.
const (
	FileRefPending = "pending"
	FileRefUsed    = "used"
)

// FileReferenceModel tracks presigned upload grants so interrupted transfers
// can be reconciled instead of leaking objects.
type FileReferenceModel struct {
	Base
	ObjectKey  string `json:"object_key"  gorm:"not null"`
	PublicURL  string `json:"public_url"  gorm:"index;not null"`
	UploadType string `json:"upload_type"`
	Status     string `json:"status"      gorm:"default:pending;index"`
}

func (FileReferenceModel) TableName() string { return "file_references" }
