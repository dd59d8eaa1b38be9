package models

// OptionModel is a key-value store for small admin-tunable settings, e.g. the
// editors' choice slot limit.
type OptionModel struct {
	Base
	Name  string `json:"name"  gorm:"uniqueIndex;not null"`
	Value string `json:"value" gorm:"type:text"`
}

func (OptionModel) TableName() string { return "options" }
