package models

// Quote is a daily affirmation shown on the journal home screen.
type Quote struct {
	BaseModel

	Text     string `json:"text" gorm:"type:text;not null"`
	Author   string `json:"author" gorm:"size:255"`
	Category string `json:"category" gorm:"size:50;index"`
}
