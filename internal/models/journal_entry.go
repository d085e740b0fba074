package models

import (
	"time"
)

// JournalEntry is a single diary entry with its recorded mood.
type JournalEntry struct {
	BaseModel

	UserID  string `json:"user_id" gorm:"not null;index;size:64"`
	Title   string `json:"title" gorm:"size:255"`
	Content string `json:"content" gorm:"type:text"`

	// Mood is a free-form label picked in the app (e.g. happy, calm, anxious).
	Mood      string `json:"mood" gorm:"size:50;index"`
	MoodScore int    `json:"mood_score"` // 1 (low) to 5 (high)

	EntryDate time.Time `json:"entry_date" gorm:"index"`
}
