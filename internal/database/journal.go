package database

import (
	"time"

	"journal-api/internal/models"
)

// JournalEntryFilter narrows a history listing.
type JournalEntryFilter struct {
	Mood     string
	From     *time.Time
	To       *time.Time
	Page     int
	PageSize int
}

// CreateJournalEntry 创建日记条目
func CreateJournalEntry(entry *models.JournalEntry) error {
	return DB.Create(entry).Error
}

// GetJournalEntryByID gets a single entry owned by userID
func GetJournalEntryByID(userID string, id uint) (*models.JournalEntry, error) {
	var entry models.JournalEntry
	err := DB.Where("user_id = ? AND id = ?", userID, id).First(&entry).Error
	if err != nil {
		return nil, err
	}
	return &entry, nil
}

// ListJournalEntries returns a page of entries, newest first, plus the total
// count matching the filter.
func ListJournalEntries(userID string, filter JournalEntryFilter) ([]models.JournalEntry, int64, error) {
	query := DB.Model(&models.JournalEntry{}).Where("user_id = ?", userID)

	if filter.Mood != "" {
		query = query.Where("mood = ?", filter.Mood)
	}
	if filter.From != nil {
		query = query.Where("entry_date >= ?", *filter.From)
	}
	if filter.To != nil {
		query = query.Where("entry_date <= ?", *filter.To)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	page := filter.Page
	if page < 1 {
		page = 1
	}
	pageSize := filter.PageSize
	if pageSize < 1 || pageSize > 100 {
		pageSize = 20
	}

	var entries []models.JournalEntry
	err := query.Order("entry_date DESC").
		Offset((page - 1) * pageSize).
		Limit(pageSize).
		Find(&entries).Error
	if err != nil {
		return nil, 0, err
	}

	return entries, total, nil
}

// DeleteJournalEntry soft-deletes an entry owned by userID
func DeleteJournalEntry(userID string, id uint) error {
	return DB.Where("user_id = ? AND id = ?", userID, id).
		Delete(&models.JournalEntry{}).Error
}

// MoodCount is one bucket of the mood statistics.
type MoodCount struct {
	Mood  string `json:"mood"`
	Count int64  `json:"count"`
}

// CountEntriesByMood aggregates entry counts per mood since the given time.
func CountEntriesByMood(userID string, since time.Time) ([]MoodCount, error) {
	var counts []MoodCount
	err := DB.Model(&models.JournalEntry{}).
		Select("mood, count(*) as count").
		Where("user_id = ? AND entry_date >= ? AND mood <> ''", userID, since).
		Group("mood").
		Order("count DESC").
		Scan(&counts).Error
	return counts, err
}
