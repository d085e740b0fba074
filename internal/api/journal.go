package api

import (
	"net/http"
	"strconv"
	"time"

	"journal-api/internal/database"
	"journal-api/internal/models"
	"journal-api/internal/response"
	"journal-api/pkg/logging"

	"github.com/gin-gonic/gin"
)

// History window for free-tier users. Premium unlocks the full archive.
const freeHistoryDays = 7

// CreateJournalEntryRequest represents create journal entry request
type CreateJournalEntryRequest struct {
	UserID    string `json:"user_id" binding:"required"`
	Title     string `json:"title"`
	Content   string `json:"content" binding:"required"`
	Mood      string `json:"mood"`
	MoodScore int    `json:"mood_score" binding:"omitempty,min=1,max=5"`
	EntryDate string `json:"entry_date"` // RFC 3339; defaults to now
}

// CreateJournalEntry creates a journal entry
// POST /api/journal/entries
func CreateJournalEntry(c *gin.Context) {
	var req CreateJournalEntryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ErrorJSON(c, http.StatusBadRequest, "Invalid request format: "+err.Error())
		return
	}

	entryDate := time.Now()
	if req.EntryDate != "" {
		parsed, err := time.Parse(time.RFC3339, req.EntryDate)
		if err != nil {
			response.ErrorJSON(c, http.StatusBadRequest, "entry_date must be RFC 3339")
			return
		}
		entryDate = parsed
	}

	entry := &models.JournalEntry{
		UserID:    req.UserID,
		Title:     req.Title,
		Content:   req.Content,
		Mood:      req.Mood,
		MoodScore: req.MoodScore,
		EntryDate: entryDate,
	}

	if err := database.CreateJournalEntry(entry); err != nil {
		logging.Errorf("Failed to create journal entry - user: %s, error: %v", req.UserID, err)
		response.ErrorJSON(c, http.StatusInternalServerError, "Failed to create entry")
		return
	}

	c.JSON(http.StatusCreated, response.Success(entry))
}

// ListJournalEntriesResponse wraps a page of entries.
type ListJournalEntriesResponse struct {
	Success  bool                  `json:"success"`
	Entries  []models.JournalEntry `json:"entries"`
	Total    int64                 `json:"total"`
	Page     int                   `json:"page"`
	PageSize int                   `json:"page_size"`
}

// ListJournalEntries lists journal history with mood/date filters
// GET /api/journal/entries?user_id=&mood=&from=&to=&page=&page_size=
func ListJournalEntries(c *gin.Context) {
	userID := c.Query("user_id")
	if userID == "" {
		response.ErrorJSON(c, http.StatusBadRequest, "user_id is required")
		return
	}

	filter := database.JournalEntryFilter{
		Mood: c.Query("mood"),
	}
	filter.Page, _ = strconv.Atoi(c.DefaultQuery("page", "1"))
	filter.PageSize, _ = strconv.Atoi(c.DefaultQuery("page_size", "20"))

	if from := c.Query("from"); from != "" {
		parsed, err := time.Parse(time.RFC3339, from)
		if err != nil {
			response.ErrorJSON(c, http.StatusBadRequest, "from must be RFC 3339")
			return
		}
		filter.From = &parsed
	}
	if to := c.Query("to"); to != "" {
		parsed, err := time.Parse(time.RFC3339, to)
		if err != nil {
			response.ErrorJSON(c, http.StatusBadRequest, "to must be RFC 3339")
			return
		}
		filter.To = &parsed
	}

	// Free tier only sees the recent window
	profile, err := database.GetProfileByUserID(userID)
	if err != nil || !profile.HasPremiumAccess() {
		cutoff := time.Now().AddDate(0, 0, -freeHistoryDays)
		if filter.From == nil || filter.From.Before(cutoff) {
			filter.From = &cutoff
		}
	}

	entries, total, err := database.ListJournalEntries(userID, filter)
	if err != nil {
		logging.Errorf("Failed to list journal entries - user: %s, error: %v", userID, err)
		response.ErrorJSON(c, http.StatusInternalServerError, "Failed to list entries")
		return
	}

	if entries == nil {
		entries = []models.JournalEntry{}
	}
	page := filter.Page
	if page < 1 {
		page = 1
	}
	pageSize := filter.PageSize
	if pageSize < 1 || pageSize > 100 {
		pageSize = 20
	}

	c.JSON(http.StatusOK, ListJournalEntriesResponse{
		Success:  true,
		Entries:  entries,
		Total:    total,
		Page:     page,
		PageSize: pageSize,
	})
}

// DeleteJournalEntry deletes an entry owned by the user
// DELETE /api/journal/entries/:id?user_id=xxx
func DeleteJournalEntry(c *gin.Context) {
	userID := c.Query("user_id")
	if userID == "" {
		response.ErrorJSON(c, http.StatusBadRequest, "user_id is required")
		return
	}

	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		response.ErrorJSON(c, http.StatusBadRequest, "Invalid entry id")
		return
	}

	// Ownership check before delete
	if _, err := database.GetJournalEntryByID(userID, uint(id)); err != nil {
		response.ErrorJSON(c, http.StatusNotFound, "Entry not found")
		return
	}

	if err := database.DeleteJournalEntry(userID, uint(id)); err != nil {
		logging.Errorf("Failed to delete journal entry - user: %s, id: %d, error: %v", userID, id, err)
		response.ErrorJSON(c, http.StatusInternalServerError, "Failed to delete entry")
		return
	}

	response.SuccessJSON(c, nil)
}

// GetMoodStats returns per-mood entry counts for the last 30 days.
// Premium feature.
// GET /api/journal/stats?user_id=xxx
func GetMoodStats(c *gin.Context) {
	userID := c.Query("user_id")
	if userID == "" {
		response.ErrorJSON(c, http.StatusBadRequest, "user_id is required")
		return
	}

	profile, err := database.GetProfileByUserID(userID)
	if err != nil || !profile.HasPremiumAccess() {
		response.ErrorJSON(c, http.StatusForbidden, "Premium subscription required")
		return
	}

	since := time.Now().AddDate(0, 0, -30)
	counts, err := database.CountEntriesByMood(userID, since)
	if err != nil {
		logging.Errorf("Failed to compute mood stats - user: %s, error: %v", userID, err)
		response.ErrorJSON(c, http.StatusInternalServerError, "Failed to compute stats")
		return
	}

	if counts == nil {
		counts = []database.MoodCount{}
	}
	response.SuccessJSON(c, gin.H{"moods": counts, "since": since.Format(time.RFC3339)})
}
