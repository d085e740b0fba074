package api

import (
	"encoding/json"
	"hash/fnv"
	"net/http"
	"time"

	"journal-api/internal/database"
	"journal-api/internal/models"
	"journal-api/internal/response"
	"journal-api/pkg/logging"

	"github.com/gin-gonic/gin"
)

// GetDailyQuote returns the affirmation of the day. The pick is
// deterministic per calendar day and cached in Redis; a cache outage falls
// back to the database.
// GET /api/quotes/daily
func GetDailyQuote(c *gin.Context) {
	day := time.Now().UTC().Format("2006-01-02")
	cacheKey := "quote:daily:" + day

	if cached, err := database.GetCache(c.Request.Context(), cacheKey); err == nil && cached != "" {
		var quote models.Quote
		if err := json.Unmarshal([]byte(cached), &quote); err == nil {
			response.SuccessJSON(c, quote)
			return
		}
	}

	var count int64
	if err := database.DB.Model(&models.Quote{}).Count(&count).Error; err != nil || count == 0 {
		response.ErrorJSON(c, http.StatusInternalServerError, "No quotes available")
		return
	}

	h := fnv.New32a()
	h.Write([]byte(day))
	offset := int(h.Sum32() % uint32(count))

	var quote models.Quote
	if err := database.DB.Order("id").Offset(offset).First(&quote).Error; err != nil {
		logging.Errorf("Failed to load daily quote: %v", err)
		response.ErrorJSON(c, http.StatusInternalServerError, "Failed to load quote")
		return
	}

	if data, err := json.Marshal(quote); err == nil {
		if err := database.SetCache(c.Request.Context(), cacheKey, string(data), 24*time.Hour); err != nil {
			// Cache write failure is not worth failing the request
			logging.Infof("Daily quote cache write skipped: %v", err)
		}
	}

	response.SuccessJSON(c, quote)
}
