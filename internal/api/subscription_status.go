package api

import (
	"net/http"
	"time"

	"journal-api/internal/database"

	"github.com/gin-gonic/gin"
)

// GetSubscriptionStatusResponse represents subscription status response
type GetSubscriptionStatusResponse struct {
	Success   bool   `json:"success"`
	Message   string `json:"message,omitempty"`
	IsPremium bool   `json:"is_premium"`
	Status    string `json:"status,omitempty"`
	Tier      string `json:"tier,omitempty"`
	ExpiresAt string `json:"expires_at,omitempty"`
}

// GetSubscriptionStatus gets subscription status for the premium gate
// GET /api/subscription/status?user_id=xxx
func GetSubscriptionStatus(c *gin.Context) {
	userID := c.Query("user_id")
	if userID == "" {
		c.JSON(http.StatusBadRequest, GetSubscriptionStatusResponse{
			Success: false,
			Message: "user_id is required",
		})
		return
	}

	profile, err := database.GetProfileByUserID(userID)
	if err != nil {
		// Unknown user gates as free rather than erroring
		c.JSON(http.StatusOK, GetSubscriptionStatusResponse{
			Success:   true,
			IsPremium: false,
			Status:    "free",
			Tier:      "free",
		})
		return
	}

	resp := GetSubscriptionStatusResponse{
		Success:   true,
		IsPremium: profile.HasPremiumAccess(),
		Status:    profile.SubscriptionStatus,
		Tier:      profile.SubscriptionTier,
	}
	if profile.SubscriptionExpiresAt != nil {
		resp.ExpiresAt = profile.SubscriptionExpiresAt.Format(time.RFC3339)
	}

	c.JSON(http.StatusOK, resp)
}
