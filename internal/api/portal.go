package api

import (
	"net/http"

	"journal-api/internal/database"
	"journal-api/pkg/logging"

	"github.com/gin-gonic/gin"
)

// CreatePortalSessionRequest represents create portal session request
type CreatePortalSessionRequest struct {
	UserID string `json:"userId" binding:"required"`
}

// CreatePortalSessionResponse represents create portal session response
type CreatePortalSessionResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message,omitempty"`
	URL     string `json:"url,omitempty"`
}

// CreatePortalSession creates a self-service billing portal session
// POST /api/billing/create-portal-session
func CreatePortalSession(c *gin.Context) {
	var req CreatePortalSessionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, CreatePortalSessionResponse{
			Success: false,
			Message: "Invalid request format: " + err.Error(),
		})
		return
	}

	profile, err := database.GetProfileByUserID(req.UserID)
	if err != nil {
		c.JSON(http.StatusBadRequest, CreatePortalSessionResponse{
			Success: false,
			Message: "Profile not found",
		})
		return
	}

	// A user who never completed checkout has no customer to manage
	if profile.BillingCustomerID == "" {
		c.JSON(http.StatusBadRequest, CreatePortalSessionResponse{
			Success: false,
			Message: "No billing customer on file",
		})
		return
	}

	url, err := billing.CreatePortalSession(profile.BillingCustomerID)
	if err != nil {
		logging.Errorf("Failed to create portal session - user: %s, error: %v", req.UserID, err)
		c.JSON(http.StatusInternalServerError, CreatePortalSessionResponse{
			Success: false,
			Message: "Failed to create portal session",
		})
		return
	}

	c.JSON(http.StatusOK, CreatePortalSessionResponse{
		Success: true,
		URL:     url,
	})
}
