package api

import (
	"encoding/json"
	"net/http"

	"journal-api/internal/config"
	"journal-api/internal/database"
	"journal-api/internal/services"
	"journal-api/pkg/logging"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// SignupWebhookRequest is sent by the auth system when a user signs up.
type SignupWebhookRequest struct {
	UserID string `json:"user_id"`
	Email  string `json:"email"`
	Name   string `json:"name"`
}

// SignupWebhookHandler creates the free-tier profile for a new user and
// kicks off best-effort provisioning (billing customer, welcome email).
// POST /api/webhooks/signup
func SignupWebhookHandler(c *gin.Context) {
	body, err := c.GetRawData()
	if err != nil {
		logging.Errorf("Failed to read request body: %v", err)
		c.JSON(http.StatusBadRequest, WebhookResponse{
			Success: false,
			Message: "Failed to read request body",
		})
		return
	}

	signature := c.GetHeader("X-Signature")
	if signature == "" {
		c.JSON(http.StatusBadRequest, WebhookResponse{
			Success: false,
			Message: "Missing signature",
		})
		return
	}
	if !services.VerifySignature(body, signature, config.AppConfig.SignupWebhookSecret) {
		logging.Errorf("Signup webhook signature verification failed")
		c.JSON(http.StatusBadRequest, WebhookResponse{
			Success: false,
			Message: "Invalid signature",
		})
		return
	}

	var req SignupWebhookRequest
	if err := json.Unmarshal(body, &req); err != nil {
		c.JSON(http.StatusBadRequest, WebhookResponse{
			Success: false,
			Message: "Invalid payload format",
		})
		return
	}

	// Auth user ids are UUIDs; anything else is a malformed event
	if _, err := uuid.Parse(req.UserID); err != nil {
		c.JSON(http.StatusBadRequest, WebhookResponse{
			Success: false,
			Message: "Invalid user_id",
		})
		return
	}

	profile, err := database.GetOrCreateProfile(req.UserID, req.Email, req.Name)
	if err != nil {
		logging.Errorf("Failed to create profile - user: %s, error: %v", req.UserID, err)
		c.JSON(http.StatusInternalServerError, WebhookResponse{
			Success: false,
			Message: "Failed to create profile",
		})
		return
	}

	// Customer creation and the welcome email are best-effort; the customer
	// is re-resolved at first checkout if this fails.
	go func() {
		if _, err := billing.ResolveCustomer(profile); err != nil {
			logging.Errorf("Signup customer provisioning failed - user: %s, error: %v", profile.UserID, err)
		}

		brevoService := services.NewBrevoService()
		if err := brevoService.SendWelcomeEmail(profile.Email, profile.DisplayName); err != nil {
			logging.Errorf("Failed to send welcome email - user: %s, error: %v", profile.UserID, err)
		}
	}()

	logging.Infof("Signup processed - user: %s", req.UserID)

	c.JSON(http.StatusOK, WebhookResponse{Success: true, Received: true})
}
