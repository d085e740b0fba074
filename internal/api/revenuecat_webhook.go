package api

import (
	"encoding/json"
	"net/http"
	"time"

	"journal-api/internal/config"
	"journal-api/internal/database"
	"journal-api/internal/services"
	"journal-api/pkg/logging"

	"github.com/gin-gonic/gin"
)

// WebhookResponse acknowledges an inbound webhook.
type WebhookResponse struct {
	Success  bool   `json:"success"`
	Received bool   `json:"received,omitempty"`
	Message  string `json:"message,omitempty"`
}

// RevenueCatWebhookHandler handles RevenueCat subscription lifecycle events
// POST /api/webhooks/revenuecat
func RevenueCatWebhookHandler(c *gin.Context) {
	startTime := time.Now()

	// Read raw body; the signature covers these exact bytes
	body, err := c.GetRawData()
	if err != nil {
		logging.Errorf("Failed to read request body: %v", err)
		c.JSON(http.StatusBadRequest, WebhookResponse{
			Success: false,
			Message: "Failed to read request body",
		})
		return
	}

	// Authenticate before parsing; responses stay vague on purpose
	signature := c.GetHeader("X-Signature")
	if signature == "" {
		c.JSON(http.StatusBadRequest, WebhookResponse{
			Success: false,
			Message: "Missing signature",
		})
		return
	}
	if !services.VerifySignature(body, signature, config.AppConfig.RevenueCatWebhookSecret) {
		logging.Errorf("RevenueCat webhook signature verification failed")
		c.JSON(http.StatusBadRequest, WebhookResponse{
			Success: false,
			Message: "Invalid signature",
		})
		return
	}

	var payload services.RevenueCatWebhookPayload
	if err := json.Unmarshal(body, &payload); err != nil {
		logging.Errorf("Failed to parse RevenueCat webhook: %v", err)
		c.JSON(http.StatusBadRequest, WebhookResponse{
			Success: false,
			Message: "Invalid payload format",
		})
		return
	}

	event := payload.Event
	if event.AppUserID == "" {
		c.JSON(http.StatusBadRequest, WebhookResponse{
			Success: false,
			Message: "Missing app_user_id",
		})
		return
	}

	// A successfully applied event delivered again is acknowledged without
	// reapplying
	if replayGuard.IsReplay(event.ID, event.EventTimestampMS) {
		c.JSON(http.StatusOK, WebhookResponse{Success: true, Received: true})
		return
	}

	applied, err := services.ApplySubscriptionEvent(&event)
	if err != nil {
		// Non-2xx so the provider's retry policy re-delivers the event. The
		// event stays unrecorded in the replay guard so that retry is applied.
		logging.Errorf("Failed to apply RevenueCat event - type: %s, user: %s, error: %v",
			event.Type, event.AppUserID, err)
		c.JSON(http.StatusInternalServerError, WebhookResponse{
			Success: false,
			Message: "Failed to process event",
		})
		return
	}
	replayGuard.MarkProcessed(event.ID, event.EventTimestampMS)

	// Confirmation email on first purchase, best-effort
	if applied && event.Type == services.EventInitialPurchase {
		if profile, err := database.GetProfileByUserID(event.AppUserID); err == nil && profile.Email != "" {
			go func() {
				brevoService := services.NewBrevoService()
				if err := brevoService.SendSubscriptionActiveEmail(
					profile.Email, profile.DisplayName, profile.SubscriptionTier, profile.SubscriptionExpiresAt); err != nil {
					logging.Errorf("Failed to send subscription email - user: %s, error: %v", profile.UserID, err)
				}
			}()
		}
	}

	logging.Infof("RevenueCat webhook processed - type: %s, user: %s, applied: %v, time: %v",
		event.Type, event.AppUserID, applied, time.Since(startTime))

	c.JSON(http.StatusOK, WebhookResponse{Success: true, Received: true})
}
