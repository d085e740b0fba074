package api

import (
	"errors"
	"net/http"
	"time"

	"journal-api/internal/database"
	"journal-api/internal/models"
	"journal-api/internal/services"
	"journal-api/pkg/logging"

	"github.com/gin-gonic/gin"
)

// VerifySubscriptionRequest represents verify subscription request
type VerifySubscriptionRequest struct {
	SessionID string `json:"sessionId" binding:"required"`
	UserID    string `json:"userId" binding:"required"`
}

// VerifySubscriptionResponse represents verify subscription response
type VerifySubscriptionResponse struct {
	Success               bool   `json:"success"`
	Message               string `json:"message,omitempty"`
	SubscriptionStatus    string `json:"subscription_status,omitempty"`
	SubscriptionTier      string `json:"subscription_tier,omitempty"`
	SubscriptionExpiresAt string `json:"subscription_expires_at,omitempty"`
}

// VerifySubscription reconciles subscription state right after the browser
// returns from checkout. The webhook processor applies the same state
// asynchronously; both writers derive it from the same session, so whichever
// lands last leaves the row identical.
// POST /api/billing/verify-subscription
func VerifySubscription(c *gin.Context) {
	var req VerifySubscriptionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, VerifySubscriptionResponse{
			Success: false,
			Message: "Invalid request format: " + err.Error(),
		})
		return
	}

	verification, err := billing.VerifyCheckoutSession(req.SessionID)
	if err != nil {
		if errors.Is(err, services.ErrNoSubscription) {
			c.JSON(http.StatusBadRequest, VerifySubscriptionResponse{
				Success: false,
				Message: "No subscription found in session",
			})
			return
		}
		logging.Errorf("Failed to verify checkout session - session: %s, error: %v", req.SessionID, err)
		c.JSON(http.StatusInternalServerError, VerifySubscriptionResponse{
			Success: false,
			Message: "Failed to verify subscription",
		})
		return
	}

	// Pending or abandoned payment is a normal outcome, not an error; the
	// client polls this endpoint until checkout completes.
	if !verification.Completed {
		c.JSON(http.StatusOK, VerifySubscriptionResponse{
			Success: false,
			Message: "Payment not completed",
		})
		return
	}

	// The session carries the user it was created for; a paid session id
	// replayed with someone else's user id must not grant them premium
	if verification.UserID != "" && verification.UserID != req.UserID {
		logging.Errorf("Checkout session user mismatch - session: %s, claimed user: %s", req.SessionID, req.UserID)
		c.JSON(http.StatusBadRequest, VerifySubscriptionResponse{
			Success: false,
			Message: "Session does not belong to this user",
		})
		return
	}

	tier := services.TierFromPriceID(verification.PriceID)
	expiresAt := verification.PeriodEnd

	if err := database.UpdateProfileSubscription(req.UserID, models.StatusPremium, tier, &expiresAt); err != nil {
		logging.Errorf("Failed to persist subscription state - user: %s, error: %v", req.UserID, err)
		c.JSON(http.StatusInternalServerError, VerifySubscriptionResponse{
			Success: false,
			Message: "Failed to update subscription",
		})
		return
	}

	logging.Infof("Subscription verified - user: %s, tier: %s", req.UserID, tier)

	c.JSON(http.StatusOK, VerifySubscriptionResponse{
		Success:               true,
		SubscriptionStatus:    models.StatusPremium,
		SubscriptionTier:      tier,
		SubscriptionExpiresAt: expiresAt.Format(time.RFC3339),
	})
}
