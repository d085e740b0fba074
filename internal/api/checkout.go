package api

import (
	"net/http"

	"journal-api/internal/config"
	"journal-api/internal/database"
	"journal-api/pkg/logging"

	"github.com/gin-gonic/gin"
)

// CreateCheckoutSessionRequest represents create checkout session request
type CreateCheckoutSessionRequest struct {
	PriceID string `json:"priceId" binding:"required"`
	UserID  string `json:"userId" binding:"required"`
	Email   string `json:"email" binding:"required,email"`
	Name    string `json:"name"`
}

// CreateCheckoutSessionResponse represents create checkout session response
type CreateCheckoutSessionResponse struct {
	Success   bool   `json:"success"`
	Message   string `json:"message,omitempty"`
	URL       string `json:"url,omitempty"`
	SessionID string `json:"session_id,omitempty"`
}

// CreateCheckoutSession creates a hosted checkout session for a plan
// POST /api/billing/create-checkout-session
func CreateCheckoutSession(c *gin.Context) {
	var req CreateCheckoutSessionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, CreateCheckoutSessionResponse{
			Success: false,
			Message: "Invalid request format: " + err.Error(),
		})
		return
	}

	// Only the configured plan prices are sellable; reject anything else
	// before touching the provider.
	if !config.AppConfig.IsKnownPriceID(req.PriceID) {
		c.JSON(http.StatusBadRequest, CreateCheckoutSessionResponse{
			Success: false,
			Message: "Invalid price ID",
		})
		return
	}

	profile, err := database.GetOrCreateProfile(req.UserID, req.Email, req.Name)
	if err != nil {
		logging.Errorf("Failed to load profile for checkout - user: %s, error: %v", req.UserID, err)
		c.JSON(http.StatusInternalServerError, CreateCheckoutSessionResponse{
			Success: false,
			Message: "Failed to create checkout session",
		})
		return
	}

	customerID, err := billing.ResolveCustomer(profile)
	if err != nil {
		logging.Errorf("Failed to resolve billing customer - user: %s, error: %v", req.UserID, err)
		c.JSON(http.StatusInternalServerError, CreateCheckoutSessionResponse{
			Success: false,
			Message: "Failed to create checkout session",
		})
		return
	}

	url, sessionID, err := billing.CreateCheckoutSession(customerID, req.PriceID, req.UserID)
	if err != nil {
		logging.Errorf("Failed to create checkout session - user: %s, price: %s, error: %v",
			req.UserID, req.PriceID, err)
		c.JSON(http.StatusInternalServerError, CreateCheckoutSessionResponse{
			Success: false,
			Message: "Failed to create checkout session",
		})
		return
	}

	logging.Infof("Checkout session created - user: %s, session: %s", req.UserID, sessionID)

	c.JSON(http.StatusOK, CreateCheckoutSessionResponse{
		Success:   true,
		URL:       url,
		SessionID: sessionID,
	})
}
