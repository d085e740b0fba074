package api

import (
	"encoding/json"
	"net/http"
	"time"

	"journal-api/internal/config"
	"journal-api/internal/database"
	"journal-api/internal/models"
	"journal-api/internal/services"
	"journal-api/pkg/logging"

	"github.com/gin-gonic/gin"
	"github.com/stripe/stripe-go/v82"
	"github.com/stripe/stripe-go/v82/webhook"
)

// StripeWebhookHandler handles Stripe events as the asynchronous backstop to
// the synchronous verify path. Signature verification is the authentication
// for this endpoint.
// POST /api/webhooks/stripe
func StripeWebhookHandler(c *gin.Context) {
	body, err := c.GetRawData()
	if err != nil {
		logging.Errorf("Failed to read request body: %v", err)
		c.JSON(http.StatusBadRequest, WebhookResponse{
			Success: false,
			Message: "Failed to read request body",
		})
		return
	}

	sigHeader := c.GetHeader("Stripe-Signature")
	if sigHeader == "" {
		c.JSON(http.StatusBadRequest, WebhookResponse{
			Success: false,
			Message: "Missing signature",
		})
		return
	}

	event, err := webhook.ConstructEventWithOptions(body, sigHeader, config.AppConfig.StripeWebhookSecret,
		webhook.ConstructEventOptions{IgnoreAPIVersionMismatch: true})
	if err != nil {
		logging.Errorf("Stripe webhook signature verification failed: %v", err)
		c.JSON(http.StatusBadRequest, WebhookResponse{
			Success: false,
			Message: "Invalid signature",
		})
		return
	}

	if replayGuard.IsReplay(event.ID, event.Created) {
		c.JSON(http.StatusOK, WebhookResponse{Success: true, Received: true})
		return
	}

	switch event.Type {
	case "checkout.session.completed":
		err = handleCheckoutCompleted(&event)
	case "customer.subscription.updated":
		err = handleSubscriptionUpdated(&event)
	case "customer.subscription.deleted":
		err = handleSubscriptionDeleted(&event)
	default:
		// Valid but unhandled; acknowledge so Stripe does not retry
		logging.Infof("Ignoring Stripe event - type: %s", event.Type)
	}

	if err != nil {
		// The event is not recorded in the replay guard, so Stripe's retry
		// of the same event id is applied rather than swallowed
		logging.Errorf("Failed to process Stripe event - type: %s, id: %s, error: %v",
			event.Type, event.ID, err)
		c.JSON(http.StatusInternalServerError, WebhookResponse{
			Success: false,
			Message: "Failed to process event",
		})
		return
	}

	replayGuard.MarkProcessed(event.ID, event.Created)
	c.JSON(http.StatusOK, WebhookResponse{Success: true, Received: true})
}

// handleCheckoutCompleted applies premium state once checkout finishes. The
// event's session object has no expanded subscription, so the session is
// re-verified through the same path the synchronous endpoint uses.
func handleCheckoutCompleted(event *stripe.Event) error {
	var sess stripe.CheckoutSession
	if err := json.Unmarshal(event.Data.Raw, &sess); err != nil {
		return err
	}

	userID := sess.Metadata["user_id"]
	if userID == "" {
		logging.Errorf("Stripe checkout session %s has no user_id metadata, skipping", sess.ID)
		return nil
	}

	verification, err := billing.VerifyCheckoutSession(sess.ID)
	if err != nil {
		return err
	}
	if !verification.Completed {
		// Completed event for an unpaid session; let a later event settle it
		return nil
	}

	tier := services.TierFromPriceID(verification.PriceID)
	expiresAt := verification.PeriodEnd
	return database.UpdateProfileSubscription(userID, models.StatusPremium, tier, &expiresAt)
}

// handleSubscriptionUpdated marks cancel-at-period-end subscriptions as
// cancelled; the user keeps access until the paid period runs out.
func handleSubscriptionUpdated(event *stripe.Event) error {
	var sub stripe.Subscription
	if err := json.Unmarshal(event.Data.Raw, &sub); err != nil {
		return err
	}

	userID := sub.Metadata["user_id"]
	if userID == "" {
		return nil
	}
	if !sub.CancelAtPeriodEnd {
		return nil
	}

	profile, err := database.GetProfileByUserID(userID)
	if err != nil {
		return err
	}

	var expiresAt *time.Time
	if sub.Items != nil && len(sub.Items.Data) > 0 && sub.Items.Data[0].CurrentPeriodEnd > 0 {
		t := time.Unix(sub.Items.Data[0].CurrentPeriodEnd, 0)
		expiresAt = &t
	}

	return database.UpdateProfileSubscription(userID, models.StatusCancelled, profile.SubscriptionTier, expiresAt)
}

// handleSubscriptionDeleted expires the subscription.
func handleSubscriptionDeleted(event *stripe.Event) error {
	var sub stripe.Subscription
	if err := json.Unmarshal(event.Data.Raw, &sub); err != nil {
		return err
	}

	userID := sub.Metadata["user_id"]
	if userID == "" {
		return nil
	}

	profile, err := database.GetProfileByUserID(userID)
	if err != nil {
		return err
	}

	return database.UpdateProfileSubscription(userID, models.StatusExpired, profile.SubscriptionTier, nil)
}
