package services

import (
	"time"

	"journal-api/internal/database"
	"journal-api/internal/models"
	"journal-api/pkg/logging"
)

// RevenueCat webhook event types we act on. Anything else is acknowledged
// and ignored so the provider does not retry it.
const (
	EventInitialPurchase     = "INITIAL_PURCHASE"
	EventRenewal             = "RENEWAL"
	EventRestore             = "RESTORE"
	EventNonRenewingPurchase = "NON_RENEWING_PURCHASE"
	EventCancellation        = "CANCELLATION"
	EventExpiration          = "EXPIRATION"
	EventBillingIssue        = "BILLING_ISSUE"
)

// RevenueCatEvent is the lifecycle event inside a RevenueCat webhook payload.
type RevenueCatEvent struct {
	ID               string `json:"id"`
	Type             string `json:"type"`
	AppUserID        string `json:"app_user_id"`
	ProductID        string `json:"product_id"`
	ExpirationAtMS   int64  `json:"expiration_at_ms"`
	EventTimestampMS int64  `json:"event_timestamp_ms"`
}

// RevenueCatWebhookPayload is the full webhook body.
type RevenueCatWebhookPayload struct {
	APIVersion string          `json:"api_version"`
	Event      RevenueCatEvent `json:"event"`
}

// ExpiresAt converts the event's millisecond expiry to a time, or nil when
// the provider sent none.
func (e *RevenueCatEvent) ExpiresAt() *time.Time {
	if e.ExpirationAtMS <= 0 {
		return nil
	}
	t := time.UnixMilli(e.ExpirationAtMS)
	return &t
}

// ApplySubscriptionEvent runs the event through the status state machine and
// persists the result. Events are applied last-arrival-wins with no
// timestamp ordering; every effect is an idempotent field overwrite, so
// re-delivery of the same event is harmless.
//
// Returns applied=false for event types we deliberately ignore.
func ApplySubscriptionEvent(event *RevenueCatEvent) (applied bool, err error) {
	switch event.Type {
	case EventInitialPurchase, EventRenewal, EventRestore, EventNonRenewingPurchase:
		err = applyPurchase(event)
	case EventCancellation:
		err = applyStatusChange(event, models.StatusCancelled)
	case EventExpiration, EventBillingIssue:
		err = applyStatusChange(event, models.StatusExpired)
	default:
		logging.Infof("Ignoring RevenueCat event - type: %s, user: %s", event.Type, event.AppUserID)
		return false, nil
	}

	if err != nil {
		return false, err
	}
	return true, nil
}

// applyPurchase activates premium for purchase-shaped events.
func applyPurchase(event *RevenueCatEvent) error {
	tier := TierFromProductID(event.ProductID)

	if err := database.UpdateProfileSubscription(event.AppUserID, models.StatusPremium, tier, event.ExpiresAt()); err != nil {
		return err
	}

	// Record the provider-side customer id, but only when the profile has
	// none yet; an existing customer id is never reissued.
	profile, err := database.GetProfileByUserID(event.AppUserID)
	if err == nil && profile.BillingCustomerID == "" {
		if err := database.UpdateProfileBillingCustomerID(event.AppUserID, event.AppUserID); err != nil {
			logging.Errorf("Failed to record billing customer id - user: %s, error: %v", event.AppUserID, err)
		}
	}

	logging.Infof("Subscription activated - user: %s, product: %s, tier: %s",
		event.AppUserID, event.ProductID, tier)
	return nil
}

// applyStatusChange moves the subscription to a terminal-ish status while
// keeping the already-derived tier. A cancelled subscription typically stays
// usable until the expiry the event carries.
func applyStatusChange(event *RevenueCatEvent, status string) error {
	profile, err := database.GetProfileByUserID(event.AppUserID)
	if err != nil {
		return err
	}

	if err := database.UpdateProfileSubscription(event.AppUserID, status, profile.SubscriptionTier, event.ExpiresAt()); err != nil {
		return err
	}

	logging.Infof("Subscription status changed - user: %s, status: %s", event.AppUserID, status)
	return nil
}
