package services

import (
	"errors"
	"strings"
	"time"

	"journal-api/internal/config"
	"journal-api/internal/models"
)

// ErrNoSubscription is returned when a completed checkout session carries no
// subscription object.
var ErrNoSubscription = errors.New("checkout session has no subscription")

// CheckoutVerification is the outcome of retrieving a checkout session.
// Completed=false is an expected state while payment is pending or abandoned,
// not an error.
type CheckoutVerification struct {
	Completed bool
	PriceID   string
	PeriodEnd time.Time

	// UserID is the user id the session was created for, from its metadata.
	// Callers compare it against the claimed user before persisting.
	UserID string
}

// Billing abstracts the payment provider so handlers can be exercised
// without network access. StripeService is the production implementation.
type Billing interface {
	// ResolveCustomer finds or creates the provider customer for the profile
	// and returns its id. An existing id is re-verified, never reissued.
	ResolveCustomer(profile *models.Profile) (string, error)

	// CreateCheckoutSession returns the hosted checkout URL and session id.
	CreateCheckoutSession(customerID, priceID, userID string) (url string, sessionID string, err error)

	// VerifyCheckoutSession retrieves the session and, when payment is
	// complete, the resulting subscription's price and period end.
	VerifyCheckoutSession(sessionID string) (*CheckoutVerification, error)

	// CreatePortalSession returns a hosted self-service management URL.
	CreatePortalSession(customerID string) (string, error)
}

// TierFromPriceID maps a configured plan price to a tier. The yearly plan is
// the premium_plus tier; anything else that passed the allow-list is monthly.
func TierFromPriceID(priceID string) string {
	if config.AppConfig != nil && priceID == config.AppConfig.PriceIDYearly {
		return models.TierPremiumPlus
	}
	return models.TierPremium
}

// TierFromProductID maps a store product id to a tier. Yearly/annual product
// ids carry the premium_plus tier; every other paid product is premium.
func TierFromProductID(productID string) string {
	id := strings.ToLower(productID)
	if strings.Contains(id, "yearly") || strings.Contains(id, "annual") {
		return models.TierPremiumPlus
	}
	return models.TierPremium
}
