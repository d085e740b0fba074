package services

import (
	"errors"
	"fmt"
	"time"

	"journal-api/internal/config"
	"journal-api/internal/database"
	"journal-api/internal/models"
	"journal-api/pkg/logging"

	"github.com/stripe/stripe-go/v82"
	portalsession "github.com/stripe/stripe-go/v82/billingportal/session"
	"github.com/stripe/stripe-go/v82/checkout/session"
	"github.com/stripe/stripe-go/v82/customer"
)

// StripeService implements Billing against the Stripe API.
type StripeService struct{}

// NewStripeService creates a new Stripe service instance
func NewStripeService() *StripeService {
	stripe.Key = config.AppConfig.StripeSecretKey
	return &StripeService{}
}

// ResolveCustomer returns the Stripe customer id for the profile, creating
// the customer on first use. A stored id that Stripe no longer knows (test
// data resets) is treated as absent, not as an error.
func (s *StripeService) ResolveCustomer(profile *models.Profile) (string, error) {
	if profile.BillingCustomerID != "" {
		cust, err := customer.Get(profile.BillingCustomerID, nil)
		if err == nil && cust != nil && !cust.Deleted {
			return profile.BillingCustomerID, nil
		}
		if err != nil && !isStripeNotFound(err) {
			return "", fmt.Errorf("failed to fetch customer %s: %w", profile.BillingCustomerID, err)
		}
		logging.Infof("Stored customer %s not found at Stripe, creating a new one - user: %s",
			profile.BillingCustomerID, profile.UserID)
	}

	params := &stripe.CustomerParams{
		Email: stripe.String(profile.Email),
	}
	if profile.DisplayName != "" {
		params.Name = stripe.String(profile.DisplayName)
	}
	// Link back to the internal user id for webhook cross-referencing
	params.AddMetadata("user_id", profile.UserID)

	cust, err := customer.New(params)
	if err != nil {
		return "", fmt.Errorf("failed to create customer: %w", err)
	}

	// Persisting the id is best-effort: the checkout in flight matters more,
	// and the id is re-resolved and re-persisted on the next call.
	if err := database.UpdateProfileBillingCustomerID(profile.UserID, cust.ID); err != nil {
		logging.Errorf("Failed to persist billing customer id - user: %s, customer: %s, error: %v",
			profile.UserID, cust.ID, err)
	}

	profile.BillingCustomerID = cust.ID
	return cust.ID, nil
}

// CreateCheckoutSession creates a hosted subscription checkout session with a
// trial period and the internal user id tagged in metadata.
func (s *StripeService) CreateCheckoutSession(customerID, priceID, userID string) (string, string, error) {
	cfg := config.AppConfig

	params := &stripe.CheckoutSessionParams{
		Customer: stripe.String(customerID),
		Mode:     stripe.String(string(stripe.CheckoutSessionModeSubscription)),
		LineItems: []*stripe.CheckoutSessionLineItemParams{
			{
				Price:    stripe.String(priceID),
				Quantity: stripe.Int64(1),
			},
		},
		SuccessURL: stripe.String(cfg.AppBaseURL + "/premium/success?session_id={CHECKOUT_SESSION_ID}"),
		CancelURL:  stripe.String(cfg.AppBaseURL + "/premium/cancel"),
		SubscriptionData: &stripe.CheckoutSessionSubscriptionDataParams{
			TrialPeriodDays: stripe.Int64(int64(cfg.TrialPeriodDays)),
			Metadata: map[string]string{
				"user_id": userID,
			},
		},
	}
	params.AddMetadata("user_id", userID)

	sess, err := session.New(params)
	if err != nil {
		return "", "", fmt.Errorf("failed to create checkout session: %w", err)
	}

	return sess.URL, sess.ID, nil
}

// VerifyCheckoutSession retrieves a checkout session with its subscription
// expanded. An incomplete or unpaid session is a normal outcome, reported as
// Completed=false without error.
func (s *StripeService) VerifyCheckoutSession(sessionID string) (*CheckoutVerification, error) {
	params := &stripe.CheckoutSessionParams{}
	params.AddExpand("subscription")

	sess, err := session.Get(sessionID, params)
	if err != nil {
		return nil, fmt.Errorf("failed to retrieve checkout session: %w", err)
	}

	paid := sess.PaymentStatus == stripe.CheckoutSessionPaymentStatusPaid ||
		sess.PaymentStatus == stripe.CheckoutSessionPaymentStatusNoPaymentRequired
	if sess.Status != stripe.CheckoutSessionStatusComplete || !paid {
		return &CheckoutVerification{Completed: false}, nil
	}

	sub := sess.Subscription
	if sub == nil || sub.Items == nil || len(sub.Items.Data) == 0 {
		return nil, ErrNoSubscription
	}

	item := sub.Items.Data[0]
	return &CheckoutVerification{
		Completed: true,
		PriceID:   item.Price.ID,
		PeriodEnd: time.Unix(item.CurrentPeriodEnd, 0),
		UserID:    sess.Metadata["user_id"],
	}, nil
}

// CreatePortalSession creates a hosted billing-portal session for an
// existing customer.
func (s *StripeService) CreatePortalSession(customerID string) (string, error) {
	params := &stripe.BillingPortalSessionParams{
		Customer:  stripe.String(customerID),
		ReturnURL: stripe.String(config.AppConfig.AppBaseURL + "/settings"),
	}

	sess, err := portalsession.New(params)
	if err != nil {
		return "", fmt.Errorf("failed to create portal session: %w", err)
	}

	return sess.URL, nil
}

// isStripeNotFound reports whether err is Stripe saying the resource does
// not exist.
func isStripeNotFound(err error) bool {
	var stripeErr *stripe.Error
	if errors.As(err, &stripeErr) {
		return stripeErr.Code == stripe.ErrorCodeResourceMissing ||
			stripeErr.HTTPStatusCode == 404
	}
	return false
}
