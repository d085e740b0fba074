package models

import (
	"time"
)

// Subscription status values. Status only changes through the subscription
// verifier or the webhook processors; no other writer exists.
const (
	StatusFree      = "free"
	StatusPremium   = "premium"
	StatusCancelled = "cancelled"
	StatusExpired   = "expired"
)

// Subscription tier values, derived from the purchased plan.
const (
	TierFree        = "free"
	TierPremium     = "premium"
	TierPremiumPlus = "premium_plus"
)

// Profile stores one row per user and is the single source of truth for
// subscription state. It is created at signup and never deleted here.
type Profile struct {
	BaseModel

	UserID      string `json:"user_id" gorm:"uniqueIndex;not null;size:64"`
	Email       string `json:"email" gorm:"size:255;index"`
	DisplayName string `json:"display_name" gorm:"size:255"`

	SubscriptionStatus    string     `json:"subscription_status" gorm:"not null;size:20;default:'free';index"`
	SubscriptionTier      string     `json:"subscription_tier" gorm:"not null;size:20;default:'free'"`
	SubscriptionExpiresAt *time.Time `json:"subscription_expires_at"` // provider-supplied; nil means not currently known

	// External billing provider customer id. Once set it is never cleared,
	// only re-verified against the provider.
	BillingCustomerID string `json:"billing_customer_id" gorm:"size:255;index"`
}

// HasPremiumAccess reports whether the user can use premium features right
// now. A cancelled subscription stays usable until its paid period ends.
func (p *Profile) HasPremiumAccess() bool {
	switch p.SubscriptionStatus {
	case StatusPremium:
		return true
	case StatusCancelled:
		return p.SubscriptionExpiresAt != nil && p.SubscriptionExpiresAt.After(time.Now())
	default:
		return false
	}
}
