package database

import (
	"fmt"
	"time"

	"journal-api/internal/models"
)

// CreateProfile 创建用户档案
func CreateProfile(profile *models.Profile) error {
	return DB.Create(profile).Error
}

// GetProfileByUserID 通过用户ID获取档案
func GetProfileByUserID(userID string) (*models.Profile, error) {
	var profile models.Profile
	err := DB.Where("user_id = ?", userID).First(&profile).Error
	if err != nil {
		return nil, err
	}
	return &profile, nil
}

// GetOrCreateProfile returns the profile for userID, creating a free-tier row
// if the signup trigger has not reached us yet.
func GetOrCreateProfile(userID, email, displayName string) (*models.Profile, error) {
	profile := models.Profile{
		UserID:             userID,
		Email:              email,
		DisplayName:        displayName,
		SubscriptionStatus: models.StatusFree,
		SubscriptionTier:   models.TierFree,
	}

	result := DB.Where("user_id = ?", userID).FirstOrCreate(&profile)
	if result.Error != nil {
		return nil, result.Error
	}
	return &profile, nil
}

// UpdateProfileBillingCustomerID persists the billing provider's customer id.
// The id, once set, is never cleared.
func UpdateProfileBillingCustomerID(userID, customerID string) error {
	result := DB.Model(&models.Profile{}).
		Where("user_id = ?", userID).
		Update("billing_customer_id", customerID)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return fmt.Errorf("profile not found for user %s", userID)
	}
	return nil
}

// UpdateProfileSubscription applies new subscription state to the profile row.
// Both the synchronous verifier and the webhook processors funnel through
// here; each call is a single-row update, so concurrent writers converge on
// whichever state lands last.
func UpdateProfileSubscription(userID, status, tier string, expiresAt *time.Time) error {
	updates := map[string]interface{}{
		"subscription_status": status,
		"subscription_tier":   tier,
	}
	if expiresAt != nil {
		updates["subscription_expires_at"] = *expiresAt
	}

	result := DB.Model(&models.Profile{}).
		Where("user_id = ?", userID).
		Updates(updates)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return fmt.Errorf("profile not found for user %s", userID)
	}
	return nil
}
