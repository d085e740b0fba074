package services

import (
	"testing"
	"time"

	"journal-api/internal/config"
	"journal-api/internal/database"
	"journal-api/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
	"gorm.io/gorm/schema"
)

func setupTestDB(t *testing.T) {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
		NamingStrategy: schema.NamingStrategy{
			SingularTable: true,
		},
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	// A second pooled connection would see its own empty :memory: database
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, db.AutoMigrate(&models.Profile{}, &models.JournalEntry{}, &models.Quote{}))
	database.DB = db

	config.AppConfig = &config.Config{
		PriceIDMonthly: "price_monthly",
		PriceIDYearly:  "price_yearly",
	}
}

func createFreeProfile(t *testing.T, userID string) {
	t.Helper()
	require.NoError(t, database.CreateProfile(&models.Profile{
		UserID:             userID,
		Email:              userID + "@example.com",
		SubscriptionStatus: models.StatusFree,
		SubscriptionTier:   models.TierFree,
	}))
}

func TestApplySubscriptionEvent_InitialPurchaseYearly(t *testing.T) {
	setupTestDB(t)
	createFreeProfile(t, "user-1")

	expiry := time.Now().Add(365 * 24 * time.Hour).UnixMilli()
	applied, err := ApplySubscriptionEvent(&RevenueCatEvent{
		Type:           EventInitialPurchase,
		AppUserID:      "user-1",
		ProductID:      "yearly_premium",
		ExpirationAtMS: expiry,
	})
	require.NoError(t, err)
	assert.True(t, applied)

	profile, err := database.GetProfileByUserID("user-1")
	require.NoError(t, err)
	assert.Equal(t, models.StatusPremium, profile.SubscriptionStatus)
	assert.Equal(t, models.TierPremiumPlus, profile.SubscriptionTier)
	require.NotNil(t, profile.SubscriptionExpiresAt)
	assert.Equal(t, expiry, profile.SubscriptionExpiresAt.UnixMilli())
}

func TestApplySubscriptionEvent_Idempotent(t *testing.T) {
	setupTestDB(t)
	createFreeProfile(t, "user-1")

	event := &RevenueCatEvent{
		Type:           EventInitialPurchase,
		AppUserID:      "user-1",
		ProductID:      "monthly_premium",
		ExpirationAtMS: time.Now().Add(30 * 24 * time.Hour).UnixMilli(),
	}

	_, err := ApplySubscriptionEvent(event)
	require.NoError(t, err)
	first, err := database.GetProfileByUserID("user-1")
	require.NoError(t, err)

	// Re-delivery of the same event must leave the row identical
	for i := 0; i < 3; i++ {
		_, err := ApplySubscriptionEvent(event)
		require.NoError(t, err)
	}
	after, err := database.GetProfileByUserID("user-1")
	require.NoError(t, err)

	assert.Equal(t, first.SubscriptionStatus, after.SubscriptionStatus)
	assert.Equal(t, first.SubscriptionTier, after.SubscriptionTier)
	assert.Equal(t, first.SubscriptionExpiresAt.UnixMilli(), after.SubscriptionExpiresAt.UnixMilli())
	assert.Equal(t, first.BillingCustomerID, after.BillingCustomerID)
}

func TestApplySubscriptionEvent_RenewalThenCancellation(t *testing.T) {
	setupTestDB(t)
	createFreeProfile(t, "user-1")

	expiry := time.Now().Add(30 * 24 * time.Hour).UnixMilli()

	_, err := ApplySubscriptionEvent(&RevenueCatEvent{
		Type: EventRenewal, AppUserID: "user-1", ProductID: "monthly_premium", ExpirationAtMS: expiry,
	})
	require.NoError(t, err)

	_, err = ApplySubscriptionEvent(&RevenueCatEvent{
		Type: EventCancellation, AppUserID: "user-1", ExpirationAtMS: expiry,
	})
	require.NoError(t, err)

	profile, err := database.GetProfileByUserID("user-1")
	require.NoError(t, err)
	assert.Equal(t, models.StatusCancelled, profile.SubscriptionStatus)
	// Cancellation keeps the derived tier; access runs until expiry
	assert.Equal(t, models.TierPremium, profile.SubscriptionTier)
}

func TestApplySubscriptionEvent_StaleRenewalAfterCancellation(t *testing.T) {
	setupTestDB(t)
	createFreeProfile(t, "user-1")

	newer := time.Now().Add(30 * 24 * time.Hour).UnixMilli()
	older := time.Now().Add(10 * 24 * time.Hour).UnixMilli()

	_, err := ApplySubscriptionEvent(&RevenueCatEvent{
		Type: EventCancellation, AppUserID: "user-1", ExpirationAtMS: newer,
	})
	require.NoError(t, err)

	// Out-of-order stale renewal: last arrival wins, by design
	_, err = ApplySubscriptionEvent(&RevenueCatEvent{
		Type: EventRenewal, AppUserID: "user-1", ProductID: "monthly_premium", ExpirationAtMS: older,
	})
	require.NoError(t, err)

	profile, err := database.GetProfileByUserID("user-1")
	require.NoError(t, err)
	assert.Equal(t, models.StatusPremium, profile.SubscriptionStatus)
	assert.Equal(t, older, profile.SubscriptionExpiresAt.UnixMilli())
}

func TestApplySubscriptionEvent_ExpirationAndBillingIssue(t *testing.T) {
	for _, eventType := range []string{EventExpiration, EventBillingIssue} {
		setupTestDB(t)
		createFreeProfile(t, "user-1")

		_, err := ApplySubscriptionEvent(&RevenueCatEvent{
			Type: EventInitialPurchase, AppUserID: "user-1", ProductID: "monthly_premium",
		})
		require.NoError(t, err)

		_, err = ApplySubscriptionEvent(&RevenueCatEvent{
			Type: eventType, AppUserID: "user-1",
		})
		require.NoError(t, err)

		profile, err := database.GetProfileByUserID("user-1")
		require.NoError(t, err)
		assert.Equal(t, models.StatusExpired, profile.SubscriptionStatus, "event %s", eventType)
	}
}

func TestApplySubscriptionEvent_UnknownTypeIgnored(t *testing.T) {
	setupTestDB(t)
	createFreeProfile(t, "user-1")

	applied, err := ApplySubscriptionEvent(&RevenueCatEvent{
		Type: "PRODUCT_CHANGE", AppUserID: "user-1",
	})
	require.NoError(t, err)
	assert.False(t, applied)

	profile, err := database.GetProfileByUserID("user-1")
	require.NoError(t, err)
	assert.Equal(t, models.StatusFree, profile.SubscriptionStatus)
}

func TestApplySubscriptionEvent_UnknownUserFails(t *testing.T) {
	setupTestDB(t)

	_, err := ApplySubscriptionEvent(&RevenueCatEvent{
		Type: EventInitialPurchase, AppUserID: "missing-user", ProductID: "monthly_premium",
	})
	assert.Error(t, err)
}

func TestApplySubscriptionEvent_KeepsExistingCustomerID(t *testing.T) {
	setupTestDB(t)
	createFreeProfile(t, "user-1")
	require.NoError(t, database.UpdateProfileBillingCustomerID("user-1", "cus_stripe_123"))

	_, err := ApplySubscriptionEvent(&RevenueCatEvent{
		Type: EventInitialPurchase, AppUserID: "user-1", ProductID: "monthly_premium",
	})
	require.NoError(t, err)

	profile, err := database.GetProfileByUserID("user-1")
	require.NoError(t, err)
	// The customer id, once set, is never reissued
	assert.Equal(t, "cus_stripe_123", profile.BillingCustomerID)
}

// Both reconciliation paths write the same derived state; interleaving in
// either order must converge on the same row.
func TestVerifyAndWebhookPathsConverge(t *testing.T) {
	expiry := time.Now().Add(30 * 24 * time.Hour).Truncate(time.Millisecond)
	event := &RevenueCatEvent{
		Type:           EventInitialPurchase,
		AppUserID:      "user-1",
		ProductID:      "yearly_premium",
		ExpirationAtMS: expiry.UnixMilli(),
	}

	verifyWrite := func() error {
		e := expiry
		return database.UpdateProfileSubscription("user-1", models.StatusPremium, TierFromPriceID("price_yearly"), &e)
	}
	webhookWrite := func() error {
		_, err := ApplySubscriptionEvent(event)
		return err
	}

	var results []models.Profile
	for _, order := range [][]func() error{
		{verifyWrite, webhookWrite},
		{webhookWrite, verifyWrite},
	} {
		setupTestDB(t)
		createFreeProfile(t, "user-1")

		for _, write := range order {
			require.NoError(t, write())
		}

		profile, err := database.GetProfileByUserID("user-1")
		require.NoError(t, err)
		results = append(results, *profile)
	}

	assert.Equal(t, results[0].SubscriptionStatus, results[1].SubscriptionStatus)
	assert.Equal(t, results[0].SubscriptionTier, results[1].SubscriptionTier)
	assert.Equal(t, results[0].SubscriptionExpiresAt.UnixMilli(), results[1].SubscriptionExpiresAt.UnixMilli())
}
