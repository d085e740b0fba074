package api

import (
	"net/http"
	"testing"
	"time"

	"journal-api/internal/database"
	"journal-api/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetSubscriptionStatus_FreeUser(t *testing.T) {
	r := setupRouter(t, &fakeBilling{})
	createProfile(t, "user-1", "a@example.com")

	w := doJSON(r, http.MethodGet, "/api/subscription/status?user_id=user-1", nil, nil)
	require.Equal(t, http.StatusOK, w.Code)

	body := decodeBody(t, w)
	assert.Equal(t, false, body["is_premium"])
	assert.Equal(t, models.StatusFree, body["status"])
}

func TestGetSubscriptionStatus_UnknownUserGatesAsFree(t *testing.T) {
	r := setupRouter(t, &fakeBilling{})

	w := doJSON(r, http.MethodGet, "/api/subscription/status?user_id=nobody", nil, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, false, decodeBody(t, w)["is_premium"])
}

func TestGetSubscriptionStatus_CancelledKeepsAccessUntilExpiry(t *testing.T) {
	r := setupRouter(t, &fakeBilling{})
	createProfile(t, "user-1", "a@example.com")

	future := time.Now().Add(10 * 24 * time.Hour)
	require.NoError(t, database.UpdateProfileSubscription("user-1", models.StatusCancelled, models.TierPremium, &future))

	w := doJSON(r, http.MethodGet, "/api/subscription/status?user_id=user-1", nil, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, true, decodeBody(t, w)["is_premium"])

	past := time.Now().Add(-time.Hour)
	require.NoError(t, database.UpdateProfileSubscription("user-1", models.StatusCancelled, models.TierPremium, &past))

	w = doJSON(r, http.MethodGet, "/api/subscription/status?user_id=user-1", nil, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, false, decodeBody(t, w)["is_premium"])
}

func TestGetSubscriptionStatus_MissingUserID(t *testing.T) {
	r := setupRouter(t, &fakeBilling{})

	w := doJSON(r, http.MethodGet, "/api/subscription/status", nil, nil)
	require.Equal(t, http.StatusBadRequest, w.Code)
}
