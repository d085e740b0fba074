package api

import (
	"net/http"
	"testing"

	"journal-api/internal/database"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreatePortalSession_Success(t *testing.T) {
	fake := &fakeBilling{portalURL: "https://billing.stripe.test/portal"}
	r := setupRouter(t, fake)
	createProfile(t, "user-1", "a@example.com")
	require.NoError(t, database.UpdateProfileBillingCustomerID("user-1", "cus_1"))

	w := doJSON(r, http.MethodPost, "/api/billing/create-portal-session", map[string]string{
		"userId": "user-1",
	}, nil)

	require.Equal(t, http.StatusOK, w.Code)
	body := decodeBody(t, w)
	assert.Equal(t, true, body["success"])
	assert.Equal(t, "https://billing.stripe.test/portal", body["url"])
}

func TestCreatePortalSession_NoCustomerOnFile(t *testing.T) {
	r := setupRouter(t, &fakeBilling{})
	createProfile(t, "user-1", "a@example.com")

	w := doJSON(r, http.MethodPost, "/api/billing/create-portal-session", map[string]string{
		"userId": "user-1",
	}, nil)

	require.Equal(t, http.StatusBadRequest, w.Code)
	body := decodeBody(t, w)
	assert.Equal(t, false, body["success"])
}

func TestCreatePortalSession_UnknownUser(t *testing.T) {
	r := setupRouter(t, &fakeBilling{})

	w := doJSON(r, http.MethodPost, "/api/billing/create-portal-session", map[string]string{
		"userId": "nobody",
	}, nil)

	require.Equal(t, http.StatusBadRequest, w.Code)
}
