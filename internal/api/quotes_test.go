package api

import (
	"net/http"
	"testing"

	"journal-api/internal/database"
	"journal-api/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetDailyQuote(t *testing.T) {
	r := setupRouter(t, &fakeBilling{})
	require.NoError(t, database.DB.Create(&models.Quote{Text: "One", Category: "calm"}).Error)
	require.NoError(t, database.DB.Create(&models.Quote{Text: "Two", Category: "calm"}).Error)

	w := doJSON(r, http.MethodGet, "/api/quotes/daily", nil, nil)
	require.Equal(t, http.StatusOK, w.Code)
	first := decodeBody(t, w)
	assert.Equal(t, true, first["success"])

	// The pick is deterministic within a day, even without the cache
	w = doJSON(r, http.MethodGet, "/api/quotes/daily", nil, nil)
	require.Equal(t, http.StatusOK, w.Code)
	second := decodeBody(t, w)
	assert.Equal(t, first["data"], second["data"])
}

func TestGetDailyQuote_NoQuotes(t *testing.T) {
	r := setupRouter(t, &fakeBilling{})

	w := doJSON(r, http.MethodGet, "/api/quotes/daily", nil, nil)
	require.Equal(t, http.StatusInternalServerError, w.Code)
}
