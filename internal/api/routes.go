package api

import (
	"journal-api/internal/config"
	"journal-api/internal/middleware"
	"journal-api/internal/services"

	"github.com/gin-gonic/gin"
)

// billing is swapped for a fake in handler tests.
var billing services.Billing

// replayGuard deduplicates webhook event ids across requests.
var replayGuard = services.NewReplayProtection()

// SetupRoutes sets up all routes
func SetupRoutes(r *gin.Engine) {
	if billing == nil {
		billing = services.NewStripeService()
	}

	r.Use(middleware.CORSMiddleware())

	// API route group
	api := r.Group("/api")
	{
		// Billing routes, called by the web client
		billingRoutes := api.Group("/billing")
		{
			billingRoutes.POST("/create-checkout-session", CreateCheckoutSession)
			billingRoutes.POST("/create-portal-session", CreatePortalSession)
			billingRoutes.POST("/verify-subscription", VerifySubscription)
		}

		// Subscription status, read by the premium gate
		subscription := api.Group("/subscription")
		{
			subscription.GET("/status", GetSubscriptionStatus)
		}

		// Webhook routes (no client auth; each handler authenticates the
		// sender on the raw body)
		webhooks := api.Group("/webhooks")
		{
			webhooks.POST("/revenuecat", RevenueCatWebhookHandler)
			webhooks.POST("/stripe", StripeWebhookHandler)
			webhooks.POST("/signup", SignupWebhookHandler)
		}

		// Journal routes
		journal := api.Group("/journal")
		{
			journal.POST("/entries", CreateJournalEntry)
			journal.GET("/entries", ListJournalEntries)
			journal.DELETE("/entries/:id", DeleteJournalEntry)
			journal.GET("/stats", GetMoodStats)
		}

		// Quote routes
		quotes := api.Group("/quotes")
		{
			quotes.GET("/daily", GetDailyQuote)
		}
	}

	// Health check
	r.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{
			"status":  "ok",
			"service": config.AppConfig.ServiceName,
		})
	})
}
