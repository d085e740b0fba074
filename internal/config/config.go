package config

import (
	"fmt"
	"os"
	"sort"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

type Config struct {
	// Server configuration
	Port string
	Mode string

	// Database configuration
	DatabaseURL string

	// Redis configuration
	RedisURL string

	// Stripe configuration
	StripeSecretKey     string
	StripeWebhookSecret string
	PriceIDMonthly      string
	PriceIDYearly       string
	TrialPeriodDays     int

	// Webhook shared secrets (HMAC-SHA256 over the raw body)
	RevenueCatWebhookSecret string
	SignupWebhookSecret     string

	// Application URLs
	AppBaseURL string

	// Brevo email configuration
	BrevoAPIKey    string
	BrevoFromEmail string
	BrevoFromName  string

	ServiceName string
}

var AppConfig *Config

// InitConfig builds the process-wide configuration from the environment.
// Completeness is checked here, once, so handlers never read env state.
func InitConfig() error {
	// Load .env file
	if err := godotenv.Load(); err != nil {
		// Ignore error if .env file doesn't exist
	}

	cfg := &Config{
		Port:                    getEnv("PORT", "8080"),
		Mode:                    getEnv("GIN_MODE", "debug"),
		DatabaseURL:             getEnv("DATABASE_URL", ""),
		RedisURL:                getEnv("REDIS_URL", ""),
		StripeSecretKey:         getEnv("STRIPE_SECRET_KEY", ""),
		StripeWebhookSecret:     getEnv("STRIPE_WEBHOOK_SECRET", ""),
		PriceIDMonthly:          getEnv("STRIPE_PRICE_ID_MONTHLY", ""),
		PriceIDYearly:           getEnv("STRIPE_PRICE_ID_YEARLY", ""),
		TrialPeriodDays:         getEnvInt("TRIAL_PERIOD_DAYS", 7),
		RevenueCatWebhookSecret: getEnv("REVENUECAT_WEBHOOK_SECRET", ""),
		SignupWebhookSecret:     getEnv("SIGNUP_WEBHOOK_SECRET", ""),
		AppBaseURL:              getEnv("APP_BASE_URL", "http://localhost:3000"),
		BrevoAPIKey:             getEnv("BREVO_API_KEY", ""),
		BrevoFromEmail:          getEnv("BREVO_FROM_EMAIL", ""),
		BrevoFromName:           getEnv("BREVO_FROM_NAME", "Journal"),
		ServiceName:             getEnv("SERVICE_NAME", "journal-api"),
	}

	if err := cfg.Validate(); err != nil {
		return err
	}

	AppConfig = cfg
	return nil
}

// Validate reports every missing required variable by name so the operator
// sees the full list at once instead of one variable per restart.
func (c *Config) Validate() error {
	required := map[string]string{
		"STRIPE_SECRET_KEY":         c.StripeSecretKey,
		"STRIPE_WEBHOOK_SECRET":     c.StripeWebhookSecret,
		"STRIPE_PRICE_ID_MONTHLY":   c.PriceIDMonthly,
		"STRIPE_PRICE_ID_YEARLY":    c.PriceIDYearly,
		"REVENUECAT_WEBHOOK_SECRET": c.RevenueCatWebhookSecret,
		"SIGNUP_WEBHOOK_SECRET":     c.SignupWebhookSecret,
	}

	var missing []string
	for name, value := range required {
		if value == "" {
			missing = append(missing, name)
		}
	}
	if len(missing) > 0 {
		sort.Strings(missing)
		return fmt.Errorf("missing required environment variables: %s", strings.Join(missing, ", "))
	}

	if c.TrialPeriodDays < 0 {
		return fmt.Errorf("TRIAL_PERIOD_DAYS must not be negative, got %d", c.TrialPeriodDays)
	}

	return nil
}

// IsKnownPriceID reports whether priceID is one of the configured plan prices.
func (c *Config) IsKnownPriceID(priceID string) bool {
	return priceID != "" && (priceID == c.PriceIDMonthly || priceID == c.PriceIDYearly)
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}
