package services

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"journal-api/internal/config"
)

// BrevoService provides Brevo email service
type BrevoService struct {
	APIKey    string
	FromEmail string
	FromName  string
}

// NewBrevoService creates a new Brevo service instance
func NewBrevoService() *BrevoService {
	return &BrevoService{
		APIKey:    config.AppConfig.BrevoAPIKey,
		FromEmail: config.AppConfig.BrevoFromEmail,
		FromName:  config.AppConfig.BrevoFromName,
	}
}

// EmailRequest represents Brevo email request structure
type EmailRequest struct {
	Sender      EmailSender `json:"sender"`
	To          []EmailTo   `json:"to"`
	Subject     string      `json:"subject"`
	HTMLContent string      `json:"htmlContent"`
	TextContent string      `json:"textContent"`
}

type EmailSender struct {
	Name  string `json:"name"`
	Email string `json:"email"`
}

type EmailTo struct {
	Email string `json:"email"`
	Name  string `json:"name,omitempty"`
}

// SendWelcomeEmail sends the signup welcome email. Callers invoke this from a
// goroutine; failures are logged, never surfaced to the user.
func (s *BrevoService) SendWelcomeEmail(to, name string) error {
	if s.APIKey == "" || to == "" {
		// Email not configured, skip
		return nil
	}

	greeting := "there"
	if name != "" {
		greeting = name
	}

	subject := fmt.Sprintf("Welcome to %s", config.AppConfig.ServiceName)
	htmlContent := fmt.Sprintf(`
		<!DOCTYPE html>
		<html>
		<head><meta charset="UTF-8"><title>Welcome</title></head>
		<body style="font-family: Arial, sans-serif; max-width: 600px; margin: 0 auto; padding: 20px;">
			<div style="background-color: #f8f9fa; padding: 30px; border-radius: 10px;">
				<h1 style="color: #333;">Hi %s,</h1>
				<p style="color: #666; font-size: 16px;">Your journal is ready. Write a few lines today, your future self will thank you.</p>
				<p style="color: #999; font-size: 12px; margin-top: 30px;">If you didn't create this account, you can ignore this email.</p>
			</div>
		</body>
		</html>
	`, greeting)

	textContent := fmt.Sprintf(`Hi %s,

Your journal is ready. Write a few lines today, your future self will thank you.

If you didn't create this account, you can ignore this email.
`, greeting)

	return s.sendEmail(EmailRequest{
		Sender:      EmailSender{Name: s.FromName, Email: s.FromEmail},
		To:          []EmailTo{{Email: to, Name: name}},
		Subject:     subject,
		HTMLContent: htmlContent,
		TextContent: textContent,
	})
}

// SendSubscriptionActiveEmail confirms a newly activated subscription.
func (s *BrevoService) SendSubscriptionActiveEmail(to, name, tier string, expiresAt *time.Time) error {
	if s.APIKey == "" || to == "" {
		return nil
	}

	greeting := "there"
	if name != "" {
		greeting = name
	}

	renewal := ""
	if expiresAt != nil {
		renewal = fmt.Sprintf(`<p style="color: #666;">Your plan renews on %s.</p>`, expiresAt.Format("January 2, 2006"))
	}

	subject := "Your premium subscription is active"
	htmlContent := fmt.Sprintf(`
		<!DOCTYPE html>
		<html>
		<head><meta charset="UTF-8"><title>Subscription active</title></head>
		<body style="font-family: Arial, sans-serif; max-width: 600px; margin: 0 auto; padding: 20px;">
			<div style="background-color: #f8f9fa; padding: 30px; border-radius: 10px;">
				<h1 style="color: #333;">Hi %s,</h1>
				<p style="color: #666; font-size: 16px;">Your <strong>%s</strong> plan is now active. Full journal history, mood insights and more are unlocked.</p>
				%s
			</div>
		</body>
		</html>
	`, greeting, tier, renewal)

	textContent := fmt.Sprintf(`Hi %s,

Your %s plan is now active. Full journal history, mood insights and more are unlocked.
`, greeting, tier)

	return s.sendEmail(EmailRequest{
		Sender:      EmailSender{Name: s.FromName, Email: s.FromEmail},
		To:          []EmailTo{{Email: to, Name: name}},
		Subject:     subject,
		HTMLContent: htmlContent,
		TextContent: textContent,
	})
}

// sendEmail sends email via Brevo API
func (s *BrevoService) sendEmail(req EmailRequest) error {
	jsonData, err := json.Marshal(req)
	if err != nil {
		return fmt.Errorf("failed to marshal email request: %w", err)
	}

	httpReq, err := http.NewRequest("POST", "https://api.brevo.com/v3/smtp/email", bytes.NewBuffer(jsonData))
	if err != nil {
		return fmt.Errorf("failed to create HTTP request: %w", err)
	}

	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("api-key", s.APIKey)

	client := &http.Client{Timeout: 10 * time.Second}
	resp, err := client.Do(httpReq)
	if err != nil {
		return fmt.Errorf("failed to send email: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusCreated {
		return fmt.Errorf("brevo API error: status %d", resp.StatusCode)
	}

	return nil
}
