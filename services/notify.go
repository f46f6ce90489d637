package services

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"github.com/rs/zerolog/log"

	"github.com/contesthub/contest-platform-backend/models"
)

// ResendEmailRequest represents the request payload for Resend API
type ResendEmailRequest struct {
	From    string   `json:"from"`
	To      []string `json:"to"`
	Subject string   `json:"subject"`
	Html    string   `json:"html,omitempty"`
	Text    string   `json:"text,omitempty"`
}

// ResendEmailResponse represents the response from Resend API
type ResendEmailResponse struct {
	ID string `json:"id"`
}

// ResendErrorResponse represents an error response from Resend API
type ResendErrorResponse struct {
	Message string `json:"message"`
}

// Notifier forwards contact messages to the admin inbox via the Resend API.
// A zero-value Notifier (no API key) disables sending.
type Notifier struct {
	apiKey    string
	fromEmail string
	toEmail   string
}

func NewNotifier(apiKey, fromEmail, toEmail string) *Notifier {
	return &Notifier{apiKey: apiKey, fromEmail: fromEmail, toEmail: toEmail}
}

// ContactReceived emails the admin about a new contact message. Callers treat
// failures as best-effort; the message is already persisted.
func (n *Notifier) ContactReceived(message models.ContactMessage) error {
	if n.apiKey == "" || n.toEmail == "" {
		log.Debug().Msg("Contact notification disabled, no Resend API key configured")
		return nil
	}

	subject := fmt.Sprintf("New contact message from %s", message.Name)
	body := fmt.Sprintf("From: %s <%s>\n\n%s", message.Name, message.Email, message.Message)

	payload := ResendEmailRequest{
		From:    n.fromEmail,
		To:      []string{n.toEmail},
		Subject: subject,
		Text:    body,
	}

	jsonPayload, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to marshal email payload: %w", err)
	}

	req, err := http.NewRequest("POST", "https://api.resend.com/emails", bytes.NewBuffer(jsonPayload))
	if err != nil {
		return fmt.Errorf("failed to create Resend API request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+n.apiKey)
	req.Header.Set("Content-Type", "application/json")

	client := &http.Client{}
	resp, err := client.Do(req)
	if err != nil {
		return fmt.Errorf("failed to send request to Resend API: %w", err)
	}
	defer resp.Body.Close()

	bodyBytes, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read Resend API response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		var errorResp ResendErrorResponse
		if err := json.Unmarshal(bodyBytes, &errorResp); err == nil {
			return fmt.Errorf("resend API error (status %d): %s", resp.StatusCode, errorResp.Message)
		}
		return fmt.Errorf("resend API error (status %d): %s", resp.StatusCode, string(bodyBytes))
	}

	var emailResponse ResendEmailResponse
	if err := json.Unmarshal(bodyBytes, &emailResponse); err != nil {
		log.Warn().Err(err).Msg("Failed to parse Resend email response, but email was sent")
	} else {
		log.Info().Str("emailId", emailResponse.ID).Msg("Sent contact notification via Resend")
	}

	return nil
}
