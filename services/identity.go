package services

import (
	"context"
	"fmt"

	"github.com/descope/go-sdk/descope/client"
)

// TokenVerifier validates a bearer credential and yields the verified email
// claim. The production implementation talks to Descope; tests substitute a
// fake.
type TokenVerifier interface {
	VerifyToken(ctx context.Context, token string) (email string, err error)
}

// DescopeVerifier verifies session tokens against a Descope project.
type DescopeVerifier struct {
	client *client.DescopeClient
}

func NewDescopeVerifier(projectID string) (*DescopeVerifier, error) {
	if projectID == "" {
		return nil, fmt.Errorf("descope project id is required")
	}
	descopeClient, err := client.NewWithConfig(&client.Config{ProjectID: projectID})
	if err != nil {
		return nil, fmt.Errorf("initializing descope client: %w", err)
	}
	return &DescopeVerifier{client: descopeClient}, nil
}

// VerifyToken validates the session token and extracts the email claim.
func (v *DescopeVerifier) VerifyToken(ctx context.Context, token string) (string, error) {
	authorized, sessionToken, err := v.client.Auth.ValidateSessionWithToken(ctx, token)
	if err != nil {
		return "", fmt.Errorf("validating session token: %w", err)
	}
	if !authorized || sessionToken == nil {
		return "", fmt.Errorf("session token rejected")
	}

	claim, ok := sessionToken.Claims["email"]
	if !ok {
		return "", fmt.Errorf("session token has no email claim")
	}
	email, ok := claim.(string)
	if !ok || email == "" {
		return "", fmt.Errorf("session token email claim is not a string")
	}
	return email, nil
}
