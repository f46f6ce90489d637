package api

import (
	"context"
	"errors"

	"github.com/contesthub/contest-platform-backend/models"
)

type keyType string

const (
	emailKey keyType = "email"
	userKey  keyType = "user"
)

// ctxWithEmail adds the verified caller email to the context
func ctxWithEmail(ctx context.Context, email string) context.Context {
	return context.WithValue(ctx, emailKey, email)
}

// ctxGetEmail retrieves the verified caller email from the context
func ctxGetEmail(ctx context.Context) (string, error) {
	value := ctx.Value(emailKey)
	if value == nil {
		return "", errors.New("email not found in context")
	}
	email, ok := value.(string)
	if !ok || email == "" {
		return "", errors.New("email in context is not a string")
	}
	return email, nil
}

// ctxWithUser adds the role-checked user record to the context
func ctxWithUser(ctx context.Context, user *models.User) context.Context {
	return context.WithValue(ctx, userKey, user)
}

// ctxGetUser retrieves the role-checked user record from the context
func ctxGetUser(ctx context.Context) (*models.User, error) {
	value := ctx.Value(userKey)
	if value == nil {
		return nil, errors.New("user not found in context")
	}
	user, ok := value.(*models.User)
	if !ok {
		return nil, errors.New("value in context is not a user")
	}
	return user, nil
}
