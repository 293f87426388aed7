package database

import (
	"context"
	"fmt"

	"firebase.google.com/go/v4/auth"
)

// Identity wraps the identity provider for the thin calls this backend
// makes: account registration, credential verification, and custom-token
// issuance. Everything else about credentials lives upstream.
type Identity struct {
	client *auth.Client
}

func NewIdentity(client *auth.Client) *Identity {
	return &Identity{client: client}
}

func (i *Identity) CreateUser(ctx context.Context, email, password, displayName string) (string, error) {
	params := (&auth.UserToCreate{}).
		Email(email).
		Password(password).
		DisplayName(displayName)

	record, err := i.client.CreateUser(ctx, params)
	if err != nil {
		return "", fmt.Errorf("create auth user: %w", err)
	}
	return record.UID, nil
}

func (i *Identity) VerifyIDToken(ctx context.Context, idToken string) (*auth.Token, error) {
	return i.client.VerifyIDToken(ctx, idToken)
}

func (i *Identity) CustomToken(ctx context.Context, uid string) (string, error) {
	token, err := i.client.CustomToken(ctx, uid)
	if err != nil {
		return "", fmt.Errorf("issue custom token: %w", err)
	}
	return token, nil
}
