package auth

import (
	"context"
	"errors"
	"fmt"

	"sahone-backend/internal/config"

	firebase "firebase.google.com/go/v4"
	fbauth "firebase.google.com/go/v4/auth"
	"google.golang.org/api/option"
)

var ErrInvalidIDToken = errors.New("invalid id token")

// Identity is what the external provider asserts about the caller.
type Identity struct {
	UID   string
	Email string
	Name  string
	Phone string
}

type Verifier interface {
	Verify(ctx context.Context, idToken string) (*Identity, error)
}

type FirebaseVerifier struct {
	client *fbauth.Client
}

func NewFirebaseVerifier(ctx context.Context, cfg *config.Config) (*FirebaseVerifier, error) {
	var opts []option.ClientOption
	if cfg.FirebaseCredentialsPath != "" {
		opts = append(opts, option.WithCredentialsFile(cfg.FirebaseCredentialsPath))
	}
	app, err := firebase.NewApp(ctx, &firebase.Config{ProjectID: cfg.FirebaseProjectID}, opts...)
	if err != nil {
		return nil, fmt.Errorf("firebase app: %w", err)
	}
	client, err := app.Auth(ctx)
	if err != nil {
		return nil, fmt.Errorf("firebase auth client: %w", err)
	}
	return &FirebaseVerifier{client: client}, nil
}

func (v *FirebaseVerifier) Verify(ctx context.Context, idToken string) (*Identity, error) {
	tok, err := v.client.VerifyIDToken(ctx, idToken)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidIDToken, err)
	}
	id := &Identity{UID: tok.UID}
	if s, ok := tok.Claims["email"].(string); ok {
		id.Email = s
	}
	if s, ok := tok.Claims["name"].(string); ok {
		id.Name = s
	}
	if s, ok := tok.Claims["phone_number"].(string); ok {
		id.Phone = s
	}
	if id.Email == "" {
		return nil, fmt.Errorf("%w: token has no email", ErrInvalidIDToken)
	}
	return id, nil
}
