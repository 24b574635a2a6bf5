package app

import (
	"context"
	"fmt"

	"github.com/coreos/go-oidc/v3/oidc"
)

const googleIssuer = "https://accounts.google.com"

// GoogleIdentity is what we keep from a verified Google ID token.
type GoogleIdentity struct {
	Email   string `json:"email"`
	Picture string `json:"picture"`
}

// CredentialVerifier verifies an opaque sign-in credential and returns
// the identity it attests to.
type CredentialVerifier interface {
	Verify(ctx context.Context, credential string) (*GoogleIdentity, error)
}

// GoogleVerifier checks Google ID tokens against the configured client id.
type GoogleVerifier struct {
	verifier *oidc.IDTokenVerifier
}

func NewGoogleVerifier(ctx context.Context, clientID string) (*GoogleVerifier, error) {
	provider, err := oidc.NewProvider(ctx, googleIssuer)
	if err != nil {
		return nil, fmt.Errorf("create OIDC provider: %w", err)
	}
	return &GoogleVerifier{
		verifier: provider.Verifier(&oidc.Config{ClientID: clientID}),
	}, nil
}

func (g *GoogleVerifier) Verify(ctx context.Context, credential string) (*GoogleIdentity, error) {
	idToken, err := g.verifier.Verify(ctx, credential)
	if err != nil {
		return nil, fmt.Errorf("verify ID token: %w", err)
	}
	var identity GoogleIdentity
	if err := idToken.Claims(&identity); err != nil {
		return nil, fmt.Errorf("parse ID token claims: %w", err)
	}
	if identity.Email == "" {
		return nil, fmt.Errorf("ID token carries no email")
	}
	return &identity, nil
}
