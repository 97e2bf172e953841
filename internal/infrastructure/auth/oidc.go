package auth

import (
	"context"
	"errors"
	"fmt"
	"net/url"

	"github.com/coreos/go-oidc/v3/oidc"
	"golang.org/x/oauth2"

	"github.com/rpamplona/e-shop-website-with-ilb-ase/internal/config"
)

// Authenticator is the identity provider side of the sign-in flow.
type Authenticator interface {
	// AuthCodeURL is where the browser is sent to sign in.
	AuthCodeURL(state, nonce, redirectURI string) string
	// Exchange redeems the authorization code and verifies the ID token.
	Exchange(ctx context.Context, code, nonce, redirectURI string) (*Identity, error)
	// EndSessionURL returns "" when the provider has no logout endpoint.
	EndSessionURL(postLogoutRedirectURI string) string
}

type OIDCAuthenticator struct {
	oauth2             oauth2.Config
	verifier           *oidc.IDTokenVerifier
	endSessionEndpoint string
}

// NewOIDCAuthenticator runs provider discovery against the tenant issuer.
func NewOIDCAuthenticator(ctx context.Context, cfg config.AzureAdConfig) (*OIDCAuthenticator, error) {
	provider, err := oidc.NewProvider(ctx, cfg.IssuerURL())
	if err != nil {
		return nil, fmt.Errorf("discover identity provider %s: %w", cfg.IssuerURL(), err)
	}

	var meta struct {
		EndSessionEndpoint string `json:"end_session_endpoint"`
	}
	if err := provider.Claims(&meta); err != nil {
		return nil, fmt.Errorf("read provider metadata: %w", err)
	}

	return newOIDCAuthenticator(
		oauth2.Config{
			ClientID:     cfg.ClientID,
			ClientSecret: cfg.ClientSecret,
			Endpoint:     provider.Endpoint(),
			Scopes:       []string{oidc.ScopeOpenID, "profile", "email"},
		},
		provider.Verifier(&oidc.Config{ClientID: cfg.ClientID}),
		meta.EndSessionEndpoint,
	), nil
}

func newOIDCAuthenticator(oauth2Cfg oauth2.Config, verifier *oidc.IDTokenVerifier, endSession string) *OIDCAuthenticator {
	return &OIDCAuthenticator{
		oauth2:             oauth2Cfg,
		verifier:           verifier,
		endSessionEndpoint: endSession,
	}
}

// withRedirect copies the oauth2 config; the redirect URI depends on the request.
func (a *OIDCAuthenticator) withRedirect(redirectURI string) *oauth2.Config {
	c := a.oauth2
	c.RedirectURL = redirectURI
	return &c
}

func (a *OIDCAuthenticator) AuthCodeURL(state, nonce, redirectURI string) string {
	return a.withRedirect(redirectURI).AuthCodeURL(state, oidc.Nonce(nonce))
}

func (a *OIDCAuthenticator) Exchange(ctx context.Context, code, nonce, redirectURI string) (*Identity, error) {
	token, err := a.withRedirect(redirectURI).Exchange(ctx, code)
	if err != nil {
		return nil, fmt.Errorf("exchange authorization code: %w", err)
	}

	rawIDToken, ok := token.Extra("id_token").(string)
	if !ok || rawIDToken == "" {
		return nil, errors.New("token response has no id_token")
	}

	idToken, err := a.verifier.Verify(ctx, rawIDToken)
	if err != nil {
		return nil, fmt.Errorf("verify id_token: %w", err)
	}
	if idToken.Nonce != nonce {
		return nil, errors.New("id_token nonce mismatch")
	}

	var claims struct {
		Name              string `json:"name"`
		Email             string `json:"email"`
		PreferredUsername string `json:"preferred_username"`
	}
	if err := idToken.Claims(&claims); err != nil {
		return nil, fmt.Errorf("decode id_token claims: %w", err)
	}

	email := claims.Email
	if email == "" {
		email = claims.PreferredUsername
	}

	return &Identity{
		Subject: idToken.Subject,
		Name:    claims.Name,
		Email:   email,
	}, nil
}

func (a *OIDCAuthenticator) EndSessionURL(postLogoutRedirectURI string) string {
	if a.endSessionEndpoint == "" {
		return ""
	}
	u, err := url.Parse(a.endSessionEndpoint)
	if err != nil {
		return ""
	}
	q := u.Query()
	q.Set("post_logout_redirect_uri", postLogoutRedirectURI)
	u.RawQuery = q.Encode()
	return u.String()
}
