// Package auth implements the operator sign-in: an OpenID Connect challenge
// against the identity provider and a signed session cookie afterwards.
package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

const (
	SessionCookieName   = "catalog_admin_session"
	ChallengeCookieName = "catalog_admin_oidc"

	// IdentityContextKey is the echo context key holding the *Identity of
	// an authenticated request.
	IdentityContextKey = "identity"

	ChallengeTTL = 10 * time.Minute
	issuer       = "catalog-admin"
)

var ErrInvalidToken = errors.New("invalid token")

// Identity is the signed-in operator.
type Identity struct {
	Subject string
	Name    string
	Email   string
}

// DisplayName prefers the name claim, then email, then subject.
func (i *Identity) DisplayName() string {
	switch {
	case i.Name != "":
		return i.Name
	case i.Email != "":
		return i.Email
	default:
		return i.Subject
	}
}

type sessionClaims struct {
	Name  string `json:"name,omitempty"`
	Email string `json:"email,omitempty"`
	jwt.RegisteredClaims
}

// Challenge correlates an authorization request with its callback.
type Challenge struct {
	State     string
	Nonce     string
	ReturnURL string
}

type challengeClaims struct {
	Nonce     string `json:"nonce"`
	ReturnURL string `json:"return_url"`
	jwt.RegisteredClaims
}

// SessionManager signs and validates the session and challenge cookies.
type SessionManager struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

func NewSessionManager(secret string, ttl time.Duration) *SessionManager {
	return &SessionManager{
		secret: []byte(secret),
		ttl:    ttl,
		now:    time.Now,
	}
}

func (m *SessionManager) TTL() time.Duration {
	return m.ttl
}

func (m *SessionManager) IssueSession(id *Identity) (string, error) {
	now := m.now()
	claims := &sessionClaims{
		Name:  id.Name,
		Email: id.Email,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    issuer,
			Subject:   id.Subject,
			ExpiresAt: jwt.NewNumericDate(now.Add(m.ttl)),
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
		},
	}

	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(m.secret)
	if err != nil {
		return "", fmt.Errorf("sign session: %w", err)
	}
	return token, nil
}

func (m *SessionManager) ParseSession(token string) (*Identity, error) {
	claims := &sessionClaims{}
	if err := m.parse(token, claims); err != nil {
		return nil, err
	}
	if claims.Subject == "" {
		return nil, fmt.Errorf("%w: missing subject", ErrInvalidToken)
	}

	return &Identity{
		Subject: claims.Subject,
		Name:    claims.Name,
		Email:   claims.Email,
	}, nil
}

func (m *SessionManager) IssueChallenge(ch Challenge) (string, error) {
	now := m.now()
	claims := &challengeClaims{
		Nonce:     ch.Nonce,
		ReturnURL: ch.ReturnURL,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    issuer,
			ID:        ch.State,
			ExpiresAt: jwt.NewNumericDate(now.Add(ChallengeTTL)),
			IssuedAt:  jwt.NewNumericDate(now),
		},
	}

	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(m.secret)
	if err != nil {
		return "", fmt.Errorf("sign challenge: %w", err)
	}
	return token, nil
}

func (m *SessionManager) ParseChallenge(token string) (*Challenge, error) {
	claims := &challengeClaims{}
	if err := m.parse(token, claims); err != nil {
		return nil, err
	}
	if claims.ID == "" || claims.Nonce == "" {
		return nil, fmt.Errorf("%w: incomplete challenge", ErrInvalidToken)
	}

	return &Challenge{
		State:     claims.ID,
		Nonce:     claims.Nonce,
		ReturnURL: claims.ReturnURL,
	}, nil
}

func (m *SessionManager) parse(token string, claims jwt.Claims) error {
	_, err := jwt.ParseWithClaims(token, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("invalid signing method")
		}
		return m.secret, nil
	},
		jwt.WithIssuer(issuer),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(m.now),
	)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}
	return nil
}
