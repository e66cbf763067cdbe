package auth

import (
	"fmt"
	"strings"
	"time"

	"github.com/fhuszti/athlete-portfolio-go/internal/port"
	"github.com/golang-jwt/jwt/v4"
)

const (
	// DefaultSessionTTL is the lifetime of an admin session.
	DefaultSessionTTL = 8 * time.Hour

	sessionIssuer   = "athlete-portfolio"
	sessionAudience = "admin"
)

type sessionClaims struct {
	Name string `json:"name"`
	jwt.RegisteredClaims
}

// SessionSigner issues and verifies HS256 admin session tokens.
type SessionSigner struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
	parser *jwt.Parser
}

// compile-time check: *SessionSigner must satisfy port.SessionVerifier
var _ port.SessionVerifier = (*SessionSigner)(nil)

func NewSessionSigner(secret []byte, ttl time.Duration) *SessionSigner {
	if ttl <= 0 {
		ttl = DefaultSessionTTL
	}
	return &SessionSigner{
		secret: secret,
		ttl:    ttl,
		now:    time.Now,
		parser: jwt.NewParser(jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Name})),
	}
}

func (s *SessionSigner) TTL() time.Duration { return s.ttl }

func (s *SessionSigner) Sign(email, name string) (string, time.Time, error) {
	now := s.now().UTC()
	exp := now.Add(s.ttl)
	claims := sessionClaims{
		Name: name,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    sessionIssuer,
			Audience:  jwt.ClaimStrings{sessionAudience},
			Subject:   email,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(exp),
		},
	}
	tok, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
	if err != nil {
		return "", time.Time{}, fmt.Errorf("sign session: %w", err)
	}
	return tok, exp, nil
}

func (s *SessionSigner) VerifySession(raw string) (port.Session, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return port.Session{}, ErrInvalidSession
	}
	claims := &sessionClaims{}
	tok, err := s.parser.ParseWithClaims(raw, claims, func(t *jwt.Token) (interface{}, error) {
		return s.secret, nil
	})
	if err != nil || !tok.Valid {
		return port.Session{}, ErrInvalidSession
	}
	if !claims.VerifyIssuer(sessionIssuer, true) || !claims.VerifyAudience(sessionAudience, true) {
		return port.Session{}, ErrInvalidSession
	}
	if claims.Subject == "" || claims.ExpiresAt == nil {
		return port.Session{}, ErrInvalidSession
	}
	return port.Session{
		Email:     claims.Subject,
		Name:      claims.Name,
		ExpiresAt: claims.ExpiresAt.Time,
	}, nil
}
