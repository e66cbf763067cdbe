package auth

import (
	"context"
	"strings"
	"time"

	"github.com/fhuszti/athlete-portfolio-go/internal/logger"
	"github.com/fhuszti/athlete-portfolio-go/internal/port"
	"github.com/fhuszti/athlete-portfolio-go/internal/ratelimit"
	"golang.org/x/crypto/bcrypt"
)

const (
	MaxLoginAttempts   = 5
	LoginAttemptWindow = 15 * time.Minute
)

// Account is one configured admin.
type Account struct {
	Email        string
	Name         string
	PasswordHash string
}

// dummyHash is compared against when the email is unknown so both paths cost one bcrypt run.
var dummyHash = []byte("$2a$10$7EqJtq98hPqEX7fNZaFWoO5p0V0N1xkjuvPB0A9B1Z3Vd7Hk7T0lW")

type authenticatorSrv struct {
	accounts map[string]Account
	limiter  *ratelimit.Limiter
	signer   *SessionSigner
}

// compile-time check: *authenticatorSrv must satisfy port.Authenticator
var _ port.Authenticator = (*authenticatorSrv)(nil)

func NewAuthenticator(accounts []Account, limiter *ratelimit.Limiter, signer *SessionSigner) port.Authenticator {
	byEmail := make(map[string]Account, len(accounts))
	for _, a := range accounts {
		byEmail[strings.ToLower(strings.TrimSpace(a.Email))] = a
	}
	return &authenticatorSrv{accounts: byEmail, limiter: limiter, signer: signer}
}

// NewLoginLimiter returns the limiter applied to login attempts per email and client IP.
func NewLoginLimiter(store port.CounterStore) *ratelimit.Limiter {
	return ratelimit.NewLimiter(store, "login", MaxLoginAttempts, LoginAttemptWindow)
}

func (s *authenticatorSrv) Login(ctx context.Context, in port.LoginInput) (port.LoginOutput, error) {
	email := strings.ToLower(strings.TrimSpace(in.Email))
	if email == "" || in.Password == "" {
		return port.LoginOutput{}, ErrInvalidCredentials
	}

	key := email + "|" + in.ClientIP
	res, err := s.limiter.Allow(ctx, key)
	if err != nil {
		// a broken counter store must not lock admins out
		logger.Warnf(ctx, "login rate limit unavailable: %v", err)
	} else if !res.Allowed {
		logger.Warnf(ctx, "⛔  login rate limited for %q", email)
		return port.LoginOutput{}, &RateLimitedError{RetryAfter: res.RetryAfter}
	}

	acc, known := s.accounts[email]
	hash := dummyHash
	if known {
		hash = []byte(acc.PasswordHash)
	}
	match := bcrypt.CompareHashAndPassword(hash, []byte(in.Password)) == nil
	if !known || !match {
		logger.Infof(ctx, "failed login for %q", email)
		return port.LoginOutput{}, ErrInvalidCredentials
	}

	if err := s.limiter.Reset(ctx, key); err != nil {
		logger.Warnf(ctx, "could not reset login attempts for %q: %v", email, err)
	}

	tok, exp, err := s.signer.Sign(acc.Email, acc.Name)
	if err != nil {
		return port.LoginOutput{}, err
	}
	logger.Infof(ctx, "✅  %s logged in", acc.Email)
	return port.LoginOutput{Token: tok, ExpiresAt: exp, Email: acc.Email, Name: acc.Name}, nil
}

// HashPassword returns the bcrypt hash stored in ADMIN_n_PASSWORD_HASH.
func HashPassword(password string) (string, error) {
	h, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(h), nil
}
