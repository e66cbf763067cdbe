package auth

import (
	"errors"
	"fmt"
	"time"
)

var (
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrInvalidSession     = errors.New("invalid or expired session")
)

// RateLimitedError is returned once a key exhausted its login attempts.
type RateLimitedError struct {
	RetryAfter time.Duration
}

func (e *RateLimitedError) Error() string {
	return fmt.Sprintf("too many login attempts, retry in %d minutes", minutesCeil(e.RetryAfter))
}

func minutesCeil(d time.Duration) int64 {
	m := int64(d / time.Minute)
	if d%time.Minute != 0 {
		m++
	}
	if m < 1 {
		m = 1
	}
	return m
}
