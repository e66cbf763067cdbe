package media

import (
	"fmt"
	"time"

	"github.com/fhuszti/athlete-portfolio-go/internal/model"
	"github.com/golang-jwt/jwt/v4"
	"github.com/google/uuid"
)

const (
	// UploadTokenTTL bounds both the upload token and the presigned policy.
	UploadTokenTTL = 10 * time.Minute

	uploadTokenIssuer   = "athlete-portfolio"
	uploadTokenAudience = "direct-upload"
)

// UploadScope is what an upload token authorises: one key, one content type, a size ceiling.
type UploadScope struct {
	Key         string
	ContentType string
	MaxSize     int64
	Category    model.Category
	IssuedTo    string
}

type uploadClaims struct {
	Key         string         `json:"key"`
	ContentType string         `json:"contentType"`
	MaxSize     int64          `json:"maxSize"`
	Category    model.Category `json:"category"`
	jwt.RegisteredClaims
}

// VerifiedUpload is a token that passed signature, audience and expiry checks.
type VerifiedUpload struct {
	UploadScope
	TokenID   string
	ExpiresAt time.Time
}

// UploadTokenSigner issues and verifies HS256 upload tokens.
type UploadTokenSigner struct {
	secret []byte
	ttl    time.Duration
	parser *jwt.Parser
}

func NewUploadTokenSigner(secret []byte, ttl time.Duration) *UploadTokenSigner {
	return &UploadTokenSigner{
		secret: secret,
		ttl:    ttl,
		parser: jwt.NewParser(jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Name})),
	}
}

func (s *UploadTokenSigner) TTL() time.Duration { return s.ttl }

func (s *UploadTokenSigner) Sign(scope UploadScope) (string, time.Time, error) {
	now := time.Now().UTC()
	exp := now.Add(s.ttl)
	claims := uploadClaims{
		Key:         scope.Key,
		ContentType: scope.ContentType,
		MaxSize:     scope.MaxSize,
		Category:    scope.Category,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			Issuer:    uploadTokenIssuer,
			Audience:  jwt.ClaimStrings{uploadTokenAudience},
			Subject:   scope.IssuedTo,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(exp),
		},
	}
	tok, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
	if err != nil {
		return "", time.Time{}, fmt.Errorf("sign upload token: %w", err)
	}
	return tok, exp, nil
}

func (s *UploadTokenSigner) Verify(raw string) (VerifiedUpload, error) {
	claims := &uploadClaims{}
	tok, err := s.parser.ParseWithClaims(raw, claims, func(t *jwt.Token) (interface{}, error) {
		return s.secret, nil
	})
	if err != nil || !tok.Valid {
		return VerifiedUpload{}, ErrInvalidToken
	}
	if !claims.VerifyIssuer(uploadTokenIssuer, true) || !claims.VerifyAudience(uploadTokenAudience, true) {
		return VerifiedUpload{}, ErrInvalidToken
	}
	if claims.ID == "" || claims.Key == "" || claims.ExpiresAt == nil {
		return VerifiedUpload{}, ErrInvalidToken
	}
	return VerifiedUpload{
		UploadScope: UploadScope{
			Key:         claims.Key,
			ContentType: claims.ContentType,
			MaxSize:     claims.MaxSize,
			Category:    claims.Category,
			IssuedTo:    claims.Subject,
		},
		TokenID:   claims.ID,
		ExpiresAt: claims.ExpiresAt.Time,
	}, nil
}
