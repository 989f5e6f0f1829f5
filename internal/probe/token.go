package probe

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/hamed0406/capprobe/internal/domain"
)

// TokenProbe signs an HS256 JWT and parses it back with the same secret.
type TokenProbe struct {
	Secret string
	TTL    time.Duration
	now    func() time.Time
}

func (p *TokenProbe) Name() string { return "token" }

func (p *TokenProbe) Execute(ctx context.Context) (domain.Outcome, error) {
	if p.Secret == "" {
		return domain.Failure("Config", "token secret is empty"), nil
	}
	ttl := p.TTL
	if ttl <= 0 {
		ttl = time.Hour
	}
	now := time.Now
	if p.now != nil {
		now = p.now
	}

	subject := uuid.NewString()
	exp := now().Add(ttl)
	claims := jwt.MapClaims{
		"sub":   subject,
		"email": "test@example.com",
		"iat":   now().Unix(),
		"exp":   exp.Unix(),
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(p.Secret))
	if err != nil {
		return fail("Token", err)
	}

	parsed, err := jwt.Parse(signed, func(t *jwt.Token) (any, error) {
		return []byte(p.Secret), nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}), jwt.WithTimeFunc(now))
	if err != nil {
		return fail("Token", err)
	}
	if !parsed.Valid {
		return fail("Token", errors.New("token reported invalid"))
	}
	got, err := parsed.Claims.GetSubject()
	if err != nil {
		return fail("Token", err)
	}
	if got != subject {
		return domain.Failure("Token", fmt.Sprintf("subject mismatch: %q", got)), nil
	}

	return ok(map[string]string{
		"alg":          parsed.Method.Alg(),
		"token_prefix": signed[:20] + "...",
		"expires_at":   exp.UTC().Format(time.RFC3339),
	})
}
