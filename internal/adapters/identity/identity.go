// Package identity resolves the user that owns a request from its Authorization header.
package identity

import (
	"context"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"go.trai.ch/iceberg/internal/core/domain"
	"go.trai.ch/iceberg/internal/core/ports"
	"go.trai.ch/zerr"
)

// New returns the resolver configured by cfg.
func New(cfg domain.IdentityConfig) (ports.IdentityResolver, error) {
	switch cfg.Mode {
	case domain.IdentityHeader:
		return HeaderResolver{}, nil
	case domain.IdentityJWT:
		return NewJWT(cfg.Secret, cfg.Issuer, cfg.TokenTTL)
	default:
		return nil, zerr.With(zerr.Wrap(domain.ErrInvalidConfig, "unknown identity mode"), "mode", cfg.Mode)
	}
}

// HeaderResolver trusts the Authorization header as the user id.
// A "Bearer " prefix is stripped. It performs no verification.
type HeaderResolver struct{}

// Resolve returns the header value without its scheme.
func (HeaderResolver) Resolve(_ context.Context, authorization string) (string, error) {
	return bearer(authorization), nil
}

// JWT verifies HS256 bearer tokens and uses their subject as the user id.
type JWT struct {
	secret []byte
	issuer string
	ttl    time.Duration
	now    func() time.Time
	parser *jwt.Parser
}

// NewJWT creates a JWT resolver. Tokens must be signed with secret and issued by issuer.
func NewJWT(secret, issuer string, ttl time.Duration) (*JWT, error) {
	if secret == "" {
		return nil, zerr.Wrap(domain.ErrMissingSecret, "create jwt resolver")
	}

	opts := []jwt.ParserOption{
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
	}
	if issuer != "" {
		opts = append(opts, jwt.WithIssuer(issuer))
	}

	return &JWT{
		secret: []byte(secret),
		issuer: issuer,
		ttl:    ttl,
		now:    time.Now,
		parser: jwt.NewParser(opts...),
	}, nil
}

// Resolve verifies the bearer token and returns its subject.
// An empty header is an anonymous caller.
func (j *JWT) Resolve(_ context.Context, authorization string) (string, error) {
	raw := bearer(authorization)
	if raw == "" {
		return "", nil
	}

	var claims jwt.RegisteredClaims
	_, err := j.parser.ParseWithClaims(raw, &claims, func(*jwt.Token) (any, error) {
		return j.secret, nil
	})
	if err != nil {
		return "", zerr.With(zerr.Wrap(domain.ErrUnauthorized, "invalid token"), "cause", err.Error())
	}
	if claims.Subject == "" {
		return "", zerr.Wrap(domain.ErrUnauthorized, "token has no subject")
	}
	return claims.Subject, nil
}

// Issue signs a token for subject that Resolve accepts until it expires.
func (j *JWT) Issue(subject string) (string, error) {
	if subject == "" {
		return "", zerr.Wrap(domain.ErrInvalidInput, "subject must not be empty")
	}

	now := j.now()
	claims := jwt.RegisteredClaims{
		Subject:   subject,
		Issuer:    j.issuer,
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(j.ttl)),
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(j.secret)
	if err != nil {
		return "", zerr.Wrap(err, "sign token")
	}
	return token, nil
}

func bearer(authorization string) string {
	v := strings.TrimSpace(authorization)
	if len(v) > 7 && strings.EqualFold(v[:7], "bearer ") {
		v = strings.TrimSpace(v[7:])
	}
	return v
}
