package identity_test

import (
	"context"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/iceberg/internal/adapters/identity"
	"go.trai.ch/iceberg/internal/core/domain"
)

func TestHeaderResolver(t *testing.T) {
	tests := []struct {
		header string
		want   string
	}{
		{header: "", want: ""},
		{header: "alice", want: "alice"},
		{header: "Bearer alice", want: "alice"},
		{header: "bearer   bob ", want: "bob"},
	}

	for _, tt := range tests {
		got, err := identity.HeaderResolver{}.Resolve(context.Background(), tt.header)
		require.NoError(t, err)
		assert.Equal(t, tt.want, got, tt.header)
	}
}

func TestJWT_IssueAndResolve(t *testing.T) {
	j, err := identity.NewJWT("secret", "iceberg", time.Hour)
	require.NoError(t, err)

	token, err := j.Issue("alice")
	require.NoError(t, err)

	owner, err := j.Resolve(context.Background(), "Bearer "+token)
	require.NoError(t, err)
	assert.Equal(t, "alice", owner)
}

func TestJWT_AnonymousWithoutHeader(t *testing.T) {
	j, err := identity.NewJWT("secret", "iceberg", time.Hour)
	require.NoError(t, err)

	owner, err := j.Resolve(context.Background(), "")
	require.NoError(t, err)
	assert.Empty(t, owner)
}

func TestJWT_RejectsInvalidTokens(t *testing.T) {
	j, err := identity.NewJWT("secret", "iceberg", time.Hour)
	require.NoError(t, err)

	other, err := identity.NewJWT("other-secret", "iceberg", time.Hour)
	require.NoError(t, err)
	forged, err := other.Issue("alice")
	require.NoError(t, err)

	wrongIssuer, err := identity.NewJWT("secret", "someone-else", time.Hour)
	require.NoError(t, err)
	foreign, err := wrongIssuer.Issue("alice")
	require.NoError(t, err)

	expiredIssuer, err := identity.NewJWT("secret", "iceberg", time.Hour)
	require.NoError(t, err)
	expiredIssuer.SetClock(func() time.Time { return time.Now().Add(-2 * time.Hour) })
	expired, err := expiredIssuer.Issue("alice")
	require.NoError(t, err)

	noSubject, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{
		Issuer:    "iceberg",
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
	}).SignedString([]byte("secret"))
	require.NoError(t, err)

	noneAlg, err := jwt.NewWithClaims(jwt.SigningMethodNone, jwt.RegisteredClaims{
		Subject:   "alice",
		Issuer:    "iceberg",
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
	}).SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)

	tests := map[string]string{
		"garbage":      "not-a-token",
		"forged":       forged,
		"wrong issuer": foreign,
		"expired":      expired,
		"no subject":   noSubject,
		"alg none":     noneAlg,
	}

	for name, token := range tests {
		t.Run(name, func(t *testing.T) {
			_, err := j.Resolve(context.Background(), "Bearer "+token)
			require.ErrorIs(t, err, domain.ErrUnauthorized)
		})
	}
}

func TestNew(t *testing.T) {
	r, err := identity.New(domain.IdentityConfig{Mode: domain.IdentityHeader})
	require.NoError(t, err)
	assert.IsType(t, identity.HeaderResolver{}, r)

	r, err = identity.New(domain.IdentityConfig{Mode: domain.IdentityJWT, Secret: "s", TokenTTL: time.Hour})
	require.NoError(t, err)
	assert.IsType(t, &identity.JWT{}, r)

	_, err = identity.New(domain.IdentityConfig{Mode: domain.IdentityJWT})
	require.ErrorIs(t, err, domain.ErrMissingSecret)

	_, err = identity.New(domain.IdentityConfig{Mode: "magic"})
	require.ErrorIs(t, err, domain.ErrInvalidConfig)
}

func TestJWT_IssueRequiresSubject(t *testing.T) {
	j, err := identity.NewJWT("secret", "", time.Hour)
	require.NoError(t, err)

	_, err = j.Issue("")
	require.ErrorIs(t, err, domain.ErrInvalidInput)
}
