package domain_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/iceberg/internal/core/domain"
)

func TestNewRequest_CanonicalInput(t *testing.T) {
	a, err := domain.NewRequest(domain.KindQuery, "getPosts", []byte(`{"b": 1, "a": {"y": [1, 2], "x": "s"}}`))
	require.NoError(t, err)
	b, err := domain.NewRequest(domain.KindQuery, "getPosts", []byte(`{"a":{"x":"s","y":[1,2]},"b":1}`))
	require.NoError(t, err)

	assert.Equal(t, `{"a":{"x":"s","y":[1,2]},"b":1}`, string(a.Input))
	assert.Equal(t, a.Key(), b.Key())
}

func TestNewRequest_KeepsNumbersVerbatim(t *testing.T) {
	req, err := domain.NewRequest(domain.KindQuery, "p", []byte(`{"n": 12345678901234567890, "f": 1.50}`))
	require.NoError(t, err)
	assert.Equal(t, `{"f":1.50,"n":12345678901234567890}`, string(req.Input))
}

func TestNewRequest_EmptyInput(t *testing.T) {
	req, err := domain.NewRequest(domain.KindQuery, "getPosts", []byte("  \n"))
	require.NoError(t, err)
	assert.False(t, req.HasInput())
	assert.Nil(t, req.Input)
}

func TestNewRequest_Malformed(t *testing.T) {
	tests := []struct {
		name  string
		input string
	}{
		{name: "invalid json", input: `{"a":`},
		{name: "trailing data", input: `{"a":1} {"b":2}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := domain.NewRequest(domain.KindMutation, "createPost", []byte(tt.input))
			require.ErrorIs(t, err, domain.ErrMalformedRequest)
		})
	}
}

func TestRequest_KeyDistinguishesKindAndProcedure(t *testing.T) {
	q := domain.Request{Kind: domain.KindQuery, Procedure: "a"}
	m := domain.Request{Kind: domain.KindMutation, Procedure: "a"}
	other := domain.Request{Kind: domain.KindQuery, Procedure: "a", Input: []byte(`{}`)}

	assert.NotEqual(t, q.Key(), m.Key())
	assert.NotEqual(t, q.Key(), other.Key())
}

func TestResponse_ContentType(t *testing.T) {
	assert.Equal(t, domain.ContentTypeJSON, (&domain.Response{}).ContentType())
	assert.Equal(t, domain.ContentTypeDiff, (&domain.Response{IsDiff: true}).ContentType())
}

func TestNewUserError_DefaultStatus(t *testing.T) {
	err := domain.NewUserError(0, "Post not found")
	assert.Equal(t, 400, err.StatusCode)
	assert.Equal(t, "Post not found", err.Error())
}

func TestOwner(t *testing.T) {
	ctx := context.Background()
	assert.Empty(t, domain.OwnerFrom(ctx))
	assert.Equal(t, "alice", domain.OwnerFrom(domain.WithOwner(ctx, "alice")))
}
