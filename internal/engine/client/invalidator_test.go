package client_test

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/iceberg/internal/core/domain"
	"go.trai.ch/iceberg/internal/engine/client"
)

func TestInvalidator(t *testing.T) {
	inv := client.NewInvalidator(client.DefaultMaxQueries)

	posts, err := domain.NewRequest(domain.KindQuery, "getPosts", nil)
	require.NoError(t, err)
	post, err := domain.NewRequest(domain.KindQuery, "getPost", []byte(`{"id":"1"}`))
	require.NoError(t, err)
	stories, err := domain.NewRequest(domain.KindQuery, "getStories", nil)
	require.NoError(t, err)

	inv.Observe(posts, []string{"posts"})
	inv.Observe(post, []string{"authors", "posts"})
	inv.Observe(stories, []string{"stories"})

	calls := 0
	inv.OnInvalidate(func([]domain.Request) { calls++ })

	assert.Nil(t, inv.Invalidate(nil))
	assert.Nil(t, inv.Invalidate([]string{"comments"}))
	assert.Equal(t, 0, calls)

	affected := inv.Invalidate([]string{"posts"})
	assert.ElementsMatch(t, []domain.Request{posts, post}, affected)
	assert.Equal(t, 1, calls)
	assert.True(t, inv.IsStale(posts))
	assert.True(t, inv.IsStale(post))
	assert.False(t, inv.IsStale(stories))
	assert.Len(t, inv.Stale(), 2)

	inv.Observe(posts, []string{"posts"})
	assert.False(t, inv.IsStale(posts))
	assert.Equal(t, []domain.Request{post}, inv.Stale())
}

func TestInvalidator_ForgetsLeastRecentlyObserved(t *testing.T) {
	inv := client.NewInvalidator(2)

	posts, err := domain.NewRequest(domain.KindQuery, "getPosts", nil)
	require.NoError(t, err)
	post, err := domain.NewRequest(domain.KindQuery, "getPost", []byte(`{"id":"1"}`))
	require.NoError(t, err)
	stories, err := domain.NewRequest(domain.KindQuery, "getStories", nil)
	require.NoError(t, err)

	inv.Observe(posts, []string{"posts"})
	inv.Observe(stories, []string{"stories"})
	inv.Invalidate([]string{"posts"})
	require.True(t, inv.IsStale(posts))

	inv.Observe(post, []string{"posts"})

	assert.Equal(t, 2, inv.Len())
	assert.False(t, inv.IsStale(posts), "an evicted query loses its stale mark")
	assert.Empty(t, inv.Stale())
	assert.Equal(t, []domain.Request{post}, inv.Invalidate([]string{"posts"}))
}

func TestInvalidator_NonPositiveSizeUsesDefault(t *testing.T) {
	inv := client.NewInvalidator(0)

	for n := range client.DefaultMaxQueries + 1 {
		req, err := domain.NewRequest(domain.KindQuery, "getPost", []byte(fmt.Sprintf(`{"id":%d}`, n)))
		require.NoError(t, err)
		inv.Observe(req, []string{"posts"})
	}
	assert.Equal(t, client.DefaultMaxQueries, inv.Len())
}
