package httpapi_test

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/iceberg/internal/adapters/diffgen"
	"go.trai.ch/iceberg/internal/adapters/hasher"
	"go.trai.ch/iceberg/internal/adapters/httpapi"
	"go.trai.ch/iceberg/internal/adapters/identity"
	"go.trai.ch/iceberg/internal/adapters/logger"
	"go.trai.ch/iceberg/internal/adapters/storage"
	"go.trai.ch/iceberg/internal/adapters/transformer"
	"go.trai.ch/iceberg/internal/core/diff"
	"go.trai.ch/iceberg/internal/core/domain"
	"go.trai.ch/iceberg/internal/core/ports"
	"go.trai.ch/iceberg/internal/demo/blog"
	"go.trai.ch/iceberg/internal/engine/client"
	"go.trai.ch/iceberg/internal/engine/dispatcher"
	"go.trai.ch/iceberg/internal/engine/procedure"
)

const prefix = "/api/iceberg"

func newServer(t *testing.T, resolver ports.IdentityResolver) *httptest.Server {
	t.Helper()

	now := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	n := 0
	db := blog.NewDatabase(
		blog.WithClock(func() time.Time { return now }),
		blog.WithIDs(func() string {
			n++
			return fmt.Sprintf("id-%d", n)
		}),
	)
	db.Seed()

	reg := procedure.NewRegistry()
	require.NoError(t, blog.Register(reg, db))

	h := hasher.New()
	store, err := storage.NewServerStore(h, storage.DefaultMaxResponses, storage.DefaultMaxHashesPerUser)
	require.NoError(t, err)
	gen, err := diffgen.New(domain.StrategyAdvanced, store)
	require.NoError(t, err)

	log := logger.NewWithOutput(io.Discard)
	d := dispatcher.New(reg, gen, h, transformer.NewDefault(), log)

	srv := httptest.NewServer(httpapi.NewServer(d, resolver, log, prefix))
	t.Cleanup(srv.Close)
	return srv
}

type call struct {
	status  int
	header  http.Header
	body    []byte
	errBody string
}

func do(t *testing.T, method, target, user, prevHash string, body io.Reader) call {
	t.Helper()

	req, err := http.NewRequestWithContext(context.Background(), method, target, body)
	require.NoError(t, err)
	if user != "" {
		req.Header.Set("Authorization", user)
	}
	if prevHash != "" {
		req.Header.Set(httpapi.HeaderHash, prevHash)
	}

	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer func() { _ = resp.Body.Close() }()

	data, err := io.ReadAll(resp.Body)
	require.NoError(t, err)

	c := call{status: resp.StatusCode, header: resp.Header, body: data}
	if resp.StatusCode != http.StatusOK {
		var eb struct {
			Error string `json:"error"`
		}
		require.NoError(t, json.Unmarshal(data, &eb))
		c.errBody = eb.Error
	}
	return c
}

// decodePosts restores a getPosts body the way a client would.
func decodePosts(t *testing.T, body []byte) []blog.Post {
	t.Helper()

	var tree any
	require.NoError(t, json.Unmarshal(body, &tree))
	value, err := transformer.NewDefault().Untransform(tree)
	require.NoError(t, err)
	raw, err := json.Marshal(value)
	require.NoError(t, err)

	var posts []blog.Post
	require.NoError(t, json.Unmarshal(raw, &posts))
	return posts
}

func TestServer_PostsScenario(t *testing.T) {
	srv := newServer(t, identity.HeaderResolver{})
	h := hasher.New()
	posts := srv.URL + prefix + "/getPosts"

	first := do(t, http.MethodGet, posts, "alice", "", nil)
	require.Equal(t, http.StatusOK, first.status)
	assert.Equal(t, "application/json", first.header.Get("Content-Type"))
	assert.Equal(t, `["posts"]`, first.header.Get(httpapi.HeaderDependencies))
	assert.Equal(t, "false", first.header.Get(httpapi.HeaderIsDiff))
	assert.Equal(t, h.Hash(first.body), first.header.Get(httpapi.HeaderHash))

	assert.Contains(t, string(first.body), `"creationTime":{"__type":"Date","value":"2024-03-01T11:43:20.000Z"}`)
	seeded := decodePosts(t, first.body)
	require.Len(t, seeded, 2)
	assert.Equal(t, "Hello World!", seeded[0].Title)
	assert.True(t, seeded[0].CreationTime.Equal(time.Date(2024, 3, 1, 11, 43, 20, 0, time.UTC)))

	repeat := do(t, http.MethodGet, posts, "alice", first.header.Get(httpapi.HeaderHash), nil)
	require.Equal(t, http.StatusOK, repeat.status)
	assert.Equal(t, "true", repeat.header.Get(httpapi.HeaderIsDiff))
	assert.Equal(t, diff.MIMEType, repeat.header.Get("Content-Type"))
	assert.Equal(t, first.header.Get(httpapi.HeaderHash), repeat.header.Get(httpapi.HeaderHash))
	assert.Equal(t, diff.Encode(diff.Patch{}), repeat.body)

	created := do(t, http.MethodPost, srv.URL+prefix+"/createPost", "alice", "",
		strings.NewReader(`{"input":{"title":"Third post","content":"This is my third post."}}`))
	require.Equal(t, http.StatusOK, created.status)
	assert.Equal(t, `["posts"]`, created.header.Get(httpapi.HeaderDependencies))
	assert.Equal(t, "false", created.header.Get(httpapi.HeaderIsDiff))
	assert.JSONEq(t, `"Post created successfully"`, string(created.body))

	updated := do(t, http.MethodGet, posts, "alice", first.header.Get(httpapi.HeaderHash), nil)
	require.Equal(t, http.StatusOK, updated.status)
	require.Equal(t, "true", updated.header.Get(httpapi.HeaderIsDiff))

	patch, err := diff.Decode(updated.body)
	require.NoError(t, err)
	full := diff.Apply(string(first.body), patch)
	assert.Equal(t, updated.header.Get(httpapi.HeaderHash), h.Hash([]byte(full)))

	after := decodePosts(t, []byte(full))
	require.Len(t, after, 3)
	assert.Equal(t, "Third post", after[2].Title)
}

func TestServer_HashesAreScopedToUsers(t *testing.T) {
	srv := newServer(t, identity.HeaderResolver{})
	posts := srv.URL + prefix + "/getPosts"

	alice := do(t, http.MethodGet, posts, "alice", "", nil)
	require.Equal(t, http.StatusOK, alice.status)
	hash := alice.header.Get(httpapi.HeaderHash)

	bob := do(t, http.MethodGet, posts, "bob", hash, nil)
	require.Equal(t, http.StatusOK, bob.status)
	assert.Equal(t, "false", bob.header.Get(httpapi.HeaderIsDiff))
	assert.Equal(t, alice.body, bob.body)

	anonymous := do(t, http.MethodGet, posts, "", hash, nil)
	assert.Equal(t, "false", anonymous.header.Get(httpapi.HeaderIsDiff))
}

func TestServer_AnonymousPostsScenario(t *testing.T) {
	cfg := domain.DefaultConfig()
	require.Equal(t, domain.StrategyAdvanced, cfg.Diff.Strategy)
	resolver, err := identity.New(cfg.Identity)
	require.NoError(t, err)
	srv := newServer(t, resolver)
	posts := srv.URL + prefix + "/getPosts"

	first := do(t, http.MethodGet, posts, "", "", nil)
	require.Equal(t, http.StatusOK, first.status)
	assert.Equal(t, "false", first.header.Get(httpapi.HeaderIsDiff))
	hash := first.header.Get(httpapi.HeaderHash)

	repeat := do(t, http.MethodGet, posts, "", hash, nil)
	require.Equal(t, http.StatusOK, repeat.status)
	assert.Equal(t, "true", repeat.header.Get(httpapi.HeaderIsDiff))
	assert.Equal(t, hash, repeat.header.Get(httpapi.HeaderHash))
	assert.Equal(t, diff.Encode(diff.Patch{}), repeat.body)

	created := do(t, http.MethodPost, srv.URL+prefix+"/createPost", "", "",
		strings.NewReader(`{"input":{"title":"Anonymous post","content":"Hi"}}`))
	require.Equal(t, http.StatusOK, created.status)

	updated := do(t, http.MethodGet, posts, "", hash, nil)
	require.Equal(t, http.StatusOK, updated.status)
	require.Equal(t, "true", updated.header.Get(httpapi.HeaderIsDiff))
	patch, err := diff.Decode(updated.body)
	require.NoError(t, err)
	after := decodePosts(t, []byte(diff.Apply(string(first.body), patch)))
	require.Len(t, after, 3)
	assert.Equal(t, "Anonymous post", after[2].Title)

	// Hashes stay scoped: an authenticated user does not resolve the anonymous bucket.
	alice := do(t, http.MethodGet, posts, "alice", updated.header.Get(httpapi.HeaderHash), nil)
	assert.Equal(t, "false", alice.header.Get(httpapi.HeaderIsDiff))
}

func TestServer_Errors(t *testing.T) {
	srv := newServer(t, identity.HeaderResolver{})
	base := srv.URL + prefix

	tests := []struct {
		name    string
		method  string
		target  string
		body    string
		status  int
		message string
	}{
		{
			name:    "unknown procedure",
			method:  http.MethodGet,
			target:  base + "/nope",
			status:  http.StatusNotFound,
			message: "unknown procedure",
		},
		{
			name:    "query a mutation",
			method:  http.MethodGet,
			target:  base + "/createPost",
			status:  http.StatusMethodNotAllowed,
			message: "procedure kind mismatch",
		},
		{
			name:    "unsupported method",
			method:  http.MethodPut,
			target:  base + "/getPosts",
			status:  http.StatusMethodNotAllowed,
			message: "method not allowed",
		},
		{
			name:    "outside prefix",
			method:  http.MethodGet,
			target:  srv.URL + "/elsewhere/getPosts",
			status:  http.StatusNotFound,
			message: "not found",
		},
		{
			name:    "query input is not json",
			method:  http.MethodGet,
			target:  base + "/getPosts?input=" + url.QueryEscape("{nope"),
			status:  http.StatusBadRequest,
			message: "input is not valid JSON",
		},
		{
			name:    "query takes no input",
			method:  http.MethodGet,
			target:  base + "/getPosts?input=" + url.QueryEscape(`{"a":1}`),
			status:  http.StatusBadRequest,
			message: "procedure takes no input",
		},
		{
			name:    "malformed mutation body",
			method:  http.MethodPost,
			target:  base + "/createPost",
			body:    `[1,2`,
			status:  http.StatusBadRequest,
			message: "request body is not a JSON object",
		},
		{
			name:    "missing mutation input",
			method:  http.MethodPost,
			target:  base + "/createPost",
			body:    `{}`,
			status:  http.StatusBadRequest,
			message: "input is required",
		},
		{
			name:    "failed validation",
			method:  http.MethodPost,
			target:  base + "/createPost",
			body:    `{"input":{"title":"","content":"x"}}`,
			status:  http.StatusBadRequest,
			message: "title must not be empty",
		},
		{
			name:    "user error from handler",
			method:  http.MethodPost,
			target:  base + "/deletePost",
			body:    `{"input":{"id":"missing"}}`,
			status:  http.StatusNotFound,
			message: "Post not found",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var body io.Reader
			if tt.body != "" {
				body = strings.NewReader(tt.body)
			}
			c := do(t, tt.method, tt.target, "alice", "", body)
			assert.Equal(t, tt.status, c.status)
			assert.Equal(t, tt.message, c.errBody)
		})
	}
}

func TestServer_BodyTooLarge(t *testing.T) {
	log := logger.NewWithOutput(io.Discard)
	d := dispatcher.New(procedure.NewRegistry(), diffgen.NewBasic(), hasher.New(), transformer.NewDefault(), log)
	srv := httpapi.NewServer(d, identity.HeaderResolver{}, log, prefix)

	body := `{"input":{"title":"` + strings.Repeat("x", httpapi.MaxBodyBytes) + `"}}`
	req := httptest.NewRequest(http.MethodPost, prefix+"/createPost", strings.NewReader(body))
	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusRequestEntityTooLarge, rec.Code)
	assert.JSONEq(t, `{"error":"request body too large"}`, rec.Body.String())
}

func TestServer_JWTIdentity(t *testing.T) {
	jwtResolver, err := identity.NewJWT("secret", "iceberg", time.Hour)
	require.NoError(t, err)
	srv := newServer(t, jwtResolver)
	posts := srv.URL + prefix + "/getPosts"

	rejected := do(t, http.MethodGet, posts, "Bearer forged", "", nil)
	assert.Equal(t, http.StatusUnauthorized, rejected.status)
	assert.Equal(t, "unauthorized", rejected.errBody)

	token, err := jwtResolver.Issue("alice")
	require.NoError(t, err)

	first := do(t, http.MethodGet, posts, "Bearer "+token, "", nil)
	require.Equal(t, http.StatusOK, first.status)

	repeat := do(t, http.MethodGet, posts, "Bearer "+token, first.header.Get(httpapi.HeaderHash), nil)
	require.Equal(t, http.StatusOK, repeat.status)
	assert.Equal(t, "true", repeat.header.Get(httpapi.HeaderIsDiff))
}

func TestClient_EndToEnd(t *testing.T) {
	srv := newServer(t, identity.HeaderResolver{})

	store, err := storage.NewClientStore(storage.DefaultMaxResponses)
	require.NoError(t, err)
	transport := httpapi.NewClient(srv.URL+prefix+"/", httpapi.WithToken("alice"), httpapi.WithHTTPClient(srv.Client()))
	c := client.New(transport, store, hasher.New(), transformer.NewDefault(), logger.NewWithOutput(io.Discard))
	ctx := context.Background()

	first, err := c.Query(ctx, "getPosts", nil)
	require.NoError(t, err)
	assert.False(t, first.IsDiff)
	assert.Equal(t, []string{"posts"}, first.Dependencies)

	repeat, err := c.Query(ctx, "getPosts", nil)
	require.NoError(t, err)
	assert.True(t, repeat.IsDiff)
	assert.Equal(t, 4, repeat.WireBytes)

	res, err := c.Mutate(ctx, "createPost", blog.CreatePostInput{Title: "From the client", Content: "Hi"})
	require.NoError(t, err)
	assert.Equal(t, "Post created successfully", res.Value)

	getPosts, err := domain.NewRequest(domain.KindQuery, "getPosts", nil)
	require.NoError(t, err)
	assert.True(t, c.Invalidator().IsStale(getPosts))

	refreshed, err := c.Refresh(ctx)
	require.NoError(t, err)
	require.Len(t, refreshed, 1)
	assert.True(t, refreshed[0].IsDiff)

	var got []blog.Post
	require.NoError(t, refreshed[0].Decode(&got))
	require.Len(t, got, 3)
	assert.Equal(t, "From the client", got[2].Title)

	_, err = c.Mutate(ctx, "deletePost", blog.DeleteInput{ID: "missing"})
	var ue *domain.UserError
	require.ErrorAs(t, err, &ue)
	assert.Equal(t, http.StatusNotFound, ue.StatusCode)
	assert.Equal(t, "Post not found", ue.Message)

	_, err = c.Query(ctx, "getStories", map[string]any{"unexpected": true})
	require.ErrorAs(t, err, &ue)
	assert.Equal(t, http.StatusBadRequest, ue.StatusCode)
}
