// Package client is the calling side of the protocol. It keeps the last full
// body of every query so that the server can answer repeats with a diff.
package client

import (
	"context"
	"encoding/json"

	"go.trai.ch/iceberg/internal/core/diff"
	"go.trai.ch/iceberg/internal/core/domain"
	"go.trai.ch/iceberg/internal/core/ports"
	"go.trai.ch/zerr"
)

// Result is the outcome of a query or mutation.
type Result struct {
	// Value is the decoded body with transformed values restored.
	Value        any
	Dependencies []string
	Hash         string
	// IsDiff reports whether the server answered with a diff.
	IsDiff bool
	// WireBytes is the size of the body that was actually transferred.
	WireBytes int

	body []byte
}

// Body returns the full JSON body, reconstructed when the server sent a diff.
func (r *Result) Body() []byte {
	return r.body
}

// Decode converts the restored Value into v through its JSON encoding, so
// that restored dates land in time.Time fields.
func (r *Result) Decode(v any) error {
	raw, err := json.Marshal(r.Value)
	if err != nil {
		return zerr.Wrap(err, "encode result")
	}
	if err := json.Unmarshal(raw, v); err != nil {
		return zerr.Wrap(err, "decode result")
	}
	return nil
}

// Client issues queries and mutations over a ports.Transport.
type Client struct {
	transport   ports.Transport
	storage     ports.ClientDiffStorage
	hasher      ports.ContentHasher
	transformer ports.PayloadTransformer
	logger      ports.Logger
	invalidator *Invalidator
}

// Option configures a Client.
type Option func(*Client)

// WithMaxQueries bounds the number of queries the invalidator remembers.
// Match it to the capacity of the client's diff storage.
func WithMaxQueries(n int) Option {
	return func(c *Client) {
		c.invalidator = NewInvalidator(n)
	}
}

// New creates a Client. storage is owned by the client for its lifetime.
func New(
	transport ports.Transport,
	storage ports.ClientDiffStorage,
	hasher ports.ContentHasher,
	transformer ports.PayloadTransformer,
	logger ports.Logger,
	opts ...Option,
) *Client {
	c := &Client{
		transport:   transport,
		storage:     storage,
		hasher:      hasher,
		transformer: transformer,
		logger:      logger,
		invalidator: NewInvalidator(DefaultMaxQueries),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Invalidator returns the consumer that tracks which queries a mutation made stale.
func (c *Client) Invalidator() *Invalidator {
	return c.invalidator
}

// Query calls the query name with input. A nil input sends none.
// json.RawMessage and []byte inputs are sent as raw JSON, anything else goes
// through the payload transformer first.
func (c *Client) Query(ctx context.Context, name string, input any) (*Result, error) {
	req, err := c.request(domain.KindQuery, name, input)
	if err != nil {
		return nil, err
	}
	return c.fetch(ctx, req)
}

// Mutate calls the mutation name with input and invalidates every query that
// depends on one of the tags the mutation reported. The diff cache is not used.
func (c *Client) Mutate(ctx context.Context, name string, input any) (*Result, error) {
	req, err := c.request(domain.KindMutation, name, input)
	if err != nil {
		return nil, err
	}

	resp, err := c.transport.Call(ctx, req, "")
	if err != nil {
		return nil, err
	}
	if resp.IsDiff {
		return nil, zerr.With(zerr.Wrap(domain.ErrUnexpectedResponse, "mutation answered with a diff"), "procedure", name)
	}

	res, err := c.result(resp, resp.Body)
	if err != nil {
		return nil, zerr.With(err, "procedure", name)
	}

	c.invalidator.Invalidate(res.Dependencies)
	return res, nil
}

// Refresh runs every stale query again and returns the fresh results.
func (c *Client) Refresh(ctx context.Context) ([]*Result, error) {
	stale := c.invalidator.Stale()
	results := make([]*Result, 0, len(stale))
	for _, req := range stale {
		res, err := c.fetch(ctx, req)
		if err != nil {
			return results, err
		}
		results = append(results, res)
	}
	return results, nil
}

func (c *Client) fetch(ctx context.Context, req domain.Request) (*Result, error) {
	cached, hasCached := c.storage.Response(req)

	prevHash := ""
	if hasCached {
		prevHash = cached.Hash
	}

	resp, err := c.transport.Call(ctx, req, prevHash)
	if err != nil {
		return nil, err
	}

	body := resp.Body
	if resp.IsDiff {
		body, err = c.applyDiff(req, cached, hasCached, resp)
		if err != nil {
			return nil, err
		}
	}

	res, err := c.result(resp, body)
	if err != nil {
		return nil, zerr.With(err, "procedure", req.Procedure)
	}

	c.storage.Store(req, domain.CachedResponse{Hash: resp.Hash, Body: body})
	c.invalidator.Observe(req, res.Dependencies)
	return res, nil
}

func (c *Client) applyDiff(req domain.Request, cached domain.CachedResponse, hasCached bool, resp *domain.Response) ([]byte, error) {
	if !hasCached {
		return nil, zerr.With(zerr.Wrap(domain.ErrInconsistentCache, "received a diff without a cached body"), "procedure", req.Procedure)
	}

	patch, err := diff.Decode(resp.Body)
	if err != nil {
		return nil, zerr.With(zerr.Wrap(err, "decode diff"), "procedure", req.Procedure)
	}

	body := []byte(diff.Apply(string(cached.Body), patch))
	if got := c.hasher.Hash(body); got != resp.Hash {
		err := zerr.With(zerr.Wrap(domain.ErrInconsistentCache, "patched body does not match announced hash"), "procedure", req.Procedure)
		err = zerr.With(err, "expected", resp.Hash)
		return nil, zerr.With(err, "got", got)
	}

	c.logger.Debug("applied diff",
		"procedure", req.Procedure,
		"edits", len(patch),
		"wire_bytes", len(resp.Body),
		"body_bytes", len(body),
	)
	return body, nil
}

func (c *Client) result(resp *domain.Response, body []byte) (*Result, error) {
	var tree any
	if err := json.Unmarshal(body, &tree); err != nil {
		return nil, zerr.Wrap(domain.ErrUnexpectedResponse, "body is not valid JSON")
	}

	value, err := c.transformer.Untransform(tree)
	if err != nil {
		return nil, err
	}

	return &Result{
		Value:        value,
		Dependencies: resp.Dependencies,
		Hash:         resp.Hash,
		IsDiff:       resp.IsDiff,
		WireBytes:    len(resp.Body),
		body:         body,
	}, nil
}

func (c *Client) request(kind domain.Kind, name string, input any) (domain.Request, error) {
	raw, err := c.encodeInput(input)
	if err != nil {
		return domain.Request{}, zerr.With(err, "procedure", name)
	}
	return domain.NewRequest(kind, name, raw)
}

func (c *Client) encodeInput(input any) ([]byte, error) {
	switch in := input.(type) {
	case nil:
		return nil, nil
	case json.RawMessage:
		return in, nil
	case []byte:
		return in, nil
	}

	payload, err := c.transformer.Transform(input)
	if err != nil {
		return nil, zerr.Wrap(err, "transform input")
	}
	raw, err := json.Marshal(payload)
	if err != nil {
		return nil, zerr.Wrap(err, "encode input")
	}
	return raw, nil
}
