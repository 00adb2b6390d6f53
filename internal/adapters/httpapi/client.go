package httpapi

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"go.trai.ch/iceberg/internal/core/domain"
	"go.trai.ch/zerr"
)

// ClientOption configures a Client.
type ClientOption func(*Client)

// WithHTTPClient sets the underlying HTTP client.
func WithHTTPClient(hc *http.Client) ClientOption {
	return func(c *Client) {
		c.http = hc
	}
}

// WithToken sends token as a bearer credential on every call.
func WithToken(token string) ClientOption {
	return func(c *Client) {
		c.token = token
	}
}

// Client implements ports.Transport against a Server.
type Client struct {
	baseURL string
	http    *http.Client
	token   string
}

// NewClient creates a Client for the server mounted at baseURL, including its prefix,
// e.g. http://localhost:3000/api/iceberg.
func NewClient(baseURL string, opts ...ClientOption) *Client {
	c := &Client{
		baseURL: strings.TrimSuffix(baseURL, "/"),
		http:    http.DefaultClient,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Call sends req and returns the server's response.
// A non-2xx answer is returned as a *domain.UserError carrying the server's message.
func (c *Client) Call(ctx context.Context, req domain.Request, prevHash string) (*domain.Response, error) {
	httpReq, err := c.newRequest(ctx, req)
	if err != nil {
		return nil, zerr.With(err, "procedure", req.Procedure)
	}
	if prevHash != "" {
		httpReq.Header.Set(HeaderHash, prevHash)
	}
	if c.token != "" {
		httpReq.Header.Set("Authorization", "Bearer "+c.token)
	}

	httpResp, err := c.http.Do(httpReq)
	if err != nil {
		return nil, zerr.With(zerr.Wrap(err, "send request"), "procedure", req.Procedure)
	}
	defer func() { _ = httpResp.Body.Close() }()

	body, err := io.ReadAll(httpResp.Body)
	if err != nil {
		return nil, zerr.With(zerr.Wrap(err, "read response"), "procedure", req.Procedure)
	}

	if httpResp.StatusCode < 200 || httpResp.StatusCode > 299 {
		return nil, failure(httpResp.StatusCode, body)
	}

	var deps []string
	if raw := httpResp.Header.Get(HeaderDependencies); raw != "" {
		if err := json.Unmarshal([]byte(raw), &deps); err != nil {
			return nil, zerr.With(zerr.Wrap(domain.ErrUnexpectedResponse, "dependencies header is not a JSON array"), "procedure", req.Procedure)
		}
	}
	if deps == nil {
		deps = []string{}
	}

	return &domain.Response{
		Dependencies: deps,
		Hash:         httpResp.Header.Get(HeaderHash),
		IsDiff:       httpResp.Header.Get(HeaderIsDiff) == "true",
		Body:         body,
	}, nil
}

func (c *Client) newRequest(ctx context.Context, req domain.Request) (*http.Request, error) {
	endpoint := c.baseURL + "/" + url.PathEscape(req.Procedure)

	if req.Kind == domain.KindQuery {
		if req.HasInput() {
			endpoint += "?input=" + url.QueryEscape(string(req.Input))
		}
		httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
		if err != nil {
			return nil, zerr.Wrap(err, "build request")
		}
		return httpReq, nil
	}

	payload, err := json.Marshal(mutationBody{Input: req.Input})
	if err != nil {
		return nil, zerr.Wrap(err, "encode request body")
	}
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(payload))
	if err != nil {
		return nil, zerr.Wrap(err, "build request")
	}
	httpReq.Header.Set("Content-Type", domain.ContentTypeJSON)
	return httpReq, nil
}

func failure(status int, body []byte) error {
	var eb errorBody
	if err := json.Unmarshal(body, &eb); err != nil || eb.Error == "" {
		eb.Error = fmt.Sprintf("request failed with status %d", status)
	}
	return domain.NewUserError(status, eb.Error)
}
