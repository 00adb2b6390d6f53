package commands_test

import (
	"bytes"
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/iceberg/cmd/iceberg/commands"
	"go.trai.ch/iceberg/internal/app"
	"go.trai.ch/iceberg/internal/build"
)

type mockApp struct {
	serveFunc   func(ctx context.Context, opts app.ServeOptions) error
	queryFunc   func(ctx context.Context, opts app.QueryOptions) error
	mutateFunc  func(ctx context.Context, opts app.MutateOptions) error
	inspectFunc func(ctx context.Context, oldPath, newPath string) error
	tokenFunc   func(ctx context.Context, opts app.TokenOptions) error
}

func (m *mockApp) Serve(ctx context.Context, opts app.ServeOptions) error {
	if m.serveFunc != nil {
		return m.serveFunc(ctx, opts)
	}
	return nil
}

func (m *mockApp) Query(ctx context.Context, opts app.QueryOptions) error {
	if m.queryFunc != nil {
		return m.queryFunc(ctx, opts)
	}
	return nil
}

func (m *mockApp) Mutate(ctx context.Context, opts app.MutateOptions) error {
	if m.mutateFunc != nil {
		return m.mutateFunc(ctx, opts)
	}
	return nil
}

func (m *mockApp) Inspect(ctx context.Context, oldPath, newPath string) error {
	if m.inspectFunc != nil {
		return m.inspectFunc(ctx, oldPath, newPath)
	}
	return nil
}

func (m *mockApp) Token(ctx context.Context, opts app.TokenOptions) error {
	if m.tokenFunc != nil {
		return m.tokenFunc(ctx, opts)
	}
	return nil
}

func execute(t *testing.T, a commands.Application, args ...string) (string, error) {
	t.Helper()
	cli := commands.New(a)
	buf := new(bytes.Buffer)
	cli.SetOutput(buf, buf)
	cli.SetArgs(args)
	err := cli.Execute(context.Background())
	return buf.String(), err
}

func TestCommands_Serve(t *testing.T) {
	t.Run("wires flags correctly", func(t *testing.T) {
		var captured app.ServeOptions
		mock := &mockApp{
			serveFunc: func(_ context.Context, opts app.ServeOptions) error {
				captured = opts
				return nil
			},
		}

		_, err := execute(t, mock, "serve", "-c", "custom.yaml", "--addr", ":9000", "--prefix", "/rpc", "--strategy", "basic")
		require.NoError(t, err)
		assert.Equal(t, "custom.yaml", captured.ConfigPath)
		assert.Equal(t, ":9000", captured.Addr)
		assert.Equal(t, "/rpc", captured.Prefix)
		assert.Equal(t, "basic", captured.Strategy)
	})

	t.Run("defaults config path", func(t *testing.T) {
		var captured app.ServeOptions
		mock := &mockApp{
			serveFunc: func(_ context.Context, opts app.ServeOptions) error {
				captured = opts
				return nil
			},
		}

		_, err := execute(t, mock, "serve")
		require.NoError(t, err)
		assert.Equal(t, "iceberg.yaml", captured.ConfigPath)
		assert.Empty(t, captured.Addr)
	})

	t.Run("returns error on serve failure", func(t *testing.T) {
		mock := &mockApp{
			serveFunc: func(_ context.Context, _ app.ServeOptions) error {
				return errors.New("simulated error")
			},
		}

		_, err := execute(t, mock, "serve")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "simulated error")
	})
}

func TestCommands_Query(t *testing.T) {
	t.Run("wires flags correctly", func(t *testing.T) {
		var captured app.QueryOptions
		mock := &mockApp{
			queryFunc: func(_ context.Context, opts app.QueryOptions) error {
				captured = opts
				return nil
			},
		}

		_, err := execute(t, mock, "query", "getPosts", `{"limit":2}`,
			"--url", "http://localhost:8080/api/iceberg", "-t", "alice", "-r", "3", "-i", "250ms")
		require.NoError(t, err)
		assert.Equal(t, "getPosts", captured.Procedure)
		assert.JSONEq(t, `{"limit":2}`, captured.Input)
		assert.Equal(t, "http://localhost:8080/api/iceberg", captured.Remote.URL)
		assert.Equal(t, "alice", captured.Remote.Token)
		assert.Equal(t, 3, captured.Repeat)
		assert.Equal(t, 250*time.Millisecond, captured.Interval)
	})

	t.Run("defaults", func(t *testing.T) {
		var captured app.QueryOptions
		mock := &mockApp{
			queryFunc: func(_ context.Context, opts app.QueryOptions) error {
				captured = opts
				return nil
			},
		}

		_, err := execute(t, mock, "query", "getStories")
		require.NoError(t, err)
		assert.Empty(t, captured.Input)
		assert.Equal(t, 1, captured.Repeat)
		assert.Equal(t, time.Second, captured.Interval)
	})

	t.Run("requires a procedure", func(t *testing.T) {
		mock := &mockApp{
			queryFunc: func(_ context.Context, _ app.QueryOptions) error {
				panic("should not be called")
			},
		}

		_, err := execute(t, mock, "query")
		require.Error(t, err)
	})
}

func TestCommands_Mutate(t *testing.T) {
	var captured app.MutateOptions
	mock := &mockApp{
		mutateFunc: func(_ context.Context, opts app.MutateOptions) error {
			captured = opts
			return nil
		},
	}

	_, err := execute(t, mock, "mutate", "createPost", `{"title":"t","content":"c"}`, "--token", "bob")
	require.NoError(t, err)
	assert.Equal(t, "createPost", captured.Procedure)
	assert.JSONEq(t, `{"title":"t","content":"c"}`, captured.Input)
	assert.Equal(t, "bob", captured.Remote.Token)
	assert.Equal(t, "iceberg.yaml", captured.ConfigPath)
}

func TestCommands_Inspect(t *testing.T) {
	t.Run("passes both paths", func(t *testing.T) {
		var oldPath, newPath string
		mock := &mockApp{
			inspectFunc: func(_ context.Context, o, n string) error {
				oldPath, newPath = o, n
				return nil
			},
		}

		_, err := execute(t, mock, "inspect", "a.json", "b.json")
		require.NoError(t, err)
		assert.Equal(t, "a.json", oldPath)
		assert.Equal(t, "b.json", newPath)
	})

	t.Run("requires two paths", func(t *testing.T) {
		_, err := execute(t, &mockApp{}, "inspect", "a.json")
		require.Error(t, err)
	})
}

func TestCommands_Token(t *testing.T) {
	var captured app.TokenOptions
	mock := &mockApp{
		tokenFunc: func(_ context.Context, opts app.TokenOptions) error {
			captured = opts
			return nil
		},
	}

	_, err := execute(t, mock, "token", "alice", "--ttl", "2h")
	require.NoError(t, err)
	assert.Equal(t, "alice", captured.Subject)
	assert.Equal(t, 2*time.Hour, captured.TTL)
}

func TestCommands_Version(t *testing.T) {
	out, err := execute(t, &mockApp{}, "version")
	require.NoError(t, err)

	assert.Contains(t, out, build.Version)
	assert.Contains(t, out, build.Commit)
}

func TestCommands_VersionFlag(t *testing.T) {
	out, err := execute(t, &mockApp{}, "--version")
	require.NoError(t, err)

	assert.Contains(t, out, "iceberg version "+build.Version)
}
