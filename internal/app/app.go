// Package app implements the application layer for iceberg.
package app

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"os"
	"time"

	"go.trai.ch/iceberg/internal/adapters/diffgen"  //nolint:depguard // Wired in app layer
	"go.trai.ch/iceberg/internal/adapters/httpapi"  //nolint:depguard // Wired in app layer
	"go.trai.ch/iceberg/internal/adapters/identity" //nolint:depguard // Wired in app layer
	"go.trai.ch/iceberg/internal/adapters/render"   //nolint:depguard // Wired in app layer
	"go.trai.ch/iceberg/internal/adapters/storage"  //nolint:depguard // Wired in app layer
	"go.trai.ch/iceberg/internal/core/domain"
	"go.trai.ch/iceberg/internal/core/ports"
	"go.trai.ch/iceberg/internal/engine/client"
	"go.trai.ch/iceberg/internal/engine/dispatcher"
	"go.trai.ch/iceberg/internal/engine/procedure"
	"go.trai.ch/zerr"
	"golang.org/x/sync/errgroup"
)

// Components contains the initialized application components used by the CLI layer.
type Components struct {
	App    *App
	Logger ports.Logger
}

// App represents the main application logic.
type App struct {
	configLoader ports.ConfigLoader
	logger       ports.Logger
	hasher       ports.ContentHasher
	transformer  ports.PayloadTransformer
	registry     *procedure.Registry
	stdout       io.Writer
}

// New creates a new App instance.
func New(
	loader ports.ConfigLoader,
	log ports.Logger,
	hasher ports.ContentHasher,
	transformer ports.PayloadTransformer,
	registry *procedure.Registry,
) *App {
	return &App{
		configLoader: loader,
		logger:       log,
		hasher:       hasher,
		transformer:  transformer,
		registry:     registry,
		stdout:       os.Stdout,
	}
}

// WithOutput redirects command output, which defaults to stdout.
func (a *App) WithOutput(w io.Writer) *App {
	a.stdout = w
	return a
}

// ServeOptions configuration for the Serve method. Empty fields keep the configured value.
type ServeOptions struct {
	ConfigPath string
	Addr       string
	Prefix     string
	Strategy   string
	// OnListen, when set, is called with the bound address once the server accepts connections.
	OnListen func(addr string)
}

// Remote addresses a running server.
type Remote struct {
	// URL is the server base URL including the prefix. Empty derives it from the configuration.
	URL   string
	Token string
}

// QueryOptions configuration for the Query method.
type QueryOptions struct {
	ConfigPath string
	Remote     Remote
	Procedure  string
	// Input is a JSON document. Empty sends no input.
	Input    string
	Repeat   int
	Interval time.Duration
}

// MutateOptions configuration for the Mutate method.
type MutateOptions struct {
	ConfigPath string
	Remote     Remote
	Procedure  string
	Input      string
}

// TokenOptions configuration for the Token method.
type TokenOptions struct {
	ConfigPath string
	Subject    string
	// TTL overrides the configured token lifetime when positive.
	TTL time.Duration
}

// Serve runs the HTTP server until ctx is cancelled, then shuts it down gracefully.
func (a *App) Serve(ctx context.Context, opts ServeOptions) error {
	cfg, err := a.loadConfig(opts.ConfigPath)
	if err != nil {
		return err
	}
	if opts.Addr != "" {
		cfg.Server.Addr = opts.Addr
	}
	if opts.Prefix != "" {
		cfg.Server.Prefix = opts.Prefix
	}
	if opts.Strategy != "" {
		cfg.Diff.Strategy = opts.Strategy
	}

	handler, err := a.newHandler(cfg)
	if err != nil {
		return err
	}

	var lc net.ListenConfig
	ln, err := lc.Listen(ctx, "tcp", cfg.Server.Addr)
	if err != nil {
		return zerr.With(zerr.Wrap(err, "failed to listen"), "addr", cfg.Server.Addr)
	}

	srv := &http.Server{
		Handler:           handler,
		ReadTimeout:       cfg.Server.ReadTimeout,
		ReadHeaderTimeout: cfg.Server.ReadTimeout,
	}

	addr := ln.Addr().String()
	a.logger.Info("serving",
		"addr", addr,
		"prefix", cfg.Server.Prefix,
		"strategy", cfg.Diff.Strategy,
		"identity", cfg.Identity.Mode,
		"procedures", a.registry.Names(),
	)
	if opts.OnListen != nil {
		opts.OnListen(addr)
	}

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		if err := srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return zerr.Wrap(err, "server failed")
		}
		return nil
	})

	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), cfg.Server.ShutdownTimeout)
		defer cancel()

		a.logger.Info("shutting down")
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return zerr.Wrap(err, "shutdown failed")
		}
		return nil
	})

	return g.Wait()
}

// Query calls a query on a running server. With Repeat > 1 the query is sent
// again after every Interval and each change is rendered as a patch.
func (a *App) Query(ctx context.Context, opts QueryOptions) error {
	cfg, err := a.loadConfig(opts.ConfigPath)
	if err != nil {
		return err
	}
	c, err := a.newClient(cfg, opts.Remote)
	if err != nil {
		return err
	}

	r := render.New(a.stdout)
	repeat := max(opts.Repeat, 1)

	var prev []byte
	for i := range repeat {
		if i > 0 {
			select {
			case <-ctx.Done():
				return nil
			case <-time.After(opts.Interval):
			}
		}

		res, err := c.Query(ctx, opts.Procedure, rawInput(opts.Input))
		if err != nil {
			return zerr.Wrap(err, "query failed")
		}
		if err := r.Exchange(exchange(opts.Procedure, res)); err != nil {
			return err
		}

		switch {
		case prev == nil:
			err = a.printBody(res.Body())
		case string(prev) != string(res.Body()):
			err = r.Transition(string(prev), string(res.Body()))
		}
		if err != nil {
			return err
		}
		prev = res.Body()
	}
	return nil
}

// Mutate calls a mutation on a running server.
func (a *App) Mutate(ctx context.Context, opts MutateOptions) error {
	cfg, err := a.loadConfig(opts.ConfigPath)
	if err != nil {
		return err
	}
	c, err := a.newClient(cfg, opts.Remote)
	if err != nil {
		return err
	}

	res, err := c.Mutate(ctx, opts.Procedure, rawInput(opts.Input))
	if err != nil {
		return zerr.Wrap(err, "mutation failed")
	}
	if err := render.New(a.stdout).Exchange(exchange(opts.Procedure, res)); err != nil {
		return err
	}
	return a.printBody(res.Body())
}

// Inspect renders the patch between two stored response bodies.
func (a *App) Inspect(_ context.Context, oldPath, newPath string) error {
	oldBody, err := os.ReadFile(oldPath)
	if err != nil {
		return zerr.With(zerr.Wrap(err, "failed to read body"), "path", oldPath)
	}
	newBody, err := os.ReadFile(newPath)
	if err != nil {
		return zerr.With(zerr.Wrap(err, "failed to read body"), "path", newPath)
	}
	return render.New(a.stdout).Transition(string(oldBody), string(newBody))
}

// Token issues a bearer token for subject signed with the configured secret.
func (a *App) Token(_ context.Context, opts TokenOptions) error {
	cfg, err := a.loadConfig(opts.ConfigPath)
	if err != nil {
		return err
	}

	ttl := cfg.Identity.TokenTTL
	if opts.TTL > 0 {
		ttl = opts.TTL
	}

	issuer, err := identity.NewJWT(cfg.Identity.Secret, cfg.Identity.Issuer, ttl)
	if err != nil {
		return err
	}
	token, err := issuer.Issue(opts.Subject)
	if err != nil {
		return err
	}

	_, err = fmt.Fprintln(a.stdout, token)
	return err
}

func (a *App) loadConfig(path string) (*domain.Config, error) {
	cfg, err := a.configLoader.Load(path)
	if err != nil {
		return nil, zerr.Wrap(err, "failed to load configuration")
	}

	if l, ok := a.logger.(interface {
		SetJSON(enable bool)
		SetLevel(level string) error
	}); ok {
		l.SetJSON(cfg.Log.JSON)
		if err := l.SetLevel(cfg.Log.Level); err != nil {
			return nil, err
		}
	}
	return cfg, nil
}

func (a *App) newHandler(cfg *domain.Config) (http.Handler, error) {
	store, err := storage.NewServerStore(a.hasher, cfg.Diff.MaxResponses, cfg.Diff.MaxHashesPerUser)
	if err != nil {
		return nil, err
	}
	gen, err := diffgen.New(cfg.Diff.Strategy, store)
	if err != nil {
		return nil, err
	}
	resolver, err := identity.New(cfg.Identity)
	if err != nil {
		return nil, err
	}

	d := dispatcher.New(a.registry, gen, a.hasher, a.transformer, a.logger)
	return httpapi.NewServer(d, resolver, a.logger, cfg.Server.Prefix), nil
}

func (a *App) newClient(cfg *domain.Config, remote Remote) (*client.Client, error) {
	store, err := storage.NewClientStore(cfg.Client.MaxResponses)
	if err != nil {
		return nil, err
	}

	url := remote.URL
	if url == "" {
		url = localURL(cfg.Server)
	}

	var opts []httpapi.ClientOption
	if remote.Token != "" {
		opts = append(opts, httpapi.WithToken(remote.Token))
	}
	return client.New(httpapi.NewClient(url, opts...), store, a.hasher, a.transformer, a.logger,
		client.WithMaxQueries(cfg.Client.MaxResponses),
	), nil
}

func (a *App) printBody(body []byte) error {
	if _, err := fmt.Fprintf(a.stdout, "%s\n", body); err != nil {
		return zerr.Wrap(err, "write output")
	}
	return nil
}

// localURL is the address a client on the same machine uses to reach the configured server.
func localURL(cfg domain.ServerConfig) string {
	host, port, err := net.SplitHostPort(cfg.Addr)
	if err != nil {
		return "http://" + cfg.Addr + cfg.Prefix
	}
	switch host {
	case "", "0.0.0.0", "::":
		host = "localhost"
	}
	return "http://" + net.JoinHostPort(host, port) + cfg.Prefix
}

func rawInput(input string) any {
	if input == "" {
		return nil
	}
	return json.RawMessage(input)
}

func exchange(procedure string, res *client.Result) render.Exchange {
	return render.Exchange{
		Procedure:    procedure,
		Hash:         res.Hash,
		IsDiff:       res.IsDiff,
		WireBytes:    res.WireBytes,
		BodyBytes:    len(res.Body()),
		Dependencies: res.Dependencies,
	}
}
