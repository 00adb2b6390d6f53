// Package config provides the configuration loader for iceberg.
package config

import (
	"bytes"
	"errors"
	"io"
	"io/fs"
	"os"
	"strings"

	"go.trai.ch/iceberg/internal/core/domain"
	"go.trai.ch/iceberg/internal/core/ports"
	"go.trai.ch/zerr"
	"gopkg.in/yaml.v3"
)

// DefaultFilename is the configuration file looked up when no path is given.
const DefaultFilename = "iceberg.yaml"

// SecretEnv overrides identity.secret so the secret can stay out of the file.
const SecretEnv = "ICEBERG_SECRET"

// Loader implements ports.ConfigLoader using a YAML file.
type Loader struct {
	Logger ports.Logger
}

// NewLoader creates a new Loader with the given logger.
func NewLoader(logger ports.Logger) *Loader {
	return &Loader{Logger: logger}
}

// Load reads the configuration at path. A missing file yields the defaults.
func (l *Loader) Load(path string) (*domain.Config, error) {
	if path == "" {
		path = DefaultFilename
	}

	data, err := os.ReadFile(path) //nolint:gosec // path is provided by user
	switch {
	case errors.Is(err, fs.ErrNotExist):
		l.Logger.Debug("no config file, using defaults", "path", path)
		data = nil
	case err != nil:
		return nil, zerr.With(zerr.Wrap(domain.ErrConfigReadFailed, err.Error()), "path", path)
	}

	cfg, err := Parse(data)
	if err != nil {
		return nil, zerr.With(err, "path", path)
	}
	return cfg, nil
}

// Parse decodes a configuration document on top of domain.DefaultConfig and validates it.
func Parse(data []byte) (*domain.Config, error) {
	file := toFile(domain.DefaultConfig())

	if len(bytes.TrimSpace(data)) > 0 {
		dec := yaml.NewDecoder(bytes.NewReader(data))
		dec.KnownFields(true)
		if err := dec.Decode(&file); err != nil && !errors.Is(err, io.EOF) {
			return nil, zerr.Wrap(domain.ErrConfigParseFailed, err.Error())
		}
	}

	if secret := os.Getenv(SecretEnv); secret != "" {
		file.Identity.Secret = secret
	}

	cfg := fromFile(&file)
	if err := Validate(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks that every setting is in range.
func Validate(cfg *domain.Config) error {
	checks := []struct {
		ok    bool
		field string
		value any
	}{
		{cfg.Server.Addr != "", "server.addr", cfg.Server.Addr},
		{cfg.Server.Prefix == "" || strings.HasPrefix(cfg.Server.Prefix, "/"), "server.prefix", cfg.Server.Prefix},
		{cfg.Server.ReadTimeout >= 0, "server.read_timeout", cfg.Server.ReadTimeout},
		{cfg.Server.ShutdownTimeout >= 0, "server.shutdown_timeout", cfg.Server.ShutdownTimeout},
		{cfg.Diff.Strategy == domain.StrategyBasic || cfg.Diff.Strategy == domain.StrategyAdvanced, "diff.strategy", cfg.Diff.Strategy},
		{cfg.Diff.MaxResponses > 0, "diff.max_responses", cfg.Diff.MaxResponses},
		{cfg.Diff.MaxHashesPerUser > 0, "diff.max_hashes_per_user", cfg.Diff.MaxHashesPerUser},
		{cfg.Client.MaxResponses > 0, "client.max_responses", cfg.Client.MaxResponses},
		{cfg.Identity.Mode == domain.IdentityHeader || cfg.Identity.Mode == domain.IdentityJWT, "identity.mode", cfg.Identity.Mode},
		{cfg.Identity.Mode != domain.IdentityJWT || cfg.Identity.Secret != "", "identity.secret", "<empty>"},
		{cfg.Identity.TokenTTL > 0, "identity.token_ttl", cfg.Identity.TokenTTL},
	}

	for _, c := range checks {
		if !c.ok {
			err := zerr.With(zerr.Wrap(domain.ErrInvalidConfig, "invalid value for "+c.field), "field", c.field)
			return zerr.With(err, "value", c.value)
		}
	}
	return nil
}

func toFile(cfg *domain.Config) File {
	return File{
		Server: ServerDTO{
			Addr:            cfg.Server.Addr,
			Prefix:          cfg.Server.Prefix,
			ReadTimeout:     cfg.Server.ReadTimeout,
			ShutdownTimeout: cfg.Server.ShutdownTimeout,
		},
		Diff: DiffDTO{
			Strategy:         cfg.Diff.Strategy,
			MaxResponses:     cfg.Diff.MaxResponses,
			MaxHashesPerUser: cfg.Diff.MaxHashesPerUser,
		},
		Client: ClientDTO{MaxResponses: cfg.Client.MaxResponses},
		Identity: IdentityDTO{
			Mode:     cfg.Identity.Mode,
			Secret:   cfg.Identity.Secret,
			Issuer:   cfg.Identity.Issuer,
			TokenTTL: cfg.Identity.TokenTTL,
		},
		Log: LogDTO{JSON: cfg.Log.JSON, Level: cfg.Log.Level},
	}
}

func fromFile(f *File) *domain.Config {
	return &domain.Config{
		Server: domain.ServerConfig{
			Addr:            f.Server.Addr,
			Prefix:          strings.TrimSuffix(f.Server.Prefix, "/"),
			ReadTimeout:     f.Server.ReadTimeout,
			ShutdownTimeout: f.Server.ShutdownTimeout,
		},
		Diff: domain.DiffConfig{
			Strategy:         strings.ToLower(f.Diff.Strategy),
			MaxResponses:     f.Diff.MaxResponses,
			MaxHashesPerUser: f.Diff.MaxHashesPerUser,
		},
		Client: domain.ClientConfig{MaxResponses: f.Client.MaxResponses},
		Identity: domain.IdentityConfig{
			Mode:     strings.ToLower(f.Identity.Mode),
			Secret:   f.Identity.Secret,
			Issuer:   f.Identity.Issuer,
			TokenTTL: f.Identity.TokenTTL,
		},
		Log: domain.LogConfig{JSON: f.Log.JSON, Level: f.Log.Level},
	}
}
