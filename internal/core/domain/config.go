package domain

import "time"

// Diff strategies.
const (
	StrategyBasic    = "basic"
	StrategyAdvanced = "advanced"
)

// Identity modes.
const (
	// IdentityHeader trusts the Authorization header value as the user id.
	IdentityHeader = "header"
	// IdentityJWT verifies HS256 bearer tokens and uses their subject as the user id.
	IdentityJWT = "jwt"
)

// Config holds the runtime settings of a server or client.
type Config struct {
	Server   ServerConfig
	Diff     DiffConfig
	Client   ClientConfig
	Identity IdentityConfig
	Log      LogConfig
}

// ServerConfig configures the HTTP binding.
type ServerConfig struct {
	Addr            string
	Prefix          string
	ReadTimeout     time.Duration
	ShutdownTimeout time.Duration
}

// DiffConfig configures server-side diff generation.
type DiffConfig struct {
	Strategy         string
	MaxResponses     int
	MaxHashesPerUser int
}

// ClientConfig configures the client-side cache.
type ClientConfig struct {
	MaxResponses int
}

// IdentityConfig configures how request owners are resolved.
type IdentityConfig struct {
	Mode     string
	Secret   string
	Issuer   string
	TokenTTL time.Duration
}

// LogConfig configures the logger.
type LogConfig struct {
	JSON  bool
	Level string
}

// DefaultConfig returns the settings used when no configuration file exists.
func DefaultConfig() *Config {
	return &Config{
		Server: ServerConfig{
			Addr:            ":3000",
			Prefix:          "/api/iceberg",
			ReadTimeout:     10 * time.Second,
			ShutdownTimeout: 5 * time.Second,
		},
		Diff: DiffConfig{
			Strategy:         StrategyAdvanced,
			MaxResponses:     100,
			MaxHashesPerUser: 20,
		},
		Client: ClientConfig{
			MaxResponses: 100,
		},
		Identity: IdentityConfig{
			Mode:     IdentityHeader,
			Issuer:   "iceberg",
			TokenTTL: 24 * time.Hour,
		},
		Log: LogConfig{
			Level: "info",
		},
	}
}
