package config

import "time"

// File represents the structure of the iceberg.yaml configuration file.
type File struct {
	Server   ServerDTO   `yaml:"server"`
	Diff     DiffDTO     `yaml:"diff"`
	Client   ClientDTO   `yaml:"client"`
	Identity IdentityDTO `yaml:"identity"`
	Log      LogDTO      `yaml:"log"`
}

// ServerDTO configures the HTTP binding.
type ServerDTO struct {
	Addr            string        `yaml:"addr"`
	Prefix          string        `yaml:"prefix"`
	ReadTimeout     time.Duration `yaml:"read_timeout"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout"`
}

// DiffDTO configures server-side diff generation.
type DiffDTO struct {
	Strategy         string `yaml:"strategy"`
	MaxResponses     int    `yaml:"max_responses"`
	MaxHashesPerUser int    `yaml:"max_hashes_per_user"`
}

// ClientDTO configures the client cache.
type ClientDTO struct {
	MaxResponses int `yaml:"max_responses"`
}

// IdentityDTO configures owner resolution.
type IdentityDTO struct {
	Mode     string        `yaml:"mode"`
	Secret   string        `yaml:"secret"`
	Issuer   string        `yaml:"issuer"`
	TokenTTL time.Duration `yaml:"token_ttl"`
}

// LogDTO configures logging.
type LogDTO struct {
	JSON  bool   `yaml:"json"`
	Level string `yaml:"level"`
}
