// Package config loads and validates the AutoLedger YAML configuration.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// Config holds the full application configuration loaded from YAML.
type Config struct {
	// ProjectID is the Firestore project holding the cloud replica.
	ProjectID string `yaml:"project_id"`

	// CredentialsFile is an optional path to a service-account key file.
	// When empty, application default credentials are used.
	CredentialsFile string `yaml:"credentials_file,omitempty"`

	// DatabasePath is the path of the local ledger database. Defaults to
	// ~/.local/share/autoledger/ledger.db.
	DatabasePath string `yaml:"database_path,omitempty"`

	// StatePath is the path of the sync metadata database. Defaults to
	// ~/.local/share/autoledger/state.db.
	StatePath string `yaml:"state_path,omitempty"`

	// SessionFile is the path of the signed-in session file. Defaults to
	// ~/.config/autoledger/session.json.
	SessionFile string `yaml:"session_file,omitempty"`

	// Telemetry configures optional OpenTelemetry export via OTLP gRPC.
	// Omit the block entirely to disable telemetry.
	Telemetry *TelemetryConfig `yaml:"telemetry,omitempty"`
}

// TelemetryConfig holds optional OpenTelemetry settings.
type TelemetryConfig struct {
	// OTLPEndpoint is the gRPC host:port of the OTLP collector (e.g. "localhost:4317").
	OTLPEndpoint string `yaml:"otlp_endpoint"`

	// Insecure disables TLS for the collector connection. Use for local collectors.
	Insecure bool `yaml:"insecure"`

	// ServiceName overrides the OTel service.name attribute. Defaults to "autoledger".
	ServiceName string `yaml:"service_name"`

	// Headers contains key-value pairs sent as gRPC metadata on every OTLP
	// request. Equivalent to the OTEL_EXPORTER_OTLP_HEADERS environment
	// variable. Use this for authentication tokens, e.g.:
	//   Authorization: "Bearer <token>"
	Headers map[string]string `yaml:"headers,omitempty"`
}

// DefaultPath returns the default config file path: ~/.config/autoledger/config.yaml.
func DefaultPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("resolving home directory: %w", err)
	}
	return filepath.Join(home, ".config", "autoledger", "config.yaml"), nil
}

// Load reads and validates the configuration file at the given path.
func Load(path string) (*Config, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening config file %q: %w", path, err)
	}
	defer f.Close()

	var cfg Config
	dec := yaml.NewDecoder(f)
	dec.KnownFields(true) // reject unknown keys to catch typos early
	if err := dec.Decode(&cfg); err != nil {
		return nil, fmt.Errorf("parsing config file %q: %w", path, err)
	}

	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return &cfg, nil
}

// validate checks required fields and fills in path defaults.
func (c *Config) validate() error {
	if c.ProjectID == "" {
		return fmt.Errorf("project_id is required")
	}

	if c.CredentialsFile != "" {
		if _, err := os.Stat(c.CredentialsFile); err != nil {
			return fmt.Errorf("credentials_file %q: %w", c.CredentialsFile, err)
		}
	}

	home, err := os.UserHomeDir()
	if err != nil {
		return fmt.Errorf("resolving home directory: %w", err)
	}
	if c.DatabasePath == "" {
		c.DatabasePath = filepath.Join(home, ".local", "share", "autoledger", "ledger.db")
	}
	if c.StatePath == "" {
		c.StatePath = filepath.Join(home, ".local", "share", "autoledger", "state.db")
	}
	if c.SessionFile == "" {
		c.SessionFile = filepath.Join(home, ".config", "autoledger", "session.json")
	}

	if c.Telemetry != nil {
		if c.Telemetry.OTLPEndpoint == "" {
			return fmt.Errorf("telemetry.otlp_endpoint is required when telemetry is configured")
		}
	}

	return nil
}
