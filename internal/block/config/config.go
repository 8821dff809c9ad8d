package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/knadh/koanf/providers/env/v2"
	"github.com/knadh/koanf/providers/structs"
	"github.com/knadh/koanf/v2"
)

// AppConfig holds configuration values parsed from environment variables.
type AppConfig struct {
	// Env is the runtime environment, either "dev" or "prod".
	Env string `koanf:"env" validate:"required,oneof=dev prod"`

	// LogLevel controls log verbosity: "debug", "info", "warn", or "error".
	LogLevel string `koanf:"log_level" validate:"required,oneof=debug info warn error"`

	// HostsPath is the system name-resolution override file.
	HostsPath string `koanf:"hosts_path" validate:"required"`

	// StateDir holds the unlock-time side-car and the session journal.
	StateDir string `koanf:"state_dir" validate:"required"`

	// CertDir holds the self-signed certificate pair for the HTTPS listener.
	CertDir string `koanf:"cert_dir" validate:"required"`

	// PageFile optionally points at a custom block page HTML file.
	PageFile string `koanf:"page_file"`

	// HTTPPort is the plaintext block page listener port.
	HTTPPort int `koanf:"http_port" validate:"required,gte=1,lt=65535"`

	// HTTPSPort is the TLS block page listener port.
	HTTPSPort int `koanf:"https_port" validate:"required,gte=1,lt=65535"`

	// FirewallEnabled turns on the iptables blocking layer. Off by default:
	// rejecting resolved IPs over-blocks shared CDN infrastructure.
	FirewallEnabled bool `koanf:"firewall_enabled"`

	// CommandTimeoutSec bounds every external command invocation.
	CommandTimeoutSec uint `koanf:"command_timeout" validate:"required,gte=1,lte=300"`
}

// CommandTimeout returns the external command timeout as a duration.
func (c *AppConfig) CommandTimeout() time.Duration {
	return time.Duration(c.CommandTimeoutSec) * time.Second
}

// DEFAULT_APP_CONFIG defines the default application configuration for the
// blocker: production logging, the standard hosts file, state under
// /var/lib/deepwork, and the well-known web ports on loopback.
var DEFAULT_APP_CONFIG = AppConfig{
	Env:               "prod",
	LogLevel:          "info",
	HostsPath:         "/etc/hosts",
	StateDir:          "/var/lib/deepwork",
	CertDir:           "/var/lib/deepwork/certs",
	HTTPPort:          80,
	HTTPSPort:         443,
	FirewallEnabled:   false,
	CommandTimeoutSec: 15,
}

// envLoader loads environment variables with the prefix "DEEPWORK_".
// It transforms the keys to lowercase and removes the prefix,
// and can be mocked in tests.
var envLoader = func(k *koanf.Koanf) error {
	return k.Load(env.Provider(".", env.Opt{
		Prefix: "DEEPWORK_",
		TransformFunc: func(key, value string) (string, any) {
			return strings.ToLower(strings.TrimPrefix(key, "DEEPWORK_")), strings.TrimSpace(value)
		},
	}), nil)
}

// Load parses environment variables and returns an AppConfig instance.
// It applies default values and runs validation automatically.
func Load() (*AppConfig, error) {
	k := koanf.New(".")

	// Load default values using the structs provider.
	if err := k.Load(structs.Provider(DEFAULT_APP_CONFIG, "koanf"), nil); err != nil {
		return nil, fmt.Errorf("error loading defaults: %w", err)
	}

	if err := envLoader(k); err != nil {
		return nil, fmt.Errorf("error loading env: %w", err)
	}

	var cfg AppConfig
	if err := k.Unmarshal("", &cfg); err != nil {
		return nil, fmt.Errorf("error unmarshalling config: %w", err)
	}

	validate := validator.New(validator.WithRequiredStructEnabled())
	if err := validate.Struct(&cfg); err != nil {
		return nil, fmt.Errorf("validation failed: %w", err)
	}

	return &cfg, nil
}
