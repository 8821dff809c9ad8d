package config

import (
	"errors"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/knadh/koanf/v2"
)

func TestLoad_Defaults(t *testing.T) {
	os.Unsetenv("DEEPWORK_ENV")
	os.Unsetenv("DEEPWORK_LOG_LEVEL")
	os.Unsetenv("DEEPWORK_HOSTS_PATH")
	os.Unsetenv("DEEPWORK_HTTP_PORT")
	os.Unsetenv("DEEPWORK_HTTPS_PORT")
	os.Unsetenv("DEEPWORK_FIREWALL_ENABLED")
	os.Unsetenv("DEEPWORK_COMMAND_TIMEOUT")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() returned error: %v", err)
	}
	if cfg.Env != "prod" {
		t.Errorf("expected Env=prod, got %q", cfg.Env)
	}
	if cfg.LogLevel != "info" {
		t.Errorf("expected LogLevel=info, got %q", cfg.LogLevel)
	}
	if cfg.HostsPath != "/etc/hosts" {
		t.Errorf("expected HostsPath=/etc/hosts, got %q", cfg.HostsPath)
	}
	if cfg.HTTPPort != 80 || cfg.HTTPSPort != 443 {
		t.Errorf("expected ports 80/443, got %d/%d", cfg.HTTPPort, cfg.HTTPSPort)
	}
	if cfg.FirewallEnabled {
		t.Error("firewall layer should be disabled by default")
	}
	if cfg.CommandTimeout() != 15*time.Second {
		t.Errorf("expected 15s command timeout, got %v", cfg.CommandTimeout())
	}
}

func TestLoad_ValidOverrides(t *testing.T) {
	t.Setenv("DEEPWORK_ENV", "dev")
	t.Setenv("DEEPWORK_LOG_LEVEL", "debug")
	t.Setenv("DEEPWORK_HOSTS_PATH", "/tmp/hosts")
	t.Setenv("DEEPWORK_HTTP_PORT", "8080")
	t.Setenv("DEEPWORK_HTTPS_PORT", "8443")
	t.Setenv("DEEPWORK_FIREWALL_ENABLED", "true")
	t.Setenv("DEEPWORK_COMMAND_TIMEOUT", "30")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() returned error: %v", err)
	}
	if cfg.Env != "dev" || cfg.LogLevel != "debug" {
		t.Errorf("expected dev/debug, got %q/%q", cfg.Env, cfg.LogLevel)
	}
	if cfg.HostsPath != "/tmp/hosts" {
		t.Errorf("expected HostsPath=/tmp/hosts, got %q", cfg.HostsPath)
	}
	if cfg.HTTPPort != 8080 || cfg.HTTPSPort != 8443 {
		t.Errorf("expected ports 8080/8443, got %d/%d", cfg.HTTPPort, cfg.HTTPSPort)
	}
	if !cfg.FirewallEnabled {
		t.Error("expected firewall layer enabled")
	}
	if cfg.CommandTimeout() != 30*time.Second {
		t.Errorf("expected 30s command timeout, got %v", cfg.CommandTimeout())
	}
}

func TestLoad_WhenKoanfLoadFails(t *testing.T) {
	orig := envLoader
	envLoader = func(k *koanf.Koanf) error {
		return errors.New("mocked error")
	}
	defer func() { envLoader = orig }()

	_, err := Load()
	if err == nil || !strings.Contains(err.Error(), "mocked error") {
		t.Fatal("expected error when loading env, got nil")
	}
}

func TestLoad_InvalidEnv(t *testing.T) {
	t.Setenv("DEEPWORK_ENV", "staging")

	_, err := Load()
	if err == nil {
		t.Fatal("expected error for invalid DEEPWORK_ENV, got nil")
	}
}

func TestLoad_InvalidLogLevel(t *testing.T) {
	t.Setenv("DEEPWORK_LOG_LEVEL", "trace")

	_, err := Load()
	if err == nil {
		t.Fatal("expected error for invalid DEEPWORK_LOG_LEVEL, got nil")
	}
}

func TestLoad_InvalidPort(t *testing.T) {
	t.Setenv("DEEPWORK_HTTP_PORT", "99999")

	_, err := Load()
	if err == nil {
		t.Fatal("expected error for invalid DEEPWORK_HTTP_PORT, got nil")
	}
}
