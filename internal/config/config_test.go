package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

var envKeys = []string{
	"TICKETPRICE_CONFIG", "HOST", "PORT", "API_TOKEN",
	"TRACKER_BASE_URL", "TRACKER_TOKEN", "TRACKER_TOKEN_TYPE", "TRACKER_ORG_ID", "TRACKER_CLOUD_ORG",
	"FIELD_SPENT", "FIELD_HOURLY_RATE", "FIELD_PRICE",
	"LOG_LEVEL", "SENTRY_DSN", "ENV",
}

func clearEnv(t *testing.T) {
	t.Helper()
	for _, key := range envKeys {
		t.Setenv(key, "")
	}
}

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("failed to write config: %v", err)
	}
	return path
}

func TestLoadDefaults(t *testing.T) {
	clearEnv(t)

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if cfg.Server.Host != "localhost" || cfg.Server.Port != 3000 {
		t.Errorf("unexpected server defaults: %+v", cfg.Server)
	}
	if cfg.Fields.Spent != "spent" {
		t.Errorf("expected spent field default 'spent', got %q", cfg.Fields.Spent)
	}
	if cfg.Tracker.TokenType != "OAuth" {
		t.Errorf("expected OAuth token type, got %q", cfg.Tracker.TokenType)
	}
	if err := cfg.Validate(); err == nil {
		t.Error("expected default config to fail validation")
	}
}

func TestLoadYAML(t *testing.T) {
	clearEnv(t)
	t.Setenv("MY_TRACKER_TOKEN", "from-env")

	path := writeConfig(t, `
server:
  port: 8080
tracker:
  token: ${MY_TRACKER_TOKEN}
  org_id: "12345"
  cloud_org: true
fields:
  hourly_rate: abc--hourlyRate
  price: abc--issuePrice
`)

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if cfg.Server.Port != 8080 {
		t.Errorf("expected port 8080, got %d", cfg.Server.Port)
	}
	if cfg.Server.Host != "localhost" {
		t.Errorf("expected default host to survive, got %q", cfg.Server.Host)
	}
	if cfg.Tracker.Token != "from-env" {
		t.Errorf("expected expanded token, got %q", cfg.Tracker.Token)
	}
	if !cfg.Tracker.CloudOrg {
		t.Error("expected cloud org")
	}
	if cfg.Fields.HourlyRate != "abc--hourlyRate" || cfg.Fields.Price != "abc--issuePrice" {
		t.Errorf("unexpected fields: %+v", cfg.Fields)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("expected valid config, got %v", err)
	}

	tc := cfg.TrackerClientConfig()
	if tc.OrgID != "12345" || !tc.CloudOrg || tc.Token != "from-env" {
		t.Errorf("unexpected tracker client config: %+v", tc)
	}
}

func TestLoadEnvOverridesYAML(t *testing.T) {
	clearEnv(t)

	path := writeConfig(t, `
server:
  port: 8080
fields:
  price: yaml-price
`)
	t.Setenv("TICKETPRICE_CONFIG", path)
	t.Setenv("PORT", "9000")
	t.Setenv("FIELD_PRICE", "env-price")
	t.Setenv("TRACKER_CLOUD_ORG", "true")

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if cfg.Server.Port != 9000 {
		t.Errorf("expected port 9000, got %d", cfg.Server.Port)
	}
	if cfg.Fields.Price != "env-price" {
		t.Errorf("expected env-price, got %q", cfg.Fields.Price)
	}
	if !cfg.Tracker.CloudOrg {
		t.Error("expected cloud org from env")
	}
}

func TestLoadErrors(t *testing.T) {
	t.Run("BadPort", func(t *testing.T) {
		clearEnv(t)
		t.Setenv("PORT", "http")
		if _, err := Load(""); err == nil || !strings.Contains(err.Error(), "PORT") {
			t.Fatalf("expected PORT error, got %v", err)
		}
	})

	t.Run("MissingFile", func(t *testing.T) {
		clearEnv(t)
		if _, err := Load(filepath.Join(t.TempDir(), "nope.yaml")); err == nil {
			t.Fatal("expected error for missing config file")
		}
	})

	t.Run("BadYAML", func(t *testing.T) {
		clearEnv(t)
		path := writeConfig(t, "server: [unclosed")
		if _, err := Load(path); err == nil {
			t.Fatal("expected error for malformed YAML")
		}
	})
}

func TestValidateListsEveryMissingSetting(t *testing.T) {
	cfg := &Config{}
	err := cfg.Validate()
	if err == nil {
		t.Fatal("expected validation error")
	}
	for _, want := range []string{"TRACKER_TOKEN", "TRACKER_ORG_ID", "FIELD_SPENT", "FIELD_HOURLY_RATE", "FIELD_PRICE"} {
		if !strings.Contains(err.Error(), want) {
			t.Errorf("expected %s in %q", want, err.Error())
		}
	}
}
