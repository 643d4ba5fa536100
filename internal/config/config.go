// Package config loads ticketprice settings from an optional YAML file,
// a .env file, and the process environment, in that order of precedence.
package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"github.com/angelofallars/ticketprice/pkg/tracker"
)

type Config struct {
	Server  ServerConfig  `yaml:"server"`
	Tracker TrackerConfig `yaml:"tracker"`
	Fields  FieldsConfig  `yaml:"fields"`
	Log     LogConfig     `yaml:"log"`
}

type ServerConfig struct {
	Host string `yaml:"host"`
	Port uint   `yaml:"port"`
	// APIToken guards the HTTP endpoints. Empty disables the check.
	APIToken string `yaml:"api_token"`
}

type TrackerConfig struct {
	BaseURL   string `yaml:"base_url"`
	Token     string `yaml:"token"`
	TokenType string `yaml:"token_type"`
	OrgID     string `yaml:"org_id"`
	CloudOrg  bool   `yaml:"cloud_org"`
}

// FieldsConfig names the issue fields read and written when pricing.
type FieldsConfig struct {
	Spent      string `yaml:"spent"`
	HourlyRate string `yaml:"hourly_rate"`
	Price      string `yaml:"price"`
}

type LogConfig struct {
	Level     string `yaml:"level"`
	SentryDSN string `yaml:"sentry_dsn"`
	Env       string `yaml:"env"`
}

func Default() *Config {
	return &Config{
		Server: ServerConfig{
			Host: "localhost",
			Port: 3000,
		},
		Tracker: TrackerConfig{
			BaseURL:   tracker.DefaultBaseURL,
			TokenType: "OAuth",
		},
		Fields: FieldsConfig{
			Spent: "spent",
		},
		Log: LogConfig{
			Level: "info",
			Env:   "development",
		},
	}
}

// Load builds a Config from defaults, the YAML file at path (or
// $TICKETPRICE_CONFIG when path is empty), and environment overrides.
func Load(path string) (*Config, error) {
	cfg := Default()

	if path == "" {
		path = os.Getenv("TICKETPRICE_CONFIG")
	}
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read config: %w", err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse config %s: %w", path, err)
		}
		cfg.expandEnvVars()
	}

	// A missing .env file is fine.
	_ = godotenv.Load()

	if err := cfg.applyEnv(); err != nil {
		return nil, err
	}

	return cfg, nil
}

func (c *Config) expandEnvVars() {
	c.Tracker.Token = os.ExpandEnv(c.Tracker.Token)
	c.Tracker.OrgID = os.ExpandEnv(c.Tracker.OrgID)
	c.Server.APIToken = os.ExpandEnv(c.Server.APIToken)
	c.Log.SentryDSN = os.ExpandEnv(c.Log.SentryDSN)
}

func (c *Config) applyEnv() error {
	setString(&c.Server.Host, "HOST")
	setString(&c.Server.APIToken, "API_TOKEN")
	setString(&c.Tracker.BaseURL, "TRACKER_BASE_URL")
	setString(&c.Tracker.Token, "TRACKER_TOKEN")
	setString(&c.Tracker.TokenType, "TRACKER_TOKEN_TYPE")
	setString(&c.Tracker.OrgID, "TRACKER_ORG_ID")
	setString(&c.Fields.Spent, "FIELD_SPENT")
	setString(&c.Fields.HourlyRate, "FIELD_HOURLY_RATE")
	setString(&c.Fields.Price, "FIELD_PRICE")
	setString(&c.Log.Level, "LOG_LEVEL")
	setString(&c.Log.SentryDSN, "SENTRY_DSN")
	setString(&c.Log.Env, "ENV")

	if v := os.Getenv("PORT"); v != "" {
		port, err := strconv.ParseUint(v, 10, 16)
		if err != nil {
			return fmt.Errorf("invalid PORT %q: %w", v, err)
		}
		c.Server.Port = uint(port)
	}

	if v := os.Getenv("TRACKER_CLOUD_ORG"); v != "" {
		cloud, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("invalid TRACKER_CLOUD_ORG %q: %w", v, err)
		}
		c.Tracker.CloudOrg = cloud
	}

	return nil
}

func setString(dst *string, key string) {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		*dst = v
	}
}

// Validate checks the settings needed to talk to the tracker.
func (c *Config) Validate() error {
	var errs []error
	if c.Tracker.Token == "" {
		errs = append(errs, errors.New("tracker token is not set (TRACKER_TOKEN)"))
	}
	if c.Tracker.OrgID == "" {
		errs = append(errs, errors.New("tracker org id is not set (TRACKER_ORG_ID)"))
	}
	if c.Fields.Spent == "" {
		errs = append(errs, errors.New("spent field is not set (FIELD_SPENT)"))
	}
	if c.Fields.HourlyRate == "" {
		errs = append(errs, errors.New("hourly rate field is not set (FIELD_HOURLY_RATE)"))
	}
	if c.Fields.Price == "" {
		errs = append(errs, errors.New("price field is not set (FIELD_PRICE)"))
	}
	return errors.Join(errs...)
}

func (c *Config) TrackerClientConfig() tracker.Config {
	return tracker.Config{
		BaseURL:   c.Tracker.BaseURL,
		Token:     c.Tracker.Token,
		TokenType: c.Tracker.TokenType,
		OrgID:     c.Tracker.OrgID,
		CloudOrg:  c.Tracker.CloudOrg,
	}
}
