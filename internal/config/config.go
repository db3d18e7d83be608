// Package config loads and stores CLI configuration in the XDG config dir and
// resolves Metabase credentials from the environment.
// Only non-secret settings are kept in the config file; the session token goes
// to the OS keychain and the password is never written anywhere.
package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"

	apperrors "mbcli/cli/internal/errors"
	"mbcli/cli/internal/metabase"
	"mbcli/cli/internal/xdg"
)

// Environment variables holding the Metabase credentials.
const (
	EnvURL      = "METABASE_URL"
	EnvUsername = "METABASE_USERNAME"
	EnvPassword = "METABASE_PASSWORD"
)

// Config holds non-sensitive CLI settings.
type Config struct {
	LogLevel  string         `json:"log_level"`
	Timeouts  TimeoutsConfig `json:"timeouts"`
	ExportDir string         `json:"export_dir"`
}

// TimeoutsConfig holds per-class request timeouts in seconds.
type TimeoutsConfig struct {
	Auth     int `json:"auth"`
	Metadata int `json:"metadata"`
	Query    int `json:"query"`
}

// Durations converts the configured seconds into client timeouts.
// Non-positive values keep the client defaults.
func (t TimeoutsConfig) Durations() metabase.Timeouts {
	return metabase.Timeouts{
		Auth:     time.Duration(t.Auth) * time.Second,
		Metadata: time.Duration(t.Metadata) * time.Second,
		Query:    time.Duration(t.Query) * time.Second,
	}
}

// Defaults returns the settings used when no config file exists.
func Defaults() Config {
	return Config{
		LogLevel: "info",
		Timeouts: TimeoutsConfig{Auth: 10, Metadata: 30, Query: 60},
	}
}

// Path returns the path to the config file.
func Path() (string, error) {
	dir, err := xdg.ConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "config.json"), nil
}

// Load reads configuration; missing file returns defaults.
// Fields absent from the file keep their default values.
func Load() (Config, error) {
	c := Defaults()
	p, err := Path()
	if err != nil {
		return c, err
	}
	data, err := os.ReadFile(p)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return c, nil
		}
		return c, err
	}
	if err := json.Unmarshal(data, &c); err != nil {
		return c, err
	}
	return c, nil
}

// Save writes configuration with 0600 permissions.
func Save(c Config) error {
	p, err := Path()
	if err != nil {
		return err
	}
	b, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(p, b, 0o600)
}

// Keys lists the settings accepted by Set, in display order.
var Keys = []string{"log_level", "export_dir", "timeouts.auth", "timeouts.metadata", "timeouts.query"}

// Get returns the value of a setting as text.
func (c Config) Get(key string) (string, error) {
	switch key {
	case "log_level":
		return c.LogLevel, nil
	case "export_dir":
		return c.ExportDir, nil
	case "timeouts.auth":
		return strconv.Itoa(c.Timeouts.Auth), nil
	case "timeouts.metadata":
		return strconv.Itoa(c.Timeouts.Metadata), nil
	case "timeouts.query":
		return strconv.Itoa(c.Timeouts.Query), nil
	}
	return "", fmt.Errorf("unknown setting %q (known: %s)", key, strings.Join(Keys, ", "))
}

// Set updates one setting from text. Timeouts are whole positive seconds.
func (c *Config) Set(key, value string) error {
	var seconds *int
	switch key {
	case "log_level":
		c.LogLevel = strings.ToLower(strings.TrimSpace(value))
		return nil
	case "export_dir":
		c.ExportDir = value
		return nil
	case "timeouts.auth":
		seconds = &c.Timeouts.Auth
	case "timeouts.metadata":
		seconds = &c.Timeouts.Metadata
	case "timeouts.query":
		seconds = &c.Timeouts.Query
	default:
		return fmt.Errorf("unknown setting %q (known: %s)", key, strings.Join(Keys, ", "))
	}
	n, err := strconv.Atoi(value)
	if err != nil || n <= 0 {
		return fmt.Errorf("%s must be a positive number of seconds, got %q", key, value)
	}
	*seconds = n
	return nil
}

// Credentials identify one Metabase account.
type Credentials struct {
	URL      string
	Username string
	Password string
}

// Validate reports which credential variables are missing.
func (c Credentials) Validate() error {
	var missing []string
	if c.URL == "" {
		missing = append(missing, EnvURL)
	}
	if c.Username == "" {
		missing = append(missing, EnvUsername)
	}
	if c.Password == "" {
		missing = append(missing, EnvPassword)
	}
	if len(missing) > 0 {
		return apperrors.New(apperrors.MissingCredentials, "missing credentials: "+strings.Join(missing, ", "))
	}
	return nil
}

// LoadCredentials loads a .env file from the working directory when present,
// then reads the credentials from the environment. Variables already set in
// the environment win over the .env file.
func LoadCredentials() (Credentials, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return Credentials{}, err
	}
	creds := Credentials{
		URL:      strings.TrimSpace(os.Getenv(EnvURL)),
		Username: strings.TrimSpace(os.Getenv(EnvUsername)),
		Password: os.Getenv(EnvPassword),
	}
	return creds, creds.Validate()
}
