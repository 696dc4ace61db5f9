package shared

import (
	"bytes"
	_ "embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/joho/godotenv"
)

//go:embed config.example.toml
var exampleConf []byte

// Config represents the application configuration loaded from a TOML file.
type Config struct {
	Backend     BackendConfig     `toml:"backend"`
	Client      ClientConfig      `toml:"client"`
	Session     SessionConfig     `toml:"session"`
	Server      ServerConfig      `toml:"server"`
	Credentials CredentialsConfig `toml:"credentials"`
	Log         LogConfig         `toml:"log"`
}

// BackendConfig locates the backend consumed by the client.
type BackendConfig struct {
	URL string `toml:"url"`
}

// ClientConfig contains settings for the terminal client.
type ClientConfig struct {
	CallbackHost         string `toml:"callback_host"`
	CallbackPort         int    `toml:"callback_port"`
	RedirectDelaySeconds int    `toml:"redirect_delay_seconds"`
	AuthTimeoutSeconds   int    `toml:"auth_timeout_seconds"`
}

// CallbackAddr is the host:port the /auth-success listener binds to.
func (c ClientConfig) CallbackAddr() string {
	return fmt.Sprintf("%s:%d", c.CallbackHost, c.CallbackPort)
}

// CallbackURL is the /auth-success address the backend's frontend_url should point at.
func (c ClientConfig) CallbackURL() string {
	return "http://" + c.CallbackAddr() + "/auth-success"
}

// RedirectDelay is how long a fatal session message stays up before navigating home.
func (c ClientConfig) RedirectDelay() time.Duration {
	if c.RedirectDelaySeconds < 0 {
		return 0
	}
	return time.Duration(c.RedirectDelaySeconds) * time.Second
}

// AuthTimeout bounds the wait for the browser authorization.
func (c ClientConfig) AuthTimeout() time.Duration {
	if c.AuthTimeoutSeconds <= 0 {
		return 2 * time.Minute
	}
	return time.Duration(c.AuthTimeoutSeconds) * time.Second
}

// SessionConfig selects the token storage driver.
type SessionConfig struct {
	Driver string `toml:"driver"`
}

// ServerConfig contains backend HTTP server settings.
type ServerConfig struct {
	Host          string  `toml:"host"`
	Port          int     `toml:"port"`
	FrontendURL   string  `toml:"frontend_url"`
	SpotifyAPIURL string  `toml:"spotify_api_url"`
	RateLimit     float64 `toml:"rate_limit"`
}

// Addr is the host:port the backend listens on.
func (s ServerConfig) Addr() string {
	return fmt.Sprintf("%s:%d", s.Host, s.Port)
}

// CredentialsConfig contains service-specific credentials.
type CredentialsConfig struct {
	Spotify SpotifyConfig `toml:"spotify"`
}

// SpotifyConfig contains Spotify API credentials.
type SpotifyConfig struct {
	ClientID     string `toml:"client_id"`
	ClientSecret string `toml:"client_secret"`
	RedirectURI  string `toml:"redirect_uri"`
}

// Valid reports whether real credentials were configured (not the example placeholders).
func (s SpotifyConfig) Valid() bool {
	return s.ClientID != "" && s.ClientSecret != "" &&
		!strings.HasPrefix(s.ClientID, "your_") && !strings.HasPrefix(s.ClientSecret, "your_")
}

// LogConfig contains logging settings.
type LogConfig struct {
	Level string `toml:"level"`
	File  string `toml:"file"`
}

// LoadConfig reads and parses a TOML configuration file from the specified path.
//
// Keys missing from the file keep their embedded defaults.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", ErrMissingConfig, path)
		}
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	config := DefaultConfig()
	if err := toml.Unmarshal(data, config); err != nil {
		return nil, fmt.Errorf("%w: failed to parse config: %v", ErrInvalidConfig, err)
	}

	return config, nil
}

// DefaultConfig returns a Config with sensible defaults loaded from the embedded example config.
func DefaultConfig() *Config {
	var config Config
	if err := toml.Unmarshal(exampleConf, &config); err != nil {
		panic(fmt.Sprintf("failed to parse embedded default config: %v", err))
	}
	return &config
}

// CreateConfigFile creates a config.toml file at the specified path using the embedded example config.
func CreateConfigFile(path string) error {
	if _, err := os.Stat(path); err == nil {
		return fmt.Errorf("config file already exists at %s", path)
	}

	if err := os.WriteFile(path, exampleConf, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// SaveConfig encodes config as TOML at path.
func SaveConfig(path string, config *Config) error {
	var buf bytes.Buffer
	if err := toml.NewEncoder(&buf).Encode(config); err != nil {
		return fmt.Errorf("failed to encode config: %w", err)
	}
	if err := os.WriteFile(path, buf.Bytes(), 0600); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}
	return nil
}

// envOverrides maps environment variables onto config fields.
var envOverrides = []struct {
	key string
	set func(*Config, string)
}{
	{"SPOTIFY_CLIENT_ID", func(c *Config, v string) { c.Credentials.Spotify.ClientID = v }},
	{"SPOTIFY_CLIENT_SECRET", func(c *Config, v string) { c.Credentials.Spotify.ClientSecret = v }},
	{"REDIRECT_URI", func(c *Config, v string) { c.Credentials.Spotify.RedirectURI = v }},
	{"FRONTEND_URL", func(c *Config, v string) { c.Server.FrontendURL = v }},
	{"SONGSMITH_API_URL", func(c *Config, v string) { c.Backend.URL = v }},
	{"SONGSMITH_LOG_LEVEL", func(c *Config, v string) { c.Log.Level = v }},
}

// ApplyEnv loads the given .env files (missing files are ignored) and overrides config fields
// from the process environment. Variables already set in the environment win over .env values.
func ApplyEnv(config *Config, envFiles ...string) {
	for _, file := range envFiles {
		_ = godotenv.Load(file)
	}

	for _, o := range envOverrides {
		if v, ok := os.LookupEnv(o.key); ok && v != "" {
			o.set(config, v)
		}
	}
}
