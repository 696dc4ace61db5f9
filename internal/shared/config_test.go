package shared

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestConfig(t *testing.T) {
	t.Run("DefaultConfig", func(t *testing.T) {
		config := DefaultConfig()

		if config.Backend.URL != "http://127.0.0.1:8000" {
			t.Errorf("expected backend url http://127.0.0.1:8000, got %s", config.Backend.URL)
		}

		if config.Client.CallbackAddr() != "127.0.0.1:5713" {
			t.Errorf("expected callback addr 127.0.0.1:5713, got %s", config.Client.CallbackAddr())
		}
		if config.Client.CallbackURL() != "http://127.0.0.1:5713/auth-success" {
			t.Errorf("expected callback url, got %s", config.Client.CallbackURL())
		}

		if config.Client.RedirectDelay() != 3*time.Second {
			t.Errorf("expected redirect delay 3s, got %v", config.Client.RedirectDelay())
		}

		if config.Session.Driver != "sqlite" {
			t.Errorf("expected session driver sqlite, got %s", config.Session.Driver)
		}

		if config.Server.Addr() != "127.0.0.1:8000" {
			t.Errorf("expected server addr 127.0.0.1:8000, got %s", config.Server.Addr())
		}

		if config.Credentials.Spotify.Valid() {
			t.Error("placeholder credentials should not be valid")
		}
	})

	t.Run("CreateConfigFile", func(t *testing.T) {
		tmpDir := t.TempDir()
		configPath := filepath.Join(tmpDir, "config.toml")

		if err := CreateConfigFile(configPath); err != nil {
			t.Fatalf("failed to create config file: %v", err)
		}

		config, err := LoadConfig(configPath)
		if err != nil {
			t.Fatalf("failed to load created config: %v", err)
		}

		if config.Backend.URL != DefaultConfig().Backend.URL {
			t.Errorf("created config backend url doesn't match default")
		}

		if err := CreateConfigFile(configPath); err == nil {
			t.Error("creating config file again should fail")
		}
	})

	t.Run("LoadConfig", func(t *testing.T) {
		tmpDir := t.TempDir()
		configPath := filepath.Join(tmpDir, "config.toml")

		testConfig := `[backend]
url = "http://backend.test"

[client]
redirect_delay_seconds = 1

[credentials.spotify]
client_id = "test_client_id"
client_secret = "test_secret"
`
		if err := os.WriteFile(configPath, []byte(testConfig), 0644); err != nil {
			t.Fatalf("failed to write test config: %v", err)
		}

		config, err := LoadConfig(configPath)
		if err != nil {
			t.Fatalf("failed to load config: %v", err)
		}

		if config.Backend.URL != "http://backend.test" {
			t.Errorf("expected backend url http://backend.test, got %s", config.Backend.URL)
		}
		if config.Client.RedirectDelay() != time.Second {
			t.Errorf("expected redirect delay 1s, got %v", config.Client.RedirectDelay())
		}
		if config.Client.CallbackPort != 5713 {
			t.Errorf("expected default callback port to survive partial config, got %d", config.Client.CallbackPort)
		}
		if !config.Credentials.Spotify.Valid() {
			t.Error("expected configured credentials to be valid")
		}
	})

	t.Run("LoadConfig Missing File", func(t *testing.T) {
		_, err := LoadConfig(filepath.Join(t.TempDir(), "nope.toml"))
		if !errors.Is(err, ErrMissingConfig) {
			t.Errorf("expected ErrMissingConfig, got %v", err)
		}
	})

	t.Run("LoadConfig Invalid TOML", func(t *testing.T) {
		configPath := filepath.Join(t.TempDir(), "config.toml")
		if err := os.WriteFile(configPath, []byte("[backend\nurl ="), 0644); err != nil {
			t.Fatalf("failed to write test config: %v", err)
		}

		_, err := LoadConfig(configPath)
		if !errors.Is(err, ErrInvalidConfig) {
			t.Errorf("expected ErrInvalidConfig, got %v", err)
		}
	})

	t.Run("SaveConfig", func(t *testing.T) {
		configPath := filepath.Join(t.TempDir(), "config.toml")
		config := DefaultConfig()
		config.Backend.URL = "http://saved.test"

		if err := SaveConfig(configPath, config); err != nil {
			t.Fatalf("failed to save config: %v", err)
		}

		loaded, err := LoadConfig(configPath)
		if err != nil {
			t.Fatalf("failed to load saved config: %v", err)
		}
		if loaded.Backend.URL != "http://saved.test" {
			t.Errorf("expected saved backend url, got %s", loaded.Backend.URL)
		}
	})

	t.Run("ApplyEnv", func(t *testing.T) {
		t.Run("environment overrides config", func(t *testing.T) {
			t.Setenv("SPOTIFY_CLIENT_ID", "env_id")
			t.Setenv("SONGSMITH_API_URL", "http://env.test")

			config := DefaultConfig()
			ApplyEnv(config)

			if config.Credentials.Spotify.ClientID != "env_id" {
				t.Errorf("expected client id from env, got %s", config.Credentials.Spotify.ClientID)
			}
			if config.Backend.URL != "http://env.test" {
				t.Errorf("expected backend url from env, got %s", config.Backend.URL)
			}
		})

		t.Run("loads dotenv file", func(t *testing.T) {
			envPath := filepath.Join(t.TempDir(), ".env")
			if err := os.WriteFile(envPath, []byte("FRONTEND_URL=http://dotenv.test\n"), 0644); err != nil {
				t.Fatalf("failed to write env file: %v", err)
			}
			t.Setenv("FRONTEND_URL", "")
			os.Unsetenv("FRONTEND_URL")

			config := DefaultConfig()
			ApplyEnv(config, envPath)

			if config.Server.FrontendURL != "http://dotenv.test" {
				t.Errorf("expected frontend url from .env, got %s", config.Server.FrontendURL)
			}
		})

		t.Run("missing dotenv file is ignored", func(t *testing.T) {
			config := DefaultConfig()
			ApplyEnv(config, filepath.Join(t.TempDir(), "missing.env"))

			if config.Backend.URL == "" {
				t.Error("expected defaults to remain")
			}
		})
	})
}
