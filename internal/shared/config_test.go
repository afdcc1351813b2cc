package shared

import (
	"os"
	"path/filepath"
	"testing"
)

func TestConfig(t *testing.T) {
	t.Run("DefaultConfig", func(t *testing.T) {
		config := DefaultConfig()

		if config.Database.Path != "arcana.db" {
			t.Errorf("expected database path arcana.db, got %s", config.Database.Path)
		}

		if config.Service.BaseURL != "http://localhost:8000" {
			t.Errorf("expected service base URL http://localhost:8000, got %s", config.Service.BaseURL)
		}

		if config.Reading.DefaultSpread != "three_card" {
			t.Errorf("expected default spread three_card, got %s", config.Reading.DefaultSpread)
		}

		if config.Reading.ReversalChance != 0.3 {
			t.Errorf("expected reversal chance 0.3, got %v", config.Reading.ReversalChance)
		}
	})

	t.Run("CreateConfigFile", func(t *testing.T) {
		tmpDir := t.TempDir()
		configPath := filepath.Join(tmpDir, "config.toml")

		if err := CreateConfigFile(configPath); err != nil {
			t.Fatalf("failed to create config file: %v", err)
		}

		if _, err := os.Stat(configPath); err != nil {
			t.Fatalf("config file should exist: %v", err)
		}

		config, err := LoadConfig(configPath)
		if err != nil {
			t.Fatalf("failed to load created config: %v", err)
		}

		defaultConfig := DefaultConfig()
		if config.Database.Path != defaultConfig.Database.Path {
			t.Errorf("created config database path doesn't match default")
		}

		if err := CreateConfigFile(configPath); err == nil {
			t.Error("creating config file again should fail")
		}
	})

	t.Run("LoadConfig", func(t *testing.T) {
		tmpDir := t.TempDir()
		configPath := filepath.Join(tmpDir, "config.toml")

		testConfig := `[service]
base_url = "https://oracle.example.com"
token = "test_token"
headers_path = "/path/to/session.sh"
rate_limit = 2.5

[database]
path = "/custom/path.db"
max_open_conns = 20
max_idle_conns = 10

[reading]
default_spread = "celtic_cross"
reversal_chance = 0.5
deck_page_size = 78
`
		if err := os.WriteFile(configPath, []byte(testConfig), 0644); err != nil {
			t.Fatalf("failed to write test config: %v", err)
		}

		config, err := LoadConfig(configPath)
		if err != nil {
			t.Fatalf("failed to load config: %v", err)
		}

		if config.Database.Path != "/custom/path.db" {
			t.Errorf("expected database path /custom/path.db, got %s", config.Database.Path)
		}

		if config.Service.Token != "test_token" {
			t.Errorf("expected service token test_token, got %s", config.Service.Token)
		}

		if config.Reading.DefaultSpread != "celtic_cross" {
			t.Errorf("expected default spread celtic_cross, got %s", config.Reading.DefaultSpread)
		}

		if config.Service.RateLimit != 2.5 {
			t.Errorf("expected rate limit 2.5, got %v", config.Service.RateLimit)
		}
	})

	t.Run("LoadConfig missing file", func(t *testing.T) {
		if _, err := LoadConfig("/nonexistent/config.toml"); err == nil {
			t.Error("expected error for missing config file")
		}
	})
}
