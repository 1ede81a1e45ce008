package config

import (
	"testing"
	"time"
)

func TestLoadConfig_Defaults(t *testing.T) {
	cfg, err := LoadConfig()
	if err != nil {
		t.Fatalf("LoadConfig failed: %v", err)
	}

	if cfg.Catalog.BaseURL != "https://api.themoviedb.org/3" {
		t.Errorf("Expected default catalog base URL, got %q", cfg.Catalog.BaseURL)
	}
	if cfg.Catalog.ImageBaseURL != "https://image.tmdb.org/t/p/original" {
		t.Errorf("Expected default image base URL, got %q", cfg.Catalog.ImageBaseURL)
	}
	if cfg.Catalog.Language != "en-US" {
		t.Errorf("Expected default language en-US, got %q", cfg.Catalog.Language)
	}
	if cfg.PreviewPosterCount != 3 {
		t.Errorf("Expected preview poster count 3, got %d", cfg.PreviewPosterCount)
	}
	if cfg.Cache.Provider != "memory" {
		t.Errorf("Expected memory cache provider, got %q", cfg.Cache.Provider)
	}
	if cfg.Server.Address != "localhost" || cfg.Server.Port != 8080 {
		t.Errorf("Expected default server localhost:8080, got %s:%d", cfg.Server.Address, cfg.Server.Port)
	}
	if cfg.UserAgent != DefaultUserAgent {
		t.Errorf("Expected default user agent, got %q", cfg.UserAgent)
	}
}

func TestLoadConfig_EnvOverrides(t *testing.T) {
	t.Setenv("APP_CATALOG_LANGUAGE", "fr-FR")
	t.Setenv("APP_CLIENT_TIMEOUT", "5s")
	t.Setenv("TMDB_API_KEY", "secret")

	cfg, err := LoadConfig()
	if err != nil {
		t.Fatalf("LoadConfig failed: %v", err)
	}
	if cfg.Catalog.Language != "fr-FR" {
		t.Errorf("Expected language override fr-FR, got %q", cfg.Catalog.Language)
	}
	if cfg.ClientTimeout != "5s" {
		t.Errorf("Expected client timeout override 5s, got %q", cfg.ClientTimeout)
	}
	if cfg.Catalog.APIKey != "secret" {
		t.Errorf("Expected API key from TMDB_API_KEY, got %q", cfg.Catalog.APIKey)
	}
}

func TestDuration(t *testing.T) {
	tests := []struct {
		name  string
		value string
		want  time.Duration
	}{
		{"empty uses default", "", 30 * time.Second},
		{"valid", "2m", 2 * time.Minute},
		{"invalid uses default", "soon", 30 * time.Second},
		{"negative uses default", "-1s", 30 * time.Second},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Duration(tt.value, 30*time.Second, "client_timeout"); got != tt.want {
				t.Errorf("Duration(%q) = %v, want %v", tt.value, got, tt.want)
			}
		})
	}
}

func TestGetUserAgent(t *testing.T) {
	if GetUserAgent() == "" {
		t.Error("Expected a non-empty user agent")
	}
}
