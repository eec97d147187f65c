package config

import (
	"testing"
)

func TestLoadDefaults(t *testing.T) {
	for _, key := range []string{
		"SERVER_HOST", "SERVER_PORT", "REDIS_ADDR",
		"SPEECH_CACHE_DIR", "SPEECH_PROVIDER_TIMEOUT",
	} {
		t.Setenv(key, "")
	}

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	if got := cfg.Addr(); got != "0.0.0.0:8080" {
		t.Errorf("Addr() = %q, want 0.0.0.0:8080", got)
	}
	if cfg.Redis.Addr != "localhost:6379" {
		t.Errorf("Redis.Addr = %q", cfg.Redis.Addr)
	}
	if cfg.Speech.CacheDir != "audio-cache" {
		t.Errorf("Speech.CacheDir = %q", cfg.Speech.CacheDir)
	}
	if cfg.Speech.ProviderTimeoutSecs != 30 {
		t.Errorf("Speech.ProviderTimeoutSecs = %d", cfg.Speech.ProviderTimeoutSecs)
	}
	if cfg.Speech.TempDir == "" {
		t.Error("Speech.TempDir should default to the OS temp dir")
	}
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("SERVER_PORT", "9090")
	t.Setenv("SPEECH_CACHE_DIR", "/var/lib/repaso/audio")
	t.Setenv("SPEECH_PROVIDER_TIMEOUT", "5")
	t.Setenv("GOOGLE_TTS_API_KEY", "test-key")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	if cfg.Server.Port != 9090 {
		t.Errorf("Server.Port = %d, want 9090", cfg.Server.Port)
	}
	if cfg.Speech.CacheDir != "/var/lib/repaso/audio" {
		t.Errorf("Speech.CacheDir = %q", cfg.Speech.CacheDir)
	}
	if cfg.Speech.ProviderTimeoutSecs != 5 {
		t.Errorf("Speech.ProviderTimeoutSecs = %d", cfg.Speech.ProviderTimeoutSecs)
	}
	if cfg.Speech.GoogleAPIKey != "test-key" {
		t.Errorf("Speech.GoogleAPIKey = %q", cfg.Speech.GoogleAPIKey)
	}
}

func TestLoadRejectsBadInt(t *testing.T) {
	t.Setenv("SERVER_PORT", "not-a-port")

	if _, err := Load(); err == nil {
		t.Fatal("expected error for non-numeric SERVER_PORT")
	}
}

func TestValidate(t *testing.T) {
	cfg := &Config{}
	if err := cfg.Validate(); err == nil {
		t.Fatal("expected error when DATABASE_URL is missing")
	}

	cfg.Database.URL = "postgres://localhost/repaso"
	if err := cfg.Validate(); err != nil {
		t.Fatalf("Validate: %v", err)
	}
}
