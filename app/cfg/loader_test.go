package cfg

import (
	"testing"
	"time"
)

func TestGetVersion(t *testing.T) {
	if GetVersion() == "" {
		t.Error("GetVersion should never return empty string")
	}

	version := GetVersion()
	if version != "dev" && version != "unknown" {
		// This is fine, version could be set at build time
		t.Logf("Version: %s", version)
	}
}

func TestLoadDefaults(t *testing.T) {
	cfg, err := load([]string{})
	if err != nil {
		t.Fatalf("Expected no error, got: %v", err)
	}

	if cfg.FetchTimeout != 10*time.Second {
		t.Errorf("Expected fetch timeout 10s, got %v", cfg.FetchTimeout)
	}
	if cfg.MaxItemsPerFeed != 20 {
		t.Errorf("Expected max items per feed 20, got %d", cfg.MaxItemsPerFeed)
	}
	if cfg.MinKeywordMatches != 2 {
		t.Errorf("Expected min keyword matches 2, got %d", cfg.MinKeywordMatches)
	}
	if cfg.StrongKeywordLength != 10 {
		t.Errorf("Expected strong keyword length 10, got %d", cfg.StrongKeywordLength)
	}
	if cfg.MaxCategories != 3 {
		t.Errorf("Expected max categories 3, got %d", cfg.MaxCategories)
	}
	if cfg.BreakingWindow != 15*time.Minute {
		t.Errorf("Expected breaking window 15m, got %v", cfg.BreakingWindow)
	}
	if cfg.StreamHeartbeat != 15*time.Second {
		t.Errorf("Expected stream heartbeat 15s, got %v", cfg.StreamHeartbeat)
	}
	if cfg.StreamInterval != 30*time.Second {
		t.Errorf("Expected stream interval 30s, got %v", cfg.StreamInterval)
	}
	if cfg.StreamLifetime != 5*time.Minute {
		t.Errorf("Expected stream lifetime 5m, got %v", cfg.StreamLifetime)
	}
	if cfg.Version == "" {
		t.Error("Expected version to be set")
	}
}

func TestLoadFlags(t *testing.T) {
	cfg, err := load([]string{
		"--port", "9090",
		"--breaking-window", "30",
		"--max-categories", "2",
		"--gemini-model", "gemini-pro",
	})
	if err != nil {
		t.Fatalf("Expected no error, got: %v", err)
	}

	if cfg.Port != "9090" {
		t.Errorf("Expected port '9090', got '%s'", cfg.Port)
	}
	if cfg.BreakingWindow != 30*time.Minute {
		t.Errorf("Expected breaking window 30m, got %v", cfg.BreakingWindow)
	}
	if cfg.MaxCategories != 2 {
		t.Errorf("Expected max categories 2, got %d", cfg.MaxCategories)
	}
	if cfg.GeminiModel != "gemini-pro" {
		t.Errorf("Expected gemini model 'gemini-pro', got '%s'", cfg.GeminiModel)
	}
}

func TestLoadRejectsInvalidValues(t *testing.T) {
	tests := [][]string{
		{"--max-categories", "0"},
		{"--fetch-timeout", "0"},
		{"--min-keyword-matches", "0"},
		{"--strong-keyword-length", "0"},
		{"--strong-keyword-length=-5"},
		{"--worker-count=-1"},
	}

	for _, args := range tests {
		if _, err := load(args); err == nil {
			t.Errorf("Expected error for args %v", args)
		}
	}
}

func TestLoadHelp(t *testing.T) {
	cfg, err := load([]string{"--help"})
	if err != nil {
		t.Fatalf("Expected no error for help, got: %v", err)
	}
	if cfg != nil {
		t.Error("Expected nil configuration when help is requested")
	}
}
