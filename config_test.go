package main

import (
	"testing"
)

// snapshotConfig saves the mutable configuration and restores it at cleanup
func snapshotConfig(t *testing.T) {
	origPrimaryKey, origPrimaryURL, origPrimaryModel := PrimaryAPIKey, PrimaryAPIURL, PrimaryModel
	origFallbackKey, origFallbackURL, origFallbackModel := FallbackAPIKey, FallbackAPIURL, FallbackModel
	origPanel, origOrigins := MaxPanelSize, CORSAllowedOrigins

	t.Cleanup(func() {
		PrimaryAPIKey, PrimaryAPIURL, PrimaryModel = origPrimaryKey, origPrimaryURL, origPrimaryModel
		FallbackAPIKey, FallbackAPIURL, FallbackModel = origFallbackKey, origFallbackURL, origFallbackModel
		MaxPanelSize, CORSAllowedOrigins = origPanel, origOrigins
	})
}

func TestLoadConfigReadsKeys(t *testing.T) {
	snapshotConfig(t)
	t.Setenv("PRIMARY_API_KEY", "test-primary")
	t.Setenv("FALLBACK_API_KEY", "test-fallback")

	LoadConfig()

	if PrimaryAPIKey != "test-primary" {
		t.Errorf("primary key: got %q", PrimaryAPIKey)
	}
	if FallbackAPIKey != "test-fallback" {
		t.Errorf("fallback key: got %q", FallbackAPIKey)
	}
}

func TestLoadConfigKeyAliases(t *testing.T) {
	snapshotConfig(t)
	t.Setenv("PRIMARY_API_KEY", "")
	t.Setenv("CEREBRAS_API_KEY", "alias-primary")
	t.Setenv("FALLBACK_API_KEY", "")
	t.Setenv("OPENROUTER_API_KEY", "alias-fallback")

	LoadConfig()

	if PrimaryAPIKey != "alias-primary" {
		t.Errorf("primary key via alias: got %q", PrimaryAPIKey)
	}
	if FallbackAPIKey != "alias-fallback" {
		t.Errorf("fallback key via alias: got %q", FallbackAPIKey)
	}
}

func TestLoadConfigOverrides(t *testing.T) {
	snapshotConfig(t)
	t.Setenv("PRIMARY_API_KEY", "test-key")
	t.Setenv("PRIMARY_API_URL", "http://localhost:9999/v1/chat/completions")
	t.Setenv("PRIMARY_MODEL", "test-model")
	t.Setenv("MAX_PANEL_SIZE", "3")

	LoadConfig()

	if PrimaryAPIURL != "http://localhost:9999/v1/chat/completions" {
		t.Errorf("primary url: got %q", PrimaryAPIURL)
	}
	if PrimaryModel != "test-model" {
		t.Errorf("primary model: got %q", PrimaryModel)
	}
	if MaxPanelSize != 3 {
		t.Errorf("panel size: got %d, want 3", MaxPanelSize)
	}
}

func TestLoadConfigIgnoresInvalidPanelSize(t *testing.T) {
	snapshotConfig(t)
	t.Setenv("PRIMARY_API_KEY", "test-key")
	t.Setenv("MAX_PANEL_SIZE", "not-a-number")

	before := MaxPanelSize
	LoadConfig()

	if MaxPanelSize != before {
		t.Errorf("panel size changed on invalid input: got %d, want %d", MaxPanelSize, before)
	}
}

func TestDefaultsAreSane(t *testing.T) {
	helper := NewTestHelper(t)

	helper.AssertEqual(MaxPanelSize > 0, true, "panel size positive")
	helper.AssertEqual(TranscriptContextWindow > 0, true, "context window positive")
	helper.AssertEqual(ModelCallTimeout > 0, true, "model timeout positive")
	helper.AssertEqual(MaxRequestBodySize, int64(1<<20), "request body cap")
}
