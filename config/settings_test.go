package config

import (
	"testing"
)

func TestNewValidProvider(t *testing.T) {
	settings, err := New("openai")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if settings.LLM.Provider != "openai" {
		t.Errorf("expected provider 'openai', got %q", settings.LLM.Provider)
	}
}

func TestNewWithAlias(t *testing.T) {
	settings, err := New("claude")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if settings.LLM.Provider != "anthropic" {
		t.Errorf("expected provider 'anthropic' (normalized from 'claude'), got %q", settings.LLM.Provider)
	}
}

func TestNewUnknownProvider(t *testing.T) {
	_, err := New("unknown_provider")
	if err == nil {
		t.Error("expected error for unknown provider")
	}
}

func TestNewEmptyProviderDefaults(t *testing.T) {
	t.Setenv("LLM_PROVIDER", "")

	settings, err := New("")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if settings.LLM.Provider != "openai" {
		t.Errorf("expected default provider 'openai', got %q", settings.LLM.Provider)
	}
}

func TestNewEmptyProviderFromEnv(t *testing.T) {
	t.Setenv("LLM_PROVIDER", "gemini")

	settings, err := New("")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if settings.LLM.Provider != "gemini" {
		t.Errorf("expected provider 'gemini' from LLM_PROVIDER, got %q", settings.LLM.Provider)
	}
}

func TestNewDefaults(t *testing.T) {
	t.Setenv("LLM_MAX_TOKENS", "")
	t.Setenv("LLM_TEMPERATURE", "")
	t.Setenv("WORKFLOW_HISTORY_WINDOW", "")
	t.Setenv("PORT", "")
	t.Setenv("CORS_ORIGINS", "")

	settings, err := New("openai")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if settings.LLM.MaxTokens != 4096 {
		t.Errorf("expected default max tokens 4096, got %d", settings.LLM.MaxTokens)
	}
	if settings.LLM.Temperature != 0.7 {
		t.Errorf("expected default temperature 0.7, got %f", settings.LLM.Temperature)
	}
	if settings.Workflow.HistoryWindow != 12 {
		t.Errorf("expected default history window 12, got %d", settings.Workflow.HistoryWindow)
	}
	if settings.Server.Port != "8000" {
		t.Errorf("expected default port '8000', got %q", settings.Server.Port)
	}
	if len(settings.Server.CORSOrigins) != 1 || settings.Server.CORSOrigins[0] != "*" {
		t.Errorf("expected default CORS origins [*], got %v", settings.Server.CORSOrigins)
	}
}

func TestNewModelFromEnv(t *testing.T) {
	t.Setenv("ANTHROPIC_MODEL", "claude-haiku-4-20250514")

	settings, err := New("anthropic")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if settings.LLM.Model != "claude-haiku-4-20250514" {
		t.Errorf("expected model from ANTHROPIC_MODEL, got %q", settings.LLM.Model)
	}
}

func TestNewModelUnsetMeansNoOverride(t *testing.T) {
	t.Setenv("OPENAI_MODEL", "")

	settings, err := New("openai")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if settings.LLM.Model != "" {
		t.Errorf("expected empty model (no override), got %q", settings.LLM.Model)
	}
}

func TestNewTrimsCORSOrigins(t *testing.T) {
	t.Setenv("CORS_ORIGINS", "https://a.example.com, https://b.example.com ,")

	settings, err := New("openai")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	want := []string{"https://a.example.com", "https://b.example.com"}
	if len(settings.Server.CORSOrigins) != len(want) {
		t.Fatalf("expected %d origins, got %v", len(want), settings.Server.CORSOrigins)
	}
	for i := range want {
		if settings.Server.CORSOrigins[i] != want[i] {
			t.Errorf("origin %d: expected %q, got %q", i, want[i], settings.Server.CORSOrigins[i])
		}
	}
}

func TestNewWithEnvOverrides(t *testing.T) {
	t.Setenv("LLM_MAX_TOKENS", "2048")
	t.Setenv("WORKFLOW_HISTORY_WINDOW", "6")
	t.Setenv("PORT", "9090")

	settings, err := New("openai")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if settings.LLM.MaxTokens != 2048 {
		t.Errorf("expected max tokens 2048, got %d", settings.LLM.MaxTokens)
	}
	if settings.Workflow.HistoryWindow != 6 {
		t.Errorf("expected history window 6, got %d", settings.Workflow.HistoryWindow)
	}
	if settings.Server.Port != "9090" {
		t.Errorf("expected port '9090', got %q", settings.Server.Port)
	}
}

func TestNewWithInvalidEnvVar(t *testing.T) {
	t.Setenv("LLM_MAX_TOKENS", "not-a-number")

	_, err := New("openai")
	if err == nil {
		t.Error("expected error for invalid LLM_MAX_TOKENS")
	}
}

func TestAPIKeyForValidProvider(t *testing.T) {
	t.Setenv("OPENAI_API_KEY", "test-key")

	key, err := APIKeyFor("openai")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if key != "test-key" {
		t.Errorf("expected 'test-key', got %q", key)
	}
}

func TestAPIKeyForMissing(t *testing.T) {
	t.Setenv("OPENAI_API_KEY", "")

	_, err := APIKeyFor("openai")
	if err == nil {
		t.Error("expected error for missing API key")
	}
}

func TestAPIKeyForUnknownProvider(t *testing.T) {
	_, err := APIKeyFor("unknown")
	if err == nil {
		t.Error("expected error for unknown provider")
	}
}

func TestModelFor(t *testing.T) {
	t.Setenv("OPENAI_MODEL", "")

	model, err := ModelFor("openai")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if model != "gpt-5" {
		t.Errorf("expected default model 'gpt-5', got %q", model)
	}
}

func TestModelForEnvOverride(t *testing.T) {
	t.Setenv("GEMINI_MODEL", "gemini-2.5-pro")

	model, err := ModelFor("gemini")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if model != "gemini-2.5-pro" {
		t.Errorf("expected 'gemini-2.5-pro', got %q", model)
	}
}

func TestSupportedProviders(t *testing.T) {
	supported := SupportedProviders()
	if len(supported) != 4 {
		t.Errorf("expected 4 providers, got %d", len(supported))
	}
}
