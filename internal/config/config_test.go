package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()
	if cfg.Provider != ProviderOpenAI {
		t.Errorf("expected default provider %q, got %q", ProviderOpenAI, cfg.Provider)
	}
	if cfg.ChunkSize != 1000 {
		t.Errorf("expected default chunk_size 1000, got %d", cfg.ChunkSize)
	}
	if cfg.ChunkOverlap != 100 {
		t.Errorf("expected default chunk_overlap 100, got %d", cfg.ChunkOverlap)
	}
	if cfg.RetrievalK != 4 {
		t.Errorf("expected default retrieval_k 4, got %d", cfg.RetrievalK)
	}
	if cfg.Port != 8420 {
		t.Errorf("expected default port 8420, got %d", cfg.Port)
	}
}

func TestSaveAndLoad(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "test.docchat.yml")

	original := DefaultConfig()
	original.Provider = ProviderOllama
	original.Model = "llama3"
	original.ChunkSize = 500
	original.RetrievalK = 6

	if err := original.Save(path); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	loaded, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if loaded.Provider != original.Provider {
		t.Errorf("provider: got %q, want %q", loaded.Provider, original.Provider)
	}
	if loaded.Model != original.Model {
		t.Errorf("model: got %q, want %q", loaded.Model, original.Model)
	}
	if loaded.ChunkSize != original.ChunkSize {
		t.Errorf("chunk_size: got %d, want %d", loaded.ChunkSize, original.ChunkSize)
	}
	if loaded.RetrievalK != original.RetrievalK {
		t.Errorf("retrieval_k: got %d, want %d", loaded.RetrievalK, original.RetrievalK)
	}
}

func TestLoadMissingFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "nonexistent.yml")

	// Loading a missing file should return defaults, not an error.
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load should not fail for missing file: %v", err)
	}
	if cfg.Provider != ProviderOpenAI {
		t.Errorf("expected default provider, got %q", cfg.Provider)
	}
}

func TestLoadEnvOverride(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "test.yml")

	cfg := DefaultConfig()
	if err := cfg.Save(path); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	os.Setenv("DOCCHAT_PROVIDER", "ollama")
	defer os.Unsetenv("DOCCHAT_PROVIDER")

	loaded, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if loaded.Provider != ProviderOllama {
		t.Errorf("env override failed: got %q, want %q", loaded.Provider, ProviderOllama)
	}
}

func TestValidateValid(t *testing.T) {
	cfg := DefaultConfig()
	if err := cfg.Validate(); err != nil {
		t.Errorf("DefaultConfig should be valid, got: %v", err)
	}
}

func TestValidateInvalidProvider(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Provider = "invalid"
	if err := cfg.Validate(); err == nil {
		t.Error("expected validation error for invalid provider")
	}
}

func TestValidateEmptyModel(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Model = ""
	if err := cfg.Validate(); err == nil {
		t.Error("expected validation error for empty model")
	}
}

func TestValidateOverlapBounds(t *testing.T) {
	cfg := DefaultConfig()
	cfg.ChunkOverlap = cfg.ChunkSize
	if err := cfg.Validate(); err == nil {
		t.Error("expected validation error for overlap == size")
	}

	cfg = DefaultConfig()
	cfg.ChunkOverlap = -1
	if err := cfg.Validate(); err == nil {
		t.Error("expected validation error for negative overlap")
	}
}

func TestValidateRetrievalK(t *testing.T) {
	cfg := DefaultConfig()
	cfg.RetrievalK = 0
	if err := cfg.Validate(); err == nil {
		t.Error("expected validation error for retrieval_k < 1")
	}
}

func TestValidatePort(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Port = 0
	if err := cfg.Validate(); err == nil {
		t.Error("expected validation error for port 0")
	}
}

func TestGetPreset(t *testing.T) {
	p := GetPreset(ProviderOllama)
	if p.Model != "llama3" {
		t.Errorf("expected llama3, got %q", p.Model)
	}
	if p.EmbeddingDims != 768 {
		t.Errorf("expected 768 dims for ollama embeddings, got %d", p.EmbeddingDims)
	}

	// Unknown provider falls back.
	p = GetPreset("unknown")
	if p.Model != "gpt-4o-mini" {
		t.Errorf("expected fallback to gpt-4o-mini, got %q", p.Model)
	}
}

func TestAPIKeyEnvVar(t *testing.T) {
	tests := []struct {
		provider ProviderType
		want     string
	}{
		{ProviderOpenAI, "OPENAI_API_KEY"},
		{ProviderOpenRouter, "OPENROUTER_API_KEY"},
		{ProviderOllama, ""},
	}
	for _, tt := range tests {
		got := APIKeyEnvVar(tt.provider)
		if got != tt.want {
			t.Errorf("APIKeyEnvVar(%q) = %q, want %q", tt.provider, got, tt.want)
		}
	}
}
