package config

import "testing"

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	if cfg.RAG.ChunkSize != 1500 {
		t.Errorf("ChunkSize = %d, want 1500", cfg.RAG.ChunkSize)
	}
	if cfg.RAG.ChunkOverlap != 200 {
		t.Errorf("ChunkOverlap = %d, want 200", cfg.RAG.ChunkOverlap)
	}
	if cfg.RAG.MaxContextChunks != 6 {
		t.Errorf("MaxContextChunks = %d, want 6", cfg.RAG.MaxContextChunks)
	}
	if cfg.RAG.EmbeddingModel != "text-embedding-3-large" {
		t.Errorf("EmbeddingModel = %q", cfg.RAG.EmbeddingModel)
	}
	if cfg.RAG.SystemPrompt == "" {
		t.Error("SystemPrompt empty")
	}
	if cfg.Storage.Bucket != "legal-assistant-uploads" {
		t.Errorf("Bucket = %q", cfg.Storage.Bucket)
	}
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("CHUNK_SIZE", "800")
	t.Setenv("MAX_CONTEXT_CHUNKS", "10")
	t.Setenv("SERVER_PORT", "9000")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.RAG.ChunkSize != 800 {
		t.Errorf("ChunkSize = %d, want 800", cfg.RAG.ChunkSize)
	}
	if cfg.RAG.MaxContextChunks != 10 {
		t.Errorf("MaxContextChunks = %d, want 10", cfg.RAG.MaxContextChunks)
	}
	if got := cfg.Addr(); got != "0.0.0.0:9000" {
		t.Errorf("Addr() = %q", got)
	}
}

func TestLoadRejectsBadInt(t *testing.T) {
	t.Setenv("CHUNK_SIZE", "lots")
	if _, err := Load(); err == nil {
		t.Fatal("expected error for non-numeric CHUNK_SIZE")
	}
}

func TestValidateReportsMissing(t *testing.T) {
	cfg := &Config{}
	err := cfg.Validate()
	if err == nil {
		t.Fatal("expected error for empty config")
	}
}
