package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
)

type Config struct {
	Server   ServerConfig
	Database DatabaseConfig
	Redis    RedisConfig
	Storage  StorageConfig
	LLM      LLMConfig
	RAG      RAGConfig
}

type ServerConfig struct {
	Host string
	Port int
}

type DatabaseConfig struct {
	URL            string
	MaxConns       int
	MinConns       int
	MigrationsPath string
}

type RedisConfig struct {
	Addr     string
	Password string
	DB       int
}

type StorageConfig struct {
	SupabaseURL string
	ServiceKey  string
	Bucket      string
}

type LLMConfig struct {
	OpenAIKey       string
	OpenAIBaseURL   string
	AnthropicKey    string
	OllamaURL       string
	DefaultProvider string
	ChatModel       string
}

// RAGConfig carries the retrieval pipeline knobs. Chunk sizes are in
// characters, not tokens.
type RAGConfig struct {
	ChunkSize        int
	ChunkOverlap     int
	MaxContextChunks int
	EmbeddingModel   string
	EmbeddingDims    int
	SystemPrompt     string
}

const defaultSystemPrompt = `You are a legal assistant helping a lawyer work through a case. ` +
	`Base your answers on the case materials provided in this conversation and on the chat history. ` +
	`When the materials do not cover the question, say so explicitly instead of speculating. ` +
	`Be precise with names, dates, amounts and citations, and answer in the language the user writes in.`

func Load() (*Config, error) {
	port, err := getEnvInt("SERVER_PORT", 8080)
	if err != nil {
		return nil, fmt.Errorf("invalid SERVER_PORT: %w", err)
	}

	maxConns, err := getEnvInt("DB_MAX_CONNS", 20)
	if err != nil {
		return nil, fmt.Errorf("invalid DB_MAX_CONNS: %w", err)
	}

	minConns, err := getEnvInt("DB_MIN_CONNS", 5)
	if err != nil {
		return nil, fmt.Errorf("invalid DB_MIN_CONNS: %w", err)
	}

	redisDB, err := getEnvInt("REDIS_DB", 0)
	if err != nil {
		return nil, fmt.Errorf("invalid REDIS_DB: %w", err)
	}

	chunkSize, err := getEnvInt("CHUNK_SIZE", 1500)
	if err != nil {
		return nil, fmt.Errorf("invalid CHUNK_SIZE: %w", err)
	}

	chunkOverlap, err := getEnvInt("CHUNK_OVERLAP", 200)
	if err != nil {
		return nil, fmt.Errorf("invalid CHUNK_OVERLAP: %w", err)
	}

	maxContextChunks, err := getEnvInt("MAX_CONTEXT_CHUNKS", 6)
	if err != nil {
		return nil, fmt.Errorf("invalid MAX_CONTEXT_CHUNKS: %w", err)
	}

	embeddingDims, err := getEnvInt("OPENAI_EMBEDDINGS_DIMS", 1536)
	if err != nil {
		return nil, fmt.Errorf("invalid OPENAI_EMBEDDINGS_DIMS: %w", err)
	}

	cfg := &Config{
		Server: ServerConfig{
			Host: getEnv("SERVER_HOST", "0.0.0.0"),
			Port: port,
		},
		Database: DatabaseConfig{
			URL:            getEnv("DATABASE_URL", ""),
			MaxConns:       maxConns,
			MinConns:       minConns,
			MigrationsPath: getEnv("MIGRATIONS_PATH", "migrations"),
		},
		Redis: RedisConfig{
			Addr:     getEnv("REDIS_ADDR", "localhost:6379"),
			Password: getEnv("REDIS_PASSWORD", ""),
			DB:       redisDB,
		},
		Storage: StorageConfig{
			SupabaseURL: getEnv("SUPABASE_URL", ""),
			ServiceKey:  getEnv("SUPABASE_SERVICE_KEY", ""),
			Bucket:      getEnv("STORAGE_BUCKET", "legal-assistant-uploads"),
		},
		LLM: LLMConfig{
			OpenAIKey:       getEnv("OPENAI_API_KEY", ""),
			OpenAIBaseURL:   getEnv("OPENAI_API_BASE", ""),
			AnthropicKey:    getEnv("ANTHROPIC_API_KEY", ""),
			OllamaURL:       getEnv("OLLAMA_URL", ""),
			DefaultProvider: getEnv("LLM_DEFAULT_PROVIDER", "openai"),
			ChatModel:       getEnv("LLM_CHAT_MODEL", "gpt-4o-mini"),
		},
		RAG: RAGConfig{
			ChunkSize:        chunkSize,
			ChunkOverlap:     chunkOverlap,
			MaxContextChunks: maxContextChunks,
			EmbeddingModel:   getEnv("OPENAI_EMBEDDINGS_MODEL", "text-embedding-3-large"),
			EmbeddingDims:    embeddingDims,
			SystemPrompt:     getEnv("SYSTEM_PROMPT", defaultSystemPrompt),
		},
	}

	return cfg, nil
}

func (c *Config) Addr() string {
	return fmt.Sprintf("%s:%d", c.Server.Host, c.Server.Port)
}

func (c *Config) Validate() error {
	var missing []string
	if c.Database.URL == "" {
		missing = append(missing, "DATABASE_URL")
	}
	if c.Storage.SupabaseURL == "" {
		missing = append(missing, "SUPABASE_URL")
	}
	if c.Storage.ServiceKey == "" {
		missing = append(missing, "SUPABASE_SERVICE_KEY")
	}
	if c.LLM.OpenAIKey == "" && c.LLM.OllamaURL == "" {
		missing = append(missing, "OPENAI_API_KEY")
	}
	if len(missing) > 0 {
		return fmt.Errorf("missing required env vars: %s", strings.Join(missing, ", "))
	}
	return nil
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getEnvInt(key string, fallback int) (int, error) {
	v := os.Getenv(key)
	if v == "" {
		return fallback, nil
	}
	return strconv.Atoi(v)
}
