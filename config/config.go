package config

import (
	"fmt"
	"log"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

// Config holds every runtime parameter of the service. It is resolved once at
// process start and treated as immutable afterwards; there are no per-request
// overrides.
type Config struct {
	Server   ServerConfig
	Database DatabaseConfig
	Auth     AuthConfig
	Chroma   ChromaConfig
	Ollama   OllamaConfig
	Cohere   CohereConfig
	Gemini   GeminiConfig
	Pipeline PipelineConfig
	Ingest   IngestConfig
}

type ServerConfig struct {
	Port string
}

type DatabaseConfig struct {
	URL string
}

type AuthConfig struct {
	SecretKey            string
	AccessTokenExpireMin int
}

type ChromaConfig struct {
	URL        string
	Collection string
}

type OllamaConfig struct {
	URL string
}

type CohereConfig struct {
	APIKey string
}

type GeminiConfig struct {
	APIKey string
}

// PipelineConfig names the models and tuning knobs of the RAG funnel.
type PipelineConfig struct {
	ExpansionModel string
	ExpansionTemp  float64

	EmbeddingModel string
	RetrievalK     int

	RerankModel string
	RerankTopN  int

	GeneratorModel string
	GeneratorTemp  float64
}

type IngestConfig struct {
	DocumentPath string
	SourceLabel  string
}

func Load() (*Config, error) {
	// Load .env file if it exists (ignore error in production)
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment variables")
	}

	cfg := &Config{
		Server: ServerConfig{
			Port: getEnv("PORT", "8080"),
		},
		Database: DatabaseConfig{
			URL: getEnv("DATABASE_URL", ""),
		},
		Auth: AuthConfig{
			SecretKey:            getEnv("SECRET_KEY", ""),
			AccessTokenExpireMin: getEnvAsInt("ACCESS_TOKEN_EXPIRE_MINUTES", 30),
		},
		Chroma: ChromaConfig{
			URL:        getEnv("CHROMA_URL", "http://localhost:8000"),
			Collection: getEnv("CHROMA_COLLECTION", "medical-protocols"),
		},
		Ollama: OllamaConfig{
			URL: getEnv("OLLAMA_URL", "http://localhost:11434"),
		},
		Cohere: CohereConfig{
			APIKey: getEnv("COHERE_API_KEY", ""),
		},
		Gemini: GeminiConfig{
			APIKey: getEnv("GEMINI_API_KEY", ""),
		},
		Pipeline: PipelineConfig{
			ExpansionModel: getEnv("EXPANSION_MODEL", "gemini-2.5-flash-lite"),
			ExpansionTemp:  getEnvAsFloat("EXPANSION_TEMP", 0.2),
			EmbeddingModel: getEnv("EMBEDDING_MODEL", "bge-m3"),
			RetrievalK:     getEnvAsInt("RETRIEVAL_K", 5),
			RerankModel:    getEnv("RERANK_MODEL", "rerank-multilingual-v3.0"),
			RerankTopN:     getEnvAsInt("RERANK_TOP_N", 3),
			GeneratorModel: getEnv("GENERATOR_MODEL", "gemini-flash-latest"),
			GeneratorTemp:  getEnvAsFloat("GENERATOR_TEMP", 0.0),
		},
		Ingest: IngestConfig{
			DocumentPath: getEnv("DOCUMENT_PATH", "data/guide_medical.pdf"),
			SourceLabel:  getEnv("DOCUMENT_SOURCE", "guide_medical.pdf"),
		},
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

func (c *Config) Validate() error {
	if c.Server.Port == "" {
		return fmt.Errorf("PORT is required")
	}
	if c.Auth.SecretKey == "" {
		return fmt.Errorf("SECRET_KEY is required")
	}
	if c.Pipeline.RetrievalK <= 0 {
		return fmt.Errorf("RETRIEVAL_K must be positive")
	}
	if c.Pipeline.RerankTopN <= 0 {
		return fmt.Errorf("RERANK_TOP_N must be positive")
	}
	return nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}

	value, err := strconv.Atoi(valueStr)
	if err != nil {
		log.Printf("Warning: Invalid integer for %s, using default: %d", key, defaultValue)
		return defaultValue
	}

	return value
}

func getEnvAsFloat(key string, defaultValue float64) float64 {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}

	value, err := strconv.ParseFloat(valueStr, 64)
	if err != nil {
		log.Printf("Warning: Invalid float for %s, using default: %g", key, defaultValue)
		return defaultValue
	}

	return value
}
