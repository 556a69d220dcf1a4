package config

import (
	"os"
	"strconv"
	"time"
)

type Config struct {
	Port       string
	DBUser     string
	DBPassword string
	DBHost     string
	DBPort     string
	DBName     string
	JWTSecret  string

	OpenAIKey   string
	OpenAIModel string

	MinIOEndpoint  string
	MinIOAccessKey string
	MinIOSecretKey string
	MinIOBucket    string

	// Extraction budgets. HeavyBudget bounds the whole heavy path,
	// LightBudget bounds only the fallback fetch.
	HeavyBudget time.Duration
	LightBudget time.Duration

	RenderJS        bool
	MergeRulesPath  string
	DefaultLanguage string
}

func LoadConfig() Config {
	return Config{
		Port:       getEnv("PORT", "8000"),
		DBUser:     getEnv("DB_USER", ""),
		DBPassword: getEnv("DB_PASSWORD", ""),
		DBHost:     getEnv("DB_HOST", ""),
		DBPort:     getEnv("DB_PORT", "5432"),
		DBName:     getEnv("DB_NAME", ""),
		JWTSecret:  getEnv("JWT_SECRET", ""),

		OpenAIKey:   getEnv("OPENAI_API_KEY", ""),
		OpenAIModel: getEnv("OPENAI_MODEL", "gpt-4o-mini"),

		MinIOEndpoint:  getEnv("MINIO_ENDPOINT", ""),
		MinIOAccessKey: getEnv("MINIO_ACCESS_KEY", ""),
		MinIOSecretKey: getEnv("MINIO_SECRET_KEY", ""),
		MinIOBucket:    getEnv("MINIO_BUCKET", "clips"),

		HeavyBudget: time.Duration(getEnvInt("HEAVY_BUDGET_MS", 6000)) * time.Millisecond,
		LightBudget: time.Duration(getEnvInt("LIGHT_BUDGET_MS", 3000)) * time.Millisecond,

		RenderJS:        getEnv("RENDER_JS", "") == "true",
		MergeRulesPath:  getEnv("MERGE_RULES_PATH", ""),
		DefaultLanguage: getEnv("DEFAULT_LANGUAGE", "KR"),
	}
}

func getEnv(key, fallback string) string {
	value := os.Getenv(key)
	if value != "" {
		return value
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	value := os.Getenv(key)
	if value == "" {
		return fallback
	}
	n, err := strconv.Atoi(value)
	if err != nil {
		return fallback
	}
	return n
}
