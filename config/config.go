package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config holds all application configuration in a structured way.
type Config struct {
	App    AppConfig
	Store  StoreConfig
	Ollama OllamaConfig
	Upload UploadConfig
	Paths  PathsConfig
}

type AppConfig struct {
	Version            string
	Port               string
	Debug              bool
	Environment        string
	CorsAllowedOrigins []string
}

// StoreConfig configures the Valkey session store. When Enabled is false the
// gateway falls back to the in-memory store (dev/test only, state is lost on
// restart).
type StoreConfig struct {
	Enabled        bool
	Address        string
	Password       string
	DB             int
	ConnectTimeout time.Duration
	SessionTTL     time.Duration
}

type OllamaConfig struct {
	BaseURL         string
	Model           string
	GenerateTimeout time.Duration
	HealthTimeout   time.Duration
}

type UploadConfig struct {
	MaxFileSize int64
}

type PathsConfig struct {
	Storages string
}

// Global provides access to the loaded configuration globally.
var Global *Config

// LoadConfig loads configuration from a .env file (if present) and
// environment variables, falling back to defaults.
func LoadConfig() (*Config, error) {
	_ = godotenv.Load()

	corsOrigins := []string{"http://localhost:3000", "http://localhost:5173"}
	if v := os.Getenv("APP_CORS_ALLOWED_ORIGINS"); v != "" {
		corsOrigins = strings.Split(v, ",")
	}

	cfg := &Config{
		App: AppConfig{
			Version:            "v1.2.0",
			Port:               getEnv("APP_PORT", "8000"),
			Debug:              getEnvBool("APP_DEBUG", false),
			Environment:        getEnv("APP_ENV", "development"),
			CorsAllowedOrigins: corsOrigins,
		},
		Store: StoreConfig{
			Enabled:        getEnvBool("STORE_ENABLED", true),
			Address:        getEnv("STORE_ADDRESS", "localhost:6379"),
			Password:       os.Getenv("STORE_PASSWORD"),
			DB:             getEnvInt("STORE_DB", 0),
			ConnectTimeout: getEnvDuration("STORE_CONNECT_TIMEOUT", 5*time.Second),
			SessionTTL:     getEnvDuration("SESSION_TTL", 24*time.Hour),
		},
		Ollama: OllamaConfig{
			BaseURL:         getEnv("OLLAMA_BASE_URL", "http://localhost:11434"),
			Model:           getEnv("OLLAMA_MODEL", "llama3"),
			GenerateTimeout: getEnvDuration("OLLAMA_GENERATE_TIMEOUT", 120*time.Second),
			HealthTimeout:   getEnvDuration("OLLAMA_HEALTH_TIMEOUT", 5*time.Second),
		},
		Upload: UploadConfig{
			MaxFileSize: getEnvInt64("UPLOAD_MAX_FILE_SIZE", 20*1024*1024),
		},
		Paths: PathsConfig{
			Storages: getEnv("APP_STORAGES_PATH", "storages"),
		},
	}

	Global = cfg
	return cfg, nil
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getEnvBool(key string, fallback bool) bool {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	switch strings.ToLower(v) {
	case "true", "1", "on", "yes":
		return true
	case "false", "0", "off", "no":
		return false
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}

func getEnvInt64(key string, fallback int64) int64 {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.ParseInt(v, 10, 64); err == nil {
			return n
		}
	}
	return fallback
}

func getEnvDuration(key string, fallback time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return fallback
}
