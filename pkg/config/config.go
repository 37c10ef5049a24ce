package config

import (
	"log"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

type Config struct {
	Server   ServerConfig
	Database DatabaseConfig
	Hub      HubConfig
	Search   SearchConfig
}

type ServerConfig struct {
	Port         string
	Mode         string
	ReadTimeout  int
	WriteTimeout int
}

type DatabaseConfig struct {
	Path string
}

// HubConfig holds settings for talking to the model hub.
type HubConfig struct {
	BaseURL   string
	UserAgent string
}

// SearchConfig holds settings for the email discovery chain.
type SearchConfig struct {
	HTTPTimeoutSeconds int
	BrowserUseAPIKey   string
	BrowserUseBaseURL  string
	PlaceholderDomains []string
	StatusTTLMinutes   int
}

var AppConfig *Config

// Load loads configuration from .env file and environment variables
func Load() error {
	// Load .env file if it exists
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment variables")
	}

	AppConfig = &Config{
		Server: ServerConfig{
			Port:         getEnv("PORT", "8080"),
			Mode:         getEnv("GIN_MODE", "release"),
			ReadTimeout:  getEnvAsInt("READ_TIMEOUT", 15),
			WriteTimeout: getEnvAsInt("WRITE_TIMEOUT", 15),
		},
		Database: DatabaseConfig{
			Path: getEnv("DB_PATH", "./hfscout.db"),
		},
		Hub: HubConfig{
			BaseURL:   getEnv("HF_BASE_URL", "https://huggingface.co"),
			UserAgent: getEnv("USER_AGENT", "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/91.0.4472.124 Safari/537.36"),
		},
		Search: SearchConfig{
			HTTPTimeoutSeconds: getEnvAsInt("HTTP_TIMEOUT_SECONDS", 20),
			BrowserUseAPIKey:   getEnv("BROWSERUSE_API_KEY", ""),
			BrowserUseBaseURL:  getEnv("BROWSERUSE_BASE_URL", "https://browser-use.com/api"),
			PlaceholderDomains: getEnvAsList("PLACEHOLDER_DOMAINS", "example.com,test.com,domain.com,email.com,sample.com,placeholder.com"),
			StatusTTLMinutes:   getEnvAsInt("STATUS_TTL_MINUTES", 60),
		},
	}

	return nil
}

// getEnv gets an environment variable or returns a default value
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvAsInt gets an environment variable as integer or returns a default value
func getEnvAsInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

// getEnvAsList gets a comma-separated environment variable as a string slice
func getEnvAsList(key, defaultValue string) []string {
	value := getEnv(key, defaultValue)
	parts := strings.Split(value, ",")
	result := make([]string, 0, len(parts))
	for _, p := range parts {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			result = append(result, trimmed)
		}
	}
	return result
}
