package config

import (
	"log"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

// Config holds application configuration
type Config struct {
	Port      string
	JWTKey    string
	SaltRound int

	GoogleApiKey       string
	ProviderTimeoutSec int

	EmbedApiURL string // Embedding encoder service base URL (optional)
	EmbedModel  string // Sentence encoder model name, a deployment parameter

	CuisineTaxonomy []string
	CuisineTopK     int
}

// AppConfig is a global variable to access configuration
var AppConfig *Config

// defaultCuisineTaxonomy is the deployed cuisine label list. Override with
// the CUISINE_TAXONOMY env var (comma separated) to roll a new version.
var defaultCuisineTaxonomy = []string{
	"Italian",
	"French",
	"Spanish",
	"Greek",
	"American",
	"Mexican",
	"Brazilian",
	"Peruvian",
	"Chinese",
	"Japanese",
	"Korean",
	"Thai",
	"Vietnamese",
	"Indian",
	"Middle Eastern",
	"Turkish",
	"Ethiopian",
	"Moroccan",
}

// LoadConfig initializes configuration from environment variables or defaults
func LoadConfig() {
	// Load .env file if it exists
	if err := godotenv.Load(); err != nil {
		log.Println("Warning: .env file not found. Using system environment variables.")
	}

	AppConfig = &Config{
		Port:      getEnv("PORT", "8000"),
		JWTKey:    getEnv("JWT_SECRET_KEY", "defaultSecret"),
		SaltRound: getEnvInt("SALT_ROUND", 10),

		GoogleApiKey:       getEnv("GOOGLE_API_KEY", ""),
		ProviderTimeoutSec: getEnvInt("PROVIDER_TIMEOUT_SEC", 10),

		EmbedApiURL: getEnv("EMBED_API_URL", ""),
		EmbedModel:  getEnv("EMBED_MODEL", "all-MiniLM-L6-v2"),

		CuisineTaxonomy: getEnvList("CUISINE_TAXONOMY", defaultCuisineTaxonomy),
		CuisineTopK:     getEnvInt("CUISINE_TOP_K", 2),
	}

	// Validate critical configuration
	if AppConfig.GoogleApiKey == "" {
		log.Fatal("GOOGLE_API_KEY is not set. The places provider cannot be reached without it.")
	}
	if AppConfig.JWTKey == "defaultSecret" {
		log.Println("Warning: Using default JWT_SECRET_KEY. Update it in your environment.")
	}
	if AppConfig.EmbedApiURL == "" {
		log.Println("Warning: EMBED_API_URL is not set. Cuisine classification will be skipped.")
	}
}

// getEnv retrieves an environment variable or returns a default value
func getEnv(key, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}

// getEnvInt retrieves an environment variable as an integer or returns the default integer value
func getEnvInt(key string, defaultValue int) int {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	intValue, err := strconv.Atoi(value)
	if err != nil {
		log.Printf("Error converting environment variable %s to int: %v", key, err)
		return defaultValue
	}
	return intValue
}

// getEnvList retrieves a comma separated environment variable as a string slice
func getEnvList(key string, defaultValue []string) []string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	var items []string
	for _, item := range strings.Split(value, ",") {
		if trimmed := strings.TrimSpace(item); trimmed != "" {
			items = append(items, trimmed)
		}
	}
	if len(items) == 0 {
		return defaultValue
	}
	return items
}
