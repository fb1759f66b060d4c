package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"sync"

	"github.com/joho/godotenv"
)

// Config holds everything the service reads from the environment
type Config struct {
	Environment string
	Port        string

	// Database (Postgres preferred; Supabase REST as hosted fallback)
	PostgresDSN string
	SupabaseURL string
	SupabaseKey string
	UseMemoryDB bool

	// JWT
	JWTSecret string

	// Base URL used to build signup/invite links
	BaseURL string

	// CORS
	AllowedOrigins []string

	Debug bool
}

// LoadConfig reads the environment, loading a .env file first when present
func LoadConfig() *Config {
	env := os.Getenv("ENVIRONMENT")
	if env == "" {
		env = "development"
	}

	switch env {
	case "production":
		_ = godotenv.Load(".env.production")
	default:
		_ = godotenv.Load(".env.local")
	}
	_ = godotenv.Load() // plain .env, lowest priority

	config := &Config{
		Environment: getEnvWithDefault("ENVIRONMENT", "development"),
		Port:        getEnvWithDefault("PORT", "3000"),
		JWTSecret:   getEnvWithDefault("JWT_SECRET", "your-secret-key-change-in-production"),
		UseMemoryDB: getEnvBool("USE_MEMORY_DB", false),
		Debug:       getEnvBool("DEBUG", false),
	}

	// Trim whitespace to avoid trailing spaces/newlines from env sources
	config.PostgresDSN = strings.TrimSpace(os.Getenv("POSTGRES_DSN"))
	config.SupabaseURL = strings.TrimSpace(os.Getenv("SUPABASE_URL"))
	config.SupabaseKey = strings.TrimSpace(os.Getenv("SUPABASE_SERVICE_KEY"))
	config.BaseURL = strings.TrimSpace(os.Getenv("BASE_URL"))

	allowedOrigins := getEnvWithDefault("ALLOWED_ORIGINS", "*")
	if allowedOrigins == "*" {
		config.AllowedOrigins = []string{"*"}
	} else {
		config.AllowedOrigins = strings.Split(allowedOrigins, ",")
	}

	if config.Environment == "production" {
		if config.PostgresDSN == "" && (config.SupabaseURL == "" || config.SupabaseKey == "") {
			fmt.Println("⚠️  WARNING: Production environment without POSTGRES_DSN or SUPABASE_URL+SUPABASE_SERVICE_KEY")
		}
		config.UseMemoryDB = false
		config.Debug = false
	}

	return config
}

// Cached config (initialized once per cold start)
var (
	cachedConfig *Config
	configOnce   sync.Once
)

// GetCached returns the process-wide cached Config. Initialized once and
// reused across warm invocations, avoiding per-request parsing.
func GetCached() *Config {
	configOnce.Do(func() {
		cachedConfig = LoadConfig()
	})
	return cachedConfig
}

// Validate checks the configuration before serving
func (c *Config) Validate() error {
	if c.Port == "" {
		return fmt.Errorf("PORT is required")
	}

	if c.JWTSecret == "" || c.JWTSecret == "your-secret-key-change-in-production" {
		if c.Environment == "production" {
			return fmt.Errorf("JWT_SECRET must be set in production")
		}
		if c.Environment == "development" {
			fmt.Println("⚠️  Using default JWT secret (not recommended for production)")
		}
	}

	if c.UseMemoryDB {
		return nil
	}
	if c.PostgresDSN != "" {
		return nil
	}
	if c.SupabaseURL != "" && c.SupabaseKey != "" {
		return nil
	}
	return fmt.Errorf("incomplete database configuration: set POSTGRES_DSN, SUPABASE_URL+SUPABASE_SERVICE_KEY, or USE_MEMORY_DB")
}

// IsProduction reports whether this is a production deployment
func (c *Config) IsProduction() bool {
	return c.Environment == "production"
}

// IsDevelopment reports whether this is a development deployment
func (c *Config) IsDevelopment() bool {
	return c.Environment == "development"
}

// SignupURL builds the magic-link signup URL carrying an invite token
func (c *Config) SignupURL(token string) string {
	base := strings.TrimRight(c.BaseURL, "/")
	if base == "" {
		base = "http://localhost:" + c.Port
	}
	return base + "/signup?invite=" + token
}

func getEnvWithDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if parsed, err := strconv.ParseBool(value); err == nil {
			return parsed
		}
	}
	return defaultValue
}
