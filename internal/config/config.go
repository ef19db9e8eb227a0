package config

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
)

// Config holds all application configuration
type Config struct {
	Server   ServerConfig
	Docstore DocstoreConfig
	MongoDB  MongoDBConfig
	Redis    RedisConfig
	Firebase FirebaseConfig
	Auth     AuthConfig
	Catalog  CatalogConfig
	OTEL     OTELConfig
}

// ServerConfig holds HTTP server configuration
type ServerConfig struct {
	Port string
}

// DocstoreConfig selects the document store backend.
// Backend is one of "firestore", "mongo" or "memory".
type DocstoreConfig struct {
	Backend string
}

// MongoDBConfig holds MongoDB connection configuration
type MongoDBConfig struct {
	URI      string
	Database string
}

// RedisConfig holds Redis connection configuration
type RedisConfig struct {
	Addr     string
	Password string
	Enabled  bool
}

// FirebaseConfig holds Firebase Admin SDK configuration
type FirebaseConfig struct {
	ProjectID   string
	PrivateKey  string // Base64 encoded
	ClientEmail string
}

// AuthConfig selects how request principals are established.
// Mode is "firebase" (ID token verification) or "local" (HS256 JWT,
// development only).
type AuthConfig struct {
	Mode      string
	JWTSecret string
}

// CatalogConfig selects where the exercise catalog comes from.
// Source is "static" (built-in list) or "store" (exercises collection).
type CatalogConfig struct {
	Source string
}

// OTELConfig holds OpenTelemetry export configuration
type OTELConfig struct {
	Enabled  bool
	Endpoint string
	Headers  string // comma separated key=value pairs
}

// Load reads configuration from environment variables
// It attempts to load from .env file first, then falls back to system env vars
func Load() (*Config, error) {
	// Try to load .env file (ignore error if not found)
	_ = godotenv.Load()

	cfg := &Config{
		Server: ServerConfig{
			Port: getEnv("PORT", "8080"),
		},
		Docstore: DocstoreConfig{
			Backend: getEnv("DOCSTORE_BACKEND", "memory"),
		},
		MongoDB: MongoDBConfig{
			URI:      getEnv("MONGODB_URI", "mongodb://localhost:27017"),
			Database: getEnv("MONGODB_DATABASE", "liftbook"),
		},
		Redis: RedisConfig{
			Addr:     getEnv("REDIS_ADDR", "localhost:6379"),
			Password: getEnv("REDIS_PASSWORD", ""),
			Enabled:  getEnvAsBool("REDIS_ENABLED", false),
		},
		Firebase: FirebaseConfig{
			ProjectID:   getEnv("FIREBASE_PROJECT_ID", ""),
			PrivateKey:  getEnv("FIREBASE_PRIVATE_KEY", ""),
			ClientEmail: getEnv("FIREBASE_CLIENT_EMAIL", ""),
		},
		Auth: AuthConfig{
			Mode:      getEnv("AUTH_MODE", "firebase"),
			JWTSecret: getEnv("JWT_SECRET", ""),
		},
		Catalog: CatalogConfig{
			Source: getEnv("CATALOG_SOURCE", "static"),
		},
		OTEL: OTELConfig{
			Enabled:  getEnvAsBool("OTEL_ENABLED", false),
			Endpoint: getEnv("OTEL_EXPORTER_OTLP_ENDPOINT", ""),
			Headers:  getEnv("OTEL_EXPORTER_OTLP_HEADERS", ""),
		},
	}

	// Validate required fields
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return cfg, nil
}

// Validate checks that all required configuration is present
func (c *Config) Validate() error {
	switch c.Docstore.Backend {
	case "firestore", "mongo", "memory":
	default:
		return fmt.Errorf("DOCSTORE_BACKEND must be firestore, mongo or memory, got %q", c.Docstore.Backend)
	}

	switch c.Auth.Mode {
	case "firebase":
		if c.Firebase.ProjectID == "" {
			return fmt.Errorf("FIREBASE_PROJECT_ID is required")
		}
		if c.Firebase.PrivateKey == "" {
			return fmt.Errorf("FIREBASE_PRIVATE_KEY is required")
		}
		if c.Firebase.ClientEmail == "" {
			return fmt.Errorf("FIREBASE_CLIENT_EMAIL is required")
		}
	case "local":
		if c.Auth.JWTSecret == "" {
			return fmt.Errorf("JWT_SECRET is required when AUTH_MODE=local")
		}
	default:
		return fmt.Errorf("AUTH_MODE must be firebase or local, got %q", c.Auth.Mode)
	}

	switch c.Catalog.Source {
	case "static", "store":
	default:
		return fmt.Errorf("CATALOG_SOURCE must be static or store, got %q", c.Catalog.Source)
	}

	if c.Docstore.Backend == "firestore" && c.Firebase.ProjectID == "" {
		return fmt.Errorf("FIREBASE_PROJECT_ID is required for the firestore backend")
	}

	if c.OTEL.Enabled && c.OTEL.Endpoint == "" {
		return fmt.Errorf("OTEL_EXPORTER_OTLP_ENDPOINT is required when OTEL_ENABLED=true")
	}

	return nil
}

// getEnv retrieves an environment variable or returns a default value
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvAsBool retrieves an environment variable as bool or returns a default value
func getEnvAsBool(key string, defaultValue bool) bool {
	switch os.Getenv(key) {
	case "true", "1", "yes":
		return true
	case "false", "0", "no":
		return false
	default:
		return defaultValue
	}
}
