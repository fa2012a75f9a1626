package config

import (
	"os"
	"path/filepath"
	"strconv"
	"time"

	"golang.org/x/crypto/bcrypt"
)

// DefaultSessionSecret is only acceptable outside production
const DefaultSessionSecret = "super secret"

// Credential backends
const (
	CredentialsBackendFile     = "file"
	CredentialsBackendPostgres = "postgres"
	CredentialsBackendSQLite   = "sqlite"
)

type Config struct {
	Port        string
	Environment string
	CORSOrigins string
	// Storage
	DataDir            string // flat directory of documents, images and snapshots
	CredentialsBackend string // "file", "sqlite" or "postgres"
	CredentialsFile    string // YAML username -> hash mapping (file backend)
	CredentialsDB      string // database file (sqlite backend)
	DatabaseURL        string // postgres backend
	TablePrefix        string
	// Sessions and accounts
	SessionSecret string
	SessionTTL    time.Duration
	BcryptCost    int
	OpenSignup    bool // allow anonymous signup over HTTP
	// Limits
	MaxUploadBytes int64
	// Logging
	LogDir      string // optional file log in addition to stdout
	LogMaxFiles int
	// Debug flags
	Debug bool
}

func Load() *Config {
	env := getEnv("ENVIRONMENT", "dev")
	root := getDataRoot(env)

	return &Config{
		Port:               getEnv("PORT", "8080"),
		Environment:        env,
		CORSOrigins:        getEnv("CORS_ORIGINS", "http://localhost:3000"),
		DataDir:            getEnv("DATA_DIR", filepath.Join(root, "data")),
		CredentialsBackend: getEnv("CREDENTIALS_BACKEND", CredentialsBackendFile),
		CredentialsFile:    getEnv("CREDENTIALS_FILE", filepath.Join(root, "users.yml")),
		CredentialsDB:      getEnv("CREDENTIALS_DB", filepath.Join(root, "users.db")),
		DatabaseURL:        getEnv("DATABASE_URL", ""),
		TablePrefix:        getTablePrefix(env),
		SessionSecret:      getEnv("SESSION_SECRET", DefaultSessionSecret),
		SessionTTL:         getDuration("SESSION_TTL", 24*time.Hour),
		BcryptCost:         getInt("BCRYPT_COST", bcrypt.DefaultCost),
		OpenSignup:         getEnv("OPEN_SIGNUP", "true") == "true",
		MaxUploadBytes:     int64(getInt("MAX_UPLOAD_BYTES", DefaultMaxUploadBytes)),
		LogDir:             getEnv("LOG_DIR", ""),
		LogMaxFiles:        getInt("LOG_MAX_FILES", 10),
		// Debug flags - default to true in dev/test, false in production
		Debug: getEnv("DEBUG", getDefaultDebug(env)) == "true",
	}
}

// getDataRoot returns the directory that holds the store and the credential
// file. Tests get their own tree so they never touch real documents.
func getDataRoot(env string) string {
	if env == "test" {
		return "test"
	}
	return "."
}

// getDefaultDebug returns the default debug setting based on environment
func getDefaultDebug(env string) string {
	if env == "prod" {
		return "false"
	}
	return "true" // Enable DEBUG in dev/test by default
}

// getTablePrefix returns the table prefix based on environment
func getTablePrefix(env string) string {
	// Allow manual override via TABLE_PREFIX env var
	if prefix := os.Getenv("TABLE_PREFIX"); prefix != "" {
		return prefix
	}

	switch env {
	case "prod":
		return "prod_"
	case "test":
		return "test_"
	default:
		return "dev_"
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getInt(key string, defaultValue int) int {
	n, err := strconv.Atoi(os.Getenv(key))
	if err != nil {
		return defaultValue
	}
	return n
}

func getDuration(key string, defaultValue time.Duration) time.Duration {
	d, err := time.ParseDuration(os.Getenv(key))
	if err != nil {
		return defaultValue
	}
	return d
}
