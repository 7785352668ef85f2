package config

import (
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

// Config is the central typed configuration struct.
type Config struct {
	App       AppConfig
	Container ContainerConfig
}

type AppConfig struct {
	Name string
	Env  string // local | production | testing
	Port string
}

// ContainerConfig drives the component scan.
type ContainerConfig struct {
	// BasePackage is the import-path root the registry discovers beneath.
	BasePackage string
	// PreferAnnotations selects the annotation-flavored candidate policy.
	PreferAnnotations bool
}

// Load reads .env (if present) and populates a Config from environment
// variables. Call once at bootstrap: cfg := config.Load()
func Load(envFiles ...string) *Config {
	files := envFiles
	if len(files) == 0 {
		files = []string{".env"}
	}
	// Non-fatal: .env may not exist in production
	_ = godotenv.Load(files...)

	return &Config{
		App: AppConfig{
			Name: env("APP_NAME", "GoSpring"),
			Env:  env("APP_ENV", "local"),
			Port: env("APP_PORT", "8000"),
		},
		Container: ContainerConfig{
			BasePackage:       env("CONTAINER_BASE_PACKAGE", ""),
			PreferAnnotations: envBool("CONTAINER_PREFER_ANNOTATIONS", false),
		},
	}
}

// Get returns a raw env value, falling back to defaultVal.
func Get(key, defaultVal string) string {
	return env(key, defaultVal)
}

// GetInt returns an int env value.
func GetInt(key string, defaultVal int) int {
	v := os.Getenv(key)
	if v == "" {
		return defaultVal
	}
	i, err := strconv.Atoi(v)
	if err != nil {
		return defaultVal
	}
	return i
}

// GetBool returns a bool env value.
func GetBool(key string, defaultVal bool) bool {
	return envBool(key, defaultVal)
}

// ── helpers ─────────────────────────────────────────────────────────────────

func env(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envBool(key string, fallback bool) bool {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return fallback
	}
	return b
}
