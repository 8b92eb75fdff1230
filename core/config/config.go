package config

import (
	"os"
	"path/filepath"
	"strings"
	"time"
)

// Config holds all application configuration in a structured way.
type Config struct {
	App        AppConfig
	Paths      PathsConfig
	Database   DatabaseConfig
	Gym        GymConfig
	WorkerPool WorkerPoolConfig
}

type AppConfig struct {
	Version            string
	Port               string
	Debug              bool
	Environment        string
	BasicAuth          []string
	BasePath           string
	TrustedProxies     []string
	BaseUrl            string
	CorsAllowedOrigins []string
}

type PathsConfig struct {
	BaseDir  string
	Storages string
}

type DatabaseConfig struct {
	Driver          string
	Host            string
	Port            int
	User            string
	Password        string
	Name            string // File path for SQLite, DB Name for Postgres
	ValkeyEnabled   bool
	ValkeyAddress   string
	ValkeyPassword  string
	ValkeyDB        int
	ValkeyKeyPrefix string
}

// GymConfig agrupa las reglas de negocio del control de acceso
type GymConfig struct {
	Timezone        string
	EarlyAccess     time.Duration // cuánto antes del inicio del turno se permite entrar
	LateAccess      time.Duration // cuánto después del inicio del turno se permite entrar
	GrantCacheTTL   time.Duration
	HistoryMaxLimit int
}

type WorkerPoolConfig struct {
	Size      int
	QueueSize int
}

// Global provides access to the loaded configuration globally
var Global *Config

// LoadConfig loads configuration from Environment Variables or defaults.
func LoadConfig() (*Config, error) {
	baseDir := getEnv("APP_BASE_DIR", "storages")

	debug := false
	if v := os.Getenv("APP_DEBUG"); v == "true" || v == "1" || v == "on" {
		debug = true
	} else if v := os.Getenv("DEBUG"); v == "true" || v == "1" {
		debug = true
	}

	var basicAuth []string
	if v := os.Getenv("APP_BASIC_AUTH"); v != "" {
		basicAuth = strings.Split(v, ",")
	}

	corsOrigins := []string{"http://localhost:3000", "http://localhost:5173"}
	if v := os.Getenv("APP_CORS_ALLOWED_ORIGINS"); v != "" {
		corsOrigins = strings.Split(v, ",")
	}

	appCfg := AppConfig{
		Version:            "v1.0.0",
		Port:               getEnv("APP_PORT", "3000"),
		Debug:              debug,
		Environment:        getEnv("APP_ENV", "development"),
		BasicAuth:          basicAuth,
		BasePath:           getEnv("APP_BASE_PATH", ""),
		BaseUrl:            getEnv("APP_BASE_URL", "http://localhost:3000"),
		CorsAllowedOrigins: corsOrigins,
	}
	if v := os.Getenv("APP_TRUSTED_PROXIES"); v != "" {
		appCfg.TrustedProxies = strings.Split(v, ",")
	}

	pathsCfg := PathsConfig{
		BaseDir:  baseDir,
		Storages: baseDir,
	}

	dbCfg := DatabaseConfig{
		Driver:          getEnv("DB_DRIVER", "sqlite"),
		Name:            getEnv("DB_NAME", filepath.Join(pathsCfg.Storages, "gym.db")),
		Host:            getEnv("DB_HOST", "localhost"),
		Port:            getEnvInt("DB_PORT", 5432),
		User:            getEnv("DB_USER", "postgres"),
		Password:        getEnv("DB_PASSWORD", ""),
		ValkeyEnabled:   getEnvBool("VALKEY_ENABLED", false),
		ValkeyAddress:   getEnv("VALKEY_ADDRESS", "localhost:6379"),
		ValkeyPassword:  getEnv("VALKEY_PASSWORD", ""),
		ValkeyDB:        getEnvInt("VALKEY_DB", 0),
		ValkeyKeyPrefix: getEnv("VALKEY_KEY_PREFIX", "azgym:"),
	}

	gymCfg := GymConfig{
		Timezone:        getEnv("GYM_TIMEZONE", "America/Montevideo"),
		EarlyAccess:     time.Duration(getEnvInt("GYM_EARLY_ACCESS_MINUTES", 10)) * time.Minute,
		LateAccess:      time.Duration(getEnvInt("GYM_LATE_ACCESS_MINUTES", 30)) * time.Minute,
		GrantCacheTTL:   time.Duration(getEnvInt("GYM_GRANT_CACHE_TTL_HOURS", 36)) * time.Hour,
		HistoryMaxLimit: getEnvInt("GYM_HISTORY_MAX_LIMIT", 100),
	}

	cfg := &Config{
		App:        appCfg,
		Paths:      pathsCfg,
		Database:   dbCfg,
		Gym:        gymCfg,
		WorkerPool: WorkerPoolConfig{Size: getEnvInt("ACCESS_WORKER_POOL_SIZE", 8), QueueSize: getEnvInt("ACCESS_WORKER_QUEUE_SIZE", 256)},
	}

	Global = cfg
	return cfg, nil
}
