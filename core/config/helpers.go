package config

import (
	"os"
	"strconv"
	"strings"
)

// GetAllSettings returns a map of the runtime settings currently loaded in memory.
func GetAllSettings() map[string]any {
	if Global == nil {
		return map[string]any{}
	}
	return map[string]any{
		"app_debug":                Global.App.Debug,
		"app_version":              Global.App.Version,
		"app_env":                  Global.App.Environment,
		"db_driver":                Global.Database.Driver,
		"valkey_enabled":           Global.Database.ValkeyEnabled,
		"gym_timezone":             Global.Gym.Timezone,
		"gym_early_access_minutes": int(Global.Gym.EarlyAccess.Minutes()),
		"gym_late_access_minutes":  int(Global.Gym.LateAccess.Minutes()),
		"access_worker_pool_size":  Global.WorkerPool.Size,
	}
}

// Helpers
func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
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

func getEnvBool(key string, fallback bool) bool {
	if v := os.Getenv(key); v != "" {
		vLower := strings.ToLower(v)
		return vLower == "1" || vLower == "true" || vLower == "yes" || vLower == "on"
	}
	return fallback
}
