package domain

import (
	"context"
	"errors"
)

// Setting es un valor de configuración persistido que pisa al de entorno
type Setting struct {
	Key   string `json:"key"`
	Value string `json:"value"`
}

var ErrUnknownSetting = errors.New("unknown setting")

// ISettingsRepository define la persistencia de los ajustes dinámicos
type ISettingsRepository interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key string, value string) error
	Delete(ctx context.Context, key string) error
	List(ctx context.Context) ([]Setting, error)

	InitSchema(ctx context.Context) error
}

const (
	KeyGymTimezone       = "gym_timezone"
	KeyEarlyAccessMin    = "gym_early_access_minutes"
	KeyLateAccessMin     = "gym_late_access_minutes"
	KeyHistoryMaxLimit   = "gym_history_max_limit"
	KeyGrantCacheEnabled = "gym_grant_cache_enabled"
)

// Keys lista las claves aceptadas
func Keys() []string {
	return []string{KeyGymTimezone, KeyEarlyAccessMin, KeyLateAccessMin, KeyHistoryMaxLimit, KeyGrantCacheEnabled}
}
