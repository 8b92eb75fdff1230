package application

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/AzielCF/az-gym/core/config"
	"github.com/AzielCF/az-gym/core/settings/domain"
	"github.com/AzielCF/az-gym/pkg/timeutils"
	"github.com/sirupsen/logrus"
)

// SettingsService administra los ajustes del gimnasio guardados en la base
type SettingsService struct {
	repo domain.ISettingsRepository
}

func NewSettingsService(repo domain.ISettingsRepository) *SettingsService {
	return &SettingsService{repo: repo}
}

// DynamicSettings son los valores persistidos; nil significa "usar el de entorno"
type DynamicSettings struct {
	Timezone          string
	EarlyAccessMin    *int
	LateAccessMin     *int
	HistoryMaxLimit   *int
	GrantCacheEnabled *bool
}

func (s *SettingsService) GetDynamicSettings(ctx context.Context) (*DynamicSettings, error) {
	ds := &DynamicSettings{}

	val, err := s.repo.Get(ctx, domain.KeyGymTimezone)
	if err != nil {
		return nil, err
	}
	ds.Timezone = val

	if ds.EarlyAccessMin, err = s.getInt(ctx, domain.KeyEarlyAccessMin); err != nil {
		return nil, err
	}
	if ds.LateAccessMin, err = s.getInt(ctx, domain.KeyLateAccessMin); err != nil {
		return nil, err
	}
	if ds.HistoryMaxLimit, err = s.getInt(ctx, domain.KeyHistoryMaxLimit); err != nil {
		return nil, err
	}

	if val, err = s.repo.Get(ctx, domain.KeyGrantCacheEnabled); err != nil {
		return nil, err
	}
	if val != "" {
		on := parseBool(val)
		ds.GrantCacheEnabled = &on
	}
	return ds, nil
}

func (s *SettingsService) getInt(ctx context.Context, key string) (*int, error) {
	val, err := s.repo.Get(ctx, key)
	if err != nil || val == "" {
		return nil, err
	}
	n, err := strconv.Atoi(val)
	if err != nil || n < 0 {
		logrus.Warnf("[SETTINGS] Ignoring invalid value %q for %s", val, key)
		return nil, nil
	}
	return &n, nil
}

// Apply pisa cfg con los ajustes persistidos
func (s *SettingsService) Apply(ctx context.Context, cfg *config.Config) error {
	ds, err := s.GetDynamicSettings(ctx)
	if err != nil {
		return fmt.Errorf("load gym settings: %w", err)
	}
	if ds.Timezone != "" {
		cfg.Gym.Timezone = ds.Timezone
	}
	if ds.EarlyAccessMin != nil {
		cfg.Gym.EarlyAccess = time.Duration(*ds.EarlyAccessMin) * time.Minute
	}
	if ds.LateAccessMin != nil {
		cfg.Gym.LateAccess = time.Duration(*ds.LateAccessMin) * time.Minute
	}
	if ds.HistoryMaxLimit != nil {
		cfg.Gym.HistoryMaxLimit = *ds.HistoryMaxLimit
	}
	if ds.GrantCacheEnabled != nil {
		cfg.Database.ValkeyEnabled = *ds.GrantCacheEnabled
	}
	return nil
}

// Set valida y guarda un ajuste
func (s *SettingsService) Set(ctx context.Context, key, value string) error {
	value = strings.TrimSpace(value)
	switch key {
	case domain.KeyGymTimezone:
		if _, err := timeutils.LoadLocation(value); err != nil {
			return err
		}
	case domain.KeyEarlyAccessMin, domain.KeyLateAccessMin, domain.KeyHistoryMaxLimit:
		n, err := strconv.Atoi(value)
		if err != nil || n < 0 {
			return fmt.Errorf("%s must be a non negative integer", key)
		}
	case domain.KeyGrantCacheEnabled:
		value = strconv.FormatBool(parseBool(value))
	default:
		return fmt.Errorf("%w: %s", domain.ErrUnknownSetting, key)
	}
	return s.repo.Set(ctx, key, value)
}

func (s *SettingsService) Unset(ctx context.Context, key string) error {
	return s.repo.Delete(ctx, key)
}

func (s *SettingsService) List(ctx context.Context) ([]domain.Setting, error) {
	return s.repo.List(ctx)
}

func parseBool(v string) bool {
	vLower := strings.ToLower(v)
	return vLower == "1" || vLower == "true" || vLower == "yes" || vLower == "on"
}
