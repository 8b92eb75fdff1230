package infrastructure

import (
	"context"
	"errors"
	"strings"

	"github.com/AzielCF/az-gym/core/settings/domain"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type gymSettingModel struct {
	Key   string `gorm:"primaryKey;column:key"`
	Value string `gorm:"column:value"`
}

func (gymSettingModel) TableName() string {
	return "gym_settings"
}

type SettingsGormRepository struct {
	db *gorm.DB
}

func NewSettingsGormRepository(db *gorm.DB) *SettingsGormRepository {
	return &SettingsGormRepository{db: db}
}

func (r *SettingsGormRepository) InitSchema(ctx context.Context) error {
	return r.db.WithContext(ctx).AutoMigrate(&gymSettingModel{})
}

// Get retorna "" si la clave no fue configurada
func (r *SettingsGormRepository) Get(ctx context.Context, key string) (string, error) {
	var m gymSettingModel
	if err := r.db.WithContext(ctx).First(&m, "key = ?", key).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return "", nil
		}
		return "", err
	}
	return strings.TrimSpace(m.Value), nil
}

func (r *SettingsGormRepository) Set(ctx context.Context, key string, value string) error {
	return r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "key"}},
		DoUpdates: clause.Assignments(map[string]any{"value": value}),
	}).Create(&gymSettingModel{Key: key, Value: value}).Error
}

func (r *SettingsGormRepository) Delete(ctx context.Context, key string) error {
	return r.db.WithContext(ctx).Delete(&gymSettingModel{}, "key = ?", key).Error
}

func (r *SettingsGormRepository) List(ctx context.Context) ([]domain.Setting, error) {
	var models []gymSettingModel
	if err := r.db.WithContext(ctx).Order("key ASC").Find(&models).Error; err != nil {
		return nil, err
	}
	out := make([]domain.Setting, 0, len(models))
	for _, m := range models {
		out = append(out, domain.Setting{Key: m.Key, Value: m.Value})
	}
	return out, nil
}
