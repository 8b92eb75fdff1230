package repository

import (
	"context"
	"errors"
	"time"

	"github.com/AzielCF/az-gym/core/database"
	"github.com/AzielCF/az-gym/rewards/domain"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type rewardModel struct {
	ID           string `gorm:"primaryKey"`
	Name         string `gorm:"not null"`
	Description  string
	RequiredDays int       `gorm:"uniqueIndex:idx_rewards_required_days;not null"`
	CreatedAt    time.Time `gorm:"not null"`
}

func (rewardModel) TableName() string {
	return "rewards"
}

type RewardGormRepository struct {
	db *gorm.DB
}

func NewRewardGormRepository(db *gorm.DB) *RewardGormRepository {
	return &RewardGormRepository{db: db}
}

func (r *RewardGormRepository) InitSchema(ctx context.Context) error {
	return r.db.WithContext(ctx).AutoMigrate(&rewardModel{})
}

func (r *RewardGormRepository) Create(ctx context.Context, reward *domain.Reward) error {
	if reward.ID == "" {
		reward.ID = uuid.New().String()
	}
	if reward.CreatedAt.IsZero() {
		reward.CreatedAt = time.Now()
	}
	m := rewardModel{
		ID:           reward.ID,
		Name:         reward.Name,
		Description:  reward.Description,
		RequiredDays: reward.RequiredDays,
		CreatedAt:    reward.CreatedAt,
	}
	if err := r.db.WithContext(ctx).Create(&m).Error; err != nil {
		if database.IsDuplicateKey(err) {
			return domain.ErrDuplicateReward
		}
		return err
	}
	return nil
}

// FindByRequiredDays busca el premio cuya racha requerida es exactamente days
func (r *RewardGormRepository) FindByRequiredDays(ctx context.Context, days int) (*domain.Reward, error) {
	var m rewardModel
	if err := r.db.WithContext(ctx).Where("required_days = ?", days).First(&m).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrRewardNotFound
		}
		return nil, err
	}
	return fromRewardModel(m), nil
}

func (r *RewardGormRepository) List(ctx context.Context) ([]*domain.Reward, error) {
	var models []rewardModel
	if err := r.db.WithContext(ctx).Order("required_days ASC").Find(&models).Error; err != nil {
		return nil, err
	}
	out := make([]*domain.Reward, 0, len(models))
	for _, m := range models {
		out = append(out, fromRewardModel(m))
	}
	return out, nil
}

func fromRewardModel(m rewardModel) *domain.Reward {
	return &domain.Reward{
		ID:           m.ID,
		Name:         m.Name,
		Description:  m.Description,
		RequiredDays: m.RequiredDays,
		CreatedAt:    m.CreatedAt,
	}
}
