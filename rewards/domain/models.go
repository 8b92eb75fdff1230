package domain

import (
	"context"
	"errors"
	"time"
)

// Reward es un premio que se otorga al alcanzar una racha exacta de días consecutivos
type Reward struct {
	ID           string    `json:"id"`
	Name         string    `json:"name"`
	Description  string    `json:"description"`
	RequiredDays int       `json:"requiredDays"`
	CreatedAt    time.Time `json:"created_at"`
}

var (
	// ErrRewardNotFound se retorna cuando no hay premio para la racha consultada
	ErrRewardNotFound = errors.New("reward not found")

	// ErrDuplicateReward se retorna cuando ya existe un premio con los mismos días requeridos
	ErrDuplicateReward = errors.New("reward with these required days already exists")
)

// RewardRepository define las operaciones de persistencia para premios
type RewardRepository interface {
	Create(ctx context.Context, reward *Reward) error
	FindByRequiredDays(ctx context.Context, days int) (*Reward, error)
	List(ctx context.Context) ([]*Reward, error)
}
