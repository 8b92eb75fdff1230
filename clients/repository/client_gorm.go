package repository

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/AzielCF/az-gym/clients/domain"
	"github.com/AzielCF/az-gym/core/database"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// --- Persistence Model ---

type clientModel struct {
	ID              string     `gorm:"primaryKey"`
	CI              string     `gorm:"column:ci;uniqueIndex:idx_clients_ci;not null"`
	Name            string     `gorm:"index:idx_clients_name;not null"`
	Photo           string
	Plan            string
	Phone           string
	Email           string
	Disabled        bool       `gorm:"default:false;not null"`
	ConsecutiveDays int        `gorm:"default:0;not null"`
	TotalAccesses   int        `gorm:"default:0;not null"`
	LastAccess      *time.Time `gorm:"column:last_access"`
	AvailablePoints int        `gorm:"default:0;not null"`
	AvailableDays   int        `gorm:"default:0;not null"`
	CreatedAt       time.Time  `gorm:"not null"`
	UpdatedAt       time.Time  `gorm:"not null"`
}

func (clientModel) TableName() string {
	return "clients"
}

// --- Repository Implementation ---

type ClientGormRepository struct {
	db *gorm.DB
}

func NewClientGormRepository(db *gorm.DB) *ClientGormRepository {
	return &ClientGormRepository{db: db}
}

func (r *ClientGormRepository) InitSchema(ctx context.Context) error {
	return r.db.WithContext(ctx).AutoMigrate(&clientModel{})
}

func (r *ClientGormRepository) Create(ctx context.Context, client *domain.Client) error {
	if client.ID == "" {
		client.ID = uuid.New().String()
	}
	now := time.Now()
	if client.CreatedAt.IsZero() {
		client.CreatedAt = now
	}
	client.UpdatedAt = now

	model := toClientModel(client)
	if err := r.db.WithContext(ctx).Create(&model).Error; err != nil {
		if database.IsDuplicateKey(err) {
			return domain.ErrDuplicateClient
		}
		return err
	}
	return nil
}

func (r *ClientGormRepository) GetByID(ctx context.Context, id string) (*domain.Client, error) {
	var m clientModel
	if err := r.db.WithContext(ctx).First(&m, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrClientNotFound
		}
		return nil, err
	}
	return fromClientModel(m), nil
}

// GetByCI busca por cédula exacta
func (r *ClientGormRepository) GetByCI(ctx context.Context, ci string) (*domain.Client, error) {
	var m clientModel
	if err := r.db.WithContext(ctx).Where("ci = ?", strings.TrimSpace(ci)).First(&m).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrClientNotFound
		}
		return nil, err
	}
	return fromClientModel(m), nil
}

func (r *ClientGormRepository) Update(ctx context.Context, client *domain.Client) error {
	client.UpdatedAt = time.Now()
	model := toClientModel(client)

	result := r.db.WithContext(ctx).Model(&clientModel{ID: client.ID}).Select("*").Omit("created_at").Updates(&model)
	if result.Error != nil {
		if database.IsDuplicateKey(result.Error) {
			return domain.ErrDuplicateClient
		}
		return result.Error
	}
	if result.RowsAffected == 0 {
		return domain.ErrClientNotFound
	}
	return nil
}

func (r *ClientGormRepository) SetDisabled(ctx context.Context, id string, disabled bool) error {
	result := r.db.WithContext(ctx).Model(&clientModel{}).
		Where("id = ?", id).
		Updates(map[string]any{"disabled": disabled, "updated_at": time.Now()})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return domain.ErrClientNotFound
	}
	return nil
}

func (r *ClientGormRepository) List(ctx context.Context, filter domain.ClientFilter) ([]*domain.Client, error) {
	var models []clientModel
	query := r.db.WithContext(ctx).Model(&clientModel{})

	if filter.Disabled != nil {
		query = query.Where("disabled = ?", *filter.Disabled)
	}
	if filter.Search != "" {
		pattern := "%" + filter.Search + "%"
		query = query.Where("name LIKE ? OR ci LIKE ? OR email LIKE ?", pattern, pattern, pattern)
	}

	query = query.Order("name ASC")
	if filter.Limit > 0 {
		query = query.Limit(filter.Limit)
	}
	if filter.Offset > 0 {
		query = query.Offset(filter.Offset)
	}

	if err := query.Find(&models).Error; err != nil {
		return nil, err
	}

	result := make([]*domain.Client, 0, len(models))
	for _, m := range models {
		result = append(result, fromClientModel(m))
	}
	return result, nil
}

func (r *ClientGormRepository) Count(ctx context.Context) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&clientModel{}).Count(&count).Error
	return count, err
}

// --- Mappers ---

func toClientModel(c *domain.Client) clientModel {
	return clientModel{
		ID:              c.ID,
		CI:              strings.TrimSpace(c.CI),
		Name:            c.Name,
		Photo:           c.Photo,
		Plan:            c.Plan,
		Phone:           c.Phone,
		Email:           c.Email,
		Disabled:        c.Disabled,
		ConsecutiveDays: c.ConsecutiveDays,
		TotalAccesses:   c.TotalAccesses,
		LastAccess:      c.LastAccess,
		AvailablePoints: c.AvailablePoints,
		AvailableDays:   c.AvailableDays,
		CreatedAt:       c.CreatedAt,
		UpdatedAt:       c.UpdatedAt,
	}
}

func fromClientModel(m clientModel) *domain.Client {
	return &domain.Client{
		ID:              m.ID,
		CI:              m.CI,
		Name:            m.Name,
		Photo:           m.Photo,
		Plan:            m.Plan,
		Phone:           m.Phone,
		Email:           m.Email,
		Disabled:        m.Disabled,
		ConsecutiveDays: m.ConsecutiveDays,
		TotalAccesses:   m.TotalAccesses,
		LastAccess:      m.LastAccess,
		AvailablePoints: m.AvailablePoints,
		AvailableDays:   m.AvailableDays,
		CreatedAt:       m.CreatedAt,
		UpdatedAt:       m.UpdatedAt,
	}
}
