package repository

import (
	"context"
	"errors"
	"time"

	"github.com/AzielCF/az-gym/core/database"
	"github.com/AzielCF/az-gym/pkg/timeutils"
	"github.com/AzielCF/az-gym/schedules/domain"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// --- Persistence Models ---

type scheduleModel struct {
	ID          string                `gorm:"primaryKey"`
	Day         string                `gorm:"index:idx_schedules_day_hour,priority:1;not null"`
	StartHour   int                   `gorm:"index:idx_schedules_day_hour,priority:2;not null"`
	StartMinute int                   `gorm:"not null"` // minutos desde medianoche, para ordenar
	StartTime   string                `gorm:"not null"`
	EndTime     string                `gorm:"not null"`
	MaxCount    int                   `gorm:"default:0;not null"`
	Clients     []scheduleClientModel `gorm:"foreignKey:ScheduleID;constraint:OnDelete:CASCADE"`
	CreatedAt   time.Time             `gorm:"not null"`
}

func (scheduleModel) TableName() string {
	return "schedules"
}

type scheduleClientModel struct {
	ScheduleID string    `gorm:"primaryKey"`
	ClientID   string    `gorm:"primaryKey;index:idx_schedule_clients_client"`
	CreatedAt  time.Time `gorm:"not null"`
}

func (scheduleClientModel) TableName() string {
	return "schedule_clients"
}

// --- Repository Implementation ---

type ScheduleGormRepository struct {
	db *gorm.DB
}

func NewScheduleGormRepository(db *gorm.DB) *ScheduleGormRepository {
	return &ScheduleGormRepository{db: db}
}

func (r *ScheduleGormRepository) InitSchema(ctx context.Context) error {
	return r.db.WithContext(ctx).AutoMigrate(&scheduleModel{}, &scheduleClientModel{})
}

func (r *ScheduleGormRepository) Create(ctx context.Context, slot *domain.Slot) error {
	if slot.ID == "" {
		slot.ID = uuid.New().String()
	}
	startMinute, err := timeutils.MinutesOfDay(slot.StartTime)
	if err != nil {
		return err
	}
	slot.StartHour = startMinute / 60

	m := scheduleModel{
		ID:          slot.ID,
		Day:         slot.Day,
		StartHour:   slot.StartHour,
		StartMinute: startMinute,
		StartTime:   slot.StartTime,
		EndTime:     slot.EndTime,
		MaxCount:    slot.MaxCount,
		CreatedAt:   time.Now(),
	}
	for _, clientID := range slot.Clients {
		m.Clients = append(m.Clients, scheduleClientModel{ScheduleID: slot.ID, ClientID: clientID, CreatedAt: m.CreatedAt})
	}
	return r.db.WithContext(ctx).Create(&m).Error
}

func (r *ScheduleGormRepository) GetByID(ctx context.Context, id string) (*domain.Slot, error) {
	var m scheduleModel
	if err := r.db.WithContext(ctx).Preload("Clients").First(&m, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrSlotNotFound
		}
		return nil, err
	}
	slot := fromScheduleModel(m)
	return &slot, nil
}

func (r *ScheduleGormRepository) FindByDay(ctx context.Context, day string) ([]domain.Slot, error) {
	var models []scheduleModel
	err := r.db.WithContext(ctx).Preload("Clients").
		Where("day = ?", day).
		Order("start_minute ASC").
		Find(&models).Error
	if err != nil {
		return nil, err
	}
	return fromScheduleModels(models), nil
}

func (r *ScheduleGormRepository) FindByDayAndHours(ctx context.Context, day string, hours []int) ([]domain.Slot, error) {
	if len(hours) == 0 {
		return []domain.Slot{}, nil
	}
	var models []scheduleModel
	err := r.db.WithContext(ctx).Preload("Clients").
		Where("day = ? AND start_hour IN ?", day, hours).
		Order("start_minute ASC").
		Find(&models).Error
	if err != nil {
		return nil, err
	}
	return fromScheduleModels(models), nil
}

func (r *ScheduleGormRepository) CountByDay(ctx context.Context, day string) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&scheduleModel{}).Where("day = ?", day).Count(&count).Error
	return count, err
}

// AddClient anota al socio respetando el cupo en una sola sentencia
func (r *ScheduleGormRepository) AddClient(ctx context.Context, slotID, clientID string) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var exists int64
		if err := tx.Model(&scheduleModel{}).Where("id = ?", slotID).Count(&exists).Error; err != nil {
			return err
		}
		if exists == 0 {
			return domain.ErrSlotNotFound
		}

		result := tx.Exec(`INSERT INTO schedule_clients (schedule_id, client_id, created_at)
			SELECT ?, ?, ? FROM schedules
			WHERE id = ? AND (max_count = 0 OR (SELECT COUNT(*) FROM schedule_clients WHERE schedule_id = ?) < max_count)`,
			slotID, clientID, time.Now().UTC(), slotID, slotID)
		if result.Error != nil {
			if database.IsDuplicateKey(result.Error) {
				return domain.ErrAlreadyEnrolled
			}
			return result.Error
		}
		if result.RowsAffected == 0 {
			return domain.ErrSlotFull
		}
		return nil
	})
}

func (r *ScheduleGormRepository) RemoveClient(ctx context.Context, slotID, clientID string) error {
	result := r.db.WithContext(ctx).
		Where("schedule_id = ? AND client_id = ?", slotID, clientID).
		Delete(&scheduleClientModel{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return domain.ErrNotEnrolled
	}
	return nil
}

// --- Mappers ---

func fromScheduleModels(models []scheduleModel) []domain.Slot {
	out := make([]domain.Slot, 0, len(models))
	for _, m := range models {
		out = append(out, fromScheduleModel(m))
	}
	return out
}

func fromScheduleModel(m scheduleModel) domain.Slot {
	clients := make([]string, 0, len(m.Clients))
	for _, c := range m.Clients {
		clients = append(clients, c.ClientID)
	}
	return domain.Slot{
		ID:        m.ID,
		Day:       m.Day,
		StartTime: m.StartTime,
		EndTime:   m.EndTime,
		StartHour: m.StartHour,
		MaxCount:  m.MaxCount,
		Clients:   clients,
	}
}
