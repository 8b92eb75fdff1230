package repository

import (
	"context"
	"errors"
	"time"

	"github.com/AzielCF/az-gym/core/database"
	"github.com/AzielCF/az-gym/gymaccess/domain"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// --- Persistence Model ---

type accessRecordModel struct {
	ID                string    `gorm:"primaryKey"`
	ClientID          string    `gorm:"index:idx_access_records_client_day,priority:1"`
	Cedula            string    `gorm:"index:idx_access_records_cedula_day,priority:1;not null"`
	AccessDate        time.Time `gorm:"not null"`
	AccessDay         string    `gorm:"index:idx_access_records_cedula_day,priority:2;index:idx_access_records_client_day,priority:2;index:idx_access_records_day;not null"`
	Successful        bool      `gorm:"not null"`
	Reason            string
	ScheduleStartTime string
	ScheduleEndTime   string
	ScheduleID        string
	ClientName        string `gorm:"index:idx_access_records_client_name"`
	ClientPhoto       string
	CreatedAt         time.Time `gorm:"not null"`
}

func (accessRecordModel) TableName() string {
	return "access_records"
}

// Un solo acceso exitoso por socio, día y turno
const grantIndexSQL = `CREATE UNIQUE INDEX IF NOT EXISTS idx_access_records_grant
	ON access_records (client_id, access_day, schedule_id) WHERE successful = true`

// --- Repository Implementation ---

type AccessRecordGormRepository struct {
	db *gorm.DB
}

func NewAccessRecordGormRepository(db *gorm.DB) *AccessRecordGormRepository {
	return &AccessRecordGormRepository{db: db}
}

func (r *AccessRecordGormRepository) InitSchema(ctx context.Context) error {
	db := r.db.WithContext(ctx)
	if err := db.AutoMigrate(&accessRecordModel{}); err != nil {
		return err
	}
	return db.Exec(grantIndexSQL).Error
}

func (r *AccessRecordGormRepository) Create(ctx context.Context, record *domain.AccessRecord) error {
	prepare(record)
	m := toAccessRecordModel(record)
	if err := r.db.WithContext(ctx).Create(&m).Error; err != nil {
		if record.Successful && database.IsDuplicateKey(err) {
			return domain.ErrDuplicateGrant
		}
		return err
	}
	return nil
}

func (r *AccessRecordGormRepository) FindLatestSuccessfulByCedulaAndDay(ctx context.Context, cedula, day string) (*domain.AccessRecord, error) {
	var m accessRecordModel
	err := r.db.WithContext(ctx).
		Where("cedula = ? AND access_day = ? AND successful = ?", cedula, day, true).
		Order("access_date DESC").
		First(&m).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrRecordNotFound
		}
		return nil, err
	}
	rec := fromAccessRecordModel(m)
	return &rec, nil
}

func (r *AccessRecordGormRepository) ExistsSuccessfulByClientAndDay(ctx context.Context, clientID, day string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&accessRecordModel{}).
		Where("client_id = ? AND access_day = ? AND successful = ?", clientID, day, true).
		Count(&count).Error
	return count > 0, err
}

// RecordGrant inserta el acceso exitoso y actualiza el socio en la misma transacción.
// total_accesses se incrementa en la base para no perder actualizaciones concurrentes.
func (r *AccessRecordGormRepository) RecordGrant(ctx context.Context, record *domain.AccessRecord, update domain.GrantUpdate) (domain.GrantResult, error) {
	prepare(record)
	record.Successful = true
	m := toAccessRecordModel(record)

	var result domain.GrantResult
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&m).Error; err != nil {
			if database.IsDuplicateKey(err) {
				return domain.ErrDuplicateGrant
			}
			return err
		}

		res := tx.Table("clients").
			Where("id = ?", update.ClientID).
			Updates(map[string]any{
				"last_access":      update.LastAccess,
				"consecutive_days": update.ConsecutiveDays,
				"total_accesses":   gorm.Expr("total_accesses + ?", 1),
				"updated_at":       time.Now(),
			})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return domain.ErrClientNotFound
		}

		var counters struct {
			ConsecutiveDays int
			TotalAccesses   int
		}
		if err := tx.Table("clients").
			Select("consecutive_days, total_accesses").
			Where("id = ?", update.ClientID).
			Scan(&counters).Error; err != nil {
			return err
		}
		result = domain.GrantResult{
			ConsecutiveDays: counters.ConsecutiveDays,
			TotalAccesses:   counters.TotalAccesses,
		}
		return nil
	})
	return result, err
}

func (r *AccessRecordGormRepository) FindAll(ctx context.Context, filter domain.HistoryFilter) ([]domain.AccessRecord, int64, error) {
	query := r.db.WithContext(ctx).Model(&accessRecordModel{})

	if filter.Cedula != "" {
		query = query.Where("cedula = ?", filter.Cedula)
	}
	if filter.ClientName != "" {
		query = query.Where("client_name LIKE ?", "%"+filter.ClientName+"%")
	}
	if filter.Successful != nil {
		query = query.Where("successful = ?", *filter.Successful)
	}
	if filter.StartDate != "" {
		query = query.Where("access_day >= ?", filter.StartDate)
	}
	if filter.EndDate != "" {
		query = query.Where("access_day <= ?", filter.EndDate)
	}

	var total int64
	if err := query.Session(&gorm.Session{}).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var models []accessRecordModel
	q := query.Session(&gorm.Session{}).Order("access_date DESC").Order("created_at DESC")
	if filter.Limit > 0 {
		q = q.Limit(filter.Limit).Offset(filter.Offset())
	}
	if err := q.Find(&models).Error; err != nil {
		return nil, 0, err
	}

	records := make([]domain.AccessRecord, 0, len(models))
	for _, m := range models {
		records = append(records, fromAccessRecordModel(m))
	}
	return records, total, nil
}

func (r *AccessRecordGormRepository) CountByDay(ctx context.Context, day string, successful bool) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&accessRecordModel{}).
		Where("access_day = ? AND successful = ?", day, successful).
		Count(&count).Error
	return count, err
}

func (r *AccessRecordGormRepository) CountSuccessfulBetween(ctx context.Context, fromDay, toDay string) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&accessRecordModel{}).
		Where("access_day >= ? AND access_day <= ? AND successful = ?", fromDay, toDay, true).
		Count(&count).Error
	return count, err
}

func (r *AccessRecordGormRepository) TopClients(ctx context.Context, filter domain.StatsFilter, limit int) ([]domain.TopClient, error) {
	query := r.db.WithContext(ctx).Model(&accessRecordModel{}).
		Select("client_id, MAX(cedula) AS cedula, MAX(client_name) AS name, COUNT(*) AS accesses").
		Where("successful = ? AND client_id <> ''", true)

	if filter.StartDate != "" {
		query = query.Where("access_day >= ?", filter.StartDate)
	}
	if filter.EndDate != "" {
		query = query.Where("access_day <= ?", filter.EndDate)
	}

	var rows []domain.TopClient
	err := query.Group("client_id").
		Order("accesses DESC").
		Order("client_id ASC").
		Limit(limit).
		Scan(&rows).Error
	return rows, err
}

// --- Mappers ---

func prepare(record *domain.AccessRecord) {
	if record.ID == "" {
		record.ID = uuid.New().String()
	}
	if record.CreatedAt.IsZero() {
		record.CreatedAt = time.Now()
	}
	if record.AccessDate.IsZero() {
		record.AccessDate = record.CreatedAt
	}
}

func toAccessRecordModel(r *domain.AccessRecord) accessRecordModel {
	return accessRecordModel{
		ID:                r.ID,
		ClientID:          r.ClientID,
		Cedula:            r.Cedula,
		AccessDate:        r.AccessDate.UTC(),
		AccessDay:         r.AccessDay,
		Successful:        r.Successful,
		Reason:            r.Reason,
		ScheduleStartTime: r.ScheduleStartTime,
		ScheduleEndTime:   r.ScheduleEndTime,
		ScheduleID:        r.ScheduleID,
		ClientName:        r.ClientName,
		ClientPhoto:       r.ClientPhoto,
		CreatedAt:         r.CreatedAt.UTC(),
	}
}

func fromAccessRecordModel(m accessRecordModel) domain.AccessRecord {
	return domain.AccessRecord{
		ID:                m.ID,
		ClientID:          m.ClientID,
		Cedula:            m.Cedula,
		AccessDate:        m.AccessDate,
		AccessDay:         m.AccessDay,
		Successful:        m.Successful,
		Reason:            m.Reason,
		ScheduleStartTime: m.ScheduleStartTime,
		ScheduleEndTime:   m.ScheduleEndTime,
		ScheduleID:        m.ScheduleID,
		ClientName:        m.ClientName,
		ClientPhoto:       m.ClientPhoto,
		CreatedAt:         m.CreatedAt,
	}
}
