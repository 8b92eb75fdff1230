package application

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/AzielCF/az-gym/gymaccess/domain"
	"github.com/AzielCF/az-gym/pkg/timeutils"
	"github.com/shopspring/decimal"
)

const (
	DefaultHistoryPage  = 1
	DefaultHistoryLimit = 20
	MaxHistoryLimit     = 100
	TopClientsLimit     = 5
)

// HistoryService expone el historial paginado y las estadísticas de accesos
type HistoryService struct {
	records  domain.AccessRecordRepository
	loc      *time.Location
	maxLimit int
	now      func() time.Time
}

func NewHistoryService(records domain.AccessRecordRepository, loc *time.Location, maxLimit int) *HistoryService {
	if loc == nil {
		loc = time.UTC
	}
	if maxLimit <= 0 {
		maxLimit = MaxHistoryLimit
	}
	return &HistoryService{records: records, loc: loc, maxLimit: maxLimit, now: time.Now}
}

// WithClock reemplaza el reloj, usado en tests
func (s *HistoryService) WithClock(now func() time.Time) *HistoryService {
	s.now = now
	return s
}

// GetHistory retorna una página del historial, más recientes primero
func (s *HistoryService) GetHistory(ctx context.Context, filter domain.HistoryFilter) (domain.HistoryPage, error) {
	filter = s.normalize(filter)

	records, total, err := s.records.FindAll(ctx, filter)
	if err != nil {
		return domain.HistoryPage{}, fmt.Errorf("find access history: %w", err)
	}
	if records == nil {
		records = []domain.AccessRecord{}
	}

	totalPages := int((total + int64(filter.Limit) - 1) / int64(filter.Limit))
	return domain.HistoryPage{
		Records:    records,
		Total:      total,
		Page:       filter.Page,
		Limit:      filter.Limit,
		TotalPages: totalPages,
	}, nil
}

// GetClientHistory es GetHistory con la cédula fija
func (s *HistoryService) GetClientHistory(ctx context.Context, cedula string, filter domain.HistoryFilter) (domain.HistoryPage, error) {
	filter.Cedula = strings.TrimSpace(cedula)
	return s.GetHistory(ctx, filter)
}

// GetStats calcula los contadores del día y del mes en la zona del gimnasio.
// El promedio diario es accesos del mes / día del mes, redondeado a 2 decimales.
func (s *HistoryService) GetStats(ctx context.Context, filter domain.StatsFilter) (domain.AccessStats, error) {
	now := s.now().In(s.loc)
	today := timeutils.FormatAccessDay(now, s.loc)
	monthStart := timeutils.StartOfMonthDay(now, s.loc)

	var stats domain.AccessStats
	var err error

	if stats.TodayAccesses, err = s.records.CountByDay(ctx, today, true); err != nil {
		return stats, fmt.Errorf("count today accesses: %w", err)
	}
	if stats.TodayDenied, err = s.records.CountByDay(ctx, today, false); err != nil {
		return stats, fmt.Errorf("count today denials: %w", err)
	}
	if stats.MonthAccesses, err = s.records.CountSuccessfulBetween(ctx, monthStart, today); err != nil {
		return stats, fmt.Errorf("count month accesses: %w", err)
	}
	if stats.TopClients, err = s.records.TopClients(ctx, filter, TopClientsLimit); err != nil {
		return stats, fmt.Errorf("top clients: %w", err)
	}
	if stats.TopClients == nil {
		stats.TopClients = []domain.TopClient{}
	}

	stats.AverageAccessesPerDay = averagePerDay(stats.MonthAccesses, now.Day())
	return stats, nil
}

func averagePerDay(monthAccesses int64, dayOfMonth int) float64 {
	if dayOfMonth <= 0 {
		return 0
	}
	return decimal.NewFromInt(monthAccesses).
		Div(decimal.NewFromInt(int64(dayOfMonth))).
		Round(2).
		InexactFloat64()
}

func (s *HistoryService) normalize(filter domain.HistoryFilter) domain.HistoryFilter {
	if filter.Page <= 0 {
		filter.Page = DefaultHistoryPage
	}
	if filter.Limit <= 0 {
		filter.Limit = DefaultHistoryLimit
	}
	if filter.Limit > s.maxLimit {
		filter.Limit = s.maxLimit
	}
	filter.Cedula = strings.TrimSpace(filter.Cedula)
	filter.ClientName = strings.TrimSpace(filter.ClientName)
	return filter
}
