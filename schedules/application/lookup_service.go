package application

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/AzielCF/az-gym/pkg/checks"
	"github.com/AzielCF/az-gym/pkg/timeutils"
	"github.com/AzielCF/az-gym/schedules/domain"
	"github.com/sirupsen/logrus"
)

// MsgNoSchedulesToday es el motivo cuando el día no tiene ningún turno
const MsgNoSchedulesToday = "No hay horarios disponibles para hoy"

// MsgNoSchedulesNow es el motivo cuando no hay turno en la hora actual ni en la siguiente
const MsgNoSchedulesNow = "No hay horarios disponibles en este momento"

// LookupService resuelve qué turnos aplican a un instante dado
type LookupService struct {
	repo domain.ScheduleRepository
}

// NewLookupService crea una nueva instancia de LookupService
func NewLookupService(repo domain.ScheduleRepository) *LookupService {
	return &LookupService{repo: repo}
}

// GetRelevantSchedules retorna los turnos de day que empiezan en la hora de currentTime o en la siguiente
func (s *LookupService) GetRelevantSchedules(ctx context.Context, day string, currentTime time.Time) ([]domain.Slot, error) {
	current, next := timeutils.RelevantHours(currentTime)
	slots, err := s.repo.FindByDayAndHours(ctx, day, []int{current, next})
	if err != nil {
		return nil, fmt.Errorf("find schedules for %s: %w", day, err)
	}
	return slots, nil
}

// IsClientEnrolled indica si el socio está anotado en el turno
func (s *LookupService) IsClientEnrolled(slot domain.Slot, clientID string) bool {
	return slot.HasClient(clientID)
}

// CheckOperatingHours es el filtro grueso previo a la ventana de acceso.
// Sin clientID alcanza con que el día tenga algún turno; con clientID el socio
// debe estar anotado en un turno relevante. Un error del store da Indeterminate.
func (s *LookupService) CheckOperatingHours(ctx context.Context, day string, currentTime time.Time, clientID string) checks.Result {
	if clientID == "" {
		count, err := s.repo.CountByDay(ctx, day)
		if err != nil {
			logrus.WithError(err).Warnf("[SCHEDULES] Operating hours lookup failed for %s", day)
			return checks.Indeterminate(err)
		}
		if count == 0 {
			return checks.Denied(MsgNoSchedulesToday)
		}
		return checks.Allowed()
	}

	slots, err := s.GetRelevantSchedules(ctx, day, currentTime)
	if err != nil {
		logrus.WithError(err).Warnf("[SCHEDULES] Operating hours lookup failed for %s", day)
		return checks.Indeterminate(err)
	}
	for _, slot := range slots {
		if slot.HasClient(clientID) {
			return checks.Allowed()
		}
	}
	if len(slots) == 0 {
		return checks.Denied(MsgNoSchedulesNow)
	}
	return checks.Denied(NotEnrolledMessage(slots[0]))
}

// NotEnrolledMessage arma el motivo de denegación usando el turno como ejemplo
func NotEnrolledMessage(slot domain.Slot) string {
	return fmt.Sprintf("No estas anotado para el horario: %s - %s", slot.Start(), slot.End())
}

// ListByDay lista los turnos de un día ordenados por hora de inicio
func (s *LookupService) ListByDay(ctx context.Context, day string) ([]domain.Slot, error) {
	if !timeutils.IsValidDayName(day) {
		return nil, domain.ErrInvalidDay
	}
	return s.repo.FindByDay(ctx, day)
}

// Create da de alta un turno validando día y horario
func (s *LookupService) Create(ctx context.Context, req domain.CreateSlotRequest) (*domain.Slot, error) {
	day := strings.TrimSpace(req.Day)
	if !timeutils.IsValidDayName(day) {
		return nil, domain.ErrInvalidDay
	}
	start, err := timeutils.MinutesOfDay(req.StartTime)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrInvalidTimeRange, err)
	}
	end, err := timeutils.MinutesOfDay(req.EndTime)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrInvalidTimeRange, err)
	}
	if end <= start {
		return nil, domain.ErrInvalidTimeRange
	}

	slot := &domain.Slot{
		Day:       day,
		StartTime: strings.TrimSpace(req.StartTime),
		EndTime:   strings.TrimSpace(req.EndTime),
		MaxCount:  req.MaxCount,
		Clients:   []string{},
	}
	if err := s.repo.Create(ctx, slot); err != nil {
		return nil, err
	}
	logrus.Infof("[SCHEDULES] Slot %s created: %s %s-%s", slot.ID, slot.Day, slot.Start(), slot.End())
	return slot, nil
}

// Enroll anota a un socio en un turno respetando el cupo
func (s *LookupService) Enroll(ctx context.Context, slotID, clientID string) error {
	return s.repo.AddClient(ctx, slotID, clientID)
}

// Unenroll quita a un socio de un turno
func (s *LookupService) Unenroll(ctx context.Context, slotID, clientID string) error {
	return s.repo.RemoveClient(ctx, slotID, clientID)
}
