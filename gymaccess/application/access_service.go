package application

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	clientsDomain "github.com/AzielCF/az-gym/clients/domain"
	"github.com/AzielCF/az-gym/gymaccess/domain"
	"github.com/AzielCF/az-gym/pkg/timeutils"
	rewardsDomain "github.com/AzielCF/az-gym/rewards/domain"
	schedulesDomain "github.com/AzielCF/az-gym/schedules/domain"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

const (
	DefaultEarlyAccess = 10 * time.Minute
	DefaultLateAccess  = 30 * time.Minute
)

// AccessConfig agrupa los parámetros del motor de validación.
// Una ventana en 0 es válida (sin margen); solo los valores negativos toman el default.
type AccessConfig struct {
	Location    *time.Location
	EarlyAccess time.Duration
	LateAccess  time.Duration
	Now         func() time.Time
}

// AccessService es el motor de validación de accesos
type AccessService struct {
	clients   domain.ClientFinder
	schedules domain.ScheduleLookup
	guard     *DailyGuard
	records   domain.AccessRecordRepository
	rewards   domain.RewardFinder
	cache     domain.GrantCache
	cfg       AccessConfig
}

// NewAccessService crea el motor. cache puede ser nil.
func NewAccessService(
	clients domain.ClientFinder,
	schedules domain.ScheduleLookup,
	guard *DailyGuard,
	records domain.AccessRecordRepository,
	rewards domain.RewardFinder,
	cache domain.GrantCache,
	cfg AccessConfig,
) *AccessService {
	if cfg.Location == nil {
		cfg.Location = time.UTC
	}
	if cfg.EarlyAccess < 0 {
		cfg.EarlyAccess = DefaultEarlyAccess
	}
	if cfg.LateAccess < 0 {
		cfg.LateAccess = DefaultLateAccess
	}
	if cfg.Now == nil {
		cfg.Now = time.Now
	}
	return &AccessService{
		clients:   clients,
		schedules: schedules,
		guard:     guard,
		records:   records,
		rewards:   rewards,
		cache:     cache,
		cfg:       cfg,
	}
}

// Location retorna la zona horaria del gimnasio
func (s *AccessService) Location() *time.Location {
	return s.cfg.Location
}

// ValidateAccess decide si la cédula puede ingresar ahora. Nunca retorna error:
// toda invocación deja un registro de acceso y una respuesta estructurada.
func (s *AccessService) ValidateAccess(ctx context.Context, req domain.AccessRequest) (resp domain.AccessResponse) {
	now := s.cfg.Now().In(s.cfg.Location)
	cedula := strings.TrimSpace(req.Cedula)
	accessDay := timeutils.FormatAccessDay(now, s.cfg.Location)

	base := domain.AccessRecord{
		Cedula:     cedula,
		AccessDate: now,
		AccessDay:  accessDay,
	}

	defer func() {
		if r := recover(); r != nil {
			logrus.Errorf("[GYM_ACCESS] Panic validating access for %s: %v", cedula, r)
			resp = s.fail(ctx, base, fmt.Errorf("panic: %v", r))
		}
	}()

	// 1. Socio
	client, err := s.clients.GetByCI(ctx, cedula)
	if err != nil {
		if errors.Is(err, clientsDomain.ErrClientNotFound) {
			return s.deny(ctx, base, MsgClientNotFound)
		}
		return s.fail(ctx, base, fmt.Errorf("find client: %w", err))
	}
	base.ClientID = client.ID
	base.ClientName = client.Name
	base.ClientPhoto = client.Photo

	// 2. Deshabilitado
	if client.Disabled {
		return s.deny(ctx, base, MsgClientDisabled)
	}

	// 3. Turno ya utilizado hoy (permisivo: Indeterminate permite)
	currentHour, nextHour := timeutils.RelevantHours(now)
	if res := s.guard.CheckScheduleSpecificAccess(ctx, cedula, accessDay, currentHour, nextHour); !res.FailOpen() {
		return s.deny(ctx, base, res.Reason)
	}

	// 4. Horario operativo del día (permisivo: Indeterminate permite)
	dayName := timeutils.DayName(now)
	if res := s.schedules.CheckOperatingHours(ctx, dayName, now, ""); !res.FailOpen() {
		return s.deny(ctx, base, res.Reason)
	}

	// 5. Ventana del turno
	slots, err := s.schedules.GetRelevantSchedules(ctx, dayName, now)
	if err != nil {
		return s.fail(ctx, base, err)
	}
	slot, reason, err := s.resolveSlot(slots, client.ID, timeutils.MinuteOf(now))
	if err != nil {
		return s.fail(ctx, base, err)
	}
	if reason != "" {
		return s.deny(ctx, base, reason)
	}

	// 6. Acceso exitoso
	return s.grant(ctx, base, client, *slot, now)
}

// resolveSlot elige el turno que otorga el acceso entre los relevantes en los que el socio está anotado.
// Retorna el motivo de denegación cuando ningún turno habilita el ingreso en este minuto.
func (s *AccessService) resolveSlot(slots []schedulesDomain.Slot, clientID string, minute int) (*schedulesDomain.Slot, string, error) {
	if len(slots) == 0 {
		return nil, "No hay horarios disponibles en este momento", nil
	}

	var enrolled []schedulesDomain.Slot
	for _, slot := range slots {
		if s.schedules.IsClientEnrolled(slot, clientID) {
			enrolled = append(enrolled, slot)
		}
	}
	if len(enrolled) == 0 {
		first := slots[0]
		return nil, fmt.Sprintf("No estas anotado para el horario: %s - %s", first.Start(), first.End()), nil
	}

	var earliestUpcoming, latestExpired *schedulesDomain.Slot
	var upcomingOpens int
	for i := range enrolled {
		window, err := timeutils.NewAccessWindow(enrolled[i].StartTime, s.cfg.EarlyAccess, s.cfg.LateAccess)
		if err != nil {
			return nil, "", fmt.Errorf("slot %s: %w", enrolled[i].ID, err)
		}
		switch {
		case window.Contains(minute):
			return &enrolled[i], "", nil
		case window.TooEarly(minute):
			if earliestUpcoming == nil || window.Opens < upcomingOpens {
				earliestUpcoming, upcomingOpens = &enrolled[i], window.Opens
			}
		default:
			latestExpired = &enrolled[i]
		}
	}

	if earliestUpcoming != nil {
		return nil, tooEarlyMessage(upcomingOpens), nil
	}
	return nil, expiredMessage(latestExpired.Start(), latestExpired.End()), nil
}

func (s *AccessService) grant(ctx context.Context, base domain.AccessRecord, client *clientsDomain.Client, slot schedulesDomain.Slot, now time.Time) domain.AccessResponse {
	consecutive, err := s.nextStreak(ctx, client, base.AccessDay)
	if err != nil {
		return s.fail(ctx, base, err)
	}

	record := base
	record.ID = uuid.New().String()
	record.Successful = true
	record.ScheduleID = slot.ID
	record.ScheduleStartTime = slot.StartTime
	record.ScheduleEndTime = slot.EndTime
	record.CreatedAt = now

	result, err := s.records.RecordGrant(ctx, &record, domain.GrantUpdate{
		ClientID:        client.ID,
		LastAccess:      now,
		ConsecutiveDays: consecutive,
	})
	if err != nil {
		if errors.Is(err, domain.ErrDuplicateGrant) {
			return s.deny(ctx, base, AlreadyAccessedMessage(slot.StartHour))
		}
		return s.fail(ctx, base, fmt.Errorf("record grant: %w", err))
	}

	if s.cache != nil {
		if err := s.cache.RememberGrant(ctx, base.Cedula, base.AccessDay, slot.StartHour); err != nil {
			logrus.WithError(err).Debugf("[GYM_ACCESS] Could not cache grant for %s", base.Cedula)
		}
	}

	logrus.WithFields(logrus.Fields{
		"cedula":      base.Cedula,
		"schedule":    slot.ID,
		"consecutive": result.ConsecutiveDays,
	}).Info("[GYM_ACCESS] Access granted")

	resp := domain.AccessResponse{
		Message:   MsgAccessGranted,
		Authorize: true,
		Client: &domain.ClientSummary{
			Name:            client.Name,
			Photo:           client.Photo,
			Plan:            client.Plan,
			ConsecutiveDays: result.ConsecutiveDays,
			TotalAccesses:   result.TotalAccesses,
		},
	}

	reward, err := s.rewards.FindByRequiredDays(ctx, result.ConsecutiveDays)
	switch {
	case err == nil:
		resp.Reward = &domain.RewardSummary{
			Name:         reward.Name,
			Description:  reward.Description,
			RequiredDays: reward.RequiredDays,
		}
	case !errors.Is(err, rewardsDomain.ErrRewardNotFound):
		logrus.WithError(err).Warnf("[GYM_ACCESS] Reward lookup failed for %s", base.Cedula)
	}

	return resp
}

// nextStreak calcula la racha: +1 si hubo acceso exitoso ayer, 1 si no.
// Un segundo turno en el mismo día conserva la racha ya calculada hoy.
func (s *AccessService) nextStreak(ctx context.Context, client *clientsDomain.Client, accessDay string) (int, error) {
	if client.LastAccess != nil && timeutils.FormatAccessDay(*client.LastAccess, s.cfg.Location) == accessDay && client.ConsecutiveDays > 0 {
		return client.ConsecutiveDays, nil
	}

	yesterday, err := timeutils.PreviousAccessDay(accessDay)
	if err != nil {
		return 0, err
	}
	found, err := s.records.ExistsSuccessfulByClientAndDay(ctx, client.ID, yesterday)
	if err != nil {
		return 0, fmt.Errorf("lookup previous access: %w", err)
	}
	if found {
		return client.ConsecutiveDays + 1, nil
	}
	return 1, nil
}

// deny escribe el registro de denegación y arma la respuesta
func (s *AccessService) deny(ctx context.Context, base domain.AccessRecord, reason string) domain.AccessResponse {
	record := base
	record.ID = uuid.New().String()
	record.Successful = false
	record.Reason = reason
	record.CreatedAt = base.AccessDate

	if err := s.records.Create(ctx, &record); err != nil {
		logrus.WithError(err).Errorf("[GYM_ACCESS] Could not write denial record for %s", base.Cedula)
		return domain.AccessResponse{Message: MsgGenericError, Authorize: false}
	}

	logrus.WithFields(logrus.Fields{"cedula": base.Cedula, "reason": reason}).Info("[GYM_ACCESS] Access denied")
	return domain.AccessResponse{Message: reason, Authorize: false}
}

// fail registra el error inesperado y responde con el mensaje genérico
func (s *AccessService) fail(ctx context.Context, base domain.AccessRecord, cause error) domain.AccessResponse {
	logrus.WithError(cause).Errorf("[GYM_ACCESS] Unexpected error validating %s", base.Cedula)

	record := base
	record.ID = uuid.New().String()
	record.Successful = false
	record.Reason = MsgGenericError
	record.CreatedAt = base.AccessDate

	if err := s.records.Create(ctx, &record); err != nil {
		logrus.WithError(err).Errorf("[GYM_ACCESS] Could not write error record for %s", base.Cedula)
	}
	return domain.AccessResponse{Message: MsgGenericError, Authorize: false}
}
