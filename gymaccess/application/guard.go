package application

import (
	"context"
	"errors"

	"github.com/AzielCF/az-gym/gymaccess/domain"
	"github.com/AzielCF/az-gym/pkg/checks"
	"github.com/AzielCF/az-gym/pkg/timeutils"
	"github.com/sirupsen/logrus"
)

// DailyGuard detecta si la cédula ya usó hoy el turno de la hora actual o la siguiente
type DailyGuard struct {
	records domain.AccessRecordRepository
	cache   domain.GrantCache // opcional
}

// NewDailyGuard crea el guard; cache puede ser nil
func NewDailyGuard(records domain.AccessRecordRepository, cache domain.GrantCache) *DailyGuard {
	return &DailyGuard{records: records, cache: cache}
}

// CheckScheduleSpecificAccess retorna Denied si el acceso exitoso más reciente del día
// corresponde a currentHour o nextHour. Un error de lectura da Indeterminate.
func (g *DailyGuard) CheckScheduleSpecificAccess(ctx context.Context, cedula, accessDay string, currentHour, nextHour int) checks.Result {
	if g.cache != nil {
		hour, hit, err := g.cache.MatchGrant(ctx, cedula, accessDay, currentHour, nextHour)
		switch {
		case err != nil:
			logrus.WithError(err).Debugf("[GYM_ACCESS] Grant cache lookup failed for %s, falling back to store", cedula)
		case hit:
			return checks.DeniedAtHour(AlreadyAccessedMessage(hour), hour)
		}
	}

	record, err := g.records.FindLatestSuccessfulByCedulaAndDay(ctx, cedula, accessDay)
	if err != nil {
		if errors.Is(err, domain.ErrRecordNotFound) {
			return checks.Allowed()
		}
		logrus.WithError(err).Warnf("[GYM_ACCESS] Daily guard lookup failed for %s", cedula)
		return checks.Indeterminate(err)
	}

	hour, err := timeutils.ParseHour(record.ScheduleStartTime)
	if err != nil {
		logrus.WithError(err).Warnf("[GYM_ACCESS] Record %s has an unreadable schedule start %q", record.ID, record.ScheduleStartTime)
		return checks.Allowed()
	}
	if hour == currentHour || hour == nextHour {
		return checks.DeniedAtHour(AlreadyAccessedMessage(hour), hour)
	}
	return checks.Allowed()
}
