package domain

import (
	"context"
	"time"

	clientsDomain "github.com/AzielCF/az-gym/clients/domain"
	"github.com/AzielCF/az-gym/pkg/checks"
	rewardsDomain "github.com/AzielCF/az-gym/rewards/domain"
	schedulesDomain "github.com/AzielCF/az-gym/schedules/domain"
)

// AccessRecordRepository define las operaciones de persistencia del registro de accesos
type AccessRecordRepository interface {
	Create(ctx context.Context, record *AccessRecord) error
	// FindLatestSuccessfulByCedulaAndDay retorna el acceso exitoso más reciente del día o ErrRecordNotFound
	FindLatestSuccessfulByCedulaAndDay(ctx context.Context, cedula, day string) (*AccessRecord, error)
	ExistsSuccessfulByClientAndDay(ctx context.Context, clientID, day string) (bool, error)
	// RecordGrant guarda el acceso exitoso y actualiza los contadores del socio en una transacción
	RecordGrant(ctx context.Context, record *AccessRecord, update GrantUpdate) (GrantResult, error)
	FindAll(ctx context.Context, filter HistoryFilter) ([]AccessRecord, int64, error)
	CountByDay(ctx context.Context, day string, successful bool) (int64, error)
	CountSuccessfulBetween(ctx context.Context, fromDay, toDay string) (int64, error)
	TopClients(ctx context.Context, filter StatsFilter, limit int) ([]TopClient, error)
}

// GrantCache recuerda qué horas ya otorgaron acceso a una cédula en un día
type GrantCache interface {
	// MatchGrant retorna la primera de hours que ya tiene acceso registrado
	MatchGrant(ctx context.Context, cedula, day string, hours ...int) (int, bool, error)
	RememberGrant(ctx context.Context, cedula, day string, hour int) error
}

// ClientFinder resuelve socios por cédula
type ClientFinder interface {
	GetByCI(ctx context.Context, ci string) (*clientsDomain.Client, error)
}

// ScheduleLookup resuelve los turnos aplicables a un instante
type ScheduleLookup interface {
	GetRelevantSchedules(ctx context.Context, day string, currentTime time.Time) ([]schedulesDomain.Slot, error)
	CheckOperatingHours(ctx context.Context, day string, currentTime time.Time, clientID string) checks.Result
	IsClientEnrolled(slot schedulesDomain.Slot, clientID string) bool
}

// RewardFinder busca premios por racha exacta
type RewardFinder interface {
	FindByRequiredDays(ctx context.Context, days int) (*rewardsDomain.Reward, error)
}
