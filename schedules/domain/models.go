package domain

import (
	"context"
	"errors"

	"github.com/AzielCF/az-gym/pkg/timeutils"
)

// Slot es un turno semanal del gimnasio con cupo y socios anotados
type Slot struct {
	ID        string   `json:"id"`
	Day       string   `json:"day"`       // Domingo..Sabado
	StartTime string   `json:"startTime"` // "19" o "19:00", tal como se cargó
	EndTime   string   `json:"endTime"`
	StartHour int      `json:"-"`
	MaxCount  int      `json:"maxCount"`
	Clients   []string `json:"clients"` // IDs de socios anotados
}

// HasClient compara por igualdad de string contra los socios anotados
func (s Slot) HasClient(clientID string) bool {
	for _, c := range s.Clients {
		if c == clientID {
			return true
		}
	}
	return false
}

// Start retorna el inicio normalizado ("06:00")
func (s Slot) Start() string {
	return timeutils.NormalizeTimeFormat(s.StartTime)
}

// End retorna el fin normalizado
func (s Slot) End() string {
	return timeutils.NormalizeTimeFormat(s.EndTime)
}

// IsFull indica si el turno alcanzó su cupo. MaxCount 0 significa sin límite.
func (s Slot) IsFull() bool {
	return s.MaxCount > 0 && len(s.Clients) >= s.MaxCount
}

var (
	ErrSlotNotFound     = errors.New("schedule slot not found")
	ErrSlotFull         = errors.New("schedule slot is full")
	ErrAlreadyEnrolled  = errors.New("client already enrolled in this slot")
	ErrNotEnrolled      = errors.New("client is not enrolled in this slot")
	ErrInvalidDay       = errors.New("invalid day name")
	ErrInvalidTimeRange = errors.New("invalid schedule time range")
)

// ScheduleRepository define las operaciones de persistencia para turnos
type ScheduleRepository interface {
	Create(ctx context.Context, slot *Slot) error
	GetByID(ctx context.Context, id string) (*Slot, error)
	FindByDay(ctx context.Context, day string) ([]Slot, error)
	// FindByDayAndHours retorna los turnos del día cuya hora de inicio está en hours, ordenados por inicio
	FindByDayAndHours(ctx context.Context, day string, hours []int) ([]Slot, error)
	CountByDay(ctx context.Context, day string) (int64, error)
	AddClient(ctx context.Context, slotID, clientID string) error
	RemoveClient(ctx context.Context, slotID, clientID string) error
}
