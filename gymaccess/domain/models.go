package domain

import "time"

// AccessRecord es una entrada inmutable del registro de accesos.
// Se escribe exactamente una por cada validación, exitosa o no.
type AccessRecord struct {
	ID                string    `json:"id"`
	ClientID          string    `json:"clientId"`
	Cedula            string    `json:"cedula"`
	AccessDate        time.Time `json:"accessDate"`
	AccessDay         string    `json:"accessDay"` // YYYY-MM-DD en la zona del gimnasio
	Successful        bool      `json:"successful"`
	Reason            string    `json:"reason,omitempty"`
	ScheduleStartTime string    `json:"scheduleStartTime,omitempty"`
	ScheduleEndTime   string    `json:"scheduleEndTime,omitempty"`
	ScheduleID        string    `json:"scheduleId,omitempty"`
	ClientName        string    `json:"clientName,omitempty"`
	ClientPhoto       string    `json:"clientPhoto,omitempty"`
	CreatedAt         time.Time `json:"createdAt"`
}

// AccessRequest es la entrada de una validación
type AccessRequest struct {
	Cedula string `json:"cedula"`
}

type ClientSummary struct {
	Name            string `json:"name"`
	Photo           string `json:"photo"`
	Plan            string `json:"plan"`
	ConsecutiveDays int    `json:"consecutiveDays"`
	TotalAccesses   int    `json:"totalAccesses"`
}

type RewardSummary struct {
	Name         string `json:"name"`
	Description  string `json:"description"`
	RequiredDays int    `json:"requiredDays"`
}

// AccessResponse es la respuesta de toda validación, autorizada o no
type AccessResponse struct {
	Message   string         `json:"message"`
	Authorize bool           `json:"authorize"`
	Client    *ClientSummary `json:"client,omitempty"`
	Reward    *RewardSummary `json:"reward,omitempty"`
}

// GrantUpdate son los cambios que un acceso exitoso aplica sobre el socio
type GrantUpdate struct {
	ClientID        string
	LastAccess      time.Time
	ConsecutiveDays int
}

// GrantResult son los contadores del socio luego de registrar el acceso
type GrantResult struct {
	ConsecutiveDays int
	TotalAccesses   int
}

// HistoryFilter define los filtros del historial de accesos
type HistoryFilter struct {
	Page       int
	Limit      int
	Cedula     string
	ClientName string
	Successful *bool
	StartDate  string // YYYY-MM-DD inclusive
	EndDate    string // YYYY-MM-DD inclusive
}

// Offset calcula el desplazamiento de la página
func (f HistoryFilter) Offset() int {
	if f.Page <= 1 {
		return 0
	}
	return (f.Page - 1) * f.Limit
}

type HistoryPage struct {
	Records    []AccessRecord `json:"records"`
	Total      int64          `json:"total"`
	Page       int            `json:"page"`
	Limit      int            `json:"limit"`
	TotalPages int            `json:"totalPages"`
}

// StatsFilter acota el ranking de socios; vacío significa todo el historial
type StatsFilter struct {
	StartDate string
	EndDate   string
}

type TopClient struct {
	ClientID string `json:"clientId"`
	Cedula   string `json:"cedula"`
	Name     string `json:"name"`
	Accesses int64  `json:"accesses"`
}

type AccessStats struct {
	TodayAccesses         int64       `json:"todayAccesses"`
	TodayDenied           int64       `json:"todayDenied"`
	MonthAccesses         int64       `json:"monthAccesses"`
	TopClients            []TopClient `json:"topClients"`
	AverageAccessesPerDay float64     `json:"averageAccessesPerDay"`
}
