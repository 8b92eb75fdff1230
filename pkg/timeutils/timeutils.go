package timeutils

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// AccessDayLayout es el formato de la clave diaria usada para deduplicar accesos
const AccessDayLayout = "2006-01-02"

// DefaultTimezone es la zona horaria usada cuando no se configura ninguna
const DefaultTimezone = "America/Montevideo"

// dayNames sigue el orden de time.Weekday (Domingo primero)
var dayNames = [7]string{"Domingo", "Lunes", "Martes", "Miercoles", "Jueves", "Viernes", "Sabado"}

// DayNames retorna los nombres de día en orden Domingo..Sabado
func DayNames() []string {
	out := make([]string, len(dayNames))
	copy(out, dayNames[:])
	return out
}

// IsValidDayName verifica si el nombre corresponde a uno de los 7 días conocidos
func IsValidDayName(day string) bool {
	for _, d := range dayNames {
		if d == day {
			return true
		}
	}
	return false
}

// LoadLocation resuelve la zona horaria del gimnasio. Vacío usa DefaultTimezone.
func LoadLocation(name string) (*time.Location, error) {
	if strings.TrimSpace(name) == "" {
		name = DefaultTimezone
	}
	loc, err := time.LoadLocation(name)
	if err != nil {
		return nil, fmt.Errorf("invalid timezone %q: %w", name, err)
	}
	return loc, nil
}

// DayName retorna el nombre del día de t
func DayName(t time.Time) string {
	return dayNames[t.Weekday()]
}

// CurrentDayName retorna el nombre del día actual en la zona indicada
func CurrentDayName(loc *time.Location) string {
	return DayName(time.Now().In(loc))
}

// CurrentTimeString retorna la hora de t como "HH:MM"
func CurrentTimeString(t time.Time) string {
	return fmt.Sprintf("%02d:%02d", t.Hour(), t.Minute())
}

// FormatAccessDay es la única función que deriva la clave "YYYY-MM-DD" de un instante.
// Todo cálculo de "hoy" o "ayer" debe pasar por acá para no mezclar UTC con hora local.
func FormatAccessDay(t time.Time, loc *time.Location) string {
	if loc == nil {
		loc = time.UTC
	}
	return t.In(loc).Format(AccessDayLayout)
}

// PreviousAccessDay retorna la clave del día anterior a day
func PreviousAccessDay(day string) (string, error) {
	d, err := time.Parse(AccessDayLayout, day)
	if err != nil {
		return "", fmt.Errorf("invalid access day %q: %w", day, err)
	}
	return d.AddDate(0, 0, -1).Format(AccessDayLayout), nil
}

// StartOfMonthDay retorna la clave del primer día del mes de t
func StartOfMonthDay(t time.Time, loc *time.Location) string {
	local := t.In(loc)
	return time.Date(local.Year(), local.Month(), 1, 0, 0, 0, 0, loc).Format(AccessDayLayout)
}

// NormalizeTimeFormat convierte una hora suelta ("6") en "06:00".
// Si ya contiene ":" se retorna sin cambios; cualquier otro valor también
// se retorna sin cambios y el llamador debe tratarlo como inválido.
func NormalizeTimeFormat(t string) string {
	if strings.Contains(t, ":") {
		return t
	}
	hour, err := strconv.Atoi(t)
	if err != nil || hour < 0 || hour > 23 {
		return t
	}
	return fmt.Sprintf("%02d:00", hour)
}

// ParseHour extrae la hora de "19", "19:30" o "7:05"
func ParseHour(t string) (int, error) {
	t = strings.TrimSpace(t)
	if t == "" {
		return 0, fmt.Errorf("empty time")
	}
	hourPart := t
	if idx := strings.Index(t, ":"); idx >= 0 {
		hourPart = t[:idx]
	}
	hour, err := strconv.Atoi(hourPart)
	if err != nil {
		return 0, fmt.Errorf("invalid hour in %q", t)
	}
	if hour < 0 || hour > 23 {
		return 0, fmt.Errorf("hour out of range in %q", t)
	}
	return hour, nil
}

// MinutesOfDay convierte "HH:MM" (o una hora suelta) en minutos desde medianoche
func MinutesOfDay(t string) (int, error) {
	normalized := NormalizeTimeFormat(strings.TrimSpace(t))
	parts := strings.Split(normalized, ":")
	if len(parts) != 2 {
		return 0, fmt.Errorf("invalid time format %q, expected HH:MM", t)
	}
	hour, err := strconv.Atoi(parts[0])
	if err != nil || hour < 0 || hour > 23 {
		return 0, fmt.Errorf("invalid hour in %q", t)
	}
	minute, err := strconv.Atoi(parts[1])
	if err != nil || minute < 0 || minute > 59 {
		return 0, fmt.Errorf("invalid minute in %q", t)
	}
	return hour*60 + minute, nil
}

// MinuteOf retorna los minutos desde medianoche de t
func MinuteOf(t time.Time) int {
	return t.Hour()*60 + t.Minute()
}

// FormatMinutes convierte minutos desde medianoche en "HH:MM"
func FormatMinutes(m int) string {
	m = ((m % (24 * 60)) + 24*60) % (24 * 60)
	return fmt.Sprintf("%02d:%02d", m/60, m%60)
}

// NextHour retorna la hora siguiente sin volver a 0: a las 23 retorna 24,
// que no coincide con ningún turno del mismo día.
func NextHour(hour int) int {
	return hour + 1
}

// RelevantHours retorna la hora actual y la siguiente
func RelevantHours(t time.Time) (int, int) {
	return t.Hour(), NextHour(t.Hour())
}

// HourRangeLabel formatea un bloque de una hora como "H:00 - H:00", sin ceros a la izquierda
func HourRangeLabel(hour int) string {
	return fmt.Sprintf("%d:00 - %d:00", hour, NextHour(hour))
}

// AccessWindow es el rango de minutos (inclusivo) en que un turno habilita el acceso
type AccessWindow struct {
	Start  int // inicio del turno
	Opens  int
	Closes int
}

// NewAccessWindow construye la ventana [start-before, start+after]
func NewAccessWindow(start string, before, after time.Duration) (AccessWindow, error) {
	startMin, err := MinutesOfDay(start)
	if err != nil {
		return AccessWindow{}, err
	}
	return AccessWindow{
		Start:  startMin,
		Opens:  startMin - int(before/time.Minute),
		Closes: startMin + int(after/time.Minute),
	}, nil
}

// Contains indica si el minuto cae dentro de la ventana
func (w AccessWindow) Contains(minute int) bool {
	return minute >= w.Opens && minute <= w.Closes
}

// TooEarly indica si el minuto es anterior a la apertura
func (w AccessWindow) TooEarly(minute int) bool {
	return minute < w.Opens
}

// Expired indica si el minuto es posterior al cierre
func (w AccessWindow) Expired(minute int) bool {
	return minute > w.Closes
}
