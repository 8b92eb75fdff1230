package application

import (
	"fmt"

	"github.com/AzielCF/az-gym/pkg/timeutils"
)

const (
	MsgClientNotFound = "Cliente no encontrado en el sistema"
	MsgClientDisabled = "Cliente deshabilitado"
	MsgGenericError   = "Error al validar el acceso"
	MsgAccessGranted  = "Acceso autorizado"
)

// AlreadyAccessedMessage es la denegación por turno ya utilizado en el día
func AlreadyAccessedMessage(hour int) string {
	return "Ya registraste acceso hoy en el horario " + timeutils.HourRangeLabel(hour)
}

func tooEarlyMessage(opensAt int) string {
	return fmt.Sprintf("Todavía es temprano, podés ingresar a partir de las %s", timeutils.FormatMinutes(opensAt))
}

func expiredMessage(start, end string) string {
	return fmt.Sprintf("El horario %s-%s ya no está disponible", start, end)
}
