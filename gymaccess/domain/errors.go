package domain

import "errors"

var (
	// ErrRecordNotFound se retorna cuando no existe un registro de acceso para la consulta
	ErrRecordNotFound = errors.New("access record not found")

	// ErrDuplicateGrant se retorna cuando el socio ya tiene un acceso exitoso en el mismo turno y día
	ErrDuplicateGrant = errors.New("access already granted for this schedule today")

	// ErrClientNotFound se retorna cuando el socio desapareció entre la validación y el registro
	ErrClientNotFound = errors.New("client not found while recording access")
)
