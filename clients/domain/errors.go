package domain

import "errors"

var (
	// ErrClientNotFound se retorna cuando no se encuentra un cliente
	ErrClientNotFound = errors.New("client not found")

	// ErrDuplicateClient se retorna cuando ya existe un cliente con la misma cédula
	ErrDuplicateClient = errors.New("client with this ci already exists")

	// ErrClientDisabled se retorna cuando se intenta operar con un cliente deshabilitado
	ErrClientDisabled = errors.New("client is disabled")
)
