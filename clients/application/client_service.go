package application

import (
	"context"
	"strings"
	"time"

	"github.com/AzielCF/az-gym/clients/domain"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

// ClientService contiene la lógica de negocio para la gestión de socios
type ClientService struct {
	clientRepo domain.ClientRepository
}

// NewClientService crea una nueva instancia de ClientService
func NewClientService(clientRepo domain.ClientRepository) *ClientService {
	return &ClientService{clientRepo: clientRepo}
}

// Create da de alta un socio habilitado y con contadores en cero
func (s *ClientService) Create(ctx context.Context, client *domain.Client) error {
	if client.ID == "" {
		client.ID = uuid.New().String()
	}
	client.CI = strings.TrimSpace(client.CI)
	client.Disabled = false
	client.ConsecutiveDays = 0
	client.TotalAccesses = 0
	client.LastAccess = nil
	client.CreatedAt = time.Now()
	client.UpdatedAt = client.CreatedAt

	if err := s.clientRepo.Create(ctx, client); err != nil {
		return err
	}
	logrus.Infof("[CLIENTS] Client %s created (ci=%s)", client.ID, client.CI)
	return nil
}

// GetByID obtiene un socio por su ID
func (s *ClientService) GetByID(ctx context.Context, id string) (*domain.Client, error) {
	return s.clientRepo.GetByID(ctx, id)
}

// GetByCI obtiene un socio por su cédula
func (s *ClientService) GetByCI(ctx context.Context, ci string) (*domain.Client, error) {
	return s.clientRepo.GetByCI(ctx, ci)
}

// List obtiene una lista de socios con filtros
func (s *ClientService) List(ctx context.Context, filter domain.ClientFilter) ([]*domain.Client, error) {
	return s.clientRepo.List(ctx, filter)
}

// Enable habilita a un socio
func (s *ClientService) Enable(ctx context.Context, id string) error {
	return s.clientRepo.SetDisabled(ctx, id, false)
}

// Disable deshabilita a un socio; sus validaciones de acceso serán rechazadas
func (s *ClientService) Disable(ctx context.Context, id string) error {
	if err := s.clientRepo.SetDisabled(ctx, id, true); err != nil {
		return err
	}
	logrus.Infof("[CLIENTS] Client %s disabled", id)
	return nil
}
