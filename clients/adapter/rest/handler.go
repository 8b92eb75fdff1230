package rest

import (
	"errors"

	"github.com/AzielCF/az-gym/clients/application"
	"github.com/AzielCF/az-gym/clients/domain"
	pkgError "github.com/AzielCF/az-gym/pkg/error"
	"github.com/AzielCF/az-gym/validations"
	"github.com/gofiber/fiber/v2"
)

// ClientHandler maneja las peticiones REST para socios
type ClientHandler struct {
	clientService *application.ClientService
}

// NewClientHandler crea una nueva instancia del handler
func NewClientHandler(clientService *application.ClientService) *ClientHandler {
	return &ClientHandler{clientService: clientService}
}

// RegisterRoutes registra las rutas de socios en el router de Fiber
func (h *ClientHandler) RegisterRoutes(router fiber.Router) {
	clients := router.Group("/clients")

	clients.Get("/", h.ListClients)
	clients.Post("/", h.CreateClient)
	clients.Get("/:id", h.GetClient)
	clients.Put("/:id/enable", h.EnableClient)
	clients.Put("/:id/disable", h.DisableClient)
}

// ListClients lista socios con filtros
func (h *ClientHandler) ListClients(c *fiber.Ctx) error {
	filter := domain.ClientFilter{
		Search: c.Query("search"),
		Limit:  c.QueryInt("limit", 50),
		Offset: c.QueryInt("offset", 0),
	}
	if disabled := c.Query("disabled"); disabled != "" {
		d := disabled == "true"
		filter.Disabled = &d
	}

	clients, err := h.clientService.List(c.UserContext(), filter)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}

	return c.JSON(fiber.Map{"data": clients, "count": len(clients)})
}

// CreateClient da de alta un socio
func (h *ClientHandler) CreateClient(c *fiber.Ctx) error {
	var req domain.CreateClientRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
	}
	if err := validations.ValidateCreateClient(c.UserContext(), req); err != nil {
		var vErr pkgError.ValidationError
		if errors.As(err, &vErr) {
			return c.Status(vErr.StatusCode()).JSON(fiber.Map{"error": vErr.Error()})
		}
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	client := req.ToClient()
	if err := h.clientService.Create(c.UserContext(), client); err != nil {
		if errors.Is(err, domain.ErrDuplicateClient) {
			return c.Status(fiber.StatusConflict).JSON(fiber.Map{"error": err.Error()})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}

	return c.Status(fiber.StatusCreated).JSON(client)
}

// GetClient obtiene un socio por ID
func (h *ClientHandler) GetClient(c *fiber.Ctx) error {
	client, err := h.clientService.GetByID(c.UserContext(), c.Params("id"))
	if err != nil {
		return h.writeError(c, err)
	}
	return c.JSON(client)
}

// EnableClient habilita un socio
func (h *ClientHandler) EnableClient(c *fiber.Ctx) error {
	if err := h.clientService.Enable(c.UserContext(), c.Params("id")); err != nil {
		return h.writeError(c, err)
	}
	return c.JSON(fiber.Map{"success": true})
}

// DisableClient deshabilita un socio
func (h *ClientHandler) DisableClient(c *fiber.Ctx) error {
	if err := h.clientService.Disable(c.UserContext(), c.Params("id")); err != nil {
		return h.writeError(c, err)
	}
	return c.JSON(fiber.Map{"success": true})
}

func (h *ClientHandler) writeError(c *fiber.Ctx, err error) error {
	if errors.Is(err, domain.ErrClientNotFound) {
		nf := pkgError.NotFoundError("Client not found")
		return c.Status(nf.StatusCode()).JSON(fiber.Map{"error": nf.Error(), "code": nf.ErrCode()})
	}
	return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
}
