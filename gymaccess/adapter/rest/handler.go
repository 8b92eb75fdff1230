package rest

import (
	"context"
	"errors"
	"strings"

	"github.com/AzielCF/az-gym/gymaccess/application"
	"github.com/AzielCF/az-gym/gymaccess/domain"
	"github.com/AzielCF/az-gym/pkg/accessworker"
	pkgError "github.com/AzielCF/az-gym/pkg/error"
	"github.com/AzielCF/az-gym/pkg/utils"
	"github.com/AzielCF/az-gym/validations"
	"github.com/gofiber/fiber/v2"
	"github.com/sirupsen/logrus"
)

// Serializer ejecuta fn de forma serial para la misma clave
type Serializer interface {
	Do(ctx context.Context, key string, fn func(ctx context.Context) error) error
}

// GymAccessHandler expone la validación de accesos, el historial y las estadísticas
type GymAccessHandler struct {
	access  *application.AccessService
	history *application.HistoryService
	workers Serializer
}

func NewGymAccessHandler(access *application.AccessService, history *application.HistoryService, workers Serializer) *GymAccessHandler {
	return &GymAccessHandler{access: access, history: history, workers: workers}
}

func (h *GymAccessHandler) RegisterRoutes(router fiber.Router) {
	group := router.Group("/gym-access")
	group.Post("/validate", h.Validate)
	group.Get("/history", h.History)
	group.Get("/stats", h.Stats)
	group.Get("/client/:cedula/history", h.ClientHistory)
}

// Validate responde 200 también para las denegaciones de negocio.
// Un cuerpo ilegible o una cédula vacía o de más de 32 caracteres da 400 antes de llegar
// al motor, así que no deja registro de acceso; todo lo demás queda registrado.
func (h *GymAccessHandler) Validate(c *fiber.Ctx) error {
	var req domain.AccessRequest
	if err := c.BodyParser(&req); err != nil {
		return writeError(c, pkgError.ValidationError("invalid request body"))
	}
	req.Cedula = strings.TrimSpace(req.Cedula)
	if err := validations.ValidateAccessRequest(c.UserContext(), req); err != nil {
		return writeError(c, err)
	}

	var resp domain.AccessResponse
	run := func(ctx context.Context) error {
		resp = h.access.ValidateAccess(ctx, req)
		return nil
	}

	var err error
	if h.workers != nil {
		err = h.workers.Do(c.UserContext(), req.Cedula, run)
	} else {
		err = run(c.UserContext())
	}
	if err != nil {
		if errors.Is(err, accessworker.ErrQueueFull) || errors.Is(err, accessworker.ErrPoolStopped) {
			logrus.WithError(err).Warnf("[GYM_ACCESS] Validation for %s rejected", req.Cedula)
			return writeError(c, pkgError.ServiceUnavailableError("access validation queue is full, try again"))
		}
		return writeError(c, err)
	}

	return c.JSON(resp)
}

func (h *GymAccessHandler) History(c *fiber.Ctx) error {
	filter, err := parseHistoryFilter(c)
	if err != nil {
		return writeError(c, err)
	}
	page, err := h.history.GetHistory(c.UserContext(), filter)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(utils.ResponseData{
		Status:  200,
		Code:    "SUCCESS",
		Message: "Access history retrieved",
		Results: page,
	})
}

func (h *GymAccessHandler) ClientHistory(c *fiber.Ctx) error {
	filter, err := parseHistoryFilter(c)
	if err != nil {
		return writeError(c, err)
	}
	page, err := h.history.GetClientHistory(c.UserContext(), c.Params("cedula"), filter)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(utils.ResponseData{
		Status:  200,
		Code:    "SUCCESS",
		Message: "Client access history retrieved",
		Results: page,
	})
}

func (h *GymAccessHandler) Stats(c *fiber.Ctx) error {
	filter := domain.StatsFilter{
		StartDate: c.Query("startDate"),
		EndDate:   c.Query("endDate"),
	}
	if err := validations.ValidateStatsFilter(c.UserContext(), filter); err != nil {
		return writeError(c, err)
	}

	stats, err := h.history.GetStats(c.UserContext(), filter)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(utils.ResponseData{
		Status:  200,
		Code:    "SUCCESS",
		Message: "Access stats retrieved",
		Results: stats,
	})
}

func parseHistoryFilter(c *fiber.Ctx) (domain.HistoryFilter, error) {
	filter := domain.HistoryFilter{
		Page:       c.QueryInt("page", application.DefaultHistoryPage),
		Limit:      c.QueryInt("limit", application.DefaultHistoryLimit),
		Cedula:     c.Query("cedula"),
		ClientName: c.Query("clientName"),
		StartDate:  c.Query("startDate"),
		EndDate:    c.Query("endDate"),
	}
	switch strings.ToLower(c.Query("successful")) {
	case "true", "1":
		v := true
		filter.Successful = &v
	case "false", "0":
		v := false
		filter.Successful = &v
	case "":
	default:
		return filter, pkgError.ValidationError("successful: must be true or false")
	}

	if err := validations.ValidateHistoryFilter(c.UserContext(), filter); err != nil {
		return filter, err
	}
	return filter, nil
}

func writeError(c *fiber.Ctx, err error) error {
	res := utils.ResponseData{Status: 500, Code: "INTERNAL_SERVER_ERROR", Message: err.Error()}

	var generic pkgError.GenericError
	if errors.As(err, &generic) {
		res.Status, res.Code = generic.StatusCode(), generic.ErrCode()
	} else {
		logrus.WithError(err).Error("[GYM_ACCESS] Request failed")
	}
	return c.Status(res.Status).JSON(res)
}
