package rest

import (
	"errors"
	"time"

	pkgError "github.com/AzielCF/az-gym/pkg/error"
	"github.com/AzielCF/az-gym/pkg/timeutils"
	"github.com/AzielCF/az-gym/pkg/utils"
	"github.com/AzielCF/az-gym/schedules/application"
	"github.com/AzielCF/az-gym/schedules/domain"
	"github.com/AzielCF/az-gym/validations"
	"github.com/gofiber/fiber/v2"
)

// ScheduleHandler expone la administración de turnos
type ScheduleHandler struct {
	service *application.LookupService
	loc     *time.Location
}

func NewScheduleHandler(service *application.LookupService, loc *time.Location) *ScheduleHandler {
	if loc == nil {
		loc = time.UTC
	}
	return &ScheduleHandler{service: service, loc: loc}
}

func (h *ScheduleHandler) RegisterRoutes(router fiber.Router) {
	group := router.Group("/schedules")
	group.Get("/", h.ListByDay)
	group.Post("/", h.Create)
	group.Post("/:id/clients/:clientId", h.Enroll)
	group.Delete("/:id/clients/:clientId", h.Unenroll)
}

// ListByDay lista los turnos del día indicado (por defecto, los de hoy en la zona del gimnasio)
func (h *ScheduleHandler) ListByDay(c *fiber.Ctx) error {
	day := c.Query("day")
	if day == "" {
		day = timeutils.CurrentDayName(h.loc)
	}

	slots, err := h.service.ListByDay(c.UserContext(), day)
	if err != nil {
		return h.writeError(c, err)
	}
	return c.JSON(utils.ResponseData{
		Status:  200,
		Code:    "SUCCESS",
		Message: "Schedules retrieved",
		Results: slots,
	})
}

func (h *ScheduleHandler) Create(c *fiber.Ctx) error {
	var req domain.CreateSlotRequest
	if err := c.BodyParser(&req); err != nil {
		return h.writeError(c, pkgError.ValidationError("invalid request body"))
	}
	if err := validations.ValidateCreateSlot(c.UserContext(), req); err != nil {
		return h.writeError(c, err)
	}

	slot, err := h.service.Create(c.UserContext(), req)
	if err != nil {
		return h.writeError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(utils.ResponseData{
		Status:  201,
		Code:    "SUCCESS",
		Message: "Schedule created",
		Results: slot,
	})
}

func (h *ScheduleHandler) Enroll(c *fiber.Ctx) error {
	if err := h.service.Enroll(c.UserContext(), c.Params("id"), c.Params("clientId")); err != nil {
		return h.writeError(c, err)
	}
	return c.JSON(utils.ResponseData{Status: 200, Code: "SUCCESS", Message: "Client enrolled"})
}

func (h *ScheduleHandler) Unenroll(c *fiber.Ctx) error {
	if err := h.service.Unenroll(c.UserContext(), c.Params("id"), c.Params("clientId")); err != nil {
		return h.writeError(c, err)
	}
	return c.JSON(utils.ResponseData{Status: 200, Code: "SUCCESS", Message: "Client removed"})
}

func (h *ScheduleHandler) writeError(c *fiber.Ctx, err error) error {
	res := utils.ResponseData{Status: 500, Code: "INTERNAL_SERVER_ERROR", Message: err.Error()}

	var generic pkgError.GenericError
	switch {
	case errors.As(err, &generic):
		res.Status, res.Code = generic.StatusCode(), generic.ErrCode()
	case errors.Is(err, domain.ErrSlotNotFound), errors.Is(err, domain.ErrNotEnrolled):
		res.Status, res.Code = 404, "NOT_FOUND_ERROR"
	case errors.Is(err, domain.ErrSlotFull), errors.Is(err, domain.ErrAlreadyEnrolled):
		res.Status, res.Code = 409, "CONFLICT"
	case errors.Is(err, domain.ErrInvalidDay), errors.Is(err, domain.ErrInvalidTimeRange):
		res.Status, res.Code = 400, "VALIDATION_ERROR"
	}
	return c.Status(res.Status).JSON(res)
}
