package middleware

import (
	"errors"

	pkgError "github.com/AzielCF/az-gym/pkg/error"
	"github.com/AzielCF/az-gym/pkg/utils"
	"github.com/gofiber/fiber/v2"
	"github.com/sirupsen/logrus"
)

// Recovery convierte un panic en una respuesta ResponseData.
// Los errores tipados conservan su status; el resto responde 500 sin exponer el detalle.
func Recovery() fiber.Handler {
	return func(ctx *fiber.Ctx) error {
		defer func() {
			r := recover()
			if r == nil {
				return
			}

			logrus.WithFields(logrus.Fields{
				"method":     ctx.Method(),
				"path":       ctx.Path(),
				"request_id": ctx.GetRespHeader(fiber.HeaderXRequestID),
			}).Errorf("[REST] Panic recovered: %v", r)

			res := utils.ResponseData{
				Status:  500,
				Code:    "INTERNAL_SERVER_ERROR",
				Message: "internal server error",
			}

			var generic pkgError.GenericError
			if err, ok := r.(error); ok && errors.As(err, &generic) {
				res.Status = generic.StatusCode()
				res.Code = generic.ErrCode()
				res.Message = generic.Error()
			}

			_ = ctx.Status(res.Status).JSON(res)
		}()

		return ctx.Next()
	}
}
