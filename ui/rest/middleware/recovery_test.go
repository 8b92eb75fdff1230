package middleware

import (
	"encoding/json"
	"net/http/httptest"
	"testing"

	pkgError "github.com/AzielCF/az-gym/pkg/error"
	"github.com/AzielCF/az-gym/pkg/utils"
	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRecovery(t *testing.T) {
	app := fiber.New()
	app.Use(Recovery())
	app.Get("/boom", func(c *fiber.Ctx) error { panic("nil map write") })
	app.Get("/invalid", func(c *fiber.Ctx) error { panic(pkgError.ValidationError("cedula: cannot be blank")) })

	cases := []struct {
		path    string
		status  int
		code    string
		message string
	}{
		{"/boom", 500, "INTERNAL_SERVER_ERROR", "internal server error"},
		{"/invalid", 400, "VALIDATION_ERROR", "cedula: cannot be blank"},
	}

	for _, c := range cases {
		resp, err := app.Test(httptest.NewRequest("GET", c.path, nil))
		require.NoError(t, err)
		assert.Equal(t, c.status, resp.StatusCode, c.path)

		var res utils.ResponseData
		require.NoError(t, json.NewDecoder(resp.Body).Decode(&res))
		assert.Equal(t, c.code, res.Code, c.path)
		assert.Equal(t, c.message, res.Message, c.path)
	}
}
