package rest

import (
	"context"
	"encoding/json"
	"io"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/AzielCF/az-gym/pkg/utils"
	"github.com/AzielCF/az-gym/schedules/application"
	"github.com/AzielCF/az-gym/schedules/repository"
	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func setupScheduleApp(t *testing.T) *fiber.App {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{Logger: logger.Default.LogMode(logger.Silent)})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	repo := repository.NewScheduleGormRepository(db)
	require.NoError(t, repo.InitSchema(context.Background()))

	app := fiber.New()
	NewScheduleHandler(application.NewLookupService(repo), time.UTC).RegisterRoutes(app.Group("/api"))
	return app
}

func decode(t *testing.T, body io.Reader) utils.ResponseData {
	t.Helper()
	var res utils.ResponseData
	require.NoError(t, json.NewDecoder(body).Decode(&res))
	return res
}

func TestScheduleHandler_CreateEnrollAndList(t *testing.T) {
	app := setupScheduleApp(t)

	req := httptest.NewRequest("POST", "/api/schedules", strings.NewReader(`{"day":"Lunes","startTime":"19","endTime":"20","maxCount":1}`))
	req.Header.Set("Content-Type", "application/json")
	resp, err := app.Test(req)
	require.NoError(t, err)
	require.Equal(t, 201, resp.StatusCode)

	created := decode(t, resp.Body)
	slotID := created.Results.(map[string]any)["id"].(string)

	resp, err = app.Test(httptest.NewRequest("POST", "/api/schedules/"+slotID+"/clients/ana", nil))
	require.NoError(t, err)
	assert.Equal(t, 200, resp.StatusCode)

	resp, err = app.Test(httptest.NewRequest("POST", "/api/schedules/"+slotID+"/clients/bruno", nil))
	require.NoError(t, err)
	assert.Equal(t, 409, resp.StatusCode, "el cupo es 1")

	resp, err = app.Test(httptest.NewRequest("GET", "/api/schedules?day=Lunes", nil))
	require.NoError(t, err)
	require.Equal(t, 200, resp.StatusCode)
	list := decode(t, resp.Body).Results.([]any)
	require.Len(t, list, 1)
	assert.Equal(t, []any{"ana"}, list[0].(map[string]any)["clients"])
}

func TestScheduleHandler_ValidationErrors(t *testing.T) {
	app := setupScheduleApp(t)

	req := httptest.NewRequest("POST", "/api/schedules", strings.NewReader(`{"day":"Monday","startTime":"19","endTime":"20"}`))
	req.Header.Set("Content-Type", "application/json")
	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, 400, resp.StatusCode)
	assert.Equal(t, "VALIDATION_ERROR", decode(t, resp.Body).Code)

	resp, err = app.Test(httptest.NewRequest("GET", "/api/schedules?day=Monday", nil))
	require.NoError(t, err)
	assert.Equal(t, 400, resp.StatusCode)

	resp, err = app.Test(httptest.NewRequest("POST", "/api/schedules/missing/clients/ana", nil))
	require.NoError(t, err)
	assert.Equal(t, 404, resp.StatusCode)
}
