package cmd

import (
	"context"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	clientsRest "github.com/AzielCF/az-gym/clients/adapter/rest"
	coreconfig "github.com/AzielCF/az-gym/core/config"
	gymRest "github.com/AzielCF/az-gym/gymaccess/adapter/rest"
	"github.com/AzielCF/az-gym/pkg/accessworker"
	pkgError "github.com/AzielCF/az-gym/pkg/error"
	"github.com/AzielCF/az-gym/pkg/utils"
	schedulesApp "github.com/AzielCF/az-gym/schedules/application"
	schedulesRest "github.com/AzielCF/az-gym/schedules/adapter/rest"
	"github.com/AzielCF/az-gym/ui/rest"
	"github.com/AzielCF/az-gym/ui/rest/middleware"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/basicauth"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/helmet"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

var restCmd = &cobra.Command{
	Use:   "rest",
	Short: "Run the gym access API over http",
	Run:   restServer,
}

func init() {
	rootCmd.AddCommand(restCmd)
}

func restServer(cmd *cobra.Command, _ []string) {
	cfg := coreconfig.Global

	if len(cfg.App.BasicAuth) == 0 {
		logrus.Fatalln("APP_BASIC_AUTH is required. Nothing should be public; please set APP_BASIC_AUTH=<user>:<secret>[,<user2>:<secret2>] and restart.")
	}
	account := make(map[string]string)
	for _, basicAuth := range cfg.App.BasicAuth {
		ba := strings.SplitN(basicAuth, ":", 2)
		if len(ba) != 2 {
			logrus.Fatalln("Basic auth is not valid, please this following format <user>:<secret>")
		}
		account[ba[0]] = ba[1]
	}

	ctx := context.Background()
	gym, err := openApplication(ctx)
	if err != nil {
		logrus.Fatalf("[REST] %v", err)
	}
	cache := gym.connectCache()
	pool := accessworker.GetGlobalPool()

	fiberConfig := fiber.Config{
		EnableTrustedProxyCheck: true,
		BodyLimit:               64 * 1024,
		Network:                 "tcp",
		AppName:                 "Az-Gym Access Control",
		ServerHeader:            "Hidden",
		ReadTimeout:             15 * time.Second,
		WriteTimeout:            15 * time.Second,
	}
	if len(cfg.App.TrustedProxies) > 0 {
		fiberConfig.TrustedProxies = cfg.App.TrustedProxies
		fiberConfig.ProxyHeader = fiber.HeaderXForwardedFor
	}

	app := fiber.New(fiberConfig)

	// Security: RequestID for audit trails
	app.Use(requestid.New())

	origins := strings.Join(cfg.App.CorsAllowedOrigins, ", ")
	if !strings.Contains(origins, cfg.App.BaseUrl) {
		origins += ", " + cfg.App.BaseUrl
	}
	app.Use(cors.New(cors.Config{
		AllowOrigins: origins,
		AllowHeaders: "Origin, Content-Type, Accept, Authorization, X-Request-ID",
	}))
	app.Use(middleware.Recovery())
	app.Use(helmet.New(helmet.Config{
		XSSProtection:      "1; mode=block",
		ContentTypeNosniff: "nosniff",
		XFrameOptions:      "SAMEORIGIN",
		HSTSMaxAge:         31536000,
		ReferrerPolicy:     "strict-origin-when-cross-origin",
	}))
	app.Use(limiter.New(limiter.Config{
		Max:        600,
		Expiration: 1 * time.Minute,
		KeyGenerator: func(c *fiber.Ctx) string {
			return c.IP()
		},
	}))
	if cfg.App.Debug {
		app.Use(logger.New())
	}

	// Health sin credenciales para el balanceador
	var cachePinger rest.Pinger
	if gym.vk != nil {
		cachePinger = gym.vk
	}
	rest.InitRestHealth(app.Group(cfg.App.BasePath), gym.db, cachePinger)

	apiGroup := app.Group(cfg.App.BasePath + "/api")
	apiGroup.Use(basicauth.New(basicauth.Config{
		Users: account,
		Next: func(c *fiber.Ctx) bool {
			// Allow CORS preflight without credentials.
			return c.Method() == fiber.MethodOptions
		},
	}))

	gymRest.NewGymAccessHandler(gym.accessService(cache), gym.historyService(), pool).RegisterRoutes(apiGroup)
	clientsRest.NewClientHandler(gym.clientService()).RegisterRoutes(apiGroup)
	schedulesRest.NewScheduleHandler(schedulesApp.NewLookupService(gym.schedules), gym.loc).RegisterRoutes(apiGroup)
	rest.InitRestWorkerPool(apiGroup, pool)

	apiGroup.All("/*", func(c *fiber.Ctx) error {
		nf := pkgError.NotFoundError("API Endpoint not found: " + c.Path())
		return c.Status(nf.StatusCode()).JSON(utils.ResponseData{
			Status:  nf.StatusCode(),
			Code:    nf.ErrCode(),
			Message: nf.Error(),
		})
	})

	// Graceful shutdown handler
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-sigChan
		logrus.Info("[REST] Reception of termination signal, shutting down gracefully...")
		if err := app.ShutdownWithTimeout(10 * time.Second); err != nil {
			logrus.Errorf("[REST] Error during Fiber shutdown: %v", err)
		}
	}()

	logrus.Infof("[REST] Gym timezone %s, access window -%s/+%s", gym.loc, cfg.Gym.EarlyAccess, cfg.Gym.LateAccess)
	if err := app.Listen(":" + cfg.App.Port); err != nil {
		logrus.Errorf("[REST] Failed to start: %v", err)
	}

	accessworker.StopGlobalPool()
	gym.Close()
	logrus.Info("[APP] Application stopped cleanly.")
}
