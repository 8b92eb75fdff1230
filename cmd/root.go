package cmd

import (
	"os"
	"strings"
	"time"

	coreconfig "github.com/AzielCF/az-gym/core/config"
	"github.com/AzielCF/az-gym/pkg/utils"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "az-gym",
	Short: "Control de acceso del gimnasio",
	Long:  `Valida el ingreso de socios por cédula contra sus turnos, registra cada intento y expone historial y estadísticas.`,
}

func init() {
	// Load environment variables first
	utils.LoadConfig(".")

	time.Local = time.UTC

	rootCmd.CompletionOptions.DisableDefaultCmd = true

	initFlags()

	cobra.OnInitialize(initEnvConfig)
}

// initEnvConfig carga la configuración desde el entorno y aplica los flags explícitos
func initEnvConfig() {
	cfg, err := coreconfig.LoadConfig()
	if err != nil {
		logrus.Fatalf("[CONFIG] %v", err)
	}

	flags := rootCmd.PersistentFlags()
	if flags.Changed("port") {
		cfg.App.Port = viper.GetString("app_port")
	}
	if flags.Changed("debug") {
		cfg.App.Debug = viper.GetBool("app_debug")
	}
	if flags.Changed("basic-auth") {
		cfg.App.BasicAuth = splitList(viper.GetString("app_basic_auth"))
	}
	if flags.Changed("base-path") {
		cfg.App.BasePath = viper.GetString("app_base_path")
	}
	if flags.Changed("trusted-proxies") {
		cfg.App.TrustedProxies = splitList(viper.GetString("app_trusted_proxies"))
	}
	if flags.Changed("db-driver") {
		cfg.Database.Driver = viper.GetString("db_driver")
	}
	if flags.Changed("db-name") {
		cfg.Database.Name = viper.GetString("db_name")
	}
	if flags.Changed("timezone") {
		cfg.Gym.Timezone = viper.GetString("gym_timezone")
	}
	if flags.Changed("access-workers") {
		cfg.WorkerPool.Size = viper.GetInt("access_worker_pool_size")
	}
	if flags.Changed("access-queue-size") {
		cfg.WorkerPool.QueueSize = viper.GetInt("access_worker_queue_size")
	}

	if cfg.App.Debug {
		logrus.SetLevel(logrus.DebugLevel)
	}
}

func initFlags() {
	flags := rootCmd.PersistentFlags()

	// Application flags
	flags.StringP("port", "p", "3000", "change port number with --port <number> | example: --port=8080")
	flags.BoolP("debug", "d", false, "hide or displaying log with --debug <true/false> | example: --debug=true")
	flags.StringP("basic-auth", "b", "", "basic auth credential | -b=yourUsername:yourPassword,other:secret")
	flags.String("base-path", "", `base path for subpath deployment --base-path <string> | example: --base-path="/gym"`)
	flags.String("trusted-proxies", "", `trusted proxy IP ranges --trusted-proxies <string> | example: --trusted-proxies="10.0.0.0/8"`)

	// Database flags
	flags.String("db-driver", "sqlite", `database driver --db-driver <sqlite|postgres>`)
	flags.String("db-name", "", `sqlite file or postgres database name --db-name <string> | example: --db-name="storages/gym.db"`)

	// Gym flags
	flags.String("timezone", "", `gym timezone --timezone <string> | example: --timezone="America/Montevideo"`)
	flags.Int("access-workers", 8, `number of access validation workers --access-workers <number>`)
	flags.Int("access-queue-size", 256, `queue size per access worker --access-queue-size <number>`)

	bind := map[string]string{
		"app_port":                 "port",
		"app_debug":                "debug",
		"app_basic_auth":           "basic-auth",
		"app_base_path":            "base-path",
		"app_trusted_proxies":      "trusted-proxies",
		"db_driver":                "db-driver",
		"db_name":                  "db-name",
		"gym_timezone":             "timezone",
		"access_worker_pool_size":  "access-workers",
		"access_worker_queue_size": "access-queue-size",
	}
	for key, flag := range bind {
		if err := viper.BindPFlag(key, flags.Lookup(flag)); err != nil {
			logrus.Fatalf("[CONFIG] bind flag %s: %v", flag, err)
		}
	}
}

func splitList(v string) []string {
	var out []string
	for _, s := range strings.Split(v, ",") {
		if s = strings.TrimSpace(s); s != "" {
			out = append(out, s)
		}
	}
	return out
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
