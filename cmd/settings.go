package cmd

import (
	"context"
	"fmt"
	"strings"

	settingsDomain "github.com/AzielCF/az-gym/core/settings/domain"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

var settingsCmd = &cobra.Command{
	Use:   "settings",
	Short: "Manage gym settings stored in the database",
	Long:  "Stored settings override environment values on the next start. Keys: " + strings.Join(settingsDomain.Keys(), ", "),
}

var settingsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List stored settings",
	Run: func(cmd *cobra.Command, _ []string) {
		withSettings(func(ctx context.Context, gym *gymApplication) error {
			list, err := gym.settings.List(ctx)
			if err != nil {
				return err
			}
			for _, s := range list {
				fmt.Fprintf(cmd.OutOrStdout(), "%s=%s\n", s.Key, s.Value)
			}
			return nil
		})
	},
}

var settingsSetCmd = &cobra.Command{
	Use:   "set <key> <value>",
	Short: "Store a setting",
	Args:  cobra.ExactArgs(2),
	Run: func(cmd *cobra.Command, args []string) {
		withSettings(func(ctx context.Context, gym *gymApplication) error {
			return gym.settings.Set(ctx, args[0], args[1])
		})
	},
}

var settingsUnsetCmd = &cobra.Command{
	Use:   "unset <key>",
	Short: "Remove a stored setting and fall back to the environment",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		withSettings(func(ctx context.Context, gym *gymApplication) error {
			return gym.settings.Unset(ctx, args[0])
		})
	},
}

func init() {
	settingsCmd.AddCommand(settingsListCmd, settingsSetCmd, settingsUnsetCmd)
	rootCmd.AddCommand(settingsCmd)
}

func withSettings(fn func(ctx context.Context, gym *gymApplication) error) {
	ctx := context.Background()
	gym, err := openApplication(ctx)
	if err != nil {
		logrus.Fatalf("[SETTINGS] %v", err)
	}
	defer gym.Close()

	if err := fn(ctx, gym); err != nil {
		logrus.Fatalf("[SETTINGS] %v", err)
	}
}
