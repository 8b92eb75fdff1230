package cmd

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	rewardsDomain "github.com/AzielCF/az-gym/rewards/domain"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Create or update the database schema",
	Run:   runMigrate,
}

var seedRewards []string

func init() {
	migrateCmd.Flags().StringSliceVar(&seedRewards, "reward", nil,
		`seed a streak reward --reward "<days>:<name>" | example: --reward "7:Batido gratis"`)
	rootCmd.AddCommand(migrateCmd)
}

func runMigrate(cmd *cobra.Command, _ []string) {
	ctx := context.Background()
	gym, err := openApplication(ctx)
	if err != nil {
		logrus.Fatalf("[MIGRATION] %v", err)
	}
	defer gym.Close()
	logrus.Infof("[MIGRATION] Schema ready on %s (%s)", gym.cfg.Database.Name, gym.cfg.Database.Driver)

	for _, raw := range seedRewards {
		reward, err := parseReward(raw)
		if err != nil {
			logrus.Fatalf("[MIGRATION] %v", err)
		}
		if err := gym.rewards.Create(ctx, reward); err != nil {
			logrus.WithError(err).Warnf("[MIGRATION] Reward for %d days not created", reward.RequiredDays)
			continue
		}
		logrus.Infof("[MIGRATION] Reward %q for %d consecutive days created", reward.Name, reward.RequiredDays)
	}
}

func parseReward(raw string) (*rewardsDomain.Reward, error) {
	days, name, ok := strings.Cut(raw, ":")
	name = strings.TrimSpace(name)
	n, err := strconv.Atoi(strings.TrimSpace(days))
	if !ok || name == "" || err != nil || n <= 0 {
		return nil, fmt.Errorf("invalid reward %q, expected <days>:<name>", raw)
	}
	return &rewardsDomain.Reward{Name: name, RequiredDays: n}, nil
}
