package cmd

import (
	"context"
	"fmt"
	"io"
	"strings"
	"time"

	gymDomain "github.com/AzielCF/az-gym/gymaccess/domain"
	"github.com/AzielCF/az-gym/validations"
	"github.com/dustin/go-humanize"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Print today's and this month's access statistics",
	Run:   runStats,
}

var statsFrom, statsTo string

func init() {
	statsCmd.Flags().StringVar(&statsFrom, "from", "", "top clients from day (YYYY-MM-DD)")
	statsCmd.Flags().StringVar(&statsTo, "to", "", "top clients up to day (YYYY-MM-DD)")
	rootCmd.AddCommand(statsCmd)
}

func runStats(cmd *cobra.Command, _ []string) {
	ctx := context.Background()
	filter, err := statsFilterFromFlags(ctx, statsFrom, statsTo)
	if err != nil {
		logrus.Fatalf("[STATS] %v", err)
	}

	gym, err := openApplication(ctx)
	if err != nil {
		logrus.Fatalf("[STATS] %v", err)
	}
	defer gym.Close()

	history := gym.historyService()
	stats, err := history.GetStats(ctx, filter)
	if err != nil {
		logrus.Fatalf("[STATS] %v", err)
	}

	var lastAccess *time.Time
	page, err := history.GetHistory(ctx, gymDomain.HistoryFilter{Page: 1, Limit: 1})
	if err != nil {
		logrus.WithError(err).Warn("[STATS] Could not read latest access")
	} else if len(page.Records) > 0 {
		lastAccess = &page.Records[0].AccessDate
	}

	writeStats(cmd.OutOrStdout(), stats, lastAccess, time.Now())
}

func statsFilterFromFlags(ctx context.Context, from, to string) (gymDomain.StatsFilter, error) {
	filter := gymDomain.StatsFilter{StartDate: strings.TrimSpace(from), EndDate: strings.TrimSpace(to)}
	if err := validations.ValidateStatsFilter(ctx, filter); err != nil {
		return gymDomain.StatsFilter{}, err
	}
	return filter, nil
}

func writeStats(w io.Writer, stats gymDomain.AccessStats, lastAccess *time.Time, now time.Time) {
	fmt.Fprintf(w, "Accesos hoy:        %s\n", humanize.Comma(stats.TodayAccesses))
	fmt.Fprintf(w, "Denegados hoy:      %s\n", humanize.Comma(stats.TodayDenied))
	fmt.Fprintf(w, "Accesos del mes:    %s\n", humanize.Comma(stats.MonthAccesses))
	fmt.Fprintf(w, "Promedio diario:    %s\n", humanize.CommafWithDigits(stats.AverageAccessesPerDay, 2))
	if lastAccess != nil {
		fmt.Fprintf(w, "Último intento:     %s\n", humanize.RelTime(*lastAccess, now, "atrás", "después"))
	}

	if len(stats.TopClients) == 0 {
		return
	}
	fmt.Fprintln(w, "Socios más frecuentes:")
	for i, c := range stats.TopClients {
		fmt.Fprintf(w, "  %s %-24s %-12s %s accesos\n", humanize.Ordinal(i+1), c.Name, c.Cedula, humanize.Comma(c.Accesses))
	}
}
