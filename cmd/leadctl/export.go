package main

import (
	"fmt"
	"os"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"

	"leadtracker/internal/analytics"
	"leadtracker/internal/cache"
	analyticsmod "leadtracker/internal/modules/analytics"
	"leadtracker/internal/pkg/metrics"
	"leadtracker/internal/repository"
)

var (
	exportOut    string
	exportPeriod string
	exportFrom   string
	exportTo     string
)

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Write the pipeline report as an xlsx workbook",
	Args:  cobra.NoArgs,
	RunE:  runExport,
}

func init() {
	exportCmd.Flags().StringVarP(&exportOut, "out", "o", "pipeline-report.xlsx", "Output file")
	exportCmd.Flags().StringVar(&exportPeriod, "period", "week", "Trend bucket size: day, week or month")
	exportCmd.Flags().StringVar(&exportFrom, "from", "", "Trend start date (YYYY-MM-DD)")
	exportCmd.Flags().StringVar(&exportTo, "to", "", "Trend end date (YYYY-MM-DD, default: today)")
}

func runExport(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	svc := analyticsmod.NewService(
		repository.NewLeadRepository(db),
		repository.NewActivityRepository(db),
		cache.Noop{},
		metrics.New(prometheus.NewRegistry()),
		log.Named("analytics"),
	)
	report, err := svc.Report(ctx, analyticsmod.TrendQuery{Period: exportPeriod, From: exportFrom, To: exportTo})
	if err != nil {
		return err
	}

	f, err := os.Create(exportOut)
	if err != nil {
		return fmt.Errorf("create %s: %w", exportOut, err)
	}
	if err := analytics.WriteReport(f, report); err != nil {
		_ = f.Close()
		return fmt.Errorf("write report: %w", err)
	}
	if err := f.Close(); err != nil {
		return err
	}

	fmt.Fprintf(cmd.OutOrStdout(), "report written to %s (%d leads)\n", exportOut, len(report.Leads))
	return nil
}
