package main

import (
	"fmt"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"

	"leadtracker/internal/modules/leads"
	"leadtracker/internal/pipeline"
	"leadtracker/internal/pkg/metrics"
	"leadtracker/internal/repository"
	"leadtracker/internal/seed"
)

var (
	seedLeads     int
	seedCustomers int
	seedDays      int
	seedRandom    int64
	seedReset     bool
)

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Fill the store with demo leads and customers",
	Long: `Creates demo leads with back-dated histories. Each lead is walked
through the pipeline stage by stage, and some closed-won leads are
converted to customers. Activities are recorded exactly as the API would.`,
	Args: cobra.NoArgs,
	RunE: runSeed,
}

func init() {
	seedCmd.Flags().IntVar(&seedLeads, "leads", 50, "Number of pipeline leads to create")
	seedCmd.Flags().IntVar(&seedCustomers, "customers", 10, "Number of direct customers to create")
	seedCmd.Flags().IntVar(&seedDays, "days", 90, "Spread creation dates over this many days")
	seedCmd.Flags().Int64Var(&seedRandom, "seed", 0, "Random seed (default: current time)")
	seedCmd.Flags().BoolVar(&seedReset, "reset", false, "Delete existing records first")
}

func runSeed(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	if seedReset {
		deleted, err := repository.Reset(ctx, db)
		if err != nil {
			return fmt.Errorf("reset failed: %w", err)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "deleted: leads=%d activities=%d campaigns=%d\n",
			deleted["leads"], deleted["activities"], deleted["campaigns"])
	}

	now := time.Now().UTC()
	if seedRandom == 0 {
		seedRandom = now.UnixNano()
	}
	clock := seed.NewClock(now)
	svc := leads.NewService(leads.Deps{
		Engine:      pipeline.New(pipeline.WithClock(clock.Now)),
		Leads:       repository.NewLeadRepository(db),
		Activities:  repository.NewActivityRepository(db),
		Profile:     repository.NewProfileRepository(db),
		Metrics:     metrics.New(prometheus.NewRegistry()),
		Logger:      log.Named("leads"),
		PhoneRegion: cfg.DefaultPhoneRegion,
	})

	res, err := seed.Run(ctx, svc, clock, seed.Config{
		Leads:           seedLeads,
		DirectCustomers: seedCustomers,
		Days:            seedDays,
		Seed:            seedRandom,
		Now:             now,
	}, log.Named("seed"))
	if err != nil {
		return err
	}

	fmt.Fprintf(cmd.OutOrStdout(), "seeded: leads=%d converted=%d direct_customers=%d archived=%d (seed %d)\n",
		res.Leads, res.Converted, res.DirectCustomers, res.Archived, seedRandom)
	return nil
}
