package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"leadtracker/internal/config"
	"leadtracker/internal/repository"
)

var resetForce bool

var resetCmd = &cobra.Command{
	Use:   "reset",
	Short: "Delete all leads, customers, activities and campaigns",
	Long: `Deletes every stored record. The business profile is kept.
Refuses to run against a prod-like environment unless --force is given.`,
	Args: cobra.NoArgs,
	RunE: runReset,
}

func init() {
	resetCmd.Flags().BoolVar(&resetForce, "force", false, "Allow reset when APP_ENV is prod or release")
}

func runReset(cmd *cobra.Command, args []string) error {
	if config.IsProdLike(cfg.AppEnv) && !resetForce {
		return fmt.Errorf("refusing to reset a %s database without --force", cfg.AppEnv)
	}

	deleted, err := repository.Reset(cmd.Context(), db)
	if err != nil {
		return fmt.Errorf("reset failed: %w", err)
	}
	fmt.Fprintf(cmd.OutOrStdout(), "reset completed: leads=%d activities=%d campaigns=%d\n",
		deleted["leads"], deleted["activities"], deleted["campaigns"])
	return nil
}
