package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"leadtracker/internal/config"
	"leadtracker/internal/database"
	"leadtracker/internal/pkg/logger"
	"leadtracker/internal/repository"
)

var (
	// Global flags
	envFile     string
	databaseURL string
	verbose     bool

	cfg *config.Config
	log *zap.Logger
	db  *gorm.DB
)

var rootCmd = &cobra.Command{
	Use:   "leadctl",
	Short: "Maintenance commands for the leadtracker record store",
	Long: `leadctl works directly against the leadtracker database.

It can fill an empty store with demo leads and customers, export the
pipeline report as an xlsx workbook, and wipe stored records.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		var files []string
		if envFile != "" {
			files = append(files, envFile)
		}
		var err error
		cfg, err = config.Load(files...)
		if err != nil {
			return err
		}
		if databaseURL != "" {
			cfg.DatabaseURL = databaseURL
		}

		level := cfg.LogLevel
		if verbose {
			level = "debug"
		}
		log, err = logger.New(level, "console")
		if err != nil {
			return fmt.Errorf("failed to initialize logger: %w", err)
		}

		db, err = database.Connect(cfg.DatabaseURL, log.Named("db"))
		if err != nil {
			return fmt.Errorf("db connect failed: %w", err)
		}
		if err := repository.Migrate(db); err != nil {
			return fmt.Errorf("migrate failed: %w", err)
		}
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if db != nil {
			if sqlDB, err := db.DB(); err == nil {
				_ = sqlDB.Close()
			}
		}
		if log != nil {
			_ = log.Sync()
		}
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&envFile, "env-file", "", "Env file to load (default: .env)")
	rootCmd.PersistentFlags().StringVar(&databaseURL, "database-url", "", "Database URL (overrides DATABASE_URL)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable debug logging")

	rootCmd.AddCommand(seedCmd)
	rootCmd.AddCommand(exportCmd)
	rootCmd.AddCommand(resetCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
