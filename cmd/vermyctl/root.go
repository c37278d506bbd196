package main

import (
	"context"
	"fmt"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/vermy/vermy/internal/app"
	"github.com/vermy/vermy/internal/config"
	"github.com/vermy/vermy/internal/pkg/database"
	"github.com/vermy/vermy/internal/pkg/logger"
)

// Version is set at build time
var Version = "0.1.0"

var (
	// Global flags
	configFile string
	verbose    bool
)

var rootCmd = &cobra.Command{
	Use:   "vermyctl",
	Short: "Vermy administration tool",
	Long: `vermyctl manages a Vermy installation from the command line.

Commands:
  migrate  - Apply or roll back database migrations
  backup   - Export or restore the complete dataset
  user     - Manage login accounts
  purge    - Permanently remove a single record

Example:
  vermyctl migrate up
  vermyctl backup export -o vermy-backup.json
  vermyctl user create --email admin@example.com`,
	Version:       Version,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		_ = godotenv.Load()
		level := "warn"
		if verbose {
			level = "debug"
		}
		return logger.Init(logger.Config{Level: level, Format: "console"})
	},
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configFile, "config", "c", "", "config file (default: ./config.yaml, /etc/vermy/config.yaml)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable verbose output")

	rootCmd.AddCommand(newMigrateCmd())
	rootCmd.AddCommand(newBackupCmd())
	rootCmd.AddCommand(newUserCmd())
	rootCmd.AddCommand(newPurgeCmd())
}

// Execute runs the CLI
func Execute() error {
	return rootCmd.Execute()
}

func loadConfig() (*config.Config, error) {
	cfg, err := config.LoadFile(configFile)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	return cfg, nil
}

// openDB connects the configured database without applying migrations
func openDB(ctx context.Context) (*database.DB, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, err
	}
	cfg.Storage.AutoMigrate = false
	return database.Open(ctx, cfg)
}

// openServices builds the service layer. The returned func releases all
// connections.
func openServices(ctx context.Context) (*app.Services, func(), error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, nil, err
	}
	dbs, err := app.OpenDatabases(ctx, cfg)
	if err != nil {
		return nil, nil, err
	}
	return app.NewServices(cfg, dbs, app.NewRepositories(dbs.DB)), dbs.Close, nil
}
