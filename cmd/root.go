// Package cmd wires the stock marketplace commands together.
package cmd

import (
	"context"
	"fmt"
	"os"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"gorm.io/gorm"

	"stock-marketplace/config"
	"stock-marketplace/database"
)

func NewRootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:   "stock-marketplace",
		Short: "Stock marketplace REST API",
		Long: `A marketplace where companies apply to list stocks, administrators review
the applications and users buy and sell stocks in their portfolio.

Configuration is read from the environment and an optional .env file.`,
		SilenceUsage: true,
	}

	root.AddCommand(newServeCommand())
	root.AddCommand(newMigrateCommand())
	root.AddCommand(newCreateAdminCommand())
	return root
}

// Execute runs the root command and exits non-zero on failure.
func Execute() {
	if err := NewRootCommand().ExecuteContext(context.Background()); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// env is what every command needs before doing real work.
type env struct {
	cfg *config.Config
	log *logrus.Logger
	db  *gorm.DB
}

func setup() (*env, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	log := cfg.NewLogger()

	db, err := cfg.OpenDatabase(log)
	if err != nil {
		return nil, err
	}
	log.WithField("database", cfg.RedactedDSN()).Info("connected to database")

	if err := database.Migrate(db); err != nil {
		closeDB(db, log)
		return nil, err
	}
	return &env{cfg: cfg, log: log, db: db}, nil
}

func closeDB(db *gorm.DB, log logrus.FieldLogger) {
	sqlDB, err := db.DB()
	if err != nil {
		log.WithError(err).Warn("get database instance")
		return
	}
	if err := sqlDB.Close(); err != nil {
		log.WithError(err).Warn("close database")
	}
}
