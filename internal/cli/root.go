package cli

import (
	"os"

	"github.com/joho/godotenv"
	"github.com/rotisserie/eris"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"gorm.io/gorm"

	"officepages/app/internal/config"
	appdb "officepages/app/internal/db"
	applog "officepages/app/internal/log"
)

var rootCmd = &cobra.Command{
	Use:           "officectl",
	Short:         "Administrative tooling for the office pages service",
	SilenceUsage:  true,
	SilenceErrors: false,
}

// Execute runs the officectl command tree.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// environment bundles the shared runtime pieces every subcommand needs.
type environment struct {
	cfg    *config.Config
	logger *logrus.Logger
	db     *gorm.DB
}

func openEnvironment() (*environment, func(), error) {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		return nil, nil, eris.Wrap(err, "loading configuration")
	}

	logger, err := applog.NewLogger(cfg.LogLevel)
	if err != nil {
		return nil, nil, eris.Wrap(err, "initialising logger")
	}

	conn, err := appdb.Open(appdb.Options{Path: cfg.DBPath})
	if err != nil {
		return nil, nil, eris.Wrap(err, "opening database")
	}

	cleanup := func() {
		if closeErr := appdb.Close(conn); closeErr != nil {
			logger.WithError(closeErr).Error("closing database")
		}
	}

	return &environment{cfg: cfg, logger: logger, db: conn}, cleanup, nil
}
