package cli

import (
	"github.com/rotisserie/eris"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"officepages/app/internal/importer"
	"officepages/app/internal/pages"
	"officepages/app/internal/sheets"
)

var importCmd = &cobra.Command{
	Use:   "import",
	Short: "Replace the page tables from the configured Google Sheets",
	Long: "Fetches the office pages sheet (and the franchise development sheet when " +
		"FRANDEV_SHEET_ID is set), deletes the existing rows and re-imports the " +
		"snapshot in batches. Row-level defects are reported without aborting the run.",
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		env, cleanup, err := openEnvironment()
		if err != nil {
			return err
		}
		defer cleanup()

		ctx := cmd.Context()

		if env.cfg.SheetID == "" {
			return eris.New("SHEET_ID environment variable is not set")
		}
		if env.cfg.GoogleAPIKey == "" {
			return eris.New("GOOGLE_API_KEY environment variable is not set")
		}

		if err := pages.Migrate(ctx, env.db, env.logger); err != nil {
			return eris.Wrap(err, "preparing page schema")
		}

		office, err := sheets.NewClient(ctx, sheets.ClientOptions{
			APIKey:        env.cfg.GoogleAPIKey,
			SpreadsheetID: env.cfg.SheetID,
			ReadRange:     env.cfg.SheetRange,
			Logger:        env.logger,
		})
		if err != nil {
			return eris.Wrap(err, "creating office sheet client")
		}

		var frandev sheets.Source
		if env.cfg.FrandevSheetID != "" {
			frandevClient, err := sheets.NewClient(ctx, sheets.ClientOptions{
				APIKey:        env.cfg.GoogleAPIKey,
				SpreadsheetID: env.cfg.FrandevSheetID,
				ReadRange:     env.cfg.SheetRange,
				Logger:        env.logger,
			})
			if err != nil {
				return eris.Wrap(err, "creating frandev sheet client")
			}
			frandev = frandevClient
		}

		imp, err := importer.New(env.db, env.logger, env.cfg.ImportBatchSize)
		if err != nil {
			return eris.Wrap(err, "creating importer")
		}

		aggregate, err := imp.Run(ctx, office, frandev)
		if err != nil {
			env.logger.WithError(err).Error("import run failed")
			return err
		}

		env.logger.WithFields(logrus.Fields{
			"succeeded": aggregate.Succeeded(),
			"failed":    aggregate.Failed(),
		}).Info("import run finished")

		return nil
	},
}

func init() {
	rootCmd.AddCommand(importCmd)
}
