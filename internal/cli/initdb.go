package cli

import (
	"fmt"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"

	"officepages/app/internal/auth"
	"officepages/app/internal/pages"
)

var (
	initAdminUser     string
	initAdminPassword string
)

var initDBCmd = &cobra.Command{
	Use:   "init-db",
	Short: "Drop and recreate the schema, seeding an admin user",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		env, cleanup, err := openEnvironment()
		if err != nil {
			return err
		}
		defer cleanup()

		ctx := cmd.Context()

		migrator := env.db.WithContext(ctx).Migrator()
		for _, model := range []interface{}{&pages.OfficePage{}, &pages.FrandevPage{}, &auth.User{}} {
			if migrator.HasTable(model) {
				if err := migrator.DropTable(model); err != nil {
					return eris.Wrap(err, "dropping table")
				}
			}
		}

		if err := pages.Migrate(ctx, env.db, env.logger); err != nil {
			return err
		}
		if err := auth.Migrate(ctx, env.db, env.logger); err != nil {
			return err
		}

		if _, err := auth.CreateOrUpdateUser(ctx, env.db, initAdminUser, initAdminPassword); err != nil {
			return eris.Wrap(err, "seeding admin user")
		}

		fmt.Fprintf(cmd.OutOrStdout(), "Database initialized; admin user %q created. Change its password.\n", initAdminUser)
		return nil
	},
}

func init() {
	initDBCmd.Flags().StringVar(&initAdminUser, "admin-user", "admin", "username for the seeded admin account")
	initDBCmd.Flags().StringVar(&initAdminPassword, "admin-password", "changeme", "password for the seeded admin account")
	rootCmd.AddCommand(initDBCmd)
}
