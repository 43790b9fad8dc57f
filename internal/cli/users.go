package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"officepages/app/internal/auth"
)

var createUserCmd = &cobra.Command{
	Use:   "create-user <username> <password>",
	Short: "Create a service account, or update its password if it exists",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		env, cleanup, err := openEnvironment()
		if err != nil {
			return err
		}
		defer cleanup()

		ctx := cmd.Context()

		if err := auth.Migrate(ctx, env.db, env.logger); err != nil {
			return err
		}

		created, err := auth.CreateOrUpdateUser(ctx, env.db, args[0], args[1])
		if err != nil {
			return err
		}

		if created {
			fmt.Fprintf(cmd.OutOrStdout(), "User %q created.\n", args[0])
		} else {
			fmt.Fprintf(cmd.OutOrStdout(), "User %q already existed; password updated.\n", args[0])
		}

		return nil
	},
}

var deleteUserCmd = &cobra.Command{
	Use:   "delete-user <username>",
	Short: "Delete a service account",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		env, cleanup, err := openEnvironment()
		if err != nil {
			return err
		}
		defer cleanup()

		deleted, err := auth.DeleteUser(cmd.Context(), env.db, args[0])
		if err != nil {
			return err
		}

		if deleted {
			fmt.Fprintf(cmd.OutOrStdout(), "User %q deleted.\n", args[0])
		} else {
			fmt.Fprintf(cmd.OutOrStdout(), "User %q not found.\n", args[0])
		}

		return nil
	},
}

var listUsersCmd = &cobra.Command{
	Use:   "list-users",
	Short: "List service accounts",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		env, cleanup, err := openEnvironment()
		if err != nil {
			return err
		}
		defer cleanup()

		users, err := auth.ListUsers(cmd.Context(), env.db)
		if err != nil {
			return err
		}

		if len(users) == 0 {
			fmt.Fprintln(cmd.OutOrStdout(), "No users found.")
			return nil
		}

		fmt.Fprintf(cmd.OutOrStdout(), "%-5s %-20s %s\n", "ID", "USERNAME", "HASH")
		for _, user := range users {
			// Only a hash prefix is shown; the full value stays in the database.
			preview := user.PasswordHash
			if len(preview) > 20 {
				preview = preview[:20] + "..."
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%-5d %-20s %s\n", user.ID, user.Username, preview)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Total users: %d\n", len(users))

		return nil
	},
}

func init() {
	rootCmd.AddCommand(createUserCmd, deleteUserCmd, listUsersCmd)
}
