package cli

import (
	"fmt"
	"strconv"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/turtacn/ProjectPulse/internal/infrastructure/database/postgres"
	"github.com/turtacn/ProjectPulse/pkg/errors"
)

// NewMigrateCmd creates the migrate command for the PostgreSQL record store.
// Migrations are read from database.migration_path, or from the set compiled
// into the binary when it is empty.
func NewMigrateCmd() *cobra.Command {
	var steps int

	migrateCmd := &cobra.Command{
		Use:   "migrate",
		Short: "Manage the record store schema",
	}

	upCmd := &cobra.Command{
		Use:   "up",
		Short: "Apply all pending migrations",
		RunE: func(cmd *cobra.Command, args []string) error {
			dsn, path, err := migrationTarget(cmd)
			if err != nil {
				return err
			}
			if err := postgres.RunMigrations(dsn, path); err != nil {
				return err
			}
			PrintSuccess(cmd, "schema is up to date")
			return nil
		},
	}

	downCmd := &cobra.Command{
		Use:   "down",
		Short: "Roll back applied migrations",
		RunE: func(cmd *cobra.Command, args []string) error {
			dsn, path, err := migrationTarget(cmd)
			if err != nil {
				return err
			}
			if err := postgres.RollbackMigration(dsn, path, steps); err != nil {
				return err
			}
			PrintSuccess(cmd, fmt.Sprintf("rolled back %d migration(s)", steps))
			return nil
		},
	}
	downCmd.Flags().IntVar(&steps, "steps", 1, "number of migrations to roll back")

	statusCmd := &cobra.Command{
		Use:   "status",
		Short: "Show the applied schema version",
		RunE: func(cmd *cobra.Command, args []string) error {
			dsn, path, err := migrationTarget(cmd)
			if err != nil {
				return err
			}
			version, dirty, err := postgres.MigrationStatus(dsn, path)
			if err != nil {
				return err
			}
			state := color.GreenString("clean")
			if dirty {
				state = color.RedString("dirty")
			}
			fmt.Fprintf(cmd.OutOrStdout(), "version %d (%s)\n", version, state)
			return nil
		},
	}

	forceCmd := &cobra.Command{
		Use:   "force <version>",
		Short: "Record a schema version without running migrations",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			version, err := strconv.Atoi(args[0])
			if err != nil {
				return errors.New(errors.ErrCodeValidation, "version must be an integer").WithDetail(args[0])
			}
			dsn, path, err := migrationTarget(cmd)
			if err != nil {
				return err
			}
			if err := postgres.ForceMigrationVersion(dsn, path, version); err != nil {
				return err
			}
			PrintSuccess(cmd, fmt.Sprintf("forced schema version %d", version))
			return nil
		},
	}

	migrateCmd.AddCommand(upCmd, downCmd, statusCmd, forceCmd)
	return migrateCmd
}

func migrationTarget(cmd *cobra.Command) (dsn, path string, err error) {
	cliCtx, err := GetCLIContext(cmd)
	if err != nil {
		return "", "", err
	}
	db := cliCtx.Config.Database
	return postgres.DSN(db), db.MigrationPath, nil
}

//Personal.AI order the ending
