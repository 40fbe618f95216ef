package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/turtacn/ProjectPulse/internal/app"
	"github.com/turtacn/ProjectPulse/internal/application/dashboard"
	"github.com/turtacn/ProjectPulse/internal/infrastructure/database/postgres"
	"github.com/turtacn/ProjectPulse/internal/infrastructure/database/postgres/repositories"
	"github.com/turtacn/ProjectPulse/internal/infrastructure/messaging/kafka"
	"github.com/turtacn/ProjectPulse/internal/infrastructure/monitoring/logging"
	"github.com/turtacn/ProjectPulse/pkg/errors"
)

// NewRecordsCmd creates the records command, which loads JSON exports into the
// PostgreSQL record store and removes projects from it.  With kafka enabled
// every write is announced so running workers drop their cached views.
func NewRecordsCmd() *cobra.Command {
	var projectsFile, tasksFile string

	recordsCmd := &cobra.Command{
		Use:   "records",
		Short: "Maintain the PostgreSQL record store",
	}

	importCmd := &cobra.Command{
		Use:   "import",
		Short: "Upsert project and task records from JSON array files",
		RunE: func(cmd *cobra.Command, args []string) error {
			if projectsFile == "" && tasksFile == "" {
				return errors.New(errors.ErrCodeValidation, "at least one of --projects-file or --tasks-file is required")
			}
			projectsDoc, err := readRecords(projectsFile)
			if err != nil {
				return err
			}
			tasksDoc, err := readRecords(tasksFile)
			if err != nil {
				return err
			}
			return withRepository(cmd, func(ctx context.Context, repo *repositories.ProjectRepository, changes *app.ChangePublisher) error {
				res, err := repo.Import(ctx, projectsDoc, tasksDoc)
				if err != nil {
					return err
				}
				PrintSuccess(cmd, fmt.Sprintf("imported %d project(s) and %d task(s), skipped %d without an id",
					res.Projects, res.Tasks, res.Skipped))
				return changes.ProjectChanged(ctx, "", "import")
			})
		},
	}
	importCmd.Flags().StringVar(&projectsFile, "projects-file", "", "JSON array of project records")
	importCmd.Flags().StringVar(&tasksFile, "tasks-file", "", "JSON array of task records")

	deleteCmd := &cobra.Command{
		Use:   "delete <project-id>",
		Short: "Remove a project and its task records",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withRepository(cmd, func(ctx context.Context, repo *repositories.ProjectRepository, _ *app.ChangePublisher) error {
				if err := repo.DeleteProject(ctx, args[0]); err != nil {
					return err
				}
				PrintSuccess(cmd, "deleted project "+args[0])
				return nil
			})
		},
	}

	recordsCmd.AddCommand(importCmd, deleteCmd)
	return recordsCmd
}

func withRepository(cmd *cobra.Command, fn func(context.Context, *repositories.ProjectRepository, *app.ChangePublisher) error) error {
	cliCtx, err := GetCLIContext(cmd)
	if err != nil {
		return err
	}
	ctx, cancel := commandContext(cmd, cliCtx)
	defer cancel()

	conn, err := postgres.NewConnection(ctx, cliCtx.Config.Database, cliCtx.Logger)
	if err != nil {
		return err
	}
	defer conn.Close()

	var changes *app.ChangePublisher
	if kcfg := cliCtx.Config.Kafka; kcfg.Enabled {
		producer, err := kafka.NewProducer(kafka.ProducerConfigFrom(kcfg), cliCtx.Logger)
		if err != nil {
			return err
		}
		defer func() {
			if err := producer.Close(); err != nil {
				cliCtx.Logger.Warn("producer close failed", logging.Err(err))
			}
		}()
		routes := map[string]string{
			dashboard.EventProjectChanged: kcfg.ProjectTopic,
		}
		changes = app.NewChangePublisher(kafka.NewEventPublisher(producer, "pulse-cli", routes, cliCtx.Logger))
	}

	return fn(ctx, repositories.NewProjectRepository(conn.Pool(), cliCtx.Logger), changes)
}

//Personal.AI order the ending
