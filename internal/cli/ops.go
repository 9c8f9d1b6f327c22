package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/Rrens/room-designer/internal/config"
	"github.com/Rrens/room-designer/internal/events"
	"github.com/Rrens/room-designer/internal/repository/postgres"
	"github.com/Rrens/room-designer/internal/security"
)

func newMigrateCmd() *cobra.Command {
	var down int

	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Apply postgres session store migrations",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}
			if down > 0 {
				return postgres.RollbackMigrations(cfg.Database.DSN(), cfg.Database.Migrations, down)
			}
			return postgres.RunMigrations(cfg.Database.DSN(), cfg.Database.Migrations)
		},
	}
	cmd.Flags().IntVar(&down, "down", 0, "roll back this many migrations")
	return cmd
}

func newEventsCmd() *cobra.Command {
	var group string

	cmd := &cobra.Command{
		Use:   "events",
		Short: "Tail workflow events from Kafka",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}
			if len(cfg.Kafka.Brokers) == 0 {
				return fmt.Errorf("kafka.brokers is not configured")
			}
			out := cmd.OutOrStdout()
			return events.Consume(cmd.Context(), cfg.Kafka, group, func(e events.WorkflowEvent) error {
				fmt.Fprintf(out, "%s  %-20s %s %v\n", e.At.Format("15:04:05"), e.Type, e.SessionID, e.Attrs)
				return nil
			})
		},
	}
	cmd.Flags().StringVar(&group, "group", "roomctl", "consumer group id")
	return cmd
}

func newHashPasswordCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "hash-password <password>",
		Short: "Print a bcrypt hash for auth.admin_password_hash",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			hash, err := security.HashPassword(args[0])
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), hash)
			return nil
		},
	}
}
