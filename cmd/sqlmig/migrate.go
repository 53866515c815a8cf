package main

import (
	"fmt"

	"github.com/parhelion-io/sqlmig"
	"github.com/spf13/cobra"
)

func newMigrateCmd(opts *globalOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Run all pending migrations",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			migrator, err := sqlmig.New(opts.resolve())
			if err != nil {
				return fmt.Errorf("failed to create migrator: %w", err)
			}
			defer func() {
				_ = migrator.Close()
			}()

			if err := migrator.Run(cmd.Context()); err != nil {
				return fmt.Errorf("failed to run migrations: %w", err)
			}

			fmt.Println("All migrations applied successfully")
			return nil
		},
	}
}
