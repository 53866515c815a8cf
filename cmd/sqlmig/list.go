package main

import (
	"fmt"

	"github.com/parhelion-io/sqlmig"
	"github.com/spf13/cobra"
)

func newListCmd(opts *globalOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List all migrations and whether they are applied",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			migrator, err := sqlmig.New(opts.resolve())
			if err != nil {
				return fmt.Errorf("failed to create migrator: %w", err)
			}
			defer func() {
				_ = migrator.Close()
			}()

			statuses, err := migrator.Status(cmd.Context())
			if err != nil {
				return fmt.Errorf("failed to list migrations: %w", err)
			}

			for _, status := range statuses {
				mark := " "
				if status.Applied {
					mark = "x"
				}
				fmt.Printf("[%s]  %s\n", mark, status.FileName)
			}
			return nil
		},
	}
}
