package main

import (
	"fmt"

	"github.com/parhelion-io/sqlmig"
	"github.com/spf13/cobra"
)

func newVersionCmd(opts *globalOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Show the current head revision",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			migrator, err := sqlmig.New(opts.resolve())
			if err != nil {
				return fmt.Errorf("failed to create migrator: %w", err)
			}
			defer func() {
				_ = migrator.Close()
			}()

			head, err := migrator.Head(cmd.Context())
			if err != nil {
				return fmt.Errorf("failed to read head revision: %w", err)
			}

			if head == 0 {
				fmt.Println("No migrations applied yet")
			} else {
				fmt.Printf("Current revision: %d\n", head)
			}
			return nil
		},
	}
}
