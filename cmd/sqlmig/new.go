package main

import (
	"fmt"

	"github.com/parhelion-io/sqlmig"
	"github.com/spf13/cobra"
)

func newNewCmd(opts *globalOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "new [name]",
		Short: "Create an empty next-indexed migration script",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			var name string
			if len(args) > 0 {
				name = args[0]
			}

			cfg := opts.resolve()
			store := sqlmig.NewScriptStore(cfg.Dir)

			path, err := store.Create(name)
			if err != nil {
				return fmt.Errorf("failed to create migration script: %w", err)
			}

			fmt.Printf("Created migration script: %s\n", path)
			return nil
		},
	}
}
