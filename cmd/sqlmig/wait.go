package main

import (
	"fmt"
	"time"

	"github.com/parhelion-io/sqlmig"
	"github.com/spf13/cobra"
)

func newWaitCmd(opts *globalOptions) *cobra.Command {
	var (
		attempts int
		interval time.Duration
		timeout  time.Duration
	)

	cmd := &cobra.Command{
		Use:   "wait",
		Short: "Block until the database is reachable",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg := opts.resolve()

			waiter := sqlmig.NewWaiter(cfg.DSN, sqlmig.RetryPolicy{
				Attempts:          attempts,
				Interval:          interval,
				PerAttemptTimeout: timeout,
			}, nil)

			db, err := waiter.Wait(cmd.Context())
			if err != nil {
				return err
			}
			_ = db.Close()

			fmt.Println("Database is reachable")
			return nil
		},
	}

	cmd.Flags().IntVar(&attempts, "attempts", sqlmig.DefaultWaitAttempts, "number of connection attempts")
	cmd.Flags().DurationVar(&interval, "interval", sqlmig.DefaultWaitInterval, "delay between attempts")
	cmd.Flags().DurationVar(&timeout, "timeout", sqlmig.DefaultProbeTimeout, "per-attempt connection timeout")

	return cmd
}
