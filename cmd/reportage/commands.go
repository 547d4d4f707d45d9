package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/kevinbibang94/baol-digital-show-clean/internal/adapter/badger"
	"github.com/kevinbibang94/baol-digital-show-clean/internal/domain"
	"github.com/kevinbibang94/baol-digital-show-clean/internal/engagement"
)

func newStatsCmd(o *options) *cobra.Command {
	return &cobra.Command{
		Use:   "stats",
		Short: "Show the shared counters and this device's state",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withMachine(cmd, o, func(_ context.Context, m *engagement.Machine) error {
				return printSnapshot(cmd.OutOrStdout(), m.Snapshot(), o.json)
			})
		},
	}
}

func newReactCmd(o *options, use, short string, react func(*engagement.Machine, context.Context) domain.Vote) *cobra.Command {
	return &cobra.Command{
		Use:   use,
		Short: short,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withMachine(cmd, o, func(ctx context.Context, m *engagement.Machine) error {
				ctx, cancel := context.WithTimeout(ctx, o.timeout)
				defer cancel()
				react(m, ctx)
				return printSnapshot(cmd.OutOrStdout(), m.Snapshot(), o.json)
			})
		},
	}
}

func newViewCmd(o *options) *cobra.Command {
	return &cobra.Command{
		Use:   "view",
		Short: "Count a play of the reportage, once per device",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withMachine(cmd, o, func(ctx context.Context, m *engagement.Machine) error {
				ctx, cancel := context.WithTimeout(ctx, o.timeout)
				defer cancel()
				if !m.RegisterView(ctx) && !m.State().Viewed {
					return fmt.Errorf("view was not counted, try again")
				}
				return printSnapshot(cmd.OutOrStdout(), m.Snapshot(), o.json)
			})
		},
	}
}

func newWatchCmd(o *options) *cobra.Command {
	return &cobra.Command{
		Use:   "watch",
		Short: "Print every pushed snapshot until interrupted",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			out := cmd.OutOrStdout()
			onPush := func(s engagement.Snapshot) {
				_ = printSnapshot(out, s, o.json)
			}
			return withMachine(cmd, o, func(ctx context.Context, m *engagement.Machine) error {
				if err := printSnapshot(out, m.Snapshot(), o.json); err != nil {
					return err
				}
				<-ctx.Done()
				return nil
			}, engagement.WithPushObserver(onPush))
		},
	}
}

func newResetLocalCmd(o *options) *cobra.Command {
	return &cobra.Command{
		Use:   "reset-local",
		Short: "Forget this device's vote and viewed flag",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			local, err := badger.Open(o.stateDir)
			if err != nil {
				return fmt.Errorf("failed to open device state: %w", err)
			}
			defer func() { _ = local.Close() }()

			if err := engagement.ResetState(local); err != nil {
				return fmt.Errorf("failed to reset device state: %w", err)
			}
			_, err = fmt.Fprintln(cmd.OutOrStdout(), "device state cleared")
			return err
		},
	}
}
