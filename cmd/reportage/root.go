package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/spf13/cobra"

	"github.com/kevinbibang94/baol-digital-show-clean/internal/adapter/badger"
	"github.com/kevinbibang94/baol-digital-show-clean/internal/adapter/httpclient"
	"github.com/kevinbibang94/baol-digital-show-clean/internal/adapter/memory"
	"github.com/kevinbibang94/baol-digital-show-clean/internal/domain"
	"github.com/kevinbibang94/baol-digital-show-clean/internal/engagement"
	"github.com/kevinbibang94/baol-digital-show-clean/internal/platform/logging"
	"github.com/kevinbibang94/baol-digital-show-clean/internal/platform/version"
)

const defaultServer = "http://localhost:8080"

type options struct {
	server   string
	offline  bool
	stateDir string
	logLevel string
	json     bool
	timeout  time.Duration
}

func newRootCmd() *cobra.Command {
	opts := &options{}

	root := &cobra.Command{
		Use:          "reportage",
		Short:        "Like, dislike and watch the Baol Digital Show reportage from the terminal",
		Version:      version.Get("reportage").String(),
		SilenceUsage: true,
		PersistentPreRun: func(cmd *cobra.Command, _ []string) {
			logging.InitLoggerTo(cmd.ErrOrStderr(), opts.logLevel, "text")
		},
	}

	root.SetVersionTemplate("{{.Version}}\n")

	flags := root.PersistentFlags()
	flags.StringVar(&opts.server, "server", envOr("REPORTAGE_SERVER", defaultServer), "engagement server base URL")
	flags.BoolVar(&opts.offline, "offline", false, "use an in-process record instead of the server")
	flags.StringVar(&opts.stateDir, "state-dir", envOr("REPORTAGE_STATE_DIR", defaultStateDir()), "directory holding this device's vote state")
	flags.StringVar(&opts.logLevel, "log-level", envOr("LOG_LEVEL", "warn"), "log level (debug, info, warn, error)")
	flags.BoolVar(&opts.json, "json", false, "print snapshots as JSON")
	flags.DurationVar(&opts.timeout, "timeout", 10*time.Second, "timeout for a single command against the server")

	root.AddCommand(
		newStatsCmd(opts),
		newReactCmd(opts, "like", "Toggle a like for this device", (*engagement.Machine).Like),
		newReactCmd(opts, "dislike", "Toggle a dislike for this device", (*engagement.Machine).Dislike),
		newViewCmd(opts),
		newWatchCmd(opts),
		newResetLocalCmd(opts),
	)

	return root
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func defaultStateDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".reportage"
	}
	return filepath.Join(home, ".reportage")
}

func (o *options) counterStore() (domain.CounterStore, error) {
	if o.offline {
		return memory.NewCounterStore(domain.EngagementRecord{ID: domain.ReportageID}, clockwork.NewRealClock()), nil
	}
	store, err := httpclient.New(o.server)
	if err != nil {
		return nil, fmt.Errorf("invalid --server: %w", err)
	}
	return store, nil
}

// withMachine opens the device state, starts a machine and hands it to fn.
// A failed initial load is reported but fn still runs, so local reactions
// are recorded even when the server is unreachable.
func withMachine(cmd *cobra.Command, o *options, fn func(ctx context.Context, m *engagement.Machine) error, machineOpts ...engagement.Option) error {
	local, err := badger.Open(o.stateDir)
	if err != nil {
		return fmt.Errorf("failed to open device state: %w", err)
	}
	defer func() { _ = local.Close() }()

	store, err := o.counterStore()
	if err != nil {
		return err
	}

	m := engagement.New(store, local, machineOpts...)
	defer m.Close()

	ctx := cmd.Context()
	startCtx, cancel := context.WithTimeout(ctx, o.timeout)
	defer cancel()
	if err := m.Start(startCtx); err != nil {
		fmt.Fprintf(cmd.ErrOrStderr(), "warning: %v\n", err)
	}

	return fn(ctx, m)
}

func printSnapshot(w io.Writer, s engagement.Snapshot, asJSON bool) error {
	if asJSON {
		if err := json.NewEncoder(w).Encode(s); err != nil {
			return fmt.Errorf("failed to encode snapshot: %w", err)
		}
		return nil
	}

	_, err := fmt.Fprintf(w, "views=%d likes=%d dislikes=%d vote=%s viewed=%t\n",
		s.Counters.Views, s.Counters.Likes, s.Counters.Dislikes, s.Vote, s.Viewed)
	return err
}
