package sync

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/joelgerard/healthsync/pkg/config"
	"github.com/joelgerard/healthsync/pkg/mirror"
	"github.com/joelgerard/healthsync/pkg/snapshot"
	"github.com/joelgerard/healthsync/pkg/sync"
)

var (
	syncDryRun    bool
	syncQuiet     bool
	syncSnapshot  bool
	syncRsyncPath string
)

func init() {
	SyncCmd.Flags().BoolVar(&syncDryRun, "dryrun", false, "preview the sync changes without writing anything")
	SyncCmd.Flags().BoolVarP(&syncQuiet, "quiet", "q", false, "suppress the per-file progress output of the transfer tool")
	SyncCmd.Flags().BoolVar(&syncSnapshot, "snapshot", false, "snapshot each destination before mirroring over it")
	SyncCmd.Flags().StringVar(&syncRsyncPath, "rsync-path", "", "path of the rsync binary to invoke")
}

var SyncCmd = &cobra.Command{
	Use:   "sync",
	Short: "Mirrors every configured source directory into its backup destination",
	RunE: func(cmd *cobra.Command, args []string) error {
		configPath, err := cmd.Flags().GetString("config")
		if err != nil {
			return err
		}
		cfg, err := config.Load(configPath)
		if err != nil {
			return err
		}
		if syncQuiet {
			cfg.Quiet = true
		}
		if syncSnapshot {
			cfg.Snapshots.Enabled = true
		}
		if len(syncRsyncPath) > 0 {
			cfg.RsyncPath = syncRsyncPath
		}

		// an interrupt kills the in-flight transfer instead of leaving it
		// running detached
		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		runner := mirror.NewRsyncRunner(mirror.Options{
			Path:   cfg.RsyncPath,
			Quiet:  cfg.Quiet,
			DryRun: syncDryRun,
		})
		var snap sync.Snapshotter
		if cfg.Snapshots.Enabled {
			snap = snapshot.NewKeeper(cfg.Snapshots.Dir, cfg.Snapshots.Keep)
		}

		return sync.Sync(ctx, runner, snap, &sync.Request{
			Pairs:  cfg.Pairs,
			DryRun: syncDryRun,
		})
	},
}
