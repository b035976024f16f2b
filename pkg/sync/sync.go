package sync

import (
	"context"
	"fmt"
	"os"

	"github.com/sirupsen/logrus"

	"github.com/joelgerard/healthsync/pkg/config"
	"github.com/joelgerard/healthsync/pkg/mirror"
)

// Snapshotter preserves a destination tree right before a destructive
// mirror. A nil Snapshotter disables the behavior.
type Snapshotter interface {
	Take(name, dest string) error
}

// Sync mirrors every pair of the request, in order, delegating the actual
// transfer to the given runner. The destination of a pair is created
// before its source is checked, so a run against a fresh machine lays out
// the backup skeleton even when some exports are not mounted yet. A
// missing source aborts the remaining pairs. Returns a non-nil error in
// case of failure.
func Sync(ctx context.Context, runner mirror.Runner, snap Snapshotter, req *Request) error {
	if err := req.Error(); err != nil {
		return err
	}

	logrus.Infof("initiating directory sync for %d pairs", len(req.Pairs))
	defer logrus.Infof("finished directory sync")

	for _, pair := range req.Pairs {
		if err := syncPair(ctx, runner, snap, req, pair); err != nil {
			return err
		}
	}
	return nil
}

func syncPair(ctx context.Context, runner mirror.Runner, snap Snapshotter, req *Request, pair config.SyncPair) error {
	logrus.Infof("syncing '%s': %s -> %s", pair.Name, pair.Source, pair.Dest)

	if err := ensureDest(pair.Dest, req.DryRun); err != nil {
		return err
	}
	if err := checkSource(pair.Source); err != nil {
		return err
	}

	if snap != nil && !req.DryRun {
		if err := snap.Take(pair.Name, pair.Dest); err != nil {
			return fmt.Errorf("can't snapshot destination %q: %w", pair.Dest, err)
		}
	}

	res, err := runner.Mirror(ctx, pair.Source, pair.Dest)
	if err != nil {
		if res != nil && res.ExitCode >= 0 {
			return fmt.Errorf("syncing '%s' failed with exit code %d: %w", pair.Name, res.ExitCode, err)
		}
		return fmt.Errorf("syncing '%s' failed: %w", pair.Name, err)
	}

	logrus.Infof("finished syncing '%s'", pair.Name)
	return nil
}

// ensureDest creates the destination directory when missing. Dry runs
// leave the filesystem untouched.
func ensureDest(dest string, dryRun bool) error {
	if dryRun {
		logrus.Debugf("dry run, not creating destination '%s'", dest)
		return nil
	}
	if err := fs.MkdirAll(dest, 0755); err != nil {
		return fmt.Errorf("can't create destination %q: %w", dest, err)
	}
	return nil
}

// checkSource verifies that the configured source exists and is a
// directory.
func checkSource(source string) error {
	info, err := fs.Stat(source)
	if err != nil {
		if os.IsNotExist(err) {
			return MissingSourceError{Path: source}
		}
		return err
	}
	if !info.IsDir() {
		return MissingSourceError{Path: source}
	}
	return nil
}
