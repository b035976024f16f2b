package snapshot

import (
	"os"
	"path/filepath"
	"sort"
	"time"

	"github.com/otiai10/copy"
	"github.com/sirupsen/logrus"
	"go.uber.org/multierr"
)

// timestampLayout names snapshot directories so that they sort lexically
// by creation time.
const timestampLayout = "20060102-150405"

// Keeper takes timestamped copies of destination directories before they
// get mirrored, and retains only the most recent ones.
type Keeper struct {
	// Dir is the root under which per-pair snapshot directories live.
	Dir string
	// Keep is how many snapshots to retain per pair.
	Keep int

	now func() time.Time
}

// NewKeeper returns a Keeper storing snapshots under dir and retaining
// the keep most recent ones per pair.
func NewKeeper(dir string, keep int) *Keeper {
	return &Keeper{Dir: dir, Keep: keep, now: time.Now}
}

// Take copies the tree at dest into a new timestamped directory for the
// named pair, then prunes the pair's old snapshots. A missing destination
// is skipped: there is nothing to preserve on the first sync of a pair.
// Returns a non-nil error in case of failure.
func (k *Keeper) Take(name, dest string) error {
	if _, err := os.Stat(dest); err != nil {
		if os.IsNotExist(err) {
			logrus.Warnf("destination '%s' not found locally, skipping snapshot", dest)
			return nil
		}
		return err
	}

	target := filepath.Join(k.Dir, name, k.now().UTC().Format(timestampLayout))
	logrus.Infof("snapshotting '%s' into '%s'", dest, target)
	opt := copy.Options{
		OnDirExists: func(src, dst string) copy.DirExistsAction {
			return copy.Replace
		},
	}
	if err := copy.Copy(dest, target, opt); err != nil {
		return err
	}
	return k.prune(name)
}

// prune removes the oldest snapshots of the named pair beyond the
// retention count. A non-positive count retains everything.
func (k *Keeper) prune(name string) error {
	if k.Keep < 1 {
		return nil
	}
	dir := filepath.Join(k.Dir, name)
	entries, err := os.ReadDir(dir)
	if err != nil {
		return err
	}

	var names []string
	for _, e := range entries {
		if e.IsDir() {
			names = append(names, e.Name())
		}
	}
	if len(names) <= k.Keep {
		return nil
	}
	sort.Strings(names)

	var res error
	for _, n := range names[:len(names)-k.Keep] {
		stale := filepath.Join(dir, n)
		logrus.Debugf("pruning old snapshot '%s'", stale)
		res = multierr.Append(res, os.RemoveAll(stale))
	}
	return res
}
