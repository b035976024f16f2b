package sync

import (
	"fmt"

	"github.com/hashicorp/go-multierror"

	"github.com/joelgerard/healthsync/pkg/config"
)

// Request contains all the info required for performing a directory sync
// run.
type Request struct {
	// Pairs are mirrored strictly in order. The first failure aborts the
	// remaining ones.
	Pairs []config.SyncPair
	// DryRun disables every filesystem side effect of the run and makes
	// the transfer tool report instead of write.
	DryRun bool
}

// Error returns a non-nil error in case something is wrong with the sync
// request.
func (r *Request) Error() error {
	var err error
	if len(r.Pairs) == 0 {
		err = multierror.Append(fmt.Errorf("must define at least one sync pair in sync request"), err)
	}
	for i, p := range r.Pairs {
		if len(p.Name) == 0 {
			err = multierror.Append(fmt.Errorf("must define a name for sync pair #%d", i+1), err)
		}
		if len(p.Source) == 0 {
			err = multierror.Append(fmt.Errorf("must define a source for sync pair #%d", i+1), err)
		}
		if len(p.Dest) == 0 {
			err = multierror.Append(fmt.Errorf("must define a destination for sync pair #%d", i+1), err)
		}
	}
	return err
}

// MissingSourceError reports a configured source directory that does not
// exist at sync time. It aborts the whole run: a silently skipped source
// would let the backup rot.
type MissingSourceError struct {
	Path string
}

func (e MissingSourceError) Error() string {
	return fmt.Sprintf("source directory %q does not exist", e.Path)
}
