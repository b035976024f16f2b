package mirror

import (
	"context"
	"errors"
	"io"
	"os"
	"os/exec"
	"strings"

	"github.com/hashicorp/go-multierror"
	"github.com/sirupsen/logrus"
)

// outputTailLimit bounds how much subprocess output gets retained for
// error reports.
const outputTailLimit = 4096

// Result describes the outcome of a single mirror invocation.
type Result struct {
	// ExitCode is the exit status of the transfer tool: 0 on success, the
	// tool's own code on failure, and -1 when the process could not run.
	ExitCode int
	// Output is the tail of the combined stdout and stderr of the tool.
	Output string
}

// Runner makes a destination directory an exact replica of a source
// directory by delegating to an external transfer tool.
type Runner interface {
	Mirror(ctx context.Context, source, dest string) (*Result, error)
}

// Options configure the rsync-backed Runner.
type Options struct {
	// Path is the rsync binary to invoke. Defaults to "rsync".
	Path string
	// Quiet suppresses the verbose per-file progress output.
	Quiet bool
	// DryRun makes the tool report what would change without writing.
	DryRun bool
	// ExtraArgs are appended verbatim after the computed flags.
	ExtraArgs []string
	// Stdout and Stderr receive the live tool output. They default to the
	// standard streams of the process.
	Stdout io.Writer
	Stderr io.Writer
}

// NewRsyncRunner returns a Runner that shells out to rsync.
func NewRsyncRunner(opts Options) Runner {
	if len(opts.Path) == 0 {
		opts.Path = "rsync"
	}
	if opts.Stdout == nil {
		opts.Stdout = os.Stdout
	}
	if opts.Stderr == nil {
		opts.Stderr = os.Stderr
	}
	return &rsyncRunner{opts: opts, executor: &execCmdRunner{}}
}

type rsyncRunner struct {
	opts     Options
	executor cmdRunner
}

func (r *rsyncRunner) Mirror(ctx context.Context, source, dest string) (*Result, error) {
	args := r.buildArgs(source, dest)
	logrus.Debugf("running: %s %s", r.opts.Path, strings.Join(args, " "))

	tail := newTailWriter(outputTailLimit)
	stdout := io.MultiWriter(r.opts.Stdout, tail)
	stderr := io.MultiWriter(r.opts.Stderr, tail)

	err := r.executor.run(ctx, r.opts.Path, args, stdout, stderr)
	res := &Result{ExitCode: exitCode(err), Output: tail.String()}
	if err != nil {
		// append the output tail to the error for more context
		if out := strings.TrimSpace(res.Output); len(out) > 0 {
			err = multierror.Append(err, errors.New(out))
		}
		return res, err
	}
	return res, nil
}

// buildArgs assembles the rsync invocation for one pair: recursive
// archive-mode copy, deletion of destination-only entries, and either
// verbose per-file progress or quiet output. The source gets a trailing
// separator so the destination replicates its contents rather than the
// directory itself.
func (r *rsyncRunner) buildArgs(source, dest string) []string {
	args := []string{"--archive", "--delete"}
	if r.opts.Quiet {
		args = append(args, "--quiet")
	} else {
		args = append(args, "--verbose", "--progress")
	}
	if r.opts.DryRun {
		args = append(args, "--dry-run")
	}
	args = append(args, r.opts.ExtraArgs...)
	return append(args, withTrailingSep(source), dest)
}

func withTrailingSep(path string) string {
	sep := string(os.PathSeparator)
	if strings.HasSuffix(path, sep) {
		return path
	}
	return path + sep
}

// exitCode extracts the subprocess exit status from err.
func exitCode(err error) int {
	var exitErr *exec.ExitError
	switch {
	case err == nil:
		return 0
	case errors.As(err, &exitErr):
		return exitErr.ExitCode()
	default:
		return -1
	}
}
