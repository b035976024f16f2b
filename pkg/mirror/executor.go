package mirror

import (
	"context"
	"io"
	"os/exec"
	"sync"
)

type cmdRunner interface {
	run(ctx context.Context, name string, args []string, stdout, stderr io.Writer) error
}

type execCmdRunner struct{}

func (e *execCmdRunner) run(ctx context.Context, name string, args []string, stdout, stderr io.Writer) error {
	cmd := exec.CommandContext(ctx, name, args...)
	cmd.Stdout = stdout
	cmd.Stderr = stderr
	return cmd.Run()
}

// tailWriter retains only the last limit bytes written to it, so error
// reports stay bounded even when a transfer logs megabytes of progress.
type tailWriter struct {
	// mu guards buf: the stdout and stderr pipes write concurrently.
	mu    sync.Mutex
	limit int
	buf   []byte
}

func newTailWriter(limit int) *tailWriter {
	return &tailWriter{limit: limit}
}

func (w *tailWriter) Write(p []byte) (int, error) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.buf = append(w.buf, p...)
	if over := len(w.buf) - w.limit; over > 0 {
		w.buf = w.buf[over:]
	}
	return len(p), nil
}

func (w *tailWriter) String() string {
	w.mu.Lock()
	defer w.mu.Unlock()
	return string(w.buf)
}
