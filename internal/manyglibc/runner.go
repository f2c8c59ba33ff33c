package manyglibc

import (
	"context"
	"fmt"
	"io"
	"os/exec"
	"syscall"
	"time"
)

// Runner executes external build commands. Each child gets its own process
// group so that cancelling the run context kills the whole tool tree (make
// fans out into compilers), not just the immediate child.
type Runner struct {
	Context context.Context
}

func NewRunner(ctx context.Context) *Runner {
	return &Runner{Context: ctx}
}

// Run starts argv in dir with stdout/stderr wired to the given writers and
// waits for it. The returned error is the child's exit error, or a wrapped
// context error if the run was cancelled while the child was alive.
func (r *Runner) Run(argv []string, dir string, stdout, stderr io.Writer) error {
	cmd := exec.Command(argv[0], argv[1:]...)
	cmd.Dir = dir
	cmd.Stdout = stdout
	cmd.Stderr = stderr
	cmd.SysProcAttr = &syscall.SysProcAttr{Setpgid: true}

	if err := cmd.Start(); err != nil {
		return fmt.Errorf("failed to start command: %w", err)
	}

	pgid := cmd.Process.Pid
	done := make(chan struct{})
	defer close(done)
	go func() {
		select {
		case <-r.Context.Done():
			syscall.Kill(-pgid, syscall.SIGKILL)
		case <-done:
		}
	}()

	if waitErr := cmd.Wait(); waitErr != nil {
		if r.Context.Err() != nil {
			// Let the killed group flush before reporting.
			time.Sleep(100 * time.Millisecond)
			return fmt.Errorf("command aborted: %v", r.Context.Err())
		}
		return waitErr
	}
	return nil
}
