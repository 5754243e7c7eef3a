package toolchain

import (
	"context"
	"errors"
	"fmt"
	"os/exec"
	"syscall"
	"time"
)

// Runner starts real processes with os/exec.
type Runner struct{}

// Invoke starts inv.Program and blocks until it exits. When inv.Timeout is
// set, or ctx is cancelled, the process group receives SIGTERM and, after
// inv.TermGrace, SIGKILL.
func (Runner) Invoke(ctx context.Context, inv Invocation) Outcome {
	cmd := exec.Command(inv.Program, inv.Args...)
	cmd.Dir = inv.Dir
	cmd.Env = inv.Env
	cmd.Stdin = inv.Stdin
	cmd.Stdout = inv.Stdout
	cmd.Stderr = inv.Stderr
	// Only detach into a new group when we may have to kill it; otherwise
	// the child stays in the terminal's foreground group and sees Ctrl-C.
	killGroup := inv.Timeout > 0
	if killGroup {
		cmd.SysProcAttr = &syscall.SysProcAttr{Setpgid: true}
	}

	if err := cmd.Start(); err != nil {
		var ee *exec.Error
		if errors.As(err, &ee) {
			return Outcome{Code: CodeNotStarted, Err: fmt.Errorf("program %s not found", inv.Program)}
		}
		return Outcome{Code: CodeNotStarted, Err: fmt.Errorf("program %s start failed: %v", inv.Program, err)}
	}

	done := make(chan error, 1)
	go func() {
		done <- cmd.Wait()
	}()

	var timeout <-chan time.Time
	if inv.Timeout > 0 {
		timer := time.NewTimer(inv.Timeout)
		defer timer.Stop()
		timeout = timer.C
	}

	timedOut, waitErr := awaitExit(ctx, done, timeout, func() error {
		return terminate(cmd, killGroup, inv.TermGrace, done)
	})

	if timedOut {
		return Outcome{Code: CodeTimeout, TimedOut: true}
	}
	out := outcomeFromWait(inv.Program, waitErr)
	if out.Err == nil && out.Code != 0 && ctx.Err() != nil {
		out.Err = ctx.Err()
	}
	return out
}

// awaitExit waits for done, calling stop when timeout fires or ctx ends.
// An exit already sent on done wins over a timer or cancellation that
// became ready at the same moment.
func awaitExit(ctx context.Context, done <-chan error, timeout <-chan time.Time, stop func() error) (timedOut bool, err error) {
	select {
	case err = <-done:
		return false, err
	case <-timeout:
		if err, ok := exited(done); ok {
			return false, err
		}
		return true, stop()
	case <-ctx.Done():
		if err, ok := exited(done); ok {
			return false, err
		}
		return false, stop()
	}
}

func exited(done <-chan error) (error, bool) {
	select {
	case err := <-done:
		return err, true
	default:
		return nil, false
	}
}

func terminate(cmd *exec.Cmd, killGroup bool, grace time.Duration, done <-chan error) error {
	signalProcess(cmd, killGroup, syscall.SIGTERM)
	t := time.NewTimer(grace)
	defer t.Stop()
	select {
	case err := <-done:
		return err
	case <-t.C:
		signalProcess(cmd, killGroup, syscall.SIGKILL)
		return <-done
	}
}

func outcomeFromWait(program string, err error) Outcome {
	if err == nil {
		return Outcome{}
	}
	var exitErr *exec.ExitError
	if !errors.As(err, &exitErr) {
		return Outcome{Code: 1, Err: fmt.Errorf("program %s execution failed: %v", program, err)}
	}
	if ws, ok := exitErr.Sys().(syscall.WaitStatus); ok && ws.Signaled() {
		return Outcome{Code: codeSignalBase + int(ws.Signal()), Signaled: true}
	}
	return Outcome{Code: exitErr.ExitCode()}
}

func signalProcess(cmd *exec.Cmd, killGroup bool, sig syscall.Signal) {
	if cmd == nil || cmd.Process == nil {
		return
	}
	pid := cmd.Process.Pid
	if killGroup && pid > 0 {
		if err := syscall.Kill(-pid, sig); err == nil {
			return
		}
	}
	_ = cmd.Process.Signal(sig)
}
