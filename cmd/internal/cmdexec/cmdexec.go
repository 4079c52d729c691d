// Package cmdexec runs external commands for the workspace CLI, reporting
// failures with enough context to rerun them by hand.
package cmdexec

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"github.com/cockroachdb/errors"
)

// ExitError describes a failed command invocation.
type ExitError struct {
	Name   string
	Args   []string
	Dir    string
	Code   int
	Stderr string
}

func (e *ExitError) Error() string {
	msg := fmt.Sprintf("%q failed in %s with exit code %d",
		e.Name+" "+strings.Join(e.Args, " "), e.Dir, e.Code)
	if e.Stderr == "" {
		return msg
	}
	return msg + "\n" + strings.TrimSpace(e.Stderr)
}

// Run executes a command in dir with the caller's stdio attached. Stderr is
// captured as well so failures carry it in the returned error.
func Run(ctx context.Context, dir, name string, args ...string) error {
	cmd, stderr, err := command(ctx, dir, name, args...)
	if err != nil {
		return err
	}
	cmd.Stdin = os.Stdin
	cmd.Stdout = os.Stdout
	cmd.Stderr = io.MultiWriter(os.Stderr, stderr)

	if err := cmd.Run(); err != nil {
		return exitErr(cmd, err, stderr.String())
	}
	return nil
}

// Capture executes a command in dir and returns its stdout.
func Capture(ctx context.Context, dir, name string, args ...string) (string, error) {
	cmd, stderr, err := command(ctx, dir, name, args...)
	if err != nil {
		return "", err
	}
	cmd.Stderr = stderr

	out, err := cmd.Output()
	if err != nil {
		return "", exitErr(cmd, err, stderr.String())
	}
	return string(out), nil
}

func command(ctx context.Context, dir, name string, args ...string) (*exec.Cmd, *bytes.Buffer, error) {
	if !filepath.IsAbs(dir) {
		return nil, nil, errors.Newf("cmdexec: dir must be absolute, got %q", dir)
	}
	cmd := exec.CommandContext(ctx, name, args...)
	cmd.Dir = dir
	return cmd, &bytes.Buffer{}, nil
}

func exitErr(cmd *exec.Cmd, err error, stderr string) error {
	code := 1
	var exitError *exec.ExitError
	if errors.As(err, &exitError) {
		code = exitError.ExitCode()
		if stderr == "" {
			stderr = string(exitError.Stderr)
		}
	}
	return &ExitError{
		Name:   cmd.Args[0],
		Args:   cmd.Args[1:],
		Dir:    cmd.Dir,
		Code:   code,
		Stderr: stderr,
	}
}
