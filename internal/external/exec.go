// Package external performs actions that leave the application: copying
// text for sharing and opening marketplace listings.
package external

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
)

// ErrNoHandler is returned when no program on this system can perform an
// action.
var ErrNoHandler = errors.New("no handler available")

// runner executes a program. Tests swap it out.
type runner func(ctx context.Context, name string, args ...string) error

// lookPath reports whether a program is installed.
type lookPath func(name string) (string, error)

func runCommand(ctx context.Context, name string, args ...string) error {
	cmd := exec.CommandContext(ctx, name, args...)
	if name == "tmux" {
		if dir := socketDir(os.Getenv("CMDLIB_TMUX_SOCKET")); dir != "" {
			cmd.Env = append(os.Environ(), "TMUX_TMPDIR="+dir)
		}
	}
	if out, err := cmd.CombinedOutput(); err != nil {
		msg := strings.TrimSpace(string(out))
		if msg == "" {
			return fmt.Errorf("%s: %w", name, err)
		}
		return fmt.Errorf("%s: %w: %s", name, err, msg)
	}
	return nil
}

func tmuxArgs(socket string, extra ...string) []string {
	args := make([]string, 0, len(extra)+2)
	if trimmed := strings.TrimSpace(socket); trimmed != "" {
		args = append(args, "-S", trimmed)
	}
	return append(args, extra...)
}

func socketDir(socket string) string {
	trimmed := strings.TrimSpace(socket)
	if trimmed == "" {
		return ""
	}
	return filepath.Dir(trimmed)
}
