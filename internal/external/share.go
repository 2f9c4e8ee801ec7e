package external

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/atotto/clipboard"
)

// Sharer hands command text to the system clipboard, or to a tmux paste
// buffer when no clipboard is reachable and the app runs inside tmux.
type Sharer struct {
	socket string

	writeClipboard func(string) error
	clipboardOK    func() bool
	inTmux         func() bool
	run            runner
}

// NewSharer returns a sharer. socket selects a non-default tmux server.
func NewSharer(socket string) *Sharer {
	return &Sharer{
		socket:         socket,
		writeClipboard: clipboard.WriteAll,
		clipboardOK:    func() bool { return !clipboard.Unsupported },
		inTmux:         func() bool { return os.Getenv("TMUX") != "" },
		run:            runCommand,
	}
}

// Share copies text. It returns where the text went ("clipboard" or
// "tmux buffer") or ErrNoHandler when nothing could take it.
func (s *Sharer) Share(ctx context.Context, text string) (string, error) {
	if s == nil {
		return "", ErrNoHandler
	}
	if strings.TrimSpace(text) == "" {
		return "", fmt.Errorf("share: empty text")
	}
	var errs []error
	if s.clipboardOK() {
		err := s.writeClipboard(text)
		if err == nil {
			return "clipboard", nil
		}
		errs = append(errs, fmt.Errorf("clipboard: %w", err))
	}
	if s.inTmux() {
		err := s.run(ctx, "tmux", tmuxArgs(s.socket, "set-buffer", "--", text)...)
		if err == nil {
			return "tmux buffer", nil
		}
		errs = append(errs, err)
	}
	if len(errs) == 0 {
		return "", ErrNoHandler
	}
	return "", fmt.Errorf("share: %w", errors.Join(append([]error{ErrNoHandler}, errs...)...))
}
