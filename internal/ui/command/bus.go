package command

import (
	"context"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/atomicstack/cmdlib/internal/logging/events"
)

const defaultTimeout = 10 * time.Second

// Request encapsulates an action invocation.
type Request struct {
	ID    string
	Label string
	Run   func(ctx context.Context) (string, error)
}

// Result is delivered back to the model once a request has run.
type Result struct {
	ID    string
	Label string
	Info  string
	Err   error
}

// Bus coordinates the execution of actions that leave the UI goroutine.
type Bus struct {
	timeout time.Duration
}

// New initialises a command bus instance.
func New() *Bus {
	return &Bus{timeout: defaultTimeout}
}

// Execute wraps an action into a Bubble Tea command while emitting trace logs.
func (b *Bus) Execute(req Request) tea.Cmd {
	events.Command.Queue(req.ID, req.Label)
	timeout := defaultTimeout
	if b != nil && b.timeout > 0 {
		timeout = b.timeout
	}
	return func() tea.Msg {
		if req.Run == nil {
			events.Command.Skip(req.ID, req.Label)
			return nil
		}
		ctx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()
		info, err := req.Run(ctx)
		outcome := "ok"
		if err != nil {
			outcome = "error"
		}
		events.Command.Result(req.ID, req.Label, outcome)
		return Result{ID: req.ID, Label: req.Label, Info: info, Err: err}
	}
}
