package command

import (
	"context"
	"errors"
	"testing"
	"time"
)

func TestExecuteReturnsResult(t *testing.T) {
	bus := New()
	cmd := bus.Execute(Request{ID: "share", Label: "ls", Run: func(ctx context.Context) (string, error) {
		if _, ok := ctx.Deadline(); !ok {
			t.Fatalf("expected a deadline on the action context")
		}
		return "Copied to clipboard", nil
	}})
	res, ok := cmd().(Result)
	if !ok {
		t.Fatalf("expected Result message")
	}
	if res.ID != "share" || res.Label != "ls" || res.Info != "Copied to clipboard" || res.Err != nil {
		t.Fatalf("unexpected result %+v", res)
	}
}

func TestExecuteCarriesErrors(t *testing.T) {
	boom := errors.New("no handler")
	res := New().Execute(Request{ID: "listing", Run: func(context.Context) (string, error) {
		return "", boom
	}})().(Result)
	if !errors.Is(res.Err, boom) {
		t.Fatalf("expected error, got %+v", res)
	}
}

func TestExecuteWithoutRunIsSkipped(t *testing.T) {
	if msg := New().Execute(Request{ID: "noop"})(); msg != nil {
		t.Fatalf("expected nil message, got %#v", msg)
	}
}

func TestExecuteHonoursTimeout(t *testing.T) {
	bus := &Bus{timeout: 10 * time.Millisecond}
	res := bus.Execute(Request{ID: "slow", Run: func(ctx context.Context) (string, error) {
		<-ctx.Done()
		return "", ctx.Err()
	}})().(Result)
	if !errors.Is(res.Err, context.DeadlineExceeded) {
		t.Fatalf("expected deadline exceeded, got %v", res.Err)
	}
}
