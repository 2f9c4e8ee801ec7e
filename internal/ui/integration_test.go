package ui

import (
	"errors"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/atomicstack/cmdlib/internal/backend"
	"github.com/atomicstack/cmdlib/internal/catalog"
)

func TestCatalogUpdateKeepsCursorOnCommand(t *testing.T) {
	h := NewHarness(newTestModel(Options{Width: 80, Height: 20}))
	expandSearching(h)
	h.Keys("tab")

	next := testSnapshot()
	next.Revision = 2
	next.Groups = append([]catalog.Group{{ID: 5, Label: "Archives", Commands: []catalog.Command{{ID: 50, Text: "tar xf [file]"}}}}, next.Groups...)
	h.Send(backendEventMsg{event: backend.Event{Kind: backend.KindCatalog, Data: next}})

	m := h.Model()
	b, ok := m.proj.Bind(m.list.Cursor)
	if !ok || b.Command.ID != 201 {
		t.Fatalf("expected cursor to stay on command 201, got %+v (ok=%v)", b, ok)
	}
	if m.list.Cursor != 4 || m.focus != -1 {
		t.Fatalf("expected cursor 4 with focus reset, got cursor=%d focus=%d", m.list.Cursor, m.focus)
	}
	if !strings.Contains(plainView(h), "Archives") {
		t.Fatalf("expected new group in view")
	}
}

func TestCatalogUpdateDropsOlderRevision(t *testing.T) {
	h := NewHarness(newTestModel(Options{}))
	older := catalog.Snapshot{Revision: 0}
	h.Send(backendEventMsg{event: backend.Event{Kind: backend.KindCatalog, Data: older}})
	if got := len(h.Model().proj.Snapshot().Groups); got != 2 {
		t.Fatalf("expected older snapshot ignored, got %d groups", got)
	}
}

func TestCatalogUpdateRemovingGroupMovesCursor(t *testing.T) {
	h := NewHarness(newTestModel(Options{}))
	expandSearching(h)
	next := testSnapshot()
	next.Revision = 3
	next.Groups = next.Groups[:1]
	h.Send(backendEventMsg{event: backend.Event{Kind: backend.KindCatalog, Data: next}})
	m := h.Model()
	if m.list.Len != 2 {
		t.Fatalf("expected 2 rows, got %d", m.list.Len)
	}
	if m.list.Cursor < 0 || m.list.Cursor >= m.list.Len {
		t.Fatalf("cursor %d out of range", m.list.Cursor)
	}
	// Rendering after the shrink must not panic.
	_ = h.View()
}

func TestBackendErrorsSurfaceUntilRecovered(t *testing.T) {
	h := NewHarness(newTestModel(Options{Width: 80}))
	h.Send(backendEventMsg{event: backend.Event{Kind: backend.KindCatalog, Err: errors.New("database is locked")}})
	if !strings.Contains(plainView(h), "Catalog: database is locked") {
		t.Fatalf("expected backend error in view, got:\n%s", plainView(h))
	}
	next := testSnapshot()
	next.Revision = 2
	h.Send(backendEventMsg{event: backend.Event{Kind: backend.KindCatalog, Data: next}})
	if warn, _ := h.Model().hasBackendIssue(); warn {
		t.Fatalf("expected backend issue cleared")
	}
}

func TestRecoveryWithSameRevisionClearsIssue(t *testing.T) {
	h := NewHarness(newTestModel(Options{Width: 80}))
	expandSearching(h)
	h.Send(backendEventMsg{event: backend.Event{Kind: backend.KindCatalog, Err: errors.New("database is locked")}})
	h.Send(backendEventMsg{event: backend.Event{Kind: backend.KindCatalog, Data: testSnapshot()}})
	m := h.Model()
	if warn, _ := m.hasBackendIssue(); warn {
		t.Fatalf("expected backend issue cleared")
	}
	if m.list.Cursor != 3 {
		t.Fatalf("expected cursor untouched, got %d", m.list.Cursor)
	}
	if strings.Contains(plainView(h), "database is locked") {
		t.Fatalf("expected status line cleared, got:\n%s", plainView(h))
	}
}

func TestImportEventsShownWhenVerbose(t *testing.T) {
	h := NewHarness(newTestModel(Options{Verbose: true}))
	h.Send(backendEventMsg{event: backend.Event{Kind: backend.KindImport, Data: backend.ImportResult{Path: "/tmp/seed.yaml", Groups: 7}}})
	if got := h.Model().currentInfo(); got != "Imported 7 groups from /tmp/seed.yaml" {
		t.Fatalf("unexpected info %q", got)
	}
}

func TestBackendDoneStopsWaiting(t *testing.T) {
	m := newTestModel(Options{})
	if cmd := m.handleBackendDoneMsg(backendDoneMsg{}); cmd != nil {
		t.Fatalf("expected no follow-up command")
	}
	if m.backend != nil {
		t.Fatalf("expected watcher cleared")
	}
}

func TestQuitFromList(t *testing.T) {
	h := NewHarness(newTestModel(Options{}))
	h.Send(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("q")})
	if !h.Quit() {
		t.Fatalf("expected q to quit")
	}
}
