package ui

import (
	"errors"
	"strings"
	"testing"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"

	"github.com/atomicstack/cmdlib/internal/annotate"
	"github.com/atomicstack/cmdlib/internal/backend"
	"github.com/atomicstack/cmdlib/internal/catalog"
	"github.com/atomicstack/cmdlib/internal/projector"
)

func plainView(h *Harness) string {
	return ansi.Strip(h.View())
}

func TestViewShowsHeaderGroupsAndPromotion(t *testing.T) {
	h := NewHarness(newTestModel(Options{Width: 80, Height: 20}))
	view := plainView(h)
	for _, want := range []string{
		"Command library  2 groups · 4 commands",
		"▸ ℹ System information  2",
		"▸ Searching",
		"[ Linux Quiz ]",
		"[ Linux Remote ]",
		"press / to search",
	} {
		if !strings.Contains(view, want) {
			t.Fatalf("expected %q in view, got:\n%s", want, view)
		}
	}
}

func TestViewExpandedGroupShowsMultiLineCommand(t *testing.T) {
	h := NewHarness(newTestModel(Options{Width: 80, Height: 20}))
	h.Keys("enter", "down", "down")
	view := plainView(h)
	if !strings.Contains(view, "▾ ℹ System information") {
		t.Fatalf("expected expanded marker, got:\n%s", view)
	}
	if !strings.Contains(view, "[user] runs ls -la  s share") {
		t.Fatalf("expected selected command with share hint, got:\n%s", view)
	}
	if !strings.Contains(view, childIndent+"file.txt") {
		t.Fatalf("expected output line on its own row, got:\n%s", view)
	}
}

func TestViewFitsHeight(t *testing.T) {
	h := NewHarness(newTestModel(Options{Width: 40, Height: 6}))
	h.Keys("enter", "end")
	lines := strings.Split(h.View(), "\n")
	if len(lines) > 6 {
		t.Fatalf("expected at most 6 lines, got %d:\n%s", len(lines), h.View())
	}
	if !strings.Contains(plainView(h), "Linux Quiz") {
		t.Fatalf("expected promotion row scrolled into view, got:\n%s", plainView(h))
	}
	for _, line := range lines {
		if w := lipgloss.Width(line); w > 40 {
			t.Fatalf("line wider than 40 cells (%d): %q", w, line)
		}
	}
}

func TestViewShowsErrorAndBackendIssue(t *testing.T) {
	m := newTestModel(Options{Width: 80})
	m.backendState[backend.KindCatalog] = errors.New("boom")
	m.backendLastErr = "poll failed"
	if view := ansi.Strip(m.View()); !strings.Contains(view, "Catalog: poll failed") {
		t.Fatalf("expected backend issue, got:\n%s", view)
	}
	m.errMsg = "share failed"
	if view := ansi.Strip(m.View()); !strings.Contains(view, "Error: share failed") {
		t.Fatalf("expected error, got:\n%s", view)
	}
}

func TestViewEmptyCatalog(t *testing.T) {
	m := NewModel(projector.New(catalog.Snapshot{}, nil), Options{})
	view := ansi.Strip(m.View())
	if !strings.Contains(view, "(catalog is empty)") || !strings.Contains(view, "Linux Quiz") {
		t.Fatalf("expected empty marker and promotion row, got:\n%s", view)
	}
}

func TestViewFooter(t *testing.T) {
	h := NewHarness(newTestModel(Options{ShowFooter: true}))
	if !strings.Contains(plainView(h), "s share") {
		t.Fatalf("expected list footer")
	}
	h.Keys("/")
	if !strings.Contains(plainView(h), "enter/esc done") {
		t.Fatalf("expected search footer")
	}
}

func TestHighlightKeepsText(t *testing.T) {
	base := lipgloss.NewStyle().Bold(true)
	match := lipgloss.NewStyle().Underline(true)
	spans := annotate.QuerySpans("Searching", "arch")
	got := ansi.Strip(highlight("Searching", spans, &base, &match))
	if got != "Searching" {
		t.Fatalf("expected text preserved, got %q", got)
	}
	if got := highlight("abc", nil, nil, nil); got != "abc" {
		t.Fatalf("expected plain text, got %q", got)
	}
}

func TestLimitHeightAddsEllipsis(t *testing.T) {
	lines := []styledLine{{text: "a"}, {text: "b"}, {text: "c"}}
	got := limitHeight(lines, 2, 10)
	if len(got) != 2 || got[1].text != "…" {
		t.Fatalf("unexpected lines %+v", got)
	}
}

func TestTruncateText(t *testing.T) {
	cases := []struct {
		text  string
		width int
		want  string
	}{
		{"hello", 10, "hello"},
		{"hello", 3, "he…"},
		{"hello", 1, "h"},
		{"hello", 0, "hello"},
	}
	for _, tc := range cases {
		if got := truncateText(tc.text, tc.width); got != tc.want {
			t.Fatalf("truncateText(%q, %d) = %q, want %q", tc.text, tc.width, got, tc.want)
		}
	}
}
