package ui

import (
	"errors"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/atomicstack/cmdlib/internal/external"
)

func TestEnterTogglesGroupAndKeepsCursor(t *testing.T) {
	h := NewHarness(newTestModel(Options{}))
	h.Keys("enter")
	m := h.Model()
	if !m.proj.IsExpanded(10) {
		t.Fatalf("expected group 10 expanded")
	}
	if m.list.Len != 5 || m.list.Cursor != 0 {
		t.Fatalf("expected 5 rows with cursor on header, got len=%d cursor=%d", m.list.Len, m.list.Cursor)
	}
	h.Keys("space")
	if m.proj.IsExpanded(10) || m.list.Len != 3 {
		t.Fatalf("expected group collapsed again, len=%d", m.list.Len)
	}
}

func TestCursorWrapsAround(t *testing.T) {
	h := NewHarness(newTestModel(Options{}))
	h.Keys("up")
	if got := h.Model().list.Cursor; got != 2 {
		t.Fatalf("expected cursor to wrap to promotion row, got %d", got)
	}
	h.Keys("j")
	if got := h.Model().list.Cursor; got != 0 {
		t.Fatalf("expected cursor to wrap to first row, got %d", got)
	}
}

func TestEscapeWithoutQueryQuits(t *testing.T) {
	m := newTestModel(Options{})
	cmd := m.handleEscapeKey()
	if cmd == nil {
		t.Fatalf("expected quit command")
	}
	if _, ok := cmd().(tea.QuitMsg); !ok {
		t.Fatalf("expected tea.QuitMsg")
	}
}

func TestEscapeClearsQueryFirst(t *testing.T) {
	h := NewHarness(newTestModel(Options{}))
	h.Keys("/", "s", "e", "a", "enter", "esc")
	m := h.Model()
	if h.Quit() {
		t.Fatalf("expected first escape to clear the query, not quit")
	}
	if m.query.Text != "" || m.proj.Query() != "" {
		t.Fatalf("expected empty query, got %q / %q", m.query.Text, m.proj.Query())
	}
	h.Keys("esc")
	if !h.Quit() {
		t.Fatalf("expected second escape to quit")
	}
}

// expandSearching opens the second group and moves onto its second command.
func expandSearching(h *Harness) {
	h.Keys("down", "enter", "down", "down")
}

func TestTabCyclesLinkFocus(t *testing.T) {
	h := NewHarness(newTestModel(Options{}))
	expandSearching(h)
	m := h.Model()
	want := []int{0, 1, 2, -1, 0}
	for i, w := range want {
		h.Keys("tab")
		if m.focus != w {
			t.Fatalf("tab %d: expected focus %d, got %d", i, w, m.focus)
		}
	}
	h.Keys("shift+tab", "shift+tab")
	if m.focus != 2 {
		t.Fatalf("expected shift+tab to wrap to last link, got %d", m.focus)
	}
	h.Keys("up")
	if m.focus != -1 {
		t.Fatalf("expected focus reset after moving, got %d", m.focus)
	}
}

func TestTabOnGroupHeaderDoesNothing(t *testing.T) {
	h := NewHarness(newTestModel(Options{}))
	h.Keys("tab")
	if h.Model().focus != -1 {
		t.Fatalf("expected no focus on a group header")
	}
}

func TestEnterOpensFocusedLink(t *testing.T) {
	pages := testPages()
	h := NewHarness(newTestModel(Options{Width: 60, Height: 20, Pages: pages}))
	expandSearching(h)
	h.Keys("tab", "tab", "enter")
	m := h.Model()
	if m.Mode() != ModeReference || m.Reference() != "xargs" {
		t.Fatalf("expected xargs reference, got mode=%v ref=%q err=%q", m.Mode(), m.Reference(), m.errMsg)
	}
	view := h.View()
	if !strings.Contains(view, "xargs: build command lines") || !strings.Contains(view, "xargs reads items") {
		t.Fatalf("expected reference page in view, got:\n%s", view)
	}
	h.Keys("esc")
	if m.Mode() != ModeList || m.list.Cursor != 3 {
		t.Fatalf("expected to return to the list at the same row, mode=%v cursor=%d", m.Mode(), m.list.Cursor)
	}
}

func TestEnterWithoutFocusOpensFirstLink(t *testing.T) {
	pages := testPages()
	h := NewHarness(newTestModel(Options{Pages: pages}))
	expandSearching(h)
	h.Keys("enter")
	if got := h.Model().Reference(); got != "find" {
		t.Fatalf("expected first link find, got %q", got)
	}
	if len(pages.looked) != 1 || pages.looked[0] != "find" {
		t.Fatalf("unexpected lookups %v", pages.looked)
	}
}

func TestEnterOnCommandWithoutLinks(t *testing.T) {
	pages := testPages()
	h := NewHarness(newTestModel(Options{Pages: pages}))
	h.Keys("enter", "down", "enter")
	m := h.Model()
	if m.Mode() != ModeList || len(pages.looked) != 0 {
		t.Fatalf("expected no navigation, mode=%v lookups=%v", m.Mode(), pages.looked)
	}
	if !strings.Contains(m.currentInfo(), "No reference page") {
		t.Fatalf("expected info message, got %q", m.currentInfo())
	}
}

func TestMissingReferenceStaysOnList(t *testing.T) {
	pages := testPages()
	delete(pages.pages, "find")
	h := NewHarness(newTestModel(Options{Pages: pages}))
	expandSearching(h)
	h.Keys("enter")
	m := h.Model()
	if m.Mode() != ModeList {
		t.Fatalf("expected to stay on the list")
	}
	if !strings.Contains(m.errMsg, "not found") {
		t.Fatalf("expected not-found error, got %q", m.errMsg)
	}
}

func TestReferenceWithoutPagesService(t *testing.T) {
	h := NewHarness(newTestModel(Options{}))
	expandSearching(h)
	h.Keys("enter")
	if h.Model().errMsg != errNoPages.Error() {
		t.Fatalf("expected %q, got %q", errNoPages, h.Model().errMsg)
	}
}

func TestPromotionButtons(t *testing.T) {
	market := &fakeMarket{}
	h := NewHarness(newTestModel(Options{Market: market}))
	h.Keys("end", "tab", "tab", "enter")
	if len(market.pkgs) != 1 || market.pkgs[0] != external.RemotePackage {
		t.Fatalf("expected remote listing, got %v", market.pkgs)
	}
	if !strings.Contains(h.Model().currentInfo(), "Opened market://details?id="+external.RemotePackage) {
		t.Fatalf("unexpected info %q", h.Model().currentInfo())
	}
}

func TestPromotionEnterWithoutFocusOpensFirstButton(t *testing.T) {
	market := &fakeMarket{}
	h := NewHarness(newTestModel(Options{Market: market}))
	h.Keys("end", "enter")
	if len(market.pkgs) != 1 || market.pkgs[0] != external.QuizPackage {
		t.Fatalf("expected quiz listing, got %v", market.pkgs)
	}
}

func TestPromotionFailureIsReported(t *testing.T) {
	market := &fakeMarket{err: external.ErrNoHandler}
	h := NewHarness(newTestModel(Options{Market: market}))
	h.Keys("end", "enter")
	m := h.Model()
	if !strings.Contains(m.errMsg, "listing failed") {
		t.Fatalf("expected listing error, got %q", m.errMsg)
	}
	if h.Quit() {
		t.Fatalf("a failed action must not quit")
	}
}

func TestShareCommand(t *testing.T) {
	sharer := &fakeSharer{via: "clipboard"}
	h := NewHarness(newTestModel(Options{Sharer: sharer}))
	expandSearching(h)
	h.Keys("s")
	if len(sharer.texts) != 1 || sharer.texts[0] != "find . -name x | xargs grep y" {
		t.Fatalf("unexpected shared text %v", sharer.texts)
	}
	if got := h.Model().currentInfo(); got != "Copied to clipboard" {
		t.Fatalf("unexpected info %q", got)
	}
}

func TestShareFailureIsReported(t *testing.T) {
	sharer := &fakeSharer{err: errors.New("no clipboard")}
	h := NewHarness(newTestModel(Options{Sharer: sharer}))
	expandSearching(h)
	h.Keys("s")
	if got := h.Model().errMsg; !strings.Contains(got, "share failed: no clipboard") {
		t.Fatalf("unexpected error %q", got)
	}
}

func TestShareIgnoresGroupRows(t *testing.T) {
	sharer := &fakeSharer{via: "clipboard"}
	h := NewHarness(newTestModel(Options{Sharer: sharer}))
	h.Keys("s")
	if len(sharer.texts) != 0 {
		t.Fatalf("expected nothing shared from a group header")
	}
}

func TestPageKeysMoveByVisibleRows(t *testing.T) {
	h := NewHarness(newTestModel(Options{Height: 6}))
	h.Keys("down", "enter", "home", "enter")
	m := h.Model()
	// 7 rows: g0 c c g1 c c promo; 3 lines of budget.
	if m.list.Len != 7 {
		t.Fatalf("expected 7 rows, got %d", m.list.Len)
	}
	h.Keys("home", "pgdown")
	if m.list.Cursor != 3 {
		t.Fatalf("expected pgdown to move 3 rows, got %d", m.list.Cursor)
	}
	h.Keys("pgup")
	if m.list.Cursor != 0 {
		t.Fatalf("expected pgup back to 0, got %d", m.list.Cursor)
	}
}
