package ui

import (
	tea "github.com/charmbracelet/bubbletea"

	"github.com/atomicstack/cmdlib/internal/annotate"
	"github.com/atomicstack/cmdlib/internal/catalog"
	"github.com/atomicstack/cmdlib/internal/external"
	"github.com/atomicstack/cmdlib/internal/logging/events"
	"github.com/atomicstack/cmdlib/internal/projector"
)

type promoButton struct {
	label string
	pkg   string
}

var promotionButtons = []promoButton{
	{label: "Linux Quiz", pkg: external.QuizPackage},
	{label: "Linux Remote", pkg: external.RemotePackage},
}

func (m *Model) handleKeyMsg(msg tea.Msg) tea.Cmd {
	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return nil
	}
	switch m.mode {
	case ModeReference:
		return m.handleReferenceKey(keyMsg)
	case ModeSearch:
		return m.handleSearchKey(keyMsg)
	}
	return m.handleListKey(keyMsg)
}

func (m *Model) handleListKey(msg tea.KeyMsg) tea.Cmd {
	switch msg.String() {
	case "ctrl+c", "q":
		return tea.Quit
	case "esc":
		return m.handleEscapeKey()
	case "/":
		m.setMode(ModeSearch)
	case "enter", " ":
		return m.handleEnterKey()
	case "tab":
		m.cycleFocus(1)
	case "shift+tab":
		m.cycleFocus(-1)
	case "s":
		return m.handleShareKey()
	case "up", "k":
		m.moveCursorUp()
	case "down", "j":
		m.moveCursorDown()
	case "pgup":
		m.moveCursorPageUp()
	case "pgdown":
		m.moveCursorPageDown()
	case "home":
		m.moveCursorHome()
	case "end":
		m.moveCursorEnd()
	}
	return nil
}

func (m *Model) handleSearchKey(msg tea.KeyMsg) tea.Cmd {
	switch msg.String() {
	case "ctrl+c":
		return tea.Quit
	case "enter", "esc":
		m.setMode(ModeList)
		return nil
	case "up":
		m.moveCursorUp()
		return nil
	case "down":
		m.moveCursorDown()
		return nil
	}
	m.handleTextInput(msg)
	return nil
}

func (m *Model) handleReferenceKey(msg tea.KeyMsg) tea.Cmd {
	switch msg.String() {
	case "ctrl+c":
		return tea.Quit
	case "esc", "q", "backspace":
		m.setMode(ModeList)
		m.syncViewport()
		return nil
	}
	return m.updateReferenceViewport(msg)
}

// handleEscapeKey clears an active query first and quits once there is
// nothing left to clear.
func (m *Model) handleEscapeKey() tea.Cmd {
	if m.query.Clear() {
		events.Search.Cleared()
		m.applyQuery()
		return nil
	}
	return tea.Quit
}

func (m *Model) handleEnterKey() tea.Cmd {
	b, ok := m.proj.Bind(m.list.Cursor)
	if !ok {
		return nil
	}
	switch b.Kind {
	case projector.KindGroup:
		m.proj.Toggle(b.Group.ID)
		m.focus = -1
		m.syncViewport()
		return nil
	case projector.KindChild:
		return m.openLink(b)
	case projector.KindPromotion:
		return m.pressButton()
	}
	return nil
}

// openLink follows the focused link of a command row, or its first link
// when none is focused.
func (m *Model) openLink(b projector.Binding) tea.Cmd {
	text := m.commandText(b.Command)
	links := text.Links()
	if len(links) == 0 {
		m.setInfo("No reference page for this command.")
		return nil
	}
	idx := m.focus
	if idx < 0 || idx >= len(links) {
		idx = 0
	}
	text.ActivateLink(idx)
	return m.takePendingReference()
}

func (m *Model) takePendingReference() tea.Cmd {
	name := m.pendingRef
	m.pendingRef = ""
	if name == "" {
		return nil
	}
	return m.loadReferenceCmd(name)
}

func (m *Model) pressButton() tea.Cmd {
	idx := m.focus
	if idx < 0 || idx >= len(promotionButtons) {
		idx = 0
	}
	button := promotionButtons[idx]
	return m.openListing(button.label, button.pkg)
}

func (m *Model) handleShareKey() tea.Cmd {
	b, ok := m.proj.Bind(m.list.Cursor)
	if !ok || b.Kind != projector.KindChild {
		return nil
	}
	return m.shareCommand(b.Command)
}

// cycleFocus steps through the links of a command row or the buttons of the
// promotion row. The unfocused state sits between the last and first target.
func (m *Model) cycleFocus(delta int) {
	targets := m.focusTargets()
	if len(targets) == 0 {
		m.focus = -1
		return
	}
	states := len(targets) + 1
	next := ((m.focus+1+delta)%states + states) % states
	m.focus = next - 1
	target := ""
	if m.focus >= 0 {
		target = targets[m.focus]
	}
	events.UI.LinkFocus(m.list.Cursor, m.focus, target)
}

func (m *Model) focusTargets() []string {
	b, ok := m.proj.Bind(m.list.Cursor)
	if !ok {
		return nil
	}
	switch b.Kind {
	case projector.KindChild:
		links := m.commandText(b.Command).Links()
		targets := make([]string, len(links))
		for i, l := range links {
			targets[i] = l.Target
		}
		return targets
	case projector.KindPromotion:
		targets := make([]string, len(promotionButtons))
		for i, button := range promotionButtons {
			targets[i] = button.label
		}
		return targets
	}
	return nil
}

func (m *Model) moveCursorUp() {
	if m.list.MoveUp() {
		m.cursorMoved()
	}
	m.syncViewport()
}

func (m *Model) moveCursorDown() {
	if m.list.MoveDown() {
		m.cursorMoved()
	}
	m.syncViewport()
}

func (m *Model) moveCursorPageUp() {
	if m.list.MoveCursorPageUp(m.pageSize()) {
		m.cursorMoved()
	}
	m.syncViewport()
}

func (m *Model) moveCursorPageDown() {
	if m.list.MoveCursorPageDown(m.pageSize()) {
		m.cursorMoved()
	}
	m.syncViewport()
}

func (m *Model) moveCursorHome() {
	if m.list.MoveCursorHome() {
		m.cursorMoved()
	}
	m.syncViewport()
}

func (m *Model) moveCursorEnd() {
	if m.list.MoveCursorEnd() {
		m.cursorMoved()
	}
	m.syncViewport()
}

func (m *Model) cursorMoved() {
	m.focus = -1
	kind := ""
	if row, ok := m.proj.Row(m.list.Cursor); ok {
		kind = row.Kind().String()
	}
	events.UI.Cursor(m.list.Cursor, kind)
}

func (m *Model) pageSize() int {
	budget := m.listBudget()
	if budget <= 0 {
		return m.list.Len
	}
	return budget
}

// syncViewport refreshes the row count after a projection change and scrolls
// the cursor row into view.
func (m *Model) syncViewport() {
	m.list.SetLen(m.proj.Len())
	m.list.EnsureCursorVisible(m.rowHeight, m.listBudget())
}

// rowHeight reports how many screen lines row i occupies.
func (m *Model) rowHeight(i int) int {
	b, ok := m.proj.Bind(i)
	if !ok {
		return 1
	}
	switch b.Kind {
	case projector.KindChild:
		if n := len(annotate.Lines(b.Command.Text)); n > 1 {
			return n
		}
		return 1
	case projector.KindPromotion:
		return 2
	}
	return 1
}

func (m *Model) commandText(cmd catalog.Command) annotate.Text {
	return m.renderer.Render(cmd.Text, cmd.ManPages, cmd.Output)
}
