package ui

import (
	"fmt"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/atomicstack/cmdlib/internal/backend"
	"github.com/atomicstack/cmdlib/internal/projector"
)

func waitForBackendEvent(w *backend.Watcher) tea.Cmd {
	return func() tea.Msg {
		evt, ok := <-w.Events()
		if !ok {
			return backendDoneMsg{}
		}
		return backendEventMsg{event: evt}
	}
}

type backendEventMsg struct {
	event backend.Event
}

type backendDoneMsg struct{}

func (m *Model) handleBackendEventMsg(msg tea.Msg) tea.Cmd {
	eventMsg, ok := msg.(backendEventMsg)
	if !ok {
		return nil
	}
	m.applyBackendEvent(eventMsg.event)
	if m.backend != nil {
		return waitForBackendEvent(m.backend)
	}
	return nil
}

func (m *Model) handleBackendDoneMsg(tea.Msg) tea.Cmd {
	m.backend = nil
	return nil
}

// anchor remembers what the cursor pointed at so it can be found again after
// the catalog is replaced underneath it.
type anchor struct {
	kind    projector.Kind
	groupID int64
	child   int
	valid   bool
}

func (m *Model) captureAnchor() anchor {
	b, ok := m.proj.Bind(m.list.Cursor)
	if !ok {
		return anchor{}
	}
	a := anchor{kind: b.Kind, child: b.Row.ChildIndex(), valid: true}
	if b.Kind != projector.KindPromotion {
		a.groupID = b.Group.ID
	}
	return a
}

func (m *Model) restoreAnchor(a anchor) {
	m.list.SetLen(m.proj.Len())
	if !a.valid {
		return
	}
	if a.kind == projector.KindPromotion {
		m.list.MoveTo(m.proj.Len() - 1)
		return
	}
	pos := m.proj.IndexOfGroup(a.groupID)
	if pos < 0 {
		return
	}
	if a.kind == projector.KindChild && m.proj.IsExpanded(a.groupID) {
		if g, ok := m.proj.Snapshot().GroupByID(a.groupID); ok && a.child < len(g.Commands) {
			pos += a.child + 1
		}
	}
	m.list.MoveTo(pos)
}

func (m *Model) applyBackendEvent(evt backend.Event) {
	if m.backendState == nil {
		m.backendState = make(map[backend.Kind]error)
	}
	m.backendState[evt.Kind] = evt.Err
	if evt.Err != nil {
		m.backendLastErr = evt.Err.Error()
		return
	}

	prev := m.list.Cursor
	before := m.captureAnchor()
	res := m.dispatcher.Handle(evt)
	if res.CatalogUpdated {
		m.restoreAnchor(before)
		if m.list.Cursor != prev {
			m.focus = -1
		}
		m.syncViewport()
		m.clearInfo()
	}
	if res.Imported && m.verbose {
		m.setInfo(fmt.Sprintf("Imported %d groups from %s", res.Groups, res.Source))
	}

	if warn, _ := m.hasBackendIssue(); !warn {
		m.backendLastErr = ""
	}
}

func (m *Model) hasBackendIssue() (bool, string) {
	for _, err := range m.backendState {
		if err != nil {
			msg := m.backendLastErr
			if msg == "" {
				msg = err.Error()
			}
			return true, msg
		}
	}
	return false, ""
}
