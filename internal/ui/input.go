package ui

import (
	"unicode"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/atomicstack/cmdlib/internal/logging/events"
	uistate "github.com/atomicstack/cmdlib/internal/ui/state"
)

func (m *Model) handleTextInput(msg tea.KeyMsg) bool {
	switch msg.String() {
	case "ctrl+u":
		if !m.query.Clear() {
			return false
		}
		events.Search.Cleared()
		m.applyQuery()
		return true
	case "ctrl+w":
		if !m.query.DeleteWordBackward() {
			return false
		}
		events.Search.WordBackspace(m.query.Text)
		m.applyQuery()
		return true
	case "ctrl+a":
		if !m.query.MoveStart() {
			return false
		}
		events.Search.Cursor(m.query.Cursor)
		return true
	case "ctrl+e":
		if !m.query.MoveEnd() {
			return false
		}
		events.Search.Cursor(m.query.Cursor)
		return true
	case "alt+b":
		if !m.query.MoveWordBackward() {
			return false
		}
		events.Search.Cursor(m.query.Cursor)
		return true
	case "alt+f":
		if !m.query.MoveWordForward() {
			return false
		}
		events.Search.Cursor(m.query.Cursor)
		return true
	}
	switch msg.Type {
	case tea.KeyBackspace, tea.KeyCtrlH:
		if !m.query.DeleteRuneBackward() {
			return false
		}
		events.Search.Backspace(m.query.Text)
		m.applyQuery()
		return true
	case tea.KeyRunes:
		if msg.Alt || len(msg.Runes) == 0 {
			return false
		}
		for _, r := range msg.Runes {
			if unicode.IsControl(r) {
				return false
			}
		}
		return m.appendToQuery(string(msg.Runes))
	case tea.KeySpace:
		return m.appendToQuery(" ")
	case tea.KeyLeft:
		if !m.query.MoveRuneBackward() {
			return false
		}
		events.Search.Cursor(m.query.Cursor)
		return true
	case tea.KeyRight:
		if !m.query.MoveRuneForward() {
			return false
		}
		events.Search.Cursor(m.query.Cursor)
		return true
	}
	return false
}

func (m *Model) appendToQuery(text string) bool {
	if !m.query.Insert(text) {
		return false
	}
	events.Search.Append(m.query.Text)
	m.applyQuery()
	return true
}

// applyQuery publishes the query for highlighting and moves the cursor to
// the group whose label matches it best.
func (m *Model) applyQuery() {
	m.proj.SetQuery(m.query.Trimmed())
	m.forceClearInfo()
	m.errMsg = ""
	m.jumpToBestMatch()
	m.syncViewport()
}

func (m *Model) jumpToBestMatch() {
	q := m.query.Trimmed()
	if q == "" {
		return
	}
	groups := m.proj.Snapshot().Groups
	labels := make([]string, len(groups))
	for i, g := range groups {
		labels[i] = g.Label
	}
	idx := uistate.BestMatchIndex(labels, q)
	if idx < 0 {
		return
	}
	if pos := m.proj.IndexOfGroup(groups[idx].ID); m.list.MoveTo(pos) {
		m.focus = -1
	}
	events.Search.Jump(q, m.list.Cursor)
}

func (m *Model) filterPrompt() string {
	render := func(style *lipgloss.Style, value string) string {
		if style == nil || value == "" {
			return value
		}
		return style.Render(value)
	}
	prompt := "/ "
	if styles.FilterPrompt != nil {
		prompt = styles.FilterPrompt.Render(prompt)
	}
	text := m.query.Text
	if m.mode != ModeSearch {
		if text == "" {
			return prompt + render(styles.FilterPlaceholder, "(press / to search)")
		}
		return prompt + render(styles.Filter, text)
	}
	if text == "" {
		placeholder := []rune("(type to search)")
		caret := m.renderFilterCursor(string(placeholder[0]), styles.FilterPlaceholder)
		return prompt + caret + render(styles.FilterPlaceholder, string(placeholder[1:]))
	}
	runes := []rune(text)
	pos := m.query.CursorPos()
	before := render(styles.Filter, string(runes[:pos]))
	caretRune := " "
	after := ""
	if pos < len(runes) {
		caretRune = string(runes[pos])
		after = render(styles.Filter, string(runes[pos+1:]))
	}
	return prompt + before + m.renderFilterCursor(caretRune, styles.Filter) + after
}

func (m *Model) renderFilterCursor(char string, text *lipgloss.Style) string {
	if char == "" {
		char = " "
	}
	if text != nil {
		m.queryCursor.TextStyle = *text
	} else {
		m.queryCursor.TextStyle = lipgloss.NewStyle()
	}
	m.queryCursor.SetChar(char)
	return m.queryCursor.View()
}
