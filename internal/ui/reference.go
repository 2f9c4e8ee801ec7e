package ui

import (
	"context"
	"errors"
	"time"

	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/atomicstack/cmdlib/internal/logging"
	"github.com/atomicstack/cmdlib/internal/reference"
)

const (
	referenceTimeout = 5 * time.Second
	defaultRefWidth  = 80
	defaultRefHeight = 20
)

var errNoPages = errors.New("reference pages are not available")

type referenceView struct {
	name       string
	title      string
	fromSystem bool
	viewport   viewport.Model
}

type referenceLoadedMsg struct {
	name string
	page reference.Page
	body string
	err  error
}

func (m *Model) loadReferenceCmd(name string) tea.Cmd {
	pages := m.pages
	width := m.referenceWidth()
	return func() tea.Msg {
		if pages == nil {
			return referenceLoadedMsg{name: name, err: errNoPages}
		}
		ctx, cancel := context.WithTimeout(context.Background(), referenceTimeout)
		defer cancel()
		page, err := pages.Lookup(ctx, name)
		if err != nil {
			logging.Error(err)
			return referenceLoadedMsg{name: name, err: err}
		}
		body, err := pages.Render(page, width)
		if err != nil {
			logging.Error(err)
			return referenceLoadedMsg{name: name, page: page, err: err}
		}
		return referenceLoadedMsg{name: name, page: page, body: body}
	}
}

func (m *Model) handleReferenceLoadedMsg(msg tea.Msg) tea.Cmd {
	loaded, ok := msg.(referenceLoadedMsg)
	if !ok {
		return nil
	}
	if loaded.err != nil {
		m.errMsg = loaded.err.Error()
		return nil
	}
	m.errMsg = ""
	title := loaded.page.Name
	if loaded.page.Summary != "" {
		title += ": " + loaded.page.Summary
	}
	m.ref.name = loaded.name
	m.ref.title = title
	m.ref.fromSystem = loaded.page.FromSystem
	m.resizeReference()
	m.ref.viewport.SetContent(loaded.body)
	m.ref.viewport.GotoTop()
	m.setMode(ModeReference)
	return nil
}

func (m *Model) updateReferenceViewport(msg tea.Msg) tea.Cmd {
	var cmd tea.Cmd
	m.ref.viewport, cmd = m.ref.viewport.Update(msg)
	return cmd
}

func (m *Model) resizeReference() {
	m.ref.viewport.Width = m.referenceWidth()
	height := defaultRefHeight
	if m.height > 0 {
		height = m.height - 2
	}
	if height < 1 {
		height = 1
	}
	m.ref.viewport.Height = height
}

func (m *Model) referenceWidth() int {
	if m.width > 0 {
		return m.width
	}
	return defaultRefWidth
}

// Reference reports the name of the page on screen.
func (m *Model) Reference() string {
	if m.mode != ModeReference {
		return ""
	}
	return m.ref.name
}
