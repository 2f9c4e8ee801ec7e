package ui

import (
	"context"
	"reflect"
	"time"

	"github.com/charmbracelet/bubbles/cursor"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/atomicstack/cmdlib/internal/annotate"
	"github.com/atomicstack/cmdlib/internal/backend"
	"github.com/atomicstack/cmdlib/internal/data/dispatcher"
	"github.com/atomicstack/cmdlib/internal/logging/events"
	"github.com/atomicstack/cmdlib/internal/projector"
	"github.com/atomicstack/cmdlib/internal/reference"
	"github.com/atomicstack/cmdlib/internal/theme"
	"github.com/atomicstack/cmdlib/internal/ui/command"
	uistate "github.com/atomicstack/cmdlib/internal/ui/state"
)

type Mode int

const (
	ModeList Mode = iota
	ModeSearch
	ModeReference
)

func (m Mode) String() string {
	switch m {
	case ModeSearch:
		return "search"
	case ModeReference:
		return "reference"
	default:
		return "list"
	}
}

const defaultTitle = "Command library"

var styles = theme.Default()

type msgHandler func(tea.Msg) tea.Cmd

// Sharer hands command text to another application.
type Sharer interface {
	Share(ctx context.Context, text string) (string, error)
}

// Marketplace opens promoted app listings.
type Marketplace interface {
	OpenAppListing(ctx context.Context, pkg string) (string, error)
}

// Pages resolves and renders reference pages.
type Pages interface {
	Lookup(ctx context.Context, name string) (reference.Page, error)
	Render(page reference.Page, width int) (string, error)
}

// Options configures a Model.
type Options struct {
	Width      int
	Height     int
	ShowFooter bool
	Verbose    bool
	Watcher    *backend.Watcher
	Sharer     Sharer
	Market     Marketplace
	Pages      Pages
}

// Model implements the Bubble Tea model for the command catalog.
type Model struct {
	proj     *projector.Projector
	renderer *annotate.Renderer
	palette  annotate.Palette

	list       uistate.List
	query      uistate.Query
	focus      int
	pendingRef string

	errMsg         string
	infoMsg        string
	infoExpire     time.Time
	width          int
	height         int
	fixedWidth     bool
	fixedHeight    bool
	backend        *backend.Watcher
	backendState   map[backend.Kind]error
	backendLastErr string
	showFooter     bool
	verbose        bool
	queryCursor    cursor.Model

	handlers map[reflect.Type]msgHandler

	bus        *command.Bus
	mode       Mode
	dispatcher *dispatcher.Dispatcher
	sharer     Sharer
	market     Marketplace
	pages      Pages
	ref        referenceView
}

// NewModel initialises the UI over the projector.
func NewModel(proj *projector.Projector, opts Options) *Model {
	m := &Model{
		proj:         proj,
		palette:      styles.Palette(),
		focus:        -1,
		bus:          command.New(),
		backend:      opts.Watcher,
		backendState: map[backend.Kind]error{},
		showFooter:   opts.ShowFooter,
		verbose:      opts.Verbose,
		mode:         ModeList,
		dispatcher:   dispatcher.New(proj),
		sharer:       opts.Sharer,
		market:       opts.Market,
		pages:        opts.Pages,
		ref:          referenceView{viewport: viewport.New(0, 0)},
	}
	m.renderer = annotate.NewRenderer(annotate.NavigatorFunc(m.requestReference))
	if opts.Width > 0 {
		m.width = opts.Width
		m.fixedWidth = true
	}
	if opts.Height > 0 {
		m.height = opts.Height
		m.fixedHeight = true
	}
	m.list.SetLen(proj.Len())
	c := cursor.New()
	if styles.Cursor != nil {
		c.Style = *styles.Cursor
	}
	if styles.Filter != nil {
		c.TextStyle = *styles.Filter
	}
	c.SetMode(cursor.CursorStatic)
	c.SetChar(" ")
	c.Focus()
	m.queryCursor = c
	m.resizeReference()
	m.syncViewport()
	m.registerHandlers()
	return m
}

// Init is part of the tea.Model interface.
func (m *Model) Init() tea.Cmd {
	if m.backend != nil {
		return waitForBackendEvent(m.backend)
	}
	return nil
}

// Update responds to Bubble Tea messages.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if handler := m.handlerFor(msg); handler != nil {
		return m, handler(msg)
	}
	if m.mode == ModeReference {
		return m, m.updateReferenceViewport(msg)
	}
	return m, nil
}

func (m *Model) registerHandlers() {
	m.handlers = map[reflect.Type]msgHandler{
		reflect.TypeOf(tea.KeyMsg{}):         m.handleKeyMsg,
		reflect.TypeOf(tea.WindowSizeMsg{}):  m.handleWindowSizeMsg,
		reflect.TypeOf(command.Result{}):     m.handleActionResultMsg,
		reflect.TypeOf(referenceLoadedMsg{}): m.handleReferenceLoadedMsg,
		reflect.TypeOf(backendEventMsg{}):    m.handleBackendEventMsg,
		reflect.TypeOf(backendDoneMsg{}):     m.handleBackendDoneMsg,
	}
}

func (m *Model) handlerFor(msg tea.Msg) msgHandler {
	if msg == nil || m.handlers == nil {
		return nil
	}
	t := reflect.TypeOf(msg)
	if handler, ok := m.handlers[t]; ok {
		return handler
	}
	if t.Kind() == reflect.Ptr {
		if handler, ok := m.handlers[t.Elem()]; ok {
			return handler
		}
	}
	return nil
}

func (m *Model) setMode(mode Mode) {
	if m.mode == mode {
		return
	}
	m.mode = mode
	events.UI.Mode(mode.String())
}

// Mode reports the active screen.
func (m *Model) Mode() Mode {
	return m.mode
}

// requestReference is the navigator behind every command link.
func (m *Model) requestReference(name string) {
	m.pendingRef = name
	events.Catalog.Navigate(name)
}
