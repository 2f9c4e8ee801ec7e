package theme

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/atomicstack/cmdlib/internal/annotate"
)

// Styles describes reusable Lip Gloss styles shared across the UI.
type Styles struct {
	GroupHeader         *lipgloss.Style
	SelectedGroupHeader *lipgloss.Style
	GroupCount          *lipgloss.Style
	ItemIndicator       *lipgloss.Style
	SelectedIndicator   *lipgloss.Style
	Command             *lipgloss.Style
	Link                *lipgloss.Style
	FocusedLink         *lipgloss.Style
	Placeholder         *lipgloss.Style
	Output              *lipgloss.Style
	Match               *lipgloss.Style
	Share               *lipgloss.Style
	Promotion           *lipgloss.Style
	Button              *lipgloss.Style
	FocusedButton       *lipgloss.Style
	Error               *lipgloss.Style
	Info                *lipgloss.Style
	Header              *lipgloss.Style
	Footer              *lipgloss.Style
	Filter              *lipgloss.Style
	FilterPrompt        *lipgloss.Style
	FilterPlaceholder   *lipgloss.Style
	Cursor              *lipgloss.Style
	ReferenceTitle      *lipgloss.Style
	ReferenceStatus     *lipgloss.Style
}

var defaultStyles = Styles{
	GroupHeader: ptr(
		lipgloss.NewStyle().Foreground(lipgloss.Color("252")).Bold(true),
	),
	SelectedGroupHeader: ptr(
		lipgloss.NewStyle().Foreground(lipgloss.Color("255")).Background(lipgloss.Color("238")).Bold(true),
	),
	GroupCount: ptr(
		lipgloss.NewStyle().Foreground(lipgloss.Color("241")),
	),
	ItemIndicator: ptr(
		lipgloss.NewStyle().Foreground(lipgloss.Color("238")),
	),
	SelectedIndicator: ptr(
		lipgloss.NewStyle().Foreground(lipgloss.Color("33")).Background(lipgloss.Color("238")),
	),
	Command: ptr(
		lipgloss.NewStyle().Foreground(lipgloss.Color("249")),
	),
	Link: ptr(
		lipgloss.NewStyle().Foreground(lipgloss.Color("39")).Underline(true),
	),
	FocusedLink: ptr(
		lipgloss.NewStyle().Foreground(lipgloss.Color("0")).Background(lipgloss.Color("39")),
	),
	Placeholder: ptr(
		lipgloss.NewStyle().Italic(true),
	),
	Output: ptr(
		lipgloss.NewStyle().Foreground(lipgloss.Color("244")),
	),
	Match: ptr(
		lipgloss.NewStyle().Foreground(lipgloss.Color("0")).Background(lipgloss.Color("220")),
	),
	Share: ptr(
		lipgloss.NewStyle().Foreground(lipgloss.Color("241")),
	),
	Promotion: ptr(
		lipgloss.NewStyle().Foreground(lipgloss.Color("250")).Italic(true),
	),
	Button: ptr(
		lipgloss.NewStyle().Foreground(lipgloss.Color("34")).Bold(true),
	),
	FocusedButton: ptr(
		lipgloss.NewStyle().Foreground(lipgloss.Color("0")).Background(lipgloss.Color("34")).Bold(true),
	),
	Error: ptr(
		lipgloss.NewStyle().Foreground(lipgloss.Color("196")).Bold(true),
	),
	Info: ptr(
		lipgloss.NewStyle().Foreground(lipgloss.Color("249")),
	),
	Header: ptr(
		lipgloss.NewStyle().Foreground(lipgloss.Color("245")).Bold(true),
	),
	Footer: ptr(
		lipgloss.NewStyle().Foreground(lipgloss.Color("249")),
	),
	Filter: ptr(
		lipgloss.NewStyle().Foreground(lipgloss.Color("249")),
	),
	FilterPrompt: ptr(
		lipgloss.NewStyle().Foreground(lipgloss.Color("34")).Bold(true),
	),
	FilterPlaceholder: ptr(
		lipgloss.NewStyle().Foreground(lipgloss.Color("241")),
	),
	Cursor: ptr(
		lipgloss.NewStyle().Foreground(lipgloss.Color("0")).Background(lipgloss.Color("33")),
	),
	ReferenceTitle: ptr(
		lipgloss.NewStyle().Foreground(lipgloss.Color("245")).Bold(true),
	),
	ReferenceStatus: ptr(
		lipgloss.NewStyle().Foreground(lipgloss.Color("241")),
	),
}

// Default exposes the standard style set used across the application.
func Default() *Styles {
	return &defaultStyles
}

// Palette maps annotated text spans to the styles in s.
func (s *Styles) Palette() annotate.Palette {
	p := annotate.Palette{}
	set := func(style annotate.Style, value *lipgloss.Style) {
		if value != nil {
			p[style] = *value
		}
	}
	set(annotate.StyleLink, s.Link)
	set(annotate.StyleItalic, s.Placeholder)
	set(annotate.StyleOutput, s.Output)
	set(annotate.StyleMatch, s.Match)
	set(annotate.StyleFocus, s.FocusedLink)
	return p
}

func ptr(style lipgloss.Style) *lipgloss.Style {
	return &style
}
