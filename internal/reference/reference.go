// Package reference resolves and renders the man page a command link points
// at. Pages come from the catalog store first and the system man command
// second; both are rendered to the terminal through glamour.
package reference

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"strings"
	"sync"

	"github.com/charmbracelet/glamour"

	"github.com/atomicstack/cmdlib/internal/catalog"
)

// ErrNotFound is returned when neither the store nor the system has a page.
var ErrNotFound = errors.New("reference page not found")

// Themes accepted by NewService.
const (
	ThemeAuto  = "auto"
	ThemeDark  = "dark"
	ThemeLight = "light"
	ThemeNoTTY = "notty"
)

// Source is where stored pages live.
type Source interface {
	ManPage(ctx context.Context, name string) (catalog.ManPage, bool, error)
}

// Page is a resolved reference page.
type Page struct {
	Name       string
	Summary    string
	Body       string
	FromSystem bool
}

// Service looks pages up and renders them.
type Service struct {
	source Source
	theme  string
	man    func(ctx context.Context, name string) (string, error)

	mu       sync.Mutex
	renderer *glamour.TermRenderer
	width    int
}

// NewService returns a service backed by source. A nil source skips
// straight to the system man command.
func NewService(source Source, theme string) *Service {
	return &Service{source: source, theme: NormalizeTheme(theme), man: systemMan}
}

// NormalizeTheme maps user input to a known theme, defaulting to auto.
func NormalizeTheme(theme string) string {
	switch strings.ToLower(strings.TrimSpace(theme)) {
	case ThemeDark:
		return ThemeDark
	case ThemeLight:
		return ThemeLight
	case ThemeNoTTY:
		return ThemeNoTTY
	default:
		return ThemeAuto
	}
}

// ValidTheme reports whether theme names a supported style.
func ValidTheme(theme string) bool {
	switch strings.ToLower(strings.TrimSpace(theme)) {
	case "", ThemeAuto, ThemeDark, ThemeLight, ThemeNoTTY:
		return true
	}
	return false
}

// Lookup resolves name to a page.
func (s *Service) Lookup(ctx context.Context, name string) (Page, error) {
	name = strings.TrimSpace(name)
	if s == nil || name == "" {
		return Page{}, ErrNotFound
	}
	if s.source != nil {
		mp, ok, err := s.source.ManPage(ctx, name)
		if err != nil {
			return Page{}, fmt.Errorf("lookup %s: %w", name, err)
		}
		if ok {
			return Page{Name: mp.Name, Summary: mp.Summary, Body: mp.Body}, nil
		}
	}
	if s.man == nil {
		return Page{}, ErrNotFound
	}
	body, err := s.man(ctx, name)
	if err != nil {
		return Page{}, fmt.Errorf("lookup %s: %w", name, errors.Join(ErrNotFound, err))
	}
	return Page{Name: name, Body: body, FromSystem: true}, nil
}

// Markdown formats a page for glamour. The body keeps its columns inside a
// fenced block.
func Markdown(p Page) string {
	var b strings.Builder
	b.WriteString("# ")
	b.WriteString(p.Name)
	b.WriteString("\n\n")
	if summary := strings.TrimSpace(p.Summary); summary != "" {
		b.WriteString("*")
		b.WriteString(summary)
		b.WriteString("*\n\n")
	}
	if body := strings.TrimRight(p.Body, "\n"); body != "" {
		b.WriteString("```\n")
		b.WriteString(body)
		b.WriteString("\n```\n")
	}
	return b.String()
}

// Render draws p for a terminal of the given width. When glamour fails the
// markdown source is returned with the error.
func (s *Service) Render(p Page, width int) (string, error) {
	src := Markdown(p)
	r, err := s.ensureRenderer(width)
	if err != nil {
		return src, err
	}
	out, err := r.Render(src)
	if err != nil {
		return src, fmt.Errorf("render %s: %w", p.Name, err)
	}
	return out, nil
}

func (s *Service) ensureRenderer(width int) (*glamour.TermRenderer, error) {
	if s == nil {
		return nil, ErrNotFound
	}
	if width < 0 {
		width = 0
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.renderer != nil && s.width == width {
		return s.renderer, nil
	}
	options := []glamour.TermRendererOption{glamour.WithWordWrap(width)}
	switch s.theme {
	case ThemeAuto:
		options = append(options, glamour.WithAutoStyle())
	default:
		options = append(options, glamour.WithStandardStyle(s.theme))
	}
	r, err := glamour.NewTermRenderer(options...)
	if err != nil {
		return nil, fmt.Errorf("markdown renderer: %w", err)
	}
	s.renderer = r
	s.width = width
	return r, nil
}

func systemMan(ctx context.Context, name string) (string, error) {
	if _, err := exec.LookPath("man"); err != nil {
		return "", err
	}
	cmd := exec.CommandContext(ctx, "man", "-P", "cat", name)
	cmd.Env = append(os.Environ(), "MANWIDTH=80", "MAN_KEEP_FORMATTING=")
	out, err := cmd.Output()
	if err != nil {
		return "", fmt.Errorf("man %s: %w", name, err)
	}
	text := stripOverstrike(string(out))
	if strings.TrimSpace(text) == "" {
		return "", fmt.Errorf("man %s: empty page", name)
	}
	return text, nil
}

// stripOverstrike removes nroff bold and underline sequences (c\bc, _\bc).
func stripOverstrike(s string) string {
	if !strings.Contains(s, "\b") {
		return s
	}
	out := make([]rune, 0, len(s))
	for _, r := range s {
		if r == '\b' {
			if len(out) > 0 {
				out = out[:len(out)-1]
			}
			continue
		}
		out = append(out, r)
	}
	return string(out)
}
