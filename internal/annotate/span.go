// Package annotate decorates plain command-reference text with clickable
// command links, italic [placeholder] markup, muted sample-output lines and
// search-query matches.
//
// Offsets are byte offsets into the raw text. Spans are kept in the order
// they were applied and may overlap; when two spans set the same attribute
// the later one wins.
package annotate

import "fmt"

// Style identifies what a span does to the text it covers.
type Style int

const (
	StyleLink Style = iota
	StyleItalic
	StyleOutput
	StyleMatch
	StyleFocus
)

func (s Style) String() string {
	switch s {
	case StyleLink:
		return "link"
	case StyleItalic:
		return "italic"
	case StyleOutput:
		return "output"
	case StyleMatch:
		return "match"
	case StyleFocus:
		return "focus"
	default:
		return fmt.Sprintf("style(%d)", int(s))
	}
}

// Span annotates the half-open range [Start, End). Target is set for links.
type Span struct {
	Start  int
	End    int
	Style  Style
	Target string
}

// Contains reports whether offset falls inside the span.
func (s Span) Contains(offset int) bool {
	return offset >= s.Start && offset < s.End
}

func (s Span) String() string {
	if s.Target != "" {
		return fmt.Sprintf("%s[%d,%d)->%s", s.Style, s.Start, s.End, s.Target)
	}
	return fmt.Sprintf("%s[%d,%d)", s.Style, s.Start, s.End)
}
