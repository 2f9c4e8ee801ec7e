package annotate

import "strings"

// Navigator opens the reference page for a command.
type Navigator interface {
	NavigateToReference(command string)
}

// NavigatorFunc adapts a plain function to Navigator.
type NavigatorFunc func(command string)

func (f NavigatorFunc) NavigateToReference(command string) {
	if f != nil {
		f(command)
	}
}

// Renderer builds annotated text. Clicking a link calls the navigator the
// renderer was constructed with.
type Renderer struct {
	nav Navigator
}

// NewRenderer returns a renderer bound to nav.
func NewRenderer(nav Navigator) *Renderer {
	return &Renderer{nav: nav}
}

// Render annotates raw with links for every occurrence of each known command,
// italics for bracketed placeholders, and output styling for the listed
// lines, in that order.
func (r *Renderer) Render(raw string, known []string, outputLines []int) Text {
	spans := LinkSpans(raw, known)
	spans = append(spans, ItalicSpans(raw)...)
	spans = append(spans, OutputSpans(raw, outputLines)...)
	var nav Navigator
	if r != nil {
		nav = r.nav
	}
	return Text{raw: raw, spans: spans, nav: nav}
}

// Text is raw text plus its ordered annotations.
type Text struct {
	raw   string
	spans []Span
	nav   Navigator
}

// Plain returns the undecorated text.
func (t Text) Plain() string { return t.raw }

// Spans returns a copy of the annotations in application order.
func (t Text) Spans() []Span {
	return append([]Span(nil), t.spans...)
}

// Links returns the clickable spans in application order.
func (t Text) Links() []Span {
	var links []Span
	for _, s := range t.spans {
		if s.Style == StyleLink {
			links = append(links, s)
		}
	}
	return links
}

// With returns a copy of t with extra spans applied after the existing ones.
func (t Text) With(extra ...Span) Text {
	if len(extra) == 0 {
		return t
	}
	spans := make([]Span, 0, len(t.spans)+len(extra))
	spans = append(spans, t.spans...)
	spans = append(spans, extra...)
	return Text{raw: t.raw, spans: spans, nav: t.nav}
}

// Activate clicks the last-applied link covering offset. It reports whether
// a link was found and a navigator was available.
func (t Text) Activate(offset int) bool {
	for i := len(t.spans) - 1; i >= 0; i-- {
		s := t.spans[i]
		if s.Style != StyleLink || !s.Contains(offset) {
			continue
		}
		return t.navigate(s.Target)
	}
	return false
}

// ActivateLink clicks the i-th link as ordered by Links.
func (t Text) ActivateLink(i int) bool {
	links := t.Links()
	if i < 0 || i >= len(links) {
		return false
	}
	return t.navigate(links[i].Target)
}

func (t Text) navigate(target string) bool {
	if t.nav == nil {
		return false
	}
	t.nav.NavigateToReference(target)
	return true
}

// LinkSpans marks every non-overlapping, case-sensitive occurrence of each
// known command. Commands are processed in the order given; empty strings
// never match.
func LinkSpans(raw string, known []string) []Span {
	var spans []Span
	for _, cmd := range known {
		if cmd == "" {
			continue
		}
		from := 0
		for from <= len(raw)-len(cmd) {
			idx := strings.Index(raw[from:], cmd)
			if idx < 0 {
				break
			}
			start := from + idx
			end := start + len(cmd)
			spans = append(spans, Span{Start: start, End: end, Style: StyleLink, Target: cmd})
			from = end
		}
	}
	return spans
}

// ItalicSpans marks [placeholder] segments including their brackets. Both
// brackets are searched from the resume position; scanning stops when either
// is missing or the closing bracket comes first.
func ItalicSpans(raw string) []Span {
	var spans []Span
	from := 0
	for from < len(raw) {
		open := strings.IndexByte(raw[from:], '[')
		if open < 0 {
			break
		}
		closing := strings.IndexByte(raw[from:], ']')
		if closing < 0 || closing <= open {
			break
		}
		start, end := from+open, from+closing+1
		spans = append(spans, Span{Start: start, End: end, Style: StyleItalic})
		from = end
	}
	return spans
}

// OutputSpans marks the content of each listed 0-based line. Lines split on
// LF or CRLF; trailing empty lines are ignored.
func OutputSpans(raw string, outputLines []int) []Span {
	if len(outputLines) == 0 || raw == "" {
		return nil
	}
	wanted := make(map[int]struct{}, len(outputLines))
	for _, n := range outputLines {
		wanted[n] = struct{}{}
	}
	var spans []Span
	for i, l := range Lines(raw) {
		if _, ok := wanted[i]; !ok {
			continue
		}
		spans = append(spans, Span{Start: l.Start, End: l.End, Style: StyleOutput})
	}
	return spans
}

// QuerySpans marks non-overlapping, case-insensitive matches of query.
func QuerySpans(raw, query string) []Span {
	query = strings.TrimSpace(query)
	if query == "" || len(query) > len(raw) {
		return nil
	}
	var spans []Span
	for i := 0; i+len(query) <= len(raw); {
		if strings.EqualFold(raw[i:i+len(query)], query) {
			spans = append(spans, Span{Start: i, End: i + len(query), Style: StyleMatch})
			i += len(query)
			continue
		}
		i++
	}
	return spans
}

// Line is the byte range of one line's content, excluding its terminator.
type Line struct {
	Start int
	End   int
}

// Lines splits raw on LF/CRLF and drops trailing empty lines.
func Lines(raw string) []Line {
	var lines []Line
	start := 0
	for start <= len(raw) {
		nl := strings.IndexByte(raw[start:], '\n')
		if nl < 0 {
			lines = append(lines, Line{Start: start, End: len(raw)})
			break
		}
		end := start + nl
		if end > start && raw[end-1] == '\r' {
			end--
		}
		lines = append(lines, Line{Start: start, End: end})
		start += nl + 1
	}
	for len(lines) > 0 && lines[len(lines)-1].Start == lines[len(lines)-1].End {
		lines = lines[:len(lines)-1]
	}
	return lines
}
