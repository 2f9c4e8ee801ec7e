package annotate

import (
	"sort"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// Palette maps span styles to terminal styles. Styles missing from the
// palette leave their text undecorated.
type Palette map[Style]lipgloss.Style

// Render draws the text for a terminal. Covered ranges compose the palette
// styles of every span over them; later spans override earlier ones for the
// attributes they both set.
func (t Text) Render(p Palette) string {
	if len(t.spans) == 0 || len(p) == 0 {
		return t.raw
	}
	bounds := t.boundaries()
	var b strings.Builder
	for i := 0; i+1 < len(bounds); i++ {
		from, to := bounds[i], bounds[i+1]
		if from == to {
			continue
		}
		seg := t.raw[from:to]
		style, ok := p.compose(t.spans, from, to)
		if !ok {
			b.WriteString(seg)
			continue
		}
		writeStyled(&b, style, seg)
	}
	return b.String()
}

func (t Text) boundaries() []int {
	n := len(t.raw)
	seen := map[int]struct{}{0: {}, n: {}}
	for _, s := range t.spans {
		seen[clamp(s.Start, n)] = struct{}{}
		seen[clamp(s.End, n)] = struct{}{}
	}
	out := make([]int, 0, len(seen))
	for k := range seen {
		out = append(out, k)
	}
	sort.Ints(out)
	return out
}

// compose walks covering spans from last to first so the most recent span's
// attributes take precedence and earlier ones only fill gaps.
func (p Palette) compose(spans []Span, from, to int) (lipgloss.Style, bool) {
	var style lipgloss.Style
	found := false
	for i := len(spans) - 1; i >= 0; i-- {
		s := spans[i]
		if s.Start > from || s.End < to {
			continue
		}
		st, ok := p[s.Style]
		if !ok {
			continue
		}
		if !found {
			style, found = st, true
			continue
		}
		style = style.Inherit(st)
	}
	return style, found
}

// writeStyled renders each line separately so escape sequences never span a
// line break.
func writeStyled(b *strings.Builder, style lipgloss.Style, seg string) {
	for i, line := range strings.Split(seg, "\n") {
		if i > 0 {
			b.WriteByte('\n')
		}
		cr := strings.HasSuffix(line, "\r")
		line = strings.TrimSuffix(line, "\r")
		if line != "" {
			b.WriteString(style.Render(line))
		}
		if cr {
			b.WriteByte('\r')
		}
	}
}

func clamp(v, n int) int {
	if v < 0 {
		return 0
	}
	if v > n {
		return n
	}
	return v
}
