package ui

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/reflow/truncate"

	"github.com/atomicstack/cmdlib/internal/annotate"
	"github.com/atomicstack/cmdlib/internal/catalog"
	"github.com/atomicstack/cmdlib/internal/format/table"
	"github.com/atomicstack/cmdlib/internal/projector"
)

const (
	indicator      = "▌"
	childIndent    = "    "
	listFooterText = "↑/↓ move  enter open  tab link  s share  / search  esc clear/quit"
	searchFooter   = "type to search  ↑/↓ move  enter/esc done"
)

type styledLine struct {
	text          string
	style         *lipgloss.Style
	prefixStyle   *lipgloss.Style
	highlightFrom int
	raw           bool // text contains ANSI escapes; skip style wrapping, use ANSI-aware truncation
}

// View implements tea.Model.
func (m *Model) View() string {
	if m.mode == ModeReference {
		return m.viewReference()
	}
	return m.viewList()
}

func (m *Model) viewList() string {
	m.syncViewport()
	snap := m.proj.Snapshot()
	lines := make([]styledLine, 0, 32)
	lines = append(lines, styledLine{text: listHeader(snap), style: styles.Header})
	if len(snap.Groups) == 0 {
		lines = append(lines, styledLine{text: "(catalog is empty)", style: styles.Info})
	}
	labels := groupColumns(snap)
	start, end := m.list.Visible(m.rowHeight, m.listBudget())
	for i := start; i < end; i++ {
		lines = append(lines, m.rowLines(i, labels)...)
	}
	if info := m.currentInfo(); info != "" {
		lines = append(lines, styledLine{})
		lines = append(lines, styledLine{text: info, style: styles.Info})
	}
	if m.showFooter {
		footer := listFooterText
		if m.mode == ModeSearch {
			footer = searchFooter
		}
		lines = append(lines, styledLine{})
		lines = append(lines, styledLine{text: footer, style: styles.Footer})
	}
	lines = limitHeight(lines, m.height-2, m.width)
	lines = applyWidth(lines, m.width)

	bottomLines := []styledLine{
		m.statusLine(),
		{text: m.filterPrompt(), raw: true},
	}
	bottomLines = applyWidth(bottomLines, m.width)
	lines = append(lines, bottomLines...)
	return renderLines(lines)
}

func (m *Model) statusLine() styledLine {
	if m.errMsg != "" {
		return styledLine{text: fmt.Sprintf("Error: %s", m.errMsg), style: styles.Error}
	}
	if warn, msg := m.hasBackendIssue(); warn {
		return styledLine{text: fmt.Sprintf("Catalog: %s", msg), style: styles.Error}
	}
	return styledLine{}
}

func listHeader(snap catalog.Snapshot) string {
	return fmt.Sprintf("%s  %d groups · %d commands", defaultTitle, len(snap.Groups), snap.CommandCount())
}

// groupColumns aligns every group's label and command count so headers line
// up whether or not their neighbours are visible.
func groupColumns(snap catalog.Snapshot) []string {
	rows := make([][]string, len(snap.Groups))
	for i, g := range snap.Groups {
		rows[i] = []string{groupLabel(g), strconv.Itoa(len(g.Commands))}
	}
	return table.Format(rows, []table.Alignment{table.AlignLeft, table.AlignRight})
}

func groupLabel(g catalog.Group) string {
	if g.Icon == "" {
		return g.Label
	}
	return g.Icon + " " + g.Label
}

// rowLines renders row i. A row that no longer resolves against the current
// snapshot renders nothing.
func (m *Model) rowLines(i int, labels []string) []styledLine {
	b, ok := m.proj.Bind(i)
	if !ok {
		return nil
	}
	selected := i == m.list.Cursor
	switch b.Kind {
	case projector.KindGroup:
		return []styledLine{m.groupLine(b, labels, selected)}
	case projector.KindChild:
		return m.childLines(b.Command, selected)
	case projector.KindPromotion:
		return m.promotionLines(selected)
	}
	return nil
}

func (m *Model) groupLine(b projector.Binding, labels []string, selected bool) styledLine {
	gi := b.Row.GroupIndex()
	label := groupLabel(b.Group)
	cell := label
	if gi >= 0 && gi < len(labels) {
		cell = labels[gi]
	}
	marker := "▸"
	if m.proj.IsExpanded(b.Group.ID) {
		marker = "▾"
	}
	lineStyle := styles.GroupHeader
	indicatorStyle := styles.ItemIndicator
	if selected {
		lineStyle = styles.SelectedGroupHeader
		indicatorStyle = styles.SelectedIndicator
	}
	body := marker + " " + cell
	matches := annotate.QuerySpans(label, m.proj.Query())
	if len(matches) == 0 {
		text := indicator + " " + body
		if selected && m.width > 0 {
			if pad := m.width - lipgloss.Width(text); pad > 0 {
				text += strings.Repeat(" ", pad)
			}
		}
		return styledLine{
			text:          text,
			style:         lineStyle,
			prefixStyle:   indicatorStyle,
			highlightFrom: 1,
		}
	}
	offset := len(marker) + 1
	for k := range matches {
		matches[k].Start += offset
		matches[k].End += offset
	}
	return styledLine{
		text: render(indicatorStyle, indicator) + " " + highlight(body, matches, lineStyle, styles.Match),
		raw:  true,
	}
}

func (m *Model) childLines(cmd catalog.Command, selected bool) []styledLine {
	text := m.commandText(cmd)
	if q := m.proj.Query(); q != "" {
		text = text.With(annotate.QuerySpans(cmd.Text, q)...)
	}
	if selected {
		if links := text.Links(); m.focus >= 0 && m.focus < len(links) {
			focused := links[m.focus]
			text = text.With(annotate.Span{Start: focused.Start, End: focused.End, Style: annotate.StyleFocus, Target: focused.Target})
		}
	}
	count := len(annotate.Lines(cmd.Text))
	rendered := strings.Split(text.Render(m.palette), "\n")
	if count == 0 {
		count = 1
	}
	if count > len(rendered) {
		count = len(rendered)
	}
	indicatorStyle := styles.ItemIndicator
	if selected {
		indicatorStyle = styles.SelectedIndicator
	}
	prefix := render(indicatorStyle, indicator) + childIndent
	out := make([]styledLine, 0, count)
	for k := 0; k < count; k++ {
		line := prefix + strings.TrimSuffix(rendered[k], "\r")
		if k == 0 && selected {
			line += "  " + render(styles.Share, "s share")
		}
		out = append(out, styledLine{text: line, raw: true})
	}
	return out
}

func (m *Model) promotionLines(selected bool) []styledLine {
	indicatorStyle := styles.ItemIndicator
	if selected {
		indicatorStyle = styles.SelectedIndicator
	}
	prefix := render(indicatorStyle, indicator) + " "
	buttons := make([]string, len(promotionButtons))
	for i, button := range promotionButtons {
		style := styles.Button
		if selected && i == m.focus {
			style = styles.FocusedButton
		}
		buttons[i] = render(style, "[ "+button.label+" ]")
	}
	return []styledLine{
		{text: prefix + render(styles.Promotion, "Practice and control Linux from your phone"), raw: true},
		{text: prefix + "  " + strings.Join(buttons, "  "), raw: true},
	}
}

func (m *Model) viewReference() string {
	title := m.ref.title
	if m.ref.fromSystem {
		title += "  (system manual)"
	}
	top := applyWidth([]styledLine{{text: title, style: styles.ReferenceTitle}}, m.width)
	status := fmt.Sprintf("%3.0f%%  ↑/↓ scroll  esc back", m.ref.viewport.ScrollPercent()*100)
	if m.errMsg != "" {
		status = fmt.Sprintf("Error: %s", m.errMsg)
	}
	bottom := applyWidth([]styledLine{{text: status, style: styles.ReferenceStatus}}, m.width)
	return renderLines(top) + "\n" + m.ref.viewport.View() + "\n" + renderLines(bottom)
}

func (m *Model) handleWindowSizeMsg(msg tea.Msg) tea.Cmd {
	resize, ok := msg.(tea.WindowSizeMsg)
	if !ok {
		return nil
	}
	if !m.fixedWidth {
		m.width = resize.Width
	}
	if !m.fixedHeight {
		m.height = resize.Height
	}
	m.resizeReference()
	m.syncViewport()
	return nil
}

// listBudget returns how many lines the rows may use. Zero means the height
// is unknown and every row is shown.
func (m *Model) listBudget() int {
	if m.height <= 0 {
		return 0
	}
	used := 3 // header plus bottom bar: status + prompt
	if len(m.proj.Snapshot().Groups) == 0 {
		used++
	}
	if info := m.currentInfo(); info != "" {
		used += 2
	}
	if m.showFooter {
		used += 2
	}
	remain := m.height - used
	if remain < 1 {
		return 1
	}
	return remain
}

func (m *Model) setInfo(message string) {
	m.infoMsg = message
	m.infoExpire = time.Now().Add(5 * time.Second)
}

func (m *Model) clearInfo() {
	if m.infoMsg == "" {
		return
	}
	if !m.infoExpire.IsZero() && time.Now().Before(m.infoExpire) {
		return
	}
	m.infoMsg = ""
	m.infoExpire = time.Time{}
}

func (m *Model) forceClearInfo() {
	m.infoMsg = ""
	m.infoExpire = time.Time{}
}

func (m *Model) currentInfo() string {
	if m.infoMsg != "" && !m.infoExpire.IsZero() && time.Now().After(m.infoExpire) {
		m.infoMsg = ""
		m.infoExpire = time.Time{}
	}
	return m.infoMsg
}

func render(style *lipgloss.Style, value string) string {
	if style == nil || value == "" {
		return value
	}
	return style.Render(value)
}

// highlight renders text with base, switching to match over the spans.
// Spans must be sorted and non-overlapping.
func highlight(text string, spans []annotate.Span, base, match *lipgloss.Style) string {
	matchStyle := match
	if match != nil && base != nil {
		inherited := match.Inherit(*base)
		matchStyle = &inherited
	}
	var b strings.Builder
	pos := 0
	for _, s := range spans {
		if s.Start < pos || s.End > len(text) {
			continue
		}
		b.WriteString(render(base, text[pos:s.Start]))
		b.WriteString(render(matchStyle, text[s.Start:s.End]))
		pos = s.End
	}
	b.WriteString(render(base, text[pos:]))
	return b.String()
}

func limitHeight(lines []styledLine, height, width int) []styledLine {
	if height <= 0 || len(lines) <= height {
		return lines
	}
	if height == 1 {
		return []styledLine{{text: truncateText("…", width)}}
	}
	trimmed := make([]styledLine, 0, height)
	trimmed = append(trimmed, lines[:height-1]...)
	trimmed = append(trimmed, styledLine{text: truncateText("…", width)})
	return trimmed
}

func applyWidth(lines []styledLine, width int) []styledLine {
	if width <= 0 {
		return lines
	}
	result := make([]styledLine, len(lines))
	for i, line := range lines {
		text := line.text
		if line.raw {
			if lipgloss.Width(text) > width {
				text = truncate.StringWithTail(text, uint(width-1), "…")
			}
		} else {
			text = truncateText(text, width)
		}
		result[i] = styledLine{
			text:          text,
			style:         line.style,
			prefixStyle:   line.prefixStyle,
			highlightFrom: line.highlightFrom,
			raw:           line.raw,
		}
	}
	return result
}

func renderLines(lines []styledLine) string {
	out := make([]string, len(lines))
	for i, line := range lines {
		text := line.text
		if line.raw {
			out[i] = text
			continue
		}
		runes := []rune(text)
		if line.highlightFrom > 0 && line.highlightFrom < len(runes) {
			head := string(runes[:line.highlightFrom])
			tail := string(runes[line.highlightFrom:])
			if line.prefixStyle != nil {
				head = line.prefixStyle.Render(head)
			}
			if line.style != nil {
				tail = line.style.Render(tail)
			}
			text = head + tail
		} else if line.style != nil {
			text = line.style.Render(text)
		}
		out[i] = text
	}
	return strings.Join(out, "\n")
}

func truncateText(text string, width int) string {
	if width <= 0 {
		return text
	}
	runes := []rune(text)
	if len(runes) <= width {
		return text
	}
	if width == 1 {
		return string(runes[:1])
	}
	return string(runes[:width-1]) + "…"
}
