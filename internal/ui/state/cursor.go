package state

// List tracks the cursor and viewport over a list of rows whose heights may
// differ.
type List struct {
	Cursor         int
	ViewportOffset int
	Len            int
}

// SetLen updates the row count and clamps the cursor into range.
func (l *List) SetLen(n int) {
	if n < 0 {
		n = 0
	}
	l.Len = n
	l.clamp()
}

// MoveUp moves the cursor up one row, wrapping to the end.
func (l *List) MoveUp() bool {
	if l.Len == 0 {
		return false
	}
	if l.Cursor > 0 {
		l.Cursor--
	} else {
		l.Cursor = l.Len - 1
	}
	return l.Len > 1
}

// MoveDown moves the cursor down one row, wrapping to the start.
func (l *List) MoveDown() bool {
	if l.Len == 0 {
		return false
	}
	if l.Cursor < l.Len-1 {
		l.Cursor++
	} else {
		l.Cursor = 0
	}
	return l.Len > 1
}

// MoveCursorHome moves the cursor to the first row.
func (l *List) MoveCursorHome() bool {
	if l.Len == 0 {
		l.Cursor = 0
		return false
	}
	old := l.Cursor
	l.Cursor = 0
	return old != l.Cursor
}

// MoveCursorEnd moves the cursor to the last row.
func (l *List) MoveCursorEnd() bool {
	if l.Len == 0 {
		l.Cursor = 0
		return false
	}
	old := l.Cursor
	l.Cursor = l.Len - 1
	return old != l.Cursor
}

// MoveCursorPageUp moves the cursor up by the given page size.
func (l *List) MoveCursorPageUp(pageSize int) bool {
	return l.moveCursorBy(-l.pageSize(pageSize))
}

// MoveCursorPageDown moves the cursor down by the given page size.
func (l *List) MoveCursorPageDown(pageSize int) bool {
	return l.moveCursorBy(l.pageSize(pageSize))
}

// MoveTo places the cursor on pos when it is in range.
func (l *List) MoveTo(pos int) bool {
	if pos < 0 || pos >= l.Len || pos == l.Cursor {
		return false
	}
	l.Cursor = pos
	return true
}

func (l *List) moveCursorBy(delta int) bool {
	if l.Len == 0 {
		l.Cursor = 0
		return false
	}
	old := l.Cursor
	l.Cursor += delta
	l.clamp()
	return l.Cursor != old
}

func (l *List) pageSize(size int) int {
	if l.Len == 0 {
		return 0
	}
	if size <= 0 || size > l.Len {
		size = l.Len
	}
	return size
}

func (l *List) clamp() {
	if l.Len == 0 {
		l.Cursor = 0
		l.ViewportOffset = 0
		return
	}
	if l.Cursor < 0 {
		l.Cursor = 0
	}
	if l.Cursor >= l.Len {
		l.Cursor = l.Len - 1
	}
	if l.ViewportOffset < 0 {
		l.ViewportOffset = 0
	}
	if l.ViewportOffset >= l.Len {
		l.ViewportOffset = l.Len - 1
	}
}

// EnsureCursorVisible adjusts the viewport offset so the cursor row fits in
// budget lines. height reports how many lines row i occupies. A budget of
// zero or less disables scrolling.
func (l *List) EnsureCursorVisible(height func(i int) int, budget int) {
	l.clamp()
	if l.Len == 0 {
		return
	}
	if budget <= 0 {
		l.ViewportOffset = 0
		return
	}
	if l.Cursor < l.ViewportOffset {
		l.ViewportOffset = l.Cursor
	}
	for l.ViewportOffset < l.Cursor && l.span(height, l.ViewportOffset, l.Cursor) > budget {
		l.ViewportOffset++
	}
	// Pull the window back up when rows below the cursor leave space unused.
	for l.ViewportOffset > 0 && l.span(height, l.ViewportOffset-1, l.Len-1) <= budget {
		l.ViewportOffset--
	}
}

// Visible returns the half-open row range [start, end) that fits in budget
// lines starting at the viewport offset. At least one row is always visible.
func (l *List) Visible(height func(i int) int, budget int) (int, int) {
	if l.Len == 0 {
		return 0, 0
	}
	start := l.ViewportOffset
	if budget <= 0 {
		return start, l.Len
	}
	end := start
	used := 0
	for end < l.Len {
		h := rowHeight(height, end)
		if end > start && used+h > budget {
			break
		}
		used += h
		end++
	}
	return start, end
}

func (l *List) span(height func(i int) int, from, to int) int {
	total := 0
	for i := from; i <= to; i++ {
		total += rowHeight(height, i)
	}
	return total
}

func rowHeight(height func(i int) int, i int) int {
	if height == nil {
		return 1
	}
	if h := height(i); h > 0 {
		return h
	}
	return 1
}
