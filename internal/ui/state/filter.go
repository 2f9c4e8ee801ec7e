package state

import (
	"strings"
	"unicode"

	"github.com/lithammer/fuzzysearch/fuzzy"
)

// Query is the editable search text with a rune cursor.
type Query struct {
	Text   string
	Cursor int
}

// Set replaces the text and cursor, clamping the cursor to the text.
func (q *Query) Set(text string, cursor int) {
	q.Text = text
	runes := []rune(text)
	if cursor < 0 {
		cursor = 0
	}
	if cursor > len(runes) {
		cursor = len(runes)
	}
	q.Cursor = cursor
}

// Trimmed returns the text without surrounding whitespace.
func (q *Query) Trimmed() string {
	return strings.TrimSpace(q.Text)
}

// CursorPos returns the rune offset of the cursor.
func (q *Query) CursorPos() int {
	runes := []rune(q.Text)
	if q.Cursor < 0 {
		return 0
	}
	if q.Cursor > len(runes) {
		return len(runes)
	}
	return q.Cursor
}

// Clear empties the query. It reports whether anything changed.
func (q *Query) Clear() bool {
	if q.Text == "" && q.Cursor == 0 {
		return false
	}
	q.Set("", 0)
	return true
}

// Insert inserts text at the cursor position.
func (q *Query) Insert(text string) bool {
	insert := []rune(text)
	if len(insert) == 0 {
		return false
	}
	runes := []rune(q.Text)
	pos := q.CursorPos()
	updated := make([]rune, 0, len(runes)+len(insert))
	updated = append(updated, runes[:pos]...)
	updated = append(updated, insert...)
	updated = append(updated, runes[pos:]...)
	q.Set(string(updated), pos+len(insert))
	return true
}

// DeleteRuneBackward deletes a rune before the cursor.
func (q *Query) DeleteRuneBackward() bool {
	runes := []rune(q.Text)
	pos := q.CursorPos()
	if pos == 0 || len(runes) == 0 {
		return false
	}
	updated := append(runes[:pos-1], runes[pos:]...)
	q.Set(string(updated), pos-1)
	return true
}

// DeleteWordBackward deletes the word preceding the cursor.
func (q *Query) DeleteWordBackward() bool {
	runes := []rune(q.Text)
	pos := q.CursorPos()
	if pos == 0 || len(runes) == 0 {
		return false
	}
	i := wordStartBefore(runes, pos)
	updated := append(runes[:i], runes[pos:]...)
	q.Set(string(updated), i)
	return true
}

// MoveStart moves the cursor to the start.
func (q *Query) MoveStart() bool {
	if q.CursorPos() == 0 {
		return false
	}
	q.Cursor = 0
	return true
}

// MoveEnd moves the cursor to the end.
func (q *Query) MoveEnd() bool {
	end := len([]rune(q.Text))
	if q.CursorPos() == end {
		return false
	}
	q.Cursor = end
	return true
}

// MoveWordBackward moves the cursor one word backward.
func (q *Query) MoveWordBackward() bool {
	runes := []rune(q.Text)
	pos := q.CursorPos()
	if pos == 0 || len(runes) == 0 {
		return false
	}
	i := wordStartBefore(runes, pos)
	if i == pos {
		return false
	}
	q.Cursor = i
	return true
}

// MoveWordForward moves the cursor one word forward.
func (q *Query) MoveWordForward() bool {
	runes := []rune(q.Text)
	pos := q.CursorPos()
	if pos >= len(runes) {
		return false
	}
	i := pos
	for i < len(runes) && !unicode.IsSpace(runes[i]) {
		i++
	}
	for i < len(runes) && unicode.IsSpace(runes[i]) {
		i++
	}
	if i == pos {
		return false
	}
	q.Cursor = i
	return true
}

// MoveRuneBackward moves the cursor one rune backward.
func (q *Query) MoveRuneBackward() bool {
	if q.CursorPos() == 0 {
		return false
	}
	q.Cursor = q.CursorPos() - 1
	return true
}

// MoveRuneForward moves the cursor one rune forward.
func (q *Query) MoveRuneForward() bool {
	pos := q.CursorPos()
	if pos >= len([]rune(q.Text)) {
		return false
	}
	q.Cursor = pos + 1
	return true
}

func wordStartBefore(runes []rune, pos int) int {
	i := pos
	for i > 0 && unicode.IsSpace(runes[i-1]) {
		i--
	}
	for i > 0 && !unicode.IsSpace(runes[i-1]) {
		i--
	}
	return i
}

// BestMatchIndex returns the index of the label that best matches query:
// exact, then prefix, then substring, then the closest fuzzy match. It
// returns -1 when nothing matches.
func BestMatchIndex(labels []string, query string) int {
	trimmed := strings.TrimSpace(query)
	if trimmed == "" || len(labels) == 0 {
		return -1
	}
	lower := strings.ToLower(trimmed)
	for i, label := range labels {
		if strings.EqualFold(label, trimmed) {
			return i
		}
	}
	for i, label := range labels {
		if strings.HasPrefix(strings.ToLower(label), lower) {
			return i
		}
	}
	for i, label := range labels {
		if strings.Contains(strings.ToLower(label), lower) {
			return i
		}
	}
	ranks := fuzzy.RankFindNormalizedFold(trimmed, labels)
	if len(ranks) == 0 {
		return -1
	}
	best := ranks[0]
	for _, rank := range ranks[1:] {
		if rank.Distance < best.Distance {
			best = rank
			continue
		}
		if rank.Distance == best.Distance && rank.OriginalIndex < best.OriginalIndex {
			best = rank
		}
	}
	if best.OriginalIndex < 0 || best.OriginalIndex >= len(labels) {
		return -1
	}
	return best.OriginalIndex
}
