// Package analytics records best-effort usage events as JSON lines.
package analytics

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
)

// EventSelectContent is recorded when a group is toggled.
const EventSelectContent = "select_content"

// Event is one analytics record.
type Event struct {
	SessionID   string    `json:"session_id"`
	Timestamp   time.Time `json:"timestamp"`
	Event       string    `json:"event"`
	ItemID      string    `json:"item_id"`
	ContentType string    `json:"content_type,omitempty"`
}

// Sink appends events to a file. A nil sink, an empty path or debug mode
// drops every event.
type Sink struct {
	path      string
	sessionID string
	debug     bool
	now       func() time.Time

	mu sync.Mutex
}

// New returns a sink writing to path with a fresh session id.
func New(path string, debug bool) *Sink {
	path = strings.TrimSpace(path)
	if path != "" {
		_ = os.MkdirAll(filepath.Dir(path), 0o755)
	}
	return &Sink{
		path:      path,
		sessionID: uuid.NewString(),
		debug:     debug,
		now:       func() time.Time { return time.Now().UTC() },
	}
}

// SessionID returns the id stamped on every event from this sink.
func (s *Sink) SessionID() string {
	if s == nil {
		return ""
	}
	return s.sessionID
}

// LogSelectContent records a select_content event.
func (s *Sink) LogSelectContent(id, category string) error {
	return s.Emit(Event{Event: EventSelectContent, ItemID: id, ContentType: category})
}

// Emit appends evt, filling session id and timestamp.
func (s *Sink) Emit(evt Event) error {
	if s == nil || s.debug || s.path == "" {
		return nil
	}
	if strings.TrimSpace(evt.Event) == "" {
		return fmt.Errorf("analytics: event name required")
	}
	if evt.SessionID == "" {
		evt.SessionID = s.sessionID
	}
	if evt.Timestamp.IsZero() {
		evt.Timestamp = s.now()
	}
	data, err := json.Marshal(evt)
	if err != nil {
		return fmt.Errorf("analytics: encode: %w", err)
	}
	data = append(data, '\n')

	s.mu.Lock()
	defer s.mu.Unlock()
	f, err := os.OpenFile(s.path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("analytics: open %s: %w", s.path, err)
	}
	defer f.Close()
	if _, err := f.Write(data); err != nil {
		return fmt.Errorf("analytics: write %s: %w", s.path, err)
	}
	return nil
}
