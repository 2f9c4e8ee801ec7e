package logging

import (
	"bytes"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestTraceRespectsToggle(t *testing.T) {
	var buf bytes.Buffer
	SetOutput(&buf)
	t.Cleanup(func() {
		SetOutput(nil)
		SetTraceEnabled(false)
	})

	SetTraceEnabled(false)
	Trace("hidden", map[string]interface{}{"a": 1})
	if buf.Len() != 0 {
		t.Fatalf("expected no output with tracing disabled, got %q", buf.String())
	}

	SetTraceEnabled(true)
	Trace("group.toggle", map[string]interface{}{"id": 7})
	var entry map[string]interface{}
	if err := json.Unmarshal(bytes.TrimSpace(buf.Bytes()), &entry); err != nil {
		t.Fatalf("expected JSON entry, got %q: %v", buf.String(), err)
	}
	if entry["event"] != "group.toggle" {
		t.Fatalf("expected event name, got %v", entry["event"])
	}
	payload, ok := entry["payload"].(map[string]interface{})
	if !ok || payload["id"] != float64(7) {
		t.Fatalf("unexpected payload %#v", entry["payload"])
	}
}

func TestErrorAlwaysWrites(t *testing.T) {
	var buf bytes.Buffer
	SetOutput(&buf)
	t.Cleanup(func() { SetOutput(nil) })

	Error(nil)
	if buf.Len() != 0 {
		t.Fatalf("nil error must not log")
	}
	Error(errors.New("boom"))
	if !strings.Contains(buf.String(), "boom") {
		t.Fatalf("expected error text in log, got %q", buf.String())
	}
}

func TestConfigureCreatesDirectory(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "dir", "cmdlib.log")
	Configure(path)
	t.Cleanup(func() { Configure("") })

	Error(errors.New("to file"))
	if err := Sync(); err != nil {
		t.Logf("sync: %v", err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("expected log file: %v", err)
	}
	if !strings.Contains(string(data), "to file") {
		t.Fatalf("expected entry in log file, got %q", string(data))
	}
}
