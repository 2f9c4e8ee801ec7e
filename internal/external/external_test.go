package external

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
)

type call struct {
	name string
	args []string
}

type fakeRunner struct {
	calls []call
	fail  map[string]error
}

func (f *fakeRunner) run(_ context.Context, name string, args ...string) error {
	f.calls = append(f.calls, call{name: name, args: append([]string(nil), args...)})
	if len(args) > 0 {
		if err, ok := f.fail[args[len(args)-1]]; ok {
			return err
		}
	}
	if err, ok := f.fail[name]; ok {
		return err
	}
	return nil
}

func newTestSharer(clipOK bool, clipErr error, tmux bool, r *fakeRunner) (*Sharer, *[]string) {
	var copied []string
	s := &Sharer{
		socket: "",
		writeClipboard: func(text string) error {
			if clipErr != nil {
				return clipErr
			}
			copied = append(copied, text)
			return nil
		},
		clipboardOK: func() bool { return clipOK },
		inTmux:      func() bool { return tmux },
		run:         r.run,
	}
	return s, &copied
}

func TestShareUsesClipboard(t *testing.T) {
	r := &fakeRunner{}
	s, copied := newTestSharer(true, nil, true, r)
	dest, err := s.Share(context.Background(), "ls -la")
	if err != nil {
		t.Fatalf("share: %v", err)
	}
	if dest != "clipboard" {
		t.Fatalf("expected clipboard, got %q", dest)
	}
	if diff := cmp.Diff([]string{"ls -la"}, *copied); diff != "" {
		t.Fatalf("copied mismatch (-want +got):\n%s", diff)
	}
	if len(r.calls) != 0 {
		t.Fatalf("tmux must not run when clipboard works: %v", r.calls)
	}
}

func TestShareFallsBackToTmuxBuffer(t *testing.T) {
	r := &fakeRunner{}
	s, _ := newTestSharer(true, errors.New("no xclip"), true, r)
	s.socket = "/tmp/tmux-1000/default"
	dest, err := s.Share(context.Background(), "uname -a")
	if err != nil {
		t.Fatalf("share: %v", err)
	}
	if dest != "tmux buffer" {
		t.Fatalf("expected tmux buffer, got %q", dest)
	}
	want := []call{{name: "tmux", args: []string{"-S", "/tmp/tmux-1000/default", "set-buffer", "--", "uname -a"}}}
	if diff := cmp.Diff(want, r.calls, cmp.AllowUnexported(call{})); diff != "" {
		t.Fatalf("calls mismatch (-want +got):\n%s", diff)
	}
}

func TestShareWithoutHandler(t *testing.T) {
	s, _ := newTestSharer(false, nil, false, &fakeRunner{})
	if _, err := s.Share(context.Background(), "ls"); !errors.Is(err, ErrNoHandler) {
		t.Fatalf("expected ErrNoHandler, got %v", err)
	}
	var nilSharer *Sharer
	if _, err := nilSharer.Share(context.Background(), "ls"); !errors.Is(err, ErrNoHandler) {
		t.Fatalf("nil sharer: expected ErrNoHandler, got %v", err)
	}
}

func TestShareAllHandlersFail(t *testing.T) {
	r := &fakeRunner{fail: map[string]error{"tmux": errors.New("no server")}}
	s, _ := newTestSharer(true, errors.New("no xclip"), true, r)
	_, err := s.Share(context.Background(), "ls")
	if !errors.Is(err, ErrNoHandler) {
		t.Fatalf("expected ErrNoHandler in chain, got %v", err)
	}
	if !strings.Contains(err.Error(), "no server") || !strings.Contains(err.Error(), "no xclip") {
		t.Fatalf("expected both causes, got %v", err)
	}
}

func TestShareRejectsEmptyText(t *testing.T) {
	s, _ := newTestSharer(true, nil, false, &fakeRunner{})
	if _, err := s.Share(context.Background(), "  \n"); err == nil {
		t.Fatalf("expected error for empty text")
	}
}

func TestListingURLs(t *testing.T) {
	if got := MarketURL("com.example.app"); got != "market://details?id=com.example.app&referrer=utm_source%3Dlinuxapp%26utm_medium%3Dbasicgroup" {
		t.Fatalf("unexpected market url %q", got)
	}
	if got := WebURL("com.example.app"); got != "https://play.google.com/store/apps/details?id=com.example.app&referrer=utm_source%3Dlinuxapp%26utm_medium%3Dbasicgroup" {
		t.Fatalf("unexpected web url %q", got)
	}
}

func newTestMarketplace(goos string, installed map[string]bool, r *fakeRunner) *Marketplace {
	return &Marketplace{
		run:  r.run,
		goos: goos,
		lookup: func(name string) (string, error) {
			if installed[name] {
				return "/usr/bin/" + name, nil
			}
			return "", errors.New("not found")
		},
	}
}

func TestOpenAppListingPrefersMarket(t *testing.T) {
	r := &fakeRunner{}
	m := newTestMarketplace("linux", map[string]bool{"xdg-open": true}, r)
	got, err := m.OpenAppListing(context.Background(), QuizPackage)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	if got != MarketURL(QuizPackage) {
		t.Fatalf("expected market url, got %q", got)
	}
	if len(r.calls) != 1 || r.calls[0].name != "xdg-open" {
		t.Fatalf("unexpected calls %v", r.calls)
	}
}

func TestOpenAppListingFallsBackToWeb(t *testing.T) {
	r := &fakeRunner{fail: map[string]error{MarketURL(RemotePackage): errors.New("no handler for market")}}
	m := newTestMarketplace("darwin", map[string]bool{"open": true}, r)
	got, err := m.OpenAppListing(context.Background(), RemotePackage)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	if got != WebURL(RemotePackage) {
		t.Fatalf("expected web url, got %q", got)
	}
	if len(r.calls) != 2 || r.calls[1].name != "open" {
		t.Fatalf("unexpected calls %v", r.calls)
	}
}

func TestOpenAppListingWithoutOpener(t *testing.T) {
	m := newTestMarketplace("linux", nil, &fakeRunner{})
	if _, err := m.OpenAppListing(context.Background(), QuizPackage); !errors.Is(err, ErrNoHandler) {
		t.Fatalf("expected ErrNoHandler, got %v", err)
	}
	if _, err := m.OpenAppListing(context.Background(), " "); err == nil {
		t.Fatalf("expected error for empty package")
	}
}

func TestTmuxArgs(t *testing.T) {
	if diff := cmp.Diff([]string{"set-buffer"}, tmuxArgs("  ", "set-buffer")); diff != "" {
		t.Fatalf("args mismatch (-want +got):\n%s", diff)
	}
	if got := socketDir("/tmp/x/default"); got != "/tmp/x" {
		t.Fatalf("unexpected socket dir %q", got)
	}
}
