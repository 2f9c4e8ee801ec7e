package backend

import (
	"context"
	"fmt"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/atomicstack/cmdlib/internal/catalog"
	"github.com/atomicstack/cmdlib/internal/logging/events"
)

// Kind represents the type of data emitted by the backend watcher.
type Kind int

const (
	// KindCatalog carries a catalog.Snapshot.
	KindCatalog Kind = iota
	// KindImport carries an ImportResult after the seed file was re-read.
	KindImport
)

// Event conveys updated data or an error from a backend poll.
type Event struct {
	Kind Kind
	Data interface{}
	Err  error
}

// ImportResult describes a completed seed re-import.
type ImportResult struct {
	Path   string
	Groups int
}

// Source is the catalog store as seen by the watcher.
type Source interface {
	Revision(ctx context.Context) (int64, error)
	Snapshot(ctx context.Context) (catalog.Snapshot, error)
	Import(ctx context.Context, cat catalog.Catalog) error
}

// Options tunes the watcher.
type Options struct {
	// Interval between revision polls.
	Interval time.Duration
	// SeedPath, when set, is re-imported whenever the file changes.
	SeedPath string
	// Debounce is how long the seed file must stay quiet before re-import.
	Debounce time.Duration
}

// Watcher polls the catalog store at a fixed interval and publishes events.
type Watcher struct {
	source Source
	opts   Options

	ctx    context.Context
	cancel context.CancelFunc

	events chan Event
	wg     sync.WaitGroup
}

// NewWatcher creates a backend watcher. The first snapshot is published
// immediately.
func NewWatcher(source Source, opts Options) *Watcher {
	if opts.Interval <= 0 {
		opts.Interval = time.Second
	}
	if opts.Debounce <= 0 {
		opts.Debounce = 200 * time.Millisecond
	}
	ctx, cancel := context.WithCancel(context.Background())
	w := &Watcher{
		source: source,
		opts:   opts,
		ctx:    ctx,
		cancel: cancel,
		events: make(chan Event, 16),
	}

	w.startCatalogPoller()
	if opts.SeedPath != "" {
		w.startSeedWatcher()
	}

	go func() {
		w.wg.Wait()
		close(w.events)
	}()

	return w
}

// Events returns a channel of backend events.
func (w *Watcher) Events() <-chan Event {
	return w.events
}

// Stop cancels the watcher. Pollers exit after their current fetch completes;
// use Wait if a clean drain is required (e.g. in tests).
func (w *Watcher) Stop() {
	w.cancel()
}

// Wait blocks until all goroutines have exited and the events channel is
// closed. Call after Stop when a clean shutdown is required.
func (w *Watcher) Wait() {
	w.wg.Wait()
}

func (w *Watcher) send(evt Event) bool {
	select {
	case <-w.ctx.Done():
		return false
	case w.events <- evt:
		return true
	}
}

func (w *Watcher) startCatalogPoller() {
	throttle := newThrottle(w.opts.Interval / 4)
	last := int64(-1)
	w.wg.Add(1)
	go w.poll(func(ctx context.Context) (Event, bool) {
		if !throttle.wait(ctx) {
			return Event{}, false
		}
		rev, err := w.source.Revision(ctx)
		if err != nil {
			// Republish after recovery even when the revision is unchanged.
			last = -1
			return Event{Kind: KindCatalog, Err: err}, true
		}
		changed := rev != last
		events.Backend.Poll(rev, changed)
		if !changed {
			return Event{}, false
		}
		snap, err := w.source.Snapshot(ctx)
		if err != nil {
			last = -1
			return Event{Kind: KindCatalog, Err: err}, true
		}
		last = snap.Revision
		return Event{Kind: KindCatalog, Data: snap}, true
	})
}

func (w *Watcher) poll(fetch func(context.Context) (Event, bool)) {
	defer w.wg.Done()

	emit := func() bool {
		evt, ok := fetch(w.ctx)
		if !ok {
			return w.ctx.Err() == nil
		}
		return w.send(evt)
	}

	if !emit() {
		return
	}

	ticker := time.NewTicker(w.opts.Interval)
	defer ticker.Stop()

	for {
		select {
		case <-w.ctx.Done():
			return
		case <-ticker.C:
			if !emit() {
				return
			}
		}
	}
}

func (w *Watcher) startSeedWatcher() {
	seed := filepath.Clean(w.opts.SeedPath)
	fsw, err := fsnotify.NewWatcher()
	if err == nil {
		// Watch the directory so editors that replace the file are seen.
		err = fsw.Add(filepath.Dir(seed))
		if err != nil {
			fsw.Close()
		}
	}
	if err != nil {
		w.wg.Add(1)
		go func() {
			defer w.wg.Done()
			w.send(Event{Kind: KindImport, Err: fmt.Errorf("watch seed %s: %w", seed, err)})
		}()
		return
	}
	w.wg.Add(1)
	go w.watchSeed(fsw, seed)
}

func (w *Watcher) watchSeed(fsw *fsnotify.Watcher, seed string) {
	defer w.wg.Done()
	defer fsw.Close()

	var pending time.Time
	tick := time.NewTicker(w.opts.Debounce / 2)
	defer tick.Stop()

	for {
		select {
		case <-w.ctx.Done():
			return
		case evt, ok := <-fsw.Events:
			if !ok {
				return
			}
			if filepath.Clean(evt.Name) != seed {
				continue
			}
			if evt.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) == 0 {
				continue
			}
			events.Backend.SeedChanged(seed, evt.Op.String())
			pending = time.Now()
		case err, ok := <-fsw.Errors:
			if !ok {
				return
			}
			if !w.send(Event{Kind: KindImport, Err: fmt.Errorf("watch seed %s: %w", seed, err)}) {
				return
			}
		case <-tick.C:
			if pending.IsZero() || time.Since(pending) < w.opts.Debounce {
				continue
			}
			pending = time.Time{}
			if !w.send(w.reimport(seed)) {
				return
			}
		}
	}
}

func (w *Watcher) reimport(seed string) Event {
	cat, err := catalog.LoadFile(seed)
	if err != nil {
		return Event{Kind: KindImport, Err: err}
	}
	if err := w.source.Import(w.ctx, cat); err != nil {
		return Event{Kind: KindImport, Err: fmt.Errorf("import %s: %w", seed, err)}
	}
	events.Catalog.Import(seed, len(cat.Groups))
	return Event{Kind: KindImport, Data: ImportResult{Path: seed, Groups: len(cat.Groups)}}
}
