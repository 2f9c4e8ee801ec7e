package dispatcher

import (
	"errors"
	"testing"

	"github.com/atomicstack/cmdlib/internal/backend"
	"github.com/atomicstack/cmdlib/internal/catalog"
	"github.com/atomicstack/cmdlib/internal/projector"
)

func snapshot(rev int64, labels ...string) catalog.Snapshot {
	snap := catalog.Snapshot{Revision: rev}
	for i, label := range labels {
		snap.Groups = append(snap.Groups, catalog.Group{ID: int64(i + 1), Label: label})
	}
	return snap
}

func TestHandleCatalogReplacesSnapshot(t *testing.T) {
	p := projector.New(snapshot(1, "One"), nil)
	d := New(p)

	res := d.Handle(backend.Event{Kind: backend.KindCatalog, Data: snapshot(2, "One", "Two")})
	if !res.CatalogUpdated || res.Revision != 2 || res.Groups != 2 {
		t.Fatalf("unexpected result %+v", res)
	}
	if p.Snapshot().Revision != 2 || p.Len() != 3 {
		t.Fatalf("projector not updated: rev=%d len=%d", p.Snapshot().Revision, p.Len())
	}
}

func TestHandleDropsOlderSnapshot(t *testing.T) {
	p := projector.New(snapshot(5, "Current"), nil)
	d := New(p)

	res := d.Handle(backend.Event{Kind: backend.KindCatalog, Data: snapshot(4, "Old", "Older")})
	if res.CatalogUpdated {
		t.Fatalf("older snapshot must be ignored")
	}
	if got := p.Snapshot().Groups[0].Label; got != "Current" {
		t.Fatalf("projector changed to %q", got)
	}
}

func TestHandleDropsSameRevision(t *testing.T) {
	p := projector.New(snapshot(5, "Current"), nil)
	p.Toggle(1)
	d := New(p)

	res := d.Handle(backend.Event{Kind: backend.KindCatalog, Data: snapshot(5, "Current")})
	if res.CatalogUpdated {
		t.Fatalf("snapshot with the projected revision must be ignored")
	}
	if !p.IsExpanded(1) || p.Len() != 2 {
		t.Fatalf("projection changed: expanded=%v len=%d", p.IsExpanded(1), p.Len())
	}
}

func TestHandleFirstStoreSnapshot(t *testing.T) {
	p := projector.New(catalog.Snapshot{}, nil)
	d := New(p)

	res := d.Handle(backend.Event{Kind: backend.KindCatalog, Data: snapshot(1, "Seeded")})
	if !res.CatalogUpdated || p.Snapshot().Revision != 1 {
		t.Fatalf("expected first imported revision applied, got %+v", res)
	}
}

func TestHandleImportAndErrors(t *testing.T) {
	d := New(projector.New(catalog.Snapshot{}, nil))

	res := d.Handle(backend.Event{Kind: backend.KindImport, Data: backend.ImportResult{Path: "/tmp/seed.yaml", Groups: 4}})
	if !res.Imported || res.Groups != 4 || res.Source != "/tmp/seed.yaml" {
		t.Fatalf("unexpected import result %+v", res)
	}

	boom := errors.New("boom")
	res = d.Handle(backend.Event{Kind: backend.KindCatalog, Err: boom})
	if !errors.Is(res.Err, boom) || res.CatalogUpdated {
		t.Fatalf("expected error result, got %+v", res)
	}

	res = d.Handle(backend.Event{Kind: backend.KindCatalog, Data: "not a snapshot"})
	if res.CatalogUpdated {
		t.Fatalf("unexpected update from bad payload")
	}
}
