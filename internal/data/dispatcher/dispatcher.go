package dispatcher

import (
	"github.com/atomicstack/cmdlib/internal/backend"
	"github.com/atomicstack/cmdlib/internal/catalog"
)

// Catalog is the projector side of the dispatcher.
type Catalog interface {
	Snapshot() catalog.Snapshot
	Replace(snapshot catalog.Snapshot)
}

// Result reports what Handle changed so the UI can react.
type Result struct {
	CatalogUpdated bool
	Imported       bool
	Revision       int64
	Groups         int
	Source         string
	Err            error
}

// Dispatcher applies watcher events to the projected catalog.
type Dispatcher struct {
	catalog Catalog
}

// New returns a dispatcher feeding c.
func New(c Catalog) *Dispatcher {
	return &Dispatcher{catalog: c}
}

// Handle applies a backend event. Snapshots that are not newer than the one
// currently projected are dropped; every import bumps the store revision, so
// an equal revision carries the same catalog.
func (d *Dispatcher) Handle(evt backend.Event) Result {
	var res Result
	if evt.Err != nil {
		res.Err = evt.Err
		return res
	}
	switch evt.Kind {
	case backend.KindCatalog:
		if snapshot, ok := evt.Data.(catalog.Snapshot); ok {
			if d.catalog == nil || snapshot.Revision <= d.catalog.Snapshot().Revision {
				return res
			}
			d.catalog.Replace(snapshot)
			res.CatalogUpdated = true
			res.Revision = snapshot.Revision
			res.Groups = len(snapshot.Groups)
		}
	case backend.KindImport:
		if imported, ok := evt.Data.(backend.ImportResult); ok {
			res.Imported = true
			res.Groups = imported.Groups
			res.Source = imported.Path
		}
	}
	return res
}
