package events

import "github.com/atomicstack/cmdlib/internal/logging"

type CatalogTracer struct{}

type BackendTracer struct{}

var (
	Catalog = CatalogTracer{}
	Backend = BackendTracer{}
)

func (CatalogTracer) Replace(revision int64, groups int) {
	logging.Trace("catalog.replace", map[string]interface{}{"revision": revision, "groups": groups})
}

func (CatalogTracer) Toggle(id int64, label string, expanded bool) {
	logging.Trace("catalog.toggle", map[string]interface{}{"id": id, "label": label, "expanded": expanded})
}

func (CatalogTracer) Import(source string, groups int) {
	logging.Trace("catalog.import", map[string]interface{}{"source": source, "groups": groups})
}

func (CatalogTracer) Navigate(command string) {
	logging.Trace("catalog.navigate", map[string]interface{}{"command": command})
}

func (CatalogTracer) Share(length int) {
	logging.Trace("catalog.share", map[string]interface{}{"length": length})
}

func (CatalogTracer) OpenListing(pkg, url string) {
	logging.Trace("catalog.listing", map[string]interface{}{"package": pkg, "url": url})
}

func (BackendTracer) Poll(revision int64, changed bool) {
	logging.Trace("backend.poll", map[string]interface{}{"revision": revision, "changed": changed})
}

func (BackendTracer) SeedChanged(path, op string) {
	logging.Trace("backend.seed", map[string]interface{}{"path": path, "op": op})
}
