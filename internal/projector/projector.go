package projector

import (
	"sync"
	"sync/atomic"

	"github.com/atomicstack/cmdlib/internal/catalog"
	"github.com/atomicstack/cmdlib/internal/logging/events"
)

// ContentTypeGroup is the analytics content type reported when a group is
// expanded or collapsed.
const ContentTypeGroup = "Basic Group"

// Analytics receives best-effort select-content events.
type Analytics interface {
	LogSelectContent(id, category string) error
}

// Binding is a row resolved against the snapshot that produced it.
type Binding struct {
	Row     Row
	Kind    Kind
	Group   catalog.Group
	Command catalog.Command
}

// view pairs a snapshot with the rows projected from it so readers always see
// a consistent pair.
type view struct {
	snapshot catalog.Snapshot
	rows     []Row
}

// Projector maintains the flattened group/command list.
type Projector struct {
	mu        sync.Mutex
	expanded  map[int64]bool
	query     string
	analytics Analytics

	current atomic.Pointer[view]
}

// New returns a projector over snapshot with every group collapsed.
func New(snapshot catalog.Snapshot, analytics Analytics) *Projector {
	p := &Projector{
		expanded:  make(map[int64]bool),
		analytics: analytics,
	}
	p.mu.Lock()
	p.publishLocked(snapshot)
	p.mu.Unlock()
	return p
}

// Project flattens groups into rows: a header per group, one child row per
// command of each expanded group, and a single trailing promotion row.
func Project(groups []catalog.Group, expanded func(id int64) bool) []Row {
	size := len(groups) + 1
	for _, g := range groups {
		if expanded != nil && expanded(g.ID) {
			size += len(g.Commands)
		}
	}
	rows := make([]Row, 0, size)
	for gi, g := range groups {
		rows = append(rows, groupRow(gi))
		if expanded == nil || !expanded(g.ID) {
			continue
		}
		for ci := range g.Commands {
			rows = append(rows, childRow(gi, ci))
		}
	}
	return append(rows, promotionRow())
}

// Resolve fetches the group or command a row points at. A row whose indices
// fall outside snapshot resolves to ok == false.
func Resolve(snapshot catalog.Snapshot, r Row) (Binding, bool) {
	kind := r.Kind()
	b := Binding{Row: r, Kind: kind}
	if kind == KindPromotion {
		return b, true
	}
	if r.group < 0 || r.group >= len(snapshot.Groups) {
		return Binding{}, false
	}
	b.Group = snapshot.Groups[r.group]
	if kind == KindGroup {
		return b, true
	}
	if r.child < 0 || r.child >= len(b.Group.Commands) {
		return Binding{}, false
	}
	b.Command = b.Group.Commands[r.child]
	return b, true
}

// Replace swaps in a new snapshot. Expand state is kept, so groups whose id
// recurs stay expanded.
func (p *Projector) Replace(snapshot catalog.Snapshot) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.publishLocked(snapshot)
	events.Catalog.Replace(snapshot.Revision, len(snapshot.Groups))
}

// Toggle flips the expand state of groupID and reports the new state.
func (p *Projector) Toggle(groupID int64) bool {
	p.mu.Lock()
	state := !p.expanded[groupID]
	p.expanded[groupID] = state
	snap := p.load().snapshot
	p.publishLocked(snap)
	p.mu.Unlock()

	label := ""
	if g, ok := snap.GroupByID(groupID); ok {
		label = g.Label
	}
	events.Catalog.Toggle(groupID, label, state)
	p.trackSelectContent(label)
	return state
}

// IsExpanded reports whether the group is expanded.
func (p *Projector) IsExpanded(groupID int64) bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.expanded[groupID]
}

// SetQuery stores the search query used for highlighting.
func (p *Projector) SetQuery(query string) {
	p.mu.Lock()
	p.query = query
	p.mu.Unlock()
}

// Query returns the current search query.
func (p *Projector) Query() string {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.query
}

// Snapshot returns the snapshot the current rows were projected from.
func (p *Projector) Snapshot() catalog.Snapshot {
	return p.load().snapshot
}

// Rows returns the current projection. The slice must not be modified.
func (p *Projector) Rows() []Row {
	return p.load().rows
}

// Len returns the number of projected rows.
func (p *Projector) Len() int {
	return len(p.load().rows)
}

// Row returns the row at pos.
func (p *Projector) Row(pos int) (Row, bool) {
	rows := p.load().rows
	if pos < 0 || pos >= len(rows) {
		return Row{}, false
	}
	return rows[pos], true
}

// Bind resolves the row at pos against the snapshot it was projected from.
func (p *Projector) Bind(pos int) (Binding, bool) {
	v := p.load()
	if pos < 0 || pos >= len(v.rows) {
		return Binding{}, false
	}
	return Resolve(v.snapshot, v.rows[pos])
}

// IndexOfGroup returns the row position of the group header with groupID.
func (p *Projector) IndexOfGroup(groupID int64) int {
	v := p.load()
	for i, r := range v.rows {
		if r.Kind() != KindGroup {
			continue
		}
		if v.snapshot.Groups[r.group].ID == groupID {
			return i
		}
	}
	return -1
}

func (p *Projector) load() *view {
	return p.current.Load()
}

func (p *Projector) publishLocked(snapshot catalog.Snapshot) {
	rows := Project(snapshot.Groups, func(id int64) bool { return p.expanded[id] })
	p.current.Store(&view{snapshot: snapshot, rows: rows})
}

func (p *Projector) trackSelectContent(label string) {
	if p.analytics == nil {
		return
	}
	if err := p.analytics.LogSelectContent(label, ContentTypeGroup); err != nil {
		events.Action.Error(err)
	}
}
