package projector

import "fmt"

// Kind classifies a projected row.
type Kind int

const (
	KindGroup Kind = iota
	KindChild
	KindPromotion
)

func (k Kind) String() string {
	switch k {
	case KindGroup:
		return "group"
	case KindChild:
		return "child"
	case KindPromotion:
		return "promotion"
	default:
		return fmt.Sprintf("kind(%d)", int(k))
	}
}

const sentinel = -1

// Row addresses one line of the flattened list by position in the snapshot
// that produced it. Rows are only valid until the next projection.
type Row struct {
	group int
	child int
}

func groupRow(g int) Row { return Row{group: g, child: sentinel} }
func childRow(g, c int) Row { return Row{group: g, child: c} }
func promotionRow() Row { return Row{group: sentinel, child: sentinel} }

// GroupIndex returns the group position, or -1 for the promotion row.
func (r Row) GroupIndex() int { return r.group }

// ChildIndex returns the command position, or -1 for non-child rows.
func (r Row) ChildIndex() int { return r.child }

// Kind classifies the row. The promotion sentinel pair is checked before the
// child index; a row with only the group sentinel set cannot be projected and
// panics.
func (r Row) Kind() Kind {
	if r.group == sentinel && r.child == sentinel {
		return KindPromotion
	}
	if r.group == sentinel {
		panic(fmt.Sprintf("projector: invalid row (group %d, child %d)", r.group, r.child))
	}
	if r.child != sentinel {
		return KindChild
	}
	return KindGroup
}

func (r Row) String() string {
	switch r.Kind() {
	case KindPromotion:
		return "promotion"
	case KindChild:
		return fmt.Sprintf("child(%d,%d)", r.group, r.child)
	default:
		return fmt.Sprintf("group(%d)", r.group)
	}
}
