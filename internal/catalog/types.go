package catalog

// Command is a single reference entry inside a group. Text may embed
// [placeholders] and multi-line sample output; Output lists the 0-based line
// indices of Text that are sample output.
type Command struct {
	ID       int64
	Text     string
	ManPages []string
	Output   []int
}

// Group is a titled collection of commands. ID is stable across imports and
// keys the expand state of the list.
type Group struct {
	ID       int64
	Label    string
	Icon     string
	Commands []Command
}

// Snapshot is an immutable view of the catalog as of one store revision.
type Snapshot struct {
	Revision int64
	Groups   []Group
}

// ManPage is the reference page a clickable command navigates to.
type ManPage struct {
	Name    string
	Summary string
	Body    string
}

// Catalog is the importable form of the whole data set.
type Catalog struct {
	Groups   []Group
	ManPages []ManPage
}

// GroupByID returns the group with the given identifier.
func (s Snapshot) GroupByID(id int64) (Group, bool) {
	for _, g := range s.Groups {
		if g.ID == id {
			return g, true
		}
	}
	return Group{}, false
}

// CommandCount returns the number of commands across all groups.
func (s Snapshot) CommandCount() int {
	total := 0
	for _, g := range s.Groups {
		total += len(g.Commands)
	}
	return total
}
