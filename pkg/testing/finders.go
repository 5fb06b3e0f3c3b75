package testing

import (
	"fmt"

	"github.com/go-drift/headless/pkg/events"
	"github.com/go-drift/headless/pkg/semantics"
	"github.com/go-drift/headless/pkg/widgets"
)

// Node is one addressable component as seen by a finder: a mounted widget
// or one tab of a tab list.
type Node struct {
	ID events.ComponentID
	// Owner is the mounted widget's id; equal to ID except for tabs.
	Owner     events.ComponentID
	Kind      string
	Semantics semantics.Node
}

// Finder locates components among the mounted widgets.
type Finder interface {
	// Match reports whether n is a match.
	Match(n Node) bool
	// Description returns a human-readable description for error messages.
	Description() string
}

// FinderResult wraps finder results with convenient accessors.
type FinderResult struct {
	nodes  []Node
	finder Finder
}

// First returns the first match. Panics if no matches.
func (r FinderResult) First() Node {
	if len(r.nodes) == 0 {
		panic(fmt.Sprintf("Finder found no components: %s", r.describe()))
	}
	return r.nodes[0]
}

// At returns the match at index. Panics if out of range.
func (r FinderResult) At(index int) Node {
	if index < 0 || index >= len(r.nodes) {
		panic(fmt.Sprintf("Finder index %d out of range (found %d): %s", index, len(r.nodes), r.describe()))
	}
	return r.nodes[index]
}

// ID returns the id of the first match. Panics if no matches.
func (r FinderResult) ID() events.ComponentID {
	return r.First().ID
}

// All returns all matches in mount order.
func (r FinderResult) All() []Node {
	return r.nodes
}

// Count returns the number of matches.
func (r FinderResult) Count() int {
	return len(r.nodes)
}

// Exists returns true if at least one match was found.
func (r FinderResult) Exists() bool {
	return len(r.nodes) > 0
}

func (r FinderResult) describe() string {
	if r.finder == nil {
		return "unknown"
	}
	return r.finder.Description()
}

// Find evaluates f against every mounted widget and tab.
func (t *Tester) Find(f Finder) FinderResult {
	var matches []Node
	for _, n := range nodes(t.engine.Snapshots()) {
		if f.Match(n) {
			matches = append(matches, n)
		}
	}
	return FinderResult{nodes: matches, finder: f}
}

func nodes(snaps []widgets.Snapshot) []Node {
	var out []Node
	for _, s := range snaps {
		out = append(out, Node{ID: s.ID, Owner: s.ID, Kind: s.Kind, Semantics: s.Semantics})
		for _, tab := range s.Tabs {
			out = append(out, Node{ID: tab.ID, Owner: s.ID, Kind: semantics.KindTab.String(), Semantics: tab.Semantics})
		}
	}
	return out
}

// --- Concrete finders ---

type funcFinder struct {
	match func(Node) bool
	desc  string
}

func (f funcFinder) Match(n Node) bool { return f.match(n) }

func (f funcFinder) Description() string { return f.desc }

// ByID matches the component with the given id.
func ByID(id events.ComponentID) Finder {
	return funcFinder{
		match: func(n Node) bool { return n.ID == id },
		desc:  fmt.Sprintf("ByID(%s)", id),
	}
}

// ByLabel matches components whose accessible label equals label.
func ByLabel(label string) Finder {
	return funcFinder{
		match: func(n Node) bool { return n.Semantics.Label == label },
		desc:  fmt.Sprintf("ByLabel(%q)", label),
	}
}

// ByRole matches components announced with role.
func ByRole(role semantics.Role) Finder {
	return funcFinder{
		match: func(n Node) bool { return n.Semantics.Role == role },
		desc:  fmt.Sprintf("ByRole(%s)", role),
	}
}

// ByKind matches components of the given kind.
func ByKind(kind semantics.Kind) Finder {
	return funcFinder{
		match: func(n Node) bool { return n.Kind == kind.String() },
		desc:  fmt.Sprintf("ByKind(%s)", kind),
	}
}

// ByFlag matches components whose semantic flags include flag.
func ByFlag(flag semantics.Flag) Finder {
	return funcFinder{
		match: func(n Node) bool { return n.Semantics.Flags.Has(flag) },
		desc:  fmt.Sprintf("ByFlag(%v)", flag.Names()),
	}
}

// And matches components matched by every finder.
func And(finders ...Finder) Finder {
	desc := "And("
	for i, f := range finders {
		if i > 0 {
			desc += ", "
		}
		desc += f.Description()
	}
	return funcFinder{
		match: func(n Node) bool {
			for _, f := range finders {
				if !f.Match(n) {
					return false
				}
			}
			return true
		},
		desc: desc + ")",
	}
}
