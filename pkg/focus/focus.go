// Package focus provides ordered tab-stop groups.
//
// A Group is owned by exactly one composite (a Tabs component, or the engine
// for top-level traversal). Members never hold a reference back to their
// group; callers look membership up by id through the owner.
package focus

import (
	"fmt"

	"github.com/go-drift/headless/pkg/errors"
	"github.com/go-drift/headless/pkg/events"
)

// Group is an ordered sequence of unique component ids.
type Group struct {
	members []events.ComponentID
	index   map[events.ComponentID]int
}

// NewGroup creates a group in the given order. Duplicate ids are rejected.
func NewGroup(ids ...events.ComponentID) (*Group, error) {
	g := &Group{index: make(map[events.ComponentID]int, len(ids))}
	for _, id := range ids {
		if _, dup := g.index[id]; dup {
			return nil, errors.Configuration("focus.NewGroup", string(id), errors.ErrDuplicateID)
		}
		g.index[id] = len(g.members)
		g.members = append(g.members, id)
	}
	return g, nil
}

// Len returns the number of members.
func (g *Group) Len() int {
	return len(g.members)
}

// Members returns a copy of the ordered members.
func (g *Group) Members() []events.ComponentID {
	out := make([]events.ComponentID, len(g.members))
	copy(out, g.members)
	return out
}

// At returns the member at index i.
func (g *Group) At(i int) events.ComponentID {
	return g.members[i]
}

// Contains reports whether id is a member.
func (g *Group) Contains(id events.ComponentID) bool {
	_, ok := g.index[id]
	return ok
}

// IndexOf returns the position of id, or -1.
func (g *Group) IndexOf(id events.ComponentID) int {
	if i, ok := g.index[id]; ok {
		return i
	}
	return -1
}

// Insert adds id at position at. An out-of-range position appends.
func (g *Group) Insert(id events.ComponentID, at int) error {
	if g.Contains(id) {
		return errors.Configuration("focus.Group.Insert", string(id), errors.ErrDuplicateID)
	}
	if at < 0 || at > len(g.members) {
		at = len(g.members)
	}
	g.members = append(g.members, "")
	copy(g.members[at+1:], g.members[at:])
	g.members[at] = id
	g.reindex()
	return nil
}

// Remove deletes id and returns the index it occupied.
func (g *Group) Remove(id events.ComponentID) (int, bool) {
	i, ok := g.index[id]
	if !ok {
		return -1, false
	}
	g.members = append(g.members[:i], g.members[i+1:]...)
	g.reindex()
	return i, true
}

func (g *Group) reindex() {
	clear(g.index)
	for i, id := range g.members {
		g.index[id] = i
	}
}

// Move returns the member delta positions away from from, skipping members
// for which skip returns true. With wrap, traversal continues past either end;
// without it, running off an end reports false. A from that is not a member
// starts before the first member (delta > 0) or after the last (delta < 0).
func (g *Group) Move(from events.ComponentID, delta int, wrap bool, skip func(events.ComponentID) bool) (events.ComponentID, bool) {
	count := len(g.members)
	if count == 0 || delta == 0 {
		return "", false
	}
	current, ok := g.index[from]
	if !ok {
		if delta > 0 {
			current = -1
		} else {
			current = count
		}
	}

	for step := 1; step <= count; step++ {
		next := current + delta*step
		if wrap {
			next = wrapIndex(next, count)
		} else if next < 0 || next >= count {
			return "", false
		}
		candidate := g.members[next]
		if candidate == from {
			return "", false
		}
		if skip != nil && skip(candidate) {
			continue
		}
		return candidate, true
	}
	return "", false
}

// First returns the first member not skipped.
func (g *Group) First(skip func(events.ComponentID) bool) (events.ComponentID, bool) {
	return g.Move("", 1, false, skip)
}

// Last returns the last member not skipped.
func (g *Group) Last(skip func(events.ComponentID) bool) (events.ComponentID, bool) {
	return g.Move("", -1, false, skip)
}

func (g *Group) String() string {
	return fmt.Sprint(g.members)
}

// wrapIndex wraps an index to stay within [0, count).
func wrapIndex(index, count int) int {
	index = index % count
	if index < 0 {
		index += count
	}
	return index
}
