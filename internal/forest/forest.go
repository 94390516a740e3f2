// Package forest links flat template records into a tree of templates and
// propagates inheritable attributes from parents to children.
package forest

import (
	"sort"
	"strings"

	"rootforge/internal/diag"
	"rootforge/internal/templates"
)

// NodeID indexes a node in the forest arena.
type NodeID int32

// NoNode is the parent of a root.
const NoNode NodeID = -1

// OrphanPolicy decides what happens to a record whose parent id resolves to
// nothing.
type OrphanPolicy int

const (
	// DropOrphans leaves the record out of the tree. It stays in the key index.
	DropOrphans OrphanPolicy = iota
	// PromoteOrphans makes the record a root.
	PromoteOrphans
)

// DuplicatePolicy decides which record owns a map key seen more than once.
type DuplicatePolicy int

const (
	// LastWins keeps the last record with a given key.
	LastWins DuplicatePolicy = iota
)

type Options struct {
	Orphans    OrphanPolicy
	Duplicates DuplicatePolicy
}

type node struct {
	record   templates.Record
	parent   NodeID
	children []NodeID
}

// Forest is an arena of template nodes. It is built once per load and is
// read-only afterwards, except for Cascade.
type Forest struct {
	nodes     []node
	roots     []NodeID
	index     map[string]NodeID
	orphans   []NodeID
	displaced []templates.Record
}

func foldKey(key string) string { return strings.ToLower(key) }

// Assemble builds the forest and runs Cascade on it.
func Assemble(records []templates.Record, opts Options, sink diag.Sink) *Forest {
	winner := make(map[string]int, len(records))
	f := &Forest{index: make(map[string]NodeID, len(records))}

	for i, rec := range records {
		key := foldKey(rec.MapKey)
		if prev, ok := winner[key]; ok {
			f.displaced = append(f.displaced, records[prev])
			diag.Reportf(sink, diag.SeverityWarning, "template %s from %s replaces the one from %s",
				rec.MapKey, rec.PakOrigin, records[prev].PakOrigin)
		}
		winner[key] = i
	}

	f.nodes = make([]node, 0, len(winner))
	for i, rec := range records {
		key := foldKey(rec.MapKey)
		if winner[key] != i {
			continue
		}
		id := NodeID(len(f.nodes))
		f.nodes = append(f.nodes, node{record: rec, parent: NoNode})
		f.index[key] = id
	}

	for i := range f.nodes {
		id := NodeID(i)
		parentKey := f.nodes[i].record.ParentTemplateID
		if parentKey == "" {
			f.roots = append(f.roots, id)
			continue
		}
		parent, ok := f.index[foldKey(parentKey)]
		if !ok {
			f.orphans = append(f.orphans, id)
			diag.Reportf(sink, diag.SeverityWarning, "template %s (%s): parent %s not found",
				f.nodes[i].record.MapKey, f.nodes[i].record.Name, parentKey)
			if opts.Orphans == PromoteOrphans {
				f.roots = append(f.roots, id)
			}
			continue
		}
		f.nodes[i].parent = parent
		f.nodes[parent].children = append(f.nodes[parent].children, id)
	}

	sort.SliceStable(f.roots, func(a, b int) bool {
		return f.nodes[f.roots[a]].record.Name < f.nodes[f.roots[b]].record.Name
	})

	f.Cascade()
	return f
}

// Cascade copies StatsRef, Icon, CharacterVisualResourceID and
// VisualTemplate from each parent into children that have no value of their
// own. It returns the number of values filled; a second run returns 0.
func (f *Forest) Cascade() int {
	filled := 0
	stack := append([]NodeID(nil), f.roots...)
	for len(stack) > 0 {
		id := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		parent := &f.nodes[id].record
		for _, child := range f.nodes[id].children {
			filled += inherit(&f.nodes[child].record, parent)
			stack = append(stack, child)
		}
	}
	return filled
}

func inherit(child, parent *templates.Record) int {
	n := 0
	fill := func(dst *string, src string) {
		if *dst == "" && src != "" {
			*dst = src
			n++
		}
	}
	fill(&child.StatsRef, parent.StatsRef)
	fill(&child.Icon, parent.Icon)
	fill(&child.CharacterVisualResourceID, parent.CharacterVisualResourceID)
	fill(&child.VisualTemplate, parent.VisualTemplate)
	return n
}

// Roots returns root ids ordered by name.
func (f *Forest) Roots() []NodeID { return append([]NodeID(nil), f.roots...) }

// Children returns the children of id in record order.
func (f *Forest) Children(id NodeID) []NodeID {
	if !f.valid(id) {
		return nil
	}
	return append([]NodeID(nil), f.nodes[id].children...)
}

// Record returns the record of id with cascaded values applied.
func (f *Forest) Record(id NodeID) templates.Record {
	if !f.valid(id) {
		return templates.Record{}
	}
	return f.nodes[id].record
}

// Parent returns the linked parent of id.
func (f *Forest) Parent(id NodeID) (NodeID, bool) {
	if !f.valid(id) || f.nodes[id].parent == NoNode {
		return NoNode, false
	}
	return f.nodes[id].parent, true
}

// Lookup finds a node by map key, ignoring case.
func (f *Forest) Lookup(mapKey string) (NodeID, bool) {
	id, ok := f.index[foldKey(mapKey)]
	return id, ok
}

// Len is the number of distinct map keys.
func (f *Forest) Len() int { return len(f.nodes) }

// Orphans lists records whose parent id did not resolve.
func (f *Forest) Orphans() []templates.Record {
	out := make([]templates.Record, len(f.orphans))
	for i, id := range f.orphans {
		out[i] = f.nodes[id].record
	}
	return out
}

// Displaced lists records that lost their map key to a later duplicate.
func (f *Forest) Displaced() []templates.Record {
	return append([]templates.Record(nil), f.displaced...)
}

// Walk visits every root-reachable node depth first, parents before
// children. Returning false from fn skips the node's subtree.
func (f *Forest) Walk(fn func(id NodeID, depth int) bool) {
	walk(f.roots, f.children, fn)
}

func (f *Forest) children(id NodeID) []NodeID { return f.nodes[id].children }

// Unreachable returns nodes that are neither reachable from a root nor
// dropped orphans. These are members of parent cycles.
func (f *Forest) Unreachable() []NodeID {
	seen := make([]bool, len(f.nodes))
	f.Walk(func(id NodeID, _ int) bool {
		seen[id] = true
		return true
	})
	var out []NodeID
	for i := range f.nodes {
		if seen[i] {
			continue
		}
		id := NodeID(i)
		if f.underOrphan(id) {
			continue
		}
		out = append(out, id)
	}
	return out
}

// underOrphan reports whether following parents from id ends at an orphan.
func (f *Forest) underOrphan(id NodeID) bool {
	for steps := 0; steps <= len(f.nodes); steps++ {
		parent := f.nodes[id].parent
		if parent == NoNode {
			return f.nodes[id].record.ParentTemplateID != ""
		}
		id = parent
	}
	return false
}

func (f *Forest) valid(id NodeID) bool { return id >= 0 && int(id) < len(f.nodes) }

func walk(roots []NodeID, children func(NodeID) []NodeID, fn func(NodeID, int) bool) {
	type frame struct {
		id    NodeID
		depth int
	}
	stack := make([]frame, 0, len(roots))
	for i := len(roots) - 1; i >= 0; i-- {
		stack = append(stack, frame{roots[i], 0})
	}
	for len(stack) > 0 {
		top := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if !fn(top.id, top.depth) {
			continue
		}
		kids := children(top.id)
		for i := len(kids) - 1; i >= 0; i-- {
			stack = append(stack, frame{kids[i], top.depth + 1})
		}
	}
}
