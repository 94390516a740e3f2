package forest

import (
	"strings"

	"github.com/junegunn/fzf/src/algo"
	"github.com/junegunn/fzf/src/util"

	"rootforge/internal/templates"
)

// Matcher tests one text field of a template.
type Matcher func(text string) bool

// ContainsFold matches text containing query, ignoring case. An empty query
// matches every field, empty ones included.
func ContainsFold(query string) Matcher {
	q := strings.ToLower(query)
	return func(text string) bool {
		return strings.Contains(strings.ToLower(text), q)
	}
}

// Fuzzy matches text containing the runes of query in order, as fzf does.
// The returned matcher reuses a scratch slab and must not be shared between
// goroutines.
func Fuzzy(query string) Matcher {
	pattern := []rune(strings.ToLower(query))
	slab := util.MakeSlab(100*1024, 2048)
	return func(text string) bool {
		if len(pattern) == 0 {
			return true
		}
		if text == "" {
			return false
		}
		chars := util.ToChars([]byte(text))
		result, _ := algo.FuzzyMatchV2(false, false, true, &chars, pattern, false, slab)
		return result.Start >= 0
	}
}

// View is a filtered forest. It shares the source arena; only nodes that
// lost children carry their own child list.
type View struct {
	forest   *Forest
	roots    []NodeID
	children map[NodeID][]NodeID
	size     int
}

// Search keeps every node that matches or has a matching descendant. The
// forest is not modified.
func Search(f *Forest, m Matcher) *View {
	v := &View{forest: f, children: make(map[NodeID][]NodeID)}
	for _, root := range f.roots {
		if v.keep(root, m) {
			v.roots = append(v.roots, root)
		}
	}
	return v
}

func (v *View) keep(id NodeID, m Matcher) bool {
	source := v.forest.nodes[id].children
	var kept []NodeID
	for _, child := range source {
		if v.keep(child, m) {
			kept = append(kept, child)
		}
	}
	if len(kept) == 0 && !matches(&v.forest.nodes[id].record, m) {
		return false
	}
	if len(kept) != len(source) {
		v.children[id] = kept
	}
	v.size++
	return true
}

func matches(rec *templates.Record, m Matcher) bool {
	for _, text := range [...]string{
		rec.Name,
		rec.MapKey,
		rec.ParentTemplateID,
		rec.DisplayName,
		rec.Description,
		rec.Icon,
		rec.StatsRef,
	} {
		if m(text) {
			return true
		}
	}
	return false
}

// Forest returns the arena the view reads from.
func (v *View) Forest() *Forest { return v.forest }

func (v *View) Roots() []NodeID { return append([]NodeID(nil), v.roots...) }

// Children returns the kept children of id.
func (v *View) Children(id NodeID) []NodeID {
	return append([]NodeID(nil), v.childrenOf(id)...)
}

func (v *View) childrenOf(id NodeID) []NodeID {
	if kept, ok := v.children[id]; ok {
		return kept
	}
	return v.forest.nodes[id].children
}

// Len is the number of kept nodes.
func (v *View) Len() int { return v.size }

// Walk visits kept nodes depth first, parents before children.
func (v *View) Walk(fn func(id NodeID, depth int) bool) {
	walk(v.roots, v.childrenOf, fn)
}
