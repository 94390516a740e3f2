package forest

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"rootforge/internal/diag"
	"rootforge/internal/templates"
)

func rec(key, parent, name string) templates.Record {
	return templates.Record{MapKey: key, ParentTemplateID: parent, Name: name, Type: templates.TypeItem}
}

func names(f *Forest, ids []NodeID) []string {
	out := make([]string, len(ids))
	for i, id := range ids {
		out[i] = f.Record(id).Name
	}
	return out
}

func TestAssembleIconCascade(t *testing.T) {
	a := rec("A", "", "a")
	a.Icon = "icon1"
	b := rec("B", "A", "b")

	f := Assemble([]templates.Record{a, b}, Options{}, diag.Discard)
	id, ok := f.Lookup("B")
	require.True(t, ok)
	assert.Equal(t, "icon1", f.Record(id).Icon)
}

func TestAssembleLinksCaseInsensitively(t *testing.T) {
	f := Assemble([]templates.Record{
		rec("abc-1", "", "root"),
		rec("abc-2", "ABC-1", "child"),
		rec("abc-3", "Abc-2", "grandchild"),
	}, Options{}, diag.Discard)

	roots := f.Roots()
	require.Len(t, roots, 1)
	kids := f.Children(roots[0])
	require.Len(t, kids, 1)
	assert.Equal(t, []string{"grandchild"}, names(f, f.Children(kids[0])))

	parent, ok := f.Parent(kids[0])
	assert.True(t, ok)
	assert.Equal(t, roots[0], parent)

	_, ok = f.Lookup("ABC-3")
	assert.True(t, ok)
}

func TestAssembleRootsSortedByName(t *testing.T) {
	f := Assemble([]templates.Record{
		rec("1", "", "beta"),
		rec("2", "", "Alpha"),
		rec("3", "", "alpha"),
		rec("4", "", "Beta"),
	}, Options{}, diag.Discard)
	assert.Equal(t, []string{"Alpha", "Beta", "alpha", "beta"}, names(f, f.Roots()))
}

func TestAssembleDuplicateKeyLastWins(t *testing.T) {
	first := rec("K", "", "first")
	first.PakOrigin = "Shared"
	second := rec("k", "", "second")
	second.PakOrigin = "Gustav"

	sink := diag.NewCollector(nil)
	f := Assemble([]templates.Record{first, second}, Options{}, sink)

	assert.Equal(t, 1, f.Len())
	id, ok := f.Lookup("K")
	require.True(t, ok)
	assert.Equal(t, "second", f.Record(id).Name)
	assert.Equal(t, []string{"second"}, names(f, f.Roots()))

	displaced := f.Displaced()
	require.Len(t, displaced, 1)
	assert.Equal(t, "first", displaced[0].Name)
	assert.Equal(t, 1, sink.Count(diag.SeverityWarning))
}

func TestAssembleUnresolvedParent(t *testing.T) {
	records := []templates.Record{
		rec("A", "", "a"),
		rec("B", "missing", "b"),
		rec("C", "B", "c"),
	}

	t.Run("dropped by default", func(t *testing.T) {
		sink := diag.NewCollector(nil)
		f := Assemble(records, Options{}, sink)

		var reachable []string
		f.Walk(func(id NodeID, _ int) bool {
			reachable = append(reachable, f.Record(id).Name)
			return true
		})
		assert.Equal(t, []string{"a"}, reachable)

		_, indexed := f.Lookup("B")
		assert.True(t, indexed, "orphans stay in the key index")
		require.Len(t, f.Orphans(), 1)
		assert.Equal(t, "b", f.Orphans()[0].Name)
		assert.Equal(t, 1, sink.Count(diag.SeverityWarning))
		assert.Empty(t, f.Unreachable())
	})

	t.Run("promoted", func(t *testing.T) {
		f := Assemble(records, Options{Orphans: PromoteOrphans}, diag.Discard)
		assert.Equal(t, []string{"a", "b"}, names(f, f.Roots()))
		id, _ := f.Lookup("B")
		assert.Equal(t, []string{"c"}, names(f, f.Children(id)))
	})
}

func TestAssembleCycleIsUnreachable(t *testing.T) {
	f := Assemble([]templates.Record{
		rec("R", "", "root"),
		rec("X", "Y", "x"),
		rec("Y", "X", "y"),
		rec("Z", "Z", "self"),
	}, Options{}, diag.Discard)

	assert.Equal(t, []string{"root"}, names(f, f.Roots()))
	assert.ElementsMatch(t, []string{"x", "y", "self"}, names(f, f.Unreachable()))
	assert.Empty(t, f.Orphans())
}

func TestCascade(t *testing.T) {
	root := rec("R", "", "root")
	root.StatsRef = "WPN_Base"
	root.Icon = "root_icon"
	root.CharacterVisualResourceID = "cv-root"
	root.VisualTemplate = "vt-root"

	mid := rec("M", "R", "mid")
	mid.StatsRef = "WPN_Mid"

	leaf := rec("L", "M", "leaf")
	own := rec("O", "M", "own")
	own.StatsRef = "WPN_Own"
	own.Icon = "own_icon"

	f := Assemble([]templates.Record{leaf, own, mid, root}, Options{}, diag.Discard)

	get := func(key string) templates.Record {
		id, ok := f.Lookup(key)
		require.True(t, ok)
		return f.Record(id)
	}

	assert.Equal(t, "WPN_Mid", get("M").StatsRef, "child keeps its own value")
	assert.Equal(t, "root_icon", get("M").Icon)
	assert.Equal(t, "WPN_Mid", get("L").StatsRef, "nearest ancestor wins")
	assert.Equal(t, "root_icon", get("L").Icon)
	assert.Equal(t, "cv-root", get("L").CharacterVisualResourceID)
	assert.Equal(t, "vt-root", get("L").VisualTemplate)
	assert.Equal(t, "WPN_Own", get("O").StatsRef)
	assert.Equal(t, "own_icon", get("O").Icon)

	before := make(map[string]templates.Record)
	for _, key := range []string{"R", "M", "L", "O"} {
		before[key] = get(key)
	}
	assert.Zero(t, f.Cascade(), "second cascade changes nothing")
	for key, want := range before {
		assert.Equal(t, want, get(key))
	}
}

func TestWalkOrderAndSkip(t *testing.T) {
	f := Assemble([]templates.Record{
		rec("R", "", "root"),
		rec("A", "R", "a"),
		rec("A1", "A", "a1"),
		rec("B", "R", "b"),
	}, Options{}, diag.Discard)

	var visited []string
	var depths []int
	f.Walk(func(id NodeID, depth int) bool {
		visited = append(visited, f.Record(id).Name)
		depths = append(depths, depth)
		return f.Record(id).Name != "a"
	})
	assert.Equal(t, []string{"root", "a", "b"}, visited)
	assert.Equal(t, []int{0, 1, 1}, depths)
}

func TestInvalidIDs(t *testing.T) {
	f := Assemble(nil, Options{}, diag.Discard)
	assert.Zero(t, f.Len())
	assert.Nil(t, f.Children(3))
	assert.Equal(t, templates.Record{}, f.Record(-1))
	_, ok := f.Parent(0)
	assert.False(t, ok)
}
