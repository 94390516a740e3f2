package ingest

import (
	"context"
	"errors"
	"testing"
	"testing/fstest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"rootforge/internal/config"
	"rootforge/internal/diag"
	ingestmock "rootforge/internal/ingest/mock"
	"rootforge/internal/stats"
	"rootforge/internal/templates"
)

const weaponStats = `new entry "Base_Club"
type "Weapon"
data "Damage" "1d4"
data "WeaponType" "Club"

new entry "Special_Club"
type "Weapon"
using "Base_Club"
data "Damage" "2d4"
`

const gustavStats = `new entry "Special_Club"
type "Weapon"
data "Damage" "3d4"
data "WeaponType" "Club"
`

const english = `<contentList>
<content contentuid="h0001" version="1">Club</content>
<content contentuid="h0002" version="1">Spiked Club</content>
</contentList>`

func templateDoc(objects string) string {
	return `<save><region id="Templates"><node id="Templates"><children>` + objects + `</children></node></region></save>`
}

func object(key, parent, name, typ, extra string) string {
	out := `<node id="GameObjects">` +
		`<attribute id="MapKey" value="` + key + `"/>` +
		`<attribute id="Name" value="` + name + `"/>` +
		`<attribute id="Type" value="` + typ + `"/>`
	if parent != "" {
		out += `<attribute id="ParentTemplateId" value="` + parent + `"/>`
	}
	return out + extra + `</node>`
}

func testFS() fstest.MapFS {
	return fstest.MapFS{
		"English/english.xml":         {Data: []byte(english)},
		"Shared/Stats/Weapon.txt":     {Data: []byte(weaponStats)},
		"Shared/Stats/README.md":      {Data: []byte("not a stat file")},
		"Shared/Stats/Unused/Old.txt": {Data: []byte("garbage before entry")},
		"Shared/RootTemplates/Items.lsx": {Data: []byte(templateDoc(
			object("A", "", "WPN_Club", "item",
				`<attribute id="Stats" value="Base_Club"/><attribute id="Icon" value="icon1"/><attribute id="DisplayName" handle="h0001"/>`) +
				object("B", "a", "WPN_Club_Spiked", "item", `<attribute id="DisplayName" handle="h0002"/>`) +
				object("C", "missing", "Lost", "item", ""),
		))},
		"Gustav/Stats/Weapon.txt": {Data: []byte(gustavStats)},
		"Gustav/RootTemplates/Scenery.lsx": {Data: []byte(templateDoc(
			object("T", "", "Tree", "scenery", ""),
		))},
	}
}

func testConfig() *config.ProjectConfig {
	return &config.ProjectConfig{
		Project: "test",
		Version: 1,
		Sources: []config.Source{
			{
				Name:         "Shared",
				Stats:        []string{"./Shared/Stats/"},
				Templates:    []string{"./Shared/RootTemplates"},
				Localization: []string{"English"},
			},
			{
				Name:      "Gustav",
				Stats:     []string{"Gustav/Stats"},
				Templates: []string{"Gustav/RootTemplates"},
			},
		},
		Exclude: []string{"./Shared/Stats/Unused"},
		Workers: 2,
	}
}

func TestLoad(t *testing.T) {
	sink := diag.NewCollector(nil)
	idx, result, err := Load(context.Background(), testConfig(), Options{FS: testFS(), Sink: sink})
	require.NoError(t, err)
	require.NoError(t, result.Err())
	assert.False(t, result.FromSnapshot)

	var paths []string
	for _, f := range result.Files {
		paths = append(paths, f.Path)
		assert.Len(t, f.Digest, 64, f.Path)
	}
	assert.Equal(t, []string{
		"English/english.xml",
		"Shared/Stats/Weapon.txt",
		"Shared/RootTemplates/Items.lsx",
		"Gustav/Stats/Weapon.txt",
		"Gustav/RootTemplates/Scenery.lsx",
	}, paths)
	assert.Equal(t, 2, result.Files[1].Records)
	assert.Equal(t, 3, result.Files[2].Records)

	assert.Equal(t, []string{"Base_Club", "Special_Club"}, idx.StatIDs())
	special, ok := idx.Stat("Special_Club")
	require.True(t, ok)
	assert.Equal(t, stats.StringValue(stats.TypeFixedString, "3d4"), special.Fields["Damage"], "later source wins")
	assert.Empty(t, special.Using)
	assert.Equal(t, "Gustav/Stats/Weapon.txt", idx.StatOrigin("Special_Club"))

	assert.Equal(t, 2, len(idx.Forest.Roots()))
	b, ok := idx.Forest.Lookup("B")
	require.True(t, ok)
	rec := idx.Forest.Record(b)
	assert.Equal(t, "icon1", rec.Icon)
	assert.Equal(t, "Spiked Club", rec.DisplayName)
	assert.Equal(t, "Shared", rec.PakOrigin)

	base, ok := idx.StatsFor(b)
	require.True(t, ok, "cascaded stats reference resolves")
	assert.Equal(t, "Base_Club", base.EntryID)

	require.Len(t, idx.Forest.Orphans(), 1)
	assert.Equal(t, "Lost", idx.Forest.Orphans()[0].Name)

	var warnings []string
	for _, e := range sink.Entries() {
		if e.Severity == diag.SeverityWarning {
			warnings = append(warnings, e.Message)
		}
	}
	assert.Len(t, warnings, 2, "stat override and orphan")
}

func TestLoadPromotesOrphans(t *testing.T) {
	cfg := testConfig()
	cfg.Assembly.Orphans = config.OrphansPromote
	idx, _, err := Load(context.Background(), cfg, Options{FS: testFS()})
	require.NoError(t, err)

	var names []string
	for _, id := range idx.Forest.Roots() {
		names = append(names, idx.Forest.Record(id).Name)
	}
	assert.Equal(t, []string{"Lost", "Tree", "WPN_Club"}, names)
}

func TestLoadFailingFilesAreIsolated(t *testing.T) {
	fsys := testFS()
	fsys["Gustav/Stats/Broken.txt"] = &fstest.MapFile{Data: []byte("new entry \"X\"\ntype \"Armor\"\n")}
	fsys["Gustav/RootTemplates/Broken.lsx"] = &fstest.MapFile{Data: []byte(templateDoc(object("Z", "", "Ship", "spaceship", "")))}
	fsys["Gustav/RootTemplates/Truncated.lsx"] = &fstest.MapFile{Data: []byte("<save><region>")}

	idx, result, err := Load(context.Background(), testConfig(), Options{FS: fsys})
	require.NoError(t, err)

	failed := result.Failed()
	require.Len(t, failed, 3)
	assert.ErrorIs(t, failed[0].Err, stats.ErrUnknownKind)
	assert.ErrorIs(t, failed[1].Err, templates.ErrUnknownType)
	var decodeErr *templates.DecodeError
	assert.True(t, errors.As(failed[2].Err, &decodeErr))
	assert.Error(t, result.Err())

	_, ok := idx.Stat("X")
	assert.False(t, ok)
	_, ok = idx.Forest.Lookup("Z")
	assert.False(t, ok)
	_, ok = idx.Forest.Lookup("T")
	assert.True(t, ok, "sibling file still loads")
	_, ok = idx.Stat("Special_Club")
	assert.True(t, ok)
}

func TestLoadReadErrors(t *testing.T) {
	ctrl := gomock.NewController(t)
	reader := ingestmock.NewMockFileReader(ctrl)

	fsys := testFS()
	for name, file := range fsys {
		if name == "Gustav/Stats/Weapon.txt" {
			reader.EXPECT().ReadFile(name).Return(nil, errors.New("disk on fire"))
			continue
		}
		reader.EXPECT().ReadFile(name).Return(file.Data, nil).MaxTimes(1)
	}

	idx, result, err := Load(context.Background(), testConfig(), Options{FS: fsys, Reader: reader})
	require.NoError(t, err)

	failed := result.Failed()
	require.Len(t, failed, 1)
	assert.Equal(t, "Gustav/Stats/Weapon.txt", failed[0].Path)
	assert.Empty(t, failed[0].Digest)

	special, ok := idx.Stat("Special_Club")
	require.True(t, ok)
	assert.Equal(t, "Base_Club", special.Using, "Shared definition survives")
}

func TestLoadCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	idx, result, err := Load(ctx, testConfig(), Options{FS: testFS()})
	assert.ErrorIs(t, err, context.Canceled)
	assert.Nil(t, idx)
	assert.Nil(t, result)
}

func TestLoadMissingRoot(t *testing.T) {
	cfg := testConfig()
	cfg.Sources[1].Stats = []string{"Nowhere"}
	_, _, err := Load(context.Background(), cfg, Options{FS: testFS()})
	assert.Error(t, err)
}

func TestLoadFromSnapshot(t *testing.T) {
	fsys := testFS()
	first, _, err := Load(context.Background(), testConfig(), Options{FS: fsys})
	require.NoError(t, err)
	snap := first.Snapshot()

	second, result, err := Load(context.Background(), testConfig(), Options{FS: fsys, Snapshot: snap})
	require.NoError(t, err)
	assert.True(t, result.FromSnapshot)
	assert.Equal(t, first.StatIDs(), second.StatIDs())
	assert.Equal(t, first.Templates(), second.Templates())
	assert.Equal(t, first.Forest.Len(), second.Forest.Len())

	special, ok := second.Stat("Special_Club")
	require.True(t, ok)
	assert.Equal(t, stats.StringValue(stats.TypeFixedString, "3d4"), special.Fields["Damage"])

	fsys["Gustav/Stats/Weapon.txt"] = &fstest.MapFile{Data: []byte(gustavStats + "\n// edited\n")}
	_, result, err = Load(context.Background(), testConfig(), Options{FS: fsys, Snapshot: snap})
	require.NoError(t, err)
	assert.False(t, result.FromSnapshot)
}

func TestListFilesExclusions(t *testing.T) {
	files, err := listFiles(testFS(), testConfig())
	require.NoError(t, err)
	for _, f := range files {
		assert.NotContains(t, f.path, "Unused")
		assert.NotContains(t, f.path, "README")
	}
}

func TestCleanPath(t *testing.T) {
	assert.Equal(t, "Shared/Stats", cleanPath("./Shared/Stats/"))
	assert.Equal(t, "Shared/Stats", cleanPath(`Shared\Stats`))
	assert.Equal(t, ".", cleanPath("./"))
	assert.Equal(t, "abs", cleanPath("/abs"))
}
