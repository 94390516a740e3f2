package stats

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"rootforge/internal/diag"
)

const clubs = `new entry "Base_Club"
type "Weapon"
data "Damage" "1d4"
data "WeaponType" "Club"

new entry "Special_Club"
type "Weapon"
using "Base_Club"
data "Damage" "2d4"
`

func TestParse(t *testing.T) {
	t.Run("records in file order", func(t *testing.T) {
		records, err := Parse([]byte(clubs), diag.Discard)
		require.NoError(t, err)
		require.Len(t, records, 2)

		assert.Equal(t, "Base_Club", records[0].EntryID)
		assert.Equal(t, "Weapon", records[0].Kind)
		assert.Equal(t, []Field{{"Damage", "1d4"}, {"WeaponType", "Club"}}, records[0].Fields)
		assert.Empty(t, records[0].Base)
		assert.Equal(t, 1, records[0].Line)

		assert.Equal(t, "Special_Club", records[1].EntryID)
		assert.Equal(t, "Base_Club", records[1].Base)
		assert.Equal(t, []Field{{"Damage", "2d4"}}, records[1].Fields)
		assert.Equal(t, 6, records[1].Line)
	})

	t.Run("repeated key replaces in place", func(t *testing.T) {
		src := "new entry \"A\"\ntype \"Object\"\ndata \"X\" \"1\"\ndata \"Y\" \"2\"\ndata \"X\" \"3\"\n"
		records, err := Parse([]byte(src), diag.Discard)
		require.NoError(t, err)
		require.Len(t, records, 1)
		assert.Equal(t, []Field{{"X", "3"}, {"Y", "2"}}, records[0].Fields)
	})

	t.Run("bare key form and comments", func(t *testing.T) {
		src := "// header\n\n  new entry \"A\"  \n\ttype \"Object\"\nWeight \"0.5\"\n"
		records, err := Parse([]byte(src), diag.Discard)
		require.NoError(t, err)
		require.Len(t, records, 1)
		v, ok := records[0].Get("Weight")
		assert.True(t, ok)
		assert.Equal(t, "0.5", v)
	})

	t.Run("byte order mark", func(t *testing.T) {
		records, err := Parse([]byte("\ufeffnew entry \"A\"\n"), diag.Discard)
		require.NoError(t, err)
		require.Len(t, records, 1)
		assert.Equal(t, "A", records[0].EntryID)
	})

	t.Run("line without pair is skipped with a warning", func(t *testing.T) {
		sink := diag.NewCollector(nil)
		src := "new entry \"A\"\ntype \"Object\"\ndata \"Broken\"\ndata \"Weight\" \"1\"\n"
		records, err := Parse([]byte(src), sink)
		require.NoError(t, err)
		require.Len(t, records, 1)
		assert.Equal(t, []Field{{"Weight", "1"}}, records[0].Fields)
		assert.Equal(t, 1, sink.Count(diag.SeverityWarning))
	})

	t.Run("empty input", func(t *testing.T) {
		records, err := Parse(nil, diag.Discard)
		require.NoError(t, err)
		assert.Empty(t, records)
	})
}

func TestParseErrors(t *testing.T) {
	tests := []struct {
		name string
		src  string
		want error
		line int
	}{
		{"data before entry", "data \"X\" \"1\"\nnew entry \"A\"\n", ErrNoEntry, 1},
		{"type before entry", "type \"Weapon\"\n", ErrNoEntry, 1},
		{"using before entry", "using \"A\"\n", ErrNoEntry, 1},
		{"entry without id", "new entry \"\"\n", ErrMissingID, 1},
		{"forward using", "new entry \"A\"\nusing \"B\"\nnew entry \"B\"\n", ErrUnknownBase, 2},
		{"self using", "new entry \"A\"\nusing \"A\"\n", ErrUnknownBase, 2},
		{"duplicate using", "new entry \"A\"\nnew entry \"B\"\nusing \"A\"\nusing \"A\"\n", ErrDuplicateUsing, 4},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse([]byte(tt.src), diag.Discard)
			require.Error(t, err)
			assert.ErrorIs(t, err, tt.want)

			var syntax *SyntaxError
			require.True(t, errors.As(err, &syntax))
			assert.Equal(t, tt.line, syntax.Line)
		})
	}
}

func TestCutDirective(t *testing.T) {
	rest, ok := cutDirective(`type "Weapon"`, directiveType)
	assert.True(t, ok)
	assert.Equal(t, `"Weapon"`, rest)

	_, ok = cutDirective(`typeface "x"`, directiveType)
	assert.False(t, ok)

	_, ok = cutDirective(`usingX "y"`, directiveUsing)
	assert.False(t, ok)
}
