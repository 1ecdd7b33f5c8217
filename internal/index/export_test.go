package index

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const seededExportMap = "module.exports = {\n" +
	"\tAdmin: require('./Admin'),\n" +
	"\tUser: require('./User'),\n" +
	"};\n"

func TestExportMap_EncodeSeed(t *testing.T) {
	m := NewExportMap(SortByKey, "User", "Admin")
	assert.Equal(t, seededExportMap, m.Encode())
}

func TestExportMap_AddSortsBetweenWrappers(t *testing.T) {
	m, err := DecodeExportMap(seededExportMap, SortByKey)
	require.NoError(t, err)

	require.True(t, m.Add("Post"))

	want := "module.exports = {\n" +
		"\tAdmin: require('./Admin'),\n" +
		"\tPost: require('./Post'),\n" +
		"\tUser: require('./User'),\n" +
		"};\n"
	assert.Equal(t, want, m.Encode())
}

func TestExportMap_AddDuplicate(t *testing.T) {
	m := NewExportMap(SortByKey, "Post")
	before := m.Encode()

	assert.False(t, m.Add("Post"))
	assert.Equal(t, before, m.Encode())
}

func TestExportMap_RemoveExactName(t *testing.T) {
	m := NewExportMap(SortByKey, "Car", "Cart", "Scar")

	assert.True(t, m.Remove("Car"))
	assert.Equal(t, []string{"Cart", "Scar"}, m.Names())

	assert.False(t, m.Remove("Car"), "second removal is a no-op")
	assert.Equal(t, []string{"Cart", "Scar"}, m.Names())
}

func TestExportMap_AddRemoveRestoresBytes(t *testing.T) {
	m, err := DecodeExportMap(seededExportMap, SortByKey)
	require.NoError(t, err)

	require.True(t, m.Add("Post"))
	require.True(t, m.Remove("Post"))
	assert.Equal(t, seededExportMap, m.Encode())
}

func TestExportMap_RoundTripIsStable(t *testing.T) {
	for _, mode := range []SortMode{SortByKey, SortByLine} {
		t.Run(string(mode), func(t *testing.T) {
			m := NewExportMap(mode, "Zebra", "Item2", "Item", "Admin", "User")
			first := m.Encode()

			decoded, err := DecodeExportMap(first, mode)
			require.NoError(t, err)
			assert.Equal(t, first, decoded.Encode())
		})
	}
}

func TestExportMap_SortModes(t *testing.T) {
	// ':' sorts after digits, so raw-line order puts Item2 before Item.
	byKey := NewExportMap(SortByKey, "Item", "Item2")
	assert.Equal(t, []string{"Item", "Item2"}, byKey.Names())

	byLine := NewExportMap(SortByLine, "Item", "Item2")
	assert.Equal(t, []string{"Item2", "Item"}, byLine.Names())
}

func TestDecodeExportMap_Tolerant(t *testing.T) {
	tests := []struct {
		name string
		text string
		want []string
	}{
		{"empty map", "module.exports = {\n};\n", []string{}},
		{"legacy close and no trailing newline", "module.exports = {\n\tUser: require('./User'),\n}", []string{"User"}},
		{"blank lines and CRLF", "module.exports = {\r\n\r\n  Post: require(\"./Post\"),\r\n\r\n};\r\n", []string{"Post"}},
		{"missing trailing comma", "module.exports = {\n\tPost: require('./Post')\n};", []string{"Post"}},
		{"duplicate collapses", "module.exports = {\n\tPost: require('./Post'),\n\tPost: require('./Post'),\n};", []string{"Post"}},
		{"unsorted input is sorted", "module.exports = {\n\tUser: require('./User'),\n\tAdmin: require('./Admin'),\n};", []string{"Admin", "User"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m, err := DecodeExportMap(tt.text, SortByKey)
			require.NoError(t, err)
			assert.Equal(t, tt.want, m.Names())
		})
	}
}

func TestDecodeExportMap_Corrupt(t *testing.T) {
	tests := []struct {
		name     string
		text     string
		wantLine int
	}{
		{"empty file", "", 0},
		{"bad open", "exports = {\n};\n", 1},
		{"bad close", "module.exports = {\n\tUser: require('./User'),\n", 2},
		{"stray line", "module.exports = {\n\tUser: require('./User'),\n\tconsole.log('hi');\n};\n", 3},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := DecodeExportMap(tt.text, SortByKey)
			require.Error(t, err)

			var pe *ParseError
			require.ErrorAs(t, err, &pe)
			assert.Equal(t, tt.wantLine, pe.Line)
		})
	}
}

func TestExportMap_KeepsCustomModule(t *testing.T) {
	text := "module.exports = {\n\tPost: require('./BlogPost'),\n};\n"
	m, err := DecodeExportMap(text, SortByKey)
	require.NoError(t, err)

	assert.Equal(t, []ExportEntry{{Name: "Post", Module: "BlogPost"}}, m.Entries())
	assert.Equal(t, text, m.Encode())
}

func TestParseSortMode(t *testing.T) {
	mode, err := ParseSortMode("")
	require.NoError(t, err)
	assert.Equal(t, SortByKey, mode)

	mode, err = ParseSortMode("LINE")
	require.NoError(t, err)
	assert.Equal(t, SortByLine, mode)

	_, err = ParseSortMode("random")
	assert.Error(t, err)
}
