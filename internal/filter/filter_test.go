package filter

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/02loveslollipop/guardian-views/internal/models"
	"github.com/02loveslollipop/guardian-views/internal/testhelpers"
)

func TestUnwantedKeys(t *testing.T) {
	rows := testhelpers.MapeoRows()

	result := UnwantedKeys(rows, nil, "p__activity,p__aeroway", "p__")

	require.Len(t, result, len(rows))
	for _, r := range result {
		for _, key := range r.Keys() {
			assert.False(t, strings.Contains(key, "p__"), "unexpected key %q", key)
		}
		assert.Equal(t, []string{"_id", "g__type", "g__coordinates"}, r.Keys())
	}

	// source rows stay intact
	assert.True(t, rows[0].Has("p__activity"))
}

func TestUnwantedKeysIsIdempotent(t *testing.T) {
	once := UnwantedKeys(testhelpers.MapeoRows(), nil, "p__notes", "aero")
	twice := UnwantedKeys(once, nil, "p__notes", "aero")
	assert.Equal(t, once, twice)
}

func TestUnwantedKeysWithMapping(t *testing.T) {
	rows := []models.Row{
		models.NewRow("col_a", "1", "col_b", "2", "col_c", "3", "extra", "x"),
	}
	mapping := []models.ColumnMapping{
		{OriginalColumn: "Name", SQLColumn: "col_a"},
		{OriginalColumn: "Secret Notes", SQLColumn: "col_b"},
		{OriginalColumn: "Village", SQLColumn: "col_c"},
	}

	result := UnwantedKeys(rows, mapping, "Village", "Secret")

	require.Len(t, result, 1)
	assert.Equal(t, []string{"col_a"}, result[0].Keys())
}

func TestUnwantedKeysEmptyLists(t *testing.T) {
	rows := testhelpers.MapeoRows()
	result := UnwantedKeys(rows, nil, "", "")
	assert.Equal(t, rows[0].Keys(), result[0].Keys())

	assert.Empty(t, UnwantedKeys(nil, nil, "a", "b"))
}

func TestUnwantedValues(t *testing.T) {
	rows := testhelpers.MapeoRows()

	result := UnwantedValues(rows, "p__categoryid", "building,house")

	require.Len(t, result, 2)
	for _, r := range result {
		for _, key := range r.Keys() {
			v := r.Value(key)
			assert.NotEqual(t, "building", v)
			assert.NotEqual(t, "house", v)
		}
	}
}

func TestUnwantedValuesMissingArguments(t *testing.T) {
	rows := testhelpers.MapeoRows()
	assert.Len(t, UnwantedValues(rows, "", "house"), 3)
	assert.Len(t, UnwantedValues(rows, "p__categoryid", ""), 3)
}

func TestGeoData(t *testing.T) {
	result := GeoData(testhelpers.MapeoRows())

	// only two of the three rows are located
	require.Len(t, result, 2)
	assert.Equal(t, "f0e1d2c3b4a59687", result[0].Text("_id"))
	assert.Equal(t, "e9f8a7b6c5d4e3f2", result[1].Text("_id"))
}

func TestByExtension(t *testing.T) {
	result := ByExtension(testhelpers.MapeoRows(), models.DefaultAllowedFileExtensions())

	// only the first row has attachments
	require.Len(t, result, 1)
	assert.Equal(t, "a1b2c3d4e5f6g7h8", result[0].Text("_id"))
}

func TestByExtensionIgnoresCase(t *testing.T) {
	rows := []models.Row{
		models.NewRow("photo", "photo.JPG"),
		models.NewRow("photo", "photo.gif"),
		models.NewRow("size", 12.0),
	}
	ext := models.AllowedFileExtensions{Image: []string{"jpg"}}

	result := ByExtension(rows, ext)
	require.Len(t, result, 1)
	assert.Equal(t, "photo.JPG", result[0].Text("photo"))
}

func TestSplitCSV(t *testing.T) {
	assert.Nil(t, SplitCSV(""))
	assert.Equal(t, []string{"a", "b"}, SplitCSV("a,b"))
}
