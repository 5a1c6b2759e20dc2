package db

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/02loveslollipop/guardian-views/internal/models"
	"github.com/02loveslollipop/guardian-views/internal/testhelpers"
)

func TestStoreFetchData(t *testing.T) {
	tdb := testhelpers.GetTestDB(t)
	ctx := context.Background()

	_, err := tdb.Pool.Exec(ctx, `
		DROP TABLE IF EXISTS survey_fetch, survey_fetch__columns, survey_fetch__metadata;
		CREATE TABLE survey_fetch (_id TEXT, g__type TEXT, area NUMERIC, year INT, p__photos TEXT);
		INSERT INTO survey_fetch VALUES ('abc', 'Point', 3.37, 2024, NULL);
		CREATE TABLE survey_fetch__columns (original_column TEXT, sql_column TEXT);
		INSERT INTO survey_fetch__columns VALUES ('p__photos', 'p__photos');
	`)
	require.NoError(t, err)

	store := NewFromPool(tdb.Pool)

	data, err := store.FetchData(ctx, "survey_fetch")
	require.NoError(t, err)

	require.Len(t, data.MainData, 1)
	row := data.MainData[0]
	assert.Equal(t, []string{"_id", "g__type", "area", "year", "p__photos"}, row.Keys())
	assert.Equal(t, "abc", row.Value("_id"))
	assert.Equal(t, 3.37, row.Value("area"))
	assert.Equal(t, float64(2024), row.Value("year"))
	assert.Nil(t, row.Value("p__photos"))

	assert.Equal(t, []models.ColumnMapping{{OriginalColumn: "p__photos", SQLColumn: "p__photos"}}, data.ColumnsData)
	assert.Nil(t, data.Metadata)
}

func TestStoreFetchDataMissingTable(t *testing.T) {
	tdb := testhelpers.GetTestDB(t)

	_, err := NewFromPool(tdb.Pool).FetchData(context.Background(), "does_not_exist")
	assert.ErrorIs(t, err, ErrTableNotFound)
}

func TestStoreFetchTableNames(t *testing.T) {
	tdb := testhelpers.GetTestDB(t)
	ctx := context.Background()

	_, err := tdb.Pool.Exec(ctx, `
		CREATE TABLE IF NOT EXISTS names_alerts (_id TEXT);
		CREATE TABLE IF NOT EXISTS names_alerts__metadata (month INT);
	`)
	require.NoError(t, err)

	names, err := NewFromPool(tdb.Pool).FetchTableNames(ctx)
	require.NoError(t, err)

	assert.Contains(t, names, "names_alerts")
	assert.NotContains(t, names, "names_alerts__metadata")
}

func TestConfigStoreLifecycle(t *testing.T) {
	tdb := testhelpers.GetTestDB(t)
	ctx := context.Background()

	_, err := tdb.Pool.Exec(ctx, `DROP TABLE IF EXISTS config`)
	require.NoError(t, err)

	cs := NewConfigStoreFromPool(tdb.Pool)

	cfg, err := cs.FetchConfig(ctx)
	require.NoError(t, err)
	assert.Empty(t, cfg)

	require.NoError(t, cs.AddNewTable(ctx, "fake_alerts"))
	require.NoError(t, cs.AddNewTables(ctx, []string{"fake_alerts", "mapeo_data"}))

	vc, err := models.ParseViewConfig(`{"VIEWS":"map,alerts","MAPBOX_ZOOM":5}`)
	require.NoError(t, err)
	require.NoError(t, cs.UpdateConfig(ctx, "fake_alerts", vc))

	_, err = tdb.Pool.Exec(ctx, `INSERT INTO config VALUES ('broken', 'not json')`)
	require.NoError(t, err)

	cfg, err = cs.FetchConfig(ctx)
	require.NoError(t, err)
	require.Len(t, cfg, 2)
	assert.True(t, cfg["fake_alerts"].Enabled(models.ViewAlerts))
	assert.Equal(t, "5", cfg["fake_alerts"].MapboxZoom.String())
	assert.False(t, cfg["mapeo_data"].Active())

	require.NoError(t, cs.RemoveTable(ctx, "mapeo_data"))
	cfg, err = cs.FetchConfig(ctx)
	require.NoError(t, err)
	assert.NotContains(t, cfg, "mapeo_data")
}
