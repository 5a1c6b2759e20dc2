package main

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/02loveslollipop/guardian-views/internal/models"
)

type fakeLister struct {
	names []string
	err   error
}

func (f fakeLister) FetchTableNames(_ context.Context) ([]string, error) {
	return f.names, f.err
}

type fakeRegistry struct {
	cfgs  map[string]models.ViewConfig
	added []string
	err   error
}

func (f *fakeRegistry) FetchConfig(_ context.Context) (map[string]models.ViewConfig, error) {
	return f.cfgs, nil
}

func (f *fakeRegistry) AddNewTables(_ context.Context, tables []string) error {
	if f.err != nil {
		return f.err
	}
	f.added = append(f.added, tables...)
	return nil
}

func TestPendingTables(t *testing.T) {
	cfgs := map[string]models.ViewConfig{"fake_alerts": {}}

	got := pendingTables([]string{"mapeo_data", "fake_alerts", "bcmform_responses"}, cfgs)

	assert.Equal(t, []string{"bcmform_responses", "mapeo_data"}, got)
}

func TestSyncTables(t *testing.T) {
	tests := []struct {
		name      string
		dryRun    bool
		wantAdded []string
	}{
		{name: "registers pending tables", wantAdded: []string{"bcmform_responses", "mapeo_data"}},
		{name: "dry run writes nothing", dryRun: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			lister := fakeLister{names: []string{"mapeo_data", "fake_alerts", "bcmform_responses"}}
			reg := &fakeRegistry{cfgs: map[string]models.ViewConfig{"fake_alerts": {}}}

			res, err := syncTables(context.Background(), lister, reg, tt.dryRun)
			require.NoError(t, err)

			assert.Equal(t, 3, res.Warehouse)
			assert.Equal(t, 1, res.Configured)
			assert.Equal(t, []string{"bcmform_responses", "mapeo_data"}, res.Pending)
			assert.Equal(t, tt.wantAdded, reg.added)
		})
	}
}

func TestSyncTablesNothingPending(t *testing.T) {
	reg := &fakeRegistry{cfgs: map[string]models.ViewConfig{"mapeo_data": {}}}

	res, err := syncTables(context.Background(), fakeLister{names: []string{"mapeo_data"}}, reg, false)
	require.NoError(t, err)

	assert.Empty(t, res.Pending)
	assert.Nil(t, reg.added)
}

func TestSyncTablesErrors(t *testing.T) {
	_, err := syncTables(context.Background(), fakeLister{err: errors.New("boom")}, &fakeRegistry{}, false)
	assert.ErrorContains(t, err, "list warehouse tables")

	reg := &fakeRegistry{cfgs: map[string]models.ViewConfig{}, err: errors.New("insert failed")}
	_, err = syncTables(context.Background(), fakeLister{names: []string{"mapeo_data"}}, reg, false)
	assert.ErrorContains(t, err, "register tables")
}
