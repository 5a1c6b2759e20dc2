package db

import (
	"math"
	"math/big"
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgtype"
	"github.com/stretchr/testify/assert"

	"github.com/02loveslollipop/guardian-views/internal/models"
)

func TestNormalizeValue(t *testing.T) {
	id := [16]byte{0x12, 0x34, 0x56, 0x78, 0x9a, 0xbc, 0xde, 0xf0, 0x12, 0x34, 0x56, 0x78, 0x9a, 0xbc, 0xde, 0xf0}

	tests := []struct {
		name string
		in   any
		want any
	}{
		{"nil", nil, nil},
		{"string", "forest", "forest"},
		{"int32", int32(7), float64(7)},
		{"int64", int64(2024), float64(2024)},
		{"float32", float32(1.5), float64(1.5)},
		{"bool", true, "true"},
		{"bytes", []byte("raw"), "raw"},
		{"timestamp", time.Date(2024, 1, 15, 10, 30, 0, 0, time.UTC), "2024-01-15T10:30:00.000Z"},
		{"numeric", pgtype.Numeric{Int: big.NewInt(337), Exp: -2, Valid: true}, 3.37},
		{"null numeric", pgtype.Numeric{}, nil},
		{"nan float", math.NaN(), nil},
		{"infinite float", math.Inf(1), nil},
		{"nan float32", float32(math.NaN()), nil},
		{"nan numeric", pgtype.Numeric{NaN: true, Valid: true}, nil},
		{"infinite numeric", pgtype.Numeric{InfinityModifier: pgtype.NegativeInfinity, Valid: true}, nil},
		{"uuid", id, "12345678-9abc-def0-1234-56789abcdef0"},
		{"array", []any{int32(1), "b", nil}, []any{float64(1), "b", nil}},
		{"json object", map[string]any{"a": float64(1)}, `{"a":1}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, normalizeValue(tt.in))
		})
	}
}

func TestColumnMappings(t *testing.T) {
	rows := []models.Row{
		models.NewRow("original_column", "p__photos", "sql_column", "p__photos"),
		models.NewRow("original_column", "g__coordinates", "sql_column", "g__coordinates"),
	}

	got := columnMappings(rows)

	assert.Equal(t, []models.ColumnMapping{
		{OriginalColumn: "p__photos", SQLColumn: "p__photos"},
		{OriginalColumn: "g__coordinates", SQLColumn: "g__coordinates"},
	}, got)
}

func TestAlertsMetadata(t *testing.T) {
	rows := []models.Row{
		models.NewRow(
			"alert_source", "alerts_provider",
			"type_alert", "gold_mining",
			"month", float64(1),
			"year", "2024",
			"total_alerts", "12",
			"description_alerts", "mining",
		),
		models.NewRow("month", "x", "year", nil, "total_alerts", nil),
	}

	got := alertsMetadata(rows)

	assert.Equal(t, models.AlertsMetadata{
		AlertSource:       "alerts_provider",
		TypeAlert:         "gold_mining",
		Month:             1,
		Year:              2024,
		TotalAlerts:       12,
		DescriptionAlerts: "mining",
	}, got[0])
	assert.Equal(t, models.AlertsMetadata{}, got[1])
}

func TestFilterTableNames(t *testing.T) {
	in := []string{
		"bcmform_responses",
		"bcmform_responses__columns",
		"fake_alerts",
		"fake_alerts__metadata",
		"spatial_ref_sys",
		"config",
		"mapeo_data",
	}

	assert.Equal(t, []string{"bcmform_responses", "fake_alerts", "mapeo_data"}, FilterTableNames(in))
	assert.Empty(t, FilterTableNames(nil))
}

func TestUnconfigured(t *testing.T) {
	cfg := map[string]models.ViewConfig{"fake_alerts": {}}

	got := Unconfigured([]string{"bcmform_responses", "fake_alerts", "mapeo_data"}, cfg)

	assert.Equal(t, []string{"bcmform_responses", "mapeo_data"}, got)
}
