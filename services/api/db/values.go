package db

import (
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/goccy/go-json"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgtype"

	"github.com/02loveslollipop/guardian-views/internal/models"
)

const timestampLayout = "2006-01-02T15:04:05.000Z07:00"

// normalizeValue maps a pgx driver value onto the row scalar set: string,
// float64, nil, or []any for array and JSON array columns.
func normalizeValue(v any) any {
	switch t := v.(type) {
	case nil:
		return nil
	case string:
		return t
	case float64:
		return finite(t)
	case float32:
		return finite(float64(t))
	case int:
		return float64(t)
	case int16:
		return float64(t)
	case int32:
		return float64(t)
	case int64:
		return float64(t)
	case bool:
		return strconv.FormatBool(t)
	case []byte:
		return string(t)
	case time.Time:
		return t.UTC().Format(timestampLayout)
	case pgtype.Numeric:
		if !t.Valid {
			return nil
		}
		f, err := t.Float64Value()
		if err != nil || !f.Valid {
			return nil
		}
		return finite(f.Float64)
	case [16]byte:
		return uuid.UUID(t).String()
	case []any:
		out := make([]any, len(t))
		for i, e := range t {
			out[i] = normalizeValue(e)
		}
		return out
	case map[string]any:
		b, err := json.Marshal(t)
		if err != nil {
			return fmt.Sprint(t)
		}
		return string(b)
	case fmt.Stringer:
		return t.String()
	default:
		return fmt.Sprint(t)
	}
}

// finite maps NaN and infinities to nil.
func finite(f float64) any {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return nil
	}
	return f
}

func columnMappings(rows []models.Row) []models.ColumnMapping {
	out := make([]models.ColumnMapping, 0, len(rows))
	for _, r := range rows {
		out = append(out, models.ColumnMapping{
			OriginalColumn: r.Text("original_column"),
			SQLColumn:      r.Text("sql_column"),
		})
	}
	return out
}

func alertsMetadata(rows []models.Row) []models.AlertsMetadata {
	out := make([]models.AlertsMetadata, 0, len(rows))
	for _, r := range rows {
		out = append(out, models.AlertsMetadata{
			AlertSource:       r.Text("alert_source"),
			TypeAlert:         r.Text("type_alert"),
			Month:             toInt(r.Value("month")),
			Year:              toInt(r.Value("year")),
			TotalAlerts:       zeroNaN(models.Number(r.Value("total_alerts"))),
			DescriptionAlerts: r.Text("description_alerts"),
		})
	}
	return out
}

func toInt(v any) int {
	return int(zeroNaN(models.Number(v)))
}

func zeroNaN(f float64) float64 {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0
	}
	return f
}

var excludedTableFragments = []string{"metadata", "columns", "spatial_ref_sys"}

// FilterTableNames drops companion tables, PostGIS bookkeeping and the config
// table itself.
func FilterTableNames(names []string) []string {
	out := make([]string, 0, len(names))
	for _, name := range names {
		if name == configTable {
			continue
		}
		skip := false
		for _, frag := range excludedTableFragments {
			if strings.Contains(name, frag) {
				skip = true
				break
			}
		}
		if !skip {
			out = append(out, name)
		}
	}
	return out
}

// Unconfigured returns the names not present in cfg, in input order.
func Unconfigured(names []string, cfg map[string]models.ViewConfig) []string {
	out := make([]string, 0)
	for _, name := range names {
		if _, ok := cfg[name]; !ok {
			out = append(out, name)
		}
	}
	return out
}
