package transform

import (
	"strings"

	"github.com/goccy/go-json"

	"github.com/02loveslollipop/guardian-views/internal/geo"
	"github.com/02loveslollipop/guardian-views/internal/logging"
	"github.com/02loveslollipop/guardian-views/internal/models"
	"github.com/02loveslollipop/guardian-views/internal/textutil"
)

// Keys added or rewritten on map records.
const (
	GeoTypeKey        = "geotype"
	GeoCoordinatesKey = "geocoordinates"
	FilterColorKey    = "filter-color"
)

// MapData prepares transformed survey rows for the map. Rows without a
// geotype get one guessed from their coordinates: a pair of numbers is a
// Point, anything else a Polygon. Coordinates are then re-encoded to the
// nesting their type needs. Every row gets a filter-color shared by all
// rows with the same filterColumn value; rows without a value get
// textutil.FallbackColor. Colors are drawn fresh on each call.
func MapData(rows []models.Row, filterColumn string) []models.Row {
	colors := make(map[string]string)
	out := make([]models.Row, len(rows))

	for i, src := range rows {
		r := src.Clone()

		if r.Text(GeoTypeKey) == "" {
			inferGeoType(&r)
		}

		value := ""
		if filterColumn != "" {
			value = r.Text(filterColumn)
		}
		color := textutil.FallbackColor
		if value != "" {
			c, ok := colors[value]
			if !ok {
				c = textutil.RandomColor()
				colors[value] = c
			}
			color = c
		}
		r.Set(FilterColorKey, color)

		normalizeGeolocation(&r)
		out[i] = r
	}
	return out
}

func inferGeoType(r *models.Row) {
	for _, key := range r.Keys() {
		if !strings.Contains(strings.ToLower(key), "coordinates") {
			continue
		}
		coords, err := parseAny(r.Value(key))
		if err != nil {
			logging.Warn().Str("key", key).Err(err).Msg("cannot infer geometry type")
			return
		}
		if isNumberPair(coords) {
			r.Set(GeoTypeKey, geo.TypePoint)
		} else {
			r.Set(GeoTypeKey, geo.TypePolygon)
		}
		return
	}
}

func isNumberPair(v any) bool {
	arr, ok := v.([]any)
	if !ok || len(arr) != 2 {
		return false
	}
	_, ok0 := arr[0].(float64)
	_, ok1 := arr[1].(float64)
	return ok0 && ok1
}

func parseAny(v any) (any, error) {
	switch t := v.(type) {
	case string:
		var parsed any
		if err := json.Unmarshal([]byte(t), &parsed); err != nil {
			return nil, err
		}
		return parsed, nil
	default:
		return t, nil
	}
}

func normalizeGeolocation(r *models.Row) {
	raw := r.Value(GeoCoordinatesKey)
	if raw == nil {
		return
	}
	if s, ok := raw.(string); ok && strings.TrimSpace(s) == "" {
		return
	}

	coords, err := parseAny(raw)
	if err != nil {
		logging.Warn().Err(err).Msg("error parsing coordinates")
		return
	}

	var encoded any
	switch r.Text(GeoTypeKey) {
	case geo.TypePoint:
		arr, ok := coords.([]any)
		if !ok || len(arr) != 2 {
			return
		}
		encoded = arr
	case geo.TypeLineString:
		encoded = coords
	case geo.TypePolygon:
		encoded = []any{coords}
	default:
		return
	}

	s, err := geo.Encode(encoded)
	if err != nil {
		logging.Warn().Err(err).Msg("error encoding coordinates")
		return
	}
	r.Set(GeoCoordinatesKey, s)
}
