package transform

import (
	"strings"

	"github.com/02loveslollipop/guardian-views/internal/geo"
	"github.com/02loveslollipop/guardian-views/internal/logging"
	"github.com/02loveslollipop/guardian-views/internal/models"
)

// Feature is a GeoJSON feature built from a flat record.
type Feature struct {
	Type       string     `json:"type"`
	ID         any        `json:"id,omitempty"`
	Properties models.Row `json:"properties"`
	Geometry   models.Row `json:"geometry"`
}

// FeatureCollection is a GeoJSON feature collection.
type FeatureCollection struct {
	Type     string    `json:"type"`
	Features []Feature `json:"features"`
}

// ToGeoJSON converts flat records to a FeatureCollection. g__ columns move
// to the geometry with the prefix stripped and the coordinates decoded. The
// alertID column also becomes the feature id, minus its first four
// characters. Everything else lands in properties.
func ToGeoJSON(rows []models.Row) FeatureCollection {
	fc := FeatureCollection{Type: "FeatureCollection", Features: make([]Feature, 0, len(rows))}
	for _, r := range rows {
		f := Feature{Type: "Feature"}
		for _, key := range r.Keys() {
			value := r.Value(key)
			switch {
			case key == AlertIDKey:
				f.ID = trimIDPrefix(models.Text(value))
				f.Properties.Set(key, value)
			case strings.HasPrefix(key, GeoPrefix):
				geomKey := key[len(GeoPrefix):]
				if geomKey == "coordinates" {
					coords, err := geo.Normalize(value)
					if err != nil {
						logging.Warn().Err(err).Msg("geojson: unreadable coordinates")
						f.Geometry.Set(geomKey, value)
						continue
					}
					f.Geometry.Set(geomKey, coords)
					continue
				}
				f.Geometry.Set(geomKey, value)
			default:
				f.Properties.Set(key, value)
			}
		}
		fc.Features = append(fc.Features, f)
	}
	return fc
}

func trimIDPrefix(id string) string {
	runes := []rune(id)
	if len(runes) <= alertIDPrefixWidth {
		return ""
	}
	return string(runes[alertIDPrefixWidth:])
}
