package geo

import (
	"errors"
	"fmt"
	"math"

	"github.com/paulmach/orb"

	"github.com/02loveslollipop/guardian-views/internal/logging"
)

// Geometry type names as they appear in g__type columns.
const (
	TypePoint           = "Point"
	TypeLineString      = "LineString"
	TypeMultiLineString = "MultiLineString"
	TypePolygon         = "Polygon"
	TypeMultiPolygon    = "MultiPolygon"
)

var errShape = errors.New("coordinates do not match geometry type")

// Build converts canonical coordinates into an orb geometry of the named
// type. Every position must be a pair of finite numbers. MultiLineString
// accepts either a list of lines or a single flat line.
func Build(geomType string, raw any) (orb.Geometry, error) {
	coords, err := Normalize(raw)
	if err != nil {
		return nil, err
	}
	switch geomType {
	case TypePoint:
		return toPoint(coords)
	case TypeLineString:
		return toLineString(coords)
	case TypeMultiLineString:
		if ls, err := toLineString(coords); err == nil {
			return orb.MultiLineString{ls}, nil
		}
		return toMultiLineString(coords)
	case TypePolygon:
		return toPolygon(coords)
	case TypeMultiPolygon:
		return toMultiPolygon(coords)
	default:
		return nil, fmt.Errorf("unsupported geometry type %q", geomType)
	}
}

// ValidGeometry reports whether raw holds well formed coordinates for geomType.
func ValidGeometry(geomType string, raw any) bool {
	_, err := Build(geomType, raw)
	return err == nil
}

func toPoint(v any) (orb.Point, error) {
	arr, ok := v.([]any)
	if !ok || len(arr) != 2 {
		return orb.Point{}, errShape
	}
	x, okx := arr[0].(float64)
	y, oky := arr[1].(float64)
	if !okx || !oky || !finite(x) || !finite(y) {
		return orb.Point{}, errShape
	}
	return orb.Point{x, y}, nil
}

func toLineString(v any) (orb.LineString, error) {
	arr, ok := v.([]any)
	if !ok {
		return nil, errShape
	}
	ls := make(orb.LineString, 0, len(arr))
	for _, item := range arr {
		p, err := toPoint(item)
		if err != nil {
			return nil, err
		}
		ls = append(ls, p)
	}
	return ls, nil
}

func toMultiLineString(v any) (orb.MultiLineString, error) {
	arr, ok := v.([]any)
	if !ok {
		return nil, errShape
	}
	mls := make(orb.MultiLineString, 0, len(arr))
	for _, item := range arr {
		ls, err := toLineString(item)
		if err != nil {
			return nil, err
		}
		mls = append(mls, ls)
	}
	return mls, nil
}

func toPolygon(v any) (orb.Polygon, error) {
	arr, ok := v.([]any)
	if !ok {
		return nil, errShape
	}
	poly := make(orb.Polygon, 0, len(arr))
	for _, item := range arr {
		ls, err := toLineString(item)
		if err != nil {
			return nil, err
		}
		poly = append(poly, orb.Ring(ls))
	}
	return poly, nil
}

func toMultiPolygon(v any) (orb.MultiPolygon, error) {
	arr, ok := v.([]any)
	if !ok {
		return nil, errShape
	}
	mp := make(orb.MultiPolygon, 0, len(arr))
	for _, item := range arr {
		poly, err := toPolygon(item)
		if err != nil {
			return nil, err
		}
		mp = append(mp, poly)
	}
	return mp, nil
}

func finite(f float64) bool {
	return !math.IsNaN(f) && !math.IsInf(f, 0)
}

// Centroid returns the mean of every position in a line, polygon or
// multipolygon as "lat, lng" with six decimals. The nesting depth decides
// the shape. Anything else yields "" and a logged warning.
func Centroid(raw any) string {
	coords, err := Normalize(raw)
	if err != nil {
		logging.Warn().Err(err).Msg("centroid: unreadable coordinates")
		return ""
	}

	var g orb.Geometry
	switch depth(coords) {
	case 4:
		g, err = toMultiPolygon(coords)
	case 3:
		g, err = toPolygon(coords)
	case 2:
		g, err = toLineString(coords)
	default:
		err = errShape
	}
	if err != nil {
		logging.Warn().Err(err).Msg("centroid: invalid input format")
		return ""
	}

	var sumLng, sumLat float64
	n := 0
	visit(g, func(p orb.Point) {
		sumLng += p[0]
		sumLat += p[1]
		n++
	})
	if n == 0 {
		logging.Warn().Msg("centroid: no positions")
		return ""
	}
	return fmt.Sprintf("%.6f, %.6f", sumLat/float64(n), sumLng/float64(n))
}

// depth counts array levels along the first element, up to four.
func depth(v any) int {
	d := 0
	for d < 4 {
		arr, ok := v.([]any)
		if !ok {
			break
		}
		d++
		if len(arr) == 0 {
			break
		}
		v = arr[0]
	}
	return d
}

func visit(g orb.Geometry, fn func(orb.Point)) {
	switch t := g.(type) {
	case orb.LineString:
		for _, p := range t {
			fn(p)
		}
	case orb.Polygon:
		for _, r := range t {
			visit(orb.LineString(r), fn)
		}
	case orb.MultiPolygon:
		for _, p := range t {
			visit(p, fn)
		}
	}
}
