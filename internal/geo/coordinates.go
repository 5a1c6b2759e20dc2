// Package geo resolves the coordinate encodings found in survey and alert
// tables and answers the geometry questions the pipeline asks of them.
package geo

import (
	"errors"
	"fmt"
	"math"
	"strings"
	"unicode"

	"github.com/goccy/go-json"

	"github.com/02loveslollipop/guardian-views/internal/logging"
	"github.com/02loveslollipop/guardian-views/internal/models"
)

var (
	// ErrEmpty is returned for null or blank coordinate payloads.
	ErrEmpty = errors.New("empty coordinates")
	// ErrNotNumeric is returned when a leaf is not a number.
	ErrNotNumeric = errors.New("non-numeric coordinate")
)

// Normalize resolves a coordinate payload to nested []any with float64
// leaves. Bracketed strings are decoded as JSON, other strings are split on
// commas, and already parsed arrays are copied with their leaves converted.
func Normalize(v any) (any, error) {
	switch t := v.(type) {
	case nil:
		return nil, ErrEmpty
	case string:
		s := strings.TrimSpace(t)
		if s == "" {
			return nil, ErrEmpty
		}
		if strings.HasPrefix(s, "[") && strings.HasSuffix(s, "]") {
			var parsed any
			if err := json.Unmarshal([]byte(s), &parsed); err != nil {
				return nil, fmt.Errorf("decode coordinates: %w", err)
			}
			return canonical(parsed)
		}
		parts := strings.Split(stripSpace(s), ",")
		out := make([]any, 0, len(parts))
		for _, p := range parts {
			f := models.Number(p)
			if math.IsNaN(f) {
				return nil, fmt.Errorf("%w: %q", ErrNotNumeric, p)
			}
			out = append(out, f)
		}
		return out, nil
	default:
		return canonical(t)
	}
}

func canonical(v any) (any, error) {
	switch t := v.(type) {
	case []any:
		out := make([]any, len(t))
		for i, item := range t {
			c, err := canonical(item)
			if err != nil {
				return nil, err
			}
			out[i] = c
		}
		return out, nil
	case []float64:
		out := make([]any, len(t))
		for i, f := range t {
			out[i] = f
		}
		return out, nil
	case float64:
		return t, nil
	case float32:
		return float64(t), nil
	case int:
		return float64(t), nil
	case int64:
		return float64(t), nil
	case json.Number:
		f, err := t.Float64()
		if err != nil {
			return nil, fmt.Errorf("%w: %s", ErrNotNumeric, t)
		}
		return f, nil
	default:
		return nil, fmt.Errorf("%w: %v", ErrNotNumeric, v)
	}
}

// Encode serializes canonical coordinates back to their JSON text.
func Encode(coords any) (string, error) {
	b, err := json.Marshal(coords)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

// IsValidCoordinate reports whether v is a number within [-180, 180].
// Both axes share the same bound.
func IsValidCoordinate(v any) bool {
	if v == nil {
		return false
	}
	f := models.Number(v)
	return !math.IsNaN(f) && f >= -180 && f <= 180
}

// HasValidCoordinates reports whether any column whose name contains
// "coordinates" holds an even-length list of valid coordinates. Arrays are
// flattened one level; strings are decoded as JSON when bracketed and split
// on commas otherwise. A column that fails to parse is skipped.
func HasValidCoordinates(r models.Row) bool {
	for _, key := range r.Keys() {
		if !strings.Contains(strings.ToLower(key), "coordinates") {
			continue
		}
		values, ok := flatCoordinates(key, r.Value(key))
		if !ok || len(values) == 0 {
			continue
		}
		if len(values)%2 != 0 {
			continue
		}
		valid := true
		for _, v := range values {
			if !IsValidCoordinate(v) {
				valid = false
				break
			}
		}
		if valid {
			return true
		}
	}
	return false
}

func flatCoordinates(key string, raw any) ([]any, bool) {
	switch t := raw.(type) {
	case nil:
		return nil, false
	case string:
		s := stripSpace(t)
		if s == "" {
			return nil, false
		}
		if strings.HasPrefix(s, "[") && strings.HasSuffix(s, "]") {
			var parsed []any
			if err := json.Unmarshal([]byte(s), &parsed); err != nil {
				logging.Debug().Str("key", key).Err(err).Msg("unparseable coordinates")
				return nil, false
			}
			return parsed, true
		}
		parts := strings.Split(s, ",")
		out := make([]any, len(parts))
		for i, p := range parts {
			f := models.Number(p)
			if math.IsNaN(f) {
				logging.Debug().Str("key", key).Str("value", t).Msg("invalid csv coordinates")
				return nil, false
			}
			out[i] = f
		}
		return out, true
	case []any:
		out := make([]any, 0, len(t))
		for _, item := range t {
			if inner, ok := item.([]any); ok {
				out = append(out, inner...)
				continue
			}
			out = append(out, item)
		}
		return out, true
	default:
		return nil, false
	}
}

func stripSpace(s string) string {
	return strings.Map(func(r rune) rune {
		if unicode.IsSpace(r) {
			return -1
		}
		return r
	}, s)
}
