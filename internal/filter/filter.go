// Package filter narrows fetched rows before they are transformed:
// column deny lists, value exclusion, geometry validity and media presence.
package filter

import (
	"strings"

	"github.com/02loveslollipop/guardian-views/internal/geo"
	"github.com/02loveslollipop/guardian-views/internal/models"
)

// SplitCSV splits a comma separated config value. An empty value yields nil.
func SplitCSV(s string) []string {
	if s == "" {
		return nil
	}
	return strings.Split(s, ",")
}

func unwanted(name string, columns map[string]struct{}, substrings []string) bool {
	if _, ok := columns[name]; ok {
		return true
	}
	for _, sub := range substrings {
		if strings.Contains(name, sub) {
			return true
		}
	}
	return false
}

// UnwantedKeys drops columns named in unwantedColumns or containing any
// entry of unwantedSubstrings. With a column mapping the test runs against
// the original column names and the physical names are removed; without
// one it runs against the keys of the first row. Rows are copied, never
// modified.
func UnwantedKeys(rows []models.Row, mapping []models.ColumnMapping, unwantedColumns, unwantedSubstrings string) []models.Row {
	columns := make(map[string]struct{})
	for _, c := range SplitCSV(unwantedColumns) {
		columns[c] = struct{}{}
	}
	substrings := SplitCSV(unwantedSubstrings)

	kept := make(map[string]struct{})
	if mapping != nil {
		toPhysical := make(map[string]string, len(mapping))
		for _, m := range mapping {
			toPhysical[m.OriginalColumn] = m.SQLColumn
		}
		dropped := make(map[string]struct{})
		for original, physical := range toPhysical {
			if unwanted(original, columns, substrings) {
				dropped[physical] = struct{}{}
			}
		}
		for _, physical := range toPhysical {
			if _, ok := dropped[physical]; !ok {
				kept[physical] = struct{}{}
			}
		}
	} else {
		if len(rows) == 0 {
			return []models.Row{}
		}
		for _, key := range rows[0].Keys() {
			if !unwanted(key, columns, substrings) {
				kept[key] = struct{}{}
			}
		}
	}

	out := make([]models.Row, len(rows))
	for i, r := range rows {
		out[i] = r.Project(func(key string) bool {
			_, ok := kept[key]
			return ok
		})
	}
	return out
}

// UnwantedValues removes rows whose filterByColumn value exactly equals one
// of the comma separated values. Either argument empty leaves rows as is.
func UnwantedValues(rows []models.Row, filterByColumn, values string) []models.Row {
	if filterByColumn == "" || values == "" {
		return rows
	}
	exclude := make(map[string]struct{})
	for _, v := range SplitCSV(values) {
		exclude[v] = struct{}{}
	}

	out := make([]models.Row, 0, len(rows))
	for _, r := range rows {
		if v, ok := r.Value(filterByColumn).(string); ok {
			if _, hit := exclude[v]; hit {
				continue
			}
		}
		out = append(out, r)
	}
	return out
}

// GeoData keeps rows that carry at least one valid coordinates column.
func GeoData(rows []models.Row) []models.Row {
	out := make([]models.Row, 0, len(rows))
	for _, r := range rows {
		if geo.HasValidCoordinates(r) {
			out = append(out, r)
		}
	}
	return out
}

// ByExtension keeps rows with a string value that mentions any allowed
// media extension, ignoring case.
func ByExtension(rows []models.Row, ext models.AllowedFileExtensions) []models.Row {
	tokens := ext.All()
	for i, t := range tokens {
		tokens[i] = strings.ToLower(t)
	}

	out := make([]models.Row, 0, len(rows))
	for _, r := range rows {
		if hasMedia(r, tokens) {
			out = append(out, r)
		}
	}
	return out
}

func hasMedia(r models.Row, tokens []string) bool {
	for _, key := range r.Keys() {
		s, ok := r.Value(key).(string)
		if !ok {
			continue
		}
		s = strings.ToLower(s)
		for _, t := range tokens {
			if strings.Contains(s, t) {
				return true
			}
		}
	}
	return false
}
