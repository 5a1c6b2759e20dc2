// Package transform turns filtered rows into the records each view renders:
// readable survey records, map features, alert buckets, alert statistics
// and GeoJSON collections.
package transform

import (
	"regexp"
	"strings"

	"github.com/02loveslollipop/guardian-views/internal/models"
	"github.com/02loveslollipop/guardian-views/internal/textutil"
)

// Column prefixes used by the warehouse exports.
const (
	GeoPrefix      = "g__"
	PropertyPrefix = "p__"

	rawCoordinatesKey = GeoPrefix + "coordinates"
)

var bracketList = regexp.MustCompile(`^\[.*\]$`)

// SurveyKey rewrites a column name for display.
func SurveyKey(key string) string {
	k := key
	if strings.HasPrefix(k, GeoPrefix) {
		k = "geo" + k[len(GeoPrefix):]
	}
	k = strings.TrimPrefix(k, PropertyPrefix)
	k = strings.ReplaceAll(k, "_", " ")

	lower := strings.ToLower(k)
	switch {
	case lower == "today":
		k = "dataCollectedOn"
	case strings.Contains(lower, "categoryid"):
		k = "category"
	case lower == "id":
		k = "ID"
	}
	return strings.TrimLeft(k, " \t\n\r")
}

// SurveyValue rewrites a value for display. key is the raw column name.
// nil is returned unchanged and the raw coordinates column is kept
// verbatim.
func SurveyValue(key string, value any) any {
	if value == nil {
		return nil
	}
	if key == rawCoordinatesKey {
		if s, ok := value.(string); ok {
			return s
		}
		return models.Text(value)
	}

	s, ok := value.(string)
	if !ok {
		return models.Text(value)
	}

	lowerKey := strings.ToLower(key)
	s = strings.ReplaceAll(s, "_", " ")
	s = strings.ReplaceAll(s, ";", ", ")
	if strings.Contains(lowerKey, "category") {
		s = strings.ReplaceAll(s, "-", " ")
	}
	if strings.Contains(lowerKey, "created") || strings.Contains(lowerKey, "modified") || strings.Contains(lowerKey, "updated") {
		s = textutil.FormatDate(s)
	}
	s = textutil.CapitalizeFirst(s)

	if bracketList.MatchString(s) {
		items := strings.Split(s[1:len(s)-1], ", ")
		for i, item := range items {
			items[i] = strings.ReplaceAll(item, "'", "")
		}
		s = strings.Join(items, ", ")
	}
	return s
}

// SurveyData rewrites keys and values of every row for display. Columns
// holding null are left out of the result.
func SurveyData(rows []models.Row) []models.Row {
	out := make([]models.Row, len(rows))
	for i, r := range rows {
		var t models.Row
		for _, key := range r.Keys() {
			v := SurveyValue(key, r.Value(key))
			if v == nil {
				continue
			}
			t.Set(SurveyKey(key), v)
		}
		out[i] = t
	}
	return out
}
