package transform

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/02loveslollipop/guardian-views/internal/geo"
	"github.com/02loveslollipop/guardian-views/internal/models"
	"github.com/02loveslollipop/guardian-views/internal/textutil"
)

// Alert columns read from change detection tables.
const (
	colAlertID         = "_id"
	colAlertSource     = "alert_source"
	colAlertTopic      = "_topic"
	colAlertType       = "alert_type"
	colArea            = "area_alert_ha"
	colConfidence      = "confidence"
	colDateStart       = "date_start_t1"
	colDateEnd         = "date_end_t1"
	colGeoType         = GeoPrefix + "type"
	colGeoCoordinates  = GeoPrefix + "coordinates"
	colMonth           = "month_detec"
	colYear            = "year_detec"
	colSatDetect       = "sat_detect_prefix"
	colSatViz          = "sat_viz_prefix"
	colTerritoryID     = "territory_id"
	colTerritoryName   = "territory_name"
	alertIDPrefixWidth = 4
)

// AlertIDKey is the derived alert identifier column.
const AlertIDKey = "alertID"

var satellites = map[string]string{
	"S1":  "Sentinel-1",
	"S2":  "Sentinel-2",
	"PS":  "Planetscope",
	"L8":  "Landsat 8",
	"L9":  "Landsat 9",
	"WV1": "WorldView-1",
	"WV2": "WorldView-2",
	"WV3": "WorldView-3",
	"WV4": "WorldView-4",
	"IK":  "IKONOS",
}

// SatelliteName returns the display name for a satellite prefix code.
// Unknown codes are returned unchanged.
func SatelliteName(code string) string {
	if name, ok := satellites[code]; ok {
		return name
	}
	return code
}

// AlertBuckets holds alerts split by detection month.
type AlertBuckets struct {
	MostRecentAlerts []models.Row `json:"mostRecentAlerts"`
	PreviousAlerts   []models.Row `json:"previousAlerts"`
}

// padMonth left pads a single character month with a zero.
func padMonth(month string) string {
	if len(month) == 1 {
		return "0" + month
	}
	return month
}

// monthYear returns the "MM-YYYY" label of an alert row.
func monthYear(r models.Row) string {
	return padMonth(r.Text(colMonth)) + "-" + r.Text(colYear)
}

// yearMonth returns a comparable year*12+month index, or false when the
// row's detection date does not parse.
func yearMonth(r models.Row) (int, bool) {
	year, err := strconv.Atoi(strings.TrimSpace(r.Text(colYear)))
	if err != nil {
		return 0, false
	}
	month, err := strconv.Atoi(strings.TrimSpace(r.Text(colMonth)))
	if err != nil {
		return 0, false
	}
	return year*12 + month - 1, true
}

// provider returns the alert's data source, whichever column carries it.
func provider(r models.Row) any {
	if v := r.Value(colAlertSource); v != nil {
		return v
	}
	return r.Value(colAlertTopic)
}

// ValidAlert reports whether the row's geometry type is supported and its
// coordinates match that type.
func ValidAlert(r models.Row) bool {
	return geo.ValidGeometry(r.Text(colGeoType), r.Value(colGeoCoordinates))
}

// AlertData keeps geometrically valid alerts, derives display fields and
// splits them into the latest detection month and everything before it.
func AlertData(rows []models.Row) AlertBuckets {
	valid := make([]models.Row, 0, len(rows))
	for _, r := range rows {
		if ValidAlert(r) {
			valid = append(valid, r)
		}
	}

	latest, latestLabel := -1, ""
	for _, r := range valid {
		idx, ok := yearMonth(r)
		if !ok {
			continue
		}
		if idx > latest {
			latest = idx
			latestLabel = monthYear(r)
		}
	}

	buckets := AlertBuckets{
		MostRecentAlerts: []models.Row{},
		PreviousAlerts:   []models.Row{},
	}
	for _, r := range valid {
		item := alertItem(r)
		if latestLabel != "" && monthYear(r) == latestLabel {
			buckets.MostRecentAlerts = append(buckets.MostRecentAlerts, item)
		} else {
			buckets.PreviousAlerts = append(buckets.PreviousAlerts, item)
		}
	}
	return buckets
}

func alertItem(r models.Row) models.Row {
	var out models.Row
	for _, key := range r.Keys() {
		if strings.HasPrefix(key, GeoPrefix) {
			out.Set(key, r.Value(key))
		}
	}

	id := r.Text(colAlertID)
	month := padMonth(r.Text(colMonth))
	year := r.Text(colYear)
	vizPrefix := r.Text(colSatViz)

	out.Set("territory", textutil.CapitalizeWords(r.Text(colTerritoryName)))
	out.Set(AlertIDKey, r.Value(colAlertID))
	out.Set("alertDetectionRange", r.Text(colDateStart)+" to "+r.Text(colDateEnd))
	out.Set("monthDetected", month+"-"+year)
	out.Set("YYYYMM", year+month)
	out.Set("dataProvider", textutil.CapitalizeWords(models.Text(provider(r))))
	out.Set("confidenceLevel", r.Value(colConfidence))
	out.Set("alertType", strings.ReplaceAll(r.Text(colAlertType), "_", " "))
	out.Set("alertAreaHectares", hectares(r.Value(colArea)))
	out.Set("geographicCentroid", geo.Centroid(r.Value(colGeoCoordinates)))
	out.Set("satelliteUsedForDetection", SatelliteName(r.Text(colSatDetect)))
	out.Set("t0_url", imageURL(r.Text(colTerritoryID), year, month, id, vizPrefix, 0))
	out.Set("t1_url", imageURL(r.Text(colTerritoryID), year, month, id, vizPrefix, 1))
	out.Set("previewImagerySource", SatelliteName(vizPrefix))
	return out
}

// hectares fixes numeric areas to two decimals and passes anything else through.
func hectares(v any) any {
	switch t := v.(type) {
	case float64:
		return strconv.FormatFloat(t, 'f', 2, 64)
	case int, int64, float32:
		return strconv.FormatFloat(models.Number(t), 'f', 2, 64)
	default:
		return v
	}
}

func imageURL(territoryID, year, month, id, satPrefix string, frame int) string {
	return fmt.Sprintf("alerts/%s/%s/%s/%s/images/%s_T%d_%s.jpg", territoryID, year, month, id, satPrefix, frame, id)
}
