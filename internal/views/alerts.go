package views

import (
	"fmt"
	"strings"

	"github.com/02loveslollipop/guardian-views/internal/filter"
	"github.com/02loveslollipop/guardian-views/internal/models"
	"github.com/02loveslollipop/guardian-views/internal/transform"
)

// AlertsData holds both alert buckets as GeoJSON.
type AlertsData struct {
	MostRecentAlerts transform.FeatureCollection `json:"mostRecentAlerts"`
	PreviousAlerts   transform.FeatureCollection `json:"previousAlerts"`
}

// AlertsResponse is the payload of the alerts dashboard.
type AlertsResponse struct {
	AlertsData            AlertsData                   `json:"alertsData"`
	AlertsStatistics      models.AlertsStatistics      `json:"alertsStatistics"`
	AllowedFileExtensions models.AllowedFileExtensions `json:"allowedFileExtensions"`
	LogoURL               string                       `json:"logoUrl"`
	Mapbox
	MapeoData           []models.Row `json:"mapeoData"`
	MediaBasePath       string       `json:"mediaBasePath"`
	MediaBasePathAlerts string       `json:"mediaBasePathAlerts"`
	PlanetAPIKey        string       `json:"planetApiKey"`
	Table               string       `json:"table"`
}

// MapeoSource reports the linked observation table, if the alerts view
// has one configured.
func MapeoSource(cfg models.ViewConfig) (string, bool) {
	table := cfg.MapeoTable.String()
	return table, table != "" && cfg.MapeoCategoryIDs != ""
}

// Alerts splits alerts into recent and previous GeoJSON collections,
// computes their statistics and, when mapeo is given, adds the linked
// observations restricted to the configured categories.
func Alerts(table string, src models.TableData, mapeo *models.TableData, cfg models.ViewConfig, settings Settings) (AlertsResponse, error) {
	if !cfg.Enabled(models.ViewAlerts) {
		return AlertsResponse{}, ErrViewDisabled
	}

	buckets := transform.AlertData(src.MainData)
	stats, err := transform.AlertsStatistics(src.MainData, src.Metadata)
	if err != nil {
		return AlertsResponse{}, fmt.Errorf("alerts statistics for %s: %w", table, err)
	}

	var mapeoRows []models.Row
	if mapeo != nil {
		mapeoRows = mapeoData(*mapeo, cfg)
	}

	return AlertsResponse{
		AlertsData: AlertsData{
			MostRecentAlerts: transform.ToGeoJSON(buckets.MostRecentAlerts),
			PreviousAlerts:   transform.ToGeoJSON(buckets.PreviousAlerts),
		},
		AlertsStatistics:      stats,
		AllowedFileExtensions: settings.AllowedFileExtensions,
		LogoURL:               cfg.LogoURL.String(),
		Mapbox:                mapboxFrom(cfg),
		MapeoData:             mapeoRows,
		MediaBasePath:         cfg.MediaBasePath.String(),
		MediaBasePathAlerts:   cfg.MediaBasePathAlerts.String(),
		PlanetAPIKey:          cfg.PlanetAPIKey.String(),
		Table:                 table,
	}, nil
}

func mapeoData(src models.TableData, cfg models.ViewConfig) []models.Row {
	ids := make(map[string]struct{})
	for _, id := range filter.SplitCSV(cfg.MapeoCategoryIDs.String()) {
		ids[id] = struct{}{}
	}

	rows := filter.UnwantedKeys(src.MainData, src.ColumnsData, cfg.UnwantedColumns.String(), cfg.UnwantedSubstrings.String())
	matched := make([]models.Row, 0, len(rows))
	for _, r := range rows {
		if inCategories(r, ids) {
			matched = append(matched, r)
		}
	}

	matched = filter.GeoData(matched)
	matched = transform.SurveyData(matched)
	return transform.MapData(matched, cfg.FrontEndFilterColumn.String())
}

func inCategories(r models.Row, ids map[string]struct{}) bool {
	for _, key := range r.Keys() {
		if !strings.Contains(key, "category") {
			continue
		}
		s, ok := r.Value(key).(string)
		if !ok {
			continue
		}
		if _, hit := ids[s]; hit {
			return true
		}
	}
	return false
}
