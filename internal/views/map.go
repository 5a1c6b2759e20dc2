package views

import (
	"github.com/02loveslollipop/guardian-views/internal/filter"
	"github.com/02loveslollipop/guardian-views/internal/models"
	"github.com/02loveslollipop/guardian-views/internal/transform"
)

// MapResponse is the payload of the map view.
type MapResponse struct {
	AllowedFileExtensions models.AllowedFileExtensions `json:"allowedFileExtensions"`
	Data                  []models.Row                 `json:"data"`
	EmbedMedia            bool                         `json:"embedMedia"`
	FilterColumn          string                       `json:"filterColumn"`
	Mapbox
	MediaBasePath string `json:"mediaBasePath"`
	PlanetAPIKey  string `json:"planetApiKey"`
	Table         string `json:"table"`
}

// Map filters located rows, makes them readable and prepares them for the map.
func Map(table string, src models.TableData, cfg models.ViewConfig, settings Settings) (MapResponse, error) {
	if !cfg.Enabled(models.ViewMap) {
		return MapResponse{}, ErrViewDisabled
	}

	rows := filter.UnwantedKeys(src.MainData, src.ColumnsData, cfg.UnwantedColumns.String(), cfg.UnwantedSubstrings.String())
	rows = filter.UnwantedValues(rows, cfg.FilterByColumn.String(), cfg.FilterOutValuesFromColumn.String())
	rows = filter.GeoData(rows)
	rows = transform.SurveyData(rows)
	rows = transform.MapData(rows, cfg.FrontEndFilterColumn.String())

	return MapResponse{
		AllowedFileExtensions: settings.AllowedFileExtensions,
		Data:                  rows,
		EmbedMedia:            cfg.EmbedMedia == "YES" || cfg.EmbedMedia == "true",
		FilterColumn:          cfg.FrontEndFilterColumn.String(),
		Mapbox:                mapboxFrom(cfg),
		MediaBasePath:         cfg.MediaBasePath.String(),
		PlanetAPIKey:          cfg.PlanetAPIKey.String(),
		Table:                 table,
	}, nil
}
