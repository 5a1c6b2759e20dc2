// Package views assembles the JSON payloads served for each table view.
// Builders are pure: they take fetched table data plus the table's
// configuration and return a response value.
package views

import (
	"errors"
	"strconv"
	"strings"

	"github.com/02loveslollipop/guardian-views/internal/models"
)

// ErrViewDisabled is returned when a table's VIEWS setting does not list the requested view.
var ErrViewDisabled = errors.New("view not enabled for table")

// Settings are process wide values shared by every table.
type Settings struct {
	AllowedFileExtensions models.AllowedFileExtensions
}

// Mapbox holds the basemap parameters shared by the map and alerts views.
type Mapbox struct {
	MapLegendLayerIDs string   `json:"mapLegendLayerIds"`
	Mapbox3D          bool     `json:"mapbox3d"`
	MapboxAccessToken string   `json:"mapboxAccessToken"`
	MapboxBearing     *float64 `json:"mapboxBearing"`
	MapboxLatitude    *float64 `json:"mapboxLatitude"`
	MapboxLongitude   *float64 `json:"mapboxLongitude"`
	MapboxPitch       *float64 `json:"mapboxPitch"`
	MapboxProjection  string   `json:"mapboxProjection"`
	MapboxStyle       string   `json:"mapboxStyle"`
	MapboxZoom        *float64 `json:"mapboxZoom"`
}

func mapboxFrom(cfg models.ViewConfig) Mapbox {
	return Mapbox{
		MapLegendLayerIDs: cfg.MapLegendLayerIDs.String(),
		Mapbox3D:          cfg.Mapbox3D == "YES",
		MapboxAccessToken: cfg.MapboxAccessToken.String(),
		MapboxBearing:     number(cfg.MapboxBearing),
		MapboxLatitude:    number(cfg.MapboxCenterLatitude),
		MapboxLongitude:   number(cfg.MapboxCenterLongitude),
		MapboxPitch:       number(cfg.MapboxPitch),
		MapboxProjection:  cfg.MapboxProjection.String(),
		MapboxStyle:       cfg.MapboxStyle.String(),
		MapboxZoom:        number(cfg.MapboxZoom),
	}
}

// number parses a numeric setting. Unset or unparseable values are null.
func number(s models.FlexString) *float64 {
	v := strings.TrimSpace(s.String())
	if v == "" {
		return nil
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return nil
	}
	return &f
}

// DataResponse is the raw table dump.
type DataResponse struct {
	Data    []models.Row           `json:"data"`
	Columns []models.ColumnMapping `json:"columns"`
}

// Data returns a table's rows and column mapping unprocessed.
func Data(src models.TableData) DataResponse {
	rows := src.MainData
	if rows == nil {
		rows = []models.Row{}
	}
	return DataResponse{Data: rows, Columns: src.ColumnsData}
}
