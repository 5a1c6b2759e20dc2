package views

import (
	"github.com/02loveslollipop/guardian-views/internal/filter"
	"github.com/02loveslollipop/guardian-views/internal/models"
	"github.com/02loveslollipop/guardian-views/internal/transform"
)

// GalleryResponse is the payload of the gallery view.
type GalleryResponse struct {
	AllowedFileExtensions models.AllowedFileExtensions `json:"allowedFileExtensions"`
	Data                  []models.Row                 `json:"data"`
	FilterColumn          string                       `json:"filterColumn"`
	MediaBasePath         string                       `json:"mediaBasePath"`
	Table                 string                       `json:"table"`
}

// Gallery keeps rows with media attachments and makes them readable.
func Gallery(table string, src models.TableData, cfg models.ViewConfig, settings Settings) (GalleryResponse, error) {
	if !cfg.Enabled(models.ViewGallery) {
		return GalleryResponse{}, ErrViewDisabled
	}

	rows := filter.UnwantedKeys(src.MainData, src.ColumnsData, cfg.UnwantedColumns.String(), cfg.UnwantedSubstrings.String())
	rows = filter.UnwantedValues(rows, cfg.FilterByColumn.String(), cfg.FilterOutValuesFromColumn.String())
	rows = filter.ByExtension(rows, settings.AllowedFileExtensions)
	rows = transform.SurveyData(rows)

	return GalleryResponse{
		AllowedFileExtensions: settings.AllowedFileExtensions,
		Data:                  rows,
		FilterColumn:          cfg.FrontEndFilterColumn.String(),
		MediaBasePath:         cfg.MediaBasePath.String(),
		Table:                 table,
	}, nil
}
