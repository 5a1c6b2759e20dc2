package models

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/goccy/go-json"
)

// ViewKind names a front-end presentation of a table.
type ViewKind string

const (
	ViewMap     ViewKind = "map"
	ViewAlerts  ViewKind = "alerts"
	ViewGallery ViewKind = "gallery"
)

// FlexString is a config scalar that may be stored as a JSON string,
// number or boolean. It always reads back as a string.
type FlexString string

// UnmarshalJSON accepts strings, numbers, booleans and null.
func (f *FlexString) UnmarshalJSON(b []byte) error {
	var v any
	if err := json.Unmarshal(b, &v); err != nil {
		return err
	}
	switch t := v.(type) {
	case nil:
		*f = ""
	case string:
		*f = FlexString(t)
	case float64:
		*f = FlexString(FormatNumber(t))
	case bool:
		*f = FlexString(strconv.FormatBool(t))
	default:
		return fmt.Errorf("unsupported config value %s", string(b))
	}
	return nil
}

// String returns the raw value.
func (f FlexString) String() string {
	return string(f)
}

// ViewList is the VIEWS setting. It is stored either as a comma separated
// string ("map,gallery") or as a JSON list.
type ViewList []string

// UnmarshalJSON accepts a comma separated string or a list of strings.
func (v *ViewList) UnmarshalJSON(b []byte) error {
	var raw any
	if err := json.Unmarshal(b, &raw); err != nil {
		return err
	}
	switch t := raw.(type) {
	case nil:
		*v = nil
	case string:
		*v = ParseViewList(t)
	case []any:
		out := make(ViewList, 0, len(t))
		for _, item := range t {
			s, ok := item.(string)
			if !ok {
				return fmt.Errorf("VIEWS entries must be strings, got %T", item)
			}
			if s = strings.ToLower(strings.TrimSpace(s)); s != "" {
				out = append(out, s)
			}
		}
		*v = out
	default:
		return fmt.Errorf("unsupported VIEWS value %s", string(b))
	}
	return nil
}

// MarshalJSON writes the list back in its comma separated form.
func (v ViewList) MarshalJSON() ([]byte, error) {
	return json.Marshal(strings.Join(v, ","))
}

// ParseViewList splits a comma separated VIEWS string.
func ParseViewList(s string) ViewList {
	out := ViewList{}
	for _, part := range strings.Split(s, ",") {
		if part = strings.ToLower(strings.TrimSpace(part)); part != "" {
			out = append(out, part)
		}
	}
	return out
}

// Has reports whether kind is listed.
func (v ViewList) Has(kind ViewKind) bool {
	for _, s := range v {
		if s == string(kind) {
			return true
		}
	}
	return false
}

// ViewConfig is the per-table configuration blob kept in the config table.
type ViewConfig struct {
	Views                     ViewList   `json:"VIEWS,omitempty" validate:"omitempty,dive,oneof=map alerts gallery"`
	FilterByColumn            FlexString `json:"FILTER_BY_COLUMN,omitempty"`
	FilterOutValuesFromColumn FlexString `json:"FILTER_OUT_VALUES_FROM_COLUMN,omitempty"`
	FrontEndFilterColumn      FlexString `json:"FRONT_END_FILTER_COLUMN,omitempty"`
	MapboxAccessToken         FlexString `json:"MAPBOX_ACCESS_TOKEN,omitempty"`
	MapboxStyle               FlexString `json:"MAPBOX_STYLE,omitempty"`
	MapboxProjection          FlexString `json:"MAPBOX_PROJECTION,omitempty"`
	MapboxCenterLatitude      FlexString `json:"MAPBOX_CENTER_LATITUDE,omitempty" validate:"omitempty,numeric"`
	MapboxCenterLongitude     FlexString `json:"MAPBOX_CENTER_LONGITUDE,omitempty" validate:"omitempty,numeric"`
	MapboxZoom                FlexString `json:"MAPBOX_ZOOM,omitempty" validate:"omitempty,numeric"`
	MapboxPitch               FlexString `json:"MAPBOX_PITCH,omitempty" validate:"omitempty,numeric"`
	MapboxBearing             FlexString `json:"MAPBOX_BEARING,omitempty" validate:"omitempty,numeric"`
	Mapbox3D                  FlexString `json:"MAPBOX_3D,omitempty"`
	MapeoTable                FlexString `json:"MAPEO_TABLE,omitempty"`
	MapeoCategoryIDs          FlexString `json:"MAPEO_CATEGORY_IDS,omitempty"`
	MapLegendLayerIDs         FlexString `json:"MAP_LEGEND_LAYER_IDS,omitempty"`
	MediaBasePath             FlexString `json:"MEDIA_BASE_PATH,omitempty"`
	MediaBasePathAlerts       FlexString `json:"MEDIA_BASE_PATH_ALERTS,omitempty"`
	LogoURL                   FlexString `json:"LOGO_URL,omitempty"`
	PlanetAPIKey              FlexString `json:"PLANET_API_KEY,omitempty"`
	UnwantedColumns           FlexString `json:"UNWANTED_COLUMNS,omitempty"`
	UnwantedSubstrings        FlexString `json:"UNWANTED_SUBSTRINGS,omitempty"`
	EmbedMedia                FlexString `json:"EMBED_MEDIA,omitempty"`
}

// ParseViewConfig decodes a stored configuration blob. An empty blob is an
// empty (inactive) configuration.
func ParseViewConfig(blob string) (ViewConfig, error) {
	var cfg ViewConfig
	if strings.TrimSpace(blob) == "" {
		return cfg, nil
	}
	if err := json.Unmarshal([]byte(blob), &cfg); err != nil {
		return cfg, fmt.Errorf("decode views config: %w", err)
	}
	return cfg, nil
}

// Active reports whether any view is enabled. Tables without VIEWS are skipped.
func (c ViewConfig) Active() bool {
	return len(c.Views) > 0
}

// Enabled reports whether the table serves kind.
func (c ViewConfig) Enabled(kind ViewKind) bool {
	return c.Views.Has(kind)
}

// ColumnMapping pairs a human authored column name with its physical name.
type ColumnMapping struct {
	OriginalColumn string `json:"original_column"`
	SQLColumn      string `json:"sql_column"`
}

// AllowedFileExtensions lists media extensions per category.
type AllowedFileExtensions struct {
	Image []string `json:"image"`
	Audio []string `json:"audio"`
	Video []string `json:"video"`
}

// DefaultAllowedFileExtensions returns the extensions served when none are configured.
func DefaultAllowedFileExtensions() AllowedFileExtensions {
	return AllowedFileExtensions{
		Image: []string{"jpg", "jpeg", "png", "webp"},
		Audio: []string{"mp3", "ogg", "wav"},
		Video: []string{"mov", "mp4", "avi", "mkv"},
	}
}

// All returns every extension across categories.
func (a AllowedFileExtensions) All() []string {
	out := make([]string, 0, len(a.Image)+len(a.Audio)+len(a.Video))
	out = append(out, a.Image...)
	out = append(out, a.Audio...)
	return append(out, a.Video...)
}
