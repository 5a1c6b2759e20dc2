// Package testhelpers provides shared row fixtures for package tests.
package testhelpers

import "github.com/02loveslollipop/guardian-views/internal/models"

// MapeoRows returns three Mapeo observations. The first has no coordinates
// but carries photo attachments; the other two are plain located points.
func MapeoRows() []models.Row {
	return []models.Row{
		models.NewRow(
			"_id", "a1b2c3d4e5f6g7h8",
			"g__type", "Point",
			"g__coordinates", "",
			"p__categoryid", "house",
			"p___created", "2024-03-09T16:28:23.780Z",
			"p___modified", "2024-03-09T16:30:00.000Z",
			"p__notes", "Two_story;red roof",
			"p___photos", "['a1b2c3.jpg', 'd4e5f6.jpg']",
			"p__activity", "building",
			"p__aeroway", nil,
		),
		models.NewRow(
			"_id", "f0e1d2c3b4a59687",
			"g__type", "Point",
			"g__coordinates", "[-4.9876543, 83.1234567]",
			"p__categoryid", "lake",
			"p___created", "2023-11-21T08:00:00.000Z",
			"p___modified", "2023-11-21T08:10:00.000Z",
			"p__notes", "clear water",
			"p___photos", "[]",
			"p__activity", "fishing",
			"p__aeroway", nil,
		),
		models.NewRow(
			"_id", "e9f8a7b6c5d4e3f2",
			"g__type", "Point",
			"g__coordinates", "[-14.6543210, 89.8765432]",
			"p__categoryid", "forest",
			"p___created", "2023-10-02T12:00:00.000Z",
			"p___modified", "2023-10-02T12:05:00.000Z",
			"p__notes", "old-growth stand",
			"p___photos", "[]",
			"p__activity", "hunting",
			"p__aeroway", nil,
		),
	}
}

// AlertRows returns three change detection alerts: one from January 2023
// and two from January 2024, 6.96 hectares in total.
func AlertRows() []models.Row {
	return []models.Row{
		models.NewRow(
			"_id", "abcd1234",
			"alert_source", "alerts_provider",
			"alert_type", "gold_mining",
			"area_alert_ha", "3.37",
			"confidence", 1.0,
			"date_start_t1", "2023-01-01",
			"date_end_t1", "2023-01-31",
			"g__coordinates", "[[[-54.1, 3.2], [-54.0, 3.2], [-54.0, 3.3], [-54.1, 3.2]]]",
			"g__type", "Polygon",
			"month_detec", "1",
			"year_detec", "2023",
			"sat_detect_prefix", "S1",
			"sat_viz_prefix", "S2",
			"territory_id", "100",
			"territory_name", "mountain valley",
		),
		models.NewRow(
			"_id", "efgh5678",
			"alert_source", "alerts_provider",
			"alert_type", "wildlife_trafficking",
			"area_alert_ha", 1.5,
			"confidence", 1.0,
			"date_start_t1", "2024-01-01",
			"date_end_t1", "2024-01-31",
			"g__coordinates", "[[[-54.2, 3.1], [-54.0, 3.1], [-54.0, 3.3], [-54.2, 3.1]]]",
			"g__type", "Polygon",
			"month_detec", "01",
			"year_detec", "2024",
			"sat_detect_prefix", "L8",
			"sat_viz_prefix", "S2",
			"territory_id", "100",
			"territory_name", "mountain valley",
		),
		models.NewRow(
			"_id", "ijkl9012",
			"alert_source", "alerts_provider",
			"alert_type", "gold_mining",
			"area_alert_ha", 2.09,
			"confidence", nil,
			"date_start_t1", "2024-01-05",
			"date_end_t1", "2024-01-28",
			"g__coordinates", "[[[[-54.3, 3.0], [-54.1, 3.0], [-54.1, 3.2], [-54.3, 3.0]]]]",
			"g__type", "MultiPolygon",
			"month_detec", "01",
			"year_detec", "2024",
			"sat_detect_prefix", "XX",
			"sat_viz_prefix", "S2",
			"territory_id", "100",
			"territory_name", "mountain valley",
		),
	}
}

// AlertsMetadata returns monthly summaries spanning 01-2023 to 01-2024,
// deliberately out of order.
func AlertsMetadata() []models.AlertsMetadata {
	return []models.AlertsMetadata{
		{AlertSource: "alerts_provider", TypeAlert: "gold_mining", Month: 1, Year: 2024, TotalAlerts: 2, DescriptionAlerts: "gold mining"},
		{AlertSource: "alerts_provider", TypeAlert: "gold_mining", Month: 1, Year: 2023, TotalAlerts: 1, DescriptionAlerts: "gold mining"},
	}
}
