package models

import (
	"bytes"

	"github.com/goccy/go-json"
)

// AlertsMetadata is one precomputed monthly summary row from a
// "<table>__metadata" companion table.
type AlertsMetadata struct {
	AlertSource       string  `json:"alert_source"`
	TypeAlert         string  `json:"type_alert"`
	Month             int     `json:"month"`
	Year              int     `json:"year"`
	TotalAlerts       float64 `json:"total_alerts"`
	DescriptionAlerts string  `json:"description_alerts"`
}

// MonthValue is one entry of a MonthlySeries.
type MonthValue struct {
	Month string
	Value float64
}

// MonthlySeries maps "MM-YYYY" labels to values, keeping insertion order
// so charts receive months in chronological order.
type MonthlySeries []MonthValue

// Get returns the value for month.
func (s MonthlySeries) Get(month string) (float64, bool) {
	for _, mv := range s {
		if mv.Month == month {
			return mv.Value, true
		}
	}
	return 0, false
}

// Months returns the labels in order.
func (s MonthlySeries) Months() []string {
	out := make([]string, len(s))
	for i, mv := range s {
		out[i] = mv.Month
	}
	return out
}

// MarshalJSON writes the series as an ordered JSON object.
func (s MonthlySeries) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, mv := range s {
		if i > 0 {
			buf.WriteByte(',')
		}
		kb, err := json.Marshal(mv.Month)
		if err != nil {
			return nil, err
		}
		buf.Write(kb)
		buf.WriteByte(':')
		vb, err := json.Marshal(mv.Value)
		if err != nil {
			return nil, err
		}
		buf.Write(vb)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// AlertsStatistics summarizes an alerts table for the dashboard header and charts.
type AlertsStatistics struct {
	Territory           string        `json:"territory"`
	TypeOfAlerts        []string      `json:"typeOfAlerts"`
	DataProviders       []string      `json:"dataProviders"`
	AlertDetectionRange string        `json:"alertDetectionRange"`
	AllDates            []string      `json:"allDates"`
	EarliestAlertsDate  string        `json:"earliestAlertsDate"`
	RecentAlertsDate    string        `json:"recentAlertsDate"`
	RecentAlertsNumber  int           `json:"recentAlertsNumber"`
	AlertsTotal         int           `json:"alertsTotal"`
	AlertsPerMonth      MonthlySeries `json:"alertsPerMonth"`
	HectaresTotal       string        `json:"hectaresTotal"`
	HectaresPerMonth    MonthlySeries `json:"hectaresPerMonth"`
	TwelveMonthsBefore  string        `json:"twelveMonthsBefore"`
}
