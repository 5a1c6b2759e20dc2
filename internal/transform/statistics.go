package transform

import (
	"errors"
	"fmt"
	"math"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/02loveslollipop/guardian-views/internal/models"
	"github.com/02loveslollipop/guardian-views/internal/textutil"
)

// ErrNoAlerts is returned when statistics are requested for an empty table
// or one where no row carries a readable detection date.
var ErrNoAlerts = errors.New("no alerts to summarize")

const windowMonths = 12

type datedRow struct {
	row   models.Row
	date  time.Time
	label string
}

func utcDate(year int, month time.Month, day int) time.Time {
	return time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
}

func rowDate(r models.Row, day int) (time.Time, bool) {
	idx, ok := yearMonth(r)
	if !ok {
		return time.Time{}, false
	}
	return utcDate(idx/12, time.Month(idx%12+1), day), true
}

func round2(f float64) float64 {
	return math.Round(f*100) / 100
}

// AlertsStatistics summarizes alert rows for the dashboard. When metadata
// is non-empty it defines the detection range and the provider list;
// otherwise both come from the rows. alertsPerMonth and hectaresPerMonth
// cover up to twelve months ending at the latest detection and hold running
// totals, not per-month values.
func AlertsStatistics(rows []models.Row, metadata []models.AlertsMetadata) (models.AlertsStatistics, error) {
	var stats models.AlertsStatistics
	if len(rows) == 0 {
		return stats, ErrNoAlerts
	}

	stats.Territory = textutil.CapitalizeFirst(rows[0].Text(colTerritoryName))
	stats.TypeOfAlerts = distinct(rows, func(r models.Row) (string, bool) {
		v := r.Value(colAlertType)
		if v == nil {
			return "", false
		}
		return strings.ReplaceAll(models.Text(v), "_", " "), true
	})

	dated := make([]datedRow, 0, len(rows))
	for _, r := range rows {
		d, ok := rowDate(r, 15)
		if !ok {
			continue
		}
		dated = append(dated, datedRow{row: r, date: d, label: monthYear(r)})
	}
	sort.SliceStable(dated, func(i, j int) bool { return dated[i].date.Before(dated[j].date) })

	var earliest, latest time.Time
	var earliestLabel, latestLabel string

	if len(metadata) > 0 {
		sorted := make([]models.AlertsMetadata, len(metadata))
		copy(sorted, metadata)
		sort.SliceStable(sorted, func(i, j int) bool {
			if sorted[i].Year == sorted[j].Year {
				return sorted[i].Month < sorted[j].Month
			}
			return sorted[i].Year < sorted[j].Year
		})
		first, last := sorted[0], sorted[len(sorted)-1]
		earliest = utcDate(first.Year, time.Month(first.Month), 1)
		latest = utcDate(last.Year, time.Month(last.Month), 28)
		earliestLabel = fmt.Sprintf("%02d-%d", first.Month, first.Year)
		latestLabel = fmt.Sprintf("%02d-%d", last.Month, last.Year)

		seen := make(map[string]struct{})
		stats.DataProviders = []string{}
		for _, m := range metadata {
			if _, ok := seen[m.AlertSource]; ok {
				continue
			}
			seen[m.AlertSource] = struct{}{}
			stats.DataProviders = append(stats.DataProviders, m.AlertSource)
		}
	} else {
		if len(dated) == 0 {
			return stats, ErrNoAlerts
		}
		first, last := dated[0], dated[len(dated)-1]
		earliest = utcDate(first.date.Year(), first.date.Month(), 1)
		latest = utcDate(last.date.Year(), last.date.Month(), 28)
		earliestLabel, latestLabel = first.label, last.label

		stats.DataProviders = distinct(rows, func(r models.Row) (string, bool) {
			v := provider(r)
			if v == nil {
				return "", false
			}
			return models.Text(v), true
		})
	}

	stats.AllDates = []string{}
	seenDates := make(map[string]struct{})
	for _, d := range dated {
		if _, ok := seenDates[d.label]; ok {
			continue
		}
		seenDates[d.label] = struct{}{}
		stats.AllDates = append(stats.AllDates, d.label)
	}

	twelveMonthsBefore := latest.AddDate(-1, 0, 0)

	window := make([]datedRow, 0, len(dated))
	for _, d := range dated {
		first := utcDate(d.date.Year(), d.date.Month(), 1)
		if !first.Before(twelveMonthsBefore) && !first.After(latest) {
			window = append(window, d)
		}
	}

	months := chartMonths(earliest, latest)
	stats.AlertsPerMonth = cumulative(months, window, func(datedRow) float64 { return 1 })
	stats.HectaresPerMonth = cumulative(months, window, func(d datedRow) float64 {
		return areaValue(d.row.Value(colArea))
	})

	stats.RecentAlertsDate = "N/A"
	if len(window) > 0 {
		stats.RecentAlertsDate = window[len(window)-1].label
	}
	for _, r := range rows {
		if monthYear(r) == stats.RecentAlertsDate {
			stats.RecentAlertsNumber++
		}
	}

	total := 0.0
	for _, r := range rows {
		total += areaValue(r.Value(colArea))
	}

	stats.AlertDetectionRange = earliestLabel + " to " + latestLabel
	stats.EarliestAlertsDate = earliestLabel
	stats.AlertsTotal = len(rows)
	stats.HectaresTotal = strconv.FormatFloat(total, 'f', 2, 64)
	stats.TwelveMonthsBefore = fmt.Sprintf("%d-%d", int(twelveMonthsBefore.Month()), twelveMonthsBefore.Year())
	return stats, nil
}

// chartMonths walks back from the latest month one month at a time and
// keeps the labels that fall inside [earliest, latest], oldest first.
func chartMonths(earliest, latest time.Time) []string {
	months := make([]string, 0, windowMonths)
	current := utcDate(latest.Year(), latest.Month(), 15)
	for i := 0; i < windowMonths; i++ {
		if i > 0 {
			current = current.AddDate(0, -1, 0)
		}
		if !current.Before(earliest) && !current.After(latest) {
			months = append(months, fmt.Sprintf("%02d-%d", int(current.Month()), current.Year()))
		}
	}
	for i, j := 0, len(months)-1; i < j; i, j = i+1, j-1 {
		months[i], months[j] = months[j], months[i]
	}
	return months
}

func cumulative(months []string, window []datedRow, value func(datedRow) float64) models.MonthlySeries {
	series := make(models.MonthlySeries, 0, len(months))
	running := 0.0
	for _, m := range months {
		for _, d := range window {
			if d.label == m {
				running += value(d)
			}
		}
		series = append(series, models.MonthValue{Month: m, Value: round2(running)})
	}
	return series
}

// areaValue reads an area column, treating anything non-numeric as zero.
func areaValue(v any) float64 {
	if s, ok := v.(string); ok {
		f, err := strconv.ParseFloat(leadingNumber(s), 64)
		if err != nil {
			return 0
		}
		return f
	}
	if v == nil {
		return 0
	}
	f := models.Number(v)
	if math.IsNaN(f) {
		return 0
	}
	return f
}

// leadingNumber returns the longest numeric prefix of s, so "3.5 ha" reads as 3.5.
func leadingNumber(s string) string {
	s = strings.TrimSpace(s)
	end := 0
	seenDot, seenDigit := false, false
	for i, c := range s {
		switch {
		case c >= '0' && c <= '9':
			seenDigit = true
			end = i + 1
		case c == '.' && !seenDot:
			seenDot = true
		case (c == '-' || c == '+') && i == 0:
		default:
			if !seenDigit {
				return ""
			}
			return s[:end]
		}
	}
	if !seenDigit {
		return ""
	}
	return s[:end]
}

func distinct(rows []models.Row, pick func(models.Row) (string, bool)) []string {
	out := []string{}
	seen := make(map[string]struct{})
	for _, r := range rows {
		v, ok := pick(r)
		if !ok {
			continue
		}
		if _, dup := seen[v]; dup {
			continue
		}
		seen[v] = struct{}{}
		out = append(out, v)
	}
	return out
}
