// Package export serializes materialized calendar events into the
// calendar-import file formats served to the client.
package export

import (
	"fmt"
	"strings"

	"github.com/course-exporter/backend/internal/schedule"
)

// csvHeader is the fixed 9-column header of the calendar-import CSV
// format.
var csvHeader = []string{
	"Subject", "Start Date", "Start Time", "End Date", "End Time",
	"All Day Event", "Description", "Location", "Private",
}

// EncodeCSV renders events as calendar-import CSV. Every data field is
// wrapped in double quotes with embedded quotes doubled; dates are
// MM/DD/YYYY and times 12-hour. Fields arrive already sanitized from
// materialization and are not re-sanitized here.
func EncodeCSV(events []schedule.CalendarEvent) string {
	var b strings.Builder
	b.WriteString(strings.Join(csvHeader, ","))
	b.WriteString("\n")

	for _, e := range events {
		date := e.Date.Format("01/02/2006")
		fields := []string{
			e.Subject,
			date,
			schedule.Format12Hour(e.StartTime),
			date,
			schedule.Format12Hour(e.EndTime),
			"False",
			e.Description,
			e.Location,
			"False",
		}
		for i, f := range fields {
			if i > 0 {
				b.WriteString(",")
			}
			b.WriteString(quoteField(f))
		}
		b.WriteString("\n")
	}
	return b.String()
}

// quoteField applies RFC-4180-style quoting: the value is wrapped in
// double quotes and literal quotes are doubled.
func quoteField(s string) string {
	return `"` + strings.ReplaceAll(s, `"`, `""`) + `"`
}

// CSVFilename is the download filename convention for a given academic
// year.
func CSVFilename(year string) string {
	return fmt.Sprintf("concordia-schedule-%s.csv", year)
}
