package export

import (
	"fmt"
	"time"

	ics "github.com/arran4/golang-ical"

	"github.com/course-exporter/backend/internal/schedule"
)

// EncodeICS renders events as an iCalendar document, the import format
// preferred by clients that reject CSV. Events whose canonical times
// fail to combine with their date are skipped rather than aborting the
// whole export.
func EncodeICS(events []schedule.CalendarEvent) string {
	cal := ics.NewCalendar()
	cal.SetMethod(ics.MethodPublish)
	cal.SetProductId("-//course-exporter//schedule//EN")

	for i, e := range events {
		start, okStart := combineDateTime(e.Date, e.StartTime)
		end, okEnd := combineDateTime(e.Date, e.EndTime)
		if !okStart || !okEnd {
			continue
		}

		uid := fmt.Sprintf("%s-%d@course-exporter", e.Date.Format("20060102"), i)
		ev := cal.AddEvent(uid)
		ev.SetDtStampTime(time.Now().UTC())
		ev.SetStartAt(start)
		ev.SetEndAt(end)
		ev.SetSummary(e.Subject)
		ev.SetDescription(e.Description)
		if e.Location != "" {
			ev.SetLocation(e.Location)
		}
	}
	return cal.Serialize()
}

// ICSFilename is the download filename convention for a given academic
// year.
func ICSFilename(year string) string {
	return fmt.Sprintf("concordia-schedule-%s.ics", year)
}

func combineDateTime(date time.Time, canonical string) (time.Time, bool) {
	t, err := time.Parse("15:04", canonical)
	if err != nil {
		return time.Time{}, false
	}
	return time.Date(date.Year(), date.Month(), date.Day(), t.Hour(), t.Minute(), 0, 0, date.Location()), true
}
