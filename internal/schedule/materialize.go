package schedule

import (
	"fmt"
	"sort"
	"strconv"
	"time"
)

// DefaultBreaks covers the holiday and winter reading-week periods for
// the 2023-24 and 2024-25 academic years. Used only when a request
// supplies no break ranges of its own.
var DefaultBreaks = []DateRange{
	{Start: day(2023, 12, 24), End: day(2024, 1, 6)},
	{Start: day(2024, 2, 25), End: day(2024, 3, 2)},
	{Start: day(2024, 12, 23), End: day(2025, 1, 5)},
	{Start: day(2025, 2, 23), End: day(2025, 3, 1)},
}

func day(year int, month time.Month, d int) time.Time {
	return time.Date(year, month, d, 0, 0, 0, 0, time.UTC)
}

// WeekdayIndex maps a date to the Monday-first weekday index used
// throughout the pipeline (0=Monday .. 6=Sunday).
func WeekdayIndex(t time.Time) int {
	return (int(t.Weekday()) + 6) % 7
}

// WindowFromTerm derives a semester window from a 5-character term code:
// four-digit year plus a session digit (1=Fall, 2=Winter, 4=Summer).
// Any other session digit falls back to the full calendar year. Breaks
// default to DefaultBreaks.
func WindowFromTerm(term string) (SemesterWindow, error) {
	if len(term) != 5 {
		return SemesterWindow{}, fmt.Errorf("term code must be 5 characters, got %q", term)
	}
	year, err := strconv.Atoi(term[:4])
	if err != nil {
		return SemesterWindow{}, fmt.Errorf("term code year %q: %w", term[:4], err)
	}

	var start, end time.Time
	switch term[4] {
	case '1': // Fall
		start, end = day(year, time.September, 1), day(year, time.December, 31)
	case '2': // Winter
		start, end = day(year, time.January, 1), day(year, time.April, 30)
	case '4': // Summer
		start, end = day(year, time.May, 1), day(year, time.August, 31)
	default:
		start, end = day(year, time.January, 1), day(year, time.December, 31)
	}
	return SemesterWindow{StartDate: start, EndDate: end, Breaks: DefaultBreaks}, nil
}

// Materialize expands every meeting of the section into one
// CalendarEvent per physical occurrence inside the window. Weekdays are
// iterated ascending and dates step in fixed 7-day increments, so the
// output is deterministic: identical inputs yield an identical ordered
// sequence. Occurrences inside a break range are skipped without
// disturbing the weekly cadence.
//
// Subject, Description and Location are snapshotted here and pass
// through SanitizeCSVField exactly once; the CSV encoder only quotes.
func Materialize(course Course, section Section, window SemesterWindow) []CalendarEvent {
	subject := SanitizeCSVField(course.Code + " - " + course.Title)
	instructor := section.Instructor
	if instructor == "" {
		instructor = "TBD"
	}

	var events []CalendarEvent
	for _, m := range section.Schedule {
		description := SanitizeCSVField(fmt.Sprintf("%s | %s | %g Credits | Instructor: %s",
			course.Code, m.Type, course.Credits, instructor))
		location := m.Location
		if location == "" {
			location = section.Location
		}
		location = SanitizeCSVField(location)

		days := append([]int(nil), m.Days...)
		sort.Ints(days)

		for _, weekday := range days {
			first := firstOnOrAfter(window.StartDate, weekday)
			for d := first; !d.After(window.EndDate); d = d.AddDate(0, 0, 7) {
				if window.InBreak(d) {
					continue
				}
				events = append(events, CalendarEvent{
					Subject:     subject,
					Description: description,
					Location:    location,
					Type:        m.Type,
					Instructor:  instructor,
					Section:     section.Section,
					Credits:     course.Credits,
					Department:  course.Department,
					Day:         weekday,
					Date:        d,
					StartTime:   m.StartTime,
					EndTime:     m.EndTime,
				})
			}
		}
	}
	return events
}

// MaterializeAll expands every section of every course, preserving the
// caller's course order so concurrent upstream processing cannot
// reorder the output.
func MaterializeAll(courses []Course, window SemesterWindow) []CalendarEvent {
	var events []CalendarEvent
	for _, c := range courses {
		for _, s := range c.Sections {
			events = append(events, Materialize(c, s, window)...)
		}
	}
	return events
}

// firstOnOrAfter returns the first date on or after start whose weekday
// matches the target index. A start date already on the target weekday
// is the first occurrence.
func firstOnOrAfter(start time.Time, weekday int) time.Time {
	offset := (weekday - WeekdayIndex(start) + 7) % 7
	return start.AddDate(0, 0, offset)
}
