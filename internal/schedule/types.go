// Package schedule contains the core pipeline that turns raw catalog
// records into canonical courses and expands them into per-occurrence
// calendar events. Everything in this package is pure in-memory
// transformation: no I/O, no shared state between calls.
package schedule

import "time"

// ClassType classifies a meeting. Unrecognized source codes normalize
// to Lecture.
type ClassType string

const (
	Lecture    ClassType = "Lecture"
	Laboratory ClassType = "Laboratory"
	Tutorial   ClassType = "Tutorial"
	Seminar    ClassType = "Seminar"
	Workshop   ClassType = "Workshop"
)

// Meeting is one weekly recurring time slot of a section. Days holds
// weekday indices (0=Monday .. 6=Sunday), sorted ascending. StartTime
// and EndTime are canonical 24-hour "HH:MM" strings; a meeting that
// failed time or day parsing is never stored.
type Meeting struct {
	Days      []int     `json:"days"`
	StartTime string    `json:"startTime"`
	EndTime   string    `json:"endTime"`
	Location  string    `json:"location"`
	Type      ClassType `json:"type"`
}

// Section is one offering instance of a course (e.g. lecture group A).
type Section struct {
	Section    string    `json:"section"`
	Component  string    `json:"component"`
	Instructor string    `json:"instructor"`
	Location   string    `json:"location"`
	Schedule   []Meeting `json:"schedule"`
	Capacity   int       `json:"capacity"`
	Enrolled   int       `json:"enrolled"`
	Waitlist   int       `json:"waitlist"`
}

// Course is one catalog course for one academic term. Code is the
// normalized "SUBJ ###" form.
type Course struct {
	Code          string    `json:"code"`
	Title         string    `json:"title"`
	Description   string    `json:"description"`
	Prerequisites string    `json:"prerequisites"`
	Department    string    `json:"department"`
	Credits       float64   `json:"credits"`
	Sections      []Section `json:"sections"`
}

// CalendarEvent is one physical occurrence of a meeting, snapshotted at
// materialization time. Mutating the owning Course or Section afterwards
// has no effect on already-materialized events.
type CalendarEvent struct {
	Subject     string    `json:"subject"`
	Description string    `json:"description"`
	Location    string    `json:"location"`
	Type        ClassType `json:"type"`
	Instructor  string    `json:"instructor"`
	Section     string    `json:"section"`
	Credits     float64   `json:"credits"`
	Department  string    `json:"department"`
	Day         int       `json:"day"`
	Date        time.Time `json:"date"`
	StartTime   string    `json:"startTime"`
	EndTime     string    `json:"endTime"`
}

// DateRange is an inclusive [Start, End] calendar-date range.
type DateRange struct {
	Start time.Time `json:"start"`
	End   time.Time `json:"end"`
}

// Contains reports whether d falls inside the range, boundaries included.
func (r DateRange) Contains(d time.Time) bool {
	return !d.Before(r.Start) && !d.After(r.End)
}

// SemesterWindow bounds a materialization run. Breaks suppress
// occurrences without breaking the weekly cadence. A window is built
// fresh per request and never shared.
type SemesterWindow struct {
	StartDate time.Time   `json:"startDate"`
	EndDate   time.Time   `json:"endDate"`
	Breaks    []DateRange `json:"breaks"`
}

// InBreak reports whether d falls inside any configured break range.
func (w SemesterWindow) InBreak(d time.Time) bool {
	for _, b := range w.Breaks {
		if b.Contains(d) {
			return true
		}
	}
	return false
}
