package schedule

import (
	"encoding/json"
	"reflect"
	"testing"
)

const catalogRecord = `{
	"code": "COMP 248",
	"title": "Object-Oriented Programming I",
	"description": "Introduction to programming.",
	"prerequisites": "MATH 204",
	"department": "Computer Science",
	"credits": "3.5",
	"sections": [
		{
			"section": "A",
			"componentCode": "LEC",
			"instructor": "Jane Doe",
			"location": "H-620",
			"capacity": "120",
			"enrolled": 98,
			"waitlist": 3,
			"schedule": [
				{"days": "MoWe", "startTime": "11:45", "endTime": "13:00", "location": "H-620", "type": "LEC"}
			]
		},
		{
			"section": "AA",
			"componentCode": "TUT",
			"schedule": [
				{"days": "Fr", "startTime": "0845", "endTime": "1035", "type": "TUT"}
			]
		}
	]
}`

func feedRow(section, component, start, end string, days ...string) string {
	row := map[string]any{
		"subject":            "SOEN",
		"catalog":            "287",
		"title":              "Web Programming",
		"section":            section,
		"componentCode":      component,
		"instructorName":     "John Roe",
		"roomCode":           "MB-210",
		"classStartTime":     start,
		"classEndTime":       end,
		"enrollmentCapacity": 80,
		"currentEnrollment":  75,
	}
	for _, d := range days {
		row[d] = true
	}
	b, _ := json.Marshal(row)
	return string(b)
}

func rawRecords(t *testing.T, records ...string) []json.RawMessage {
	t.Helper()
	out := make([]json.RawMessage, 0, len(records))
	for _, r := range records {
		out = append(out, json.RawMessage(r))
	}
	return out
}

func TestDetectShape(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want RecordShape
	}{
		{"catalog", catalogRecord, ShapeCatalog},
		{"feed", feedRow("U", "LEC", "13:15", "14:30", "monday"), ShapeScheduleFeed},
		{"feed by flag only", `{"subject":"SOEN","catalog":"287","section":"U","monday":false}`, ShapeScheduleFeed},
		{"unknown", `{"foo": "bar"}`, ShapeUnknown},
		{"invalid json", `{`, ShapeUnknown},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := DetectShape(json.RawMessage(tt.raw)); got != tt.want {
				t.Errorf("DetectShape = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestNormalizeCoursesCatalogShape(t *testing.T) {
	courses := NormalizeCourses(rawRecords(t, catalogRecord))
	if len(courses) != 1 {
		t.Fatalf("got %d courses, want 1", len(courses))
	}
	c := courses[0]

	if c.Code != "COMP 248" {
		t.Errorf("Code = %q", c.Code)
	}
	if c.Credits != 3.5 {
		t.Errorf("Credits = %v", c.Credits)
	}
	if len(c.Sections) != 2 {
		t.Fatalf("got %d sections, want 2", len(c.Sections))
	}

	lec := c.Sections[0]
	if lec.Section != "A" || lec.Component != "LEC" {
		t.Errorf("section identity = %q/%q", lec.Section, lec.Component)
	}
	if lec.Capacity != 120 || lec.Enrolled != 98 || lec.Waitlist != 3 {
		t.Errorf("counts = %d/%d/%d", lec.Capacity, lec.Enrolled, lec.Waitlist)
	}
	if len(lec.Schedule) != 1 {
		t.Fatalf("lecture meetings = %d", len(lec.Schedule))
	}
	m := lec.Schedule[0]
	if !reflect.DeepEqual(m.Days, []int{0, 2}) || m.StartTime != "11:45" || m.EndTime != "13:00" || m.Type != Lecture {
		t.Errorf("unexpected meeting: %+v", m)
	}

	tut := c.Sections[1]
	if tut.Schedule[0].StartTime != "08:45" || tut.Schedule[0].Type != Tutorial {
		t.Errorf("unexpected tutorial meeting: %+v", tut.Schedule[0])
	}
}

func TestNormalizeCoursesFeedShape(t *testing.T) {
	records := rawRecords(t,
		feedRow("A", "LEC", "10:15", "11:30", "monday", "wednesday"),
		// Same section key again: accumulates a meeting, no duplicate section
		feedRow("A", "LEC", "10:15", "11:30", "friday"),
		feedRow("AA", "TUT", "14:45:00", "16:00:00", "thursday"),
	)
	courses := NormalizeCourses(records)
	if len(courses) != 1 {
		t.Fatalf("got %d courses, want 1", len(courses))
	}
	c := courses[0]
	if c.Code != "SOEN 287" {
		t.Errorf("Code = %q", c.Code)
	}
	if len(c.Sections) != 2 {
		t.Fatalf("got %d sections, want 2: %+v", len(c.Sections), c.Sections)
	}

	lec := c.Sections[0]
	if len(lec.Schedule) != 2 {
		t.Fatalf("lecture meetings = %d, want 2", len(lec.Schedule))
	}
	if !reflect.DeepEqual(lec.Schedule[0].Days, []int{0, 2}) {
		t.Errorf("first meeting days = %v", lec.Schedule[0].Days)
	}
	if !reflect.DeepEqual(lec.Schedule[1].Days, []int{4}) {
		t.Errorf("second meeting days = %v", lec.Schedule[1].Days)
	}

	tut := c.Sections[1]
	if tut.Schedule[0].StartTime != "14:45" || !reflect.DeepEqual(tut.Schedule[0].Days, []int{3}) {
		t.Errorf("unexpected tutorial meeting: %+v", tut.Schedule[0])
	}
}

func TestNormalizeCoursesDiscardsInvalid(t *testing.T) {
	records := rawRecords(t,
		// No section identifier: contributes nothing
		feedRow("", "LEC", "10:15", "11:30", "monday"),
		// Unparseable start time: meeting dropped, section left empty, discarded
		feedRow("B", "LEC", "25:00", "11:30", "monday"),
		// No day flags: meeting dropped
		feedRow("C", "LEC", "10:15", "11:30"),
		// Unknown shape: skipped
		`{"unrelated": true}`,
	)
	if courses := NormalizeCourses(records); len(courses) != 0 {
		t.Errorf("got %d courses, want 0: %+v", len(courses), courses)
	}
}

func TestNormalizeCoursesMergesCatalogAndFeed(t *testing.T) {
	catalogOnly := `{"subject": "SOEN", "catalog": "287", "title": "Web Programming", "description": "Building web apps.", "credits": 3, "sections": []}`
	records := rawRecords(t,
		catalogOnly,
		feedRow("A", "LEC", "10:15", "11:30", "tuesday"),
	)
	courses := NormalizeCourses(records)
	if len(courses) != 1 {
		t.Fatalf("got %d courses, want 1", len(courses))
	}
	c := courses[0]
	if c.Description == "" {
		t.Error("catalog description not merged")
	}
	if len(c.Sections) != 1 {
		t.Errorf("got %d sections, want 1", len(c.Sections))
	}
}

func TestNormalizeCoursesIdempotent(t *testing.T) {
	records := rawRecords(t,
		catalogRecord,
		feedRow("A", "LEC", "10:15", "11:30", "monday", "wednesday"),
	)
	first := NormalizeCourses(records)
	second := NormalizeCourses(records)
	if !reflect.DeepEqual(first, second) {
		t.Errorf("normalization not idempotent:\nfirst:  %+v\nsecond: %+v", first, second)
	}
}

func TestNormalizeCourseCode(t *testing.T) {
	tests := []struct {
		code, subject, catalog string
		want                   string
	}{
		{"COMP 248", "", "", "COMP 248"},
		{"comp248", "", "", "COMP 248"},
		{"COMP-248", "", "", "COMP 248"},
		{"", "soen", "287", "SOEN 287"},
		{"ENGR 213A-", "", "", "ENGR 213A-"},
		{"", "", "", ""},
		{"not a code", "", "", ""},
	}
	for _, tt := range tests {
		if got := NormalizeCourseCode(tt.code, tt.subject, tt.catalog); got != tt.want {
			t.Errorf("NormalizeCourseCode(%q, %q, %q) = %q, want %q", tt.code, tt.subject, tt.catalog, got, tt.want)
		}
	}
}

func TestParseCourseList(t *testing.T) {
	if _, err := ParseCourseList(json.RawMessage(`{"not": "array"}`)); err == nil {
		t.Error("expected error for object input")
	}
	if _, err := ParseCourseList(json.RawMessage(`null`)); err == nil {
		t.Error("expected error for null input")
	}
	records, err := ParseCourseList(json.RawMessage(`[{"a":1}, {"b":2}]`))
	if err != nil || len(records) != 2 {
		t.Errorf("ParseCourseList = (%d records, %v)", len(records), err)
	}
}
