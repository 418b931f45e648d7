package schedule

import (
	"encoding/json"
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

// RecordShape identifies which of the two supported raw record shapes a
// JSON record carries. Detection happens once per record, at the
// normalizer's entry point.
type RecordShape int

const (
	ShapeUnknown RecordShape = iota
	// ShapeCatalog is the nested listing shape: course fields plus
	// sections[].schedule[].
	ShapeCatalog
	// ShapeScheduleFeed is the flat per-row feed shape: each row is one
	// meeting-day fragment with its own section and component code and
	// seven boolean day flags.
	ShapeScheduleFeed
)

// shapeProbe holds just enough fields to tell the shapes apart.
type shapeProbe struct {
	Sections      json.RawMessage `json:"sections"`
	ComponentCode *string         `json:"componentCode"`
	Monday        *bool           `json:"monday"`
}

// DetectShape classifies a raw record. Records that look like neither
// shape are reported as ShapeUnknown and skipped by the normalizer.
func DetectShape(raw json.RawMessage) RecordShape {
	var probe shapeProbe
	if err := json.Unmarshal(raw, &probe); err != nil {
		return ShapeUnknown
	}
	if len(probe.Sections) > 0 && string(probe.Sections) != "null" {
		return ShapeCatalog
	}
	if probe.ComponentCode != nil || probe.Monday != nil {
		return ShapeScheduleFeed
	}
	return ShapeUnknown
}

// looseInt decodes a non-negative integer that the source may serve as
// a JSON number, a quoted string, or null. Anything unparseable
// defaults to 0.
type looseInt int

func (n *looseInt) UnmarshalJSON(b []byte) error {
	s := strings.Trim(strings.TrimSpace(string(b)), `"`)
	v, err := strconv.Atoi(s)
	if err != nil || v < 0 {
		*n = 0
		return nil
	}
	*n = looseInt(v)
	return nil
}

// looseFloat is the float counterpart of looseInt, used for credits.
type looseFloat float64

func (f *looseFloat) UnmarshalJSON(b []byte) error {
	s := strings.Trim(strings.TrimSpace(string(b)), `"`)
	v, err := strconv.ParseFloat(s, 64)
	if err != nil || v < 0 {
		*f = 0
		return nil
	}
	*f = looseFloat(v)
	return nil
}

// rawMeeting is one schedule entry inside the catalog shape.
type rawMeeting struct {
	Days      string `json:"days"`
	StartTime string `json:"startTime"`
	EndTime   string `json:"endTime"`
	Location  string `json:"location"`
	Type      string `json:"type"`
}

// rawSection is one section inside the catalog shape.
type rawSection struct {
	Section    string       `json:"section"`
	Component  string       `json:"componentCode"`
	Instructor string       `json:"instructor"`
	Location   string       `json:"location"`
	Capacity   looseInt     `json:"capacity"`
	Enrolled   looseInt     `json:"enrolled"`
	Waitlist   looseInt     `json:"waitlist"`
	Schedule   []rawMeeting `json:"schedule"`
}

// rawCatalogCourse is the nested listing shape.
type rawCatalogCourse struct {
	Code          string       `json:"code"`
	Subject       string       `json:"subject"`
	Catalog       string       `json:"catalog"`
	Title         string       `json:"title"`
	Description   string       `json:"description"`
	Prerequisites string       `json:"prerequisites"`
	Department    string       `json:"department"`
	Credits       looseFloat   `json:"credits"`
	Sections      []rawSection `json:"sections"`
}

// rawFeedRow is the flat schedule-feed shape. Day membership comes from
// the seven boolean flags, Monday first.
type rawFeedRow struct {
	Subject        string     `json:"subject"`
	Catalog        string     `json:"catalog"`
	Title          string     `json:"title"`
	Description    string     `json:"description"`
	Prerequisites  string     `json:"prerequisites"`
	Department     string     `json:"department"`
	Credits        looseFloat `json:"credits"`
	Section        string     `json:"section"`
	ComponentCode  string     `json:"componentCode"`
	InstructorName string     `json:"instructorName"`
	RoomCode       string     `json:"roomCode"`
	StartTime      string     `json:"classStartTime"`
	EndTime        string     `json:"classEndTime"`
	Monday         bool       `json:"monday"`
	Tuesday        bool       `json:"tuesday"`
	Wednesday      bool       `json:"wednesday"`
	Thursday       bool       `json:"thursday"`
	Friday         bool       `json:"friday"`
	Saturday       bool       `json:"saturday"`
	Sunday         bool       `json:"sunday"`
	Capacity       looseInt   `json:"enrollmentCapacity"`
	Enrolled       looseInt   `json:"currentEnrollment"`
	Waitlist       looseInt   `json:"waitlistCapacity"`
}

func (r rawFeedRow) dayFlags() []int {
	flags := [7]bool{r.Monday, r.Tuesday, r.Wednesday, r.Thursday, r.Friday, r.Saturday, r.Sunday}
	days := make([]int, 0, 7)
	for d, on := range flags {
		if on {
			days = append(days, d)
		}
	}
	return days
}

var courseCodePattern = regexp.MustCompile(`^([A-Za-z]{2,4})\s*-?\s*(\d{3}[A-Za-z-]*)$`)

// NormalizeCourseCode produces the canonical "SUBJ ###" form from either
// a combined code or separate subject/catalog fields. Empty result means
// the record carries no usable identity.
func NormalizeCourseCode(code, subject, catalog string) string {
	if code == "" && subject != "" && catalog != "" {
		code = subject + " " + catalog
	}
	m := courseCodePattern.FindStringSubmatch(strings.TrimSpace(code))
	if m == nil {
		return ""
	}
	return strings.ToUpper(m[1]) + " " + strings.ToUpper(m[2])
}

// courseBuilder accumulates sections for one course across records,
// deduplicating by (section label, component code).
type courseBuilder struct {
	course      Course
	sections    map[string]*Section
	sectionKeys []string
}

func sectionKey(label, component string) string {
	return strings.ToUpper(label) + "|" + strings.ToUpper(component)
}

func (b *courseBuilder) section(label, component string) *Section {
	key := sectionKey(label, component)
	if s, ok := b.sections[key]; ok {
		return s
	}
	s := &Section{Section: label, Component: strings.ToUpper(component)}
	b.sections[key] = s
	b.sectionKeys = append(b.sectionKeys, key)
	return s
}

func (b *courseBuilder) build() (Course, bool) {
	c := b.course
	for _, key := range b.sectionKeys {
		s := b.sections[key]
		if len(s.Schedule) == 0 {
			continue
		}
		c.Sections = append(c.Sections, *s)
	}
	if len(c.Sections) == 0 {
		return Course{}, false
	}
	return c, true
}

// NormalizeCourses turns a batch of raw records in either shape into
// canonical courses. Records without a usable course code or section
// identifier contribute nothing; sections left with no valid meetings
// are discarded; courses left with no valid sections are filtered out.
// The result order follows first appearance in the input. Record
// content never causes an error; bad records just yield no output.
func NormalizeCourses(records []json.RawMessage) []Course {
	builders := make(map[string]*courseBuilder)
	var order []string

	builderFor := func(code string) *courseBuilder {
		if b, ok := builders[code]; ok {
			return b
		}
		b := &courseBuilder{
			course:   Course{Code: code},
			sections: make(map[string]*Section),
		}
		builders[code] = b
		order = append(order, code)
		return b
	}

	for _, rec := range records {
		switch DetectShape(rec) {
		case ShapeCatalog:
			var raw rawCatalogCourse
			if err := json.Unmarshal(rec, &raw); err != nil {
				continue
			}
			code := NormalizeCourseCode(raw.Code, raw.Subject, raw.Catalog)
			if code == "" {
				continue
			}
			b := builderFor(code)
			applyCourseFields(&b.course, raw.Title, raw.Description, raw.Prerequisites, raw.Department, float64(raw.Credits))
			for _, rs := range raw.Sections {
				if strings.TrimSpace(rs.Section) == "" {
					continue
				}
				sec := b.section(strings.TrimSpace(rs.Section), rs.Component)
				sec.Instructor = SanitizeDisplay(rs.Instructor)
				sec.Location = SanitizeDisplay(rs.Location)
				sec.Capacity = int(rs.Capacity)
				sec.Enrolled = int(rs.Enrolled)
				sec.Waitlist = int(rs.Waitlist)
				for _, rm := range rs.Schedule {
					if m, ok := normalizeMeeting(ParseDays(rm.Days), rm.StartTime, rm.EndTime, rm.Location, rm.Type); ok {
						sec.Schedule = append(sec.Schedule, m)
					}
				}
			}

		case ShapeScheduleFeed:
			var row rawFeedRow
			if err := json.Unmarshal(rec, &row); err != nil {
				continue
			}
			code := NormalizeCourseCode("", row.Subject, row.Catalog)
			if code == "" || strings.TrimSpace(row.Section) == "" {
				continue
			}
			b := builderFor(code)
			applyCourseFields(&b.course, row.Title, row.Description, row.Prerequisites, row.Department, float64(row.Credits))
			sec := b.section(strings.TrimSpace(row.Section), row.ComponentCode)
			if sec.Instructor == "" {
				sec.Instructor = SanitizeDisplay(row.InstructorName)
			}
			if sec.Location == "" {
				sec.Location = SanitizeDisplay(row.RoomCode)
			}
			if sec.Capacity == 0 {
				sec.Capacity = int(row.Capacity)
			}
			if sec.Enrolled == 0 {
				sec.Enrolled = int(row.Enrolled)
			}
			if sec.Waitlist == 0 {
				sec.Waitlist = int(row.Waitlist)
			}
			if m, ok := normalizeMeeting(row.dayFlags(), row.StartTime, row.EndTime, row.RoomCode, row.ComponentCode); ok {
				sec.Schedule = append(sec.Schedule, m)
			}
		}
	}

	courses := make([]Course, 0, len(order))
	for _, code := range order {
		if c, ok := builders[code].build(); ok {
			courses = append(courses, c)
		}
	}
	return courses
}

// applyCourseFields fills course-level fields, keeping the first
// non-empty value seen for each.
func applyCourseFields(c *Course, title, description, prerequisites, department string, credits float64) {
	if c.Title == "" {
		c.Title = SanitizeDisplay(title)
	}
	if c.Description == "" {
		c.Description = SanitizeDisplay(description)
	}
	if c.Prerequisites == "" {
		c.Prerequisites = SanitizeDisplay(prerequisites)
	}
	if c.Department == "" {
		c.Department = SanitizeDisplay(department)
	}
	if c.Credits == 0 && credits > 0 {
		c.Credits = credits
	}
}

// normalizeMeeting validates one meeting fragment. A meeting is kept
// only when its day set is non-empty and both times parse.
func normalizeMeeting(days []int, start, end, location, classType string) (Meeting, bool) {
	if len(days) == 0 {
		return Meeting{}, false
	}
	startTime, ok := ParseTime(start)
	if !ok {
		return Meeting{}, false
	}
	endTime, ok := ParseTime(end)
	if !ok {
		return Meeting{}, false
	}
	return Meeting{
		Days:      days,
		StartTime: startTime,
		EndTime:   endTime,
		Location:  SanitizeDisplay(location),
		Type:      NormalizeClassType(classType),
	}, true
}

// ParseCourseList decodes the top-level JSON array of raw records,
// rejecting any other shape up front per the caller-input contract.
func ParseCourseList(raw json.RawMessage) ([]json.RawMessage, error) {
	trimmed := strings.TrimSpace(string(raw))
	if trimmed == "" || trimmed == "null" {
		return nil, fmt.Errorf("course records must be a JSON array")
	}
	if trimmed[0] != '[' {
		return nil, fmt.Errorf("course records must be a JSON array, got %q", trimmed[0])
	}
	var records []json.RawMessage
	if err := json.Unmarshal(raw, &records); err != nil {
		return nil, fmt.Errorf("decoding course records: %w", err)
	}
	return records, nil
}
