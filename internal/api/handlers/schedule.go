package handlers

import (
	"encoding/json"
	"fmt"
	"net/http"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/mux"

	"github.com/course-exporter/backend/internal/api/middleware"
	"github.com/course-exporter/backend/internal/catalog"
	"github.com/course-exporter/backend/internal/export"
	"github.com/course-exporter/backend/internal/schedule"
	"github.com/course-exporter/backend/internal/websocket"
)

// termPattern is the external term-code contract: four-digit year plus
// a session digit.
var termPattern = regexp.MustCompile(`^\d{4}[124]$`)

// GenerateScheduleRequest is the batch lookup input. Courses is kept
// raw so array-ness can be validated before decoding.
type GenerateScheduleRequest struct {
	Courses json.RawMessage `json:"courses"`
}

// GenerateScheduleResponse carries the normalized courses plus
// per-course outcomes. NotFound lists courses the catalog does not
// know, distinct from courses that normalized to zero sections.
type GenerateScheduleResponse struct {
	RequestID string            `json:"request_id"`
	Courses   []schedule.Course `json:"courses"`
	NotFound  []string          `json:"not_found"`
	Errors    map[string]string `json:"errors,omitempty"`
}

// GenerateSchedule looks up each requested course in the catalog,
// normalizes the raw records, and returns the canonical course models.
// One course failing never aborts the rest of the batch; progress is
// broadcast over the WebSocket hub as the batch advances.
func GenerateSchedule(client *catalog.Client, hub *websocket.Hub) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req GenerateScheduleRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			middleware.WriteError(w, http.StatusBadRequest, middleware.ErrBadRequest, "Invalid request body")
			return
		}
		infos, err := decodeCourseInfos(req.Courses)
		if err != nil {
			middleware.WriteError(w, http.StatusBadRequest, middleware.ErrValidation, err.Error())
			return
		}

		requestID := uuid.NewString()
		broadcaster := websocket.NewBroadcaster(hub)
		broadcaster.GenerationStarted(requestID, len(infos))

		response := GenerateScheduleResponse{
			RequestID: requestID,
			Courses:   []schedule.Course{},
			NotFound:  []string{},
			Errors:    map[string]string{},
		}

		for i, info := range infos {
			code := schedule.NormalizeCourseCode(info.Code, "", "")
			if code == "" {
				response.Errors[info.Code] = "unrecognized course code"
				broadcaster.GenerationError(requestID, info.Code, fmt.Errorf("unrecognized course code"))
				continue
			}
			subject, catalogNum, _ := strings.Cut(code, " ")

			records, err := client.Records(r.Context(), subject, catalogNum)
			if err != nil {
				response.Errors[code] = err.Error()
				broadcaster.GenerationError(requestID, code, err)
				continue
			}
			if records == nil {
				response.NotFound = append(response.NotFound, code)
				broadcaster.GenerationProgress(requestID, code, i+1, len(infos))
				continue
			}

			for _, course := range schedule.NormalizeCourses(records) {
				course.Sections = selectSections(course.Sections, info.Section)
				response.Courses = append(response.Courses, course)
			}
			broadcaster.GenerationProgress(requestID, code, i+1, len(infos))
		}

		broadcaster.GenerationCompleted(requestID, len(response.Courses), len(response.NotFound), len(response.Errors))
		if len(response.Errors) == 0 {
			response.Errors = nil
		}

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(response)
	}
}

// selectSections narrows a course to the student's enrolled section
// when one was requested. Component sections share the lecture label
// prefix (lecture "A", tutorial "AA"), so prefix matching keeps the
// whole group. An unmatched label keeps every section rather than
// silently losing the course.
func selectSections(sections []schedule.Section, label string) []schedule.Section {
	label = strings.ToUpper(strings.TrimSpace(label))
	if label == "" {
		return sections
	}
	var matched []schedule.Section
	for _, s := range sections {
		if strings.HasPrefix(strings.ToUpper(s.Section), label) {
			matched = append(matched, s)
		}
	}
	if len(matched) == 0 {
		return sections
	}
	return matched
}

// decodeCourseInfos validates that the payload is a JSON array before
// decoding it, per the malformed-input contract.
func decodeCourseInfos(raw json.RawMessage) ([]CourseInfo, error) {
	trimmed := strings.TrimSpace(string(raw))
	if trimmed == "" || trimmed == "null" || trimmed[0] != '[' {
		return nil, fmt.Errorf("courses must be a JSON array")
	}
	var infos []CourseInfo
	if err := json.Unmarshal(raw, &infos); err != nil {
		return nil, fmt.Errorf("courses must be an array of {code, section, term} objects")
	}
	return infos, nil
}

// SemesterInfo selects the materialization window: either an explicit
// date range or a 5-character term code. Breaks override the default
// break table when present (an empty array disables breaks entirely).
type SemesterInfo struct {
	Term      string       `json:"term"`
	StartDate string       `json:"startDate"`
	EndDate   string       `json:"endDate"`
	Breaks    []BreakRange `json:"breaks"`
}

// BreakRange is one caller-supplied break, dates in YYYY-MM-DD form.
type BreakRange struct {
	Start string `json:"start"`
	End   string `json:"end"`
}

// GenerateCSVRequest is the export input: canonical courses (as
// returned by generate-schedule) plus the semester info.
type GenerateCSVRequest struct {
	Courses  json.RawMessage `json:"courses"`
	Semester SemesterInfo    `json:"semester"`
}

// GenerateCSV materializes the submitted courses over the semester
// window and returns the calendar-import CSV as an attachment.
func GenerateCSV() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		courses, window, year, ok := decodeExportRequest(w, r)
		if !ok {
			return
		}

		events := schedule.MaterializeAll(courses, window)
		csv := export.EncodeCSV(events)

		w.Header().Set("Content-Type", "text/csv; charset=utf-8")
		w.Header().Set("Content-Disposition", "attachment; filename="+export.CSVFilename(year))
		w.Write([]byte(csv))
	}
}

// GenerateICS is the iCalendar counterpart of GenerateCSV.
func GenerateICS() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		courses, window, year, ok := decodeExportRequest(w, r)
		if !ok {
			return
		}

		events := schedule.MaterializeAll(courses, window)
		ical := export.EncodeICS(events)

		w.Header().Set("Content-Type", "text/calendar; charset=utf-8")
		w.Header().Set("Content-Disposition", "attachment; filename="+export.ICSFilename(year))
		w.Write([]byte(ical))
	}
}

// decodeExportRequest decodes and validates the shared export input,
// writing the error response itself when validation fails.
func decodeExportRequest(w http.ResponseWriter, r *http.Request) ([]schedule.Course, schedule.SemesterWindow, string, bool) {
	var req GenerateCSVRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		middleware.WriteError(w, http.StatusBadRequest, middleware.ErrBadRequest, "Invalid request body")
		return nil, schedule.SemesterWindow{}, "", false
	}

	trimmed := strings.TrimSpace(string(req.Courses))
	if trimmed == "" || trimmed == "null" || trimmed[0] != '[' {
		middleware.WriteError(w, http.StatusBadRequest, middleware.ErrValidation, "courses must be a JSON array")
		return nil, schedule.SemesterWindow{}, "", false
	}
	var courses []schedule.Course
	if err := json.Unmarshal(req.Courses, &courses); err != nil {
		middleware.WriteError(w, http.StatusBadRequest, middleware.ErrValidation, "courses must be an array of canonical course objects")
		return nil, schedule.SemesterWindow{}, "", false
	}

	window, year, err := buildWindow(req.Semester)
	if err != nil {
		middleware.WriteError(w, http.StatusBadRequest, middleware.ErrValidation, err.Error())
		return nil, schedule.SemesterWindow{}, "", false
	}
	return courses, window, year, true
}

// buildWindow resolves SemesterInfo into a concrete window. Explicit
// dates win over the term code.
func buildWindow(info SemesterInfo) (schedule.SemesterWindow, string, error) {
	var window schedule.SemesterWindow

	switch {
	case info.StartDate != "" && info.EndDate != "":
		start, err := time.Parse("2006-01-02", info.StartDate)
		if err != nil {
			return window, "", fmt.Errorf("startDate must be YYYY-MM-DD: %w", err)
		}
		end, err := time.Parse("2006-01-02", info.EndDate)
		if err != nil {
			return window, "", fmt.Errorf("endDate must be YYYY-MM-DD: %w", err)
		}
		if end.Before(start) {
			return window, "", fmt.Errorf("endDate precedes startDate")
		}
		window = schedule.SemesterWindow{StartDate: start, EndDate: end, Breaks: schedule.DefaultBreaks}

	case info.Term != "":
		if !termPattern.MatchString(info.Term) {
			return window, "", fmt.Errorf("term must match YYYYS with session 1, 2 or 4")
		}
		var err error
		window, err = schedule.WindowFromTerm(info.Term)
		if err != nil {
			return window, "", err
		}

	default:
		return window, "", fmt.Errorf("semester requires either term or startDate and endDate")
	}

	if info.Breaks != nil {
		breaks := make([]schedule.DateRange, 0, len(info.Breaks))
		for _, b := range info.Breaks {
			start, err := time.Parse("2006-01-02", b.Start)
			if err != nil {
				return window, "", fmt.Errorf("break start must be YYYY-MM-DD: %w", err)
			}
			end, err := time.Parse("2006-01-02", b.End)
			if err != nil {
				return window, "", fmt.Errorf("break end must be YYYY-MM-DD: %w", err)
			}
			breaks = append(breaks, schedule.DateRange{Start: start, End: end})
		}
		window.Breaks = breaks
	}

	year := strconv.Itoa(window.StartDate.Year())
	return window, year, nil
}

// GetCourse returns the canonical model for a single course. 404 means
// the catalog does not know the course; a known course with zero valid
// sections returns an empty array.
func GetCourse(client *catalog.Client) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		vars := mux.Vars(r)
		subject := strings.ToUpper(vars["subject"])
		catalogNum := strings.ToUpper(vars["catalog"])

		records, err := client.Records(r.Context(), subject, catalogNum)
		if err != nil {
			middleware.WriteError(w, http.StatusBadGateway, middleware.ErrUpstream, "Catalog lookup failed")
			return
		}
		if records == nil {
			middleware.WriteError(w, http.StatusNotFound, middleware.ErrNotFound, "Course not found")
			return
		}

		courses := schedule.NormalizeCourses(records)
		if courses == nil {
			courses = []schedule.Course{}
		}

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(courses)
	}
}
