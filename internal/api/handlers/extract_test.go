package handlers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func TestExtractCourses(t *testing.T) {
	page := `<html><body>
		<table>
			<tr><td>COMP 248 (A)</td><td>Lecture</td></tr>
			<tr><td>COMP 248 (A)</td><td>Tutorial</td></tr>
			<tr><td>SOEN 287 (BB)</td><td>Lecture</td></tr>
			<tr><td>ENGR 213A-</td><td>Lecture</td></tr>
		</table>
	</body></html>`

	body, _ := json.Marshal(ExtractRequest{HTML: page, Term: "20251"})
	req := httptest.NewRequest(http.MethodPost, "/api/extract-courses", strings.NewReader(string(body)))
	rec := httptest.NewRecorder()

	ExtractCourses()(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body %s", rec.Code, rec.Body.String())
	}
	var resp ExtractResponse
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatalf("decoding response: %v", err)
	}

	want := []CourseInfo{
		{Code: "COMP 248", Section: "A", Term: "20251"},
		{Code: "SOEN 287", Section: "BB", Term: "20251"},
		{Code: "ENGR 213A-", Section: "", Term: "20251"},
	}
	if len(resp.Courses) != len(want) {
		t.Fatalf("got %d courses, want %d: %+v", len(resp.Courses), len(want), resp.Courses)
	}
	for i, c := range resp.Courses {
		if c != want[i] {
			t.Errorf("course %d = %+v, want %+v", i, c, want[i])
		}
	}
}

func TestExtractCoursesAdjacentCellText(t *testing.T) {
	// Adjacent cells concatenate with no separator in the extracted
	// text; the code suffix must not absorb the next word's initial.
	page := `<table><tr><td>ENGR 213A-</td><td>Lecture</td></tr></table>`
	body, _ := json.Marshal(ExtractRequest{HTML: page, Term: "20251"})
	req := httptest.NewRequest(http.MethodPost, "/api/extract-courses", strings.NewReader(string(body)))
	rec := httptest.NewRecorder()

	ExtractCourses()(rec, req)

	var resp ExtractResponse
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatalf("decoding response: %v", err)
	}
	if len(resp.Courses) != 1 || resp.Courses[0].Code != "ENGR 213A-" {
		t.Errorf("courses = %+v, want just ENGR 213A-", resp.Courses)
	}
}

func TestExtractCoursesRejectsEmptyHTML(t *testing.T) {
	req := httptest.NewRequest(http.MethodPost, "/api/extract-courses", strings.NewReader(`{"html": "  ", "term": "20251"}`))
	rec := httptest.NewRecorder()

	ExtractCourses()(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", rec.Code)
	}
}

func TestExtractCoursesRejectsBadJSON(t *testing.T) {
	req := httptest.NewRequest(http.MethodPost, "/api/extract-courses", strings.NewReader(`{bad`))
	rec := httptest.NewRecorder()

	ExtractCourses()(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", rec.Code)
	}
}
