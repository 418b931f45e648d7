package handlers

import (
	"encoding/json"
	"net/http"
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/course-exporter/backend/internal/api/middleware"
)

// CourseInfo identifies one enrolled course spotted on a portal page.
type CourseInfo struct {
	Code    string `json:"code"`
	Section string `json:"section"`
	Term    string `json:"term"`
}

// coursePattern matches registrar course codes like "COMP 248" or
// "ENGR 213A-", optionally followed by a parenthesized section code.
// The suffix ends at a word boundary so that page text joined without
// separators ("ENGR 213A-Lecture") cannot leak a following word's
// initial into the code.
var coursePattern = regexp.MustCompile(`([A-Z]{4})\s(\d{3}[A-Z-]*\b-?)(?:\s*\(([A-Z]{1,2})\))?`)

// ExtractRequest carries a pasted portal page and the term it shows.
type ExtractRequest struct {
	HTML string `json:"html"`
	Term string `json:"term"`
}

// ExtractResponse lists the courses found on the page.
type ExtractResponse struct {
	Courses []CourseInfo `json:"courses"`
}

// ExtractCourses scans the visible text of a portal page for enrolled
// course codes. Duplicate code+section pairs are reported once, in
// page order.
func ExtractCourses() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req ExtractRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			middleware.WriteError(w, http.StatusBadRequest, middleware.ErrBadRequest, "Invalid request body")
			return
		}
		if strings.TrimSpace(req.HTML) == "" {
			middleware.WriteError(w, http.StatusBadRequest, middleware.ErrValidation, "html is required")
			return
		}

		doc, err := goquery.NewDocumentFromReader(strings.NewReader(req.HTML))
		if err != nil {
			middleware.WriteError(w, http.StatusBadRequest, middleware.ErrBadRequest, "Could not parse page HTML")
			return
		}

		text := doc.Find("body").Text()
		seen := make(map[string]bool)
		courses := []CourseInfo{}
		for _, m := range coursePattern.FindAllStringSubmatch(text, -1) {
			code := m[1] + " " + m[2]
			key := code + "|" + m[3]
			if seen[key] {
				continue
			}
			seen[key] = true
			courses = append(courses, CourseInfo{
				Code:    code,
				Section: m[3],
				Term:    req.Term,
			})
		}

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(ExtractResponse{Courses: courses})
	}
}
