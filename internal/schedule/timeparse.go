package schedule

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

// clockPattern accepts "H:MM" or "HH:MM", an optional seconds component
// (ignored), and an optional AM/PM marker.
var (
	clockPattern   = regexp.MustCompile(`^(\d{1,2}):(\d{2})(?::\d{2})?\s*([AP]M)?$`)
	compactPattern = regexp.MustCompile(`^(\d{2})(\d{2})$`)
)

// ParseTime converts a raw time string into canonical 24-hour "HH:MM"
// form. Accepted inputs: 4-digit "HHMM", "H:MM"/"HH:MM" with optional
// seconds and optional AM/PM (case-insensitive). The second return is
// false for any unrecognized shape; callers discard the meeting.
func ParseTime(raw string) (string, bool) {
	s := strings.ToUpper(strings.TrimSpace(raw))

	if m := compactPattern.FindStringSubmatch(s); m != nil {
		hour, _ := strconv.Atoi(m[1])
		minute, _ := strconv.Atoi(m[2])
		if hour > 23 || minute > 59 {
			return "", false
		}
		return fmt.Sprintf("%02d:%02d", hour, minute), true
	}

	m := clockPattern.FindStringSubmatch(s)
	if m == nil {
		return "", false
	}
	hour, _ := strconv.Atoi(m[1])
	minute, _ := strconv.Atoi(m[2])
	if minute > 59 {
		return "", false
	}

	switch m[3] {
	case "":
		if hour > 23 {
			return "", false
		}
	case "AM":
		if hour < 1 || hour > 12 {
			return "", false
		}
		if hour == 12 {
			hour = 0
		}
	case "PM":
		if hour < 1 || hour > 12 {
			return "", false
		}
		if hour != 12 {
			hour += 12
		}
	}
	return fmt.Sprintf("%02d:%02d", hour, minute), true
}

// Format12Hour renders a canonical "HH:MM" time in the 12-hour "H:MM AM"
// form the calendar CSV importer expects. Input is assumed canonical;
// anything else is returned unchanged.
func Format12Hour(canonical string) string {
	parts := strings.SplitN(canonical, ":", 2)
	if len(parts) != 2 {
		return canonical
	}
	hour, err := strconv.Atoi(parts[0])
	if err != nil || hour > 23 {
		return canonical
	}

	period := "AM"
	switch {
	case hour == 0:
		hour = 12
	case hour == 12:
		period = "PM"
	case hour > 12:
		hour -= 12
		period = "PM"
	}
	return fmt.Sprintf("%d:%s %s", hour, parts[1], period)
}

// dayPatterns maps source day tokens to weekday indices (0=Monday).
// Ordered longest-first so full names win over two-letter abbreviations
// and "Th" wins over "T". Single letters follow the registrar
// convention: Thursday=R, Sunday=U.
var dayPatterns = []struct {
	Token string
	Day   int
}{
	{"MONDAY", 0}, {"TUESDAY", 1}, {"WEDNESDAY", 2}, {"THURSDAY", 3},
	{"FRIDAY", 4}, {"SATURDAY", 5}, {"SUNDAY", 6},
	{"MO", 0}, {"TU", 1}, {"WE", 2}, {"TH", 3}, {"FR", 4}, {"SA", 5}, {"SU", 6},
	{"M", 0}, {"T", 1}, {"W", 2}, {"R", 3}, {"F", 4}, {"S", 5}, {"U", 6},
}

// ParseDays extracts weekday indices from a raw day string such as
// "MoWeFr", "TTh" or "Monday, Wednesday". The scan runs left to right,
// longest token first. Duplicates are suppressed and the result is
// sorted ascending; a string with no matches yields an empty set.
func ParseDays(raw string) []int {
	s := strings.ToUpper(strings.TrimSpace(raw))
	var seen [7]bool

	for i := 0; i < len(s); {
		advance := 1
		for _, p := range dayPatterns {
			if strings.HasPrefix(s[i:], p.Token) {
				seen[p.Day] = true
				advance = len(p.Token)
				break
			}
		}
		i += advance
	}

	days := make([]int, 0, 7)
	for d := 0; d < 7; d++ {
		if seen[d] {
			days = append(days, d)
		}
	}
	return days
}

// classTypeCodes is the closed table of recognized component codes.
var classTypeCodes = map[string]ClassType{
	"LEC": Lecture, "LECTURE": Lecture,
	"LAB": Laboratory, "LABORATORY": Laboratory,
	"TUT": Tutorial, "TUTORIAL": Tutorial,
	"SEM": Seminar, "SEMINAR": Seminar,
	"WOR": Workshop, "WORKSHOP": Workshop,
}

// NormalizeClassType maps a raw component code to its ClassType.
// Unknown or empty input defaults to Lecture, never an error.
func NormalizeClassType(raw string) ClassType {
	if t, ok := classTypeCodes[strings.ToUpper(strings.TrimSpace(raw))]; ok {
		return t
	}
	return Lecture
}
