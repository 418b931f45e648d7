package export

import (
	"strings"
	"testing"
	"time"

	"github.com/course-exporter/backend/internal/schedule"
)

func TestEncodeICS(t *testing.T) {
	out := EncodeICS(sampleEvents())

	if !strings.Contains(out, "BEGIN:VCALENDAR") || !strings.Contains(out, "END:VCALENDAR") {
		t.Fatal("missing calendar envelope")
	}
	if got := strings.Count(out, "BEGIN:VEVENT"); got != 2 {
		t.Errorf("got %d events, want 2", got)
	}
	if !strings.Contains(out, "SUMMARY:COMP 248 - Object-Oriented Programming I") {
		t.Error("missing first event summary")
	}
	if !strings.Contains(out, "DTSTART:20250908T114500Z") {
		t.Error("missing first event start")
	}
	if !strings.Contains(out, "LOCATION:H-620") {
		t.Error("missing location")
	}
}

func TestEncodeICSSkipsUncombinableTimes(t *testing.T) {
	events := []schedule.CalendarEvent{
		{
			Subject:   "BAD 100 - Broken",
			Date:      time.Date(2025, time.September, 8, 0, 0, 0, 0, time.UTC),
			StartTime: "not-a-time",
			EndTime:   "13:00",
		},
	}
	out := EncodeICS(events)
	if strings.Contains(out, "BEGIN:VEVENT") {
		t.Error("event with unparseable time should be skipped")
	}
}

func TestICSFilename(t *testing.T) {
	if got := ICSFilename("2025"); got != "concordia-schedule-2025.ics" {
		t.Errorf("ICSFilename = %q", got)
	}
}
