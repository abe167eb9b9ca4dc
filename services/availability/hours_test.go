package availability

import (
	"testing"
	"time"

	"bookpilot/models"
)

func TestParseOpeningPeriodsFromWeekdayText(t *testing.T) {
	hours := models.OpeningHours{WeekdayText: []string{
		"Monday: 8:00 - 18:00",
		"Friday: 9:00 - 14:30",
	}}

	periods := ParseOpeningPeriods(hours)
	if len(periods) != 2 {
		t.Fatalf("got %d periods, want 2", len(periods))
	}
	if periods[0].Weekday != int(time.Monday) || periods[0].OpenMinute != 480 || periods[0].CloseMinute != 1080 {
		t.Fatalf("monday period = %+v, want 480..1080", periods[0])
	}
	if periods[1].Weekday != int(time.Friday) || periods[1].OpenMinute != 540 || periods[1].CloseMinute != 870 {
		t.Fatalf("friday period = %+v, want 540..870", periods[1])
	}
}

func TestParseOpeningPeriodsPrefersStructured(t *testing.T) {
	hours := models.OpeningHours{
		Periods:     []models.OpeningPeriod{{Weekday: int(time.Tuesday), OpenMinute: 600, CloseMinute: 720}},
		WeekdayText: []string{"Monday: 8:00 - 18:00"},
	}

	periods := ParseOpeningPeriods(hours)
	if len(periods) != 1 || periods[0].Weekday != int(time.Tuesday) {
		t.Fatalf("structured periods must win over weekday text, got %+v", periods)
	}
}

func TestParseOpeningPeriodsSkipsUnparseableLines(t *testing.T) {
	hours := models.OpeningHours{WeekdayText: []string{
		"Monday: 8:00 - 18:00",
		"Sunday: Closed",
		"hours vary on holidays",
	}}

	periods := ParseOpeningPeriods(hours)
	if len(periods) != 1 {
		t.Fatalf("got %d periods, want 1 with unparseable lines skipped", len(periods))
	}
}

func TestWithinPeriods(t *testing.T) {
	periods := []models.OpeningPeriod{
		{Weekday: int(time.Monday), OpenMinute: 480, CloseMinute: 1080}, // 8:00-18:00
	}
	monday := time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC)

	cases := []struct {
		name  string
		start time.Time
		want  bool
	}{
		{"inside hours", monday.Add(9 * time.Hour), true},
		{"at opening", monday.Add(8 * time.Hour), true},
		{"before opening", monday.Add(7 * time.Hour), false},
		{"runs past closing", monday.Add(17*time.Hour + 45*time.Minute), false},
		{"wrong weekday", monday.AddDate(0, 0, 1).Add(9 * time.Hour), false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := withinPeriods(periods, tc.start, tc.start.Add(30*time.Minute))
			if got != tc.want {
				t.Fatalf("withinPeriods(%v) = %v, want %v", tc.start, got, tc.want)
			}
		})
	}
}
