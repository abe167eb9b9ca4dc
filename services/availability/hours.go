package availability

import (
	"regexp"
	"strconv"
	"time"

	"bookpilot/models"
)

// weekdayNames maps the leading token of published weekday text to
// time.Weekday. Matches the "Monday: 8:00 - 18:00" form the live search
// capability reports.
var weekdayNames = map[string]time.Weekday{
	"Sunday": time.Sunday, "Monday": time.Monday, "Tuesday": time.Tuesday,
	"Wednesday": time.Wednesday, "Thursday": time.Thursday,
	"Friday": time.Friday, "Saturday": time.Saturday,
}

var hoursLine = regexp.MustCompile(`^(\w+):\s*(\d{1,2}):(\d{2})\s*[-–]\s*(\d{1,2}):(\d{2})$`)

// ParseOpeningPeriods extracts structured open intervals from opening
// hours metadata. Structured periods win; otherwise the weekday text is
// parsed line by line, skipping anything that does not match. An empty
// result means the hours are unparseable and must not constrain slots.
func ParseOpeningPeriods(h models.OpeningHours) []models.OpeningPeriod {
	if len(h.Periods) > 0 {
		return h.Periods
	}
	var periods []models.OpeningPeriod
	for _, line := range h.WeekdayText {
		m := hoursLine.FindStringSubmatch(line)
		if m == nil {
			continue
		}
		day, ok := weekdayNames[m[1]]
		if !ok {
			continue
		}
		openH, _ := strconv.Atoi(m[2])
		openM, _ := strconv.Atoi(m[3])
		closeH, _ := strconv.Atoi(m[4])
		closeM, _ := strconv.Atoi(m[5])
		periods = append(periods, models.OpeningPeriod{
			Weekday:     int(day),
			OpenMinute:  openH*60 + openM,
			CloseMinute: closeH*60 + closeM,
		})
	}
	return periods
}

// withinPeriods reports whether [start, end) falls inside one of the
// provider's open intervals on that weekday.
func withinPeriods(periods []models.OpeningPeriod, start, end time.Time) bool {
	startMin := start.Hour()*60 + start.Minute()
	endMin := end.Hour()*60 + end.Minute()
	for _, p := range periods {
		if p.Weekday != int(start.Weekday()) {
			continue
		}
		if startMin >= p.OpenMinute && endMin <= p.CloseMinute {
			return true
		}
	}
	return false
}
