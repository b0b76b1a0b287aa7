package transcript

import (
	"regexp"
	"strconv"
	"strings"
	"time"
)

// Default meeting slot when a transcript mentions no usable time:
// next Wednesday at 11:00 local.
const (
	defaultMeetingDay  = time.Wednesday
	defaultMeetingHour = 11
)

var dayNames = map[string]time.Weekday{
	"monday":    time.Monday,
	"tuesday":   time.Tuesday,
	"wednesday": time.Wednesday,
	"thursday":  time.Thursday,
	"friday":    time.Friday,
	"saturday":  time.Saturday,
	"sunday":    time.Sunday,
}

var timeWords = map[string]int{
	"one": 1, "two": 2, "three": 3, "four": 4, "five": 5,
	"six": 6, "seven": 7, "eight": 8, "nine": 9, "ten": 10,
	"eleven": 11, "twelve": 12,
}

var meetingPattern = buildMeetingPattern()

func buildMeetingPattern() *regexp.Regexp {
	days := make([]string, 0, len(dayNames))
	for d := range dayNames {
		days = append(days, d)
	}
	hours := make([]string, 0, len(timeWords))
	for w := range timeWords {
		hours = append(hours, w)
	}
	return regexp.MustCompile(
		`(?i)\b(` + strings.Join(days, "|") + `)\s+(?:at\s+)?(\d{1,2}|` +
			strings.Join(hours, "|") + `)(?::(\d{2}))?\s*(a\.?m\.?|p\.?m\.?)?`)
}

// NextWeekday returns the next occurrence of day strictly after now,
// never today or a past date.
func NextWeekday(now time.Time, day time.Weekday) time.Time {
	daysAhead := int(day) - int(now.Weekday())
	if daysAhead <= 0 {
		daysAhead += 7
	}
	return now.AddDate(0, 0, daysAhead)
}

// MeetingTime parses a meeting time mentioned in a call transcript,
// matching patterns like "Wednesday at 11", "friday at 2 p.m.", or
// "Tuesday 3pm". An hour of 1-7 with no am/pm marker is read as
// afternoon, the usual convention for call-back offers. Falls back to
// next Wednesday at 11:00 when nothing matches. Never fails: the
// returned time is always usable.
func MeetingTime(raw string, now time.Time) time.Time {
	text := strings.ToLower(raw)

	if m := meetingPattern.FindStringSubmatch(text); m != nil {
		day := dayNames[strings.ToLower(m[1])]

		hour, ok := timeWords[strings.ToLower(m[2])]
		if !ok {
			hour, _ = strconv.Atoi(m[2])
		}
		minute := 0
		if m[3] != "" {
			minute, _ = strconv.Atoi(m[3])
		}
		ampm := strings.ToLower(strings.ReplaceAll(m[4], ".", ""))

		switch {
		case ampm == "pm" && hour < 12:
			hour += 12
		case ampm == "am" && hour == 12:
			hour = 0
		case ampm == "" && hour >= 1 && hour <= 7:
			hour += 12
		}

		target := NextWeekday(now, day)
		return time.Date(target.Year(), target.Month(), target.Day(), hour, minute, 0, 0, now.Location())
	}

	d := NextWeekday(now, defaultMeetingDay)
	return time.Date(d.Year(), d.Month(), d.Day(), defaultMeetingHour, 0, 0, 0, now.Location())
}
