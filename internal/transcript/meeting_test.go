package transcript

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Monday, June 1 2026, 09:00 local — a fixed anchor for weekday math.
var monday = time.Date(2026, 6, 1, 9, 0, 0, 0, time.UTC)

func TestMeetingTime_WednesdayAtEleven(t *testing.T) {
	got := MeetingTime("sure, call me Wednesday at 11", monday)
	assert.Equal(t, time.Wednesday, got.Weekday())
	assert.Equal(t, 11, got.Hour())
	assert.Equal(t, 0, got.Minute())
	assert.True(t, got.After(monday))
}

func TestMeetingTime_ExplicitPM(t *testing.T) {
	got := MeetingTime("friday at 2 p.m. works", monday)
	assert.Equal(t, time.Friday, got.Weekday())
	assert.Equal(t, 14, got.Hour())
}

func TestMeetingTime_ExplicitAM(t *testing.T) {
	got := MeetingTime("tuesday at 9am", monday)
	assert.Equal(t, time.Tuesday, got.Weekday())
	assert.Equal(t, 9, got.Hour())
}

func TestMeetingTime_TwelveAMIsMidnight(t *testing.T) {
	got := MeetingTime("saturday at 12 am", monday)
	assert.Equal(t, 0, got.Hour())
}

func TestMeetingTime_ImplicitAfternoon(t *testing.T) {
	// 1-7 with no marker reads as PM (business-call convention).
	got := MeetingTime("Tuesday 3", monday)
	assert.Equal(t, 15, got.Hour())

	// 8+ stays as spoken.
	got = MeetingTime("Tuesday 10", monday)
	assert.Equal(t, 10, got.Hour())
}

func TestMeetingTime_NumberWordHour(t *testing.T) {
	got := MeetingTime("thursday at three", monday)
	assert.Equal(t, time.Thursday, got.Weekday())
	assert.Equal(t, 15, got.Hour())
}

func TestMeetingTime_WithMinutes(t *testing.T) {
	got := MeetingTime("monday at 2:30 pm", monday)
	assert.Equal(t, 14, got.Hour())
	assert.Equal(t, 30, got.Minute())
}

func TestMeetingTime_SameDayRollsToNextWeek(t *testing.T) {
	// Anchor is a Monday; "monday" must mean next week's Monday.
	got := MeetingTime("monday at 2:30 pm", monday)
	assert.Equal(t, time.Monday, got.Weekday())
	assert.Equal(t, monday.AddDate(0, 0, 7).Day(), got.Day())
}

func TestMeetingTime_DefaultNextWednesday(t *testing.T) {
	for _, input := range []string{"", "no time was mentioned at all"} {
		got := MeetingTime(input, monday)
		assert.Equal(t, time.Wednesday, got.Weekday())
		assert.Equal(t, 11, got.Hour())
		assert.Equal(t, 0, got.Minute())
		assert.True(t, got.After(monday))
	}
}

func TestNextWeekday_NeverToday(t *testing.T) {
	got := NextWeekday(monday, time.Monday)
	assert.Equal(t, 7, got.Day()-monday.Day())

	got = NextWeekday(monday, time.Tuesday)
	assert.Equal(t, 1, got.Day()-monday.Day())
}

func TestGenerateICS(t *testing.T) {
	start := time.Date(2026, 6, 3, 11, 0, 0, 0, time.UTC)
	ics := GenerateICS(ICSOptions{
		Start:          start,
		Summary:        "RapidReach — Follow-up with Joe's Cafe",
		Description:    "Website proposal follow-up.",
		AttendeeEmail:  "joe@cafe.com",
		OrganizerEmail: "sales@rapidreach.io",
	})

	require.True(t, strings.HasPrefix(ics, "BEGIN:VCALENDAR"))
	assert.Contains(t, ics, "METHOD:REQUEST")
	assert.Contains(t, ics, "DTSTART:20260603T110000")
	assert.Contains(t, ics, "DTEND:20260603T113000")
	assert.Contains(t, ics, "SUMMARY:RapidReach — Follow-up with Joe's Cafe")
	assert.Contains(t, ics, "ATTENDEE;RSVP=TRUE:mailto:joe@cafe.com")
	assert.Contains(t, ics, "ORGANIZER;CN=RapidReach Team:mailto:sales@rapidreach.io")
	assert.True(t, strings.HasSuffix(ics, "END:VCALENDAR"))
	assert.Contains(t, ics, "\r\n")
}

func TestGenerateICS_Defaults(t *testing.T) {
	start := time.Date(2026, 6, 3, 11, 0, 0, 0, time.UTC)
	ics := GenerateICS(ICSOptions{Start: start})
	assert.Contains(t, ics, "SUMMARY:RapidReach — Follow-up Meeting")
	assert.Contains(t, ics, "DTEND:20260603T113000")
	assert.NotContains(t, ics, "ATTENDEE")
}
