package transcript

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// ICSOptions configures a generated calendar invite.
type ICSOptions struct {
	Start          time.Time
	Duration       time.Duration
	Summary        string
	Description    string
	AttendeeEmail  string
	OrganizerEmail string
}

// GenerateICS renders an iCalendar (.ics) meeting request suitable for
// attaching to an outreach email.
func GenerateICS(opts ICSOptions) string {
	duration := opts.Duration
	if duration == 0 {
		duration = 30 * time.Minute
	}
	summary := opts.Summary
	if summary == "" {
		summary = "RapidReach — Follow-up Meeting"
	}
	end := opts.Start.Add(duration)

	const stampLayout = "20060102T150405"
	lines := []string{
		"BEGIN:VCALENDAR",
		"VERSION:2.0",
		"PRODID:-//RapidReach//SDR//EN",
		"METHOD:REQUEST",
		"BEGIN:VEVENT",
		"UID:" + uuid.NewString(),
		"DTSTAMP:" + time.Now().UTC().Format(stampLayout) + "Z",
		"DTSTART:" + opts.Start.Format(stampLayout),
		"DTEND:" + end.Format(stampLayout),
		"SUMMARY:" + summary,
		"DESCRIPTION:" + opts.Description,
	}
	if opts.OrganizerEmail != "" {
		lines = append(lines, "ORGANIZER;CN=RapidReach Team:mailto:"+opts.OrganizerEmail)
	}
	if opts.AttendeeEmail != "" {
		lines = append(lines, "ATTENDEE;RSVP=TRUE:mailto:"+opts.AttendeeEmail)
	}
	lines = append(lines,
		"STATUS:CONFIRMED",
		"END:VEVENT",
		"END:VCALENDAR",
	)
	return strings.Join(lines, "\r\n")
}
