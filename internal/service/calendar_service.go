package service

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"adria/internal/entities"
)

const icsTimeLayout = "20060102T150405Z"

// BuildICS renders an iCalendar payload for a reservation, suitable for a
// text/calendar download.
func BuildICS(res entities.ReservationResponse, now time.Time) string {
	summary := "Adria Studio booking " + res.Reference
	description := fmt.Sprintf("Booking reference: %s\nBooked by: %s", res.Reference, res.UserName)
	if res.Notes != "" {
		description += "\nNotes: " + res.Notes
	}

	lines := []string{
		"BEGIN:VCALENDAR",
		"VERSION:2.0",
		"PRODID:-//Adria Studio//Booking//EN",
		"CALSCALE:GREGORIAN",
		"METHOD:PUBLISH",
		"BEGIN:VEVENT",
		"UID:" + res.Reference + "@adria.studio",
		"DTSTAMP:" + now.UTC().Format(icsTimeLayout),
		"DTSTART:" + res.StartTime.UTC().Format(icsTimeLayout),
		"DTEND:" + res.EndTime.UTC().Format(icsTimeLayout),
		"SUMMARY:" + escapeICS(summary),
		"DESCRIPTION:" + escapeICS(description),
		"STATUS:CONFIRMED",
		"END:VEVENT",
		"END:VCALENDAR",
	}
	return strings.Join(lines, "\r\n") + "\r\n"
}

// BuildCalendarLinks builds the Google and Outlook "add to calendar" URLs
// for a reservation.
func BuildCalendarLinks(res entities.ReservationResponse) entities.CalendarLinks {
	title := "Adria Studio booking " + res.Reference
	details := "Booking reference: " + res.Reference

	g := url.Values{}
	g.Set("action", "TEMPLATE")
	g.Set("text", title)
	g.Set("dates", res.StartTime.UTC().Format(icsTimeLayout)+"/"+res.EndTime.UTC().Format(icsTimeLayout))
	g.Set("details", details)

	o := url.Values{}
	o.Set("path", "/calendar/action/compose")
	o.Set("rru", "addevent")
	o.Set("subject", title)
	o.Set("body", details)
	o.Set("startdt", res.StartTime.UTC().Format(time.RFC3339))
	o.Set("enddt", res.EndTime.UTC().Format(time.RFC3339))

	return entities.CalendarLinks{
		Google:  "https://calendar.google.com/calendar/render?" + g.Encode(),
		Outlook: "https://outlook.live.com/calendar/0/deeplink/compose?" + o.Encode(),
	}
}

// escapeICS escapes text per RFC 5545: backslash, semicolon, comma, newline.
func escapeICS(s string) string {
	r := strings.NewReplacer(
		`\`, `\\`,
		";", `\;`,
		",", `\,`,
		"\n", `\n`,
	)
	return r.Replace(s)
}
