package service

import (
	"net/url"
	"strings"
	"testing"
	"time"

	"adria/internal/entities"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func calendarReservation() entities.ReservationResponse {
	start := time.Date(2026, 4, 2, 14, 0, 0, 0, time.UTC)
	return entities.ReservationResponse{
		Reference: "ADR-20260402-AB12",
		UserName:  "Ada Lovelace",
		Notes:     "bring props, tripod",
		StartTime: start,
		EndTime:   start.Add(time.Hour),
	}
}

func TestBuildICS(t *testing.T) {
	now := time.Date(2026, 3, 14, 10, 30, 0, 0, time.UTC)
	ics := BuildICS(calendarReservation(), now)

	assert.True(t, strings.HasPrefix(ics, "BEGIN:VCALENDAR\r\n"))
	assert.True(t, strings.HasSuffix(ics, "END:VCALENDAR\r\n"))
	assert.Contains(t, ics, "DTSTAMP:20260314T103000Z\r\n")
	assert.Contains(t, ics, "DTSTART:20260402T140000Z\r\n")
	assert.Contains(t, ics, "DTEND:20260402T150000Z\r\n")
	assert.Contains(t, ics, "UID:ADR-20260402-AB12@adria.studio\r\n")
	assert.Contains(t, ics, "SUMMARY:Adria Studio booking ADR-20260402-AB12\r\n")

	// Commas and newlines in free text must be escaped per RFC 5545.
	assert.Contains(t, ics, `bring props\, tripod`)
	assert.Contains(t, ics, `\nNotes:`)
}

func TestBuildCalendarLinks(t *testing.T) {
	links := BuildCalendarLinks(calendarReservation())

	g, err := url.Parse(links.Google)
	require.NoError(t, err)
	assert.Equal(t, "calendar.google.com", g.Host)
	assert.Equal(t, "TEMPLATE", g.Query().Get("action"))
	assert.Equal(t, "20260402T140000Z/20260402T150000Z", g.Query().Get("dates"))
	assert.Contains(t, g.Query().Get("text"), "ADR-20260402-AB12")

	o, err := url.Parse(links.Outlook)
	require.NoError(t, err)
	assert.Equal(t, "outlook.live.com", o.Host)
	assert.Equal(t, "2026-04-02T14:00:00Z", o.Query().Get("startdt"))
	assert.Equal(t, "2026-04-02T15:00:00Z", o.Query().Get("enddt"))
	assert.Equal(t, "addevent", o.Query().Get("rru"))
}
