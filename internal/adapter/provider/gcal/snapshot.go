package gcal

import (
	"fmt"
	"strings"
	"time"

	"google.golang.org/api/calendar/v3"

	"github.com/chronokeeper/chronokeeper-backend/internal/domain"
)

// snapshotFromEvent maps an API event to the provider-neutral snapshot.
// All-day events carry a date instead of a datetime and are mapped to
// midnight in the event's timezone.
func snapshotFromEvent(calendarID string, ev *calendar.Event) (*domain.EventSnapshot, error) {
	start, tz, err := parseEventTime(ev.Start)
	if err != nil {
		return nil, fmt.Errorf("event %s start: %w", ev.Id, err)
	}
	end, _, err := parseEventTime(ev.End)
	if err != nil {
		return nil, fmt.Errorf("event %s end: %w", ev.Id, err)
	}

	snap := &domain.EventSnapshot{
		EventID:     ev.Id,
		CalendarID:  calendarID,
		Summary:     ev.Summary,
		Description: ev.Description,
		Start:       start,
		End:         end,
		Timezone:    tz,
		Location:    ev.Location,
		MeetingLink: ev.HangoutLink,
	}

	if ev.Organizer != nil {
		snap.OrganizerEmail = strings.ToLower(ev.Organizer.Email)
		snap.OrganizerName = ev.Organizer.DisplayName
	}

	for _, a := range ev.Attendees {
		if a.Resource {
			// Rooms and equipment show up as attendees, the location
			// field already covers them.
			continue
		}
		snap.Attendees = append(snap.Attendees, domain.AttendeeSnapshot{
			Email:          strings.ToLower(a.Email),
			Name:           a.DisplayName,
			ResponseStatus: mapResponseStatus(a.ResponseStatus),
			Optional:       a.Optional,
		})
	}

	return snap, nil
}

func parseEventTime(t *calendar.EventDateTime) (time.Time, string, error) {
	if t == nil {
		return time.Time{}, "", fmt.Errorf("missing time")
	}
	if t.DateTime != "" {
		ts, err := time.Parse(time.RFC3339, t.DateTime)
		return ts, t.TimeZone, err
	}
	if t.Date != "" {
		loc := time.UTC
		if t.TimeZone != "" {
			if l, err := time.LoadLocation(t.TimeZone); err == nil {
				loc = l
			}
		}
		ts, err := time.ParseInLocation("2006-01-02", t.Date, loc)
		return ts, t.TimeZone, err
	}
	return time.Time{}, "", fmt.Errorf("missing time")
}

func mapResponseStatus(s string) domain.ResponseStatus {
	r := domain.ResponseStatus(s)
	if !r.IsValid() {
		return domain.ResponseNeedsAction
	}
	return r
}
