package gcal

import (
	"testing"
	"time"

	"google.golang.org/api/calendar/v3"

	"github.com/chronokeeper/chronokeeper-backend/internal/domain"
)

func TestSnapshotFromEvent(t *testing.T) {
	ev := &calendar.Event{
		Id:          "evt_1",
		Summary:     "Quarterly review",
		Description: "Numbers and plans",
		Location:    "Room 4.01",
		HangoutLink: "https://meet.example.com/abc",
		Organizer:   &calendar.EventOrganizer{Email: "Boss@Example.com", DisplayName: "Boss"},
		Start:       &calendar.EventDateTime{DateTime: "2026-03-10T14:00:00Z", TimeZone: "Europe/Berlin"},
		End:         &calendar.EventDateTime{DateTime: "2026-03-10T15:00:00Z", TimeZone: "Europe/Berlin"},
		Attendees: []*calendar.EventAttendee{
			{Email: "Dev@Example.com", DisplayName: "Dev", ResponseStatus: "accepted"},
			{Email: "intern@example.com", ResponseStatus: "needsAction", Optional: true},
			{Email: "room-401@resource.calendar.google.com", Resource: true, ResponseStatus: "accepted"},
			{Email: "weird@example.com", ResponseStatus: "somethingNew"},
		},
	}

	snap, err := snapshotFromEvent("primary", ev)
	if err != nil {
		t.Fatalf("snapshotFromEvent: %v", err)
	}

	if snap.EventID != "evt_1" || snap.CalendarID != "primary" {
		t.Errorf("identity: %s/%s", snap.CalendarID, snap.EventID)
	}
	if snap.OrganizerEmail != "boss@example.com" {
		t.Errorf("OrganizerEmail = %q, want lowercase", snap.OrganizerEmail)
	}
	if snap.Timezone != "Europe/Berlin" {
		t.Errorf("Timezone = %q", snap.Timezone)
	}
	if want := time.Date(2026, 3, 10, 14, 0, 0, 0, time.UTC); !snap.Start.Equal(want) {
		t.Errorf("Start = %v, want %v", snap.Start, want)
	}

	if len(snap.Attendees) != 3 {
		t.Fatalf("attendees = %d, room resource must be dropped", len(snap.Attendees))
	}
	if snap.Attendees[0].Email != "dev@example.com" || snap.Attendees[0].ResponseStatus != domain.ResponseAccepted {
		t.Errorf("first attendee = %+v", snap.Attendees[0])
	}
	if !snap.Attendees[1].Optional {
		t.Error("optional flag lost")
	}
	if snap.Attendees[2].ResponseStatus != domain.ResponseNeedsAction {
		t.Errorf("unknown response mapped to %q, want needsAction", snap.Attendees[2].ResponseStatus)
	}
}

func TestSnapshotFromEventAllDay(t *testing.T) {
	ev := &calendar.Event{
		Id:    "evt_allday",
		Start: &calendar.EventDateTime{Date: "2026-03-12"},
		End:   &calendar.EventDateTime{Date: "2026-03-13"},
	}

	snap, err := snapshotFromEvent("primary", ev)
	if err != nil {
		t.Fatalf("snapshotFromEvent: %v", err)
	}
	if want := time.Date(2026, 3, 12, 0, 0, 0, 0, time.UTC); !snap.Start.Equal(want) {
		t.Errorf("Start = %v, want %v", snap.Start, want)
	}
}

func TestSnapshotFromEventMissingTimes(t *testing.T) {
	if _, err := snapshotFromEvent("primary", &calendar.Event{Id: "evt_broken"}); err == nil {
		t.Fatal("expected error for event without times")
	}
}
