package domain

import (
	"strings"
	"time"
)

// Agenda holds the raw agenda text and its parsed sections.
type Agenda struct {
	Raw       string
	Purpose   string
	Outcomes  string
	Decisions string
	Prereads  string
}

// RawLength returns the length of the trimmed raw agenda text in characters.
func (a Agenda) RawLength() int {
	return len(strings.TrimSpace(a.Raw))
}

// Attendee is a meeting participant embedded in a Meeting.
type Attendee struct {
	Email          string
	Name           string
	ResponseStatus ResponseStatus

	// ReminderCount only ever increases.
	ReminderCount int
	LastReminded  *time.Time
	RemindedAt    []time.Time
}

// Meeting is the aggregate tracked for every sighted calendar event.
type Meeting struct {
	EventID    string
	CalendarID string
	Summary    string

	Agenda       Agenda
	QualityScore int

	Creator     string
	CreatorName string

	Attendees          []Attendee
	MandatoryAttendees []string

	StartTime time.Time
	EndTime   time.Time
	Timezone  string

	Location    string
	MeetingLink string

	Status MeetingStatus
	// CancellationReason is set if and only if Status is a cancelled variant.
	CancellationReason *string

	WasRoomReleased bool
	ValidatedAt     *time.Time

	CreatedAt time.Time
	UpdatedAt time.Time
}

// IsSolo reports whether the meeting has no attendees besides the creator.
func (m *Meeting) IsSolo() bool { return len(m.Attendees) == 0 }

// Attendee returns the attendee with the given email, or nil.
func (m *Meeting) Attendee(email string) *Attendee {
	for i := range m.Attendees {
		if m.Attendees[i].Email == email {
			return &m.Attendees[i]
		}
	}
	return nil
}

// AcceptedCount returns the number of attendees that accepted.
func (m *Meeting) AcceptedCount() int {
	n := 0
	for _, a := range m.Attendees {
		if a.ResponseStatus == ResponseAccepted {
			n++
		}
	}
	return n
}

// NonResponders returns the attendees still in needsAction.
func (m *Meeting) NonResponders() []Attendee {
	var out []Attendee
	for _, a := range m.Attendees {
		if a.ResponseStatus == ResponseNeedsAction {
			out = append(out, a)
		}
	}
	return out
}

// HasMandatoryDecline reports whether any mandatory attendee declined.
func (m *Meeting) HasMandatoryDecline() bool {
	for _, email := range m.MandatoryAttendees {
		if a := m.Attendee(email); a != nil && a.ResponseStatus == ResponseDeclined {
			return true
		}
	}
	return false
}

// RSVPRate returns the percentage of attendees that responded.
// Returns 0 for a solo meeting.
func (m *Meeting) RSVPRate() float64 {
	if len(m.Attendees) == 0 {
		return 0
	}
	responded := 0
	for _, a := range m.Attendees {
		if a.ResponseStatus != ResponseNeedsAction {
			responded++
		}
	}
	return float64(responded) / float64(len(m.Attendees)) * 100
}

// EventSnapshot is the calendar provider's view of an event at fetch time.
type EventSnapshot struct {
	EventID        string
	CalendarID     string
	Summary        string
	Description    string
	OrganizerEmail string
	OrganizerName  string
	Attendees      []AttendeeSnapshot
	Start          time.Time
	End            time.Time
	Timezone       string
	Location       string
	MeetingLink    string
}

// AttendeeSnapshot is a single attendee as reported by the calendar provider.
type AttendeeSnapshot struct {
	Email          string
	Name           string
	ResponseStatus ResponseStatus
	// Optional mirrors the provider's optional-attendee flag. Everyone
	// else is treated as mandatory.
	Optional bool
}
