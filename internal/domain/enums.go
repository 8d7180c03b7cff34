package domain

// MeetingStatus represents the lifecycle state of a meeting.
// Status transitions are monotonic: once a meeting reaches a cancelled
// variant, agenda and attendees must no longer be mutated.
type MeetingStatus string

const (
	MeetingStatusScheduled     MeetingStatus = "scheduled"
	MeetingStatusCancelled     MeetingStatus = "cancelled"
	MeetingStatusCompleted     MeetingStatus = "completed"
	MeetingStatusAutoCancelled MeetingStatus = "auto-cancelled"
)

func (s MeetingStatus) String() string { return string(s) }

func (s MeetingStatus) IsValid() bool {
	switch s {
	case MeetingStatusScheduled, MeetingStatusCancelled, MeetingStatusCompleted, MeetingStatusAutoCancelled:
		return true
	}
	return false
}

// IsCancelled reports whether the status is a cancelled variant.
func (s MeetingStatus) IsCancelled() bool {
	return s == MeetingStatusCancelled || s == MeetingStatusAutoCancelled
}

// ResponseStatus represents an attendee's answer to a meeting invitation.
// Values mirror the calendar provider's wire format.
type ResponseStatus string

const (
	ResponseNeedsAction ResponseStatus = "needsAction"
	ResponseAccepted    ResponseStatus = "accepted"
	ResponseDeclined    ResponseStatus = "declined"
	ResponseTentative   ResponseStatus = "tentative"
)

func (s ResponseStatus) String() string { return string(s) }

func (s ResponseStatus) IsValid() bool {
	switch s {
	case ResponseNeedsAction, ResponseAccepted, ResponseDeclined, ResponseTentative:
		return true
	}
	return false
}

// ReminderTier is the escalation level of an RSVP reminder.
type ReminderTier string

const (
	TierGentle ReminderTier = "gentle"
	TierFirm   ReminderTier = "firm"
	TierCheeky ReminderTier = "cheeky"
)

func (t ReminderTier) String() string { return string(t) }

// BadgeType identifies an achievement derived from user counters.
// Badges are a live reflection of the counters: a badge is revoked as soon
// as its predicate no longer holds.
type BadgeType string

const (
	BadgeAgendaNinja    BadgeType = "agenda-ninja"
	BadgeRSVPChampion   BadgeType = "rsvp-champion"
	BadgeSerialGhost    BadgeType = "serial-ghost"
	BadgeMeetingMonk    BadgeType = "meeting-monk"
	BadgeStreakMaster   BadgeType = "streak-master"
	BadgePunctualityPro BadgeType = "punctuality-pro"
)

func (b BadgeType) String() string { return string(b) }

// Description returns the human-readable blurb shown next to a badge.
func (b BadgeType) Description() string {
	switch b {
	case BadgeAgendaNinja:
		return "Wrote a real agenda for 10+ meetings"
	case BadgeRSVPChampion:
		return "Responds to invites like clockwork"
	case BadgeSerialGhost:
		return "Ignores reminders until they get cheeky"
	case BadgeMeetingMonk:
		return "Disciplined across agendas, RSVPs, and reminders"
	case BadgeStreakMaster:
		return "10 on-time RSVPs in a row"
	case BadgePunctualityPro:
		return "20+ on-time RSVPs overall"
	}
	return ""
}

// AllBadgeTypes lists every known badge in evaluation order.
func AllBadgeTypes() []BadgeType {
	return []BadgeType{
		BadgeAgendaNinja,
		BadgeRSVPChampion,
		BadgeSerialGhost,
		BadgeMeetingMonk,
		BadgeStreakMaster,
		BadgePunctualityPro,
	}
}

// ScoreEvent is a closed set of scorable behaviors fed into the score ledger.
type ScoreEvent string

const (
	ScoreEventAgendaAdded      ScoreEvent = "AGENDA_ADDED"
	ScoreEventGhost            ScoreEvent = "GHOST"
	ScoreEventRSVPOnTime       ScoreEvent = "RSVP_ON_TIME"
	ScoreEventMeetingOrganized ScoreEvent = "MEETING_ORGANIZED"
	ScoreEventMeetingAttended  ScoreEvent = "MEETING_ATTENDED"
)

func (e ScoreEvent) String() string { return string(e) }

func (e ScoreEvent) IsValid() bool {
	switch e {
	case ScoreEventAgendaAdded, ScoreEventGhost, ScoreEventRSVPOnTime,
		ScoreEventMeetingOrganized, ScoreEventMeetingAttended:
		return true
	}
	return false
}

// ValidationAction is the outcome of the meeting validation state machine.
// It is a decision, not an error: every value is a valid continuation.
type ValidationAction string

const (
	ActionApproved            ValidationAction = "approved"
	ActionApprovedWithWarning ValidationAction = "approved_with_warning"
	ActionCancelled           ValidationAction = "cancelled"
)

func (a ValidationAction) String() string { return string(a) }
