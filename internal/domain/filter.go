package domain

import "time"

// MeetingFilter defines parameters for listing meetings.
type MeetingFilter struct {
	// Status restricts to meetings in the given lifecycle state.
	Status *MeetingStatus

	// StartsAfter / StartsBefore bound the meeting start time (exclusive
	// after, inclusive before). Either may be nil.
	StartsAfter  *time.Time
	StartsBefore *time.Time

	// HasLocation filters meetings with (true) or without (false) a room.
	HasLocation *bool

	// Creator restricts to meetings organized by the given address.
	Creator *string

	// Unvalidated restricts to meetings not yet run through validation.
	Unvalidated bool

	// Limit is the maximum number of meetings to return. Default: 100, max: 500.
	Limit int
}
