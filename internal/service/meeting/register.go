package meeting

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/chronokeeper/chronokeeper-backend/internal/domain"
	"github.com/chronokeeper/chronokeeper-backend/internal/service/agenda"
)

// Register brings a calendar event under policy: it snapshots the event,
// parses and scores the agenda, stores the meeting, records score events
// for the organizer, and runs validation. Registering an already-tracked
// event returns the stored meeting unchanged.
func (s *Service) Register(ctx context.Context, calendarID, eventID string) (*domain.Meeting, error) {
	if eventID == "" {
		return nil, domain.NewValidationError("event_id", "is required")
	}
	if calendarID == "" {
		calendarID = "primary"
	}

	if existing, err := s.meetings.GetByID(ctx, eventID); err == nil {
		return existing, nil
	} else if !errors.Is(err, domain.ErrNotFound) {
		return nil, fmt.Errorf("check meeting %s: %w", eventID, err)
	}

	snap, err := s.calendar.GetEvent(ctx, calendarID, eventID)
	if err != nil {
		return nil, fmt.Errorf("fetch event %s: %w", eventID, err)
	}

	m := s.fromSnapshot(snap)

	if err := s.meetings.Create(ctx, m); err != nil {
		// A concurrent registration may have won; return its result.
		if errors.Is(err, domain.ErrAlreadyExists) {
			return s.meetings.GetByID(ctx, eventID)
		}
		return nil, fmt.Errorf("store meeting %s: %w", eventID, err)
	}

	s.log.Info("meeting registered",
		"event_id", m.EventID,
		"creator", m.Creator,
		"quality_score", m.QualityScore,
		"attendees", len(m.Attendees),
	)

	now := s.now()
	if err := s.ledger.ApplyEvent(ctx, m.Creator, domain.ScoreEventMeetingOrganized, now); err != nil {
		s.log.Warn("score event failed", "event_id", m.EventID, "event", "MEETING_ORGANIZED", "error", err)
	}
	if m.Agenda.RawLength() >= s.policy.MinAgendaChars {
		if err := s.ledger.ApplyEvent(ctx, m.Creator, domain.ScoreEventAgendaAdded, now); err != nil {
			s.log.Warn("score event failed", "event_id", m.EventID, "event", "AGENDA_ADDED", "error", err)
		}
	}

	if _, err := s.Validate(ctx, m.EventID); err != nil {
		return nil, fmt.Errorf("validate meeting %s: %w", eventID, err)
	}

	return s.meetings.GetByID(ctx, eventID)
}

// fromSnapshot builds the tracked aggregate from the provider's view.
// The organizer is not stored as an attendee; a meeting where the organizer
// is the only participant is solo.
func (s *Service) fromSnapshot(snap *domain.EventSnapshot) *domain.Meeting {
	parsed := agenda.ParseSections(snap.Description)

	m := &domain.Meeting{
		EventID:      snap.EventID,
		CalendarID:   snap.CalendarID,
		Summary:      snap.Summary,
		Agenda:       parsed,
		QualityScore: agenda.ScoreSections(parsed),
		Creator:      strings.ToLower(snap.OrganizerEmail),
		CreatorName:  snap.OrganizerName,
		StartTime:    snap.Start,
		EndTime:      snap.End,
		Timezone:     snap.Timezone,
		Location:     snap.Location,
		MeetingLink:  snap.MeetingLink,
		Status:       domain.MeetingStatusScheduled,
	}

	for _, a := range snap.Attendees {
		email := strings.ToLower(a.Email)
		if email == "" || email == m.Creator {
			continue
		}
		status := a.ResponseStatus
		if !status.IsValid() {
			status = domain.ResponseNeedsAction
		}
		m.Attendees = append(m.Attendees, domain.Attendee{
			Email:          email,
			Name:           a.Name,
			ResponseStatus: status,
		})
		if !a.Optional {
			m.MandatoryAttendees = append(m.MandatoryAttendees, email)
		}
	}

	return m
}
