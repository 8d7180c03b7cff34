package rest

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/chronokeeper/chronokeeper-backend/internal/domain"
	"github.com/chronokeeper/chronokeeper-backend/internal/service/agenda"
)

type fakeMeetingService struct {
	meetings map[string]*domain.Meeting
	rsvpErr  error
	rsvps    []string
}

func (f *fakeMeetingService) Register(_ context.Context, _, eventID string) (*domain.Meeting, error) {
	if eventID == "" {
		return nil, domain.NewValidationError("eventId", "must not be empty")
	}
	m, ok := f.meetings[eventID]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return m, nil
}

func (f *fakeMeetingService) Get(_ context.Context, eventID string) (*domain.Meeting, error) {
	m, ok := f.meetings[eventID]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return m, nil
}

func (f *fakeMeetingService) SubmitRSVP(_ context.Context, eventID, email string, status domain.ResponseStatus) error {
	if f.rsvpErr != nil {
		return f.rsvpErr
	}
	f.rsvps = append(f.rsvps, eventID+"/"+email+"="+status.String())
	return nil
}

func (f *fakeMeetingService) FixAgenda(_ context.Context, eventID, text string) (*domain.Meeting, error) {
	if text == "" {
		return nil, domain.NewValidationError("agenda", "must not be empty")
	}
	m, ok := f.meetings[eventID]
	if !ok {
		return nil, domain.ErrNotFound
	}
	m.Agenda = domain.Agenda{Raw: text}
	return m, nil
}

func (f *fakeMeetingService) AnalyzeAgenda(_ context.Context, text string) agenda.Analysis {
	return agenda.Analyze(text)
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func sampleMeeting() *domain.Meeting {
	return &domain.Meeting{
		EventID:      "evt_1",
		Summary:      "Planning",
		Creator:      "organizer@example.com",
		Status:       domain.MeetingStatusScheduled,
		QualityScore: 73,
		StartTime:    time.Date(2026, 3, 10, 14, 0, 0, 0, time.UTC),
		EndTime:      time.Date(2026, 3, 10, 15, 0, 0, 0, time.UTC),
		Attendees: []domain.Attendee{
			{Email: "dev@example.com", ResponseStatus: domain.ResponseAccepted},
		},
	}
}

func TestMeetingRegister(t *testing.T) {
	svc := &fakeMeetingService{meetings: map[string]*domain.Meeting{"evt_1": sampleMeeting()}}
	h := NewMeetingHandler(svc, testLogger())

	req := httptest.NewRequest(http.MethodPost, "/api/meetings/register",
		strings.NewReader(`{"eventId":"evt_1","calendarId":"primary"}`))
	rec := httptest.NewRecorder()

	h.Register(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body %s", rec.Code, rec.Body.String())
	}
	var resp meetingResponse
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if resp.EventID != "evt_1" || resp.QualityScore != 73 {
		t.Errorf("resp = %+v", resp)
	}
	if len(resp.Attendees) != 1 || resp.Attendees[0].ResponseStatus != "accepted" {
		t.Errorf("attendees = %+v", resp.Attendees)
	}
}

func TestMeetingRegisterValidation(t *testing.T) {
	svc := &fakeMeetingService{meetings: map[string]*domain.Meeting{}}
	h := NewMeetingHandler(svc, testLogger())

	req := httptest.NewRequest(http.MethodPost, "/api/meetings/register",
		strings.NewReader(`{"calendarId":"primary"}`))
	rec := httptest.NewRecorder()

	h.Register(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "eventId") {
		t.Errorf("body = %s, want field error", rec.Body.String())
	}
}

func TestMeetingRegisterBadJSON(t *testing.T) {
	h := NewMeetingHandler(&fakeMeetingService{}, testLogger())

	req := httptest.NewRequest(http.MethodPost, "/api/meetings/register", strings.NewReader("{"))
	rec := httptest.NewRecorder()

	h.Register(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}
}

func TestMeetingGetNotFound(t *testing.T) {
	svc := &fakeMeetingService{meetings: map[string]*domain.Meeting{}}
	h := NewMeetingHandler(svc, testLogger())

	req := httptest.NewRequest(http.MethodGet, "/api/meetings/evt_missing", nil)
	req.SetPathValue("eventID", "evt_missing")
	rec := httptest.NewRecorder()

	h.Get(rec, req)

	if rec.Code != http.StatusNotFound {
		t.Fatalf("status = %d, want 404", rec.Code)
	}
}

func TestSubmitRSVP(t *testing.T) {
	svc := &fakeMeetingService{meetings: map[string]*domain.Meeting{}}
	h := NewMeetingHandler(svc, testLogger())

	req := httptest.NewRequest(http.MethodPost, "/api/meetings/evt_1/rsvp",
		strings.NewReader(`{"email":"dev@example.com","response":"accepted"}`))
	req.SetPathValue("eventID", "evt_1")
	rec := httptest.NewRecorder()

	h.SubmitRSVP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body %s", rec.Code, rec.Body.String())
	}
	if len(svc.rsvps) != 1 || svc.rsvps[0] != "evt_1/dev@example.com=accepted" {
		t.Errorf("rsvps = %v", svc.rsvps)
	}
}

func TestSubmitRSVPConflict(t *testing.T) {
	svc := &fakeMeetingService{rsvpErr: domain.ErrConflict}
	h := NewMeetingHandler(svc, testLogger())

	req := httptest.NewRequest(http.MethodPost, "/api/meetings/evt_1/rsvp",
		strings.NewReader(`{"email":"dev@example.com","response":"accepted"}`))
	req.SetPathValue("eventID", "evt_1")
	rec := httptest.NewRecorder()

	h.SubmitRSVP(rec, req)

	if rec.Code != http.StatusConflict {
		t.Fatalf("status = %d, want 409", rec.Code)
	}
}

func TestAnalyzeAgenda(t *testing.T) {
	h := NewMeetingHandler(&fakeMeetingService{}, testLogger())

	req := httptest.NewRequest(http.MethodPost, "/api/meetings/analyze",
		strings.NewReader(`{"agenda":"Purpose: decide on the rollout plan"}`))
	rec := httptest.NewRecorder()

	h.AnalyzeAgenda(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	var resp agenda.Analysis
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if resp.Score == 0 {
		t.Error("expected a non-zero score for a purposeful agenda")
	}
}

func TestMeetingFixAgenda(t *testing.T) {
	svc := &fakeMeetingService{meetings: map[string]*domain.Meeting{"evt_1": sampleMeeting()}}
	h := NewMeetingHandler(svc, testLogger())

	req := httptest.NewRequest(http.MethodPut, "/api/meetings/evt_1/agenda",
		strings.NewReader(`{"agenda":"Purpose: decide on the rollout plan"}`))
	req.SetPathValue("eventID", "evt_1")
	rec := httptest.NewRecorder()

	h.FixAgenda(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body %s", rec.Code, rec.Body.String())
	}
	if got := svc.meetings["evt_1"].Agenda.Raw; got != "Purpose: decide on the rollout plan" {
		t.Errorf("stored agenda = %q", got)
	}
}

func TestMeetingFixAgendaEmptyBody(t *testing.T) {
	svc := &fakeMeetingService{meetings: map[string]*domain.Meeting{"evt_1": sampleMeeting()}}
	h := NewMeetingHandler(svc, testLogger())

	req := httptest.NewRequest(http.MethodPut, "/api/meetings/evt_1/agenda",
		strings.NewReader(`{"agenda":""}`))
	req.SetPathValue("eventID", "evt_1")
	rec := httptest.NewRecorder()

	h.FixAgenda(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", rec.Code)
	}
}
