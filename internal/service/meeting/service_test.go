package meeting

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"testing"
	"time"

	"github.com/chronokeeper/chronokeeper-backend/internal/config"
	"github.com/chronokeeper/chronokeeper-backend/internal/domain"
)

// ---------------------------------------------------------------------------
// Fakes
// ---------------------------------------------------------------------------

type fakeMeetingRepo struct {
	meetings map[string]*domain.Meeting
}

func newFakeMeetingRepo() *fakeMeetingRepo {
	return &fakeMeetingRepo{meetings: make(map[string]*domain.Meeting)}
}

func (f *fakeMeetingRepo) GetByID(_ context.Context, eventID string) (*domain.Meeting, error) {
	m, ok := f.meetings[eventID]
	if !ok {
		return nil, domain.ErrNotFound
	}
	cp := *m
	cp.Attendees = append([]domain.Attendee(nil), m.Attendees...)
	return &cp, nil
}

func (f *fakeMeetingRepo) Create(_ context.Context, m *domain.Meeting) error {
	if _, ok := f.meetings[m.EventID]; ok {
		return domain.ErrAlreadyExists
	}
	cp := *m
	f.meetings[m.EventID] = &cp
	return nil
}

func (f *fakeMeetingRepo) List(_ context.Context, filter domain.MeetingFilter) ([]*domain.Meeting, error) {
	var out []*domain.Meeting
	for _, m := range f.meetings {
		if filter.Status != nil && m.Status != *filter.Status {
			continue
		}
		if filter.Unvalidated && m.ValidatedAt != nil {
			continue
		}
		out = append(out, m)
	}
	return out, nil
}

func (f *fakeMeetingRepo) SetAgenda(_ context.Context, eventID string, agenda domain.Agenda, score int) error {
	m, ok := f.meetings[eventID]
	if !ok {
		return domain.ErrNotFound
	}
	m.Agenda = agenda
	m.QualityScore = score
	return nil
}

func (f *fakeMeetingRepo) MarkValidated(_ context.Context, eventID string, at time.Time) error {
	m, ok := f.meetings[eventID]
	if !ok {
		return domain.ErrNotFound
	}
	m.ValidatedAt = &at
	return nil
}

func (f *fakeMeetingRepo) Cancel(_ context.Context, eventID string, status domain.MeetingStatus, reason string) (bool, error) {
	m, ok := f.meetings[eventID]
	if !ok {
		return false, nil
	}
	if m.Status != domain.MeetingStatusScheduled {
		return false, nil
	}
	m.Status = status
	m.CancellationReason = &reason
	return true, nil
}

func (f *fakeMeetingRepo) UpdateAttendeeResponse(_ context.Context, eventID, email string, status domain.ResponseStatus) error {
	m, ok := f.meetings[eventID]
	if !ok {
		return domain.ErrNotFound
	}
	a := m.Attendee(email)
	if a == nil {
		return domain.ErrNotFound
	}
	a.ResponseStatus = status
	return nil
}

func (f *fakeMeetingRepo) DeleteOlderThan(_ context.Context, cutoff time.Time) (int64, error) {
	var n int64
	for id, m := range f.meetings {
		if m.EndTime.Before(cutoff) {
			delete(f.meetings, id)
			n++
		}
	}
	return n, nil
}

type fakeCalendar struct {
	snapshots map[string]*domain.EventSnapshot
	upcoming  []*domain.EventSnapshot
	cancelled []string
	rsvps     []string
	patched   []string
	failRSVP  bool
	failPatch bool
	failList  bool
}

func newFakeCalendar() *fakeCalendar {
	return &fakeCalendar{snapshots: make(map[string]*domain.EventSnapshot)}
}

func (f *fakeCalendar) GetEvent(_ context.Context, _, eventID string) (*domain.EventSnapshot, error) {
	snap, ok := f.snapshots[eventID]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return snap, nil
}

func (f *fakeCalendar) ListUpcoming(_ context.Context, _ string, _ time.Time, _ time.Duration) ([]*domain.EventSnapshot, error) {
	if f.failList {
		return nil, errors.New("calendar unavailable")
	}
	return f.upcoming, nil
}

func (f *fakeCalendar) CancelEvent(_ context.Context, _, eventID string) error {
	f.cancelled = append(f.cancelled, eventID)
	return nil
}

func (f *fakeCalendar) UpdateRSVP(_ context.Context, _, eventID, email string, status domain.ResponseStatus) error {
	if f.failRSVP {
		return errors.New("calendar unavailable")
	}
	f.rsvps = append(f.rsvps, fmt.Sprintf("%s/%s=%s", eventID, email, status))
	return nil
}

func (f *fakeCalendar) PatchDescription(_ context.Context, _, eventID, text string) error {
	if f.failPatch {
		return errors.New("calendar unavailable")
	}
	f.patched = append(f.patched, eventID+": "+text)
	return nil
}

type fakeMeetingNotifier struct {
	cancelled []string
	warnings  []string
}

func (f *fakeMeetingNotifier) MeetingCancelled(_ context.Context, m *domain.Meeting, reason string) error {
	f.cancelled = append(f.cancelled, m.EventID+": "+reason)
	return nil
}

func (f *fakeMeetingNotifier) QualityWarning(_ context.Context, m *domain.Meeting) error {
	f.warnings = append(f.warnings, m.EventID)
	return nil
}

type fakeLedger struct {
	events []string
}

func (f *fakeLedger) ApplyEvent(_ context.Context, email string, event domain.ScoreEvent, _ time.Time) error {
	f.events = append(f.events, email+":"+event.String())
	return nil
}

func (f *fakeLedger) count(suffix string) int {
	n := 0
	for _, e := range f.events {
		if strings.HasSuffix(e, suffix) {
			n++
		}
	}
	return n
}

type fixture struct {
	svc      *Service
	repo     *fakeMeetingRepo
	calendar *fakeCalendar
	notifier *fakeMeetingNotifier
	ledger   *fakeLedger
	now      time.Time
}

func newFixture() *fixture {
	f := &fixture{
		repo:     newFakeMeetingRepo(),
		calendar: newFakeCalendar(),
		notifier: &fakeMeetingNotifier{},
		ledger:   &fakeLedger{},
		now:      time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC),
	}
	policy := config.PolicyConfig{
		MinAgendaChars:   50,
		QualityWarnBelow: 40,
		RetentionDays:    180,
	}
	f.svc = NewService(
		slog.New(slog.NewTextHandler(io.Discard, nil)),
		f.repo, f.calendar, f.notifier, f.ledger, policy,
	)
	f.svc.now = func() time.Time { return f.now }
	return f
}

const longAgenda = "📍 Purpose: decide on the launch order and assign owners for each workstream"

func (f *fixture) addMeeting(eventID string, agendaRaw string, attendees ...string) *domain.Meeting {
	m := &domain.Meeting{
		EventID:    eventID,
		CalendarID: "primary",
		Summary:    "Sync",
		Agenda:     domain.Agenda{Raw: agendaRaw},
		Creator:    "organizer@example.com",
		StartTime:  f.now.Add(30 * time.Hour),
		EndTime:    f.now.Add(31 * time.Hour),
		Status:     domain.MeetingStatusScheduled,
	}
	for _, email := range attendees {
		m.Attendees = append(m.Attendees, domain.Attendee{
			Email:          email,
			ResponseStatus: domain.ResponseNeedsAction,
		})
	}
	f.repo.meetings[eventID] = m
	return m
}

// ---------------------------------------------------------------------------
// Validate
// ---------------------------------------------------------------------------

func TestValidateSoloApproved(t *testing.T) {
	f := newFixture()
	f.addMeeting("evt_solo", "")

	action, err := f.svc.Validate(context.Background(), "evt_solo")
	if err != nil {
		t.Fatalf("Validate: %v", err)
	}
	if action != domain.ActionApproved {
		t.Errorf("action = %s, want approved", action)
	}

	m := f.repo.meetings["evt_solo"]
	if m.Status != domain.MeetingStatusScheduled {
		t.Errorf("Status = %s, want scheduled", m.Status)
	}
	if m.Agenda.Raw != "Personal reminder" {
		t.Errorf("Agenda.Raw = %q, want placeholder", m.Agenda.Raw)
	}
	if m.QualityScore != 50 {
		t.Errorf("QualityScore = %d, want 50", m.QualityScore)
	}
	if m.ValidatedAt == nil {
		t.Error("ValidatedAt not stamped")
	}
}

func TestValidateSoloKeepsRealAgenda(t *testing.T) {
	f := newFixture()
	f.addMeeting("evt_solo", "Write the quarterly report")

	if _, err := f.svc.Validate(context.Background(), "evt_solo"); err != nil {
		t.Fatalf("Validate: %v", err)
	}

	if got := f.repo.meetings["evt_solo"].Agenda.Raw; got != "Write the quarterly report" {
		t.Errorf("Agenda.Raw = %q, placeholder must not replace a real agenda", got)
	}
}

func TestValidateShortAgendaAutoCancels(t *testing.T) {
	f := newFixture()
	f.addMeeting("evt_short", "quick sync", "a@example.com")

	action, err := f.svc.Validate(context.Background(), "evt_short")
	if err != nil {
		t.Fatalf("Validate: %v", err)
	}
	if action != domain.ActionCancelled {
		t.Errorf("action = %s, want cancelled", action)
	}

	m := f.repo.meetings["evt_short"]
	if m.Status != domain.MeetingStatusAutoCancelled {
		t.Errorf("Status = %s, want auto-cancelled", m.Status)
	}
	if m.CancellationReason == nil || *m.CancellationReason != "Agenda is 10 chars, minimum is 50" {
		t.Errorf("CancellationReason = %v", m.CancellationReason)
	}
	if len(f.calendar.cancelled) != 1 || f.calendar.cancelled[0] != "evt_short" {
		t.Errorf("calendar cancels = %v", f.calendar.cancelled)
	}
	if len(f.notifier.cancelled) != 1 {
		t.Errorf("cancellation notices = %v", f.notifier.cancelled)
	}
}

func TestValidateLowScoreWarns(t *testing.T) {
	f := newFixture()
	// Long enough to clear the minimum but with no scored sections.
	raw := strings.Repeat("talk about various things we should cover today ", 2)
	f.addMeeting("evt_meh", raw, "a@example.com")

	action, err := f.svc.Validate(context.Background(), "evt_meh")
	if err != nil {
		t.Fatalf("Validate: %v", err)
	}
	if action != domain.ActionApprovedWithWarning {
		t.Errorf("action = %s, want approved_with_warning", action)
	}

	m := f.repo.meetings["evt_meh"]
	if m.Status != domain.MeetingStatusScheduled {
		t.Errorf("Status = %s, warning must not cancel", m.Status)
	}
	if len(f.notifier.warnings) != 1 {
		t.Errorf("warnings = %v, want one", f.notifier.warnings)
	}
}

func TestValidateGoodAgendaApproved(t *testing.T) {
	f := newFixture()
	m := f.addMeeting("evt_good", longAgenda, "a@example.com")
	m.QualityScore = 75

	action, err := f.svc.Validate(context.Background(), "evt_good")
	if err != nil {
		t.Fatalf("Validate: %v", err)
	}
	if action != domain.ActionApproved {
		t.Errorf("action = %s, want approved", action)
	}
	if len(f.notifier.warnings) != 0 || len(f.notifier.cancelled) != 0 {
		t.Error("approved meeting must trigger no notifications")
	}
}

func TestValidateAlreadyCancelledIsNoop(t *testing.T) {
	f := newFixture()
	m := f.addMeeting("evt_done", "x", "a@example.com")
	m.Status = domain.MeetingStatusCancelled

	action, err := f.svc.Validate(context.Background(), "evt_done")
	if err != nil {
		t.Fatalf("Validate: %v", err)
	}
	if action != domain.ActionApproved {
		t.Errorf("action = %s", action)
	}
	if len(f.calendar.cancelled) != 0 {
		t.Error("terminal meeting must not be cancelled again")
	}
	if f.repo.meetings["evt_done"].ValidatedAt == nil {
		t.Error("ValidatedAt not stamped")
	}
}

func TestValidateNotFound(t *testing.T) {
	f := newFixture()

	_, err := f.svc.Validate(context.Background(), "evt_missing")
	if !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("Validate = %v, want ErrNotFound", err)
	}
}

// ---------------------------------------------------------------------------
// Register
// ---------------------------------------------------------------------------

func snapshot(eventID, description string, attendees ...domain.AttendeeSnapshot) *domain.EventSnapshot {
	return &domain.EventSnapshot{
		EventID:        eventID,
		CalendarID:     "primary",
		Summary:        "Planning",
		Description:    description,
		OrganizerEmail: "Organizer@Example.com",
		OrganizerName:  "Org",
		Attendees:      attendees,
		Start:          time.Date(2026, 3, 11, 10, 0, 0, 0, time.UTC),
		End:            time.Date(2026, 3, 11, 11, 0, 0, 0, time.UTC),
		Timezone:       "UTC",
	}
}

func TestRegisterStoresAndValidates(t *testing.T) {
	f := newFixture()
	f.calendar.snapshots["evt_new"] = snapshot("evt_new", longAgenda,
		domain.AttendeeSnapshot{Email: "Dev@Example.com", ResponseStatus: domain.ResponseNeedsAction},
		domain.AttendeeSnapshot{Email: "organizer@example.com"},
	)

	m, err := f.svc.Register(context.Background(), "primary", "evt_new")
	if err != nil {
		t.Fatalf("Register: %v", err)
	}

	if m.Creator != "organizer@example.com" {
		t.Errorf("Creator = %q, want lowercased organizer", m.Creator)
	}
	if len(m.Attendees) != 1 || m.Attendees[0].Email != "dev@example.com" {
		t.Errorf("Attendees = %+v, organizer must not be an attendee", m.Attendees)
	}
	if len(m.MandatoryAttendees) != 1 {
		t.Errorf("MandatoryAttendees = %v", m.MandatoryAttendees)
	}
	if m.ValidatedAt == nil {
		t.Error("registration must run validation")
	}
	if m.QualityScore == 0 {
		t.Error("QualityScore not computed from sections")
	}
	if f.ledger.count("MEETING_ORGANIZED") != 1 {
		t.Errorf("ledger = %v, want one MEETING_ORGANIZED", f.ledger.events)
	}
	if f.ledger.count("AGENDA_ADDED") != 1 {
		t.Errorf("ledger = %v, want one AGENDA_ADDED", f.ledger.events)
	}
}

func TestRegisterShortAgendaScoresNoAgendaEvent(t *testing.T) {
	f := newFixture()
	f.calendar.snapshots["evt_bare"] = snapshot("evt_bare", "sync",
		domain.AttendeeSnapshot{Email: "dev@example.com"},
	)

	m, err := f.svc.Register(context.Background(), "", "evt_bare")
	if err != nil {
		t.Fatalf("Register: %v", err)
	}

	if f.ledger.count("AGENDA_ADDED") != 0 {
		t.Errorf("ledger = %v, short agenda must not score AGENDA_ADDED", f.ledger.events)
	}
	if m.Status != domain.MeetingStatusAutoCancelled {
		t.Errorf("Status = %s, want auto-cancelled", m.Status)
	}
}

func TestRegisterIdempotent(t *testing.T) {
	f := newFixture()
	f.calendar.snapshots["evt_dup"] = snapshot("evt_dup", longAgenda,
		domain.AttendeeSnapshot{Email: "dev@example.com"},
	)

	if _, err := f.svc.Register(context.Background(), "primary", "evt_dup"); err != nil {
		t.Fatalf("first Register: %v", err)
	}
	events := len(f.ledger.events)

	if _, err := f.svc.Register(context.Background(), "primary", "evt_dup"); err != nil {
		t.Fatalf("second Register: %v", err)
	}
	if len(f.ledger.events) != events {
		t.Errorf("second registration scored events: %v", f.ledger.events)
	}
}

func TestRegisterMissingEventID(t *testing.T) {
	f := newFixture()

	_, err := f.svc.Register(context.Background(), "primary", "")
	if !errors.Is(err, domain.ErrValidation) {
		t.Fatalf("Register = %v, want ErrValidation", err)
	}
}

// ---------------------------------------------------------------------------
// SubmitRSVP
// ---------------------------------------------------------------------------

func TestSubmitRSVPOnTime(t *testing.T) {
	f := newFixture()
	f.addMeeting("evt_rsvp", longAgenda, "dev@example.com")

	if err := f.svc.SubmitRSVP(context.Background(), "evt_rsvp", "dev@example.com", domain.ResponseAccepted); err != nil {
		t.Fatalf("SubmitRSVP: %v", err)
	}

	if got := f.repo.meetings["evt_rsvp"].Attendee("dev@example.com").ResponseStatus; got != domain.ResponseAccepted {
		t.Errorf("ResponseStatus = %s", got)
	}
	if f.ledger.count("RSVP_ON_TIME") != 1 {
		t.Errorf("ledger = %v, want RSVP_ON_TIME", f.ledger.events)
	}
	if len(f.calendar.rsvps) != 1 {
		t.Errorf("calendar write-backs = %v", f.calendar.rsvps)
	}
}

func TestSubmitRSVPSecondAnswerScoresNothing(t *testing.T) {
	f := newFixture()
	f.addMeeting("evt_flip", longAgenda, "dev@example.com")
	ctx := context.Background()

	if err := f.svc.SubmitRSVP(ctx, "evt_flip", "dev@example.com", domain.ResponseTentative); err != nil {
		t.Fatalf("SubmitRSVP: %v", err)
	}
	if err := f.svc.SubmitRSVP(ctx, "evt_flip", "dev@example.com", domain.ResponseAccepted); err != nil {
		t.Fatalf("second SubmitRSVP: %v", err)
	}

	if f.ledger.count("RSVP_ON_TIME") != 1 {
		t.Errorf("ledger = %v, flip-flop must score once", f.ledger.events)
	}
}

func TestSubmitRSVPAfterStartScoresNothing(t *testing.T) {
	f := newFixture()
	m := f.addMeeting("evt_late", longAgenda, "dev@example.com")
	m.StartTime = f.now.Add(-time.Hour)

	if err := f.svc.SubmitRSVP(context.Background(), "evt_late", "dev@example.com", domain.ResponseAccepted); err != nil {
		t.Fatalf("SubmitRSVP: %v", err)
	}

	if f.ledger.count("RSVP_ON_TIME") != 0 {
		t.Errorf("ledger = %v, late answer must not score", f.ledger.events)
	}
}

func TestSubmitRSVPTerminalMeetingConflicts(t *testing.T) {
	f := newFixture()
	m := f.addMeeting("evt_gone", longAgenda, "dev@example.com")
	m.Status = domain.MeetingStatusAutoCancelled

	err := f.svc.SubmitRSVP(context.Background(), "evt_gone", "dev@example.com", domain.ResponseAccepted)
	if !errors.Is(err, domain.ErrConflict) {
		t.Fatalf("SubmitRSVP = %v, want ErrConflict", err)
	}
}

func TestSubmitRSVPUnknownAttendee(t *testing.T) {
	f := newFixture()
	f.addMeeting("evt_who", longAgenda, "dev@example.com")

	err := f.svc.SubmitRSVP(context.Background(), "evt_who", "stranger@example.com", domain.ResponseAccepted)
	if !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("SubmitRSVP = %v, want ErrNotFound", err)
	}
}

func TestSubmitRSVPRejectsNeedsAction(t *testing.T) {
	f := newFixture()
	f.addMeeting("evt_nil", longAgenda, "dev@example.com")

	err := f.svc.SubmitRSVP(context.Background(), "evt_nil", "dev@example.com", domain.ResponseNeedsAction)
	if !errors.Is(err, domain.ErrValidation) {
		t.Fatalf("SubmitRSVP = %v, want ErrValidation", err)
	}
}

func TestSubmitRSVPCalendarFailureIsNotFatal(t *testing.T) {
	f := newFixture()
	f.addMeeting("evt_flaky", longAgenda, "dev@example.com")
	f.calendar.failRSVP = true

	if err := f.svc.SubmitRSVP(context.Background(), "evt_flaky", "dev@example.com", domain.ResponseAccepted); err != nil {
		t.Fatalf("SubmitRSVP = %v, calendar failure must not surface", err)
	}
	if got := f.repo.meetings["evt_flaky"].Attendee("dev@example.com").ResponseStatus; got != domain.ResponseAccepted {
		t.Errorf("ResponseStatus = %s, local state must win", got)
	}
}

// ---------------------------------------------------------------------------
// Sync
// ---------------------------------------------------------------------------

func TestSyncPicksUpRSVPChanges(t *testing.T) {
	f := newFixture()
	f.addMeeting("evt_hook", longAgenda, "dev@example.com")
	f.calendar.snapshots["evt_hook"] = snapshot("evt_hook", longAgenda,
		domain.AttendeeSnapshot{Email: "dev@example.com", ResponseStatus: domain.ResponseDeclined},
	)

	if err := f.svc.Sync(context.Background(), "evt_hook"); err != nil {
		t.Fatalf("Sync: %v", err)
	}

	if got := f.repo.meetings["evt_hook"].Attendee("dev@example.com").ResponseStatus; got != domain.ResponseDeclined {
		t.Errorf("ResponseStatus = %s, want declined", got)
	}
	if f.ledger.count("RSVP_ON_TIME") != 1 {
		t.Errorf("ledger = %v, calendar answer before start must score", f.ledger.events)
	}
}

func TestSyncScoresFixedAgenda(t *testing.T) {
	f := newFixture()
	f.addMeeting("evt_fix", "tbd", "dev@example.com")
	f.calendar.snapshots["evt_fix"] = snapshot("evt_fix", longAgenda,
		domain.AttendeeSnapshot{Email: "dev@example.com"},
	)

	if err := f.svc.Sync(context.Background(), "evt_fix"); err != nil {
		t.Fatalf("Sync: %v", err)
	}

	m := f.repo.meetings["evt_fix"]
	if m.Agenda.Raw != longAgenda {
		t.Errorf("Agenda.Raw = %q, want synced text", m.Agenda.Raw)
	}
	if f.ledger.count("AGENDA_ADDED") != 1 {
		t.Errorf("ledger = %v, fixed agenda must score", f.ledger.events)
	}
}

func TestSyncSkipsTerminalMeetings(t *testing.T) {
	f := newFixture()
	m := f.addMeeting("evt_final", "x", "dev@example.com")
	m.Status = domain.MeetingStatusCompleted

	if err := f.svc.Sync(context.Background(), "evt_final"); err != nil {
		t.Fatalf("Sync = %v, terminal meeting must be a no-op", err)
	}
}

// ---------------------------------------------------------------------------
// Scan and cleanup
// ---------------------------------------------------------------------------

func TestScanUnvalidated(t *testing.T) {
	f := newFixture()
	f.addMeeting("evt_a", "short", "dev@example.com")
	m := f.addMeeting("evt_b", longAgenda, "dev@example.com")
	done := f.now
	m.ValidatedAt = &done

	processed, err := f.svc.ScanUnvalidated(context.Background())
	if err != nil {
		t.Fatalf("ScanUnvalidated: %v", err)
	}
	if processed != 1 {
		t.Errorf("processed = %d, want 1", processed)
	}
	if f.repo.meetings["evt_a"].Status != domain.MeetingStatusAutoCancelled {
		t.Errorf("evt_a Status = %s, scan must validate it", f.repo.meetings["evt_a"].Status)
	}
}

func TestSyncCalendarRegistersUntracked(t *testing.T) {
	f := newFixture()
	f.addMeeting("evt_known", longAgenda, "dev@example.com")
	f.calendar.snapshots["evt_fresh"] = snapshot("evt_fresh", longAgenda)
	f.calendar.upcoming = []*domain.EventSnapshot{
		snapshot("evt_known", longAgenda),
		snapshot("evt_fresh", longAgenda),
	}

	registered, err := f.svc.SyncCalendar(context.Background())
	if err != nil {
		t.Fatalf("SyncCalendar: %v", err)
	}
	if registered != 1 {
		t.Errorf("registered = %d, want 1", registered)
	}
	if _, ok := f.repo.meetings["evt_fresh"]; !ok {
		t.Error("untracked event not registered")
	}
	if f.ledger.count("MEETING_ORGANIZED") != 1 {
		t.Errorf("ledger = %v, tracked event must not score again", f.ledger.events)
	}
}

func TestSyncCalendarSkipsFailingEvent(t *testing.T) {
	f := newFixture()
	// evt_gone is listed but no longer fetchable; the sync moves on.
	f.calendar.snapshots["evt_ok"] = snapshot("evt_ok", longAgenda)
	f.calendar.upcoming = []*domain.EventSnapshot{
		snapshot("evt_gone", longAgenda),
		snapshot("evt_ok", longAgenda),
	}

	registered, err := f.svc.SyncCalendar(context.Background())
	if err != nil {
		t.Fatalf("SyncCalendar: %v", err)
	}
	if registered != 1 {
		t.Errorf("registered = %d, want 1", registered)
	}
}

func TestSyncCalendarListFailure(t *testing.T) {
	f := newFixture()
	f.calendar.failList = true

	if _, err := f.svc.SyncCalendar(context.Background()); err == nil {
		t.Fatal("SyncCalendar must surface a list failure")
	}
}

func TestCleanup(t *testing.T) {
	f := newFixture()
	old := f.addMeeting("evt_old", longAgenda)
	old.EndTime = f.now.AddDate(0, 0, -200)
	f.addMeeting("evt_recent", longAgenda)

	n, err := f.svc.Cleanup(context.Background())
	if err != nil {
		t.Fatalf("Cleanup: %v", err)
	}
	if n != 1 {
		t.Errorf("deleted = %d, want 1", n)
	}
	if _, ok := f.repo.meetings["evt_recent"]; !ok {
		t.Error("recent meeting deleted")
	}
}

// ---------------------------------------------------------------------------
// FixAgenda
// ---------------------------------------------------------------------------

func TestFixAgendaRescoresAndPatchesCalendar(t *testing.T) {
	f := newFixture()
	f.addMeeting("evt_amend", "tbd", "dev@example.com")

	m, err := f.svc.FixAgenda(context.Background(), "evt_amend", longAgenda)
	if err != nil {
		t.Fatalf("FixAgenda: %v", err)
	}
	if m.Agenda.Raw != longAgenda {
		t.Errorf("Agenda.Raw = %q, want the new text", m.Agenda.Raw)
	}
	if m.QualityScore == 0 {
		t.Error("QualityScore = 0, want rescored")
	}
	if len(f.calendar.patched) != 1 {
		t.Errorf("patched = %v, want one description patch", f.calendar.patched)
	}
	if f.ledger.count("AGENDA_ADDED") != 1 {
		t.Errorf("ledger = %v, first qualifying agenda must score", f.ledger.events)
	}
}

func TestFixAgendaDoesNotScoreTwice(t *testing.T) {
	f := newFixture()
	f.addMeeting("evt_amend", longAgenda, "dev@example.com")

	if _, err := f.svc.FixAgenda(context.Background(), "evt_amend", longAgenda+" plus owners"); err != nil {
		t.Fatalf("FixAgenda: %v", err)
	}
	if f.ledger.count("AGENDA_ADDED") != 0 {
		t.Errorf("ledger = %v, meeting already had an agenda", f.ledger.events)
	}
}

func TestFixAgendaCalendarFailureIsNotFatal(t *testing.T) {
	f := newFixture()
	f.addMeeting("evt_amend", "tbd", "dev@example.com")
	f.calendar.failPatch = true

	m, err := f.svc.FixAgenda(context.Background(), "evt_amend", longAgenda)
	if err != nil {
		t.Fatalf("FixAgenda = %v, provider failure must not block", err)
	}
	if m.Agenda.Raw != longAgenda {
		t.Errorf("Agenda.Raw = %q, local store must win", m.Agenda.Raw)
	}
}

func TestFixAgendaRejectsTerminalMeeting(t *testing.T) {
	f := newFixture()
	m := f.addMeeting("evt_done", "tbd", "dev@example.com")
	m.Status = domain.MeetingStatusAutoCancelled

	if _, err := f.svc.FixAgenda(context.Background(), "evt_done", longAgenda); !errors.Is(err, domain.ErrConflict) {
		t.Errorf("err = %v, want conflict", err)
	}
}

func TestFixAgendaValidation(t *testing.T) {
	f := newFixture()

	if _, err := f.svc.FixAgenda(context.Background(), "", longAgenda); !errors.Is(err, domain.ErrValidation) {
		t.Errorf("empty event id: err = %v, want validation error", err)
	}
	if _, err := f.svc.FixAgenda(context.Background(), "evt_x", ""); !errors.Is(err, domain.ErrValidation) {
		t.Errorf("empty agenda: err = %v, want validation error", err)
	}
}
