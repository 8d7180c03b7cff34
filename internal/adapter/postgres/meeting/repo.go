// Package meeting implements the meeting repository using PostgreSQL.
// Meetings are keyed by their calendar event id; attendees live in a child
// table and are loaded with the aggregate.
package meeting

import (
	"context"
	"fmt"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5/pgxpool"

	postgres "github.com/chronokeeper/chronokeeper-backend/internal/adapter/postgres"
	"github.com/chronokeeper/chronokeeper-backend/internal/domain"
)

// Repo provides meeting persistence backed by PostgreSQL.
type Repo struct {
	pool *pgxpool.Pool
	txm  *postgres.TxManager
}

// New creates a new meeting repository.
func New(pool *pgxpool.Pool) *Repo {
	return &Repo{pool: pool, txm: postgres.NewTxManager(pool)}
}

var builder = sq.StatementBuilder.PlaceholderFormat(sq.Dollar)

var meetingColumns = []string{
	"event_id", "calendar_id", "summary",
	"agenda_raw", "agenda_purpose", "agenda_outcomes", "agenda_decisions", "agenda_prereads",
	"quality_score", "creator", "creator_name", "mandatory_attendees",
	"start_time", "end_time", "timezone", "location", "meeting_link",
	"status", "cancellation_reason", "was_room_released", "validated_at",
	"created_at", "updated_at",
}

// ---------------------------------------------------------------------------
// Read operations
// ---------------------------------------------------------------------------

// GetByID returns a meeting with its attendees loaded.
// Returns domain.ErrNotFound if no meeting with the event id exists.
func (r *Repo) GetByID(ctx context.Context, eventID string) (*domain.Meeting, error) {
	q := postgres.QuerierFromCtx(ctx, r.pool)

	sqlStr, args, err := builder.
		Select(meetingColumns...).
		From("meetings").
		Where(sq.Eq{"event_id": eventID}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build meeting select: %w", err)
	}

	m, err := scanMeeting(q.QueryRow(ctx, sqlStr, args...))
	if err != nil {
		return nil, postgres.MapError(err, "meeting", eventID)
	}

	if err := r.loadAttendees(ctx, []*domain.Meeting{m}); err != nil {
		return nil, err
	}

	return m, nil
}

// List returns meetings matching the filter, attendees loaded, ordered by
// start time ascending. Returns an empty slice when nothing matches.
func (r *Repo) List(ctx context.Context, f domain.MeetingFilter) ([]*domain.Meeting, error) {
	q := postgres.QuerierFromCtx(ctx, r.pool)
	normalize(&f)

	b := builder.
		Select(meetingColumns...).
		From("meetings").
		OrderBy("start_time ASC").
		Limit(uint64(f.Limit))

	sqlStr, args, err := applyFilter(b, f).ToSql()
	if err != nil {
		return nil, fmt.Errorf("build meeting list: %w", err)
	}

	rows, err := q.Query(ctx, sqlStr, args...)
	if err != nil {
		return nil, fmt.Errorf("list meetings: %w", err)
	}
	defer rows.Close()

	meetings := make([]*domain.Meeting, 0)
	for rows.Next() {
		m, err := scanMeeting(rows)
		if err != nil {
			return nil, fmt.Errorf("scan meeting: %w", err)
		}
		meetings = append(meetings, m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate meetings: %w", err)
	}

	if err := r.loadAttendees(ctx, meetings); err != nil {
		return nil, err
	}

	return meetings, nil
}

// CountByStatus returns the number of tracked meetings per status.
func (r *Repo) CountByStatus(ctx context.Context) (map[domain.MeetingStatus]int, error) {
	q := postgres.QuerierFromCtx(ctx, r.pool)

	rows, err := q.Query(ctx, `SELECT status, COUNT(*) FROM meetings GROUP BY status`)
	if err != nil {
		return nil, fmt.Errorf("count meetings: %w", err)
	}
	defer rows.Close()

	counts := make(map[domain.MeetingStatus]int)
	for rows.Next() {
		var status domain.MeetingStatus
		var n int
		if err := rows.Scan(&status, &n); err != nil {
			return nil, fmt.Errorf("scan meeting count: %w", err)
		}
		counts[status] = n
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate meeting counts: %w", err)
	}

	return counts, nil
}

// ---------------------------------------------------------------------------
// Write operations
// ---------------------------------------------------------------------------

// Create inserts a meeting together with its attendee rows.
// Returns domain.ErrAlreadyExists if the event id is already tracked.
func (r *Repo) Create(ctx context.Context, m *domain.Meeting) error {
	return r.txm.RunInTx(ctx, func(txCtx context.Context) error {
		return r.create(txCtx, m)
	})
}

func (r *Repo) create(ctx context.Context, m *domain.Meeting) error {
	q := postgres.QuerierFromCtx(ctx, r.pool)

	sqlStr, args, err := builder.
		Insert("meetings").
		Columns(
			"event_id", "calendar_id", "summary",
			"agenda_raw", "agenda_purpose", "agenda_outcomes", "agenda_decisions", "agenda_prereads",
			"quality_score", "creator", "creator_name", "mandatory_attendees",
			"start_time", "end_time", "timezone", "location", "meeting_link",
			"status", "validated_at",
		).
		Values(
			m.EventID, m.CalendarID, m.Summary,
			m.Agenda.Raw, m.Agenda.Purpose, m.Agenda.Outcomes, m.Agenda.Decisions, m.Agenda.Prereads,
			m.QualityScore, m.Creator, m.CreatorName, m.MandatoryAttendees,
			m.StartTime, m.EndTime, m.Timezone, m.Location, m.MeetingLink,
			m.Status, m.ValidatedAt,
		).
		ToSql()
	if err != nil {
		return fmt.Errorf("build meeting insert: %w", err)
	}

	if _, err := q.Exec(ctx, sqlStr, args...); err != nil {
		return postgres.MapError(err, "meeting", m.EventID)
	}

	for _, a := range m.Attendees {
		if err := r.insertAttendee(ctx, m.EventID, a); err != nil {
			return err
		}
	}

	return nil
}

// SetAgenda replaces the agenda sections and quality score of a meeting.
func (r *Repo) SetAgenda(ctx context.Context, eventID string, agenda domain.Agenda, score int) error {
	q := postgres.QuerierFromCtx(ctx, r.pool)

	sqlStr, args, err := builder.
		Update("meetings").
		Set("agenda_raw", agenda.Raw).
		Set("agenda_purpose", agenda.Purpose).
		Set("agenda_outcomes", agenda.Outcomes).
		Set("agenda_decisions", agenda.Decisions).
		Set("agenda_prereads", agenda.Prereads).
		Set("quality_score", score).
		Set("updated_at", sq.Expr("now()")).
		Where(sq.Eq{"event_id": eventID}).
		ToSql()
	if err != nil {
		return fmt.Errorf("build agenda update: %w", err)
	}

	tag, err := q.Exec(ctx, sqlStr, args...)
	if err != nil {
		return postgres.MapError(err, "meeting", eventID)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("meeting %s: %w", eventID, domain.ErrNotFound)
	}

	return nil
}

// MarkValidated stamps the meeting as processed by the validation pass.
func (r *Repo) MarkValidated(ctx context.Context, eventID string, at time.Time) error {
	q := postgres.QuerierFromCtx(ctx, r.pool)

	sqlStr, args, err := builder.
		Update("meetings").
		Set("validated_at", at).
		Set("updated_at", sq.Expr("now()")).
		Where(sq.Eq{"event_id": eventID}).
		ToSql()
	if err != nil {
		return fmt.Errorf("build validated update: %w", err)
	}

	tag, err := q.Exec(ctx, sqlStr, args...)
	if err != nil {
		return postgres.MapError(err, "meeting", eventID)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("meeting %s: %w", eventID, domain.ErrNotFound)
	}

	return nil
}

// Cancel moves a scheduled meeting to the given cancelled status and records
// the reason. Returns false without error if the meeting was not in the
// scheduled state, which makes concurrent cancellation attempts idempotent.
func (r *Repo) Cancel(ctx context.Context, eventID string, status domain.MeetingStatus, reason string) (bool, error) {
	if !status.IsCancelled() {
		return false, fmt.Errorf("cancel meeting %s: status %q: %w", eventID, status, domain.ErrValidation)
	}

	q := postgres.QuerierFromCtx(ctx, r.pool)

	sqlStr, args, err := builder.
		Update("meetings").
		Set("status", status).
		Set("cancellation_reason", reason).
		Set("updated_at", sq.Expr("now()")).
		Where(sq.Eq{"event_id": eventID, "status": domain.MeetingStatusScheduled}).
		ToSql()
	if err != nil {
		return false, fmt.Errorf("build cancel update: %w", err)
	}

	tag, err := q.Exec(ctx, sqlStr, args...)
	if err != nil {
		return false, postgres.MapError(err, "meeting", eventID)
	}

	return tag.RowsAffected() == 1, nil
}

// MarkRoomReleased sets the room-released flag. Returns false without error
// if the flag was already set, so only one caller ever wins.
func (r *Repo) MarkRoomReleased(ctx context.Context, eventID string) (bool, error) {
	q := postgres.QuerierFromCtx(ctx, r.pool)

	sqlStr, args, err := builder.
		Update("meetings").
		Set("was_room_released", true).
		Set("updated_at", sq.Expr("now()")).
		Where(sq.Eq{"event_id": eventID, "was_room_released": false}).
		ToSql()
	if err != nil {
		return false, fmt.Errorf("build room release update: %w", err)
	}

	tag, err := q.Exec(ctx, sqlStr, args...)
	if err != nil {
		return false, postgres.MapError(err, "meeting", eventID)
	}

	return tag.RowsAffected() == 1, nil
}

// RecordReminder increments the attendee's reminder counter and appends the
// send time. The counter only ever moves forward.
func (r *Repo) RecordReminder(ctx context.Context, eventID, email string, at time.Time) error {
	q := postgres.QuerierFromCtx(ctx, r.pool)

	sqlStr, args, err := builder.
		Update("meeting_attendees").
		Set("reminder_count", sq.Expr("reminder_count + 1")).
		Set("last_reminded", at).
		Set("reminded_at", sq.Expr("array_append(reminded_at, ?)", at)).
		Where(sq.Eq{"event_id": eventID, "email": email}).
		ToSql()
	if err != nil {
		return fmt.Errorf("build reminder update: %w", err)
	}

	tag, err := q.Exec(ctx, sqlStr, args...)
	if err != nil {
		return postgres.MapError(err, "attendee", email)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("attendee %s on %s: %w", email, eventID, domain.ErrNotFound)
	}

	return nil
}

// UpdateAttendeeResponse stores an attendee's RSVP answer.
func (r *Repo) UpdateAttendeeResponse(ctx context.Context, eventID, email string, status domain.ResponseStatus) error {
	if !status.IsValid() {
		return fmt.Errorf("attendee %s: response %q: %w", email, status, domain.ErrValidation)
	}

	q := postgres.QuerierFromCtx(ctx, r.pool)

	sqlStr, args, err := builder.
		Update("meeting_attendees").
		Set("response_status", status).
		Where(sq.Eq{"event_id": eventID, "email": email}).
		ToSql()
	if err != nil {
		return fmt.Errorf("build response update: %w", err)
	}

	tag, err := q.Exec(ctx, sqlStr, args...)
	if err != nil {
		return postgres.MapError(err, "attendee", email)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("attendee %s on %s: %w", email, eventID, domain.ErrNotFound)
	}

	return nil
}

// DeleteOlderThan removes meetings whose end time precedes the cutoff.
// Attendee rows go with them via ON DELETE CASCADE. Returns the number of
// meetings removed.
func (r *Repo) DeleteOlderThan(ctx context.Context, cutoff time.Time) (int64, error) {
	q := postgres.QuerierFromCtx(ctx, r.pool)

	sqlStr, args, err := builder.
		Delete("meetings").
		Where(sq.Lt{"end_time": cutoff}).
		ToSql()
	if err != nil {
		return 0, fmt.Errorf("build retention delete: %w", err)
	}

	tag, err := q.Exec(ctx, sqlStr, args...)
	if err != nil {
		return 0, fmt.Errorf("delete old meetings: %w", err)
	}

	return tag.RowsAffected(), nil
}

// ---------------------------------------------------------------------------
// Row mapping
// ---------------------------------------------------------------------------

type rowScanner interface {
	Scan(dest ...any) error
}

func scanMeeting(row rowScanner) (*domain.Meeting, error) {
	var m domain.Meeting
	err := row.Scan(
		&m.EventID, &m.CalendarID, &m.Summary,
		&m.Agenda.Raw, &m.Agenda.Purpose, &m.Agenda.Outcomes, &m.Agenda.Decisions, &m.Agenda.Prereads,
		&m.QualityScore, &m.Creator, &m.CreatorName, &m.MandatoryAttendees,
		&m.StartTime, &m.EndTime, &m.Timezone, &m.Location, &m.MeetingLink,
		&m.Status, &m.CancellationReason, &m.WasRoomReleased, &m.ValidatedAt,
		&m.CreatedAt, &m.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &m, nil
}

func (r *Repo) insertAttendee(ctx context.Context, eventID string, a domain.Attendee) error {
	q := postgres.QuerierFromCtx(ctx, r.pool)

	sqlStr, args, err := builder.
		Insert("meeting_attendees").
		Columns("event_id", "email", "name", "response_status", "reminder_count", "last_reminded", "reminded_at").
		Values(eventID, a.Email, a.Name, a.ResponseStatus, a.ReminderCount, a.LastReminded, a.RemindedAt).
		ToSql()
	if err != nil {
		return fmt.Errorf("build attendee insert: %w", err)
	}

	if _, err := q.Exec(ctx, sqlStr, args...); err != nil {
		return postgres.MapError(err, "attendee", a.Email)
	}

	return nil
}

// loadAttendees fetches attendee rows for the given meetings in one query
// and attaches them in stable (email) order.
func (r *Repo) loadAttendees(ctx context.Context, meetings []*domain.Meeting) error {
	if len(meetings) == 0 {
		return nil
	}

	q := postgres.QuerierFromCtx(ctx, r.pool)

	ids := make([]string, len(meetings))
	byID := make(map[string]*domain.Meeting, len(meetings))
	for i, m := range meetings {
		ids[i] = m.EventID
		byID[m.EventID] = m
	}

	sqlStr, args, err := builder.
		Select("event_id", "email", "name", "response_status", "reminder_count", "last_reminded", "reminded_at").
		From("meeting_attendees").
		Where(sq.Eq{"event_id": ids}).
		OrderBy("event_id, email").
		ToSql()
	if err != nil {
		return fmt.Errorf("build attendee select: %w", err)
	}

	rows, err := q.Query(ctx, sqlStr, args...)
	if err != nil {
		return fmt.Errorf("load attendees: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var (
			eventID string
			a       domain.Attendee
		)
		if err := rows.Scan(&eventID, &a.Email, &a.Name, &a.ResponseStatus,
			&a.ReminderCount, &a.LastReminded, &a.RemindedAt); err != nil {
			return fmt.Errorf("scan attendee: %w", err)
		}
		if m, ok := byID[eventID]; ok {
			m.Attendees = append(m.Attendees, a)
		}
	}
	if err := rows.Err(); err != nil {
		return fmt.Errorf("iterate attendees: %w", err)
	}

	return nil
}
