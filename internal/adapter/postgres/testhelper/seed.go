package testhelper

import (
	"context"
	"fmt"
	"sync/atomic"
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
)

var seedSeq atomic.Int64

// uniqueSuffix returns a process-unique suffix so parallel tests never
// collide on natural keys.
func uniqueSuffix() int64 { return seedSeq.Add(1) }

// SeedMeetingOpts tweaks the meeting row created by SeedMeeting.
type SeedMeetingOpts struct {
	EventID   string
	Creator   string
	Summary   string
	Agenda    string
	Location  string
	StartTime time.Time
	Status    string
	Attendees []SeedAttendee
}

// SeedAttendee is one attendee row to create alongside a seeded meeting.
type SeedAttendee struct {
	Email          string
	ResponseStatus string
	ReminderCount  int
	LastReminded   *time.Time
}

// SeedMeeting inserts a meeting row (plus attendee rows) and returns its
// event id. Zero-valued fields get sensible defaults.
func SeedMeeting(t *testing.T, pool *pgxpool.Pool, opts SeedMeetingOpts) string {
	t.Helper()

	n := uniqueSuffix()
	if opts.EventID == "" {
		opts.EventID = fmt.Sprintf("evt_seed_%d", n)
	}
	if opts.Creator == "" {
		opts.Creator = fmt.Sprintf("organizer%d@example.com", n)
	}
	if opts.Summary == "" {
		opts.Summary = "Seeded meeting"
	}
	if opts.StartTime.IsZero() {
		opts.StartTime = time.Now().Add(36 * time.Hour)
	}
	if opts.Status == "" {
		opts.Status = "scheduled"
	}

	ctx := context.Background()
	_, err := pool.Exec(ctx,
		`INSERT INTO meetings (event_id, calendar_id, summary, agenda_raw, creator,
		                       start_time, end_time, location, status)
		 VALUES ($1, 'primary', $2, $3, $4, $5, $6, $7, $8)`,
		opts.EventID, opts.Summary, opts.Agenda, opts.Creator,
		opts.StartTime, opts.StartTime.Add(30*time.Minute), opts.Location, opts.Status,
	)
	if err != nil {
		t.Fatalf("seed meeting: %v", err)
	}

	for _, a := range opts.Attendees {
		if a.ResponseStatus == "" {
			a.ResponseStatus = "needsAction"
		}
		_, err := pool.Exec(ctx,
			`INSERT INTO meeting_attendees (event_id, email, response_status, reminder_count, last_reminded)
			 VALUES ($1, $2, $3, $4, $5)`,
			opts.EventID, a.Email, a.ResponseStatus, a.ReminderCount, a.LastReminded,
		)
		if err != nil {
			t.Fatalf("seed attendee %s: %v", a.Email, err)
		}
	}

	return opts.EventID
}

// SeedStats inserts a user_stats row and returns its email.
func SeedStats(t *testing.T, pool *pgxpool.Pool, agendaScore, rsvpScore, ghostScore int) string {
	t.Helper()

	email := fmt.Sprintf("user%d@example.com", uniqueSuffix())
	_, err := pool.Exec(context.Background(),
		`INSERT INTO user_stats (email, agenda_score, rsvp_score, ghost_score)
		 VALUES ($1, $2, $3, $4)`,
		email, agendaScore, rsvpScore, ghostScore,
	)
	if err != nil {
		t.Fatalf("seed stats: %v", err)
	}

	return email
}
