// Package userstats implements the score ledger's storage using PostgreSQL.
// Counter updates are single upserts, so concurrent scorable events for the
// same address never lose increments.
package userstats

import (
	"context"
	"fmt"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5/pgxpool"

	postgres "github.com/chronokeeper/chronokeeper-backend/internal/adapter/postgres"
	"github.com/chronokeeper/chronokeeper-backend/internal/domain"
)

// Repo provides user stats persistence backed by PostgreSQL.
type Repo struct {
	pool *pgxpool.Pool
	txm  *postgres.TxManager
}

// New creates a new user stats repository.
func New(pool *pgxpool.Pool) *Repo {
	return &Repo{pool: pool, txm: postgres.NewTxManager(pool)}
}

var builder = sq.StatementBuilder.PlaceholderFormat(sq.Dollar)

var statsColumns = []string{
	"email", "name", "slack_user_id",
	"agenda_score", "rsvp_score", "ghost_score",
	"meetings_organized", "meetings_with_agenda", "meetings_attended",
	"rsvps_on_time", "rsvps_ignored",
	"current_rsvp_streak", "best_rsvp_streak", "last_rsvp_date",
	"created_at", "updated_at",
}

// ---------------------------------------------------------------------------
// Read operations
// ---------------------------------------------------------------------------

// Get returns the stats record for an address with badges loaded.
// Returns domain.ErrNotFound if the address has never scored an event.
func (r *Repo) Get(ctx context.Context, email string) (*domain.UserStats, error) {
	q := postgres.QuerierFromCtx(ctx, r.pool)

	sqlStr, args, err := builder.
		Select(statsColumns...).
		From("user_stats").
		Where(sq.Eq{"email": email}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build stats select: %w", err)
	}

	s, err := scanStats(q.QueryRow(ctx, sqlStr, args...))
	if err != nil {
		return nil, postgres.MapError(err, "user_stats", email)
	}

	if err := r.loadBadges(ctx, []*domain.UserStats{s}); err != nil {
		return nil, err
	}

	return s, nil
}

// ListTop returns the leaderboard: agenda score descending, RSVP score as
// the tie breaker. Badges are loaded.
func (r *Repo) ListTop(ctx context.Context, limit int) ([]*domain.UserStats, error) {
	q := postgres.QuerierFromCtx(ctx, r.pool)

	if limit <= 0 {
		limit = 10
	}

	sqlStr, args, err := builder.
		Select(statsColumns...).
		From("user_stats").
		OrderBy("agenda_score DESC", "rsvp_score DESC", "email ASC").
		Limit(uint64(limit)).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build leaderboard select: %w", err)
	}

	rows, err := q.Query(ctx, sqlStr, args...)
	if err != nil {
		return nil, fmt.Errorf("list user_stats: %w", err)
	}
	defer rows.Close()

	out := make([]*domain.UserStats, 0, limit)
	for rows.Next() {
		s, err := scanStats(rows)
		if err != nil {
			return nil, fmt.Errorf("scan user_stats: %w", err)
		}
		out = append(out, s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate user_stats: %w", err)
	}

	if err := r.loadBadges(ctx, out); err != nil {
		return nil, err
	}

	return out, nil
}

// ListEmails returns every tracked address. Used by the badge sweep.
func (r *Repo) ListEmails(ctx context.Context) ([]string, error) {
	q := postgres.QuerierFromCtx(ctx, r.pool)

	rows, err := q.Query(ctx, `SELECT email FROM user_stats ORDER BY email`)
	if err != nil {
		return nil, fmt.Errorf("list emails: %w", err)
	}
	defer rows.Close()

	var emails []string
	for rows.Next() {
		var e string
		if err := rows.Scan(&e); err != nil {
			return nil, fmt.Errorf("scan email: %w", err)
		}
		emails = append(emails, e)
	}
	return emails, rows.Err()
}

// ---------------------------------------------------------------------------
// Write operations
// ---------------------------------------------------------------------------

// applyDeltaSQL upserts a stats row in one statement. The streak update and
// the best-streak ceiling happen in the same expression, so the
// best >= current check constraint can never be violated by interleaving.
const applyDeltaSQL = `
INSERT INTO user_stats (
    email, agenda_score, rsvp_score, ghost_score,
    meetings_organized, meetings_with_agenda, meetings_attended,
    rsvps_on_time, rsvps_ignored,
    current_rsvp_streak, best_rsvp_streak, last_rsvp_date
) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $10, $11)
ON CONFLICT (email) DO UPDATE SET
    agenda_score         = user_stats.agenda_score + EXCLUDED.agenda_score,
    rsvp_score           = user_stats.rsvp_score + EXCLUDED.rsvp_score,
    ghost_score          = user_stats.ghost_score + EXCLUDED.ghost_score,
    meetings_organized   = user_stats.meetings_organized + EXCLUDED.meetings_organized,
    meetings_with_agenda = user_stats.meetings_with_agenda + EXCLUDED.meetings_with_agenda,
    meetings_attended    = user_stats.meetings_attended + EXCLUDED.meetings_attended,
    rsvps_on_time        = user_stats.rsvps_on_time + EXCLUDED.rsvps_on_time,
    rsvps_ignored        = user_stats.rsvps_ignored + EXCLUDED.rsvps_ignored,
    current_rsvp_streak  = user_stats.current_rsvp_streak + EXCLUDED.current_rsvp_streak,
    best_rsvp_streak     = GREATEST(user_stats.best_rsvp_streak,
                                    user_stats.current_rsvp_streak + EXCLUDED.current_rsvp_streak),
    last_rsvp_date       = COALESCE(EXCLUDED.last_rsvp_date, user_stats.last_rsvp_date),
    updated_at           = now()`

// ApplyDelta atomically adds the delta's increments to the address's
// counters, creating the row on first contact. A zero delta is a no-op.
func (r *Repo) ApplyDelta(ctx context.Context, email string, d domain.StatsDelta, at time.Time) error {
	if d.IsZero() {
		return nil
	}

	q := postgres.QuerierFromCtx(ctx, r.pool)

	streakInc := 0
	if d.IncrementStreak {
		streakInc = 1
	}
	var lastRSVP any
	if d.TouchLastRSVP {
		lastRSVP = at
	}

	_, err := q.Exec(ctx, applyDeltaSQL,
		email,
		d.AgendaScore, d.RSVPScore, d.GhostScore,
		d.MeetingsOrganized, d.MeetingsWithAgenda, d.MeetingsAttended,
		d.RSVPsOnTime, d.RSVPsIgnored,
		streakInc, lastRSVP,
	)
	if err != nil {
		return postgres.MapError(err, "user_stats", email)
	}

	return nil
}

// ResetStreak zeroes the current RSVP streak, leaving the best streak alone.
func (r *Repo) ResetStreak(ctx context.Context, email string) error {
	q := postgres.QuerierFromCtx(ctx, r.pool)

	sqlStr, args, err := builder.
		Update("user_stats").
		Set("current_rsvp_streak", 0).
		Set("updated_at", sq.Expr("now()")).
		Where(sq.Eq{"email": email}).
		ToSql()
	if err != nil {
		return fmt.Errorf("build streak reset: %w", err)
	}

	if _, err := q.Exec(ctx, sqlStr, args...); err != nil {
		return postgres.MapError(err, "user_stats", email)
	}
	return nil
}

// UpdateProfile stores the display name and Slack user id for an address,
// creating the stats row if needed.
func (r *Repo) UpdateProfile(ctx context.Context, email, name, slackUserID string) error {
	q := postgres.QuerierFromCtx(ctx, r.pool)

	_, err := q.Exec(ctx, `
		INSERT INTO user_stats (email, name, slack_user_id) VALUES ($1, $2, $3)
		ON CONFLICT (email) DO UPDATE SET
		    name = EXCLUDED.name,
		    slack_user_id = EXCLUDED.slack_user_id,
		    updated_at = now()`,
		email, name, slackUserID,
	)
	if err != nil {
		return postgres.MapError(err, "user_stats", email)
	}
	return nil
}

// SyncBadges reconciles the stored badge set with the desired one and
// returns what was awarded and what was revoked.
func (r *Repo) SyncBadges(ctx context.Context, email string, desired []domain.BadgeType) (awarded, revoked []domain.BadgeType, err error) {
	err = r.txm.RunInTx(ctx, func(txCtx context.Context) error {
		awarded, revoked, err = r.syncBadges(txCtx, email, desired)
		return err
	})
	if err != nil {
		return nil, nil, err
	}
	return awarded, revoked, nil
}

func (r *Repo) syncBadges(ctx context.Context, email string, desired []domain.BadgeType) (awarded, revoked []domain.BadgeType, err error) {
	q := postgres.QuerierFromCtx(ctx, r.pool)

	rows, err := q.Query(ctx, `SELECT badge_type FROM user_badges WHERE email = $1`, email)
	if err != nil {
		return nil, nil, fmt.Errorf("load badges: %w", err)
	}
	current := make(map[domain.BadgeType]bool)
	for rows.Next() {
		var t domain.BadgeType
		if err := rows.Scan(&t); err != nil {
			rows.Close()
			return nil, nil, fmt.Errorf("scan badge: %w", err)
		}
		current[t] = true
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, nil, fmt.Errorf("iterate badges: %w", err)
	}

	want := make(map[domain.BadgeType]bool, len(desired))
	for _, t := range desired {
		want[t] = true
	}

	for _, t := range desired {
		if current[t] {
			continue
		}
		_, err := q.Exec(ctx, `
			INSERT INTO user_badges (email, badge_type) VALUES ($1, $2)
			ON CONFLICT (email, badge_type) DO NOTHING`,
			email, t,
		)
		if err != nil {
			return nil, nil, postgres.MapError(err, "badge", t.String())
		}
		awarded = append(awarded, t)
	}

	for t := range current {
		if want[t] {
			continue
		}
		_, err := q.Exec(ctx,
			`DELETE FROM user_badges WHERE email = $1 AND badge_type = $2`,
			email, t,
		)
		if err != nil {
			return nil, nil, postgres.MapError(err, "badge", t.String())
		}
		revoked = append(revoked, t)
	}

	return awarded, revoked, nil
}

// Reset zeroes every counter and removes all badges for an address.
// The row itself stays, so history of contact is preserved.
func (r *Repo) Reset(ctx context.Context, email string) error {
	return r.txm.RunInTx(ctx, func(txCtx context.Context) error {
		return r.reset(txCtx, email)
	})
}

func (r *Repo) reset(ctx context.Context, email string) error {
	q := postgres.QuerierFromCtx(ctx, r.pool)

	tag, err := q.Exec(ctx, `
		UPDATE user_stats SET
		    agenda_score = 0, rsvp_score = 0, ghost_score = 0,
		    meetings_organized = 0, meetings_with_agenda = 0, meetings_attended = 0,
		    rsvps_on_time = 0, rsvps_ignored = 0,
		    current_rsvp_streak = 0, best_rsvp_streak = 0,
		    last_rsvp_date = NULL, updated_at = now()
		WHERE email = $1`,
		email,
	)
	if err != nil {
		return postgres.MapError(err, "user_stats", email)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("user_stats %s: %w", email, domain.ErrNotFound)
	}

	if _, err := q.Exec(ctx, `DELETE FROM user_badges WHERE email = $1`, email); err != nil {
		return postgres.MapError(err, "user_stats", email)
	}

	return nil
}

// Count returns the number of tracked addresses.
func (r *Repo) Count(ctx context.Context) (int, error) {
	q := postgres.QuerierFromCtx(ctx, r.pool)

	var n int
	if err := q.QueryRow(ctx, `SELECT count(*) FROM user_stats`).Scan(&n); err != nil {
		return 0, fmt.Errorf("count user_stats: %w", err)
	}
	return n, nil
}

// ---------------------------------------------------------------------------
// Row mapping
// ---------------------------------------------------------------------------

type rowScanner interface {
	Scan(dest ...any) error
}

func scanStats(row rowScanner) (*domain.UserStats, error) {
	var s domain.UserStats
	err := row.Scan(
		&s.Email, &s.Name, &s.SlackUserID,
		&s.AgendaScore, &s.RSVPScore, &s.GhostScore,
		&s.MeetingsOrganized, &s.MeetingsWithAgenda, &s.MeetingsAttended,
		&s.RSVPsOnTime, &s.RSVPsIgnored,
		&s.CurrentRSVPStreak, &s.BestRSVPStreak, &s.LastRSVPDate,
		&s.CreatedAt, &s.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &s, nil
}

func (r *Repo) loadBadges(ctx context.Context, stats []*domain.UserStats) error {
	if len(stats) == 0 {
		return nil
	}

	q := postgres.QuerierFromCtx(ctx, r.pool)

	emails := make([]string, len(stats))
	byEmail := make(map[string]*domain.UserStats, len(stats))
	for i, s := range stats {
		emails[i] = s.Email
		byEmail[s.Email] = s
	}

	sqlStr, args, err := builder.
		Select("email", "badge_type", "earned_at").
		From("user_badges").
		Where(sq.Eq{"email": emails}).
		OrderBy("email, badge_type").
		ToSql()
	if err != nil {
		return fmt.Errorf("build badge select: %w", err)
	}

	rows, err := q.Query(ctx, sqlStr, args...)
	if err != nil {
		return fmt.Errorf("load badges: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var (
			email string
			b     domain.Badge
		)
		if err := rows.Scan(&email, &b.Type, &b.EarnedAt); err != nil {
			return fmt.Errorf("scan badge: %w", err)
		}
		b.Description = b.Type.Description()
		if s, ok := byEmail[email]; ok {
			s.Badges = append(s.Badges, b)
		}
	}
	return rows.Err()
}
