// Package identity implements the email-to-Slack-user cache using
// PostgreSQL. The table is a cache: rows can be dropped and re-resolved
// from the Slack API at any time.
package identity

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	postgres "github.com/chronokeeper/chronokeeper-backend/internal/adapter/postgres"
	"github.com/chronokeeper/chronokeeper-backend/internal/domain"
)

// Repo provides Slack identity persistence backed by PostgreSQL.
type Repo struct {
	pool *pgxpool.Pool
}

// New creates a new identity repository.
func New(pool *pgxpool.Pool) *Repo {
	return &Repo{pool: pool}
}

// Get returns the cached Slack identity for an address.
// Returns domain.ErrNotFound on a cache miss.
func (r *Repo) Get(ctx context.Context, email string) (*domain.SlackIdentity, error) {
	q := postgres.QuerierFromCtx(ctx, r.pool)

	var id domain.SlackIdentity
	err := q.QueryRow(ctx,
		`SELECT email, slack_user_id, name, last_synced FROM slack_identities WHERE email = $1`,
		email,
	).Scan(&id.Email, &id.SlackUserID, &id.Name, &id.LastSynced)
	if err != nil {
		return nil, postgres.MapError(err, "slack_identity", email)
	}

	return &id, nil
}

// Put stores or refreshes a resolved identity.
func (r *Repo) Put(ctx context.Context, id domain.SlackIdentity) error {
	q := postgres.QuerierFromCtx(ctx, r.pool)

	_, err := q.Exec(ctx, `
		INSERT INTO slack_identities (email, slack_user_id, name, last_synced)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (email) DO UPDATE SET
		    slack_user_id = EXCLUDED.slack_user_id,
		    name = EXCLUDED.name,
		    last_synced = EXCLUDED.last_synced`,
		id.Email, id.SlackUserID, id.Name, id.LastSynced,
	)
	if err != nil {
		return postgres.MapError(err, "slack_identity", id.Email)
	}

	return nil
}

// Count returns the number of cached identities.
func (r *Repo) Count(ctx context.Context) (int, error) {
	q := postgres.QuerierFromCtx(ctx, r.pool)

	var n int
	if err := q.QueryRow(ctx, `SELECT count(*) FROM slack_identities`).Scan(&n); err != nil {
		return 0, fmt.Errorf("count slack_identities: %w", err)
	}
	return n, nil
}
