// Package slacknotify delivers policy decisions and nudges as Slack DMs.
// Delivery is best effort everywhere: a missing token, an unknown user, or
// an API failure never blocks the decision that triggered the message.
package slacknotify

import (
	"context"
	"fmt"
	"log/slog"
	"math/rand"
	"strings"
	"time"

	"github.com/slack-go/slack"

	"github.com/chronokeeper/chronokeeper-backend/internal/domain"
)

// slackAPI is the slice of the Slack client the notifier uses.
// *slack.Client satisfies it.
type slackAPI interface {
	PostMessageContext(ctx context.Context, channelID string, options ...slack.MsgOption) (string, string, error)
	GetUserByEmailContext(ctx context.Context, email string) (*slack.User, error)
	GetUsersContext(ctx context.Context, options ...slack.GetUsersOption) ([]slack.User, error)
}

// identityCache maps emails to Slack user ids. Misses are resolved through
// the API and written back.
type identityCache interface {
	Get(ctx context.Context, email string) (*domain.SlackIdentity, error)
	Put(ctx context.Context, id domain.SlackIdentity) error
}

// profileStore receives resolved display names during bulk sync.
type profileStore interface {
	UpdateProfile(ctx context.Context, email, name, slackUserID string) error
}

// Notifier sends DMs for the policy engine. With no API client configured
// every send is a logged no-op, so the engine runs fine without Slack.
type Notifier struct {
	api        slackAPI
	identities identityCache
	profiles   profileStore
	log        *slog.Logger

	// pick selects a template variant, swappable for tests.
	pick func(n int) int
}

// New creates a notifier. An empty botToken disables delivery.
func New(botToken string, identities identityCache, profiles profileStore, logger *slog.Logger) *Notifier {
	n := &Notifier{
		identities: identities,
		profiles:   profiles,
		log:        logger.With("adapter", "slack"),
		pick:       rand.Intn,
	}
	if botToken != "" {
		n.api = slack.New(botToken)
	}
	return n
}

// Enabled reports whether a bot token is configured.
func (n *Notifier) Enabled() bool { return n.api != nil }

// resolve returns the Slack user id for an email, consulting the cache
// before the API. Resolved ids are written back to the cache.
func (n *Notifier) resolve(ctx context.Context, email string) (string, error) {
	if id, err := n.identities.Get(ctx, email); err == nil {
		return id.SlackUserID, nil
	}

	user, err := n.api.GetUserByEmailContext(ctx, email)
	if err != nil {
		if strings.Contains(err.Error(), "users_not_found") {
			return "", fmt.Errorf("slack user for %s: %w", email, domain.ErrNotFound)
		}
		return "", fmt.Errorf("lookup slack user for %s: %w", email, err)
	}

	if err := n.identities.Put(ctx, domain.SlackIdentity{
		Email:       email,
		SlackUserID: user.ID,
		Name:        user.RealName,
		LastSynced:  time.Now(),
	}); err != nil {
		n.log.Warn("identity cache write failed", "email", email, "error", err)
	}

	return user.ID, nil
}

// sendDM resolves the address and posts the message to the user's DM.
func (n *Notifier) sendDM(ctx context.Context, email, fallback string, blocks []slack.Block) error {
	if n.api == nil {
		n.log.Debug("slack disabled, skipping dm", "email", email)
		return nil
	}

	userID, err := n.resolve(ctx, email)
	if err != nil {
		return err
	}

	_, _, err = n.api.PostMessageContext(ctx, userID,
		slack.MsgOptionText(fallback, false),
		slack.MsgOptionBlocks(blocks...),
	)
	if err != nil {
		return fmt.Errorf("post message to %s: %w", email, err)
	}
	return nil
}

// SyncAllUsers pulls the full workspace member list and refreshes the
// identity cache and stats profiles. Bots and deleted accounts are skipped.
func (n *Notifier) SyncAllUsers(ctx context.Context) (int, error) {
	if n.api == nil {
		return 0, fmt.Errorf("slack is not configured")
	}

	users, err := n.api.GetUsersContext(ctx)
	if err != nil {
		return 0, fmt.Errorf("list slack users: %w", err)
	}

	synced := 0
	now := time.Now()
	for _, u := range users {
		if u.Deleted || u.IsBot || u.Profile.Email == "" {
			continue
		}
		email := strings.ToLower(u.Profile.Email)

		if err := n.identities.Put(ctx, domain.SlackIdentity{
			Email:       email,
			SlackUserID: u.ID,
			Name:        u.RealName,
			LastSynced:  now,
		}); err != nil {
			n.log.Error("identity sync failed", "email", email, "error", err)
			continue
		}
		if err := n.profiles.UpdateProfile(ctx, email, u.RealName, u.ID); err != nil {
			n.log.Error("profile sync failed", "email", email, "error", err)
			continue
		}
		synced++
	}

	n.log.Info("slack users synced", "total", len(users), "synced", synced)
	return synced, nil
}
