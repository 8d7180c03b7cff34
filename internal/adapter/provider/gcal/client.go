// Package gcal talks to Google Calendar through a domain-delegated
// service account.
package gcal

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"time"

	"golang.org/x/oauth2/google"
	"google.golang.org/api/calendar/v3"
	"google.golang.org/api/option"

	"github.com/chronokeeper/chronokeeper-backend/internal/config"
	"github.com/chronokeeper/chronokeeper-backend/internal/domain"
)

// Client wraps the Calendar API for the policy engine. All methods are
// best effort from the caller's point of view: the database decision has
// already been made when these are invoked.
type Client struct {
	svc *calendar.Service
	cfg config.CalendarConfig
	log *slog.Logger
}

// NewClient builds a Calendar client from a service-account key with
// domain-wide delegation, impersonating the configured workspace user.
func NewClient(ctx context.Context, cfg config.CalendarConfig, logger *slog.Logger) (*Client, error) {
	key, err := os.ReadFile(cfg.CredentialsFile)
	if err != nil {
		return nil, fmt.Errorf("read calendar credentials: %w", err)
	}

	jwtCfg, err := google.JWTConfigFromJSON(key, calendar.CalendarScope)
	if err != nil {
		return nil, fmt.Errorf("parse calendar credentials: %w", err)
	}
	jwtCfg.Subject = cfg.ImpersonateUser

	svc, err := calendar.NewService(ctx, option.WithTokenSource(jwtCfg.TokenSource(ctx)))
	if err != nil {
		return nil, fmt.Errorf("create calendar service: %w", err)
	}

	return &Client{
		svc: svc,
		cfg: cfg,
		log: logger.With("adapter", "gcal"),
	}, nil
}

// GetEvent fetches a single event and converts it to a snapshot.
func (c *Client) GetEvent(ctx context.Context, calendarID, eventID string) (*domain.EventSnapshot, error) {
	if calendarID == "" {
		calendarID = c.cfg.DefaultCalendarID
	}

	ev, err := c.svc.Events.Get(calendarID, eventID).Context(ctx).Do()
	if err != nil {
		return nil, fmt.Errorf("get event %s: %w", eventID, err)
	}

	return snapshotFromEvent(calendarID, ev)
}

// ListUpcoming fetches events starting inside (from, from+window], expanded
// to single instances.
func (c *Client) ListUpcoming(ctx context.Context, calendarID string, from time.Time, window time.Duration) ([]*domain.EventSnapshot, error) {
	if calendarID == "" {
		calendarID = c.cfg.DefaultCalendarID
	}

	events, err := c.svc.Events.List(calendarID).
		TimeMin(from.Format(time.RFC3339)).
		TimeMax(from.Add(window).Format(time.RFC3339)).
		SingleEvents(true).
		OrderBy("startTime").
		MaxResults(250).
		Context(ctx).Do()
	if err != nil {
		return nil, fmt.Errorf("list events: %w", err)
	}

	out := make([]*domain.EventSnapshot, 0, len(events.Items))
	for _, ev := range events.Items {
		snap, err := snapshotFromEvent(calendarID, ev)
		if err != nil {
			c.log.Warn("skipping unparsable event", "event_id", ev.Id, "error", err)
			continue
		}
		out = append(out, snap)
	}
	return out, nil
}

// CancelEvent deletes the event upstream and notifies every guest.
func (c *Client) CancelEvent(ctx context.Context, calendarID, eventID string) error {
	if calendarID == "" {
		calendarID = c.cfg.DefaultCalendarID
	}

	err := c.svc.Events.Delete(calendarID, eventID).SendUpdates("all").Context(ctx).Do()
	if err != nil {
		return fmt.Errorf("cancel event %s: %w", eventID, err)
	}

	c.log.Info("event cancelled upstream", "event_id", eventID)
	return nil
}

// UpdateRSVP patches a single attendee's response on the upstream event.
func (c *Client) UpdateRSVP(ctx context.Context, calendarID, eventID, email string, status domain.ResponseStatus) error {
	if calendarID == "" {
		calendarID = c.cfg.DefaultCalendarID
	}

	ev, err := c.svc.Events.Get(calendarID, eventID).Context(ctx).Do()
	if err != nil {
		return fmt.Errorf("get event %s: %w", eventID, err)
	}

	found := false
	for _, a := range ev.Attendees {
		if a.Email == email {
			a.ResponseStatus = status.String()
			found = true
			break
		}
	}
	if !found {
		return fmt.Errorf("attendee %s on event %s: %w", email, eventID, domain.ErrNotFound)
	}

	patch := &calendar.Event{Attendees: ev.Attendees}
	_, err = c.svc.Events.Patch(calendarID, eventID, patch).SendUpdates("all").Context(ctx).Do()
	if err != nil {
		return fmt.Errorf("patch event %s: %w", eventID, err)
	}
	return nil
}

// PatchDescription rewrites the event description, notifying guests.
func (c *Client) PatchDescription(ctx context.Context, calendarID, eventID, text string) error {
	if calendarID == "" {
		calendarID = c.cfg.DefaultCalendarID
	}

	patch := &calendar.Event{Description: text}
	_, err := c.svc.Events.Patch(calendarID, eventID, patch).SendUpdates("all").Context(ctx).Do()
	if err != nil {
		return fmt.Errorf("patch description on event %s: %w", eventID, err)
	}

	c.log.Info("event description updated", "event_id", eventID)
	return nil
}

// Watch registers a push channel so event changes arrive on the webhook.
// Channels expire, the caller is expected to renew before expiration.
func (c *Client) Watch(ctx context.Context, calendarID, address string, ttl time.Duration) (string, time.Time, error) {
	if calendarID == "" {
		calendarID = c.cfg.DefaultCalendarID
	}

	ch := &calendar.Channel{
		Id:         fmt.Sprintf("calendar-watch-%d", time.Now().UnixMilli()),
		Type:       "web_hook",
		Address:    address,
		Token:      c.cfg.WebhookToken,
		Expiration: time.Now().Add(ttl).UnixMilli(),
	}

	res, err := c.svc.Events.Watch(calendarID, ch).Context(ctx).Do()
	if err != nil {
		return "", time.Time{}, fmt.Errorf("watch calendar %s: %w", calendarID, err)
	}

	expires := time.UnixMilli(res.Expiration)
	c.log.Info("calendar watch registered", "channel_id", res.Id, "expires", expires)
	return res.Id, expires, nil
}
