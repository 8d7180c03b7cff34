package rest

import (
	"context"
	"log/slog"
	"net/http"
)

// syncService fans a calendar change notification out to tracked meetings.
type syncService interface {
	SyncUpcoming(ctx context.Context) (int, error)
}

// WebhookHandler receives Google Calendar push notifications.
type WebhookHandler struct {
	svc   syncService
	token string
	log   *slog.Logger
}

// NewWebhookHandler creates a WebhookHandler. token is the channel token
// set when the watch was registered; an empty token disables the check.
func NewWebhookHandler(svc syncService, token string, logger *slog.Logger) *WebhookHandler {
	return &WebhookHandler{svc: svc, token: token, log: logger.With("handler", "webhook")}
}

// Calendar handles POST /api/webhooks/calendar. Push notifications carry
// no body worth parsing, only the X-Goog-* headers. Google expects a fast
// 200 regardless of what we do with the notification.
func (h *WebhookHandler) Calendar(w http.ResponseWriter, r *http.Request) {
	if h.token != "" && r.Header.Get("X-Goog-Channel-Token") != h.token {
		h.log.Warn("webhook with bad channel token", "channel_id", r.Header.Get("X-Goog-Channel-ID"))
		writeError(w, http.StatusForbidden, "invalid channel token")
		return
	}

	state := r.Header.Get("X-Goog-Resource-State")
	h.log.Info("calendar webhook received",
		"state", state,
		"channel_id", r.Header.Get("X-Goog-Channel-ID"),
		"resource_id", r.Header.Get("X-Goog-Resource-ID"))

	switch state {
	case "sync":
		// Channel registration handshake, nothing changed yet.
	case "exists", "update", "not_exists":
		synced, err := h.svc.SyncUpcoming(r.Context())
		if err != nil {
			h.log.Error("rsvp sync failed", "error", err)
			writeError(w, http.StatusInternalServerError, "sync failed")
			return
		}
		h.log.Info("rsvp sync finished", "synced", synced)
	default:
		h.log.Warn("unknown resource state", "state", state)
	}

	w.WriteHeader(http.StatusOK)
}
