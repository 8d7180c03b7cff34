package rest

import (
	"context"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/chronokeeper/chronokeeper-backend/internal/domain"
	"github.com/chronokeeper/chronokeeper-backend/internal/transport/middleware"
)

// jobRunner exposes the periodic passes for manual triggering.
type jobRunner interface {
	RunBatch(ctx context.Context) (int, error)
	CheckMandatory(ctx context.Context) (int, error)
	ReclaimRooms(ctx context.Context) (int, error)
}

// scanRunner exposes the unvalidated-meeting scan and the calendar sync.
type scanRunner interface {
	ScanUnvalidated(ctx context.Context) (int, error)
	SyncCalendar(ctx context.Context) (int, error)
}

// calendarWatcher registers a push channel with the upstream calendar.
type calendarWatcher interface {
	Watch(ctx context.Context, calendarID, address string, ttl time.Duration) (string, time.Time, error)
}

// watchTTL matches the longest channel lifetime the calendar API grants.
const watchTTL = 7 * 24 * time.Hour

// badgeAdmin exposes the gamification admin surface.
type badgeAdmin interface {
	EvaluateAll(ctx context.Context) error
	Reset(ctx context.Context, email string) error
}

// userSyncer pulls the Slack workspace member list into the identity cache.
type userSyncer interface {
	SyncAllUsers(ctx context.Context) (int, error)
}

// meetingCounter and userCounter provide aggregate counts for the
// system-stats endpoint.
type meetingCounter interface {
	CountByStatus(ctx context.Context) (map[domain.MeetingStatus]int, error)
}

type userCounter interface {
	Count(ctx context.Context) (int, error)
}

// AdminHandler serves admin-only trigger and maintenance endpoints.
// Every route requires an admin token.
type AdminHandler struct {
	jobs       jobRunner
	scan       scanRunner
	badges     badgeAdmin
	users      userSyncer
	meetings   meetingCounter
	stats      userCounter
	watcher    calendarWatcher
	webhookURL string
	log        *slog.Logger
}

// NewAdminHandler creates an AdminHandler. webhookURL is the public address
// push notifications are delivered to; when empty, watch registration is
// rejected.
func NewAdminHandler(
	jobs jobRunner,
	scan scanRunner,
	badges badgeAdmin,
	users userSyncer,
	meetings meetingCounter,
	stats userCounter,
	watcher calendarWatcher,
	webhookURL string,
	logger *slog.Logger,
) *AdminHandler {
	return &AdminHandler{
		jobs:       jobs,
		scan:       scan,
		badges:     badges,
		users:      users,
		meetings:   meetings,
		stats:      stats,
		watcher:    watcher,
		webhookURL: webhookURL,
		log:        logger.With("handler", "admin"),
	}
}

// TriggerReminders handles POST /api/admin/trigger-reminders.
func (h *AdminHandler) TriggerReminders(w http.ResponseWriter, r *http.Request) {
	if !h.requireAdmin(w, r) {
		return
	}
	h.runCounted(w, r, "reminders sent", h.jobs.RunBatch)
}

// TriggerMandatoryCheck handles POST /api/admin/trigger-mandatory-check.
func (h *AdminHandler) TriggerMandatoryCheck(w http.ResponseWriter, r *http.Request) {
	if !h.requireAdmin(w, r) {
		return
	}
	h.runCounted(w, r, "meetings cancelled", h.jobs.CheckMandatory)
}

// TriggerRoomReclaim handles POST /api/admin/trigger-room-reclaim.
func (h *AdminHandler) TriggerRoomReclaim(w http.ResponseWriter, r *http.Request) {
	if !h.requireAdmin(w, r) {
		return
	}
	h.runCounted(w, r, "rooms released", h.jobs.ReclaimRooms)
}

// TriggerScan handles POST /api/admin/trigger-scan.
func (h *AdminHandler) TriggerScan(w http.ResponseWriter, r *http.Request) {
	if !h.requireAdmin(w, r) {
		return
	}
	h.runCounted(w, r, "meetings validated", h.scan.ScanUnvalidated)
}

// SyncCalendar handles POST /api/admin/calendar/sync. Registers upcoming
// calendar events that are not yet tracked.
func (h *AdminHandler) SyncCalendar(w http.ResponseWriter, r *http.Request) {
	if !h.requireAdmin(w, r) {
		return
	}
	h.runCounted(w, r, "meetings registered", h.scan.SyncCalendar)
}

// RegisterCalendarWatch handles POST /api/admin/calendar/watch. Registers a
// push channel so calendar changes reach the webhook endpoint.
func (h *AdminHandler) RegisterCalendarWatch(w http.ResponseWriter, r *http.Request) {
	if !h.requireAdmin(w, r) {
		return
	}
	if h.webhookURL == "" {
		writeError(w, http.StatusConflict, "calendar webhook url is not configured")
		return
	}

	channelID, expires, err := h.watcher.Watch(r.Context(), "", h.webhookURL, watchTTL)
	if err != nil {
		writeDomainError(w, r, h.log, err)
		return
	}

	h.log.Info("calendar watch registered", "channel_id", channelID, "expires", expires)
	writeJSON(w, http.StatusOK, map[string]any{
		"channelId": channelID,
		"expiresAt": expires,
	})
}

// SyncSlackUsers handles POST /api/admin/sync-slack-users.
func (h *AdminHandler) SyncSlackUsers(w http.ResponseWriter, r *http.Request) {
	if !h.requireAdmin(w, r) {
		return
	}
	h.runCounted(w, r, "users synced", h.users.SyncAllUsers)
}

// EvaluateBadges handles POST /api/admin/evaluate-badges. Re-derives every
// user's badge set from their counters.
func (h *AdminHandler) EvaluateBadges(w http.ResponseWriter, r *http.Request) {
	if !h.requireAdmin(w, r) {
		return
	}

	if err := h.badges.EvaluateAll(r.Context()); err != nil {
		writeDomainError(w, r, h.log, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// ResetUser handles POST /api/admin/users/{email}/reset. Zeroes the user's
// counters and removes all badges.
func (h *AdminHandler) ResetUser(w http.ResponseWriter, r *http.Request) {
	if !h.requireAdmin(w, r) {
		return
	}

	email := strings.ToLower(r.PathValue("email"))
	if err := h.badges.Reset(r.Context(), email); err != nil {
		writeDomainError(w, r, h.log, err)
		return
	}

	h.log.Info("user stats reset", "email", email)
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// SystemStats handles GET /api/admin/system-stats.
func (h *AdminHandler) SystemStats(w http.ResponseWriter, r *http.Request) {
	if !h.requireAdmin(w, r) {
		return
	}

	byStatus, err := h.meetings.CountByStatus(r.Context())
	if err != nil {
		writeDomainError(w, r, h.log, err)
		return
	}
	users, err := h.stats.Count(r.Context())
	if err != nil {
		writeDomainError(w, r, h.log, err)
		return
	}

	meetings := make(map[string]int, len(byStatus))
	total := 0
	for status, n := range byStatus {
		meetings[status.String()] = n
		total += n
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"meetings":      meetings,
		"totalMeetings": total,
		"trackedUsers":  users,
	})
}

func (h *AdminHandler) runCounted(w http.ResponseWriter, r *http.Request, label string, fn func(context.Context) (int, error)) {
	count, err := fn(r.Context())
	if err != nil {
		writeDomainError(w, r, h.log, err)
		return
	}

	h.log.Info("admin trigger finished", "result", label, "count", count)
	writeJSON(w, http.StatusOK, map[string]any{"status": "ok", "count": count})
}

func (h *AdminHandler) requireAdmin(w http.ResponseWriter, r *http.Request) bool {
	if err := middleware.RequireAdmin(r.Context()); err != nil {
		writeError(w, http.StatusForbidden, "admin access required")
		return false
	}
	return true
}
