package rest

import (
	"context"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/chronokeeper/chronokeeper-backend/internal/domain"
)

// statsService is the slice of the gamification service the handler uses.
type statsService interface {
	GetStats(ctx context.Context, email string) (*domain.UserStats, error)
	Leaderboard(ctx context.Context, limit int) ([]*domain.UserStats, error)
}

// StatsHandler serves gamification read endpoints.
type StatsHandler struct {
	svc statsService
	log *slog.Logger
}

// NewStatsHandler creates a StatsHandler.
func NewStatsHandler(svc statsService, logger *slog.Logger) *StatsHandler {
	return &StatsHandler{svc: svc, log: logger.With("handler", "stats")}
}

type badgeResponse struct {
	Type        string `json:"type"`
	Description string `json:"description"`
	EarnedAt    string `json:"earnedAt"`
}

type statsResponse struct {
	Email              string          `json:"email"`
	Name               string          `json:"name,omitempty"`
	AgendaScore        int             `json:"agendaScore"`
	RSVPScore          int             `json:"rsvpScore"`
	GhostScore         int             `json:"ghostScore"`
	OverallScore       float64         `json:"overallScore"`
	MeetingsOrganized  int             `json:"meetingsOrganized"`
	MeetingsWithAgenda int             `json:"meetingsWithAgenda"`
	MeetingsAttended   int             `json:"meetingsAttended"`
	RSVPsOnTime        int             `json:"rsvpsOnTime"`
	RSVPsIgnored       int             `json:"rsvpsIgnored"`
	CurrentRSVPStreak  int             `json:"currentRsvpStreak"`
	BestRSVPStreak     int             `json:"bestRsvpStreak"`
	Badges             []badgeResponse `json:"badges"`
}

// GetUser handles GET /api/users/{email}/stats.
func (h *StatsHandler) GetUser(w http.ResponseWriter, r *http.Request) {
	email := strings.ToLower(r.PathValue("email"))
	stats, err := h.svc.GetStats(r.Context(), email)
	if err != nil {
		writeDomainError(w, r, h.log, err)
		return
	}

	writeJSON(w, http.StatusOK, toStatsResponse(stats))
}

// Leaderboard handles GET /api/leaderboard?limit=10.
func (h *StatsHandler) Leaderboard(w http.ResponseWriter, r *http.Request) {
	limit := 0
	if v := r.URL.Query().Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 0 {
			writeError(w, http.StatusBadRequest, "limit must be a non-negative integer")
			return
		}
		limit = n
	}

	entries, err := h.svc.Leaderboard(r.Context(), limit)
	if err != nil {
		writeDomainError(w, r, h.log, err)
		return
	}

	out := make([]statsResponse, 0, len(entries))
	for _, s := range entries {
		out = append(out, toStatsResponse(s))
	}

	writeJSON(w, http.StatusOK, map[string]any{"leaderboard": out})
}

func toStatsResponse(s *domain.UserStats) statsResponse {
	resp := statsResponse{
		Email:              s.Email,
		Name:               s.Name,
		AgendaScore:        s.AgendaScore,
		RSVPScore:          s.RSVPScore,
		GhostScore:         s.GhostScore,
		OverallScore:       s.OverallScore(),
		MeetingsOrganized:  s.MeetingsOrganized,
		MeetingsWithAgenda: s.MeetingsWithAgenda,
		MeetingsAttended:   s.MeetingsAttended,
		RSVPsOnTime:        s.RSVPsOnTime,
		RSVPsIgnored:       s.RSVPsIgnored,
		CurrentRSVPStreak:  s.CurrentRSVPStreak,
		BestRSVPStreak:     s.BestRSVPStreak,
		Badges:             make([]badgeResponse, 0, len(s.Badges)),
	}
	for _, b := range s.Badges {
		resp.Badges = append(resp.Badges, badgeResponse{
			Type:        b.Type.String(),
			Description: b.Description,
			EarnedAt:    b.EarnedAt.Format(time.RFC3339),
		})
	}
	return resp
}
