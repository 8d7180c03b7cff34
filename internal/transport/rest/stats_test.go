package rest

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/chronokeeper/chronokeeper-backend/internal/domain"
)

type fakeStatsService struct {
	stats     map[string]*domain.UserStats
	lastLimit int
}

func (f *fakeStatsService) GetStats(_ context.Context, email string) (*domain.UserStats, error) {
	s, ok := f.stats[email]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return s, nil
}

func (f *fakeStatsService) Leaderboard(_ context.Context, limit int) ([]*domain.UserStats, error) {
	f.lastLimit = limit
	out := make([]*domain.UserStats, 0, len(f.stats))
	for _, s := range f.stats {
		out = append(out, s)
	}
	return out, nil
}

func TestGetUserStats(t *testing.T) {
	svc := &fakeStatsService{stats: map[string]*domain.UserStats{
		"dev@example.com": {
			Email:       "dev@example.com",
			AgendaScore: 30,
			RSVPScore:   20,
			GhostScore:  10,
			Badges: []domain.Badge{
				{Type: domain.BadgeRSVPChampion, Description: domain.BadgeRSVPChampion.Description(), EarnedAt: time.Now()},
			},
		},
	}}
	h := NewStatsHandler(svc, testLogger())

	req := httptest.NewRequest(http.MethodGet, "/api/users/Dev@Example.com/stats", nil)
	req.SetPathValue("email", "Dev@Example.com")
	rec := httptest.NewRecorder()

	h.GetUser(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, email lookup must be case-insensitive", rec.Code)
	}
	var resp statsResponse
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	// 30*0.3 + 20*0.4 + (100-10)*0.3
	if want := 44.0; resp.OverallScore != want {
		t.Errorf("OverallScore = %v, want %v", resp.OverallScore, want)
	}
	if len(resp.Badges) != 1 || resp.Badges[0].Type != "rsvp-champion" {
		t.Errorf("badges = %+v", resp.Badges)
	}
}

func TestGetUserStatsNotFound(t *testing.T) {
	h := NewStatsHandler(&fakeStatsService{stats: map[string]*domain.UserStats{}}, testLogger())

	req := httptest.NewRequest(http.MethodGet, "/api/users/ghost@example.com/stats", nil)
	req.SetPathValue("email", "ghost@example.com")
	rec := httptest.NewRecorder()

	h.GetUser(rec, req)

	if rec.Code != http.StatusNotFound {
		t.Fatalf("status = %d, want 404", rec.Code)
	}
}

func TestLeaderboardLimit(t *testing.T) {
	svc := &fakeStatsService{stats: map[string]*domain.UserStats{}}
	h := NewStatsHandler(svc, testLogger())

	req := httptest.NewRequest(http.MethodGet, "/api/leaderboard?limit=25", nil)
	rec := httptest.NewRecorder()

	h.Leaderboard(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	if svc.lastLimit != 25 {
		t.Errorf("limit = %d, want 25", svc.lastLimit)
	}
}

func TestLeaderboardBadLimit(t *testing.T) {
	h := NewStatsHandler(&fakeStatsService{stats: map[string]*domain.UserStats{}}, testLogger())

	req := httptest.NewRequest(http.MethodGet, "/api/leaderboard?limit=lots", nil)
	rec := httptest.NewRecorder()

	h.Leaderboard(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}
}
