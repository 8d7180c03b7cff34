package rest

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/chronokeeper/chronokeeper-backend/internal/domain"
	"github.com/chronokeeper/chronokeeper-backend/internal/service/agenda"
)

// meetingService is the slice of the meeting service the handler uses.
type meetingService interface {
	Register(ctx context.Context, calendarID, eventID string) (*domain.Meeting, error)
	Get(ctx context.Context, eventID string) (*domain.Meeting, error)
	SubmitRSVP(ctx context.Context, eventID, email string, status domain.ResponseStatus) error
	FixAgenda(ctx context.Context, eventID, text string) (*domain.Meeting, error)
	AnalyzeAgenda(ctx context.Context, text string) agenda.Analysis
}

// MeetingHandler serves meeting lifecycle endpoints.
type MeetingHandler struct {
	svc meetingService
	log *slog.Logger
}

// NewMeetingHandler creates a MeetingHandler.
func NewMeetingHandler(svc meetingService, logger *slog.Logger) *MeetingHandler {
	return &MeetingHandler{svc: svc, log: logger.With("handler", "meetings")}
}

type registerRequest struct {
	EventID    string `json:"eventId"`
	CalendarID string `json:"calendarId"`
}

type rsvpRequest struct {
	Email    string `json:"email"`
	Response string `json:"response"`
}

type analyzeRequest struct {
	Agenda string `json:"agenda"`
}

type attendeeResponse struct {
	Email          string `json:"email"`
	Name           string `json:"name,omitempty"`
	ResponseStatus string `json:"responseStatus"`
	ReminderCount  int    `json:"reminderCount"`
}

type meetingResponse struct {
	EventID            string             `json:"eventId"`
	Summary            string             `json:"summary"`
	Creator            string             `json:"creator"`
	Status             string             `json:"status"`
	QualityScore       int                `json:"qualityScore"`
	StartTime          string             `json:"startTime"`
	EndTime            string             `json:"endTime"`
	Location           string             `json:"location,omitempty"`
	MeetingLink        string             `json:"meetingLink,omitempty"`
	CancellationReason *string            `json:"cancellationReason,omitempty"`
	RSVPRate           float64            `json:"rsvpRate"`
	Attendees          []attendeeResponse `json:"attendees"`
	MandatoryAttendees []string           `json:"mandatoryAttendees,omitempty"`
}

// Register handles POST /api/meetings/register. Called from the calendar
// add-on right after the organizer creates an event. Registration is
// idempotent: a known event comes back unchanged.
func (h *MeetingHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	m, err := h.svc.Register(r.Context(), req.CalendarID, req.EventID)
	if err != nil {
		writeDomainError(w, r, h.log, err)
		return
	}

	writeJSON(w, http.StatusOK, toMeetingResponse(m))
}

// Get handles GET /api/meetings/{eventID}.
func (h *MeetingHandler) Get(w http.ResponseWriter, r *http.Request) {
	eventID := r.PathValue("eventID")
	m, err := h.svc.Get(r.Context(), eventID)
	if err != nil {
		writeDomainError(w, r, h.log, err)
		return
	}

	writeJSON(w, http.StatusOK, toMeetingResponse(m))
}

// SubmitRSVP handles POST /api/meetings/{eventID}/rsvp.
func (h *MeetingHandler) SubmitRSVP(w http.ResponseWriter, r *http.Request) {
	eventID := r.PathValue("eventID")

	var req rsvpRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	err := h.svc.SubmitRSVP(r.Context(), eventID, req.Email, domain.ResponseStatus(req.Response))
	if err != nil {
		writeDomainError(w, r, h.log, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// FixAgenda handles PUT /api/meetings/{eventID}/agenda. The organizer
// submits a replacement agenda after a quality warning.
func (h *MeetingHandler) FixAgenda(w http.ResponseWriter, r *http.Request) {
	eventID := r.PathValue("eventID")

	var req analyzeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	m, err := h.svc.FixAgenda(r.Context(), eventID, req.Agenda)
	if err != nil {
		writeDomainError(w, r, h.log, err)
		return
	}

	writeJSON(w, http.StatusOK, toMeetingResponse(m))
}

// AnalyzeAgenda handles POST /api/meetings/analyze. Used by the add-on to
// show live agenda feedback while the organizer types.
func (h *MeetingHandler) AnalyzeAgenda(w http.ResponseWriter, r *http.Request) {
	var req analyzeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	writeJSON(w, http.StatusOK, h.svc.AnalyzeAgenda(r.Context(), req.Agenda))
}

func toMeetingResponse(m *domain.Meeting) meetingResponse {
	resp := meetingResponse{
		EventID:            m.EventID,
		Summary:            m.Summary,
		Creator:            m.Creator,
		Status:             m.Status.String(),
		QualityScore:       m.QualityScore,
		StartTime:          m.StartTime.Format(time.RFC3339),
		EndTime:            m.EndTime.Format(time.RFC3339),
		Location:           m.Location,
		MeetingLink:        m.MeetingLink,
		CancellationReason: m.CancellationReason,
		RSVPRate:           m.RSVPRate(),
		MandatoryAttendees: m.MandatoryAttendees,
		Attendees:          make([]attendeeResponse, 0, len(m.Attendees)),
	}
	for _, a := range m.Attendees {
		resp.Attendees = append(resp.Attendees, attendeeResponse{
			Email:          a.Email,
			Name:           a.Name,
			ResponseStatus: a.ResponseStatus.String(),
			ReminderCount:  a.ReminderCount,
		})
	}
	return resp
}
