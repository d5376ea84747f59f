// Package api exposes HTTP handlers for activity submission and the dashboard.
package api

import (
	"bytes"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"go.uber.org/zap"

	"example.com/salesvault/internal/auth"
	"example.com/salesvault/internal/domain"
	"example.com/salesvault/internal/projection"
)

const maxBodyBytes = 1 << 20

// Handler coordinates HTTP requests with the activity service and the projector.
type Handler struct {
	service   *domain.Service
	projector *projection.Projector
	logger    *zap.Logger
}

// NewHandler builds a Handler.
func NewHandler(service *domain.Service, projector *projection.Projector, logger *zap.Logger) *Handler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Handler{service: service, projector: projector, logger: logger}
}

// RegisterRoutes wires endpoints to the mux.
func (h *Handler) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("/v1/activities", h.activities)
	mux.HandleFunc("/v1/activities/latest", h.latestActivity)
	mux.HandleFunc("/v1/dashboard", h.dashboard)
	mux.HandleFunc("/healthz", healthz)
}

// healthz reports a simple OK status for container health checks.
func healthz(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok"))
}

func (h *Handler) activities(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodPost:
		h.createActivity(w, r)
	case http.MethodGet:
		h.listActivities(w, r)
	default:
		writeError(w, http.StatusMethodNotAllowed, "method_not_allowed", "unsupported method")
	}
}

func (h *Handler) createActivity(w http.ResponseWriter, r *http.Request) {
	if !requireScope(w, r, auth.ScopeActivitiesWrite) {
		return
	}

	var req CreateActivityRequest
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes)).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request", "unable to parse body: "+err.Error())
		return
	}

	entry, err := h.service.Submit(r.Context(), req.toInput())
	if err != nil {
		var verr *domain.ValidationError
		if errors.As(err, &verr) {
			writeJSON(w, http.StatusUnprocessableEntity, validationResponse{
				Type:   "validation_failed",
				Detail: domain.ErrValidation.Error(),
				Errors: verr.Fields,
			})
			return
		}
		h.logger.Error("submit activity", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "server_error", err.Error())
		return
	}

	writeJSON(w, http.StatusCreated, toActivityView(entry))
}

func (h *Handler) listActivities(w http.ResponseWriter, r *http.Request) {
	if !requireScope(w, r, auth.ScopeDashboardRead) {
		return
	}

	entries := h.service.Entries(r.Context())
	items := make([]ActivityView, 0, len(entries))
	for _, entry := range entries {
		items = append(items, toActivityView(entry))
	}
	writeJSON(w, http.StatusOK, ListActivitiesResponse{Items: items, Total: len(items)})
}

func (h *Handler) latestActivity(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, "method_not_allowed", "unsupported method")
		return
	}
	if !requireScope(w, r, auth.ScopeDashboardRead) {
		return
	}

	latest := h.service.Latest(r.Context())
	if latest.IsEmpty() {
		writeJSON(w, http.StatusOK, map[string]bool{"empty": true})
		return
	}
	writeJSON(w, http.StatusOK, toActivityView(latest))
}

func (h *Handler) dashboard(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, "method_not_allowed", "unsupported method")
		return
	}
	if !requireScope(w, r, auth.ScopeDashboardRead) {
		return
	}

	latest := h.service.Latest(r.Context())
	resp := DashboardResponse{Dashboard: h.projector.Snapshot(latest)}
	if !latest.IsEmpty() {
		view := toActivityView(latest)
		resp.LatestEntry = &view
	}
	writeJSON(w, http.StatusOK, resp)
}

func requireScope(w http.ResponseWriter, r *http.Request, scope string) bool {
	claims, ok := auth.FromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "unauthorized", "missing bearer token")
		return false
	}
	if !claims.HasScope(scope) {
		writeError(w, http.StatusForbidden, "forbidden", "scope "+scope+" required")
		return false
	}
	return true
}

// CreateActivityRequest is the payload for POST /v1/activities.
type CreateActivityRequest struct {
	Calls            Count  `json:"calls"`
	InPersonMeetings Count  `json:"in_person_meetings"`
	ProposalsSent    Count  `json:"proposals_sent"`
	Notes            string `json:"notes"`
}

func (r CreateActivityRequest) toInput() domain.ActivityInput {
	return domain.ActivityInput{
		Calls:            string(r.Calls),
		InPersonMeetings: string(r.InPersonMeetings),
		ProposalsSent:    string(r.ProposalsSent),
		Notes:            r.Notes,
	}
}

// Count holds a form count as submitted. Numbers and strings keep their text, null is empty and
// any other JSON value keeps its raw form. The domain parser decides whether it is acceptable.
type Count string

// UnmarshalJSON implements json.Unmarshaler.
func (c *Count) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	switch {
	case bytes.Equal(data, []byte("null")):
		*c = ""
	case len(data) > 0 && data[0] == '"':
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*c = Count(s)
	default:
		var n json.Number
		if err := json.Unmarshal(data, &n); err != nil {
			// Booleans, arrays and objects are kept verbatim and fail field validation.
			*c = Count(data)
			return nil
		}
		*c = Count(n.String())
	}
	return nil
}

// ActivityView is the JSON form of an activity entry.
type ActivityView struct {
	ID               string    `json:"id"`
	Calls            int       `json:"calls"`
	InPersonMeetings int       `json:"in_person_meetings"`
	ProposalsSent    int       `json:"proposals_sent"`
	Notes            string    `json:"notes"`
	SubmittedAt      time.Time `json:"submitted_at"`
}

// ListActivitiesResponse packages list results, newest first.
type ListActivitiesResponse struct {
	Items []ActivityView `json:"items"`
	Total int            `json:"total"`
}

// DashboardResponse is the dashboard snapshot plus the entry it was computed against.
type DashboardResponse struct {
	projection.Dashboard
	LatestEntry *ActivityView `json:"latest_entry,omitempty"`
}

type validationResponse struct {
	Type   string              `json:"type"`
	Detail string              `json:"detail"`
	Errors []domain.FieldError `json:"errors"`
}

func writeError(w http.ResponseWriter, status int, code, detail string) {
	payload := map[string]string{
		"type":   code,
		"detail": detail,
	}
	writeJSON(w, status, payload)
}

func writeJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}

func toActivityView(entry domain.ActivityEntry) ActivityView {
	return ActivityView{
		ID:               entry.ID,
		Calls:            entry.Calls,
		InPersonMeetings: entry.InPersonMeetings,
		ProposalsSent:    entry.ProposalsSent,
		Notes:            entry.Notes,
		SubmittedAt:      entry.SubmittedAt,
	}
}
