package main

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"jobwatch/activity"
	"jobwatch/job"
	"jobwatch/scheduler"
)

// checkRunner is the slice of the scheduler the server needs.
type checkRunner interface {
	RunOnce(ctx context.Context, now time.Time) (scheduler.Summary, error)
}

// snoozer manages reminder suppression on behalf of an acting user.
type snoozer interface {
	Snooze(ctx context.Context, jobID, actorID string, now time.Time) (time.Time, error)
	Unsnooze(ctx context.Context, jobID, actorID string) error
}

// Server exposes the escalation trigger and the snooze controls over HTTP.
// It is an internal subsystem API: the surrounding application terminates
// end-user sessions and forwards the acting user in X-Actor-Id.
type Server struct {
	checker    checkRunner
	recorder   snoozer
	cronSecret string
	logger     *slog.Logger
	now        func() time.Time
}

func NewServer(checker checkRunner, recorder snoozer, cronSecret string, logger *slog.Logger) *Server {
	if logger == nil {
		logger = slog.Default()
	}
	return &Server{
		checker:    checker,
		recorder:   recorder,
		cronSecret: cronSecret,
		logger:     logger,
		now:        func() time.Time { return time.Now().UTC() },
	}
}

// Router mounts the API routes.
func (s *Server) Router() http.Handler {
	r := chi.NewRouter()
	r.Get("/healthz", s.handleHealth)
	r.Get("/api/cron/check-inactive-jobs", s.handleCheckInactiveJobs)
	r.Post("/api/jobs/{id}/snooze", s.handleSnooze)
	r.Delete("/api/jobs/{id}/snooze", s.handleUnsnooze)
	return r
}

type checkResponse struct {
	Success           bool   `json:"success"`
	JobsChecked       int    `json:"jobsChecked"`
	NotificationsSent int    `json:"notificationsSent"`
	Timestamp         string `json:"timestamp"`
}

type errorResponse struct {
	Error string `json:"error"`
}

// handleCheckInactiveJobs runs one escalation pass. Meant to be hit hourly
// by an external cron; duplicate triggers close together are harmless since
// the reminder cooldown suppresses re-dispatch.
func (s *Server) handleCheckInactiveJobs(w http.ResponseWriter, r *http.Request) {
	if err := authorizeTrigger(r.Header.Get("Authorization"), s.cronSecret); err != nil {
		writeJSON(w, http.StatusUnauthorized, errorResponse{Error: "Unauthorized"})
		return
	}

	now := s.now()
	summary, err := s.checker.RunOnce(r.Context(), now)
	if err != nil {
		// Store errors are logged here and never echoed to the caller.
		s.logger.Error("escalation pass failed", "error", err)
		writeJSON(w, http.StatusInternalServerError, errorResponse{Error: "Internal server error"})
		return
	}

	writeJSON(w, http.StatusOK, checkResponse{
		Success:           true,
		JobsChecked:       summary.JobsChecked,
		NotificationsSent: summary.NotificationsSent,
		Timestamp:         summary.EvaluatedAt.Format(time.RFC3339),
	})
}

type snoozeResponse struct {
	Success     bool   `json:"success"`
	SnoozeUntil string `json:"snoozeUntil"`
}

func (s *Server) handleSnooze(w http.ResponseWriter, r *http.Request) {
	jobID := chi.URLParam(r, "id")
	actorID := r.Header.Get("X-Actor-Id")
	if actorID == "" {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "X-Actor-Id header required"})
		return
	}

	until, err := s.recorder.Snooze(r.Context(), jobID, actorID, s.now())
	if err != nil {
		s.writeSnoozeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, snoozeResponse{
		Success:     true,
		SnoozeUntil: until.Format(time.RFC3339),
	})
}

func (s *Server) handleUnsnooze(w http.ResponseWriter, r *http.Request) {
	jobID := chi.URLParam(r, "id")
	actorID := r.Header.Get("X-Actor-Id")
	if actorID == "" {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "X-Actor-Id header required"})
		return
	}

	if err := s.recorder.Unsnooze(r.Context(), jobID, actorID); err != nil {
		s.writeSnoozeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{"success": true})
}

func (s *Server) writeSnoozeError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, job.ErrNotFound):
		writeJSON(w, http.StatusNotFound, errorResponse{Error: "Job not found"})
	case errors.Is(err, activity.ErrNotAuthorized):
		writeJSON(w, http.StatusForbidden, errorResponse{Error: "You don't have permission to snooze this job"})
	default:
		s.logger.Error("snooze failed", "error", err)
		writeJSON(w, http.StatusInternalServerError, errorResponse{Error: "Internal server error"})
	}
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}
