package server

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/spigell/hh-screener/internal/interview"
	"github.com/spigell/hh-screener/internal/screening"
)

const maxBodyBytes = 64 << 10

type Handler struct {
	conversations Conversations
	logger        *zap.Logger
	opts          Options
	now           func() time.Time
}

// JSON writes a JSON response with the given status code.
func JSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		http.Error(w, `{"error": "failed to encode response"}`, http.StatusInternalServerError)
	}
}

// Error writes a JSON error response.
func Error(w http.ResponseWriter, status int, message string) {
	JSON(w, status, map[string]string{"error": message})
}

type startResponse struct {
	SessionID string `json:"session_id"`
	Message   string `json:"message"`
	Status    string `json:"status"`
}

type messageRequest struct {
	SessionID string `json:"session_id"`
	Message   string `json:"message"`
}

func (h *Handler) StartConversation(w http.ResponseWriter, r *http.Request) {
	var req interview.StartRequest
	if !h.decode(w, r, &req) {
		return
	}
	if req.JobID == "" {
		req.JobID = h.opts.DefaultJobID
	}
	if req.CompanyID == "" {
		req.CompanyID = h.opts.DefaultCompanyID
	}

	reply, err := h.conversations.Start(r.Context(), req)
	if err != nil {
		h.fail(w, err)
		return
	}

	JSON(w, http.StatusOK, startResponse{
		SessionID: reply.SessionID,
		Message:   reply.Text,
		Status:    "started",
	})
}

func (h *Handler) ProcessMessage(w http.ResponseWriter, r *http.Request) {
	var req messageRequest
	if !h.decode(w, r, &req) {
		return
	}
	if strings.TrimSpace(req.SessionID) == "" {
		Error(w, http.StatusBadRequest, "session_id is required")
		return
	}

	reply, err := h.conversations.Reply(r.Context(), req.SessionID, req.Message)
	if err != nil {
		h.fail(w, err)
		return
	}

	JSON(w, http.StatusOK, reply)
}

func (h *Handler) SessionInfo(w http.ResponseWriter, r *http.Request) {
	summary, err := h.conversations.Session(r.Context(), chi.URLParam(r, "sessionID"))
	if err != nil {
		h.fail(w, err)
		return
	}
	JSON(w, http.StatusOK, summary)
}

func (h *Handler) Health(w http.ResponseWriter, _ *http.Request) {
	JSON(w, http.StatusOK, map[string]any{
		"status":      "healthy",
		"version":     h.opts.Version,
		"environment": h.opts.Environment,
		"timestamp":   h.now().UTC().Format(time.RFC3339),
	})
}

func (h *Handler) decode(w http.ResponseWriter, r *http.Request, v any) bool {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		Error(w, http.StatusBadRequest, "invalid request body: "+err.Error())
		return false
	}
	return true
}

func (h *Handler) fail(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, screening.ErrValidation):
		Error(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, screening.ErrRepositoryMiss):
		Error(w, http.StatusNotFound, "cannot start conversation: "+err.Error())
	case errors.Is(err, interview.ErrSessionNotFound):
		Error(w, http.StatusNotFound, "session not found")
	default:
		h.logger.Error("request failed", zap.Error(err))
		Error(w, http.StatusInternalServerError, "internal error")
	}
}
