// Package handlers exposes the conversation surface over HTTP. Each
// endpoint is a thin driver around the dialogue controller and the
// finalize pipeline; all conversation state lives in the session store.
package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/hellohealth/intake-platform/internal/dialogue"
	"github.com/hellohealth/intake-platform/internal/finalize"
	"github.com/hellohealth/intake-platform/internal/observability/metrics"
	"github.com/hellohealth/intake-platform/internal/session"
	"github.com/hellohealth/intake-platform/pkg/logging"
)

// ConversationHandler drives intake and scheduling conversations.
type ConversationHandler struct {
	store      session.Store
	guard      *session.Guard
	controller *dialogue.Controller
	pipeline   *finalize.Pipeline
	metrics    *metrics.ConversationMetrics
	logger     *logging.Logger
}

// NewConversationHandler wires the conversation endpoints. Metrics may be
// nil; everything else is required.
func NewConversationHandler(
	store session.Store,
	guard *session.Guard,
	controller *dialogue.Controller,
	pipeline *finalize.Pipeline,
	m *metrics.ConversationMetrics,
	logger *logging.Logger,
) *ConversationHandler {
	if logger == nil {
		logger = logging.Default()
	}
	return &ConversationHandler{
		store:      store,
		guard:      guard,
		controller: controller,
		pipeline:   pipeline,
		metrics:    m,
		logger:     logger,
	}
}

// SubmitFieldRequest is the body for a single field submission.
type SubmitFieldRequest struct {
	Field string `json:"field"`
	Value string `json:"value"`
}

// ConversationResponse is returned by every conversation endpoint.
type ConversationResponse struct {
	SessionID    string   `json:"session_id"`
	Phase        string   `json:"phase"`
	Directive    string   `json:"directive,omitempty"`
	Prompt       string   `json:"prompt,omitempty"`
	Alternatives []string `json:"alternatives,omitempty"`
	Notices      []string `json:"notices,omitempty"`
	Result       string   `json:"result,omitempty"`
	Closed       bool     `json:"closed"`
}

// Open starts a new conversation in the intake phase.
// POST /conversations
func (h *ConversationHandler) Open(w http.ResponseWriter, r *http.Request) {
	s := session.New()
	if err := h.store.Save(r.Context(), s); err != nil {
		h.logger.Error("failed to save new session", "error", err)
		jsonError(w, "could not open conversation", http.StatusInternalServerError)
		return
	}
	h.metrics.SessionOpened()
	h.logger.Info("conversation opened", "session_id", s.ID)

	writeJSON(w, http.StatusCreated, ConversationResponse{
		SessionID: s.ID,
		Phase:     string(s.Phase),
		Prompt:    h.controller.EntryPrompt(s.Phase),
	})
}

// SubmitField applies one field update to a conversation. Submissions for
// the same session are serialized; concurrent callers wait their turn.
// POST /conversations/{id}/fields
func (h *ConversationHandler) SubmitField(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if id == "" {
		jsonError(w, "session id is required", http.StatusBadRequest)
		return
	}

	var req SubmitFieldRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		jsonError(w, "invalid JSON body", http.StatusBadRequest)
		return
	}
	req.Field = strings.TrimSpace(req.Field)
	if req.Field == "" {
		jsonError(w, "field is required", http.StatusBadRequest)
		return
	}

	release, err := h.guard.Acquire(r.Context(), id)
	if err != nil {
		jsonError(w, "conversation busy", http.StatusServiceUnavailable)
		return
	}
	forget := false
	defer func() {
		release()
		if forget {
			h.guard.Forget(id)
		}
	}()

	s, err := h.store.Get(r.Context(), id)
	if err != nil {
		if errors.Is(err, session.ErrNotFound) {
			jsonError(w, "conversation not found", http.StatusNotFound)
			return
		}
		h.logger.Error("failed to load session", "session_id", id, "error", err)
		jsonError(w, "could not load conversation", http.StatusInternalServerError)
		return
	}

	dir := h.controller.Submit(r.Context(), s, dialogue.Field(req.Field), req.Value)
	h.metrics.ObserveSubmission(string(s.Phase), string(dir.Kind))

	resp := ConversationResponse{
		SessionID:    s.ID,
		Phase:        string(s.Phase),
		Directive:    string(dir.Kind),
		Prompt:       dir.Message,
		Alternatives: dir.Alternatives,
	}

	if dir.Kind == dialogue.DirectiveAdvance {
		switch dir.Next {
		case dialogue.TargetScheduling:
			if err := s.Advance(session.PhaseScheduling); err != nil {
				h.logger.Error("phase advance failed", "session_id", s.ID, "error", err)
				jsonError(w, "could not advance conversation", http.StatusInternalServerError)
				return
			}
			resp.Phase = string(s.Phase)
			resp.Prompt = h.controller.EntryPrompt(s.Phase)
		case dialogue.TargetFinalize:
			out := h.pipeline.Finalize(r.Context(), s, func(_ context.Context, msg string) {
				resp.Notices = append(resp.Notices, msg)
			})
			h.metrics.ObserveFinalization(string(out.Result))
			resp.Phase = string(s.Phase)
			resp.Result = string(out.Result)
			resp.Prompt = out.Message
		}
	}

	if err := h.store.Save(r.Context(), s); err != nil {
		h.logger.Error("failed to save session", "session_id", s.ID, "error", err)
		jsonError(w, "could not save conversation", http.StatusInternalServerError)
		return
	}

	resp.Closed = s.Closed()
	if resp.Closed {
		h.metrics.SessionClosed()
		forget = true
	}

	writeJSON(w, http.StatusOK, resp)
}

// Abandon discards a conversation without booking anything.
// DELETE /conversations/{id}
func (h *ConversationHandler) Abandon(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if id == "" {
		jsonError(w, "session id is required", http.StatusBadRequest)
		return
	}

	// Abandoning contends with in-flight submissions like any other
	// operation; the delete must not interleave with a controller call.
	release, err := h.guard.Acquire(r.Context(), id)
	if err != nil {
		jsonError(w, "conversation busy", http.StatusServiceUnavailable)
		return
	}
	defer func() {
		release()
		h.guard.Forget(id)
	}()

	s, err := h.store.Get(r.Context(), id)
	if err != nil {
		if errors.Is(err, session.ErrNotFound) {
			// Nothing to tear down; abandoning twice is fine.
			w.WriteHeader(http.StatusNoContent)
			return
		}
		h.logger.Error("failed to load session", "session_id", id, "error", err)
		jsonError(w, "could not end conversation", http.StatusInternalServerError)
		return
	}

	if err := h.store.Delete(r.Context(), id); err != nil && !errors.Is(err, session.ErrNotFound) {
		h.logger.Error("failed to delete session", "session_id", id, "error", err)
		jsonError(w, "could not end conversation", http.StatusInternalServerError)
		return
	}
	// Sessions closed at finalize already left the gauge.
	if !s.Closed() {
		h.metrics.SessionClosed()
	}
	h.logger.Info("conversation abandoned", "session_id", id)

	w.WriteHeader(http.StatusNoContent)
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

func jsonError(w http.ResponseWriter, message string, status int) {
	writeJSON(w, status, map[string]string{"error": message})
}
