package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/google/uuid"

	"github.com/lmeyers/treatybot/internal/feedback"
	"github.com/lmeyers/treatybot/internal/log"
)

const (
	// defaultFeedbackLimit applies to GET /api/feedback when no limit is given.
	defaultFeedbackLimit = 50

	// maxFeedbackLimit caps the limit query parameter.
	maxFeedbackLimit = 1000
)

// FeedbackHandler handles feedback endpoints.
type FeedbackHandler struct {
	store  *feedback.Store
	logger log.Logger
}

// NewFeedbackHandler creates a new feedback handler.
func NewFeedbackHandler(store *feedback.Store, logger log.Logger) *FeedbackHandler {
	return &FeedbackHandler{store: store, logger: logger}
}

// RegisterRoutes registers feedback routes on the given mux. With a nil
// store the endpoints are not registered.
func (h *FeedbackHandler) RegisterRoutes(mux *http.ServeMux) {
	if h.store == nil {
		return
	}
	mux.HandleFunc("POST /api/feedback", h.handleRecord)
	mux.HandleFunc("GET /api/feedback", h.handleList)
}

// feedbackCreated is the response payload for POST /api/feedback.
type feedbackCreated struct {
	ID uuid.UUID `json:"id"`
}

func (h *FeedbackHandler) handleRecord(w http.ResponseWriter, r *http.Request) {
	var entry feedback.Entry
	if err := json.NewDecoder(r.Body).Decode(&entry); err != nil {
		writeError(w, http.StatusBadRequest, "INVALID_REQUEST", "invalid JSON body: "+err.Error())
		return
	}

	id, err := h.store.Record(r.Context(), entry)
	if err != nil {
		switch {
		case errors.Is(err, feedback.ErrMissingQuestion), errors.Is(err, feedback.ErrUnknownTag):
			writeError(w, http.StatusBadRequest, "INVALID_FEEDBACK", err.Error())
		default:
			h.logger.Error("recording feedback failed", "error", err)
			writeError(w, http.StatusInternalServerError, "FEEDBACK_FAILED", "failed to record feedback")
		}
		return
	}

	writeJSON(w, http.StatusCreated, feedbackCreated{ID: id})
}

func (h *FeedbackHandler) handleList(w http.ResponseWriter, r *http.Request) {
	limit := defaultFeedbackLimit
	if raw := r.URL.Query().Get("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed <= 0 || parsed > maxFeedbackLimit {
			writeError(w, http.StatusBadRequest, "INVALID_LIMIT",
				"limit must be an integer between 1 and "+strconv.Itoa(maxFeedbackLimit))
			return
		}
		limit = parsed
	}

	entries, err := h.store.List(r.Context(), limit)
	if err != nil {
		h.logger.Error("listing feedback failed", "error", err)
		writeError(w, http.StatusInternalServerError, "LIST_FAILED", "failed to list feedback")
		return
	}
	if entries == nil {
		entries = []feedback.Entry{}
	}
	writeJSON(w, http.StatusOK, entries)
}
