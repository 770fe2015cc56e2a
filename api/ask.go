package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/firebase/genkit/go/genkit"

	"github.com/lmeyers/treatybot/internal/answer"
	"github.com/lmeyers/treatybot/internal/corpus"
	"github.com/lmeyers/treatybot/internal/log"
	"github.com/lmeyers/treatybot/internal/passage"
)

// Answerer runs the question pipeline. *answer.Pipeline implements it.
type Answerer interface {
	Answer(ctx context.Context, req answer.Request) (answer.Response, error)
}

// AskHandler handles question answering endpoints.
//
// POST /api/ask accepts either explicit document IDs or document group
// indices (matching GET /api/documents) and applies the default temperature
// when none is given. POST /api/answer exposes the raw Genkit flow for
// tooling that speaks the flow wire format.
type AskHandler struct {
	pipeline           Answerer
	flow               *answer.Flow
	defaultTemperature float64
	logger             log.Logger
}

// NewAskHandler creates a new ask handler.
func NewAskHandler(pipeline Answerer, flow *answer.Flow, defaultTemperature float64, logger log.Logger) *AskHandler {
	return &AskHandler{
		pipeline:           pipeline,
		flow:               flow,
		defaultTemperature: defaultTemperature,
		logger:             logger,
	}
}

// RegisterRoutes registers ask routes on the given mux.
func (h *AskHandler) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("POST /api/ask", h.handleAsk)
	if h.flow != nil {
		mux.Handle("POST /api/answer", genkit.Handler(h.flow))
	}
}

// askRequest is the request payload for POST /api/ask.
type askRequest struct {
	Question string `json:"question"`

	// Exactly one way of selecting documents: explicit IDs, or indices
	// into the groups returned by GET /api/documents.
	DocumentIDs  []string `json:"documentIds,omitempty"`
	GroupIndices []int    `json:"groupIndices,omitempty"`

	// Temperature defaults to the server's configured value when omitted.
	Temperature *float64 `json:"temperature,omitempty"`
}

func (h *AskHandler) handleAsk(w http.ResponseWriter, r *http.Request) {
	var req askRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "INVALID_REQUEST", "invalid JSON body: "+err.Error())
		return
	}

	if req.Question == "" {
		writeError(w, http.StatusBadRequest, "MISSING_QUESTION", "question is required")
		return
	}
	if len(req.DocumentIDs) > 0 && len(req.GroupIndices) > 0 {
		writeError(w, http.StatusBadRequest, "AMBIGUOUS_SELECTION", "provide documentIds or groupIndices, not both")
		return
	}

	documentIDs := req.DocumentIDs
	if len(documentIDs) == 0 {
		ids, err := corpus.DocumentIDs(req.GroupIndices)
		if err != nil {
			writeError(w, http.StatusBadRequest, "INVALID_GROUP", err.Error())
			return
		}
		documentIDs = ids
	}
	if len(documentIDs) == 0 {
		writeError(w, http.StatusBadRequest, "NO_DOCUMENTS", "no documents selected")
		return
	}

	temperature := h.defaultTemperature
	if req.Temperature != nil {
		if *req.Temperature < 0 || *req.Temperature > 1 {
			writeError(w, http.StatusBadRequest, "INVALID_TEMPERATURE", "temperature must be in [0, 1]")
			return
		}
		temperature = *req.Temperature
	}

	resp, err := h.pipeline.Answer(r.Context(), answer.Request{
		Question:    req.Question,
		DocumentIDs: documentIDs,
		Temperature: temperature,
	})
	if err != nil {
		switch {
		case errors.Is(err, answer.ErrEmptyQuestion),
			errors.Is(err, passage.ErrEmptyQuestion),
			errors.Is(err, passage.ErrNoDocuments):
			writeError(w, http.StatusBadRequest, "INVALID_REQUEST", err.Error())
		default:
			h.logger.Error("answer pipeline failed", "error", err)
			writeError(w, http.StatusInternalServerError, "ANSWER_FAILED", "failed to answer the question")
		}
		return
	}

	// Query audit trail: enough to reproduce the answer later.
	h.logger.Info("question answered",
		"question", req.Question,
		"documents", len(documentIDs),
		"temperature", temperature,
		"answer_length", len(resp.Answer))

	writeJSON(w, http.StatusOK, resp)
}
