package api

import (
	"net/http"

	"github.com/lmeyers/treatybot/internal/corpus"
)

// DocumentsHandler serves the document selection groups. The group order is
// stable, so clients can send positional groupIndices to POST /api/ask.
type DocumentsHandler struct{}

// NewDocumentsHandler creates a new documents handler.
func NewDocumentsHandler() *DocumentsHandler {
	return &DocumentsHandler{}
}

// RegisterRoutes registers document routes on the given mux.
func (h *DocumentsHandler) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("GET /api/documents", h.handleList)
}

// documentGroup is one selectable group with its positional index.
type documentGroup struct {
	Index       int      `json:"index"`
	Label       string   `json:"label"`
	DocumentIDs []string `json:"documentIds"`
}

func (h *DocumentsHandler) handleList(w http.ResponseWriter, _ *http.Request) {
	groups := make([]documentGroup, len(corpus.Groups))
	for i, g := range corpus.Groups {
		groups[i] = documentGroup{
			Index:       i,
			Label:       g.Label,
			DocumentIDs: g.DocumentIDs,
		}
	}
	writeJSON(w, http.StatusOK, groups)
}
