package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lmeyers/treatybot/internal/feedback"
	"github.com/lmeyers/treatybot/internal/log"
)

// mockFeedbackQuerier backs a real feedback.Store in handler tests.
type mockFeedbackQuerier struct {
	inserted  []feedback.InsertFeedbackParams
	insertErr error

	listEntries []feedback.Entry
	listLimit   int32
	listErr     error
}

func (m *mockFeedbackQuerier) InsertFeedback(_ context.Context, arg feedback.InsertFeedbackParams) error {
	if m.insertErr != nil {
		return m.insertErr
	}
	m.inserted = append(m.inserted, arg)
	return nil
}

func (m *mockFeedbackQuerier) ListFeedback(_ context.Context, limit int32) ([]feedback.Entry, error) {
	m.listLimit = limit
	return m.listEntries, m.listErr
}

func newFeedbackMux(querier feedback.Querier) *http.ServeMux {
	store := feedback.NewStore(querier, log.NewNop())
	h := NewFeedbackHandler(store, log.NewNop())
	mux := http.NewServeMux()
	h.RegisterRoutes(mux)
	return mux
}

func postFeedback(t *testing.T, mux *http.ServeMux, body any) *httptest.ResponseRecorder {
	t.Helper()
	raw, err := json.Marshal(body)
	require.NoError(t, err)
	req := httptest.NewRequest(http.MethodPost, "/api/feedback", bytes.NewReader(raw))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	mux.ServeHTTP(w, req)
	return w
}

func TestFeedbackHandler_Record(t *testing.T) {
	t.Parallel()

	querier := &mockFeedbackQuerier{}
	mux := newFeedbackMux(querier)

	w := postFeedback(t, mux, feedback.Entry{
		Question:    "What about fish stocks?",
		Answer:      "They are covered in article 5.",
		DocumentIDs: []string{"0", "5"},
		Temperature: 0.2,
		Tags:        []string{feedback.TagGood},
		Reviewer:    "reviewer@example.org",
	})

	require.Equal(t, http.StatusCreated, w.Code)

	var created feedbackCreated
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &created))
	assert.NotEqual(t, uuid.Nil, created.ID)

	require.Len(t, querier.inserted, 1)
	assert.Equal(t, created.ID, querier.inserted[0].ID)
	assert.Equal(t, []string{feedback.TagGood}, querier.inserted[0].Tags)
}

func TestFeedbackHandler_RecordValidation(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		entry feedback.Entry
	}{
		{
			name:  "missing question",
			entry: feedback.Entry{Answer: "a", Tags: []string{feedback.TagGood}},
		},
		{
			name:  "unknown tag",
			entry: feedback.Entry{Question: "q", Answer: "a", Tags: []string{"Amazing"}},
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			querier := &mockFeedbackQuerier{}
			mux := newFeedbackMux(querier)

			w := postFeedback(t, mux, tc.entry)

			assert.Equal(t, http.StatusBadRequest, w.Code)
			assert.Contains(t, w.Body.String(), "INVALID_FEEDBACK")
			assert.Empty(t, querier.inserted)
		})
	}
}

func TestFeedbackHandler_RecordInsertFailure(t *testing.T) {
	t.Parallel()

	querier := &mockFeedbackQuerier{insertErr: errors.New("connection reset")}
	mux := newFeedbackMux(querier)

	w := postFeedback(t, mux, feedback.Entry{Question: "q", Answer: "a"})

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Contains(t, w.Body.String(), "FEEDBACK_FAILED")
}

func TestFeedbackHandler_RecordInvalidJSON(t *testing.T) {
	t.Parallel()

	mux := newFeedbackMux(&mockFeedbackQuerier{})

	req := httptest.NewRequest(http.MethodPost, "/api/feedback", bytes.NewReader([]byte("not json")))
	w := httptest.NewRecorder()
	mux.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "INVALID_REQUEST")
}

func TestFeedbackHandler_List(t *testing.T) {
	t.Parallel()

	entries := []feedback.Entry{
		{
			ID:        uuid.New(),
			Question:  "q",
			Answer:    "a",
			Tags:      []string{feedback.TagWrong},
			CreatedAt: time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC),
		},
	}
	querier := &mockFeedbackQuerier{listEntries: entries}
	mux := newFeedbackMux(querier)

	req := httptest.NewRequest(http.MethodGet, "/api/feedback", nil)
	w := httptest.NewRecorder()
	mux.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, int32(defaultFeedbackLimit), querier.listLimit)

	var got []feedback.Entry
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &got))
	require.Len(t, got, 1)
	assert.Equal(t, entries[0].ID, got[0].ID)
	assert.Equal(t, entries[0].Tags, got[0].Tags)
}

func TestFeedbackHandler_ListCustomLimit(t *testing.T) {
	t.Parallel()

	querier := &mockFeedbackQuerier{}
	mux := newFeedbackMux(querier)

	req := httptest.NewRequest(http.MethodGet, "/api/feedback?limit=5", nil)
	w := httptest.NewRecorder()
	mux.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, int32(5), querier.listLimit)
	// nil result serializes as an empty array, not null
	assert.Equal(t, "[]\n", w.Body.String())
}

func TestFeedbackHandler_ListInvalidLimit(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		query string
	}{
		{"not a number", "limit=abc"},
		{"zero", "limit=0"},
		{"negative", "limit=-1"},
		{"too large", "limit=100000"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			mux := newFeedbackMux(&mockFeedbackQuerier{})

			req := httptest.NewRequest(http.MethodGet, "/api/feedback?"+tc.query, nil)
			w := httptest.NewRecorder()
			mux.ServeHTTP(w, req)

			assert.Equal(t, http.StatusBadRequest, w.Code)
			assert.Contains(t, w.Body.String(), "INVALID_LIMIT")
		})
	}
}

func TestFeedbackHandler_ListFailure(t *testing.T) {
	t.Parallel()

	querier := &mockFeedbackQuerier{listErr: errors.New("connection reset")}
	mux := newFeedbackMux(querier)

	req := httptest.NewRequest(http.MethodGet, "/api/feedback", nil)
	w := httptest.NewRecorder()
	mux.ServeHTTP(w, req)

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Contains(t, w.Body.String(), "LIST_FAILED")
}

func TestFeedbackHandler_NilStoreSkipsRoutes(t *testing.T) {
	t.Parallel()

	h := NewFeedbackHandler(nil, log.NewNop())
	mux := http.NewServeMux()
	h.RegisterRoutes(mux)

	req := httptest.NewRequest(http.MethodPost, "/api/feedback", nil)
	w := httptest.NewRecorder()
	mux.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNotFound, w.Code)
}
