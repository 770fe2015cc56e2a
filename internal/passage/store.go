// Package passage stores document fragments with vector embeddings in
// PostgreSQL and retrieves the ones most relevant to a question via pgvector
// cosine search. Search results come back as narrative.FragmentRecord values
// in relevance order, ready for budgeted context assembly.
package passage

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/firebase/genkit/go/ai"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/pgvector/pgvector-go"
	"google.golang.org/genai"

	"github.com/lmeyers/treatybot/internal/log"
	"github.com/lmeyers/treatybot/internal/narrative"
)

var (
	// ErrEmptyQuestion indicates a search with no question text.
	ErrEmptyQuestion = errors.New("empty question")

	// ErrNoDocuments indicates a search with no document IDs to scope it.
	ErrNoDocuments = errors.New("no documents selected")
)

// searchTimeout bounds one embed-plus-vector-search round trip.
const searchTimeout = 10 * time.Second

// VectorDimension is the embedding width stored in the passages table. It
// must match the vector(...) column in the schema; Gemini embedding models
// are asked for exactly this many dimensions.
const VectorDimension int32 = 768

// Querier defines the database operations the store needs. The interface
// lives with its consumer; *Queries is the production implementation and
// tests supply mocks.
type Querier interface {
	UpsertPassage(ctx context.Context, arg UpsertPassageParams) error
	SearchPassages(ctx context.Context, arg SearchPassagesParams) ([]SearchPassagesRow, error)
	CountPassages(ctx context.Context) (int64, error)
	DeleteDocumentPassages(ctx context.Context, documentID string) (int64, error)
}

// Store manages indexed passages. Safe for concurrent use.
type Store struct {
	queries  Querier
	embedder ai.Embedder
	logger   log.Logger
}

// NewStore creates a Store. A nil logger falls back to a no-op logger.
func NewStore(querier Querier, embedder ai.Embedder, logger log.Logger) *Store {
	if logger == nil {
		logger = log.NewNop()
	}
	return &Store{
		queries:  querier,
		embedder: embedder,
		logger:   logger,
	}
}

// Upsert embeds the passage content and writes the row, replacing any
// previous passage with the same (document, sequence number) key.
func (s *Store) Upsert(ctx context.Context, p Passage) error {
	embedding, err := s.embed(ctx, p.Content)
	if err != nil {
		return fmt.Errorf("embedding passage %s/%d: %w", p.DocumentID, p.SequenceNumber, err)
	}

	err = s.queries.UpsertPassage(ctx, UpsertPassageParams{
		DocumentID:     p.DocumentID,
		DocumentTitle:  p.DocumentTitle,
		Header:         pgtype.Text{String: p.Header, Valid: p.Header != ""},
		SequenceNumber: int32(p.SequenceNumber),
		Content:        p.Content,
		Embedding:      embedding,
	})
	if err != nil {
		return fmt.Errorf("upserting passage %s/%d: %w", p.DocumentID, p.SequenceNumber, err)
	}

	s.logger.Debug("upserted passage",
		"document_id", p.DocumentID,
		"sequence_number", p.SequenceNumber,
		"content_length", len(p.Content))
	return nil
}

// Search embeds the question and returns the nearest passages within the
// selected documents as fragment records, most relevant first. Rows that
// fail validation are dropped with a warning rather than poisoning the
// whole result set.
func (s *Store) Search(ctx context.Context, question string, documentIDs []string, limit int) ([]narrative.FragmentRecord, error) {
	if question == "" {
		return nil, ErrEmptyQuestion
	}
	if len(documentIDs) == 0 {
		return nil, ErrNoDocuments
	}
	if limit <= 0 {
		return nil, fmt.Errorf("limit must be positive, got %d", limit)
	}

	queryCtx, cancel := context.WithTimeout(ctx, searchTimeout)
	defer cancel()

	embedding, err := s.embed(queryCtx, question)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			return nil, fmt.Errorf("question embedding timeout: %w", err)
		}
		return nil, fmt.Errorf("embedding question: %w", err)
	}

	rows, err := s.queries.SearchPassages(queryCtx, SearchPassagesParams{
		QueryEmbedding: embedding,
		DocumentIDs:    documentIDs,
		ResultLimit:    int32(limit),
	})
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			return nil, fmt.Errorf("search query timeout: %w", err)
		}
		return nil, fmt.Errorf("searching passages: %w", err)
	}

	records := make([]narrative.FragmentRecord, 0, len(rows))
	for _, row := range rows {
		rec := narrative.FragmentRecord{
			DocumentID:     row.DocumentID,
			DocumentTitle:  row.DocumentTitle,
			Header:         row.Header.String, // NULL scans as ""
			Content:        row.Content,
			SequenceNumber: int(row.SequenceNumber),
		}
		if err := rec.Validate(); err != nil {
			s.logger.Warn("dropping malformed passage row",
				"document_id", row.DocumentID,
				"sequence_number", row.SequenceNumber,
				"error", err)
			continue
		}
		records = append(records, rec)
	}
	return records, nil
}

// Count returns the number of indexed passages.
func (s *Store) Count(ctx context.Context) (int64, error) {
	count, err := s.queries.CountPassages(ctx)
	if err != nil {
		return 0, fmt.Errorf("counting passages: %w", err)
	}
	return count, nil
}

// DeleteDocument removes every passage of one document and reports how many
// rows went away.
func (s *Store) DeleteDocument(ctx context.Context, documentID string) (int64, error) {
	deleted, err := s.queries.DeleteDocumentPassages(ctx, documentID)
	if err != nil {
		return 0, fmt.Errorf("deleting passages of document %q: %w", documentID, err)
	}
	s.logger.Debug("deleted document passages", "document_id", documentID, "rows", deleted)
	return deleted, nil
}

// embed turns text into a pgvector value via the configured embedder.
func (s *Store) embed(ctx context.Context, text string) (*pgvector.Vector, error) {
	dim := VectorDimension
	resp, err := s.embedder.Embed(ctx, &ai.EmbedRequest{
		Input: []*ai.Document{
			{Content: []*ai.Part{ai.NewTextPart(text)}},
		},
		Options: &genai.EmbedContentConfig{OutputDimensionality: &dim},
	})
	if err != nil {
		return nil, err
	}
	if len(resp.Embeddings) == 0 || len(resp.Embeddings[0].Embedding) == 0 {
		return nil, errors.New("embedder returned empty embedding")
	}
	v := pgvector.NewVector(resp.Embeddings[0].Embedding)
	return &v, nil
}
