// Package feedback records reviewer judgments on generated answers. Each
// entry captures the full question context so an answer can be reproduced
// later: the question, the answer, which documents were searched and at what
// temperature, plus the reviewer's tags and comments.
package feedback

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/lmeyers/treatybot/internal/log"
)

// Valid feedback tags. Reviewers can combine several on one entry.
const (
	TagGood      = "Good"
	TagWrong     = "Wrong"
	TagBiased    = "Biased"
	TagUnhelpful = "Unhelpful"
)

var (
	// ErrUnknownTag indicates a tag outside the fixed set.
	ErrUnknownTag = errors.New("unknown feedback tag")

	// ErrMissingQuestion indicates feedback without its question or answer.
	ErrMissingQuestion = errors.New("feedback requires the question and answer")
)

var validTags = map[string]struct{}{
	TagGood:      {},
	TagWrong:     {},
	TagBiased:    {},
	TagUnhelpful: {},
}

// Entry is one reviewer judgment on one answer.
type Entry struct {
	ID          uuid.UUID `json:"id"`
	Question    string    `json:"question"`
	Answer      string    `json:"answer"`
	DocumentIDs []string  `json:"documentIds"`
	Temperature float64   `json:"temperature"`
	Tags        []string  `json:"tags"`
	Comment     string    `json:"comment"`
	Reviewer    string    `json:"reviewer"`
	CreatedAt   time.Time `json:"createdAt"`
}

// Validate checks the entry before storage.
func (e *Entry) Validate() error {
	if e.Question == "" || e.Answer == "" {
		return ErrMissingQuestion
	}
	for _, tag := range e.Tags {
		if _, ok := validTags[tag]; !ok {
			return fmt.Errorf("%w: %q", ErrUnknownTag, tag)
		}
	}
	return nil
}

// Querier defines the database operations the store needs.
type Querier interface {
	InsertFeedback(ctx context.Context, arg InsertFeedbackParams) error
	ListFeedback(ctx context.Context, limit int32) ([]Entry, error)
}

// Store persists feedback entries. Safe for concurrent use.
type Store struct {
	queries Querier
	logger  log.Logger
}

// NewStore creates a Store. A nil logger falls back to a no-op logger.
func NewStore(querier Querier, logger log.Logger) *Store {
	if logger == nil {
		logger = log.NewNop()
	}
	return &Store{queries: querier, logger: logger}
}

// Record validates and saves one feedback entry, assigning its ID and
// timestamp. The assigned ID is returned.
func (s *Store) Record(ctx context.Context, e Entry) (uuid.UUID, error) {
	if err := e.Validate(); err != nil {
		return uuid.Nil, err
	}

	id := uuid.New()
	err := s.queries.InsertFeedback(ctx, InsertFeedbackParams{
		ID:          id,
		Question:    e.Question,
		Answer:      e.Answer,
		DocumentIDs: e.DocumentIDs,
		Temperature: e.Temperature,
		Tags:        e.Tags,
		Comment:     e.Comment,
		Reviewer:    e.Reviewer,
	})
	if err != nil {
		return uuid.Nil, fmt.Errorf("inserting feedback: %w", err)
	}

	s.logger.Info("recorded feedback",
		"id", id,
		"tags", e.Tags,
		"reviewer", e.Reviewer)
	return id, nil
}

// List returns the most recent feedback entries, newest first.
func (s *Store) List(ctx context.Context, limit int) ([]Entry, error) {
	const maxListLimit = 1000
	if limit <= 0 || limit > maxListLimit {
		return nil, fmt.Errorf("limit must be between 1 and %d, got %d", maxListLimit, limit)
	}
	entries, err := s.queries.ListFeedback(ctx, int32(limit))
	if err != nil {
		return nil, fmt.Errorf("listing feedback: %w", err)
	}
	return entries, nil
}
