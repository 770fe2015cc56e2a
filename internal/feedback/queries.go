package feedback

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// DBTX abstracts the pgx execution surface, matching the passage package.
type DBTX interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// InsertFeedbackParams carries one feedback row. CreatedAt is assigned by
// the database.
type InsertFeedbackParams struct {
	ID          uuid.UUID
	Question    string
	Answer      string
	DocumentIDs []string
	Temperature float64
	Tags        []string
	Comment     string
	Reviewer    string
}

// Queries is the pgx-backed implementation of the Querier interface.
type Queries struct {
	db DBTX
}

// NewQueries creates a Queries bound to the given connection source.
func NewQueries(db DBTX) *Queries {
	return &Queries{db: db}
}

const insertFeedbackSQL = `
INSERT INTO feedback (id, question, answer, document_ids, temperature, tags, comment, reviewer)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
`

// InsertFeedback writes one feedback row.
func (q *Queries) InsertFeedback(ctx context.Context, arg InsertFeedbackParams) error {
	_, err := q.db.Exec(ctx, insertFeedbackSQL,
		arg.ID,
		arg.Question,
		arg.Answer,
		arg.DocumentIDs,
		arg.Temperature,
		arg.Tags,
		arg.Comment,
		arg.Reviewer,
	)
	return err
}

const listFeedbackSQL = `
SELECT id, question, answer, document_ids, temperature, tags, comment, reviewer, created_at
FROM feedback
ORDER BY created_at DESC
LIMIT $1
`

// ListFeedback returns the newest feedback entries.
func (q *Queries) ListFeedback(ctx context.Context, limit int32) ([]Entry, error) {
	rows, err := q.db.Query(ctx, listFeedbackSQL, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var entries []Entry
	for rows.Next() {
		var e Entry
		if err := rows.Scan(
			&e.ID,
			&e.Question,
			&e.Answer,
			&e.DocumentIDs,
			&e.Temperature,
			&e.Tags,
			&e.Comment,
			&e.Reviewer,
			&e.CreatedAt,
		); err != nil {
			return nil, err
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}
