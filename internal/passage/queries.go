package passage

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// DBTX abstracts the pgx execution surface so Queries runs against a
// *pgxpool.Pool in production and a transaction in tests.
type DBTX interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// Queries is the pgx-backed implementation of the Querier interface.
type Queries struct {
	db DBTX
}

// NewQueries creates a Queries bound to the given connection source.
func NewQueries(db DBTX) *Queries {
	return &Queries{db: db}
}

const upsertPassageSQL = `
INSERT INTO passages (document_id, document_title, header, sequence_number, content, embedding)
VALUES ($1, $2, $3, $4, $5, $6)
ON CONFLICT (document_id, sequence_number)
DO UPDATE SET
    document_title = EXCLUDED.document_title,
    header = EXCLUDED.header,
    content = EXCLUDED.content,
    embedding = EXCLUDED.embedding
`

// UpsertPassage inserts or replaces one passage row keyed by
// (document_id, sequence_number).
func (q *Queries) UpsertPassage(ctx context.Context, arg UpsertPassageParams) error {
	_, err := q.db.Exec(ctx, upsertPassageSQL,
		arg.DocumentID,
		arg.DocumentTitle,
		arg.Header,
		arg.SequenceNumber,
		arg.Content,
		arg.Embedding,
	)
	return err
}

const searchPassagesSQL = `
SELECT document_id, document_title, header, sequence_number, content,
       embedding <=> $1 AS distance
FROM passages
WHERE document_id = ANY($2)
ORDER BY embedding <=> $1
LIMIT $3
`

// SearchPassages returns the passages nearest to the query embedding,
// restricted to the given document IDs, ordered by cosine distance.
func (q *Queries) SearchPassages(ctx context.Context, arg SearchPassagesParams) ([]SearchPassagesRow, error) {
	rows, err := q.db.Query(ctx, searchPassagesSQL,
		arg.QueryEmbedding,
		arg.DocumentIDs,
		arg.ResultLimit,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var results []SearchPassagesRow
	for rows.Next() {
		var r SearchPassagesRow
		if err := rows.Scan(
			&r.DocumentID,
			&r.DocumentTitle,
			&r.Header,
			&r.SequenceNumber,
			&r.Content,
			&r.Distance,
		); err != nil {
			return nil, err
		}
		results = append(results, r)
	}
	return results, rows.Err()
}

const countPassagesSQL = `SELECT COUNT(*) FROM passages`

// CountPassages returns the total number of indexed passages.
func (q *Queries) CountPassages(ctx context.Context) (int64, error) {
	var count int64
	err := q.db.QueryRow(ctx, countPassagesSQL).Scan(&count)
	return count, err
}

const deleteDocumentPassagesSQL = `DELETE FROM passages WHERE document_id = $1`

// DeleteDocumentPassages removes every passage of one document. The indexer
// calls this before re-ingesting a document so stale fragments never mix
// with the fresh ones.
func (q *Queries) DeleteDocumentPassages(ctx context.Context, documentID string) (int64, error) {
	tag, err := q.db.Exec(ctx, deleteDocumentPassagesSQL, documentID)
	if err != nil {
		return 0, err
	}
	return tag.RowsAffected(), nil
}
