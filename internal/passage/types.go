package passage

import (
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/pgvector/pgvector-go"
)

// Passage is one indexed fragment of a corpus document: the unit of
// retrieval. SequenceNumber preserves the fragment's position within its
// source document so neighbouring fragments can be recognised downstream.
type Passage struct {
	DocumentID     string
	DocumentTitle  string
	Header         string // "" when the fragment sits under no section heading
	SequenceNumber int
	Content        string
}

// UpsertPassageParams carries one row for insert-or-update.
type UpsertPassageParams struct {
	DocumentID     string
	DocumentTitle  string
	Header         pgtype.Text
	SequenceNumber int32
	Content        string
	Embedding      *pgvector.Vector
}

// SearchPassagesParams restricts a vector search to the given documents.
type SearchPassagesParams struct {
	QueryEmbedding *pgvector.Vector
	DocumentIDs    []string
	ResultLimit    int32
}

// SearchPassagesRow is one search hit ordered by ascending cosine distance.
type SearchPassagesRow struct {
	DocumentID     string
	DocumentTitle  string
	Header         pgtype.Text
	SequenceNumber int32
	Content        string
	Distance       float64
}
