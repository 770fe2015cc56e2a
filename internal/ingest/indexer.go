package ingest

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"golang.org/x/time/rate"

	"github.com/lmeyers/treatybot/internal/corpus"
	"github.com/lmeyers/treatybot/internal/log"
	"github.com/lmeyers/treatybot/internal/passage"
)

// embedRequestsPerMinute caps how fast the indexer writes passages, since
// every upsert costs one embedding API call.
const embedRequestsPerMinute = 2000

// Upserter is the slice of the passage store the indexer writes through.
type Upserter interface {
	Upsert(ctx context.Context, p passage.Passage) error
	DeleteDocument(ctx context.Context, documentID string) (int64, error)
}

// Indexer chunks documents and loads them into the passage store.
type Indexer struct {
	store   Upserter
	chunker *Chunker
	limiter *rate.Limiter
	logger  log.Logger
}

// NewIndexer creates an Indexer. A nil logger falls back to a no-op logger.
func NewIndexer(store Upserter, counter TokenCounter, logger log.Logger) *Indexer {
	if logger == nil {
		logger = log.NewNop()
	}
	return &Indexer{
		store:   store,
		chunker: NewChunker(counter),
		limiter: rate.NewLimiter(rate.Limit(float64(embedRequestsPerMinute)/60.0), 1),
		logger:  logger,
	}
}

// IndexDocument replaces one document's passages with chunks cut from the
// given Science Parse JSON. Existing passages of the document are removed
// first so a re-index never leaves stale fragments behind. Returns the
// number of passages written.
func (ix *Indexer) IndexDocument(ctx context.Context, entry corpus.ManifestEntry, r io.Reader) (int, error) {
	chunks, err := ix.chunker.Chunks(r)
	if err != nil {
		return 0, fmt.Errorf("chunking document %q: %w", entry.DocumentID, err)
	}

	deleted, err := ix.store.DeleteDocument(ctx, entry.DocumentID)
	if err != nil {
		return 0, fmt.Errorf("clearing document %q: %w", entry.DocumentID, err)
	}
	if deleted > 0 {
		ix.logger.Info("replacing indexed document",
			"document_id", entry.DocumentID, "previous_passages", deleted)
	}

	for i, chunk := range chunks {
		if err := ix.limiter.Wait(ctx); err != nil {
			return i, fmt.Errorf("rate limit wait: %w", err)
		}

		err := ix.store.Upsert(ctx, passage.Passage{
			DocumentID:     entry.DocumentID,
			DocumentTitle:  entry.Title,
			Header:         chunk.Header,
			SequenceNumber: i,
			Content:        chunk.Content,
		})
		if err != nil {
			return i, fmt.Errorf("indexing chunk %d of document %q: %w", i, entry.DocumentID, err)
		}

		if i%100 == 0 {
			ix.logger.Debug("indexing progress",
				"document_id", entry.DocumentID, "chunks_written", i)
		}
	}

	ix.logger.Info("indexed document",
		"document_id", entry.DocumentID, "title", entry.Title, "passages", len(chunks))
	return len(chunks), nil
}

// IndexDirectory indexes every document listed in the manifest, expecting
// each document's Science Parse output at <dir>/<document_id>.pdf.json.
// Returns the total number of passages written.
func (ix *Indexer) IndexDirectory(ctx context.Context, manifestPath, documentsDir string) (int, error) {
	f, err := os.Open(manifestPath)
	if err != nil {
		return 0, fmt.Errorf("opening manifest: %w", err)
	}
	defer f.Close()

	entries, err := corpus.ReadManifest(f)
	if err != nil {
		return 0, fmt.Errorf("reading manifest: %w", err)
	}

	total := 0
	for _, entry := range entries {
		path := filepath.Join(documentsDir, entry.DocumentID+".pdf.json")
		doc, err := os.Open(path)
		if err != nil {
			return total, fmt.Errorf("opening document %q: %w", entry.DocumentID, err)
		}

		n, err := ix.IndexDocument(ctx, entry, doc)
		doc.Close()
		if err != nil {
			return total + n, err
		}
		total += n
	}
	return total, nil
}
