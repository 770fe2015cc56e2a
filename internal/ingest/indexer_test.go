package ingest

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"golang.org/x/time/rate"

	"github.com/lmeyers/treatybot/internal/corpus"
	"github.com/lmeyers/treatybot/internal/log"
	"github.com/lmeyers/treatybot/internal/passage"
)

type mockUpserter struct {
	upsertErr error
	deleteErr error

	passages   []passage.Passage
	deletedIDs []string
}

func (m *mockUpserter) Upsert(ctx context.Context, p passage.Passage) error {
	if m.upsertErr != nil {
		return m.upsertErr
	}
	m.passages = append(m.passages, p)
	return nil
}

func (m *mockUpserter) DeleteDocument(ctx context.Context, documentID string) (int64, error) {
	if m.deleteErr != nil {
		return 0, m.deleteErr
	}
	m.deletedIDs = append(m.deletedIDs, documentID)
	return 0, nil
}

// newTestIndexer disables rate limiting and shrinks chunk thresholds.
func newTestIndexer(store Upserter) *Indexer {
	ix := NewIndexer(store, wordCounter{}, log.NewNop())
	ix.limiter = rate.NewLimiter(rate.Inf, 0)
	ix.chunker.sectionLimit = 5
	ix.chunker.mergeTarget = 3
	return ix
}

const twoSectionDoc = `{"metadata":{"sections":[
	{"heading":"Article 1","text":"first section"},
	{"heading":"Article 2","text":"second section"}
]}}`

func TestIndexDocument(t *testing.T) {
	t.Parallel()

	store := &mockUpserter{}
	ix := newTestIndexer(store)
	entry := corpus.ManifestEntry{DocumentID: "3", Title: "President's Draft"}

	n, err := ix.IndexDocument(context.Background(), entry, strings.NewReader(twoSectionDoc))
	if err != nil {
		t.Fatalf("IndexDocument: %v", err)
	}
	if n != 2 || len(store.passages) != 2 {
		t.Fatalf("wrote %d passages, want 2", len(store.passages))
	}

	if got := store.deletedIDs; len(got) != 1 || got[0] != "3" {
		t.Errorf("stale passages not cleared first: %v", got)
	}

	for i, p := range store.passages {
		if p.SequenceNumber != i {
			t.Errorf("passage %d sequence number = %d", i, p.SequenceNumber)
		}
		if p.DocumentID != "3" || p.DocumentTitle != "President's Draft" {
			t.Errorf("passage %d metadata = %+v", i, p)
		}
	}
	if store.passages[0].Header != "Article 1" || store.passages[1].Header != "Article 2" {
		t.Errorf("headers = %q, %q", store.passages[0].Header, store.passages[1].Header)
	}
}

func TestIndexDocumentUpsertFailure(t *testing.T) {
	t.Parallel()

	dbErr := errors.New("db down")
	ix := newTestIndexer(&mockUpserter{upsertErr: dbErr})
	entry := corpus.ManifestEntry{DocumentID: "3", Title: "t"}

	n, err := ix.IndexDocument(context.Background(), entry, strings.NewReader(twoSectionDoc))
	if !errors.Is(err, dbErr) {
		t.Errorf("got %v, want wrapped upsert error", err)
	}
	if n != 0 {
		t.Errorf("reported %d passages written before the failure", n)
	}
}

func TestIndexDocumentDeleteFailure(t *testing.T) {
	t.Parallel()

	delErr := errors.New("delete failed")
	ix := newTestIndexer(&mockUpserter{deleteErr: delErr})
	entry := corpus.ManifestEntry{DocumentID: "3", Title: "t"}

	if _, err := ix.IndexDocument(context.Background(), entry, strings.NewReader(twoSectionDoc)); !errors.Is(err, delErr) {
		t.Errorf("got %v, want wrapped delete error", err)
	}
}

func TestIndexDirectory(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	manifest := filepath.Join(dir, "document-manifest.csv")
	docs := filepath.Join(dir, "documents-json")
	if err := os.Mkdir(docs, 0o750); err != nil {
		t.Fatal(err)
	}

	writeFile(t, manifest, "document_id,document_name\n0,Final Agreement\n5,Earth Negotiations Bulletin\n")
	writeFile(t, filepath.Join(docs, "0.pdf.json"), twoSectionDoc)
	writeFile(t, filepath.Join(docs, "5.pdf.json"), `{"metadata":{"sections":[{"heading":null,"text":"bulletin text"}]}}`)

	store := &mockUpserter{}
	ix := newTestIndexer(store)

	total, err := ix.IndexDirectory(context.Background(), manifest, docs)
	if err != nil {
		t.Fatalf("IndexDirectory: %v", err)
	}
	if total != 3 {
		t.Errorf("total = %d, want 3", total)
	}

	var ids []string
	for _, p := range store.passages {
		ids = append(ids, p.DocumentID)
	}
	want := []string{"0", "0", "5"}
	for i := range want {
		if ids[i] != want[i] {
			t.Fatalf("document order = %v, want %v", ids, want)
		}
	}
}

func TestIndexDirectoryMissingDocument(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	manifest := filepath.Join(dir, "document-manifest.csv")
	writeFile(t, manifest, "document_id,document_name\n9,Ghost Document\n")

	ix := newTestIndexer(&mockUpserter{})
	if _, err := ix.IndexDirectory(context.Background(), manifest, dir); err == nil {
		t.Error("missing document file accepted")
	}
}

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatal(err)
	}
}
