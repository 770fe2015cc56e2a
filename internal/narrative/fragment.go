package narrative

import (
	"errors"
	"fmt"
)

var (
	// ErrOverflow signals that ingesting a fragment would exceed the token
	// budget. It is expected control flow, not a fault: callers stop feeding
	// the builder on the first occurrence.
	ErrOverflow = errors.New("token budget exceeded")

	// ErrMalformedFragment indicates a fragment missing required fields.
	ErrMalformedFragment = errors.New("malformed fragment")

	// ErrInvalidBudget indicates a non-positive token budget at construction.
	ErrInvalidBudget = errors.New("token budget must be positive")
)

// FragmentRecord is one retrieved chunk of source-document text, as produced
// by the ingestion pipeline and returned by vector search. Records are
// immutable once received.
type FragmentRecord struct {
	// DocumentID identifies the source document, unique per document.
	DocumentID string

	// DocumentTitle is the display name of the source document.
	DocumentTitle string

	// Header is the section label this fragment appeared under. Empty means
	// the fragment had no header; empty is the canonical no-header value.
	Header string

	// Content is the fragment's body text.
	Content string

	// SequenceNumber is the fragment's original position within its
	// document, assigned by the ingestion pipeline. Strictly increasing per
	// document, but only "non-decreasing within a document" may be assumed:
	// the corpus contains headers that repeat across non-contiguous ranges.
	SequenceNumber int
}

// Validate checks the fields retrieval is required to supply. The builder
// rejects malformed fragments outright rather than defaulting fields; the
// only normalization applied anywhere is the empty-header canonicalization.
func (f FragmentRecord) Validate() error {
	switch {
	case f.DocumentID == "":
		return fmt.Errorf("%w: empty document ID", ErrMalformedFragment)
	case f.DocumentTitle == "":
		return fmt.Errorf("%w: empty document title (document %s)", ErrMalformedFragment, f.DocumentID)
	case f.Content == "":
		return fmt.Errorf("%w: empty content (document %s)", ErrMalformedFragment, f.DocumentID)
	case f.SequenceNumber < 0:
		return fmt.Errorf("%w: negative sequence number %d (document %s)", ErrMalformedFragment, f.SequenceNumber, f.DocumentID)
	}
	return nil
}
