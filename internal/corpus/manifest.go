package corpus

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
)

// ManifestEntry is one row of the document manifest: a document to index
// and the title to store alongside its passages.
type ManifestEntry struct {
	DocumentID string
	Title      string
}

// ErrManifestHeader indicates the manifest is missing the required columns.
var ErrManifestHeader = errors.New("manifest must have document_id and document_name columns")

// ReadManifest parses a document-manifest CSV. The file must carry a header
// row naming at least document_id and document_name; extra columns are
// ignored so the manifest can hold operator notes.
func ReadManifest(r io.Reader) ([]ManifestEntry, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1

	header, err := cr.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, ErrManifestHeader
		}
		return nil, fmt.Errorf("reading manifest header: %w", err)
	}

	idCol, titleCol := -1, -1
	for i, name := range header {
		switch name {
		case "document_id":
			idCol = i
		case "document_name":
			titleCol = i
		}
	}
	if idCol < 0 || titleCol < 0 {
		return nil, ErrManifestHeader
	}

	var entries []ManifestEntry
	for line := 2; ; line++ {
		record, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("reading manifest line %d: %w", line, err)
		}
		if idCol >= len(record) || titleCol >= len(record) {
			return nil, fmt.Errorf("manifest line %d: missing columns", line)
		}
		id, title := record[idCol], record[titleCol]
		if id == "" || title == "" {
			return nil, fmt.Errorf("manifest line %d: empty document_id or document_name", line)
		}
		entries = append(entries, ManifestEntry{DocumentID: id, Title: title})
	}
	return entries, nil
}
