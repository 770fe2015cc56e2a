// Package ingest builds the passage index from Science Parse output. Each
// document arrives as a JSON file of sections; sections are broken or merged
// into retrieval-sized chunks and written to the passage store, throttled to
// respect embedding API rate limits.
package ingest

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
)

// TokenCounter reports how many tokens a string costs. *token.Counter
// implements it.
type TokenCounter interface {
	Count(text string) int
}

// Chunk is one retrieval unit cut from a document section.
type Chunk struct {
	Header  string // section heading, "" when the section has none
	Content string
}

const (
	// defaultSectionLimit is the token count under which a section becomes
	// a single chunk.
	defaultSectionLimit = 200

	// defaultMergeTarget is the token count a merged run of paragraphs
	// must exceed before it is flushed as a chunk. Documents are full of
	// bulleted lists whose items parse as separate paragraphs; merging
	// keeps adjacent items in context.
	defaultMergeTarget = 100
)

// Chunker splits Science Parse sections into chunks.
type Chunker struct {
	counter      TokenCounter
	sectionLimit int
	mergeTarget  int
}

// NewChunker creates a Chunker with the standard size thresholds.
func NewChunker(counter TokenCounter) *Chunker {
	return &Chunker{
		counter:      counter,
		sectionLimit: defaultSectionLimit,
		mergeTarget:  defaultMergeTarget,
	}
}

// scienceParseFile mirrors the slice of Science Parse JSON output we read.
type scienceParseFile struct {
	Metadata struct {
		Sections []struct {
			Heading *string `json:"heading"` // null when the parser found no heading
			Text    string  `json:"text"`
		} `json:"sections"`
	} `json:"metadata"`
}

// Chunks reads one Science Parse JSON document and returns its chunks in
// document order. Short sections pass through whole; long sections are split
// on newlines and adjacent paragraphs merge until they exceed the merge
// target. Empty chunks are dropped.
func (c *Chunker) Chunks(r io.Reader) ([]Chunk, error) {
	var file scienceParseFile
	if err := json.NewDecoder(r).Decode(&file); err != nil {
		return nil, fmt.Errorf("decoding Science Parse JSON: %w", err)
	}

	var chunks []Chunk
	for _, section := range file.Metadata.Sections {
		header := ""
		if section.Heading != nil {
			header = *section.Heading
		}

		if c.counter.Count(section.Text) < c.sectionLimit {
			if content := strings.TrimSpace(section.Text); content != "" {
				chunks = append(chunks, Chunk{Header: header, Content: content})
			}
			continue
		}

		pending := ""
		for _, paragraph := range strings.Split(section.Text, "\n") {
			pending += "\n" + paragraph
			if c.counter.Count(pending) > c.mergeTarget {
				chunks = append(chunks, Chunk{Header: header, Content: strings.TrimSpace(pending)})
				pending = ""
			}
		}
		if content := strings.TrimSpace(pending); content != "" {
			chunks = append(chunks, Chunk{Header: header, Content: content})
		}
	}
	return chunks, nil
}
